package query

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunner_SuccessLifecycle(t *testing.T) {
	r := NewRunner(func(ctx context.Context, deps []interface{}) (string, error) {
		return "payload", nil
	})

	if snap := r.Snapshot(); snap.Phase != Loading {
		t.Fatalf("expected Loading before Start, got %v", snap.Phase)
	}

	r.Start(context.Background())
	snap := r.Wait(context.Background())
	if snap.Phase != Ready {
		t.Fatalf("expected Ready, got %v (err %v)", snap.Phase, snap.Err)
	}
	if snap.Data != "payload" {
		t.Errorf("expected payload, got %q", snap.Data)
	}
	if snap.Err != nil {
		t.Errorf("expected nil error, got %v", snap.Err)
	}
}

func TestRunner_FailureLifecycle(t *testing.T) {
	r := NewRunner(func(ctx context.Context, deps []interface{}) (string, error) {
		return "", fmt.Errorf("connection refused")
	})
	r.Start(context.Background())

	snap := r.Wait(context.Background())
	if snap.Phase != Failed {
		t.Fatalf("expected Failed, got %v", snap.Phase)
	}
	if snap.Err == nil || snap.Err.Error() != "connection refused" {
		t.Errorf("expected error surfaced verbatim, got %v", snap.Err)
	}
	if snap.Data != "" {
		t.Errorf("expected data cleared on failure, got %q", snap.Data)
	}
}

func TestRunner_SetDepsRefetches(t *testing.T) {
	var calls int32
	r := NewRunner(func(ctx context.Context, deps []interface{}) (string, error) {
		atomic.AddInt32(&calls, 1)
		return deps[0].(string), nil
	}, "first")
	r.Start(context.Background())
	r.Wait(context.Background())

	r.SetDeps("second")
	snap := r.Wait(context.Background())
	if snap.Data != "second" {
		t.Errorf("expected result for new deps, got %q", snap.Data)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("expected 2 fetches, got %d", n)
	}
}

func TestRunner_SetDepsUnchangedIsNoop(t *testing.T) {
	var calls int32
	r := NewRunner(func(ctx context.Context, deps []interface{}) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "x", nil
	}, "same", 7)
	r.Start(context.Background())
	r.Wait(context.Background())

	r.SetDeps("same", 7)
	time.Sleep(20 * time.Millisecond)
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("expected no refetch for identical deps, got %d fetches", n)
	}
}

func TestRunner_StaleResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	oldDone := make(chan struct{})

	r := NewRunner(func(ctx context.Context, deps []interface{}) (string, error) {
		id := deps[0].(string)
		if id == "old" {
			<-release
			defer close(oldDone)
			return "old-result", nil
		}
		return "new-result", nil
	}, "old")
	r.Start(context.Background())

	// Supersede the in-flight fetch before it resolves.
	r.SetDeps("new")
	snap := r.Wait(context.Background())
	if snap.Data != "new-result" {
		t.Fatalf("expected new-result, got %q", snap.Data)
	}

	// Let the old fetch resolve late; its result must not clobber state.
	close(release)
	<-oldDone
	time.Sleep(20 * time.Millisecond)

	if snap := r.Snapshot(); snap.Data != "new-result" {
		t.Errorf("stale result overwrote newer state: %q", snap.Data)
	}
}

func TestRunner_CloseDiscardsLateResult(t *testing.T) {
	release := make(chan struct{})
	done := make(chan struct{})

	r := NewRunner(func(ctx context.Context, deps []interface{}) (string, error) {
		<-release
		defer close(done)
		return "late", nil
	})
	r.Start(context.Background())
	r.Close()

	close(release)
	<-done
	time.Sleep(20 * time.Millisecond)

	if snap := r.Snapshot(); snap.Phase != Loading {
		t.Errorf("expected state untouched after Close, got %v", snap.Phase)
	}
}

func TestRunner_RefetchAfterFailure(t *testing.T) {
	var calls int32
	r := NewRunner(func(ctx context.Context, deps []interface{}) (string, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return "", fmt.Errorf("transient")
		}
		return "recovered", nil
	})
	r.Start(context.Background())

	if snap := r.Wait(context.Background()); snap.Phase != Failed {
		t.Fatalf("expected first attempt to fail, got %v", snap.Phase)
	}

	r.Refetch()
	snap := r.Wait(context.Background())
	if snap.Phase != Ready || snap.Data != "recovered" {
		t.Errorf("expected recovery on refetch, got %v %q", snap.Phase, snap.Data)
	}
}

func TestRunner_SubscribeNotifies(t *testing.T) {
	r := NewRunner(func(ctx context.Context, deps []interface{}) (int, error) {
		return 42, nil
	})

	got := make(chan Snapshot[int], 4)
	cancel := r.Subscribe(func(s Snapshot[int]) { got <- s })
	defer cancel()

	r.Start(context.Background())

	select {
	case s := <-got:
		if s.Phase != Loading {
			t.Errorf("expected first notification Loading, got %v", s.Phase)
		}
	case <-time.After(time.Second):
		t.Fatal("no loading notification")
	}

	select {
	case s := <-got:
		if s.Phase != Ready || s.Data != 42 {
			t.Errorf("expected Ready(42), got %v %d", s.Phase, s.Data)
		}
	case <-time.After(time.Second):
		t.Fatal("no ready notification")
	}
}

func TestRunner_NotificationsMatchStateOrder(t *testing.T) {
	r := NewRunner(func(ctx context.Context, deps []interface{}) (string, error) {
		return deps[0].(string), nil
	}, "d0")

	// While a notification is being delivered the runner's state must equal
	// the delivered snapshot; a superseded Ready arriving after a newer
	// Loading would break that.
	type seen struct {
		delivered Snapshot[string]
		current   Snapshot[string]
	}
	var mu sync.Mutex
	var log []seen
	cancel := r.Subscribe(func(s Snapshot[string]) {
		mu.Lock()
		log = append(log, seen{delivered: s, current: r.Snapshot()})
		mu.Unlock()
	})
	defer cancel()

	r.Start(context.Background())
	for i := 0; i < 200; i++ {
		r.SetDeps(fmt.Sprintf("d%d", i%2+1))
	}
	r.Wait(context.Background())
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(log) == 0 {
		t.Fatal("no notifications delivered")
	}
	for i, s := range log {
		if s.delivered != s.current {
			t.Fatalf("notification %d delivered %+v while state was %+v", i, s.delivered, s.current)
		}
	}
}

func TestRecordRunner_ShortCircuitsOnEmptyID(t *testing.T) {
	ds := NewMemorySource()
	ds.Seed("medicines", []Row{{"id": "m1", "name": "Paracetamol"}})

	r := NewRecordRunner(ds, "medicines", "")
	r.Start(context.Background())

	snap := r.Wait(context.Background())
	if snap.Phase != Ready {
		t.Fatalf("expected Ready, got %v (err %v)", snap.Phase, snap.Err)
	}
	if snap.Data != nil {
		t.Errorf("expected nil data for empty id, got %v", snap.Data)
	}
	if ds.SelectOneCalls != 0 {
		t.Errorf("expected zero data source calls, got %d", ds.SelectOneCalls)
	}
}

func TestRecordRunner_FetchesWhenIDSet(t *testing.T) {
	ds := NewMemorySource()
	ds.Seed("medicines", []Row{{"id": "m1", "name": "Paracetamol"}})

	r := NewRecordRunner(ds, "medicines", "")
	r.Start(context.Background())
	r.Wait(context.Background())

	r.SetID("m1")
	snap := r.Wait(context.Background())
	if snap.Phase != Ready {
		t.Fatalf("expected Ready, got %v (err %v)", snap.Phase, snap.Err)
	}
	if snap.Data["name"] != "Paracetamol" {
		t.Errorf("unexpected record: %v", snap.Data)
	}
	if ds.SelectOneCalls != 1 {
		t.Errorf("expected one data source call, got %d", ds.SelectOneCalls)
	}
}

func TestRecordRunner_NotFoundSurfacesError(t *testing.T) {
	ds := NewMemorySource()
	r := NewRecordRunner(ds, "medicines", "missing")
	r.Start(context.Background())

	snap := r.Wait(context.Background())
	if snap.Phase != Failed {
		t.Fatalf("expected Failed for missing record, got %v", snap.Phase)
	}
}

func TestListRunner_EmptyResultIsEmptySlice(t *testing.T) {
	ds := NewMemorySource()
	r := NewListRunner(ds, "medicines", Options{
		Filters: map[string]interface{}{"category": "nonexistent"},
	})
	r.Start(context.Background())

	snap := r.Wait(context.Background())
	if snap.Phase != Ready {
		t.Fatalf("expected Ready, got %v", snap.Phase)
	}
	if snap.Data == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(snap.Data) != 0 {
		t.Errorf("expected no rows, got %d", len(snap.Data))
	}
}

func TestListRunner_SetOptionsRefetches(t *testing.T) {
	ds := NewMemorySource()
	ds.Seed("medicines", []Row{
		{"id": "m1", "category": "fever", "name": "Paracetamol"},
		{"id": "m2", "category": "cold", "name": "Cetirizine"},
	})

	r := NewListRunner(ds, "medicines", Options{
		Filters: map[string]interface{}{"category": "fever"},
	})
	r.Start(context.Background())

	snap := r.Wait(context.Background())
	if len(snap.Data) != 1 || snap.Data[0]["name"] != "Paracetamol" {
		t.Fatalf("unexpected first page: %v", snap.Data)
	}

	r.SetOptions(Options{Filters: map[string]interface{}{"category": "cold"}})
	snap = r.Wait(context.Background())
	if len(snap.Data) != 1 || snap.Data[0]["name"] != "Cetirizine" {
		t.Errorf("unexpected refetched page: %v", snap.Data)
	}
}
