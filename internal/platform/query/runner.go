package query

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Phase is the lifecycle state of a Runner. Exactly one of the three holds at
// any observed instant: a runner is loading, or holds data, or holds an error.
type Phase int

const (
	Loading Phase = iota
	Ready
	Failed
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Snapshot is an immutable view of a Runner's state. Data is meaningful only
// in the Ready phase, Err only in the Failed phase.
type Snapshot[T any] struct {
	Phase Phase
	Data  T
	Err   error
}

// QueryFunc produces the runner's value for the current dependency list.
type QueryFunc[T any] func(ctx context.Context, deps []interface{}) (T, error)

// Runner executes a QueryFunc whenever its dependency list changes and tracks
// the result's lifecycle. Results arriving for a superseded dependency list,
// or after Close, are discarded: each fetch carries a token and only the
// holder of the current token may write state.
type Runner[T any] struct {
	// notifyMu is held across a state write and its delivery so subscribers
	// observe transitions in the order the writes were applied. It is always
	// acquired before mu and never while mu is held.
	notifyMu sync.Mutex

	mu      sync.Mutex
	fn      QueryFunc[T]
	deps    []interface{}
	token   uint64
	snap    Snapshot[T]
	subs    map[int]func(Snapshot[T])
	nextSub int
	ctx     context.Context
	started bool
	closed  bool
}

// NewRunner creates a Runner over fn with an initial dependency list.
// The first fetch does not begin until Start is called.
func NewRunner[T any](fn QueryFunc[T], deps ...interface{}) *Runner[T] {
	return &Runner[T]{
		fn:   fn,
		deps: deps,
		subs: make(map[int]func(Snapshot[T])),
		snap: Snapshot[T]{Phase: Loading},
	}
}

// Start begins the first fetch. Calling Start more than once has no effect.
func (r *Runner[T]) Start(ctx context.Context) {
	r.notifyMu.Lock()
	defer r.notifyMu.Unlock()
	r.mu.Lock()
	if r.started || r.closed {
		r.mu.Unlock()
		return
	}
	r.started = true
	r.ctx = ctx
	subs, snap, launch := r.prepareLocked()
	r.mu.Unlock()
	notify(subs, snap)
	launch()
}

// prepareLocked claims the next fetch token and moves the runner to Loading.
// Caller holds r.mu. The returned launch func starts the fetch goroutine;
// callers invoke it after delivering the Loading notification so observers
// always see Loading before the fetch's outcome.
func (r *Runner[T]) prepareLocked() ([]func(Snapshot[T]), Snapshot[T], func()) {
	r.token++
	tok := r.token
	r.snap = Snapshot[T]{Phase: Loading}

	deps := make([]interface{}, len(r.deps))
	copy(deps, r.deps)
	ctx := r.ctx

	launch := func() {
		go func() {
			data, err := r.fn(ctx, deps)

			r.notifyMu.Lock()
			defer r.notifyMu.Unlock()
			r.mu.Lock()
			if r.closed || tok != r.token {
				// A newer fetch superseded this one; its result is stale.
				r.mu.Unlock()
				return
			}
			if err != nil {
				r.snap = Snapshot[T]{Phase: Failed, Err: err}
			} else {
				r.snap = Snapshot[T]{Phase: Ready, Data: data}
			}
			subs, snap := r.subscribersLocked(), r.snap
			r.mu.Unlock()
			notify(subs, snap)
		}()
	}

	return r.subscribersLocked(), r.snap, launch
}

func (r *Runner[T]) subscribersLocked() []func(Snapshot[T]) {
	out := make([]func(Snapshot[T]), 0, len(r.subs))
	for _, fn := range r.subs {
		out = append(out, fn)
	}
	return out
}

func notify[T any](subs []func(Snapshot[T]), snap Snapshot[T]) {
	for _, fn := range subs {
		fn(snap)
	}
}

// SetDeps replaces the dependency list. When any element differs by shallow
// comparison a new fetch begins and the state returns to Loading; an
// identical list is a no-op.
func (r *Runner[T]) SetDeps(deps ...interface{}) {
	r.notifyMu.Lock()
	defer r.notifyMu.Unlock()
	r.mu.Lock()
	if r.closed || depsEqual(r.deps, deps) {
		r.mu.Unlock()
		return
	}
	r.deps = deps
	if !r.started {
		r.mu.Unlock()
		return
	}
	subs, snap, launch := r.prepareLocked()
	r.mu.Unlock()
	notify(subs, snap)
	launch()
}

// Refetch re-invokes the query for the current dependency list. Concurrent
// refetches are safe: only the newest one's result is applied.
func (r *Runner[T]) Refetch() {
	r.notifyMu.Lock()
	defer r.notifyMu.Unlock()
	r.mu.Lock()
	if r.closed || !r.started {
		r.mu.Unlock()
		return
	}
	subs, snap, launch := r.prepareLocked()
	r.mu.Unlock()
	notify(subs, snap)
	launch()
}

// Snapshot returns the current state.
func (r *Runner[T]) Snapshot() Snapshot[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap
}

// Subscribe registers fn to be called on every state transition, in the
// order the transitions were applied. fn runs on the delivering goroutine and
// must not call Start, SetDeps, or Refetch. The returned function cancels the
// subscription.
func (r *Runner[T]) Subscribe(fn func(Snapshot[T])) func() {
	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.subs, id)
		r.mu.Unlock()
	}
}

// Close abandons the runner. In-flight results arriving afterwards are
// discarded and no further fetches begin.
func (r *Runner[T]) Close() {
	r.mu.Lock()
	r.closed = true
	r.token++
	r.mu.Unlock()
}

// Wait blocks until the runner leaves the Loading phase or ctx is done, and
// returns the snapshot observed at that point.
func (r *Runner[T]) Wait(ctx context.Context) Snapshot[T] {
	ch := make(chan Snapshot[T], 1)
	cancel := r.Subscribe(func(s Snapshot[T]) {
		if s.Phase != Loading {
			select {
			case ch <- s:
			default:
			}
		}
	})
	defer cancel()

	if s := r.Snapshot(); s.Phase != Loading {
		return s
	}
	select {
	case s := <-ch:
		return s
	case <-ctx.Done():
		return r.Snapshot()
	}
}

func depsEqual(a, b []interface{}) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !depEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func depEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if !reflect.TypeOf(a).Comparable() || !reflect.TypeOf(b).Comparable() {
		return false
	}
	return a == b
}

// RecordRunner fetches a single row by id. An empty id resolves to Ready
// with no data and no error, without touching the data source: pages holding
// a not-yet-available id stay in a benign empty state instead of erroring.
type RecordRunner struct {
	*Runner[Row]
}

// NewRecordRunner creates a RecordRunner for the given resource and id.
func NewRecordRunner(ds DataSource, resource, id string) *RecordRunner {
	fn := func(ctx context.Context, deps []interface{}) (Row, error) {
		cur, _ := deps[0].(string)
		if cur == "" {
			return nil, nil
		}
		return ds.SelectOne(ctx, resource, cur)
	}
	return &RecordRunner{Runner: NewRunner(fn, id)}
}

// SetID switches the runner to a different record id.
func (r *RecordRunner) SetID(id string) {
	r.SetDeps(id)
}

// ListRunner fetches a filtered, ordered collection. The result is always a
// non-nil slice; no matches yield an empty slice.
type ListRunner struct {
	*Runner[[]Row]
	optsMu   sync.Mutex
	resource string
	opts     Options
}

// NewListRunner creates a ListRunner for the given resource and options.
func NewListRunner(ds DataSource, resource string, opts Options) *ListRunner {
	lr := &ListRunner{resource: resource, opts: opts}
	fn := func(ctx context.Context, _ []interface{}) ([]Row, error) {
		lr.optsMu.Lock()
		o := lr.opts
		lr.optsMu.Unlock()

		rows, err := ds.Select(ctx, resource, o)
		if err != nil {
			return nil, err
		}
		if rows == nil {
			rows = []Row{}
		}
		return rows, nil
	}
	lr.Runner = NewRunner(fn, optionDeps(resource, opts)...)
	return lr
}

// SetOptions replaces the list constraints, refetching when they differ.
func (lr *ListRunner) SetOptions(opts Options) {
	lr.optsMu.Lock()
	lr.opts = opts
	lr.optsMu.Unlock()
	lr.SetDeps(optionDeps(lr.resource, opts)...)
}

// optionDeps flattens Options into a dependency list with a stable order so
// shallow comparison detects any change to filters, sort, or paging.
func optionDeps(resource string, o Options) []interface{} {
	deps := []interface{}{resource, o.Limit, o.Offset}
	if o.OrderBy != nil {
		deps = append(deps, o.OrderBy.Field, o.OrderBy.Ascending)
	}
	keys := make([]string, 0, len(o.Filters))
	for k := range o.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		deps = append(deps, k, o.Filters[k])
	}
	pkeys := make([]string, 0, len(o.Prefix))
	for k := range o.Prefix {
		pkeys = append(pkeys, k)
	}
	sort.Strings(pkeys)
	for _, k := range pkeys {
		deps = append(deps, k, o.Prefix[k])
	}
	return deps
}
