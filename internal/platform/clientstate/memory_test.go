package clientstate

import (
	"context"
	"testing"
)

func TestMemoryStorageRoundTrip(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	got, err := s.Load(ctx, "missing")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing key, got %q", got)
	}

	if err := s.Save(ctx, "k", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err = s.Load(ctx, "k")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != `{"a":1}` {
		t.Fatalf("unexpected data: %q", got)
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, _ = s.Load(ctx, "k")
	if got != nil {
		t.Fatalf("expected deleted key to load nil, got %q", got)
	}
}

func TestMemoryStorageCopiesData(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	buf := []byte("original")
	if err := s.Save(ctx, "k", buf); err != nil {
		t.Fatalf("Save: %v", err)
	}
	buf[0] = 'X'

	got, _ := s.Load(ctx, "k")
	if string(got) != "original" {
		t.Fatalf("stored data aliased caller buffer: %q", got)
	}
}
