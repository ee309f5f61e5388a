package query

import (
	"context"
	"testing"
)

func seedMedicines(s *MemorySource) {
	s.Seed("medicines", []Row{
		{"id": "m1", "name": "Paracetamol 500", "category": "fever", "price": 20.0},
		{"id": "m2", "name": "paracetamol 650", "category": "fever", "price": 30.0},
		{"id": "m3", "name": "Cetirizine", "category": "allergy", "price": 15.0},
	})
}

func TestMemorySource_FilterAndPrefix(t *testing.T) {
	s := NewMemorySource()
	seedMedicines(s)
	ctx := context.Background()

	rows, err := s.Select(ctx, "medicines", Options{
		Filters: map[string]interface{}{"category": "fever"},
		Prefix:  map[string]string{"name": "para"},
	})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	// Case matters for the data but not the match.
	rows, err = s.Select(ctx, "medicines", Options{
		Prefix: map[string]string{"name": "CETI"},
	})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(rows) != 1 || rows[0]["id"] != "m3" {
		t.Fatalf("expected only m3, got %v", rows)
	}
}

func TestMemorySource_EmptyPrefixSkipped(t *testing.T) {
	s := NewMemorySource()
	seedMedicines(s)

	rows, err := s.Select(context.Background(), "medicines", Options{
		Prefix: map[string]string{"name": ""},
	})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("empty prefix should match all rows, got %d", len(rows))
	}
}

func TestMemorySource_OrderLimitOffset(t *testing.T) {
	s := NewMemorySource()
	seedMedicines(s)
	ctx := context.Background()

	rows, err := s.Select(ctx, "medicines", Options{
		OrderBy: &OrderBy{Field: "price", Ascending: false},
		Limit:   2,
	})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(rows) != 2 || rows[0]["id"] != "m2" || rows[1]["id"] != "m1" {
		t.Fatalf("unexpected order %v", rows)
	}

	rows, err = s.Select(ctx, "medicines", Options{
		OrderBy: &OrderBy{Field: "price", Ascending: true},
		Offset:  2,
	})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(rows) != 1 || rows[0]["id"] != "m2" {
		t.Fatalf("unexpected page %v", rows)
	}
}

func TestMemorySource_SelectOneCardinality(t *testing.T) {
	s := NewMemorySource()
	s.Seed("vendors", []Row{
		{"id": "v1", "name": "Apollo"},
		{"id": "dup", "name": "A"},
		{"id": "dup", "name": "B"},
	})
	ctx := context.Background()

	if _, err := s.SelectOne(ctx, "vendors", "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.SelectOne(ctx, "vendors", "dup"); err != ErrMultipleRows {
		t.Fatalf("expected ErrMultipleRows, got %v", err)
	}
	row, err := s.SelectOne(ctx, "vendors", "v1")
	if err != nil {
		t.Fatalf("select one: %v", err)
	}
	if row["name"] != "Apollo" {
		t.Fatalf("unexpected row %v", row)
	}
}
