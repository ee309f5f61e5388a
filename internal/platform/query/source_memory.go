package query

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemorySource is an in-memory DataSource used in tests and local tooling.
// It applies the same filter/order/limit semantics as the Postgres source
// and counts calls so short-circuit behavior can be asserted.
type MemorySource struct {
	mu     sync.Mutex
	tables map[string][]Row

	SelectCalls    int
	SelectOneCalls int
	InsertCalls    int
	UpdateCalls    int
}

func NewMemorySource() *MemorySource {
	return &MemorySource{tables: make(map[string][]Row)}
}

var _ DataSource = (*MemorySource)(nil)

// Seed replaces the contents of a resource.
func (s *MemorySource) Seed(resource string, rows []Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]Row, len(rows))
	for i, r := range rows {
		copied[i] = cloneRow(r)
	}
	s.tables[resource] = copied
}

func cloneRow(r Row) Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func matches(row Row, opts Options) bool {
	for k, want := range opts.Filters {
		if want == nil {
			continue
		}
		if !reflect.DeepEqual(row[k], want) {
			return false
		}
	}
	for k, prefix := range opts.Prefix {
		if prefix == "" {
			continue
		}
		have, _ := row[k].(string)
		if !strings.HasPrefix(strings.ToLower(have), strings.ToLower(prefix)) {
			return false
		}
	}
	return true
}

func less(a, b interface{}) bool {
	switch av := a.(type) {
	case int:
		if bv, ok := b.(int); ok {
			return av < bv
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return av < bv
		}
	case string:
		if bv, ok := b.(string); ok {
			return av < bv
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Before(bv)
		}
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

func (s *MemorySource) Select(ctx context.Context, resource string, opts Options) ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SelectCalls++

	out := []Row{}
	for _, row := range s.tables[resource] {
		if matches(row, opts) {
			out = append(out, cloneRow(row))
		}
	}

	if opts.OrderBy != nil {
		field, asc := opts.OrderBy.Field, opts.OrderBy.Ascending
		sort.SliceStable(out, func(i, j int) bool {
			if asc {
				return less(out[i][field], out[j][field])
			}
			return less(out[j][field], out[i][field])
		})
	}

	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return []Row{}, nil
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(out) {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (s *MemorySource) SelectOne(ctx context.Context, resource, id string) (Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SelectOneCalls++

	var found []Row
	for _, row := range s.tables[resource] {
		if row["id"] == id {
			found = append(found, cloneRow(row))
		}
	}

	switch len(found) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return found[0], nil
	default:
		return nil, ErrMultipleRows
	}
}

func (s *MemorySource) Insert(ctx context.Context, resource string, rows []Row) ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.InsertCalls++

	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		r := cloneRow(row)
		if _, ok := r["id"]; !ok {
			r["id"] = uuid.NewString()
		}
		s.tables[resource] = append(s.tables[resource], r)
		out = append(out, cloneRow(r))
	}
	return out, nil
}

func (s *MemorySource) Update(ctx context.Context, resource, id string, patch Row) (Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UpdateCalls++

	for i, row := range s.tables[resource] {
		if row["id"] == id {
			updated := cloneRow(row)
			for k, v := range patch {
				updated[k] = v
			}
			s.tables[resource][i] = updated
			return cloneRow(updated), nil
		}
	}
	return nil, ErrNotFound
}
