// Package query provides the generic data-access layer the domain packages
// are built on: a declarative description of a filtered/ordered read, a
// DataSource contract for executing it, and a Runner that tracks the
// loading/ready/failed lifecycle of an asynchronous fetch.
package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Row is a single record returned by a DataSource.
type Row = map[string]interface{}

// Error is the structured error shape surfaced by a DataSource.
type Error struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return e.Message
}

var (
	// ErrNotFound is returned by SelectOne when no row matches the id.
	ErrNotFound = errors.New("record not found")
	// ErrMultipleRows is returned by SelectOne when more than one row matches.
	ErrMultipleRows = errors.New("multiple records match")
)

// OrderBy describes a single-column sort.
type OrderBy struct {
	Field     string
	Ascending bool
}

// Options constrains a list read. Filters are equality matches; entries with
// nil values are skipped rather than applied. Prefix entries are
// case-insensitive prefix matches; empty values are skipped. A zero Limit
// means no limit.
type Options struct {
	Columns []string
	Filters map[string]interface{}
	Prefix  map[string]string
	OrderBy *OrderBy
	Limit   int
	Offset  int
}

// DataSource is the contract the query layer expects from its backing store.
type DataSource interface {
	Select(ctx context.Context, resource string, opts Options) ([]Row, error)
	SelectOne(ctx context.Context, resource, id string) (Row, error)
	Insert(ctx context.Context, resource string, rows []Row) ([]Row, error)
	Update(ctx context.Context, resource, id string, patch Row) (Row, error)
}

// Decode converts a Row into a typed struct via its json tags.
func Decode(row Row, dst interface{}) error {
	b, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("encode row: %w", err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("decode row: %w", err)
	}
	return nil
}

// DecodeAll converts a slice of rows into typed structs. The result is never
// nil: an empty input yields an empty slice.
func DecodeAll[T any](rows []Row) ([]*T, error) {
	out := make([]*T, 0, len(rows))
	for i, r := range rows {
		var v T
		if err := Decode(r, &v); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out = append(out, &v)
	}
	return out, nil
}

// Encode converts a typed struct into a Row via its json tags.
func Encode(src interface{}) (Row, error) {
	b, err := json.Marshal(src)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	var row Row
	if err := json.Unmarshal(b, &row); err != nil {
		return nil, fmt.Errorf("decode into row: %w", err)
	}
	return row, nil
}
