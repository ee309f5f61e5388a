package booking

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/onemedi/onemedi/internal/platform/query"
)

type repoDS struct{ ds query.DataSource }

func NewRepo(ds query.DataSource) Repository {
	return &repoDS{ds: ds}
}

func (r *repoDS) Create(ctx context.Context, b *Booking) error {
	b.ID = uuid.NewString()
	rows, err := r.ds.Insert(ctx, "bookings", []query.Row{{
		"id":            b.ID,
		"user_id":       b.UserID,
		"kind":          b.Kind,
		"resource_id":   b.ResourceID,
		"resource_name": b.ResourceName,
		"scheduled_at":  b.ScheduledAt,
		"address":       b.Address,
		"notes":         b.Notes,
		"status":        b.Status,
	}})
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return query.Decode(rows[0], b)
}

func (r *repoDS) GetByID(ctx context.Context, id string) (*Booking, error) {
	row, err := r.ds.SelectOne(ctx, "bookings", id)
	if err != nil {
		return nil, err
	}
	var b Booking
	if err := query.Decode(row, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repoDS) ListByUser(ctx context.Context, userID, kind string, limit, offset int) ([]*Booking, error) {
	filters := map[string]interface{}{"user_id": userID}
	if kind != "" {
		filters["kind"] = kind
	}
	rows, err := r.ds.Select(ctx, "bookings", query.Options{
		Filters: filters,
		OrderBy: &query.OrderBy{Field: "scheduled_at", Ascending: false},
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, err
	}
	return query.DecodeAll[Booking](rows)
}

func (r *repoDS) UpdateStatus(ctx context.Context, id, status string) (*Booking, error) {
	row, err := r.ds.Update(ctx, "bookings", id, query.Row{"status": status})
	if err != nil {
		return nil, err
	}
	var b Booking
	if err := query.Decode(row, &b); err != nil {
		return nil, err
	}
	return &b, nil
}
