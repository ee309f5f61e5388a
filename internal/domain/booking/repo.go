package booking

import "context"

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	ListByUser(ctx context.Context, userID, kind string, limit, offset int) ([]*Booking, error)
	UpdateStatus(ctx context.Context, id, status string) (*Booking, error)
}
