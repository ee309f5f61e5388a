package order

import "context"

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*Order, int, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type CouponRepository interface {
	GetByCode(ctx context.Context, code string) (*Coupon, error)
}
