package doctors

import "context"

type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id string) (*Doctor, error)
	Update(ctx context.Context, id string, patch map[string]interface{}) (*Doctor, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]*Doctor, error)
}
