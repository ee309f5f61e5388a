package catalog

import "context"

type MedicineRepository interface {
	Create(ctx context.Context, m *Medicine) error
	GetByID(ctx context.Context, id string) (*Medicine, error)
	Update(ctx context.Context, id string, patch map[string]interface{}) (*Medicine, error)
	List(ctx context.Context, f MedicineFilter, limit, offset int) ([]*Medicine, error)
}

type VendorRepository interface {
	Create(ctx context.Context, v *Vendor) error
	GetByID(ctx context.Context, id string) (*Vendor, error)
	Update(ctx context.Context, id string, patch map[string]interface{}) (*Vendor, error)
	List(ctx context.Context, f VendorFilter, limit, offset int) ([]*Vendor, error)
}
