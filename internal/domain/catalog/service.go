package catalog

import (
	"context"
	"fmt"
)

type Service struct {
	medicines MedicineRepository
	vendors   VendorRepository
}

func NewService(medicines MedicineRepository, vendors VendorRepository) *Service {
	return &Service{medicines: medicines, vendors: vendors}
}

func (s *Service) CreateMedicine(ctx context.Context, m *Medicine) error {
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if m.Category == "" {
		return fmt.Errorf("category is required")
	}
	if m.Price < 0 || m.MRP < 0 {
		return fmt.Errorf("price and mrp must not be negative")
	}
	if m.MRP > 0 && m.Price > m.MRP {
		return fmt.Errorf("price must not exceed mrp")
	}
	return s.medicines.Create(ctx, m)
}

func (s *Service) GetMedicine(ctx context.Context, id string) (*Medicine, error) {
	return s.medicines.GetByID(ctx, id)
}

func (s *Service) UpdateMedicine(ctx context.Context, id string, patch map[string]interface{}) (*Medicine, error) {
	if len(patch) == 0 {
		return nil, fmt.Errorf("empty patch")
	}
	delete(patch, "id")
	return s.medicines.Update(ctx, id, patch)
}

func (s *Service) ListMedicines(ctx context.Context, f MedicineFilter, limit, offset int) ([]*Medicine, error) {
	return s.medicines.List(ctx, f, limit, offset)
}

// SetStock flips the in-stock flag.
func (s *Service) SetStock(ctx context.Context, id string, inStock bool) (*Medicine, error) {
	return s.medicines.Update(ctx, id, map[string]interface{}{"in_stock": inStock})
}

func (s *Service) CreateVendor(ctx context.Context, v *Vendor) error {
	if v.Name == "" {
		return fmt.Errorf("name is required")
	}
	v.Active = true
	return s.vendors.Create(ctx, v)
}

func (s *Service) GetVendor(ctx context.Context, id string) (*Vendor, error) {
	return s.vendors.GetByID(ctx, id)
}

func (s *Service) UpdateVendor(ctx context.Context, id string, patch map[string]interface{}) (*Vendor, error) {
	if len(patch) == 0 {
		return nil, fmt.Errorf("empty patch")
	}
	delete(patch, "id")
	return s.vendors.Update(ctx, id, patch)
}

func (s *Service) ListVendors(ctx context.Context, f VendorFilter, limit, offset int) ([]*Vendor, error) {
	return s.vendors.List(ctx, f, limit, offset)
}
