package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/onemedi/onemedi/internal/platform/query"
)

// Repositories here are specializations of the generic data source: each
// method declares which resource, which filters, which order, and decodes
// the rows into the domain type.

type medicineRepoDS struct{ ds query.DataSource }

func NewMedicineRepo(ds query.DataSource) MedicineRepository {
	return &medicineRepoDS{ds: ds}
}

func (r *medicineRepoDS) Create(ctx context.Context, m *Medicine) error {
	m.ID = uuid.NewString()
	rows, err := r.ds.Insert(ctx, "medicines", []query.Row{{
		"id":                    m.ID,
		"name":                  m.Name,
		"category":              m.Category,
		"manufacturer":          m.Manufacturer,
		"description":           m.Description,
		"price":                 m.Price,
		"mrp":                   m.MRP,
		"prescription_required": m.PrescriptionRequired,
		"in_stock":              m.InStock,
		"vendor_id":             m.VendorID,
		"image_url":             m.ImageURL,
	}})
	if err != nil {
		return fmt.Errorf("insert medicine: %w", err)
	}
	return query.Decode(rows[0], m)
}

func (r *medicineRepoDS) GetByID(ctx context.Context, id string) (*Medicine, error) {
	row, err := r.ds.SelectOne(ctx, "medicines", id)
	if err != nil {
		return nil, err
	}
	var m Medicine
	if err := query.Decode(row, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *medicineRepoDS) Update(ctx context.Context, id string, patch map[string]interface{}) (*Medicine, error) {
	row, err := r.ds.Update(ctx, "medicines", id, patch)
	if err != nil {
		return nil, err
	}
	var m Medicine
	if err := query.Decode(row, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *medicineRepoDS) List(ctx context.Context, f MedicineFilter, limit, offset int) ([]*Medicine, error) {
	filters := map[string]interface{}{}
	if f.Category != "" {
		filters["category"] = f.Category
	}
	if f.VendorID != "" {
		filters["vendor_id"] = f.VendorID
	}
	if f.PrescriptionRequired != nil {
		filters["prescription_required"] = *f.PrescriptionRequired
	}
	if f.InStock != nil {
		filters["in_stock"] = *f.InStock
	}
	opts := query.Options{
		Filters: filters,
		OrderBy: &query.OrderBy{Field: "name", Ascending: true},
		Limit:   limit,
		Offset:  offset,
	}
	if f.NamePrefix != "" {
		opts.Prefix = map[string]string{"name": f.NamePrefix}
	}
	rows, err := r.ds.Select(ctx, "medicines", opts)
	if err != nil {
		return nil, err
	}
	return query.DecodeAll[Medicine](rows)
}

type vendorRepoDS struct{ ds query.DataSource }

func NewVendorRepo(ds query.DataSource) VendorRepository {
	return &vendorRepoDS{ds: ds}
}

func (r *vendorRepoDS) Create(ctx context.Context, v *Vendor) error {
	v.ID = uuid.NewString()
	rows, err := r.ds.Insert(ctx, "vendors", []query.Row{{
		"id":     v.ID,
		"name":   v.Name,
		"city":   v.City,
		"phone":  v.Phone,
		"email":  v.Email,
		"active": v.Active,
	}})
	if err != nil {
		return fmt.Errorf("insert vendor: %w", err)
	}
	return query.Decode(rows[0], v)
}

func (r *vendorRepoDS) GetByID(ctx context.Context, id string) (*Vendor, error) {
	row, err := r.ds.SelectOne(ctx, "vendors", id)
	if err != nil {
		return nil, err
	}
	var v Vendor
	if err := query.Decode(row, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *vendorRepoDS) Update(ctx context.Context, id string, patch map[string]interface{}) (*Vendor, error) {
	row, err := r.ds.Update(ctx, "vendors", id, patch)
	if err != nil {
		return nil, err
	}
	var v Vendor
	if err := query.Decode(row, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *vendorRepoDS) List(ctx context.Context, f VendorFilter, limit, offset int) ([]*Vendor, error) {
	filters := map[string]interface{}{}
	if f.City != "" {
		filters["city"] = f.City
	}
	if f.Active != nil {
		filters["active"] = *f.Active
	}
	rows, err := r.ds.Select(ctx, "vendors", query.Options{
		Filters: filters,
		OrderBy: &query.OrderBy{Field: "name", Ascending: true},
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, err
	}
	return query.DecodeAll[Vendor](rows)
}
