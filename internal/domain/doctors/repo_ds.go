package doctors

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

func (r *repoDS) Create(ctx context.Context, d *Doctor) error {
	d.ID = uuid.NewString()
	rows, err := r.ds.Insert(ctx, "doctors", []query.Row{{
		"id":               d.ID,
		"name":             d.Name,
		"specialty":        d.Specialty,
		"qualification":    d.Qualification,
		"city":             d.City,
		"mode":             d.Mode,
		"fee":              d.Fee,
		"experience_years": d.ExperienceYears,
		"available":        d.Available,
	}})
	if err != nil {
		return fmt.Errorf("insert doctor: %w", err)
	}
	return query.Decode(rows[0], d)
}

func (r *repoDS) GetByID(ctx context.Context, id string) (*Doctor, error) {
	row, err := r.ds.SelectOne(ctx, "doctors", id)
	if err != nil {
		return nil, err
	}
	var d Doctor
	if err := query.Decode(row, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repoDS) Update(ctx context.Context, id string, patch map[string]interface{}) (*Doctor, error) {
	row, err := r.ds.Update(ctx, "doctors", id, patch)
	if err != nil {
		return nil, err
	}
	var d Doctor
	if err := query.Decode(row, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repoDS) List(ctx context.Context, f Filter, limit, offset int) ([]*Doctor, error) {
	filters := map[string]interface{}{}
	if f.Specialty != "" {
		filters["specialty"] = f.Specialty
	}
	if f.City != "" {
		filters["city"] = f.City
	}
	if f.Mode != "" {
		filters["mode"] = f.Mode
	}
	if f.Available != nil {
		filters["available"] = *f.Available
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
	rows, err := r.ds.Select(ctx, "doctors", opts)
	if err != nil {
		return nil, err
	}
	return query.DecodeAll[Doctor](rows)
}
