package diagnostics

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/onemedi/onemedi/internal/platform/query"
)

type labTestRepoDS struct{ ds query.DataSource }

func NewLabTestRepo(ds query.DataSource) LabTestRepository {
	return &labTestRepoDS{ds: ds}
}

func (r *labTestRepoDS) Create(ctx context.Context, lt *LabTest) error {
	lt.ID = uuid.NewString()
	rows, err := r.ds.Insert(ctx, "lab_tests", []query.Row{{
		"id":              lt.ID,
		"name":            lt.Name,
		"category":        lt.Category,
		"description":     lt.Description,
		"price":           lt.Price,
		"mrp":             lt.MRP,
		"home_collection": lt.HomeCollection,
		"city":            lt.City,
		"report_hours":    lt.ReportHours,
	}})
	if err != nil {
		return fmt.Errorf("insert lab test: %w", err)
	}
	return query.Decode(rows[0], lt)
}

func (r *labTestRepoDS) GetByID(ctx context.Context, id string) (*LabTest, error) {
	row, err := r.ds.SelectOne(ctx, "lab_tests", id)
	if err != nil {
		return nil, err
	}
	var lt LabTest
	if err := query.Decode(row, &lt); err != nil {
		return nil, err
	}
	return &lt, nil
}

func (r *labTestRepoDS) Update(ctx context.Context, id string, patch map[string]interface{}) (*LabTest, error) {
	row, err := r.ds.Update(ctx, "lab_tests", id, patch)
	if err != nil {
		return nil, err
	}
	var lt LabTest
	if err := query.Decode(row, &lt); err != nil {
		return nil, err
	}
	return &lt, nil
}

func (r *labTestRepoDS) List(ctx context.Context, f LabTestFilter, limit, offset int) ([]*LabTest, error) {
	filters := map[string]interface{}{}
	if f.Category != "" {
		filters["category"] = f.Category
	}
	if f.City != "" {
		filters["city"] = f.City
	}
	if f.HomeCollection != nil {
		filters["home_collection"] = *f.HomeCollection
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
	rows, err := r.ds.Select(ctx, "lab_tests", opts)
	if err != nil {
		return nil, err
	}
	return query.DecodeAll[LabTest](rows)
}

type scanRepoDS struct{ ds query.DataSource }

func NewScanRepo(ds query.DataSource) ScanRepository {
	return &scanRepoDS{ds: ds}
}

func (r *scanRepoDS) Create(ctx context.Context, sc *Scan) error {
	sc.ID = uuid.NewString()
	rows, err := r.ds.Insert(ctx, "scans", []query.Row{{
		"id":        sc.ID,
		"name":      sc.Name,
		"modality":  sc.Modality,
		"body_part": sc.BodyPart,
		"price":     sc.Price,
		"mrp":       sc.MRP,
		"city":      sc.City,
		"center":    sc.Center,
	}})
	if err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}
	return query.Decode(rows[0], sc)
}

func (r *scanRepoDS) GetByID(ctx context.Context, id string) (*Scan, error) {
	row, err := r.ds.SelectOne(ctx, "scans", id)
	if err != nil {
		return nil, err
	}
	var sc Scan
	if err := query.Decode(row, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (r *scanRepoDS) Update(ctx context.Context, id string, patch map[string]interface{}) (*Scan, error) {
	row, err := r.ds.Update(ctx, "scans", id, patch)
	if err != nil {
		return nil, err
	}
	var sc Scan
	if err := query.Decode(row, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (r *scanRepoDS) List(ctx context.Context, f ScanFilter, limit, offset int) ([]*Scan, error) {
	filters := map[string]interface{}{}
	if f.Modality != "" {
		filters["modality"] = f.Modality
	}
	if f.City != "" {
		filters["city"] = f.City
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
	rows, err := r.ds.Select(ctx, "scans", opts)
	if err != nil {
		return nil, err
	}
	return query.DecodeAll[Scan](rows)
}
