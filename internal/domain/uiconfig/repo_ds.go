package uiconfig

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

func (r *repoDS) ListSections(ctx context.Context, enabledOnly bool) ([]*Section, error) {
	filters := map[string]interface{}{}
	if enabledOnly {
		filters["enabled"] = true
	}
	rows, err := r.ds.Select(ctx, "ui_sections", query.Options{
		Filters: filters,
		OrderBy: &query.OrderBy{Field: "position", Ascending: true},
	})
	if err != nil {
		return nil, err
	}
	return query.DecodeAll[Section](rows)
}

func (r *repoDS) CreateSection(ctx context.Context, s *Section) error {
	s.ID = uuid.NewString()
	rows, err := r.ds.Insert(ctx, "ui_sections", []query.Row{{
		"id":       s.ID,
		"key":      s.Key,
		"title":    s.Title,
		"position": s.Position,
		"enabled":  s.Enabled,
	}})
	if err != nil {
		return fmt.Errorf("insert section: %w", err)
	}
	return query.Decode(rows[0], s)
}

func (r *repoDS) UpdateSection(ctx context.Context, id string, patch map[string]interface{}) (*Section, error) {
	row, err := r.ds.Update(ctx, "ui_sections", id, patch)
	if err != nil {
		return nil, err
	}
	var s Section
	if err := query.Decode(row, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repoDS) ListBanners(ctx context.Context, enabledOnly bool) ([]*Banner, error) {
	filters := map[string]interface{}{}
	if enabledOnly {
		filters["enabled"] = true
	}
	rows, err := r.ds.Select(ctx, "ui_banners", query.Options{
		Filters: filters,
		OrderBy: &query.OrderBy{Field: "position", Ascending: true},
	})
	if err != nil {
		return nil, err
	}
	return query.DecodeAll[Banner](rows)
}

func (r *repoDS) CreateBanner(ctx context.Context, b *Banner) error {
	b.ID = uuid.NewString()
	rows, err := r.ds.Insert(ctx, "ui_banners", []query.Row{{
		"id":         b.ID,
		"title":      b.Title,
		"image_url":  b.ImageURL,
		"target_url": b.TargetURL,
		"position":   b.Position,
		"enabled":    b.Enabled,
	}})
	if err != nil {
		return fmt.Errorf("insert banner: %w", err)
	}
	return query.Decode(rows[0], b)
}

func (r *repoDS) UpdateBanner(ctx context.Context, id string, patch map[string]interface{}) (*Banner, error) {
	row, err := r.ds.Update(ctx, "ui_banners", id, patch)
	if err != nil {
		return nil, err
	}
	var b Banner
	if err := query.Decode(row, &b); err != nil {
		return nil, err
	}
	return &b, nil
}
