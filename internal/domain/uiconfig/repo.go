package uiconfig

import "context"

type Repository interface {
	ListSections(ctx context.Context, enabledOnly bool) ([]*Section, error)
	CreateSection(ctx context.Context, s *Section) error
	UpdateSection(ctx context.Context, id string, patch map[string]interface{}) (*Section, error)
	ListBanners(ctx context.Context, enabledOnly bool) ([]*Banner, error)
	CreateBanner(ctx context.Context, b *Banner) error
	UpdateBanner(ctx context.Context, id string, patch map[string]interface{}) (*Banner, error)
}
