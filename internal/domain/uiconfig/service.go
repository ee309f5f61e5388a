package uiconfig

import (
	"context"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// HomeConfig assembles the client-facing home page: enabled sections and
// banners in display order.
func (s *Service) HomeConfig(ctx context.Context) (*Config, error) {
	sections, err := s.repo.ListSections(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	banners, err := s.repo.ListBanners(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}
	return &Config{Sections: sections, Banners: banners}, nil
}

func (s *Service) ListSections(ctx context.Context) ([]*Section, error) {
	return s.repo.ListSections(ctx, false)
}

func (s *Service) CreateSection(ctx context.Context, sec *Section) error {
	if sec.Key == "" {
		return fmt.Errorf("key is required")
	}
	if sec.Title == "" {
		return fmt.Errorf("title is required")
	}
	return s.repo.CreateSection(ctx, sec)
}

func (s *Service) UpdateSection(ctx context.Context, id string, patch map[string]interface{}) (*Section, error) {
	if len(patch) == 0 {
		return nil, fmt.Errorf("empty patch")
	}
	delete(patch, "id")
	return s.repo.UpdateSection(ctx, id, patch)
}

func (s *Service) ListBanners(ctx context.Context) ([]*Banner, error) {
	return s.repo.ListBanners(ctx, false)
}

func (s *Service) CreateBanner(ctx context.Context, b *Banner) error {
	if b.Title == "" {
		return fmt.Errorf("title is required")
	}
	if b.ImageURL == "" {
		return fmt.Errorf("image_url is required")
	}
	return s.repo.CreateBanner(ctx, b)
}

func (s *Service) UpdateBanner(ctx context.Context, id string, patch map[string]interface{}) (*Banner, error) {
	if len(patch) == 0 {
		return nil, fmt.Errorf("empty patch")
	}
	delete(patch, "id")
	return s.repo.UpdateBanner(ctx, id, patch)
}
