// Package location keeps each user's delivery location (coordinates, city,
// pincode) on the same injected storage capability the cart uses. Only the
// durable fields below are persisted.
package location

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/onemedi/onemedi/internal/platform/clientstate"
)

// Location is a user's saved delivery location.
type Location struct {
	Lat     float64 `json:"lat,omitempty"`
	Lng     float64 `json:"lng,omitempty"`
	Area    string  `json:"area,omitempty"`
	City    string  `json:"city,omitempty"`
	Pincode string  `json:"pincode,omitempty"`
}

type Service struct {
	storage clientstate.Storage
}

func NewService(storage clientstate.Storage) *Service {
	return &Service{storage: storage}
}

func key(userID string) string {
	return "location:" + userID
}

// Get returns the saved location, or nil when none has been set.
func (s *Service) Get(ctx context.Context, userID string) (*Location, error) {
	data, err := s.storage.Load(ctx, key(userID))
	if err != nil {
		return nil, fmt.Errorf("load location: %w", err)
	}
	if data == nil {
		return nil, nil
	}
	var loc Location
	if err := json.Unmarshal(data, &loc); err != nil {
		return nil, fmt.Errorf("decode location: %w", err)
	}
	return &loc, nil
}

// Set replaces the saved location.
func (s *Service) Set(ctx context.Context, userID string, loc Location) error {
	if loc == (Location{}) {
		return fmt.Errorf("location is empty")
	}
	data, err := json.Marshal(loc)
	if err != nil {
		return fmt.Errorf("encode location: %w", err)
	}
	if err := s.storage.Save(ctx, key(userID), data); err != nil {
		return fmt.Errorf("persist location: %w", err)
	}
	return nil
}

// Clear removes the saved location.
func (s *Service) Clear(ctx context.Context, userID string) error {
	if err := s.storage.Delete(ctx, key(userID)); err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	return nil
}
