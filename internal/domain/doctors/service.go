package doctors

import (
	"context"
	"fmt"
)

var validModes = map[string]bool{
	ModeOnline: true, ModeClinic: true, ModeBoth: true,
}

type Service struct {
	doctors Repository
}

func NewService(doctors Repository) *Service {
	return &Service{doctors: doctors}
}

func (s *Service) Create(ctx context.Context, d *Doctor) error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if d.Specialty == "" {
		return fmt.Errorf("specialty is required")
	}
	if d.Mode == "" {
		d.Mode = ModeBoth
	}
	if !validModes[d.Mode] {
		return fmt.Errorf("invalid mode: %s", d.Mode)
	}
	if d.Fee < 0 {
		return fmt.Errorf("fee must not be negative")
	}
	d.Available = true
	return s.doctors.Create(ctx, d)
}

func (s *Service) Get(ctx context.Context, id string) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id string, patch map[string]interface{}) (*Doctor, error) {
	if len(patch) == 0 {
		return nil, fmt.Errorf("empty patch")
	}
	if mode, ok := patch["mode"].(string); ok && !validModes[mode] {
		return nil, fmt.Errorf("invalid mode: %s", mode)
	}
	delete(patch, "id")
	return s.doctors.Update(ctx, id, patch)
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Doctor, error) {
	return s.doctors.List(ctx, f, limit, offset)
}

// SetAvailability toggles whether the doctor accepts new consultations.
func (s *Service) SetAvailability(ctx context.Context, id string, available bool) (*Doctor, error) {
	return s.doctors.Update(ctx, id, map[string]interface{}{"available": available})
}
