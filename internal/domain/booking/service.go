package booking

import (
	"context"
	"fmt"
)

var validKinds = map[string]bool{
	KindLabTest: true, KindScan: true, KindConsultation: true, KindHomecare: true,
}

type Service struct {
	bookings Repository
}

func NewService(bookings Repository) *Service {
	return &Service{bookings: bookings}
}

// Create books an appointment in PENDING state.
func (s *Service) Create(ctx context.Context, b *Booking) error {
	if b.UserID == "" {
		return fmt.Errorf("user_id is required")
	}
	if !validKinds[b.Kind] {
		return fmt.Errorf("invalid kind: %s", b.Kind)
	}
	if b.ResourceID == "" {
		return fmt.Errorf("resource_id is required")
	}
	if b.ScheduledAt.IsZero() {
		return fmt.Errorf("scheduled_at is required")
	}
	if b.Kind == KindHomecare && b.Address == "" {
		return fmt.Errorf("address is required for homecare visits")
	}
	b.Status = StatusPending
	return s.bookings.Create(ctx, b)
}

func (s *Service) Get(ctx context.Context, id string) (*Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

func (s *Service) ListByUser(ctx context.Context, userID, kind string, limit, offset int) ([]*Booking, error) {
	if kind != "" && !validKinds[kind] {
		return nil, fmt.Errorf("invalid kind: %s", kind)
	}
	return s.bookings.ListByUser(ctx, userID, kind, limit, offset)
}

// UpdateStatus applies an explicit status change, rejecting transitions
// outside the allowed graph.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(b.Status, status) {
		return nil, fmt.Errorf("invalid status transition %s -> %s", b.Status, status)
	}
	return s.bookings.UpdateStatus(ctx, id, status)
}

// Cancel is the user-facing shortcut for cancelling a booking they own.
func (s *Service) Cancel(ctx context.Context, id, userID string) (*Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, fmt.Errorf("booking %s does not belong to user", id)
	}
	if !CanTransition(b.Status, StatusCancelled) {
		return nil, fmt.Errorf("booking %s cannot be cancelled from %s", id, b.Status)
	}
	return s.bookings.UpdateStatus(ctx, id, StatusCancelled)
}
