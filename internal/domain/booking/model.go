package booking

import "time"

// Booking kinds.
const (
	KindLabTest      = "lab_test"
	KindScan         = "scan"
	KindConsultation = "consultation"
	KindHomecare     = "homecare"
)

// Booking statuses. Bookings are created PENDING and move only via explicit
// status updates.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

var validTransitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether the status change from one state to another is allowed.
func CanTransition(from, to string) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Booking is a scheduled appointment for a lab test, scan, consultation or
// home-care visit.
type Booking struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Kind         string    `json:"kind"`
	ResourceID   string    `json:"resource_id"`
	ResourceName string    `json:"resource_name,omitempty"`
	ScheduledAt  time.Time `json:"scheduled_at"`
	Address      string    `json:"address,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
