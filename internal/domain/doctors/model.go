package doctors

import "time"

// Consultation modes.
const (
	ModeOnline = "online"
	ModeClinic = "clinic"
	ModeBoth   = "both"
)

// Doctor is a consultable practitioner profile.
type Doctor struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Specialty       string    `json:"specialty"`
	Qualification   string    `json:"qualification,omitempty"`
	City            string    `json:"city,omitempty"`
	Mode            string    `json:"mode"`
	Fee             float64   `json:"fee"`
	ExperienceYears int       `json:"experience_years,omitempty"`
	Available       bool      `json:"available"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Filter narrows a doctor listing. Zero-valued fields are skipped.
type Filter struct {
	Specialty  string
	City       string
	Mode       string
	Available  *bool
	NamePrefix string
}
