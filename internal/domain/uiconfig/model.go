package uiconfig

import "time"

// Section is a named home-page block rendered in Position order when
// enabled.
type Section struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Title     string    `json:"title"`
	Position  int       `json:"position"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Banner is a promotional tile shown in Position order when enabled.
type Banner struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"image_url"`
	TargetURL string    `json:"target_url,omitempty"`
	Position  int       `json:"position"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Config is the assembled home-page configuration served to clients:
// enabled sections and banners only, already ordered.
type Config struct {
	Sections []*Section `json:"sections"`
	Banners  []*Banner  `json:"banners"`
}
