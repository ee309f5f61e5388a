package diagnostics

import "time"

// LabTest is an orderable pathology test.
type LabTest struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	Description    string    `json:"description,omitempty"`
	Price          float64   `json:"price"`
	MRP            float64   `json:"mrp"`
	HomeCollection bool      `json:"home_collection"`
	City           string    `json:"city,omitempty"`
	ReportHours    int       `json:"report_hours,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Scan is an orderable imaging study.
type Scan struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Modality  string    `json:"modality"`
	BodyPart  string    `json:"body_part,omitempty"`
	Price     float64   `json:"price"`
	MRP       float64   `json:"mrp"`
	City      string    `json:"city,omitempty"`
	Center    string    `json:"center,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LabTestFilter narrows a lab test listing. Zero-valued fields are skipped.
type LabTestFilter struct {
	Category       string
	City           string
	HomeCollection *bool
	NamePrefix     string
}

// ScanFilter narrows a scan listing.
type ScanFilter struct {
	Modality   string
	City       string
	NamePrefix string
}
