package catalog

import "time"

// Medicine is a sellable pharmacy item.
type Medicine struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Category             string    `json:"category"`
	Manufacturer         string    `json:"manufacturer,omitempty"`
	Description          string    `json:"description,omitempty"`
	Price                float64   `json:"price"`
	MRP                  float64   `json:"mrp"`
	PrescriptionRequired bool      `json:"prescription_required"`
	InStock              bool      `json:"in_stock"`
	VendorID             string    `json:"vendor_id,omitempty"`
	ImageURL             string    `json:"image_url,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// Vendor is a pharmacy or supplier fulfilling medicine orders.
type Vendor struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MedicineFilter narrows a medicine listing. Zero-valued fields are not
// applied.
type MedicineFilter struct {
	Category             string
	VendorID             string
	PrescriptionRequired *bool
	InStock              *bool
	NamePrefix           string
}

// VendorFilter narrows a vendor listing.
type VendorFilter struct {
	City   string
	Active *bool
}
