package cart

// Item is a single cart line. Price and MRP are recorded at first add and
// never re-synced on repeat adds.
type Item struct {
	ID                   string  `json:"id"`
	Kind                 string  `json:"kind"`
	Name                 string  `json:"name"`
	Price                float64 `json:"price"`
	MRP                  float64 `json:"mrp"`
	Qty                  int     `json:"qty"`
	PrescriptionRequired bool    `json:"prescription_required,omitempty"`
}

// state is the durable shape persisted to Storage. Transient flags never
// appear here.
type state struct {
	Items        []Item `json:"items"`
	Prescription string `json:"prescription,omitempty"`
}

// View is the cart as returned to API clients, with derived totals.
type View struct {
	Items        []Item  `json:"items"`
	Prescription string  `json:"prescription,omitempty"`
	TotalPrice   float64 `json:"total_price"`
	TotalMRP     float64 `json:"total_mrp"`
}
