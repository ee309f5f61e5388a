package order

import "time"

// Order statuses. Orders are created PENDING and move only via explicit
// status updates.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusShipped   = "SHIPPED"
	StatusDelivered = "DELIVERED"
	StatusCancelled = "CANCELLED"
)

// validTransitions is the allowed status graph. Missing entries are terminal.
var validTransitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
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

// Order is a placed order. The monetary fields satisfy
// TotalAmount = Subtotal - DiscountAmount + TaxAmount + DeliveryFee.
// A concierge order carries a prescription and no items; its amounts are
// zero pending manual pricing.
type Order struct {
	ID              string      `db:"id" json:"id"`
	UserID          string      `db:"user_id" json:"user_id"`
	Status          string      `db:"status" json:"status"`
	Subtotal        float64     `db:"subtotal" json:"subtotal"`
	DiscountAmount  float64     `db:"discount_amount" json:"discount_amount"`
	TaxAmount       float64     `db:"tax_amount" json:"tax_amount"`
	DeliveryFee     float64     `db:"delivery_fee" json:"delivery_fee"`
	TotalAmount     float64     `db:"total_amount" json:"total_amount"`
	CouponCode      *string     `db:"coupon_code" json:"coupon_code,omitempty"`
	Address         string      `db:"address" json:"address"`
	PaymentMethod   string      `db:"payment_method" json:"payment_method"`
	PrescriptionURL *string     `db:"prescription_url" json:"prescription_url,omitempty"`
	Concierge       bool        `db:"concierge" json:"concierge"`
	Items           []OrderItem `json:"items"`
	CreatedAt       time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at" json:"updated_at"`
}

// OrderItem is a cart line snapshotted at order time.
type OrderItem struct {
	ID      string  `db:"id" json:"id"`
	OrderID string  `db:"order_id" json:"order_id"`
	ItemID  string  `db:"item_id" json:"item_id"`
	Kind    string  `db:"kind" json:"kind"`
	Name    string  `db:"name" json:"name"`
	Price   float64 `db:"price" json:"price"`
	MRP     float64 `db:"mrp" json:"mrp"`
	Qty     int     `db:"qty" json:"qty"`
}
