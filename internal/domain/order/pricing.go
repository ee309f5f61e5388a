package order

import (
	"errors"

	"github.com/onemedi/onemedi/internal/domain/cart"
)

// Business-policy pricing constants. Owned here so every surface that shows
// a checkout total computes it the same way.
const (
	// FreeDeliveryMin is the cart total at or above which delivery is free.
	FreeDeliveryMin = 500.0
	// DeliveryFlatFee is charged below the free-delivery threshold.
	DeliveryFlatFee = 40.0
)

var (
	// ErrEmptyCart is returned when checkout is attempted with no items and
	// no prescription.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrPrescriptionRequired is returned when a cart item needs a
	// prescription and none is attached.
	ErrPrescriptionRequired = errors.New("prescription required for one or more items")
	// ErrCouponInvalid is returned when a coupon cannot be applied.
	ErrCouponInvalid = errors.New("coupon is not applicable")
)

// Coupon discount kinds.
const (
	CouponPercent = "percent"
	CouponFlat    = "flat"
)

// Coupon is a discount definition looked up by code at checkout.
type Coupon struct {
	Code        string  `json:"code"`
	Kind        string  `json:"kind"`
	Value       float64 `json:"value"`
	MaxDiscount float64 `json:"max_discount,omitempty"`
	MinOrder    float64 `json:"min_order,omitempty"`
	Active      bool    `json:"active"`
}

// Discount computes the amount the coupon takes off the given cart total.
// Percentage coupons are capped at MaxDiscount when one is set; flat coupons
// apply as-is. The discount never exceeds the total.
func (c *Coupon) Discount(total float64) float64 {
	if c == nil {
		return 0
	}
	var d float64
	switch c.Kind {
	case CouponPercent:
		d = total * c.Value / 100
		if c.MaxDiscount > 0 && d > c.MaxDiscount {
			d = c.MaxDiscount
		}
	case CouponFlat:
		d = c.Value
	}
	if d > total {
		d = total
	}
	return d
}

// DeliveryFee returns the fee for a given cart total.
func DeliveryFee(total float64) float64 {
	if total >= FreeDeliveryMin {
		return 0
	}
	return DeliveryFlatFee
}

// Savings is the MRP saving over the selling price.
func Savings(totalMRP, totalPrice float64) float64 {
	return totalMRP - totalPrice
}

// Quote is the priced summary of a checkout attempt. For a concierge order
// (prescription only, no items) the monetary fields are zero and must not be
// presented as a payable total.
type Quote struct {
	Subtotal    float64 `json:"subtotal"`
	MRPTotal    float64 `json:"mrp_total"`
	Savings     float64 `json:"savings"`
	Discount    float64 `json:"discount"`
	TaxAmount   float64 `json:"tax_amount"`
	DeliveryFee float64 `json:"delivery_fee"`
	Total       float64 `json:"total"`
	CouponCode  string  `json:"coupon_code,omitempty"`
	Concierge   bool    `json:"concierge,omitempty"`
}

// BuildQuote validates checkout gating and prices the cart. Gating: every
// prescription-required item needs a prescription reference, or the cart is
// empty and a prescription stands alone (concierge order, priced manually
// later).
func BuildQuote(items []cart.Item, prescription string, coupon *Coupon) (Quote, error) {
	if len(items) == 0 {
		if prescription == "" {
			return Quote{}, ErrEmptyCart
		}
		return Quote{Concierge: true}, nil
	}
	for _, it := range items {
		if it.PrescriptionRequired && prescription == "" {
			return Quote{}, ErrPrescriptionRequired
		}
	}

	var subtotal, mrpTotal float64
	for _, it := range items {
		subtotal += it.Price * float64(it.Qty)
		mrpTotal += it.MRP * float64(it.Qty)
	}

	q := Quote{
		Subtotal:    subtotal,
		MRPTotal:    mrpTotal,
		Savings:     Savings(mrpTotal, subtotal),
		DeliveryFee: DeliveryFee(subtotal),
	}
	if coupon != nil {
		if !coupon.Active {
			return Quote{}, ErrCouponInvalid
		}
		if coupon.MinOrder > 0 && subtotal < coupon.MinOrder {
			return Quote{}, ErrCouponInvalid
		}
		q.Discount = coupon.Discount(subtotal)
		q.CouponCode = coupon.Code
	}
	q.Total = q.Subtotal - q.Discount + q.TaxAmount + q.DeliveryFee
	return q, nil
}
