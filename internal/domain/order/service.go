package order

import (
	"context"
	"fmt"

	"github.com/onemedi/onemedi/internal/domain/cart"
)

type Service struct {
	orders  Repository
	coupons CouponRepository
}

func NewService(orders Repository, coupons CouponRepository) *Service {
	return &Service{orders: orders, coupons: coupons}
}

// Quote prices the given cart contents without placing an order.
func (s *Service) Quote(ctx context.Context, items []cart.Item, prescription, couponCode string) (Quote, error) {
	var coupon *Coupon
	if couponCode != "" {
		c, err := s.coupons.GetByCode(ctx, couponCode)
		if err != nil {
			return Quote{}, fmt.Errorf("lookup coupon: %w", err)
		}
		coupon = c
	}
	return BuildQuote(items, prescription, coupon)
}

// PlaceOrder snapshots the cart into a PENDING order. Checkout gating and
// pricing follow BuildQuote; a concierge order is stored with zero amounts.
func (s *Service) PlaceOrder(ctx context.Context, userID string, items []cart.Item, prescription, address, paymentMethod, couponCode string) (*Order, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	if address == "" {
		return nil, fmt.Errorf("address is required")
	}
	if paymentMethod == "" {
		return nil, fmt.Errorf("payment_method is required")
	}

	q, err := s.Quote(ctx, items, prescription, couponCode)
	if err != nil {
		return nil, err
	}

	o := &Order{
		UserID:         userID,
		Status:         StatusPending,
		Subtotal:       q.Subtotal,
		DiscountAmount: q.Discount,
		TaxAmount:      q.TaxAmount,
		DeliveryFee:    q.DeliveryFee,
		TotalAmount:    q.Total,
		Address:        address,
		PaymentMethod:  paymentMethod,
		Concierge:      q.Concierge,
	}
	if q.CouponCode != "" {
		code := q.CouponCode
		o.CouponCode = &code
	}
	if prescription != "" {
		ref := prescription
		o.PrescriptionURL = &ref
	}
	for _, it := range items {
		o.Items = append(o.Items, OrderItem{
			ItemID: it.ID,
			Kind:   it.Kind,
			Name:   it.Name,
			Price:  it.Price,
			MRP:    it.MRP,
			Qty:    it.Qty,
		})
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return o, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*Order, error) {
	return s.orders.GetByID(ctx, id)
}

func (s *Service) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*Order, int, error) {
	return s.orders.ListByUser(ctx, userID, limit, offset)
}

// UpdateStatus applies an explicit status change, rejecting transitions
// outside the allowed graph.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(o.Status, status) {
		return nil, fmt.Errorf("invalid status transition %s -> %s", o.Status, status)
	}
	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	o.Status = status
	return o, nil
}

// ValidateCoupon checks a coupon against a cart total and returns the
// discount it would yield.
func (s *Service) ValidateCoupon(ctx context.Context, code string, total float64) (*Coupon, float64, error) {
	c, err := s.coupons.GetByCode(ctx, code)
	if err != nil {
		return nil, 0, err
	}
	if !c.Active {
		return nil, 0, ErrCouponInvalid
	}
	if c.MinOrder > 0 && total < c.MinOrder {
		return nil, 0, ErrCouponInvalid
	}
	return c, c.Discount(total), nil
}
