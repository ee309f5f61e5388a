package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const orderCols = `id, user_id, status, subtotal, discount_amount, tax_amount, delivery_fee,
	total_amount, coupon_code, address, payment_method, prescription_url, concierge,
	created_at, updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.UserID, &o.Status, &o.Subtotal, &o.DiscountAmount,
		&o.TaxAmount, &o.DeliveryFee, &o.TotalAmount, &o.CouponCode, &o.Address,
		&o.PaymentMethod, &o.PrescriptionURL, &o.Concierge, &o.CreatedAt, &o.UpdatedAt)
	return &o, err
}

// Create inserts the order and its item snapshot in one transaction.
func (r *repoPG) Create(ctx context.Context, o *Order) error {
	o.ID = uuid.NewString()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, user_id, status, subtotal, discount_amount, tax_amount,
			delivery_fee, total_amount, coupon_code, address, payment_method,
			prescription_url, concierge)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		o.ID, o.UserID, o.Status, o.Subtotal, o.DiscountAmount, o.TaxAmount,
		o.DeliveryFee, o.TotalAmount, o.CouponCode, o.Address, o.PaymentMethod,
		o.PrescriptionURL, o.Concierge)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range o.Items {
		it := &o.Items[i]
		it.ID = uuid.NewString()
		it.OrderID = o.ID
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, item_id, kind, name, price, mrp, qty)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			it.ID, it.OrderID, it.ItemID, it.Kind, it.Name, it.Price, it.MRP, it.Qty)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	err = tx.QueryRow(ctx,
		`SELECT created_at, updated_at FROM orders WHERE id = $1`, o.ID).
		Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("read order timestamps: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx,
		`SELECT `+orderCols+` FROM orders WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("order %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repoPG) loadItems(ctx context.Context, o *Order) error {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, item_id, kind, name, price, mrp, qty
		FROM order_items WHERE order_id = $1 ORDER BY name`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ItemID, &it.Kind, &it.Name,
			&it.Price, &it.MRP, &it.Qty); err != nil {
			return err
		}
		o.Items = append(o.Items, it)
	}
	return rows.Err()
}

func (r *repoPG) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*Order, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+orderCols+` FROM orders WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for _, o := range orders {
		if err := r.loadItems(ctx, o); err != nil {
			return nil, 0, err
		}
	}
	return orders, total, nil
}

func (r *repoPG) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %s not found", id)
	}
	return nil
}

type couponRepoPG struct{ pool *pgxpool.Pool }

func NewCouponRepoPG(pool *pgxpool.Pool) CouponRepository {
	return &couponRepoPG{pool: pool}
}

func (r *couponRepoPG) GetByCode(ctx context.Context, code string) (*Coupon, error) {
	var c Coupon
	err := r.pool.QueryRow(ctx, `
		SELECT code, kind, value, max_discount, min_order, active
		FROM coupons WHERE code = $1`, code).
		Scan(&c.Code, &c.Kind, &c.Value, &c.MaxDiscount, &c.MinOrder, &c.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("coupon %s not found", code)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
