package postgres

import (
	"context"
	"errors"

	"github.com/atlasware/souq/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OrderStore implements domain.OrderStore using PostgreSQL.
type OrderStore struct {
	pool *pgxpool.Pool
}

var _ domain.OrderStore = (*OrderStore)(nil)

// NewOrderStore creates a PostgreSQL-backed order store.
func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{pool: pool}
}

// PlaceOrder is the atomic order commit. Inside one transaction it:
//  1. decrements stock for every line with a guard that refuses to cross
//     zero (zero rows affected means a concurrent checkout won the race),
//  2. inserts the order and its line snapshots,
//  3. deletes the cart's persisted lines.
//
// Any failure rolls the whole transaction back; the database's transaction
// isolation is the only concurrency primitive relied upon.
func (s *OrderStore) PlaceOrder(ctx context.Context, order domain.Order, decrements []domain.StockDecrement, cartID int64) (domain.Order, error) {
	var placed domain.Order

	err := runTx(ctx, s.pool, func(tx pgx.Tx) error {
		for _, dec := range decrements {
			tag, err := tx.Exec(ctx, `
				UPDATE sizes SET stock = stock - $1
				WHERE id = $2 AND stock >= $1`, dec.Quantity, dec.SizeID)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return domain.ErrInsufficientStock
			}
		}

		err := tx.QueryRow(ctx, `
			INSERT INTO orders (
				number, user_id, status,
				subtotal_centimes, discount_centimes, shipping_fee_centimes, total_centimes,
				coupon_code, coupon_percent,
				ship_full_name, ship_phone, ship_city, ship_street,
				delivery_company, note
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			RETURNING id, created_at`,
			order.Number, order.UserID, order.Status,
			order.SubtotalCentimes, order.DiscountCentimes, order.ShippingFeeCentimes, order.TotalCentimes,
			order.CouponCode, order.CouponPercent,
			order.ShipFullName, order.ShipPhone, order.ShipCity, order.ShipStreet,
			order.DeliveryCompany, order.Note).
			Scan(&order.ID, &order.CreatedAt)
		if err != nil {
			return err
		}

		for i := range order.Lines {
			line := &order.Lines[i]
			line.OrderID = order.ID
			err := tx.QueryRow(ctx, `
				INSERT INTO order_lines (order_id, product_title, sku, variant_name, size_label, quantity, unit_price_centimes)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				RETURNING id`,
				line.OrderID, line.ProductTitle, line.SKU, line.VariantName, line.SizeLabel,
				line.Quantity, line.UnitPriceCentimes).
				Scan(&line.ID)
			if err != nil {
				return err
			}
		}

		if _, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, cartID); err != nil {
			return err
		}

		placed = order
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			return domain.Order{}, domain.ErrInsufficientStock
		}
		return domain.Order{}, domain.Internal(err, "order.place", "failed to place order")
	}

	return placed, nil
}

// GetOrderForUser returns the order with its lines only if it belongs to
// the user.
func (s *OrderStore) GetOrderForUser(ctx context.Context, orderID, userID int64) (domain.Order, error) {
	order, err := s.getOrder(ctx, `WHERE id = $1 AND user_id = $2`, orderID, userID)
	if err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// GetOrder returns the order with its lines regardless of owner.
func (s *OrderStore) GetOrder(ctx context.Context, orderID int64) (domain.Order, error) {
	return s.getOrder(ctx, `WHERE id = $1`, orderID)
}

func (s *OrderStore) getOrder(ctx context.Context, where string, args ...any) (domain.Order, error) {
	var o domain.Order
	err := s.pool.QueryRow(ctx, `
		SELECT id, number, user_id, status,
		       subtotal_centimes, discount_centimes, shipping_fee_centimes, total_centimes,
		       coupon_code, coupon_percent,
		       ship_full_name, ship_phone, ship_city, ship_street,
		       delivery_company, note, created_at
		FROM orders `+where, args...).
		Scan(&o.ID, &o.Number, &o.UserID, &o.Status,
			&o.SubtotalCentimes, &o.DiscountCentimes, &o.ShippingFeeCentimes, &o.TotalCentimes,
			&o.CouponCode, &o.CouponPercent,
			&o.ShipFullName, &o.ShipPhone, &o.ShipCity, &o.ShipStreet,
			&o.DeliveryCompany, &o.Note, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, domain.Internal(err, "order.get", "failed to get order")
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, order_id, product_title, sku, variant_name, size_label, quantity, unit_price_centimes
		FROM order_lines WHERE order_id = $1 ORDER BY id`, o.ID)
	if err != nil {
		return domain.Order{}, domain.Internal(err, "order.get_lines", "failed to load order lines")
	}
	defer rows.Close()

	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductTitle, &l.SKU, &l.VariantName,
			&l.SizeLabel, &l.Quantity, &l.UnitPriceCentimes); err != nil {
			return domain.Order{}, domain.Internal(err, "order.get_lines", "failed to scan order line")
		}
		o.Lines = append(o.Lines, l)
	}
	return o, rows.Err()
}

// ListOrdersByUser returns the user's orders, newest first, without lines.
func (s *OrderStore) ListOrdersByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	return s.listOrders(ctx, `WHERE user_id = $1`, userID)
}

// ListOrders returns every order, newest first, without lines.
func (s *OrderStore) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.listOrders(ctx, ``)
}

func (s *OrderStore) listOrders(ctx context.Context, where string, args ...any) ([]domain.Order, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, number, user_id, status,
		       subtotal_centimes, discount_centimes, shipping_fee_centimes, total_centimes,
		       coupon_code, coupon_percent,
		       ship_full_name, ship_phone, ship_city, ship_street,
		       delivery_company, note, created_at
		FROM orders `+where+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, domain.Internal(err, "order.list", "failed to list orders")
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.Number, &o.UserID, &o.Status,
			&o.SubtotalCentimes, &o.DiscountCentimes, &o.ShippingFeeCentimes, &o.TotalCentimes,
			&o.CouponCode, &o.CouponPercent,
			&o.ShipFullName, &o.ShipPhone, &o.ShipCity, &o.ShipStreet,
			&o.DeliveryCompany, &o.Note, &o.CreatedAt); err != nil {
			return nil, domain.Internal(err, "order.list", "failed to scan order")
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// UpdateOrderStatus changes only the fulfillment status; the rest of the
// order stays frozen.
func (s *OrderStore) UpdateOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error {
	tag, err := s.pool.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, status, orderID)
	if err != nil {
		return domain.Internal(err, "order.update_status", "failed to update order status")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// DeliveryStore implements domain.DeliveryStore using PostgreSQL.
type DeliveryStore struct {
	pool *pgxpool.Pool
}

var _ domain.DeliveryStore = (*DeliveryStore)(nil)

// NewDeliveryStore creates a PostgreSQL-backed delivery company store.
func NewDeliveryStore(pool *pgxpool.Pool) *DeliveryStore {
	return &DeliveryStore{pool: pool}
}

func (s *DeliveryStore) GetCompany(ctx context.Context, id int64) (domain.DeliveryCompany, error) {
	var c domain.DeliveryCompany
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, fee_centimes, active FROM delivery_companies WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.FeeCentimes, &c.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DeliveryCompany{}, domain.ErrDeliveryCompanyNotFound
		}
		return domain.DeliveryCompany{}, domain.Internal(err, "delivery.get", "failed to get delivery company")
	}
	return c, nil
}

func (s *DeliveryStore) ListCompanies(ctx context.Context, activeOnly bool) ([]domain.DeliveryCompany, error) {
	query := `SELECT id, name, fee_centimes, active FROM delivery_companies`
	if activeOnly {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY name`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, domain.Internal(err, "delivery.list", "failed to list delivery companies")
	}
	defer rows.Close()

	var companies []domain.DeliveryCompany
	for rows.Next() {
		var c domain.DeliveryCompany
		if err := rows.Scan(&c.ID, &c.Name, &c.FeeCentimes, &c.Active); err != nil {
			return nil, domain.Internal(err, "delivery.list", "failed to scan delivery company")
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}
