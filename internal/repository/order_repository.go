package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/victorazevedo0/loja-virtual/internal/domain"
)

const orderColumns = `id, items, total, customer_email, status, created_at, customer_name,
		shipping_address, billing_address, payment_method, tracking_number, estimated_delivery`

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var itemsJSON []byte
	var customerName, shipping, billing, payment, tracking sql.NullString
	var estimated sql.NullTime

	err := row.Scan(
		&order.ID,
		&itemsJSON,
		&order.Total,
		&order.CustomerEmail,
		&order.Status,
		&order.CreatedAt,
		&customerName,
		&shipping,
		&billing,
		&payment,
		&tracking,
		&estimated,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	order.CreatedAt = order.CreatedAt.UTC()
	order.CustomerName = customerName.String
	order.ShippingAddress = shipping.String
	order.BillingAddress = billing.String
	order.PaymentMethod = payment.String
	order.TrackingNumber = tracking.String
	if estimated.Valid {
		t := estimated.Time.UTC()
		order.EstimatedDelivery = &t
	}
	return &order, nil
}

func estimatedArg(o *domain.Order) sql.NullTime {
	if o.EstimatedDelivery == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: o.EstimatedDelivery.UTC(), Valid: true}
}

// CreateOrder inserts order and stores the assigned id back into it.
func (q *Queries) CreateOrder(ctx context.Context, order *domain.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	query := `INSERT INTO orders (items, total, customer_email, status, created_at, customer_name,
		shipping_address, billing_address, payment_method, tracking_number, estimated_delivery)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	err = q.db.QueryRowContext(ctx, query,
		string(itemsJSON),
		order.Total,
		order.CustomerEmail,
		string(order.Status),
		order.CreatedAt,
		nullString(order.CustomerName),
		nullString(order.ShippingAddress),
		nullString(order.BillingAddress),
		nullString(order.PaymentMethod),
		nullString(order.TrackingNumber),
		estimatedArg(order),
	).Scan(&order.ID)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (q *Queries) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(q.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}
	return order, nil
}

// ListOrders returns the newest orders first, skipping offset rows.
func (q *Queries) ListOrders(ctx context.Context, offset, limit int) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	rows, err := q.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return orders, nil
}

// UpdateOrder replaces every client-owned column of the stored order.
// created_at is never rewritten.
func (q *Queries) UpdateOrder(ctx context.Context, order *domain.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	query := `UPDATE orders SET items = $1, total = $2, customer_email = $3, status = $4,
		customer_name = $5, shipping_address = $6, billing_address = $7, payment_method = $8,
		tracking_number = $9, estimated_delivery = $10
		WHERE id = $11`

	res, err := q.db.ExecContext(ctx, query,
		string(itemsJSON),
		order.Total,
		order.CustomerEmail,
		string(order.Status),
		nullString(order.CustomerName),
		nullString(order.ShippingAddress),
		nullString(order.BillingAddress),
		nullString(order.PaymentMethod),
		nullString(order.TrackingNumber),
		estimatedArg(order),
		order.ID,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return expectOneRow(res, ErrOrderNotFound)
}

func (q *Queries) DeleteOrder(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return expectOneRow(res, ErrOrderNotFound)
}
