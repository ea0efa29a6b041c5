package dbhelper

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ray-remotestate/swiftserve/models"
)

const orderColumns = `id, customer_name, table_number, items, status, subtotal, gst, service_charge, total, payment_method, customer_instructions, timestamp, updated_at`

func scanOrder(row rowScanner) (models.Order, error) {
	var (
		o     models.Order
		items []byte
	)
	err := row.Scan(&o.ID, &o.CustomerName, &o.TableNumber, &items, &o.Status, &o.Subtotal, &o.GST,
		&o.ServiceCharge, &o.Total, &o.PaymentMethod, &o.CustomerInstructions, &o.Timestamp, &o.UpdatedAt)
	if err != nil {
		return models.Order{}, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return models.Order{}, fmt.Errorf("decode items of %s: %w", o.ID, err)
	}
	o.Timestamp = o.Timestamp.UTC()
	o.UpdatedAt = o.UpdatedAt.UTC()
	return o, nil
}

// CreateOrder stores the order together with its first history entry.
func (s *Store) CreateOrder(ctx context.Context, o models.Order, initial models.StatusChange) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	return s.db.Tx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, s.q(`
			INSERT INTO orders (`+orderColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			o.ID, o.CustomerName, o.TableNumber, string(items), o.Status, o.Subtotal, o.GST,
			o.ServiceCharge, o.Total, o.PaymentMethod, o.CustomerInstructions, o.Timestamp.UTC(), o.UpdatedAt.UTC())
		if err != nil {
			return fmt.Errorf("insert order %s: %w", o.ID, err)
		}
		return s.insertStatusChange(ctx, tx, initial)
	})
}

func (s *Store) insertStatusChange(ctx context.Context, exec SQLExecutor, c models.StatusChange) error {
	_, err := exec.ExecContext(ctx, s.q(`
		INSERT INTO order_status_history (order_id, from_status, to_status, changed_at)
		VALUES (?, ?, ?, ?)`),
		c.OrderID, c.From, c.To, c.ChangedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert status change of %s: %w", c.OrderID, err)
	}
	return nil
}

func (s *Store) ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	var (
		where []string
		args  []any
	)
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Table != 0 {
		where = append(where, "table_number = ?")
		args = append(args, filter.Table)
	}
	if filter.Active {
		where = append(where, "status NOT IN (?, ?)")
		args = append(args, models.OrderStatusCompleted, models.OrderStatusCancelled)
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY timestamp DESC`

	rows, err := s.db.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (models.Order, error) {
	row := s.db.QueryRowContext(ctx, s.q(`SELECT `+orderColumns+` FROM orders WHERE id = ?`), id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, fmt.Errorf("order %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("get order %s: %w", id, err)
	}
	return o, nil
}

// UpdateOrderStatus moves the order from one status to another only if it is
// still in the expected status, and records the change.
func (s *Store) UpdateOrderStatus(ctx context.Context, change models.StatusChange) error {
	return s.db.Tx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, s.q(`
			UPDATE orders SET status = ?, updated_at = ?
			WHERE id = ? AND status = ?`),
			change.To, change.ChangedAt.UTC(), change.OrderID, change.From)
		if err != nil {
			return fmt.Errorf("update status of %s: %w", change.OrderID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			var current models.OrderStatus
			err := tx.QueryRowContext(ctx, s.q(`SELECT status FROM orders WHERE id = ?`), change.OrderID).Scan(&current)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("order %s: %w", change.OrderID, models.ErrNotFound)
			}
			if err != nil {
				return fmt.Errorf("read status of %s: %w", change.OrderID, err)
			}
			return fmt.Errorf("%w: order %s is %q, not %q", models.ErrInvalidTransition, change.OrderID, current, change.From)
		}
		return s.insertStatusChange(ctx, tx, change)
	})
}

func (s *Store) OrderHistory(ctx context.Context, id string) ([]models.StatusChange, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT order_id, from_status, to_status, changed_at
		FROM order_status_history
		WHERE order_id = ?
		ORDER BY changed_at, id`), id)
	if err != nil {
		return nil, fmt.Errorf("query history of %s: %w", id, err)
	}
	defer rows.Close()

	history := []models.StatusChange{}
	for rows.Next() {
		var (
			c  models.StatusChange
			at time.Time
		)
		if err := rows.Scan(&c.OrderID, &c.From, &c.To, &at); err != nil {
			return nil, fmt.Errorf("scan status change: %w", err)
		}
		c.ChangedAt = at.UTC()
		history = append(history, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return history, nil
}
