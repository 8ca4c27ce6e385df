package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/backoffice-api/internal/core/domain/entity"
	"github.com/jcmexdev/backoffice-api/internal/core/domain/fault"
	"github.com/jcmexdev/backoffice-api/internal/core/ports"
)

type orderRepository struct {
	q querier
}

var _ ports.OrderRepository = (*orderRepository)(nil)

func (r *orderRepository) Insert(ctx context.Context, o *entity.Order) error {
	const q = `
		INSERT INTO orders (client_id, status, created_at, total_value)
		VALUES (?, ?, ?, ?)`

	res, err := r.q.ExecContext(ctx, q,
		o.ClientID,
		string(o.Status),
		formatTime(o.CreatedAt),
		o.TotalValue.String(),
	)
	if err != nil {
		return mapConstraintErr(err, "insert order")
	}
	o.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: order insert id: %w", err)
	}
	return nil
}

func (r *orderRepository) Get(ctx context.Context, id int64) (*entity.Order, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT id, client_id, status, created_at, total_value FROM orders WHERE id = ?`, id)

	o, err := scanOrder(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fault.New(fault.KindNotFound, "order %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get order %d: %w", id, err)
	}

	o.Items, err = r.itemsByOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *orderRepository) List(ctx context.Context, f ports.OrderFilter) ([]*entity.Order, error) {
	var (
		where []string
		args  []any
	)
	if f.OrderID != nil {
		where = append(where, `o.id = ?`)
		args = append(args, *f.OrderID)
	}
	if f.ClientID != nil {
		where = append(where, `o.client_id = ?`)
		args = append(args, *f.ClientID)
	}
	if f.Status != nil {
		where = append(where, `o.status = ?`)
		args = append(args, string(*f.Status))
	}
	// datetime() normalizes the stored RFC3339 text so fractional seconds
	// compare correctly against whole-second bounds.
	if f.StartDate != nil {
		where = append(where, `datetime(o.created_at) >= datetime(?)`)
		args = append(args, formatTime(*f.StartDate))
	}
	if f.EndDate != nil {
		where = append(where, `datetime(o.created_at) < datetime(?)`)
		args = append(args, formatTime(*f.EndDate))
	}
	if f.Section != "" {
		where = append(where, `EXISTS (
			SELECT 1 FROM order_items i
			JOIN products p ON p.id = i.product_id
			WHERE i.order_id = o.id AND p.section = ?)`)
		args = append(args, f.Section)
	}

	q := `SELECT o.id, o.client_id, o.status, o.created_at, o.total_value FROM orders o`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, ` AND `)
	}
	q += ` ORDER BY o.id LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list orders: %w", err)
	}
	defer rows.Close()

	var out []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan order row: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range out {
		o.Items, err = r.itemsByOrder(ctx, o.ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *orderRepository) Update(ctx context.Context, o *entity.Order) error {
	const q = `UPDATE orders SET client_id = ?, status = ?, total_value = ? WHERE id = ?`

	res, err := r.q.ExecContext(ctx, q, o.ClientID, string(o.Status), o.TotalValue.String(), o.ID)
	if err != nil {
		return mapConstraintErr(err, "update order")
	}
	return requireAffected(res, fault.New(fault.KindNotFound, "order %d not found", o.ID))
}

func (r *orderRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return mapConstraintErr(err, "delete order")
	}
	return requireAffected(res, fault.New(fault.KindNotFound, "order %d not found", id))
}

func (r *orderRepository) InsertItem(ctx context.Context, orderID int64, item entity.OrderItem) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO order_items (order_id, product_id, quantity) VALUES (?, ?, ?)`,
		orderID, item.ProductID, item.Quantity,
	)
	if err != nil {
		return mapConstraintErr(err, "insert order item")
	}
	return nil
}

func (r *orderRepository) DeleteItems(ctx context.Context, orderID int64) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, orderID)
	if err != nil {
		return fmt.Errorf("sqlite: delete items of order %d: %w", orderID, err)
	}
	return nil
}

// itemsByOrder resolves each line against current product data, matching
// the API contract: responses carry the product's price, description and
// section as of now.
func (r *orderRepository) itemsByOrder(ctx context.Context, orderID int64) ([]entity.OrderItem, error) {
	const q = `
		SELECT i.product_id, i.quantity, p.price, p.description, p.section
		FROM   order_items i
		JOIN   products p ON p.id = i.product_id
		WHERE  i.order_id = ?
		ORDER  BY i.id`

	rows, err := r.q.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: items of order %d: %w", orderID, err)
	}
	defer rows.Close()

	items := []entity.OrderItem{}
	for rows.Next() {
		var (
			it    entity.OrderItem
			price string
		)
		if err := rows.Scan(&it.ProductID, &it.Quantity, &price, &it.Description, &it.Section); err != nil {
			return nil, fmt.Errorf("sqlite: scan item row: %w", err)
		}
		it.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("sqlite: parse item price %q: %w", price, err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func scanOrder(scan func(dest ...any) error) (*entity.Order, error) {
	var (
		o         entity.Order
		status    string
		createdAt string
		total     string
	)
	if err := scan(&o.ID, &o.ClientID, &status, &createdAt, &total); err != nil {
		return nil, err
	}
	o.Status = entity.OrderStatus(status)

	var err error
	o.CreatedAt, err = parseRFC3339(createdAt)
	if err != nil {
		return nil, err
	}
	o.TotalValue, err = decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("parse total %q: %w", total, err)
	}
	return &o, nil
}
