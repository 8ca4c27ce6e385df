package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/backoffice-api/internal/core/domain/entity"
	"github.com/jcmexdev/backoffice-api/internal/core/domain/fault"
	"github.com/jcmexdev/backoffice-api/internal/core/ports"
)

type productRepository struct {
	q querier
}

var _ ports.ProductRepository = (*productRepository)(nil)

const productColumns = `id, created_by, description, price, barcode, section, stock, expiration_date, images`

func (r *productRepository) Insert(ctx context.Context, p *entity.Product) error {
	const q = `
		INSERT INTO products
			(created_by, description, price, barcode, section, stock, expiration_date, images)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := r.q.ExecContext(ctx, q,
		p.CreatedBy,
		p.Description,
		p.Price.String(),
		p.Barcode,
		p.Section,
		p.Stock,
		nullableDate(p.ExpirationDate),
		marshalImages(p.Images),
	)
	if err != nil {
		return mapConstraintErr(err, "insert product")
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: product insert id: %w", err)
	}
	return nil
}

func (r *productRepository) Get(ctx context.Context, id int64) (*entity.Product, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fault.New(fault.KindNotFound, "product %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get product %d: %w", id, err)
	}
	return p, nil
}

func (r *productRepository) List(ctx context.Context, f ports.ProductFilter) ([]*entity.Product, error) {
	var (
		where []string
		args  []any
	)
	if f.Description != "" {
		where = append(where, `description LIKE ?`)
		args = append(args, "%"+f.Description+"%")
	}
	if f.Barcode != "" {
		where = append(where, `barcode LIKE ?`)
		args = append(args, "%"+f.Barcode+"%")
	}
	if f.Section != "" {
		where = append(where, `section = ?`)
		args = append(args, f.Section)
	}
	if f.MinPrice != nil {
		where = append(where, `CAST(price AS REAL) >= ?`)
		args = append(args, f.MinPrice.InexactFloat64())
	}
	if f.MaxPrice != nil {
		where = append(where, `CAST(price AS REAL) <= ?`)
		args = append(args, f.MaxPrice.InexactFloat64())
	}
	if f.Available != nil {
		if *f.Available {
			where = append(where, `stock > 0`)
		} else {
			where = append(where, `stock = 0`)
		}
	}

	q := `SELECT ` + productColumns + ` FROM products`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, ` AND `)
	}
	q += ` ORDER BY id LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list products: %w", err)
	}
	defer rows.Close()

	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan product row: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *productRepository) Update(ctx context.Context, p *entity.Product) error {
	const q = `
		UPDATE products
		SET description = ?, price = ?, barcode = ?, section = ?, stock = ?,
		    expiration_date = ?, images = ?
		WHERE id = ?`

	res, err := r.q.ExecContext(ctx, q,
		p.Description,
		p.Price.String(),
		p.Barcode,
		p.Section,
		p.Stock,
		nullableDate(p.ExpirationDate),
		marshalImages(p.Images),
		p.ID,
	)
	if err != nil {
		return mapConstraintErr(err, "update product")
	}
	return requireAffected(res, fault.New(fault.KindNotFound, "product %d not found", p.ID))
}

func (r *productRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return mapConstraintErr(err, "delete product")
	}
	return requireAffected(res, fault.New(fault.KindNotFound, "product %d not found", id))
}

// Reserve is the atomic conditional decrement at the heart of the stock
// invariant: the WHERE clause re-checks availability in the same statement
// that mutates it, so two concurrent reservations can never both succeed
// past the last unit.
func (r *productRepository) Reserve(ctx context.Context, id int64, qty int) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?`,
		qty, id, qty,
	)
	if err != nil {
		return fmt.Errorf("sqlite: reserve stock for product %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: reserve stock for product %d: %w", id, err)
	}
	if n > 0 {
		return nil
	}

	// Zero rows: either the product is missing or stock < qty.
	var stock int
	err = r.q.QueryRowContext(ctx, `SELECT stock FROM products WHERE id = ?`, id).Scan(&stock)
	if err == sql.ErrNoRows {
		return fault.New(fault.KindNotFound, "product %d not found", id)
	}
	if err != nil {
		return fmt.Errorf("sqlite: reserve stock for product %d: %w", id, err)
	}
	return fault.New(fault.KindInsufficientStock,
		"insufficient stock for product %d: available %d, requested %d", id, stock, qty)
}

// Release restores qty units unconditionally.
func (r *productRepository) Release(ctx context.Context, id int64, qty int) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE products SET stock = stock + ? WHERE id = ?`,
		qty, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: release stock for product %d: %w", id, err)
	}
	return requireAffected(res, fault.New(fault.KindNotFound, "product %d not found", id))
}

// scanProduct works for both *sql.Row and *sql.Rows scan functions.
func scanProduct(scan func(dest ...any) error) (*entity.Product, error) {
	var (
		p       entity.Product
		price   string
		expDate sql.NullString
		images  string
	)
	if err := scan(
		&p.ID,
		&p.CreatedBy,
		&p.Description,
		&price,
		&p.Barcode,
		&p.Section,
		&p.Stock,
		&expDate,
		&images,
	); err != nil {
		return nil, err
	}

	var err error
	p.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parse price %q: %w", price, err)
	}
	if expDate.Valid {
		d, err := time.Parse(dateLayout, expDate.String)
		if err != nil {
			return nil, fmt.Errorf("parse expiration date %q: %w", expDate.String, err)
		}
		p.ExpirationDate = &d
	}
	if err := json.Unmarshal([]byte(images), &p.Images); err != nil {
		return nil, fmt.Errorf("parse images %q: %w", images, err)
	}
	return &p, nil
}

func marshalImages(images []string) string {
	if len(images) == 0 {
		return "[]"
	}
	b, err := json.Marshal(images)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func nullableDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

// requireAffected turns a zero-row mutation into the given fault.
func requireAffected(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if n == 0 {
		return missing
	}
	return nil
}
