package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jcmexdev/backoffice-api/internal/core/domain/entity"
	"github.com/jcmexdev/backoffice-api/internal/core/domain/fault"
	"github.com/jcmexdev/backoffice-api/internal/core/ports"
)

type clientRepository struct {
	q querier
}

var _ ports.ClientRepository = (*clientRepository)(nil)

func (r *clientRepository) Insert(ctx context.Context, c *entity.Client) error {
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO clients (created_by, name, email, cpf) VALUES (?, ?, ?, ?)`,
		c.CreatedBy, c.Name, c.Email, c.CPF,
	)
	if err != nil {
		return mapConstraintErr(err, "insert client")
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: client insert id: %w", err)
	}
	return nil
}

func (r *clientRepository) Get(ctx context.Context, id int64) (*entity.Client, error) {
	var c entity.Client
	err := r.q.QueryRowContext(ctx,
		`SELECT id, created_by, name, email, cpf FROM clients WHERE id = ?`, id,
	).Scan(&c.ID, &c.CreatedBy, &c.Name, &c.Email, &c.CPF)
	if err == sql.ErrNoRows {
		return nil, fault.New(fault.KindNotFound, "client %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get client %d: %w", id, err)
	}
	return &c, nil
}

func (r *clientRepository) List(ctx context.Context, f ports.ClientFilter) ([]*entity.Client, error) {
	var (
		where []string
		args  []any
	)
	if f.Name != "" {
		where = append(where, `name LIKE ?`)
		args = append(args, "%"+f.Name+"%")
	}
	if f.Email != "" {
		where = append(where, `email LIKE ?`)
		args = append(args, "%"+f.Email+"%")
	}
	if f.CPF != "" {
		where = append(where, `cpf = ?`)
		args = append(args, entity.NormalizeCPF(f.CPF))
	}

	q := `SELECT id, created_by, name, email, cpf FROM clients`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, ` AND `)
	}
	q += ` ORDER BY id LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list clients: %w", err)
	}
	defer rows.Close()

	var out []*entity.Client
	for rows.Next() {
		var c entity.Client
		if err := rows.Scan(&c.ID, &c.CreatedBy, &c.Name, &c.Email, &c.CPF); err != nil {
			return nil, fmt.Errorf("sqlite: scan client row: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *clientRepository) Update(ctx context.Context, c *entity.Client) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE clients SET name = ?, email = ?, cpf = ? WHERE id = ?`,
		c.Name, c.Email, c.CPF, c.ID,
	)
	if err != nil {
		return mapConstraintErr(err, "update client")
	}
	return requireAffected(res, fault.New(fault.KindNotFound, "client %d not found", c.ID))
}

func (r *clientRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return mapConstraintErr(err, "delete client")
	}
	return requireAffected(res, fault.New(fault.KindNotFound, "client %d not found", id))
}
