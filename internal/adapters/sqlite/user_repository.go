package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jcmexdev/backoffice-api/internal/core/domain/entity"
	"github.com/jcmexdev/backoffice-api/internal/core/domain/fault"
	"github.com/jcmexdev/backoffice-api/internal/core/ports"
)

type userRepository struct {
	q querier
}

var _ ports.UserRepository = (*userRepository)(nil)

func (r *userRepository) Insert(ctx context.Context, u *entity.User) error {
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO users (uid, created_by, name, email, role) VALUES (?, ?, ?, ?, ?)`,
		u.UID, u.CreatedBy, u.Name, u.Email, u.Role,
	)
	if err != nil {
		return mapConstraintErr(err, "insert user")
	}
	u.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: user insert id: %w", err)
	}
	return nil
}

func (r *userRepository) GetByUID(ctx context.Context, uid string) (*entity.User, error) {
	var u entity.User
	err := r.q.QueryRowContext(ctx,
		`SELECT id, uid, created_by, name, email, role FROM users WHERE uid = ?`, uid,
	).Scan(&u.ID, &u.UID, &u.CreatedBy, &u.Name, &u.Email, &u.Role)
	if err == sql.ErrNoRows {
		return nil, fault.New(fault.KindNotFound, "user %q not found", uid)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get user %q: %w", uid, err)
	}
	return &u, nil
}
