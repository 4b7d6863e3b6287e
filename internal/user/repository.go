// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/subtracker/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type repository struct {
	db      core.DBTX
	metrics *core.Metrics
}

// NewRepository returns a Postgres-backed Repository. metrics may be nil.
func NewRepository(db core.DBTX, metrics *core.Metrics) Repository {
	return &repository{db: db, metrics: metrics}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`

	return r.metrics.ObserveDB("user.create", func() error {
		err := r.db.QueryRowxContext(ctx, query,
			user.Email,
			user.PasswordHash,
		).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
		return core.ClassifyDBError("create user", err)
	})
}

func (r *repository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `
		SELECT id, email, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1`

	var user User
	err := r.metrics.ObserveDB("user.get_by_id", func() error {
		err := r.db.GetContext(ctx, &user, query, id)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("get user: %w", core.ErrNotFound)
		}
		return core.ClassifyDBError("get user", err)
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	query := `
		SELECT id, email, password_hash, created_at, updated_at
		FROM users
		WHERE email = $1`

	var user User
	err := r.metrics.ObserveDB("user.get_by_email", func() error {
		err := r.db.GetContext(ctx, &user, query, email)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("get user by email: %w", core.ErrNotFound)
		}
		return core.ClassifyDBError("get user by email", err)
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *repository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET email = $2, password_hash = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	return r.metrics.ObserveDB("user.update", func() error {
		err := r.db.GetContext(ctx, &user.UpdatedAt, query,
			user.ID,
			user.Email,
			user.PasswordHash,
		)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("update user: %w", core.ErrNotFound)
		}
		return core.ClassifyDBError("update user", err)
	})
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id int64,
	passwordHash string,
) error {
	query := `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1`

	return r.metrics.ObserveDB("user.update_password", func() error {
		result, err := r.db.ExecContext(ctx, query, id, passwordHash)
		if err != nil {
			return core.ClassifyDBError("update password", err)
		}
		return requireRow("update password", result)
	})
}

// Delete removes the account; its subscriptions go with it through the
// foreign key cascade.
func (r *repository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM users WHERE id = $1`

	return r.metrics.ObserveDB("user.delete", func() error {
		result, err := r.db.ExecContext(ctx, query, id)
		if err != nil {
			return core.ClassifyDBError("delete user", err)
		}
		return requireRow("delete user", result)
	})
}

func (r *repository) ExistsByEmail(
	ctx context.Context,
	email string,
) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	err := r.metrics.ObserveDB("user.exists_by_email", func() error {
		return core.ClassifyDBError(
			"check email exists",
			r.db.GetContext(ctx, &exists, query, email),
		)
	})
	if err != nil {
		return false, err
	}

	return exists, nil
}

func requireRow(op string, result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}
