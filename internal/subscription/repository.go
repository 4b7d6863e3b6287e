// AngelaMos | 2026
// repository.go

package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/subtracker/internal/core"
)

// Repository scopes every read and write to the owning user. A row owned
// by someone else is indistinguishable from a missing one.
type Repository interface {
	Create(ctx context.Context, sub *Subscription) error
	GetByID(ctx context.Context, userID, id int64) (*Subscription, error)
	ListByUser(
		ctx context.Context,
		userID int64,
		filter ListFilter,
	) ([]Subscription, error)
	Update(ctx context.Context, sub *Subscription) error
	Delete(ctx context.Context, userID, id int64) error
}

type repository struct {
	db      core.DBTX
	metrics *core.Metrics
}

// NewRepository returns a Postgres-backed Repository. metrics may be nil.
func NewRepository(db core.DBTX, metrics *core.Metrics) Repository {
	return &repository{db: db, metrics: metrics}
}

const selectColumns = `
	id, user_id, name, cost, frequency, renewal_date,
	category, status, created_at, updated_at`

func (r *repository) Create(ctx context.Context, sub *Subscription) error {
	query := `
		INSERT INTO subscriptions
			(user_id, name, cost, frequency, renewal_date, category, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	return r.metrics.ObserveDB("subscription.create", func() error {
		err := r.db.QueryRowxContext(ctx, query,
			sub.UserID,
			sub.Name,
			sub.Cost,
			sub.Frequency,
			sub.RenewalDate,
			sub.Category,
			sub.Status,
		).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
		return core.ClassifyDBError("create subscription", err)
	})
}

func (r *repository) GetByID(
	ctx context.Context,
	userID, id int64,
) (*Subscription, error) {
	query := `SELECT` + selectColumns + `
		FROM subscriptions
		WHERE id = $1 AND user_id = $2`

	var sub Subscription
	err := r.metrics.ObserveDB("subscription.get_by_id", func() error {
		err := r.db.GetContext(ctx, &sub, query, id, userID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("get subscription: %w", core.ErrNotFound)
		}
		return core.ClassifyDBError("get subscription", err)
	})
	if err != nil {
		return nil, err
	}

	return &sub, nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID int64,
	filter ListFilter,
) ([]Subscription, error) {
	conditions := []string{"user_id = $1"}
	args := []any{userID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("LOWER(status) = LOWER($%d)", len(args)))
	}

	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("LOWER(category) = LOWER($%d)", len(args)))
	}

	query := `SELECT` + selectColumns + `
		FROM subscriptions
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY renewal_date, id`

	subs := []Subscription{}
	err := r.metrics.ObserveDB("subscription.list_by_user", func() error {
		return core.ClassifyDBError(
			"list subscriptions",
			r.db.SelectContext(ctx, &subs, query, args...),
		)
	})
	if err != nil {
		return nil, err
	}

	return subs, nil
}

// Update writes every mutable column. created_at and user_id are never
// part of the SET list.
func (r *repository) Update(ctx context.Context, sub *Subscription) error {
	query := `
		UPDATE subscriptions
		SET name = $3, cost = $4, frequency = $5, renewal_date = $6,
		    category = $7, status = $8, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at`

	return r.metrics.ObserveDB("subscription.update", func() error {
		err := r.db.GetContext(ctx, &sub.UpdatedAt, query,
			sub.ID,
			sub.UserID,
			sub.Name,
			sub.Cost,
			sub.Frequency,
			sub.RenewalDate,
			sub.Category,
			sub.Status,
		)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("update subscription: %w", core.ErrNotFound)
		}
		return core.ClassifyDBError("update subscription", err)
	})
}

func (r *repository) Delete(ctx context.Context, userID, id int64) error {
	query := `DELETE FROM subscriptions WHERE id = $1 AND user_id = $2`

	return r.metrics.ObserveDB("subscription.delete", func() error {
		result, err := r.db.ExecContext(ctx, query, id, userID)
		if err != nil {
			return core.ClassifyDBError("delete subscription", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete subscription: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("delete subscription: %w", core.ErrNotFound)
		}

		return nil
	})
}
