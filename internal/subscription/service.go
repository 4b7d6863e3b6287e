// AngelaMos | 2026
// service.go

package subscription

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/subtracker/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(
	ctx context.Context,
	userID int64,
	req CreateSubscriptionRequest,
) (*Subscription, error) {
	ctx, span := core.StartSpan(ctx, "subscription.Create",
		attribute.Int64("user.id", userID),
	)
	var err error
	defer func() { core.EndSpan(span, err) }()

	if userID == 0 {
		err = fmt.Errorf("create subscription: %w", core.ErrUnauthorized)
		return nil, err
	}

	sub := req.ToEntity(userID)
	if err = s.repo.Create(ctx, sub); err != nil {
		return nil, err
	}

	return sub, nil
}

func (s *Service) Get(
	ctx context.Context,
	userID, id int64,
) (*Subscription, error) {
	return s.repo.GetByID(ctx, userID, id)
}

func (s *Service) List(
	ctx context.Context,
	userID int64,
	filter ListFilter,
) ([]Subscription, error) {
	return s.repo.ListByUser(ctx, userID, filter)
}

// Update merges the supplied fields into the stored row. An empty patch
// returns the row unchanged without a write, so updated_at only moves
// when something was actually sent.
func (s *Service) Update(
	ctx context.Context,
	userID, id int64,
	req UpdateSubscriptionRequest,
) (*Subscription, error) {
	ctx, span := core.StartSpan(ctx, "subscription.Update",
		attribute.Int64("user.id", userID),
		attribute.Int64("subscription.id", id),
	)
	var err error
	defer func() { core.EndSpan(span, err) }()

	sub, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if !sub.ApplyPatch(req) {
		return sub, nil
	}

	if err = s.repo.Update(ctx, sub); err != nil {
		return nil, err
	}

	return sub, nil
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	return s.repo.Delete(ctx, userID, id)
}

func (s *Service) Summary(
	ctx context.Context,
	userID int64,
) (*SummaryResponse, error) {
	subs, err := s.repo.ListByUser(ctx, userID, ListFilter{})
	if err != nil {
		return nil, err
	}

	summary := Summarize(subs)
	return &summary, nil
}
