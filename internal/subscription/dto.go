// AngelaMos | 2026
// dto.go

package subscription

import (
	"strings"
	"time"

	"github.com/carterperez-dev/subtracker/internal/core"
)

type CreateSubscriptionRequest struct {
	Name        string     `json:"name"         validate:"required,notblank,max=100"`
	Cost        *float64   `json:"cost"         validate:"required,gte=0"`
	Frequency   string     `json:"frequency"    validate:"required,notblank,max=50"`
	RenewalDate *core.Date `json:"renewal_date" validate:"required"`
	Category    string     `json:"category"     validate:"omitempty,max=50"`
	Status      string     `json:"status"       validate:"omitempty,max=20"`
}

// ToEntity fills the optional fields with their defaults.
func (r CreateSubscriptionRequest) ToEntity(userID int64) *Subscription {
	return &Subscription{
		UserID:      userID,
		Name:        strings.TrimSpace(r.Name),
		Cost:        *r.Cost,
		Frequency:   strings.TrimSpace(r.Frequency),
		RenewalDate: *r.RenewalDate,
		Category:    withDefault(r.Category, DefaultCategory),
		Status:      withDefault(r.Status, DefaultStatus),
	}
}

// UpdateSubscriptionRequest is a partial update: nil fields are left as
// they are.
type UpdateSubscriptionRequest struct {
	Name        *string    `json:"name,omitempty"         validate:"omitempty,notblank,max=100"`
	Cost        *float64   `json:"cost,omitempty"         validate:"omitempty,gte=0"`
	Frequency   *string    `json:"frequency,omitempty"    validate:"omitempty,notblank,max=50"`
	RenewalDate *core.Date `json:"renewal_date,omitempty"`
	Category    *string    `json:"category,omitempty"     validate:"omitempty,max=50"`
	Status      *string    `json:"status,omitempty"       validate:"omitempty,max=20"`
}

type ListFilter struct {
	Status   string `json:"status"   validate:"omitempty,max=20"`
	Category string `json:"category" validate:"omitempty,max=50"`
}

type SubscriptionResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Cost        float64   `json:"cost"`
	Frequency   string    `json:"frequency"`
	RenewalDate core.Date `json:"renewal_date"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CategoryTotal struct {
	Category     string  `json:"category"`
	Count        int     `json:"count"`
	MonthlyTotal float64 `json:"monthly_total"`
	AnnualTotal  float64 `json:"annual_total"`
}

// SummaryResponse aggregates active subscriptions. Subscriptions whose
// frequency is not recognised are listed by id instead of guessed at.
type SummaryResponse struct {
	ActiveCount  int             `json:"active_count"`
	MonthlyTotal float64         `json:"monthly_total"`
	AnnualTotal  float64         `json:"annual_total"`
	ByCategory   []CategoryTotal `json:"by_category"`
	Unrecognized []int64         `json:"unrecognized"`
}

func ToSubscriptionResponse(s *Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:          s.ID,
		UserID:      s.UserID,
		Name:        s.Name,
		Cost:        s.Cost,
		Frequency:   s.Frequency,
		RenewalDate: s.RenewalDate,
		Category:    s.Category,
		Status:      s.Status,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func ToSubscriptionResponseList(subs []Subscription) []SubscriptionResponse {
	responses := make([]SubscriptionResponse, 0, len(subs))
	for i := range subs {
		responses = append(responses, ToSubscriptionResponse(&subs[i]))
	}
	return responses
}
