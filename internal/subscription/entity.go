// AngelaMos | 2026
// entity.go

package subscription

import (
	"strings"
	"time"

	"github.com/carterperez-dev/subtracker/internal/core"
)

const (
	DefaultCategory = "Uncategorized"
	DefaultStatus   = "active"
)

type Subscription struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	Name        string    `db:"name"`
	Cost        float64   `db:"cost"`
	Frequency   string    `db:"frequency"`
	RenewalDate core.Date `db:"renewal_date"`
	Category    string    `db:"category"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (s *Subscription) IsActive() bool {
	return strings.EqualFold(s.Status, DefaultStatus)
}

// ApplyPatch copies each present field of p onto s and reports whether
// anything was supplied. Ownership and timestamps are never touched.
func (s *Subscription) ApplyPatch(p UpdateSubscriptionRequest) bool {
	changed := false

	if p.Name != nil {
		s.Name = strings.TrimSpace(*p.Name)
		changed = true
	}
	if p.Cost != nil {
		s.Cost = *p.Cost
		changed = true
	}
	if p.Frequency != nil {
		s.Frequency = strings.TrimSpace(*p.Frequency)
		changed = true
	}
	if p.RenewalDate != nil {
		s.RenewalDate = *p.RenewalDate
		changed = true
	}
	if p.Category != nil {
		s.Category = withDefault(*p.Category, DefaultCategory)
		changed = true
	}
	if p.Status != nil {
		s.Status = withDefault(*p.Status, DefaultStatus)
		changed = true
	}

	return changed
}

func withDefault(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}
