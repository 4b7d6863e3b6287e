// AngelaMos | 2026
// memory_test.go

package subscription

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/carterperez-dev/subtracker/internal/core"
)

// memoryRepo mirrors the Postgres repository's ownership rules.
type memoryRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]Subscription
	clock  time.Time
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		rows:  make(map[int64]Subscription),
		clock: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *memoryRepo) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memoryRepo) Create(_ context.Context, sub *Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	now := m.tick()
	sub.ID = m.nextID
	sub.CreatedAt = now
	sub.UpdatedAt = now
	m.rows[sub.ID] = *sub
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, userID, id int64) (*Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub, ok := m.rows[id]
	if !ok || sub.UserID != userID {
		return nil, fmt.Errorf("get subscription: %w", core.ErrNotFound)
	}
	return &sub, nil
}

func (m *memoryRepo) ListByUser(
	_ context.Context,
	userID int64,
	filter ListFilter,
) ([]Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	subs := []Subscription{}
	for _, sub := range m.rows {
		if sub.UserID != userID {
			continue
		}
		if filter.Status != "" && !strings.EqualFold(sub.Status, filter.Status) {
			continue
		}
		if filter.Category != "" && !strings.EqualFold(sub.Category, filter.Category) {
			continue
		}
		subs = append(subs, sub)
	}

	sort.Slice(subs, func(i, j int) bool {
		if !subs[i].RenewalDate.Equal(subs[j].RenewalDate.Time) {
			return subs[i].RenewalDate.Before(subs[j].RenewalDate.Time)
		}
		return subs[i].ID < subs[j].ID
	})
	return subs, nil
}

func (m *memoryRepo) Update(_ context.Context, sub *Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.rows[sub.ID]
	if !ok || stored.UserID != sub.UserID {
		return fmt.Errorf("update subscription: %w", core.ErrNotFound)
	}

	sub.CreatedAt = stored.CreatedAt
	sub.UpdatedAt = m.tick()
	m.rows[sub.ID] = *sub
	return nil
}

func (m *memoryRepo) Delete(_ context.Context, userID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub, ok := m.rows[id]
	if !ok || sub.UserID != userID {
		return fmt.Errorf("delete subscription: %w", core.ErrNotFound)
	}
	delete(m.rows, id)
	return nil
}

var _ Repository = (*memoryRepo)(nil)
