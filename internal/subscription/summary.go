// AngelaMos | 2026
// summary.go

package subscription

import (
	"math"
	"sort"
	"strings"
)

// monthlyFactor converts one charge at the given cadence into its
// average monthly amount.
var monthlyFactor = map[string]float64{
	"daily":        365.0 / 12,
	"weekly":       52.0 / 12,
	"biweekly":     26.0 / 12,
	"monthly":      1,
	"quarterly":    1.0 / 3,
	"semiannually": 1.0 / 6,
	"annually":     1.0 / 12,
	"yearly":       1.0 / 12,
}

// MonthlyCost reports the average monthly cost of s and whether its
// frequency is one the tracker knows how to normalise.
func MonthlyCost(s *Subscription) (float64, bool) {
	key := strings.ToLower(strings.TrimSpace(s.Frequency))
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)

	factor, ok := monthlyFactor[key]
	if !ok {
		return 0, false
	}
	return s.Cost * factor, true
}

func Summarize(subs []Subscription) SummaryResponse {
	summary := SummaryResponse{
		ByCategory:   []CategoryTotal{},
		Unrecognized: []int64{},
	}

	byCategory := make(map[string]*CategoryTotal)

	for i := range subs {
		sub := &subs[i]
		if !sub.IsActive() {
			continue
		}
		summary.ActiveCount++

		monthly, ok := MonthlyCost(sub)
		if !ok {
			summary.Unrecognized = append(summary.Unrecognized, sub.ID)
			continue
		}

		total, exists := byCategory[sub.Category]
		if !exists {
			total = &CategoryTotal{Category: sub.Category}
			byCategory[sub.Category] = total
		}
		total.Count++
		total.MonthlyTotal += monthly
		summary.MonthlyTotal += monthly
	}

	for _, total := range byCategory {
		total.AnnualTotal = roundCents(total.MonthlyTotal * 12)
		total.MonthlyTotal = roundCents(total.MonthlyTotal)
		summary.ByCategory = append(summary.ByCategory, *total)
	}

	sort.Slice(summary.ByCategory, func(i, j int) bool {
		return summary.ByCategory[i].Category < summary.ByCategory[j].Category
	})

	summary.AnnualTotal = roundCents(summary.MonthlyTotal * 12)
	summary.MonthlyTotal = roundCents(summary.MonthlyTotal)

	return summary
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
