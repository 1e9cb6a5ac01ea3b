// Package analytics aggregates reservation records for the admin
// dashboard: a time-range filter over creation dates and a per-day
// count series for the chart.
package analytics

import (
	"sort"
	"time"

	"github.com/cineplex/booking-gateway/internal/model"
)

// Range selects which reservations feed the dashboard series.
type Range string

const (
	RangeToday Range = "today"
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
)

// ParseRange maps a query value to a Range, defaulting to today.
func ParseRange(s string) Range {
	switch Range(s) {
	case RangeWeek:
		return RangeWeek
	case RangeMonth:
		return RangeMonth
	default:
		return RangeToday
	}
}

// FilterRange keeps the reservations created within the range relative
// to now: the current calendar day, the last 7 days, or the last 30
// days.  Order is preserved.
func FilterRange(rs []model.Reservation, rng Range, now time.Time) []model.Reservation {
	var cutoff time.Time
	switch rng {
	case RangeWeek:
		cutoff = now.AddDate(0, 0, -7)
	case RangeMonth:
		cutoff = now.AddDate(0, 0, -30)
	default:
		y, m, d := now.Date()
		cutoff = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	}
	out := make([]model.Reservation, 0, len(rs))
	for _, r := range rs {
		if !r.CreatedAt.Before(cutoff) {
			out = append(out, r)
		}
	}
	return out
}

// DayCount is one point of the dashboard series.
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// CountByDay groups reservations by creation day ("2006-01-02") and
// returns the counts in ascending day order.
func CountByDay(rs []model.Reservation) []DayCount {
	counts := make(map[string]int)
	for _, r := range rs {
		counts[r.CreatedAt.Format("2006-01-02")]++
	}
	out := make([]DayCount, 0, len(counts))
	for day, n := range counts {
		out = append(out, DayCount{Day: day, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}
