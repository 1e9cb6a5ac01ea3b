// Package schedule derives the display status of showtimes relative to
// the current moment and keeps a held showtime set fresh over time.
// Classification is pure: the same showtime and instant always yield
// the same status, at any call rate, with no side effects.
package schedule

import (
	"time"

	"github.com/cineplex/booking-gateway/internal/model"
)

// Status is the derived display state of a showtime.  It is computed
// fresh on every classification pass and never persisted.
type Status string

const (
	// StatusUpcoming marks a showtime that has not started yet.
	StatusUpcoming Status = "upcoming"
	// StatusFinishedToday marks a showtime that already started but on
	// the current calendar day; it stays listed until midnight.
	StatusFinishedToday Status = "finished_today"
	// StatusHidden marks a showtime on a prior calendar day.  Hidden
	// showtimes are excluded from end-user display.
	StatusHidden Status = "hidden"
)

// Classified pairs a showtime with its derived status for rendering.
type Classified struct {
	model.Showtime
	Status Status `json:"status"`
}

// Classify maps a showtime and an instant to a display status.  The
// showtime's date and time fields are composed into a wall-clock
// instant in now's location: year/month/day from the date, hour/minute
// from the time, seconds zeroed.
//
// A showtime with a missing or malformed date or time classifies as
// upcoming.  Failing open keeps real-but-garbled records visible
// instead of silently dropping them; revise deliberately if that bias
// ever changes.
func Classify(s model.Showtime, now time.Time) Status {
	start, ok := composeStart(s, now.Location())
	if !ok {
		return StatusUpcoming
	}
	if start.After(now) {
		return StatusUpcoming
	}
	if sameDay(start, now) {
		return StatusFinishedToday
	}
	return StatusHidden
}

// Visible returns the order-preserving subset of showtimes whose
// classification is upcoming or finished-today.  It always allocates a
// fresh slice, so applying it twice to the same inputs yields the same
// result and never mutates the argument.
func Visible(showtimes []model.Showtime, now time.Time) []model.Showtime {
	out := make([]model.Showtime, 0, len(showtimes))
	for _, s := range showtimes {
		if Classify(s, now) != StatusHidden {
			out = append(out, s)
		}
	}
	return out
}

// ClassifyAll tags every showtime with its status, preserving order.
func ClassifyAll(showtimes []model.Showtime, now time.Time) []Classified {
	out := make([]Classified, 0, len(showtimes))
	for _, s := range showtimes {
		out = append(out, Classified{Showtime: s, Status: Classify(s, now)})
	}
	return out
}

// composeStart builds the showtime's start instant in the given
// location.  The date accepts "2006-01-02" directly or as the prefix of
// a longer timestamp (the store sometimes serves full RFC3339 dates);
// the time accepts "15:04" or "15:04:05".  ok is false when either
// field is absent or unparseable.
func composeStart(s model.Showtime, loc *time.Location) (time.Time, bool) {
	ds := s.Date
	if len(ds) > 10 {
		ds = ds[:10]
	}
	d, err := time.ParseInLocation("2006-01-02", ds, loc)
	if err != nil {
		return time.Time{}, false
	}
	t, err := time.Parse("15:04", s.Time)
	if err != nil {
		if t, err = time.Parse("15:04:05", s.Time); err != nil {
			return time.Time{}, false
		}
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, loc), true
}

// sameDay reports whether both instants fall on the same calendar day
// in a's location.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
