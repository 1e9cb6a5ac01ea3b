package analytics

import (
	"reflect"
	"testing"
	"time"

	"github.com/cineplex/booking-gateway/internal/model"
)

func res(id string, created time.Time) model.Reservation {
	return model.Reservation{ID: id, Status: model.ReservationConfirmed, CreatedAt: created}
}

func TestFilterRange(t *testing.T) {
	now := time.Date(2024, 6, 10, 20, 0, 0, 0, time.UTC)
	all := []model.Reservation{
		res("today", time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)),
		res("yesterday", time.Date(2024, 6, 9, 23, 0, 0, 0, time.UTC)),
		res("lastweek", time.Date(2024, 6, 4, 12, 0, 0, 0, time.UTC)),
		res("lastmonth", time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)),
		res("ancient", time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)),
	}

	tests := []struct {
		rng  Range
		want []string
	}{
		{RangeToday, []string{"today"}},
		{RangeWeek, []string{"today", "yesterday", "lastweek"}},
		{RangeMonth, []string{"today", "yesterday", "lastweek", "lastmonth"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.rng), func(t *testing.T) {
			got := FilterRange(all, tt.rng, now)
			ids := make([]string, len(got))
			for i, r := range got {
				ids[i] = r.ID
			}
			if !reflect.DeepEqual(ids, tt.want) {
				t.Errorf("FilterRange(%s) = %v, want %v", tt.rng, ids, tt.want)
			}
		})
	}
}

func TestParseRange(t *testing.T) {
	if ParseRange("week") != RangeWeek || ParseRange("month") != RangeMonth {
		t.Error("known ranges not recognized")
	}
	if ParseRange("") != RangeToday || ParseRange("fortnight") != RangeToday {
		t.Error("unknown range should default to today")
	}
}

func TestCountByDay(t *testing.T) {
	rs := []model.Reservation{
		res("a", time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)),
		res("b", time.Date(2024, 6, 9, 10, 0, 0, 0, time.UTC)),
		res("c", time.Date(2024, 6, 10, 21, 0, 0, 0, time.UTC)),
	}
	got := CountByDay(rs)
	want := []DayCount{
		{Day: "2024-06-09", Count: 1},
		{Day: "2024-06-10", Count: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CountByDay = %v, want %v", got, want)
	}
}
