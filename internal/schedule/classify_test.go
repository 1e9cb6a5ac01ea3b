package schedule

import (
	"reflect"
	"testing"
	"time"

	"github.com/cineplex/booking-gateway/internal/model"
)

func TestClassify(t *testing.T) {
	now := time.Date(2024, 6, 10, 20, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		date string
		time string
		want Status
	}{
		{"earlier today", "2024-06-10", "18:00", StatusFinishedToday},
		{"later today", "2024-06-10", "21:00", StatusUpcoming},
		{"yesterday", "2024-06-09", "21:00", StatusHidden},
		{"tomorrow", "2024-06-11", "10:00", StatusUpcoming},
		{"exactly now", "2024-06-10", "20:00", StatusFinishedToday},
		{"rfc3339 date prefix", "2024-06-10T00:00:00Z", "18:00", StatusFinishedToday},
		{"seconds in time", "2024-06-10", "21:00:00", StatusUpcoming},
		{"missing date", "", "18:00", StatusUpcoming},
		{"missing time", "2024-06-10", "", StatusUpcoming},
		{"garbled date", "10/06/2024", "18:00", StatusUpcoming},
		{"garbled time", "2024-06-10", "9pm", StatusUpcoming},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := model.Showtime{ID: "s1", Date: tt.date, Time: tt.time}
			if got := Classify(s, now); got != tt.want {
				t.Errorf("Classify(%q %q) = %v, want %v", tt.date, tt.time, got, tt.want)
			}
		})
	}
}

func TestVisible(t *testing.T) {
	now := time.Date(2024, 6, 10, 20, 0, 0, 0, time.Local)
	a := model.Showtime{ID: "a", Date: "2024-06-10", Time: "18:00"} // finished today
	b := model.Showtime{ID: "b", Date: "2024-06-10", Time: "21:00"} // upcoming
	c := model.Showtime{ID: "c", Date: "2024-06-09", Time: "21:00"} // hidden

	got := Visible([]model.Showtime{a, b, c}, now)
	want := []model.Showtime{a, b}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Visible = %v, want %v", got, want)
	}

	// Idempotence: filtering an already-filtered set changes nothing.
	again := Visible(got, now)
	if !reflect.DeepEqual(again, got) {
		t.Errorf("Visible not idempotent: %v != %v", again, got)
	}
}

func TestVisiblePreservesOrder(t *testing.T) {
	now := time.Date(2024, 6, 10, 20, 0, 0, 0, time.Local)
	in := []model.Showtime{
		{ID: "late", Date: "2024-06-10", Time: "23:00"},
		{ID: "gone", Date: "2024-06-01", Time: "12:00"},
		{ID: "early", Date: "2024-06-10", Time: "08:00"},
		{ID: "next", Date: "2024-06-12", Time: "08:00"},
	}
	got := Visible(in, now)
	wantIDs := []string{"late", "early", "next"}
	if len(got) != len(wantIDs) {
		t.Fatalf("Visible kept %d showtimes, want %d", len(got), len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("Visible[%d].ID = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestClassifyAll(t *testing.T) {
	now := time.Date(2024, 6, 10, 20, 0, 0, 0, time.Local)
	in := []model.Showtime{
		{ID: "a", Date: "2024-06-10", Time: "18:00"},
		{ID: "c", Date: "2024-06-09", Time: "21:00"},
	}
	got := ClassifyAll(in, now)
	if len(got) != 2 {
		t.Fatalf("ClassifyAll returned %d entries, want 2", len(got))
	}
	if got[0].Status != StatusFinishedToday || got[1].Status != StatusHidden {
		t.Errorf("ClassifyAll statuses = %v/%v, want finished_today/hidden", got[0].Status, got[1].Status)
	}
}
