package booking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cineplex/booking-gateway/internal/api"
	"github.com/cineplex/booking-gateway/internal/model"
)

func boolPtr(b bool) *bool { return &b }

var selection = &model.Showtime{ID: "s1", Date: "2024-06-10", Time: "21:00"}

func TestSubmitPreconditionOrder(t *testing.T) {
	called := false
	g := NewGuard(func(ctx context.Context, id string, seats int) (*api.CreateReservationResponse, error) {
		called = true
		return nil, nil
	})

	if _, err := g.Submit(context.Background(), nil, 0, false); err != ErrUnauthenticated {
		t.Errorf("unauthenticated err = %v", err)
	}
	if _, err := g.Submit(context.Background(), nil, 0, true); err != ErrNoSelection {
		t.Errorf("no selection err = %v", err)
	}
	if _, err := g.Submit(context.Background(), selection, 0, true); err != ErrSeatCount {
		t.Errorf("seat count err = %v", err)
	}
	if called {
		t.Error("dispatch ran despite failed preconditions")
	}
}

func TestSubmitAtMostOneInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var startedOnce sync.Once
	var calls atomic.Int64

	g := NewGuard(func(ctx context.Context, id string, seats int) (*api.CreateReservationResponse, error) {
		calls.Add(1)
		startedOnce.Do(func() { close(started) })
		<-release
		return &api.CreateReservationResponse{Success: boolPtr(true)}, nil
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := g.Submit(context.Background(), selection, 2, true); err != nil {
			t.Errorf("first submit: %v", err)
		}
	}()

	<-started
	if _, err := g.Submit(context.Background(), selection, 2, true); err != ErrInFlight {
		t.Errorf("second submit err = %v, want ErrInFlight", err)
	}
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("dispatch ran %d times, want 1", got)
	}

	// The guard is reusable once the first submission settles.
	if _, err := g.Submit(context.Background(), selection, 1, true); err != nil {
		t.Errorf("submit after settle: %v", err)
	}
}

func TestSubmitOutcomeMapping(t *testing.T) {
	tests := []struct {
		name    string
		resp    *api.CreateReservationResponse
		callErr error
		want    error
	}{
		{"http 400", nil, &api.StatusError{Code: 400}, ErrInvalidOrFull},
		{"http 404", nil, &api.StatusError{Code: 404}, ErrShowtimeNotFound},
		{"http 409", nil, &api.StatusError{Code: 409}, ErrDuplicateReservation},
		{"unreachable", nil, api.ErrUnreachable, ErrUnreachable},
		{"unknown", nil, errors.New("tls handshake exploded"), ErrUnknown},
		{"ambiguous payload", &api.CreateReservationResponse{}, nil, ErrAmbiguousResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGuard(func(ctx context.Context, id string, seats int) (*api.CreateReservationResponse, error) {
				return tt.resp, tt.callErr
			})
			_, err := g.Submit(context.Background(), selection, 1, true)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSubmitServerErrorStatus(t *testing.T) {
	g := NewGuard(func(ctx context.Context, id string, seats int) (*api.CreateReservationResponse, error) {
		return nil, &api.StatusError{Code: 503}
	})
	_, err := g.Submit(context.Background(), selection, 1, true)
	var se *ServerError
	if !errors.As(err, &se) || se.Status != 503 {
		t.Errorf("err = %v, want *ServerError{503}", err)
	}
}

func TestSubmitRemoteRejected(t *testing.T) {
	g := NewGuard(func(ctx context.Context, id string, seats int) (*api.CreateReservationResponse, error) {
		return &api.CreateReservationResponse{Success: boolPtr(false), Message: "showtime sold out"}, nil
	})
	_, err := g.Submit(context.Background(), selection, 1, true)
	var rr *RemoteRejectedError
	if !errors.As(err, &rr) || rr.Reason != "showtime sold out" {
		t.Errorf("err = %v, want RemoteRejectedError", err)
	}
}

func TestSubmitErrorMemberRejects(t *testing.T) {
	// A 2xx body carrying an error member is an explicit refusal, not
	// an ambiguous response, even with no success marker present.
	g := NewGuard(func(ctx context.Context, id string, seats int) (*api.CreateReservationResponse, error) {
		return &api.CreateReservationResponse{Error: "seance complete"}, nil
	})
	_, err := g.Submit(context.Background(), selection, 1, true)
	var rr *RemoteRejectedError
	if !errors.As(err, &rr) || rr.Reason != "seance complete" {
		t.Errorf("err = %v, want RemoteRejectedError{seance complete}", err)
	}
}

func TestSubmitErrorMemberRejectsOverWire(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error":"seance complete"}`))
	}))
	defer srv.Close()

	client := api.New(srv.URL, time.Second)
	g := NewGuard(func(ctx context.Context, id string, seats int) (*api.CreateReservationResponse, error) {
		return client.CreateReservation(ctx, "tok", id, seats)
	})
	_, err := g.Submit(context.Background(), selection, 1, true)
	var rr *RemoteRejectedError
	if !errors.As(err, &rr) || rr.Reason != "seance complete" {
		t.Errorf("err = %v, want RemoteRejectedError{seance complete}", err)
	}
}

func TestSubmitSuccessReturnsReservation(t *testing.T) {
	want := &model.Reservation{ID: "r1", ShowtimeID: "s1", Seats: 2, Status: model.ReservationConfirmed}
	g := NewGuard(func(ctx context.Context, id string, seats int) (*api.CreateReservationResponse, error) {
		if id != "s1" || seats != 2 {
			t.Errorf("dispatch got (%q, %d)", id, seats)
		}
		return &api.CreateReservationResponse{Success: boolPtr(true), Reservation: want}, nil
	})
	got, err := g.Submit(context.Background(), selection, 2, true)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got != want {
		t.Errorf("reservation = %v, want %v", got, want)
	}
}
