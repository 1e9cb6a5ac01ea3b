package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cineplex/booking-gateway/internal/api"
	"github.com/cineplex/booking-gateway/internal/model"
	"github.com/cineplex/booking-gateway/internal/schedule"
	"github.com/cineplex/booking-gateway/internal/session"
)

func newReservationHandler(t *testing.T, guardTTL time.Duration) *ReservationHandler {
	t.Helper()
	client := api.New("http://127.0.0.1:0", time.Second)
	store := session.NewStore(nil, time.Hour)
	refresher := schedule.NewRefresher(time.Minute, nil)
	return NewReservationHandler(client, store, refresher, false, guardTTL)
}

func TestGuardForReusesPerSession(t *testing.T) {
	h := newReservationHandler(t, time.Hour)
	a := session.New("tok-a", model.User{ID: "u1"})
	b := session.New("tok-b", model.User{ID: "u2"})

	if h.guardFor(a) != h.guardFor(a) {
		t.Error("same session got different guards")
	}
	if h.guardFor(a) == h.guardFor(b) {
		t.Error("distinct sessions share a guard")
	}
}

func TestReleaseGuardEvicts(t *testing.T) {
	h := newReservationHandler(t, time.Hour)
	s := session.New("tok", model.User{ID: "u1"})

	first := h.guardFor(s)
	h.ReleaseGuard(s.ID)

	h.mu.Lock()
	_, held := h.guards[s.ID]
	h.mu.Unlock()
	if held {
		t.Fatal("guard entry survived ReleaseGuard")
	}
	if h.guardFor(s) == first {
		t.Error("released guard was handed out again")
	}
}

func TestGuardForSweepsIdleEntries(t *testing.T) {
	h := newReservationHandler(t, time.Hour)
	stale := session.New("tok-stale", model.User{ID: "u1"})
	fresh := session.New("tok-fresh", model.User{ID: "u2"})

	h.guardFor(stale)
	h.guardFor(fresh)

	h.mu.Lock()
	h.guards[stale.ID].lastUsed = time.Now().Add(-2 * time.Hour)
	h.mu.Unlock()

	// Any lookup sweeps entries idle past the TTL.
	h.guardFor(fresh)

	h.mu.Lock()
	_, staleHeld := h.guards[stale.ID]
	_, freshHeld := h.guards[fresh.ID]
	h.mu.Unlock()
	if staleHeld {
		t.Error("idle guard entry survived the sweep")
	}
	if !freshHeld {
		t.Error("live guard entry was swept")
	}
}

func TestLogoutReleasesGuard(t *testing.T) {
	h := newReservationHandler(t, time.Hour)
	s := session.New("tok", model.User{ID: "u1"})
	h.guardFor(s)

	released := ""
	a := &AuthHandler{Store: h.Store, OnSessionEnd: func(id string) {
		released = id
		h.ReleaseGuard(id)
	}}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: s.ID})
	rec := httptest.NewRecorder()
	if err := a.Logout(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if released != s.ID {
		t.Fatalf("OnSessionEnd got %q, want %q", released, s.ID)
	}

	h.mu.Lock()
	_, held := h.guards[s.ID]
	h.mu.Unlock()
	if held {
		t.Error("guard entry survived logout")
	}
}
