package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cineplex/booking-gateway/internal/model"
	"github.com/cineplex/booking-gateway/internal/session"
)

func TestRequireSessionInjectsIdentity(t *testing.T) {
	store := session.NewStore(nil, time.Hour)
	sess := session.New("token-without-exp-claim", model.User{ID: "u1", Name: "Lena", Role: model.RoleAdmin})
	// Opaque tokens fail session.Valid, so store a session whose token
	// parses as a JWT without exp: header.payload.sig of empty claims.
	sess.Token = "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.e30.sig"
	if err := store.Save(context.Background(), sess); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sess.ID})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotUser, gotRole string
	h := RequireSession(store)(func(c echo.Context) error {
		gotUser, _ = c.Get(ContextUserID).(string)
		gotRole, _ = c.Get(ContextRole).(string)
		if CurrentSession(c) == nil {
			t.Error("CurrentSession() = nil inside handler")
		}
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUser != "u1" || gotRole != model.RoleAdmin {
		t.Fatalf("user/role = %q/%q, want u1/admin", gotUser, gotRole)
	}
}

func TestRequireSessionRejectsMissingCookie(t *testing.T) {
	store := session.NewStore(nil, time.Hour)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequireSession(store)(func(c echo.Context) error {
		t.Fatal("handler must not run without a session")
		return nil
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireSessionRejectsUnknownID(t *testing.T) {
	store := session.NewStore(nil, time.Hour)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "nope"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequireSession(store)(func(c echo.Context) error { return nil })
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()

	run := func(role any) int {
		req := httptest.NewRequest(http.MethodGet, "/v1/admin/films", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != nil {
			c.Set(ContextRole, role)
		}
		h := RequireRole(model.RoleAdmin)(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		if err := h(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		return rec.Code
	}

	if code := run(model.RoleAdmin); code != http.StatusOK {
		t.Fatalf("admin: status = %d, want 200", code)
	}
	if code := run(model.RoleCustomer); code != http.StatusForbidden {
		t.Fatalf("customer: status = %d, want 403", code)
	}
	if code := run(nil); code != http.StatusForbidden {
		t.Fatalf("no role: status = %d, want 403", code)
	}
}
