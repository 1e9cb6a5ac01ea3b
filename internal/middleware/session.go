package middleware // middleware provides shared request processing for handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cineplex/booking-gateway/internal/session"
)

// Context keys populated by the session middleware.
const (
	ContextSession = "session"
	ContextUserID  = "user_id"
	ContextRole    = "role"
)

// RequireSession returns middleware that resolves the session cookie
// against the store and injects the session, user id and role into the
// request context.  Requests without a usable session are rejected
// with 401; a garbled or expired session was already discarded by the
// store, so it lands here too.
func RequireSession(store session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(session.CookieName)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			s, err := store.Get(c.Request().Context(), cookie.Value)
			if err != nil {
				if errors.Is(err, session.ErrNoSession) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session lookup failed"})
			}
			c.Set(ContextSession, s)
			c.Set(ContextUserID, s.User.ID)
			c.Set(ContextRole, s.User.Role)
			return next(c)
		}
	}
}

// CurrentSession pulls the session the middleware stored, or nil when
// the route runs without RequireSession.
func CurrentSession(c echo.Context) *session.Session {
	if s, ok := c.Get(ContextSession).(*session.Session); ok {
		return s
	}
	return nil
}
