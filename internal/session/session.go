// Package session holds the per-visitor state the browser front-end
// used to keep in local storage: the upstream access token, the user
// record, and the transient booking selection.  Sessions live in Redis
// (or in memory when Redis is absent) and are rehydrated on every
// request; a malformed or expired session is discarded rather than
// trusted.
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/cineplex/booking-gateway/internal/model"
)

// CookieName is the cookie carrying the session identifier.
const CookieName = "session_id"

// Session is one visitor's authenticated state plus the transient
// booking inputs scoped to it.  SelectedShowtimeID holds at most one
// selection and must be cleared whenever the showtime it references
// stops being visible.
type Session struct {
	ID                 string     `json:"id"`
	Token              string     `json:"token"`
	User               model.User `json:"user"`
	SelectedShowtimeID string     `json:"selected_showtime_id,omitempty"`
	Seats              int        `json:"seats"`
	CreatedAt          time.Time  `json:"created_at"`
}

// New mints a session for a freshly authenticated user.  The seat
// count starts at 1, matching the booking form's initial state.
func New(token string, user model.User) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Token:     token,
		User:      user,
		Seats:     1,
		CreatedAt: time.Now().UTC(),
	}
}

// Valid reports whether a rehydrated session is still usable: the
// required fields are present and the upstream token has not expired.
// Anything that fails here is treated as garbage and discarded.
func (s *Session) Valid(now time.Time) bool {
	if s == nil || s.ID == "" || s.Token == "" || s.User.ID == "" {
		return false
	}
	return !tokenExpired(s.Token, now)
}

// tokenExpired inspects the upstream JWT's exp claim.  The gateway
// does not hold the upstream signing key, so the signature is not
// verified here; the store re-verifies every forwarded token.  A token
// that cannot be parsed at all counts as expired.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return true
	}
	if exp == nil {
		// No exp claim; defer entirely to the store.
		return false
	}
	return !exp.After(now)
}
