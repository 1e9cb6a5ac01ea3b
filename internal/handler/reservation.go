package handler

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cineplex/booking-gateway/internal/api"
	"github.com/cineplex/booking-gateway/internal/booking"
	"github.com/cineplex/booking-gateway/internal/middleware"
	"github.com/cineplex/booking-gateway/internal/model"
	"github.com/cineplex/booking-gateway/internal/queue"
	"github.com/cineplex/booking-gateway/internal/schedule"
	"github.com/cineplex/booking-gateway/internal/session"
	queue_publisher "github.com/cineplex/booking-gateway/internal/service"
)

// ReservationHandler covers the customer booking flow: managing the
// per-session selection and seat count, the guarded submission, and
// the user's own reservation list.  One booking.Guard exists per
// session so a double-click cannot fire two store requests, while
// separate visitors never block each other.
type ReservationHandler struct {
	API       *api.Client
	Store     session.Store
	Refresher *schedule.Refresher

	mu       sync.Mutex
	guards   map[string]*guardEntry
	guardTTL time.Duration

	// publish is swappable for tests; nil disables eventing.
	publish func(ctx context.Context, ev queue.ReservationConfirmedEvent) error
}

// guardEntry tracks when a session's guard was last used so idle
// entries can be swept out.
type guardEntry struct {
	guard    *booking.Guard
	lastUsed time.Time
}

// NewReservationHandler wires the booking flow.  Eventing is enabled
// when withEvents is true; the gateway still works without a broker.
// guardTTL bounds how long an unused per-session guard is retained and
// should match the session TTL.
func NewReservationHandler(client *api.Client, store session.Store, refresher *schedule.Refresher, withEvents bool, guardTTL time.Duration) *ReservationHandler {
	if client == nil || store == nil || refresher == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	if guardTTL <= 0 {
		guardTTL = 24 * time.Hour
	}
	h := &ReservationHandler{
		API:       client,
		Store:     store,
		Refresher: refresher,
		guards:    make(map[string]*guardEntry),
		guardTTL:  guardTTL,
	}
	if withEvents {
		h.publish = queue_publisher.PublishReservationConfirmed
	}
	return h
}

// Select handles POST /v1/showtimes/:id/select.  Only a currently
// visible showtime can be selected; the selection replaces any
// previous one.
func (h *ReservationHandler) Select(c echo.Context) error {
	s := middleware.CurrentSession(c)
	if s == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	id := c.Param("id")
	st, ok := h.Refresher.Lookup(id)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not available"})
	}
	s.SelectedShowtimeID = st.ID
	if err := h.Store.Save(c.Request().Context(), s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session save failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"selected": st})
}

// ClearSelection handles DELETE /v1/selection.
func (h *ReservationHandler) ClearSelection(c echo.Context) error {
	s := middleware.CurrentSession(c)
	if s == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	s.SelectedShowtimeID = ""
	if err := h.Store.Save(c.Request().Context(), s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session save failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// SetSeats handles PUT /v1/selection/seats.  Seat counts below 1 are
// rejected before they ever reach the submission path.
func (h *ReservationHandler) SetSeats(c echo.Context) error {
	s := middleware.CurrentSession(c)
	if s == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	var body struct {
		Seats int `json:"seats"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if body.Seats < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat count must be at least 1"})
	}
	s.Seats = body.Seats
	if err := h.Store.Save(c.Request().Context(), s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session save failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"seats": s.Seats})
}

// Create handles POST /v1/reservations: the one guarded write.  The
// selection is re-validated against the visible set first; a selection
// whose showtime has slipped out of view is pruned and the submission
// fails as if nothing were selected.
func (h *ReservationHandler) Create(c echo.Context) error {
	s := middleware.CurrentSession(c)
	if s == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	ctx := c.Request().Context()

	var selection *model.Showtime
	if s.SelectedShowtimeID != "" {
		if st, ok := h.Refresher.Lookup(s.SelectedShowtimeID); ok {
			selection = &st
		} else {
			s.SelectedShowtimeID = ""
			if err := h.Store.Save(ctx, s); err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session save failed"})
			}
		}
	}

	res, err := h.guardFor(s).Submit(ctx, selection, s.Seats, true)
	if err != nil {
		return bookingError(c, err)
	}

	h.emitConfirmed(ctx, s, selection, res)

	// The form state resets after a successful booking.
	s.SelectedShowtimeID = ""
	s.Seats = 1
	if err := h.Store.Save(ctx, s); err != nil {
		c.Logger().Warnf("session reset after reservation failed: %v", err)
	}

	if res == nil {
		return c.JSON(http.StatusCreated, echo.Map{"message": "reservation confirmed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"reservation": res})
}

// MyReservations handles GET /v1/my-reservations.
func (h *ReservationHandler) MyReservations(c echo.Context) error {
	s := middleware.CurrentSession(c)
	if s == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	rs, err := h.API.MyReservations(c.Request().Context(), s.Token)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": rs})
}

// Cancel handles DELETE /v1/reservations/:id, the user-facing cancel.
// The store enforces ownership; this endpoint only forwards.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	s := middleware.CurrentSession(c)
	if s == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.API.CancelReservation(c.Request().Context(), s.Token, id); err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "reservation cancelled"})
}

// guardFor returns the session's guard, creating it on first use.  The
// guard closes over the session's token, which never changes for the
// lifetime of a session.  Entries idle past guardTTL are swept on each
// lookup; their sessions have expired, so no submission can still
// reference them.
func (h *ReservationHandler) guardFor(s *session.Session) *booking.Guard {
	h.mu.Lock()
	defer h.mu.Unlock()
	now := time.Now()
	for id, e := range h.guards {
		if now.Sub(e.lastUsed) > h.guardTTL {
			delete(h.guards, id)
		}
	}
	if e, ok := h.guards[s.ID]; ok {
		e.lastUsed = now
		return e.guard
	}
	token := s.Token
	g := booking.NewGuard(func(ctx context.Context, showtimeID string, seats int) (*api.CreateReservationResponse, error) {
		return h.API.CreateReservation(ctx, token, showtimeID, seats)
	})
	h.guards[s.ID] = &guardEntry{guard: g, lastUsed: now}
	return g
}

// ReleaseGuard drops the guard tied to a session.  Logout calls it so
// a departed visitor leaves nothing behind.
func (h *ReservationHandler) ReleaseGuard(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.guards, sessionID)
}

// emitConfirmed publishes the confirmation event.  Best effort: a
// broker failure never fails the reservation that already succeeded.
func (h *ReservationHandler) emitConfirmed(ctx context.Context, s *session.Session, selection *model.Showtime, res *model.Reservation) {
	if h.publish == nil || selection == nil {
		return
	}
	ev := queue.ReservationConfirmedEvent{
		UserID:      s.User.ID,
		ShowtimeID:  selection.ID,
		FilmTitle:   selection.FilmTitle(),
		RoomName:    selection.RoomName(),
		Date:        selection.Date,
		Time:        selection.Time,
		Seats:       s.Seats,
		ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if res != nil {
		ev.ReservationID = res.ID
		if res.Seats > 0 {
			ev.Seats = res.Seats
		}
	}
	_ = h.publish(ctx, ev)
}

// bookingError maps the guard's error taxonomy onto HTTP statuses.
func bookingError(c echo.Context, err error) error {
	var rejected *booking.RemoteRejectedError
	var server *booking.ServerError
	switch {
	case errors.Is(err, booking.ErrUnauthenticated):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrNoSelection), errors.Is(err, booking.ErrSeatCount), errors.Is(err, booking.ErrInvalidOrFull):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrInFlight):
		return c.JSON(http.StatusTooManyRequests, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrShowtimeNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrDuplicateReservation):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.As(err, &rejected):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": rejected.Reason})
	case errors.As(err, &server), errors.Is(err, booking.ErrAmbiguousResponse):
		return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrUnreachable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "unexpected error during reservation"})
	}
}
