package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cineplex/booking-gateway/internal/analytics"
	"github.com/cineplex/booking-gateway/internal/api"
	"github.com/cineplex/booking-gateway/internal/middleware"
	"github.com/cineplex/booking-gateway/internal/model"
	"github.com/cineplex/booking-gateway/internal/schedule"
	"github.com/cineplex/booking-gateway/internal/table"
)

// AdminHandler serves the management screens: filterable, sortable,
// paginated lists over the store's records, thin CRUD proxies, the
// admin-side reservation actions and the dashboard.  Every call
// forwards the admin session's token; the store re-checks the role.
type AdminHandler struct {
	API       *api.Client
	Refresher *schedule.Refresher
	PageSize  int
}

func NewAdminHandler(client *api.Client, refresher *schedule.Refresher, pageSize int) *AdminHandler {
	if client == nil || refresher == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	if pageSize < 1 {
		pageSize = 7
	}
	return &AdminHandler{API: client, Refresher: refresher, PageSize: pageSize}
}

// Forms driving the admin modals.  Validation is data-driven: the
// field list is the single source of truth for what each form accepts.
var (
	filmForm = Form{
		{Name: "title", Kind: FieldText, Required: true},
		{Name: "genre", Kind: FieldEnum, Required: true, Options: []string{
			"action", "comedy", "drama", "horror", "romance", "sci-fi", "thriller", "animation", "documentary",
		}},
		{Name: "runtime_min", Kind: FieldNumber, Required: true, Positive: true},
		{Name: "description", Kind: FieldLongText},
		{Name: "poster_url", Kind: FieldText},
	}
	roomForm = Form{
		{Name: "name", Kind: FieldText, Required: true},
		{Name: "capacity", Kind: FieldNumber, Required: true, Positive: true},
	}
	showtimeForm = Form{
		{Name: "film_id", Kind: FieldText, Required: true},
		{Name: "room_id", Kind: FieldText, Required: true},
		{Name: "date", Kind: FieldText, Required: true},
		{Name: "time", Kind: FieldText, Required: true},
	}
)

// listView runs one controller round: apply the query's filters, sort
// and page, then render the standard list envelope.  Unknown fields
// and out-of-range pages are client errors.
func listView[T any](c echo.Context, records []T, pageSize int, fields ...table.Field[T]) error {
	ctrl, err := table.New(records, pageSize, fields...)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list setup failed"})
	}
	for key, vals := range c.QueryParams() {
		if !strings.HasPrefix(key, "filter[") || !strings.HasSuffix(key, "]") || len(vals) == 0 {
			continue
		}
		field := key[len("filter[") : len(key)-1]
		if err := ctrl.SetFilter(field, vals[0]); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}
	ctrl.Apply()
	if s := c.QueryParam("sort"); s != "" {
		if err := ctrl.SetSort(s); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}
	if p := c.QueryParam("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid page"})
		}
		if err := ctrl.SetPage(n); err != nil {
			if errors.Is(err, table.ErrPageOutOfRange) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
			}
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid page"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": ctrl.Page(),
		"page":  ctrl.PageNumber(),
		"pages": ctrl.MaxPage(),
		"total": ctrl.Len(),
	})
}

func adminToken(c echo.Context) string {
	if s := middleware.CurrentSession(c); s != nil {
		return s.Token
	}
	return ""
}

// ----- lists -----

// Films handles GET /v1/admin/films.
func (h *AdminHandler) Films(c echo.Context) error {
	films, err := h.API.Films(c.Request().Context(), adminToken(c))
	if err != nil {
		return storeError(c, err)
	}
	return listView(c, films, h.PageSize,
		table.Field[model.Film]{Name: "title", Kind: table.Text, Text: func(f model.Film) string { return f.Title }},
		table.Field[model.Film]{Name: "genre", Kind: table.Text, Text: func(f model.Film) string { return f.Genre }},
		table.Field[model.Film]{Name: "runtime_min", Kind: table.Numeric, Value: func(f model.Film) float64 { return float64(f.RuntimeMin) }},
	)
}

// Rooms handles GET /v1/admin/rooms.
func (h *AdminHandler) Rooms(c echo.Context) error {
	rooms, err := h.API.Rooms(c.Request().Context(), adminToken(c))
	if err != nil {
		return storeError(c, err)
	}
	return listView(c, rooms, h.PageSize,
		table.Field[model.Room]{Name: "name", Kind: table.Text, Text: func(r model.Room) string { return r.Name }},
		table.Field[model.Room]{Name: "capacity", Kind: table.Numeric, Value: func(r model.Room) float64 { return float64(r.Capacity) }},
	)
}

// Showtimes handles GET /v1/admin/showtimes.  Unlike the public view
// this lists every showtime, hidden ones included; admins manage the
// full schedule.
func (h *AdminHandler) Showtimes(c echo.Context) error {
	showtimes, err := h.API.Showtimes(c.Request().Context(), adminToken(c))
	if err != nil {
		return storeError(c, err)
	}
	return listView(c, showtimes, h.PageSize,
		table.Field[model.Showtime]{Name: "film", Kind: table.Text, Text: model.Showtime.FilmTitle},
		table.Field[model.Showtime]{Name: "room", Kind: table.Text, Text: model.Showtime.RoomName},
		table.Field[model.Showtime]{Name: "date", Kind: table.Text, Text: func(s model.Showtime) string { return s.Date }},
		table.Field[model.Showtime]{Name: "time", Kind: table.Text, Text: func(s model.Showtime) string { return s.Time }},
	)
}

// Reservations handles GET /v1/admin/reservations.
func (h *AdminHandler) Reservations(c echo.Context) error {
	rs, err := h.API.Reservations(c.Request().Context(), adminToken(c))
	if err != nil {
		return storeError(c, err)
	}
	return listView(c, rs, h.PageSize,
		table.Field[model.Reservation]{Name: "user", Kind: table.Text, Text: func(r model.Reservation) string {
			if r.User != nil {
				return r.User.Name
			}
			return r.UserID
		}},
		table.Field[model.Reservation]{Name: "film", Kind: table.Text, Text: func(r model.Reservation) string {
			if r.Showtime != nil {
				return r.Showtime.FilmTitle()
			}
			return ""
		}},
		table.Field[model.Reservation]{Name: "status", Kind: table.Text, Text: func(r model.Reservation) string { return r.Status }},
		table.Field[model.Reservation]{Name: "seats", Kind: table.Numeric, Value: func(r model.Reservation) float64 { return float64(r.Seats) }},
	)
}

// ----- CRUD proxies -----

// CreateFilm handles POST /v1/admin/films.
func (h *AdminHandler) CreateFilm(c echo.Context) error {
	var f model.Film
	if err := decodeForm(c, filmForm, &f); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	created, err := h.API.CreateFilm(c.Request().Context(), adminToken(c), f)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateFilm handles PUT /v1/admin/films/:id.
func (h *AdminHandler) UpdateFilm(c echo.Context) error {
	var f model.Film
	if err := decodeForm(c, filmForm, &f); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	updated, err := h.API.UpdateFilm(c.Request().Context(), adminToken(c), c.Param("id"), f)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteFilm handles DELETE /v1/admin/films/:id.
func (h *AdminHandler) DeleteFilm(c echo.Context) error {
	if err := h.API.DeleteFilm(c.Request().Context(), adminToken(c), c.Param("id")); err != nil {
		return storeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateRoom handles POST /v1/admin/rooms.
func (h *AdminHandler) CreateRoom(c echo.Context) error {
	var r model.Room
	if err := decodeForm(c, roomForm, &r); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	created, err := h.API.CreateRoom(c.Request().Context(), adminToken(c), r)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateRoom handles PUT /v1/admin/rooms/:id.
func (h *AdminHandler) UpdateRoom(c echo.Context) error {
	var r model.Room
	if err := decodeForm(c, roomForm, &r); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	updated, err := h.API.UpdateRoom(c.Request().Context(), adminToken(c), c.Param("id"), r)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteRoom handles DELETE /v1/admin/rooms/:id.
func (h *AdminHandler) DeleteRoom(c echo.Context) error {
	if err := h.API.DeleteRoom(c.Request().Context(), adminToken(c), c.Param("id")); err != nil {
		return storeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateShowtime handles POST /v1/admin/showtimes.  Date and time must
// already be in the store's wire formats; malformed values would
// otherwise classify as permanently upcoming.
func (h *AdminHandler) CreateShowtime(c echo.Context) error {
	var s model.Showtime
	if err := decodeForm(c, showtimeForm, &s); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := validateShowtimeClock(s); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	created, err := h.API.CreateShowtime(c.Request().Context(), adminToken(c), s)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateShowtime handles PUT /v1/admin/showtimes/:id.
func (h *AdminHandler) UpdateShowtime(c echo.Context) error {
	var s model.Showtime
	if err := decodeForm(c, showtimeForm, &s); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := validateShowtimeClock(s); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	updated, err := h.API.UpdateShowtime(c.Request().Context(), adminToken(c), c.Param("id"), s)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteShowtime handles DELETE /v1/admin/showtimes/:id.
func (h *AdminHandler) DeleteShowtime(c echo.Context) error {
	if err := h.API.DeleteShowtime(c.Request().Context(), adminToken(c), c.Param("id")); err != nil {
		return storeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func validateShowtimeClock(s model.Showtime) error {
	if _, err := time.Parse("2006-01-02", s.Date); err != nil {
		return errors.New("date must be YYYY-MM-DD")
	}
	if _, err := time.Parse("15:04", s.Time); err != nil {
		return errors.New("time must be HH:MM")
	}
	return nil
}

// ----- reservation actions -----

// CancelReservation handles POST /v1/admin/reservations/:id/cancel.
// Only a confirmed reservation for a showtime that has not started yet
// can be cancelled; anything else is a conflict.
func (h *AdminHandler) CancelReservation(c echo.Context) error {
	ctx := c.Request().Context()
	token := adminToken(c)
	id := c.Param("id")

	rs, err := h.API.Reservations(ctx, token)
	if err != nil {
		return storeError(c, err)
	}
	var target *model.Reservation
	for i := range rs {
		if rs[i].ID == id {
			target = &rs[i]
			break
		}
	}
	if target == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	}
	if target.Status != model.ReservationConfirmed {
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation is not confirmed"})
	}
	if st, ok := h.reservationShowtime(target); ok {
		if schedule.Classify(st, time.Now()) != schedule.StatusUpcoming {
			return c.JSON(http.StatusConflict, echo.Map{"error": "showtime has already started"})
		}
	}

	if err := h.API.CancelReservation(ctx, token, id); err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "reservation cancelled"})
}

// DeleteReservation handles DELETE /v1/admin/reservations/:id, the
// hard delete.  No state checks: removal is unconditional.
func (h *AdminHandler) DeleteReservation(c echo.Context) error {
	if err := h.API.DeleteReservation(c.Request().Context(), adminToken(c), c.Param("id")); err != nil {
		return storeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// reservationShowtime resolves the reservation's showtime from the
// embedded record or the refresher's cache.  ok is false when neither
// source knows it, in which case the start-time check is skipped.
func (h *AdminHandler) reservationShowtime(r *model.Reservation) (model.Showtime, bool) {
	if r.Showtime != nil {
		return *r.Showtime, true
	}
	if r.ShowtimeID != "" {
		return h.Refresher.Lookup(r.ShowtimeID)
	}
	return model.Showtime{}, false
}

// ----- dashboard -----

// Stats handles GET /v1/admin/stats?range=today|week|month: the
// store's counters plus a per-day reservation series for the chart.
func (h *AdminHandler) Stats(c echo.Context) error {
	ctx := c.Request().Context()
	token := adminToken(c)

	stats, err := h.API.Stats(ctx, token)
	if err != nil {
		return storeError(c, err)
	}
	rs, err := h.API.Reservations(ctx, token)
	if err != nil {
		return storeError(c, err)
	}

	rng := analytics.ParseRange(c.QueryParam("range"))
	inRange := analytics.FilterRange(rs, rng, time.Now())
	return c.JSON(http.StatusOK, echo.Map{
		"stats":        stats,
		"range":        rng,
		"reservations": len(inRange),
		"series":       analytics.CountByDay(inRange),
	})
}
