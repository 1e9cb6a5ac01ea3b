package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cineplex/booking-gateway/internal/api"
	"github.com/cineplex/booking-gateway/internal/schedule"
)

// BrowseHandler serves the public screens: the film list, the film
// details page and the live showtime view.  Showtime lists come from
// the refresher's cache so browsing keeps working through short store
// outages; film details go to the store directly.
type BrowseHandler struct {
	API       *api.Client
	Refresher *schedule.Refresher
}

func NewBrowseHandler(client *api.Client, refresher *schedule.Refresher) *BrowseHandler {
	if client == nil || refresher == nil {
		panic("nil dependency passed to NewBrowseHandler")
	}
	return &BrowseHandler{API: client, Refresher: refresher}
}

// Films lists all films.
func (h *BrowseHandler) Films(c echo.Context) error {
	films, err := h.API.Films(c.Request().Context(), "")
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": films})
}

// FilmDetails returns one film together with its visible showtimes,
// each carrying the display status derived at request time.  Hidden
// showtimes never appear, matching the list the refresher serves.
func (h *BrowseHandler) FilmDetails(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	film, showtimes, err := h.API.FilmWithShowtimes(c.Request().Context(), "", id)
	if err != nil {
		return storeError(c, err)
	}

	classified := schedule.ClassifyAll(showtimes, time.Now())
	visible := make([]schedule.Classified, 0, len(classified))
	for _, s := range classified {
		if s.Status != schedule.StatusHidden {
			visible = append(visible, s)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"film": film, "showtimes": visible})
}

// Showtimes serves the refresher's current visible set.  The data is
// at most one refresh interval old; classification itself is always
// re-derived against the wall clock.
func (h *BrowseHandler) Showtimes(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": h.Refresher.Visible()})
}
