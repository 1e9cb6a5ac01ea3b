package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health reports process liveness.  It deliberately does not probe the
// remote store: the gateway stays up and serves its cached showtime
// view even when the store is down.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
