// Package handler exposes the HTTP handlers of the booking gateway:
// public browsing, session auth, customer reservations and the admin
// screens.  Handlers translate collaborator failures into the small
// set of statuses the front end understands and never leak raw
// transport errors.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cineplex/booking-gateway/internal/api"
)

// storeError translates an api.Client failure into a response.  A
// status the store itself produced is passed through with its message;
// transport failures surface as 503 so the caller can retry.
func storeError(c echo.Context, err error) error {
	var se *api.StatusError
	if errors.As(err, &se) {
		msg := se.Message
		if msg == "" {
			msg = http.StatusText(se.Code)
		}
		return c.JSON(se.Code, echo.Map{"error": msg})
	}
	if errors.Is(err, api.ErrUnreachable) {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "cinema store unreachable"})
	}
	return c.JSON(http.StatusBadGateway, echo.Map{"error": "cinema store error"})
}
