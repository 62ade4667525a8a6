package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/iliyamo/junk-pickup/internal/service"
)

// respondError maps a service error onto the HTTP error contract.  Only
// unexpected failures are logged; the client never sees their detail.
func respondError(c echo.Context, err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Msg})
	case errors.Is(err, service.ErrInvalidRequest):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request"})
	case errors.Is(err, service.ErrItemNotFound):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Item not found"})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Booking not found"})
	}
	log.WithError(err).WithFields(log.Fields{
		"method": c.Request().Method,
		"path":   c.Request().URL.Path,
	}).Error("request failed")
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// userIDParam reads the owner identifier from ?user_id, falling back to
// ?customer_id.
func userIDParam(c echo.Context) string {
	if v := c.QueryParam("user_id"); v != "" {
		return v
	}
	return c.QueryParam("customer_id")
}
