package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/diegooyanes/MenuExpress/internal/booking"
	"github.com/diegooyanes/MenuExpress/internal/repository"
	"github.com/diegooyanes/MenuExpress/internal/token"
)

// writeBookingError translates engine and repository errors into the API's
// response vocabulary.  Field violations come back as a per-field map,
// capacity and policy conflicts as 409, invalid capability links as a
// generic 422 that reveals nothing about why the link failed.
func writeBookingError(c echo.Context, err error) error {
	var fields booking.FieldErrors
	if errors.As(err, &fields) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": fields})
	}
	switch {
	case errors.Is(err, booking.ErrCapacityExceeded):
		var full *booking.CapacityError
		if errors.As(err, &full) {
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "no capacity left for the requested time",
				"date":  full.Date,
				"time":  full.Time,
			})
		}
		return c.JSON(http.StatusConflict, echo.Map{"error": "no capacity left for the requested time"})
	case errors.Is(err, booking.ErrReservationsDisabled):
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservations are not enabled for this restaurant"})
	case errors.Is(err, booking.ErrCancellationWindow):
		var window *booking.CancellationWindowError
		if errors.As(err, &window) {
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "reservations can only be cancelled up to one hour before their time",
				"date":  window.Date,
				"time":  window.Time,
			})
		}
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservations can only be cancelled up to one hour before their time"})
	case errors.Is(err, token.ErrInvalid):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid or expired link"})
	case errors.Is(err, booking.ErrNotOwner):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrRestaurantNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
	case errors.Is(err, booking.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}
