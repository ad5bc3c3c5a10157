package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/diegooyanes/MenuExpress/internal/booking"
	"github.com/diegooyanes/MenuExpress/internal/middleware"
	"github.com/diegooyanes/MenuExpress/internal/repository"
)

// DinerHandler serves the authenticated diner's reservation history and
// self-service cancellation.
type DinerHandler struct {
	Reservations *repository.ReservationRepo
	Engine       *booking.Engine
}

// NewDinerHandler constructs a DinerHandler.
func NewDinerHandler(reservations *repository.ReservationRepo, engine *booking.Engine) *DinerHandler {
	if reservations == nil || engine == nil {
		panic("nil dependency passed to NewDinerHandler")
	}
	return &DinerHandler{Reservations: reservations, Engine: engine}
}

// ListMyReservations handles GET /v1/my-reservations, newest first.
func (h *DinerHandler) ListMyReservations(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	list, err := h.Reservations.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	loc := h.Engine.Location()
	out := make([]ReservationView, 0, len(list))
	for i := range list {
		out = append(out, reservationView(&list[i], loc))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// CancelMyReservation handles DELETE /v1/my-reservations/:id.  Only the
// diner who placed the booking may cancel it, and only while its moment
// is still more than an hour away.
func (h *DinerHandler) CancelMyReservation(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Engine.CancelByOwner(c.Request().Context(), id, userID)
	if err != nil {
		return writeBookingError(c, err)
	}
	return c.JSON(http.StatusOK, reservationView(res, h.Engine.Location()))
}
