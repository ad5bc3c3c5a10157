package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/diegooyanes/MenuExpress/internal/booking"
	"github.com/diegooyanes/MenuExpress/internal/middleware"
	"github.com/diegooyanes/MenuExpress/internal/model"
)

// ReservationHandler serves the public booking submission and the
// token-based confirm and cancel links mailed to diners.
type ReservationHandler struct {
	Engine *booking.Engine
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(engine *booking.Engine) *ReservationHandler {
	if engine == nil {
		panic("nil engine passed to NewReservationHandler")
	}
	return &ReservationHandler{Engine: engine}
}

// ReservationView is the API projection of a reservation.  Status is the
// derived display status, not the raw persisted value.
type ReservationView struct {
	ID           uint64  `json:"id"`
	Code         string  `json:"code"`
	RestaurantID uint64  `json:"restaurant_id"`
	TableID      *uint64 `json:"table_id,omitempty"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Email        string  `json:"email"`
	Guests       int     `json:"number_of_guests"`
	Date         string  `json:"reservation_date"`
	Time         string  `json:"reservation_time"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"created_at"`
}

func reservationView(res *model.Reservation, loc *time.Location) ReservationView {
	return ReservationView{
		ID:           res.ID,
		Code:         res.Code,
		RestaurantID: res.RestaurantID,
		TableID:      res.TableID,
		FirstName:    res.FirstName,
		LastName:     res.LastName,
		Email:        res.Email,
		Guests:       res.NumberOfGuests,
		Date:         res.Date,
		Time:         res.Time,
		Status:       res.DisplayStatus(time.Now(), loc),
		CreatedAt:    res.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Submit handles POST /v1/restaurants/:id/reservations.  The route works
// for anonymous diners; when a valid bearer token is present the booking
// is linked to the diner's account so it shows up in their history.
func (h *ReservationHandler) Submit(c echo.Context) error {
	restaurantID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || restaurantID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
	}

	var req booking.SubmitRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.RestaurantID = restaurantID
	if userID, ok := middleware.UserID(c); ok {
		req.UserID = &userID
	}

	res, err := h.Engine.Admit(c.Request().Context(), req)
	if err != nil {
		return writeBookingError(c, err)
	}
	return c.JSON(http.StatusCreated, reservationView(res, h.Engine.Location()))
}

// ConfirmByToken handles GET /v1/reservations/confirm?token=.
func (h *ReservationHandler) ConfirmByToken(c echo.Context) error {
	raw := c.QueryParam("token")
	if raw == "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid or expired link"})
	}
	res, err := h.Engine.ConfirmByToken(c.Request().Context(), raw)
	if err != nil {
		return writeBookingError(c, err)
	}
	return c.JSON(http.StatusOK, reservationView(res, h.Engine.Location()))
}

// CancelByToken handles GET /v1/reservations/cancel?token=.
func (h *ReservationHandler) CancelByToken(c echo.Context) error {
	raw := c.QueryParam("token")
	if raw == "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid or expired link"})
	}
	res, err := h.Engine.CancelByToken(c.Request().Context(), raw)
	if err != nil {
		return writeBookingError(c, err)
	}
	return c.JSON(http.StatusOK, reservationView(res, h.Engine.Location()))
}
