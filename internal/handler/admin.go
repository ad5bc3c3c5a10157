package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/diegooyanes/MenuExpress/internal/booking"
	"github.com/diegooyanes/MenuExpress/internal/middleware"
	"github.com/diegooyanes/MenuExpress/internal/model"
	"github.com/diegooyanes/MenuExpress/internal/repository"
)

// AdminHandler serves the restaurant-side day view: the bookings for one
// calendar day plus a weekly load summary for the surrounding week.
// Restaurant accounts authenticate with the RESTAURANT role and may only
// see their own restaurant.
type AdminHandler struct {
	Restaurants  *repository.RestaurantRepo
	Reservations *repository.ReservationRepo
	Engine       *booking.Engine
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(restaurants *repository.RestaurantRepo, reservations *repository.ReservationRepo, engine *booking.Engine) *AdminHandler {
	if restaurants == nil || reservations == nil || engine == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{Restaurants: restaurants, Reservations: reservations, Engine: engine}
}

// DaySummary is one entry of the weekly load overview.
type DaySummary struct {
	Date        string `json:"date"`
	TotalGuests int    `json:"total_guests"`
	FullyBooked bool   `json:"fully_booked"`
}

// DayView handles GET /v1/admin/restaurants/:id/reservations.  An
// optional ?date= selects the day (defaults to today in the restaurant's
// timezone) and ?q= narrows the list to matching diner names.
func (h *AdminHandler) DayView(c echo.Context) error {
	restaurantID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || restaurantID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
	}
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	// Restaurant accounts are keyed by their restaurant's ID.
	if userID != restaurantID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	ctx := c.Request().Context()
	rst, err := h.Restaurants.GetByID(ctx, restaurantID)
	if err != nil {
		return writeBookingError(c, err)
	}

	loc := h.Engine.Location()
	date := c.QueryParam("date")
	if date == "" {
		date = time.Now().In(loc).Format(model.DateLayout)
	}
	day, err := time.ParseInLocation(model.DateLayout, date, loc)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}

	list, err := h.Reservations.ListByRestaurantAndDate(ctx, restaurantID, date, c.QueryParam("q"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	week, err := h.weekSummary(c, rst, day)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	out := make([]ReservationView, 0, len(list))
	dayGuests := 0
	for i := range list {
		out = append(out, reservationView(&list[i], loc))
		if list[i].Status != model.StatusCancelled {
			dayGuests += list[i].NumberOfGuests
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"date":         date,
		"total_guests": dayGuests,
		"items":        out,
		"week":         week,
	})
}

// weekSummary builds the Monday-to-Sunday overview around the selected
// day.  A day counts as fully booked when every slot has reached the
// seating ceiling, which is the point where the booking page stops
// offering any time at all.
func (h *AdminHandler) weekSummary(c echo.Context, rst *model.Restaurant, day time.Time) ([]DaySummary, error) {
	offset := (int(day.Weekday()) + 6) % 7 // days since Monday
	monday := day.AddDate(0, 0, -offset)
	sunday := monday.AddDate(0, 0, 6)

	totals, err := h.Reservations.DailyGuestTotals(
		c.Request().Context(), rst.ID,
		monday.Format(model.DateLayout), sunday.Format(model.DateLayout),
	)
	if err != nil {
		return nil, err
	}

	dayCeiling := rst.MaxCapacity * h.Engine.DailySlotCount(rst)
	week := make([]DaySummary, 0, 7)
	for i := 0; i < 7; i++ {
		d := monday.AddDate(0, 0, i).Format(model.DateLayout)
		total := totals[d]
		week = append(week, DaySummary{
			Date:        d,
			TotalGuests: total,
			FullyBooked: dayCeiling > 0 && total >= dayCeiling,
		})
	}
	return week, nil
}
