// Package handler exposes the HTTP surface of the reservation service.
// Public routes cover restaurant browsing, availability and the booking
// flow; authenticated routes cover the diner's own reservations and the
// restaurant-side day view.
package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/diegooyanes/MenuExpress/internal/booking"
	"github.com/diegooyanes/MenuExpress/internal/model"
	"github.com/diegooyanes/MenuExpress/internal/repository"
)

// PublicHandler serves unauthenticated browsing and availability.
type PublicHandler struct {
	Restaurants *repository.RestaurantRepo
	Engine      *booking.Engine
}

// NewPublicHandler constructs a PublicHandler.  Both dependencies must be
// non-nil.
func NewPublicHandler(restaurants *repository.RestaurantRepo, engine *booking.Engine) *PublicHandler {
	if restaurants == nil || engine == nil {
		panic("nil dependency passed to NewPublicHandler")
	}
	return &PublicHandler{Restaurants: restaurants, Engine: engine}
}

// PublicRestaurant is the browsing projection of a restaurant.  Only
// fields a diner needs to decide where to book are exposed.
type PublicRestaurant struct {
	ID                  uint64  `json:"id"`
	Name                string  `json:"name"`
	Description         string  `json:"description,omitempty"`
	Address             string  `json:"address,omitempty"`
	OpenTime            *string `json:"open_time,omitempty"`
	CloseTime           *string `json:"close_time,omitempty"`
	ReservationsEnabled bool    `json:"reservations_enabled"`
}

// ListRestaurants handles GET /v1/restaurants.  An optional ?search= term
// filters by name or description.
func (h *PublicHandler) ListRestaurants(c echo.Context) error {
	ctx := c.Request().Context()
	restaurants, err := h.Restaurants.List(ctx, c.QueryParam("search"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicRestaurant, 0, len(restaurants))
	for _, rst := range restaurants {
		out = append(out, publicRestaurant(&rst))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetRestaurant handles GET /v1/restaurants/:id.
func (h *PublicHandler) GetRestaurant(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
	}
	rst, err := h.Restaurants.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeBookingError(c, err)
	}
	return c.JSON(http.StatusOK, publicRestaurant(rst))
}

// GetAvailableSlots handles GET /v1/restaurants/:id/slots.  The required
// ?date= names the day; an optional ?party_size= narrows the answer to
// slots that can seat that many guests together.
func (h *PublicHandler) GetAvailableSlots(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
	}
	date := c.QueryParam("date")
	if date == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date is required"})
	}
	partySize := 0
	if raw := c.QueryParam("party_size"); raw != "" {
		partySize, err = strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid party_size"})
		}
	}
	slots, err := h.Engine.ListAvailableSlots(c.Request().Context(), id, date, partySize)
	if err != nil {
		return writeBookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"date": date, "slots": slots})
}

func publicRestaurant(rst *model.Restaurant) PublicRestaurant {
	return PublicRestaurant{
		ID:                  rst.ID,
		Name:                rst.Name,
		Description:         rst.Description,
		Address:             rst.Address,
		OpenTime:            rst.OpenTime,
		CloseTime:           rst.CloseTime,
		ReservationsEnabled: rst.ReservationsEnabled,
	}
}
