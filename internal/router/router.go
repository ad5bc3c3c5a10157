// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/diegooyanes/MenuExpress/internal/config"
	"github.com/diegooyanes/MenuExpress/internal/handler"
	"github.com/diegooyanes/MenuExpress/internal/middleware"
)

// Deps carries everything route registration needs.
type Deps struct {
	Public       *handler.PublicHandler
	Reservations *handler.ReservationHandler
	Diner        *handler.DinerHandler
	Admin        *handler.AdminHandler
	JWTSecret    string
	Redis        *redis.Client
	Cache        config.CacheConfig
	RateLimit    config.RateLimitConfig
}

// Register attaches every route of the reservation API to the Echo
// instance.  Public browsing, availability and the token links need no
// authentication; the diner history requires the DINER role and the
// restaurant day view requires RESTAURANT.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Public browsing and availability.  The slot list is cached briefly.
	e.GET("/v1/restaurants", d.Public.ListRestaurants)
	e.GET("/v1/restaurants/:id", d.Public.GetRestaurant)
	e.GET("/v1/restaurants/:id/slots", d.Public.GetAvailableSlots,
		middleware.SlotsCache(d.Cache, d.Redis))

	// Booking submission works for anonymous diners; a bearer token, when
	// present, links the reservation to the diner's account.
	e.POST("/v1/restaurants/:id/reservations", d.Reservations.Submit,
		middleware.RateLimit(d.RateLimit, d.Redis),
		middleware.OptionalJWT(d.JWTSecret))

	// Capability-token links from the confirmation email.
	e.GET("/v1/reservations/confirm", d.Reservations.ConfirmByToken)
	e.GET("/v1/reservations/cancel", d.Reservations.CancelByToken)

	diner := e.Group("/v1/my-reservations")
	diner.Use(middleware.JWTAuth(d.JWTSecret))
	diner.Use(middleware.RequireRole(middleware.RoleDiner))
	diner.GET("", d.Diner.ListMyReservations)
	diner.DELETE("/:id", d.Diner.CancelMyReservation)

	admin := e.Group("/v1/admin")
	admin.Use(middleware.JWTAuth(d.JWTSecret))
	admin.Use(middleware.RequireRole(middleware.RoleRestaurant))
	admin.GET("/restaurants/:id/reservations", d.Admin.DayView)
}
