package main

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/diegooyanes/MenuExpress/internal/booking"
	"github.com/diegooyanes/MenuExpress/internal/config"
	"github.com/diegooyanes/MenuExpress/internal/database"
	"github.com/diegooyanes/MenuExpress/internal/handler"
	"github.com/diegooyanes/MenuExpress/internal/logging"
	"github.com/diegooyanes/MenuExpress/internal/metrics"
	"github.com/diegooyanes/MenuExpress/internal/queue"
	"github.com/diegooyanes/MenuExpress/internal/repository"
	"github.com/diegooyanes/MenuExpress/internal/router"
	"github.com/diegooyanes/MenuExpress/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use the environment

	cfg := config.Load()
	log := logging.New(cfg.Env)
	metrics.Register()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()
	if err := database.Migrate(db, "migrations"); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unavailable, cache and rate limiting disabled")
	}

	restaurantRepo := repository.NewRestaurantRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	tableRepo := repository.NewTableRepo(db)

	notifier := service.NewNotifier(cfg.RabbitURL, log)
	go queue.StartNotificationConsumer(cfg.RabbitURL, log)

	engine := booking.New(reservationRepo, restaurantRepo, booking.Options{
		Secret:       cfg.JWTSecret,
		TokenTTL:     time.Duration(cfg.TokenTTLDays) * 24 * time.Hour,
		BaseURL:      cfg.BaseURL,
		Location:     cfg.Location(),
		SlotInterval: time.Duration(cfg.SlotIntervalMin) * time.Minute,
		Tables:       tableRepo,
		Notifier:     notifier,
		Logger:       log,
	})

	e := echo.New()
	e.HideBanner = true
	router.Register(e, router.Deps{
		Public:       handler.NewPublicHandler(restaurantRepo, engine),
		Reservations: handler.NewReservationHandler(engine),
		Diner:        handler.NewDinerHandler(reservationRepo, engine),
		Admin:        handler.NewAdminHandler(restaurantRepo, reservationRepo, engine),
		JWTSecret:    cfg.JWTSecret,
		Redis:        rdb,
		Cache:        config.LoadCacheConfig(),
		RateLimit:    config.LoadRateLimitConfig(),
	})

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
