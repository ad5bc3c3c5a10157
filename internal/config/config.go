package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time is used for durations and timezone handling
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Required values abort startup when missing;
// reservation-policy knobs fall back to the defaults the booking flow was
// designed around (30 minute slots, 7 day capability links).
type Config struct {
	Env             string // application environment (e.g. "dev", "prod")
	Port            string // HTTP port to listen on
	DBUser          string // database username
	DBPass          string // database password (optional)
	DBHost          string // database host address
	DBPort          string // database port number
	DBName          string // database name
	JWTSecret       string // secret used to sign capability tokens and verify identity tokens
	BaseURL         string // absolute base URL used to build confirm/cancel links
	Timezone        string // IANA zone name restaurants operate in
	SlotIntervalMin int    // minutes between offered reservation times
	TokenTTLDays    int    // lifetime of confirm/cancel capability tokens
	RabbitURL       string // AMQP broker URL; empty falls back to the local default
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	cfg := Config{
		Env:             must("APP_ENV"),
		Port:            must("APP_PORT"),
		DBUser:          must("DB_USER"),
		DBPass:          os.Getenv("DB_PASS"), // empty password allowed
		DBHost:          must("DB_HOST"),
		DBPort:          must("DB_PORT"),
		DBName:          must("DB_NAME"),
		JWTSecret:       must("JWT_SECRET"),
		BaseURL:         os.Getenv("BASE_URL"),
		Timezone:        getenv("RESTAURANT_TZ", "America/Mexico_City"),
		SlotIntervalMin: getenvInt("SLOT_INTERVAL_MIN", 30),
		TokenTTLDays:    getenvInt("RESERVATION_TOKEN_TTL_DAYS", 7),
		RabbitURL:       os.Getenv("RABBITMQ_URL"),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:" + cfg.Port
	}
	return cfg
}

// Location resolves the configured timezone.  Reservation dates and times
// are restaurant-local; an unknown zone name falls back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("unknown timezone %q, falling back to UTC", c.Timezone)
		return time.UTC
	}
	return loc
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// getenv returns the value of an optional environment variable or the
// provided default when unset.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getenvInt is like getenv but converts the value to an integer.  Invalid
// numbers fall back to the default rather than aborting startup.
func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
