// Package booking implements the reservation capacity and availability
// engine: slot enumeration, the admission protocol that defends the
// capacity invariant under concurrent booking attempts, the reservation
// status lifecycle and the capability-token entry points into it.
package booking

import (
	"context"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/diegooyanes/MenuExpress/internal/model"
	"github.com/diegooyanes/MenuExpress/internal/queue"
	"github.com/diegooyanes/MenuExpress/internal/token"
)

// ReservationStore is the persistence surface the engine drives.  Create
// must re-validate bucket capacity transactionally immediately before the
// insert and return a *CapacityError on a full bucket; GetByID must
// return ErrReservationNotFound for absent rows.
type ReservationStore interface {
	ReservedGuests(ctx context.Context, restaurantID uint64, date, clock string, excludeID uint64) (int, error)
	Create(ctx context.Context, res *model.Reservation, maxCapacity int) error
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	UpdateStatus(ctx context.Context, id uint64, status string) error
}

// RestaurantSource provides read access to the restaurant records the
// engine books against.
type RestaurantSource interface {
	GetByID(ctx context.Context, id uint64) (*model.Restaurant, error)
}

// TableFinder locates an advisory table for a party size.  A nil ID with
// a nil error means no table fits, which is not an admission failure.
type TableFinder interface {
	FirstWithCapacity(ctx context.Context, restaurantID uint64, guests int) (*uint64, error)
}

// Notifier carries notification intents out of the admission flow.
// Publish failures must not affect the reservation.
type Notifier interface {
	Publish(ctx context.Context, notice queue.ReservationNotice) error
}

// Options bundles the engine's policy knobs and optional collaborators.
type Options struct {
	Secret       string           // HMAC secret for capability tokens
	TokenTTL     time.Duration    // capability token lifetime; 0 means token.DefaultTTL
	BaseURL      string           // absolute base for confirm/cancel links
	Location     *time.Location   // restaurant-local timezone
	SlotInterval time.Duration    // spacing between offered times; 0 means 30m
	Tables       TableFinder      // optional advisory table assignment
	Notifier     Notifier         // optional notification dispatch
	Logger       zerolog.Logger   // engine log output
	Now          func() time.Time // clock override for tests; nil means time.Now
}

// Engine coordinates the capacity ledger, the admission protocol and the
// reservation lifecycle.  All mutation re-derives capacity state from
// storage at the moment of write; nothing is cached.
type Engine struct {
	store       ReservationStore
	restaurants RestaurantSource
	tables      TableFinder
	notifier    Notifier
	validate    *validator.Validate
	log         zerolog.Logger

	secret   string
	tokenTTL time.Duration
	baseURL  string
	loc      *time.Location
	interval time.Duration
	now      func() time.Time

	locks bucketLocks
}

var phonePattern = regexp.MustCompile(`^[0-9\s\-\+\(\)]+$`)

// New constructs an Engine.  store and restaurants must be non-nil.
func New(store ReservationStore, restaurants RestaurantSource, opts Options) *Engine {
	if store == nil || restaurants == nil {
		panic("nil store passed to booking.New")
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = token.DefaultTTL
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.SlotInterval <= 0 {
		opts.SlotInterval = 30 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})

	return &Engine{
		store:       store,
		restaurants: restaurants,
		tables:      opts.Tables,
		notifier:    opts.Notifier,
		validate:    v,
		log:         opts.Logger.With().Str("component", "booking").Logger(),
		secret:      opts.Secret,
		tokenTTL:    opts.TokenTTL,
		baseURL:     opts.BaseURL,
		loc:         opts.Location,
		interval:    opts.SlotInterval,
		now:         opts.Now,
	}
}

// Location returns the restaurant-local timezone the engine evaluates
// reservation moments in.
func (e *Engine) Location() *time.Location { return e.loc }

// SubmitRequest carries a public booking submission.  RestaurantID and
// UserID come from the route and the optional authenticated identity, the
// rest from the form body.
type SubmitRequest struct {
	RestaurantID   uint64  `json:"-"`
	UserID         *uint64 `json:"-"`
	FirstName      string  `json:"first_name" validate:"required"`
	LastName       string  `json:"last_name" validate:"required"`
	PhoneNumber    string  `json:"phone_number" validate:"required,phone"`
	Email          string  `json:"email" validate:"required,email"`
	NumberOfGuests int     `json:"number_of_guests" validate:"required,gt=0"`
	Date           string  `json:"reservation_date" validate:"required"`
	Time           string  `json:"reservation_time" validate:"required"`
}

// validateSubmit applies field-level constraints.  Violations reject the
// submission before any ledger access.
func (e *Engine) validateSubmit(req *SubmitRequest) FieldErrors {
	errs := FieldErrors{}
	if err := e.validate.Struct(req); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			errs["request"] = "invalid submission"
			return errs
		}
		for _, fe := range verrs {
			switch fe.StructField() {
			case "FirstName":
				errs["first_name"] = "is required"
			case "LastName":
				errs["last_name"] = "is required"
			case "PhoneNumber":
				if fe.Tag() == "phone" {
					errs["phone_number"] = "should contain only digits and symbols"
				} else {
					errs["phone_number"] = "is required"
				}
			case "Email":
				if fe.Tag() == "email" {
					errs["email"] = "must be a valid email address"
				} else {
					errs["email"] = "is required"
				}
			case "NumberOfGuests":
				errs["number_of_guests"] = "must be greater than 0"
			case "Date":
				errs["reservation_date"] = "is required"
			case "Time":
				errs["reservation_time"] = "is required"
			}
		}
	}
	if req.Date != "" {
		if _, err := time.Parse(model.DateLayout, req.Date); err != nil {
			errs["reservation_date"] = "must be a date in YYYY-MM-DD form"
		}
	}
	if req.Time != "" {
		if _, err := time.Parse(model.ClockLayout, req.Time); err != nil {
			errs["reservation_time"] = "must be a time in HH:MM form"
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
