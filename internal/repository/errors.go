// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// depending on database driver errors.
package repository

import (
	"errors"

	"github.com/diegooyanes/MenuExpress/internal/booking"
)

// ErrRestaurantNotFound is returned when no restaurant exists for the
// requested identifier. Handlers should translate this into a 404.
var ErrRestaurantNotFound = errors.New("restaurant not found")

// ErrReservationNotFound is returned when no reservation exists for the
// requested identifier. It is the same value the booking engine checks
// for, so the store satisfies the engine's contract directly.
var ErrReservationNotFound = booking.ErrReservationNotFound

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into a 403.
var ErrForbidden = errors.New("forbidden")
