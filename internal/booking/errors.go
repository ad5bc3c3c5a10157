package booking

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrCapacityExceeded classifies a CapacityError.  Use errors.Is against
// this sentinel and errors.As against *CapacityError to recover the
// bucket that was full.
var ErrCapacityExceeded = errors.New("no capacity left for the requested time")

// ErrReservationsDisabled is returned when the restaurant has switched the
// public booking flow off.
var ErrReservationsDisabled = errors.New("reservations are not enabled for this restaurant")

// ErrReservationNotFound is the contract value ReservationStore
// implementations return for absent rows.  The token redemption flow
// folds it into the generic invalid-link outcome.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrNotOwner is returned when an authenticated diner tries to act on a
// reservation that belongs to somebody else.
var ErrNotOwner = errors.New("reservation does not belong to this user")

// CapacityError reports a full bucket.  It carries the originating date
// and time so the caller can re-offer the availability list for the same
// day instead of making the diner start over.
type CapacityError struct {
	RestaurantID uint64
	Date         string
	Time         string
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("no capacity left at %s %s", e.Date, e.Time)
}

// Is makes errors.Is(err, ErrCapacityExceeded) match any CapacityError.
func (e *CapacityError) Is(target error) bool { return target == ErrCapacityExceeded }

// ErrCancellationWindow classifies a CancellationWindowError.
var ErrCancellationWindow = errors.New("too late to cancel")

// CancellationWindowError reports a cancellation attempt inside the
// one-hour window before the reservation's moment.
type CancellationWindowError struct {
	Date string
	Time string
}

func (e *CancellationWindowError) Error() string {
	return fmt.Sprintf("reservations can only be cancelled up to one hour before their time (%s %s)", e.Date, e.Time)
}

// Is makes errors.Is(err, ErrCancellationWindow) match.
func (e *CancellationWindowError) Is(target error) bool { return target == ErrCancellationWindow }

// FieldErrors maps field names to human-readable validation messages.  A
// non-empty value rejects the submission before any ledger access.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	parts := make([]string, 0, len(f))
	for field, msg := range f {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return "invalid fields: " + strings.Join(parts, "; ")
}
