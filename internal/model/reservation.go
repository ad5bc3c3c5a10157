package model

import (
	"time"
)

// Reservation statuses as persisted in the database.  Completed is never
// written by the engine: it exists only as a derived display state for
// reservations whose moment has passed.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Display statuses derived for presentation.  These never feed back into
// storage.
const (
	DisplayPending   = "Pending"
	DisplayConfirmed = "Confirmed"
	DisplayCompleted = "Completed"
	DisplayCancelled = "Cancelled"
)

// Layouts for the calendar date and time-of-day strings used throughout
// the reservation flow.  Both are restaurant-local.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// CancelWindow is how far in the future a reservation's moment must be for
// cancellation to remain allowed.
const CancelWindow = time.Hour

// Reservation records a diner's booking at a restaurant for a specific
// date, time and party size.  TableID is advisory seating only and UserID
// links an authenticated diner account when the booking was made while
// signed in; both are optional.
type Reservation struct {
	ID             uint64    // reservations.id
	Code           string    // reservations.code (public UUID reference)
	RestaurantID   uint64    // reservations.restaurant_id
	TableID        *uint64   // reservations.table_id (nullable, advisory)
	UserID         *uint64   // reservations.user_id (nullable)
	FirstName      string    // reservations.first_name
	LastName       string    // reservations.last_name
	PhoneNumber    string    // reservations.phone_number
	Email          string    // reservations.email
	NumberOfGuests int       // reservations.number_of_guests
	Date           string    // reservations.reservation_date ("2006-01-02")
	Time           string    // reservations.reservation_time ("15:04")
	Status         string    // reservations.status
	CreatedAt      time.Time // reservations.created_at
	UpdatedAt      time.Time // reservations.updated_at
}

// FullName returns the diner's name for notifications and listings.
func (r *Reservation) FullName() string {
	return r.FirstName + " " + r.LastName
}

// ReservedMoment combines the reservation's date and time-of-day into a
// single instant in the given location.  The second return value is false
// when either component is missing or malformed.
func (r *Reservation) ReservedMoment(loc *time.Location) (time.Time, bool) {
	if r.Date == "" || r.Time == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DateLayout+" "+ClockLayout, r.Date+" "+r.Time, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Cancellable reports whether the reservation may still be cancelled at
// the given instant: its moment must lie strictly more than CancelWindow
// in the future.  A reservation without a resolvable moment is not
// cancellable.
func (r *Reservation) Cancellable(now time.Time, loc *time.Location) bool {
	moment, ok := r.ReservedMoment(loc)
	if !ok {
		return false
	}
	return moment.After(now.Add(CancelWindow))
}

// DisplayStatus derives the presentation state from the persisted status
// and the reservation's moment.  Cancellation always wins; a past moment
// shows as Completed regardless of what is stored; a pending reservation
// within CancelWindow of its moment is treated as effectively confirmed.
func (r *Reservation) DisplayStatus(now time.Time, loc *time.Location) string {
	if r.Status == StatusCancelled {
		return DisplayCancelled
	}
	moment, ok := r.ReservedMoment(loc)
	if ok && !moment.After(now) {
		return DisplayCompleted
	}
	if r.Status == StatusConfirmed {
		return DisplayConfirmed
	}
	if ok && !moment.After(now.Add(CancelWindow)) {
		// Near-term unconfirmed bookings read as confirmed to the diner.
		return DisplayConfirmed
	}
	return DisplayPending
}
