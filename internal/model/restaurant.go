package model

import "time"

// Restaurant is the read-only projection of a restaurant record that the
// reservation engine consumes.  Account management lives elsewhere; the
// engine only needs opening hours, the seating ceiling and the booking
// gate.
//
// Fields:
//
//	ID                  – primary key identifier.
//	Name                – display name.
//	Description         – public description shown on the booking page.
//	Address             – street address.
//	Email               – contact address used for new-booking alerts.
//	OpenTime            – opening time of day ("15:04"), nil when unset.
//	CloseTime           – closing time of day ("15:04"), nil when unset.
//	MaxCapacity         – total seats that may be committed to a single
//	                      reservation-time bucket; <= 0 disables booking.
//	ReservationsEnabled – master switch for the public booking flow.
type Restaurant struct {
	ID                  uint64    // restaurants.id
	Name                string    // restaurants.name
	Description         string    // restaurants.description
	Address             string    // restaurants.address
	Email               string    // restaurants.email
	OpenTime            *string   // restaurants.open_time (nullable)
	CloseTime           *string   // restaurants.close_time (nullable)
	MaxCapacity         int       // restaurants.max_capacity
	ReservationsEnabled bool      // restaurants.reservations_enabled
	CreatedAt           time.Time // restaurants.created_at
	UpdatedAt           time.Time // restaurants.updated_at
}

// Bookable reports whether the public booking flow may offer this
// restaurant at all: reservations switched on, declared opening hours and
// a positive seating capacity.
func (r *Restaurant) Bookable() bool {
	return r.ReservationsEnabled && r.OpenTime != nil && r.CloseTime != nil && r.MaxCapacity > 0
}
