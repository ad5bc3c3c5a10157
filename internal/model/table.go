package model

import "time"

// Table is a physical table inside a restaurant.  Table assignment on a
// reservation is advisory only; the capacity ledger counts guests against
// the restaurant's max_capacity, never against individual tables.
type Table struct {
	ID           uint64    // tables.id
	RestaurantID uint64    // tables.restaurant_id
	Number       int       // tables.number
	Capacity     int       // tables.capacity
	Available    bool      // tables.available
	CreatedAt    time.Time // tables.created_at
}
