package booking

import "context"

// hasCapacity reports whether adding guests to the bucket keeps the
// committed total within maxCapacity.  A non-positive ceiling means the
// restaurant enforces no cap and the check is not applicable.  excludeID
// leaves one reservation out of the sum when validating a change to it.
func (e *Engine) hasCapacity(ctx context.Context, restaurantID uint64, date, clock string, guests, maxCapacity int, excludeID uint64) (bool, error) {
	if maxCapacity <= 0 {
		return true, nil
	}
	total, err := e.store.ReservedGuests(ctx, restaurantID, date, clock, excludeID)
	if err != nil {
		return false, err
	}
	return total+guests <= maxCapacity, nil
}
