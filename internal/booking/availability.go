package booking

import (
	"context"
	"time"

	"github.com/diegooyanes/MenuExpress/internal/metrics"
	"github.com/diegooyanes/MenuExpress/internal/model"
)

// DefaultPartySize is assumed when a slot query does not say how many
// guests the caller intends to bring.
const DefaultPartySize = 2

// DailySlotCount returns how many reservation times a restaurant offers
// per day given its opening hours and the engine's slot interval.  Zero
// when the restaurant is not bookable or its hours are malformed.
func (e *Engine) DailySlotCount(rst *model.Restaurant) int {
	if !rst.Bookable() {
		return 0
	}
	openAt, err := time.Parse(model.ClockLayout, *rst.OpenTime)
	if err != nil {
		return 0
	}
	closeAt, err := time.Parse(model.ClockLayout, *rst.CloseTime)
	if err != nil {
		return 0
	}
	n := 0
	last := closeAt.Add(-e.interval)
	for t := openAt; !t.After(last); t = t.Add(e.interval) {
		n++
	}
	return n
}

// ListAvailableSlots enumerates the times on the given date that can
// still absorb a party of the given size.  Candidates run from opening
// time to closing time minus one interval, inclusive, and each is checked
// against the capacity ledger independently.  A restaurant without both
// opening hours set offers no slots at all.
func (e *Engine) ListAvailableSlots(ctx context.Context, restaurantID uint64, date string, partySize int) ([]string, error) {
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return nil, FieldErrors{"date": "must be a date in YYYY-MM-DD form"}
	}
	if partySize <= 0 {
		partySize = DefaultPartySize
	}

	rst, err := e.restaurants.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if !rst.ReservationsEnabled {
		return nil, ErrReservationsDisabled
	}
	metrics.IncSlotQuery()

	slots := []string{}
	if !rst.Bookable() {
		return slots, nil
	}
	openAt, err := time.Parse(model.ClockLayout, *rst.OpenTime)
	if err != nil {
		return slots, nil
	}
	closeAt, err := time.Parse(model.ClockLayout, *rst.CloseTime)
	if err != nil {
		return slots, nil
	}
	last := closeAt.Add(-e.interval)
	for t := openAt; !t.After(last); t = t.Add(e.interval) {
		clock := t.Format(model.ClockLayout)
		ok, err := e.hasCapacity(ctx, restaurantID, date, clock, partySize, rst.MaxCapacity, 0)
		if err != nil {
			return nil, err
		}
		if ok {
			slots = append(slots, clock)
		}
	}
	return slots, nil
}
