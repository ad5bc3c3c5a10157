package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diegooyanes/MenuExpress/internal/model"
	"github.com/diegooyanes/MenuExpress/internal/token"
)

func admitOne(t *testing.T, engine *Engine) *model.Reservation {
	t.Helper()
	res, err := engine.Admit(context.Background(), validSubmit(1))
	require.NoError(t, err)
	return res
}

func mint(t *testing.T, reservationID uint64, purpose string) string {
	t.Helper()
	raw, err := token.Issue(testSecret, reservationID, purpose, time.Hour)
	require.NoError(t, err)
	return raw
}

func TestConfirmByToken(t *testing.T) {
	store := newMemStore()
	engine, _ := newTestEngine(store, testRestaurant(40), Options{})
	res := admitOne(t, engine)

	confirmed, err := engine.ConfirmByToken(context.Background(), mint(t, res.ID, token.PurposeConfirm))
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, confirmed.Status)

	stored, err := store.GetByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, stored.Status)
}

func TestConfirmByTokenIsIdempotent(t *testing.T) {
	store := newMemStore()
	engine, _ := newTestEngine(store, testRestaurant(40), Options{})
	res := admitOne(t, engine)
	raw := mint(t, res.ID, token.PurposeConfirm)

	_, err := engine.ConfirmByToken(context.Background(), raw)
	require.NoError(t, err)
	again, err := engine.ConfirmByToken(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, again.Status)
}

func TestConfirmAfterCancelStaysCancelled(t *testing.T) {
	store := newMemStore()
	engine, _ := newTestEngine(store, testRestaurant(40), Options{})
	res := admitOne(t, engine)

	_, err := engine.CancelByToken(context.Background(), mint(t, res.ID, token.PurposeCancel))
	require.NoError(t, err)

	// Cancellation wins; the confirm link does not error, but it does not
	// resurrect the reservation either.
	confirmed, err := engine.ConfirmByToken(context.Background(), mint(t, res.ID, token.PurposeConfirm))
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, confirmed.Status)

	stored, err := store.GetByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, stored.Status)
}

func TestConfirmRejectsWrongPurpose(t *testing.T) {
	store := newMemStore()
	engine, _ := newTestEngine(store, testRestaurant(40), Options{})
	res := admitOne(t, engine)

	_, err := engine.ConfirmByToken(context.Background(), mint(t, res.ID, token.PurposeCancel))
	assert.ErrorIs(t, err, token.ErrInvalid)

	stored, err := store.GetByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, stored.Status)
}

func TestConfirmDanglingToken(t *testing.T) {
	store := newMemStore()
	engine, _ := newTestEngine(store, testRestaurant(40), Options{})

	// Valid signature, no such reservation.
	_, err := engine.ConfirmByToken(context.Background(), mint(t, 9999, token.PurposeConfirm))
	assert.ErrorIs(t, err, token.ErrInvalid)
}

func TestCancelByToken(t *testing.T) {
	store := newMemStore()
	engine, _ := newTestEngine(store, testRestaurant(40), Options{})
	res := admitOne(t, engine)
	raw := mint(t, res.ID, token.PurposeCancel)

	cancelled, err := engine.CancelByToken(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)

	// Second redemption is a harmless no-op.
	again, err := engine.CancelByToken(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, again.Status)
}

func TestCancelInsideWindow(t *testing.T) {
	store := newMemStore()
	// 30 minutes before the reserved moment.
	now := time.Date(2026, time.September, 10, 18, 30, 0, 0, time.UTC)
	engine, _ := newTestEngine(store, testRestaurant(40), Options{
		Now: func() time.Time { return now },
	})

	// Admit while still outside the window, then move the clock.
	res, err := engine.Admit(context.Background(), validSubmit(1))
	require.NoError(t, err)

	_, err = engine.CancelByToken(context.Background(), mint(t, res.ID, token.PurposeCancel))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCancellationWindow)

	var window *CancellationWindowError
	require.True(t, errors.As(err, &window))
	assert.Equal(t, "19:00", window.Time)

	stored, err := store.GetByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, stored.Status)
}

func TestCancelWindowBoundary(t *testing.T) {
	store := newMemStore()

	// Exactly one hour before the moment cancellation is already closed;
	// one minute earlier it is still open.
	closed := time.Date(2026, time.September, 10, 18, 0, 0, 0, time.UTC)
	engine, _ := newTestEngine(store, testRestaurant(40), Options{
		Now: func() time.Time { return closed },
	})
	res := &model.Reservation{Date: "2026-09-10", Time: "19:00"}
	assert.False(t, res.Cancellable(closed, engine.Location()))
	assert.True(t, res.Cancellable(closed.Add(-time.Minute), engine.Location()))
}

func TestCancelByOwner(t *testing.T) {
	store := newMemStore()
	engine, _ := newTestEngine(store, testRestaurant(40), Options{})

	userID := uint64(42)
	req := validSubmit(1)
	req.UserID = &userID
	res, err := engine.Admit(context.Background(), req)
	require.NoError(t, err)

	// A different diner may not touch it.
	_, err = engine.CancelByOwner(context.Background(), res.ID, 43)
	assert.ErrorIs(t, err, ErrNotOwner)

	cancelled, err := engine.CancelByOwner(context.Background(), res.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)

	// Idempotent for the owner.
	_, err = engine.CancelByOwner(context.Background(), res.ID, userID)
	require.NoError(t, err)
}

func TestCancelByOwnerAnonymousReservation(t *testing.T) {
	store := newMemStore()
	engine, _ := newTestEngine(store, testRestaurant(40), Options{})
	res := admitOne(t, engine) // no user attached

	_, err := engine.CancelByOwner(context.Background(), res.ID, 42)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestCancelByOwnerMissingReservation(t *testing.T) {
	store := newMemStore()
	engine, _ := newTestEngine(store, testRestaurant(40), Options{})

	_, err := engine.CancelByOwner(context.Background(), 9999, 42)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}
