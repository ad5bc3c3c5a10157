package booking

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diegooyanes/MenuExpress/internal/model"
	"github.com/diegooyanes/MenuExpress/internal/queue"
)

func TestAdmitPersistsPending(t *testing.T) {
	store := newMemStore()
	engine, _ := newTestEngine(store, testRestaurant(40), Options{})

	res, err := engine.Admit(context.Background(), validSubmit(1))
	require.NoError(t, err)
	assert.NotZero(t, res.ID)
	assert.Len(t, res.Code, 36)
	assert.Equal(t, model.StatusPending, res.Status)
	assert.Equal(t, "2026-09-10", res.Date)
	assert.Equal(t, "19:00", res.Time)

	stored, err := store.GetByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, stored.Status)
}

func TestAdmitFieldValidation(t *testing.T) {
	store := newMemStore()
	engine, _ := newTestEngine(store, testRestaurant(40), Options{})

	req := validSubmit(1)
	req.FirstName = ""
	req.Email = "not-an-email"
	req.PhoneNumber = "call me maybe"
	req.NumberOfGuests = 0
	req.Date = "next friday"

	_, err := engine.Admit(context.Background(), req)
	var fields FieldErrors
	require.True(t, errors.As(err, &fields))
	assert.Contains(t, fields, "first_name")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "phone_number")
	assert.Contains(t, fields, "number_of_guests")
	assert.Contains(t, fields, "reservation_date")

	// Nothing was written.
	assert.Empty(t, store.rows)
}

func TestAdmitCapacityBoundary(t *testing.T) {
	store := newMemStore()
	engine, _ := newTestEngine(store, testRestaurant(10), Options{})
	ctx := context.Background()

	first := validSubmit(1)
	first.NumberOfGuests = 6
	_, err := engine.Admit(ctx, first)
	require.NoError(t, err)

	// Exact fill is allowed.
	second := validSubmit(1)
	second.NumberOfGuests = 4
	_, err = engine.Admit(ctx, second)
	require.NoError(t, err)

	// One more guest overflows.
	third := validSubmit(1)
	third.NumberOfGuests = 1
	_, err = engine.Admit(ctx, third)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	var full *CapacityError
	require.True(t, errors.As(err, &full))
	assert.Equal(t, "2026-09-10", full.Date)
	assert.Equal(t, "19:00", full.Time)
}

func TestAdmitDifferentBucketsDoNotContend(t *testing.T) {
	store := newMemStore()
	engine, _ := newTestEngine(store, testRestaurant(10), Options{})
	ctx := context.Background()

	first := validSubmit(1)
	first.NumberOfGuests = 10
	_, err := engine.Admit(ctx, first)
	require.NoError(t, err)

	// Same day, different time.
	second := validSubmit(1)
	second.Time = "19:30"
	_, err = engine.Admit(ctx, second)
	require.NoError(t, err)

	// Same time, different day.
	third := validSubmit(1)
	third.Date = "2026-09-11"
	_, err = engine.Admit(ctx, third)
	require.NoError(t, err)
}

func TestAdmitDisabledRestaurant(t *testing.T) {
	rst := testRestaurant(40)
	rst.ReservationsEnabled = false
	store := newMemStore()
	engine, _ := newTestEngine(store, rst, Options{})

	_, err := engine.Admit(context.Background(), validSubmit(1))
	assert.ErrorIs(t, err, ErrReservationsDisabled)
}

func TestAdmitCancelledGuestsDoNotCount(t *testing.T) {
	store := newMemStore()
	engine, _ := newTestEngine(store, testRestaurant(10), Options{})
	ctx := context.Background()

	first := validSubmit(1)
	first.NumberOfGuests = 10
	res, err := engine.Admit(ctx, first)
	require.NoError(t, err)
	require.NoError(t, store.UpdateStatus(ctx, res.ID, model.StatusCancelled))

	// The freed bucket admits a new full-size party.
	second := validSubmit(1)
	second.NumberOfGuests = 10
	_, err = engine.Admit(ctx, second)
	require.NoError(t, err)
}

func TestConcurrentAdmissionsNeverOverflow(t *testing.T) {
	store := newMemStore()
	engine, _ := newTestEngine(store, testRestaurant(30), Options{})

	const attempts = 10
	var wg sync.WaitGroup
	wg.Add(attempts)
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			req := validSubmit(1)
			req.NumberOfGuests = 4
			_, err := engine.Admit(context.Background(), req)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	admitted, rejected := 0, 0
	for err := range results {
		switch {
		case err == nil:
			admitted++
		case errors.Is(err, ErrCapacityExceeded):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// 30 seats absorb exactly seven parties of four.
	assert.Equal(t, 7, admitted)
	assert.Equal(t, 3, rejected)
	total, err := store.ReservedGuests(context.Background(), 1, "2026-09-10", "19:00", 0)
	require.NoError(t, err)
	assert.LessOrEqual(t, total, 30)
	assert.Equal(t, 28, total)
}

func TestConcurrentHalfCapacityPair(t *testing.T) {
	store := newMemStore()
	engine, _ := newTestEngine(store, testRestaurant(10), Options{})

	var wg sync.WaitGroup
	wg.Add(2)
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			defer wg.Done()
			req := validSubmit(1)
			req.NumberOfGuests = 6
			_, err := engine.Admit(context.Background(), req)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	// 6+6 > 10, so exactly one of the two racing parties gets the bucket.
	admitted, rejected := 0, 0
	for err := range results {
		if err == nil {
			admitted++
		} else {
			require.ErrorIs(t, err, ErrCapacityExceeded)
			rejected++
		}
	}
	assert.Equal(t, 1, admitted)
	assert.Equal(t, 1, rejected)
}

func TestAdmitDispatchesBothNotices(t *testing.T) {
	store := newMemStore()
	notifier := &recordingNotifier{}
	engine, _ := newTestEngine(store, testRestaurant(40), Options{
		Notifier: notifier,
		BaseURL:  "https://book.menuexpress.test",
	})

	res, err := engine.Admit(context.Background(), validSubmit(1))
	require.NoError(t, err)
	require.Len(t, notifier.notices, 2)

	var diner, alert *queue.ReservationNotice
	for i := range notifier.notices {
		switch notifier.notices[i].Kind {
		case queue.KindDinerConfirmation:
			diner = &notifier.notices[i]
		case queue.KindRestaurantAlert:
			alert = &notifier.notices[i]
		}
	}
	require.NotNil(t, diner)
	require.NotNil(t, alert)

	assert.Equal(t, res.Code, diner.Code)
	assert.Equal(t, "Ana Luna", diner.GuestName)
	assert.True(t, strings.HasPrefix(diner.ConfirmURL, "https://book.menuexpress.test/v1/reservations/confirm?token="))
	assert.True(t, strings.HasPrefix(diner.CancelURL, "https://book.menuexpress.test/v1/reservations/cancel?token="))

	assert.Equal(t, "host@laplacita.test", alert.RestaurantEmail)
	assert.Empty(t, alert.ConfirmURL)
}

func TestAdmitSucceedsWhenNotifierFails(t *testing.T) {
	store := newMemStore()
	notifier := &recordingNotifier{fail: true}
	engine, _ := newTestEngine(store, testRestaurant(40), Options{Notifier: notifier})

	res, err := engine.Admit(context.Background(), validSubmit(1))
	require.NoError(t, err)
	assert.NotZero(t, res.ID)
}

func TestAdmitAssignsAdvisoryTable(t *testing.T) {
	store := newMemStore()
	tableID := uint64(7)
	engine, _ := newTestEngine(store, testRestaurant(40), Options{
		Tables: tableFinderFunc(func(_ context.Context, _ uint64, guests int) (*uint64, error) {
			if guests <= 4 {
				return &tableID, nil
			}
			return nil, nil
		}),
	})

	res, err := engine.Admit(context.Background(), validSubmit(1))
	require.NoError(t, err)
	require.NotNil(t, res.TableID)
	assert.Equal(t, uint64(7), *res.TableID)

	// No table fitting the party is not an admission failure.
	big := validSubmit(1)
	big.NumberOfGuests = 12
	res, err = engine.Admit(context.Background(), big)
	require.NoError(t, err)
	assert.Nil(t, res.TableID)
}

type tableFinderFunc func(ctx context.Context, restaurantID uint64, guests int) (*uint64, error)

func (f tableFinderFunc) FirstWithCapacity(ctx context.Context, restaurantID uint64, guests int) (*uint64, error) {
	return f(ctx, restaurantID, guests)
}
