package booking

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/diegooyanes/MenuExpress/internal/model"
	"github.com/diegooyanes/MenuExpress/internal/queue"
)

// memStore is an in-memory ReservationStore with the same transactional
// guarantee as the real repository: Create re-checks the bucket sum under
// its own lock before inserting.
type memStore struct {
	mu   sync.Mutex
	seq  uint64
	rows map[uint64]*model.Reservation
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[uint64]*model.Reservation)}
}

func (s *memStore) sumLocked(restaurantID uint64, date, clock string, excludeID uint64) int {
	total := 0
	for _, r := range s.rows {
		if r.RestaurantID == restaurantID && r.Date == date && r.Time == clock &&
			r.Status != model.StatusCancelled && r.ID != excludeID {
			total += r.NumberOfGuests
		}
	}
	return total
}

func (s *memStore) ReservedGuests(_ context.Context, restaurantID uint64, date, clock string, excludeID uint64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sumLocked(restaurantID, date, clock, excludeID), nil
}

func (s *memStore) Create(_ context.Context, res *model.Reservation, maxCapacity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if maxCapacity > 0 && s.sumLocked(res.RestaurantID, res.Date, res.Time, 0)+res.NumberOfGuests > maxCapacity {
		return &CapacityError{RestaurantID: res.RestaurantID, Date: res.Date, Time: res.Time}
	}
	s.seq++
	res.ID = s.seq
	res.CreatedAt = time.Now()
	res.UpdatedAt = res.CreatedAt
	cp := *res
	s.rows[res.ID] = &cp
	return nil
}

func (s *memStore) GetByID(_ context.Context, id uint64) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *memStore) UpdateStatus(_ context.Context, id uint64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok {
		return ErrReservationNotFound
	}
	r.Status = status
	r.UpdatedAt = time.Now()
	return nil
}

type fakeRestaurants struct {
	byID map[uint64]*model.Restaurant
}

func (f *fakeRestaurants) GetByID(_ context.Context, id uint64) (*model.Restaurant, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	cp := *r
	return &cp, nil
}

// recordingNotifier captures published notices for assertions.
type recordingNotifier struct {
	mu      sync.Mutex
	notices []queue.ReservationNotice
	fail    bool
}

func (n *recordingNotifier) Publish(_ context.Context, notice queue.ReservationNotice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return context.DeadlineExceeded
	}
	n.notices = append(n.notices, notice)
	return nil
}

func strptr(s string) *string { return &s }

func testRestaurant(maxCapacity int) *model.Restaurant {
	return &model.Restaurant{
		ID:                  1,
		Name:                "La Placita",
		Email:               "host@laplacita.test",
		OpenTime:            strptr("11:00"),
		CloseTime:           strptr("23:00"),
		MaxCapacity:         maxCapacity,
		ReservationsEnabled: true,
	}
}

const testSecret = "engine-test-secret"

// testNow is a fixed clock comfortably before the reservation dates the
// tests book.
var testNow = time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(store ReservationStore, rst *model.Restaurant, extra Options) (*Engine, *fakeRestaurants) {
	restaurants := &fakeRestaurants{byID: map[uint64]*model.Restaurant{rst.ID: rst}}
	opts := extra
	if opts.Secret == "" {
		opts.Secret = testSecret
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return testNow }
	}
	opts.Logger = zerolog.Nop()
	return New(store, restaurants, opts), restaurants
}

func validSubmit(restaurantID uint64) SubmitRequest {
	return SubmitRequest{
		RestaurantID:   restaurantID,
		FirstName:      "Ana",
		LastName:       "Luna",
		PhoneNumber:    "+52 (55) 1234-5678",
		Email:          "ana.luna@example.com",
		NumberOfGuests: 4,
		Date:           "2026-09-10",
		Time:           "19:00",
	}
}
