package booking

import (
	"fmt"
	"sync"
)

// bucketKey identifies the unit capacity is checked against.
func bucketKey(restaurantID uint64, date, clock string) string {
	return fmt.Sprintf("%d|%s|%s", restaurantID, date, clock)
}

// bucketLocks hands out one mutex per (restaurant, date, time) bucket so
// the admission read-modify-write is serialized in-process.  Entries stay
// in the map for the life of the process; the key space is bounded by
// restaurants times slots per day, which is small.
type bucketLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// lock acquires the mutex for a bucket and returns its unlock function.
func (b *bucketLocks) lock(key string) func() {
	b.mu.Lock()
	if b.locks == nil {
		b.locks = make(map[string]*sync.Mutex)
	}
	m, ok := b.locks[key]
	if !ok {
		m = &sync.Mutex{}
		b.locks[key] = m
	}
	b.mu.Unlock()

	m.Lock()
	return m.Unlock
}
