package repository

import (
	"context"
	"database/sql"
	"errors"
)

// TableRepo provides lookups over a restaurant's tables.  Tables are
// advisory seating hints on reservations; they never participate in
// capacity accounting.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo returns a new TableRepo bound to the given database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

// FirstWithCapacity returns the ID of the smallest available table at the
// restaurant that seats at least the given party size, or nil when no
// table fits.  Ties break on the lowest ID for deterministic assignment.
func (r *TableRepo) FirstWithCapacity(ctx context.Context, restaurantID uint64, guests int) (*uint64, error) {
	const q = `SELECT id FROM tables
	           WHERE restaurant_id = ? AND available = 1 AND capacity >= ?
	           ORDER BY capacity, id
	           LIMIT 1`
	var id uint64
	err := r.db.QueryRowContext(ctx, q, restaurantID, guests).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &id, nil
}
