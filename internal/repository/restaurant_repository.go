package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/diegooyanes/MenuExpress/internal/model"
)

// RestaurantRepo provides read access to restaurant records.  Restaurant
// account management is owned by another system; the reservation service
// only consumes opening hours, capacity and the booking gate.
type RestaurantRepo struct {
	db *sql.DB
}

// NewRestaurantRepo returns a new RestaurantRepo bound to the given database.
func NewRestaurantRepo(db *sql.DB) *RestaurantRepo { return &RestaurantRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions that
// span repositories.
func (r *RestaurantRepo) DB() *sql.DB { return r.db }

const restaurantColumns = `id, name, COALESCE(description, ''), COALESCE(address, ''), email,
       open_time, close_time, max_capacity, reservations_enabled, created_at, updated_at`

// GetByID returns a single restaurant.  When no row matches,
// ErrRestaurantNotFound is returned.
func (r *RestaurantRepo) GetByID(ctx context.Context, id uint64) (*model.Restaurant, error) {
	const q = `SELECT ` + restaurantColumns + ` FROM restaurants WHERE id = ?`
	rst, err := scanRestaurant(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	return rst, nil
}

// List returns all restaurants ordered by name.  A non-empty search term
// filters by name or description, case-insensitively via LIKE.
func (r *RestaurantRepo) List(ctx context.Context, search string) ([]model.Restaurant, error) {
	q := `SELECT ` + restaurantColumns + ` FROM restaurants`
	var args []interface{}
	if s := strings.TrimSpace(search); s != "" {
		q += ` WHERE name LIKE ? OR description LIKE ?`
		pat := "%" + s + "%"
		args = append(args, pat, pat)
	}
	q += ` ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Restaurant, 0)
	for rows.Next() {
		rst, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rst)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRestaurant(row rowScanner) (*model.Restaurant, error) {
	var rst model.Restaurant
	var openAt, closeAt sql.NullString
	if err := row.Scan(
		&rst.ID, &rst.Name, &rst.Description, &rst.Address, &rst.Email,
		&openAt, &closeAt, &rst.MaxCapacity, &rst.ReservationsEnabled,
		&rst.CreatedAt, &rst.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if openAt.Valid {
		v := clockString(openAt.String)
		rst.OpenTime = &v
	}
	if closeAt.Valid {
		v := clockString(closeAt.String)
		rst.CloseTime = &v
	}
	return &rst, nil
}

// clockString trims a MySQL TIME value ("15:04:05") down to the "15:04"
// form used throughout the booking flow.
func clockString(s string) string {
	if len(s) >= 5 {
		return s[:5]
	}
	return s
}
