package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/diegooyanes/MenuExpress/internal/booking"
	"github.com/diegooyanes/MenuExpress/internal/model"
)

// ReservationRepo provides persistence for reservations and implements
// the capacity ledger queries.  Capacity is accounted per exact
// (restaurant, date, time) bucket over non-cancelled rows; two
// reservations at different times never contend even when their dining
// windows would physically overlap.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for callers that need transactions.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationColumns = `id, code, restaurant_id, table_id, user_id,
       first_name, last_name, phone_number, email, number_of_guests,
       reservation_date, reservation_time, status, created_at, updated_at`

// ReservedGuests sums number_of_guests over non-cancelled reservations in
// the exact (restaurant, date, time) bucket.  A non-zero excludeID leaves
// that reservation out of the sum, which supports validating an
// update-in-place.  Returns 0 when no rows match.
func (r *ReservationRepo) ReservedGuests(ctx context.Context, restaurantID uint64, date, clock string, excludeID uint64) (int, error) {
	q := `SELECT COALESCE(SUM(number_of_guests), 0) FROM reservations
	      WHERE restaurant_id = ? AND reservation_date = ? AND reservation_time = ? AND status <> 'cancelled'`
	args := []interface{}{restaurantID, date, clock}
	if excludeID != 0 {
		q += ` AND id <> ?`
		args = append(args, excludeID)
	}
	var total int
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// reservedGuestsTx is the locking variant used inside the admission
// transaction.  FOR UPDATE serializes concurrent admissions touching the
// same bucket at the storage level, so two transactions cannot both read
// a stale total and jointly overflow the ceiling.
func (r *ReservationRepo) reservedGuestsTx(ctx context.Context, tx *sql.Tx, restaurantID uint64, date, clock string) (int, error) {
	const q = `SELECT COALESCE(SUM(number_of_guests), 0) FROM reservations
	           WHERE restaurant_id = ? AND reservation_date = ? AND reservation_time = ? AND status <> 'cancelled'
	           FOR UPDATE`
	var total int
	if err := tx.QueryRowContext(ctx, q, restaurantID, date, clock).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// Create persists a new reservation, re-validating bucket capacity inside
// the transaction immediately before the insert.  maxCapacity <= 0 means
// the restaurant enforces no ceiling.  On a full bucket the transaction
// is rolled back and a *booking.CapacityError is returned.  On success
// the generated ID and database-assigned timestamps are populated on res.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation, maxCapacity int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if maxCapacity > 0 {
		total, err := r.reservedGuestsTx(ctx, tx, res.RestaurantID, res.Date, res.Time)
		if err != nil {
			return err
		}
		if total+res.NumberOfGuests > maxCapacity {
			return &booking.CapacityError{RestaurantID: res.RestaurantID, Date: res.Date, Time: res.Time}
		}
	}

	const ins = `INSERT INTO reservations
	             (code, restaurant_id, table_id, user_id, first_name, last_name, phone_number, email,
	              number_of_guests, reservation_date, reservation_time, status)
	             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, ins,
		res.Code, res.RestaurantID, res.TableID, res.UserID,
		res.FirstName, res.LastName, res.PhoneNumber, res.Email,
		res.NumberOfGuests, res.Date, res.Time, res.Status,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)

	// Query back the row to populate database-assigned timestamps.
	const sel = `SELECT created_at, updated_at FROM reservations WHERE id = ?`
	if err := tx.QueryRowContext(ctx, sel, res.ID).Scan(&res.CreatedAt, &res.UpdatedAt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID returns a single reservation.  When no row matches,
// ErrReservationNotFound is returned.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return res, nil
}

// UpdateStatus sets the persisted status of a reservation.  Status
// transitions are validated by the engine before this is called.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	const q = `UPDATE reservations SET status = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// ListByUser returns all reservations made by an authenticated diner,
// newest reservation moment first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations
	           WHERE user_id = ?
	           ORDER BY reservation_date DESC, reservation_time DESC`
	return r.list(ctx, q, userID)
}

// ListByRestaurantAndDate returns a restaurant's reservations for one
// calendar day ordered by time.  A non-empty name query narrows the list
// to diners whose first or last name matches.
func (r *ReservationRepo) ListByRestaurantAndDate(ctx context.Context, restaurantID uint64, date, nameQuery string) ([]model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations
	      WHERE restaurant_id = ? AND reservation_date = ?`
	args := []interface{}{restaurantID, date}
	if nameQuery != "" {
		q += ` AND (first_name LIKE ? OR last_name LIKE ?)`
		pat := "%" + nameQuery + "%"
		args = append(args, pat, pat)
	}
	q += ` ORDER BY reservation_time`
	return r.list(ctx, q, args...)
}

// DailyGuestTotals sums non-cancelled guests per day over the inclusive
// date range.  Days without reservations are absent from the map; the
// admin calendar uses this to mark fully booked days.
func (r *ReservationRepo) DailyGuestTotals(ctx context.Context, restaurantID uint64, from, to string) (map[string]int, error) {
	const q = `SELECT reservation_date, COALESCE(SUM(number_of_guests), 0)
	           FROM reservations
	           WHERE restaurant_id = ? AND reservation_date BETWEEN ? AND ? AND status <> 'cancelled'
	           GROUP BY reservation_date`
	rows, err := r.db.QueryContext(ctx, q, restaurantID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	totals := make(map[string]int)
	for rows.Next() {
		var day time.Time
		var total int
		if err := rows.Scan(&day, &total); err != nil {
			return nil, err
		}
		totals[day.Format(model.DateLayout)] = total
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return totals, nil
}

func (r *ReservationRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanReservation(row rowScanner) (*model.Reservation, error) {
	var res model.Reservation
	var tableID, userID sql.NullInt64
	var day time.Time
	var clock sql.NullString
	if err := row.Scan(
		&res.ID, &res.Code, &res.RestaurantID, &tableID, &userID,
		&res.FirstName, &res.LastName, &res.PhoneNumber, &res.Email, &res.NumberOfGuests,
		&day, &clock, &res.Status, &res.CreatedAt, &res.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if tableID.Valid {
		v := uint64(tableID.Int64)
		res.TableID = &v
	}
	if userID.Valid {
		v := uint64(userID.Int64)
		res.UserID = &v
	}
	res.Date = day.Format(model.DateLayout)
	if clock.Valid {
		res.Time = clockString(clock.String)
	}
	return &res, nil
}
