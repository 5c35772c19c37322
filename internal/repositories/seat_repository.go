package repositories

import (
	"database/sql"
	"errors"
	"sort"
	"strings"

	"github.com/go-sql-driver/mysql"

	intconfig "github.com/Surajdas14/easybus-sub001/internal/config"
	"github.com/Surajdas14/easybus-sub001/internal/domain"
)

// SeatRepository owns the booking_seats table: the authoritative seat
// state. A seat is booked for (bus, date) iff a row exists; cancellation
// deletes the rows, which is what keeps the unique index scoped to
// non-cancelled bookings.
type SeatRepository struct {
	DB *sql.DB
}

func (r SeatRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// BookedLabels lists every seat currently held for a bus+date, sorted.
func (r SeatRepository) BookedLabels(busID int64, date string) ([]string, error) {
	rows, err := r.db().Query(`
		SELECT seat_label FROM booking_seats
		WHERE bus_id = ? AND travel_date = ?
		ORDER BY seat_label ASC
	`, busID, date)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return out, domain.InternalError{Err: err}
		}
		out = append(out, strings.TrimSpace(label))
	}
	return out, rows.Err()
}

// CountBooked is the authoritative held-seat count for a bus+date.
func (r SeatRepository) CountBooked(busID int64, date string) (int, error) {
	var n int
	err := r.db().QueryRow(`
		SELECT COUNT(*) FROM booking_seats
		WHERE bus_id = ? AND travel_date = ?
	`, busID, date).Scan(&n)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	return n, nil
}

// TakenForUpdateTx locks and returns the subset of labels already held for
// this bus+date. Runs inside the reservation transaction so the rows it
// sees cannot be released, and rows it doesn't see cannot be inserted past
// the unique index, before the caller commits.
func (r SeatRepository) TakenForUpdateTx(tx *sql.Tx, busID int64, date string, labels []string) ([]string, error) {
	if len(labels) == 0 {
		return nil, nil
	}
	placeholders := make([]string, 0, len(labels))
	args := []any{busID, date}
	for _, l := range labels {
		placeholders = append(placeholders, "?")
		args = append(args, l)
	}

	rows, err := tx.Query(`
		SELECT seat_label FROM booking_seats
		WHERE bus_id = ? AND travel_date = ?
		  AND seat_label IN (`+strings.Join(placeholders, ",")+`)
		FOR UPDATE
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	taken := []string{}
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return taken, err
		}
		taken = append(taken, strings.TrimSpace(label))
	}
	if err := rows.Err(); err != nil {
		return taken, err
	}
	sort.Strings(taken)
	return taken, nil
}

// ReserveTx inserts the seat rows for a booking. A duplicate-key error
// means another transaction won the race past our FOR UPDATE read; it is
// reported as a seat conflict, not an internal failure.
func (r SeatRepository) ReserveTx(tx *sql.Tx, bookingID, busID int64, date string, labels []string) error {
	if len(labels) == 0 {
		return nil
	}
	placeholders := make([]string, 0, len(labels))
	args := make([]any, 0, len(labels)*4)
	for _, l := range labels {
		placeholders = append(placeholders, "(?, ?, ?, ?)")
		args = append(args, bookingID, busID, date, l)
	}
	_, err := tx.Exec(`
		INSERT INTO booking_seats (booking_id, bus_id, travel_date, seat_label)
		VALUES `+strings.Join(placeholders, ","), args...)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return domain.SeatConflictError{Seats: labels, Err: err}
		}
		return err
	}
	return nil
}

// ReleaseByBookingTx frees every seat a booking holds. Deleting zero rows
// is fine: releasing already-free seats is a no-op, which is what makes
// cancellation idempotent.
func (r SeatRepository) ReleaseByBookingTx(tx *sql.Tx, bookingID int64) (int64, error) {
	res, err := tx.Exec(`DELETE FROM booking_seats WHERE booking_id = ?`, bookingID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SeatsByBooking lists the labels a booking currently holds.
func (r SeatRepository) SeatsByBooking(bookingID int64) ([]string, error) {
	rows, err := r.db().Query(`
		SELECT seat_label FROM booking_seats
		WHERE booking_id = ? ORDER BY id ASC
	`, bookingID)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return out, domain.InternalError{Err: err}
		}
		out = append(out, strings.TrimSpace(label))
	}
	return out, rows.Err()
}
