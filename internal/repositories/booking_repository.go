package repositories

import (
	"database/sql"
	"strings"

	intconfig "github.com/Surajdas14/easybus-sub001/internal/config"
	"github.com/Surajdas14/easybus-sub001/internal/domain"
	"github.com/Surajdas14/easybus-sub001/internal/domain/models"
)

type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const bookingColumns = `id, code, bus_id, user_id, COALESCE(agent_id, 0), source, destination,
	travel_date, seat_count, fare, status, DATE_FORMAT(created_at, '%Y-%m-%d %H:%i:%s')`

func scanBooking(row interface{ Scan(...any) error }) (models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID, &b.Code, &b.BusID, &b.UserID, &b.AgentID, &b.Source, &b.Destination,
		&b.TravelDate, &b.SeatCount, &b.Fare, &b.Status, &b.CreatedAt,
	)
	return b, err
}

// InsertTx writes the booking row and returns its generated id. The seat
// rows are inserted separately by SeatRepository in the same transaction.
func (r BookingRepository) InsertTx(tx *sql.Tx, b models.Booking) (int64, error) {
	var agent any
	if b.AgentID > 0 {
		agent = b.AgentID
	}
	res, err := tx.Exec(`
		INSERT INTO bookings (code, bus_id, user_id, agent_id, source, destination,
			travel_date, seat_count, fare, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.Code, b.BusID, b.UserID, agent, b.Source, b.Destination,
		b.TravelDate, b.SeatCount, b.Fare, b.Status)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// InsertPassengersTx stores per-seat passenger details for a new booking.
func (r BookingRepository) InsertPassengersTx(tx *sql.Tx, bookingID int64, passengers []models.Passenger) error {
	if len(passengers) == 0 {
		return nil
	}
	placeholders := make([]string, 0, len(passengers))
	args := make([]any, 0, len(passengers)*5)
	for _, p := range passengers {
		placeholders = append(placeholders, "(?, ?, ?, ?, ?)")
		args = append(args, bookingID, p.SeatLabel, p.Name, p.Age, p.Gender)
	}
	_, err := tx.Exec(`
		INSERT INTO booking_passengers (booking_id, seat_label, name, age, gender)
		VALUES `+strings.Join(placeholders, ","), args...)
	return err
}

func (r BookingRepository) GetByID(id int64) (models.Booking, error) {
	if id <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "bookingId", Msg: "invalid id"}
	}
	row := r.db().QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE id = ? LIMIT 1`, id)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return models.Booking{}, domain.NotFoundError{Resource: "booking", Err: err}
	}
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	return b, nil
}

func (r BookingRepository) ListByUser(userID int64) ([]models.Booking, error) {
	return r.list(`WHERE user_id = ?`, userID)
}

func (r BookingRepository) ListAll() ([]models.Booking, error) {
	return r.list(``)
}

func (r BookingRepository) list(where string, args ...any) ([]models.Booking, error) {
	rows, err := r.db().Query(`SELECT `+bookingColumns+` FROM bookings `+where+` ORDER BY id DESC`, args...)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return out, domain.InternalError{Err: err}
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateStatusTx transitions a booking's status inside the caller's
// transaction, so cancellation and seat release commit together.
func (r BookingRepository) UpdateStatusTx(tx *sql.Tx, id int64, status string) error {
	res, err := tx.Exec(`UPDATE bookings SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "booking"}
	}
	return nil
}

// CountActiveByBus counts non-cancelled bookings; guards bus deletion and
// layout regeneration.
func (r BookingRepository) CountActiveByBus(busID int64) (int, error) {
	var n int
	err := r.db().QueryRow(`
		SELECT COUNT(*) FROM bookings
		WHERE bus_id = ? AND status <> 'cancelled'
	`, busID).Scan(&n)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	return n, nil
}

// Passengers returns the per-seat traveller details of a booking.
func (r BookingRepository) Passengers(bookingID int64) ([]models.Passenger, error) {
	rows, err := r.db().Query(`
		SELECT seat_label, name, age, gender FROM booking_passengers
		WHERE booking_id = ? ORDER BY id ASC
	`, bookingID)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []models.Passenger{}
	for rows.Next() {
		var p models.Passenger
		if err := rows.Scan(&p.SeatLabel, &p.Name, &p.Age, &p.Gender); err != nil {
			return out, domain.InternalError{Err: err}
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
