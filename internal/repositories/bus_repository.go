package repositories

import (
	"database/sql"
	"strings"

	intconfig "github.com/Surajdas14/easybus-sub001/internal/config"
	"github.com/Surajdas14/easybus-sub001/internal/domain"
	"github.com/Surajdas14/easybus-sub001/internal/domain/models"
	"github.com/Surajdas14/easybus-sub001/internal/seatmap"
)

type BusRepository struct {
	DB *sql.DB
}

func (r BusRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const busColumns = `id, name, source, destination, travel_date, departure_time, arrival_time,
	window_open_time, window_close_time, total_seats, arrangement,
	first_row_seats, last_row_seats, fare_per_seat, is_active`

func scanBus(row interface{ Scan(...any) error }) (models.Bus, error) {
	var b models.Bus
	err := row.Scan(
		&b.ID, &b.Name, &b.Source, &b.Destination, &b.TravelDate,
		&b.DepartureTime, &b.ArrivalTime, &b.WindowOpenTime, &b.WindowCloseTime,
		&b.TotalSeats, &b.Arrangement, &b.FirstRowSeats, &b.LastRowSeats,
		&b.FarePerSeat, &b.IsActive,
	)
	return b, err
}

func (r BusRepository) GetByID(id int64) (models.Bus, error) {
	if id <= 0 {
		return models.Bus{}, domain.ValidationError{Field: "busId", Msg: "invalid id"}
	}
	row := r.db().QueryRow(`SELECT `+busColumns+` FROM buses WHERE id = ? LIMIT 1`, id)
	b, err := scanBus(row)
	if err == sql.ErrNoRows {
		return models.Bus{}, domain.NotFoundError{Resource: "bus", Err: err}
	}
	if err != nil {
		return models.Bus{}, domain.InternalError{Err: err}
	}
	return b, nil
}

// Search lists active buses matching route and date. Empty parameters
// match everything, so the admin console can reuse this as a plain list.
func (r BusRepository) Search(source, destination, date string) ([]models.Bus, error) {
	where := []string{"is_active = 1"}
	args := []any{}
	if s := strings.TrimSpace(source); s != "" {
		where = append(where, "LOWER(source) = LOWER(?)")
		args = append(args, s)
	}
	if d := strings.TrimSpace(destination); d != "" {
		where = append(where, "LOWER(destination) = LOWER(?)")
		args = append(args, d)
	}
	if d := strings.TrimSpace(date); d != "" {
		where = append(where, "travel_date = ?")
		args = append(args, d)
	}

	rows, err := r.db().Query(`SELECT `+busColumns+` FROM buses WHERE `+
		strings.Join(where, " AND ")+` ORDER BY departure_time ASC, id ASC`, args...)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []models.Bus{}
	for rows.Next() {
		b, err := scanBus(rows)
		if err != nil {
			return out, domain.InternalError{Err: err}
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// InsertTx persists the bus row inside the caller's transaction and
// returns the generated id.
func (r BusRepository) InsertTx(tx *sql.Tx, b models.Bus) (int64, error) {
	res, err := tx.Exec(`
		INSERT INTO buses (name, source, destination, travel_date, departure_time, arrival_time,
			window_open_time, window_close_time, total_seats, arrangement,
			first_row_seats, last_row_seats, fare_per_seat, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.Name, b.Source, b.Destination, b.TravelDate, b.DepartureTime, b.ArrivalTime,
		b.WindowOpenTime, b.WindowCloseTime, b.TotalSeats, b.Arrangement,
		b.FirstRowSeats, b.LastRowSeats, b.FarePerSeat, b.IsActive)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// InsertSeatsTx writes the generated layout in one bulk statement.
func (r BusRepository) InsertSeatsTx(tx *sql.Tx, busID int64, seats []seatmap.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	placeholders := make([]string, 0, len(seats))
	args := make([]any, 0, len(seats)*4)
	for _, s := range seats {
		placeholders = append(placeholders, "(?, ?, ?, ?)")
		args = append(args, busID, s.Label, s.Row, s.Pos)
	}
	_, err := tx.Exec(`INSERT INTO bus_seats (bus_id, seat_label, row_no, pos) VALUES `+
		strings.Join(placeholders, ","), args...)
	return err
}

// DeleteSeatsTx clears the layout before a regeneration.
func (r BusRepository) DeleteSeatsTx(tx *sql.Tx, busID int64) error {
	_, err := tx.Exec(`DELETE FROM bus_seats WHERE bus_id = ?`, busID)
	return err
}

// SeatLayout returns the generated seats in row/pos order.
func (r BusRepository) SeatLayout(busID int64) ([]models.Seat, error) {
	rows, err := r.db().Query(`
		SELECT seat_label, row_no, pos FROM bus_seats
		WHERE bus_id = ? ORDER BY row_no ASC, pos ASC
	`, busID)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []models.Seat{}
	for rows.Next() {
		var s models.Seat
		if err := rows.Scan(&s.Label, &s.Row, &s.Pos); err != nil {
			return out, domain.InternalError{Err: err}
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SeatLabelSet returns the bus's labels for membership checks.
func (r BusRepository) SeatLabelSet(busID int64) (map[string]bool, error) {
	seats, err := r.SeatLayout(busID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(seats))
	for _, s := range seats {
		set[s.Label] = true
	}
	return set, nil
}

func (r BusRepository) Update(id int64, u models.BusUpdate) error {
	sets := []string{}
	args := []any{}
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if u.Name != nil {
		add("name", *u.Name)
	}
	if u.Source != nil {
		add("source", *u.Source)
	}
	if u.Destination != nil {
		add("destination", *u.Destination)
	}
	if u.TravelDate != nil {
		add("travel_date", *u.TravelDate)
	}
	if u.DepartureTime != nil {
		add("departure_time", *u.DepartureTime)
	}
	if u.ArrivalTime != nil {
		add("arrival_time", *u.ArrivalTime)
	}
	if u.WindowOpenTime != nil {
		add("window_open_time", *u.WindowOpenTime)
	}
	if u.WindowCloseTime != nil {
		add("window_close_time", *u.WindowCloseTime)
	}
	if u.FarePerSeat != nil {
		add("fare_per_seat", *u.FarePerSeat)
	}
	if u.IsActive != nil {
		add("is_active", *u.IsActive)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := r.db().Exec(`UPDATE buses SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// The id may still exist with identical values; confirm before 404.
		if _, err := r.GetByID(id); err != nil {
			return err
		}
	}
	return nil
}

func (r BusRepository) DeleteTx(tx *sql.Tx, id int64) error {
	if _, err := tx.Exec(`DELETE FROM bus_seats WHERE bus_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM buses WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "bus"}
	}
	return nil
}
