package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Surajdas14/easybus-sub001/internal/domain"
	"github.com/Surajdas14/easybus-sub001/internal/domain/models"
	"github.com/Surajdas14/easybus-sub001/internal/repositories"
)

var busColumns = []string{
	"id", "name", "source", "destination", "travel_date", "departure_time", "arrival_time",
	"window_open_time", "window_close_time", "total_seats", "arrangement",
	"first_row_seats", "last_row_seats", "fare_per_seat", "is_active",
}

var bookingColumns = []string{
	"id", "code", "bus_id", "user_id", "agent_id", "source", "destination",
	"travel_date", "seat_count", "fare", "status", "created_at",
}

func fourSeatBusRows() *sqlmock.Rows {
	return sqlmock.NewRows(busColumns).
		AddRow(1, "Express", "Pune", "Mumbai", "2025-04-01", "12:00", "16:00", "", "", 4, "2-2", 2, 2, 500, true)
}

func fourSeatLayoutRows() *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"seat_label", "row_no", "pos"})
	for i, label := range []string{"1", "2", "3", "4"} {
		rows.AddRow(label, 1, i+1)
	}
	return rows
}

func newBookingService(t *testing.T) (BookingService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	svc := BookingService{
		BookingRepo:  repositories.BookingRepository{DB: db},
		SeatRepo:     repositories.SeatRepository{DB: db},
		BusRepo:      repositories.BusRepository{DB: db},
		DB:           db,
		CancelCutoff: 2 * time.Hour,
		Now: func() time.Time {
			return time.Date(2025, 3, 30, 10, 0, 0, 0, time.Local)
		},
	}
	return svc, mock, func() { db.Close() }
}

func TestCreateBookingSuccess(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()

	mock.ExpectQuery("FROM buses WHERE id").WillReturnRows(fourSeatBusRows())
	mock.ExpectQuery("SELECT seat_label, row_no, pos FROM bus_seats").WillReturnRows(fourSeatLayoutRows())
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT seat_label FROM booking_seats").
		WillReturnRows(sqlmock.NewRows([]string{"seat_label"}))
	mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("INSERT INTO booking_seats").WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectCommit()

	principal := models.Principal{UserID: 42, Role: models.RoleCustomer}
	booking, err := svc.Create(context.Background(), principal, CreateBookingInput{
		BusID: 1,
		Seats: []string{"1", "2"},
		Date:  "2025-04-01",
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if booking.ID != 7 {
		t.Fatalf("booking id %d, want 7", booking.ID)
	}
	if booking.Status != models.StatusPending {
		t.Fatalf("status %q, want pending", booking.Status)
	}
	if booking.Fare != 1000 {
		t.Fatalf("fare %d, want farePerSeat*2 = 1000", booking.Fare)
	}
	if booking.Code == "" {
		t.Fatal("booking code should be generated")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBookingSeatConflictReportsLabels(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()

	mock.ExpectQuery("FROM buses WHERE id").WillReturnRows(fourSeatBusRows())
	mock.ExpectQuery("SELECT seat_label, row_no, pos FROM bus_seats").WillReturnRows(fourSeatLayoutRows())
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT seat_label FROM booking_seats").
		WillReturnRows(sqlmock.NewRows([]string{"seat_label"}).AddRow("2"))
	mock.ExpectRollback()

	principal := models.Principal{UserID: 42, Role: models.RoleCustomer}
	_, err := svc.Create(context.Background(), principal, CreateBookingInput{
		BusID: 1,
		Seats: []string{"2", "3"},
		Date:  "2025-04-01",
	})
	conflict, ok := domain.AsSeatConflict(err)
	if !ok {
		t.Fatalf("expected SeatConflictError, got %v", err)
	}
	if len(conflict.Seats) != 1 || conflict.Seats[0] != "2" {
		t.Fatalf("conflicting seats %v, want [2]", conflict.Seats)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	svc, _, done := newBookingService(t)
	defer done()
	principal := models.Principal{UserID: 42, Role: models.RoleCustomer}

	if _, err := svc.Create(context.Background(), principal, CreateBookingInput{BusID: 1, Date: "2025-04-01"}); !domain.IsValidation(err) {
		t.Fatalf("empty seats: expected validation error, got %v", err)
	}
	if _, err := svc.Create(context.Background(), principal, CreateBookingInput{
		BusID: 1, Seats: []string{"1", "1"}, Date: "2025-04-01",
	}); !domain.IsValidation(err) {
		t.Fatalf("duplicate seats: expected validation error, got %v", err)
	}
	if _, err := svc.Create(context.Background(), principal, CreateBookingInput{
		BusID: 1, Seats: []string{"1"}, Date: "april first",
	}); !domain.IsValidation(err) {
		t.Fatalf("bad date: expected validation error, got %v", err)
	}
}

func TestCreateBookingUnknownBus(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()

	mock.ExpectQuery("FROM buses WHERE id").
		WillReturnRows(sqlmock.NewRows(busColumns))

	principal := models.Principal{UserID: 42, Role: models.RoleCustomer}
	_, err := svc.Create(context.Background(), principal, CreateBookingInput{
		BusID: 99, Seats: []string{"1"}, Date: "2025-04-01",
	})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestCreateBookingUnknownSeatLabels(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()

	mock.ExpectQuery("FROM buses WHERE id").WillReturnRows(fourSeatBusRows())
	mock.ExpectQuery("SELECT seat_label, row_no, pos FROM bus_seats").WillReturnRows(fourSeatLayoutRows())

	principal := models.Principal{UserID: 42, Role: models.RoleCustomer}
	_, err := svc.Create(context.Background(), principal, CreateBookingInput{
		BusID: 1, Seats: []string{"1", "9"}, Date: "2025-04-01",
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error for unknown label, got %v", err)
	}
}

func TestCreateBookingFareOverrideRoleGated(t *testing.T) {
	cases := []struct {
		role     string
		wantFare int64
	}{
		{models.RoleAgent, 750},
		{models.RoleCustomer, 1000},
	}
	for _, tc := range cases {
		svc, mock, done := newBookingService(t)

		mock.ExpectQuery("FROM buses WHERE id").WillReturnRows(fourSeatBusRows())
		mock.ExpectQuery("SELECT seat_label, row_no, pos FROM bus_seats").WillReturnRows(fourSeatLayoutRows())
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT seat_label FROM booking_seats").
			WillReturnRows(sqlmock.NewRows([]string{"seat_label"}))
		mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlmock.NewResult(8, 1))
		mock.ExpectExec("INSERT INTO booking_seats").WillReturnResult(sqlmock.NewResult(1, 2))
		mock.ExpectCommit()

		principal := models.Principal{UserID: 5, Role: tc.role}
		booking, err := svc.Create(context.Background(), principal, CreateBookingInput{
			BusID: 1, Seats: []string{"3", "4"}, Date: "2025-04-01", FareOverride: 750,
		})
		if err != nil {
			t.Fatalf("%s: expected success, got %v", tc.role, err)
		}
		if booking.Fare != tc.wantFare {
			t.Fatalf("%s: fare %d, want %d", tc.role, booking.Fare, tc.wantFare)
		}
		done()
	}
}

func TestCreateBookingAgentRecordedOnBooking(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()

	mock.ExpectQuery("FROM buses WHERE id").WillReturnRows(fourSeatBusRows())
	mock.ExpectQuery("SELECT seat_label, row_no, pos FROM bus_seats").WillReturnRows(fourSeatLayoutRows())
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT seat_label FROM booking_seats").
		WillReturnRows(sqlmock.NewRows([]string{"seat_label"}))
	mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectExec("INSERT INTO booking_seats").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	principal := models.Principal{UserID: 5, Role: models.RoleAgent}
	booking, err := svc.Create(context.Background(), principal, CreateBookingInput{
		BusID: 1, Seats: []string{"1"}, Date: "2025-04-01",
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if booking.AgentID != 5 {
		t.Fatalf("agent id %d, want 5", booking.AgentID)
	}
}

func pendingBookingRows(status string) *sqlmock.Rows {
	return sqlmock.NewRows(bookingColumns).
		AddRow(7, "abc-123", 1, 42, 0, "Pune", "Mumbai", "2025-04-01", 2, 1000, status, "2025-03-30 10:00:00")
}

func TestCancelReleasesSeats(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()
	// departure 2025-04-01 12:00, now 09:00 same day: 3 hours out, allowed.
	svc.Now = func() time.Time { return time.Date(2025, 4, 1, 9, 0, 0, 0, time.Local) }

	mock.ExpectQuery("FROM bookings WHERE id").WillReturnRows(pendingBookingRows("pending"))
	mock.ExpectQuery("FROM buses WHERE id").WillReturnRows(fourSeatBusRows())
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET status").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM booking_seats").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT seat_label FROM booking_seats").
		WillReturnRows(sqlmock.NewRows([]string{"seat_label"}))
	mock.ExpectQuery("SELECT seat_label, name, age, gender FROM booking_passengers").
		WillReturnRows(sqlmock.NewRows([]string{"seat_label", "name", "age", "gender"}))

	principal := models.Principal{UserID: 42, Role: models.RoleCustomer}
	booking, err := svc.Cancel(context.Background(), principal, 7)
	if err != nil {
		t.Fatalf("expected cancellation to succeed, got %v", err)
	}
	if booking.Status != models.StatusCancelled {
		t.Fatalf("status %q, want cancelled", booking.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelRejectedInsideCutoff(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()
	// departure 12:00, now 10:30: 90 minutes out, inside the 2h cutoff.
	svc.Now = func() time.Time { return time.Date(2025, 4, 1, 10, 30, 0, 0, time.Local) }

	mock.ExpectQuery("FROM bookings WHERE id").WillReturnRows(pendingBookingRows("pending"))
	mock.ExpectQuery("FROM buses WHERE id").WillReturnRows(fourSeatBusRows())

	principal := models.Principal{UserID: 42, Role: models.RoleCustomer}
	_, err := svc.Cancel(context.Background(), principal, 7)
	if !domain.IsCutoff(err) {
		t.Fatalf("expected cutoff error, got %v", err)
	}
}

func TestCancelAdminObeysCutoffByDefault(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()
	svc.Now = func() time.Time { return time.Date(2025, 4, 1, 10, 30, 0, 0, time.Local) }

	mock.ExpectQuery("FROM bookings WHERE id").WillReturnRows(pendingBookingRows("pending"))
	mock.ExpectQuery("FROM buses WHERE id").WillReturnRows(fourSeatBusRows())

	admin := models.Principal{UserID: 1, Role: models.RoleAdmin}
	if _, err := svc.Cancel(context.Background(), admin, 7); !domain.IsCutoff(err) {
		t.Fatalf("admin without bypass should hit cutoff, got %v", err)
	}
}

func TestCancelAdminBypassWhenConfigured(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()
	svc.Now = func() time.Time { return time.Date(2025, 4, 1, 10, 30, 0, 0, time.Local) }
	svc.AdminCutoffBypass = true

	mock.ExpectQuery("FROM bookings WHERE id").WillReturnRows(pendingBookingRows("confirmed"))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET status").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM booking_seats").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT seat_label FROM booking_seats").
		WillReturnRows(sqlmock.NewRows([]string{"seat_label"}))
	mock.ExpectQuery("SELECT seat_label, name, age, gender FROM booking_passengers").
		WillReturnRows(sqlmock.NewRows([]string{"seat_label", "name", "age", "gender"}))

	admin := models.Principal{UserID: 1, Role: models.RoleAdmin}
	booking, err := svc.Cancel(context.Background(), admin, 7)
	if err != nil {
		t.Fatalf("expected bypass to allow cancellation, got %v", err)
	}
	if booking.Status != models.StatusCancelled {
		t.Fatalf("status %q, want cancelled", booking.Status)
	}
}

func TestSetStatusRejectsTransitionsFromCancelled(t *testing.T) {
	for _, target := range []string{"confirmed", "cancelled"} {
		svc, mock, done := newBookingService(t)
		mock.ExpectQuery("FROM bookings WHERE id").WillReturnRows(pendingBookingRows("cancelled"))

		principal := models.Principal{UserID: 42, Role: models.RoleCustomer}
		if _, err := svc.SetStatus(context.Background(), principal, 7, target); !domain.IsValidation(err) {
			t.Fatalf("cancelled -> %s should be rejected, got %v", target, err)
		}
		done()
	}
}

func TestSetStatusPermissionDenied(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()

	mock.ExpectQuery("FROM bookings WHERE id").WillReturnRows(pendingBookingRows("pending"))

	stranger := models.Principal{UserID: 777, Role: models.RoleCustomer}
	if _, err := svc.SetStatus(context.Background(), stranger, 7, "confirmed"); !domain.IsPermission(err) {
		t.Fatalf("expected permission error, got %v", err)
	}
}

func TestConfirmFromPending(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()

	mock.ExpectQuery("FROM bookings WHERE id").WillReturnRows(pendingBookingRows("pending"))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET status").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT seat_label FROM booking_seats").
		WillReturnRows(sqlmock.NewRows([]string{"seat_label"}).AddRow("1").AddRow("2"))
	mock.ExpectQuery("SELECT seat_label, name, age, gender FROM booking_passengers").
		WillReturnRows(sqlmock.NewRows([]string{"seat_label", "name", "age", "gender"}))

	owner := models.Principal{UserID: 42, Role: models.RoleCustomer}
	booking, err := svc.SetStatus(context.Background(), owner, 7, "confirmed")
	if err != nil {
		t.Fatalf("expected confirmation to succeed, got %v", err)
	}
	if booking.Status != models.StatusConfirmed {
		t.Fatalf("status %q, want confirmed", booking.Status)
	}
	if len(booking.Seats) != 2 {
		t.Fatalf("seats %v, want the two held labels", booking.Seats)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
