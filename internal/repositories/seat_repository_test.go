package repositories

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"github.com/Surajdas14/easybus-sub001/internal/domain"
)

func TestReserveTxMapsDuplicateKeyToSeatConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO booking_seats").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	repo := SeatRepository{DB: db}
	err = repo.ReserveTx(tx, 7, 1, "2025-04-01", []string{"2", "3"})
	_ = tx.Rollback()

	conflict, ok := domain.AsSeatConflict(err)
	if !ok {
		t.Fatalf("expected SeatConflictError, got %v", err)
	}
	if len(conflict.Seats) != 2 {
		t.Fatalf("conflict seats %v, want the requested labels", conflict.Seats)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReserveTxPassesThroughOtherErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO booking_seats").
		WillReturnError(&mysql.MySQLError{Number: 1205, Message: "Lock wait timeout"})
	mock.ExpectRollback()

	tx, _ := db.Begin()
	repo := SeatRepository{DB: db}
	err = repo.ReserveTx(tx, 7, 1, "2025-04-01", []string{"2"})
	_ = tx.Rollback()

	if domain.IsSeatConflict(err) {
		t.Fatalf("non-1062 error must not become a seat conflict: %v", err)
	}
	if err == nil {
		t.Fatal("expected the driver error to propagate")
	}
}

func TestReleaseByBookingTxIdempotent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM booking_seats").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	tx, _ := db.Begin()
	repo := SeatRepository{DB: db}
	n, err := repo.ReleaseByBookingTx(tx, 7)
	if err != nil {
		t.Fatalf("releasing already-free seats must not error: %v", err)
	}
	if n != 0 {
		t.Fatalf("released %d rows, want 0", n)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
}

func TestTakenForUpdateTxReturnsSortedSubset(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"seat_label"}).AddRow("9").AddRow("10"))
	mock.ExpectRollback()

	tx, _ := db.Begin()
	repo := SeatRepository{DB: db}
	taken, err := repo.TakenForUpdateTx(tx, 1, "2025-04-01", []string{"9", "10", "11"})
	_ = tx.Rollback()
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(taken) != 2 || taken[0] != "10" || taken[1] != "9" {
		t.Fatalf("taken %v, want [10 9] (lexicographic)", taken)
	}
}

func TestTakenForUpdateTxEmptyLabels(t *testing.T) {
	repo := SeatRepository{}
	taken, err := repo.TakenForUpdateTx(nil, 1, "2025-04-01", nil)
	if err != nil || taken != nil {
		t.Fatalf("empty label list should short-circuit, got %v %v", taken, err)
	}
}
