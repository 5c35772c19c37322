package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Surajdas14/easybus-sub001/internal/cache"
	intconfig "github.com/Surajdas14/easybus-sub001/internal/config"
	"github.com/Surajdas14/easybus-sub001/internal/domain"
	"github.com/Surajdas14/easybus-sub001/internal/domain/models"
	"github.com/Surajdas14/easybus-sub001/internal/lock"
	"github.com/Surajdas14/easybus-sub001/internal/repositories"
	"github.com/Surajdas14/easybus-sub001/internal/utils"
)

// Locks serializes reserve/release per bus+date across the process. The
// unique index on booking_seats remains the backstop for anything outside
// this process.
var Locks = lock.NewKeyedMutex()

// BookingService drives the booking state machine. Status transitions are
// the only path that mutates seat state.
type BookingService struct {
	BookingRepo repositories.BookingRepository
	SeatRepo    repositories.SeatRepository
	BusRepo     repositories.BusRepository
	Cache       *cache.Availability
	DB          *sql.DB
	RequestID   string

	Locks *lock.KeyedMutex

	// Cancellation policy; zero values fall back to the loaded config.
	CancelCutoff      time.Duration
	AdminCutoffBypass bool

	// Now is a seam for tests; defaults to time.Now.
	Now func() time.Time
}

type CreateBookingInput struct {
	BusID        int64
	Seats        []string
	From         string
	To           string
	Date         string
	Passengers   []models.Passenger
	FareOverride int64
}

func (s BookingService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s BookingService) locks() *lock.KeyedMutex {
	if s.Locks != nil {
		return s.Locks
	}
	return Locks
}

func (s BookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s BookingService) cutoff() time.Duration {
	if s.CancelCutoff > 0 {
		return s.CancelCutoff
	}
	if intconfig.Cfg.CancelCutoff > 0 {
		return intconfig.Cfg.CancelCutoff
	}
	return 2 * time.Hour
}

func normalizeSeats(in []string) ([]string, error) {
	if len(in) == 0 {
		return nil, domain.ValidationError{Field: "seats", Msg: "at least one seat is required"}
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, raw := range in {
		label := strings.TrimSpace(raw)
		if label == "" {
			return nil, domain.ValidationError{Field: "seats", Msg: "empty seat label"}
		}
		if seen[label] {
			return nil, domain.ValidationError{Field: "seats", Msg: "duplicate seat " + label}
		}
		seen[label] = true
		out = append(out, label)
	}
	return out, nil
}

// Create validates the request, reserves the seats and persists a pending
// booking, all inside one transaction per bus+date key. On a seat conflict
// no booking row is left behind and the blocking labels are reported.
func (s BookingService) Create(ctx context.Context, principal models.Principal, in CreateBookingInput) (models.Booking, error) {
	seats, err := normalizeSeats(in.Seats)
	if err != nil {
		return models.Booking{}, err
	}
	if _, err := utils.ParseDate(in.Date); err != nil {
		return models.Booking{}, domain.ValidationError{Field: "date", Msg: "must be YYYY-MM-DD", Err: err}
	}

	bus, err := s.BusRepo.GetByID(in.BusID)
	if err != nil {
		return models.Booking{}, err
	}
	if !bus.IsActive {
		return models.Booking{}, domain.ValidationError{Field: "busId", Msg: "bus is not open for booking"}
	}
	if !utils.ClockWithin(s.now(), bus.WindowOpenTime, bus.WindowCloseTime) {
		return models.Booking{}, domain.ValidationError{Field: "busId", Msg: "booking window is closed"}
	}

	known, err := s.BusRepo.SeatLabelSet(bus.ID)
	if err != nil {
		return models.Booking{}, err
	}
	unknown := []string{}
	for _, l := range seats {
		if !known[l] {
			unknown = append(unknown, l)
		}
	}
	if len(unknown) > 0 {
		return models.Booking{}, domain.ValidationError{
			Field: "seats",
			Msg:   "unknown seats for this bus: " + strings.Join(unknown, ", "),
		}
	}

	passengers, err := alignPassengers(seats, in.Passengers)
	if err != nil {
		return models.Booking{}, err
	}

	fare := bus.FarePerSeat * int64(len(seats))
	if in.FareOverride > 0 && (principal.IsAdmin() || principal.IsAgent()) {
		fare = in.FareOverride
	}

	booking := models.Booking{
		Code:        uuid.NewString(),
		BusID:       bus.ID,
		UserID:      principal.UserID,
		Source:      strings.TrimSpace(in.From),
		Destination: strings.TrimSpace(in.To),
		TravelDate:  strings.TrimSpace(in.Date),
		SeatCount:   len(seats),
		Fare:        fare,
		Status:      models.StatusPending,
		Seats:       seats,
		Passengers:  passengers,
	}
	if booking.Source == "" {
		booking.Source = bus.Source
	}
	if booking.Destination == "" {
		booking.Destination = bus.Destination
	}
	if principal.IsAgent() {
		booking.AgentID = principal.UserID
	}

	key := LockKey(bus.ID, booking.TravelDate)
	s.locks().Lock(key)
	defer s.locks().Unlock(key)

	tx, err := s.db().Begin()
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}

	taken, err := s.SeatRepo.TakenForUpdateTx(tx, bus.ID, booking.TravelDate, seats)
	if err != nil {
		_ = tx.Rollback()
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if len(taken) > 0 {
		_ = tx.Rollback()
		return models.Booking{}, domain.SeatConflictError{Seats: taken}
	}

	booking.ID, err = s.BookingRepo.InsertTx(tx, booking)
	if err != nil {
		_ = tx.Rollback()
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if err := s.SeatRepo.ReserveTx(tx, booking.ID, bus.ID, booking.TravelDate, seats); err != nil {
		// Rollback is the compensating release: the booking row and any
		// seat rows vanish together, so no held seat can be orphaned.
		_ = tx.Rollback()
		if domain.IsSeatConflict(err) {
			return models.Booking{}, err
		}
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if err := s.BookingRepo.InsertPassengersTx(tx, booking.ID, passengers); err != nil {
		_ = tx.Rollback()
		return models.Booking{}, domain.InternalError{Err: err}
	}

	if err := tx.Commit(); err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}

	s.invalidate(ctx, bus.ID, booking.TravelDate, "create")
	utils.LogEvent(s.RequestID, "booking", "create",
		fmt.Sprintf("booking %d bus=%d date=%s seats=%d", booking.ID, bus.ID, booking.TravelDate, len(seats)))

	return booking, nil
}

func alignPassengers(seats []string, in []models.Passenger) ([]models.Passenger, error) {
	if len(in) == 0 {
		return nil, nil
	}
	if len(in) != len(seats) {
		return nil, domain.ValidationError{Field: "passengers", Msg: "must match the number of seats"}
	}
	seatSet := make(map[string]bool, len(seats))
	for _, l := range seats {
		seatSet[l] = true
	}
	used := make(map[string]bool, len(in))
	out := make([]models.Passenger, len(in))
	for i, p := range in {
		p.SeatLabel = strings.TrimSpace(p.SeatLabel)
		if p.SeatLabel == "" {
			p.SeatLabel = seats[i]
		}
		if !seatSet[p.SeatLabel] {
			return nil, domain.ValidationError{Field: "passengers", Msg: "passenger seat " + p.SeatLabel + " is not part of the booking"}
		}
		if used[p.SeatLabel] {
			return nil, domain.ValidationError{Field: "passengers", Msg: "two passengers on seat " + p.SeatLabel}
		}
		used[p.SeatLabel] = true
		p.Name = strings.TrimSpace(p.Name)
		out[i] = p
	}
	return out, nil
}

// SetStatus applies one state-machine transition. Cancellation releases
// the booking's seats in the same transaction and enforces the departure
// cutoff; confirmation is only valid from pending.
func (s BookingService) SetStatus(ctx context.Context, principal models.Principal, bookingID int64, newStatus string) (models.Booking, error) {
	newStatus = strings.ToLower(strings.TrimSpace(newStatus))
	if newStatus != models.StatusConfirmed && newStatus != models.StatusCancelled {
		return models.Booking{}, domain.ValidationError{Field: "status", Msg: "must be confirmed or cancelled"}
	}

	b, err := s.BookingRepo.GetByID(bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	if !principal.IsAdmin() && b.UserID != principal.UserID {
		return models.Booking{}, domain.PermissionError{Msg: "not your booking"}
	}
	if !models.ValidTransition(b.Status, newStatus) {
		return models.Booking{}, domain.ValidationError{
			Field: "status",
			Msg:   fmt.Sprintf("cannot go from %s to %s", b.Status, newStatus),
		}
	}

	if newStatus == models.StatusCancelled {
		if err := s.checkCutoff(principal, b); err != nil {
			return models.Booking{}, err
		}
	}

	key := LockKey(b.BusID, b.TravelDate)
	s.locks().Lock(key)
	defer s.locks().Unlock(key)

	tx, err := s.db().Begin()
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if err := s.BookingRepo.UpdateStatusTx(tx, b.ID, newStatus); err != nil {
		_ = tx.Rollback()
		if domain.IsNotFound(err) {
			return models.Booking{}, err
		}
		return models.Booking{}, domain.InternalError{Err: err}
	}
	released := int64(0)
	if newStatus == models.StatusCancelled {
		released, err = s.SeatRepo.ReleaseByBookingTx(tx, b.ID)
		if err != nil {
			_ = tx.Rollback()
			return models.Booking{}, domain.InternalError{Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}

	if newStatus == models.StatusCancelled {
		s.invalidate(ctx, b.BusID, b.TravelDate, "cancel")
	}
	utils.LogEvent(s.RequestID, "booking", "status",
		fmt.Sprintf("booking %d %s -> %s released=%d", b.ID, b.Status, newStatus, released))

	b.Status = newStatus
	return s.withDetails(b)
}

// Cancel is the DELETE /bookings/:id path; identical to a status change.
func (s BookingService) Cancel(ctx context.Context, principal models.Principal, bookingID int64) (models.Booking, error) {
	return s.SetStatus(ctx, principal, bookingID, models.StatusCancelled)
}

func (s BookingService) checkCutoff(principal models.Principal, b models.Booking) error {
	if principal.IsAdmin() && s.adminBypass() {
		return nil
	}
	bus, err := s.BusRepo.GetByID(b.BusID)
	if err != nil {
		return err
	}
	departure, err := utils.CombineDateTime(b.TravelDate, bus.DepartureTime)
	if err != nil {
		return domain.InternalError{Msg: "bus departure time unreadable", Err: err}
	}
	if departure.Sub(s.now()) < s.cutoff() {
		return domain.CutoffError{
			Msg: fmt.Sprintf("cancellation requires at least %s before departure", s.cutoff()),
		}
	}
	return nil
}

func (s BookingService) adminBypass() bool {
	if s.AdminCutoffBypass {
		return true
	}
	return intconfig.Cfg.AdminCutoffBypass
}

// Get returns a booking with its seats and passengers, visible to the
// owner, the selling agent and admins.
func (s BookingService) Get(principal models.Principal, bookingID int64) (models.Booking, error) {
	b, err := s.BookingRepo.GetByID(bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	if !principal.IsAdmin() && b.UserID != principal.UserID && b.AgentID != principal.UserID {
		return models.Booking{}, domain.PermissionError{Msg: "not your booking"}
	}
	return s.withDetails(b)
}

// List returns the caller's bookings; admins see everything.
func (s BookingService) List(principal models.Principal) ([]models.Booking, error) {
	if principal.IsAdmin() {
		return s.BookingRepo.ListAll()
	}
	return s.BookingRepo.ListByUser(principal.UserID)
}

func (s BookingService) withDetails(b models.Booking) (models.Booking, error) {
	seats, err := s.SeatRepo.SeatsByBooking(b.ID)
	if err != nil {
		return b, err
	}
	sort.Strings(seats)
	b.Seats = seats

	passengers, err := s.BookingRepo.Passengers(b.ID)
	if err != nil {
		return b, err
	}
	b.Passengers = passengers
	return b, nil
}

func (s BookingService) invalidate(ctx context.Context, busID int64, date, action string) {
	if err := s.Cache.Invalidate(ctx, busID, date); err != nil {
		// Committed state and cache now disagree; the TTL will heal it,
		// but leave a trail for reconciliation.
		utils.LogEvent(s.RequestID, "booking", action,
			fmt.Sprintf("cache invalidation failed for bus=%d date=%s: %v", busID, date, err))
	}
}
