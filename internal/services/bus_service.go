package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	intconfig "github.com/Surajdas14/easybus-sub001/internal/config"
	"github.com/Surajdas14/easybus-sub001/internal/domain"
	"github.com/Surajdas14/easybus-sub001/internal/domain/models"
	"github.com/Surajdas14/easybus-sub001/internal/repositories"
	"github.com/Surajdas14/easybus-sub001/internal/seatmap"
	"github.com/Surajdas14/easybus-sub001/internal/utils"
)

// BusService manages the catalog. The seat layout is generated exactly
// once, at creation; regeneration and deletion are refused while any
// non-cancelled booking references the bus.
type BusService struct {
	BusRepo     repositories.BusRepository
	BookingRepo repositories.BookingRepository
	Inventory   InventoryService
	DB          *sql.DB
	RequestID   string

	Now func() time.Time
}

type CreateBusInput struct {
	Name            string
	Source          string
	Destination     string
	TravelDate      string
	DepartureTime   string
	ArrivalTime     string
	WindowOpenTime  string
	WindowCloseTime string
	TotalSeats      int
	Arrangement     string
	FirstRowSeats   int
	LastRowSeats    int
	FarePerSeat     int64
}

func (s BusService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s BusService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s BusService) Create(in CreateBusInput) (models.Bus, error) {
	if strings.TrimSpace(in.Name) == "" {
		return models.Bus{}, domain.ValidationError{Field: "name", Msg: "required"}
	}
	if strings.TrimSpace(in.Source) == "" || strings.TrimSpace(in.Destination) == "" {
		return models.Bus{}, domain.ValidationError{Field: "route", Msg: "source and destination are required"}
	}
	if _, err := utils.ParseDate(in.TravelDate); err != nil {
		return models.Bus{}, domain.ValidationError{Field: "travelDate", Msg: "must be YYYY-MM-DD", Err: err}
	}
	if _, err := time.Parse("15:04", strings.TrimSpace(in.DepartureTime)); err != nil {
		return models.Bus{}, domain.ValidationError{Field: "departureTime", Msg: "must be HH:MM", Err: err}
	}
	if in.FarePerSeat <= 0 {
		return models.Bus{}, domain.ValidationError{Field: "farePerSeat", Msg: "must be positive"}
	}

	seats, err := seatmap.Generate(in.TotalSeats, in.Arrangement, in.FirstRowSeats, in.LastRowSeats)
	if err != nil {
		return models.Bus{}, err
	}

	bus := models.Bus{
		Name:            strings.TrimSpace(in.Name),
		Source:          strings.TrimSpace(in.Source),
		Destination:     strings.TrimSpace(in.Destination),
		TravelDate:      strings.TrimSpace(in.TravelDate),
		DepartureTime:   strings.TrimSpace(in.DepartureTime),
		ArrivalTime:     strings.TrimSpace(in.ArrivalTime),
		WindowOpenTime:  strings.TrimSpace(in.WindowOpenTime),
		WindowCloseTime: strings.TrimSpace(in.WindowCloseTime),
		TotalSeats:      in.TotalSeats,
		Arrangement:     in.Arrangement,
		FirstRowSeats:   in.FirstRowSeats,
		LastRowSeats:    in.LastRowSeats,
		FarePerSeat:     in.FarePerSeat,
		IsActive:        true,
	}

	tx, err := s.db().Begin()
	if err != nil {
		return models.Bus{}, domain.InternalError{Err: err}
	}
	bus.ID, err = s.BusRepo.InsertTx(tx, bus)
	if err != nil {
		_ = tx.Rollback()
		return models.Bus{}, domain.InternalError{Err: err}
	}
	if err := s.BusRepo.InsertSeatsTx(tx, bus.ID, seats); err != nil {
		_ = tx.Rollback()
		return models.Bus{}, domain.InternalError{Err: err}
	}
	if err := tx.Commit(); err != nil {
		return models.Bus{}, domain.InternalError{Err: err}
	}

	utils.LogEvent(s.RequestID, "bus", "create",
		fmt.Sprintf("bus %d %s->%s %s seats=%d", bus.ID, bus.Source, bus.Destination, bus.TravelDate, bus.TotalSeats))
	return bus, nil
}

func (s BusService) Update(id int64, u models.BusUpdate) (models.Bus, error) {
	if u.TravelDate != nil {
		if _, err := utils.ParseDate(*u.TravelDate); err != nil {
			return models.Bus{}, domain.ValidationError{Field: "travelDate", Msg: "must be YYYY-MM-DD", Err: err}
		}
	}
	if u.DepartureTime != nil {
		if _, err := time.Parse("15:04", strings.TrimSpace(*u.DepartureTime)); err != nil {
			return models.Bus{}, domain.ValidationError{Field: "departureTime", Msg: "must be HH:MM", Err: err}
		}
	}
	if err := s.BusRepo.Update(id, u); err != nil {
		return models.Bus{}, err
	}
	return s.BusRepo.GetByID(id)
}

// Delete removes a bus and its layout, refused while non-cancelled
// bookings still reference it.
func (s BusService) Delete(id int64) error {
	if _, err := s.BusRepo.GetByID(id); err != nil {
		return err
	}
	active, err := s.BookingRepo.CountActiveByBus(id)
	if err != nil {
		return err
	}
	if active > 0 {
		return domain.ConflictError{Resource: "bus", Msg: fmt.Sprintf("%d active bookings exist", active)}
	}

	tx, err := s.db().Begin()
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if err := s.BusRepo.DeleteTx(tx, id); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "bus", "delete", fmt.Sprintf("bus %d removed", id))
	return nil
}

// RegenerateSeats rebuilds the layout from the stored parameters. Doing
// this under live bookings would break the booked-flag invariant, so it
// carries the same guard as Delete.
func (s BusService) RegenerateSeats(id int64) ([]models.Seat, error) {
	bus, err := s.BusRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	active, err := s.BookingRepo.CountActiveByBus(id)
	if err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, domain.ConflictError{Resource: "bus", Msg: fmt.Sprintf("%d active bookings exist", active)}
	}

	seats, err := seatmap.Generate(bus.TotalSeats, bus.Arrangement, bus.FirstRowSeats, bus.LastRowSeats)
	if err != nil {
		return nil, err
	}

	tx, err := s.db().Begin()
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	if err := s.BusRepo.DeleteSeatsTx(tx, id); err != nil {
		_ = tx.Rollback()
		return nil, domain.InternalError{Err: err}
	}
	if err := s.BusRepo.InsertSeatsTx(tx, id, seats); err != nil {
		_ = tx.Rollback()
		return nil, domain.InternalError{Err: err}
	}
	if err := tx.Commit(); err != nil {
		return nil, domain.InternalError{Err: err}
	}

	out := make([]models.Seat, len(seats))
	for i, seat := range seats {
		out[i] = models.Seat{Label: seat.Label, Row: seat.Row, Pos: seat.Pos}
	}
	utils.LogEvent(s.RequestID, "bus", "regenerate-seats", fmt.Sprintf("bus %d layout rebuilt", id))
	return out, nil
}

// Search lists matching active buses with derived availability and
// booking-window state for their travel date.
func (s BusService) Search(source, destination, date string) ([]models.BusSummary, error) {
	buses, err := s.BusRepo.Search(source, destination, date)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]models.BusSummary, 0, len(buses))
	for _, bus := range buses {
		avail, err := s.Inventory.AvailableSeats(bus.ID, bus.TravelDate, bus.TotalSeats)
		if err != nil {
			return nil, err
		}
		out = append(out, models.BusSummary{
			Bus:            bus,
			AvailableSeats: avail,
			WindowOpen:     utils.ClockWithin(now, bus.WindowOpenTime, bus.WindowCloseTime),
		})
	}
	return out, nil
}

// Get returns one bus with its layout, each seat flagged booked or free
// for the bus's travel date (display path).
func (s BusService) Get(ctx context.Context, id int64) (models.Bus, []models.Seat, error) {
	bus, err := s.BusRepo.GetByID(id)
	if err != nil {
		return models.Bus{}, nil, err
	}
	seats, err := s.BusRepo.SeatLayout(id)
	if err != nil {
		return models.Bus{}, nil, err
	}
	booked, err := s.Inventory.BookedSeats(ctx, id, bus.TravelDate)
	if err != nil {
		return models.Bus{}, nil, err
	}
	bookedSet := make(map[string]bool, len(booked))
	for _, l := range booked {
		bookedSet[l] = true
	}
	for i := range seats {
		seats[i].Booked = bookedSet[seats[i].Label]
	}
	return bus, seats, nil
}
