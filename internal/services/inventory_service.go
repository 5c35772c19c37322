package services

import (
	"context"
	"fmt"

	"github.com/Surajdas14/easybus-sub001/internal/cache"
	"github.com/Surajdas14/easybus-sub001/internal/repositories"
)

// InventoryService answers availability questions about a bus+date.
// Reads here are the relaxed display path; the authoritative check happens
// inside the reservation transaction (SeatRepository.TakenForUpdateTx).
type InventoryService struct {
	BusRepo  repositories.BusRepository
	SeatRepo repositories.SeatRepository
	Cache    *cache.Availability
}

// LockKey scopes the reservation critical section to one bus+date, so
// unrelated inventories never serialize on each other.
func LockKey(busID int64, date string) string {
	return fmt.Sprintf("%d:%s", busID, date)
}

// BookedSeats lists the labels currently held for a bus+date,
// cache-assisted.
func (s InventoryService) BookedSeats(ctx context.Context, busID int64, date string) ([]string, error) {
	if labels, ok := s.Cache.Get(ctx, busID, date); ok {
		return labels, nil
	}
	labels, err := s.SeatRepo.BookedLabels(busID, date)
	if err != nil {
		return nil, err
	}
	s.Cache.Set(ctx, busID, date, labels)
	return labels, nil
}

// AvailableSeats recomputes the free-seat count from the authoritative
// seat rows. Always derived, never an incrementally maintained counter,
// and clamped so it can never drift outside [0, totalSeats].
func (s InventoryService) AvailableSeats(busID int64, date string, totalSeats int) (int, error) {
	booked, err := s.SeatRepo.CountBooked(busID, date)
	if err != nil {
		return 0, err
	}
	avail := totalSeats - booked
	if avail < 0 {
		avail = 0
	}
	if avail > totalSeats {
		avail = totalSeats
	}
	return avail, nil
}

// CheckAvailability reports whether every requested label exists on the
// bus and is currently free. The returned slice names the blockers:
// either unknown labels or seats held by a non-cancelled booking. Display
// use only; reservation re-verifies under lock.
func (s InventoryService) CheckAvailability(busID int64, date string, labels []string) (bool, []string, error) {
	known, err := s.BusRepo.SeatLabelSet(busID)
	if err != nil {
		return false, nil, err
	}
	blockers := []string{}
	for _, l := range labels {
		if !known[l] {
			blockers = append(blockers, l)
		}
	}
	if len(blockers) > 0 {
		return false, blockers, nil
	}

	booked, err := s.SeatRepo.BookedLabels(busID, date)
	if err != nil {
		return false, nil, err
	}
	bookedSet := make(map[string]bool, len(booked))
	for _, l := range booked {
		bookedSet[l] = true
	}
	for _, l := range labels {
		if bookedSet[l] {
			blockers = append(blockers, l)
		}
	}
	return len(blockers) == 0, blockers, nil
}
