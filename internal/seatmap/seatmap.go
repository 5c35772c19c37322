// Package seatmap generates the per-bus seat layout from arrangement
// parameters. Generation happens exactly once, at bus creation; the
// resulting labels are the stable seat identifiers used everywhere else.
package seatmap

import (
	"strconv"

	"github.com/Surajdas14/easybus-sub001/internal/domain"
	"github.com/Surajdas14/easybus-sub001/internal/domain/models"
)

// Seat is one generated layout position. Labels run "1".."totalSeats".
type Seat struct {
	Label string
	Row   int
	Pos   int
}

// SeatsPerRow maps an arrangement pattern to its full-row seat count.
func SeatsPerRow(arrangement string) (int, error) {
	switch arrangement {
	case models.Arrangement22:
		return 4, nil
	case models.Arrangement21:
		return 3, nil
	case models.Arrangement11:
		return 2, nil
	default:
		return 0, domain.ValidationError{Field: "arrangement", Msg: "must be one of 2-2, 2-1, 1-1"}
	}
}

// Generate produces the ordered seat sequence for a bus. The first row
// holds firstRow seats and the final planned row lastRow seats; interior
// rows hold the full arrangement width. Emission stops at totalSeats, so
// the final row may come up short. When everything fits in a single row
// the row overrides do not apply and the row simply holds all seats.
func Generate(totalSeats int, arrangement string, firstRow, lastRow int) ([]Seat, error) {
	perRow, err := SeatsPerRow(arrangement)
	if err != nil {
		return nil, err
	}
	if totalSeats <= 0 {
		return nil, domain.ValidationError{Field: "totalSeats", Msg: "must be positive"}
	}
	if firstRow <= 0 || firstRow > perRow {
		return nil, domain.ValidationError{Field: "firstRowSeats", Msg: "must be between 1 and the arrangement width"}
	}
	if lastRow <= 0 || lastRow > perRow {
		return nil, domain.ValidationError{Field: "lastRowSeats", Msg: "must be between 1 and the arrangement width"}
	}

	rows := (totalSeats + perRow - 1) / perRow

	seats := make([]Seat, 0, totalSeats)
	label := 1
	for row := 1; label <= totalSeats; row++ {
		width := perRow
		switch {
		case rows == 1:
			width = totalSeats
		case row == 1:
			width = firstRow
		case row == rows:
			width = lastRow
		}
		for pos := 1; pos <= width && label <= totalSeats; pos++ {
			seats = append(seats, Seat{Label: strconv.Itoa(label), Row: row, Pos: pos})
			label++
		}
	}
	return seats, nil
}

// Labels returns just the label sequence of a generated layout.
func Labels(seats []Seat) []string {
	out := make([]string, len(seats))
	for i, s := range seats {
		out[i] = s.Label
	}
	return out
}
