package seatmap

import (
	"reflect"
	"testing"
)

func TestGenerateSingleRowTakesAllSeats(t *testing.T) {
	seats, err := Generate(4, "2-2", 2, 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := Labels(seats); !reflect.DeepEqual(got, []string{"1", "2", "3", "4"}) {
		t.Fatalf("labels wrong: %v", got)
	}
	for _, s := range seats {
		if s.Row != 1 {
			t.Fatalf("seat %s placed in row %d, want 1", s.Label, s.Row)
		}
	}
}

func TestGenerateRowWidths(t *testing.T) {
	seats, err := Generate(32, "2-2", 3, 5)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(seats) != 32 {
		t.Fatalf("expected 32 seats, got %d", len(seats))
	}

	widths := map[int]int{}
	for _, s := range seats {
		widths[s.Row]++
	}
	if widths[1] != 3 {
		t.Fatalf("first row width %d, want 3", widths[1])
	}
	for row := 2; row <= 7; row++ {
		if widths[row] != 4 {
			t.Fatalf("interior row %d width %d, want 4", row, widths[row])
		}
	}
	// 3 + 6*4 = 27 emitted before the last planned row, which absorbs the rest.
	if widths[8] != 5 {
		t.Fatalf("last row width %d, want 5", widths[8])
	}
}

func TestGenerateShortFinalRow(t *testing.T) {
	seats, err := Generate(7, "2-1", 3, 3)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(seats) != 7 {
		t.Fatalf("expected 7 seats, got %d", len(seats))
	}
	last := seats[len(seats)-1]
	if last.Label != "7" || last.Row != 3 || last.Pos != 1 {
		t.Fatalf("final seat %+v, want label 7 row 3 pos 1", last)
	}
}

func TestGenerateOverflowsIntoExtraRows(t *testing.T) {
	// Caps too small to fit everything in the planned rows; generation must
	// still emit every label rather than silently dropping seats.
	seats, err := Generate(10, "2-2", 2, 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(seats) != 10 {
		t.Fatalf("expected 10 seats, got %d", len(seats))
	}
	if got := seats[len(seats)-1].Label; got != "10" {
		t.Fatalf("final label %s, want 10", got)
	}
}

func TestGenerateRejectsBadInput(t *testing.T) {
	cases := []struct {
		name        string
		total       int
		arrangement string
		first, last int
	}{
		{"unknown arrangement", 20, "3-3", 2, 2},
		{"zero seats", 0, "2-2", 2, 2},
		{"first row too wide", 20, "1-1", 3, 2},
		{"last row zero", 20, "2-1", 2, 0},
	}
	for _, tc := range cases {
		if _, err := Generate(tc.total, tc.arrangement, tc.first, tc.last); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestSeatsPerRow(t *testing.T) {
	for arrangement, want := range map[string]int{"2-2": 4, "2-1": 3, "1-1": 2} {
		got, err := SeatsPerRow(arrangement)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", arrangement, err)
		}
		if got != want {
			t.Fatalf("%s: got %d want %d", arrangement, got, want)
		}
	}
}
