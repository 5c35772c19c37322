package utils

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate(" 2025-04-01 ")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if FormatDate(got) != "2025-04-01" {
		t.Fatalf("round-trip gave %s", FormatDate(got))
	}
	if _, err := ParseDate("01/04/2025"); err == nil {
		t.Fatal("expected an error for a non-ISO date")
	}
}

func TestCombineDateTime(t *testing.T) {
	got, err := CombineDateTime("2025-04-01", "12:30")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	want := time.Date(2025, 4, 1, 12, 30, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if _, err := CombineDateTime("2025-04-01", "noon"); err == nil {
		t.Fatal("expected an error for a bad clock value")
	}
}

func TestClockWithin(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(2025, 4, 1, h, m, 0, 0, time.Local)
	}
	cases := []struct {
		name        string
		now         time.Time
		open, close string
		want        bool
	}{
		{"no bounds", at(3, 0), "", "", true},
		{"inside", at(9, 0), "08:00", "20:00", true},
		{"at open", at(8, 0), "08:00", "20:00", true},
		{"at close", at(20, 0), "08:00", "20:00", true},
		{"before open", at(7, 59), "08:00", "20:00", false},
		{"after close", at(20, 1), "08:00", "20:00", false},
		{"open only", at(23, 0), "08:00", "", true},
		{"close only", at(7, 0), "", "08:00", true},
		{"wraps midnight inside", at(23, 30), "22:00", "06:00", true},
		{"wraps midnight morning", at(5, 0), "22:00", "06:00", true},
		{"wraps midnight outside", at(12, 0), "22:00", "06:00", false},
	}
	for _, tc := range cases {
		if got := ClockWithin(tc.now, tc.open, tc.close); got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}
