package utils

import (
	"strings"
	"time"
)

const (
	layoutDate  = "2006-01-02"
	layoutClock = "15:04"
)

// ParseDate parses YYYY-MM-DD in local timezone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDate, strings.TrimSpace(s), time.Local)
}

// FormatDate formats time to YYYY-MM-DD in local timezone.
func FormatDate(t time.Time) string {
	return t.In(time.Local).Format(layoutDate)
}

// CombineDateTime joins a YYYY-MM-DD date with an HH:MM clock time into
// one local timestamp. Used for the departure cutoff check.
func CombineDateTime(date, clock string) (time.Time, error) {
	return time.ParseInLocation(layoutDate+" "+layoutClock,
		strings.TrimSpace(date)+" "+strings.TrimSpace(clock), time.Local)
}

// ClockWithin reports whether now's clock time falls inside [open, close].
// Empty bounds mean the window is unrestricted on that side. A close time
// earlier than the open time wraps past midnight.
func ClockWithin(now time.Time, open, close string) bool {
	cur := now.Format(layoutClock)
	open = strings.TrimSpace(open)
	close = strings.TrimSpace(close)

	switch {
	case open == "" && close == "":
		return true
	case open == "":
		return cur <= close
	case close == "":
		return cur >= open
	case open <= close:
		return cur >= open && cur <= close
	default:
		return cur >= open || cur <= close
	}
}
