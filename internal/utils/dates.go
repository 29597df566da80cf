package utils

import (
	"time"

	"github.com/jinzhu/now"
)

// DateLayout is the wire format for stay dates.
const DateLayout = "2006-01-02"

// DateOnly strips the time component, keeping dates comparable regardless
// of how they were produced.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current date with no time component.
func Today() time.Time {
	return DateOnly(time.Now().UTC())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, time.UTC)
}

// Nights returns the number of nights between check-in and check-out.
func Nights(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Hours() / 24)
}

// YearBounds returns the first and last instant of the calendar year
// containing t.
func YearBounds(t time.Time) (time.Time, time.Time) {
	n := now.New(t)
	return n.BeginningOfYear(), n.EndOfYear()
}
