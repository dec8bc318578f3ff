package services

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used for every stored date
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date as midnight UTC
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Today returns the calendar date of now in loc, as midnight UTC
func Today(now time.Time, loc *time.Location) time.Time {
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// anniversaryIn returns the anniversary's occurrence in year. Feb 29 is
// clamped to Feb 28 in non-leap years.
func anniversaryIn(anniversary time.Time, year int) time.Time {
	month, day := anniversary.Month(), anniversary.Day()
	if month == time.February && day == 29 && !isLeap(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// NextAnniversary returns this year's occurrence of anniversary, or next
// year's if it has already passed. today counts as not passed.
func NextAnniversary(anniversary, today time.Time) time.Time {
	next := anniversaryIn(anniversary, today.Year())
	if next.Before(today) {
		next = anniversaryIn(anniversary, today.Year()+1)
	}
	return next
}

// DaysBetween returns the whole number of days from a to b; both must be
// midnight UTC dates. Unix seconds are used so spans beyond the range of
// time.Duration stay exact.
func DaysBetween(a, b time.Time) int {
	return int((b.Unix() - a.Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
