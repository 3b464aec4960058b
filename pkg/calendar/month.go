// Package calendar derives the month views of the schedule from the stored events: the per-day
// utilisation summary, the hour grid and its exports.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

const HoursPerDay = 24

// SleepHours is the number of hours from midnight rendered as sleep time.
const SleepHours = 8

const DefaultFullDayHours = 8

var ErrInvalidMonth = errors.New("month must be between 0 and 11")
var ErrInvalidYear = errors.New("year must be between 1 and 9999")

// DaysInMonth returns the number of days of the zero-based month.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

// Shift moves the zero-based month by offset months, wrapping the year.
func Shift(year, month, offset int) (int, int) {
	total := year*12 + month + offset
	y, m := total/12, total%12
	if m < 0 {
		m += 12
		y--
	}
	return y, m
}

func ValidateMonth(year, month int) error {
	if month < 0 || month > 11 {
		return fmt.Errorf("%w: %d", ErrInvalidMonth, month)
	}
	if year < 1 || year > 9999 {
		return fmt.Errorf("%w: %d", ErrInvalidYear, year)
	}
	return nil
}

func monthName(month int) string {
	return time.Month(month + 1).String()
}

func isWeekend(year, month, day int) bool {
	switch time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, time.UTC).Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	return false
}

// sameMonth reports whether now falls in the given year and zero-based month.
func sameMonth(now time.Time, year, month int) bool {
	return now.Year() == year && int(now.Month())-1 == month
}
