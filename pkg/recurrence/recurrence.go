// Package recurrence turns a repeating schedule request into the concrete dates of its occurrences.
package recurrence

import (
	"errors"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

type Kind string

const (
	None    Kind = "none"
	Daily   Kind = "daily"
	Weekly  Kind = "weekly"
	Monthly Kind = "monthly"
)

var ErrUnsupportedKind = errors.New("unsupported repeat kind")
var ErrInvalidDate = errors.New("invalid date")
var ErrNegativeCount = errors.New("repeat count must not be negative")

// ParseKind accepts the wire names of the repeat kinds; the empty string means None.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case "", None:
		return None, nil
	case Daily, Weekly, Monthly:
		return Kind(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, s)
}

// Date is a calendar day. Month is zero-based (0 = January) to match the stored events.
type Date struct {
	Year  int
	Month int
	Day   int
}

func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: int(t.Month()) - 1, Day: t.Day()}
}

func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, time.Month(d.Month+1), d.Day, 0, 0, 0, 0, loc)
}

// Valid reports whether the date exists in the calendar.
func (d Date) Valid() bool {
	if d.Month < 0 || d.Month > 11 || d.Day < 1 {
		return false
	}
	return DateOf(d.Time(time.UTC)) == d
}

// Expand returns base followed by count further occurrences: daily +i days, weekly +7i days,
// monthly +i months. Count is capped at limit when limit is positive. Monthly steps normalise
// overflowing days, so Jan 31 + 1 month lands on Mar 2 or 3.
func Expand(base Date, kind Kind, count int, limit int) ([]Date, error) {
	if !base.Valid() {
		return nil, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, base.Year, base.Month+1, base.Day)
	}
	if count < 0 {
		return nil, ErrNegativeCount
	}
	if limit > 0 && count > limit {
		count = limit
	}
	if kind == None || kind == "" || count == 0 {
		return []Date{base}, nil
	}

	start := base.Time(time.UTC)
	switch kind {
	case Daily:
		return fromRule(start, rrule.DAILY, count)
	case Weekly:
		return fromRule(start, rrule.WEEKLY, count)
	case Monthly:
		dates := make([]Date, 0, count+1)
		for i := 0; i <= count; i++ {
			dates = append(dates, DateOf(start.AddDate(0, i, 0)))
		}
		return dates, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
}

func fromRule(start time.Time, freq rrule.Frequency, count int) ([]Date, error) {
	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:    freq,
		Dtstart: start,
		Count:   count + 1,
	})
	if err != nil {
		return nil, fmt.Errorf("could not build recurrence rule: %w", err)
	}
	occurrences := rule.All()
	dates := make([]Date, 0, len(occurrences))
	for _, t := range occurrences {
		dates = append(dates, DateOf(t))
	}
	return dates, nil
}
