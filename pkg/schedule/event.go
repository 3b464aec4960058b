package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/scheinerik/schedule/pkg/recurrence"
)

var ErrEventNotFound = errors.New("event not found")
var ErrInvalidTimeRange = errors.New("end time must be after start time")
var ErrInvalidTime = errors.New("invalid time of day")
var ErrInvalidDate = errors.New("invalid date")
var ErrMissingId = errors.New("missing id")
var ErrMissingGroup = errors.New("missing repeat group")

const MinutesPerDay = 24 * 60

// Event is one scheduled activity inside a single calendar day. Month is zero-based.
type Event struct {
	Id    int
	Year  int
	Month int
	Day   int
	// Start and End are "HH:MM" times of day.
	Start       string
	End         string
	Title       string
	Repeat      recurrence.Kind
	RepeatGroup string
}

func (e Event) Date() recurrence.Date {
	return recurrence.Date{Year: e.Year, Month: e.Month, Day: e.Day}
}

// StartMinutes is the start as minutes after midnight.
func (e Event) StartMinutes() (int, error) {
	return MinutesOfDay(e.Start)
}

func (e Event) EndMinutes() (int, error) {
	return MinutesOfDay(e.End)
}

// ParseTimeOfDay parses "HH:MM"; the minutes part may be omitted ("9" is 09:00).
func ParseTimeOfDay(value string) (hour int, minute int, err error) {
	hourPart, minutePart, hasMinutes := strings.Cut(strings.TrimSpace(value), ":")
	hour, err = strconv.Atoi(hourPart)
	if err != nil || hour < 0 || hour > 24 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	if hasMinutes && minutePart != "" {
		minute, err = strconv.Atoi(minutePart)
		if err != nil || minute < 0 || minute > 59 {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
		}
	}
	if hour == 24 && minute != 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	return hour, minute, nil
}

func MinutesOfDay(value string) (int, error) {
	hour, minute, err := ParseTimeOfDay(value)
	if err != nil {
		return 0, err
	}
	return hour*60 + minute, nil
}

// ValidateRange checks that end is strictly later than start.
func ValidateRange(start, end string) error {
	startMin, err := MinutesOfDay(start)
	if err != nil {
		return err
	}
	endMin, err := MinutesOfDay(end)
	if err != nil {
		return err
	}
	if endMin <= startMin {
		return ErrInvalidTimeRange
	}
	return nil
}
