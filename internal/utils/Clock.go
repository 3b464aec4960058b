package utils

import (
	"time"
	_ "time/tzdata"
)

type Clock interface {
	Now() time.Time
}

// ZonedClock reports the current time in a fixed location.
type ZonedClock struct {
	Location *time.Location
}

func NewZonedClock(timezone string) (*ZonedClock, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return &ZonedClock{Location: loc}, nil
}

func (z ZonedClock) Now() time.Time {
	if z.Location == nil {
		return time.Now()
	}
	return time.Now().In(z.Location)
}

type MockClock struct {
	FixedNow time.Time
}

func (m *MockClock) Now() time.Time {
	return m.FixedNow
}

func (m *MockClock) SetNow(now time.Time) {
	m.FixedNow = now
}
