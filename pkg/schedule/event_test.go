package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		value  string
		hour   int
		minute int
	}{
		{"09:00", 9, 0},
		{"23:59", 23, 59},
		{"7", 7, 0},
		{"10:", 10, 0},
		{"24:00", 24, 0},
	}
	for _, c := range cases {
		t.Run(c.value, func(t *testing.T) {
			hour, minute, err := ParseTimeOfDay(c.value)
			require.NoError(t, err)
			assert.Equal(t, c.hour, hour)
			assert.Equal(t, c.minute, minute)
		})
	}

	for _, invalid := range []string{"", "ab:00", "25:00", "10:60", "24:30", "-1:00"} {
		t.Run("invalid "+invalid, func(t *testing.T) {
			_, _, err := ParseTimeOfDay(invalid)
			assert.ErrorIs(t, err, ErrInvalidTime)
		})
	}
}

func TestValidateRange(t *testing.T) {
	assert.NoError(t, ValidateRange("09:00", "09:01"))
	assert.ErrorIs(t, ValidateRange("10:00", "10:00"), ErrInvalidTimeRange)
	assert.ErrorIs(t, ValidateRange("11:00", "10:00"), ErrInvalidTimeRange)
	assert.ErrorIs(t, ValidateRange("xx", "10:00"), ErrInvalidTime)
}

func TestEvent_Minutes(t *testing.T) {
	e := Event{Start: "08:30", End: "10:15"}

	start, err := e.StartMinutes()
	require.NoError(t, err)
	end, err := e.EndMinutes()
	require.NoError(t, err)

	assert.Equal(t, 510, start)
	assert.Equal(t, 615, end)
}
