package recurrence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	t.Run("daily repeat of 3 from day 10 covers days 10 to 13", func(t *testing.T) {
		// when
		dates, err := Expand(Date{Year: 2025, Month: 4, Day: 10}, Daily, 3, 30)

		// then
		require.NoError(t, err)
		days := make([]int, 0, len(dates))
		for _, d := range dates {
			days = append(days, d.Day)
			assert.Equal(t, 4, d.Month)
		}
		assert.Equal(t, []int{10, 11, 12, 13}, days)
	})

	t.Run("daily repeat crosses month and year boundaries", func(t *testing.T) {
		dates, err := Expand(Date{Year: 2024, Month: 11, Day: 30}, Daily, 2, 30)

		require.NoError(t, err)
		assert.Equal(t, []Date{
			{Year: 2024, Month: 11, Day: 30},
			{Year: 2024, Month: 11, Day: 31},
			{Year: 2025, Month: 0, Day: 1},
		}, dates)
	})

	t.Run("weekly repeat steps seven days", func(t *testing.T) {
		dates, err := Expand(Date{Year: 2025, Month: 1, Day: 20}, Weekly, 2, 30)

		require.NoError(t, err)
		assert.Equal(t, []Date{
			{Year: 2025, Month: 1, Day: 20},
			{Year: 2025, Month: 1, Day: 27},
			{Year: 2025, Month: 2, Day: 6},
		}, dates)
	})

	t.Run("monthly repeat normalises days missing from shorter months", func(t *testing.T) {
		dates, err := Expand(Date{Year: 2025, Month: 0, Day: 31}, Monthly, 2, 30)

		require.NoError(t, err)
		assert.Equal(t, []Date{
			{Year: 2025, Month: 0, Day: 31},
			{Year: 2025, Month: 2, Day: 3},
			{Year: 2025, Month: 2, Day: 31},
		}, dates)
	})

	t.Run("count is capped at the limit", func(t *testing.T) {
		dates, err := Expand(Date{Year: 2025, Month: 0, Day: 1}, Daily, 100, 5)

		require.NoError(t, err)
		assert.Len(t, dates, 6)
	})

	t.Run("no repeat yields only the base date", func(t *testing.T) {
		base := Date{Year: 2025, Month: 0, Day: 1}

		dates, err := Expand(base, None, 5, 30)

		require.NoError(t, err)
		assert.Equal(t, []Date{base}, dates)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		_, err := Expand(Date{Year: 2025, Month: 1, Day: 30}, Daily, 1, 30)
		assert.ErrorIs(t, err, ErrInvalidDate)

		_, err = Expand(Date{Year: 2025, Month: 1, Day: 1}, Daily, -1, 30)
		assert.ErrorIs(t, err, ErrNegativeCount)

		_, err = Expand(Date{Year: 2025, Month: 1, Day: 1}, Kind("yearly"), 1, 30)
		assert.ErrorIs(t, err, ErrUnsupportedKind)
	})
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, None, kind)

	kind, err = ParseKind("weekly")
	require.NoError(t, err)
	assert.Equal(t, Weekly, kind)

	_, err = ParseKind("hourly")
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}

func TestDate_Valid(t *testing.T) {
	assert.True(t, Date{Year: 2024, Month: 1, Day: 29}.Valid())
	assert.False(t, Date{Year: 2025, Month: 1, Day: 29}.Valid())
	assert.False(t, Date{Year: 2025, Month: 12, Day: 1}.Valid())
	assert.False(t, Date{Year: 2025, Month: 0, Day: 0}.Valid())
}
