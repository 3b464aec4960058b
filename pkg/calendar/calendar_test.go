package calendar

import (
	"testing"
	"time"

	"github.com/scheinerik/schedule/pkg/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2025-10-15 14:30, October is month 9
var now = time.Date(2025, time.October, 15, 14, 30, 0, 0, time.UTC)

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 31, DaysInMonth(2025, 0))
	assert.Equal(t, 28, DaysInMonth(2025, 1))
	assert.Equal(t, 29, DaysInMonth(2024, 1))
	assert.Equal(t, 30, DaysInMonth(2025, 10))
	assert.Equal(t, 31, DaysInMonth(2025, 11))
}

func TestShift(t *testing.T) {
	tests := []struct {
		year, month, offset int
		wantYear, wantMonth int
	}{
		{2025, 5, 1, 2025, 6},
		{2025, 0, -1, 2024, 11},
		{2025, 11, 1, 2026, 0},
		{2025, 3, -16, 2023, 11},
		{2025, 3, 0, 2025, 3},
	}
	for _, tt := range tests {
		year, month := Shift(tt.year, tt.month, tt.offset)
		assert.Equal(t, tt.wantYear, year)
		assert.Equal(t, tt.wantMonth, month)
	}
}

func TestSummarize(t *testing.T) {
	t.Run("three hour event uses three hours and leaves the day free", func(t *testing.T) {
		// given
		events := []schedule.Event{{Id: 1, Year: 2025, Month: 9, Day: 1, Start: "09:00", End: "12:00"}}

		// when
		summary := Summarize(events, 2025, 9, now, 8)

		// then
		require.Len(t, summary.Days, 31)
		day := summary.Days[0]
		assert.Equal(t, 1, day.Day)
		assert.Equal(t, 3, day.UsedHours)
		assert.Equal(t, 5, day.FreeHours)
		assert.False(t, day.Full)
		assert.Len(t, day.Events, 1)
	})

	t.Run("eight or more hours make the day full with no free hours", func(t *testing.T) {
		// given
		events := []schedule.Event{
			{Id: 1, Year: 2025, Month: 9, Day: 20, Start: "08:00", End: "13:00"},
			{Id: 2, Year: 2025, Month: 9, Day: 20, Start: "14:00", End: "18:30"},
		}

		// when
		summary := Summarize(events, 2025, 9, now, 8)

		// then
		day := summary.Days[19]
		assert.Equal(t, 9, day.UsedHours)
		assert.Equal(t, 0, day.FreeHours)
		assert.True(t, day.Full)
		assert.Equal(t, 1, summary.FullDays)
	})

	t.Run("overlapping events are counted twice", func(t *testing.T) {
		events := []schedule.Event{
			{Id: 1, Year: 2025, Month: 9, Day: 2, Start: "09:00", End: "13:00"},
			{Id: 2, Year: 2025, Month: 9, Day: 2, Start: "10:00", End: "14:00"},
		}

		summary := Summarize(events, 2025, 9, now, 8)

		assert.Equal(t, 8, summary.Days[1].UsedHours)
		assert.True(t, summary.Days[1].Full)
	})

	t.Run("only events of the selected month are counted", func(t *testing.T) {
		events := []schedule.Event{
			{Id: 1, Year: 2025, Month: 8, Day: 3, Start: "09:00", End: "12:00"},
			{Id: 2, Year: 2024, Month: 9, Day: 3, Start: "09:00", End: "12:00"},
		}

		summary := Summarize(events, 2025, 9, now, 8)

		assert.Zero(t, summary.UsedHours)
		assert.Empty(t, summary.Days[2].Events)
	})

	t.Run("flags past, today and weekend days", func(t *testing.T) {
		summary := Summarize(nil, 2025, 9, now, 8)

		assert.True(t, summary.Days[13].Past)
		assert.False(t, summary.Days[13].Today)
		assert.True(t, summary.Days[14].Today)
		assert.False(t, summary.Days[14].Past)
		assert.False(t, summary.Days[15].Past)
		// 2025-10-18 is a Saturday
		assert.True(t, summary.Days[17].Weekend)
		assert.False(t, summary.Days[16].Weekend)
	})

	t.Run("other months have no past or today days", func(t *testing.T) {
		summary := Summarize(nil, 2025, 8, now, 8)

		for _, day := range summary.Days {
			assert.False(t, day.Past)
			assert.False(t, day.Today)
		}
	})

	t.Run("unparsable times are skipped", func(t *testing.T) {
		events := []schedule.Event{
			{Id: 1, Year: 2025, Month: 9, Day: 1, Start: "later", End: "12:00"},
			{Id: 2, Year: 2025, Month: 9, Day: 1, Start: "10:00", End: "11:00"},
		}

		summary := Summarize(events, 2025, 9, now, 8)

		assert.Equal(t, 1, summary.Days[0].UsedHours)
	})
}

func TestBuildGrid(t *testing.T) {
	t.Run("fills blanks around events in start order", func(t *testing.T) {
		// given
		events := []schedule.Event{
			{Id: 2, Year: 2025, Month: 9, Day: 3, Start: "13:00", End: "15:00", Title: "later"},
			{Id: 1, Year: 2025, Month: 9, Day: 3, Start: "09:00", End: "12:00", Title: "first"},
		}

		// when
		grid := BuildGrid(events, 2025, 9, now)

		// then
		require.Len(t, grid.Rows, 31)
		row := grid.Rows[2]
		assert.Equal(t, "Oct 3", row.Label)
		covered := 0
		var eventCells []Cell
		for _, c := range row.Cells {
			covered += c.Span
			if c.EventId != 0 {
				eventCells = append(eventCells, c)
			}
		}
		assert.Equal(t, HoursPerDay, covered)
		require.Len(t, eventCells, 2)
		assert.Equal(t, Cell{Hour: 9, Span: 3, EventId: 1, Title: "first", Past: true}, eventCells[0])
		assert.Equal(t, 13, eventCells[1].Hour)
		assert.Equal(t, 2, eventCells[1].Span)
		// 9 blanks, event, 12, event, 15..23
		assert.Len(t, row.Cells, 9+1+1+1+9)
	})

	t.Run("skips overlapping and inverted events", func(t *testing.T) {
		events := []schedule.Event{
			{Id: 1, Year: 2025, Month: 9, Day: 20, Start: "10:00", End: "14:00"},
			{Id: 2, Year: 2025, Month: 9, Day: 20, Start: "12:00", End: "13:00"},
			{Id: 3, Year: 2025, Month: 9, Day: 20, Start: "18:00", End: "17:00"},
		}

		grid := BuildGrid(events, 2025, 9, now)

		var ids []int
		for _, c := range grid.Rows[19].Cells {
			if c.EventId != 0 {
				ids = append(ids, c.EventId)
			}
		}
		assert.Equal(t, []int{1}, ids)
		assert.Len(t, grid.Rows[19].Blocks, 2)
	})

	t.Run("short events span one hour and late events are clipped at midnight", func(t *testing.T) {
		events := []schedule.Event{
			{Id: 1, Year: 2025, Month: 9, Day: 20, Start: "20:15", End: "20:45"},
			{Id: 2, Year: 2025, Month: 9, Day: 20, Start: "22:00", End: "24:00"},
		}

		cells := BuildGrid(events, 2025, 9, now).Rows[19].Cells

		last := cells[len(cells)-1]
		assert.Equal(t, 2, last.EventId)
		assert.Equal(t, 2, last.Span)
		assert.Equal(t, 1, cells[len(cells)-3].Span)
		assert.Equal(t, 1, cells[len(cells)-3].EventId)
	})

	t.Run("marks sleep hours and past hours of today", func(t *testing.T) {
		cells := BuildGrid(nil, 2025, 9, now).Rows[14].Cells

		require.Len(t, cells, HoursPerDay)
		assert.True(t, cells[7].Sleep)
		assert.False(t, cells[8].Sleep)
		assert.True(t, cells[13].Past)
		assert.False(t, cells[14].Past)
	})
}

func TestBlocks(t *testing.T) {
	blocks := Blocks([]schedule.Event{
		{Id: 1, Start: "06:00", End: "12:00"},
		{Id: 2, Start: "12:00", End: "12:00"},
	})

	require.Len(t, blocks, 1)
	assert.InDelta(t, 25.0, blocks[0].LeftPct, 0.0001)
	assert.InDelta(t, 25.0, blocks[0].WidthPct, 0.0001)
}
