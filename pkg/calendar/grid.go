package calendar

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/scheinerik/schedule/pkg/schedule"
)

// Cell is one column of a day row. Blank cells span one hour and have no EventId.
type Cell struct {
	Hour    int    `json:"hour"`
	Span    int    `json:"span"`
	EventId int    `json:"eventId,omitempty"`
	Title   string `json:"title,omitempty"`
	Sleep   bool   `json:"sleep"`
	Past    bool   `json:"past"`
}

// Block places an event with minute precision as percentages of the day.
type Block struct {
	EventId  int     `json:"eventId"`
	Title    string  `json:"title"`
	Start    string  `json:"start"`
	End      string  `json:"end"`
	LeftPct  float64 `json:"leftPct"`
	WidthPct float64 `json:"widthPct"`
}

type DayRow struct {
	Day     int     `json:"day"`
	Label   string  `json:"label"`
	Weekend bool    `json:"weekend"`
	Today   bool    `json:"today"`
	Cells   []Cell  `json:"cells"`
	Blocks  []Block `json:"blocks"`
}

type MonthGrid struct {
	Year      int      `json:"year"`
	Month     int      `json:"month"`
	MonthName string   `json:"monthName"`
	Rows      []DayRow `json:"rows"`
}

// BuildGrid lays out every day of the month as a row of hour cells.
func BuildGrid(events []schedule.Event, year, month int, now time.Time) MonthGrid {
	days := DaysInMonth(year, month)
	byDay := eventsByDay(events, year, month)
	current := sameMonth(now, year, month)
	name := monthName(month)

	grid := MonthGrid{
		Year:      year,
		Month:     month,
		MonthName: name,
		Rows:      make([]DayRow, 0, days),
	}
	for day := 1; day <= days; day++ {
		past := func(hour int) bool {
			return current && (day < now.Day() || (day == now.Day() && hour < now.Hour()))
		}
		grid.Rows = append(grid.Rows, DayRow{
			Day:     day,
			Label:   fmt.Sprintf("%s %d", name[:3], day),
			Weekend: isWeekend(year, month, day),
			Today:   current && day == now.Day(),
			Cells:   fillDay(byDay[day], past),
			Blocks:  Blocks(byDay[day]),
		})
	}
	return grid
}

type spanEvent struct {
	event     schedule.Event
	startHour int
	endHour   int
	startMin  int
}

// fillDay walks the events in start order from hour 0, emitting blank cells up to each event's
// start hour and one cell spanning the event, until hour 24. Events starting before the cursor
// overlap an earlier one and are skipped.
func fillDay(events []schedule.Event, past func(hour int) bool) []Cell {
	spans := make([]spanEvent, 0, len(events))
	for _, e := range events {
		startHour, startMinute, err := schedule.ParseTimeOfDay(e.Start)
		if err != nil {
			continue
		}
		endHour, endMinute, err := schedule.ParseTimeOfDay(e.End)
		if err != nil {
			continue
		}
		startMin := startHour*60 + startMinute
		if endHour*60+endMinute <= startMin {
			continue
		}
		spans = append(spans, spanEvent{event: e, startHour: startHour, endHour: endHour, startMin: startMin})
	}
	slices.SortStableFunc(spans, func(a, b spanEvent) int {
		return cmp.Compare(a.startMin, b.startMin)
	})

	cells := make([]Cell, 0, HoursPerDay)
	blank := func(hour int) Cell {
		return Cell{Hour: hour, Span: 1, Sleep: hour < SleepHours, Past: past(hour)}
	}
	cursor := 0
	for _, s := range spans {
		if s.startHour < cursor || s.startHour >= HoursPerDay {
			continue
		}
		for ; cursor < s.startHour; cursor++ {
			cells = append(cells, blank(cursor))
		}
		span := min(max(s.endHour-s.startHour, 1), HoursPerDay-s.startHour)
		cells = append(cells, Cell{
			Hour:    s.startHour,
			Span:    span,
			EventId: s.event.Id,
			Title:   s.event.Title,
			Sleep:   s.startHour < SleepHours,
			Past:    past(s.startHour),
		})
		cursor = s.startHour + span
	}
	for ; cursor < HoursPerDay; cursor++ {
		cells = append(cells, blank(cursor))
	}
	return cells
}

// Blocks returns the minute-precision placement of each event. Events whose end is not after
// their start are left out.
func Blocks(events []schedule.Event) []Block {
	blocks := make([]Block, 0, len(events))
	for _, e := range events {
		startMin, err := e.StartMinutes()
		if err != nil {
			continue
		}
		endMin, err := e.EndMinutes()
		if err != nil || endMin <= startMin {
			continue
		}
		blocks = append(blocks, Block{
			EventId:  e.Id,
			Title:    e.Title,
			Start:    e.Start,
			End:      e.End,
			LeftPct:  float64(startMin) / schedule.MinutesPerDay * 100,
			WidthPct: float64(endMin-startMin) / schedule.MinutesPerDay * 100,
		})
	}
	return blocks
}
