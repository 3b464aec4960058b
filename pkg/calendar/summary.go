package calendar

import (
	"time"

	"github.com/scheinerik/schedule/pkg/schedule"
	log "github.com/sirupsen/logrus"
)

type DaySummary struct {
	Day       int              `json:"day"`
	UsedHours int              `json:"usedHours"`
	FreeHours int              `json:"freeHours"`
	Full      bool             `json:"full"`
	Past      bool             `json:"past"`
	Today     bool             `json:"today"`
	Weekend   bool             `json:"weekend"`
	Events    []schedule.Event `json:"-"`
}

type MonthSummary struct {
	Year        int          `json:"year"`
	Month       int          `json:"month"`
	MonthName   string       `json:"monthName"`
	DaysInMonth int          `json:"daysInMonth"`
	Threshold   int          `json:"threshold"`
	UsedHours   int          `json:"usedHours"`
	FullDays    int          `json:"fullDays"`
	Days        []DaySummary `json:"days"`
}

// Summarize computes the utilisation of every day of the month. Used hours are the sum of whole
// end hours minus whole start hours of the day's events; overlaps are counted twice. A day is full
// once its used hours reach threshold.
func Summarize(events []schedule.Event, year, month int, now time.Time, threshold int) MonthSummary {
	if threshold <= 0 {
		threshold = DefaultFullDayHours
	}
	days := DaysInMonth(year, month)
	byDay := eventsByDay(events, year, month)
	current := sameMonth(now, year, month)

	summary := MonthSummary{
		Year:        year,
		Month:       month,
		MonthName:   monthName(month),
		DaysInMonth: days,
		Threshold:   threshold,
		Days:        make([]DaySummary, 0, days),
	}
	for day := 1; day <= days; day++ {
		dayEvents := byDay[day]
		used := usedHours(dayEvents)
		d := DaySummary{
			Day:       day,
			UsedHours: used,
			FreeHours: max(threshold-used, 0),
			Full:      used >= threshold,
			Past:      current && day < now.Day(),
			Today:     current && day == now.Day(),
			Weekend:   isWeekend(year, month, day),
			Events:    dayEvents,
		}
		summary.UsedHours += used
		if d.Full {
			summary.FullDays++
		}
		summary.Days = append(summary.Days, d)
	}
	return summary
}

func usedHours(events []schedule.Event) int {
	total := 0
	for _, e := range events {
		startHour, _, err := schedule.ParseTimeOfDay(e.Start)
		if err != nil {
			log.Warnf("skipping event %d with unparsable start %q", e.Id, e.Start)
			continue
		}
		endHour, _, err := schedule.ParseTimeOfDay(e.End)
		if err != nil {
			log.Warnf("skipping event %d with unparsable end %q", e.Id, e.End)
			continue
		}
		total += endHour - startHour
	}
	return total
}

func eventsByDay(events []schedule.Event, year, month int) map[int][]schedule.Event {
	byDay := make(map[int][]schedule.Event)
	for _, e := range events {
		if e.Year == year && e.Month == month {
			byDay[e.Day] = append(byDay[e.Day], e)
		}
	}
	return byDay
}
