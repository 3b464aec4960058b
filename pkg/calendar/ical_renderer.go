package calendar

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/scheinerik/schedule/pkg/recurrence"
	"github.com/scheinerik/schedule/pkg/schedule"
	log "github.com/sirupsen/logrus"
)

const ProductId = "-//scheinerik.dev//schedule//EN"

const propertyRepeatGroup = ical.ComponentProperty("X-REPEAT-GROUP")

// RenderICS exports the events as a published iCalendar feed. Times are interpreted in loc.
// Events with unparsable times are skipped.
func RenderICS(events []schedule.Event, loc *time.Location, stamp time.Time) string {
	if loc == nil {
		loc = time.UTC
	}
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(ProductId)
	cal.SetXWRCalName("Schedule")
	cal.SetXWRTimezone(loc.String())

	for _, e := range events {
		start, end, err := eventTimes(e, loc)
		if err != nil {
			log.Warnf("skipping event %d in ics feed: %v", e.Id, err)
			continue
		}
		vevent := cal.AddEvent(eventUid(e))
		vevent.SetDtStampTime(stamp)
		vevent.SetStartAt(start)
		vevent.SetEndAt(end)
		vevent.SetSummary(e.Title)
		if e.Repeat != recurrence.None && e.Repeat != "" {
			vevent.AddProperty(ical.ComponentPropertyCategories, string(e.Repeat))
		}
		if e.RepeatGroup != "" {
			vevent.AddProperty(propertyRepeatGroup, e.RepeatGroup)
		}
	}
	return cal.Serialize()
}

func eventUid(e schedule.Event) string {
	return fmt.Sprintf("event-%d@scheinerik.dev", e.Id)
}

func eventTimes(e schedule.Event, loc *time.Location) (time.Time, time.Time, error) {
	startMin, err := e.StartMinutes()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endMin, err := e.EndMinutes()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if endMin <= startMin {
		return time.Time{}, time.Time{}, schedule.ErrInvalidTimeRange
	}
	day := e.Date().Time(loc)
	return day.Add(time.Duration(startMin) * time.Minute), day.Add(time.Duration(endMin) * time.Minute), nil
}
