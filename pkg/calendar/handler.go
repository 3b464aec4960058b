package calendar

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/scheinerik/schedule/internal/rest"
	"github.com/scheinerik/schedule/internal/utils"
	"github.com/scheinerik/schedule/pkg/schedule"
	log "github.com/sirupsen/logrus"
)

type EventLister interface {
	ListEvents(ctx context.Context) ([]schedule.Event, error)
}

type Handler struct {
	events    EventLister
	clock     utils.Clock
	location  *time.Location
	threshold int
	csv       *CsvSummaryRenderer
}

// NewHandler serves the month views. now is taken from clock and interpreted in location.
func NewHandler(events EventLister, clock utils.Clock, location *time.Location, threshold int) *Handler {
	if location == nil {
		location = time.UTC
	}
	if threshold <= 0 {
		threshold = DefaultFullDayHours
	}
	return &Handler{
		events:    events,
		clock:     clock,
		location:  location,
		threshold: threshold,
		csv:       NewCsvSummaryRenderer(),
	}
}

// GetSummary godoc
// @Summary Per-day utilisation of a month
// @Tags Calendar
// @Produce json
// @Param year query int false "Year, defaults to the current year"
// @Param month query int false "Zero-based month, defaults to the current month"
// @Success 200 {object} MonthSummary
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/calendar/summary [get]
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.summary(w, r)
	if !ok {
		return
	}
	rest.WriteJSON(w, http.StatusOK, summary)
}

// GetSummaryCsv godoc
// @Summary Per-day utilisation of a month as CSV
// @Tags Calendar
// @Produce text/csv
// @Param year query int false "Year"
// @Param month query int false "Zero-based month"
// @Success 200 {string} string
// @Router /api/calendar/summary.csv [get]
func (h *Handler) GetSummaryCsv(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.summary(w, r)
	if !ok {
		return
	}
	body, err := h.csv.RenderSummary(summary)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=\"schedule-"+
		strconv.Itoa(summary.Year)+"-"+strconv.Itoa(summary.Month+1)+".csv\"")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		log.Errorf("could not write csv response: %v", err)
	}
}

// GetGrid godoc
// @Summary Hour grid of a month
// @Tags Calendar
// @Produce json
// @Param year query int false "Year"
// @Param month query int false "Zero-based month"
// @Success 200 {object} MonthGrid
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/calendar/grid [get]
func (h *Handler) GetGrid(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	year, month, ok := h.selectedMonth(w, r, now)
	if !ok {
		return
	}
	events, err := h.events.ListEvents(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, http.StatusOK, BuildGrid(events, year, month, now))
}

// GetFeed godoc
// @Summary All events as an iCalendar feed
// @Tags Calendar
// @Produce text/calendar
// @Success 200 {string} string
// @Router /api/calendar/events.ics [get]
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.ListEvents(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(RenderICS(events, h.location, h.now()))); err != nil {
		log.Errorf("could not write ics response: %v", err)
	}
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) (MonthSummary, bool) {
	now := h.now()
	year, month, ok := h.selectedMonth(w, r, now)
	if !ok {
		return MonthSummary{}, false
	}
	events, err := h.events.ListEvents(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return MonthSummary{}, false
	}
	return Summarize(events, year, month, now, h.threshold), true
}

// selectedMonth reads year and month from the query, defaulting to the month of now. offset
// navigates relative to the selection.
func (h *Handler) selectedMonth(w http.ResponseWriter, r *http.Request, now time.Time) (int, int, bool) {
	query := r.URL.Query()
	year, month := now.Year(), int(now.Month())-1

	if value := query.Get("year"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid year", "'year' must be an integer")
			return 0, 0, false
		}
		year = parsed
	}
	if value := query.Get("month"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid month", "'month' must be an integer between 0 and 11")
			return 0, 0, false
		}
		month = parsed
	}
	if err := ValidateMonth(year, month); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid month", err.Error())
		return 0, 0, false
	}
	if value := query.Get("offset"); value != "" {
		offset, err := strconv.Atoi(value)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid offset", "'offset' must be an integer")
			return 0, 0, false
		}
		year, month = Shift(year, month, offset)
		if err := ValidateMonth(year, month); err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid offset", err.Error())
			return 0, 0, false
		}
	}
	log.Tracef("Selected month %d-%02d", year, month+1)
	return year, month, true
}

func (h *Handler) now() time.Time {
	return h.clock.Now().In(h.location)
}
