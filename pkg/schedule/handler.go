package schedule

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/scheinerik/schedule/internal/rest"
	"github.com/scheinerik/schedule/pkg/recurrence"
	log "github.com/sirupsen/logrus"
)

type EventDTO struct {
	Id          int    `json:"id"`
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	Day         int    `json:"day"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Title       string `json:"title"`
	Repeat      string `json:"repeat,omitempty"`
	RepeatGroup string `json:"repeat_group,omitempty"`
}

type UpdateEventRequest struct {
	Id    int    `json:"id"`
	Start string `json:"start"`
	End   string `json:"end"`
	Title string `json:"title"`
}

type SeriesRequest struct {
	Year   int    `json:"year"`
	Month  int    `json:"month"`
	Day    int    `json:"day"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Title  string `json:"title"`
	Repeat string `json:"repeat"`
	Count  int    `json:"count"`
}

type CreatedResponse struct {
	Success bool `json:"success"`
	Id      int  `json:"id"`
}

type UpdatedResponse struct {
	Success bool `json:"success"`
	Updated int  `json:"updated"`
}

// DeletedResponse carries the deleted event id for single deletes, or the group and the number
// of removed events for group deletes.
type DeletedResponse struct {
	Success bool   `json:"success"`
	Deleted int    `json:"deleted,omitempty"`
	Group   string `json:"group,omitempty"`
	Count   int    `json:"count,omitempty"`
}

type SeriesResponse struct {
	Success bool       `json:"success"`
	Group   string     `json:"group,omitempty"`
	Events  []EventDTO `json:"events"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ServeEvents dispatches /api/events on the HTTP method.
func (h *Handler) ServeEvents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.ListEvents(w, r)
	case http.MethodPost:
		h.CreateEvent(w, r)
	case http.MethodPut:
		h.UpdateEvent(w, r)
	case http.MethodDelete:
		h.DeleteEvent(w, r)
	default:
		w.Header().Set("Allow", "GET, POST, PUT, DELETE")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// ListEvents godoc
// @Summary List all events
// @Tags Events
// @Produce json
// @Success 200 {array} EventDTO
// @Router /api/events [get]
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	log.Trace("Listing events")
	events, err := h.service.ListEvents(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]EventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, EventToDTO(e))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
	log.Tracef("Events returned: %d", len(dtos))
}

// CreateEvent godoc
// @Summary Create a single event
// @Tags Events
// @Accept json
// @Produce json
// @Param event body EventDTO true "Event"
// @Success 200 {object} CreatedResponse
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/events [post]
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var dto EventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	log.Debugf("New event request: %+v", dto)

	event := DTOToEvent(dto)
	event.Repeat = recurrence.None
	event.RepeatGroup = ""
	stored, err := h.service.CreateEvent(r.Context(), event)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, http.StatusOK, CreatedResponse{Success: true, Id: stored.Id})
}

// UpdateEvent godoc
// @Summary Overwrite start, end and title of an event
// @Tags Events
// @Accept json
// @Produce json
// @Param event body UpdateEventRequest true "Changes"
// @Success 200 {object} UpdatedResponse
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {string} string "Event not found"
// @Router /api/events [put]
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	if req.Id <= 0 {
		http.Error(w, "Missing id", http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateEvent(r.Context(), req.Id, req.Start, req.End, req.Title)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, http.StatusOK, UpdatedResponse{Success: true, Updated: updated.Id})
}

// DeleteEvent godoc
// @Summary Delete one event by id, or a whole repeat group
// @Tags Events
// @Produce json
// @Param id query int false "Event id"
// @Param group query string false "Repeat group id"
// @Success 200 {object} DeletedResponse
// @Failure 400 {string} string "Missing id"
// @Router /api/events [delete]
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	idString := query.Get("id")
	group := query.Get("group")

	if idString == "" && group != "" {
		deleted, err := h.service.DeleteRepeatGroup(r.Context(), group)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		rest.WriteJSON(w, http.StatusOK, DeletedResponse{Success: true, Group: group, Count: deleted})
		return
	}

	if idString == "" {
		http.Error(w, "Missing id", http.StatusBadRequest)
		return
	}
	id, err := strconv.Atoi(idString)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteEvent(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, http.StatusOK, DeletedResponse{Success: true, Deleted: id})
}

// CreateSeries godoc
// @Summary Create an event and its repetitions in one transaction
// @Tags Events
// @Accept json
// @Produce json
// @Param series body SeriesRequest true "Series"
// @Success 201 {object} SeriesResponse
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/events/series [post]
func (h *Handler) CreateSeries(w http.ResponseWriter, r *http.Request) {
	var req SeriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	kind, err := recurrence.ParseKind(req.Repeat)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid repeat kind", "repeat must be one of none, daily, weekly, monthly")
		return
	}

	base := Event{
		Year:  req.Year,
		Month: req.Month,
		Day:   req.Day,
		Start: req.Start,
		End:   req.End,
		Title: req.Title,
	}
	events, err := h.service.CreateSeries(r.Context(), base, kind, req.Count)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidTimeRange), errors.Is(err, ErrInvalidTime):
			rest.WriteError(w, http.StatusBadRequest, "Invalid time range", err.Error())
		case errors.Is(err, ErrInvalidDate):
			rest.WriteError(w, http.StatusBadRequest, "Invalid date", err.Error())
		case errors.Is(err, recurrence.ErrNegativeCount), errors.Is(err, recurrence.ErrUnsupportedKind):
			rest.WriteError(w, http.StatusBadRequest, "Invalid repeat", err.Error())
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	resp := SeriesResponse{Success: true, Events: make([]EventDTO, 0, len(events))}
	for _, e := range events {
		resp.Events = append(resp.Events, EventToDTO(e))
	}
	if len(events) > 0 {
		resp.Group = events[0].RepeatGroup
	}
	rest.WriteJSON(w, http.StatusCreated, resp)
}

func EventToDTO(e Event) EventDTO {
	dto := EventDTO{
		Id:          e.Id,
		Year:        e.Year,
		Month:       e.Month,
		Day:         e.Day,
		Start:       e.Start,
		End:         e.End,
		Title:       e.Title,
		RepeatGroup: e.RepeatGroup,
	}
	if e.Repeat != recurrence.None {
		dto.Repeat = string(e.Repeat)
	}
	return dto
}

func DTOToEvent(dto EventDTO) Event {
	kind, err := recurrence.ParseKind(dto.Repeat)
	if err != nil {
		kind = recurrence.None
	}
	return Event{
		Id:          dto.Id,
		Year:        dto.Year,
		Month:       dto.Month,
		Day:         dto.Day,
		Start:       dto.Start,
		End:         dto.End,
		Title:       dto.Title,
		Repeat:      kind,
		RepeatGroup: dto.RepeatGroup,
	}
}
