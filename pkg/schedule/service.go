package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/scheinerik/schedule/internal/event_bus"
	"github.com/scheinerik/schedule/pkg/recurrence"
	log "github.com/sirupsen/logrus"
)

const DefaultMaxRepeat = 30

type Service interface {
	ListEvents(ctx context.Context) ([]Event, error)
	CreateEvent(ctx context.Context, event Event) (Event, error)
	CreateSeries(ctx context.Context, base Event, kind recurrence.Kind, count int) ([]Event, error)
	UpdateEvent(ctx context.Context, id int, start, end, title string) (Event, error)
	DeleteEvent(ctx context.Context, id int) error
	DeleteRepeatGroup(ctx context.Context, group string) (int, error)
}

type ServiceImpl struct {
	repo       Repository
	eventBus   *event_bus.EventBus
	maxRepeat  int
	newGroupId func() string
}

func NewService(repo Repository, eventBus *event_bus.EventBus, maxRepeat int) *ServiceImpl {
	if maxRepeat <= 0 {
		maxRepeat = DefaultMaxRepeat
	}
	return &ServiceImpl{
		repo:       repo,
		eventBus:   eventBus,
		maxRepeat:  maxRepeat,
		newGroupId: uuid.NewString,
	}
}

func (s *ServiceImpl) ListEvents(ctx context.Context) ([]Event, error) {
	return s.repo.ListEvents(ctx)
}

// CreateEvent stores the event as sent. The time range is checked by the clients before
// submitting and deliberately not re-validated here.
func (s *ServiceImpl) CreateEvent(ctx context.Context, event Event) (Event, error) {
	event.Id = 0
	stored, err := s.repo.StoreEvent(ctx, event)
	if err != nil {
		return Event{}, err
	}
	s.publish(ctx, event_bus.ScheduleEventCreatedType, createdPayload(stored))
	return stored, nil
}

// CreateSeries expands base into its occurrences and stores all of them in one transaction, so a
// failure leaves no partial series behind. Every stored event shares a new repeat group id.
func (s *ServiceImpl) CreateSeries(ctx context.Context, base Event, kind recurrence.Kind, count int) ([]Event, error) {
	if err := ValidateRange(base.Start, base.End); err != nil {
		return nil, err
	}
	dates, err := recurrence.Expand(base.Date(), kind, count, s.maxRepeat)
	if err != nil {
		if errors.Is(err, recurrence.ErrInvalidDate) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
		}
		return nil, err
	}

	group := ""
	if len(dates) > 1 {
		group = s.newGroupId()
	}

	stored := make([]Event, 0, len(dates))
	err = s.repo.WithTransaction(ctx, func(repo Repository) error {
		for _, date := range dates {
			occurrence := base
			occurrence.Id = 0
			occurrence.Year, occurrence.Month, occurrence.Day = date.Year, date.Month, date.Day
			occurrence.Repeat = kind
			occurrence.RepeatGroup = group
			if group == "" {
				occurrence.Repeat = recurrence.None
			}
			saved, err := repo.StoreEvent(ctx, occurrence)
			if err != nil {
				return fmt.Errorf("could not store occurrence %04d-%02d-%02d: %w", date.Year, date.Month+1, date.Day, err)
			}
			stored = append(stored, saved)
		}
		return nil
	})
	if err != nil {
		log.Errorf("series creation rolled back: %v", err)
		return nil, err
	}

	log.Debugf("stored series %q with %d events", group, len(stored))
	for _, e := range stored {
		s.publish(ctx, event_bus.ScheduleEventCreatedType, createdPayload(e))
	}
	return stored, nil
}

func (s *ServiceImpl) UpdateEvent(ctx context.Context, id int, start, end, title string) (Event, error) {
	if id <= 0 {
		return Event{}, ErrMissingId
	}
	updated, err := s.repo.UpdateEvent(ctx, id, start, end, title)
	if err != nil {
		return Event{}, err
	}
	if !updated {
		return Event{}, ErrEventNotFound
	}
	s.publish(ctx, event_bus.ScheduleEventUpdatedType, event_bus.ScheduleEventUpdated{
		Id:    id,
		Start: start,
		End:   end,
		Title: title,
	})
	return Event{Id: id, Start: start, End: end, Title: title}, nil
}

// DeleteEvent removes the event with the given id. Deleting an id that does not exist is not an error.
func (s *ServiceImpl) DeleteEvent(ctx context.Context, id int) error {
	if id <= 0 {
		return ErrMissingId
	}
	deleted, err := s.repo.DeleteEvent(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		log.Warnf("event %d not deleted, probably because it does not exist", id)
		return nil
	}
	s.publish(ctx, event_bus.ScheduleEventDeletedType, event_bus.ScheduleEventDeleted{Id: id})
	return nil
}

func (s *ServiceImpl) DeleteRepeatGroup(ctx context.Context, group string) (int, error) {
	if group == "" {
		return 0, ErrMissingGroup
	}
	deleted, err := s.repo.DeleteRepeatGroup(ctx, group)
	if err != nil {
		return 0, err
	}
	s.publish(ctx, event_bus.ScheduleGroupDeletedType, event_bus.ScheduleGroupDeleted{
		RepeatGroup: group,
		Deleted:     deleted,
	})
	return deleted, nil
}

// publish notifies subscribers after the change is committed. A failing subscriber is logged and
// does not fail the request, the stored data is already final at this point.
func (s *ServiceImpl) publish(ctx context.Context, eventType event_bus.EventType, payload any) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(event_bus.NewEvent(ctx, eventType, payload)); err != nil {
		log.Errorf("failed to publish %s: %v", eventType, err)
	}
}

func createdPayload(e Event) event_bus.ScheduleEventCreated {
	return event_bus.ScheduleEventCreated{
		Id:          e.Id,
		Year:        e.Year,
		Month:       e.Month,
		Day:         e.Day,
		Start:       e.Start,
		End:         e.End,
		Title:       e.Title,
		RepeatGroup: e.RepeatGroup,
	}
}
