package app

import (
	"fmt"
	"time"

	"github.com/scheinerik/schedule/internal/auth"
	"github.com/scheinerik/schedule/internal/config"
	"github.com/scheinerik/schedule/internal/event_bus"
	"github.com/scheinerik/schedule/internal/ratelimit"
	"github.com/scheinerik/schedule/internal/utils"
	"github.com/scheinerik/schedule/pkg/calendar"
	"github.com/scheinerik/schedule/pkg/contact"
	"github.com/scheinerik/schedule/pkg/schedule"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	AuthTokenValidator auth.TokenValidator

	EventBus *event_bus.EventBus
	Clock    utils.Clock

	ScheduleRepo    schedule.Repository
	ScheduleService *schedule.ServiceImpl
	ScheduleHandler *schedule.Handler

	CalendarHandler *calendar.Handler

	Mailer         contact.Mailer
	ContactService *contact.ServiceImpl
	ContactHandler *contact.Handler
	RateLimiter    *ratelimit.Limiter
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(repo schedule.Repository, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	clock, err := utils.NewZonedClock(cfg.Schedule.Timezone)
	if err != nil {
		return nil, fmt.Errorf("could not load timezone %q: %w", cfg.Schedule.Timezone, err)
	}
	deps.Clock = clock

	deps.AuthTokenValidator = auth.NewTokenValidator(cfg.Auth.Secret)
	if deps.AuthTokenValidator.Enabled() {
		log.Info("Write access to the events API requires a bearer token")
	}

	deps.EventBus = event_bus.NewEventBus()
	subscribeAuditLog(deps.EventBus)

	deps.ScheduleRepo = repo
	deps.ScheduleService = schedule.NewService(repo, deps.EventBus, cfg.Schedule.MaxRepeat)
	deps.ScheduleHandler = schedule.NewHandler(deps.ScheduleService)

	deps.CalendarHandler = calendar.NewHandler(deps.ScheduleService, deps.Clock, clock.Location, cfg.Schedule.FullDayHours)

	deps.Mailer = contact.NewMailChannelsMailer(contact.MailChannelsConfig{
		Endpoint:   cfg.Mail.Endpoint,
		Recipient:  cfg.Mail.Recipient,
		Sender:     cfg.Mail.Sender,
		SenderName: cfg.Mail.SenderName,
		Timeout:    time.Duration(cfg.Mail.TimeoutSeconds) * time.Second,
	})
	deps.ContactService = contact.NewService(deps.Mailer, deps.EventBus)
	deps.ContactHandler = contact.NewHandler(deps.ContactService)
	deps.RateLimiter = ratelimit.NewLimiter(cfg.Contact.RatePerSecond, cfg.Contact.Burst, cfg.Contact.TrustedProxies...)

	return deps, nil
}

// subscribeAuditLog writes every change notification to the log.
func subscribeAuditLog(bus *event_bus.EventBus) {
	for _, eventType := range []event_bus.EventType{
		event_bus.ScheduleEventCreatedType,
		event_bus.ScheduleEventUpdatedType,
		event_bus.ScheduleEventDeletedType,
		event_bus.ScheduleGroupDeletedType,
		event_bus.ContactMessageSentType,
	} {
		bus.Subscribe(eventType, func(e event_bus.Event) error {
			log.WithFields(log.Fields{
				"event":   e.Type,
				"payload": fmt.Sprintf("%+v", e.Data),
			}).Info("audit")
			return nil
		})
	}
}
