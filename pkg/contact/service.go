package contact

import (
	"context"

	"github.com/scheinerik/schedule/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	Send(ctx context.Context, msg Message) error
}

type ServiceImpl struct {
	mailer   Mailer
	eventBus *event_bus.EventBus
}

func NewService(mailer Mailer, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{mailer: mailer, eventBus: eventBus}
}

// Send validates msg and relays it once. No retry is attempted on failure.
func (s *ServiceImpl) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return err
	}
	log.Infof("contact message from %s relayed", msg.Email)

	if s.eventBus != nil {
		err := s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.ContactMessageSentType, event_bus.ContactMessageSent{
			Name:  msg.Name,
			Email: msg.Email,
		}))
		if err != nil {
			log.Errorf("failed to publish %s: %v", event_bus.ContactMessageSentType, err)
		}
	}
	return nil
}
