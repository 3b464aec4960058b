package event_bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_Publish(t *testing.T) {
	t.Run("should call handlers in subscription order", func(t *testing.T) {
		// given
		bus := NewEventBus()
		var calls []int
		for i := 1; i <= 5; i++ {
			bus.Subscribe(ScheduleEventDeletedType, func(e Event) error {
				calls = append(calls, i)
				return nil
			})
		}

		// when
		err := bus.Publish(NewEvent(context.Background(), ScheduleEventDeletedType, ScheduleEventDeleted{Id: 1}))

		// then
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3, 4, 5}, calls)
	})

	t.Run("should deliver typed payloads and skip mismatched ones", func(t *testing.T) {
		// given
		bus := NewEventBus()
		var received []ScheduleEventCreated
		SubscribeTyped(bus, ScheduleEventCreatedType, func(e EventT[ScheduleEventCreated]) error {
			received = append(received, e.Data)
			return nil
		})

		// when
		err1 := bus.Publish(NewEvent(context.Background(), ScheduleEventCreatedType, ScheduleEventCreated{Id: 7, Title: "Gym"}))
		err2 := bus.Publish(NewEvent(context.Background(), ScheduleEventCreatedType, "not an event"))

		// then
		require.NoError(t, err1)
		require.NoError(t, err2)
		require.Len(t, received, 1)
		assert.Equal(t, 7, received[0].Id)
		assert.Equal(t, "Gym", received[0].Title)
	})

	t.Run("should collect handler errors and recover panics", func(t *testing.T) {
		// given
		bus := NewEventBus()
		failure := errors.New("boom")
		called := false
		bus.Subscribe(ContactMessageSentType, func(e Event) error { return failure })
		bus.Subscribe(ContactMessageSentType, func(e Event) error { panic("unexpected") })
		bus.Subscribe(ContactMessageSentType, func(e Event) error {
			called = true
			return nil
		})

		// when
		err := bus.Publish(NewEvent(context.Background(), ContactMessageSentType, ContactMessageSent{}))

		// then
		require.Error(t, err)
		assert.ErrorIs(t, err, failure)
		assert.Contains(t, err.Error(), "2 handler(s) failed")
		assert.True(t, called)
	})

	t.Run("should not dispatch when the context is cancelled", func(t *testing.T) {
		// given
		bus := NewEventBus()
		called := false
		bus.Subscribe(ScheduleGroupDeletedType, func(e Event) error {
			called = true
			return nil
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// when
		err := bus.Publish(NewEvent(ctx, ScheduleGroupDeletedType, ScheduleGroupDeleted{}))

		// then
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
	})

	t.Run("should stop calling a handler after unsubscribe", func(t *testing.T) {
		// given
		bus := NewEventBus()
		count := 0
		unsubscribe := bus.Subscribe(ScheduleEventUpdatedType, func(e Event) error {
			count++
			return nil
		})

		// when
		_ = bus.Publish(NewEvent(context.Background(), ScheduleEventUpdatedType, nil))
		unsubscribe()
		_ = bus.Publish(NewEvent(context.Background(), ScheduleEventUpdatedType, nil))

		// then
		assert.Equal(t, 1, count)
	})
}
