package event_bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEvent EventType = "test.event"

type testPayload struct {
	Value int
}

func TestEventBus_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers the event to every subscriber", func(t *testing.T) {
		// given
		bus := NewEventBus()
		var first, second int
		bus.Subscribe(testEvent, func(e Event) error {
			first++
			return nil
		})
		bus.Subscribe(testEvent, func(e Event) error {
			second++
			return nil
		})

		// when
		err := bus.Publish(NewEvent(ctx, testEvent, nil))

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, first)
		assert.Equal(t, 1, second)
	})

	t.Run("other event types are not delivered", func(t *testing.T) {
		bus := NewEventBus()
		var calls int
		bus.Subscribe(testEvent, func(e Event) error {
			calls++
			return nil
		})

		err := bus.Publish(NewEvent(ctx, "other.event", nil))

		require.NoError(t, err)
		assert.Zero(t, calls)
	})

	t.Run("a handler error does not stop the remaining handlers", func(t *testing.T) {
		bus := NewEventBus()
		var calls int
		bus.Subscribe(testEvent, func(e Event) error {
			return errors.New("handler failed")
		})
		bus.Subscribe(testEvent, func(e Event) error {
			calls++
			return nil
		})

		err := bus.Publish(NewEvent(ctx, testEvent, nil))

		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("a handler panic is recovered and reported as an error", func(t *testing.T) {
		bus := NewEventBus()
		bus.Subscribe(testEvent, func(e Event) error {
			panic("boom")
		})

		err := bus.Publish(NewEvent(ctx, testEvent, nil))

		assert.Error(t, err)
	})

	t.Run("a cancelled context refuses the publish", func(t *testing.T) {
		bus := NewEventBus()
		var calls int
		bus.Subscribe(testEvent, func(e Event) error {
			calls++
			return nil
		})
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		err := bus.Publish(NewEvent(cancelled, testEvent, nil))

		assert.Error(t, err)
		assert.Zero(t, calls)
	})
}

func TestEventBus_Unsubscribe(t *testing.T) {
	ctx := context.Background()
	bus := NewEventBus()
	var calls int
	unsubscribe := bus.Subscribe(testEvent, func(e Event) error {
		calls++
		return nil
	})

	require.NoError(t, bus.Publish(NewEvent(ctx, testEvent, nil)))
	unsubscribe()
	require.NoError(t, bus.Publish(NewEvent(ctx, testEvent, nil)))

	assert.Equal(t, 1, calls)
}

func TestSubscribeTyped(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers a matching payload", func(t *testing.T) {
		bus := NewEventBus()
		var received []testPayload
		SubscribeTyped(bus, testEvent, func(e EventT[testPayload]) error {
			received = append(received, e.Data)
			return nil
		})

		err := bus.Publish(NewEvent(ctx, testEvent, testPayload{Value: 42}))

		require.NoError(t, err)
		require.Len(t, received, 1)
		assert.Equal(t, 42, received[0].Value)
	})

	t.Run("silently skips a payload of the wrong type", func(t *testing.T) {
		bus := NewEventBus()
		var calls int
		SubscribeTyped(bus, testEvent, func(e EventT[testPayload]) error {
			calls++
			return nil
		})

		err := bus.Publish(NewEvent(ctx, testEvent, "not a payload"))

		require.NoError(t, err)
		assert.Zero(t, calls)
	})
}
