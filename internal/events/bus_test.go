package events

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/flashdeck/internal/testutil"
)

func TestPublishDeliversInSubscriptionOrder(t *testing.T) {
	bus := NewBus(testutil.NopLogger())
	var got []string

	bus.Subscribe(func(e Event) { got = append(got, "first:"+string(e.Kind)) })
	bus.Subscribe(func(e Event) { got = append(got, "second:"+string(e.Kind)) })

	bus.Publish(Event{Kind: DeckChanged})

	assert.Equal(t, []string{"first:deck-changed", "second:deck-changed"}, got)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus(testutil.NopLogger())
	count := 0

	unsubscribe := bus.Subscribe(func(Event) { count++ })
	bus.Publish(Event{Kind: SessionChanged})
	unsubscribe()
	unsubscribe()
	bus.Publish(Event{Kind: SessionChanged})

	assert.Equal(t, 1, count)
	assert.Equal(t, 0, bus.Len())
}

func TestListenerCanUnsubscribeDuringPublish(t *testing.T) {
	bus := NewBus(testutil.NopLogger())
	count := 0

	var unsubscribe func()
	unsubscribe = bus.Subscribe(func(Event) {
		count++
		unsubscribe()
	})

	bus.Publish(Event{Kind: StreakUpdated})
	bus.Publish(Event{Kind: StreakUpdated})

	assert.Equal(t, 1, count)
}

func TestPublishWithoutListeners(t *testing.T) {
	bus := NewBus(testutil.NopLogger())
	assert.NotPanics(t, func() { bus.Publish(Event{Kind: DeckChanged}) })
}
