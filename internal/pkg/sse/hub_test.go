package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPublishDeliversToSubscriber(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.Subscribe("emp-1")
	defer cleanup()

	hub.Publish("emp-1", Event{Event: EventPointsAwarded, Data: map[string]int{"amount": 15}})

	select {
	case ev := <-ch:
		assert.Equal(t, EventPointsAwarded, ev.Event)
	default:
		t.Fatal("expected an event on the subscriber channel")
	}
}

func TestHubPublishIgnoresOtherEmployees(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.Subscribe("emp-1")
	defer cleanup()

	hub.Publish("emp-2", Event{Event: EventBalanceChanged})

	select {
	case <-ch:
		t.Fatal("event addressed to emp-2 must not reach emp-1")
	default:
	}
}

func TestHubFanOutToMultipleSessions(t *testing.T) {
	hub := NewHub()

	ch1, cleanup1 := hub.Subscribe("emp-1")
	defer cleanup1()
	ch2, cleanup2 := hub.Subscribe("emp-1")
	defer cleanup2()

	require.Equal(t, 2, hub.SubscriberCount("emp-1"))

	hub.Publish("emp-1", Event{Event: EventAchievementUnlocked})

	assert.Len(t, ch1, 1)
	assert.Len(t, ch2, 1)
}

func TestHubPublishDropsWhenChannelFull(t *testing.T) {
	hub := NewHub()

	_, cleanup := hub.Subscribe("emp-1")
	defer cleanup()

	// One past the channel buffer; the publisher must not block.
	for i := 0; i < 11; i++ {
		hub.Publish("emp-1", Event{Event: EventBalanceChanged})
	}
}

func TestHubCleanupRemovesSubscriber(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.Subscribe("emp-1")
	cleanup()

	assert.Equal(t, 0, hub.SubscriberCount("emp-1"))
	assert.Equal(t, 0, hub.TotalSubscribers())

	_, open := <-ch
	assert.False(t, open, "channel should be closed after cleanup")
}

func TestHubPublishToMany(t *testing.T) {
	hub := NewHub()

	ch1, cleanup1 := hub.Subscribe("emp-1")
	defer cleanup1()
	ch2, cleanup2 := hub.Subscribe("emp-2")
	defer cleanup2()

	hub.PublishToMany([]string{"emp-1", "emp-2"}, Event{Event: EventRedemptionProcessed})

	ev1 := <-ch1
	ev2 := <-ch2
	assert.Equal(t, "emp-1", ev1.EmployeeID)
	assert.Equal(t, "emp-2", ev2.EmployeeID)
}
