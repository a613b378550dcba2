package events

import (
	"testing"

	"github.com/lixenwraith/sceneforge/core"
)

// Test basic subscribe/publish fan-out
func TestPublishReachesAllSubscribers(t *testing.T) {
	bus := NewBus()

	calls1, calls2 := 0, 0
	bus.Subscribe(EventEntityDestroyed, func(ev Event) { calls1++ })
	bus.Subscribe(EventEntityDestroyed, func(ev Event) { calls2++ })

	bus.Publish(EventEntityDestroyed, &EntityDestroyedPayload{ID: core.NewEntityID()})

	if calls1 != 1 || calls2 != 1 {
		t.Errorf("Expected both handlers called once, got %d and %d", calls1, calls2)
	}
}

// Test that publish only reaches the matching event type
func TestPublishIsTypeScoped(t *testing.T) {
	bus := NewBus()

	calls := 0
	bus.Subscribe(EventComponentAdded, func(ev Event) { calls++ })

	bus.Publish(EventEntityDestroyed, &EntityDestroyedPayload{ID: core.NewEntityID()})

	if calls != 0 {
		t.Errorf("Expected no calls for unrelated event type, got %d", calls)
	}
}

// Test unsubscribe removes exactly the targeted handler
func TestUnsubscribe(t *testing.T) {
	bus := NewBus()

	calls1, calls2 := 0, 0
	sub1 := bus.Subscribe(EventEntityDestroyed, func(ev Event) { calls1++ })
	bus.Subscribe(EventEntityDestroyed, func(ev Event) { calls2++ })

	bus.Unsubscribe(sub1)
	bus.Publish(EventEntityDestroyed, &EntityDestroyedPayload{ID: core.NewEntityID()})

	if calls1 != 0 {
		t.Errorf("Expected unsubscribed handler not called, got %d calls", calls1)
	}
	if calls2 != 1 {
		t.Errorf("Expected remaining handler called once, got %d", calls2)
	}
	if got := bus.SubscriberCount(EventEntityDestroyed); got != 1 {
		t.Errorf("Expected 1 remaining subscriber, got %d", got)
	}

	// Double unsubscribe is a no-op
	bus.Unsubscribe(sub1)
	if got := bus.SubscriberCount(EventEntityDestroyed); got != 1 {
		t.Errorf("Expected subscriber count unchanged after double unsubscribe, got %d", got)
	}
}

// Test that a handler subscribing during dispatch does not join the
// in-flight iteration
func TestSubscribeDuringDispatch(t *testing.T) {
	bus := NewBus()

	lateCalls := 0
	bus.Subscribe(EventEntityDestroyed, func(ev Event) {
		bus.Subscribe(EventEntityDestroyed, func(ev Event) { lateCalls++ })
	})

	bus.Publish(EventEntityDestroyed, &EntityDestroyedPayload{ID: core.NewEntityID()})
	if lateCalls != 0 {
		t.Errorf("Expected handler added mid-dispatch not called in-flight, got %d", lateCalls)
	}

	bus.Publish(EventEntityDestroyed, &EntityDestroyedPayload{ID: core.NewEntityID()})
	if lateCalls != 1 {
		t.Errorf("Expected late handler called on next publish, got %d", lateCalls)
	}
}

// Test that a handler removing itself during dispatch does not disturb
// the other handlers of the same event
func TestUnsubscribeDuringDispatch(t *testing.T) {
	bus := NewBus()

	var selfSub Subscription
	selfCalls, otherCalls := 0, 0
	selfSub = bus.Subscribe(EventComponentRemoved, func(ev Event) {
		selfCalls++
		bus.Unsubscribe(selfSub)
	})
	bus.Subscribe(EventComponentRemoved, func(ev Event) { otherCalls++ })

	payload := &ComponentRemovedPayload{ID: core.NewEntityID(), Kind: core.KindEmitter}
	bus.Publish(EventComponentRemoved, payload)
	bus.Publish(EventComponentRemoved, payload)

	if selfCalls != 1 {
		t.Errorf("Expected self-removing handler called once, got %d", selfCalls)
	}
	if otherCalls != 2 {
		t.Errorf("Expected surviving handler called twice, got %d", otherCalls)
	}
}

// Test event name registry round-trip
func TestEventNameRegistry(t *testing.T) {
	name := GetEventName(EventComponentAdded)
	if name == "" {
		t.Fatal("Expected non-empty event name")
	}
	et, ok := GetEventType(name)
	if !ok || et != EventComponentAdded {
		t.Errorf("Expected name %q to resolve back to EventComponentAdded", name)
	}
}
