package events

// Handler processes a single dispatched event
type Handler func(Event)

// Subscription identifies one registered handler so it can be removed later
type Subscription struct {
	eventType EventType
	id        uint64
}

type subscriber struct {
	id uint64
	fn Handler
}

// Bus dispatches lifecycle events synchronously to subscribers.
//
// Subscribers of the same event type have no ordering guarantee. Handler
// slices are replaced, never mutated in place, so a dispatch iterating a
// snapshot is unaffected by Subscribe/Unsubscribe calls made from inside a
// handler.
type Bus struct {
	subscribers [eventTypeCount][]subscriber
	nextID      uint64
}

// NewBus creates an empty event bus
func NewBus() *Bus {
	return &Bus{nextID: 1}
}

// Subscribe registers a handler for one event type and returns its subscription
func (b *Bus) Subscribe(t EventType, fn Handler) Subscription {
	id := b.nextID
	b.nextID++

	// Copy-on-write keeps in-flight dispatch snapshots intact
	old := b.subscribers[t]
	next := make([]subscriber, len(old)+1)
	copy(next, old)
	next[len(old)] = subscriber{id: id, fn: fn}
	b.subscribers[t] = next

	return Subscription{eventType: t, id: id}
}

// Unsubscribe removes a previously registered handler.
// Removing an already removed subscription is a no-op.
func (b *Bus) Unsubscribe(sub Subscription) {
	old := b.subscribers[sub.eventType]
	for i, s := range old {
		if s.id == sub.id {
			next := make([]subscriber, 0, len(old)-1)
			next = append(next, old[:i]...)
			next = append(next, old[i+1:]...)
			b.subscribers[sub.eventType] = next
			return
		}
	}
}

// Publish synchronously invokes every handler subscribed to the event type.
// Handlers registered or removed during dispatch do not affect the in-flight
// iteration.
func (b *Bus) Publish(t EventType, payload any) {
	subs := b.subscribers[t]
	ev := Event{Type: t, Payload: payload}
	for _, s := range subs {
		s.fn(ev)
	}
}

// SubscriberCount returns the number of handlers registered for the type
func (b *Bus) SubscriberCount(t EventType) int {
	return len(b.subscribers[t])
}
