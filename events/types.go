package events

// EventType represents the type of a core lifecycle event
type EventType int

const (
	// EventEntityDestroyed signals that an entity was deleted from storage
	// Trigger: Storage.DeleteEntity | Payload: *EntityDestroyedPayload
	EventEntityDestroyed EventType = iota

	// EventComponentAdded signals that a component kind became present on an entity
	// Trigger: Storage.AddComponent | Payload: *ComponentAddedPayload
	EventComponentAdded

	// EventComponentRemoved signals that a component kind was removed from an entity
	// Trigger: Storage.RemoveComponent | Payload: *ComponentRemovedPayload
	EventComponentRemoved

	eventTypeCount // number of event types, not a valid type
)

// Event is a single dispatched event with its typed payload
type Event struct {
	Type    EventType
	Payload any
}
