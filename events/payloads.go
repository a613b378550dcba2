package events

import (
	"github.com/lixenwraith/sceneforge/core"
)

// EntityDestroyedPayload carries the id and freed slot of a deleted entity.
// The slot is already inactive when handlers run; it identifies per-slot
// state to drop and must not be used to read component arrays.
type EntityDestroyedPayload struct {
	ID   core.EntityID
	Slot core.Slot
}

// ComponentAddedPayload carries the entity and the kind that became present
type ComponentAddedPayload struct {
	ID   core.EntityID
	Kind core.ComponentKind
}

// ComponentRemovedPayload carries the entity and the kind that was removed
type ComponentRemovedPayload struct {
	ID   core.EntityID
	Kind core.ComponentKind
}
