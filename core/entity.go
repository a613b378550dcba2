package core

import (
	"github.com/google/uuid"
)

// EntityID is the stable identity of an entity. It survives slot reuse and
// is the only value systems may cache across steps.
type EntityID uuid.UUID

// NilEntity is the zero EntityID, never assigned to a live entity.
var NilEntity EntityID

// NewEntityID returns a fresh unique entity identifier.
func NewEntityID() EntityID {
	return EntityID(uuid.New())
}

// String returns the canonical textual form of the id.
func (e EntityID) String() string {
	return uuid.UUID(e).String()
}

// IsNil reports whether the id is the zero value.
func (e EntityID) IsNil() bool {
	return e == NilEntity
}

// Slot is an integer index into the storage's parallel arrays.
// Slots are reused after deletion; they are NOT stable identity.
type Slot int32

// InvalidSlot marks the absence of a slot reference.
const InvalidSlot Slot = -1
