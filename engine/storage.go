package engine

import (
	"fmt"

	"github.com/lixenwraith/sceneforge/core"
	"github.com/lixenwraith/sceneforge/events"
	"github.com/lixenwraith/sceneforge/vmath"
)

// Storage holds all entity attribute data in parallel arrays indexed by slot.
//
// A slot is either active or free. Freed slots are not reused within the same
// step; EndStep promotes them to the free list so systems holding a slot
// reference across a single pass never see it recycled mid-pass.
//
// Two iteration contracts exist and must not be conflated:
//   - EachActive / ActiveSlots iterate live entities only (the canonical
//     primitive for systems code);
//   - the raw array accessors are capacity-bounded and expose stale data for
//     inactive or unmasked slots. They exist for compute-heavy inner loops
//     that already hold a live slot and have checked its mask.
type Storage struct {
	bus *events.Bus

	// Parallel arrays, all sized to the same capacity
	names      []string
	masks      []core.Mask
	active     []bool
	positions  []vmath.Vec3 // local position, relative to scene-graph parent
	worldPos   []vmath.Vec3 // propagated world position
	velocities []vmath.Vec3
	masses     []float64
	emitters   []EmitterParams
	entityAt   []core.EntityID

	slotOf      map[core.EntityID]core.Slot
	free        []core.Slot
	pendingFree []core.Slot
	activeCount int
}

// NewStorage creates empty storage publishing lifecycle events on bus
func NewStorage(bus *events.Bus) *Storage {
	return &Storage{
		bus:    bus,
		slotOf: make(map[core.EntityID]core.Slot, 64),
	}
}

// CreateEntity allocates or reuses a slot, initializes component-free default
// state and returns a fresh unique id.
func (s *Storage) CreateEntity(name string) core.EntityID {
	id := core.NewEntityID()

	var slot core.Slot
	if n := len(s.free); n > 0 {
		slot = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		slot = core.Slot(len(s.masks))
		s.grow()
	}

	s.names[slot] = name
	s.masks[slot] = 0
	s.active[slot] = true
	s.positions[slot] = vmath.Vec3{}
	s.worldPos[slot] = vmath.Vec3{}
	s.velocities[slot] = vmath.Vec3{}
	s.masses[slot] = 0
	s.emitters[slot] = EmitterParams{}
	s.entityAt[slot] = id

	s.slotOf[id] = slot
	s.activeCount++
	return id
}

// grow appends one default element to every parallel array
func (s *Storage) grow() {
	s.names = append(s.names, "")
	s.masks = append(s.masks, 0)
	s.active = append(s.active, false)
	s.positions = append(s.positions, vmath.Vec3{})
	s.worldPos = append(s.worldPos, vmath.Vec3{})
	s.velocities = append(s.velocities, vmath.Vec3{})
	s.masses = append(s.masses, 0)
	s.emitters = append(s.emitters, EmitterParams{})
	s.entityAt = append(s.entityAt, core.NilEntity)
}

// DeleteEntity marks the entity's slot inactive and removes the id mapping.
// The slot is not reusable until the next EndStep. Component arrays are not
// zeroed; stale data behind a cleared mask must never be read.
func (s *Storage) DeleteEntity(id core.EntityID) error {
	slot, ok := s.slotOf[id]
	if !ok {
		return fmt.Errorf("delete entity %s: unknown id", id)
	}

	s.active[slot] = false
	s.masks[slot] = 0
	s.entityAt[slot] = core.NilEntity
	delete(s.slotOf, id)
	s.pendingFree = append(s.pendingFree, slot)
	s.activeCount--

	s.bus.Publish(events.EventEntityDestroyed, &events.EntityDestroyedPayload{ID: id, Slot: slot})
	return nil
}

// AddComponent sets the kind's mask bit and fires EventComponentAdded
func (s *Storage) AddComponent(id core.EntityID, kind core.ComponentKind) error {
	slot, ok := s.slotOf[id]
	if !ok {
		return fmt.Errorf("add component %s: unknown entity %s", kind, id)
	}
	if s.masks[slot].Has(kind) {
		return nil
	}
	s.masks[slot].Set(kind)
	s.bus.Publish(events.EventComponentAdded, &events.ComponentAddedPayload{ID: id, Kind: kind})
	return nil
}

// RemoveComponent clears the kind's mask bit and fires EventComponentRemoved.
// The backing arrays are left untouched.
func (s *Storage) RemoveComponent(id core.EntityID, kind core.ComponentKind) error {
	slot, ok := s.slotOf[id]
	if !ok {
		return fmt.Errorf("remove component %s: unknown entity %s", kind, id)
	}
	if !s.masks[slot].Has(kind) {
		return nil
	}
	s.masks[slot].Unset(kind)
	s.bus.Publish(events.EventComponentRemoved, &events.ComponentRemovedPayload{ID: id, Kind: kind})
	return nil
}

// EndStep promotes slots freed during the step to the reusable free list.
// The scheduler calls this once after the update pass.
func (s *Storage) EndStep() {
	if len(s.pendingFree) == 0 {
		return
	}
	s.free = append(s.free, s.pendingFree...)
	s.pendingFree = s.pendingFree[:0]
}

// SlotOf resolves an entity id to its current slot
func (s *Storage) SlotOf(id core.EntityID) (core.Slot, bool) {
	slot, ok := s.slotOf[id]
	return slot, ok
}

// EntityAt returns the id occupying a slot, or NilEntity if the slot is free
func (s *Storage) EntityAt(slot core.Slot) core.EntityID {
	return s.entityAt[slot]
}

// IsActive reports whether the slot currently holds a live entity
func (s *Storage) IsActive(slot core.Slot) bool {
	return s.active[slot]
}

// Mask returns the component mask of a slot
func (s *Storage) Mask(slot core.Slot) core.Mask {
	return s.masks[slot]
}

// Name returns the display name given at creation
func (s *Storage) Name(slot core.Slot) string {
	return s.names[slot]
}

// EachActive is the canonical iteration over live entities. It skips inactive
// slots; fn returning false stops the walk.
func (s *Storage) EachActive(fn func(slot core.Slot, id core.EntityID) bool) {
	for i := range s.active {
		if !s.active[i] {
			continue
		}
		if !fn(core.Slot(i), s.entityAt[i]) {
			return
		}
	}
}

// ActiveCount returns the number of live entities (count-bounded contract)
func (s *Storage) ActiveCount() int {
	return s.activeCount
}

// Capacity returns the raw array length (capacity-bounded contract)
func (s *Storage) Capacity() int {
	return len(s.masks)
}

// === Raw array accessors ===
// Capacity-bounded; valid only for active slots whose mask covers the kind.

// Positions returns the local position array
func (s *Storage) Positions() []vmath.Vec3 {
	return s.positions
}

// WorldPositions returns the propagated world position array
func (s *Storage) WorldPositions() []vmath.Vec3 {
	return s.worldPos
}

// Velocities returns the velocity array
func (s *Storage) Velocities() []vmath.Vec3 {
	return s.velocities
}

// Masses returns the mass array
func (s *Storage) Masses() []float64 {
	return s.masses
}

// Emitters returns the emitter parameter array
func (s *Storage) Emitters() []EmitterParams {
	return s.emitters
}
