package engine

import (
	"github.com/lixenwraith/sceneforge/core"
	"github.com/lixenwraith/sceneforge/vmath"
)

// StorageSnapshot is a deep copy of all component arrays and the id mapping.
// It is the documented extension point for the external persistence layer:
// the core only guarantees that arrays can be copied out and copied back in.
type StorageSnapshot struct {
	Names      []string
	Masks      []core.Mask
	Active     []bool
	Positions  []vmath.Vec3
	WorldPos   []vmath.Vec3
	Velocities []vmath.Vec3
	Masses     []float64
	Emitters   []EmitterParams
	EntityAt   []core.EntityID
	Free       []core.Slot
}

// Snapshot copies out the current storage state. Pending frees are folded
// into the free list so a restored storage starts at a step boundary.
func (s *Storage) Snapshot() *StorageSnapshot {
	snap := &StorageSnapshot{
		Names:      append([]string(nil), s.names...),
		Masks:      append([]core.Mask(nil), s.masks...),
		Active:     append([]bool(nil), s.active...),
		Positions:  append([]vmath.Vec3(nil), s.positions...),
		WorldPos:   append([]vmath.Vec3(nil), s.worldPos...),
		Velocities: append([]vmath.Vec3(nil), s.velocities...),
		Masses:     append([]float64(nil), s.masses...),
		Emitters:   append([]EmitterParams(nil), s.emitters...),
		EntityAt:   append([]core.EntityID(nil), s.entityAt...),
		Free:       append([]core.Slot(nil), s.free...),
	}
	snap.Free = append(snap.Free, s.pendingFree...)
	return snap
}

// Restore replaces the storage state with a snapshot's. No lifecycle events
// are fired; restoring is not a mutation in the simulation's own timeline.
func (s *Storage) Restore(snap *StorageSnapshot) {
	s.names = append(s.names[:0], snap.Names...)
	s.masks = append(s.masks[:0], snap.Masks...)
	s.active = append(s.active[:0], snap.Active...)
	s.positions = append(s.positions[:0], snap.Positions...)
	s.worldPos = append(s.worldPos[:0], snap.WorldPos...)
	s.velocities = append(s.velocities[:0], snap.Velocities...)
	s.masses = append(s.masses[:0], snap.Masses...)
	s.emitters = append(s.emitters[:0], snap.Emitters...)
	s.entityAt = append(s.entityAt[:0], snap.EntityAt...)
	s.free = append(s.free[:0], snap.Free...)
	s.pendingFree = s.pendingFree[:0]

	s.slotOf = make(map[core.EntityID]core.Slot, len(snap.EntityAt))
	s.activeCount = 0
	for i, id := range snap.EntityAt {
		if snap.Active[i] {
			s.slotOf[id] = core.Slot(i)
			s.activeCount++
		}
	}
}
