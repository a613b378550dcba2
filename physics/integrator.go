package physics

import (
	"github.com/lixenwraith/sceneforge/core"
	"github.com/lixenwraith/sceneforge/engine"
	"github.com/lixenwraith/sceneforge/vmath"
)

// System performs per-step gravity integration with ground-plane clamping and
// broadphase neighbor queries through the spatial hash grid.
//
// This layer trusts its inputs: component integrity (finite positions, mass
// present where expected) is validated before activation by a higher layer,
// never here.
type System struct{}

// NewSystem creates the physics integrator system
func NewSystem() *System {
	return &System{}
}

// ID returns the system identity
func (s *System) ID() string {
	return "physics.integrator"
}

// Update rebuilds the broadphase grid from all active positive-mass entities,
// then integrates every gravity-enabled entity and marks its scene-graph slot
// dirty. Delta-time is clamped so a frame hitch cannot destabilize the
// integration.
func (s *System) Update(ctx *engine.Context, dt float64) {
	if dt > ctx.Params.MaxDelta {
		dt = ctx.Params.MaxDelta
	}

	st := ctx.Storage
	grid := ctx.Grid
	world := st.WorldPositions()
	masses := st.Masses()

	// Broadphase rebuild; cell contents are valid for this step only
	grid.Clear()
	st.EachActive(func(slot core.Slot, _ core.EntityID) bool {
		if st.Mask(slot).Has(core.KindMass) && masses[slot] > 0 {
			p := world[slot]
			grid.Insert(slot, p.X, p.Y, p.Z)
		}
		return true
	})

	pos := st.Positions()
	vel := st.Velocities()
	gravity := ctx.Params.Gravity
	ground := ctx.Params.GroundY

	st.EachActive(func(slot core.Slot, _ core.EntityID) bool {
		// Gravity-enabled entities are expected to carry a velocity; the
		// mask check is the only guard this layer applies.
		if !st.Mask(slot).Has(core.KindGravity) {
			return true
		}

		vel[slot].Y -= gravity * dt
		pos[slot] = vmath.V3Add(pos[slot], vmath.V3Scale(vel[slot], dt))

		// The ground plane is world-space; offset the local Y by the
		// ancestor chain before comparing.
		off := ancestorOffsetY(ctx.Graph, pos, slot)
		if pos[slot].Y+off < ground {
			pos[slot].Y = ground - off
			if vel[slot].Y < 0 {
				vel[slot].Y = 0
			}
		}

		w := world[slot]
		s.resolveContacts(slot, grid.GetPotentialColliders(w.X, w.Y, w.Z))

		ctx.Graph.SetDirty(slot)
		return true
	})
}

// resolveContacts is the narrow-phase extension point. Candidates arrive in
// cell insertion order and include the queried slot itself; no resolution is
// applied at this layer.
func (s *System) resolveContacts(_ core.Slot, _ []core.Slot) {
}

// ancestorOffsetY sums the local Y of the slot's ancestors, using the current
// local positions rather than last step's propagated world. Roots have offset
// zero.
func ancestorOffsetY(g *engine.SceneGraph, pos []vmath.Vec3, slot core.Slot) float64 {
	off := 0.0
	for p := g.Parent(slot); p != core.InvalidSlot; p = g.Parent(p) {
		off += pos[p].Y
	}
	return off
}
