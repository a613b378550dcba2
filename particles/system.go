package particles

import (
	"math/rand"

	"github.com/lixenwraith/sceneforge/core"
	"github.com/lixenwraith/sceneforge/engine"
	"github.com/lixenwraith/sceneforge/vmath"
)

// System drives every emitter: creation when an entity's emitter component
// becomes active, per-step spawn/integration, destruction when the owner dies
// or loses the component, and recreation when the configured capacity grows.
//
// Update iterates storage slot order and shares one seeded RNG, so runs with
// equal seeds and inputs are bit-stable.
type System struct {
	emitters map[core.EntityID]*Emitter
	rng      *rand.Rand
}

// NewSystem creates the particle system with no live emitters
func NewSystem() *System {
	return &System{
		emitters: make(map[core.EntityID]*Emitter),
	}
}

// ID returns the system identity
func (s *System) ID() string {
	return "particles.system"
}

// Init seeds the particle RNG from the simulation parameters
func (s *System) Init(ctx *engine.Context) error {
	s.rng = rand.New(rand.NewSource(ctx.Params.Seed))
	return nil
}

// Dispose releases all emitter state
func (s *System) Dispose(_ *engine.Context) error {
	s.emitters = make(map[core.EntityID]*Emitter)
	return nil
}

// Update steps every live emitter using its owner's current configuration and
// world position. Emitter configuration is re-read from storage each step.
func (s *System) Update(ctx *engine.Context, dt float64) {
	st := ctx.Storage
	params := st.Emitters()
	world := st.WorldPositions()
	slack := ctx.Params.CapacitySlack
	maxSpawn := ctx.Params.MaxSpawnPerStep

	st.EachActive(func(slot core.Slot, id core.EntityID) bool {
		if !st.Mask(slot).Has(core.KindEmitter) {
			return true
		}
		p := params[slot]
		want := p.MaxCount + slack

		em, ok := s.emitters[id]
		if !ok {
			em = NewEmitter(id, want)
			s.emitters[id] = em
		} else if want > em.Capacity() {
			// Configured maximum outgrew the arrays: recreate at the new size
			em = NewEmitter(id, want)
			s.emitters[id] = em
		}

		em.Step(p, world[slot], dt, maxSpawn, s.rng)
		return true
	})
}

// Render packs each live emitter's instance buffer for the render collaborator.
// This system never issues draw calls; consumers read the buffers via
// EachPacked after the render pass.
func (s *System) Render(ctx *engine.Context, _ any, _ vmath.Mat4) {
	st := ctx.Storage
	params := st.Emitters()

	st.EachActive(func(slot core.Slot, id core.EntityID) bool {
		if !st.Mask(slot).Has(core.KindEmitter) {
			return true
		}
		if em, ok := s.emitters[id]; ok {
			p := params[slot]
			em.Pack(p.TextureIndex, p.EffectIndex)
		}
		return true
	})
}

// OnEntityDestroyed drops the emitter owned by a deleted entity
func (s *System) OnEntityDestroyed(_ *engine.Context, id core.EntityID, _ core.Slot) {
	delete(s.emitters, id)
}

// OnComponentRemoved drops the emitter when the component leaves its owner
func (s *System) OnComponentRemoved(_ *engine.Context, id core.EntityID, kind core.ComponentKind) {
	if kind == core.KindEmitter {
		delete(s.emitters, id)
	}
}

// Emitter returns the live emitter for an owner, if any
func (s *System) Emitter(id core.EntityID) (*Emitter, bool) {
	em, ok := s.emitters[id]
	return em, ok
}

// LiveCount returns the total live particle count across all emitters
func (s *System) LiveCount() int {
	total := 0
	for _, em := range s.emitters {
		total += em.count
	}
	return total
}

// EachPacked visits every emitter's packed buffer and instance count. Buffers
// are valid until the next Render pass.
func (s *System) EachPacked(fn func(owner core.EntityID, buf []float32, instances int)) {
	for id, em := range s.emitters {
		fn(id, em.packed, len(em.packed)/PackStride)
	}
}
