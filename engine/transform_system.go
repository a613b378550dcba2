package engine

import (
	"github.com/lixenwraith/sceneforge/core"
)

// TransformSystem runs scene-graph world transform propagation as a scheduled
// system so it can be ordered after any system that moves or reparents slots
// within the same step.
type TransformSystem struct{}

// NewTransformSystem creates the propagation system
func NewTransformSystem() *TransformSystem {
	return &TransformSystem{}
}

// ID returns the system identity
func (t *TransformSystem) ID() string {
	return "engine.transform"
}

// Update propagates dirty world transforms top-down from the roots
func (t *TransformSystem) Update(ctx *Context, _ float64) {
	ctx.Graph.Propagate(ctx.Storage)
}

// OnEntityDestroyed drops the freed slot from the hierarchy. Children of the
// dead slot are promoted to roots; without this the slot would keep being
// propagated and its children would follow whatever entity recycles it.
func (t *TransformSystem) OnEntityDestroyed(ctx *Context, _ core.EntityID, slot core.Slot) {
	ctx.Graph.Remove(slot)
}
