package engine

import (
	"testing"

	"github.com/lixenwraith/sceneforge/core"
	"github.com/lixenwraith/sceneforge/vmath"
)

// Test entity deletion reaches the scene graph: the dead slot leaves the
// hierarchy and its children are promoted to roots
func TestDeletionCleansSceneGraph(t *testing.T) {
	ctx := NewContext(DefaultSimParams(), nil)
	sched := NewScheduler(nil)
	sched.Register(&Module{ID: "transform", Order: 200, System: NewTransformSystem()})
	sched.Init(ctx)

	st := ctx.Storage
	parent := st.CreateEntity("parent")
	child := st.CreateEntity("child")
	pSlot, _ := st.SlotOf(parent)
	cSlot, _ := st.SlotOf(child)
	ctx.Graph.RegisterEntity(pSlot)
	ctx.Graph.RegisterEntity(cSlot)
	if err := ctx.Graph.Attach(cSlot, pSlot); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	st.Positions()[pSlot] = vmath.Vec3{X: 5}
	st.Positions()[cSlot] = vmath.Vec3{X: 1}
	sched.Update(0.016)

	if got := st.WorldPositions()[cSlot]; got != (vmath.Vec3{X: 6}) {
		t.Fatalf("Child world = %+v, want {6 0 0} before deletion", got)
	}

	st.DeleteEntity(parent)

	// The child is a root now and propagates from its own local position
	if got := ctx.Graph.Parent(cSlot); got != core.InvalidSlot {
		t.Errorf("Child parent = %d, want root after parent deletion", got)
	}
	sched.Update(0.016)
	if got := st.WorldPositions()[cSlot]; got != (vmath.Vec3{X: 1}) {
		t.Errorf("Promoted child world = %+v, want {1 0 0}", got)
	}

	// The dead slot is out of the hierarchy: propagation never touches it
	st.WorldPositions()[pSlot] = vmath.Vec3{X: -99}
	st.Positions()[pSlot] = vmath.Vec3{X: 42}
	sched.Update(0.016)
	if got := st.WorldPositions()[pSlot]; got != (vmath.Vec3{X: -99}) {
		t.Errorf("Dead slot world = %+v, expected propagation to skip it", got)
	}
}

// Test a deleted entity's slot does not drag graph state onto the entity
// that recycles it
func TestDeletionThenReuseStartsClean(t *testing.T) {
	ctx := NewContext(DefaultSimParams(), nil)
	sched := NewScheduler(nil)
	sched.Register(&Module{ID: "transform", Order: 200, System: NewTransformSystem()})
	sched.Init(ctx)

	st := ctx.Storage
	anchor := st.CreateEntity("anchor")
	doomed := st.CreateEntity("doomed")
	aSlot, _ := st.SlotOf(anchor)
	dSlot, _ := st.SlotOf(doomed)
	ctx.Graph.RegisterEntity(aSlot)
	ctx.Graph.RegisterEntity(dSlot)
	ctx.Graph.Attach(dSlot, aSlot)

	st.DeleteEntity(doomed)
	sched.Update(0.016)

	fresh := st.CreateEntity("fresh")
	fSlot, _ := st.SlotOf(fresh)
	if fSlot != dSlot {
		t.Fatalf("Expected slot %d reused, got %d", dSlot, fSlot)
	}
	ctx.Graph.RegisterEntity(fSlot)

	st.Positions()[aSlot] = vmath.Vec3{Y: 7}
	st.Positions()[fSlot] = vmath.Vec3{Y: 1}
	ctx.Graph.SetDirty(aSlot)
	sched.Update(0.016)

	if got := st.WorldPositions()[fSlot]; got != (vmath.Vec3{Y: 1}) {
		t.Errorf("Fresh entity world = %+v, want {0 1 0} as a root", got)
	}
}
