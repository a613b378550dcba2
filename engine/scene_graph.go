package engine

import (
	"fmt"

	"github.com/lixenwraith/sceneforge/core"
	"github.com/lixenwraith/sceneforge/vmath"
)

// SceneGraph maintains the parent/child hierarchy over storage slots and
// propagates world transforms top-down. It stores no component data itself.
//
// A slot's world transform is undefined until its ancestors have been
// recomputed in the same pass, so Propagate always visits parents before
// children.
type SceneGraph struct {
	parent     []core.Slot
	children   [][]core.Slot
	dirty      []bool
	registered []bool
}

// NewSceneGraph creates an empty hierarchy
func NewSceneGraph() *SceneGraph {
	return &SceneGraph{}
}

// ensure grows the node arrays to cover slot
func (g *SceneGraph) ensure(slot core.Slot) {
	for core.Slot(len(g.parent)) <= slot {
		g.parent = append(g.parent, core.InvalidSlot)
		g.children = append(g.children, nil)
		g.dirty = append(g.dirty, false)
		g.registered = append(g.registered, false)
	}
}

// RegisterEntity inserts the slot as a root node. A slot reused after
// deletion may still hang under its old parent; it is unlinked first.
func (g *SceneGraph) RegisterEntity(slot core.Slot) {
	g.ensure(slot)
	g.detachFromParent(slot)
	g.parent[slot] = core.InvalidSlot
	g.children[slot] = g.children[slot][:0]
	g.registered[slot] = true
	g.dirty[slot] = true
}

// Remove detaches the slot and promotes its children to roots
func (g *SceneGraph) Remove(slot core.Slot) {
	if int(slot) >= len(g.registered) || !g.registered[slot] {
		return
	}
	g.detachFromParent(slot)
	for _, c := range g.children[slot] {
		g.parent[c] = core.InvalidSlot
		g.dirty[c] = true
	}
	g.children[slot] = g.children[slot][:0]
	g.registered[slot] = false
	g.dirty[slot] = false
}

// Attach reparents child under parent. Attachment that would create a cycle
// is rejected with an error and no mutation.
func (g *SceneGraph) Attach(child, parent core.Slot) error {
	g.ensure(child)
	g.ensure(parent)
	if !g.registered[child] || !g.registered[parent] {
		return fmt.Errorf("attach %d under %d: unregistered slot", child, parent)
	}
	if child == parent {
		return fmt.Errorf("attach %d under %d: cannot parent to self", child, parent)
	}

	// Walk from the new parent to the root; finding the child means the
	// parent is a descendant and the attachment would create a cycle.
	for p := parent; p != core.InvalidSlot; p = g.parent[p] {
		if p == child {
			return fmt.Errorf("attach %d under %d: would create cycle", child, parent)
		}
	}

	g.detachFromParent(child)
	g.parent[child] = parent
	g.children[parent] = append(g.children[parent], child)
	g.dirty[child] = true
	return nil
}

// Detach makes the slot a root again
func (g *SceneGraph) Detach(child core.Slot) {
	if int(child) >= len(g.registered) || !g.registered[child] {
		return
	}
	g.detachFromParent(child)
	g.parent[child] = core.InvalidSlot
	g.dirty[child] = true
}

// detachFromParent unlinks the slot from its current parent's child list
func (g *SceneGraph) detachFromParent(slot core.Slot) {
	p := g.parent[slot]
	if p == core.InvalidSlot {
		return
	}
	siblings := g.children[p]
	for i, c := range siblings {
		if c == slot {
			// Swap-remove; sibling order is not part of the contract
			siblings[i] = siblings[len(siblings)-1]
			g.children[p] = siblings[:len(siblings)-1]
			break
		}
	}
}

// SetDirty flags the slot's world transform for recomputation
func (g *SceneGraph) SetDirty(slot core.Slot) {
	if int(slot) < len(g.dirty) && g.registered[slot] {
		g.dirty[slot] = true
	}
}

// Parent returns the slot's parent, or InvalidSlot for roots
func (g *SceneGraph) Parent(slot core.Slot) core.Slot {
	if int(slot) >= len(g.parent) {
		return core.InvalidSlot
	}
	return g.parent[slot]
}

// Propagate recomputes world transforms top-down from the roots. Only dirty
// subtrees are recomputed; a dirty parent forces recomputation of its whole
// subtree since child world positions derive from it.
func (g *SceneGraph) Propagate(s *Storage) {
	local := s.Positions()
	world := s.WorldPositions()

	for i := range g.registered {
		if !g.registered[i] || g.parent[i] != core.InvalidSlot {
			continue
		}
		g.propagateNode(core.Slot(i), vmath.Vec3{}, false, local, world)
	}
}

func (g *SceneGraph) propagateNode(slot core.Slot, parentWorld vmath.Vec3, parentDirty bool, local, world []vmath.Vec3) {
	recompute := parentDirty || g.dirty[slot]
	if recompute {
		world[slot] = vmath.V3Add(parentWorld, local[slot])
		g.dirty[slot] = false
	}
	for _, c := range g.children[slot] {
		g.propagateNode(c, world[slot], recompute, local, world)
	}
}
