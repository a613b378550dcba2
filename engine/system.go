package engine

import (
	"github.com/lixenwraith/sceneforge/core"
	"github.com/lixenwraith/sceneforge/vmath"
)

// System is a named, orderable unit of simulation or render logic. All
// behavior beyond identity is optional and declared by implementing the
// capability interfaces below; the scheduler probes for them at dispatch.
type System interface {
	ID() string
}

// Orderer lets a system declare its own execution order. Systems that do not
// implement it inherit the order of their owning module. Lower runs first.
type Orderer interface {
	Order() int
}

// Initializer is called once when the system is wired into the active set
type Initializer interface {
	Init(ctx *Context) error
}

// Updater receives the per-step update pass in sorted order
type Updater interface {
	Update(ctx *Context, dt float64)
}

// Renderer receives the read-only render pass in sorted order
type Renderer interface {
	Render(ctx *Context, surface any, viewProj vmath.Mat4)
}

// Disposer is called when the system leaves the active set. Failures are
// logged at the scheduler boundary, never propagated.
type Disposer interface {
	Dispose(ctx *Context) error
}

// EntityDestroyedHandler receives storage entity-deletion events. The slot is
// already freed; it is passed so handlers can drop per-slot state.
type EntityDestroyedHandler interface {
	OnEntityDestroyed(ctx *Context, id core.EntityID, slot core.Slot)
}

// ComponentAddedHandler receives storage component-addition events
type ComponentAddedHandler interface {
	OnComponentAdded(ctx *Context, id core.EntityID, kind core.ComponentKind)
}

// ComponentRemovedHandler receives storage component-removal events
type ComponentRemovedHandler interface {
	OnComponentRemoved(ctx *Context, id core.EntityID, kind core.ComponentKind)
}

// Module is the unit of registration. It owns one optional typed System plus
// optional legacy per-module hooks kept for older callers.
type Module struct {
	ID    string
	Order int

	System System

	// Legacy hooks. They run through the same pipeline as typed systems,
	// wrapped at a fixed low priority after all typed systems.
	Update func(ctx *Context, dt float64)
	Render func(ctx *Context, surface any, viewProj vmath.Mat4)
}

// legacyHookOrder places wrapped legacy hooks after every typed system.
// The module's own order breaks ties among legacy hooks.
const legacyHookOrder = 1 << 20

// legacySystem adapts a module's legacy hooks to the System interfaces
type legacySystem struct {
	id     string
	order  int
	update func(ctx *Context, dt float64)
	render func(ctx *Context, surface any, viewProj vmath.Mat4)
}

func (l *legacySystem) ID() string {
	return l.id
}

func (l *legacySystem) Order() int {
	return l.order
}

func (l *legacySystem) Update(ctx *Context, dt float64) {
	if l.update != nil {
		l.update(ctx, dt)
	}
}

func (l *legacySystem) Render(ctx *Context, surface any, viewProj vmath.Mat4) {
	if l.render != nil {
		l.render(ctx, surface, viewProj)
	}
}
