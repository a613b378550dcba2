package engine

import (
	"sort"

	"go.uber.org/zap"

	"github.com/lixenwraith/sceneforge/events"
	"github.com/lixenwraith/sceneforge/vmath"
)

// activeEntry is one wired system with its resolved execution order
type activeEntry struct {
	id    string
	order int
	sys   System
}

// Scheduler owns the module registry, manages system init/dispose lifecycle,
// computes deterministic execution order and dispatches per-step update and
// render passes plus storage lifecycle events.
//
// Ordering contract: active systems run ascending by numeric order (the
// system's own order, else the owning module's), with identity string
// comparison as the deterministic tie-break. The order is recomputed whenever
// the active set changes.
type Scheduler struct {
	log *zap.Logger

	modules     map[string]*Module
	active      []activeEntry
	subs        []events.Subscription
	ctx         *Context
	initialized bool
}

// NewScheduler creates a scheduler with an empty registry
func NewScheduler(log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		log:     log,
		modules: make(map[string]*Module),
	}
}

// Init wires the registry into the context. It is idempotent-safe: re-calling
// it first unsubscribes the previous event wiring and disposes every active
// system, so hot reload neither leaks subscriptions nor double-registers.
func (sc *Scheduler) Init(ctx *Context) {
	if sc.initialized {
		sc.teardown()
	}
	sc.ctx = ctx

	// Deterministic wiring order regardless of registration history
	ids := make([]string, 0, len(sc.modules))
	for id := range sc.modules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		sc.wireModule(sc.modules[id])
	}
	sc.sortActive()

	sc.subs = append(sc.subs,
		ctx.Bus.Subscribe(events.EventEntityDestroyed, sc.onEntityDestroyed),
		ctx.Bus.Subscribe(events.EventComponentAdded, sc.onComponentAdded),
		ctx.Bus.Subscribe(events.EventComponentRemoved, sc.onComponentRemoved),
	)
	sc.initialized = true
}

// Register inserts or overwrites a module by identity. Overwriting an
// already-initialized module disposes its prior system before wiring the new
// one, so a reused identity never runs twice.
func (sc *Scheduler) Register(m *Module) {
	if prior, ok := sc.modules[m.ID]; ok && sc.initialized {
		sc.unwireModule(prior)
	}
	sc.modules[m.ID] = m
	if sc.initialized {
		sc.wireModule(m)
		sc.sortActive()
	}
}

// GetModule returns a registered module by identity
func (sc *Scheduler) GetModule(id string) (*Module, bool) {
	m, ok := sc.modules[id]
	return m, ok
}

// AllModules returns the registered modules sorted by declared order,
// identity tie-break.
func (sc *Scheduler) AllModules() []*Module {
	result := make([]*Module, 0, len(sc.modules))
	for _, m := range sc.modules {
		result = append(result, m)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Order != result[j].Order {
			return result[i].Order < result[j].Order
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// Update runs the per-step update pass in sorted order, then delimits the
// step for storage slot reuse.
func (sc *Scheduler) Update(dt float64) {
	for _, e := range sc.snapshot() {
		if u, ok := e.sys.(Updater); ok {
			sc.safeUpdate(e.id, u, dt)
		}
	}
	sc.ctx.Storage.EndStep()
	sc.ctx.Frame++
}

// Render runs the read-only render pass in sorted order
func (sc *Scheduler) Render(surface any, viewProj vmath.Mat4) {
	for _, e := range sc.snapshot() {
		if r, ok := e.sys.(Renderer); ok {
			sc.safeRender(e.id, r, surface, viewProj)
		}
	}
}

// Dispose unsubscribes lifecycle dispatch, disposes every active system and
// clears all state. Intended for full shutdown.
func (sc *Scheduler) Dispose() {
	sc.teardown()
	sc.modules = make(map[string]*Module)
	sc.ctx = nil
}

// ActiveSystemIDs returns the identities of wired systems in execution order
func (sc *Scheduler) ActiveSystemIDs() []string {
	ids := make([]string, len(sc.active))
	for i, e := range sc.active {
		ids[i] = e.id
	}
	return ids
}

// === wiring ===

// teardown unsubscribes event wiring and disposes every active system
func (sc *Scheduler) teardown() {
	for _, sub := range sc.subs {
		sc.ctx.Bus.Unsubscribe(sub)
	}
	sc.subs = sc.subs[:0]

	for _, e := range sc.active {
		sc.disposeSystem(e)
	}
	sc.active = sc.active[:0]
	sc.initialized = false
}

// wireModule inserts the module's systems into the active set and runs init.
// A colliding identity disposes the prior occupant first.
func (sc *Scheduler) wireModule(m *Module) {
	if m.System != nil {
		order := m.Order
		if o, ok := m.System.(Orderer); ok {
			order = o.Order()
		}
		sc.insert(activeEntry{id: m.System.ID(), order: order, sys: m.System})
	}
	if m.Update != nil || m.Render != nil {
		legacy := &legacySystem{
			id:     m.ID + ":legacy",
			order:  legacyHookOrder + m.Order,
			update: m.Update,
			render: m.Render,
		}
		sc.insert(activeEntry{id: legacy.id, order: legacy.order, sys: legacy})
	}
}

// unwireModule removes and disposes the module's wired systems
func (sc *Scheduler) unwireModule(m *Module) {
	if m.System != nil {
		sc.removeByID(m.System.ID())
	}
	sc.removeByID(m.ID + ":legacy")
}

// insert adds an entry, replacing (and disposing) any prior system with the
// same identity, then runs the new system's init.
func (sc *Scheduler) insert(e activeEntry) {
	sc.removeByID(e.id)
	sc.active = append(sc.active, e)

	if init, ok := e.sys.(Initializer); ok {
		if err := sc.safeInit(e.id, init); err != nil {
			sc.log.Error("system init failed", zap.String("system", e.id), zap.Error(err))
		}
	}
}

// removeByID disposes and removes the entry with the given identity, if any
func (sc *Scheduler) removeByID(id string) {
	for i, e := range sc.active {
		if e.id == id {
			sc.disposeSystem(e)
			sc.active = append(sc.active[:i], sc.active[i+1:]...)
			return
		}
	}
}

// disposeSystem invokes Dispose, swallowing and logging any failure
func (sc *Scheduler) disposeSystem(e activeEntry) {
	d, ok := e.sys.(Disposer)
	if !ok {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			sc.log.Error("system dispose panicked", zap.String("system", e.id), zap.Any("panic", r))
		}
	}()
	if err := d.Dispose(sc.ctx); err != nil {
		sc.log.Error("system dispose failed", zap.String("system", e.id), zap.Error(err))
	}
}

// sortActive recomputes the deterministic execution order
func (sc *Scheduler) sortActive() {
	sort.SliceStable(sc.active, func(i, j int) bool {
		if sc.active[i].order != sc.active[j].order {
			return sc.active[i].order < sc.active[j].order
		}
		return sc.active[i].id < sc.active[j].id
	})
}

// snapshot copies the active list so a callback that registers or removes a
// system mid-dispatch cannot corrupt the in-flight iteration.
func (sc *Scheduler) snapshot() []activeEntry {
	return append([]activeEntry(nil), sc.active...)
}

// === guarded callbacks ===

func (sc *Scheduler) safeInit(id string, init Initializer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			sc.log.Error("system init panicked", zap.String("system", id), zap.Any("panic", r))
		}
	}()
	return init.Init(sc.ctx)
}

func (sc *Scheduler) safeUpdate(id string, u Updater, dt float64) {
	defer func() {
		if r := recover(); r != nil {
			sc.log.Error("system update panicked", zap.String("system", id), zap.Any("panic", r))
		}
	}()
	u.Update(sc.ctx, dt)
}

func (sc *Scheduler) safeRender(id string, r Renderer, surface any, viewProj vmath.Mat4) {
	defer func() {
		if rec := recover(); rec != nil {
			sc.log.Error("system render panicked", zap.String("system", id), zap.Any("panic", rec))
		}
	}()
	r.Render(sc.ctx, surface, viewProj)
}

// === lifecycle event dispatch ===

func (sc *Scheduler) onEntityDestroyed(ev events.Event) {
	payload, ok := ev.Payload.(*events.EntityDestroyedPayload)
	if !ok {
		return
	}
	for _, e := range sc.snapshot() {
		if h, ok := e.sys.(EntityDestroyedHandler); ok {
			sc.safeLifecycle(e.id, func() { h.OnEntityDestroyed(sc.ctx, payload.ID, payload.Slot) })
		}
	}
}

func (sc *Scheduler) onComponentAdded(ev events.Event) {
	payload, ok := ev.Payload.(*events.ComponentAddedPayload)
	if !ok {
		return
	}
	for _, e := range sc.snapshot() {
		if h, ok := e.sys.(ComponentAddedHandler); ok {
			sc.safeLifecycle(e.id, func() { h.OnComponentAdded(sc.ctx, payload.ID, payload.Kind) })
		}
	}
}

func (sc *Scheduler) onComponentRemoved(ev events.Event) {
	payload, ok := ev.Payload.(*events.ComponentRemovedPayload)
	if !ok {
		return
	}
	for _, e := range sc.snapshot() {
		if h, ok := e.sys.(ComponentRemovedHandler); ok {
			sc.safeLifecycle(e.id, func() { h.OnComponentRemoved(sc.ctx, payload.ID, payload.Kind) })
		}
	}
}

func (sc *Scheduler) safeLifecycle(id string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			sc.log.Error("lifecycle callback panicked", zap.String("system", id), zap.Any("panic", r))
		}
	}()
	fn()
}
