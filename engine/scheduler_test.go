package engine

import (
	"reflect"
	"testing"

	"github.com/lixenwraith/sceneforge/core"
)

// stubSystem records lifecycle and dispatch calls for scheduler tests
type stubSystem struct {
	id    string
	order int

	callLog *[]string

	initCount    int
	disposeCount int
	destroyed    int

	panicOnUpdate bool
}

func (s *stubSystem) ID() string { return s.id }

func (s *stubSystem) Order() int { return s.order }

func (s *stubSystem) Init(_ *Context) error {
	s.initCount++
	return nil
}

func (s *stubSystem) Update(_ *Context, _ float64) {
	if s.panicOnUpdate {
		panic("boom")
	}
	if s.callLog != nil {
		*s.callLog = append(*s.callLog, s.id)
	}
}

func (s *stubSystem) Dispose(_ *Context) error {
	s.disposeCount++
	return nil
}

func (s *stubSystem) OnEntityDestroyed(_ *Context, _ core.EntityID, _ core.Slot) {
	s.destroyed++
}

func newTestScheduler() (*Scheduler, *Context) {
	ctx := NewContext(DefaultSimParams(), nil)
	return NewScheduler(nil), ctx
}

// Test update order is ascending numeric order with identity tie-break,
// independent of registration order
func TestUpdateOrderDeterministic(t *testing.T) {
	sched, ctx := newTestScheduler()

	var calls []string
	a := &stubSystem{id: "a", order: 1, callLog: &calls}
	b := &stubSystem{id: "b", order: 5, callLog: &calls}
	c := &stubSystem{id: "c", order: 5, callLog: &calls}

	// Registration order deliberately disagrees with execution order
	sched.Register(&Module{ID: "b", System: b})
	sched.Register(&Module{ID: "a", System: a})
	sched.Register(&Module{ID: "c", System: c})
	sched.Init(ctx)

	want := []string{"a", "b", "c"}
	if got := sched.ActiveSystemIDs(); !reflect.DeepEqual(got, want) {
		t.Fatalf("ActiveSystemIDs = %v, want %v", got, want)
	}

	sched.Update(0.016)
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("Update call order = %v, want %v", calls, want)
	}
}

// Test re-init disposes every active system exactly once and leaves no
// duplicate lifecycle subscription
func TestReinitLifecycle(t *testing.T) {
	sched, ctx := newTestScheduler()

	a := &stubSystem{id: "a", order: 1}
	b := &stubSystem{id: "b", order: 2}
	sched.Register(&Module{ID: "a", System: a})
	sched.Register(&Module{ID: "b", System: b})

	sched.Init(ctx)
	sched.Init(ctx)

	if a.disposeCount != 1 || b.disposeCount != 1 {
		t.Errorf("Expected each system disposed once across re-init, got %d and %d",
			a.disposeCount, b.disposeCount)
	}
	if a.initCount != 2 || b.initCount != 2 {
		t.Errorf("Expected each system re-initialized, got %d and %d inits",
			a.initCount, b.initCount)
	}

	// A single deletion must reach each handler exactly once
	id := ctx.Storage.CreateEntity("e")
	ctx.Storage.DeleteEntity(id)

	if a.destroyed != 1 || b.destroyed != 1 {
		t.Errorf("Expected 1 destroyed callback per system, got %d and %d",
			a.destroyed, b.destroyed)
	}
}

// Test overwriting a registered identity disposes the prior system before
// wiring the replacement
func TestRegisterOverwriteDisposesPrior(t *testing.T) {
	sched, ctx := newTestScheduler()

	var calls []string
	old := &stubSystem{id: "sys", order: 1, callLog: &calls}
	sched.Register(&Module{ID: "m", System: old})
	sched.Init(ctx)

	repl := &stubSystem{id: "sys", order: 1, callLog: &calls}
	sched.Register(&Module{ID: "m", System: repl})

	if old.disposeCount != 1 {
		t.Errorf("Expected prior system disposed once, got %d", old.disposeCount)
	}
	if repl.initCount != 1 {
		t.Errorf("Expected replacement initialized once, got %d", repl.initCount)
	}

	sched.Update(0.016)
	if len(calls) != 1 {
		t.Fatalf("Expected a single update call, got %v", calls)
	}
	if old.destroyed != 0 {
		t.Errorf("Disposed system still receiving events")
	}
}

// Test a panicking system does not take down the rest of the pass
func TestUpdatePanicIsolation(t *testing.T) {
	sched, ctx := newTestScheduler()

	var calls []string
	sched.Register(&Module{ID: "bad", System: &stubSystem{id: "bad", order: 1, panicOnUpdate: true}})
	sched.Register(&Module{ID: "good", System: &stubSystem{id: "good", order: 2, callLog: &calls}})
	sched.Init(ctx)

	sched.Update(0.016)

	if !reflect.DeepEqual(calls, []string{"good"}) {
		t.Errorf("Expected surviving system updated, got %v", calls)
	}
	if ctx.Frame != 1 {
		t.Errorf("Expected frame advanced despite panic, got %d", ctx.Frame)
	}
}

// Test legacy module hooks run after every typed system
func TestLegacyHooksRunLast(t *testing.T) {
	sched, ctx := newTestScheduler()

	var calls []string
	sched.Register(&Module{
		ID:    "old",
		Order: 0,
		Update: func(_ *Context, _ float64) {
			calls = append(calls, "old:legacy")
		},
	})
	sched.Register(&Module{ID: "typed", System: &stubSystem{id: "typed", order: 9000, callLog: &calls}})
	sched.Init(ctx)

	sched.Update(0.016)

	want := []string{"typed", "old:legacy"}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("Call order = %v, want %v", calls, want)
	}
}

// Test the scheduler delimits the step: slots freed during an update become
// reusable only after the pass completes
func TestUpdateDelimitsStep(t *testing.T) {
	sched, ctx := newTestScheduler()
	sched.Init(ctx)

	id := ctx.Storage.CreateEntity("doomed")
	slot, _ := ctx.Storage.SlotOf(id)
	ctx.Storage.DeleteEntity(id)

	// Mid-step: no reuse
	mid := ctx.Storage.CreateEntity("mid")
	if got, _ := ctx.Storage.SlotOf(mid); got == slot {
		t.Error("Slot reused before the step boundary")
	}

	sched.Update(0.016)

	next := ctx.Storage.CreateEntity("next")
	if got, _ := ctx.Storage.SlotOf(next); got != slot {
		t.Errorf("Expected slot %d reused after the step, got %d", slot, got)
	}
}

// Test AllModules sorts by declared order with identity tie-break
func TestAllModulesSorted(t *testing.T) {
	sched, _ := newTestScheduler()

	sched.Register(&Module{ID: "z", Order: 10})
	sched.Register(&Module{ID: "a", Order: 20})
	sched.Register(&Module{ID: "b", Order: 10})

	got := make([]string, 0, 3)
	for _, m := range sched.AllModules() {
		got = append(got, m.ID)
	}
	want := []string{"b", "z", "a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AllModules order = %v, want %v", got, want)
	}

	if _, ok := sched.GetModule("z"); !ok {
		t.Error("Expected GetModule to find a registered module")
	}
}

// Test dispose tears everything down
func TestDispose(t *testing.T) {
	sched, ctx := newTestScheduler()

	a := &stubSystem{id: "a", order: 1}
	sched.Register(&Module{ID: "a", System: a})
	sched.Init(ctx)

	sched.Dispose()

	if a.disposeCount != 1 {
		t.Errorf("Expected system disposed once, got %d", a.disposeCount)
	}
	if got := sched.ActiveSystemIDs(); len(got) != 0 {
		t.Errorf("Expected no active systems after dispose, got %v", got)
	}
	if len(sched.AllModules()) != 0 {
		t.Error("Expected empty registry after dispose")
	}

	// Events after dispose reach nothing
	id := ctx.Storage.CreateEntity("e")
	ctx.Storage.DeleteEntity(id)
	if a.destroyed != 0 {
		t.Errorf("Disposed scheduler still dispatching, got %d callbacks", a.destroyed)
	}
}
