// Profiling:
// go build ./cmd/simbench
// go tool pprof -http=":8000" -nodefraction=0.001 ./simbench cpu.pprof

package main

import (
	"flag"
	"fmt"

	"github.com/pkg/profile"

	"github.com/lixenwraith/sceneforge/core"
	"github.com/lixenwraith/sceneforge/engine"
	"github.com/lixenwraith/sceneforge/particles"
	"github.com/lixenwraith/sceneforge/physics"
	"github.com/lixenwraith/sceneforge/vmath"
)

func main() {
	entities := flag.Int("entities", 10000, "entity count")
	steps := flag.Int("steps", 2000, "update steps")
	mem := flag.Bool("mem", false, "profile allocations instead of CPU")
	flag.Parse()

	mode := profile.CPUProfile
	if *mem {
		mode = profile.MemProfileAllocs
	}
	p := profile.Start(mode, profile.ProfilePath("."), profile.NoShutdownHook)
	run(*entities, *steps)
	p.Stop()
}

func run(numEntities, steps int) {
	ctx := engine.NewContext(engine.DefaultSimParams(), nil)
	sched := engine.NewScheduler(nil)
	psys := particles.NewSystem()
	sched.Register(&engine.Module{ID: "physics", Order: 100, System: physics.NewSystem()})
	sched.Register(&engine.Module{ID: "transform", Order: 200, System: engine.NewTransformSystem()})
	sched.Register(&engine.Module{ID: "particles", Order: 300, System: psys})
	sched.Init(ctx)

	st := ctx.Storage
	for i := 0; i < numEntities; i++ {
		id := st.CreateEntity(fmt.Sprintf("body-%d", i))
		slot, _ := st.SlotOf(id)
		st.AddComponent(id, core.KindTransform)
		st.AddComponent(id, core.KindVelocity)
		st.AddComponent(id, core.KindMass)
		st.AddComponent(id, core.KindGravity)
		st.Masses()[slot] = 1
		st.Positions()[slot] = vmath.Vec3{
			X: float64(i%100) * 0.5,
			Y: float64(i/100) * 0.5,
			Z: float64(i%7) * 0.5,
		}
		ctx.Graph.RegisterEntity(slot)

		// Every 50th body also emits
		if i%50 == 0 {
			st.AddComponent(id, core.KindEmitter)
			st.Emitters()[slot] = engine.EmitterParams{
				MaxCount: 128, Rate: 40, Shape: engine.ShapeSphere,
				Speed: 3, Life: 1.5, Size: 1,
				ColorR: 1, ColorG: 1, ColorB: 1,
			}
		}
	}

	const dt = 1.0 / 60.0
	for i := 0; i < steps; i++ {
		sched.Update(dt)
		sched.Render(nil, vmath.Mat4Identity())
	}

	fmt.Printf("steps=%d entities=%d live_particles=%d cells=%d\n",
		steps, st.ActiveCount(), psys.LiveCount(), ctx.Grid.CellCount())
	sched.Dispose()
}
