// scenesim runs the simulation core headfirst into a terminal: a couple of
// particle emitters under physics, rendered from the packed instance buffers
// the way a GPU renderer would consume them.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aquilax/go-perlin"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/sceneforge/config"
	"github.com/lixenwraith/sceneforge/core"
	"github.com/lixenwraith/sceneforge/engine"
	"github.com/lixenwraith/sceneforge/particles"
	"github.com/lixenwraith/sceneforge/physics"
	"github.com/lixenwraith/sceneforge/vmath"
)

func main() {
	configPath := flag.String("config", "", "path to TOML config (defaults used when empty)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}

	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("scenesim failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	ctx := engine.NewContext(cfg.SimParams(), log)
	sched := engine.NewScheduler(log)

	psys := particles.NewSystem()
	sched.Register(&engine.Module{ID: "physics", Order: 100, System: physics.NewSystem()})
	sched.Register(&engine.Module{ID: "transform", Order: 200, System: engine.NewTransformSystem()})
	sched.Register(&engine.Module{ID: "particles", Order: 300, System: psys})
	sched.Register(&engine.Module{ID: "viewer", Order: 400, System: newViewer(psys)})
	sched.Init(ctx)

	fountain, orb := buildScene(ctx)

	quit := make(chan struct{})
	go pollInput(screen, quit)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Perlin noise is the stand-in for an editor poking at emitter settings:
	// it modulates rate and speed smoothly over time.
	noise := perlin.NewPerlin(2, 2, 3, cfg.Simulation.Seed)

	ticker := time.NewTicker(cfg.Simulation.TickRate)
	defer ticker.Stop()

	dt := cfg.Simulation.TickRate.Seconds()
	elapsed := 0.0
	for {
		select {
		case <-quit:
			sched.Dispose()
			return nil
		case <-sigChan:
			sched.Dispose()
			return nil
		case <-ticker.C:
			elapsed += dt
			modulateEmitters(ctx, fountain, orb, noise, elapsed)
			sched.Update(dt)
			sched.Render(screen, vmath.Mat4Identity())
			screen.Show()
		}
	}
}

// buildScene creates two emitter entities: a grounded cone fountain and a
// sphere-shaped orb parented above it.
func buildScene(ctx *engine.Context) (fountain, orb core.EntityID) {
	st := ctx.Storage

	fountain = st.CreateEntity("fountain")
	fSlot, _ := st.SlotOf(fountain)
	st.AddComponent(fountain, core.KindTransform)
	st.AddComponent(fountain, core.KindMass)
	st.AddComponent(fountain, core.KindEmitter)
	st.Masses()[fSlot] = 10
	st.Positions()[fSlot] = vmath.Vec3{X: 0, Y: 0.5, Z: 0}
	st.Emitters()[fSlot] = engine.EmitterParams{
		MaxCount: 400, Rate: 120, Shape: engine.ShapeCone,
		Speed: 6, Life: 2.2, Size: 1,
		ColorR: 1.0, ColorG: 0.75, ColorB: 0.3,
	}
	ctx.Graph.RegisterEntity(fSlot)

	orb = st.CreateEntity("orb")
	oSlot, _ := st.SlotOf(orb)
	st.AddComponent(orb, core.KindTransform)
	st.AddComponent(orb, core.KindEmitter)
	st.Positions()[oSlot] = vmath.Vec3{X: 0, Y: 7, Z: 0}
	st.Emitters()[oSlot] = engine.EmitterParams{
		MaxCount: 250, Rate: 60, Shape: engine.ShapeSphere,
		Speed: 2.5, Life: 1.6, Size: 0.7,
		ColorR: 0.4, ColorG: 0.7, ColorB: 1.0,
	}
	ctx.Graph.RegisterEntity(oSlot)
	if err := ctx.Graph.Attach(oSlot, fSlot); err != nil {
		ctx.Log.Warn("attach orb failed", zap.Error(err))
	}

	return fountain, orb
}

// modulateEmitters drives emitter configuration from smooth noise, playing
// the role of the external editor input.
func modulateEmitters(ctx *engine.Context, fountain, orb core.EntityID, noise *perlin.Perlin, t float64) {
	st := ctx.Storage
	if slot, ok := st.SlotOf(fountain); ok {
		n := noise.Noise1D(t * 0.2)
		st.Emitters()[slot].Rate = 120 + 80*n
		st.Emitters()[slot].Speed = 6 + 2*n
	}
	if slot, ok := st.SlotOf(orb); ok {
		n := noise.Noise1D(t*0.15 + 100)
		st.Emitters()[slot].Rate = 60 + 40*n
	}
}

func pollInput(screen tcell.Screen, quit chan<- struct{}) {
	for {
		ev := screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				close(quit)
				return
			}
		case *tcell.EventResize:
			screen.Sync()
		}
	}
}

// viewer is the render collaborator: it consumes the packed per-emitter
// instance buffers and plots them, never touching emitter internals.
type viewer struct {
	particles *particles.System
}

func newViewer(p *particles.System) *viewer {
	return &viewer{particles: p}
}

func (v *viewer) ID() string {
	return "scenesim.viewer"
}

func (v *viewer) Render(ctx *engine.Context, surface any, _ vmath.Mat4) {
	screen, ok := surface.(tcell.Screen)
	if !ok {
		return
	}
	screen.Clear()
	width, height := screen.Size()

	// World-to-cell mapping: x centered, y up, terminal cells are ~2:1
	scaleY := float64(height) / 16.0
	scaleX := scaleY * 2.1

	v.particles.EachPacked(func(_ core.EntityID, buf []float32, instances int) {
		for i := 0; i < instances; i++ {
			p := buf[i*particles.PackStride:]
			cx := width/2 + int(float64(p[0])*scaleX)
			cy := height - 1 - int(float64(p[1])*scaleY)
			if cx < 0 || cx >= width || cy < 0 || cy >= height {
				continue
			}
			style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(
				int32(p[3]*255), int32(p[4]*255), int32(p[5]*255)))
			screen.SetContent(cx, cy, sizeRune(p[6]), nil, style)
		}
	})
}

// sizeRune picks a glyph by modulated particle size
func sizeRune(size float32) rune {
	switch {
	case size > 0.8:
		return '@'
	case size > 0.5:
		return 'o'
	case size > 0.25:
		return '*'
	default:
		return '.'
	}
}
