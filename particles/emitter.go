package particles

import (
	"math"
	"math/rand"

	"github.com/lixenwraith/sceneforge/core"
	"github.com/lixenwraith/sceneforge/engine"
	"github.com/lixenwraith/sceneforge/vmath"
)

const (
	// PackStride is the float count per particle in the packed buffer:
	// {x, y, z, colorR, colorG, colorB, size, normalizedLife, textureIndex, effectIndex}
	PackStride = 10

	// buoyancy is the constant upward acceleration applied to live particles
	buoyancy = 1.5

	// damping is the per-second multiplicative velocity decay
	damping = 0.35

	// coneSpread is the lateral perturbation of the cone shape's upward lobe
	coneSpread = 0.35
)

// Emitter owns one particle source's complete simulation state in its own
// structure-of-arrays, independent of the generic component storage.
//
// Live particles occupy indices [0, count) contiguously via swap-remove, so a
// particle's index is NOT stable across a removal.
type Emitter struct {
	owner    core.EntityID
	capacity int
	count    int
	accum    float64 // fractional spawn accumulator
	spawned  uint64  // lifetime spawn total, for telemetry

	posX, posY, posZ []float32
	velX, velY, velZ []float32
	life, maxLife    []float32
	size             []float32
	colR, colG, colB []float32

	packed []float32
}

// NewEmitter allocates capacity-sized arrays for one particle source
func NewEmitter(owner core.EntityID, capacity int) *Emitter {
	if capacity < 1 {
		capacity = 1
	}
	return &Emitter{
		owner:    owner,
		capacity: capacity,
		posX:     make([]float32, capacity),
		posY:     make([]float32, capacity),
		posZ:     make([]float32, capacity),
		velX:     make([]float32, capacity),
		velY:     make([]float32, capacity),
		velZ:     make([]float32, capacity),
		life:     make([]float32, capacity),
		maxLife:  make([]float32, capacity),
		size:     make([]float32, capacity),
		colR:     make([]float32, capacity),
		colG:     make([]float32, capacity),
		colB:     make([]float32, capacity),
		packed:   make([]float32, 0, capacity*PackStride),
	}
}

// Owner returns the entity carrying the emitter component
func (e *Emitter) Owner() core.EntityID {
	return e.owner
}

// Count returns the live particle count
func (e *Emitter) Count() int {
	return e.count
}

// Capacity returns the allocated particle capacity
func (e *Emitter) Capacity() int {
	return e.capacity
}

// Accumulator returns the fractional spawn accumulator
func (e *Emitter) Accumulator() float64 {
	return e.accum
}

// TotalSpawned returns the lifetime spawn count, dropped spawns excluded
func (e *Emitter) TotalSpawned() uint64 {
	return e.spawned
}

// Step advances the emitter one tick: spawn up to maxSpawn new particles per
// the rate accumulator, then integrate all live particles.
func (e *Emitter) Step(params engine.EmitterParams, origin vmath.Vec3, dt float64, maxSpawn int, rng *rand.Rand) {
	e.accum += params.Rate * dt
	n := int(e.accum)
	if n > maxSpawn {
		n = maxSpawn
	}
	e.accum -= float64(n)

	for i := 0; i < n; i++ {
		e.spawn(params, origin, rng)
	}

	e.integrate(dt)
}

// spawn writes one particle's full slot state. A spawn that would exceed
// capacity is silently dropped; this is backpressure, not an error.
func (e *Emitter) spawn(params engine.EmitterParams, origin vmath.Vec3, rng *rand.Rand) {
	if e.count >= e.capacity {
		return
	}
	i := e.count

	dir := initialDirection(params.Shape, rng)
	dir = vmath.V3Normalize(dir)

	e.posX[i] = float32(origin.X)
	e.posY[i] = float32(origin.Y)
	e.posZ[i] = float32(origin.Z)
	e.velX[i] = float32(dir.X * params.Speed)
	e.velY[i] = float32(dir.Y * params.Speed)
	e.velZ[i] = float32(dir.Z * params.Speed)
	e.life[i] = float32(params.Life)
	e.maxLife[i] = float32(params.Life)
	e.size[i] = float32(params.Size)
	e.colR[i] = params.ColorR
	e.colG[i] = params.ColorG
	e.colB[i] = params.ColorB

	e.count++
	e.spawned++
}

// initialDirection draws a shape-dependent initial velocity direction
func initialDirection(shape engine.EmitterShape, rng *rand.Rand) vmath.Vec3 {
	if shape == engine.ShapeSphere {
		// Uniform on the unit sphere via the inverse-CDF polar method
		cosTheta := 1 - 2*rng.Float64()
		sinTheta := math.Sqrt(1 - cosTheta*cosTheta)
		phi := 2 * math.Pi * rng.Float64()
		return vmath.Vec3{
			X: sinTheta * math.Cos(phi),
			Y: cosTheta,
			Z: sinTheta * math.Sin(phi),
		}
	}
	// Cone: narrow upward lobe
	return vmath.Vec3{
		X: (rng.Float64()*2 - 1) * coneSpread,
		Y: 1,
		Z: (rng.Float64()*2 - 1) * coneSpread,
	}
}

// integrate walks from the last live index down to 0 so a swap-remove never
// skips an element: expire, or apply buoyancy, damping and position update.
func (e *Emitter) integrate(dt float64) {
	fdt := float32(dt)
	factor := float32(math.Pow(damping, dt))
	buoy := float32(buoyancy) * fdt

	for i := e.count - 1; i >= 0; i-- {
		e.life[i] -= fdt
		if e.life[i] <= 0 {
			e.swapRemove(i)
			continue
		}
		e.velY[i] += buoy
		e.velX[i] *= factor
		e.velY[i] *= factor
		e.velZ[i] *= factor
		e.posX[i] += e.velX[i] * fdt
		e.posY[i] += e.velY[i] * fdt
		e.posZ[i] += e.velZ[i] * fdt
	}
}

// swapRemove copies the last live element's full state into slot i and
// shrinks the count
func (e *Emitter) swapRemove(i int) {
	last := e.count - 1
	if i != last {
		e.posX[i], e.posY[i], e.posZ[i] = e.posX[last], e.posY[last], e.posZ[last]
		e.velX[i], e.velY[i], e.velZ[i] = e.velX[last], e.velY[last], e.velZ[last]
		e.life[i], e.maxLife[i] = e.life[last], e.maxLife[last]
		e.size[i] = e.size[last]
		e.colR[i], e.colG[i], e.colB[i] = e.colR[last], e.colG[last], e.colB[last]
	}
	e.count--
}

// Pack interleaves live particle state into the flat GPU-ready buffer at a
// fixed stride. Size is modulated by sin(lifeRatio*pi): smallest at birth and
// death, largest mid-life. The buffer is reused between calls and valid until
// the next Pack.
func (e *Emitter) Pack(texIndex, effectIndex float32) []float32 {
	e.packed = e.packed[:0]
	for i := 0; i < e.count; i++ {
		lifeRatio := e.life[i] / e.maxLife[i]
		size := e.size[i] * float32(math.Sin(float64(lifeRatio)*math.Pi))
		e.packed = append(e.packed,
			e.posX[i], e.posY[i], e.posZ[i],
			e.colR[i], e.colG[i], e.colB[i],
			size, lifeRatio,
			texIndex, effectIndex,
		)
	}
	return e.packed
}
