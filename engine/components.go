package engine

// EmitterShape selects the initial velocity distribution of spawned particles
type EmitterShape uint8

const (
	// ShapeCone perturbs velocities in a narrow upward lobe
	ShapeCone EmitterShape = iota
	// ShapeSphere distributes velocities uniformly on the unit sphere
	ShapeSphere
)

// String returns the shape name for logs and config parsing
func (s EmitterShape) String() string {
	switch s {
	case ShapeCone:
		return "cone"
	case ShapeSphere:
		return "sphere"
	default:
		return "unknown"
	}
}

// EmitterParams is the per-entity particle emitter configuration, read each
// step by the particle subsystem. It lives in storage like any other
// component attribute; the emitter's simulation state does not.
type EmitterParams struct {
	MaxCount     int
	Rate         float64 // particles per second
	Shape        EmitterShape
	Speed        float64 // initial velocity magnitude
	Life         float64 // particle lifetime in seconds
	Size         float64
	ColorR       float32
	ColorG       float32
	ColorB       float32
	TextureIndex float32
	EffectIndex  float32
}
