package engine

// SimParams holds the simulation tuning shared by all systems. Populated once
// from configuration at context creation; systems treat it as read-only.
type SimParams struct {
	// Broadphase cell edge length
	CellSize float64

	// Gravity magnitude, applied as constant downward acceleration
	Gravity float64

	// World-space height of the ground plane
	GroundY float64

	// Upper bound on integration delta-time; frame hitches are clamped to
	// this to keep integration stable
	MaxDelta float64

	// Per-step spawn cap shared by all emitters; prevents a stall-then-burst
	// from overwhelming particle buffers
	MaxSpawnPerStep int

	// Extra emitter array capacity beyond the configured maximum count
	CapacitySlack int

	// Seed for the particle RNG; equal seeds give bit-stable runs
	Seed int64
}

// DefaultSimParams returns the tuning used when no configuration is loaded
func DefaultSimParams() SimParams {
	return SimParams{
		CellSize:        2.0,
		Gravity:         9.81,
		GroundY:         0.0,
		MaxDelta:        1.0 / 15.0,
		MaxSpawnPerStep: 64,
		CapacitySlack:   16,
		Seed:            1,
	}
}
