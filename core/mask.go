package core

// ComponentKind identifies one component family stored in the scene storage.
type ComponentKind uint8

const (
	KindTransform ComponentKind = iota
	KindVelocity
	KindMass
	KindGravity
	KindEmitter
	KindCollider

	KindCount // number of component kinds, not a valid kind
)

// String returns the kind name for logs and tests.
func (k ComponentKind) String() string {
	switch k {
	case KindTransform:
		return "Transform"
	case KindVelocity:
		return "Velocity"
	case KindMass:
		return "Mass"
	case KindGravity:
		return "Gravity"
	case KindEmitter:
		return "Emitter"
	case KindCollider:
		return "Collider"
	default:
		return "Unknown"
	}
}

// Mask is a per-slot bitset recording which component kinds are present.
// Systems must check the mask before reading kind-specific arrays; reading
// an unmasked array slot is undefined.
type Mask uint32

// Has reports whether the kind's bit is set.
func (m Mask) Has(k ComponentKind) bool {
	return m&(1<<k) != 0
}

// Set enables the kind's bit.
func (m *Mask) Set(k ComponentKind) {
	*m |= 1 << k
}

// Unset disables the kind's bit.
func (m *Mask) Unset(k ComponentKind) {
	*m &^= 1 << k
}
