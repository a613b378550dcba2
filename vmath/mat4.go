package vmath

// Mat4 is a column-major 4x4 matrix. The core only transports it between the
// caller and render systems; it performs no matrix math of its own.
type Mat4 [16]float64

// Mat4Identity returns the identity matrix.
func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}
