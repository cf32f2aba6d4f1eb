package mesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ProjectToBasis flattens a 3D direction onto the plane spanned by two
// orthogonal basis vectors, returning its 2D coordinates.
func ProjectToBasis(v, xAxis, yAxis r3.Vec) (float64, float64) {
	return r3.Dot(v, xAxis), r3.Dot(v, yAxis)
}

// PolarAngle returns the polar angle of (x, y) in [0, 2π).
func PolarAngle(x, y float64) float64 {
	a := math.Atan2(y, x)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// VecAngle returns the unsigned angle between two vectors in [0, π].
// Zero-length input yields 0.
func VecAngle(a, b r3.Vec) float64 {
	la, lb := r3.Norm(a), r3.Norm(b)
	if la == 0 || lb == 0 {
		return 0
	}
	c := r3.Dot(a, b) / (la * lb)
	// Clamp against rounding outside acos domain.
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}
	return math.Acos(c)
}
