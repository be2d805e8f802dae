// Package geometry provides the physical-space vector and matrix math used
// by the volume and reslicing packages: 3-component vectors, 3x3 direction
// matrices, and orthonormal basis construction for arbitrary cutting planes.
package geometry

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidGeometry is returned when a caller supplies a degenerate vector
// (zero length) where a direction is required.
var ErrInvalidGeometry = errors.New("invalid geometry")

// zeroTolerance is the squared-length threshold below which a vector is
// considered zero.
const zeroTolerance = 1e-12

// Vec3 is a 3-component vector in physical (patient) space, in mm.
// It is a value type; all methods return new values.
type Vec3 [3]float64

// Add returns the component-wise sum a+b.
func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// Sub returns the component-wise difference a-b.
func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Scale returns the vector multiplied by the scalar s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Dot returns the inner product of a and b.
func (a Vec3) Dot(b Vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Cross returns the vector product a x b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Norm returns the Euclidean length of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// IsZero reports whether the vector has (numerically) zero length.
func (v Vec3) IsZero() bool {
	return v.Dot(v) < zeroTolerance
}

// Normalize returns the unit vector pointing in the same direction as v.
// A zero-length input is a precondition violation and yields
// ErrInvalidGeometry rather than a NaN-filled vector.
func (v Vec3) Normalize() (Vec3, error) {
	n := v.Norm()
	if n*n < zeroTolerance {
		return Vec3{}, fmt.Errorf("%w: cannot normalize zero-length vector", ErrInvalidGeometry)
	}
	return Vec3{v[0] / n, v[1] / n, v[2] / n}, nil
}
