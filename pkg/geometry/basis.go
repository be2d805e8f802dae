package geometry

import (
	"fmt"
	"math"
)

// DefaultNearParallelThreshold is the |dot(n, up)| value above which the up
// hint is considered too close to the plane normal to produce a stable
// in-plane axis, and is replaced by a cyclic permutation of itself.
const DefaultNearParallelThreshold = 0.99

// OrthonormalBasis turns a cutting-plane normal and an in-plane "up" hint
// into three mutually orthogonal unit vectors (e0, e1, n):
//
//   - n is the normalized plane normal (the through-plane axis),
//   - e1 is the in-plane axis orthogonal to both n and the hint,
//   - e0 completes the frame and approximates the hint's direction.
//
// e0 becomes the horizontal axis of a resampled image, e1 the vertical axis.
// The up hint need not be orthogonal to the normal. When the hint is nearly
// parallel to the normal (|dot| > nearParallel) its components are cyclically
// permuted first, so the cross product never degenerates for axis-aligned
// requests. Zero-length inputs yield ErrInvalidGeometry.
func OrthonormalBasis(normal, upHint Vec3, nearParallel float64) (e0, e1, n Vec3, err error) {
	n, err = normal.Normalize()
	if err != nil {
		return Vec3{}, Vec3{}, Vec3{}, fmt.Errorf("plane normal: %w", err)
	}
	uh, err := upHint.Normalize()
	if err != nil {
		return Vec3{}, Vec3{}, Vec3{}, fmt.Errorf("up hint: %w", err)
	}

	if math.Abs(n.Dot(uh)) > nearParallel {
		// Permuting the components of a unit vector keeps it unit length,
		// so this re-normalization cannot fail.
		uh, _ = Vec3{uh[1], uh[2], uh[0]}.Normalize()
	}

	e1, err = n.Cross(uh).Normalize()
	if err != nil {
		return Vec3{}, Vec3{}, Vec3{}, fmt.Errorf("%w: up hint parallel to plane normal", ErrInvalidGeometry)
	}
	// e1 and n are orthogonal unit vectors, so e1 x n is already unit length.
	e0, _ = e1.Cross(n).Normalize()
	return e0, e1, n, nil
}
