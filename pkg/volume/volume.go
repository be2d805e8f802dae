// Package volume holds the in-memory representation of a 3D scalar volume in
// physical (patient) space: raw intensities plus voxel spacing, origin and an
// orthonormal direction matrix, with index/physical transforms and trilinear
// sampling on top.
package volume

import (
	"errors"
	"fmt"

	"github.com/ro-dina/viewer/pkg/geometry"
)

// ErrEmptyVolume is returned when a volume has a zero-length axis or its
// data buffer does not hold one value per voxel.
var ErrEmptyVolume = errors.New("empty volume")

// Volume is a 3D scalar volume. Data is laid out C-order with x fastest:
// index = z*Width*Height + y*Width + x. Intensities are float32 so rescaled
// units (e.g. Hounsfield) survive without truncation.
type Volume struct {
	// Data holds the voxel intensities as a flat array.
	Data []float32

	// Width, Height and Depth are the voxel counts along x, y and z.
	Width  int
	Height int
	Depth  int

	// Spacing is the physical size of one voxel along x, y and z, in mm.
	Spacing [3]float64

	// Origin is the physical position of voxel (0,0,0).
	Origin geometry.Vec3

	// Direction maps index axes to physical axes; its columns are the
	// physical unit vectors of the x, y and z index axes. Must be
	// orthonormal.
	Direction geometry.Mat3
}

// New allocates a zero-filled volume with identity orientation and the
// given spacing.
func New(width, height, depth int, spacing [3]float64) (*Volume, error) {
	v := &Volume{
		Data:      make([]float32, width*height*depth),
		Width:     width,
		Height:    height,
		Depth:     depth,
		Spacing:   spacing,
		Direction: geometry.Identity(),
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

// Validate checks the volume invariants: positive voxel counts along every
// axis, positive spacing and a matching data buffer.
func (v *Volume) Validate() error {
	if v.Width <= 0 || v.Height <= 0 || v.Depth <= 0 {
		return fmt.Errorf("%w: dimensions %dx%dx%d", ErrEmptyVolume, v.Width, v.Height, v.Depth)
	}
	if len(v.Data) != v.Width*v.Height*v.Depth {
		return fmt.Errorf("%w: data length %d does not match %dx%dx%d",
			ErrEmptyVolume, len(v.Data), v.Width, v.Height, v.Depth)
	}
	for i, s := range v.Spacing {
		if s <= 0 {
			return fmt.Errorf("%w: spacing[%d]=%f must be positive", ErrEmptyVolume, i, s)
		}
	}
	return nil
}

// At returns the intensity at voxel (x, y, z). Bounds are the caller's
// responsibility.
func (v *Volume) At(x, y, z int) float32 {
	return v.Data[z*v.Width*v.Height+y*v.Width+x]
}

// Set stores an intensity at voxel (x, y, z).
func (v *Volume) Set(x, y, z int, value float32) {
	v.Data[z*v.Width*v.Height+y*v.Width+x] = value
}

// IndexToPhysical maps a (possibly fractional) voxel index to its physical
// position: origin + Direction * (index .* spacing).
func (v *Volume) IndexToPhysical(x, y, z float64) geometry.Vec3 {
	local := geometry.Vec3{x * v.Spacing[0], y * v.Spacing[1], z * v.Spacing[2]}
	return v.Origin.Add(v.Direction.MulVec(local))
}

// PhysicalToContinuousIndex maps a physical point into continuous index
// space. Relies on Direction being orthonormal, so the transpose is the
// inverse.
func (v *Volume) PhysicalToContinuousIndex(p geometry.Vec3) geometry.Vec3 {
	local := v.Direction.Transpose().MulVec(p.Sub(v.Origin))
	return geometry.Vec3{
		local[0] / v.Spacing[0],
		local[1] / v.Spacing[1],
		local[2] / v.Spacing[2],
	}
}

// Center returns the physical position of the volume's geometric center.
func (v *Volume) Center() geometry.Vec3 {
	return v.IndexToPhysical(
		float64(v.Width-1)/2,
		float64(v.Height-1)/2,
		float64(v.Depth-1)/2,
	)
}

// SampleLinear evaluates the volume at a continuous index by trilinear
// interpolation. The second return value is false when the index falls
// outside [0, dim-1] on any axis; callers substitute their fill value.
func (v *Volume) SampleLinear(idx geometry.Vec3) (float32, bool) {
	x, y, z := idx[0], idx[1], idx[2]
	if x < 0 || y < 0 || z < 0 ||
		x > float64(v.Width-1) || y > float64(v.Height-1) || z > float64(v.Depth-1) {
		return 0, false
	}

	x0, y0, z0 := int(x), int(y), int(z)
	// Clamp the upper cell corner so sampling exactly on the far face works.
	x1, y1, z1 := x0+1, y0+1, z0+1
	if x1 > v.Width-1 {
		x1 = v.Width - 1
	}
	if y1 > v.Height-1 {
		y1 = v.Height - 1
	}
	if z1 > v.Depth-1 {
		z1 = v.Depth - 1
	}

	fx, fy, fz := x-float64(x0), y-float64(y0), z-float64(z0)

	c000 := float64(v.At(x0, y0, z0))
	c100 := float64(v.At(x1, y0, z0))
	c010 := float64(v.At(x0, y1, z0))
	c110 := float64(v.At(x1, y1, z0))
	c001 := float64(v.At(x0, y0, z1))
	c101 := float64(v.At(x1, y0, z1))
	c011 := float64(v.At(x0, y1, z1))
	c111 := float64(v.At(x1, y1, z1))

	c00 := c000*(1-fx) + c100*fx
	c10 := c010*(1-fx) + c110*fx
	c01 := c001*(1-fx) + c101*fx
	c11 := c011*(1-fx) + c111*fx

	c0 := c00*(1-fy) + c10*fy
	c1 := c01*(1-fy) + c11*fy

	return float32(c0*(1-fz) + c1*fz), true
}
