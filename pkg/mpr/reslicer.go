// Package mpr implements oblique multi-planar reformation: given a 3D
// volume in physical space and an arbitrary cutting plane, it derives the
// output image's coordinate frame and resamples the voxel intensities onto
// it with trilinear interpolation.
package mpr

import (
	"errors"
	"fmt"

	"github.com/ro-dina/viewer/pkg/geometry"
	"github.com/ro-dina/viewer/pkg/volume"
)

// ErrDegenerateRaster is returned when the requested output raster has a
// non-positive dimension or pixel spacing.
var ErrDegenerateRaster = errors.New("degenerate raster")

// DefaultSlabEpsilon is the minimum through-plane thickness in mm. A slab
// of zero thickness is not representable in a 3D resampling grid, so
// requests below this are clamped up to it.
const DefaultSlabEpsilon = 1e-3

// PlaneRequest describes the cutting plane in physical space.
type PlaneRequest struct {
	// Center is a point on the plane; the output image is centered on it.
	Center geometry.Vec3

	// Normal is the plane's through axis. Any nonzero vector.
	Normal geometry.Vec3

	// UpHint disambiguates the in-plane rotation; the output's vertical
	// axis ends up as close to it as orthogonality allows. Need not be
	// orthogonal to Normal.
	UpHint geometry.Vec3
}

// RasterSpec describes the desired output raster.
type RasterSpec struct {
	// Width and Height are the output pixel counts.
	Width  int
	Height int

	// PixelSpacing is the physical size of one output pixel along the
	// horizontal and vertical axes, in mm.
	PixelSpacing [2]float64

	// SlabThickness is the physical thickness collapsed into the single
	// output slice, in mm. Values below the reslicer's epsilon are
	// clamped up to it.
	SlabThickness float64

	// FillValue is written where the plane falls outside the volume.
	FillValue float32
}

// Resliced is a single 2D resampled image aligned to the requested plane,
// along with the output grid's placement in physical space.
type Resliced struct {
	// Data holds the resampled intensities, row-major, Height rows of
	// Width values.
	Data   []float32
	Width  int
	Height int

	// Origin is the physical position of the first pixel.
	Origin geometry.Vec3

	// Direction columns are the output horizontal, vertical and
	// through-plane unit vectors.
	Direction geometry.Mat3

	// Spacing is the output pixel spacing plus the effective slab
	// thickness along the through axis.
	Spacing [3]float64
}

// At returns the intensity at output pixel (x, y).
func (r *Resliced) At(x, y int) float32 {
	return r.Data[y*r.Width+x]
}

// Reslicer produces oblique reformats. The zero value is not ready for
// use; construct it with NewReslicer. Both thresholds are tunable, with
// the defaults matching common practice.
type Reslicer struct {
	// NearParallelThreshold is the |dot(normal, up hint)| above which the
	// up hint is permuted before building the plane basis.
	NearParallelThreshold float64

	// SlabEpsilon is the minimum through-plane thickness in mm.
	SlabEpsilon float64
}

// NewReslicer returns a reslicer with the default thresholds.
func NewReslicer() *Reslicer {
	return &Reslicer{
		NearParallelThreshold: geometry.DefaultNearParallelThreshold,
		SlabEpsilon:           DefaultSlabEpsilon,
	}
}

// validateRaster rejects zero or negative output dimensions and spacings
// before any geometry is derived.
func validateRaster(raster RasterSpec) error {
	if raster.Width <= 0 || raster.Height <= 0 {
		return fmt.Errorf("%w: output size %dx%d", ErrDegenerateRaster, raster.Width, raster.Height)
	}
	for i, s := range raster.PixelSpacing {
		if s <= 0 {
			return fmt.Errorf("%w: pixel spacing[%d]=%f must be positive", ErrDegenerateRaster, i, s)
		}
	}
	return nil
}

// OutputGrid derives the output image's placement in physical space for a
// plane and raster without touching voxel data: direction columns
// [e0 e1 n], spacing (sx, sy, max(slab, epsilon)), and the origin stepped
// back from the plane center by half the image extent along each in-plane
// axis and half the slab along the normal.
func (r *Reslicer) OutputGrid(plane PlaneRequest, raster RasterSpec) (origin geometry.Vec3, direction geometry.Mat3, spacing [3]float64, err error) {
	if err = validateRaster(raster); err != nil {
		return
	}

	e0, e1, n, err := geometry.OrthonormalBasis(plane.Normal, plane.UpHint, r.NearParallelThreshold)
	if err != nil {
		return
	}

	sx, sy := raster.PixelSpacing[0], raster.PixelSpacing[1]
	sz := raster.SlabThickness
	if sz < r.SlabEpsilon {
		sz = r.SlabEpsilon
	}

	origin = plane.Center.
		Sub(e0.Scale(0.5 * float64(raster.Width-1) * sx)).
		Sub(e1.Scale(0.5 * float64(raster.Height-1) * sy)).
		Sub(n.Scale(0.5 * sz))
	direction = geometry.ColumnMatrix(e0, e1, n)
	spacing = [3]float64{sx, sy, sz}
	return origin, direction, spacing, nil
}

// Reslice resamples vol onto the plane described by plane and raster and
// returns the resulting 2D image. Source and output grids are both
// expressed in the same physical coordinate system, so the resampling
// transform is the identity; each output pixel is a trilinear sample of
// the source at its physical position, or the fill value outside the
// source bounds.
//
// All validation failures (ErrEmptyVolume, ErrDegenerateRaster,
// geometry.ErrInvalidGeometry) are reported before any resampling work.
func (r *Reslicer) Reslice(vol *volume.Volume, plane PlaneRequest, raster RasterSpec) (*Resliced, error) {
	if err := vol.Validate(); err != nil {
		return nil, err
	}

	origin, direction, spacing, err := r.OutputGrid(plane, raster)
	if err != nil {
		return nil, err
	}
	e0 := direction.Col(0)
	e1 := direction.Col(1)

	out := &Resliced{
		Data:      make([]float32, raster.Width*raster.Height),
		Width:     raster.Width,
		Height:    raster.Height,
		Origin:    origin,
		Direction: direction,
		Spacing:   spacing,
	}

	for j := 0; j < raster.Height; j++ {
		rowStart := origin.Add(e1.Scale(float64(j) * spacing[1]))
		for i := 0; i < raster.Width; i++ {
			p := rowStart.Add(e0.Scale(float64(i) * spacing[0]))
			val, inside := vol.SampleLinear(vol.PhysicalToContinuousIndex(p))
			if !inside {
				val = raster.FillValue
			}
			out.Data[j*raster.Width+i] = val
		}
	}

	return out, nil
}

// ResliceImage is a convenience wrapper that discards the output grid
// placement and returns only the 2D pixel data.
func (r *Reslicer) ResliceImage(vol *volume.Volume, plane PlaneRequest, raster RasterSpec) (*volume.Slice2D, error) {
	res, err := r.Reslice(vol, plane, raster)
	if err != nil {
		return nil, err
	}
	return &volume.Slice2D{Data: res.Data, Width: res.Width, Height: res.Height}, nil
}
