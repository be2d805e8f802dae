package volume

import "fmt"

// ProjectionMode selects how intensities along the projection axis are
// collapsed into a single pixel.
type ProjectionMode int

const (
	// MaximumIntensity keeps the brightest voxel along each ray (MIP).
	MaximumIntensity ProjectionMode = iota

	// AverageIntensity averages all voxels along each ray.
	AverageIntensity
)

// Project collapses the volume along the named axis into a 2D image using
// the given blend mode. The output orientation matches the corresponding
// orthogonal slice for that axis.
func (v *Volume) Project(axis string, mode ProjectionMode) (*Slice2D, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if mode != MaximumIntensity && mode != AverageIntensity {
		return nil, fmt.Errorf("invalid projection mode: %d", mode)
	}

	switch axis {
	case "z", "Z":
		s := &Slice2D{Data: make([]float32, v.Width*v.Height), Width: v.Width, Height: v.Height}
		for y := 0; y < v.Height; y++ {
			for x := 0; x < v.Width; x++ {
				s.Data[y*v.Width+x] = v.projectRay(x, y, 0, 0, 0, 1, v.Depth, mode)
			}
		}
		return s, nil
	case "y", "Y":
		s := &Slice2D{Data: make([]float32, v.Width*v.Depth), Width: v.Width, Height: v.Depth}
		for z := 0; z < v.Depth; z++ {
			for x := 0; x < v.Width; x++ {
				s.Data[z*v.Width+x] = v.projectRay(x, 0, z, 0, 1, 0, v.Height, mode)
			}
		}
		return s, nil
	case "x", "X":
		s := &Slice2D{Data: make([]float32, v.Height*v.Depth), Width: v.Height, Height: v.Depth}
		for z := 0; z < v.Depth; z++ {
			for y := 0; y < v.Height; y++ {
				s.Data[z*v.Height+y] = v.projectRay(0, y, z, 1, 0, 0, v.Width, mode)
			}
		}
		return s, nil
	default:
		return nil, fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}
}

// projectRay walks n voxels from (x,y,z) stepping by (dx,dy,dz) and blends
// them according to mode.
func (v *Volume) projectRay(x, y, z, dx, dy, dz, n int, mode ProjectionMode) float32 {
	maxVal := v.At(x, y, z)
	sum := 0.0
	for i := 0; i < n; i++ {
		val := v.At(x+i*dx, y+i*dy, z+i*dz)
		sum += float64(val)
		if val > maxVal {
			maxVal = val
		}
	}
	if mode == AverageIntensity {
		return float32(sum / float64(n))
	}
	return maxVal
}
