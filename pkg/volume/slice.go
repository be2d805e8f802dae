package volume

import "fmt"

// Slice2D is a 2D scalar image extracted from a volume, row-major with
// Width*Height values.
type Slice2D struct {
	Data   []float32
	Width  int
	Height int
}

// At returns the intensity at pixel (x, y).
func (s *Slice2D) At(x, y int) float32 {
	return s.Data[y*s.Width+x]
}

// AxialSlice extracts the XY plane at depth index z.
func (v *Volume) AxialSlice(z int) (*Slice2D, error) {
	if z < 0 || z >= v.Depth {
		return nil, fmt.Errorf("axial index %d out of range [0,%d)", z, v.Depth)
	}
	s := &Slice2D{Data: make([]float32, v.Width*v.Height), Width: v.Width, Height: v.Height}
	copy(s.Data, v.Data[z*v.Width*v.Height:(z+1)*v.Width*v.Height])
	return s, nil
}

// CoronalSlice extracts the XZ plane at row index y. Rows of the result step
// through depth, so anatomy keeps its left/right order.
func (v *Volume) CoronalSlice(y int) (*Slice2D, error) {
	if y < 0 || y >= v.Height {
		return nil, fmt.Errorf("coronal index %d out of range [0,%d)", y, v.Height)
	}
	s := &Slice2D{Data: make([]float32, v.Width*v.Depth), Width: v.Width, Height: v.Depth}
	for z := 0; z < v.Depth; z++ {
		for x := 0; x < v.Width; x++ {
			s.Data[z*v.Width+x] = v.At(x, y, z)
		}
	}
	return s, nil
}

// SagittalSlice extracts the YZ plane at column index x.
func (v *Volume) SagittalSlice(x int) (*Slice2D, error) {
	if x < 0 || x >= v.Width {
		return nil, fmt.Errorf("sagittal index %d out of range [0,%d)", x, v.Width)
	}
	s := &Slice2D{Data: make([]float32, v.Height*v.Depth), Width: v.Height, Height: v.Depth}
	for z := 0; z < v.Depth; z++ {
		for y := 0; y < v.Height; y++ {
			s.Data[z*v.Height+y] = v.At(x, y, z)
		}
	}
	return s, nil
}

// SliceAlong extracts a slice along the named axis ("x", "y" or "z",
// case-insensitive on the single letter), matching the axis naming used by
// the slice-sequence export.
func (v *Volume) SliceAlong(axis string, index int) (*Slice2D, error) {
	switch axis {
	case "x", "X":
		return v.SagittalSlice(index)
	case "y", "Y":
		return v.CoronalSlice(index)
	case "z", "Z":
		return v.AxialSlice(index)
	default:
		return nil, fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}
}

// AxisLength returns the voxel count along the named axis.
func (v *Volume) AxisLength(axis string) (int, error) {
	switch axis {
	case "x", "X":
		return v.Width, nil
	case "y", "Y":
		return v.Height, nil
	case "z", "Z":
		return v.Depth, nil
	default:
		return 0, fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}
}
