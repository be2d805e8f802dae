// Package export writes slices, reformats and whole volumes as NumPy .npy
// files so downstream analysis scripts can consume them directly.
package export

import (
	"fmt"

	"github.com/kshedden/gonpy"

	"github.com/ro-dina/viewer/pkg/mpr"
	"github.com/ro-dina/viewer/pkg/volume"
)

// writeFloat32 writes a flat float32 array with the given shape.
func writeFloat32(path string, shape []int, data []float32) error {
	w, err := gonpy.NewFileWriter(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	w.Shape = shape
	w.Version = 2
	if err := w.WriteFloat32(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// WriteSlice2D writes a 2D slice as a (height, width) array.
func WriteSlice2D(path string, s *volume.Slice2D) error {
	return writeFloat32(path, []int{s.Height, s.Width}, s.Data)
}

// WriteResliced writes an oblique reformat as a (height, width) array. The
// grid placement (origin, direction, spacing) is not representable in the
// npy header and is the caller's to record.
func WriteResliced(path string, r *mpr.Resliced) error {
	return writeFloat32(path, []int{r.Height, r.Width}, r.Data)
}

// WriteVolume writes a whole volume as a (depth, height, width) array,
// matching the [Z,Y,X] layout medical imaging toolkits expect.
func WriteVolume(path string, v *volume.Volume) error {
	if err := v.Validate(); err != nil {
		return err
	}
	return writeFloat32(path, []int{v.Depth, v.Height, v.Width}, v.Data)
}
