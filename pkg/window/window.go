// Package window converts floating-point slice intensities to displayable
// 8-bit grayscale using window-level/window-width (WL/WW) mapping, with
// percentile-based auto-windowing when a series carries no presets.
package window

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/ro-dina/viewer/pkg/volume"
)

// MinWidth is the smallest usable window width; narrower requests are
// clamped to avoid division by zero.
const MinWidth = 1.0

// DefaultJPEGQuality matches the quality used for exported slice images.
const DefaultJPEGQuality = 90

// Params holds the WL/WW display mapping: Level is the center of the
// visible intensity range, Width its extent. Invert flips the output for
// MONOCHROME1 series.
type Params struct {
	Level  float64
	Width  float64
	Invert bool
}

// Apply maps the slice intensities to 8-bit grayscale: values at
// Level-Width/2 and below become 0, values at Level+Width/2 and above
// become 255, linear in between (reversed when Invert is set).
func Apply(s *volume.Slice2D, p Params) *image.Gray {
	width := p.Width
	if width < MinWidth {
		width = MinWidth
	}
	low := p.Level - width/2
	img := image.NewGray(image.Rect(0, 0, s.Width, s.Height))
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			norm := (float64(s.At(x, y)) - low) / width
			if norm < 0 {
				norm = 0
			} else if norm > 1 {
				norm = 1
			}
			u8 := uint8(norm * 255.0)
			if p.Invert {
				u8 = 255 - u8
			}
			img.SetGray(x, y, color.Gray{Y: u8})
		}
	}
	return img
}

// AutoWindow derives display parameters from the 1st and 99th intensity
// percentiles of the slice, the fallback used when the series metadata
// carries no window preset.
func AutoWindow(s *volume.Slice2D) Params {
	vals := make([]float64, len(s.Data))
	for i, v := range s.Data {
		vals[i] = float64(v)
	}
	sort.Float64s(vals)
	p1 := stat.Quantile(0.01, stat.Empirical, vals, nil)
	p99 := stat.Quantile(0.99, stat.Empirical, vals, nil)

	width := p99 - p1
	if width < MinWidth {
		width = MinWidth
	}
	return Params{Level: (p99 + p1) / 2, Width: width}
}

// SaveJPEG writes the image as JPEG at the given quality.
func SaveJPEG(img image.Image, filename string, quality int) error {
	if quality <= 0 {
		quality = DefaultJPEGQuality
	}
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer file.Close()

	return jpeg.Encode(file, img, &jpeg.Options{Quality: quality})
}

// SavePNG writes the image as PNG.
func SavePNG(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer file.Close()

	return png.Encode(file, img)
}
