// Package dicomdir loads a folder of DICOM files into per-time-point 3D
// volumes. It walks the folder, keeps the first series it finds, groups
// instances by their temporal tag, sorts each group into anatomical order
// and stacks the frames into physical-space volumes with rescaled
// intensities.
package dicomdir

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/ro-dina/viewer/pkg/geometry"
	"github.com/ro-dina/viewer/pkg/volume"
)

// ErrNoSeries is returned when the folder holds no readable DICOM image.
var ErrNoSeries = errors.New("no DICOM series found")

// ErrCompressedPixelData is returned for encapsulated (compressed) transfer
// syntaxes, which this loader does not decode.
var ErrCompressedPixelData = errors.New("compressed pixel data not supported")

// ProgressFunc reports file-level loading progress.
type ProgressFunc func(done, total int)

// Meta carries the display-relevant series metadata.
type Meta struct {
	SeriesUID         string
	SeriesDescription string
	Modality          string

	// Photometric is the PhotometricInterpretation; MONOCHROME1 series
	// are displayed inverted.
	Photometric string

	// WindowCenter and WindowWidth are the scanner's display presets;
	// HasWindow is false when the series carries none and the viewer
	// falls back to percentile auto-windowing.
	WindowCenter float64
	WindowWidth  float64
	HasWindow    bool

	// TimeTag names the DICOM tag used to separate time points.
	TimeTag string
}

// Inverted reports whether the series uses inverted grayscale.
func (m Meta) Inverted() bool {
	return strings.EqualFold(m.Photometric, "MONOCHROME1")
}

// Series is one loaded DICOM series: a volume per time point plus shared
// metadata. All volumes share dimensions, spacing and orientation.
type Series struct {
	Volumes    []*volume.Volume
	TimeKeys   []float64
	TimeLabels []string
	Meta       Meta
}

// Volume returns the first time point, the common case for static series.
func (s *Series) Volume() *volume.Volume {
	return s.Volumes[0]
}

// TimePoints returns the number of time points in the series.
func (s *Series) TimePoints() int {
	return len(s.Volumes)
}

// record is one parsed instance before grouping.
type record struct {
	ds        dicom.Dataset
	seriesUID string
	timeName  string
	timeKey   float64
	timeLabel string
	z         float64
	instance  int
}

// Load reads all DICOM files under folder and assembles the first series
// into time-point volumes. progress may be nil.
func Load(folder string, progress ProgressFunc) (*Series, error) {
	var paths []string
	err := filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", folder, err)
	}

	var recs []record
	for i, path := range paths {
		if rec, ok := parseRecord(path); ok {
			recs = append(recs, rec)
		}
		if progress != nil {
			progress(i+1, len(paths))
		}
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoSeries, folder)
	}

	// Only the first series encountered is loaded.
	first := recs[0].seriesUID
	kept := recs[:0]
	for _, r := range recs {
		if r.seriesUID == first {
			kept = append(kept, r)
		}
	}
	return assembleSeries(kept)
}

// parseRecord parses one file and extracts the grouping keys. Files that
// are not DICOM, carry no pixel data or no series UID are skipped.
func parseRecord(path string) (record, bool) {
	ds, err := dicom.ParseFile(path, nil)
	if err != nil {
		return record{}, false
	}
	if _, err := ds.FindElementByTag(tag.PixelData); err != nil {
		return record{}, false
	}
	seriesUID, ok := elementString(ds, tag.SeriesInstanceUID)
	if !ok || seriesUID == "" {
		return record{}, false
	}

	name, key, label := timeKey(ds)
	instance, _ := elementInt(ds, tag.InstanceNumber)

	z := float64(instance)
	if ipp, ok := elementFloatN(ds, tag.ImagePositionPatient, 3); ok {
		z = ipp[2]
	}

	return record{
		ds:        ds,
		seriesUID: seriesUID,
		timeName:  name,
		timeKey:   key,
		timeLabel: label,
		z:         z,
		instance:  instance,
	}, true
}

// assembleSeries groups records by time key and stacks each group into a
// volume.
func assembleSeries(recs []record) (*Series, error) {
	groups := make(map[float64][]record)
	labels := make(map[float64]string)
	timeTag := ""
	for _, r := range recs {
		if timeTag == "" {
			timeTag = r.timeName
		}
		groups[r.timeKey] = append(groups[r.timeKey], r)
		labels[r.timeKey] = r.timeLabel
	}

	keys := make([]float64, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Float64s(keys)

	series := &Series{Meta: Meta{TimeTag: timeTag}}
	for i, key := range keys {
		group := groups[key]
		sortRecords(group)

		vol, err := stackVolume(group)
		if err != nil {
			return nil, fmt.Errorf("time point %d: %w", i, err)
		}

		if i == 0 {
			fillMeta(&series.Meta, group[0].ds)
			applyGeometry(vol, group)
		} else {
			// Later time points share the first one's placement.
			vol.Spacing = series.Volumes[0].Spacing
			vol.Origin = series.Volumes[0].Origin
			vol.Direction = series.Volumes[0].Direction
		}

		series.Volumes = append(series.Volumes, vol)
		series.TimeKeys = append(series.TimeKeys, key)
		series.TimeLabels = append(series.TimeLabels, labels[key])
	}

	return series, nil
}

// sortRecords orders one time group into anatomical order: slice position
// first, instance number as the tie breaker.
func sortRecords(recs []record) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].z != recs[j].z {
			return recs[i].z < recs[j].z
		}
		return recs[i].instance < recs[j].instance
	})
}

// stackVolume decodes the pixel data of an ordered group into one volume,
// applying the modality rescale.
func stackVolume(recs []record) (*volume.Volume, error) {
	slope := 1.0
	intercept := 0.0
	if s, ok := elementFloat(recs[0].ds, tag.RescaleSlope); ok {
		slope = s
	}
	if b, ok := elementFloat(recs[0].ds, tag.RescaleIntercept); ok {
		intercept = b
	}

	var vol *volume.Volume
	for i, rec := range recs {
		pde, err := rec.ds.FindElementByTag(tag.PixelData)
		if err != nil {
			return nil, fmt.Errorf("slice %d: missing pixel data: %w", i, err)
		}
		info, ok := pde.Value.GetValue().(dicom.PixelDataInfo)
		if !ok {
			return nil, fmt.Errorf("slice %d: unexpected pixel data value type", i)
		}
		if info.IsEncapsulated {
			return nil, fmt.Errorf("slice %d: %w", i, ErrCompressedPixelData)
		}
		if len(info.Frames) == 0 {
			return nil, fmt.Errorf("slice %d: no frames", i)
		}
		native, err := info.Frames[0].GetNativeFrame()
		if err != nil {
			return nil, fmt.Errorf("slice %d: failed to decode frame: %w", i, err)
		}

		if vol == nil {
			vol, err = volume.New(native.Cols, native.Rows, len(recs), [3]float64{1, 1, 1})
			if err != nil {
				return nil, err
			}
		}
		if native.Cols != vol.Width || native.Rows != vol.Height {
			return nil, fmt.Errorf("slice %d: size %dx%d does not match %dx%d",
				i, native.Cols, native.Rows, vol.Width, vol.Height)
		}

		base := i * vol.Width * vol.Height
		for p, samples := range native.Data {
			vol.Data[base+p] = float32(float64(samples[0])*slope + intercept)
		}
	}
	return vol, nil
}

// fillMeta extracts the display metadata from the first instance.
func fillMeta(m *Meta, ds dicom.Dataset) {
	m.SeriesUID, _ = elementString(ds, tag.SeriesInstanceUID)
	m.SeriesDescription, _ = elementString(ds, tag.SeriesDescription)
	m.Modality, _ = elementString(ds, tag.Modality)

	m.Photometric = "MONOCHROME2"
	if pm, ok := elementString(ds, tag.PhotometricInterpretation); ok {
		m.Photometric = strings.ToUpper(pm)
	}

	wc, okC := elementFloat(ds, tag.WindowCenter)
	ww, okW := elementFloat(ds, tag.WindowWidth)
	if okC && okW {
		m.WindowCenter = wc
		m.WindowWidth = ww
		m.HasWindow = true
	}
}

// applyGeometry derives spacing, origin and orientation for a stacked
// volume from the DICOM position tags of its ordered slices.
func applyGeometry(vol *volume.Volume, recs []record) {
	ds0 := recs[0].ds

	// PixelSpacing is (row, column) mm, i.e. (y, x).
	sx, sy := 1.0, 1.0
	if ps, ok := elementFloatN(ds0, tag.PixelSpacing, 2); ok && ps[0] > 0 && ps[1] > 0 {
		sy, sx = ps[0], ps[1]
	}
	vol.Spacing = [3]float64{sx, sy, sliceSpacing(recs)}

	if ipp, ok := elementFloatN(ds0, tag.ImagePositionPatient, 3); ok {
		vol.Origin = geometry.Vec3{ipp[0], ipp[1], ipp[2]}
	}

	if iop, ok := elementFloatN(ds0, tag.ImageOrientationPatient, 6); ok {
		row := geometry.Vec3{iop[0], iop[1], iop[2]}
		col := geometry.Vec3{iop[3], iop[4], iop[5]}
		dir := geometry.ColumnMatrix(row, col, row.Cross(col))
		if dir.IsOrthonormal(1e-3) {
			vol.Direction = dir
		}
	}
}

// sliceSpacing estimates the through-plane spacing: mean absolute gap
// between consecutive slice positions, falling back to SliceThickness for
// single-slice groups.
func sliceSpacing(recs []record) float64 {
	if len(recs) >= 2 {
		sum := 0.0
		for i := 1; i < len(recs); i++ {
			sum += math.Abs(recs[i].z - recs[i-1].z)
		}
		if gap := sum / float64(len(recs)-1); gap > 0 {
			return gap
		}
	}
	if thick, ok := elementFloat(recs[0].ds, tag.SliceThickness); ok && thick > 0 {
		return thick
	}
	return 1.0
}
