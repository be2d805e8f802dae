package dicomdir

import (
	"errors"
	"math"
	"testing"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// mustElement builds an in-memory element for synthetic datasets.
func mustElement(t *testing.T, tg tag.Tag, value interface{}) *dicom.Element {
	t.Helper()
	e, err := dicom.NewElement(tg, value)
	if err != nil {
		t.Fatalf("NewElement(%v) failed: %v", tg, err)
	}
	return e
}

// TestParseAcquisitionTime covers the HHMMSS.FFFFFF conversion and its
// failure modes.
func TestParseAcquisitionTime(t *testing.T) {
	cases := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"000000", 0, false},
		{"120000", 43200, false},
		{"123015.5", 45015.5, false},
		{"235959.999999", 23*3600 + 59*60 + 59.999999, false},
		{"12", 0, true},
		{"ab0000", 0, true},
		{"12xx00", 0, true},
	}

	for _, tc := range cases {
		got, err := parseAcquisitionTime(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseAcquisitionTime(%q): expected error, got %f", tc.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseAcquisitionTime(%q): unexpected error: %v", tc.input, err)
			continue
		}
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("parseAcquisitionTime(%q): expected %f, got %f", tc.input, tc.want, got)
		}
	}
}

// TestTimeKeyPriority verifies the temporal tag precedence used for
// grouping time points.
func TestTimeKeyPriority(t *testing.T) {
	// TemporalPositionIdentifier wins over everything else.
	ds := dicom.Dataset{Elements: []*dicom.Element{
		mustElement(t, tag.TemporalPositionIdentifier, []string{"3"}),
		mustElement(t, tag.FrameReferenceTime, []string{"1500"}),
		mustElement(t, tag.AcquisitionTime, []string{"120000"}),
	}}
	name, key, label := timeKey(ds)
	if name != "TemporalPositionIdentifier" || key != 3 || label != "TPI=3" {
		t.Errorf("Expected TPI key, got (%s, %f, %s)", name, key, label)
	}

	// FrameReferenceTime next.
	ds = dicom.Dataset{Elements: []*dicom.Element{
		mustElement(t, tag.FrameReferenceTime, []string{"1500"}),
		mustElement(t, tag.AcquisitionTime, []string{"120000"}),
	}}
	name, key, label = timeKey(ds)
	if name != "FrameReferenceTime" || key != 1500 || label != "FRT=1500ms" {
		t.Errorf("Expected FRT key, got (%s, %f, %s)", name, key, label)
	}

	// AcquisitionTime converts to seconds since midnight.
	ds = dicom.Dataset{Elements: []*dicom.Element{
		mustElement(t, tag.AcquisitionTime, []string{"010130"}),
	}}
	name, key, label = timeKey(ds)
	if name != "AcquisitionTime" || key != 3690 || label != "AT=010130" {
		t.Errorf("Expected AT key, got (%s, %f, %s)", name, key, label)
	}

	// No temporal tags: a single t=0 group.
	name, key, label = timeKey(dicom.Dataset{})
	if name != "None" || key != 0 || label != "t=0" {
		t.Errorf("Expected t=0 fallback, got (%s, %f, %s)", name, key, label)
	}
}

// TestSortRecords verifies the (slice position, instance number) ordering.
func TestSortRecords(t *testing.T) {
	recs := []record{
		{z: 5, instance: 1},
		{z: 0, instance: 3},
		{z: 5, instance: 0},
		{z: -2, instance: 9},
	}
	sortRecords(recs)

	wantZ := []float64{-2, 0, 5, 5}
	wantInst := []int{9, 3, 0, 1}
	for i := range recs {
		if recs[i].z != wantZ[i] || recs[i].instance != wantInst[i] {
			t.Errorf("Record %d: expected (z=%f, inst=%d), got (z=%f, inst=%d)",
				i, wantZ[i], wantInst[i], recs[i].z, recs[i].instance)
		}
	}
}

// TestSliceSpacing covers the gap averaging and its fallbacks.
func TestSliceSpacing(t *testing.T) {
	// Mean absolute gap of ordered positions.
	recs := []record{{z: 0}, {z: 2.5}, {z: 5}}
	if got := sliceSpacing(recs); math.Abs(got-2.5) > 1e-9 {
		t.Errorf("Expected mean gap 2.5, got %f", got)
	}

	// Uneven gaps still average.
	recs = []record{{z: 0}, {z: 1}, {z: 4}}
	if got := sliceSpacing(recs); math.Abs(got-2.0) > 1e-9 {
		t.Errorf("Expected mean gap 2.0, got %f", got)
	}

	// Single slice: fall back to SliceThickness.
	ds := dicom.Dataset{Elements: []*dicom.Element{
		mustElement(t, tag.SliceThickness, []string{"3.0"}),
	}}
	recs = []record{{ds: ds, z: 0}}
	if got := sliceSpacing(recs); math.Abs(got-3.0) > 1e-9 {
		t.Errorf("Expected SliceThickness 3.0, got %f", got)
	}

	// No information at all: 1mm.
	recs = []record{{z: 0}}
	if got := sliceSpacing(recs); got != 1.0 {
		t.Errorf("Expected default spacing 1.0, got %f", got)
	}
}

// TestFillMeta verifies metadata extraction including the multi-valued
// window preset and the MONOCHROME1 invert flag.
func TestFillMeta(t *testing.T) {
	ds := dicom.Dataset{Elements: []*dicom.Element{
		mustElement(t, tag.SeriesInstanceUID, []string{"1.2.3.4"}),
		mustElement(t, tag.SeriesDescription, []string{"T1 HEAD"}),
		mustElement(t, tag.Modality, []string{"CT"}),
		mustElement(t, tag.PhotometricInterpretation, []string{"MONOCHROME1"}),
		mustElement(t, tag.WindowCenter, []string{"40", "400"}),
		mustElement(t, tag.WindowWidth, []string{"80", "2000"}),
	}}

	var m Meta
	fillMeta(&m, ds)

	if m.SeriesUID != "1.2.3.4" || m.SeriesDescription != "T1 HEAD" || m.Modality != "CT" {
		t.Errorf("Unexpected identity metadata: %+v", m)
	}
	if !m.Inverted() {
		t.Errorf("MONOCHROME1 series should report Inverted")
	}
	if !m.HasWindow || m.WindowCenter != 40 || m.WindowWidth != 80 {
		t.Errorf("Expected first window preset (40/80), got %+v", m)
	}
}

// TestFillMetaDefaults checks the fallbacks for a bare dataset.
func TestFillMetaDefaults(t *testing.T) {
	var m Meta
	fillMeta(&m, dicom.Dataset{})

	if m.Photometric != "MONOCHROME2" {
		t.Errorf("Expected default MONOCHROME2, got %q", m.Photometric)
	}
	if m.Inverted() {
		t.Errorf("Default series should not be inverted")
	}
	if m.HasWindow {
		t.Errorf("Bare dataset should not report a window preset")
	}
}

// TestLoadEmptyFolder verifies the no-series error path.
func TestLoadEmptyFolder(t *testing.T) {
	_, err := Load(t.TempDir(), nil)
	if !errors.Is(err, ErrNoSeries) {
		t.Errorf("Expected ErrNoSeries for empty folder, got %v", err)
	}
}
