package dicomdir

import (
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// elementStrings returns the string values of a tag, or false when the tag
// is absent or holds a different value type.
func elementStrings(ds dicom.Dataset, t tag.Tag) ([]string, bool) {
	e, err := ds.FindElementByTag(t)
	if err != nil || e == nil {
		return nil, false
	}
	vals, ok := e.Value.GetValue().([]string)
	if !ok || len(vals) == 0 {
		return nil, false
	}
	return vals, true
}

// elementString returns the first string value of a tag, trimmed of the
// padding DICOM string values carry.
func elementString(ds dicom.Dataset, t tag.Tag) (string, bool) {
	vals, ok := elementStrings(ds, t)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(vals[0]), true
}

// elementFloat parses the first value of a DS/IS tag as a float. Multi-valued
// tags (e.g. WindowCenter on some scanners) yield their first entry.
func elementFloat(ds dicom.Dataset, t tag.Tag) (float64, bool) {
	s, ok := elementString(ds, t)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// elementFloatN parses an n-valued DS tag (e.g. ImagePositionPatient).
func elementFloatN(ds dicom.Dataset, t tag.Tag, n int) ([]float64, bool) {
	vals, ok := elementStrings(ds, t)
	if !ok || len(vals) < n {
		return nil, false
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(strings.TrimSpace(vals[i]), 64)
		if err != nil {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}

// elementInt parses the first value of an IS tag as an integer.
func elementInt(ds dicom.Dataset, t tag.Tag) (int, bool) {
	s, ok := elementString(ds, t)
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return i, true
}
