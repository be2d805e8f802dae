package dicomdir

import (
	"fmt"
	"strconv"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// timeKey extracts a sortable time-point key for a dataset, trying the
// temporal tags in priority order:
//
//  1. TemporalPositionIdentifier (usually a small integer),
//  2. FrameReferenceTime (milliseconds),
//  3. AcquisitionTime (HHMMSS.FFFFFF wall clock, converted to seconds).
//
// Datasets with none of these all collapse into a single t=0 group. The
// returned label is the human-readable form shown alongside the time
// slider position.
func timeKey(ds dicom.Dataset) (tagName string, sortKey float64, label string) {
	if tpi, ok := elementInt(ds, tag.TemporalPositionIdentifier); ok {
		return "TemporalPositionIdentifier", float64(tpi), fmt.Sprintf("TPI=%d", tpi)
	}

	if frt, ok := elementFloat(ds, tag.FrameReferenceTime); ok {
		return "FrameReferenceTime", frt, fmt.Sprintf("FRT=%.0fms", frt)
	}

	if at, ok := elementString(ds, tag.AcquisitionTime); ok && at != "" {
		secs, err := parseAcquisitionTime(at)
		if err != nil {
			// Keep the group and the label, sort it as t=0.
			return "AcquisitionTime", 0, fmt.Sprintf("AT=%s", at)
		}
		return "AcquisitionTime", secs, fmt.Sprintf("AT=%s", at)
	}

	return "None", 0, "t=0"
}

// parseAcquisitionTime converts a DICOM TM value (HHMMSS.FFFFFF, with the
// fraction optional) to seconds since midnight.
func parseAcquisitionTime(s string) (float64, error) {
	if len(s) < 6 {
		return 0, fmt.Errorf("acquisition time %q too short", s)
	}
	hh, err := strconv.ParseFloat(s[0:2], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid acquisition time %q: %w", s, err)
	}
	mm, err := strconv.ParseFloat(s[2:4], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid acquisition time %q: %w", s, err)
	}
	ss, err := strconv.ParseFloat(s[4:], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid acquisition time %q: %w", s, err)
	}
	return hh*3600 + mm*60 + ss, nil
}
