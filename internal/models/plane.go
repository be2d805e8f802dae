package models

import (
	"strings"

	"github.com/ro-dina/viewer/pkg/geometry"
)

// PlanePreset is a named cutting-plane orientation in patient space.
type PlanePreset struct {
	// Name is the anatomical plane name
	Name string

	// Normal is the plane's through axis
	Normal geometry.Vec3

	// UpHint orients the in-plane vertical axis
	UpHint geometry.Vec3
}

// The three standard anatomical planes. Oblique requests supply their own
// normal and up hint instead.
var (
	Axial    = PlanePreset{Name: "axial", Normal: geometry.Vec3{0, 0, 1}, UpHint: geometry.Vec3{0, 1, 0}}
	Coronal  = PlanePreset{Name: "coronal", Normal: geometry.Vec3{0, 1, 0}, UpHint: geometry.Vec3{0, 0, 1}}
	Sagittal = PlanePreset{Name: "sagittal", Normal: geometry.Vec3{1, 0, 0}, UpHint: geometry.Vec3{0, 0, 1}}
)

// PresetByName looks up a standard plane by its (case-insensitive) name.
func PresetByName(name string) (PlanePreset, bool) {
	switch strings.ToLower(name) {
	case "axial", "z":
		return Axial, true
	case "coronal", "y":
		return Coronal, true
	case "sagittal", "x":
		return Sagittal, true
	default:
		return PlanePreset{}, false
	}
}

// Axis returns the volume index axis a preset slices along, for the
// orthogonal (non-resampled) extraction path.
func (p PlanePreset) Axis() string {
	switch p.Name {
	case "axial":
		return "z"
	case "coronal":
		return "y"
	case "sagittal":
		return "x"
	default:
		return ""
	}
}
