// Command viewer loads a DICOM series from a folder and exports windowed
// slice images: orthogonal planes, intensity projections, or an oblique
// multi-planar reformat through an arbitrary cutting plane.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"

	"github.com/ro-dina/viewer/internal/models"
	"github.com/ro-dina/viewer/pkg/config"
	"github.com/ro-dina/viewer/pkg/dicomdir"
	"github.com/ro-dina/viewer/pkg/export"
	"github.com/ro-dina/viewer/pkg/geometry"
	"github.com/ro-dina/viewer/pkg/mpr"
	"github.com/ro-dina/viewer/pkg/volume"
	"github.com/ro-dina/viewer/pkg/window"
)

func main() {
	opts := InitOptions()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if opts.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if opts.Input == "" {
		log.Fatal().Msg("missing --input folder")
	}

	cfg, err := config.LoadConfig(opts.Config)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	var bar *progressbar.ProgressBar
	series, err := dicomdir.Load(opts.Input, func(done, total int) {
		if bar == nil {
			bar = progressbar.Default(int64(total), "reading DICOM files")
		}
		_ = bar.Set(done)
	})
	if err != nil {
		log.Fatal().Err(err).Str("folder", opts.Input).Msg("failed to load series")
	}

	if opts.Time < 0 || opts.Time >= series.TimePoints() {
		log.Fatal().Int("time", opts.Time).Int("points", series.TimePoints()).
			Msg("time point out of range")
	}
	vol := series.Volumes[opts.Time]

	log.Info().
		Str("series", series.Meta.SeriesDescription).
		Str("modality", series.Meta.Modality).
		Int("timePoints", series.TimePoints()).
		Str("timeTag", series.Meta.TimeTag).
		Int("width", vol.Width).Int("height", vol.Height).Int("depth", vol.Depth).
		Floats64("spacing", vol.Spacing[:]).
		Msg("series loaded")

	if err := os.MkdirAll(opts.Output, 0755); err != nil {
		log.Fatal().Err(err).Msg("failed to create output directory")
	}

	switch {
	case opts.MIP != "":
		err = exportProjection(opts, cfg, series, vol)
	case strings.EqualFold(opts.Plane, "oblique"):
		err = exportOblique(opts, cfg, series, vol)
	default:
		err = exportOrthogonal(opts, cfg, series, vol)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("export failed")
	}
}

// windowParams resolves the WL/WW precedence: explicit flags, then the
// series preset, then percentile auto-windowing, then config defaults.
func windowParams(opts *Options, cfg *config.Config, series *dicomdir.Series, sample *volume.Slice2D) window.Params {
	p := window.Params{Level: cfg.Window.Level, Width: cfg.Window.Width, Invert: series.Meta.Inverted()}

	switch {
	case opts.Called("level") || opts.Called("width"):
		if opts.Called("level") {
			p.Level = opts.Level
		}
		if opts.Called("width") {
			p.Width = opts.Width
		}
	case series.Meta.HasWindow:
		p.Level = series.Meta.WindowCenter
		p.Width = series.Meta.WindowWidth
	case cfg.Window.Auto:
		auto := window.AutoWindow(sample)
		p.Level = auto.Level
		p.Width = auto.Width
	}
	log.Debug().Float64("level", p.Level).Float64("width", p.Width).Bool("invert", p.Invert).
		Msg("window parameters resolved")
	return p
}

// saveSlice windows a slice and writes it (plus the optional npy copy).
func saveSlice(opts *Options, cfg *config.Config, s *volume.Slice2D, p window.Params, name string) error {
	img := window.Apply(s, p)
	var err error
	if opts.PNG {
		err = window.SavePNG(img, filepath.Join(opts.Output, name+".png"))
	} else {
		err = window.SaveJPEG(img, filepath.Join(opts.Output, name+".jpg"), cfg.Export.JPEGQuality)
	}
	if err != nil {
		return err
	}
	if opts.Npy || cfg.Export.SaveNpy {
		if err := export.WriteSlice2D(filepath.Join(opts.Output, name+".npy"), s); err != nil {
			return err
		}
	}
	return nil
}

// exportOrthogonal writes one slice, or the whole sequence, along a preset
// plane.
func exportOrthogonal(opts *Options, cfg *config.Config, series *dicomdir.Series, vol *volume.Volume) error {
	preset, ok := models.PresetByName(opts.Plane)
	if !ok {
		return fmt.Errorf("unknown plane %q", opts.Plane)
	}
	axis := preset.Axis()

	length, err := vol.AxisLength(axis)
	if err != nil {
		return err
	}

	if opts.AllSlices {
		sample, err := vol.SliceAlong(axis, length/2)
		if err != nil {
			return err
		}
		p := windowParams(opts, cfg, series, sample)
		for i := 0; i < length; i++ {
			s, err := vol.SliceAlong(axis, i)
			if err != nil {
				return err
			}
			name := fmt.Sprintf("slice_%s_%03d", axis, i)
			if err := saveSlice(opts, cfg, s, p, name); err != nil {
				return err
			}
		}
		log.Info().Int("count", length).Str("plane", preset.Name).Msg("slice sequence exported")
		return nil
	}

	index := opts.Index
	if index < 0 {
		index = length / 2
	}
	s, err := vol.SliceAlong(axis, index)
	if err != nil {
		return err
	}
	p := windowParams(opts, cfg, series, s)
	name := fmt.Sprintf("slice_%s_%03d", axis, index)
	if err := saveSlice(opts, cfg, s, p, name); err != nil {
		return err
	}
	log.Info().Str("plane", preset.Name).Int("index", index).Msg("slice exported")
	return nil
}

// exportProjection writes a MIP or mean projection along the requested
// plane's axis.
func exportProjection(opts *Options, cfg *config.Config, series *dicomdir.Series, vol *volume.Volume) error {
	preset, ok := models.PresetByName(opts.Plane)
	if !ok {
		return fmt.Errorf("unknown plane %q", opts.Plane)
	}

	var mode volume.ProjectionMode
	switch strings.ToLower(opts.MIP) {
	case "max":
		mode = volume.MaximumIntensity
	case "mean":
		mode = volume.AverageIntensity
	default:
		return fmt.Errorf("unknown projection mode %q (use max or mean)", opts.MIP)
	}

	s, err := vol.Project(preset.Axis(), mode)
	if err != nil {
		return err
	}
	p := windowParams(opts, cfg, series, s)
	name := fmt.Sprintf("mip_%s_%s", preset.Axis(), strings.ToLower(opts.MIP))
	if err := saveSlice(opts, cfg, s, p, name); err != nil {
		return err
	}
	log.Info().Str("plane", preset.Name).Str("mode", opts.MIP).Msg("projection exported")
	return nil
}

// exportOblique runs the MPR engine for an arbitrary cutting plane.
func exportOblique(opts *Options, cfg *config.Config, series *dicomdir.Series, vol *volume.Volume) error {
	normal, err := parseVec3(opts.Normal)
	if err != nil {
		return fmt.Errorf("invalid --normal: %w", err)
	}
	up, err := parseVec3(opts.Up)
	if err != nil {
		return fmt.Errorf("invalid --up: %w", err)
	}
	center := vol.Center()
	if opts.Center != "" {
		if center, err = parseVec3(opts.Center); err != nil {
			return fmt.Errorf("invalid --center: %w", err)
		}
	}

	raster := cfg.Raster()
	if opts.OutWidth > 0 {
		raster.Width = opts.OutWidth
	}
	if opts.OutHeight > 0 {
		raster.Height = opts.OutHeight
	}
	if opts.SpacingX > 0 {
		raster.PixelSpacing[0] = opts.SpacingX
	}
	if opts.SpacingY > 0 {
		raster.PixelSpacing[1] = opts.SpacingY
	}
	if opts.Slab >= 0 {
		raster.SlabThickness = opts.Slab
	}
	if opts.Called("fill") {
		raster.FillValue = float32(opts.Fill)
	}

	res, err := cfg.Reslicer().Reslice(vol, mpr.PlaneRequest{
		Center: center,
		Normal: normal,
		UpHint: up,
	}, raster)
	if err != nil {
		return err
	}

	s := &volume.Slice2D{Data: res.Data, Width: res.Width, Height: res.Height}
	p := windowParams(opts, cfg, series, s)
	if err := saveSlice(opts, cfg, s, p, "mpr_oblique"); err != nil {
		return err
	}

	log.Info().
		Floats64("origin", res.Origin[:]).
		Floats64("spacing", res.Spacing[:]).
		Msg("oblique reformat exported")
	return nil
}

// parseVec3 parses an "x,y,z" command line vector.
func parseVec3(s string) (geometry.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return geometry.Vec3{}, fmt.Errorf("expected x,y,z, got %q", s)
	}
	var v geometry.Vec3
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return geometry.Vec3{}, fmt.Errorf("component %d of %q: %w", i, s, err)
		}
		v[i] = f
	}
	return v, nil
}
