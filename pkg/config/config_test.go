package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestDefaultConfig verifies the built-in defaults.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Reslice.NearParallelThreshold != 0.99 {
		t.Errorf("Expected nearParallelThreshold=0.99, got %f", cfg.Reslice.NearParallelThreshold)
	}
	if cfg.Reslice.SlabEpsilon != 1e-3 {
		t.Errorf("Expected slabEpsilon=1e-3, got %f", cfg.Reslice.SlabEpsilon)
	}
	if cfg.Reslice.OutputWidth != 512 || cfg.Reslice.OutputHeight != 512 {
		t.Errorf("Expected 512x512 default raster, got %dx%d",
			cfg.Reslice.OutputWidth, cfg.Reslice.OutputHeight)
	}
	if !cfg.Window.Auto {
		t.Errorf("Expected auto windowing enabled by default")
	}
	if cfg.Export.JPEGQuality != 90 {
		t.Errorf("Expected jpegQuality=90, got %d", cfg.Export.JPEGQuality)
	}
}

// TestReslicerFromConfig checks the translation into an mpr.Reslicer and
// raster spec.
func TestReslicerFromConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Reslice.NearParallelThreshold = 0.5
	cfg.Reslice.SlabEpsilon = 0.25
	cfg.Reslice.FillValue = -1000

	r := cfg.Reslicer()
	if r.NearParallelThreshold != 0.5 || r.SlabEpsilon != 0.25 {
		t.Errorf("Reslicer thresholds not carried over: %+v", r)
	}

	raster := cfg.Raster()
	if raster.FillValue != -1000 {
		t.Errorf("Expected fill value -1000, got %f", raster.FillValue)
	}
	if raster.Width != 512 || raster.Height != 512 {
		t.Errorf("Expected 512x512 raster, got %dx%d", raster.Width, raster.Height)
	}
}

// TestLoadConfigMissingFile returns defaults when no file exists.
func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Reslice.OutputWidth != 512 {
		t.Errorf("Expected default config for missing file")
	}
}

// TestConfigRoundTrip saves and reloads a modified configuration.
func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "viewer.yaml")

	cfg := DefaultConfig()
	cfg.Reslice.SlabThickness = 5.0
	cfg.Window.Level = -600
	cfg.Window.Width = 1500
	cfg.Export.SaveNpy = true

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Reslice.SlabThickness != 5.0 {
		t.Errorf("Expected slabThickness=5.0, got %f", loaded.Reslice.SlabThickness)
	}
	if loaded.Window.Level != -600 || loaded.Window.Width != 1500 {
		t.Errorf("Window preset not restored: %+v", loaded.Window)
	}
	if !loaded.Export.SaveNpy {
		t.Errorf("Expected saveNpy=true after reload")
	}
}

// TestLoadConfigInvalidYAML rejects malformed files.
func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("reslice: ["), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Errorf("Expected error for malformed YAML")
	}
}
