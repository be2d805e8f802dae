// Package config provides configuration loading and management for the
// viewer. It handles loading configuration from YAML files and provides
// default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ro-dina/viewer/pkg/mpr"
	"github.com/ro-dina/viewer/pkg/window"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Reslice parameters control the oblique MPR engine
	Reslice struct {
		// NearParallelThreshold is the |dot(normal, up hint)| above which
		// the up hint is permuted before building the plane basis
		NearParallelThreshold float64 `yaml:"nearParallelThreshold"`

		// SlabEpsilon is the minimum through-plane thickness in mm
		SlabEpsilon float64 `yaml:"slabEpsilon"`

		// OutputWidth and OutputHeight are the default output raster size
		OutputWidth  int `yaml:"outputWidth"`
		OutputHeight int `yaml:"outputHeight"`

		// PixelSpacing is the default output pixel spacing in mm
		PixelSpacing [2]float64 `yaml:"pixelSpacing"`

		// SlabThickness is the default slab thickness in mm
		SlabThickness float64 `yaml:"slabThickness"`

		// FillValue is written where the plane leaves the volume
		FillValue float64 `yaml:"fillValue"`
	} `yaml:"reslice"`

	// Window parameters control the WL/WW display mapping
	Window struct {
		// Level and Width are the fallback WL/WW when the series carries
		// no preset and auto-windowing is disabled
		Level float64 `yaml:"level"`
		Width float64 `yaml:"width"`

		// Auto derives WL/WW from intensity percentiles when the series
		// carries no preset
		Auto bool `yaml:"auto"`
	} `yaml:"window"`

	// Export parameters
	Export struct {
		// JPEGQuality for exported slice images
		JPEGQuality int `yaml:"jpegQuality"`

		// SaveNpy additionally writes each exported image as a .npy array
		SaveNpy bool `yaml:"saveNpy"`
	} `yaml:"export"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default reslice parameters
	cfg.Reslice.NearParallelThreshold = 0.99
	cfg.Reslice.SlabEpsilon = mpr.DefaultSlabEpsilon
	cfg.Reslice.OutputWidth = 512
	cfg.Reslice.OutputHeight = 512
	cfg.Reslice.PixelSpacing = [2]float64{1.0, 1.0}
	cfg.Reslice.SlabThickness = 1.0
	cfg.Reslice.FillValue = 0.0

	// Set default window parameters (typical soft-tissue CT preset)
	cfg.Window.Level = 40.0
	cfg.Window.Width = 400.0
	cfg.Window.Auto = true

	// Set default export parameters
	cfg.Export.JPEGQuality = window.DefaultJPEGQuality
	cfg.Export.SaveNpy = false

	return cfg
}

// Reslicer builds an MPR reslicer from the configured thresholds
func (c *Config) Reslicer() *mpr.Reslicer {
	return &mpr.Reslicer{
		NearParallelThreshold: c.Reslice.NearParallelThreshold,
		SlabEpsilon:           c.Reslice.SlabEpsilon,
	}
}

// Raster builds the default output raster spec from the configuration
func (c *Config) Raster() mpr.RasterSpec {
	return mpr.RasterSpec{
		Width:         c.Reslice.OutputWidth,
		Height:        c.Reslice.OutputHeight,
		PixelSpacing:  c.Reslice.PixelSpacing,
		SlabThickness: c.Reslice.SlabThickness,
		FillValue:     float32(c.Reslice.FillValue),
	}
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
