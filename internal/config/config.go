// Package config handles exporter configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Faultbox/sdfexport/pkg/formats"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all exporter settings.
type Config struct {
	Export  ExportConfig  `yaml:"export"`
	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
}

// ExportConfig controls unit conversion and output layout.
type ExportConfig struct {
	Scale      float64         `yaml:"scale"`      // CAD length unit to meters
	Precision  int             `yaml:"precision"`  // Decimals written
	MeshScale  float64         `yaml:"mesh_scale"` // Uniform scale on mesh references
	Dialect    string          `yaml:"dialect"`    // sdf or urdf
	SDFVersion string          `yaml:"sdf_version"`
	OutputDir  string          `yaml:"output_dir"`
	ModelName  string          `yaml:"model_name"` // Empty uses the document name
	CopyMeshes bool            `yaml:"copy_meshes"`
	Stamp      bool            `yaml:"stamp"` // Write an export time comment
	Material   *MaterialConfig `yaml:"material,omitempty"`
}

// MaterialConfig is a default colour applied to every visual.
type MaterialConfig struct {
	Name string     `yaml:"name"`
	RGBA [4]float64 `yaml:"rgba"`
}

// WatchConfig holds watch mode settings.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			Scale:      0.01,
			Precision:  8,
			MeshScale:  1,
			Dialect:    "sdf",
			SDFVersion: formats.DefaultSDFVersion,
			OutputDir:  "./models",
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Dialect returns the parsed output dialect.
func (c *Config) Dialect() (formats.Dialect, error) {
	return formats.ParseDialect(c.Export.Dialect)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	e := c.Export
	switch {
	case e.Scale <= 0:
		return fmt.Errorf("%w: export.scale must be positive, got %v", ErrInvalidConfig, e.Scale)
	case e.Precision < 0 || e.Precision > 15:
		return fmt.Errorf("%w: export.precision must be between 0 and 15, got %d", ErrInvalidConfig, e.Precision)
	case e.MeshScale <= 0:
		return fmt.Errorf("%w: export.mesh_scale must be positive, got %v", ErrInvalidConfig, e.MeshScale)
	case e.OutputDir == "":
		return fmt.Errorf("%w: export.output_dir is empty", ErrInvalidConfig)
	case c.Watch.Debounce < 0:
		return fmt.Errorf("%w: watch.debounce must not be negative", ErrInvalidConfig)
	}
	if _, err := c.Dialect(); err != nil {
		return fmt.Errorf("%w: export.dialect: %v", ErrInvalidConfig, err)
	}
	if m := e.Material; m != nil {
		for _, v := range m.RGBA {
			if v < 0 || v > 1 {
				return fmt.Errorf("%w: export.material.rgba values must be in [0, 1]", ErrInvalidConfig)
			}
		}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: logging.level %q", ErrInvalidConfig, c.Logging.Level)
	}
	return nil
}
