package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/Faultbox/sdfexport/pkg/formats"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindGlobalFlags(fs)
	BindExportFlags(fs)
	BindWatchFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return fs
}

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test export defaults
	if cfg.Export.Scale != 0.01 {
		t.Errorf("expected scale 0.01, got %v", cfg.Export.Scale)
	}
	if cfg.Export.Precision != 8 {
		t.Errorf("expected precision 8, got %d", cfg.Export.Precision)
	}
	if cfg.Export.MeshScale != 1 {
		t.Errorf("expected mesh scale 1, got %v", cfg.Export.MeshScale)
	}
	if cfg.Export.Dialect != "sdf" {
		t.Errorf("expected dialect sdf, got %s", cfg.Export.Dialect)
	}
	if cfg.Export.SDFVersion != "1.5" {
		t.Errorf("expected sdf version 1.5, got %s", cfg.Export.SDFVersion)
	}
	if cfg.Export.OutputDir != "./models" {
		t.Errorf("expected output dir ./models, got %s", cfg.Export.OutputDir)
	}
	if cfg.Export.CopyMeshes || cfg.Export.Stamp {
		t.Error("expected copy_meshes and stamp to be off by default")
	}

	// Test watch defaults
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("expected debounce 500ms, got %v", cfg.Watch.Debounce)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
export:
  scale: 0.001
  precision: 5
  mesh_scale: 0.001
  dialect: urdf
  output_dir: /tmp/out
  model_name: arm
  copy_meshes: true
  material:
    name: steel
    rgba: [0.7, 0.7, 0.75, 1]

watch:
  debounce: 2s

logging:
  level: "debug"
  log_file: "export.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Export.Scale != 0.001 {
		t.Errorf("expected scale 0.001, got %v", cfg.Export.Scale)
	}
	if cfg.Export.Precision != 5 {
		t.Errorf("expected precision 5, got %d", cfg.Export.Precision)
	}
	if d, _ := cfg.Dialect(); d != formats.DialectURDF {
		t.Errorf("expected urdf dialect, got %v", d)
	}
	if cfg.Export.ModelName != "arm" || !cfg.Export.CopyMeshes {
		t.Errorf("unexpected export config: %+v", cfg.Export)
	}
	if cfg.Export.Material == nil || cfg.Export.Material.RGBA != [4]float64{0.7, 0.7, 0.75, 1} {
		t.Errorf("unexpected material: %+v", cfg.Export.Material)
	}
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("expected debounce 2s, got %v", cfg.Watch.Debounce)
	}

	// Unset keys keep their defaults
	if cfg.Export.SDFVersion != "1.5" {
		t.Errorf("expected default sdf version, got %s", cfg.Export.SDFVersion)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "export.log" {
		t.Errorf("expected log file 'export.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
export:
  scale: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	// Keep the user's real config out of the search
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	tmpDir := t.TempDir()
	chdir(t, tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create sdfexport.yaml in current directory
	configPath := filepath.Join(tmpDir, FileName)
	if err := os.WriteFile(configPath, []byte("export:\n  precision: 3\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Error("expected to find sdfexport.yaml in current directory")
	}
}

func TestSaveIsFoundByLoad(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("config dir layout checked on linux only")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	chdir(t, t.TempDir())

	cfg := Default()
	cfg.Export.Dialect = "urdf"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if got := findConfigFile(); got != DefaultPath() {
		t.Errorf("findConfigFile = %q, want %q", got, DefaultPath())
	}
	loaded, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Export.Dialect != "urdf" {
		t.Errorf("expected saved dialect urdf, got %s", loaded.Export.Dialect)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		verify func(*testing.T, *Config)
	}{
		{
			name: "debug flag",
			args: []string{"--debug"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name: "export flags",
			args: []string{"--scale", "0.001", "--precision", "4", "--dialect", "urdf", "-o", "out", "--copy-meshes"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Export.Scale != 0.001 || cfg.Export.Precision != 4 {
					t.Errorf("unexpected scale/precision: %v/%d", cfg.Export.Scale, cfg.Export.Precision)
				}
				if cfg.Export.Dialect != "urdf" || cfg.Export.OutputDir != "out" || !cfg.Export.CopyMeshes {
					t.Errorf("unexpected export config: %+v", cfg.Export)
				}
			},
		},
		{
			name: "watch flags",
			args: []string{"--debounce", "1s", "--log-file", "w.log"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Watch.Debounce != time.Second {
					t.Errorf("expected debounce 1s, got %v", cfg.Watch.Debounce)
				}
				if cfg.Logging.LogFile != "w.log" {
					t.Errorf("expected log file w.log, got %s", cfg.Logging.LogFile)
				}
			},
		},
		{
			name: "unset flags keep config values",
			args: nil,
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Export.Precision != 3 {
					t.Errorf("expected precision 3 from config, got %d", cfg.Export.Precision)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Export.Precision = 3
			if err := applyFlags(cfg, newFlags(t, tt.args...)); err != nil {
				t.Fatalf("applyFlags: %v", err)
			}
			tt.verify(t, cfg)
		})
	}
}

func TestApplyFlagsNilSet(t *testing.T) {
	cfg := Default()
	if err := applyFlags(cfg, nil); err != nil {
		t.Fatalf("applyFlags(nil): %v", err)
	}
	if *cfg != *Default() {
		t.Error("nil flag set must not change the config")
	}
}

func TestLoadPriority(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
export:
  precision: 6
  scale: 0.001
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	fs := newFlags(t, "--config", configPath, "--precision", "2")

	// Load config
	cfg, err := Load(fs)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Precision should be from flag (2), not file (6)
	if cfg.Export.Precision != 2 {
		t.Errorf("expected precision 2 from flag, got %d", cfg.Export.Precision)
	}

	// Scale should be from file since no flag override
	if cfg.Export.Scale != 0.001 {
		t.Errorf("expected scale 0.001 from file, got %v", cfg.Export.Scale)
	}

	// Mesh scale was in neither, so the default holds
	if cfg.Export.MeshScale != 1 {
		t.Errorf("expected default mesh scale, got %v", cfg.Export.MeshScale)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	fs := newFlags(t, "--dialect", "mjcf")
	_, err := Load(fs)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero scale", func(c *Config) { c.Export.Scale = 0 }},
		{"negative precision", func(c *Config) { c.Export.Precision = -1 }},
		{"huge precision", func(c *Config) { c.Export.Precision = 40 }},
		{"zero mesh scale", func(c *Config) { c.Export.MeshScale = 0 }},
		{"empty output", func(c *Config) { c.Export.OutputDir = "" }},
		{"unknown dialect", func(c *Config) { c.Export.Dialect = "mjcf" }},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = -time.Second }},
		{"bad colour", func(c *Config) { c.Export.Material = &MaterialConfig{RGBA: [4]float64{2, 0, 0, 1}} }},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Export.ModelName = "arm"
	cfg.Export.Material = &MaterialConfig{Name: "red", RGBA: [4]float64{1, 0, 0, 1}}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}
	if loaded.Export.ModelName != "arm" || loaded.Export.Material == nil || loaded.Export.Material.Name != "red" {
		t.Errorf("round trip lost values: %+v", loaded.Export)
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (stand-in for testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
