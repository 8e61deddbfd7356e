package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Flag names.
const (
	FlagConfig     = "config"
	FlagDebug      = "debug"
	FlagLogFile    = "log-file"
	FlagScale      = "scale"
	FlagPrecision  = "precision"
	FlagMeshScale  = "mesh-scale"
	FlagDialect    = "dialect"
	FlagOutput     = "output"
	FlagModelName  = "model-name"
	FlagCopyMeshes = "copy-meshes"
	FlagStamp      = "stamp"
	FlagDebounce   = "debounce"
)

// BindGlobalFlags registers the flags every command accepts.
func BindGlobalFlags(fs *pflag.FlagSet) {
	fs.String(FlagConfig, "", "Path to config file")
	fs.Bool(FlagDebug, false, "Enable debug logging")
	fs.String(FlagLogFile, "", "Also write logs to this file")
}

// BindExportFlags registers the flags that override export settings.
func BindExportFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.Float64(FlagScale, d.Export.Scale, "CAD length unit to meters factor")
	fs.Int(FlagPrecision, d.Export.Precision, "Decimals kept in the output")
	fs.Float64(FlagMeshScale, d.Export.MeshScale, "Uniform scale written on mesh references")
	fs.String(FlagDialect, d.Export.Dialect, "Output dialect: sdf or urdf")
	fs.StringP(FlagOutput, "o", d.Export.OutputDir, "Output directory")
	fs.String(FlagModelName, "", "Model name (defaults to the document name)")
	fs.Bool(FlagCopyMeshes, false, "Copy mesh files named in the snapshot")
	fs.Bool(FlagStamp, false, "Write the export time into the model document")
}

// BindWatchFlags registers the watch mode flags.
func BindWatchFlags(fs *pflag.FlagSet) {
	fs.Duration(FlagDebounce, Default().Watch.Debounce, "Quiet period before re-exporting")
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath(fs *pflag.FlagSet) string {
	if fs == nil {
		return ""
	}
	path, _ := fs.GetString(FlagConfig)
	return path
}

// changed reports whether name exists on fs and was set on the command line.
func changed(fs *pflag.FlagSet, name string) bool {
	if fs == nil {
		return false
	}
	f := fs.Lookup(name)
	return f != nil && f.Changed
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	var err error
	override := func(name string, apply func() error) {
		if err == nil && changed(fs, name) {
			if e := apply(); e != nil {
				err = fmt.Errorf("flag --%s: %w", name, e)
			}
		}
	}

	override(FlagDebug, func() error {
		debug, e := fs.GetBool(FlagDebug)
		if debug {
			cfg.Logging.Level = "debug"
		}
		return e
	})
	override(FlagLogFile, func() (e error) {
		cfg.Logging.LogFile, e = fs.GetString(FlagLogFile)
		return
	})
	override(FlagScale, func() (e error) {
		cfg.Export.Scale, e = fs.GetFloat64(FlagScale)
		return
	})
	override(FlagPrecision, func() (e error) {
		cfg.Export.Precision, e = fs.GetInt(FlagPrecision)
		return
	})
	override(FlagMeshScale, func() (e error) {
		cfg.Export.MeshScale, e = fs.GetFloat64(FlagMeshScale)
		return
	})
	override(FlagDialect, func() (e error) {
		cfg.Export.Dialect, e = fs.GetString(FlagDialect)
		return
	})
	override(FlagOutput, func() (e error) {
		cfg.Export.OutputDir, e = fs.GetString(FlagOutput)
		return
	})
	override(FlagModelName, func() (e error) {
		cfg.Export.ModelName, e = fs.GetString(FlagModelName)
		return
	})
	override(FlagCopyMeshes, func() (e error) {
		cfg.Export.CopyMeshes, e = fs.GetBool(FlagCopyMeshes)
		return
	})
	override(FlagStamp, func() (e error) {
		cfg.Export.Stamp, e = fs.GetBool(FlagStamp)
		return
	})
	override(FlagDebounce, func() (e error) {
		cfg.Watch.Debounce, e = fs.GetDuration(FlagDebounce)
		return
	})
	return err
}
