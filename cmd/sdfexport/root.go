package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/sdfexport/internal/config"
	"github.com/Faultbox/sdfexport/internal/export"
	"github.com/Faultbox/sdfexport/internal/logger"
	"github.com/Faultbox/sdfexport/internal/snapshot"
)

// app carries what PersistentPreRunE resolved for the running command.
type app struct {
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "sdfexport",
		Short: "Export CAD assemblies as SDF or URDF robot models",
		Long: `sdfexport reads a CAD assembly snapshot, turns its parts into links and its
insert/mate constraints into joints, and writes a model directory:

  <output>/<model>/model.sdf     (or model.urdf)
  <output>/<model>/model.config
  <output>/<model>/meshes/       (with --copy-meshes)

Settings come from defaults, then sdfexport.yaml, then command line flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.cfg = cfg
			if cfg.Logging.LogFile != "" {
				logger.Info("logging to file",
					zap.String("command", cmd.CommandPath()),
					zap.String("path", cfg.Logging.LogFile))
			}
			logger.Debug("config loaded",
				zap.String("command", cmd.Name()),
				zap.String("dialect", cfg.Export.Dialect),
				zap.String("output", cfg.Export.OutputDir))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Close()
		},
	}

	config.BindGlobalFlags(root.PersistentFlags())

	root.AddCommand(
		newExportCmd(a),
		newInfoCmd(a),
		newWatchCmd(a),
		newConfigCmd(a),
	)
	return root
}

// exporter builds an exporter from the loaded config.
func (a *app) exporter() (*export.Exporter, error) {
	opts, err := export.OptionsFromConfig(a.cfg)
	if err != nil {
		return nil, err
	}
	return export.New(opts, logger.Named("export")), nil
}

// exportFile loads the snapshot at path and exports it.
func (a *app) exportFile(path string) (*export.Report, error) {
	snap, err := snapshot.Load(path)
	if err != nil {
		return nil, err
	}
	e, err := a.exporter()
	if err != nil {
		return nil, err
	}
	return e.Run(snap)
}
