package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/sdfexport/internal/config"
	"github.com/Faultbox/sdfexport/internal/logger"
	"github.com/Faultbox/sdfexport/internal/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <snapshot.yaml>",
		Short: "Export a snapshot and re-export it every time it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, cmd, args[0])
		},
	}
	config.BindExportFlags(cmd.Flags())
	config.BindWatchFlags(cmd.Flags())
	return cmd
}

func (a *app) watch(ctx context.Context, cmd *cobra.Command, path string) error {
	out := cmd.OutOrStdout()
	log := logger.Named("watch")

	// A broken first export is reported but does not stop watching; the
	// next save may fix it.
	run := func(context.Context) error {
		report, err := a.exportFile(path)
		if err != nil {
			return err
		}
		printReport(out, report)
		return nil
	}
	if err := run(ctx); err != nil {
		log.Error("initial export failed", zap.Error(err))
		fmt.Fprintf(cmd.ErrOrStderr(), "Export failed: %v\n", err)
	}

	w, err := watch.New(path, a.cfg.Watch.Debounce, run, log)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", path)
	return w.Run(ctx)
}
