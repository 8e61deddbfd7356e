package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Faultbox/sdfexport/internal/config"
	"github.com/Faultbox/sdfexport/internal/export"
)

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <snapshot.yaml>",
		Short: "Write the model directory for a snapshot",
		Example: `  sdfexport export arm.yaml
  sdfexport export arm.yaml --dialect urdf -o ./out
  sdfexport export arm.yaml --scale 0.001 --copy-meshes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.exportFile(args[0])
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
	config.BindExportFlags(cmd.Flags())
	return cmd
}

func printReport(w io.Writer, r *export.Report) {
	fmt.Fprintf(w, "Exported %s to %s\n", r.Model, r.Dir)
	for _, f := range r.Files {
		fmt.Fprintf(w, "  %s\n", f)
	}
	if len(r.Skipped) > 0 {
		fmt.Fprintf(w, "Skipped %d item(s):\n", len(r.Skipped))
		for _, s := range r.Skipped {
			fmt.Fprintf(w, "  %-5s %-20s %s\n", s.Kind, s.Item, s.Reason)
		}
	}
	for _, p := range r.Topology.Problems() {
		fmt.Fprintf(w, "Warning: %s\n", p)
	}
	fmt.Fprintf(w, "Run %s\n", r.RunID)
}
