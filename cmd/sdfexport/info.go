package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Faultbox/sdfexport/internal/config"
	"github.com/Faultbox/sdfexport/internal/extract"
	"github.com/Faultbox/sdfexport/internal/snapshot"
	"github.com/Faultbox/sdfexport/internal/topology"
	gmath "github.com/Faultbox/sdfexport/pkg/math"
)

func newInfoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <snapshot.yaml>",
		Short: "Show the links, joints and tree structure a snapshot would export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := snapshot.Load(args[0])
			if err != nil {
				return err
			}
			e, err := a.exporter()
			if err != nil {
				return err
			}
			res, topo, err := e.Analyze(snap)
			if err != nil {
				return err
			}
			printInfo(cmd.OutOrStdout(), res, topo, a.cfg.Export.Precision)
			return nil
		},
	}
	config.BindExportFlags(cmd.Flags())
	return cmd
}

func printInfo(w io.Writer, res *extract.Result, topo topology.Report, precision int) {
	r := res.Robot
	fmt.Fprintf(w, "Model: %s\n\n", r.Name)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "LINK\tPARENT\tMASS\tPOSE\n")
	for _, l := range r.Links {
		mass, pose := "-", "-"
		if l.Inertial != nil {
			mass = gmath.FormatFloat(l.Inertial.Mass, precision)
		}
		if l.Pose != nil {
			pose = l.Pose.Values(precision)
		}
		parent := l.ParentName
		if parent == "" {
			parent = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", l.Name, parent, mass, pose)
	}
	tw.Flush()

	if len(r.Joints) > 0 {
		fmt.Fprintln(w)
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "JOINT\tTYPE\tPARENT\tCHILD\tAXIS\n")
		for _, j := range r.Joints {
			axis := "-"
			if j.Axis != nil {
				axis = gmath.FormatVec3(j.Axis.XYZ, precision)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", j.Name, j.Type, j.ParentName(), j.ChildName(), axis)
		}
		tw.Flush()
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Roots: %s\n", strings.Join(topo.Roots, ", "))
	if topo.Order != nil {
		fmt.Fprintf(w, "Order: %s\n", strings.Join(topo.Order, " -> "))
	}
	if topo.IsTree() {
		fmt.Fprintln(w, "Tree: ok")
	} else {
		for _, p := range topo.Problems() {
			fmt.Fprintf(w, "Problem: %s\n", p)
		}
	}

	if len(res.Skipped) > 0 {
		fmt.Fprintf(w, "\nSkipped:\n")
		for _, s := range res.Skipped {
			fmt.Fprintf(w, "  %s %s: %s\n", s.Kind, s.Item, s.Reason)
		}
	}
}
