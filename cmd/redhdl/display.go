package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrewsmike/redhdl/internal/debugviz"
	"github.com/andrewsmike/redhdl/internal/geom"
	"github.com/andrewsmike/redhdl/internal/library"
	"github.com/andrewsmike/redhdl/internal/netlist"
)

type displayOpts struct {
	schemPath   string
	netlistPath string
	noTUI       bool
	axis        string
}

func newDisplayCmd() *cobra.Command {
	opts := displayOpts{axis: "y"}

	cmd := &cobra.Command{
		Use:   "display",
		Short: "View an assembled schematic, as an interactive slice viewer or an ASCII projection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDisplay(cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.schemPath, "schem", "", "path to an assembled schematic written by synthesize (required)")
	cmd.Flags().StringVar(&opts.netlistPath, "netlist", "", "path to the netlist the schematic was synthesized from (optional, for the header summary)")
	cmd.Flags().BoolVar(&opts.noTUI, "no-tui", false, "print a static ASCII orthographic projection instead of the interactive viewer")
	cmd.Flags().StringVar(&opts.axis, "axis", "y", "projection axis for --no-tui: x, y, or z")

	cmd.MarkFlagRequired("schem")

	return cmd
}

func runDisplay(cmd *cobra.Command, opts *displayOpts) error {
	schem, err := library.LoadSchem(opts.schemPath, library.GzipBlockListCodec{})
	if err != nil {
		return err
	}

	var nl *netlist.Netlist
	if opts.netlistPath != "" {
		nl, err = loadNetlist(opts.netlistPath)
		if err != nil {
			return err
		}
	}

	if opts.noTUI {
		axis, err := parseAxis(opts.axis)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), geom.DisplayOrthographic([]geom.Region{schem.Region()}, axis))
		return nil
	}

	return debugviz.RunSliceViewer(schem, nl)
}

func parseAxis(s string) (geom.Axis, error) {
	switch s {
	case "x":
		return geom.AxisX, nil
	case "y":
		return geom.AxisY, nil
	case "z":
		return geom.AxisZ, nil
	default:
		return 0, fmt.Errorf("unknown axis %q: must be x, y, or z", s)
	}
}
