package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/andrewsmike/redhdl/internal/assembly"
	"github.com/andrewsmike/redhdl/internal/debugviz"
	"github.com/andrewsmike/redhdl/internal/library"
	"github.com/andrewsmike/redhdl/internal/netlist"
)

type synthesizeOpts struct {
	netlistPath string
	libraryDir  string
	configPath  string
	outPath     string

	seed         int64
	temperature  float64
	alpha        float64
	steps        int
	onUnroutable string
	interactive  bool
}

func newSynthesizeCmd() *cobra.Command {
	opts := synthesizeOpts{}

	cmd := &cobra.Command{
		Use:   "synthesize",
		Short: "Place and route a netlist against a tile library, writing an assembled schematic",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSynthesize(cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.netlistPath, "netlist", "", "path to a netlist JSON document (required)")
	cmd.Flags().StringVar(&opts.libraryDir, "library", "", "path to a tile library directory (required)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to an assembly config YAML file (optional)")
	cmd.Flags().StringVar(&opts.outPath, "out", "", "path to write the assembled schematic (required)")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "override config seed")
	cmd.Flags().Float64Var(&opts.temperature, "temperature", 0, "override config initial temperature")
	cmd.Flags().Float64Var(&opts.alpha, "alpha", 0, "override config cooling rate alpha")
	cmd.Flags().IntVar(&opts.steps, "steps", 0, "override config steps per placement worker")
	cmd.Flags().StringVar(&opts.onUnroutable, "on-unroutable", "", "override config on_unroutable policy: skip or abort")
	cmd.Flags().BoolVar(&opts.interactive, "interactive", false, "show a live terminal progress bar while placing")

	cmd.MarkFlagRequired("netlist")
	cmd.MarkFlagRequired("library")
	cmd.MarkFlagRequired("out")

	return cmd
}

func runSynthesize(cmd *cobra.Command, opts *synthesizeOpts) error {
	logger := loggerFromContext(cmd.Context())

	nl, err := loadNetlist(opts.netlistPath)
	if err != nil {
		return err
	}

	lib, err := loadLibrary(opts.libraryDir, logger)
	if err != nil {
		return err
	}
	defer lib.Close()

	cfg, err := loadAssemblyConfig(opts.configPath, func(c *assembly.Config) {
		if cmd.Flags().Changed("seed") {
			c.Seed = opts.seed
		}
		if cmd.Flags().Changed("temperature") {
			c.Temperature0 = opts.temperature
		}
		if cmd.Flags().Changed("alpha") {
			c.Alpha = opts.alpha
		}
		if cmd.Flags().Changed("steps") {
			c.Steps = opts.steps
		}
		if cmd.Flags().Changed("on-unroutable") {
			c.OnUnroutable = assembly.OnUnroutable(opts.onUnroutable)
		}
	})
	if err != nil {
		return err
	}

	runID := uuid.New()
	logger.Printf("run %s: synthesizing %d instance(s), %d network(s)", runID, len(nl.Instances), len(nl.Networks))

	var asm *assembly.Assembly
	if opts.interactive {
		asm, err = synthesizeInteractive(nl, lib, cfg)
	} else {
		asm, err = assembly.Synthesize(nl, lib, cfg)
	}
	if err != nil {
		return err
	}

	out, err := os.Create(opts.outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := (library.GzipBlockListCodec{}).Encode(out, asm.Schematic); err != nil {
		return err
	}

	logger.Printf("run %s: wrote %d blocks to %s", runID, len(asm.Schematic), opts.outPath)
	fmt.Fprintf(cmd.OutOrStdout(), "synthesized %d blocks across %d network(s) -> %s\n", len(asm.Schematic), len(asm.Buses), opts.outPath)
	return nil
}

type synthesizeResult struct {
	asm *assembly.Assembly
	err error
}

// synthesizeInteractive runs Synthesize on a background goroutine, relaying
// placement progress to a terminal progress bar running on the calling
// goroutine (bubbletea owns the terminal and must run on its own, so
// Synthesize itself can't run inline here).
func synthesizeInteractive(nl *netlist.Netlist, lib *library.Library, cfg assembly.Config) (*assembly.Assembly, error) {
	updates := make(chan debugviz.ProgressUpdate, 64)
	done := make(chan synthesizeResult, 1)

	cfg.Progress = func(step int, temperature, bestEnergy float64) {
		select {
		case updates <- debugviz.ProgressUpdate{Step: step, Temperature: temperature, BestEnergy: bestEnergy}:
		default:
		}
	}

	go func() {
		asm, err := assembly.Synthesize(nl, lib, cfg)
		updates <- debugviz.ProgressUpdate{Done: true, Err: err}
		close(updates)
		done <- synthesizeResult{asm: asm, err: err}
	}()

	if err := debugviz.RunProgressView(cfg.Steps, updates); err != nil {
		return nil, err
	}
	result := <-done
	return result.asm, result.err
}
