package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrewsmike/redhdl/internal/assembly"
	"github.com/andrewsmike/redhdl/internal/debugviz"
)

type debugBussingOpts struct {
	netlistPath string
	libraryDir  string
	configPath  string
	dotOutPath  string
	svgOutPath  string

	watch bool
	addr  string
}

func newDebugBussingCmd() *cobra.Command {
	opts := debugBussingOpts{addr: "localhost:8089"}

	cmd := &cobra.Command{
		Use:   "debug-bussing",
		Short: "Render a netlist's instance/network graph and optionally watch a live routing run",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDebugBussing(cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.netlistPath, "netlist", "", "path to a netlist JSON document (required)")
	cmd.Flags().StringVar(&opts.libraryDir, "library", "", "path to a tile library directory (required with --watch)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to an assembly config YAML file (optional, used with --watch)")
	cmd.Flags().StringVar(&opts.dotOutPath, "dot-out", "", "path to write the netlist graph as Graphviz DOT (optional)")
	cmd.Flags().StringVar(&opts.svgOutPath, "svg-out", "", "path to write the netlist graph as SVG (optional)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "run synthesize and stream routing progress over websocket")
	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address for --watch's progress stream (loopback only)")

	cmd.MarkFlagRequired("netlist")

	return cmd
}

func runDebugBussing(cmd *cobra.Command, opts *debugBussingOpts) error {
	logger := loggerFromContext(cmd.Context())

	nl, err := loadNetlist(opts.netlistPath)
	if err != nil {
		return err
	}

	dot := debugviz.NetlistDOT(nl)
	if opts.dotOutPath != "" {
		if err := os.WriteFile(opts.dotOutPath, []byte(dot), 0o644); err != nil {
			return err
		}
		logger.Printf("wrote netlist DOT to %s", opts.dotOutPath)
	}
	if opts.svgOutPath != "" {
		svg, err := debugviz.RenderSVG(dot)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.svgOutPath, svg, 0o644); err != nil {
			return err
		}
		logger.Printf("wrote netlist SVG to %s", opts.svgOutPath)
	}

	if !opts.watch {
		fmt.Fprintln(cmd.OutOrStdout(), dot)
		return nil
	}

	if opts.libraryDir == "" {
		return fmt.Errorf("--watch requires --library")
	}
	lib, err := loadLibrary(opts.libraryDir, logger)
	if err != nil {
		return err
	}
	defer lib.Close()

	cfg, err := loadAssemblyConfig(opts.configPath, nil)
	if err != nil {
		return err
	}

	server := debugviz.NewServer(logger)
	cfg.Progress = func(step int, temperature, bestEnergy float64) {
		server.Broadcast(debugviz.ProgressEvent{Type: "placement_step", Step: step, Temperature: temperature, BestEnergy: bestEnergy})
	}

	mux := http.NewServeMux()
	mux.Handle("/progress", server.Handler())
	httpServer := &http.Server{Addr: opts.addr, Handler: mux}

	serveErr := make(chan error, 1)
	go func() { serveErr <- httpServer.ListenAndServe() }()
	logger.Printf("debug-bussing: streaming progress on ws://%s/progress", opts.addr)

	asm, synthErr := assembly.Synthesize(nl, lib, cfg)
	if synthErr != nil {
		server.Broadcast(debugviz.ProgressEvent{Type: "error", Message: synthErr.Error()})
	} else {
		for _, id := range asm.Netlist.SortedNetworkIDs() {
			if _, routed := asm.Buses[id]; routed {
				server.Broadcast(debugviz.ProgressEvent{Type: "routed", NetworkID: string(id)})
			} else {
				server.Broadcast(debugviz.ProgressEvent{Type: "skipped", NetworkID: string(id)})
			}
		}
		server.Broadcast(debugviz.ProgressEvent{Type: "done"})
	}

	_ = httpServer.Close()
	<-serveErr

	return synthErr
}
