// Command redhdl is the CLI named in §6: synthesize a netlist against a
// tile library, display an assembled schematic, and debug a netlist's
// bussing before committing to a full synthesis run.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/andrewsmike/redhdl/internal/rherrors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, "redhdl:", err)
		os.Exit(exitCode(err))
	}
}

func run(ctx context.Context) error {
	logger := log.New(os.Stderr, "redhdl: ", log.LstdFlags|log.Lmicroseconds)

	root := &cobra.Command{
		Use:           "redhdl",
		Short:         "Synthesize 3-D voxel redstone circuits from a netlist and a tile library",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cmd.SetContext(withLogger(cmd.Context(), logger))
	}

	root.AddCommand(newSynthesizeCmd())
	root.AddCommand(newDisplayCmd())
	root.AddCommand(newDebugBussingCmd())

	return root.ExecuteContext(ctx)
}

// exitCode maps the closed rherrors taxonomy to §6's exit codes: 0 success
// (unreachable here, run() only returns on error), 2 bad input, 3
// infeasible placement, 4 unroutable, 1 everything else (internal or a
// plain CLI usage error).
func exitCode(err error) int {
	var badNetlist *rherrors.BadNetlist
	var badTile *rherrors.BadTile
	var infeasible *rherrors.Infeasible
	var unroutable *rherrors.Unroutable

	switch {
	case errors.As(err, &badNetlist), errors.As(err, &badTile):
		return 2
	case errors.As(err, &infeasible):
		return 3
	case errors.As(err, &unroutable):
		return 4
	default:
		return 1
	}
}
