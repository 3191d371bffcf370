package placement

import (
	"math"
	"math/rand"

	"github.com/andrewsmike/redhdl/internal/library"
	"github.com/andrewsmike/redhdl/internal/netlist"
	"github.com/andrewsmike/redhdl/internal/rherrors"
	"github.com/andrewsmike/redhdl/internal/search"
)

// annealProblem adapts the placement operators to search.AnnealProblem.
type annealProblem struct {
	nl  *netlist.Netlist
	lib *library.Library
	cfg Config
}

func (p annealProblem) Initial(rng *rand.Rand) Placement {
	cfg := p.cfg
	cfg.Rng = rng
	placement, err := Initial(p.nl, p.lib, cfg)
	if err != nil {
		return nil
	}
	return placement
}

func (p annealProblem) Neighbor(solution Placement, rng *rand.Rand) Placement {
	cfg := p.cfg
	cfg.Rng = rng
	return Neighbor(p.nl, p.lib, solution, cfg)
}

func (p annealProblem) Energy(solution Placement) float64 {
	return Energy(p.nl, p.lib, solution, p.cfg)
}

// Run launches cfg.Workers independent simulated-annealing searches and
// returns the best placement found across all of them (§5's placement
// concurrency model: every worker is independent, so running N in
// parallel and keeping the best is always at least as good as running
// one for N times as many steps).
func Run(nl *netlist.Netlist, lib *library.Library, cfg Config) (Placement, float64, error) {
	cfg = cfg.withDefaults()
	if cfg.Rng == nil {
		return nil, 0, rherrors.Internal("placement.Run: Config.Rng must not be nil")
	}

	// Fail fast with Infeasible rather than spending every worker's step
	// budget discovering the same impossibility independently.
	if _, err := Initial(nl, lib, cfg); err != nil {
		return nil, 0, err
	}

	problem := annealProblem{nl: nl, lib: lib, cfg: cfg}
	schedule := search.ExponentialSchedule(cfg.Temperature0, cfg.Alpha)
	opts := search.AnnealOptions{MaxSteps: cfg.Steps, Schedule: schedule}

	results := make(chan search.AnnealResult[Placement], cfg.Workers)
	for w := 0; w < cfg.Workers; w++ {
		workerOpts := opts
		if w == 0 {
			workerOpts.Progress = cfg.Progress
		}
		workerRng := rand.New(rand.NewSource(cfg.Rng.Int63()))
		go func(rng *rand.Rand, opts search.AnnealOptions) {
			results <- search.Anneal[Placement](problem, opts, rng)
		}(workerRng, workerOpts)
	}

	var best Placement
	bestEnergy := math.Inf(1)
	for w := 0; w < cfg.Workers; w++ {
		result := <-results
		if result.Best != nil && result.BestEnergy < bestEnergy {
			best, bestEnergy = result.Best, result.BestEnergy
		}
	}

	if best == nil {
		return nil, 0, rherrors.NewInfeasible("<placement>")
	}
	return best, bestEnergy, nil
}
