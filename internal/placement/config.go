package placement

import (
	"math/rand"

	"github.com/andrewsmike/redhdl/internal/geom"
)

// Config bounds one placement search run. It carries its own RNG rather
// than relying on a process-wide one (§9 "global state forbidden").
type Config struct {
	// BoundingBox is the cube instances must fit inside.
	BoundingBox geom.Box
	// XZPadding is the horizontal clearance kept between instances.
	XZPadding int
	// MaxPlacementAttempts bounds Initial's per-instance random retries.
	MaxPlacementAttempts int

	// UseRoutingEnergy gates the optional relaxed-routing cost term.
	UseRoutingEnergy bool
	// ExtendedEnergyTerms gates the optional bussing-quality heuristics.
	ExtendedEnergyTerms bool

	// Steps is the number of simulated-annealing steps per worker.
	Steps int
	// Workers is the number of parallel SA runs Run launches.
	Workers int
	// Temperature0 and Alpha parameterize search.ExponentialSchedule.
	Temperature0 float64
	Alpha        float64

	Rng *rand.Rand

	// Progress, if non-nil, is relayed from worker 0's annealing loop
	// only; every worker runs the same schedule, so sampling one is
	// representative without synchronizing across goroutines.
	Progress func(step int, temperature, bestEnergy float64)
}

func (c Config) withDefaults() Config {
	if c.XZPadding == 0 {
		c.XZPadding = 1
	}
	if c.MaxPlacementAttempts == 0 {
		c.MaxPlacementAttempts = 40
	}
	if c.Steps == 0 {
		c.Steps = 60000
	}
	if c.Workers == 0 {
		c.Workers = 1
	}
	if c.Temperature0 == 0 {
		c.Temperature0 = 10
	}
	if c.Alpha == 0 {
		c.Alpha = 0.999
	}
	return c
}
