package search

import (
	"math"
	"math/rand"
)

// AnnealProblem is the capability set a simulated-annealing caller must
// supply for solution type S.
type AnnealProblem[S any] interface {
	// Initial returns a fresh random starting solution.
	Initial(rng *rand.Rand) S
	// Neighbor proposes a local mutation of solution.
	Neighbor(solution S, rng *rand.Rand) S
	// Energy scores a solution; lower is better.
	Energy(solution S) float64
}

// Schedule returns the temperature at a given step, step 0 being the
// first. A schedule is monotonically non-increasing.
type Schedule func(step int) float64

// ExponentialSchedule implements §4.6's T(k) = T0 * alpha^k cooling curve.
func ExponentialSchedule(t0, alpha float64) Schedule {
	return func(step int) float64 {
		t := t0
		for i := 0; i < step; i++ {
			t *= alpha
		}
		return t
	}
}

// AnnealOptions configures one Anneal run.
type AnnealOptions struct {
	MaxSteps int
	Schedule Schedule

	// Progress, if non-nil, is called after every step with the step
	// index, current temperature, and best energy seen so far. Used by
	// callers that want to relay live search progress (e.g. an
	// interactive progress bar); left nil, Anneal has no side channel.
	Progress func(step int, temperature, bestEnergy float64)
}

// AnnealResult is the outcome of one Anneal run: the best solution seen
// across every step, not necessarily the final one.
type AnnealResult[S any] struct {
	Best       S
	BestEnergy float64
}

// Anneal runs simulated annealing per §4.4: always accept a
// strictly-lower-energy candidate; otherwise accept with probability
// exp(-Δenergy/temperature). The schedule alone determines temperature,
// decoupled from the acceptance rule. Deterministic for a fixed rng
// seed. Returns the best-energy state ever seen.
func Anneal[S any](p AnnealProblem[S], opts AnnealOptions, rng *rand.Rand) AnnealResult[S] {
	current := p.Initial(rng)
	currentEnergy := p.Energy(current)

	best := current
	bestEnergy := currentEnergy

	for step := 0; step < opts.MaxSteps; step++ {
		candidate := p.Neighbor(current, rng)
		candidateEnergy := p.Energy(candidate)

		accept := candidateEnergy < currentEnergy
		if !accept {
			temperature := opts.Schedule(step)
			if temperature > 0 {
				delta := candidateEnergy - currentEnergy
				accept = rng.Float64() < math.Exp(-delta/temperature)
			}
		}

		if accept {
			current = candidate
			currentEnergy = candidateEnergy
		}

		if candidateEnergy < bestEnergy {
			best = candidate
			bestEnergy = candidateEnergy
		}

		if opts.Progress != nil {
			opts.Progress(step, opts.Schedule(step), bestEnergy)
		}
	}

	return AnnealResult[S]{Best: best, BestEnergy: bestEnergy}
}
