package placement

import (
	"math/rand"

	"github.com/andrewsmike/redhdl/internal/geom"
	"github.com/andrewsmike/redhdl/internal/library"
	"github.com/andrewsmike/redhdl/internal/netlist"
)

// neighborRetries bounds how many candidate mutations Neighbor tries
// before giving up and returning the input unchanged; a placement near
// the edge of its bounding box can otherwise reject indefinitely.
const neighborRetries = 20

// Neighbor returns a mutated placement: a handful of instances get
// translated by one of the six unit steps (10% chance also re-rotated),
// and with 10% probability two instances swap poses entirely, mirroring
// mutated_placement/mutated_individual_placement. A mutation that pushes an
// instance out of the bounding box is discarded and a fresh one is drawn,
// up to neighborRetries times; if none fits, the input placement is
// returned unchanged. Overlap between instances is not checked here (the
// annealer's Energy function is what penalizes overlap).
func Neighbor(nl *netlist.Netlist, lib *library.Library, placement Placement, cfg Config) Placement {
	ids := placedIDs(placement)
	if len(ids) == 0 {
		return placement
	}

	for attempt := 0; attempt < neighborRetries; attempt++ {
		candidate := mutate(ids, placement, cfg)
		if withinBoundingBox(nl, lib, candidate, cfg) {
			return candidate
		}
	}
	return placement
}

func mutate(ids []netlist.InstanceID, placement Placement, cfg Config) Placement {
	tweakCount := len(ids) / 3
	if tweakCount < 2 {
		tweakCount = 2
	}
	if tweakCount > len(ids) {
		tweakCount = len(ids)
	}

	out := make(Placement, len(placement))
	for k, v := range placement {
		out[k] = v
	}

	for _, id := range sampleN(cfg.Rng, ids, tweakCount) {
		out[id] = mutatedPose(out[id], cfg.Rng)
	}

	if len(ids) > 1 && cfg.Rng.Float64() < 0.1 {
		a, b := ids[cfg.Rng.Intn(len(ids))], ids[cfg.Rng.Intn(len(ids))]
		if a != b {
			out[a], out[b] = out[b], out[a]
		}
	}

	return out
}

func mutatedPose(pose Pose, rng *rand.Rand) Pose {
	q := pose.QuarterTurns
	if rng.Float64() < 0.1 {
		q = rng.Intn(4)
	}
	return Pose{
		Anchor:       pose.Anchor.Add(geom.Directions[rng.Intn(len(geom.Directions))].Unit()),
		QuarterTurns: q,
	}
}

func sampleN(rng *rand.Rand, ids []netlist.InstanceID, n int) []netlist.InstanceID {
	pool := append([]netlist.InstanceID(nil), ids...)
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if n > len(pool) {
		n = len(pool)
	}
	return pool[:n]
}

func withinBoundingBox(nl *netlist.Netlist, lib *library.Library, placement Placement, cfg Config) bool {
	for id := range placement {
		region, err := InstanceRegion(nl, lib, placement, id)
		if err != nil {
			return false
		}
		bb := region.BBox()
		if !cfg.BoundingBox.Contains(bb.Min) || !cfg.BoundingBox.Contains(bb.Max) {
			return false
		}
	}
	return true
}
