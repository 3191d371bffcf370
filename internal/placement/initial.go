package placement

import (
	"math/rand"
	"sort"

	"github.com/andrewsmike/redhdl/internal/geom"
	"github.com/andrewsmike/redhdl/internal/library"
	"github.com/andrewsmike/redhdl/internal/netlist"
	"github.com/andrewsmike/redhdl/internal/rherrors"
)

// Initial seeds a placement by placing instances in descending tile-volume
// order, each at a random valid pose rejected against the already-placed
// instances (§4.6), mirroring netlist_random_placement's bounded-retry
// random seeding. Returns rherrors.Infeasible if any instance exhausts its
// attempt budget.
func Initial(nl *netlist.Netlist, lib *library.Library, cfg Config) (Placement, error) {
	cfg = cfg.withDefaults()
	if cfg.Rng == nil {
		return nil, rherrors.Internal("placement.Initial: Config.Rng must not be nil")
	}

	ids := nl.SortedInstanceIDs()
	tiles := make(map[netlist.InstanceID]*library.Tile, len(ids))
	for _, id := range ids {
		t, err := tile(nl, lib, id)
		if err != nil {
			return nil, err
		}
		tiles[id] = t
	}

	sort.SliceStable(ids, func(i, j int) bool {
		return tileVolume(tiles[ids[i]]) > tileVolume(tiles[ids[j]])
	})

	placement := Placement{}
	for _, id := range ids {
		t := tiles[id]

		placed := false
		for attempt := 0; attempt < cfg.MaxPlacementAttempts; attempt++ {
			pose, ok := randomPose(t, cfg)
			if !ok {
				continue
			}
			candidate := placement.With(id, pose)
			fits, err := fitsBoundingBoxAndOthers(nl, lib, candidate, id, cfg)
			if err != nil {
				return nil, err
			}
			if fits {
				placement = candidate
				placed = true
				break
			}
		}
		if !placed {
			return nil, rherrors.NewInfeasible(string(id))
		}
	}

	return placement, nil
}

// randomPose picks a uniformly random quarter-turn and a random anchor
// keeping t's rotated region fully inside cfg.BoundingBox. ok is false if
// the tile cannot fit inside the bounding box at all.
func randomPose(t *library.Tile, cfg Config) (Pose, bool) {
	q := cfg.Rng.Intn(4)
	rotated := t.Region.RotateY(geom.Pos{}, q).BBox()

	lo := cfg.BoundingBox.Min.Sub(rotated.Min)
	hi := cfg.BoundingBox.Max.Sub(rotated.Max)
	if lo.X > hi.X || lo.Y > hi.Y || lo.Z > hi.Z {
		return Pose{}, false
	}

	anchor := geom.Pos{
		X: randIntInclusive(cfg.Rng, lo.X, hi.X),
		Y: randIntInclusive(cfg.Rng, lo.Y, hi.Y),
		Z: randIntInclusive(cfg.Rng, lo.Z, hi.Z),
	}
	return Pose{Anchor: anchor, QuarterTurns: q}, true
}

func randIntInclusive(rng *rand.Rand, lo, hi int) int {
	if lo >= hi {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// fitsBoundingBoxAndOthers reports whether id's region stays inside
// cfg.BoundingBox and its padded region doesn't overlap any other placed
// instance's padded region.
func fitsBoundingBoxAndOthers(nl *netlist.Netlist, lib *library.Library, placement Placement, id netlist.InstanceID, cfg Config) (bool, error) {
	region, err := InstanceRegion(nl, lib, placement, id)
	if err != nil {
		return false, err
	}
	bb := region.BBox()
	if !cfg.BoundingBox.Contains(bb.Min) || !cfg.BoundingBox.Contains(bb.Max) {
		return false, nil
	}

	padded := geom.Padded(region, cfg.XZPadding)
	for otherID := range placement {
		if otherID == id {
			continue
		}
		otherRegion, err := InstanceRegion(nl, lib, placement, otherID)
		if err != nil {
			return false, err
		}
		if geom.Intersects(padded, geom.Padded(otherRegion, cfg.XZPadding)) {
			return false, nil
		}
	}
	return true, nil
}
