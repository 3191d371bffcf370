package placement

import (
	"github.com/andrewsmike/redhdl/internal/geom"
	"github.com/andrewsmike/redhdl/internal/library"
	"github.com/andrewsmike/redhdl/internal/netlist"
	"github.com/andrewsmike/redhdl/internal/router"
)

// overlapPenalty dwarfs any achievable wire-length energy, so the
// annealer always prefers an invalid-free move over a shorter-but-
// overlapping one, mirroring CompactPlacementProblem.solution_cost's
// 10000 constant.
const overlapPenalty = 10000.0

// pinPosPair is one driver/sink endpoint pair in world coordinates,
// grounding naive_bussing.py's PinPosPair/source_dest_pin_pos_pairs.
type pinPosPair struct {
	sourcePos, destPos geom.Pos
}

// Energy scores placement: lower is better. It always includes the
// overlap penalty and total Manhattan wire length; cfg.UseRoutingEnergy
// additionally folds in a collision-relaxed routing-cost estimate, and
// cfg.ExtendedEnergyTerms folds in the naive_bussing.py placement-quality
// heuristics (line-of-sight, excessive-downward, straight-up pin pairs).
func Energy(nl *netlist.Netlist, lib *library.Library, placement Placement, cfg Config) float64 {
	valid, err := Valid(nl, lib, placement, cfg.XZPadding)
	if err != nil || !valid {
		return overlapPenalty
	}

	pairs, err := pinPosPairs(nl, placement)
	if err != nil || len(pairs) == 0 {
		return overlapPenalty
	}

	energy := wireLength(pairs)

	if cfg.UseRoutingEnergy {
		energy += routingEnergy(nl, lib, placement, cfg)
	}
	if cfg.ExtendedEnergyTerms {
		region, err := Region(nl, lib, placement)
		if err == nil {
			energy += extendedEnergyTerms(pairs, region)
		}
	}

	return energy
}

func pinPosPairs(nl *netlist.Netlist, placement Placement) ([]pinPosPair, error) {
	var pairs []pinPosPair
	for _, netID := range nl.SortedNetworkIDs() {
		net := nl.Networks[netID]
		driverPos, _, err := PinWorldPos(nl, placement, net.Driver)
		if err != nil {
			return nil, err
		}
		for _, sink := range net.Sinks {
			sinkPos, _, err := PinWorldPos(nl, placement, sink)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, pinPosPair{sourcePos: driverPos, destPos: sinkPos})
		}
	}
	return pairs, nil
}

func wireLength(pairs []pinPosPair) float64 {
	total := 0.0
	for _, pair := range pairs {
		total += float64(pair.destPos.Sub(pair.sourcePos).L1())
	}
	return total
}

// routingEnergy runs the collision-relaxed router across every network and
// sums its path-length estimate, falling back to the overlap penalty for
// any network the relaxed router can't connect at all (§4.6's
// use_routing_energy term).
func routingEnergy(nl *netlist.Netlist, lib *library.Library, placement Placement, cfg Config) float64 {
	region, err := Region(nl, lib, placement)
	if err != nil {
		return overlapPenalty
	}

	networks := make(map[string]router.NetworkEndpoints, len(nl.Networks))
	for _, netID := range nl.SortedNetworkIDs() {
		net := nl.Networks[netID]
		driverPos, driverFace, err := PinWorldPos(nl, placement, net.Driver)
		if err != nil {
			return overlapPenalty
		}
		sinks := make([]router.Endpoint, 0, len(net.Sinks))
		for _, sink := range net.Sinks {
			pos, face, err := PinWorldPos(nl, placement, sink)
			if err != nil {
				return overlapPenalty
			}
			sinks = append(sinks, router.Endpoint{Pos: pos, Face: face})
		}
		if len(sinks) == 0 {
			continue
		}
		networks[string(netID)] = router.NetworkEndpoints{
			Driver: router.Endpoint{Pos: driverPos, Face: driverFace},
			Sinks:  sinks,
		}
	}

	results := router.RelaxedSolve(region, networks, router.Options{}, cfg.Workers)
	total := 0.0
	for _, result := range results {
		if result.Err != nil {
			total += overlapPenalty
			continue
		}
		total += result.Cost
	}
	return total
}

// extendedEnergyTerms combines a handful of naive_bussing.py's placement
// heuristics into one weighted penalty: a pin pair whose line of sight
// passes through another instance, or that points excessively downward,
// makes the eventual bus longer and more fragile than plain Manhattan
// distance predicts. Straight-up pairs are rewarded (negative contribution)
// since they route trivially.
func extendedEnergyTerms(pairs []pinPosPair, instances geom.Region) float64 {
	n := float64(len(pairs))
	if n == 0 {
		return 0
	}

	interrupted, excessiveDown, straightUp := 0.0, 0.0, 0.0
	for _, pair := range pairs {
		box := geom.NewBox(pair.sourcePos, pair.destPos)
		if geom.Intersects(box, instances) {
			interrupted++
		}

		delta := pair.destPos.Sub(pair.sourcePos)
		horiz := geom.Pos{X: delta.X, Z: delta.Z}.L1()
		switch {
		case delta.Y < 0 && horiz < absInt(delta.Y):
			excessiveDown += 0.2
		case delta.Y > 0 && horiz == 0:
			straightUp++
		}
	}

	return 20*(interrupted/n) + 10*(excessiveDown/n) - 5*(straightUp/n)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
