package assembly

import (
	"sort"

	"github.com/andrewsmike/redhdl/internal/geom"
	"github.com/andrewsmike/redhdl/internal/library"
	"github.com/andrewsmike/redhdl/internal/netlist"
	"github.com/andrewsmike/redhdl/internal/placement"
	"github.com/andrewsmike/redhdl/internal/rherrors"
	"github.com/andrewsmike/redhdl/internal/router"
	"github.com/andrewsmike/redhdl/internal/voxel"
)

// Assembly is the result of one Synthesize run.
type Assembly struct {
	Netlist   *netlist.Netlist
	Placement placement.Placement
	Buses     map[netlist.NetworkID]router.Bus
	Schematic voxel.Schematic
}

// Synthesize runs §4.7's six-step pipeline: validate, place, order
// networks, route in order applying the on_unroutable policy, overlay
// into one voxel map, and return the assembly.
func Synthesize(nl *netlist.Netlist, lib *library.Library, cfg Config) (*Assembly, error) {
	if err := validateAgainstLibrary(nl, lib); err != nil {
		return nil, err
	}

	placed, err := runPlacement(nl, lib, cfg)
	if err != nil {
		return nil, err
	}

	order, err := networkRoutingOrder(nl, placed)
	if err != nil {
		return nil, err
	}

	buses, err := routeNetworks(nl, lib, placed, order, cfg)
	if err != nil {
		return nil, err
	}

	schem, err := buildSchematic(nl, lib, placed, buses)
	if err != nil {
		return nil, err
	}

	return &Assembly{
		Netlist:   nl,
		Placement: placed,
		Buses:     buses,
		Schematic: schem,
	}, nil
}

// validateAgainstLibrary checks step 1: every instance's library key is
// known, and every pin index referenced by the netlist falls within its
// port's width (netlist.Validate already checked port existence and
// direction compatibility at construction time; this adds the library
// cross-check).
func validateAgainstLibrary(nl *netlist.Netlist, lib *library.Library) error {
	for _, id := range nl.SortedInstanceIDs() {
		inst := nl.Instances[id]
		if _, ok := lib.Get(inst.LibraryKey); !ok {
			return rherrors.NewBadNetlist("unknown_library_key", "instance %q: no such library tile %q", id, inst.LibraryKey)
		}
	}
	return nl.Validate()
}

func runPlacement(nl *netlist.Netlist, lib *library.Library, cfg Config) (placement.Placement, error) {
	pcfg := placement.Config{
		BoundingBox:          cfg.boundingBox(),
		XZPadding:            cfg.XZPadding,
		MaxPlacementAttempts: cfg.MaxPlacementAttempts,
		UseRoutingEnergy:     cfg.UseRoutingEnergy,
		ExtendedEnergyTerms:  cfg.ExtendedEnergyTerms,
		Steps:                cfg.Steps,
		Workers:              cfg.Workers,
		Temperature0:         cfg.Temperature0,
		Alpha:                cfg.Alpha,
		Rng:                  cfg.rng(),
		Progress:             cfg.Progress,
	}
	placed, _, err := placement.Run(nl, lib, pcfg)
	return placed, err
}

// networkRoutingOrder sorts networks by ascending driver-to-sink
// bounding-box volume, with network_id lexicographic tiebreak (§4.7 step
// 3, §5's stable secondary key).
func networkRoutingOrder(nl *netlist.Netlist, placed placement.Placement) ([]netlist.NetworkID, error) {
	ids := nl.SortedNetworkIDs()
	volumes := make(map[netlist.NetworkID]int, len(ids))

	for _, id := range ids {
		net := nl.Networks[id]
		driverPos, _, err := placement.PinWorldPos(nl, placed, net.Driver)
		if err != nil {
			return nil, err
		}

		min, max := driverPos, driverPos
		for _, sink := range net.Sinks {
			sinkPos, _, err := placement.PinWorldPos(nl, placed, sink)
			if err != nil {
				return nil, err
			}
			min = geom.ElemMin(min, sinkPos)
			max = geom.ElemMax(max, sinkPos)
		}
		volumes[id] = boundingVolume(min, max)
	}

	sort.SliceStable(ids, func(i, j int) bool {
		if volumes[ids[i]] != volumes[ids[j]] {
			return volumes[ids[i]] < volumes[ids[j]]
		}
		return ids[i] < ids[j]
	})
	return ids, nil
}

// routeNetworks runs the router sequentially in order, each leg's
// occupation map including every instance's footprint plus every
// already-routed network's bus footprint. Applies cfg.OnUnroutable on
// NoPath (§4.7 step 4).
func routeNetworks(nl *netlist.Netlist, lib *library.Library, placed placement.Placement, order []netlist.NetworkID, cfg Config) (map[netlist.NetworkID]router.Bus, error) {
	instances, err := placement.Region(nl, lib, placed)
	if err != nil {
		return nil, err
	}

	buses := map[netlist.NetworkID]router.Bus{}
	var routedRegions []geom.Region

	for _, id := range order {
		net := nl.Networks[id]

		driverPos, driverFace, err := placement.PinWorldPos(nl, placed, net.Driver)
		if err != nil {
			return nil, err
		}
		sinks := make([]router.Endpoint, 0, len(net.Sinks))
		for _, sink := range net.Sinks {
			pos, face, err := placement.PinWorldPos(nl, placed, sink)
			if err != nil {
				return nil, err
			}
			sinks = append(sinks, router.Endpoint{Pos: pos, Face: face})
		}

		occupied := geom.NewCompound(append([]geom.Region{instances}, routedRegions...)...)
		opts := cfg.routerOptions()
		opts.NetworkID = string(id)

		bus, err := router.RouteNetwork(occupied, router.Endpoint{Pos: driverPos, Face: driverFace}, sinks, opts)
		if err != nil {
			if cfg.OnUnroutable == OnUnroutableAbort {
				return nil, rherrors.NewUnroutable(string(id))
			}
			continue
		}

		buses[id] = bus
		routedRegions = append(routedRegions, bus.Footprint)
	}

	return buses, nil
}

// buildSchematic overlays every placed instance's schematic and every
// bus's wire schematic into one voxel map (§4.7 step 5); any overlap is
// an invariant violation.
func buildSchematic(nl *netlist.Netlist, lib *library.Library, placed placement.Placement, buses map[netlist.NetworkID]router.Bus) (voxel.Schematic, error) {
	var schematics []voxel.Schematic

	for _, id := range nl.SortedInstanceIDs() {
		inst := nl.Instances[id]
		tile, ok := lib.Get(inst.LibraryKey)
		if !ok {
			return nil, rherrors.Internal("buildSchematic: unknown library tile %q", inst.LibraryKey)
		}
		pose := placed[id]
		schematics = append(schematics, tile.Schem.RotateY(geom.Pos{}, pose.QuarterTurns).Translate(pose.Anchor))
	}

	for _, id := range sortedBusIDs(buses) {
		schematics = append(schematics, buses[id].Schem)
	}

	schem, ok := voxel.OverlayAll(schematics...)
	if !ok {
		return nil, rherrors.Internal("buildSchematic: overlapping blocks in final schematic")
	}
	return schem, nil
}

func boundingVolume(min, max geom.Pos) int {
	return (max.X - min.X + 1) * (max.Y - min.Y + 1) * (max.Z - min.Z + 1)
}

func sortedBusIDs(buses map[netlist.NetworkID]router.Bus) []netlist.NetworkID {
	ids := make([]netlist.NetworkID, 0, len(buses))
	for id := range buses {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
