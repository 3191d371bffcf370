// Package router implements the path router (bussing) of §4.5: a
// single-wire A* run per driver/sink leg, a nearest-first multi-sink
// Steiner approximation, and a collision-relaxed multi-network
// pre-solver used as a placement objective.
package router

import (
	"sort"

	"github.com/andrewsmike/redhdl/internal/geom"
	"github.com/andrewsmike/redhdl/internal/rherrors"
	"github.com/andrewsmike/redhdl/internal/search"
	"github.com/andrewsmike/redhdl/internal/voxel"
)

// Endpoint is one pin a bus must reach, in world (post-placement)
// coordinates.
type Endpoint struct {
	Pos  geom.Pos
	Face geom.Direction
}

// Bus is the routing result for one network: the wire's path (driver to
// each sink, in visitation order), its block footprint, and the derived
// schematic fragment.
type Bus struct {
	Path      []geom.Pos
	Footprint geom.Region
	Schem     voxel.Schematic
}

// Options configures one router run.
type Options struct {
	// TurnPenalty is added to a move's cost when its direction differs
	// from the previous move's direction.
	TurnPenalty float64
	// MaxExplored caps each leg's A* exploration; a leg that hits the cap
	// fails with rherrors.NoPath, reason over_budget.
	MaxExplored int
	// NetworkID is used only to stamp a failing rherrors.NoPath.
	NetworkID string
}

func (o Options) orDefaults() Options {
	if o.TurnPenalty == 0 {
		o.TurnPenalty = 0.5
	}
	if o.MaxExplored == 0 {
		o.MaxExplored = 20000
	}
	return o
}

// wireState is an A* state: a position plus the direction just moved in.
// hasEntered distinguishes the unmoved start state from a state reached
// by stepping in Dir's zero value (East).
type wireState struct {
	pos        geom.Pos
	dir        geom.Direction
	hasEntered bool
}

type legProblem struct {
	start       geom.Pos
	goal        geom.Pos
	blocked     func(geom.Pos) bool
	headroomOK  func(geom.Pos) bool
	turnPenalty float64
}

func (p legProblem) Start() wireState { return wireState{pos: p.start} }

func (p legProblem) IsGoal(s wireState) bool { return s.pos == p.goal }

func (p legProblem) Heuristic(s wireState) float64 {
	return float64(s.pos.Sub(p.goal).L1())
}

func (p legProblem) Neighbors(s wireState) []search.Step[wireState] {
	var out []search.Step[wireState]
	for _, d := range geom.Directions {
		next := s.pos.Step(d)
		if next != p.goal && p.blocked(next) {
			continue
		}
		if (d == geom.Up || d == geom.Down) && p.headroomOK != nil && !p.headroomOK(next) {
			continue
		}

		cost := 1.0
		if s.hasEntered && d != s.dir {
			cost += p.turnPenalty
		}
		out = append(out, search.Step[wireState]{
			State: wireState{pos: next, dir: d, hasEntered: true},
			Cost:  cost,
		})
	}
	return out
}

// Route finds a single-wire path from driver to sink, avoiding occupied.
// The driver and sink positions themselves are always passable (the
// 1-voxel "port mouth" exception), even if occupied otherwise reports
// them blocked.
func Route(occupied geom.Region, driver, sink Endpoint, opts Options) (Bus, error) {
	path, err := routeLeg(occupied, driver.Pos, sink.Pos, opts)
	if err != nil {
		return Bus{}, err
	}
	return busFromPath(path), nil
}

func routeLeg(occupied geom.Region, start, goal geom.Pos, opts Options) ([]geom.Pos, error) {
	opts = opts.orDefaults()

	blocked := func(p geom.Pos) bool {
		return occupied.Contains(p)
	}
	headroomOK := func(p geom.Pos) bool {
		return !occupied.Contains(p.Add(geom.Pos{Y: 1}))
	}

	problem := legProblem{
		start:       start,
		goal:        goal,
		blocked:     blocked,
		headroomOK:  headroomOK,
		turnPenalty: opts.TurnPenalty,
	}

	result, err := search.AStar[wireState](problem, search.Options{MaxExplored: opts.MaxExplored})
	if err != nil {
		return nil, translateNoPath(err, opts.NetworkID)
	}

	path := make([]geom.Pos, len(result.Path))
	for i, s := range result.Path {
		path[i] = s.pos
	}
	return path, nil
}

func translateNoPath(err error, networkID string) error {
	npe, ok := err.(*search.NoPathError)
	if !ok {
		return rherrors.WrapInternal(err, "path router")
	}
	reason := rherrors.ReasonUnreachable
	switch npe.Reason {
	case search.ReasonOverBudget:
		reason = rherrors.ReasonOverBudget
	case search.ReasonBlocked:
		reason = rherrors.ReasonBlocked
	}
	return rherrors.NewNoPath(networkID, reason)
}

// RouteNetwork drives the nearest-first multi-sink Steiner approximation
// of §4.5: sinks are attacked in nearest-first order rooted at the
// driver, and each leg treats the prior legs' footprints as additional
// obstacles. A leg starts from the previous leg's sink and its own sink is
// always passable; every other prior footprint position blocks it.
func RouteNetwork(occupied geom.Region, driver Endpoint, sinks []Endpoint, opts Options) (Bus, error) {
	if len(sinks) == 0 {
		return Bus{}, rherrors.Internal("RouteNetwork: no sinks")
	}

	remaining := append([]Endpoint(nil), sinks...)
	footprint := geom.NewPointSet()
	current := driver.Pos

	var wire []geom.Pos
	wire = append(wire, current)
	footprint[current] = struct{}{}

	for len(remaining) > 0 {
		sort.Slice(remaining, func(i, j int) bool {
			return remaining[i].Pos.Sub(current).L1() < remaining[j].Pos.Sub(current).L1()
		})
		next := remaining[0]
		remaining = remaining[1:]

		legOccupied := geom.NewCompound(occupied, priorFootprint(footprint))
		leg, err := routeLeg(legOccupied, current, next.Pos, opts)
		if err != nil {
			return Bus{}, err
		}

		for _, p := range leg {
			footprint[p] = struct{}{}
		}
		wire = append(wire, leg[1:]...)
		current = next.Pos
	}

	return busFromPath(wire), nil
}

// priorFootprint returns a copy of the accumulated wire footprint as a
// Region; the copy keeps the caller free to keep mutating the original
// map while this snapshot is in use as an obstacle set.
func priorFootprint(footprint geom.PointSet) geom.Region {
	out := make(geom.PointSet, len(footprint))
	for p := range footprint {
		out[p] = struct{}{}
	}
	return out
}

func busFromPath(path []geom.Pos) Bus {
	footprint := geom.NewPointSet(path...)
	return Bus{
		Path:      path,
		Footprint: footprint,
		Schem:     wireSchematic(path),
	}
}

// wireSchematic renders a wire path as redstone dust, matching the
// "naive" single-wide wire of §4.5: every path position between the
// endpoints gets a redstone_wire block; the path's first and last
// positions are left for the caller to connect into the instance's own
// blocks.
func wireSchematic(path []geom.Pos) voxel.Schematic {
	blocks := make(map[geom.Pos]voxel.Block, len(path))
	for i, p := range path {
		if i == 0 || i == len(path)-1 {
			continue
		}
		blocks[p] = voxel.Block{Kind: "minecraft:redstone_wire"}
	}
	return voxel.New(blocks)
}

// RelaxedResult is one network's outcome from RelaxedSolve.
type RelaxedResult struct {
	Cost float64
	Err  error
}

type NetworkEndpoints struct {
	Driver Endpoint
	Sinks  []Endpoint
}

// RelaxedSolve runs every network's router independently, ignoring
// inter-wire collisions (instance collisions still apply via occupied).
// Since the relaxation makes networks independent of each other, every
// network's search can run concurrently; used as a cheap placement
// objective, never for the final build (§4.6's use_routing_energy term).
func RelaxedSolve(occupied geom.Region, networks map[string]NetworkEndpoints, opts Options, workers int) map[string]RelaxedResult {
	if workers <= 0 {
		workers = 1
	}

	ids := make([]string, 0, len(networks))
	for id := range networks {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	type keyed struct {
		id     string
		result RelaxedResult
	}

	jobs := make(chan string)
	out := make(chan keyed)

	for w := 0; w < workers; w++ {
		go func() {
			for id := range jobs {
				net := networks[id]
				legOpts := opts
				legOpts.NetworkID = id
				bus, err := RouteNetwork(occupied, net.Driver, net.Sinks, legOpts)
				cost := 0.0
				if err == nil && len(bus.Path) > 0 {
					cost = float64(len(bus.Path) - 1)
				}
				out <- keyed{id: id, result: RelaxedResult{Cost: cost, Err: err}}
			}
		}()
	}

	go func() {
		for _, id := range ids {
			jobs <- id
		}
		close(jobs)
	}()

	results := make(map[string]RelaxedResult, len(ids))
	for range ids {
		k := <-out
		results[k.id] = k.result
	}
	return results
}
