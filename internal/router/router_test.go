package router

import (
	"testing"

	"github.com/andrewsmike/redhdl/internal/geom"
	"github.com/andrewsmike/redhdl/internal/rherrors"
)

func emptySpace() geom.Region {
	return geom.NewPointSet()
}

func TestRouteStraightLine(t *testing.T) {
	driver := Endpoint{Pos: geom.Pos{X: 0, Y: 0, Z: 0}, Face: geom.East}
	sink := Endpoint{Pos: geom.Pos{X: 5, Y: 0, Z: 0}, Face: geom.West}

	bus, err := Route(emptySpace(), driver, sink, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(bus.Path) - 1; got != 5 {
		t.Fatalf("expected path length 5, got %d", got)
	}
}

// Scenario 4: driver and sink 5 apart, a blocker forcing a 2-step
// detour, for an expected bus length of 5 + 2.
func TestRouteDetoursAroundObstacle(t *testing.T) {
	driver := Endpoint{Pos: geom.Pos{X: 0, Y: 0, Z: 0}}
	sink := Endpoint{Pos: geom.Pos{X: 5, Y: 0, Z: 0}}

	blocked := geom.NewPointSet(
		geom.Pos{X: 1, Y: 0, Z: 0},
		geom.Pos{X: 2, Y: 0, Z: 0},
		geom.Pos{X: 3, Y: 0, Z: 0},
	)

	bus, err := Route(blocked, driver, sink, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(bus.Path) - 1; got != 7 {
		t.Fatalf("expected detour bus length 7, got %d", got)
	}
}

func TestRoutePassesThroughPortMouth(t *testing.T) {
	driver := Endpoint{Pos: geom.Pos{X: 0, Y: 0, Z: 0}}
	sink := Endpoint{Pos: geom.Pos{X: 2, Y: 0, Z: 0}}

	// The sink position itself is reported occupied (its own instance's
	// block), but must still be reachable as the path's final step.
	occupied := geom.NewPointSet(sink.Pos)

	bus, err := Route(occupied, driver, sink, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bus.Path[len(bus.Path)-1] != sink.Pos {
		t.Fatalf("expected path to terminate at sink, got %v", bus.Path)
	}
}

// TestRouteBlockedPinReturnsNoPath covers the driver/sink-immediately-
// boxed-in case: every one of the driver's own first moves is blocked, so
// the search never takes a single step. Distinct from the general
// "explored the reachable space and never found a goal" case below.
func TestRouteBlockedPinReturnsNoPath(t *testing.T) {
	driver := Endpoint{Pos: geom.Pos{X: 0, Y: 0, Z: 0}}
	sink := Endpoint{Pos: geom.Pos{X: 10, Y: 0, Z: 0}}

	walls := geom.NewPointSet()
	for _, d := range geom.Directions {
		walls[driver.Pos.Step(d)] = struct{}{}
	}

	_, err := Route(walls, driver, sink, Options{MaxExplored: 500})
	if err == nil {
		t.Fatalf("expected a NoPath error")
	}
	np, ok := err.(*rherrors.NoPath)
	if !ok {
		t.Fatalf("expected *rherrors.NoPath, got %T: %v", err, err)
	}
	if np.Reason != rherrors.ReasonBlocked {
		t.Fatalf("unexpected reason: %v", np.Reason)
	}
}

// TestRouteUnreachableReturnsNoPath covers a driver that can move freely
// but is fully enclosed, so the search explores its whole reachable
// pocket and still never reaches the sink.
func TestRouteUnreachableReturnsNoPath(t *testing.T) {
	driver := Endpoint{Pos: geom.Pos{X: 0, Y: 0, Z: 0}}
	sink := Endpoint{Pos: geom.Pos{X: 10, Y: 0, Z: 0}}

	box := geom.NewPointSet()
	for x := -2; x <= 2; x++ {
		for y := -2; y <= 2; y++ {
			for z := -2; z <= 2; z++ {
				if x == -2 || x == 2 || y == -2 || y == 2 || z == -2 || z == 2 {
					box[geom.Pos{X: x, Y: y, Z: z}] = struct{}{}
				}
			}
		}
	}

	_, err := Route(box, driver, sink, Options{MaxExplored: 500})
	if err == nil {
		t.Fatalf("expected a NoPath error")
	}
	np, ok := err.(*rherrors.NoPath)
	if !ok {
		t.Fatalf("expected *rherrors.NoPath, got %T: %v", err, err)
	}
	if np.Reason != rherrors.ReasonUnreachable {
		t.Fatalf("unexpected reason: %v", np.Reason)
	}
}

// Scenario 3: one driver, two sinks placed in an L. The total bus
// length equals Manhattan(driver, nearest_sink) + Manhattan(nearest_sink,
// other_sink).
func TestRouteNetworkTwoSinkSteinerApproximation(t *testing.T) {
	driver := Endpoint{Pos: geom.Pos{X: 0, Y: 0, Z: 0}}
	near := Endpoint{Pos: geom.Pos{X: 3, Y: 0, Z: 0}}
	far := Endpoint{Pos: geom.Pos{X: 3, Y: 0, Z: 4}}

	bus, err := RouteNetwork(emptySpace(), driver, []Endpoint{far, near}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := driver.Pos.Sub(near.Pos).L1() + near.Pos.Sub(far.Pos).L1()
	if got := len(bus.Path) - 1; got != expected {
		t.Fatalf("expected total bus length %d, got %d", expected, got)
	}
}

func TestRouteNetworkRequiresAtLeastOneSink(t *testing.T) {
	driver := Endpoint{Pos: geom.Pos{X: 0, Y: 0, Z: 0}}
	if _, err := RouteNetwork(emptySpace(), driver, nil, Options{}); err == nil {
		t.Fatalf("expected an error for a network with no sinks")
	}
}

func TestRelaxedSolveCoversEveryNetwork(t *testing.T) {
	networks := map[string]NetworkEndpoints{
		"net-0": {
			Driver: Endpoint{Pos: geom.Pos{X: 0, Y: 0, Z: 0}},
			Sinks:  []Endpoint{{Pos: geom.Pos{X: 2, Y: 0, Z: 0}}},
		},
		"net-1": {
			Driver: Endpoint{Pos: geom.Pos{X: 0, Y: 0, Z: 10}},
			Sinks:  []Endpoint{{Pos: geom.Pos{X: 1, Y: 0, Z: 10}}},
		},
	}

	results := RelaxedSolve(emptySpace(), networks, Options{}, 2)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results["net-0"].Err != nil || results["net-0"].Cost != 2 {
		t.Fatalf("unexpected net-0 result: %+v", results["net-0"])
	}
	if results["net-1"].Err != nil || results["net-1"].Cost != 1 {
		t.Fatalf("unexpected net-1 result: %+v", results["net-1"])
	}
}
