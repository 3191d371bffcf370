package placement

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/andrewsmike/redhdl/internal/geom"
	"github.com/andrewsmike/redhdl/internal/library"
	"github.com/andrewsmike/redhdl/internal/netlist"
	"github.com/andrewsmike/redhdl/internal/rherrors"
	"github.com/andrewsmike/redhdl/internal/voxel"
)

// writeTile writes a minimal tile directory, mirroring the library
// package's own test fixtures since Library's fields aren't exported.
func writeTile(t *testing.T, dir, name, metaJSON string) {
	t.Helper()
	tileDir := filepath.Join(dir, name)
	if err := os.MkdirAll(tileDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tileDir, "meta.json"), []byte(metaJSON), 0o644); err != nil {
		t.Fatalf("write meta: %v", err)
	}

	schem := voxel.New(map[geom.Pos]voxel.Block{{X: 0, Y: 0, Z: 0}: {Kind: "minecraft:stone"}})
	f, err := os.Create(filepath.Join(tileDir, "tile.schem"))
	if err != nil {
		t.Fatalf("create schem: %v", err)
	}
	defer f.Close()
	if err := (library.GzipBlockListCodec{}).Encode(f, schem); err != nil {
		t.Fatalf("encode schem: %v", err)
	}
}

// srcSnkLibrary builds the two-tile library of §8 scenario 1/2: a
// one-voxel "src" tile with an output pin facing +X and a one-voxel
// "snk" tile with an input pin facing -X, both at local (0, 1, 0).
func srcSnkLibrary(t *testing.T) *library.Library {
	t.Helper()
	dir := t.TempDir()
	writeTile(t, dir, "src", `{
		"name": "src",
		"ports": [{"name": "out", "direction": "out", "pins": [
			{"pos": [0, 1, 0], "face": "east", "role": "output"}
		]}]
	}`)
	writeTile(t, dir, "snk", `{
		"name": "snk",
		"ports": [{"name": "in", "direction": "in", "pins": [
			{"pos": [0, 1, 0], "face": "west", "role": "input"}
		]}]
	}`)

	lib, err := library.Load(dir, nil)
	if err != nil {
		t.Fatalf("loading library: %v", err)
	}
	t.Cleanup(func() { lib.Close() })
	return lib
}

func twoInstanceNetlist(t *testing.T, lib *library.Library) *netlist.Netlist {
	t.Helper()
	src, _ := lib.Get("src")
	snk, _ := lib.Get("snk")

	instances := map[netlist.InstanceID]netlist.Instance{
		"src": {ID: "src", LibraryKey: "src", Ports: src.Ports},
		"snk": {ID: "snk", LibraryKey: "snk", Ports: snk.Ports},
	}
	networks := map[netlist.NetworkID]netlist.Network{
		"net-0": {
			ID:     "net-0",
			Driver: netlist.PinRef{InstanceID: "src", PortName: "out", PinIndex: 0},
			Sinks:  []netlist.PinRef{{InstanceID: "snk", PortName: "in", PinIndex: 0}},
		},
	}

	nl, err := netlist.New(instances, networks)
	if err != nil {
		t.Fatalf("building netlist: %v", err)
	}
	return nl
}

// Scenario 1: single net, two instances, an 8^3 bounding cube. Placement
// must succeed, land both instances inside the cube with disjoint padded
// regions, and produce a short bus.
func TestRunPlacesAdjacentInstances(t *testing.T) {
	lib := srcSnkLibrary(t)
	nl := twoInstanceNetlist(t, lib)

	cfg := Config{
		BoundingBox: geom.Box{Min: geom.Pos{}, Max: geom.Pos{X: 7, Y: 7, Z: 7}},
		Steps:       100,
		Workers:     1,
		Rng:         rand.New(rand.NewSource(0)),
	}

	placement, energy, err := Run(nl, lib, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if energy >= overlapPenalty {
		t.Fatalf("expected a finite, non-overlapping energy, got %v", energy)
	}

	valid, err := Valid(nl, lib, placement, cfg.withDefaults().XZPadding)
	if err != nil {
		t.Fatalf("Valid: %v", err)
	}
	if !valid {
		t.Fatalf("expected Run's result to be a valid placement")
	}

	driverPos, _, err := PinWorldPos(nl, placement, nl.Networks["net-0"].Driver)
	if err != nil {
		t.Fatalf("PinWorldPos(driver): %v", err)
	}
	sinkPos, _, err := PinWorldPos(nl, placement, nl.Networks["net-0"].Sinks[0])
	if err != nil {
		t.Fatalf("PinWorldPos(sink): %v", err)
	}
	if got := sinkPos.Sub(driverPos).L1(); got > 10 {
		t.Fatalf("expected a short bus for a two-instance net in an 8^3 cube, got length %d", got)
	}
}

// Scenario 2: same library, bounding cube 1^3 and two instances. Two
// distinct instances can never both fit in a single voxel, so Initial
// must report Infeasible.
func TestInitialReportsInfeasibleForTinyBoundingBox(t *testing.T) {
	lib := srcSnkLibrary(t)
	nl := twoInstanceNetlist(t, lib)

	cfg := Config{
		BoundingBox: geom.Box{Min: geom.Pos{}, Max: geom.Pos{}},
		Rng:         rand.New(rand.NewSource(0)),
	}

	_, err := Initial(nl, lib, cfg)
	if err == nil {
		t.Fatalf("expected an Infeasible error")
	}
	if _, ok := err.(*rherrors.Infeasible); !ok {
		t.Fatalf("expected *rherrors.Infeasible, got %T: %v", err, err)
	}
}

func TestInstanceRegionTranslatesAndRotates(t *testing.T) {
	lib := srcSnkLibrary(t)
	nl := twoInstanceNetlist(t, lib)

	placement := Placement{
		"src": {Anchor: geom.Pos{X: 2, Y: 0, Z: 0}, QuarterTurns: 0},
		"snk": {Anchor: geom.Pos{X: 5, Y: 0, Z: 0}, QuarterTurns: 1},
	}

	region, err := InstanceRegion(nl, lib, placement, "src")
	if err != nil {
		t.Fatalf("InstanceRegion: %v", err)
	}
	if !region.Contains(geom.Pos{X: 2, Y: 0, Z: 0}) {
		t.Fatalf("expected translated region to contain the shifted origin block")
	}
}

func TestEnergyPenalizesOverlap(t *testing.T) {
	lib := srcSnkLibrary(t)
	nl := twoInstanceNetlist(t, lib)

	overlapping := Placement{
		"src": {Anchor: geom.Pos{X: 0, Y: 0, Z: 0}},
		"snk": {Anchor: geom.Pos{X: 0, Y: 0, Z: 0}},
	}
	cfg := Config{XZPadding: 1}

	if got := Energy(nl, lib, overlapping, cfg); got != overlapPenalty {
		t.Fatalf("expected overlap penalty %v, got %v", overlapPenalty, got)
	}
}
