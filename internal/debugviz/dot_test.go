package debugviz

import (
	"strings"
	"testing"

	"github.com/andrewsmike/redhdl/internal/geom"
	"github.com/andrewsmike/redhdl/internal/netlist"
)

func twoInstanceNetlist(t *testing.T) *netlist.Netlist {
	t.Helper()

	outPort := netlist.Port{
		Name:      "out",
		Direction: netlist.PortOut,
		Pins:      []netlist.PinSequence{{{Pos: geom.Pos{}, Face: geom.East, Role: netlist.RoleOutput}}},
	}
	inPort := netlist.Port{
		Name:      "in",
		Direction: netlist.PortIn,
		Pins:      []netlist.PinSequence{{{Pos: geom.Pos{}, Face: geom.West, Role: netlist.RoleInput}}},
	}

	nl, err := netlist.New(
		map[netlist.InstanceID]netlist.Instance{
			"src": {ID: "src", LibraryKey: "source-tile", Ports: map[string]netlist.Port{"out": outPort}},
			"snk": {ID: "snk", LibraryKey: "sink-tile", Ports: map[string]netlist.Port{"in": inPort}},
		},
		map[netlist.NetworkID]netlist.Network{
			"net-0": {
				ID:     "net-0",
				Driver: netlist.PinRef{InstanceID: "src", PortName: "out", PinIndex: 0},
				Sinks:  []netlist.PinRef{{InstanceID: "snk", PortName: "in", PinIndex: 0}},
			},
		},
	)
	if err != nil {
		t.Fatalf("netlist.New: %v", err)
	}
	return nl
}

func TestNetlistDOTIncludesInstancesAndEdges(t *testing.T) {
	nl := twoInstanceNetlist(t)
	dot := NetlistDOT(nl)

	if !strings.HasPrefix(dot, "digraph G {") {
		t.Fatalf("expected DOT to start with digraph G {, got %q", dot)
	}
	if !strings.Contains(dot, `"src"`) || !strings.Contains(dot, `"snk"`) {
		t.Fatalf("expected both instance nodes in DOT, got %q", dot)
	}
	if !strings.Contains(dot, `"src" -> "snk"`) {
		t.Fatalf("expected driver->sink edge in DOT, got %q", dot)
	}
	if !strings.Contains(dot, `"net-0"`) {
		t.Fatalf("expected edge label to name the network, got %q", dot)
	}
}

func TestSummarizeNetlistCountsInstancesAndNetworks(t *testing.T) {
	nl := twoInstanceNetlist(t)
	summary := summarizeNetlist(nl)

	if !strings.Contains(summary, "2 instances") {
		t.Fatalf("expected instance count in summary, got %q", summary)
	}
	if !strings.Contains(summary, "1 networks") {
		t.Fatalf("expected network count in summary, got %q", summary)
	}
	if !strings.Contains(summary, "net-0") {
		t.Fatalf("expected network id in summary, got %q", summary)
	}
}
