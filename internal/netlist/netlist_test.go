package netlist

import (
	"strings"
	"testing"

	"github.com/andrewsmike/redhdl/internal/geom"
)

func twoInstanceNetlist(t *testing.T) *Netlist {
	t.Helper()

	driver := Instance{
		ID:         "gate0",
		LibraryKey: "and_gate",
		Ports: map[string]Port{
			"out": {
				Name:      "out",
				Direction: PortOut,
				Pins:      []PinSequence{{{Pos: geom.Pos{X: 0, Y: 0, Z: 0}, Face: geom.East, Role: RoleOutput}}},
			},
		},
	}
	sink := Instance{
		ID:         "gate1",
		LibraryKey: "not_gate",
		Ports: map[string]Port{
			"in": {
				Name:      "in",
				Direction: PortIn,
				Pins:      []PinSequence{{{Pos: geom.Pos{X: 2, Y: 0, Z: 0}, Face: geom.West, Role: RoleInput}}},
			},
		},
	}

	instances := map[InstanceID]Instance{driver.ID: driver, sink.ID: sink}
	networks := map[NetworkID]Network{
		"net-0": {
			ID:     "net-0",
			Driver: PinRef{InstanceID: "gate0", PortName: "out", PinIndex: 0},
			Sinks:  []PinRef{{InstanceID: "gate1", PortName: "in", PinIndex: 0}},
		},
	}

	nl, err := New(instances, networks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return nl
}

func TestNewValidatesCleanNetlist(t *testing.T) {
	twoInstanceNetlist(t)
}

func TestValidateRejectsUnknownInstance(t *testing.T) {
	networks := map[NetworkID]Network{
		"net-0": {
			ID:     "net-0",
			Driver: PinRef{InstanceID: "ghost", PortName: "out", PinIndex: 0},
		},
	}
	if _, err := New(map[InstanceID]Instance{}, networks); err == nil {
		t.Fatalf("expected error for unknown instance")
	}
}

func TestValidateRejectsDuplicatePin(t *testing.T) {
	driver := Instance{
		ID: "gate0",
		Ports: map[string]Port{
			"out": {Name: "out", Direction: PortOut, Pins: []PinSequence{{{Role: RoleOutput}}}},
		},
	}
	sink := Instance{
		ID: "gate1",
		Ports: map[string]Port{
			"in": {Name: "in", Direction: PortIn, Pins: []PinSequence{{{Role: RoleInput}}}},
		},
	}
	instances := map[InstanceID]Instance{driver.ID: driver, sink.ID: sink}
	ref := PinRef{InstanceID: "gate1", PortName: "in", PinIndex: 0}
	networks := map[NetworkID]Network{
		"net-0": {ID: "net-0", Driver: PinRef{InstanceID: "gate0", PortName: "out", PinIndex: 0}, Sinks: []PinRef{ref}},
		"net-1": {ID: "net-1", Driver: PinRef{InstanceID: "gate0", PortName: "out", PinIndex: 0}, Sinks: []PinRef{ref}},
	}

	if _, err := New(instances, networks); err == nil {
		t.Fatalf("expected duplicate-pin error")
	}
}

func TestValidateRejectsSinkOnOutputOnlyPort(t *testing.T) {
	driver := Instance{
		ID: "gate0",
		Ports: map[string]Port{
			"out": {Name: "out", Direction: PortOut, Pins: []PinSequence{{{Role: RoleOutput}}}},
		},
	}
	instances := map[InstanceID]Instance{driver.ID: driver}
	networks := map[NetworkID]Network{
		"net-0": {
			ID:     "net-0",
			Driver: PinRef{InstanceID: "gate0", PortName: "out", PinIndex: 0},
			Sinks:  []PinRef{{InstanceID: "gate0", PortName: "out", PinIndex: 0}},
		},
	}

	if _, err := New(instances, networks); err == nil {
		t.Fatalf("expected sink-direction-mismatch error")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	nl := twoInstanceNetlist(t)

	data, err := nl.ToJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parsed, err := FromJSON(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(parsed.Instances) != len(nl.Instances) {
		t.Fatalf("instance count mismatch: %d vs %d", len(parsed.Instances), len(nl.Instances))
	}
	if len(parsed.Networks) != len(nl.Networks) {
		t.Fatalf("network count mismatch: %d vs %d", len(parsed.Networks), len(nl.Networks))
	}
}

func TestDescribeASCIIIncludesInstancesAndNetworks(t *testing.T) {
	nl := twoInstanceNetlist(t)
	out := nl.DescribeASCII()

	if !strings.Contains(out, "gate0") || !strings.Contains(out, "gate1") {
		t.Fatalf("expected instance names in output, got: %s", out)
	}
	if !strings.Contains(out, "net-0") {
		t.Fatalf("expected network id in output, got: %s", out)
	}
}

func TestFlattenInlinesSubNetlist(t *testing.T) {
	inputInst := Instance{
		ID: inputMarker,
		Ports: map[string]Port{
			"a": {Name: "a", Direction: PortOut, Pins: []PinSequence{{{Role: RoleOutput}}}},
		},
	}
	outputInst := Instance{
		ID: outputMarker,
		Ports: map[string]Port{
			"y": {Name: "y", Direction: PortIn, Pins: []PinSequence{{{Role: RoleInput}}}},
		},
	}
	inner := Instance{
		ID:         "inv",
		LibraryKey: "not_gate",
		Ports: map[string]Port{
			"in":  {Name: "in", Direction: PortIn, Pins: []PinSequence{{{Role: RoleInput}}}},
			"out": {Name: "out", Direction: PortOut, Pins: []PinSequence{{{Role: RoleOutput}}}},
		},
	}

	sub := &Netlist{
		Instances: map[InstanceID]Instance{inputInst.ID: inputInst, outputInst.ID: outputInst, inner.ID: inner},
		Networks: map[NetworkID]Network{
			"bridge-in": {
				ID:     "bridge-in",
				Driver: PinRef{InstanceID: inputMarker, PortName: "a", PinIndex: 0},
				Sinks:  []PinRef{{InstanceID: "inv", PortName: "in", PinIndex: 0}},
			},
			"bridge-out": {
				ID:     "bridge-out",
				Driver: PinRef{InstanceID: "inv", PortName: "out", PinIndex: 0},
				Sinks:  []PinRef{{InstanceID: outputMarker, PortName: "y", PinIndex: 0}},
			},
		},
	}

	wrapper := Instance{
		ID:         "inverter_block",
		LibraryKey: "inverter_block",
		Ports: map[string]Port{
			"a": {Name: "a", Direction: PortIn, Pins: []PinSequence{{{Role: RoleInput}}}},
			"y": {Name: "y", Direction: PortOut, Pins: []PinSequence{{{Role: RoleOutput}}}},
		},
		SubNetlist: sub,
	}
	source := Instance{
		ID:         "src",
		LibraryKey: "source",
		Ports: map[string]Port{
			"out": {Name: "out", Direction: PortOut, Pins: []PinSequence{{{Role: RoleOutput}}}},
		},
	}
	sink := Instance{
		ID:         "sink",
		LibraryKey: "sink",
		Ports: map[string]Port{
			"in": {Name: "in", Direction: PortIn, Pins: []PinSequence{{{Role: RoleInput}}}},
		},
	}

	parent := &Netlist{
		Instances: map[InstanceID]Instance{wrapper.ID: wrapper, source.ID: source, sink.ID: sink},
		Networks: map[NetworkID]Network{
			"net-a": {
				ID:     "net-a",
				Driver: PinRef{InstanceID: "src", PortName: "out", PinIndex: 0},
				Sinks:  []PinRef{{InstanceID: "inverter_block", PortName: "a", PinIndex: 0}},
			},
			"net-y": {
				ID:     "net-y",
				Driver: PinRef{InstanceID: "inverter_block", PortName: "y", PinIndex: 0},
				Sinks:  []PinRef{{InstanceID: "sink", PortName: "in", PinIndex: 0}},
			},
		},
	}

	flat, err := Flatten(parent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := flat.Instances["inverter_block"]; ok {
		t.Fatalf("expected hierarchical instance to be removed")
	}
	if _, ok := flat.Instances["inverter_block.inv"]; !ok {
		t.Fatalf("expected inner instance renamed with prefix")
	}

	net, ok := flat.NetworkContaining(PinRef{InstanceID: "src", PortName: "out", PinIndex: 0})
	if !ok {
		t.Fatalf("expected src's network to survive flattening")
	}
	found := false
	for _, s := range net.Sinks {
		if s.InstanceID == "inverter_block.inv" && s.PortName == "in" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected src to drive inverter_block.inv's in pin, got %+v", net)
	}

	if err := flat.Validate(); err != nil {
		t.Fatalf("flattened netlist failed validation: %v", err)
	}
}
