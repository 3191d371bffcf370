package netlist

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/andrewsmike/redhdl/internal/geom"
	"github.com/andrewsmike/redhdl/internal/rherrors"
)

// jsonPin mirrors the pin shape used by a library tile's meta.json (§6),
// so the same pin representation is shared by both formats.
type jsonPin struct {
	Pos  [3]int `json:"pos"`
	Face string `json:"face"`
	Role string `json:"role"`
}

type jsonInstance struct {
	Lib   string               `json:"lib"`
	Ports map[string][]jsonPin `json:"ports"`
}

type jsonPinRef struct {
	Inst string `json:"inst"`
	Port string `json:"port"`
	Idx  int    `json:"idx"`
}

type jsonDoc struct {
	Instances map[string]jsonInstance `json:"instances"`
	Networks  [][]jsonPinRef          `json:"networks"`
}

func roleToString(r PinRole) string { return r.String() }

func roleFromString(s string) (PinRole, bool) {
	switch s {
	case "input":
		return RoleInput, true
	case "output":
		return RoleOutput, true
	case "bidir":
		return RoleBidir, true
	default:
		return 0, false
	}
}

func directionFromString(s string) (PortDirection, bool) {
	switch s {
	case "in":
		return PortIn, true
	case "out":
		return PortOut, true
	case "inout":
		return PortInout, true
	default:
		return 0, false
	}
}

// ToJSON serializes a flat netlist (no hierarchical instances) using the
// exchange format of §6: instances keyed by ID with a flat pin list per
// port, networks as arrays whose first element is the driver.
//
// A port's pin-sequence structure doesn't survive the round trip: ToJSON
// flattens every port to a single sequence, matching the wire format's
// pin list. Flatten any hierarchy before calling ToJSON.
func (nl *Netlist) ToJSON() ([]byte, error) {
	doc := jsonDoc{Instances: map[string]jsonInstance{}}

	for _, id := range nl.SortedInstanceIDs() {
		inst := nl.Instances[id]
		if inst.SubNetlist != nil {
			return nil, rherrors.Internal("ToJSON: instance %s is hierarchical; call Flatten first", id)
		}

		ports := map[string][]jsonPin{}
		for _, portName := range sortedPortNames(inst.Ports) {
			port := inst.Ports[portName]
			pins := make([]jsonPin, 0, port.Width())
			for _, seq := range port.Pins {
				for _, pin := range seq {
					pins = append(pins, jsonPin{
						Pos:  [3]int{pin.Pos.X, pin.Pos.Y, pin.Pos.Z},
						Face: pin.Face.String(),
						Role: roleToString(pin.Role),
					})
				}
			}
			ports[portName] = pins
		}

		doc.Instances[string(id)] = jsonInstance{Lib: inst.LibraryKey, Ports: ports}
	}

	for _, netID := range nl.SortedNetworkIDs() {
		net := nl.Networks[netID]
		refs := make([]jsonPinRef, 0, len(net.Sinks)+1)
		for _, ref := range net.AllRefs() {
			refs = append(refs, jsonPinRef{Inst: string(ref.InstanceID), Port: ref.PortName, Idx: ref.PinIndex})
		}
		doc.Networks = append(doc.Networks, refs)
	}

	return json.MarshalIndent(doc, "", "  ")
}

// FromJSON parses the §6 exchange format. Every parsed instance gets a
// single-pin-sequence-per-port layout; PortDirection defaults from the
// pins' roles (all-input pins -> in, all-output -> out, mixed -> inout)
// since the wire format has no separate port-direction field.
func FromJSON(data []byte) (*Netlist, error) {
	var doc jsonDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, rherrors.NewBadNetlist("malformed_json", "%v", err)
	}

	instances := map[InstanceID]Instance{}
	for id, jsonInst := range doc.Instances {
		ports := map[string]Port{}
		for portName, pins := range jsonInst.Ports {
			seq := make(PinSequence, 0, len(pins))
			sawIn, sawOut := false, false
			for _, jp := range pins {
				role, ok := roleFromString(jp.Role)
				if !ok {
					return nil, rherrors.NewBadNetlist("bad_pin_role", "instance %s port %s: unknown role %q", id, portName, jp.Role)
				}
				face, ok := geom.DirectionFromString(jp.Face)
				if !ok {
					return nil, rherrors.NewBadNetlist("bad_pin_face", "instance %s port %s: unknown face %q", id, portName, jp.Face)
				}
				switch role {
				case RoleInput:
					sawIn = true
				case RoleOutput:
					sawOut = true
				case RoleBidir:
					sawIn, sawOut = true, true
				}
				seq = append(seq, Pin{
					Pos:  geom.Pos{X: jp.Pos[0], Y: jp.Pos[1], Z: jp.Pos[2]},
					Face: face,
					Role: role,
				})
			}

			direction := PortInout
			switch {
			case sawIn && !sawOut:
				direction = PortIn
			case sawOut && !sawIn:
				direction = PortOut
			}

			ports[portName] = Port{Name: portName, Direction: direction, Pins: []PinSequence{seq}}
		}
		instances[InstanceID(id)] = Instance{ID: InstanceID(id), LibraryKey: jsonInst.Lib, Ports: ports}
	}

	networks := map[NetworkID]Network{}
	for i, refs := range doc.Networks {
		if len(refs) == 0 {
			return nil, rherrors.NewBadNetlist("empty_network", "network at index %d has no pins", i)
		}
		netID := NetworkID(fmt.Sprintf("net-%d", i))
		driver := PinRef{InstanceID: InstanceID(refs[0].Inst), PortName: refs[0].Port, PinIndex: refs[0].Idx}
		sinks := make([]PinRef, 0, len(refs)-1)
		for _, r := range refs[1:] {
			sinks = append(sinks, PinRef{InstanceID: InstanceID(r.Inst), PortName: r.Port, PinIndex: r.Idx})
		}
		networks[netID] = Network{ID: netID, Driver: driver, Sinks: sinks}
	}

	return New(instances, networks)
}

func sortedPortNames(ports map[string]Port) []string {
	names := make([]string, 0, len(ports))
	for name := range ports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
