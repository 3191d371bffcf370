// Package netlist implements the netlist model (§4.3): instances, ports,
// pin sequences, and networks, plus validation, flattening, and JSON
// round-trip.
package netlist

import (
	"fmt"
	"sort"

	"github.com/andrewsmike/redhdl/internal/geom"
	"github.com/andrewsmike/redhdl/internal/rherrors"
)

type InstanceID string
type NetworkID string

// PinRole is the smallest electrical endpoint's direction tag.
type PinRole int

const (
	RoleInput PinRole = iota
	RoleOutput
	RoleBidir
)

func (r PinRole) String() string {
	switch r {
	case RoleInput:
		return "input"
	case RoleOutput:
		return "output"
	case RoleBidir:
		return "bidir"
	default:
		return "invalid"
	}
}

// PortDirection is a port's bus-interface direction.
type PortDirection int

const (
	PortIn PortDirection = iota
	PortOut
	PortInout
)

func (d PortDirection) String() string {
	switch d {
	case PortIn:
		return "in"
	case PortOut:
		return "out"
	case PortInout:
		return "inout"
	default:
		return "invalid"
	}
}

// Pin is the smallest electrical endpoint: a local-frame position plus the
// face signal enters/exits on, plus a role tag.
type Pin struct {
	Pos  geom.Pos
	Face geom.Direction
	Role PinRole
}

// PinSequence is an ordered list of pins sharing a type; its length is the
// bus width.
type PinSequence []Pin

func (s PinSequence) Width() int { return len(s) }

// Port is a named collection of pin-sequences of one instance.
type Port struct {
	Name      string
	Direction PortDirection
	Pins      []PinSequence
}

// Width returns the total number of individual pins across all of the
// port's pin-sequences.
func (p Port) Width() int {
	n := 0
	for _, seq := range p.Pins {
		n += seq.Width()
	}
	return n
}

// PinAt returns the pin at a flat index across the port's pin-sequences.
func (p Port) PinAt(index int) (Pin, bool) {
	for _, seq := range p.Pins {
		if index < len(seq) {
			return seq[index], true
		}
		index -= len(seq)
	}
	return Pin{}, false
}

// Instance is one occurrence of a tile from the library, identified
// opaquely. A hierarchical instance (SubNetlist != nil) is a sub-circuit
// pending Flatten; the core's other operations require SubNetlist == nil
// everywhere (flat netlists only, per §1 Non-goals).
type Instance struct {
	ID         InstanceID
	LibraryKey string
	Ports      map[string]Port
	SubNetlist *Netlist
}

// PinRef identifies one pin by (instance, port, pin index) triple.
type PinRef struct {
	InstanceID InstanceID
	PortName   string
	PinIndex   int
}

func (r PinRef) String() string {
	return fmt.Sprintf("%s.%s[%d]", r.InstanceID, r.PortName, r.PinIndex)
}

// Network is a set of pins that must be electrically connected; exactly
// one is the driver.
type Network struct {
	ID     NetworkID
	Driver PinRef
	Sinks  []PinRef
}

// AllRefs returns the driver followed by every sink.
func (n Network) AllRefs() []PinRef {
	return append([]PinRef{n.Driver}, n.Sinks...)
}

// Netlist is a finite map of instances plus a set of networks connecting
// their pins.
type Netlist struct {
	Instances map[InstanceID]Instance
	Networks  map[NetworkID]Network
}

// New validates all of §3's invariants in one pass and returns a
// *rherrors.BadNetlist naming the first offending triple found.
func New(instances map[InstanceID]Instance, networks map[NetworkID]Network) (*Netlist, error) {
	nl := &Netlist{Instances: instances, Networks: networks}
	if err := nl.Validate(); err != nil {
		return nil, err
	}
	return nl, nil
}

// Validate checks every invariant in §3:
//   - every triple in every network refers to an existing instance/port/pin;
//   - for every instance every pin appears in at most one network;
//   - every sink's port direction is compatible with an input role.
func (nl *Netlist) Validate() error {
	pinNetwork := map[PinRef]NetworkID{}

	ids := sortedNetworkIDs(nl.Networks)
	for _, id := range ids {
		net := nl.Networks[id]
		for i, ref := range net.AllRefs() {
			isDriver := i == 0
			if err := nl.validateRef(ref, isDriver); err != nil {
				return err
			}
			if prior, dup := pinNetwork[ref]; dup {
				return rherrors.NewBadNetlist(
					"duplicate_pin",
					"pin %s is referenced by both network %s and network %s",
					ref, prior, id,
				)
			}
			pinNetwork[ref] = id
		}
	}
	return nil
}

func (nl *Netlist) validateRef(ref PinRef, isDriver bool) error {
	inst, ok := nl.Instances[ref.InstanceID]
	if !ok {
		return rherrors.NewBadNetlist("unknown_instance", "%s: no such instance", ref)
	}
	port, ok := inst.Ports[ref.PortName]
	if !ok {
		return rherrors.NewBadNetlist("unknown_port", "%s: instance %s has no port %q", ref, ref.InstanceID, ref.PortName)
	}
	if ref.PinIndex < 0 || ref.PinIndex >= port.Width() {
		return rherrors.NewBadNetlist("pin_index_out_of_range", "%s: port %q has width %d", ref, ref.PortName, port.Width())
	}
	if !isDriver && port.Direction == PortOut {
		return rherrors.NewBadNetlist("sink_direction_mismatch", "%s: sink pin belongs to an output-only port", ref)
	}
	if isDriver && port.Direction == PortIn {
		return rherrors.NewBadNetlist("driver_direction_mismatch", "%s: driver pin belongs to an input-only port", ref)
	}
	return nil
}

func sortedNetworkIDs(networks map[NetworkID]Network) []NetworkID {
	ids := make([]NetworkID, 0, len(networks))
	for id := range networks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SortedNetworkIDs returns every network ID in lexicographic order,
// matching the stable secondary sort key used by §5's routing order.
func (nl *Netlist) SortedNetworkIDs() []NetworkID {
	return sortedNetworkIDs(nl.Networks)
}

// SortedInstanceIDs returns every instance ID in lexicographic order.
func (nl *Netlist) SortedInstanceIDs() []InstanceID {
	ids := make([]InstanceID, 0, len(nl.Instances))
	for id := range nl.Instances {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// NetworkContaining returns the unique network containing ref, if any.
func (nl *Netlist) NetworkContaining(ref PinRef) (Network, bool) {
	for _, id := range nl.SortedNetworkIDs() {
		net := nl.Networks[id]
		for _, candidate := range net.AllRefs() {
			if candidate == ref {
				return net, true
			}
		}
	}
	return Network{}, false
}
