package netlist

import (
	"github.com/andrewsmike/redhdl/internal/rherrors"
)

// inputMarker and outputMarker are the special instance IDs a hierarchical
// sub-netlist uses to describe its own boundary (§3, "Netlist inherits
// from Instance"): "input"'s out-ports mirror the wrapping instance's
// in-ports, and "output"'s in-ports mirror the wrapping instance's
// out-ports.
const (
	inputMarker  InstanceID = "input"
	outputMarker InstanceID = "output"
)

// Flatten inlines every hierarchical instance (one whose SubNetlist is
// non-nil) into its parent, recursively, and returns a netlist with no
// remaining hierarchy. The core's other operations accept only flat
// netlists (§1 Non-goals); Flatten is a convenience the core offers on top
// of that contract so callers aren't required to flatten upstream.
func Flatten(nl *Netlist) (*Netlist, error) {
	out := &Netlist{Instances: map[InstanceID]Instance{}, Networks: map[NetworkID]Network{}}

	// inputBridge[parentRef] = internal sinks fed by that in-pin.
	// outputBridge[parentRef] = internal driver feeding that out-pin.
	inputBridge := map[PinRef][]PinRef{}
	outputBridge := map[PinRef]PinRef{}

	for _, id := range nl.SortedInstanceIDs() {
		inst := nl.Instances[id]
		if inst.SubNetlist == nil {
			out.Instances[id] = inst
			continue
		}

		sub, err := Flatten(inst.SubNetlist)
		if err != nil {
			return nil, err
		}

		prefix := string(id) + "."
		for _, subID := range sub.SortedInstanceIDs() {
			if subID == inputMarker || subID == outputMarker {
				continue
			}
			renamed := sub.Instances[subID]
			renamed.ID = InstanceID(prefix) + subID
			out.Instances[renamed.ID] = renamed
		}

		rename := func(ref PinRef) PinRef {
			ref.InstanceID = InstanceID(prefix) + ref.InstanceID
			return ref
		}

		for _, netID := range sub.SortedNetworkIDs() {
			net := sub.Networks[netID]
			touchesBoundary := net.Driver.InstanceID == inputMarker || net.Driver.InstanceID == outputMarker
			for _, sink := range net.Sinks {
				touchesBoundary = touchesBoundary || sink.InstanceID == inputMarker || sink.InstanceID == outputMarker
			}

			if net.Driver.InstanceID == inputMarker {
				parentRef := PinRef{InstanceID: id, PortName: net.Driver.PortName, PinIndex: net.Driver.PinIndex}
				for _, sink := range net.Sinks {
					inputBridge[parentRef] = append(inputBridge[parentRef], rename(sink))
				}
				continue
			}

			var outputSink *PinRef
			for _, sink := range net.Sinks {
				if sink.InstanceID == outputMarker {
					parentRef := PinRef{InstanceID: id, PortName: sink.PortName, PinIndex: sink.PinIndex}
					outputBridge[parentRef] = rename(net.Driver)
					outputSink = &sink
				}
			}
			if outputSink != nil {
				continue
			}

			if touchesBoundary {
				return nil, rherrors.NewBadNetlist(
					"bad_hierarchy", "instance %s: network %s touches its boundary in an unsupported way", id, netID,
				)
			}

			newNetID := NetworkID(prefix) + netID
			out.Networks[newNetID] = Network{
				ID:     newNetID,
				Driver: rename(net.Driver),
				Sinks:  renameAll(net.Sinks, rename),
			}
		}
	}

	for _, id := range nl.SortedNetworkIDs() {
		net := nl.Networks[id]
		newNet := Network{ID: id}

		if internal, bridged := outputBridge[net.Driver]; bridged {
			newNet.Driver = internal
		} else {
			newNet.Driver = net.Driver
		}

		for _, sink := range net.Sinks {
			if internal, bridged := inputBridge[sink]; bridged {
				newNet.Sinks = append(newNet.Sinks, internal...)
			} else {
				newNet.Sinks = append(newNet.Sinks, sink)
			}
		}

		out.Networks[id] = newNet
	}

	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

func renameAll(refs []PinRef, rename func(PinRef) PinRef) []PinRef {
	out := make([]PinRef, len(refs))
	for i, ref := range refs {
		out[i] = rename(ref)
	}
	return out
}
