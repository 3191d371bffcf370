package netlist

import (
	"fmt"
	"strings"
)

// DescribeASCII renders a netlist as a flat, human-readable instance/net
// listing for debug output: one line per instance naming its ports, then
// one line per network naming its driver and sinks. It carries no
// positional or rotational information; use a schematic viewer for that.
func (nl *Netlist) DescribeASCII() string {
	var b strings.Builder

	fmt.Fprintf(&b, "instances (%d):\n", len(nl.Instances))
	for _, id := range nl.SortedInstanceIDs() {
		inst := nl.Instances[id]
		fmt.Fprintf(&b, "  %s [%s]\n", id, inst.LibraryKey)
		for _, name := range sortedPortNames(inst.Ports) {
			port := inst.Ports[name]
			fmt.Fprintf(&b, "    %s: %s(%d)\n", name, port.Direction, port.Width())
		}
	}

	fmt.Fprintf(&b, "networks (%d):\n", len(nl.Networks))
	for _, id := range nl.SortedNetworkIDs() {
		net := nl.Networks[id]
		sinks := make([]string, len(net.Sinks))
		for i, s := range net.Sinks {
			sinks[i] = s.String()
		}
		fmt.Fprintf(&b, "  %s: %s -> %s\n", id, net.Driver, strings.Join(sinks, ", "))
	}

	return b.String()
}
