// Package debugviz implements the visualization/debug collaborators named
// in §6's CLI: a netlist DAG renderer, a terminal schematic viewer, and a
// websocket live-progress stream, used by `redhdl display` and
// `redhdl debug-bussing`.
package debugviz

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/andrewsmike/redhdl/internal/netlist"
	"github.com/andrewsmike/redhdl/internal/rherrors"
)

// NetlistDOT renders a netlist's instance/network graph as Graphviz DOT: one
// node per instance, one edge per driver->sink pin pair, labeled by network
// ID. Mirrors the teacher's dependency-graph-as-DAG rendering for a netlist
// instead of a package graph.
func NetlistDOT(nl *netlist.Netlist) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n\n")

	for _, id := range nl.SortedInstanceIDs() {
		inst := nl.Instances[id]
		fmt.Fprintf(&buf, "  %q [label=%q];\n", id, fmt.Sprintf("%s\\n(%s)", id, inst.LibraryKey))
	}

	buf.WriteString("\n")
	for _, netID := range nl.SortedNetworkIDs() {
		net := nl.Networks[netID]
		for _, sink := range net.Sinks {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", net.Driver.InstanceID, sink.InstanceID, netID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG via Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, rherrors.WrapInternal(err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, rherrors.WrapInternal(err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, rherrors.WrapInternal(err, "render SVG")
	}
	return buf.Bytes(), nil
}

// RenderPNG renders a DOT graph to PNG via Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, rherrors.WrapInternal(err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, rherrors.WrapInternal(err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.PNG, &buf); err != nil {
		return nil, rherrors.WrapInternal(err, "render PNG")
	}
	return buf.Bytes(), nil
}

// summarizeNetlist is used by the bubbletea slice view to show a one-line
// netlist digest without re-walking the full DOT.
func summarizeNetlist(nl *netlist.Netlist) string {
	instances := nl.SortedInstanceIDs()
	networks := nl.SortedNetworkIDs()
	names := make([]string, 0, len(networks))
	for _, id := range networks {
		names = append(names, string(id))
	}
	return fmt.Sprintf("%d instances, %d networks (%s)", len(instances), len(networks), strings.Join(names, ", "))
}
