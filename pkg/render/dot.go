// Package render produces node-link diagrams of a channel network's topology
// in Graphviz DOT format, with optional SVG rasterization. Rendering is a
// presentation concern: the network core only ever exchanges in-memory tables.
package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/thalweg/pkg/network"
)

// Options configures network diagram rendering.
type Options struct {
	// Detailed includes node degrees and edge lengths in labels.
	Detailed bool
	// Outlet highlights the given node as the network outlet; use a negative
	// value when no outlet is known.
	Outlet int
}

// ToDOT converts a network's topology to Graphviz DOT. The outlet node, when
// given, is drawn with a double circle; junction nodes are filled.
func ToDOT(n *network.Network, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph network {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	junction := make(map[int]bool)
	for _, id := range n.IntermediateNodes() {
		junction[id] = true
	}

	for _, node := range n.Nodes() {
		label := fmt.Sprintf("%d", node.ID)
		if opts.Detailed {
			label = fmt.Sprintf("%d\\nin:%d out:%d", node.ID, n.InDegree(node.ID), n.OutDegree(node.ID))
		}
		attrs := fmt.Sprintf("label=%q", label)
		switch {
		case node.ID == opts.Outlet:
			attrs += ", shape=doublecircle, fillcolor=lightblue"
		case junction[node.ID]:
			attrs += ", fillcolor=lightgrey"
		}
		fmt.Fprintf(&buf, "  %d [%s];\n", node.ID, attrs)
	}

	buf.WriteString("\n")
	for _, key := range n.Edges() {
		if opts.Detailed {
			e, _ := n.Edge(key)
			fmt.Fprintf(&buf, "  %d -> %d [label=\"%.1f\"];\n", key.From, key.To, e.Length)
			continue
		}
		fmt.Fprintf(&buf, "  %d -> %d;\n", key.From, key.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
