// Package network models a stream channel network as a directed graph of
// line geometries. Nodes are the distinct line endpoints, edges run from the
// upstream node to the downstream node and carry the full geometry with a
// precomputed cumulative-distance table.
//
// The graph is built once from a complete set of input lines and is read-only
// afterwards. Every derived table (edge addresses, vertices, stations, point
// addresses) is recomputed fresh by a pure function of the graph, so
// concurrent reads are safe without locking.
//
// Endpoint matching during construction is exact coordinate equality, by
// design: near-miss gaps produced by sloppy digitization surface as isolated
// nodes or extra components instead of being silently fused. Tolerance-based
// snapping belongs to the repair package.
package network

import (
	"errors"
	"fmt"
	"sort"

	"github.com/paulmach/orb"

	"github.com/matzehuels/thalweg/pkg/geom"
)

var (
	// ErrNoLines is returned by [Build] when no input geometries are given.
	ErrNoLines = errors.New("no input lines")

	// ErrShortLine is returned by [Build] when a line has fewer than two vertices.
	ErrShortLine = errors.New("line must have at least two vertices")

	// ErrDuplicateEdge is returned by [Build] when two lines share both endpoints
	// in the same order. Parallel channels must be digitized with distinct junctions.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrNoOutlet is returned by [Network.Outlet] when no node has zero out-degree.
	ErrNoOutlet = errors.New("no outlet: no node with zero out-degree")

	// ErrMultipleOutlets is returned by [Network.Outlet] when more than one node
	// has zero out-degree. Use [Network.Outlets] to list the candidates and
	// disambiguate explicitly.
	ErrMultipleOutlets = errors.New("multiple outlets: caller must disambiguate")

	// ErrUnknownNode is returned by path queries for a node ID not in the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownEdge is returned by [Network.Edge] lookups for a missing edge.
	ErrUnknownEdge = errors.New("unknown edge")

	// ErrNoPath is returned by [Network.PathEdges] when the goal is not
	// reachable from the start along directed edges.
	ErrNoPath = errors.New("no path")
)

// Node is a channel endpoint or junction.
type Node struct {
	ID int
	P  orb.Point
}

// EdgeKey identifies a directed edge by its node pair.
type EdgeKey struct {
	From, To int
}

func (k EdgeKey) String() string { return fmt.Sprintf("(%d→%d)", k.From, k.To) }

// Edge is a directed channel segment from the upstream node to the
// downstream node.
type Edge struct {
	From, To int
	Line     geom.Line
	Length   float64   // planar length
	Meas     []float64 // cumulative vertex distance from the From node
}

// Key returns the edge's identifying node pair.
func (e *Edge) Key() EdgeKey { return EdgeKey{From: e.From, To: e.To} }

// IssueKind classifies a topology problem found during construction.
type IssueKind int

const (
	// IssueIsolatedNode flags a node with zero in-degree and zero out-degree.
	IssueIsolatedNode IssueKind = iota
	// IssueMultipleSubgraphs flags a graph whose undirected closure has more
	// than one connected component.
	IssueMultipleSubgraphs
)

func (k IssueKind) String() string {
	switch k {
	case IssueIsolatedNode:
		return "isolated node"
	case IssueMultipleSubgraphs:
		return "multiple subgraphs"
	default:
		return "unknown issue"
	}
}

// Issue is a non-fatal topology problem. The graph remains usable, but
// outlet-relative addressing is only meaningful within the component holding
// the chosen outlet. The repair package closes near-miss endpoint gaps.
type Issue struct {
	Kind  IssueKind
	Nodes []int // affected node IDs; for IssueMultipleSubgraphs, one node per extra component
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: nodes %v", i.Kind, i.Nodes)
}

// Network is a directed graph of stream channel geometries.
type Network struct {
	nodes []Node
	edges map[EdgeKey]*Edge
	out   map[int][]int // node ID -> downstream neighbor node IDs
	in    map[int][]int // node ID -> upstream neighbor node IDs
}

// Build constructs a network from line geometries. Each line becomes one
// directed edge from the node matching its first coordinate to the node
// matching its last coordinate; nodes are the deduplicated endpoints, with
// IDs assigned in order of first appearance.
//
// Topology problems (isolated nodes, multiple weakly-connected components)
// are returned as issues alongside a usable graph, never as errors; the
// caller decides whether to proceed or repair.
func Build(lines []geom.Line) (*Network, []Issue, error) {
	if len(lines) == 0 {
		return nil, nil, ErrNoLines
	}

	n := &Network{
		edges: make(map[EdgeKey]*Edge),
		out:   make(map[int][]int),
		in:    make(map[int][]int),
	}

	// deduplicate endpoints by exact coordinate equality
	ids := make(map[orb.Point]int)
	nodeID := func(p orb.Point) int {
		if id, ok := ids[p]; ok {
			return id
		}
		id := len(n.nodes)
		ids[p] = id
		n.nodes = append(n.nodes, Node{ID: id, P: p})
		return id
	}

	for i, line := range lines {
		if len(line.Coords) < 2 {
			return nil, nil, fmt.Errorf("line %d: %w", i, ErrShortLine)
		}
		from := nodeID(line.Coords[0])
		to := nodeID(line.Coords[len(line.Coords)-1])

		key := EdgeKey{From: from, To: to}
		if _, exists := n.edges[key]; exists {
			return nil, nil, fmt.Errorf("line %d: %w: %s", i, ErrDuplicateEdge, key)
		}
		meas := geom.Measure(line.Coords, 0)
		n.edges[key] = &Edge{
			From:   from,
			To:     to,
			Line:   line,
			Length: meas[len(meas)-1],
			Meas:   meas,
		}
		n.out[from] = append(n.out[from], to)
		n.in[to] = append(n.in[to], from)
	}

	return n, n.validate(), nil
}

// validate detects isolated nodes and multiple weakly-connected components.
func (n *Network) validate() []Issue {
	var issues []Issue

	var isolated []int
	for _, node := range n.nodes {
		if len(n.out[node.ID]) == 0 && len(n.in[node.ID]) == 0 {
			isolated = append(isolated, node.ID)
		}
	}
	if len(isolated) > 0 {
		issues = append(issues, Issue{Kind: IssueIsolatedNode, Nodes: isolated})
	}

	if roots := n.componentRoots(); len(roots) > 1 {
		issues = append(issues, Issue{Kind: IssueMultipleSubgraphs, Nodes: roots})
	}
	return issues
}

// componentRoots returns the lowest node ID of each weakly-connected component.
func (n *Network) componentRoots() []int {
	seen := make(map[int]bool, len(n.nodes))
	var roots []int
	for _, node := range n.nodes {
		if seen[node.ID] {
			continue
		}
		roots = append(roots, node.ID)
		stack := []int{node.ID}
		seen[node.ID] = true
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, next := range n.out[id] {
				if !seen[next] {
					seen[next] = true
					stack = append(stack, next)
				}
			}
			for _, prev := range n.in[id] {
				if !seen[prev] {
					seen[prev] = true
					stack = append(stack, prev)
				}
			}
		}
	}
	return roots
}

// Nodes returns all nodes ordered by ID.
func (n *Network) Nodes() []Node {
	out := make([]Node, len(n.nodes))
	copy(out, n.nodes)
	return out
}

// Node returns the node with the given ID.
func (n *Network) Node(id int) (Node, bool) {
	if id < 0 || id >= len(n.nodes) {
		return Node{}, false
	}
	return n.nodes[id], true
}

// NodeCount returns the number of nodes.
func (n *Network) NodeCount() int { return len(n.nodes) }

// EdgeCount returns the number of edges.
func (n *Network) EdgeCount() int { return len(n.edges) }

// Edges returns all edge keys in ascending (from, to) order. The ordering is
// deterministic so that derived tables and filter tie-breaks are reproducible.
func (n *Network) Edges() []EdgeKey {
	keys := make([]EdgeKey, 0, len(n.edges))
	for k := range n.edges {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].From != keys[j].From {
			return keys[i].From < keys[j].From
		}
		return keys[i].To < keys[j].To
	})
	return keys
}

// Edge returns the edge for the given key.
func (n *Network) Edge(key EdgeKey) (*Edge, error) {
	e, ok := n.edges[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEdge, key)
	}
	return e, nil
}

// OutDegree returns the number of downstream edges at a node.
func (n *Network) OutDegree(id int) int { return len(n.out[id]) }

// InDegree returns the number of upstream edges at a node.
func (n *Network) InDegree(id int) int { return len(n.in[id]) }

// Successors returns the downstream neighbor node IDs of a node.
func (n *Network) Successors(id int) []int { return append([]int(nil), n.out[id]...) }

// Predecessors returns the upstream neighbor node IDs of a node.
func (n *Network) Predecessors(id int) []int { return append([]int(nil), n.in[id]...) }

// Outlet returns the unique node with zero out-degree, the network's
// downstream terminus. It fails with ErrNoOutlet when no such node exists and
// with ErrMultipleOutlets when the choice is ambiguous.
func (n *Network) Outlet() (int, error) {
	outlets := n.Outlets()
	switch len(outlets) {
	case 0:
		return 0, ErrNoOutlet
	case 1:
		return outlets[0], nil
	default:
		return 0, fmt.Errorf("%w: candidates %v", ErrMultipleOutlets, outlets)
	}
}

// IsMultipleOutlets reports whether err is the ambiguous-outlet condition.
func IsMultipleOutlets(err error) bool { return errors.Is(err, ErrMultipleOutlets) }

// Outlets returns every node with zero out-degree, ordered by ID. Isolated
// nodes are not outlets.
func (n *Network) Outlets() []int {
	var outlets []int
	for _, node := range n.nodes {
		if len(n.out[node.ID]) == 0 && len(n.in[node.ID]) > 0 {
			outlets = append(outlets, node.ID)
		}
	}
	return outlets
}

// IntermediateNodes returns the junction nodes: non-zero in-degree and
// non-zero out-degree, excluding leaves and the outlet.
func (n *Network) IntermediateNodes() []int {
	var nodes []int
	for _, node := range n.nodes {
		if len(n.out[node.ID]) > 0 && len(n.in[node.ID]) > 0 {
			nodes = append(nodes, node.ID)
		}
	}
	return nodes
}

// EdgeBuffer returns the offset region at the given radius around a subset of
// edges (all edges when the subset is nil). The point-projection prefilter
// keeps only points inside this region.
func (n *Network) EdgeBuffer(radius float64, edges []EdgeKey) (geom.Buffer, error) {
	if edges == nil {
		edges = n.Edges()
	}
	lines := make([]orb.LineString, 0, len(edges))
	for _, key := range edges {
		e, err := n.Edge(key)
		if err != nil {
			return geom.Buffer{}, err
		}
		lines = append(lines, e.Line.Coords)
	}
	return geom.NewBuffer(radius, lines...), nil
}
