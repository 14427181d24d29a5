package profile

import (
	"github.com/matzehuels/thalweg/pkg/network"
)

// RemoveSpikes fills the ZMin column with an expanding minimum of elevation
// computed upstream to downstream. Each edge is extended with neighbor
// windows first (see ExtendEdge), so a spike straddling a junction is still
// flattened, then clipped back to its own span.
//
// The result is never greater than the raw elevation at any vertex and is
// non-increasing in the downstream direction within one filtering window.
//
// A nil edges subset de-spikes every edge; passing a path's edge sequence
// restricts the output to that path. A non-positive window falls back to
// DefaultDespikeWindow.
func RemoveSpikes(n *network.Network, vertices []Vertex, edges []network.EdgeKey, window int) []Vertex {
	if window <= 0 {
		window = DefaultDespikeWindow
	}
	if edges == nil {
		edges = n.Edges()
	}

	var result []Vertex
	for _, edge := range edges {
		extended := ExtendEdge(n, vertices, edge, window)
		expandingMin(extended)
		result = append(result, clip(extended, edge)...)
	}
	return result
}

// RemoveSpikesEdgewise fills ZMin per edge group without cross-edge
// extension. Cheaper, but discontinuous at junctions.
func RemoveSpikesEdgewise(vertices []Vertex) []Vertex {
	groups, order := group(vertices)
	var result []Vertex
	for _, edge := range order {
		vs := append([]Vertex(nil), groups[edge]...)
		expandingMin(vs)
		result = append(result, vs...)
	}
	return result
}

// expandingMin sets ZMin to the running minimum of Z in place.
func expandingMin(vs []Vertex) {
	for i := range vs {
		z := vs[i].V.Z
		if i > 0 && vs[i-1].ZMin < z {
			z = vs[i-1].ZMin
		}
		vs[i].ZMin = z
	}
}
