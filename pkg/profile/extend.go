package profile

import (
	"github.com/matzehuels/thalweg/pkg/network"
)

// Direction selects which neighbors of an edge to consider.
type Direction int

const (
	// Up considers edges entering the target edge's from-node.
	Up Direction = iota
	// Down considers edges leaving the target edge's to-node.
	Down
)

// NeighborEdge returns, among the edges immediately upstream or downstream of
// edge at the shared node, the one whose boundary window (last window
// vertices for Up, first window vertices for Down; the whole edge when
// window is 0) has the lowest minimum value in the given column.
//
// Candidates are scanned in ascending node-ID order and the first strict
// minimum wins, so ties resolve deterministically. The second return is false
// when the edge has no neighbor in that direction.
func NeighborEdge(n *network.Network, vertices []Vertex, edge network.EdgeKey, dir Direction, window int, col Column) (network.EdgeKey, bool) {
	groups, _ := group(vertices)

	var candidates []network.EdgeKey
	switch dir {
	case Up:
		for _, id := range sortedInts(n.Predecessors(edge.From)) {
			candidates = append(candidates, network.EdgeKey{From: id, To: edge.From})
		}
	case Down:
		for _, id := range sortedInts(n.Successors(edge.To)) {
			candidates = append(candidates, network.EdgeKey{From: edge.To, To: id})
		}
	}

	var best network.EdgeKey
	found := false
	bestVal := 0.0
	for _, key := range candidates {
		vs := groups[key]
		if len(vs) == 0 {
			continue
		}
		if window > 0 {
			if dir == Up {
				vs = tail(vs, window)
			} else {
				vs = head(vs, window)
			}
		}
		val := minColumn(vs, col)
		if !found || val < bestVal {
			best = key
			bestVal = val
			found = true
		}
	}
	return best, found
}

// ExtendEdge returns the target edge's vertices with a window of vertices
// from the winning upstream neighbor prepended and a window from the winning
// downstream neighbor appended. Neighbor selection uses the raw elevation
// column. Filters run over the extended series and clip back to the target
// edge afterwards.
func ExtendEdge(n *network.Network, vertices []Vertex, edge network.EdgeKey, window int) []Vertex {
	groups, _ := group(vertices)
	own := groups[edge]

	var extended []Vertex
	if pre, ok := NeighborEdge(n, vertices, edge, Up, window, ColumnZ); ok {
		extended = append(extended, tail(groups[pre], window)...)
	}
	extended = append(extended, own...)
	if post, ok := NeighborEdge(n, vertices, edge, Down, window, ColumnZ); ok {
		extended = append(extended, head(groups[post], window)...)
	}
	return extended
}

// clip keeps only the rows owned by edge, preserving order.
func clip(vertices []Vertex, edge network.EdgeKey) []Vertex {
	var out []Vertex
	for _, v := range vertices {
		if v.Edge == edge {
			out = append(out, v)
		}
	}
	return out
}

func sortedInts(ids []int) []int {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j] < ids[j-1]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
	return ids
}
