package profile

import (
	"math"

	"github.com/matzehuels/thalweg/pkg/network"
)

// Slope fills the Rise and Slope columns between each vertex and its
// immediate downstream neighbor:
//
//	rise  = value[i] - value[i+1]
//	slope = rise / (pathM[i+1] - pathM[i])
//
// Both are mathematical quantities: a descending channel has positive rise
// and negative slope walking downstream. Each edge is extended with neighbor
// windows first so runs crossing a junction keep their slope, then clipped.
// The last vertex of each clipped edge that has no downstream neighbor in
// its extended window keeps NaN.
//
// A zero distance delta between duplicate-distance vertices yields ±Inf; the
// value is surfaced, never coerced.
func Slope(n *network.Network, vertices []Vertex, window int, col Column) []Vertex {
	if window <= 0 {
		window = DefaultSlopeWindow
	}
	if col == nil {
		col = ColumnZ
	}

	var result []Vertex
	for _, edge := range n.Edges() {
		extended := ExtendEdge(n, vertices, edge, window)
		for i := range extended {
			if i+1 >= len(extended) {
				extended[i].Rise = math.NaN()
				extended[i].Slope = math.NaN()
				continue
			}
			rise := col(extended[i]) - col(extended[i+1])
			run := extended[i+1].PathM - extended[i].PathM
			extended[i].Rise = rise
			extended[i].Slope = rise / run
		}
		result = append(result, clip(extended, edge)...)
	}
	return result
}
