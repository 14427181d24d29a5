// Package profile derives elevation-profile series from a channel network:
// expanding-minimum de-spiking, triangular rolling means, series differencing,
// and slope/rise between consecutive vertices.
//
// Filters are multi-edge aware: before filtering one edge, its vertex series
// is extended with a window of vertices from the neighboring edge with the
// lowest boundary elevation, so spikes and slope runs straddling a junction
// are not cut off. The filtered output is always clipped back to the target
// edge's own span.
//
// Every function is pure: input slices are never mutated and results are
// returned fresh.
package profile

import (
	"math"

	"github.com/matzehuels/thalweg/pkg/network"
)

// Default window widths, in vertices.
const (
	// DefaultDespikeWindow is the cross-edge extension window for de-spiking.
	DefaultDespikeWindow = 40
	// DefaultSlopeWindow is the cross-edge extension window for slope.
	DefaultSlopeWindow = 10
	// DefaultSmoothWindow is the centered triangular rolling-mean width.
	DefaultSmoothWindow = 9
)

// Vertex is a network vertex record with derived profile columns. Columns not
// yet computed are NaN.
type Vertex struct {
	network.VertexRecord
	ZMin  float64 // de-spiked elevation (expanding minimum)
	ZMean float64 // rolling-mean elevation
	Rise  float64 // elevation change to the downstream neighbor
	Slope float64 // rise over run, negative for a descending channel
}

// Column selects a value column from a profile vertex.
type Column func(Vertex) float64

// ColumnZ selects the raw elevation.
func ColumnZ(v Vertex) float64 { return v.V.Z }

// ColumnZMin selects the de-spiked elevation.
func ColumnZMin(v Vertex) float64 { return v.ZMin }

// ColumnZMean selects the rolling-mean elevation.
func ColumnZMean(v Vertex) float64 { return v.ZMean }

// FromRecords wraps vertex records as profile vertices with all derived
// columns unset.
func FromRecords(records []network.VertexRecord) []Vertex {
	nan := math.NaN()
	out := make([]Vertex, len(records))
	for i, r := range records {
		out[i] = Vertex{VertexRecord: r, ZMin: nan, ZMean: nan, Rise: nan, Slope: nan}
	}
	return out
}

// group splits vertices by owning edge, preserving row order within each
// edge and recording first-seen edge order.
func group(vertices []Vertex) (map[network.EdgeKey][]Vertex, []network.EdgeKey) {
	groups := make(map[network.EdgeKey][]Vertex)
	var order []network.EdgeKey
	for _, v := range vertices {
		if _, seen := groups[v.Edge]; !seen {
			order = append(order, v.Edge)
		}
		groups[v.Edge] = append(groups[v.Edge], v)
	}
	return groups, order
}

func tail(vs []Vertex, n int) []Vertex {
	if len(vs) > n {
		return vs[len(vs)-n:]
	}
	return vs
}

func head(vs []Vertex, n int) []Vertex {
	if len(vs) > n {
		return vs[:n]
	}
	return vs
}

func minColumn(vs []Vertex, col Column) float64 {
	m := math.Inf(1)
	for _, v := range vs {
		if z := col(v); z < m {
			m = z
		}
	}
	return m
}
