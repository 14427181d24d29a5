package network

import (
	"fmt"
	"sort"

	"github.com/matzehuels/thalweg/pkg/geom"
)

// EdgeAddress locates one edge relative to the outlet: the least-cost path
// distance from the outlet to the edge's from-node and to-node. Computed once
// per outlet/weight choice, it converts any edge-local measurement into an
// outlet-relative distance without another path query.
type EdgeAddress struct {
	Edge            EdgeKey
	FromNodeAddress float64 // cost-path distance outlet → from-node
	ToNodeAddress   float64 // cost-path distance outlet → to-node
}

// OutletDistance rebases an edge-local distance measure (from the edge's
// upstream end) into distance from the outlet. Edges run upstream to
// downstream, so the local measure is inverted against the edge length before
// adding the downstream node's own address.
func (a EdgeAddress) OutletDistance(m, edgeLength float64) float64 {
	return a.ToNodeAddress + (edgeLength - m)
}

// EdgeAddresses computes the address of every edge relative to the outlet
// under the given weight (nil defaults to WeightLength). It fails with
// ErrNoPath when any edge cannot reach the outlet; with a multi-component
// graph, address only the component containing the outlet.
func (n *Network) EdgeAddresses(outlet int, weight Weight) ([]EdgeAddress, error) {
	if _, ok := n.Node(outlet); !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNode, outlet)
	}
	if weight == nil {
		weight = WeightLength
	}

	dist := n.distancesTo(outlet, weight)
	addresses := make([]EdgeAddress, 0, len(n.edges))
	for _, key := range n.Edges() {
		from, to := dist[key.From], dist[key.To]
		if isInf(from) || isInf(to) {
			return nil, fmt.Errorf("%w: edge %s cannot reach outlet %d", ErrNoPath, key, outlet)
		}
		addresses = append(addresses, EdgeAddress{
			Edge:            key,
			FromNodeAddress: from,
			ToNodeAddress:   to,
		})
	}
	return addresses, nil
}

func isInf(f float64) bool { return f > maxFinite }

const maxFinite = 1e308

// VertexRecord is one derived row of the vertex or station table: a position
// along an owning edge together with its outlet-relative distance.
type VertexRecord struct {
	M     float64 // distance along the owning edge from its from-node
	V     geom.Vertex
	Edge  EdgeKey
	PathM float64 // distance from the outlet along the cheapest path
}

// Vertices extracts every native vertex of every edge with its edge-local and
// outlet-relative distance. Rows are grouped by edge in ascending edge-key
// order and ordered upstream to downstream within each edge — the baseline
// dataset for the profile filters.
func (n *Network) Vertices(outlet int) ([]VertexRecord, error) {
	addresses, err := n.EdgeAddresses(outlet, WeightLength)
	if err != nil {
		return nil, err
	}

	var records []VertexRecord
	for i, key := range n.Edges() {
		e := n.edges[key]
		addr := addresses[i]
		for _, v := range geom.LineVertices(e.Line, e.Meas) {
			records = append(records, VertexRecord{
				M:     v.M,
				V:     v,
				Edge:  key,
				PathM: addr.OutletDistance(v.M, e.Length),
			})
		}
	}
	return records, nil
}

// Stations generates synthetic points at the given spacing along every edge.
// Each edge's stations are phase-offset by (to-node address + edge length)
// mod step so the spacing continues seamlessly across node boundaries into
// the downstream edge.
//
// With includeVertices set, native vertices are merged in and the whole table
// is sorted by outlet distance, descending away from the outlet.
func (n *Network) Stations(outlet int, step float64, includeVertices bool) ([]VertexRecord, error) {
	if step <= 0 {
		return nil, fmt.Errorf("station step must be positive, got %v", step)
	}
	addresses, err := n.EdgeAddresses(outlet, WeightLength)
	if err != nil {
		return nil, err
	}

	var records []VertexRecord
	for i, key := range n.Edges() {
		e := n.edges[key]
		addr := addresses[i]
		phase := mod(addr.ToNodeAddress+e.Length, step)

		for _, v := range geom.LineStations(e.Line, e.Meas, phase, step) {
			records = append(records, VertexRecord{
				M:     v.M,
				V:     v,
				Edge:  key,
				PathM: addr.OutletDistance(v.M, e.Length),
			})
		}
		if includeVertices {
			for _, v := range geom.LineVertices(e.Line, e.Meas) {
				records = append(records, VertexRecord{
					M:     v.M,
					V:     v,
					Edge:  key,
					PathM: addr.OutletDistance(v.M, e.Length),
				})
			}
		}
	}

	if includeVertices {
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].PathM > records[j].PathM
		})
	}
	return records, nil
}

func mod(a, b float64) float64 {
	m := a - b*float64(int(a/b))
	if m < 0 {
		m += b
	}
	return m
}
