package network

import (
	"sort"

	"github.com/paulmach/orb"

	"github.com/matzehuels/thalweg/pkg/geom"
)

// NamedPoint is an external observation to be projected onto the network:
// a feature identifier, a planar location, and an optional elevation (NaN
// when none was attached by the draping collaborator).
type NamedPoint struct {
	FID string
	P   orb.Point
	Z   float64
}

// PointAddress is one projection of an external point onto one edge.
type PointAddress struct {
	FID    string
	M      float64   // projected distance along the edge
	P      orb.Point // projected location
	Z      float64   // elevation carried over from the query point
	Offset float64   // signed perpendicular offset; negative is left of the edge direction
	Edge   EdgeKey
}

// ProjectOptions controls point projection.
type ProjectOptions struct {
	// Radius is the search radius of the buffer prefilter.
	Radius float64
	// Edges restricts projection to a subset of edges; nil means all edges.
	Edges []EdgeKey
	// Reverse reports the edge-local distance from the downstream end
	// (edge length - m) instead of from the upstream end.
	Reverse bool
}

// ProjectPoints projects external points onto nearby edges. Per edge, points
// outside the buffer region at the search radius are discarded cheaply, the
// survivors are projected exactly, and projections landing at or beyond
// either edge endpoint are dropped so adjacent edges never double-attribute a
// point. A point may match zero, one, or several edges; every match is
// retained and disambiguation is left to the caller.
func (n *Network) ProjectPoints(points []NamedPoint, opts ProjectOptions) ([]PointAddress, error) {
	edges := opts.Edges
	if edges == nil {
		edges = n.Edges()
	}

	var result []PointAddress
	for _, key := range edges {
		e, err := n.Edge(key)
		if err != nil {
			return nil, err
		}
		buf := geom.NewBuffer(opts.Radius, e.Line.Coords)

		var hits []PointAddress
		for _, pt := range points {
			if !buf.Contains(pt.P) {
				continue
			}
			proj := geom.Project(pt.P, e.Line.Coords, e.Meas)
			m := proj.M
			if opts.Reverse {
				m = e.Length - proj.M
			}
			// projections at the very endpoints belong to a neighboring edge
			if m <= 0 || m >= e.Length {
				continue
			}
			hits = append(hits, PointAddress{
				FID:    pt.FID,
				M:      m,
				P:      proj.P,
				Z:      pt.Z,
				Offset: proj.Offset,
				Edge:   key,
			})
		}
		sort.SliceStable(hits, func(i, j int) bool { return hits[i].FID < hits[j].FID })
		result = append(result, hits...)
	}
	return result, nil
}

// Address is a point address rebased to the outlet via an edge address.
type Address struct {
	PointAddress
	FromNodeAddress float64
	ToNodeAddress   float64
	PathM           float64 // distance from the point's projection to the outlet
}

// RebaseAddresses joins point addresses with edge addresses to produce each
// point's outlet-relative distance. Points on edges absent from the edge
// address table produce no row.
func RebaseAddresses(points []PointAddress, addresses []EdgeAddress) []Address {
	byEdge := make(map[EdgeKey]EdgeAddress, len(addresses))
	for _, a := range addresses {
		byEdge[a.Edge] = a
	}

	var result []Address
	for _, p := range points {
		a, ok := byEdge[p.Edge]
		if !ok {
			continue
		}
		result = append(result, Address{
			PointAddress:    p,
			FromNodeAddress: a.FromNodeAddress,
			ToNodeAddress:   a.ToNodeAddress,
			PathM:           a.FromNodeAddress - p.M,
		})
	}
	return result
}
