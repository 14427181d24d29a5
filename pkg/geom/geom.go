// Package geom provides planar geometry utilities for polyline networks:
// vertex distance measurement, regular-interval stationing, point-to-line
// projection with left/right offset sign, and line densification.
//
// Geometries are represented with [orb.LineString] and [orb.Point]. Elevation
// is optional and rides alongside the planar coordinates as a per-vertex
// float64 slice; a missing elevation is math.NaN(). All coordinates are
// assumed to share one projected coordinate system.
package geom

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Line is a polyline with optional per-vertex elevation.
// Z is either nil (no elevation attached) or the same length as Coords.
type Line struct {
	Coords orb.LineString
	Z      []float64
}

// NewLine wraps planar coordinates without elevation.
func NewLine(coords orb.LineString) Line {
	return Line{Coords: coords}
}

// HasZ reports whether elevation is attached to every vertex.
func (l Line) HasZ() bool {
	return l.Z != nil && len(l.Z) == len(l.Coords)
}

// Length returns the planar length of the line.
func (l Line) Length() float64 {
	return planar.Length(l.Coords)
}

// ZAt returns the elevation of vertex i, or NaN when none is attached.
func (l Line) ZAt(i int) float64 {
	if !l.HasZ() {
		return math.NaN()
	}
	return l.Z[i]
}

// Vertex is one sample along a line: a distance measure from the line start,
// a planar location, and an optional elevation (NaN when absent).
type Vertex struct {
	M float64
	P orb.Point
	Z float64
}

// Measure returns the cumulative planar distance of every vertex along the
// line, starting at start for the first vertex. The result is monotonically
// non-decreasing and has one entry per vertex.
func Measure(ls orb.LineString, start float64) []float64 {
	measures := make([]float64, len(ls))
	d := start
	for i := range ls {
		if i > 0 {
			d += planar.Distance(ls[i-1], ls[i])
		}
		measures[i] = d
	}
	return measures
}

// Interpolate returns the point at distance m along the line. The measure
// table meas must come from Measure(l.Coords, 0). Positions before the first
// vertex clamp to the line start, positions past the last to the line end.
// Elevation is interpolated linearly when attached.
func Interpolate(l Line, meas []float64, m float64) Vertex {
	n := len(l.Coords)
	if n == 0 {
		return Vertex{M: m, Z: math.NaN()}
	}
	if m <= meas[0] {
		return Vertex{M: meas[0], P: l.Coords[0], Z: l.ZAt(0)}
	}
	if m >= meas[n-1] {
		return Vertex{M: meas[n-1], P: l.Coords[n-1], Z: l.ZAt(n - 1)}
	}

	// find the segment containing m
	i := 1
	for i < n && meas[i] < m {
		i++
	}
	seg := meas[i] - meas[i-1]
	if seg == 0 {
		return Vertex{M: m, P: l.Coords[i], Z: l.ZAt(i)}
	}
	t := (m - meas[i-1]) / seg
	p := orb.Point{
		l.Coords[i-1][0] + t*(l.Coords[i][0]-l.Coords[i-1][0]),
		l.Coords[i-1][1] + t*(l.Coords[i][1]-l.Coords[i-1][1]),
	}
	z := math.NaN()
	if l.HasZ() {
		z = l.Z[i-1] + t*(l.Z[i]-l.Z[i-1])
	}
	return Vertex{M: m, P: p, Z: z}
}

// LineVertices returns every native vertex of the line with its distance
// measure and elevation.
func LineVertices(l Line, meas []float64) []Vertex {
	vertices := make([]Vertex, len(l.Coords))
	for i, p := range l.Coords {
		vertices[i] = Vertex{M: meas[i], P: p, Z: l.ZAt(i)}
	}
	return vertices
}

// LineStations returns synthetic points at regular spacing along the line,
// beginning at position and stepping by step until the line end. The position
// offset permits stationing to phase-align with an adjacent line.
func LineStations(l Line, meas []float64, position, step float64) []Vertex {
	var stations []Vertex
	length := meas[len(meas)-1]
	for m := position; m < length; m += step {
		stations = append(stations, Interpolate(l, meas, m))
	}
	return stations
}

// Densify returns a new line whose vertices are the originals merged with
// stations at the given spacing, ordered by distance along the line.
func Densify(l Line, start, step float64) Line {
	meas := Measure(l.Coords, 0)
	merged := append(LineVertices(l, meas), LineStations(l, meas, start, step)...)
	sortVerticesByM(merged)

	out := Line{Coords: make(orb.LineString, len(merged))}
	if l.HasZ() {
		out.Z = make([]float64, len(merged))
	}
	for i, v := range merged {
		out.Coords[i] = v.P
		if out.Z != nil {
			out.Z[i] = v.Z
		}
	}
	return out
}

func sortVerticesByM(vs []Vertex) {
	// insertion sort: the merged slice is nearly ordered already
	for i := 1; i < len(vs); i++ {
		for j := i; j > 0 && vs[j].M < vs[j-1].M; j-- {
			vs[j], vs[j-1] = vs[j-1], vs[j]
		}
	}
}
