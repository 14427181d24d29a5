package geom

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Buffer is the round-capped offset region at a fixed radius around a set of
// lines. It answers containment queries exactly: a point is inside the buffer
// iff its distance to the nearest line segment is under the radius. This is
// the Minkowski-sum buffer without polygonization error, and is used as a
// cheap prefilter before exact point projection.
type Buffer struct {
	lines  []orb.LineString
	radius float64
	bound  orb.Bound
}

// NewBuffer builds a buffer of the given radius around the lines.
func NewBuffer(radius float64, lines ...orb.LineString) Buffer {
	b := Buffer{lines: lines, radius: radius}
	if len(lines) > 0 {
		bound := lines[0].Bound()
		for _, ls := range lines[1:] {
			bound = bound.Union(ls.Bound())
		}
		b.bound = bound.Pad(radius)
	}
	return b
}

// Radius returns the buffer radius.
func (b Buffer) Radius() float64 { return b.radius }

// Bound returns the bounding box of the buffer region.
func (b Buffer) Bound() orb.Bound { return b.bound }

// Contains reports whether p lies strictly inside the buffer region.
func (b Buffer) Contains(p orb.Point) bool {
	if len(b.lines) == 0 || !b.bound.Contains(p) {
		return false
	}
	for _, ls := range b.lines {
		for i := 0; i+1 < len(ls); i++ {
			q, _ := nearestOnSegment(p, ls[i], ls[i+1])
			if planar.Distance(p, q) < b.radius {
				return true
			}
		}
	}
	return false
}
