package geom

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Projection describes a 2D point projected onto a line.
type Projection struct {
	P      orb.Point // projected location on the line
	M      float64   // distance along the line from its first vertex
	Offset float64   // signed perpendicular distance; negative is left of the line direction
}

// Project computes the nearest-point projection of p onto the line.
// The measure table meas must come from Measure(ls, 0).
//
// The offset sign follows the orientation of the nearest segment walking
// downstream: a point left of the segment direction yields a negative offset,
// right or collinear a non-negative one.
func Project(p orb.Point, ls orb.LineString, meas []float64) Projection {
	best := Projection{M: 0, Offset: math.Inf(1)}
	bestDist := math.Inf(1)
	bestSeg := 0

	for i := 0; i+1 < len(ls); i++ {
		q, t := nearestOnSegment(p, ls[i], ls[i+1])
		d := planar.Distance(p, q)
		if d < bestDist {
			bestDist = d
			bestSeg = i
			best.P = q
			best.M = meas[i] + t*(meas[i+1]-meas[i])
		}
	}

	best.Offset = orient(p, bestDist, ls[bestSeg], ls[bestSeg+1])
	return best
}

// nearestOnSegment returns the closest point to p on segment a-b and the
// clamped interpolation parameter t in [0,1].
func nearestOnSegment(p, a, b orb.Point) (orb.Point, float64) {
	dx := b[0] - a[0]
	dy := b[1] - a[1]
	den := dx*dx + dy*dy
	if den == 0 {
		return a, 0
	}
	t := ((p[0]-a[0])*dx + (p[1]-a[1])*dy) / den
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return orb.Point{a[0] + t*dx, a[1] + t*dy}, t
}

// orient applies the left/right sign to an offset distance. The test is the
// 2D cross product of the segment direction with the vector from the segment
// start to the point: negative means p lies left of the a→b direction.
func orient(p orb.Point, dist float64, a, b orb.Point) float64 {
	cross := (p[1]-a[1])*(b[0]-a[0]) - (p[0]-a[0])*(b[1]-a[1])
	if cross < 0 {
		return -dist
	}
	return dist
}
