// Package repair closes near-miss gaps in a line network. The network core
// matches endpoints by exact coordinate equality, so endpoints that differ by
// sub-tolerance digitization noise surface as isolated nodes or extra
// components. Snap clusters such endpoints at a decimal precision and moves
// each to the most frequent coordinate of its cluster; the corrected lines
// are then resubmitted to network.Build. Tolerance handling lives entirely
// here — the core never snaps.
package repair

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"github.com/matzehuels/thalweg/pkg/geom"
)

// LineEnd identifies one endpoint of one input line.
type LineEnd int

const (
	// Start is a line's first vertex.
	Start LineEnd = iota
	// End is a line's last vertex.
	End
)

func (e LineEnd) String() string {
	if e == Start {
		return "start"
	}
	return "end"
}

// Edit records one endpoint move.
type Edit struct {
	Line int // index into the input lines
	End  LineEnd
	From orb.Point
	To   orb.Point
}

func (e Edit) String() string {
	return fmt.Sprintf("line %d %s: %v → %v", e.Line, e.End, e.From, e.To)
}

// endpoint is one line terminus awaiting clustering.
type endpoint struct {
	line int
	end  LineEnd
	p    orb.Point
}

// Snap clusters line endpoints that agree to the given decimal precision and
// snaps every member of a cluster to the cluster's most frequent exact
// coordinate (earliest occurrence wins a frequency tie). It returns the
// corrected lines and the list of edits applied; lines without edits are
// returned unchanged.
func Snap(lines []geom.Line, decimals int) ([]geom.Line, []Edit) {
	var endpoints []endpoint
	for i, l := range lines {
		if len(l.Coords) < 2 {
			continue
		}
		endpoints = append(endpoints, endpoint{line: i, end: Start, p: l.Coords[0]})
		endpoints = append(endpoints, endpoint{line: i, end: End, p: l.Coords[len(l.Coords)-1]})
	}

	// cluster by rounded coordinate key
	clusters := make(map[orb.Point][]endpoint)
	var keys []orb.Point
	for _, ep := range endpoints {
		key := roundPoint(ep.p, decimals)
		if _, seen := clusters[key]; !seen {
			keys = append(keys, key)
		}
		clusters[key] = append(clusters[key], ep)
	}

	var edits []Edit
	for _, key := range keys {
		cluster := clusters[key]
		if len(cluster) < 2 {
			continue
		}
		snap := mostFrequent(cluster)
		for _, ep := range cluster {
			if ep.p != snap {
				edits = append(edits, Edit{Line: ep.line, End: ep.end, From: ep.p, To: snap})
			}
		}
	}

	if len(edits) == 0 {
		return lines, nil
	}

	out := make([]geom.Line, len(lines))
	copy(out, lines)
	for _, edit := range edits {
		l := out[edit.Line]
		coords := append(orb.LineString(nil), l.Coords...)
		if edit.End == Start {
			coords[0] = edit.To
		} else {
			coords[len(coords)-1] = edit.To
		}
		out[edit.Line] = geom.Line{Coords: coords, Z: l.Z}
	}
	return out, edits
}

// mostFrequent returns the exact coordinate occurring most often in the
// cluster; ties resolve to the earliest occurrence.
func mostFrequent(cluster []endpoint) orb.Point {
	counts := make(map[orb.Point]int)
	for _, ep := range cluster {
		counts[ep.p]++
	}
	best := cluster[0].p
	for _, ep := range cluster {
		if counts[ep.p] > counts[best] {
			best = ep.p
		}
	}
	return best
}

func roundPoint(p orb.Point, decimals int) orb.Point {
	scale := math.Pow(10, float64(decimals))
	return orb.Point{
		math.Round(p[0]*scale) / scale,
		math.Round(p[1]*scale) / scale,
	}
}
