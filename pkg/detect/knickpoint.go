// Package detect flags knickpoints — contiguous steep runs of a channel
// profile with enough cumulative elevation drop to mark a candidate
// channel-spanning feature such as a dam.
package detect

import (
	"github.com/matzehuels/thalweg/pkg/network"
	"github.com/matzehuels/thalweg/pkg/profile"
)

// Options controls knickpoint detection.
type Options struct {
	// MinSlope is the grade threshold (rise/run, positive). A vertex interval
	// is steep when its descending grade strictly exceeds this value.
	MinSlope float64
	// MinDrop is the minimum de-spiked elevation drop, crest to toe, for a
	// run to qualify.
	MinDrop float64
	// Toe reports the downstream end of each run instead of the upstream crest.
	Toe bool
}

// Knickpoint is one detected feature location with its accumulated drop.
type Knickpoint struct {
	profile.Vertex
	Drop float64
}

// Detect scans a vertex series carrying slope and de-spiked elevation for
// runs of consecutive steep intervals and keeps those whose de-spiked drop
// from crest to toe meets the minimum. The slope at a vertex describes the
// interval to its downstream neighbor, so a run of steep intervals i..j spans
// vertices i..j+1: the crest is vertex i, the toe vertex j+1.
//
// Runs are formed within each edge group. A qualifying run truncated exactly
// at an edge boundary can be undercounted when the cross-edge extension
// window used upstream was too small to carry it; widen the slope window in
// that case.
func Detect(vertices []profile.Vertex, opts Options) []Knickpoint {
	groups, order := groupByEdge(vertices)

	var result []Knickpoint
	for _, edge := range order {
		result = append(result, detectEdge(groups[edge], opts)...)
	}
	return result
}

func detectEdge(vs []profile.Vertex, opts Options) []Knickpoint {
	var result []Knickpoint
	i := 0
	for i < len(vs) {
		if !steep(vs[i], opts.MinSlope) {
			i++
			continue
		}
		// run of steep intervals starting at i
		j := i
		for j+1 < len(vs) && steep(vs[j+1], opts.MinSlope) {
			j++
		}
		toe := j + 1
		if toe >= len(vs) {
			toe = len(vs) - 1
		}
		drop := vs[i].ZMin - vs[toe].ZMin
		if drop >= opts.MinDrop {
			at := vs[i]
			if opts.Toe {
				at = vs[toe]
			}
			result = append(result, Knickpoint{Vertex: at, Drop: drop})
		}
		i = toe + 1
	}
	return result
}

// steep reports whether the descending grade at v strictly exceeds minSlope.
// Slope is mathematical (negative downstream for a descending channel), so
// the test is against its negation. NaN slopes are never steep.
func steep(v profile.Vertex, minSlope float64) bool {
	return -v.Slope > minSlope
}

func groupByEdge(vertices []profile.Vertex) (map[network.EdgeKey][]profile.Vertex, []network.EdgeKey) {
	groups := make(map[network.EdgeKey][]profile.Vertex)
	var order []network.EdgeKey
	for _, v := range vertices {
		if _, seen := groups[v.Edge]; !seen {
			order = append(order, v.Edge)
		}
		groups[v.Edge] = append(groups[v.Edge], v)
	}
	return groups, order
}
