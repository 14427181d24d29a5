package profile

import (
	"math"
	"testing"

	"github.com/paulmach/orb"

	"github.com/matzehuels/thalweg/pkg/geom"
	"github.com/matzehuels/thalweg/pkg/network"
)

// chainNetwork is two edges in series with a vertex every 2 units and a
// 30-unit spike partway down the upper edge.
func chainNetwork(t *testing.T) (*network.Network, []Vertex) {
	t.Helper()
	lines := []geom.Line{
		{
			Coords: orb.LineString{{0, 20}, {0, 18}, {0, 16}, {0, 14}, {0, 12}, {0, 10}},
			Z:      []float64{20, 18, 16, 30, 12, 10},
		},
		{
			Coords: orb.LineString{{0, 10}, {0, 8}, {0, 6}, {0, 4}, {0, 2}, {0, 0}},
			Z:      []float64{10, 8, 6, 4, 2, 0},
		},
	}
	n, issues, err := network.Build(lines)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("Build() issues: %v", issues)
	}
	outlet, err := n.Outlet()
	if err != nil {
		t.Fatalf("Outlet() error: %v", err)
	}
	records, err := n.Vertices(outlet)
	if err != nil {
		t.Fatalf("Vertices() error: %v", err)
	}
	return n, FromRecords(records)
}

func TestFromRecords(t *testing.T) {
	_, vertices := chainNetwork(t)

	if len(vertices) != 12 {
		t.Fatalf("FromRecords() returned %d vertices, want 12", len(vertices))
	}
	for i, v := range vertices {
		if !math.IsNaN(v.ZMin) || !math.IsNaN(v.ZMean) || !math.IsNaN(v.Slope) {
			t.Errorf("vertex %d: derived columns should start as NaN", i)
		}
	}
}

func TestRemoveSpikes(t *testing.T) {
	n, vertices := chainNetwork(t)

	out := RemoveSpikes(n, vertices, nil, 3)

	if len(out) != len(vertices) {
		t.Fatalf("RemoveSpikes() returned %d vertices, want %d", len(out), len(vertices))
	}
	for i, v := range out {
		if v.ZMin > v.V.Z {
			t.Errorf("vertex %d: ZMin %v exceeds raw Z %v", i, v.ZMin, v.V.Z)
		}
	}
	// the 30-unit spike is flattened to the preceding minimum
	upper := out[:6]
	want := []float64{20, 18, 16, 16, 12, 10}
	for i, w := range want {
		if upper[i].ZMin != w {
			t.Errorf("upper edge ZMin[%d] = %v, want %v", i, upper[i].ZMin, w)
		}
	}
	// non-increasing downstream within each edge
	for i := 1; i < len(out); i++ {
		if out[i].Edge == out[i-1].Edge && out[i].ZMin > out[i-1].ZMin {
			t.Errorf("vertex %d: ZMin %v increased downstream from %v", i, out[i].ZMin, out[i-1].ZMin)
		}
	}
}

func TestRemoveSpikes_PathSubset(t *testing.T) {
	n, vertices := chainNetwork(t)

	lower := network.EdgeKey{From: 1, To: 2}
	out := RemoveSpikes(n, vertices, []network.EdgeKey{lower}, 3)

	if len(out) != 6 {
		t.Fatalf("RemoveSpikes(subset) returned %d vertices, want 6", len(out))
	}
	for i, v := range out {
		if v.Edge != lower {
			t.Errorf("vertex %d belongs to %s, want %s", i, v.Edge, lower)
		}
	}
}

func TestRemoveSpikesEdgewise(t *testing.T) {
	_, vertices := chainNetwork(t)

	out := RemoveSpikesEdgewise(vertices)

	if len(out) != len(vertices) {
		t.Fatalf("RemoveSpikesEdgewise() returned %d vertices, want %d", len(out), len(vertices))
	}
	if out[3].ZMin != 16 {
		t.Errorf("spike ZMin = %v, want 16", out[3].ZMin)
	}
}

func TestSlope(t *testing.T) {
	n, vertices := chainNetwork(t)

	vertices = RemoveSpikes(n, vertices, nil, 3)
	out := Slope(n, vertices, 3, ColumnZMin)

	// the lower edge drops 2 units of elevation per 2 units of distance
	lower := out[6:]
	for i := 0; i < len(lower)-1; i++ {
		if math.Abs(lower[i].Slope-(-1)) > 1e-9 {
			t.Errorf("lower edge Slope[%d] = %v, want -1", i, lower[i].Slope)
		}
		if math.Abs(lower[i].Rise-2) > 1e-9 {
			t.Errorf("lower edge Rise[%d] = %v, want 2", i, lower[i].Rise)
		}
	}
	// the outlet vertex has no downstream neighbor
	if !math.IsNaN(lower[len(lower)-1].Slope) {
		t.Errorf("outlet Slope = %v, want NaN", lower[len(lower)-1].Slope)
	}

	// the junction vertex is duplicated at path distance 10 on both edges, so
	// the boundary interval is degenerate; the vertex before it is regular
	if math.Abs(out[4].Slope-(-1)) > 1e-9 {
		t.Errorf("upper edge Slope[4] = %v, want -1", out[4].Slope)
	}
}

func TestSlope_ZeroRun(t *testing.T) {
	lines := []geom.Line{{
		Coords: orb.LineString{{0, 10}, {0, 5}, {0, 5}, {0, 0}},
		Z:      []float64{10, 6, 5, 0},
	}}
	n, _, err := network.Build(lines)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	records, err := n.Vertices(1)
	if err != nil {
		t.Fatalf("Vertices() error: %v", err)
	}

	out := Slope(n, FromRecords(records), 3, ColumnZ)

	// duplicate-distance vertices make the run zero; the Inf is surfaced
	if !math.IsInf(out[1].Slope, 1) {
		t.Errorf("Slope over zero run = %v, want +Inf", out[1].Slope)
	}
}

func TestNeighborEdge(t *testing.T) {
	n, vertices := chainNetwork(t)

	upper := network.EdgeKey{From: 0, To: 1}
	lower := network.EdgeKey{From: 1, To: 2}

	if got, ok := NeighborEdge(n, vertices, lower, Up, 3, ColumnZ); !ok || got != upper {
		t.Errorf("NeighborEdge(lower, Up) = %v %v, want %v true", got, ok, upper)
	}
	if got, ok := NeighborEdge(n, vertices, upper, Down, 3, ColumnZ); !ok || got != lower {
		t.Errorf("NeighborEdge(upper, Down) = %v %v, want %v true", got, ok, lower)
	}
	if _, ok := NeighborEdge(n, vertices, upper, Up, 3, ColumnZ); ok {
		t.Error("NeighborEdge(upper, Up) should find nothing")
	}
	if _, ok := NeighborEdge(n, vertices, lower, Down, 3, ColumnZ); ok {
		t.Error("NeighborEdge(lower, Down) should find nothing")
	}
}

func TestNeighborEdge_LowestWins(t *testing.T) {
	// two branches joining the trunk; the lower-elevation branch wins
	lines := []geom.Line{
		{Coords: orb.LineString{{0, 20}, {0, 10}}, Z: []float64{25, 15}},
		{Coords: orb.LineString{{6, 18}, {0, 10}}, Z: []float64{18, 10}},
		{Coords: orb.LineString{{0, 10}, {0, 0}}, Z: []float64{10, 0}},
	}
	n, _, err := network.Build(lines)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	records, err := n.Vertices(3)
	if err != nil {
		t.Fatalf("Vertices() error: %v", err)
	}
	vertices := FromRecords(records)

	trunk := network.EdgeKey{From: 1, To: 3}
	got, ok := NeighborEdge(n, vertices, trunk, Up, 2, ColumnZ)
	if !ok || got != (network.EdgeKey{From: 2, To: 1}) {
		t.Errorf("NeighborEdge(trunk, Up) = %v %v, want (2,1) true", got, ok)
	}
}

func TestExtendEdge(t *testing.T) {
	n, vertices := chainNetwork(t)

	upper := network.EdgeKey{From: 0, To: 1}
	extended := ExtendEdge(n, vertices, upper, 3)

	// 6 own vertices plus a 3-vertex downstream window
	if len(extended) != 9 {
		t.Fatalf("ExtendEdge() returned %d vertices, want 9", len(extended))
	}
	for i := 0; i < 6; i++ {
		if extended[i].Edge != upper {
			t.Errorf("vertex %d belongs to %s, want %s", i, extended[i].Edge, upper)
		}
	}
}
