package network

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"

	"github.com/matzehuels/thalweg/pkg/geom"
)

// testLines is a Y-shaped network: two branches meeting at a confluence, then
// a trunk down to the outlet. All segment lengths are 10.
//
//	node 0 (0,20)   node 2 (6,18)
//	      \           /
//	       node 1 (0,10)
//	            |
//	       node 3 (0,0)   outlet
func testLines() []geom.Line {
	return []geom.Line{
		{Coords: orb.LineString{{0, 20}, {0, 10}}, Z: []float64{20, 10}},
		{Coords: orb.LineString{{6, 18}, {0, 10}}, Z: []float64{18, 10}},
		{Coords: orb.LineString{{0, 10}, {0, 0}}, Z: []float64{10, 0}},
	}
}

func buildTest(t *testing.T) *Network {
	t.Helper()
	n, issues, err := Build(testLines())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("Build() issues: %v", issues)
	}
	return n
}

func TestBuild(t *testing.T) {
	n := buildTest(t)

	if n.NodeCount() != 4 {
		t.Errorf("NodeCount() = %d, want 4", n.NodeCount())
	}
	if n.EdgeCount() != 3 {
		t.Errorf("EdgeCount() = %d, want 3", n.EdgeCount())
	}

	// IDs assigned in order of first appearance
	node, ok := n.Node(1)
	if !ok || node.P != (orb.Point{0, 10}) {
		t.Errorf("Node(1) = %+v, want confluence (0,10)", node)
	}

	want := []EdgeKey{{0, 1}, {1, 3}, {2, 1}}
	got := n.Edges()
	if len(got) != len(want) {
		t.Fatalf("Edges() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Edges()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBuild_Errors(t *testing.T) {
	if _, _, err := Build(nil); !errors.Is(err, ErrNoLines) {
		t.Errorf("Build(nil) error = %v, want ErrNoLines", err)
	}

	short := []geom.Line{{Coords: orb.LineString{{0, 0}}}}
	if _, _, err := Build(short); !errors.Is(err, ErrShortLine) {
		t.Errorf("Build(short) error = %v, want ErrShortLine", err)
	}

	dup := []geom.Line{
		{Coords: orb.LineString{{0, 0}, {1, 0}}},
		{Coords: orb.LineString{{0, 0}, {0.5, 1}, {1, 0}}},
	}
	if _, _, err := Build(dup); !errors.Is(err, ErrDuplicateEdge) {
		t.Errorf("Build(dup) error = %v, want ErrDuplicateEdge", err)
	}
}

func TestBuild_MultipleSubgraphs(t *testing.T) {
	lines := []geom.Line{
		{Coords: orb.LineString{{0, 10}, {0, 0}}},
		{Coords: orb.LineString{{100, 10}, {100, 0}}},
	}

	_, issues, err := Build(lines)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	found := false
	for _, issue := range issues {
		if issue.Kind == IssueMultipleSubgraphs && len(issue.Nodes) == 2 {
			found = true
		}
	}
	if !found {
		t.Errorf("issues = %v, want one IssueMultipleSubgraphs with two components", issues)
	}
}

func TestOutlet(t *testing.T) {
	n := buildTest(t)

	outlet, err := n.Outlet()
	if err != nil {
		t.Fatalf("Outlet() error: %v", err)
	}
	if outlet != 3 {
		t.Errorf("Outlet() = %d, want 3", outlet)
	}
	if n.OutDegree(outlet) != 0 || n.InDegree(outlet) != 1 {
		t.Errorf("outlet degrees = out:%d in:%d, want out:0 in:1", n.OutDegree(outlet), n.InDegree(outlet))
	}
}

func TestOutlet_Multiple(t *testing.T) {
	lines := []geom.Line{
		{Coords: orb.LineString{{0, 10}, {0, 0}}},
		{Coords: orb.LineString{{100, 10}, {100, 0}}},
	}
	n, _, err := Build(lines)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	_, err = n.Outlet()
	if !IsMultipleOutlets(err) {
		t.Errorf("Outlet() error = %v, want ErrMultipleOutlets", err)
	}
	if got := n.Outlets(); len(got) != 2 {
		t.Errorf("Outlets() = %v, want two candidates", got)
	}
}

func TestIntermediateNodes(t *testing.T) {
	n := buildTest(t)

	got := n.IntermediateNodes()
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("IntermediateNodes() = %v, want [1]", got)
	}
}

func TestEdgeMeasures(t *testing.T) {
	n := buildTest(t)

	e, err := n.Edge(EdgeKey{From: 1, To: 3})
	if err != nil {
		t.Fatalf("Edge() error: %v", err)
	}
	if e.Length != 10 {
		t.Errorf("Length = %v, want 10", e.Length)
	}
	if len(e.Meas) != 2 || e.Meas[0] != 0 || e.Meas[1] != 10 {
		t.Errorf("Meas = %v, want [0 10]", e.Meas)
	}
}

func TestEdge_Unknown(t *testing.T) {
	n := buildTest(t)

	if _, err := n.Edge(EdgeKey{From: 0, To: 3}); !errors.Is(err, ErrUnknownEdge) {
		t.Errorf("Edge() error = %v, want ErrUnknownEdge", err)
	}
}

func TestEdgeBuffer(t *testing.T) {
	n := buildTest(t)

	buf, err := n.EdgeBuffer(2, nil)
	if err != nil {
		t.Fatalf("EdgeBuffer() error: %v", err)
	}
	if !buf.Contains(orb.Point{1, 5}) {
		t.Error("buffer should contain a point 1 unit off the trunk")
	}
	if buf.Contains(orb.Point{50, 50}) {
		t.Error("buffer should not contain a distant point")
	}
}

func TestSuccessorsPredecessors(t *testing.T) {
	n := buildTest(t)

	if got := n.Successors(1); len(got) != 1 || got[0] != 3 {
		t.Errorf("Successors(1) = %v, want [3]", got)
	}
	preds := n.Predecessors(1)
	if len(preds) != 2 {
		t.Fatalf("Predecessors(1) = %v, want two nodes", preds)
	}
}

func TestVertexElevations(t *testing.T) {
	n := buildTest(t)

	e, err := n.Edge(EdgeKey{From: 0, To: 1})
	if err != nil {
		t.Fatalf("Edge() error: %v", err)
	}
	if !e.Line.HasZ() {
		t.Fatal("edge should carry elevation")
	}
	if e.Line.ZAt(0) != 20 || e.Line.ZAt(1) != 10 {
		t.Errorf("elevations = %v %v, want 20 10", e.Line.ZAt(0), e.Line.ZAt(1))
	}
	if !math.IsNaN(geom.Line{Coords: e.Line.Coords}.ZAt(0)) {
		t.Error("ZAt without elevation should be NaN")
	}
}
