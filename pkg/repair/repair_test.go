package repair

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/matzehuels/thalweg/pkg/geom"
	"github.com/matzehuels/thalweg/pkg/network"
)

func TestSnap(t *testing.T) {
	// the branch endpoint misses the trunk start by digitization noise; ties
	// resolve to the earliest occurrence, so the trunk comes first
	lines := []geom.Line{
		{Coords: orb.LineString{{0, 10}, {0, 0}}, Z: []float64{10, 0}},
		{Coords: orb.LineString{{0, 20}, {0.0000004, 10.0000002}}, Z: []float64{20, 10}},
	}

	fixed, edits := Snap(lines, 6)

	if len(edits) != 1 {
		t.Fatalf("Snap() applied %d edits, want 1", len(edits))
	}
	if edits[0].Line != 1 || edits[0].End != End {
		t.Errorf("edit = %+v, want end of line 1", edits[0])
	}
	if fixed[1].Coords[1] != (orb.Point{0, 10}) {
		t.Errorf("snapped endpoint = %v, want (0,10)", fixed[1].Coords[1])
	}
	// the input is left untouched
	if lines[1].Coords[1] == (orb.Point{0, 10}) {
		t.Error("Snap() mutated its input")
	}
	// elevations ride along unchanged
	if fixed[1].Z[1] != 10 {
		t.Errorf("elevation = %v, want 10", fixed[1].Z[1])
	}
}

func TestSnap_RepairsTopology(t *testing.T) {
	lines := []geom.Line{
		{Coords: orb.LineString{{0, 10}, {0, 0}}},
		{Coords: orb.LineString{{0, 20}, {0.0000004, 10.0000002}}},
	}

	if _, issues, err := network.Build(lines); err != nil || len(issues) == 0 {
		t.Fatalf("unsnapped network should report issues, got issues=%v err=%v", issues, err)
	}

	fixed, _ := Snap(lines, 6)

	n, issues, err := network.Build(fixed)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if len(issues) != 0 {
		t.Errorf("snapped network still has issues: %v", issues)
	}
	if n.NodeCount() != 3 {
		t.Errorf("NodeCount() = %d, want 3", n.NodeCount())
	}
}

func TestSnap_MostFrequentWins(t *testing.T) {
	// two lines already share (0,10); the third is the odd one out
	lines := []geom.Line{
		{Coords: orb.LineString{{0, 20}, {0, 10}}},
		{Coords: orb.LineString{{6, 18}, {0, 10}}},
		{Coords: orb.LineString{{0.0000004, 10.0000002}, {0, 0}}},
	}

	fixed, edits := Snap(lines, 6)

	if len(edits) != 1 {
		t.Fatalf("Snap() applied %d edits, want 1", len(edits))
	}
	if fixed[2].Coords[0] != (orb.Point{0, 10}) {
		t.Errorf("snapped start = %v, want the majority coordinate (0,10)", fixed[2].Coords[0])
	}
}

func TestSnap_NoGaps(t *testing.T) {
	lines := []geom.Line{
		{Coords: orb.LineString{{0, 20}, {0, 10}}},
		{Coords: orb.LineString{{0, 10}, {0, 0}}},
	}

	fixed, edits := Snap(lines, 6)

	if len(edits) != 0 {
		t.Errorf("Snap() applied %d edits, want 0", len(edits))
	}
	if &fixed[0].Coords[0] != &lines[0].Coords[0] {
		t.Error("Snap() without edits should return the input unchanged")
	}
}

func TestSnap_CoarsePrecision(t *testing.T) {
	// a half-unit gap closes only at zero decimals
	lines := []geom.Line{
		{Coords: orb.LineString{{0, 20}, {0.4, 10.3}}},
		{Coords: orb.LineString{{0, 10}, {0, 0}}},
	}

	if _, edits := Snap(lines, 6); len(edits) != 0 {
		t.Errorf("Snap(decimals=6) applied %d edits, want 0", len(edits))
	}
	if _, edits := Snap(lines, 0); len(edits) != 1 {
		t.Errorf("Snap(decimals=0) applied %d edits, want 1", len(edits))
	}
}
