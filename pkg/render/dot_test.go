package render

import (
	"strings"
	"testing"

	"github.com/paulmach/orb"

	"github.com/matzehuels/thalweg/pkg/geom"
	"github.com/matzehuels/thalweg/pkg/network"
)

func testNetwork(t *testing.T) *network.Network {
	t.Helper()
	lines := []geom.Line{
		{Coords: orb.LineString{{0, 20}, {0, 10}}},
		{Coords: orb.LineString{{6, 18}, {0, 10}}},
		{Coords: orb.LineString{{0, 10}, {0, 0}}},
	}
	n, _, err := network.Build(lines)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return n
}

func TestToDOT(t *testing.T) {
	n := testNetwork(t)

	dot := ToDOT(n, Options{Outlet: 3})

	if !strings.HasPrefix(dot, "digraph network {") {
		t.Errorf("DOT output should open a digraph, got %q", dot[:30])
	}
	for _, want := range []string{"0 -> 1;", "2 -> 1;", "1 -> 3;"} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing edge %q", want)
		}
	}
	if !strings.Contains(dot, "doublecircle") {
		t.Error("outlet node should be drawn as a double circle")
	}
	// the junction is filled
	if !strings.Contains(dot, "lightgrey") {
		t.Error("junction node should be filled")
	}
}

func TestToDOT_NoOutlet(t *testing.T) {
	n := testNetwork(t)

	dot := ToDOT(n, Options{Outlet: -1})

	if strings.Contains(dot, "doublecircle") {
		t.Error("no node should be highlighted without an outlet")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	n := testNetwork(t)

	dot := ToDOT(n, Options{Detailed: true, Outlet: 3})

	if !strings.Contains(dot, "in:2 out:1") {
		t.Error("detailed labels should include node degrees")
	}
	if !strings.Contains(dot, "10.0") {
		t.Error("detailed labels should include edge lengths")
	}
}
