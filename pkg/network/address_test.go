package network

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"

	"github.com/matzehuels/thalweg/pkg/geom"
)

func TestEdgeAddresses(t *testing.T) {
	n := buildTest(t)

	addresses, err := n.EdgeAddresses(3, nil)
	if err != nil {
		t.Fatalf("EdgeAddresses() error: %v", err)
	}

	// same order as Edges(): (0,1), (1,3), (2,1)
	want := []EdgeAddress{
		{Edge: EdgeKey{0, 1}, FromNodeAddress: 20, ToNodeAddress: 10},
		{Edge: EdgeKey{1, 3}, FromNodeAddress: 10, ToNodeAddress: 0},
		{Edge: EdgeKey{2, 1}, FromNodeAddress: 20, ToNodeAddress: 10},
	}
	if len(addresses) != len(want) {
		t.Fatalf("EdgeAddresses() returned %d rows, want %d", len(addresses), len(want))
	}
	for i := range want {
		if addresses[i] != want[i] {
			t.Errorf("addresses[%d] = %+v, want %+v", i, addresses[i], want[i])
		}
	}
}

func TestEdgeAddresses_Monotonic(t *testing.T) {
	n := buildTest(t)

	addresses, err := n.EdgeAddresses(3, nil)
	if err != nil {
		t.Fatalf("EdgeAddresses() error: %v", err)
	}
	for _, a := range addresses {
		if a.FromNodeAddress <= a.ToNodeAddress {
			t.Errorf("edge %s: from-node address %v not greater than to-node address %v",
				a.Edge, a.FromNodeAddress, a.ToNodeAddress)
		}
	}
}

func TestEdgeAddresses_Unreachable(t *testing.T) {
	lines := []geom.Line{
		{Coords: orb.LineString{{0, 10}, {0, 0}}},
		{Coords: orb.LineString{{100, 10}, {100, 0}}},
	}
	n, _, err := Build(lines)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if _, err := n.EdgeAddresses(1, nil); !errors.Is(err, ErrNoPath) {
		t.Errorf("EdgeAddresses() error = %v, want ErrNoPath", err)
	}
}

func TestOutletDistance(t *testing.T) {
	a := EdgeAddress{FromNodeAddress: 20, ToNodeAddress: 10}

	// at the upstream end the local measure is zero
	if got := a.OutletDistance(0, 10); got != 20 {
		t.Errorf("OutletDistance(0) = %v, want 20", got)
	}
	if got := a.OutletDistance(10, 10); got != 10 {
		t.Errorf("OutletDistance(10) = %v, want 10", got)
	}
	if got := a.OutletDistance(4, 10); got != 16 {
		t.Errorf("OutletDistance(4) = %v, want 16", got)
	}
}

func TestVertices(t *testing.T) {
	n := buildTest(t)

	records, err := n.Vertices(3)
	if err != nil {
		t.Fatalf("Vertices() error: %v", err)
	}
	// three edges of two vertices each
	if len(records) != 6 {
		t.Fatalf("Vertices() returned %d records, want 6", len(records))
	}

	// the outlet vertex sits at path distance zero
	last := records[3] // edge (1,3), downstream vertex
	if last.Edge != (EdgeKey{1, 3}) || last.PathM != 0 {
		t.Errorf("outlet vertex = %+v, want edge (1,3) at PathM 0", last)
	}
	if last.V.Z != 0 {
		t.Errorf("outlet elevation = %v, want 0", last.V.Z)
	}

	// within an edge, PathM decreases downstream
	for i := 1; i < len(records); i++ {
		if records[i].Edge == records[i-1].Edge && records[i].PathM >= records[i-1].PathM {
			t.Errorf("record %d: PathM %v not decreasing within edge %s",
				i, records[i].PathM, records[i].Edge)
		}
	}
}

func TestStations(t *testing.T) {
	n := buildTest(t)

	records, err := n.Stations(3, 3, false)
	if err != nil {
		t.Fatalf("Stations() error: %v", err)
	}

	// every station's outlet distance is a multiple of the step: the phase
	// offset aligns spacing across edge boundaries
	for _, rec := range records {
		ratio := rec.PathM / 3
		if math.Abs(ratio-math.Round(ratio)) > 1e-9 {
			t.Errorf("station PathM %v on edge %s not on the step grid", rec.PathM, rec.Edge)
		}
	}

	// floor(10/3) stations per 10-unit edge
	perEdge := make(map[EdgeKey]int)
	for _, rec := range records {
		perEdge[rec.Edge]++
	}
	for edge, count := range perEdge {
		if count != 3 {
			t.Errorf("edge %s has %d stations, want 3", edge, count)
		}
	}
}

func TestStations_IncludeVertices(t *testing.T) {
	n := buildTest(t)

	records, err := n.Stations(3, 3, true)
	if err != nil {
		t.Fatalf("Stations() error: %v", err)
	}

	// 9 stations plus 6 native vertices
	if len(records) != 15 {
		t.Fatalf("Stations() returned %d records, want 15", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].PathM > records[i-1].PathM {
			t.Errorf("record %d: PathM %v after %v, want descending order",
				i, records[i].PathM, records[i-1].PathM)
		}
	}
}

func TestStations_BadStep(t *testing.T) {
	n := buildTest(t)

	if _, err := n.Stations(3, 0, false); err == nil {
		t.Error("Stations(step=0) should fail")
	}
	if _, err := n.Stations(3, -1, false); err == nil {
		t.Error("Stations(step=-1) should fail")
	}
}
