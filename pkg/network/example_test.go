package network_test

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/matzehuels/thalweg/pkg/geom"
	"github.com/matzehuels/thalweg/pkg/network"
)

func ExampleBuild() {
	lines := []geom.Line{
		{Coords: orb.LineString{{0, 20}, {0, 10}}},
		{Coords: orb.LineString{{6, 18}, {0, 10}}},
		{Coords: orb.LineString{{0, 10}, {0, 0}}},
	}

	n, _, err := network.Build(lines)
	if err != nil {
		panic(err)
	}
	outlet, err := n.Outlet()
	if err != nil {
		panic(err)
	}

	fmt.Printf("%d nodes, %d edges, outlet %d\n", n.NodeCount(), n.EdgeCount(), outlet)
	// Output: 4 nodes, 3 edges, outlet 3
}

func ExampleNetwork_Stations() {
	lines := []geom.Line{
		{Coords: orb.LineString{{0, 20}, {0, 10}}},
		{Coords: orb.LineString{{0, 10}, {0, 0}}},
	}

	n, _, err := network.Build(lines)
	if err != nil {
		panic(err)
	}
	stations, err := n.Stations(2, 5, false)
	if err != nil {
		panic(err)
	}

	for _, s := range stations {
		fmt.Printf("edge %s m=%.0f path_m=%.0f\n", s.Edge, s.M, s.PathM)
	}
	// Output:
	// edge (0→1) m=0 path_m=20
	// edge (0→1) m=5 path_m=15
	// edge (1→2) m=0 path_m=10
	// edge (1→2) m=5 path_m=5
}
