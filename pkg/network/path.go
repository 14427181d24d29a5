package network

import (
	"container/heap"
	"fmt"
	"math"
)

// Weight maps an edge to a non-negative cost for path computations.
type Weight func(*Edge) float64

// WeightLength weighs each edge by its planar length. This is the default
// weight for outlet-relative addressing.
func WeightLength(e *Edge) float64 { return e.Length }

// WeightUnit weighs every edge as 1, giving hop-count paths.
func WeightUnit(*Edge) float64 { return 1 }

// PathEdges returns the ordered edge sequence of the least-cost directed path
// from start to goal. A nil weight defaults to WeightUnit. It fails with
// ErrNoPath when the goal is unreachable along directed edges.
func (n *Network) PathEdges(start, goal int, weight Weight) ([]EdgeKey, error) {
	if _, ok := n.Node(start); !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNode, start)
	}
	if _, ok := n.Node(goal); !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNode, goal)
	}
	if weight == nil {
		weight = WeightUnit
	}

	dist, prev := n.dijkstra(start, weight, false)
	if math.IsInf(dist[goal], 1) {
		return nil, fmt.Errorf("%w: %d→%d", ErrNoPath, start, goal)
	}

	// walk predecessors back from the goal
	var path []EdgeKey
	for at := goal; at != start; at = prev[at] {
		path = append(path, EdgeKey{From: prev[at], To: at})
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// PathWeight sums the weight over an edge sequence.
func (n *Network) PathWeight(path []EdgeKey, weight Weight) (float64, error) {
	if weight == nil {
		weight = WeightUnit
	}
	total := 0.0
	for _, key := range path {
		e, err := n.Edge(key)
		if err != nil {
			return 0, err
		}
		total += weight(e)
	}
	return total, nil
}

// distancesTo returns the least-cost distance from every node to the goal
// along directed edges, computed as a single Dijkstra pass over the reversed
// graph. Unreachable nodes map to +Inf.
func (n *Network) distancesTo(goal int, weight Weight) []float64 {
	dist, _ := n.dijkstra(goal, weight, true)
	return dist
}

// pqItem is a lazy decrease-key heap entry.
type pqItem struct {
	node int
	dist float64
}

type nodePQ []pqItem

func (pq nodePQ) Len() int            { return len(pq) }
func (pq nodePQ) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq nodePQ) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *nodePQ) Push(x any)         { *pq = append(*pq, x.(pqItem)) }
func (pq *nodePQ) Pop() any {
	old := *pq
	item := old[len(old)-1]
	*pq = old[:len(old)-1]
	return item
}

// dijkstra runs a single-source shortest-path pass from source. With reverse
// set, edges are traversed against their direction, yielding distances toward
// source instead of away from it. Duplicate heap entries stand in for
// decrease-key; stale entries are skipped on pop.
func (n *Network) dijkstra(source int, weight Weight, reverse bool) ([]float64, []int) {
	dist := make([]float64, len(n.nodes))
	prev := make([]int, len(n.nodes))
	for i := range dist {
		dist[i] = math.Inf(1)
		prev[i] = -1
	}
	dist[source] = 0

	pq := nodePQ{{node: source, dist: 0}}
	heap.Init(&pq)
	visited := make([]bool, len(n.nodes))

	for pq.Len() > 0 {
		item := heap.Pop(&pq).(pqItem)
		if visited[item.node] {
			continue
		}
		visited[item.node] = true

		neighbors := n.out[item.node]
		if reverse {
			neighbors = n.in[item.node]
		}
		for _, next := range neighbors {
			key := EdgeKey{From: item.node, To: next}
			if reverse {
				key = EdgeKey{From: next, To: item.node}
			}
			w := weight(n.edges[key])
			if d := item.dist + w; d < dist[next] {
				dist[next] = d
				prev[next] = item.node
				heap.Push(&pq, pqItem{node: next, dist: d})
			}
		}
	}
	return dist, prev
}
