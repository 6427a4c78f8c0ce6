package centrality

import (
	"container/heap"
	"math"

	"github.com/terralab/tradenet/pkg/graph"
)

// distanceEpsilon bounds the float comparison when deciding whether two
// paths to the same node are equally short.
const distanceEpsilon = 1e-12

// edgeDistance converts a flow weight into a path distance: heavier
// flows are shorter hops. Zero-weight edges are impassable.
func edgeDistance(weight float64) float64 {
	if weight <= 0 {
		return math.Inf(1)
	}
	return 1.0 / weight
}

type pqItem struct {
	node     string
	distance float64
	index    int
}

// distanceQueue implements a min-heap over tentative distances.
type distanceQueue []*pqItem

func (q distanceQueue) Len() int            { return len(q) }
func (q distanceQueue) Less(i, j int) bool  { return q[i].distance < q[j].distance }
func (q distanceQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i]; q[i].index = i; q[j].index = j }
func (q *distanceQueue) Push(x any) {
	item := x.(*pqItem)
	item.index = len(*q)
	*q = append(*q, item)
}
func (q *distanceQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

// shortestDistances runs Dijkstra over 1/weight distances from source
// and returns the finite distances to every reachable node (including
// the source itself at distance 0).
func shortestDistances(s *graph.Slice, source string) map[string]float64 {
	dist, _, _ := dijkstraPaths(s, source)
	return dist
}

// dijkstraPaths runs a single-source Dijkstra pass that also counts
// shortest paths for Brandes accumulation. It returns the distance map,
// the settled nodes in non-decreasing distance order, and for each node
// the shortest-path count and predecessor list.
func dijkstraPaths(s *graph.Slice, source string) (map[string]float64, []string, pathCounts) {
	dist := make(map[string]float64)
	counts := pathCounts{
		sigma: make(map[string]float64),
		preds: make(map[string][]string),
	}
	settled := make(map[string]struct{})
	order := make([]string, 0, s.NodeCount())

	dist[source] = 0
	counts.sigma[source] = 1

	q := &distanceQueue{}
	heap.Init(q)
	heap.Push(q, &pqItem{node: source, distance: 0})

	for q.Len() > 0 {
		item := heap.Pop(q).(*pqItem)
		v := item.node
		if _, done := settled[v]; done {
			continue
		}
		settled[v] = struct{}{}
		order = append(order, v)

		for _, n := range s.Out(v) {
			d := edgeDistance(n.Weight)
			if math.IsInf(d, 1) {
				continue
			}
			w := n.Node
			candidate := dist[v] + d

			old, known := dist[w]
			switch {
			case !known || candidate < old-distanceEpsilon:
				dist[w] = candidate
				counts.sigma[w] = counts.sigma[v]
				counts.preds[w] = []string{v}
				heap.Push(q, &pqItem{node: w, distance: candidate})
			case candidate <= old+distanceEpsilon:
				counts.sigma[w] += counts.sigma[v]
				counts.preds[w] = append(counts.preds[w], v)
			}
		}
	}

	return dist, order, counts
}

type pathCounts struct {
	sigma map[string]float64
	preds map[string][]string
}

// betweennessCentrality computes weighted betweenness via Brandes
// accumulation over Dijkstra shortest paths, normalized by the number
// of ordered node pairs excluding the node itself.
func betweennessCentrality(s *graph.Slice) map[string]float64 {
	nodes := s.Nodes()
	scores := make(map[string]float64, len(nodes))
	for _, n := range nodes {
		scores[n] = 0.0
	}

	for _, source := range nodes {
		_, order, counts := dijkstraPaths(s, source)

		// Back-propagation: accumulate pair dependencies onto nodes
		delta := make(map[string]float64, len(order))
		for i := len(order) - 1; i >= 0; i-- {
			w := order[i]
			for _, v := range counts.preds[w] {
				delta[v] += (counts.sigma[v] / counts.sigma[w]) * (1.0 + delta[w])
			}
			if w != source {
				scores[w] += delta[w]
			}
		}
	}

	if n := len(nodes); n > 2 {
		normFactor := 1.0 / float64((n-1)*(n-2))
		for node := range scores {
			scores[node] *= normFactor
		}
	}

	return scores
}
