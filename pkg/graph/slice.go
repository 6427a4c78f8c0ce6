package graph

import (
	"sort"

	"github.com/terralab/tradenet/pkg/logging"
)

// Slice is a directed weighted graph restricted to one (period, product)
// pair, or to a whole period with products aggregated. Nodes are exactly
// the endpoints of its edges, so isolated nodes appear only when their
// sole edge was a dropped self-loop. A Slice is immutable once built.
type Slice struct {
	Period  string
	Product string

	nodes []string
	out   map[string][]Neighbor
	in    map[string][]Neighbor
	edges int
}

// newSlice builds the adjacency maps for an edge set. Self-loops should
// not exist per the record invariant, but malformed input is dropped
// with a warning rather than failed.
func newSlice(period, product string, edges []Edge) *Slice {
	s := &Slice{
		Period:  period,
		Product: product,
		out:     make(map[string][]Neighbor),
		in:      make(map[string][]Neighbor),
	}

	seen := make(map[string]struct{})
	for _, e := range edges {
		if e.From == e.To {
			logging.Warn("dropping self-loop edge",
				logging.Component("graph"),
				logging.Country(e.From),
				logging.Period(period),
				logging.Product(product),
			)
			// The node keeps its graph membership; only the edge goes.
			seen[e.From] = struct{}{}
			continue
		}
		s.out[e.From] = append(s.out[e.From], Neighbor{Node: e.To, Weight: e.Weight, Quantity: e.Quantity})
		s.in[e.To] = append(s.in[e.To], Neighbor{Node: e.From, Weight: e.Weight, Quantity: e.Quantity})
		seen[e.From] = struct{}{}
		seen[e.To] = struct{}{}
		s.edges++
	}

	s.nodes = make([]string, 0, len(seen))
	for n := range seen {
		s.nodes = append(s.nodes, n)
	}
	sort.Strings(s.nodes)

	for _, adj := range s.out {
		sortNeighbors(adj)
	}
	for _, adj := range s.in {
		sortNeighbors(adj)
	}

	return s
}

func sortNeighbors(adj []Neighbor) {
	sort.Slice(adj, func(i, j int) bool { return adj[i].Node < adj[j].Node })
}

// Nodes returns the node set, sorted. Callers must not mutate it.
func (s *Slice) Nodes() []string {
	return s.nodes
}

// NodeCount returns the number of nodes in the slice.
func (s *Slice) NodeCount() int {
	return len(s.nodes)
}

// EdgeCount returns the number of directed edges in the slice.
func (s *Slice) EdgeCount() int {
	return s.edges
}

// HasNode reports whether the node appears in the slice.
func (s *Slice) HasNode(node string) bool {
	i := sort.SearchStrings(s.nodes, node)
	return i < len(s.nodes) && s.nodes[i] == node
}

// Out returns the outgoing adjacency of a node, sorted by neighbor.
func (s *Slice) Out(node string) []Neighbor {
	return s.out[node]
}

// In returns the incoming adjacency of a node, sorted by neighbor.
func (s *Slice) In(node string) []Neighbor {
	return s.in[node]
}

// OutStrength returns the sum of outgoing edge weights of a node.
func (s *Slice) OutStrength(node string) float64 {
	var total float64
	for _, n := range s.out[node] {
		total += n.Weight
	}
	return total
}

// InStrength returns the sum of incoming edge weights of a node.
func (s *Slice) InStrength(node string) float64 {
	var total float64
	for _, n := range s.in[node] {
		total += n.Weight
	}
	return total
}

// Strength returns the total incident edge weight of a node.
func (s *Slice) Strength(node string) float64 {
	return s.OutStrength(node) + s.InStrength(node)
}

// TotalWeight returns the sum of all edge weights in the slice.
func (s *Slice) TotalWeight() float64 {
	var total float64
	for _, adj := range s.out {
		for _, n := range adj {
			total += n.Weight
		}
	}
	return total
}
