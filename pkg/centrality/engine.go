// Package centrality computes node-level weighted centrality metrics
// over a trade graph slice. All metrics use raw edge weights directly
// (no binarization); path-based metrics travel on 1/weight distances so
// heavier flows mean shorter distances.
package centrality

import (
	"sort"
	"time"

	"github.com/terralab/tradenet/pkg/graph"
	"github.com/terralab/tradenet/pkg/logging"
)

// Row holds every metric for one node in one period.
type Row struct {
	Period          string
	Node            string
	Degree          float64
	OutDegree       float64
	InDegree        float64
	Closeness       float64
	Betweenness     float64
	Vulnerability   float64
	Distinctiveness float64
}

// Engine computes metric rows from immutable graph slices. It holds no
// state between calls; results are recomputed on demand.
type Engine struct {
	logger logging.Logger
}

// NewEngine creates a centrality engine.
func NewEngine() *Engine {
	return &Engine{logger: logging.With(logging.Component("centrality"))}
}

// Compute returns one metrics row per node in the slice, sorted by node.
// A slice without edges fails with ErrEmptySlice rather than producing
// degenerate zero rows; nodes left edge-less by defensive self-loop
// dropping still get an all-zero row.
func (e *Engine) Compute(s *graph.Slice) ([]Row, error) {
	if s == nil || s.NodeCount() == 0 {
		return nil, &graph.SliceError{Cause: graph.ErrEmptySlice}
	}
	start := time.Now()

	nodes := s.Nodes()
	closeness := closenessCentrality(s)
	betweenness := betweennessCentrality(s)
	vulnerability := vulnerabilityCentrality(s)
	distinctiveness := distinctivenessCentrality(s)

	rows := make([]Row, 0, len(nodes))
	for _, n := range nodes {
		out := s.OutStrength(n)
		in := s.InStrength(n)
		rows = append(rows, Row{
			Period:          s.Period,
			Node:            n,
			Degree:          out + in,
			OutDegree:       out,
			InDegree:        in,
			Closeness:       closeness[n],
			Betweenness:     betweenness[n],
			Vulnerability:   vulnerability[n],
			Distinctiveness: distinctiveness[n],
		})
	}

	e.logger.Debug("centrality computed",
		logging.Period(s.Period),
		logging.Product(s.Product),
		logging.NodeCount(s.NodeCount()),
		logging.EdgeCount(s.EdgeCount()),
		logging.Duration("elapsed", time.Since(start)),
	)
	return rows, nil
}

// ComputeAll computes metrics for every period in the index on the
// product-aggregated view, concatenating the per-period rows.
func (e *Engine) ComputeAll(ix *graph.Index) ([]Row, error) {
	var all []Row
	for _, period := range ix.Periods() {
		s, err := ix.Aggregate(period)
		if err != nil {
			return nil, err
		}
		rows, err := e.Compute(s)
		if err != nil {
			return nil, err
		}
		all = append(all, rows...)
	}
	if len(all) == 0 {
		return nil, &graph.SliceError{Cause: graph.ErrEmptySlice}
	}
	return all, nil
}

// closenessCentrality returns, per node, the reachable-set size divided
// by the sum of shortest 1/weight distances to the reachable nodes.
// Nodes that reach nothing score zero.
func closenessCentrality(s *graph.Slice) map[string]float64 {
	scores := make(map[string]float64, s.NodeCount())
	for _, source := range s.Nodes() {
		dist := shortestDistances(s, source)

		totalDistance := 0.0
		reachable := 0
		for node, d := range dist {
			if node == source {
				continue
			}
			totalDistance += d
			reachable++
		}

		if totalDistance > 0 {
			scores[source] = float64(reachable) / totalDistance
		} else {
			scores[source] = 0.0
		}
	}
	return scores
}

// vulnerabilityCentrality measures concentration risk: for node i the
// sum over partners j of (t_ij / strength(i)) * (t_ij / strength(j)),
// where t_ij is the total weight traded between i and j in either
// direction. A node whose trade is spread thinly scores low even when
// its raw degree is high; a node locked onto one dominant partner
// scores close to the product of the two dependence shares.
func vulnerabilityCentrality(s *graph.Slice) map[string]float64 {
	scores := make(map[string]float64, s.NodeCount())
	for _, node := range s.Nodes() {
		strength := s.Strength(node)
		if strength == 0 {
			scores[node] = 0.0
			continue
		}

		pair := make(map[string]float64)
		for _, n := range s.Out(node) {
			pair[n.Node] += n.Weight
		}
		for _, n := range s.In(node) {
			pair[n.Node] += n.Weight
		}

		var score float64
		for partner, t := range pair {
			partnerStrength := s.Strength(partner)
			if t == 0 || partnerStrength == 0 {
				continue
			}
			score += (t / strength) * (t / partnerStrength)
		}
		scores[node] = score
	}
	return scores
}

// distinctivenessCentrality rewards ties to partners for whom the
// relationship is comparatively large: the sum of w(i,j) / strength(j)
// over i's out-edges plus the same over its in-edges. It is independent
// of i's own size, so a small country dominating a partner's trade
// scores higher than a large country that is marginal to everyone.
func distinctivenessCentrality(s *graph.Slice) map[string]float64 {
	scores := make(map[string]float64, s.NodeCount())
	for _, node := range s.Nodes() {
		var score float64
		for _, n := range s.Out(node) {
			if partnerStrength := s.Strength(n.Node); n.Weight > 0 && partnerStrength > 0 {
				score += n.Weight / partnerStrength
			}
		}
		for _, n := range s.In(node) {
			if partnerStrength := s.Strength(n.Node); n.Weight > 0 && partnerStrength > 0 {
				score += n.Weight / partnerStrength
			}
		}
		scores[node] = score
	}
	return scores
}

// SortRows orders rows by (period, node) in place.
func SortRows(rows []Row) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Period != rows[j].Period {
			return rows[i].Period < rows[j].Period
		}
		return rows[i].Node < rows[j].Node
	})
}
