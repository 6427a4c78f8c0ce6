package graph

import (
	"sort"
)

type sliceKey struct {
	period  string
	product string
}

// Index is an in-memory directed weighted multigraph keyed by
// (period, product). It is an immutable snapshot: built once from a
// harmonized edge set and never mutated, so slicing is cheap and
// repeatable. There is deliberately no persistence behind it; the index
// is rebuilt from the owning dataset per query.
type Index struct {
	byKey map[sliceKey][]Edge
}

// NewIndex groups a harmonized edge set by (period, product).
func NewIndex(edges []Edge) *Index {
	ix := &Index{byKey: make(map[sliceKey][]Edge)}
	for _, e := range edges {
		k := sliceKey{period: e.Period, product: e.Product}
		ix.byKey[k] = append(ix.byKey[k], e)
	}
	return ix
}

// Periods returns the distinct periods in the index, sorted.
func (ix *Index) Periods() []string {
	seen := make(map[string]struct{})
	for k := range ix.byKey {
		seen[k.period] = struct{}{}
	}
	return sortedSet(seen)
}

// Products returns the distinct product codes present for a period, sorted.
func (ix *Index) Products(period string) []string {
	seen := make(map[string]struct{})
	for k := range ix.byKey {
		if k.period == period {
			seen[k.product] = struct{}{}
		}
	}
	return sortedSet(seen)
}

// Slice returns the view restricted to one (period, product) pair.
// Returns ErrEmptySlice when no edges match.
func (ix *Index) Slice(period, product string) (*Slice, error) {
	edges := ix.byKey[sliceKey{period: period, product: product}]
	if len(edges) == 0 {
		return nil, emptySliceError(period, product)
	}
	return newSlice(period, product, edges), nil
}

// Aggregate returns the view for one period with all products merged:
// edges sharing (from, to) have their weights and quantities summed.
// Returns ErrEmptySlice when the period has no edges at all.
func (ix *Index) Aggregate(period string) (*Slice, error) {
	type pair struct{ from, to string }
	merged := make(map[pair]Edge)

	for k, edges := range ix.byKey {
		if k.period != period {
			continue
		}
		for _, e := range edges {
			p := pair{from: e.From, to: e.To}
			acc, ok := merged[p]
			if !ok {
				acc = Edge{From: e.From, To: e.To, Period: period, Product: ProductAll}
			}
			acc.Weight += e.Weight
			acc.Quantity += e.Quantity
			merged[p] = acc
		}
	}

	if len(merged) == 0 {
		return nil, emptySliceError(period, "")
	}

	edges := make([]Edge, 0, len(merged))
	for _, e := range merged {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})

	return newSlice(period, ProductAll, edges), nil
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
