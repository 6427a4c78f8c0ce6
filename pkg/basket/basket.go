// Package basket extracts per-country trade time series: the aggregated
// weight a country ships (or receives) per period, optionally restricted
// to one partner or product, as levels or period-over-period changes.
package basket

import (
	"errors"
	"fmt"
	"sort"

	"github.com/terralab/tradenet/pkg/dataset"
)

// Direction selects whether the country of interest is the shipper or
// the receiver of the flows.
type Direction string

const (
	// DirectionExport selects flows where the country is the source.
	DirectionExport Direction = "E"
	// DirectionImport selects flows where the country is the target.
	DirectionImport Direction = "I"
)

// ErrEmptySelection reports that a filter stage matched no records.
var ErrEmptySelection = errors.New("selection is empty")

// Options refines the basket extraction.
type Options struct {
	// Partner restricts to flows with one counterparty. Empty means all.
	Partner string
	// Product restricts to one product code. Empty means all.
	Product string
	// Direction defaults to DirectionExport.
	Direction Direction
	// Variation replaces the level series with period-over-period
	// relative change; the first period has no predecessor and is dropped.
	Variation bool
}

// Point is one period of the basket series.
type Point struct {
	Period string
	Weight float64
}

// Series aggregates the trade basket of a country over time. Each filter
// stage that empties the selection fails with a descriptive error so the
// caller can tell a missing country from a missing product.
func Series(ds *dataset.Dataset, country string, opts Options) ([]Point, error) {
	direction := opts.Direction
	if direction == "" {
		direction = DirectionExport
	}
	if direction != DirectionExport && direction != DirectionImport {
		return nil, fmt.Errorf("direction must be %q or %q, got %q",
			DirectionExport, DirectionImport, direction)
	}

	own := func(r dataset.TradeRecord) string {
		if direction == DirectionImport {
			return r.Target
		}
		return r.Source
	}
	partner := func(r dataset.TradeRecord) string {
		if direction == DirectionImport {
			return r.Source
		}
		return r.Target
	}

	selected := make([]dataset.TradeRecord, 0)
	for _, r := range ds.Records {
		if own(r) == country {
			selected = append(selected, r)
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: country %s in direction %s", ErrEmptySelection, country, direction)
	}

	if opts.Product != "" {
		selected = filter(selected, func(r dataset.TradeRecord) bool { return r.Product == opts.Product })
		if len(selected) == 0 {
			return nil, fmt.Errorf("%w: product %s for country %s", ErrEmptySelection, opts.Product, country)
		}
	}

	if opts.Partner != "" {
		selected = filter(selected, func(r dataset.TradeRecord) bool { return partner(r) == opts.Partner })
		if len(selected) == 0 {
			return nil, fmt.Errorf("%w: partner %s for country %s", ErrEmptySelection, opts.Partner, country)
		}
	}

	byPeriod := make(map[string]float64)
	for _, r := range selected {
		byPeriod[r.Period] += r.Weight
	}

	series := make([]Point, 0, len(byPeriod))
	for period, weight := range byPeriod {
		series = append(series, Point{Period: period, Weight: weight})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Period < series[j].Period })

	if opts.Variation {
		series = variation(series)
	}
	return series, nil
}

func filter(records []dataset.TradeRecord, keep func(dataset.TradeRecord) bool) []dataset.TradeRecord {
	out := records[:0:0]
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// variation converts a level series into relative period-over-period
// changes. A zero predecessor yields no point for that period either,
// since the relative change is undefined.
func variation(series []Point) []Point {
	out := make([]Point, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		prev := series[i-1].Weight
		if prev == 0 {
			continue
		}
		out = append(out, Point{
			Period: series[i].Period,
			Weight: (series[i].Weight - prev) / prev,
		})
	}
	return out
}
