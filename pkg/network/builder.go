package network

import (
	"fmt"
	"sort"
	"time"

	"github.com/terralab/tradenet/pkg/dataset"
	"github.com/terralab/tradenet/pkg/graph"
	"github.com/terralab/tradenet/pkg/logging"
)

// DefaultFlowLabels are the conventional import/export markers in
// published bilateral trade files.
var DefaultFlowLabels = [2]string{"I", "E"}

// Builder turns validated trade records into a canonical directed
// weighted edge set, one edge per (from, to, period, product).
type Builder struct {
	tradeToNetwork bool
	mode           Mode
	importLabel    string
	exportLabel    string
	logger         logging.Logger
}

// NewBuilder configures a builder. When tradeToNetwork is false the
// records are treated as already-directed edges and mode is ignored.
// The flow label pair is (import, export); pass DefaultFlowLabels for
// the usual ("I", "E") convention. An out-of-range mode fails with
// ErrInvalidMode before any record is touched.
func NewBuilder(tradeToNetwork bool, mode Mode, flowLabels [2]string) (*Builder, error) {
	if !mode.valid() {
		return nil, invalidModeError(mode.String())
	}
	if flowLabels[0] == "" && flowLabels[1] == "" {
		flowLabels = DefaultFlowLabels
	}
	if flowLabels[0] == flowLabels[1] {
		return nil, &BuildError{
			Op:      "NewBuilder",
			Context: fmt.Sprintf("labels %q", flowLabels[0]),
			Cause:   fmt.Errorf("import and export labels must differ"),
		}
	}
	return &Builder{
		tradeToNetwork: tradeToNetwork,
		mode:           mode,
		importLabel:    flowLabels[0],
		exportLabel:    flowLabels[1],
		logger:         logging.With(logging.Component("network")),
	}, nil
}

type edgeKey struct {
	from, to, period, product string
}

type edgeAcc struct {
	weight   float64
	quantity float64
}

// Build produces the harmonized edge set. Either the full edge set is
// returned or an error with no partial output.
func (b *Builder) Build(records []dataset.TradeRecord) ([]graph.Edge, error) {
	start := time.Now()

	var merged map[edgeKey]edgeAcc
	var err error
	if !b.tradeToNetwork {
		merged = b.passThrough(records)
	} else {
		merged, err = b.harmonize(records)
		if err != nil {
			return nil, err
		}
	}

	if len(merged) == 0 {
		return nil, &BuildError{
			Op:      "Build",
			Context: fmt.Sprintf("mode %s", b.mode),
			Cause:   ErrNoEdges,
		}
	}

	edges := make([]graph.Edge, 0, len(merged))
	for k, acc := range merged {
		edges = append(edges, graph.Edge{
			From:     k.from,
			To:       k.to,
			Period:   k.period,
			Product:  k.product,
			Weight:   acc.weight,
			Quantity: acc.quantity,
		})
	}
	sort.Slice(edges, func(i, j int) bool {
		a, c := edges[i], edges[j]
		if a.Period != c.Period {
			return a.Period < c.Period
		}
		if a.Product != c.Product {
			return a.Product < c.Product
		}
		if a.From != c.From {
			return a.From < c.From
		}
		return a.To < c.To
	})

	b.logger.Info("network built",
		logging.String("mode", b.mode.String()),
		logging.Bool("trade_to_network", b.tradeToNetwork),
		logging.Int("records", len(records)),
		logging.EdgeCount(len(edges)),
		logging.Duration("elapsed", time.Since(start)),
	)
	return edges, nil
}

// passThrough treats records as directed edges already. Exact
// (from, to, period, product) duplicates are merged by weight sum: raw
// network files may list several tariff lines for the same pair.
func (b *Builder) passThrough(records []dataset.TradeRecord) map[edgeKey]edgeAcc {
	merged := make(map[edgeKey]edgeAcc, len(records))
	for _, r := range records {
		k := edgeKey{from: r.Source, to: r.Target, period: r.Period, product: r.Product}
		acc := merged[k]
		acc.weight += r.Weight
		acc.quantity += r.Quantity
		merged[k] = acc
	}
	return merged
}

// harmonize reinterprets flow-labeled reports as directed edges. All
// labels are validated before any edge is derived so a bad row cannot
// leave partial state behind.
func (b *Builder) harmonize(records []dataset.TradeRecord) (map[edgeKey]edgeAcc, error) {
	for i, r := range records {
		if r.Flow != b.importLabel && r.Flow != b.exportLabel {
			return nil, flowLabelError(i+1, r.Flow)
		}
	}

	// Duplicate reports within one side sum, mirroring the pass-through
	// merge rule; the cross-side reconciliation below averages instead.
	importSide := make(map[edgeKey]edgeAcc)
	exportSide := make(map[edgeKey]edgeAcc)
	for _, r := range records {
		if r.Flow == b.importLabel {
			// The reporter is the buyer: the partner shipped the goods.
			k := edgeKey{from: r.Target, to: r.Source, period: r.Period, product: r.Product}
			acc := importSide[k]
			acc.weight += r.Weight
			acc.quantity += r.Quantity
			importSide[k] = acc
		} else {
			k := edgeKey{from: r.Source, to: r.Target, period: r.Period, product: r.Product}
			acc := exportSide[k]
			acc.weight += r.Weight
			acc.quantity += r.Quantity
			exportSide[k] = acc
		}
	}

	switch b.mode {
	case ModeImport:
		return importSide, nil
	case ModeExport:
		return exportSide, nil
	default:
		return reconcile(importSide, exportSide), nil
	}
}

// reconcile merges the two directional views. An edge reported from both
// sides takes the mean of the two weights (not the sum): both reports
// describe the same physical flow. One-sided reports pass through as-is.
func reconcile(importSide, exportSide map[edgeKey]edgeAcc) map[edgeKey]edgeAcc {
	merged := make(map[edgeKey]edgeAcc, len(importSide)+len(exportSide))
	for k, imp := range importSide {
		if exp, ok := exportSide[k]; ok {
			merged[k] = edgeAcc{
				weight:   (imp.weight + exp.weight) / 2,
				quantity: (imp.quantity + exp.quantity) / 2,
			}
		} else {
			merged[k] = imp
		}
	}
	for k, exp := range exportSide {
		if _, ok := importSide[k]; !ok {
			merged[k] = exp
		}
	}
	return merged
}
