package dataset

import (
	"github.com/google/uuid"
)

// TradeRecord is a single validated bilateral trade flow. Before
// harmonization the Flow label says whether the reporter recorded the
// flow as an import or an export; after harmonization Flow is empty and
// Source/Target carry the canonical direction.
type TradeRecord struct {
	Source   string  `validate:"required"`
	Target   string  `validate:"required,nefield=Source"`
	Period   string  `validate:"required"`
	Product  string  `validate:"required"`
	Weight   float64 `validate:"gte=0"`
	Quantity float64 `validate:"gte=0"`
	Flow     string
}

// Dataset owns a validated set of trade records. It is the only mutable
// object in the pipeline; everything derived from it (graph slices,
// centrality rows, simulation results) is an immutable snapshot.
type Dataset struct {
	// ID identifies this load for logging and result provenance.
	ID string

	// Records is the validated record set, in file order.
	Records []TradeRecord

	// HasQuantity reports whether the source file carried a second
	// numeric column, enabling per-supplier prices (weight/quantity).
	HasQuantity bool
}

// NewDataset wraps an already-validated record slice.
func NewDataset(records []TradeRecord, hasQuantity bool) *Dataset {
	return &Dataset{
		ID:          uuid.NewString(),
		Records:     records,
		HasQuantity: hasQuantity,
	}
}

// Periods returns the distinct periods present in the record set, sorted.
func (d *Dataset) Periods() []string {
	return distinctSorted(d.Records, func(r TradeRecord) string { return r.Period })
}

// Products returns the distinct product codes present, sorted.
func (d *Dataset) Products() []string {
	return distinctSorted(d.Records, func(r TradeRecord) string { return r.Product })
}

// Countries returns every country code appearing as source or target, sorted.
func (d *Dataset) Countries() []string {
	seen := make(map[string]struct{}, len(d.Records))
	for _, r := range d.Records {
		seen[r.Source] = struct{}{}
		seen[r.Target] = struct{}{}
	}
	return sortedKeys(seen)
}
