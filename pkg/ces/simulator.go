// Package ces simulates counterfactual supplier removal under a
// Constant-Elasticity-of-Substitution demand system: calibrate
// preference weights from observed trade, zero out the shocked
// supplier, and re-equilibrate the remaining shares over a fixed
// import budget.
package ces

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/terralab/tradenet/pkg/graph"
	"github.com/terralab/tradenet/pkg/logging"
)

// DefaultSigma is the default elasticity of substitution. Five sits in
// the middle of the range typically estimated for traded goods and is
// the documented policy default; callers override it per simulator.
const DefaultSigma = 5.0

// Supplier holds the before/after state of one supplier to the target.
type Supplier struct {
	Country          string
	Weight           float64 // observed expenditure on this supplier
	Price            float64 // unit price (1 unless the dataset carries quantities)
	Alpha            float64 // calibrated CES preference weight
	BaselineShare    float64
	BaselineQuantity float64
	ShockedShare     float64
	ShockedQuantity  float64
	DeltaQuantity    float64
}

// SimulationResult is the full outcome of one supplier-removal shock.
// It is returned by value to the caller; the simulator retains nothing.
type SimulationResult struct {
	RunID       string
	Period      string
	Product     string
	CountryTo   string
	CountryFrom string
	Sigma       float64

	// TotalExpenditure is the importer's budget, held fixed across the
	// shock and reallocated over the remaining suppliers.
	TotalExpenditure float64

	PriceIndexBase float64
	PriceIndexPost float64

	// Suppliers is ordered by country code for deterministic output.
	Suppliers []Supplier
}

// Supplier returns the entry for a country, if present.
func (r *SimulationResult) Supplier(country string) (Supplier, bool) {
	for _, s := range r.Suppliers {
		if s.Country == country {
			return s, true
		}
	}
	return Supplier{}, false
}

// Simulator applies supplier-removal shocks at a fixed elasticity.
type Simulator struct {
	sigma  float64
	logger logging.Logger
}

// NewSimulator creates a simulator. A zero sigma selects DefaultSigma;
// anything else must exceed 1 or the constructor fails with
// ErrInvalidSigma.
func NewSimulator(sigma float64) (*Simulator, error) {
	if sigma == 0 {
		sigma = DefaultSigma
	}
	if sigma <= 1 {
		return nil, &SimulationError{Op: "NewSimulator", Cause: ErrInvalidSigma}
	}
	return &Simulator{
		sigma:  sigma,
		logger: logging.With(logging.Component("ces")),
	}, nil
}

// Sigma returns the configured elasticity of substitution.
func (s *Simulator) Sigma() float64 {
	return s.sigma
}

// Simulate removes countryFrom from the supplier set of countryTo in
// the given slice and recomputes equilibrium shares and quantities.
// The result depends only on the inputs and sigma; identical inputs
// always yield identical output. Fails with ErrNoSubstitution when
// countryFrom carries the entire baseline expenditure.
func (s *Simulator) Simulate(slice *graph.Slice, countryFrom, countryTo string) (*SimulationResult, error) {
	start := time.Now()
	fail := func(cause error) (*SimulationResult, error) {
		return nil, &SimulationError{
			Op:          "Simulate",
			CountryFrom: countryFrom,
			CountryTo:   countryTo,
			Period:      slice.Period,
			Product:     slice.Product,
			Cause:       cause,
		}
	}

	incoming := slice.In(countryTo)
	if len(incoming) == 0 {
		return fail(graph.ErrEmptySlice)
	}

	// Step 1: suppliers, expenditures, prices. Weight is expenditure;
	// price is weight/quantity when a quantity was recorded, else 1.
	n := len(incoming)
	countries := make([]string, n)
	weights := make([]float64, n)
	prices := make([]float64, n)
	var total float64
	fromIdx := -1
	for i, edge := range incoming {
		countries[i] = edge.Node
		weights[i] = edge.Weight
		if edge.Quantity > 0 {
			prices[i] = edge.Weight / edge.Quantity
		} else {
			prices[i] = 1.0
		}
		total += edge.Weight
		if edge.Node == countryFrom {
			fromIdx = i
		}
	}
	if total <= 0 {
		return fail(graph.ErrEmptySlice)
	}
	if fromIdx >= 0 && weights[fromIdx] == total {
		return fail(ErrNoSubstitution)
	}

	// Step 2: baseline calibration.
	shares := make([]float64, n)
	for i, w := range weights {
		shares[i] = w / total
	}
	alpha, err := Calibrate(shares, prices, s.sigma)
	if err != nil {
		return fail(err)
	}

	// Step 3: shock. Preference weight of the removed supplier goes to
	// zero; prices and the remaining alphas are untouched.
	shocked := make([]float64, n)
	copy(shocked, alpha)
	if fromIdx >= 0 {
		shocked[fromIdx] = 0
	}

	// Step 4: re-equilibration over the remaining suppliers, with the
	// importer's total budget held fixed.
	var denom float64
	for i, a := range shocked {
		denom += a * math.Pow(prices[i], 1-s.sigma)
	}
	if denom <= 0 {
		return fail(ErrNoSubstitution)
	}

	suppliers := make([]Supplier, n)
	for i := range incoming {
		base := Supplier{
			Country:          countries[i],
			Weight:           weights[i],
			Price:            prices[i],
			Alpha:            alpha[i],
			BaselineShare:    shares[i],
			BaselineQuantity: weights[i] / prices[i],
		}
		if i != fromIdx {
			base.ShockedShare = shocked[i] * math.Pow(prices[i], 1-s.sigma) / denom
			base.ShockedQuantity = base.ShockedShare * total / prices[i]
		}
		// Step 5: the removed supplier keeps zero post-shock values, so
		// its delta is the full baseline quantity lost.
		base.DeltaQuantity = base.ShockedQuantity - base.BaselineQuantity
		suppliers[i] = base
	}

	result := &SimulationResult{
		RunID:            uuid.NewString(),
		Period:           slice.Period,
		Product:          slice.Product,
		CountryTo:        countryTo,
		CountryFrom:      countryFrom,
		Sigma:            s.sigma,
		TotalExpenditure: total,
		PriceIndexBase:   priceIndex(alpha, prices, s.sigma),
		PriceIndexPost:   priceIndex(shocked, prices, s.sigma),
		Suppliers:        suppliers,
	}

	s.logger.Info("shock simulated",
		logging.Country(countryFrom),
		logging.String("country_to", countryTo),
		logging.Period(slice.Period),
		logging.Product(slice.Product),
		logging.Float64("sigma", s.sigma),
		logging.Int("suppliers", n),
		logging.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}
