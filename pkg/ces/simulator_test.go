package ces

import (
	"errors"
	"math"
	"testing"

	"github.com/terralab/tradenet/pkg/graph"
)

func supplySlice(t *testing.T, edges ...graph.Edge) *graph.Slice {
	t.Helper()
	ix := graph.NewIndex(edges)
	s, err := ix.Slice(edges[0].Period, edges[0].Product)
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	return s
}

func supply(from, to string, weight float64) graph.Edge {
	return graph.Edge{From: from, To: to, Period: "2020M01", Product: "0101", Weight: weight}
}

func almost(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s: expected %v, got %v", name, want, got)
	}
}

// TestCalibrate_UnitPrices tests that with unit prices the preference
// weights equal the observed shares
func TestCalibrate_UnitPrices(t *testing.T) {
	alpha, err := Calibrate([]float64{0.5, 0.3, 0.2}, []float64{1, 1, 1}, 5)
	if err != nil {
		t.Fatalf("Calibrate failed: %v", err)
	}
	almost(t, "alpha[0]", alpha[0], 0.5)
	almost(t, "alpha[1]", alpha[1], 0.3)
	almost(t, "alpha[2]", alpha[2], 0.2)
}

// TestCalibrate_Normalizes tests that weights sum to one regardless of prices
func TestCalibrate_Normalizes(t *testing.T) {
	alpha, err := Calibrate([]float64{0.6, 0.4}, []float64{2, 0.5}, 3)
	if err != nil {
		t.Fatalf("Calibrate failed: %v", err)
	}
	var total float64
	for _, a := range alpha {
		total += a
	}
	almost(t, "sum(alpha)", total, 1)
}

// TestCalibrate_InvalidInputs tests the argument guards
func TestCalibrate_InvalidInputs(t *testing.T) {
	if _, err := Calibrate([]float64{1}, []float64{1, 1}, 5); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("Expected ErrLengthMismatch, got %v", err)
	}
	if _, err := Calibrate([]float64{1}, []float64{1}, 1); !errors.Is(err, ErrInvalidSigma) {
		t.Fatalf("Expected ErrInvalidSigma, got %v", err)
	}
}

// TestSimulate_ThreeSupplierScenario tests the 50/30/20 removal of the
// dominant supplier at sigma 5
func TestSimulate_ThreeSupplierScenario(t *testing.T) {
	s := supplySlice(t,
		supply("A", "Z", 50),
		supply("B", "Z", 30),
		supply("C", "Z", 20),
	)

	sim, err := NewSimulator(5)
	if err != nil {
		t.Fatalf("NewSimulator failed: %v", err)
	}
	result, err := sim.Simulate(s, "A", "Z")
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	almost(t, "TotalExpenditure", result.TotalExpenditure, 100)

	a, _ := result.Supplier("A")
	b, _ := result.Supplier("B")
	c, _ := result.Supplier("C")

	almost(t, "BaselineShare(A)", a.BaselineShare, 0.5)
	almost(t, "BaselineShare(B)", b.BaselineShare, 0.3)
	almost(t, "BaselineShare(C)", c.BaselineShare, 0.2)

	// The removed supplier loses its full baseline quantity.
	almost(t, "ShockedShare(A)", a.ShockedShare, 0)
	almost(t, "ShockedQuantity(A)", a.ShockedQuantity, 0)
	almost(t, "DeltaQuantity(A)", a.DeltaQuantity, -50)

	// Remaining shares each exceed their baseline and sum to one.
	if b.ShockedShare <= b.BaselineShare {
		t.Errorf("Expected B share to rise, got %v <= %v", b.ShockedShare, b.BaselineShare)
	}
	if c.ShockedShare <= c.BaselineShare {
		t.Errorf("Expected C share to rise, got %v <= %v", c.ShockedShare, c.BaselineShare)
	}
	almost(t, "sum shocked shares", b.ShockedShare+c.ShockedShare, 1)

	// Unit prices: budget of 100 reallocated 0.6/0.4
	almost(t, "ShockedQuantity(B)", b.ShockedQuantity, 60)
	almost(t, "ShockedQuantity(C)", c.ShockedQuantity, 40)

	// Fewer varieties make the import bundle dearer.
	if result.PriceIndexPost < result.PriceIndexBase {
		t.Errorf("Expected price index to rise, got %v -> %v", result.PriceIndexBase, result.PriceIndexPost)
	}
}

// TestSimulate_ShareTotalsInvariant tests sum(s)=1 before and after the shock
func TestSimulate_ShareTotalsInvariant(t *testing.T) {
	s := supplySlice(t,
		supply("A", "Z", 13),
		supply("B", "Z", 7),
		supply("C", "Z", 29),
		supply("D", "Z", 3),
	)

	sim, _ := NewSimulator(3.5)
	result, err := sim.Simulate(s, "C", "Z")
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	var base, post float64
	for _, sp := range result.Suppliers {
		base += sp.BaselineShare
		post += sp.ShockedShare
	}
	almost(t, "sum baseline shares", base, 1)
	almost(t, "sum shocked shares", post, 1)
}

// TestSimulate_SoleSupplier tests the undefined sole-supplier shock
func TestSimulate_SoleSupplier(t *testing.T) {
	s := supplySlice(t,
		supply("A", "Z", 50),
		supply("A", "Y", 10),
	)

	sim, _ := NewSimulator(5)
	if _, err := sim.Simulate(s, "A", "Z"); !errors.Is(err, ErrNoSubstitution) {
		t.Fatalf("Expected ErrNoSubstitution, got %v", err)
	}
}

// TestSimulate_NoSuppliers tests a target with no incoming edges
func TestSimulate_NoSuppliers(t *testing.T) {
	s := supplySlice(t, supply("A", "Z", 50))

	sim, _ := NewSimulator(5)
	if _, err := sim.Simulate(s, "A", "Q"); !errors.Is(err, graph.ErrEmptySlice) {
		t.Fatalf("Expected ErrEmptySlice, got %v", err)
	}
}

// TestSimulate_AbsentShockedSupplier tests that removing a non-supplier
// leaves the equilibrium untouched
func TestSimulate_AbsentShockedSupplier(t *testing.T) {
	s := supplySlice(t,
		supply("A", "Z", 60),
		supply("B", "Z", 40),
	)

	sim, _ := NewSimulator(5)
	result, err := sim.Simulate(s, "X", "Z")
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	for _, sp := range result.Suppliers {
		almost(t, "share unchanged "+sp.Country, sp.ShockedShare, sp.BaselineShare)
		almost(t, "delta zero "+sp.Country, sp.DeltaQuantity, 0)
	}
}

// TestSimulate_QuantityPrices tests per-supplier prices from quantities
func TestSimulate_QuantityPrices(t *testing.T) {
	ix := graph.NewIndex([]graph.Edge{
		{From: "A", To: "Z", Period: "2020M01", Product: "0101", Weight: 60, Quantity: 30},
		{From: "B", To: "Z", Period: "2020M01", Product: "0101", Weight: 40, Quantity: 10},
	})
	s, err := ix.Slice("2020M01", "0101")
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}

	sim, _ := NewSimulator(5)
	result, err := sim.Simulate(s, "B", "Z")
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	a, _ := result.Supplier("A")
	b, _ := result.Supplier("B")
	almost(t, "Price(A)", a.Price, 2)
	almost(t, "Price(B)", b.Price, 4)
	almost(t, "BaselineQuantity(A)", a.BaselineQuantity, 30)
	almost(t, "BaselineQuantity(B)", b.BaselineQuantity, 10)

	// A absorbs the whole budget at price 2.
	almost(t, "ShockedShare(A)", a.ShockedShare, 1)
	almost(t, "ShockedQuantity(A)", a.ShockedQuantity, 50)
}

// TestSimulate_Deterministic tests identical inputs yield identical output
func TestSimulate_Deterministic(t *testing.T) {
	s := supplySlice(t,
		supply("A", "Z", 50),
		supply("B", "Z", 30),
		supply("C", "Z", 20),
	)

	sim, _ := NewSimulator(5)
	first, err := sim.Simulate(s, "A", "Z")
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	second, err := sim.Simulate(s, "A", "Z")
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	if len(first.Suppliers) != len(second.Suppliers) {
		t.Fatalf("Supplier counts differ")
	}
	for i := range first.Suppliers {
		if first.Suppliers[i] != second.Suppliers[i] {
			t.Errorf("Supplier %d differs: %+v vs %+v", i, first.Suppliers[i], second.Suppliers[i])
		}
	}
	almost(t, "price index", first.PriceIndexPost, second.PriceIndexPost)
}

// TestNewSimulator_SigmaGuard tests the elasticity validation and default
func TestNewSimulator_SigmaGuard(t *testing.T) {
	if _, err := NewSimulator(1); !errors.Is(err, ErrInvalidSigma) {
		t.Fatalf("Expected ErrInvalidSigma for sigma=1, got %v", err)
	}
	if _, err := NewSimulator(-2); !errors.Is(err, ErrInvalidSigma) {
		t.Fatalf("Expected ErrInvalidSigma for sigma=-2, got %v", err)
	}
	sim, err := NewSimulator(0)
	if err != nil {
		t.Fatalf("NewSimulator(0) failed: %v", err)
	}
	if sim.Sigma() != DefaultSigma {
		t.Errorf("Expected default sigma %v, got %v", DefaultSigma, sim.Sigma())
	}
}
