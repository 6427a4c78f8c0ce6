package ces

import (
	"fmt"
	"math"
)

// Calibrate recovers CES preference weights from observed expenditure
// shares and unit prices: alpha_i is proportional to s_i * p_i^(sigma-1),
// normalized to sum to one. This is the inverse problem of the CES
// demand system: given what the importer actually bought at observed
// prices, back out the preferences that rationalize those purchases.
//
// Calibrate is pure and independent of the re-equilibration step so the
// two can be tested in isolation.
func Calibrate(shares, prices []float64, sigma float64) ([]float64, error) {
	if len(shares) != len(prices) {
		return nil, fmt.Errorf("%w: %d shares, %d prices", ErrLengthMismatch, len(shares), len(prices))
	}
	if sigma <= 1 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidSigma, sigma)
	}

	alpha := make([]float64, len(shares))
	var total float64
	for i, s := range shares {
		alpha[i] = s * math.Pow(prices[i], sigma-1)
		total += alpha[i]
	}
	if total <= 0 {
		return nil, fmt.Errorf("preference weights sum to zero: all shares are zero")
	}
	for i := range alpha {
		alpha[i] /= total
	}
	return alpha, nil
}

// priceIndex computes the CES price index (sum alpha_i p_i^(1-sigma))^(1/(1-sigma))
// over the given preference weights and prices. Suppliers with zero
// alpha contribute nothing (a removed variety leaves the choice set).
func priceIndex(alpha, prices []float64, sigma float64) float64 {
	var sum float64
	for i, a := range alpha {
		if a == 0 {
			continue
		}
		sum += a * math.Pow(prices[i], 1-sigma)
	}
	if sum <= 0 {
		return math.Inf(1)
	}
	return math.Pow(sum, 1/(1-sigma))
}
