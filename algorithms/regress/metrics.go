package regress

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Regression error metrics for held-out validation

// MAE calculates mean absolute error between predictions and ground truth
func MAE(predicted, actual []float64) float64 {
	if len(predicted) != len(actual) || len(predicted) == 0 {
		return math.NaN()
	}

	sum := 0.0
	for i := range predicted {
		sum += math.Abs(predicted[i] - actual[i])
	}
	return sum / float64(len(predicted))
}

// RSquared calculates the coefficient of determination. Constant ground
// truth yields 0 rather than NaN so metadata stays serializable.
func RSquared(predicted, actual []float64) float64 {
	if len(predicted) != len(actual) || len(predicted) == 0 {
		return math.NaN()
	}

	mean := stat.Mean(actual, nil)

	ssTotal := 0.0
	ssResidual := 0.0
	for i := range actual {
		ssTotal += (actual[i] - mean) * (actual[i] - mean)
		ssResidual += (actual[i] - predicted[i]) * (actual[i] - predicted[i])
	}

	if ssTotal == 0 {
		return 0.0
	}

	r2 := 1.0 - ssResidual/ssTotal
	if math.IsNaN(r2) || math.IsInf(r2, 0) {
		return 0.0
	}
	return r2
}
