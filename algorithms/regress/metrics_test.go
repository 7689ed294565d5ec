package regress

import (
	"math"
	"testing"
)

func TestMAE(t *testing.T) {
	got := MAE([]float64{1, 2, 3}, []float64{2, 2, 1})
	if math.Abs(got-1.0) > 1e-12 {
		t.Errorf("MAE = %f, want 1.0", got)
	}

	if !math.IsNaN(MAE([]float64{1}, []float64{1, 2})) {
		t.Error("expected NaN for length mismatch")
	}
	if !math.IsNaN(MAE(nil, nil)) {
		t.Error("expected NaN for empty input")
	}
}

func TestRSquared(t *testing.T) {
	actual := []float64{1, 2, 3, 4}

	if got := RSquared(actual, actual); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("perfect predictions R2 = %f, want 1.0", got)
	}

	// Predicting the mean scores exactly zero
	mean := []float64{2.5, 2.5, 2.5, 2.5}
	if got := RSquared(mean, actual); math.Abs(got) > 1e-12 {
		t.Errorf("mean predictions R2 = %f, want 0", got)
	}

	// Constant ground truth stays finite
	if got := RSquared([]float64{1, 2}, []float64{3, 3}); got != 0 {
		t.Errorf("constant-truth R2 = %f, want 0", got)
	}
}
