package regress

import (
	"encoding/json"
	"math"
	"testing"
)

// testForestConfig keeps tree counts small so tests stay fast
func testForestConfig() *ForestConfig {
	return &ForestConfig{
		NumTrees:        20,
		MaxDepth:        6,
		MinLeafSamples:  2,
		SampleFraction:  1.0,
		FeatureFraction: 1.0,
		RandomSeed:      42,
	}
}

// stepData has a clear split: x0 < 0.5 maps near 0.2, x0 >= 0.5 near 0.8
func stepData(n int) ([][]float64, []float64) {
	X := make([][]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x0 := float64(i) / float64(n-1)
		X[i] = []float64{x0, float64(i%3) / 3.0}
		if x0 < 0.5 {
			y[i] = 0.2 + float64(i%5)*0.002
		} else {
			y[i] = 0.8 + float64(i%5)*0.002
		}
	}
	return X, y
}

func TestForest_LearnsStepFunction(t *testing.T) {
	X, y := stepData(200)

	model := NewForest(testForestConfig())
	if err := model.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	low := model.Predict([]float64{0.1, 0.0})
	high := model.Predict([]float64{0.9, 0.0})

	if math.Abs(low-0.2) > 0.1 {
		t.Errorf("low-side prediction = %f, want near 0.2", low)
	}
	if math.Abs(high-0.8) > 0.1 {
		t.Errorf("high-side prediction = %f, want near 0.8", high)
	}
}

func TestForest_BeatsMeanBaseline(t *testing.T) {
	X, y := stepData(200)

	model := NewForest(testForestConfig())
	if err := model.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	predicted := make([]float64, len(X))
	baseline := make([]float64, len(X))
	mean := 0.0
	for _, v := range y {
		mean += v
	}
	mean /= float64(len(y))

	for i, x := range X {
		predicted[i] = model.Predict(x)
		baseline[i] = mean
	}

	if modelErr, baseErr := MAE(predicted, y), MAE(baseline, y); modelErr >= baseErr {
		t.Errorf("forest MAE %f should beat mean-baseline MAE %f", modelErr, baseErr)
	}
}

func TestForest_DeterministicGivenSeed(t *testing.T) {
	X, y := stepData(150)

	a := NewForest(testForestConfig())
	b := NewForest(testForestConfig())
	if err := a.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if err := b.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	for _, probe := range [][]float64{{0.1, 0.2}, {0.6, 0.1}, {0.95, 0.3}} {
		if pa, pb := a.Predict(probe), b.Predict(probe); pa != pb {
			t.Errorf("same seed produced different predictions at %v: %f vs %f", probe, pa, pb)
		}
	}
}

func TestForest_SerializeRoundTrip(t *testing.T) {
	X, y := stepData(120)

	model := NewForest(testForestConfig())
	if err := model.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	data, err := json.Marshal(model.Serialize())
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded SerializedModel
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	restored, err := decoded.Instantiate()
	if err != nil {
		t.Fatalf("instantiate failed: %v", err)
	}

	for _, probe := range [][]float64{{0.2, 0.0}, {0.7, 0.6}} {
		if got, want := restored.Predict(probe), model.Predict(probe); got != want {
			t.Errorf("restored prediction %f differs from original %f", got, want)
		}
	}
}

func TestSerializedModel_UnknownType(t *testing.T) {
	s := &SerializedModel{Type: "neural-net"}
	if _, err := s.Instantiate(); err == nil {
		t.Error("expected error for unknown model type")
	}
}
