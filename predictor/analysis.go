package predictor

import (
	"fmt"

	"github.com/soniclens/moodcast/algorithms/common"
	"github.com/soniclens/moodcast/predictor/config"
)

// FeatureStats summarizes one feature across a batch of predictions
type FeatureStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// BatchSummary is an aggregate profile over a batch of predictions: per-
// feature statistics plus the mood quadrant of the mean (valence, energy)
// point when both features are covered
type BatchSummary struct {
	Count    int                     `json:"count"`
	Features map[string]FeatureStats `json:"features"`
	Mood     Mood                    `json:"mood,omitempty"`
}

// SummarizeBatch profiles a set of predictions, e.g. all tracks of an album.
// Only features present in every prediction are summarized. Low-confidence
// predictions are included; callers wanting a measured-only profile should
// filter on Confidence first.
func SummarizeBatch(predictions []*Prediction) (*BatchSummary, error) {
	if len(predictions) == 0 {
		return nil, fmt.Errorf("cannot summarize an empty batch")
	}

	// Features covered by every prediction
	covered := make(map[string]bool)
	for feature := range predictions[0].Features {
		covered[feature] = true
	}
	for _, p := range predictions[1:] {
		for feature := range covered {
			if _, ok := p.Features[feature]; !ok {
				delete(covered, feature)
			}
		}
	}

	summary := &BatchSummary{
		Count:    len(predictions),
		Features: make(map[string]FeatureStats, len(covered)),
	}

	values := make([]float64, len(predictions))
	for feature := range covered {
		for i, p := range predictions {
			values[i] = p.Features[feature]
		}
		summary.Features[feature] = FeatureStats{
			Mean: common.Mean(values),
			Std:  common.StandardDeviation(values),
			Min:  common.Min(values),
			Max:  common.Max(values),
		}
	}

	if covered[config.FeatureValence] && covered[config.FeatureEnergy] {
		mood, err := MoodOf(map[string]float64{
			config.FeatureValence: summary.Features[config.FeatureValence].Mean,
			config.FeatureEnergy:  summary.Features[config.FeatureEnergy].Mean,
		})
		if err == nil {
			summary.Mood = mood
		}
	}

	return summary, nil
}

// ProfileDistance is the Euclidean distance between two summaries over their
// shared features; smaller means more similar profiles
func ProfileDistance(a, b *BatchSummary) (float64, error) {
	var va, vb []float64
	for feature, stats := range a.Features {
		other, ok := b.Features[feature]
		if !ok {
			continue
		}
		va = append(va, stats.Mean)
		vb = append(vb, other.Mean)
	}

	if len(va) == 0 {
		return 0, fmt.Errorf("summaries share no features")
	}

	return common.EuclideanDistance(va, vb), nil
}
