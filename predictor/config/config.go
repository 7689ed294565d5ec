package config

import (
	"github.com/soniclens/moodcast/algorithms/regress"
	"github.com/soniclens/moodcast/algorithms/vectorize"
)

// Canonical acoustic feature names, in bundle order
const (
	FeatureDanceability     = "danceability"
	FeatureEnergy           = "energy"
	FeatureValence          = "valence"
	FeatureSpeechiness      = "speechiness"
	FeatureAcousticness     = "acousticness"
	FeatureInstrumentalness = "instrumentalness"
	FeatureLiveness         = "liveness"
	FeatureTempo            = "tempo"
)

// DefaultFeatureNames returns the ordered set of target features a full
// training run covers
func DefaultFeatureNames() []string {
	return []string{
		FeatureDanceability,
		FeatureEnergy,
		FeatureValence,
		FeatureSpeechiness,
		FeatureAcousticness,
		FeatureInstrumentalness,
		FeatureLiveness,
		FeatureTempo,
	}
}

// Range is the valid interval for a predicted feature value
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// RangeOf returns the valid range for a feature: [0, 300] BPM for tempo,
// [0, 1] for everything else
func RangeOf(feature string) Range {
	if feature == FeatureTempo {
		return Range{Min: 0.0, Max: 300.0}
	}
	return Range{Min: 0.0, Max: 1.0}
}

// TrainingConfig holds the full configuration of a training run
type TrainingConfig struct {
	// Model selection: "forest" or "ridge"
	ModelType regress.ModelType `json:"model_type"`

	// Target features to fit models for
	Features []string `json:"features"`

	// Held-out validation fraction and the seed for the split shuffle;
	// both are recorded in bundle metadata so validation error is
	// reproducible across retrains
	ValidationFraction float64 `json:"validation_fraction"`
	RandomSeed         int64   `json:"random_seed"`

	// Features with fewer usable rows than this are skipped rather than
	// fitted on too little data
	MinTrainRows int `json:"min_train_rows"`

	Vectorizer *vectorize.TFIDFConfig `json:"vectorizer"`
	Ridge      *regress.RidgeConfig   `json:"ridge"`
	Forest     *regress.ForestConfig  `json:"forest"`
}

// DefaultTrainingConfig returns a forest-backed configuration with an 80/20
// split and the standard feature set
func DefaultTrainingConfig() *TrainingConfig {
	return &TrainingConfig{
		ModelType:          regress.ModelForest,
		Features:           DefaultFeatureNames(),
		ValidationFraction: 0.2,
		RandomSeed:         42,
		MinTrainRows:       50,
		Vectorizer:         vectorize.DefaultTFIDFConfig(),
		Ridge:              regress.DefaultRidgeConfig(),
		Forest:             regress.DefaultForestConfig(),
	}
}
