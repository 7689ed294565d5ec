package predictor

import (
	"errors"
	"math"
	"testing"

	"github.com/soniclens/moodcast/algorithms/regress"
	"github.com/soniclens/moodcast/dataset"
	"github.com/soniclens/moodcast/predictor/config"
)

// testTrainingConfig shrinks the forest so training-path tests stay fast
func testTrainingConfig() *config.TrainingConfig {
	cfg := config.DefaultTrainingConfig()
	cfg.Forest = &regress.ForestConfig{
		NumTrees:        10,
		MaxDepth:        5,
		MinLeafSamples:  2,
		SampleFraction:  1.0,
		FeatureFraction: 1.0,
		RandomSeed:      42,
	}
	return cfg
}

// jitter produces a small deterministic offset in [-0.025, 0.025)
func jitter(i int) float64 {
	return (float64(i%10) - 5.0) * 0.005
}

func row(id, tags string, targets map[string]float64) dataset.TrainingRow {
	return dataset.TrainingRow{
		Track:   dataset.TaggedTrack{TrackID: id, Tags: dataset.ParseTagString(tags)},
		Targets: targets,
	}
}

// scenarioCorpus is 200 rows: 120 melancholic rock tracks around
// (valence 0.3, energy 0.4) and 80 upbeat pop tracks around (0.8, 0.7)
func scenarioCorpus() []dataset.TrainingRow {
	var rows []dataset.TrainingRow
	for i := 0; i < 120; i++ {
		rows = append(rows, row("rock", "rock, melancholic", map[string]float64{
			"valence": 0.3 + jitter(i),
			"energy":  0.4 + jitter(i+3),
		}))
	}
	for i := 0; i < 80; i++ {
		rows = append(rows, row("pop", "pop, upbeat", map[string]float64{
			"valence": 0.8 + jitter(i),
			"energy":  0.7 + jitter(i+7),
		}))
	}
	return rows
}

func TestTrain_ScenarioPredictsCorpusMeans(t *testing.T) {
	trainer := NewTrainer(testTrainingConfig())

	bundle, err := trainer.Train(scenarioCorpus())
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	handle, err := Load(bundle)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	seen := handle.PredictString("rock, melancholic")
	if seen.Confidence == 0 {
		t.Fatal("seen tags should carry confidence")
	}
	if v := seen.Features["valence"]; math.Abs(v-0.3) > 0.1 {
		t.Errorf("valence = %f, want near the 0.3 corpus mean", v)
	}
	if e := seen.Features["energy"]; math.Abs(e-0.4) > 0.1 {
		t.Errorf("energy = %f, want near the 0.4 corpus mean", e)
	}

	mood, err := MoodOf(seen.Features)
	if err != nil {
		t.Fatalf("MoodOf failed: %v", err)
	}
	if mood != MoodSadMelancholic {
		t.Errorf("mood = %s, want %s", mood, MoodSadMelancholic)
	}

	// Unseen tags vectorize to zero and come back flagged, not as an error
	unseen := handle.PredictString("xyzzy123")
	if unseen.Confidence != 0 {
		t.Errorf("unseen tags confidence = %f, want 0", unseen.Confidence)
	}
}

func TestTrain_PartialCoverageBundle(t *testing.T) {
	// Ground truth only for valence and energy; the other configured
	// features must be skipped, not fabricated
	trainer := NewTrainer(testTrainingConfig())

	bundle, err := trainer.Train(scenarioCorpus())
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	if len(bundle.Models) != 2 {
		t.Fatalf("expected exactly 2 trained features, got %d", len(bundle.Models))
	}
	for _, feature := range []string{"valence", "energy"} {
		if _, ok := bundle.Models[feature]; !ok {
			t.Errorf("expected a model for %q", feature)
		}
		if _, ok := bundle.Metadata.PerFeature[feature]; !ok {
			t.Errorf("expected a validation report for %q", feature)
		}
	}

	skipped := make(map[string]bool)
	for _, s := range bundle.Metadata.Skipped {
		skipped[s.Feature] = true
	}
	for _, feature := range []string{"danceability", "speechiness", "acousticness", "instrumentalness", "liveness", "tempo"} {
		if !skipped[feature] {
			t.Errorf("expected %q in the skipped list", feature)
		}
	}

	handle, err := Load(bundle)
	if err != nil {
		t.Fatalf("partial-coverage bundle must load: %v", err)
	}

	result := handle.PredictString("rock, melancholic")
	if len(result.Features) != 2 {
		t.Errorf("expected 2 predicted features, got %d", len(result.Features))
	}
	if _, ok := result.Features["danceability"]; ok {
		t.Error("uncovered feature must be omitted, not fabricated")
	}
}

func TestTrain_InsufficientDataIsFatal(t *testing.T) {
	var rows []dataset.TrainingRow
	for i := 0; i < 30; i++ {
		rows = append(rows, row("r", "rock, melancholic", map[string]float64{
			"valence": 0.3 + jitter(i),
		}))
	}

	_, err := NewTrainer(testTrainingConfig()).Train(rows)

	var insufficient *InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
}

func TestTrain_DropsUnusableRows(t *testing.T) {
	rows := scenarioCorpus()

	// Tagless rows and rows with no measured target must not count
	rows = append(rows, dataset.TrainingRow{
		Track:   dataset.TaggedTrack{TrackID: "no-tags"},
		Targets: map[string]float64{"valence": 0.5},
	})
	rows = append(rows, row("no-targets", "rock", map[string]float64{
		"valence": math.NaN(),
	}))

	bundle, err := NewTrainer(testTrainingConfig()).Train(rows)
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	if bundle.Metadata.CorpusSize != 200 {
		t.Errorf("corpus size = %d, want 200", bundle.Metadata.CorpusSize)
	}
}

func TestTrain_MetadataRecordsRun(t *testing.T) {
	cfg := testTrainingConfig()
	bundle, err := NewTrainer(cfg).Train(scenarioCorpus())
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	meta := bundle.Metadata
	if meta.RandomSeed != cfg.RandomSeed {
		t.Errorf("seed = %d, want %d", meta.RandomSeed, cfg.RandomSeed)
	}
	if meta.ValidationFraction != cfg.ValidationFraction {
		t.Errorf("validation fraction = %f, want %f", meta.ValidationFraction, cfg.ValidationFraction)
	}
	if meta.TrainedAt.IsZero() {
		t.Error("trained-at timestamp is zero")
	}
	if bundle.ID == "" {
		t.Error("bundle has no ID")
	}

	for feature, report := range meta.PerFeature {
		if math.IsNaN(report.MAE) {
			t.Errorf("feature %q has NaN validation error", feature)
		}
		if report.MAE > 0.2 {
			t.Errorf("feature %q MAE = %f, unexpectedly high for a separable corpus", feature, report.MAE)
		}
	}
}

func TestTrain_RidgeModelType(t *testing.T) {
	cfg := testTrainingConfig()
	cfg.ModelType = regress.ModelRidge

	bundle, err := NewTrainer(cfg).Train(scenarioCorpus())
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	handle, err := Load(bundle)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	seen := handle.PredictString("pop, upbeat")
	if v := seen.Features["valence"]; math.Abs(v-0.8) > 0.1 {
		t.Errorf("valence = %f, want near the 0.8 corpus mean", v)
	}
}
