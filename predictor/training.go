package predictor

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/soniclens/moodcast/algorithms/regress"
	"github.com/soniclens/moodcast/algorithms/vectorize"
	"github.com/soniclens/moodcast/dataset"
	"github.com/soniclens/moodcast/logging"
	"github.com/soniclens/moodcast/predictor/config"
)

// Trainer runs the batch training pipeline: clean, fit vocabulary, vectorize,
// fit and validate one regressor per target feature, assemble a bundle.
// Training is offline and rerunnable from scratch; there are no retries.
type Trainer struct {
	config     *config.TrainingConfig
	vectorizer *vectorize.TFIDF
	logger     logging.Logger
}

// NewTrainer creates a trainer; a nil config selects defaults
func NewTrainer(cfg *config.TrainingConfig) *Trainer {
	if cfg == nil {
		cfg = config.DefaultTrainingConfig()
	}

	return &Trainer{
		config:     cfg,
		vectorizer: vectorize.NewTFIDF(cfg.Vectorizer),
		logger: logging.WithFields(logging.Fields{
			"component": "trainer",
		}),
	}
}

// Train fits a complete model bundle from raw training rows. Features with
// too few usable rows are skipped and recorded in the metadata rather than
// aborting the run; only a run where no feature is trainable fails, with
// InsufficientDataError.
func (t *Trainer) Train(rows []dataset.TrainingRow) (*ModelBundle, error) {
	clean := t.cleanRows(rows)

	t.logger.Info("Starting training run", logging.Fields{
		"raw_rows":   len(rows),
		"clean_rows": len(clean),
		"model_type": t.config.ModelType,
	})

	if len(clean) == 0 {
		return nil, &InsufficientDataError{Required: t.config.MinTrainRows}
	}

	corpus := make([]dataset.TaggedTrack, len(clean))
	for i, row := range clean {
		corpus[i] = row.Track
	}

	vocab, err := t.vectorizer.Fit(corpus)
	if err != nil {
		return nil, err
	}

	// Vectorize once; every per-feature model trains on views of the
	// same matrix
	vectors := make([][]float64, len(clean))
	for i, row := range clean {
		vectors[i] = t.vectorizer.Transform(row.Track.Tags, vocab)
	}

	models := make(map[string]*regress.SerializedModel)
	reports := make(map[string]FeatureReport)
	var skipped []SkippedFeature

	for _, feature := range t.config.Features {
		model, report, skip := t.trainFeature(feature, clean, vectors)
		if skip != nil {
			skipped = append(skipped, *skip)
			continue
		}
		models[feature] = model
		reports[feature] = report
	}

	if len(models) == 0 {
		return nil, &InsufficientDataError{Required: t.config.MinTrainRows}
	}

	bundle := &ModelBundle{
		ID:           uuid.New().String(),
		Vocabulary:   vocab,
		Vectorizer:   t.config.Vectorizer,
		FeatureNames: t.config.Features,
		Models:       models,
		Metadata: Metadata{
			CorpusSize:         len(clean),
			TrainedAt:          time.Now().UTC(),
			ModelType:          t.config.ModelType,
			RandomSeed:         t.config.RandomSeed,
			ValidationFraction: t.config.ValidationFraction,
			PerFeature:         reports,
			Skipped:            skipped,
		},
	}

	t.logger.Info("Training run complete", logging.Fields{
		"bundle_id": bundle.ID,
		"features":  len(models),
		"skipped":   len(skipped),
	})

	return bundle, nil
}

// cleanRows drops rows with empty tag sets or no measured target for any
// configured feature
func (t *Trainer) cleanRows(rows []dataset.TrainingRow) []dataset.TrainingRow {
	var clean []dataset.TrainingRow
	for _, row := range rows {
		if len(row.Track.Tags) == 0 {
			continue
		}
		usable := false
		for _, feature := range t.config.Features {
			if row.HasTarget(feature) {
				usable = true
				break
			}
		}
		if usable {
			clean = append(clean, row)
		}
	}
	return clean
}

// trainFeature fits and validates one feature's regressor. Rows without a
// measured value for this feature are dropped feature-wise, so a row can
// contribute to some models and not others.
func (t *Trainer) trainFeature(feature string, rows []dataset.TrainingRow, vectors [][]float64) (*regress.SerializedModel, FeatureReport, *SkippedFeature) {
	var X [][]float64
	var y []float64

	for i, row := range rows {
		if row.HasTarget(feature) {
			X = append(X, vectors[i])
			y = append(y, row.Targets[feature])
		}
	}

	if len(X) < t.config.MinTrainRows {
		t.logger.Warn("Skipping feature with insufficient data", logging.Fields{
			"feature":  feature,
			"rows":     len(X),
			"required": t.config.MinTrainRows,
		})
		return nil, FeatureReport{}, &SkippedFeature{
			Feature: feature,
			Rows:    len(X),
			Reason:  (&InsufficientDataError{Feature: feature, Rows: len(X), Required: t.config.MinTrainRows}).Error(),
		}
	}

	trainX, trainY, valX, valY := t.split(X, y)

	model, err := regress.New(t.config.ModelType, t.config.Ridge, t.config.Forest)
	if err != nil {
		return nil, FeatureReport{}, &SkippedFeature{Feature: feature, Rows: len(X), Reason: err.Error()}
	}

	if err := model.Fit(trainX, trainY); err != nil {
		t.logger.Error(err, "Feature model fit failed", logging.Fields{
			"feature": feature,
		})
		return nil, FeatureReport{}, &SkippedFeature{Feature: feature, Rows: len(X), Reason: err.Error()}
	}

	// Validate on the held-out split; with a degenerate split fall back
	// to the training rows so the report is never empty
	evalX, evalY := valX, valY
	if len(evalX) == 0 {
		evalX, evalY = trainX, trainY
	}

	predicted := make([]float64, len(evalX))
	for i, x := range evalX {
		predicted[i] = model.Predict(x)
	}

	report := FeatureReport{
		Rows: len(X),
		MAE:  regress.MAE(predicted, evalY),
		R2:   regress.RSquared(predicted, evalY),
	}

	t.logger.Info("Trained feature model", logging.Fields{
		"feature": feature,
		"rows":    report.Rows,
		"mae":     report.MAE,
		"r2":      report.R2,
	})

	return model.Serialize(), report, nil
}

// split shuffles row indices with the configured seed and carves off the
// validation fraction. The seed is recorded in bundle metadata, making the
// split reproducible and validation error comparable across retrains.
func (t *Trainer) split(X [][]float64, y []float64) (trainX [][]float64, trainY []float64, valX [][]float64, valY []float64) {
	rng := rand.New(rand.NewSource(t.config.RandomSeed))
	perm := rng.Perm(len(X))

	valCount := int(float64(len(X)) * t.config.ValidationFraction)
	if valCount >= len(X) {
		valCount = len(X) - 1
	}

	for i, idx := range perm {
		if i < valCount {
			valX = append(valX, X[idx])
			valY = append(valY, y[idx])
		} else {
			trainX = append(trainX, X[idx])
			trainY = append(trainY, y[idx])
		}
	}

	return trainX, trainY, valX, valY
}
