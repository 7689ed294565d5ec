package predictor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/soniclens/moodcast/algorithms/regress"
	"github.com/soniclens/moodcast/algorithms/vectorize"
	"github.com/soniclens/moodcast/logging"
)

// FeatureReport is the held-out validation result for one trained feature
type FeatureReport struct {
	Rows int     `json:"rows"`
	MAE  float64 `json:"mae"`
	R2   float64 `json:"r2"`
}

// SkippedFeature records a feature the pipeline could not train and why
type SkippedFeature struct {
	Feature string `json:"feature"`
	Rows    int    `json:"rows"`
	Reason  string `json:"reason"`
}

// Metadata describes a training run. It is persisted both inside the bundle
// and as a standalone human-readable sidecar so the run can be inspected
// without deserializing the models.
type Metadata struct {
	CorpusSize         int                      `json:"corpus_size"`
	TrainedAt          time.Time                `json:"trained_at"`
	ModelType          regress.ModelType        `json:"model_type"`
	RandomSeed         int64                    `json:"random_seed"`
	ValidationFraction float64                  `json:"validation_fraction"`
	PerFeature         map[string]FeatureReport `json:"per_feature"`
	Skipped            []SkippedFeature         `json:"skipped,omitempty"`
}

// ModelBundle is the persisted unit of a training run: the fitted vocabulary,
// one serialized regressor per covered feature, and the run metadata. A
// bundle is created once by the training pipeline and read-only afterwards;
// retraining produces a new bundle, never a delta.
type ModelBundle struct {
	ID           string                              `json:"id"`
	Vocabulary   *vectorize.Vocabulary               `json:"vocabulary"`
	Vectorizer   *vectorize.TFIDFConfig              `json:"vectorizer"`
	FeatureNames []string                            `json:"feature_names"`
	Models       map[string]*regress.SerializedModel `json:"models"`
	Metadata     Metadata                            `json:"metadata"`
}

// MetadataPath returns the sidecar path for a bundle path
func MetadataPath(bundlePath string) string {
	return bundlePath + ".meta.json"
}

// Save persists the bundle and its metadata sidecar. Both files are written
// to a temp file in the target directory and renamed into place, so a crash
// mid-write never leaves a corrupt artifact visible to readers.
func (b *ModelBundle) Save(path string) error {
	logger := logging.WithFields(logging.Fields{
		"component": "bundle",
		"bundle_id": b.ID,
		"path":      path,
	})

	bundleData, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode bundle: %w", err)
	}
	if err := atomicWrite(path, bundleData); err != nil {
		return fmt.Errorf("failed to write bundle: %w", err)
	}

	metaData, err := json.MarshalIndent(struct {
		ID           string   `json:"id"`
		FeatureNames []string `json:"feature_names"`
		Metadata     Metadata `json:"metadata"`
	}{b.ID, b.FeatureNames, b.Metadata}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	if err := atomicWrite(MetadataPath(path), metaData); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	logger.Info("Saved model bundle", logging.Fields{
		"features": len(b.Models),
		"terms":    b.Vocabulary.Size(),
	})

	return nil
}

// LoadBundle reads and integrity-checks a persisted bundle. Integrity
// violations surface as CorruptBundleError; plain I/O failures propagate
// unchanged.
func LoadBundle(path string) (*ModelBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle: %w", err)
	}

	var bundle ModelBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, &CorruptBundleError{Reason: "invalid encoding", Err: err}
	}

	if err := bundle.validate(); err != nil {
		return nil, err
	}

	return &bundle, nil
}

// validate enforces the structural invariants a usable bundle must satisfy
func (b *ModelBundle) validate() error {
	if b.Vocabulary == nil {
		return &CorruptBundleError{Reason: "missing vocabulary"}
	}
	if err := b.Vocabulary.Validate(); err != nil {
		return &CorruptBundleError{Reason: "invalid vocabulary", Err: err}
	}
	if len(b.Models) == 0 {
		return &CorruptBundleError{Reason: "bundle contains no models"}
	}

	known := make(map[string]bool, len(b.FeatureNames))
	for _, name := range b.FeatureNames {
		known[name] = true
	}

	for feature, model := range b.Models {
		if !known[feature] {
			return &CorruptBundleError{
				Reason: fmt.Sprintf("model for %q is not in the declared feature set", feature),
			}
		}
		if model == nil {
			return &CorruptBundleError{Reason: fmt.Sprintf("model for %q is empty", feature)}
		}
		if model.InputDim != b.Vocabulary.Size() {
			return &CorruptBundleError{
				Reason: fmt.Sprintf("model for %q expects %d inputs but the vocabulary has %d terms",
					feature, model.InputDim, b.Vocabulary.Size()),
			}
		}
	}

	return nil
}

// atomicWrite writes data to a temp file in the target directory and renames
// it into place
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}

	return nil
}
