package predictor

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/soniclens/moodcast/algorithms/common"
	"github.com/soniclens/moodcast/algorithms/regress"
	"github.com/soniclens/moodcast/algorithms/vectorize"
	"github.com/soniclens/moodcast/dataset"
	"github.com/soniclens/moodcast/logging"
	"github.com/soniclens/moodcast/predictor/config"
)

// Prediction is the inference output for one tag set: a clamped value per
// covered feature and a confidence hint derived from how many input tags the
// vocabulary recognized. Confidence 0 means the input carried no signal and
// the numeric values must not be presented as a measurement.
type Prediction struct {
	TrackID    string             `json:"track_id,omitempty"`
	Features   map[string]float64 `json:"features"`
	Confidence float64            `json:"confidence"`
}

// Handle is a loaded, immutable bundle ready for inference. All state is
// read-only after Load, so a single handle serves concurrent predictions
// without locking, and multiple handles (e.g. A/B model versions) can
// coexist in one process.
type Handle struct {
	vocabulary *vectorize.Vocabulary
	vectorizer *vectorize.TFIDF
	models     map[string]regress.Model
	features   []string
	metadata   Metadata
	logger     logging.Logger
}

// Load validates a bundle and instantiates its models into a usable handle
func Load(bundle *ModelBundle) (*Handle, error) {
	if bundle == nil {
		return nil, fmt.Errorf("bundle cannot be nil")
	}
	if err := bundle.validate(); err != nil {
		return nil, err
	}

	models := make(map[string]regress.Model, len(bundle.Models))
	for feature, serialized := range bundle.Models {
		model, err := serialized.Instantiate()
		if err != nil {
			return nil, &CorruptBundleError{
				Reason: fmt.Sprintf("cannot instantiate model for %q", feature),
				Err:    err,
			}
		}
		models[feature] = model
	}

	// Preserve the bundle's declared feature order, restricted to covered
	// features
	var features []string
	for _, name := range bundle.FeatureNames {
		if _, ok := models[name]; ok {
			features = append(features, name)
		}
	}

	return &Handle{
		vocabulary: bundle.Vocabulary,
		vectorizer: vectorize.NewTFIDF(bundle.Vectorizer),
		models:     models,
		features:   features,
		metadata:   bundle.Metadata,
		logger: logging.WithFields(logging.Fields{
			"component": "predictor",
			"bundle_id": bundle.ID,
		}),
	}, nil
}

// LoadPath reads a bundle from disk and loads it
func LoadPath(path string) (*Handle, error) {
	bundle, err := LoadBundle(path)
	if err != nil {
		return nil, err
	}
	return Load(bundle)
}

// Features returns the covered feature names in bundle order
func (h *Handle) Features() []string {
	out := make([]string, len(h.features))
	copy(out, h.features)
	return out
}

// Metadata returns the training metadata of the loaded bundle
func (h *Handle) Metadata() Metadata {
	return h.metadata
}

// Predict derives a feature vector for one tag set. Output values are
// clamped to each feature's valid range regardless of raw model output; a
// bundle with partial coverage yields a partial vector, never fabricated
// values for uncovered features.
func (h *Handle) Predict(tags []dataset.WeightedTag) *Prediction {
	return h.predict("", tags)
}

// PredictTrack is Predict carrying the track identifier through to the result
func (h *Handle) PredictTrack(track dataset.TaggedTrack) *Prediction {
	return h.predict(track.TrackID, track.Tags)
}

// PredictString parses a comma-delimited tag string and predicts on it
func (h *Handle) PredictString(tags string) *Prediction {
	return h.predict("", dataset.ParseTagString(tags))
}

func (h *Handle) predict(trackID string, tags []dataset.WeightedTag) *Prediction {
	vector := h.vectorizer.Transform(tags, h.vocabulary)
	recognized := h.vectorizer.RecognizedCount(tags, h.vocabulary)

	confidence := 0.0
	if len(tags) > 0 && recognized > 0 {
		confidence = float64(recognized) / float64(len(tags))
	}

	features := make(map[string]float64, len(h.models))
	for _, feature := range h.features {
		raw := h.models[feature].Predict(vector)
		bounds := config.RangeOf(feature)
		features[feature] = common.Clamp(raw, bounds.Min, bounds.Max)
	}

	if confidence == 0 {
		h.logger.Debug("Prediction on unrecognized tag set", logging.Fields{
			"track_id": trackID,
			"tags":     len(tags),
		})
	}

	return &Prediction{
		TrackID:    trackID,
		Features:   features,
		Confidence: confidence,
	}
}

// PredictBatch predicts a sequence of tracks in parallel. Items are
// independent and CPU-bound, so the work is fanned out over a bounded worker
// group; the output order mirrors the input order. The context cancels
// remaining work early but individual predictions never fail.
func (h *Handle) PredictBatch(ctx context.Context, tracks []dataset.TaggedTrack) ([]*Prediction, error) {
	results := make([]*Prediction, len(tracks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, track := range tracks {
		i, track := i, track
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			results[i] = h.PredictTrack(track)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
