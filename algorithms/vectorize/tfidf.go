package vectorize

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/soniclens/moodcast/dataset"
	"github.com/soniclens/moodcast/logging"
)

// TFIDFConfig configures vocabulary fitting and transform behavior
type TFIDFConfig struct {
	// Terms appearing in fewer tracks than this are excluded from the
	// vocabulary; suppresses singleton noise from the tag long tail
	MinDocFreq int `json:"min_doc_freq"`

	// Hard cap on vocabulary size; the most frequent terms are kept.
	// Zero means unlimited
	MaxFeatures int `json:"max_features"`

	// Apply 1+log(tf) damping to tag weights before IDF scaling
	Sublinear bool `json:"sublinear"`
}

// DefaultTFIDFConfig returns the fitting defaults: a low document-frequency
// floor to tolerate the tag long tail, and a 300-term cap
func DefaultTFIDFConfig() *TFIDFConfig {
	return &TFIDFConfig{
		MinDocFreq:  2,
		MaxFeatures: 300,
		Sublinear:   false,
	}
}

// TFIDF turns weighted bags of free-text tags into fixed-width numeric
// vectors: term frequency (the tag's relevance weight) scaled by smoothed
// inverse document frequency, L2-normalized.
//
// References:
//   - Salton, G., Buckley, C. (1988). "Term-weighting approaches in automatic
//     text retrieval"
//   - Manning, C., Raghavan, P., Schütze, H. (2008). "Introduction to
//     Information Retrieval"
type TFIDF struct {
	config *TFIDFConfig
	logger logging.Logger
}

// NewTFIDF creates a TF-IDF vectorizer; a nil config selects defaults
func NewTFIDF(config *TFIDFConfig) *TFIDF {
	if config == nil {
		config = DefaultTFIDFConfig()
	}

	return &TFIDF{
		config: config,
		logger: logging.WithFields(logging.Fields{
			"component": "tfidf_vectorizer",
		}),
	}
}

// Fit builds an immutable vocabulary from the training corpus
func (t *TFIDF) Fit(corpus []dataset.TaggedTrack) (*Vocabulary, error) {
	if len(corpus) == 0 {
		return nil, fmt.Errorf("cannot fit vocabulary on an empty corpus")
	}

	vocab := fitVocabulary(corpus, t.config.MinDocFreq, t.config.MaxFeatures)
	if vocab.Size() == 0 {
		return nil, fmt.Errorf("no terms met the minimum document frequency %d", t.config.MinDocFreq)
	}

	t.logger.Debug("Fitted vocabulary", logging.Fields{
		"terms":       vocab.Size(),
		"corpus_size": vocab.CorpusSize,
	})

	return vocab, nil
}

// Transform maps a weighted tag list onto the fitted vocabulary. Unknown
// terms are silently ignored: tag vocabularies drift over time and rejecting
// unseen text would make the predictor brittle. A tag set with zero
// recognized terms yields the zero vector, which callers must treat as
// "no signal" rather than a valid input.
//
// For a fixed vocabulary this is a pure function and safe to call
// concurrently.
func (t *TFIDF) Transform(tags []dataset.WeightedTag, vocab *Vocabulary) []float64 {
	vector := make([]float64, vocab.Size())
	if len(tags) == 0 {
		return vector
	}

	for _, tag := range tags {
		idx, ok := vocab.Terms[tag.Term]
		if !ok {
			continue
		}

		tf := tag.Weight
		if t.config.Sublinear && tf > 0 {
			tf = 1.0 + math.Log(tf)
		}

		// Smoothed IDF; the +1 terms keep zero-division and negative
		// weights out even for terms present in every track
		df := vocab.DocFreq[tag.Term]
		idf := math.Log(float64(1+vocab.CorpusSize)/float64(1+df)) + 1.0

		vector[idx] += tf * idf
	}

	norm := floats.Norm(vector, 2)
	if norm > 0 {
		floats.Scale(1.0/norm, vector)
	}

	return vector
}

// RecognizedCount returns how many of the given tags exist in the fitted
// vocabulary; the prediction engine derives its confidence hint from it
func (t *TFIDF) RecognizedCount(tags []dataset.WeightedTag, vocab *Vocabulary) int {
	count := 0
	for _, tag := range tags {
		if _, ok := vocab.Terms[tag.Term]; ok {
			count++
		}
	}
	return count
}
