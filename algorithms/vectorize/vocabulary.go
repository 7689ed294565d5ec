package vectorize

import (
	"fmt"
	"sort"

	"github.com/soniclens/moodcast/dataset"
)

// Vocabulary is the fitted mapping from tag term to feature-matrix column.
// It is built once from a training corpus and immutable afterwards; Transform
// treats it as read-only shared state, so concurrent use is safe.
type Vocabulary struct {
	Terms       map[string]int `json:"terms"`    // term -> column index
	DocFreq     map[string]int `json:"doc_freq"` // term -> number of tracks containing it
	CorpusSize  int            `json:"corpus_size"`
	MinDocFreq  int            `json:"min_doc_freq"`
	MaxFeatures int            `json:"max_features"`
}

// Size returns the number of fitted terms, which is the transform output width.
func (v *Vocabulary) Size() int {
	return len(v.Terms)
}

// Validate checks internal consistency, used by bundle integrity checks.
func (v *Vocabulary) Validate() error {
	if len(v.Terms) == 0 {
		return fmt.Errorf("vocabulary is empty")
	}
	if len(v.Terms) != len(v.DocFreq) {
		return fmt.Errorf("vocabulary term/frequency mismatch: %d terms, %d frequencies",
			len(v.Terms), len(v.DocFreq))
	}
	seen := make(map[int]bool, len(v.Terms))
	for term, idx := range v.Terms {
		if idx < 0 || idx >= len(v.Terms) {
			return fmt.Errorf("term %q has out-of-range column %d", term, idx)
		}
		if seen[idx] {
			return fmt.Errorf("duplicate column index %d", idx)
		}
		seen[idx] = true
		if _, ok := v.DocFreq[term]; !ok {
			return fmt.Errorf("term %q missing document frequency", term)
		}
	}
	return nil
}

// fitVocabulary builds a vocabulary from the corpus: document frequency is
// counted over unique terms per track, terms below the minimum document
// frequency are excluded, and if the survivors exceed the feature cap the
// most frequent terms win. Ties break lexicographically so fitting is
// deterministic regardless of corpus order.
func fitVocabulary(corpus []dataset.TaggedTrack, minDocFreq, maxFeatures int) *Vocabulary {
	docFreq := make(map[string]int)

	for _, track := range corpus {
		unique := make(map[string]bool, len(track.Tags))
		for _, tag := range track.Tags {
			if tag.Term != "" {
				unique[tag.Term] = true
			}
		}
		for term := range unique {
			docFreq[term]++
		}
	}

	type termFreq struct {
		term string
		df   int
	}

	var kept []termFreq
	for term, df := range docFreq {
		if df >= minDocFreq {
			kept = append(kept, termFreq{term: term, df: df})
		}
	}

	sort.Slice(kept, func(i, j int) bool {
		if kept[i].df != kept[j].df {
			return kept[i].df > kept[j].df
		}
		return kept[i].term < kept[j].term
	})

	if maxFeatures > 0 && len(kept) > maxFeatures {
		kept = kept[:maxFeatures]
	}

	// Column order is alphabetical over the surviving terms
	sort.Slice(kept, func(i, j int) bool {
		return kept[i].term < kept[j].term
	})

	vocab := &Vocabulary{
		Terms:       make(map[string]int, len(kept)),
		DocFreq:     make(map[string]int, len(kept)),
		CorpusSize:  len(corpus),
		MinDocFreq:  minDocFreq,
		MaxFeatures: maxFeatures,
	}

	for i, tf := range kept {
		vocab.Terms[tf.term] = i
		vocab.DocFreq[tf.term] = tf.df
	}

	return vocab
}
