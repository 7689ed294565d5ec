package dataset

import (
	"strconv"
	"strings"
)

// WeightedTag is a normalized free-text tag with a non-negative relevance
// weight. Sources that deliver unweighted tags get weight 1.0.
type WeightedTag struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

// TaggedTrack is the training and prediction input unit: a track identifier
// plus its ordered tag list.
type TaggedTrack struct {
	TrackID string        `json:"track_id"`
	Tags    []WeightedTag `json:"tags"`
}

// NormalizeTerm canonicalizes a raw tag string: trimmed, lowercased, with
// spaces and hyphens collapsed to underscores so "Hip Hop", "hip-hop" and
// "hip_hop" land on the same vocabulary term.
func NormalizeTerm(raw string) string {
	term := strings.ToLower(strings.TrimSpace(raw))
	term = strings.ReplaceAll(term, " ", "_")
	term = strings.ReplaceAll(term, "-", "_")
	return term
}

// ParseTagString splits a comma-delimited tag string ("rock, melancholic")
// into normalized weight-1.0 tags. Empty segments are skipped.
func ParseTagString(s string) []WeightedTag {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var tags []WeightedTag
	for _, part := range strings.Split(s, ",") {
		term := NormalizeTerm(part)
		if term == "" {
			continue
		}
		tags = append(tags, WeightedTag{Term: term, Weight: 1.0})
	}
	return tags
}

// ParseWeightedTag coerces the loosely-typed weights that tag sources emit
// (numbers, numeric strings, or nothing at all) into a single typed
// representation. Unparsable or missing weights default to 1.0; negative
// weights clamp to 0. Returns false if the term normalizes to empty.
func ParseWeightedTag(rawTerm string, rawWeight any) (WeightedTag, bool) {
	term := NormalizeTerm(rawTerm)
	if term == "" {
		return WeightedTag{}, false
	}

	weight := 1.0
	switch w := rawWeight.(type) {
	case nil:
		// keep default
	case float64:
		weight = w
	case float32:
		weight = float64(w)
	case int:
		weight = float64(w)
	case int64:
		weight = float64(w)
	case string:
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(w), 64); err == nil {
			weight = parsed
		}
	}

	if weight < 0 {
		weight = 0
	}

	return WeightedTag{Term: term, Weight: weight}, true
}
