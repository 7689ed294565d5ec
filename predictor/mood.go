package predictor

import (
	"github.com/soniclens/moodcast/predictor/config"
)

// Mood is a coarse categorical label derived from the (valence, energy)
// plane, split into quadrants at the 0.5 midpoints
type Mood string

const (
	MoodHappyEnergetic  Mood = "happy_energetic"
	MoodAngryIntense    Mood = "angry_intense"
	MoodSadMelancholic  Mood = "sad_melancholic"
	MoodPeacefulContent Mood = "peaceful_content"
)

// Description returns a human-readable account of the mood quadrant
func (m Mood) Description() string {
	switch m {
	case MoodHappyEnergetic:
		return "Upbeat, party vibes, feel-good music"
	case MoodAngryIntense:
		return "Aggressive, powerful, intense energy"
	case MoodSadMelancholic:
		return "Reflective, emotional, introspective"
	case MoodPeacefulContent:
		return "Relaxed, chill, acoustic vibes"
	default:
		return "Unknown mood"
	}
}

// MoodOf classifies a feature vector into its mood quadrant. It is a pure
// threshold function over valence and energy: values >= 0.5 count as high,
// so the exact midpoint (0.5, 0.5) resolves to MoodHappyEnergetic. Both
// features must be present or a MissingFeatureError is returned.
func MoodOf(features map[string]float64) (Mood, error) {
	valence, ok := features[config.FeatureValence]
	if !ok {
		return "", &MissingFeatureError{Feature: config.FeatureValence}
	}
	energy, ok := features[config.FeatureEnergy]
	if !ok {
		return "", &MissingFeatureError{Feature: config.FeatureEnergy}
	}

	switch {
	case valence >= 0.5 && energy >= 0.5:
		return MoodHappyEnergetic, nil
	case valence < 0.5 && energy >= 0.5:
		return MoodAngryIntense, nil
	case valence < 0.5 && energy < 0.5:
		return MoodSadMelancholic, nil
	default:
		return MoodPeacefulContent, nil
	}
}
