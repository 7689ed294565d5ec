package predictor

import (
	"fmt"
)

// InsufficientDataError signals that training was attempted with too few
// usable rows. With a Feature set it is the per-feature, non-fatal variant
// (the feature is skipped); with an empty Feature it is the fatal whole-run
// variant raised when no feature was trainable.
type InsufficientDataError struct {
	Feature  string
	Rows     int
	Required int
}

func (e *InsufficientDataError) Error() string {
	if e.Feature == "" {
		return fmt.Sprintf("no feature had at least %d usable training rows", e.Required)
	}
	return fmt.Sprintf("feature %q has %d usable rows, need at least %d", e.Feature, e.Rows, e.Required)
}

// MissingFeatureError signals a request that needs a feature absent from a
// partially-covered bundle or prediction, e.g. mood classification without
// valence or energy.
type MissingFeatureError struct {
	Feature string
}

func (e *MissingFeatureError) Error() string {
	return fmt.Sprintf("required feature %q is not present", e.Feature)
}

// CorruptBundleError signals that a persisted bundle failed integrity checks
// on load. Fatal; there is no auto-repair.
type CorruptBundleError struct {
	Reason string
	Err    error
}

func (e *CorruptBundleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("corrupt bundle: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("corrupt bundle: %s", e.Reason)
}

func (e *CorruptBundleError) Unwrap() error {
	return e.Err
}
