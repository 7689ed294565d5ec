package regress

import (
	"fmt"
)

// ModelType identifies a regressor implementation
type ModelType string

const (
	ModelRidge  ModelType = "ridge"
	ModelForest ModelType = "forest"
)

// Model is a single-target regressor: fitted on a matrix of input vectors
// and one ground-truth column, then evaluated point-wise. Implementations do
// NOT bound their output; range clamping is the caller's contract.
type Model interface {
	// Fit trains the model on X (rows are samples) and target vector y
	Fit(X [][]float64, y []float64) error

	// Predict evaluates the fitted model on a single input vector.
	// Calling Predict on a fitted model is pure and concurrency-safe
	Predict(x []float64) float64

	// Serialize captures the fitted state in a persistable form
	Serialize() *SerializedModel
}

// SerializedModel is the on-disk form of a fitted regressor, tagged by type
type SerializedModel struct {
	Type     ModelType     `json:"type"`
	InputDim int           `json:"input_dim"`
	Ridge    *RidgeWeights `json:"ridge,omitempty"`
	Forest   *ForestState  `json:"forest,omitempty"`
}

// Instantiate rebuilds a usable Model from its serialized state
func (s *SerializedModel) Instantiate() (Model, error) {
	switch s.Type {
	case ModelRidge:
		if s.Ridge == nil {
			return nil, fmt.Errorf("ridge model missing weights")
		}
		if len(s.Ridge.Coefficients) != s.InputDim {
			return nil, fmt.Errorf("ridge coefficient count %d does not match input dim %d",
				len(s.Ridge.Coefficients), s.InputDim)
		}
		return &Ridge{weights: s.Ridge, fitted: true}, nil

	case ModelForest:
		if s.Forest == nil || len(s.Forest.Trees) == 0 {
			return nil, fmt.Errorf("forest model missing trees")
		}
		if s.Forest.InputDim != s.InputDim {
			return nil, fmt.Errorf("forest input dim %d does not match declared dim %d",
				s.Forest.InputDim, s.InputDim)
		}
		return &Forest{state: s.Forest, fitted: true}, nil

	default:
		return nil, fmt.Errorf("unknown model type %q", s.Type)
	}
}

// New constructs an unfitted model of the requested type with the given
// configs; nil configs select defaults
func New(modelType ModelType, ridgeCfg *RidgeConfig, forestCfg *ForestConfig) (Model, error) {
	switch modelType {
	case ModelRidge:
		return NewRidge(ridgeCfg), nil
	case ModelForest:
		return NewForest(forestCfg), nil
	default:
		return nil, fmt.Errorf("unknown model type %q", modelType)
	}
}

func validateTrainingData(X [][]float64, y []float64) (int, error) {
	if len(X) == 0 {
		return 0, fmt.Errorf("empty training matrix")
	}
	if len(X) != len(y) {
		return 0, fmt.Errorf("training matrix has %d rows but target has %d values", len(X), len(y))
	}
	dim := len(X[0])
	if dim == 0 {
		return 0, fmt.Errorf("training matrix has zero-width rows")
	}
	for i, row := range X {
		if len(row) != dim {
			return 0, fmt.Errorf("row %d has width %d, expected %d", i, len(row), dim)
		}
	}
	return dim, nil
}
