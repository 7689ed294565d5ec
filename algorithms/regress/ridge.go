package regress

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// RidgeConfig contains L2-regularized linear regression parameters
type RidgeConfig struct {
	// L2 penalty applied to the coefficients (not the intercept)
	Alpha float64 `json:"alpha"`
}

// DefaultRidgeConfig returns the standard regularization strength
func DefaultRidgeConfig() *RidgeConfig {
	return &RidgeConfig{
		Alpha: 1.0,
	}
}

// RidgeWeights is the fitted state of a ridge model
type RidgeWeights struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	Alpha        float64   `json:"alpha"`
}

// Ridge implements closed-form L2-regularized linear regression by solving
// the normal equations (XᵀX + αI)w = Xᵀy
//
// References:
//   - Hoerl, A.E., Kennard, R.W. (1970). "Ridge Regression: Biased Estimation
//     for Nonorthogonal Problems"
type Ridge struct {
	config  *RidgeConfig
	weights *RidgeWeights
	fitted  bool
}

// NewRidge creates an unfitted ridge regressor; a nil config selects defaults
func NewRidge(config *RidgeConfig) *Ridge {
	if config == nil {
		config = DefaultRidgeConfig()
	}
	return &Ridge{config: config}
}

// Fit solves the regularized normal equations. The design matrix is
// augmented with a ones column for the intercept; the intercept row of the
// penalty matrix stays zero.
func (r *Ridge) Fit(X [][]float64, y []float64) error {
	dim, err := validateTrainingData(X, y)
	if err != nil {
		return err
	}

	n := len(X)
	cols := dim + 1 // trailing intercept column

	data := make([]float64, n*cols)
	for i, row := range X {
		copy(data[i*cols:], row)
		data[i*cols+dim] = 1.0
	}
	A := mat.NewDense(n, cols, data)

	var ata mat.Dense
	ata.Mul(A.T(), A)

	alpha := r.config.Alpha
	if alpha < 0 {
		alpha = 0
	}
	for j := 0; j < dim; j++ {
		ata.Set(j, j, ata.At(j, j)+alpha)
	}

	aty := mat.NewVecDense(cols, nil)
	aty.MulVec(A.T(), mat.NewVecDense(n, y))

	solution := mat.NewVecDense(cols, nil)

	// Cholesky is the cheap path; the ridge diagonal normally keeps the
	// system positive definite. Fall back to a general solve otherwise.
	sym := mat.NewSymDense(cols, nil)
	for i := 0; i < cols; i++ {
		for j := i; j < cols; j++ {
			sym.SetSym(i, j, ata.At(i, j))
		}
	}

	var chol mat.Cholesky
	if chol.Factorize(sym) {
		if err := chol.SolveVecTo(solution, aty); err != nil {
			return fmt.Errorf("cholesky solve failed: %w", err)
		}
	} else {
		if err := solution.SolveVec(&ata, aty); err != nil {
			return fmt.Errorf("normal equations are singular: %w", err)
		}
	}

	coefficients := make([]float64, dim)
	for j := 0; j < dim; j++ {
		coefficients[j] = solution.AtVec(j)
	}

	r.weights = &RidgeWeights{
		Coefficients: coefficients,
		Intercept:    solution.AtVec(dim),
		Alpha:        alpha,
	}
	r.fitted = true

	return nil
}

// Predict evaluates the fitted linear model. Inputs shorter than the fitted
// width contribute only their present components.
func (r *Ridge) Predict(x []float64) float64 {
	if !r.fitted {
		return 0.0
	}

	sum := r.weights.Intercept
	for i, coeff := range r.weights.Coefficients {
		if i >= len(x) {
			break
		}
		sum += coeff * x[i]
	}
	return sum
}

// Serialize captures the fitted weights
func (r *Ridge) Serialize() *SerializedModel {
	if !r.fitted {
		return nil
	}
	return &SerializedModel{
		Type:     ModelRidge,
		InputDim: len(r.weights.Coefficients),
		Ridge:    r.weights,
	}
}
