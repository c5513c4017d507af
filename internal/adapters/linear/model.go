package linear

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/mikey/phishing-detector/internal/core"
)

// ErrInvalidModel is returned when an exported model cannot be used
var ErrInvalidModel = errors.New("invalid model export")

// Supported model kinds
const (
	KindLogisticRegression = "logistic_regression"
	KindMultinomialNB      = "multinomial_nb"
)

// vector accepts a number, a flat array or a single-row matrix,
// which covers how coef_ and intercept_ come out of a binary estimator
type vector []float64

// UnmarshalJSON implements json.Unmarshaler
func (v *vector) UnmarshalJSON(data []byte) error {
	var scalar float64
	if err := json.Unmarshal(data, &scalar); err == nil {
		*v = vector{scalar}
		return nil
	}
	var flat []float64
	if err := json.Unmarshal(data, &flat); err == nil {
		*v = flat
		return nil
	}
	var matrix [][]float64
	if err := json.Unmarshal(data, &matrix); err != nil {
		return fmt.Errorf("expected number, array or single-row matrix: %w", err)
	}
	if len(matrix) != 1 {
		return fmt.Errorf("expected a single-row matrix, got %d rows", len(matrix))
	}
	*v = matrix[0]
	return nil
}

// ModelSpec is the exported state of a fitted binary classifier
type ModelSpec struct {
	Type           string      `json:"type"`
	Classes        []int       `json:"classes"`
	Coef           vector      `json:"coef"`
	Intercept      vector      `json:"intercept"`
	FeatureLogProb [][]float64 `json:"feature_log_prob"`
	ClassLogPrior  []float64   `json:"class_log_prior"`
}

// Model is a read-only linear (logistic regression) or multinomial naive Bayes classifier
type Model struct {
	kind           string
	classes        []int
	coef           []float64
	intercept      float64
	featureLogProb [][]float64
	classLogPrior  []float64
}

// NewModel validates an exported model against the feature dimension
func NewModel(spec *ModelSpec, dim int) (*Model, error) {
	if len(spec.Classes) != 2 || spec.Classes[0] != 0 || spec.Classes[1] != 1 {
		return nil, fmt.Errorf("%w: classes must be [0, 1], got %v", ErrInvalidModel, spec.Classes)
	}

	m := &Model{kind: spec.Type, classes: spec.Classes}

	switch spec.Type {
	case KindLogisticRegression:
		if len(spec.Coef) != dim {
			return nil, fmt.Errorf("%w: %d coefficients for %d features", ErrInvalidModel, len(spec.Coef), dim)
		}
		switch len(spec.Intercept) {
		case 0:
		case 1:
			m.intercept = spec.Intercept[0]
		default:
			return nil, fmt.Errorf("%w: %d intercepts for a binary model", ErrInvalidModel, len(spec.Intercept))
		}
		m.coef = spec.Coef
	case KindMultinomialNB:
		if len(spec.FeatureLogProb) != 2 || len(spec.ClassLogPrior) != 2 {
			return nil, fmt.Errorf("%w: naive Bayes needs two classes of log probabilities", ErrInvalidModel)
		}
		for c, row := range spec.FeatureLogProb {
			if len(row) != dim {
				return nil, fmt.Errorf("%w: class %d has %d log probabilities for %d features", ErrInvalidModel, c, len(row), dim)
			}
		}
		m.featureLogProb = spec.FeatureLogProb
		m.classLogPrior = spec.ClassLogPrior
	default:
		return nil, fmt.Errorf("%w: unsupported model type %q", ErrInvalidModel, spec.Type)
	}

	return m, nil
}

// Name returns the model kind
func (m *Model) Name() string {
	return m.kind
}

// Predict returns the predicted class and class probabilities
func (m *Model) Predict(ctx context.Context, features *core.FeatureVector) (*core.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if features == nil {
		return nil, errors.New("nil feature vector")
	}
	if len(features.Indices) != len(features.Values) {
		return nil, fmt.Errorf("malformed feature vector: %d indices, %d values", len(features.Indices), len(features.Values))
	}
	for _, idx := range features.Indices {
		if idx < 0 || idx >= m.dim() {
			return nil, fmt.Errorf("feature index %d outside model dimension %d", idx, m.dim())
		}
	}

	if m.kind == KindMultinomialNB {
		return m.predictNB(features), nil
	}
	return m.predictLR(features), nil
}

func (m *Model) dim() int {
	if m.kind == KindMultinomialNB {
		return len(m.featureLogProb[0])
	}
	return len(m.coef)
}

func (m *Model) predictLR(features *core.FeatureVector) *core.Prediction {
	decision := m.intercept
	for i, idx := range features.Indices {
		decision += m.coef[idx] * features.Values[i]
	}

	p1 := 1 / (1 + math.Exp(-decision))
	class := m.classes[0]
	if decision > 0 {
		class = m.classes[1]
	}

	return &core.Prediction{
		Class:         class,
		Probabilities: []float64{1 - p1, p1},
	}
}

func (m *Model) predictNB(features *core.FeatureVector) *core.Prediction {
	jll := make([]float64, 2)
	for c := range jll {
		jll[c] = m.classLogPrior[c]
		for i, idx := range features.Indices {
			jll[c] += features.Values[i] * m.featureLogProb[c][idx]
		}
	}

	best := 0
	if jll[1] > jll[0] {
		best = 1
	}

	// log-sum-exp for stable normalisation
	maxJLL := math.Max(jll[0], jll[1])
	logNorm := maxJLL + math.Log(math.Exp(jll[0]-maxJLL)+math.Exp(jll[1]-maxJLL))

	return &core.Prediction{
		Class:         m.classes[best],
		Probabilities: []float64{math.Exp(jll[0] - logNorm), math.Exp(jll[1] - logNorm)},
	}
}
