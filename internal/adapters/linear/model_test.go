package linear

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/mikey/phishing-detector/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModel_LogisticRegression(t *testing.T) {
	m, err := NewModel(&ModelSpec{
		Type:    KindLogisticRegression,
		Classes: []int{0, 1},
		Coef:    vector{1, 1, -1},
	}, 3)
	require.NoError(t, err)
	assert.Equal(t, "logistic_regression", m.Name())

	pred, err := m.Predict(context.Background(), &core.FeatureVector{
		Dim:     3,
		Indices: []int{0, 1, 2},
		Values:  []float64{2.0 / 3, 2.0 / 3, 1.0 / 3},
	})
	require.NoError(t, err)

	p1 := 1 / (1 + math.Exp(-1))
	assert.Equal(t, 1, pred.Class)
	assert.InDeltaSlice(t, []float64{1 - p1, p1}, pred.Probabilities, 1e-12)
}

func TestModel_LogisticRegressionZeroDecisionIsClassZero(t *testing.T) {
	m, err := NewModel(&ModelSpec{
		Type:    KindLogisticRegression,
		Classes: []int{0, 1},
		Coef:    vector{1},
	}, 1)
	require.NoError(t, err)

	pred, err := m.Predict(context.Background(), &core.FeatureVector{Dim: 1})
	require.NoError(t, err)

	assert.Equal(t, 0, pred.Class)
	assert.Equal(t, []float64{0.5, 0.5}, pred.Probabilities)
}

func TestModel_MultinomialNB(t *testing.T) {
	m, err := NewModel(&ModelSpec{
		Type:    KindMultinomialNB,
		Classes: []int{0, 1},
		FeatureLogProb: [][]float64{
			{math.Log(0.25), math.Log(0.75)},
			{math.Log(0.75), math.Log(0.25)},
		},
		ClassLogPrior: []float64{math.Log(0.5), math.Log(0.5)},
	}, 2)
	require.NoError(t, err)

	pred, err := m.Predict(context.Background(), &core.FeatureVector{Dim: 2, Indices: []int{0}, Values: []float64{1}})
	require.NoError(t, err)

	assert.Equal(t, 1, pred.Class)
	assert.InDeltaSlice(t, []float64{0.25, 0.75}, pred.Probabilities, 1e-12)
	assert.InDelta(t, 1.0, pred.Probabilities[0]+pred.Probabilities[1], 1e-12)
}

func TestModel_PredictRejectsBadFeatures(t *testing.T) {
	m, err := NewModel(&ModelSpec{Type: KindLogisticRegression, Classes: []int{0, 1}, Coef: vector{1, 2}}, 2)
	require.NoError(t, err)

	_, err = m.Predict(context.Background(), nil)
	assert.Error(t, err)

	_, err = m.Predict(context.Background(), &core.FeatureVector{Indices: []int{5}, Values: []float64{1}})
	assert.Error(t, err)

	_, err = m.Predict(context.Background(), &core.FeatureVector{Indices: []int{0}})
	assert.Error(t, err)
}

func TestNewModel_Invalid(t *testing.T) {
	tests := []struct {
		name string
		spec ModelSpec
	}{
		{"classes", ModelSpec{Type: KindLogisticRegression, Classes: []int{1, 0}, Coef: vector{1}}},
		{"type", ModelSpec{Type: "svm", Classes: []int{0, 1}}},
		{"coef length", ModelSpec{Type: KindLogisticRegression, Classes: []int{0, 1}, Coef: vector{1, 2}}},
		{"intercepts", ModelSpec{Type: KindLogisticRegression, Classes: []int{0, 1}, Coef: vector{1}, Intercept: vector{1, 2}}},
		{"nb rows", ModelSpec{Type: KindMultinomialNB, Classes: []int{0, 1}, FeatureLogProb: [][]float64{{0}}, ClassLogPrior: []float64{0, 0}}},
		{"nb width", ModelSpec{Type: KindMultinomialNB, Classes: []int{0, 1}, FeatureLogProb: [][]float64{{0, 0}, {0}}, ClassLogPrior: []float64{0, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewModel(&tt.spec, 1)
			assert.ErrorIs(t, err, ErrInvalidModel)
		})
	}
}

func TestModelSpec_VectorShapes(t *testing.T) {
	var spec ModelSpec
	require.NoError(t, json.Unmarshal([]byte(`{"coef": [[0.5, -1]], "intercept": 0.25}`), &spec))
	assert.Equal(t, vector{0.5, -1}, spec.Coef)
	assert.Equal(t, vector{0.25}, spec.Intercept)

	require.NoError(t, json.Unmarshal([]byte(`{"coef": [1, 2, 3], "intercept": [-0.5]}`), &spec))
	assert.Equal(t, vector{1, 2, 3}, spec.Coef)
	assert.Equal(t, vector{-0.5}, spec.Intercept)

	assert.Error(t, json.Unmarshal([]byte(`{"coef": [[1], [2]]}`), &spec))
}
