package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrAnalysisFailed is returned when the classifier cannot produce a verdict
var ErrAnalysisFailed = errors.New("analysis failed")

// Analyzer classifies text with a pre-trained model and explains the verdict.
// The vectorizer and model are only read, so one Analyzer may be shared by
// concurrent callers.
type Analyzer struct {
	vectorizer Vectorizer
	model      Model
	logger     *zap.Logger
}

// NewAnalyzer creates a new analyzer
func NewAnalyzer(vectorizer Vectorizer, model Model, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		vectorizer: vectorizer,
		model:      model,
		logger:     logger,
	}
}

// Analyze classifies text and builds the explanation.
// Any classifier failure is reported as ErrAnalysisFailed; there are no retries.
func (a *Analyzer) Analyze(ctx context.Context, text string) (*ClassificationResult, error) {
	features, err := a.vectorizer.Transform(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to vectorize text: %w", ErrAnalysisFailed, err)
	}

	prediction, err := a.model.Predict(ctx, features)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to predict: %w", ErrAnalysisFailed, err)
	}

	label, confidence, err := interpretPrediction(prediction)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	report := ScanIndicators(text)
	result := &ClassificationResult{
		Label:        label,
		Confidence:   confidence,
		Explanation:  formatReport(label, report),
		Indicators:   report,
		AnalyzedAt:   time.Now(),
		ModelUsed:    a.model.Name(),
		ProcessingID: uuid.NewString(),
	}

	a.logger.Debug("Classified text",
		zap.String("processing_id", result.ProcessingID),
		zap.Stringer("label", label),
		zap.Float64("confidence", confidence),
		zap.Int("features", len(features.Indices)))

	return result, nil
}

// interpretPrediction maps the model output to a label and a 0-100 confidence
func interpretPrediction(p *Prediction) (Label, float64, error) {
	if p == nil {
		return LabelLegitimate, 0, errors.New("model returned no prediction")
	}

	label, err := LabelFromClass(p.Class)
	if err != nil {
		return LabelLegitimate, 0, err
	}

	if len(p.Probabilities) != 2 {
		return LabelLegitimate, 0, fmt.Errorf("expected 2 class probabilities, got %d", len(p.Probabilities))
	}

	highest := 0.0
	for _, prob := range p.Probabilities {
		if math.IsNaN(prob) || prob < 0 || prob > 1 {
			return LabelLegitimate, 0, fmt.Errorf("invalid class probability: %v", prob)
		}
		highest = math.Max(highest, prob)
	}

	return label, highest * 100, nil
}
