package linear

import (
	"github.com/mikey/phishing-detector/internal/config"
	"github.com/mikey/phishing-detector/internal/utils"
	"go.uber.org/zap"
)

// Factory creates the vectorizer and model pair from exported files
type Factory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewFactory creates a new factory for linear classifiers
func NewFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *Factory {
	return &Factory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateClassifier loads the vectorizer and model once; both are read-only afterwards
func (f *Factory) CreateClassifier() (*Vectorizer, *Model, error) {
	modelCfg := f.cfg.GetModel()

	vectorizerSpec, err := LoadVectorizerSpec(modelCfg.VectorizerPath)
	if err != nil {
		return nil, nil, err
	}
	vectorizer, err := NewVectorizer(vectorizerSpec, f.textProcessor, modelCfg.MaxTextBytes)
	if err != nil {
		return nil, nil, err
	}

	modelSpec, err := LoadModelSpec(modelCfg.ClassifierPath)
	if err != nil {
		return nil, nil, err
	}
	model, err := NewModel(modelSpec, vectorizer.Dim())
	if err != nil {
		return nil, nil, err
	}

	f.logger.Info("Loaded classifier",
		zap.String("vectorizer_path", modelCfg.VectorizerPath),
		zap.String("classifier_path", modelCfg.ClassifierPath),
		zap.String("model", model.Name()),
		zap.Int("features", vectorizer.Dim()))

	return vectorizer, model, nil
}
