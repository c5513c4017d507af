package factory

import (
	"fmt"

	"github.com/mikey/phishing-detector/internal/adapters/linear"
	"github.com/mikey/phishing-detector/internal/config"
	"github.com/mikey/phishing-detector/internal/core"
	"github.com/mikey/phishing-detector/internal/utils"
	"go.uber.org/zap"
)

// ClassifierFactory creates the vectorizer and model behind the analyzer
type ClassifierFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewClassifierFactory creates a new classifier factory
func NewClassifierFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *ClassifierFactory {
	return &ClassifierFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateAnalyzer loads the configured classifier and wraps it in an Analyzer
func (f *ClassifierFactory) CreateAnalyzer() (*core.Analyzer, error) {
	modelCfg := f.cfg.GetModel()

	switch modelCfg.Provider {
	case "linear":
		vectorizer, model, err := linear.NewFactory(f.cfg, f.logger, f.textProcessor).CreateClassifier()
		if err != nil {
			return nil, err
		}
		return core.NewAnalyzer(vectorizer, model, f.logger), nil
	default:
		return nil, fmt.Errorf("unsupported model provider: %s", modelCfg.Provider)
	}
}
