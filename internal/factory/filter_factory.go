package factory

import (
	"fmt"
	"io"

	"github.com/mikey/phishing-detector/internal/adapters/filter"
	"github.com/mikey/phishing-detector/internal/config"
	"github.com/mikey/phishing-detector/internal/core"
	"github.com/mikey/phishing-detector/internal/history"
	"github.com/mikey/phishing-detector/internal/ports"
	"github.com/mikey/phishing-detector/internal/utils"
	"go.uber.org/zap"
)

// FilterFactory creates email filters based on configuration
type FilterFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	service       *core.DetectionService
	history       *history.History
	textProcessor *utils.TextProcessor
	out           io.Writer
}

// NewFilterFactory creates a new filter factory
func NewFilterFactory(
	cfg *config.Config,
	logger *zap.Logger,
	service *core.DetectionService,
	hist *history.History,
	textProcessor *utils.TextProcessor,
	out io.Writer,
) *FilterFactory {
	return &FilterFactory{
		cfg:           cfg,
		logger:        logger,
		service:       service,
		history:       hist,
		textProcessor: textProcessor,
		out:           out,
	}
}

// CreateEmailFilter creates an email filter based on the configuration
func (f *FilterFactory) CreateEmailFilter() (ports.EmailFilter, error) {
	filterType := f.cfg.GetString("server.filter_type")

	switch filterType {
	case "cli":
		return f.CreateCliFilter()
	case "interactive":
		return f.CreateInteractiveFilter()
	default:
		return nil, fmt.Errorf("unsupported filter type: %s", filterType)
	}
}

// CreateCliFilter creates the batch CLI filter
func (f *FilterFactory) CreateCliFilter() (*filter.CliFilter, error) {
	return filter.NewCliFilter(
		f.service,
		f.logger,
		f.out,
		f.cfg.GetBool("cli.verbose"),
		f.cfg.GetString("cli.output"),
	)
}

// CreateInteractiveFilter creates the interactive session filter
func (f *FilterFactory) CreateInteractiveFilter() (*filter.InteractiveFilter, error) {
	historyCfg, err := f.cfg.GetHistory()
	if err != nil {
		return nil, err
	}
	return filter.NewInteractiveFilter(
		f.service,
		f.history,
		f.textProcessor,
		f.logger,
		historyCfg.PreviewLength,
		f.cfg.GetString("input.format"),
	), nil
}
