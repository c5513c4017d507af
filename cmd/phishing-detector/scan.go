package main

import (
	"fmt"

	"github.com/mikey/phishing-detector/internal/adapters/filter"
	"github.com/mikey/phishing-detector/internal/core"
	"github.com/mikey/phishing-detector/internal/metrics"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newScanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scan [files...]",
		Short: "Print heuristic indicators without classifying",
		Long:  `Print the heuristic indicators of each file. No model is loaded.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.invoke(func(logger *zap.Logger, m *metrics.Metrics) error {
				return a.scanAll(logger, m, args)
			})
		},
	}
}

// scanAll prints the indicators of each named email
func (a *app) scanAll(logger *zap.Logger, m *metrics.Metrics, names []string) error {
	if len(names) == 0 {
		names = []string{"-"}
	}

	// The CLI filter only renders here, so it needs no detection service
	cli, err := filter.NewCliFilter(nil, logger, a.out, a.cfg.GetBool("cli.verbose"), a.cfg.GetString("cli.output"))
	if err != nil {
		return err
	}

	failed := 0
	for _, name := range names {
		email, err := a.readEmail(name)
		if err != nil {
			failed++
			cli.RenderError(&core.Email{Source: name}, err)
			continue
		}
		report := core.ScanIndicators(email.Text())
		m.ObserveIndicators(report.Counts())
		cli.RenderIndicators(email, report)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d failed", errSomeFailed, failed, len(names))
	}
	return nil
}
