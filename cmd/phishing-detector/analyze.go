package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mikey/phishing-detector/internal/adapters/filter"
	"github.com/mikey/phishing-detector/internal/core"
	"github.com/mikey/phishing-detector/internal/ports"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// stdinName is the source name of an email read from standard input
const stdinName = "stdin"

// errSomeFailed is returned when at least one email could not be analyzed
var errSomeFailed = errors.New("some emails could not be analyzed")

func newAnalyzeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Classify emails read from files or stdin",
		Long: `Classify each file as phishing or legitimate. With no files, or with "-",
the email is read from stdin. Results are printed in argument order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.invoke(func(service *core.DetectionService, cli *filter.CliFilter, logger *zap.Logger) error {
				return a.analyzeAll(cmd.Context(), service, cli, logger, args)
			})
		},
	}
}

// outcome is the result of one email of a batch
type outcome struct {
	email    *core.Email
	result   *core.ClassificationResult
	duration time.Duration
	err      error
}

// analyzeAll analyzes the named emails concurrently and renders them in order
func (a *app) analyzeAll(ctx context.Context, service *core.DetectionService, cli *filter.CliFilter, logger *zap.Logger, names []string) error {
	if len(names) == 0 {
		names = []string{"-"}
	}

	limit := a.cfg.GetInt("batch.concurrency")
	if limit <= 0 {
		limit = 1
	}

	// Standard input can only be read once, every "-" shares that email
	readStdin := sync.OnceValues(func() (*core.Email, error) {
		return a.readEmail("-")
	})

	outcomes := make([]outcome, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, name := range names {
		g.Go(func() error {
			var email *core.Email
			var err error
			if name == "-" {
				email, err = readStdin()
			} else {
				email, err = a.readEmail(name)
			}
			if err != nil {
				logger.Error("Failed to read email", zap.String("source", name), zap.Error(err))
				outcomes[i] = outcome{email: &core.Email{Source: name}, err: err}
				return nil
			}

			start := time.Now()
			result, err := service.AnalyzeEmail(gctx, email)
			outcomes[i] = outcome{email: email, result: result, duration: time.Since(start), err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, o := range outcomes {
		if o.err != nil {
			failed++
			cli.RenderError(o.email, o.err)
			continue
		}
		cli.RenderResult(o.email, o.result, o.duration)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d failed", errSomeFailed, failed, len(outcomes))
	}
	return ctx.Err()
}

// readEmail loads an email from a file, or from stdin when name is "-"
func (a *app) readEmail(name string) (*core.Email, error) {
	format := a.cfg.GetString("input.format")
	if name == "-" {
		return filter.LoadEmail(a.in, stdinName, format)
	}

	file, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return filter.LoadEmail(file, name, format)
}

// runFilter runs the filter named by server.filter_type
func (a *app) runFilter(cmd *cobra.Command) error {
	return a.invoke(func(emailFilter ports.EmailFilter, logger *zap.Logger) error {
		if err := emailFilter.Start(); err != nil {
			return fmt.Errorf("failed to start filter: %w", err)
		}
		defer func() {
			if err := emailFilter.Stop(); err != nil {
				logger.Error("Failed to stop filter", zap.Error(err))
			}
		}()

		// Session filters drive their own input loop
		if session, ok := emailFilter.(interface {
			Run(ctx context.Context, in io.Reader, out io.Writer) error
		}); ok {
			return session.Run(cmd.Context(), a.in, a.out)
		}

		email, err := a.readEmail("-")
		if err != nil {
			return err
		}
		_, err = emailFilter.ProcessEmail(cmd.Context(), email)
		return err
	})
}

