package main

import (
	"fmt"
	"io"

	"github.com/mikey/phishing-detector/internal/config"
	"github.com/mikey/phishing-detector/internal/core"
	"github.com/mikey/phishing-detector/internal/di"
	"github.com/mikey/phishing-detector/internal/metrics"
	"github.com/spf13/cobra"
	"go.uber.org/dig"
	"go.uber.org/zap"
)

// flagBindings maps configuration keys to the persistent flags overriding them
var flagBindings = map[string]string{
	"cli.verbose":               "verbose",
	"cli.output":                "output",
	"input.format":              "format",
	"batch.concurrency":         "concurrency",
	"model.vectorizer_path":     "vectorizer",
	"model.classifier_path":     "model",
	"detection.trusted_domains": "trusted",
	"metrics.dump":              "metrics",
}

// app holds the state shared by all commands
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	configPath string
	jsonLog    bool
	noCache    bool

	cfg *config.Config
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{in: in, out: out, errOut: errOut}

	cmd := &cobra.Command{
		Use:   "phishing-detector",
		Short: "Classify emails as phishing or legitimate",
		Long: `phishing-detector classifies email text with a pre-trained TF-IDF model
and explains the verdict with heuristic indicators.

Without a subcommand the filter named by server.filter_type is run:
"cli" analyzes stdin, "interactive" starts an interactive session.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.loadConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFilter(cmd)
		},
	}
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Path to config file")
	flags.BoolP("verbose", "v", false, "Enable verbose output and debug logging")
	flags.BoolVar(&a.jsonLog, "json-log", false, "Output logs in JSON format")
	flags.StringP("output", "o", "text", "Result format (text, json)")
	flags.String("format", "auto", "Input format (auto, text, eml)")
	flags.Int("concurrency", 4, "Number of emails analyzed in parallel")
	flags.String("vectorizer", "./models/vectorizer.json", "Path to the exported vectorizer")
	flags.String("model", "./models/model.json", "Path to the exported classifier")
	flags.StringSlice("trusted", nil, "Trusted sender domains that skip classification")
	flags.Bool("metrics", false, "Dump metrics to stderr on exit")
	flags.BoolVar(&a.noCache, "no-cache", false, "Disable the result cache")

	cmd.AddCommand(
		newAnalyzeCmd(a),
		newScanCmd(a),
		newInteractiveCmd(a),
		newConfigCmd(a),
		newVersionCmd(a),
	)

	return cmd
}

// loadConfig reads the configuration and applies flags given on the command line
func (a *app) loadConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.New(a.configPath)
	if err != nil {
		return err
	}

	v := cfg.GetViper()
	for key, name := range flagBindings {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	if a.jsonLog {
		cfg.Set("logging.format", "json")
	}
	if a.noCache {
		cfg.Set("cache.enabled", false)
	}

	a.cfg = cfg
	return nil
}

// invoke builds the container, runs fn with its dependencies and releases resources
func (a *app) invoke(fn interface{}) error {
	container, err := di.BuildContainer(a.cfg, a.out)
	if err != nil {
		return fmt.Errorf("failed to build dependency container: %w", err)
	}

	runErr := container.Invoke(fn)
	if err := container.Invoke(a.shutdown); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return dig.RootCause(runErr)
	}
	return nil
}

// shutdown stops the cache and dumps metrics when requested
func (a *app) shutdown(logger *zap.Logger, cacheRepo core.CacheRepository, m *metrics.Metrics) error {
	defer logger.Sync()

	if stopper, ok := cacheRepo.(interface{ Stop() }); ok {
		stopper.Stop()
	}

	if a.cfg.GetBool("metrics.dump") {
		if err := m.WriteText(a.errOut); err != nil {
			logger.Error("Failed to write metrics", zap.Error(err))
			return err
		}
	}
	return nil
}
