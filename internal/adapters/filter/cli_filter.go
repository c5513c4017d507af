package filter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/mikey/phishing-detector/internal/core"
	"go.uber.org/zap"
)

// Output formats of the CLI filter
const (
	OutputText = "text"
	OutputJSON = "json"
)

// CliFilter implements a command-line interface for phishing detection
type CliFilter struct {
	service *core.DetectionService
	logger  *zap.Logger
	out     io.Writer
	mu      sync.Mutex
	verbose bool
	output  string
}

// jsonResult is one line of JSON output
type jsonResult struct {
	Source       string                `json:"source"`
	Label        string                `json:"label,omitempty"`
	Confidence   float64               `json:"confidence,omitempty"`
	Explanation  string                `json:"explanation,omitempty"`
	Indicators   *core.IndicatorReport `json:"indicators,omitempty"`
	ModelUsed    string                `json:"model_used,omitempty"`
	ProcessingID string                `json:"processing_id,omitempty"`
	DurationMS   float64               `json:"duration_ms,omitempty"`
	Error        string                `json:"error,omitempty"`
}

// NewCliFilter creates a new CLI filter
func NewCliFilter(service *core.DetectionService, logger *zap.Logger, out io.Writer, verbose bool, output string) (*CliFilter, error) {
	switch output {
	case "", OutputText:
		output = OutputText
	case OutputJSON:
	default:
		return nil, fmt.Errorf("unsupported output format: %s", output)
	}

	return &CliFilter{
		service: service,
		logger:  logger,
		out:     out,
		verbose: verbose,
		output:  output,
	}, nil
}

// ProcessEmail processes an email and displays the results
func (f *CliFilter) ProcessEmail(ctx context.Context, email *core.Email) (*core.ClassificationResult, error) {
	f.logger.Debug("Processing email", zap.String("source", email.Source))

	startTime := time.Now()
	result, err := f.service.AnalyzeEmail(ctx, email)
	if err != nil {
		f.RenderError(email, err)
		return nil, err
	}

	f.RenderResult(email, result, time.Since(startTime))
	return result, nil
}

// RenderResult prints one analysis result
func (f *CliFilter) RenderResult(email *core.Email, result *core.ClassificationResult, duration time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.output == OutputJSON {
		f.writeJSON(jsonResult{
			Source:       email.Source,
			Label:        result.Label.String(),
			Confidence:   result.Confidence,
			Explanation:  result.Explanation,
			Indicators:   &result.Indicators,
			ModelUsed:    result.ModelUsed,
			ProcessingID: result.ProcessingID,
			DurationMS:   float64(duration.Microseconds()) / 1000,
		})
		return
	}

	f.printSummary(email)

	verdict := "EMAIL IS SAFE"
	if result.IsPhishing() {
		verdict = "PHISHING DETECTED"
	}

	fmt.Fprintf(f.out, "=== Results ===\n")
	fmt.Fprintf(f.out, "Verdict: %s\n", verdict)
	fmt.Fprintf(f.out, "Confidence: %.1f%%\n", result.Confidence)
	fmt.Fprintf(f.out, "Model used: %s\n", result.ModelUsed)
	fmt.Fprintf(f.out, "Processing time: %v\n", duration)
	fmt.Fprintf(f.out, "\n%s\n\n", result.Explanation)
}

// RenderError prints a failed analysis
func (f *CliFilter) RenderError(email *core.Email, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.output == OutputJSON {
		f.writeJSON(jsonResult{Source: email.Source, Error: err.Error()})
		return
	}

	f.printSummary(email)
	fmt.Fprintf(f.out, "=== Results ===\n")
	fmt.Fprintf(f.out, "Error: %v\n\n", err)
}

// RenderIndicators prints the raw indicators for an email
func (f *CliFilter) RenderIndicators(email *core.Email, report core.IndicatorReport) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.output == OutputJSON {
		f.writeJSON(jsonResult{Source: email.Source, Indicators: &report})
		return
	}

	f.printSummary(email)
	fmt.Fprintf(f.out, "=== Indicators ===\n")
	fmt.Fprintf(f.out, "Suspicious URLs: %s\n", listOrNone(report.SuspiciousURLs))
	fmt.Fprintf(f.out, "Urgent phrases: %s\n", listOrNone(report.UrgentPhrases))
	fmt.Fprintf(f.out, "Personal information requests: %s\n", listOrNone(report.PersonalInfoRequests))
	fmt.Fprintf(f.out, "Suspicious senders: %s\n", listOrNone(report.SuspiciousSenders))
	fmt.Fprintf(f.out, "Grammar issues: %d\n\n", report.GrammarIssues)
}

func (f *CliFilter) printSummary(email *core.Email) {
	fmt.Fprintf(f.out, "\n=== Email Summary ===\n")
	fmt.Fprintf(f.out, "Source: %s\n", email.Source)
	if email.From != "" {
		fmt.Fprintf(f.out, "From: %s\n", email.From)
	}
	if email.Subject != "" {
		fmt.Fprintf(f.out, "Subject: %s\n", email.Subject)
	}
	fmt.Fprintf(f.out, "Body length: %d bytes\n", len(email.Body))

	// Print body preview if verbose
	if f.verbose {
		preview := email.Body
		if len(preview) > 500 {
			preview = preview[:500] + "..."
		}
		fmt.Fprintf(f.out, "\nBody preview:\n%s\n", preview)
	}

	fmt.Fprintf(f.out, "\n")
}

func (f *CliFilter) writeJSON(v jsonResult) {
	if err := json.NewEncoder(f.out).Encode(v); err != nil {
		f.logger.Error("Failed to write result", zap.Error(err))
	}
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return fmt.Sprintf("%q", items)
}

// Start is a no-op for the CLI filter
func (f *CliFilter) Start() error {
	return nil
}

// Stop is a no-op for the CLI filter
func (f *CliFilter) Stop() error {
	return nil
}
