package filter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mikey/phishing-detector/internal/core"
	"github.com/mikey/phishing-detector/internal/history"
	"github.com/mikey/phishing-detector/internal/utils"
	"go.uber.org/zap"
)

const samplePhishing = `URGENT: Your PayPal account has been compromised!

Dear Customer,

Your PayPal account will be suspended in 24 hours due to suspicious activity.
Click here IMMEDIATELY to verify your identity: http://bit.ly/paypal-verify-now

Please provide:
- Full Name
- Credit Card Number
- Social Security Number
- Password

Failure to act now will result in permanent account closure!

Best regards,
PayPal Security Team
(This is not from PayPal)`

const sampleLegitimate = `Hi there,

Thank you for your recent purchase from Amazon. Your order #123-4567890-1234567 has been shipped and is on its way to you.

Order Details:
- iPhone 15 Pro Max - $1,199.00
- Shipping: FREE
- Estimated Delivery: Tomorrow by 10 PM

You can track your package at: amazon.com/your-orders

If you have any questions, please contact customer service through your Amazon account.

Best regards,
Amazon Customer Service`

const interactiveHelp = `Type or paste email content, then a line with a single "." to analyze it.
Commands:
  :load <path>                   load email content from a .txt or .eml file
  :sample phishing|legitimate    load a sample email
  :history                       show recent analyses
  :clear                         discard the current content
  :help                          show this help
  :quit                          exit
Start a content line with "::" to enter a literal ":".`

// errQuit ends the interactive loop
var errQuit = errors.New("quit")

// InteractiveFilter is a line-oriented session that mimics a single analysis form
type InteractiveFilter struct {
	service       *core.DetectionService
	history       *history.History
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
	previewLength int
	inputFormat   string

	out   io.Writer
	draft strings.Builder
}

// NewInteractiveFilter creates a new interactive filter
func NewInteractiveFilter(
	service *core.DetectionService,
	hist *history.History,
	textProcessor *utils.TextProcessor,
	logger *zap.Logger,
	previewLength int,
	inputFormat string,
) *InteractiveFilter {
	return &InteractiveFilter{
		service:       service,
		history:       hist,
		textProcessor: textProcessor,
		logger:        logger,
		previewLength: previewLength,
		inputFormat:   inputFormat,
		out:           io.Discard,
	}
}

// Run reads commands and email content from in until EOF or :quit.
// Content still pending at EOF is analyzed.
func (f *InteractiveFilter) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	f.out = out
	f.draft.Reset()

	fmt.Fprintf(out, "=== Phishing Detector ===\n%s\n\nReady for Analysis\n", interactiveHelp)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := f.handleLine(ctx, scanner.Text()); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	if strings.TrimSpace(f.draft.String()) != "" {
		f.submit(ctx)
	}
	return nil
}

func (f *InteractiveFilter) handleLine(ctx context.Context, line string) error {
	switch {
	case line == ".":
		f.submit(ctx)
		return nil
	case strings.HasPrefix(line, "::"):
		f.appendLine(line[1:])
		return nil
	case strings.HasPrefix(line, ":"):
		return f.command(strings.Fields(line[1:]))
	default:
		f.appendLine(line)
		return nil
	}
}

func (f *InteractiveFilter) command(args []string) error {
	if len(args) == 0 {
		fmt.Fprintf(f.out, "Unknown command, type :help\n")
		return nil
	}

	switch args[0] {
	case "quit", "q", "exit":
		return errQuit
	case "help":
		fmt.Fprintf(f.out, "%s\n", interactiveHelp)
	case "clear":
		f.draft.Reset()
		fmt.Fprintf(f.out, "Ready for Analysis\n")
	case "history":
		f.printHistory()
	case "sample":
		kind := ""
		if len(args) > 1 {
			kind = args[1]
		}
		switch kind {
		case "phishing":
			f.setDraft(samplePhishing)
			fmt.Fprintf(f.out, "Sample Phishing Email Loaded (%d characters)\n", utf8.RuneCountInString(samplePhishing))
		case "legitimate", "safe":
			f.setDraft(sampleLegitimate)
			fmt.Fprintf(f.out, "Sample Legitimate Email Loaded (%d characters)\n", utf8.RuneCountInString(sampleLegitimate))
		default:
			fmt.Fprintf(f.out, "Usage: :sample phishing|legitimate\n")
		}
	case "load":
		if len(args) < 2 {
			fmt.Fprintf(f.out, "Usage: :load <path>\n")
			return nil
		}
		f.load(strings.Join(args[1:], " "))
	default:
		fmt.Fprintf(f.out, "Unknown command %q, type :help\n", args[0])
	}
	return nil
}

func (f *InteractiveFilter) load(path string) {
	file, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(f.out, "File Error: Could not read file: %v\n", err)
		return
	}
	defer file.Close()

	email, err := LoadEmail(file, path, f.inputFormat)
	if err != nil {
		fmt.Fprintf(f.out, "File Error: Could not read file: %v\n", err)
		return
	}

	text := email.Text()
	f.setDraft(text)
	fmt.Fprintf(f.out, "File Loaded: %s (%d characters)\n", filepath.Base(path), utf8.RuneCountInString(text))
}

func (f *InteractiveFilter) setDraft(text string) {
	f.draft.Reset()
	f.draft.WriteString(text)
}

func (f *InteractiveFilter) appendLine(line string) {
	if f.draft.Len() > 0 {
		f.draft.WriteString("\n")
	}
	f.draft.WriteString(line)
}

func (f *InteractiveFilter) submit(ctx context.Context) {
	text := strings.TrimSpace(f.draft.String())
	f.draft.Reset()

	if text == "" {
		fmt.Fprintf(f.out, "Input Required: Please enter email content to analyze.\n")
		return
	}

	email := &core.Email{Body: text, Headers: make(map[string][]string), Source: "interactive"}
	if _, err := f.ProcessEmail(ctx, email); err != nil {
		fmt.Fprintf(f.out, "Analysis Error: An error occurred: %v\n", err)
	}
}

// ProcessEmail analyzes an email, records it in the history and prints the result
func (f *InteractiveFilter) ProcessEmail(ctx context.Context, email *core.Email) (*core.ClassificationResult, error) {
	result, err := f.service.AnalyzeEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	f.history.Add(history.Entry{
		Time:       time.Now(),
		Preview:    f.textProcessor.Preview(email.Text(), f.previewLength),
		Label:      result.Label,
		Confidence: result.Confidence,
	})

	verdict := "EMAIL IS SAFE"
	if result.IsPhishing() {
		verdict = "PHISHING DETECTED"
	}

	fmt.Fprintf(f.out, "\n=== Results ===\n")
	fmt.Fprintf(f.out, "%s\n", verdict)
	fmt.Fprintf(f.out, "Confidence: %.1f%%\n\n", result.Confidence)
	fmt.Fprintf(f.out, "%s\n\n", result.Explanation)
	fmt.Fprintf(f.out, "Analysis Complete - %s Detected\n", result.Label)
	f.printHistory()

	return result, nil
}

func (f *InteractiveFilter) printHistory() {
	fmt.Fprintf(f.out, "\n=== Recent Analysis ===\n")
	entries := f.history.Entries()
	if len(entries) == 0 {
		fmt.Fprintf(f.out, "(none)\n")
	}
	for _, e := range entries {
		fmt.Fprintf(f.out, "%s\n", e)
	}
	fmt.Fprintf(f.out, "\n")
}

// Start is a no-op for the interactive filter
func (f *InteractiveFilter) Start() error {
	return nil
}

// Stop is a no-op for the interactive filter
func (f *InteractiveFilter) Stop() error {
	return nil
}
