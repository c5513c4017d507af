package ports

import (
	"context"

	"github.com/mikey/phishing-detector/internal/core"
)

// EmailFilter defines the interface for presenting analysis results
type EmailFilter interface {
	// ProcessEmail analyzes an email and presents the result
	ProcessEmail(ctx context.Context, email *core.Email) (*core.ClassificationResult, error)

	// Start prepares the filter for use
	Start() error

	// Stop releases the filter's resources
	Stop() error
}
