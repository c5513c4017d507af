package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mikey/phishing-detector/internal/metrics"
	"github.com/mikey/phishing-detector/internal/whitelist"
	"go.uber.org/zap"
)

// ErrEmptyInput is returned when there is no text to analyze
var ErrEmptyInput = errors.New("email content is empty")

// DetectionService is the entry point used by filters to analyze emails
type DetectionService struct {
	analyzer     *Analyzer
	cache        CacheRepository
	logger       *zap.Logger
	cacheEnabled bool
	cacheTTL     time.Duration
	allowlist    *whitelist.Checker
	metrics      *metrics.Metrics
}

// NewDetectionService creates a new detection service.
// cache may be nil when cacheEnabled is false.
func NewDetectionService(
	analyzer *Analyzer,
	cache CacheRepository,
	logger *zap.Logger,
	cacheEnabled bool,
	cacheTTL time.Duration,
	allowlist *whitelist.Checker,
	m *metrics.Metrics,
) *DetectionService {
	return &DetectionService{
		analyzer:     analyzer,
		cache:        cache,
		logger:       logger,
		cacheEnabled: cacheEnabled && cache != nil,
		cacheTTL:     cacheTTL,
		allowlist:    allowlist,
		metrics:      m,
	}
}

// Digest returns the cache key for a piece of text
func Digest(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// AnalyzeEmail checks if an email is phishing
func (s *DetectionService) AnalyzeEmail(ctx context.Context, email *Email) (*ClassificationResult, error) {
	text := email.Text()
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	// Check allowlist first
	if s.allowlist != nil && s.allowlist.IsWhitelisted(email.From) {
		s.logger.Info("Skipping classification for trusted sender domain",
			zap.String("sender", email.From),
			zap.String("action", "allowlist_bypass"))

		report := ScanIndicators(text)
		result := &ClassificationResult{
			Label:        LabelLegitimate,
			Confidence:   100,
			Explanation:  formatReport(LabelLegitimate, report),
			Indicators:   report,
			AnalyzedAt:   time.Now(),
			ModelUsed:    "allowlist",
			ProcessingID: uuid.NewString(),
		}
		s.metrics.ObserveAnalysis(result.Label.String(), result.ModelUsed, 0)
		s.metrics.ObserveIndicators(report.Counts())
		return result, nil
	}

	digest := Digest(text)

	// Check cache if enabled
	if s.cacheEnabled {
		if entry, err := s.cache.Get(ctx, digest); err == nil {
			s.logger.Debug("Cache hit for email", zap.String("digest", digest))
			s.metrics.CacheHit()
			result := &ClassificationResult{
				Label:        entry.Label,
				Confidence:   entry.Confidence,
				Explanation:  entry.Explanation,
				Indicators:   ScanIndicators(text),
				AnalyzedAt:   time.Now(),
				ModelUsed:    "cache",
				ProcessingID: uuid.NewString(),
			}
			s.metrics.ObserveAnalysis(result.Label.String(), result.ModelUsed, 0)
			s.metrics.ObserveIndicators(result.Indicators.Counts())
			return result, nil
		}
	}

	start := time.Now()
	result, err := s.analyzer.Analyze(ctx, text)
	if err != nil {
		s.metrics.AnalysisFailed()
		s.logger.Error("Failed to analyze email",
			zap.Error(err),
			zap.String("source", email.Source),
			zap.String("digest", digest))
		return nil, err
	}
	s.metrics.ObserveAnalysis(result.Label.String(), result.ModelUsed, time.Since(start))
	s.metrics.ObserveIndicators(result.Indicators.Counts())

	// Update cache with result if enabled
	if s.cacheEnabled {
		now := time.Now()
		entry := &CacheEntry{
			Digest:      digest,
			Label:       result.Label,
			Confidence:  result.Confidence,
			Explanation: result.Explanation,
			LastSeen:    now,
			ExpiresAt:   now.Add(s.cacheTTL),
		}
		if err := s.cache.Set(ctx, entry); err != nil {
			s.logger.Error("Failed to update cache", zap.Error(err))
		}
	}

	s.logger.Info("Analyzed email",
		zap.String("source", email.Source),
		zap.String("processing_id", result.ProcessingID),
		zap.Stringer("label", result.Label),
		zap.Float64("confidence", result.Confidence),
		zap.String("model", result.ModelUsed))

	return result, nil
}
