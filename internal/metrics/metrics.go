package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "phishing_detector"

// Metrics holds the collectors updated by the detection service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry         *prometheus.Registry
	analyses         *prometheus.CounterVec
	failures         prometheus.Counter
	cacheHits        prometheus.Counter
	indicators       *prometheus.CounterVec
	analysisDuration prometheus.Histogram
}

// New creates the collectors and registers them on a private registry
func New() (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Emails analyzed, by verdict and verdict source.",
		}, []string{"label", "source"}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_failures_total",
			Help:      "Analyses that failed in the classifier.",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Verdicts served from the result cache.",
		}),
		indicators: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "indicators_total",
			Help:      "Heuristic indicator matches, by category.",
		}, []string{"category"}),
		analysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time spent vectorizing and classifying one email.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}

	for _, c := range []prometheus.Collector{m.analyses, m.failures, m.cacheHits, m.indicators, m.analysisDuration} {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}

	return m, nil
}

// Registry returns the registry holding the collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveAnalysis records a completed analysis
func (m *Metrics) ObserveAnalysis(label, source string, d time.Duration) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(label, source).Inc()
	if d > 0 {
		m.analysisDuration.Observe(d.Seconds())
	}
}

// AnalysisFailed records a classifier failure
func (m *Metrics) AnalysisFailed() {
	if m == nil {
		return
	}
	m.failures.Inc()
}

// CacheHit records a verdict served from cache
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

// ObserveIndicators adds indicator counts per category
func (m *Metrics) ObserveIndicators(counts map[string]int) {
	if m == nil {
		return
	}
	for category, n := range counts {
		if n > 0 {
			m.indicators.WithLabelValues(category).Add(float64(n))
		}
	}
}

// WriteText writes all metrics in the Prometheus text exposition format
func (m *Metrics) WriteText(w io.Writer) error {
	if m == nil {
		return nil
	}
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write metric family: %w", err)
		}
	}
	return nil
}
