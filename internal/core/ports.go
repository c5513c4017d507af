package core

import (
	"context"
)

// FeatureVector is a sparse feature vector produced by a Vectorizer.
// Indices are strictly increasing and parallel to Values.
type FeatureVector struct {
	Dim     int
	Indices []int
	Values  []float64
}

// Prediction is the output of a Model: the predicted class and the
// probability of every class, indexed by class
type Prediction struct {
	Class         int
	Probabilities []float64
}

// Vectorizer turns raw text into a feature vector
type Vectorizer interface {
	// Transform vectorizes a single document
	Transform(ctx context.Context, text string) (*FeatureVector, error)
}

// Model is a pre-trained binary classifier
type Model interface {
	// Predict returns the predicted class and class probabilities
	Predict(ctx context.Context, features *FeatureVector) (*Prediction, error)

	// Name identifies the model kind in results and logs
	Name() string
}

// CacheRepository defines the interface for caching analysis results
type CacheRepository interface {
	// Get retrieves a cached entry for a text digest
	Get(ctx context.Context, digest string) (*CacheEntry, error)

	// Set stores a cache entry
	Set(ctx context.Context, entry *CacheEntry) error

	// Delete removes a cache entry
	Delete(ctx context.Context, digest string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}
