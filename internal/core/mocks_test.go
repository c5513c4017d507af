package core

import (
	"context"
	"errors"
	"sync"

	"github.com/stretchr/testify/mock"
)

var errNotCached = errors.New("not cached")

type mockVectorizer struct {
	mock.Mock
}

func (m *mockVectorizer) Transform(ctx context.Context, text string) (*FeatureVector, error) {
	args := m.Called(ctx, text)
	fv, _ := args.Get(0).(*FeatureVector)
	return fv, args.Error(1)
}

type mockModel struct {
	mock.Mock
}

func (m *mockModel) Predict(ctx context.Context, features *FeatureVector) (*Prediction, error) {
	args := m.Called(ctx, features)
	p, _ := args.Get(0).(*Prediction)
	return p, args.Error(1)
}

func (m *mockModel) Name() string {
	return "mock_model"
}

// mapCache is a CacheRepository backed by a map
type mapCache struct {
	mu      sync.Mutex
	entries map[string]*CacheEntry
	sets    int
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]*CacheEntry)}
}

func (c *mapCache) Get(ctx context.Context, digest string) (*CacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[digest]
	if !ok {
		return nil, errNotCached
	}
	copied := *entry
	return &copied, nil
}

func (c *mapCache) Set(ctx context.Context, entry *CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := *entry
	c.entries[entry.Digest] = &copied
	c.sets++
	return nil
}

func (c *mapCache) Delete(ctx context.Context, digest string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, digest)
	return nil
}

func (c *mapCache) Cleanup(ctx context.Context) error {
	return nil
}
