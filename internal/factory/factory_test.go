package factory

import (
	"bytes"
	"testing"
	"time"

	"github.com/mikey/phishing-detector/internal/adapters/cache"
	"github.com/mikey/phishing-detector/internal/adapters/filter"
	"github.com/mikey/phishing-detector/internal/config"
	"github.com/mikey/phishing-detector/internal/history"
	"github.com/mikey/phishing-detector/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newConfig() *config.Config {
	return config.NewFromViper(config.NewEmptyViper())
}

func TestCacheFactory_CreateCacheRepository(t *testing.T) {
	cfg := newConfig()
	cfg.Set("cache.cleanup_frequency", "0s")
	f := NewCacheFactory(cfg, zap.NewNop())

	repo, err := f.CreateCacheRepository()
	require.NoError(t, err)
	assert.IsType(t, &cache.MemoryCache{}, repo)
	repo.(*cache.MemoryCache).Stop()

	cfg.Set("cache.type", "sqlite")
	repo, err = f.CreateCacheRepository()
	require.NoError(t, err)
	assert.IsType(t, &cache.SQLiteCache{}, repo)
	repo.(*cache.SQLiteCache).Stop()

	cfg.Set("cache.type", "redis")
	_, err = f.CreateCacheRepository()
	assert.Error(t, err)

	cfg.Set("cache.enabled", false)
	repo, err = f.CreateCacheRepository()
	require.NoError(t, err)
	assert.Nil(t, repo)
	assert.False(t, f.IsCacheEnabled())
}

func TestCacheFactory_GetCacheTTL(t *testing.T) {
	cfg := newConfig()
	f := NewCacheFactory(cfg, zap.NewNop())

	ttl, err := f.GetCacheTTL()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, ttl)

	cfg.Set("cache.ttl", "0s")
	_, err = f.GetCacheTTL()
	assert.Error(t, err)
}

func TestClassifierFactory_UnsupportedProvider(t *testing.T) {
	cfg := newConfig()
	cfg.Set("model.provider", "pickle")
	logger := zap.NewNop()

	_, err := NewClassifierFactory(cfg, logger, utils.NewTextProcessor(logger)).CreateAnalyzer()
	assert.Error(t, err)
}

func TestClassifierFactory_MissingFiles(t *testing.T) {
	cfg := newConfig()
	cfg.Set("model.vectorizer_path", t.TempDir()+"/absent.json")
	logger := zap.NewNop()

	_, err := NewClassifierFactory(cfg, logger, utils.NewTextProcessor(logger)).CreateAnalyzer()
	assert.Error(t, err)
}

func TestFilterFactory_CreateEmailFilter(t *testing.T) {
	cfg := newConfig()
	logger := zap.NewNop()
	f := NewFilterFactory(cfg, logger, nil, history.New(2), NewTextProcessorFactory(logger).CreateTextProcessor(), &bytes.Buffer{})

	emailFilter, err := f.CreateEmailFilter()
	require.NoError(t, err)
	assert.IsType(t, &filter.CliFilter{}, emailFilter)

	cfg.Set("server.filter_type", "interactive")
	emailFilter, err = f.CreateEmailFilter()
	require.NoError(t, err)
	assert.IsType(t, &filter.InteractiveFilter{}, emailFilter)

	cfg.Set("server.filter_type", "milter")
	_, err = f.CreateEmailFilter()
	assert.Error(t, err)

	cfg.Set("server.filter_type", "cli")
	cfg.Set("cli.output", "xml")
	_, err = f.CreateEmailFilter()
	assert.Error(t, err)
}
