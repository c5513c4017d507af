package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

// ModelConfig represents the configuration for the pre-trained classifier
type ModelConfig struct {
	Provider       string
	VectorizerPath string
	ClassifierPath string
	MaxTextBytes   int
}

// CacheConfig represents the configuration for the result cache
type CacheConfig struct {
	Type             string        `mapstructure:"type"`
	Enabled          bool          `mapstructure:"enabled"`
	TTL              time.Duration `mapstructure:"ttl"`
	CleanupFrequency time.Duration `mapstructure:"cleanup_frequency"`
}

// HistoryConfig represents the configuration for the recent analysis list
type HistoryConfig struct {
	Size          int `mapstructure:"size"`
	PreviewLength int `mapstructure:"preview_length"`
}

// GetModel returns the classifier configuration
func (c *Config) GetModel() ModelConfig {
	return ModelConfig{
		Provider:       c.GetString("model.provider"),
		VectorizerPath: c.GetString("model.vectorizer_path"),
		ClassifierPath: c.GetString("model.classifier_path"),
		MaxTextBytes:   c.GetInt("model.max_text_bytes"),
	}
}

// GetCache returns the cache configuration
func (c *Config) GetCache() (CacheConfig, error) {
	var cacheCfg CacheConfig
	if err := c.decodeSection("cache", &cacheCfg, "type", "enabled", "ttl", "cleanup_frequency"); err != nil {
		return CacheConfig{}, fmt.Errorf("failed to decode cache configuration: %w", err)
	}
	return cacheCfg, nil
}

// GetHistory returns the history configuration
func (c *Config) GetHistory() (HistoryConfig, error) {
	var historyCfg HistoryConfig
	if err := c.decodeSection("history", &historyCfg, "size", "preview_length"); err != nil {
		return HistoryConfig{}, fmt.Errorf("failed to decode history configuration: %w", err)
	}
	if historyCfg.Size <= 0 {
		return HistoryConfig{}, fmt.Errorf("history.size must be positive, got %d", historyCfg.Size)
	}
	return historyCfg, nil
}

// GetTrustedDomains returns the sender domains that bypass classification
func (c *Config) GetTrustedDomains() []string {
	return c.GetStringSlice("detection.trusted_domains")
}

// decodeSection decodes the named keys of a section into out.
// Keys are read one by one so overrides and bound flags on single keys are seen.
func (c *Config) decodeSection(section string, out interface{}, keys ...string) error {
	raw := make(map[string]interface{}, len(keys))
	for _, key := range keys {
		raw[key] = c.v.Get(section + "." + key)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}
