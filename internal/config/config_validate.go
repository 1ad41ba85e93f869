// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateDataset(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateEnrich(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateServer validates HTTP server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

var validDatasetFormats = map[string]bool{
	"auto":   true,
	"csv":    true,
	"duckdb": true,
}

// validateDataset validates the dataset source
func (c *Config) validateDataset() error {
	if c.Dataset.Path == "" {
		return fmt.Errorf("DATASET_PATH is required")
	}
	if !validDatasetFormats[strings.ToLower(c.Dataset.Format)] {
		return fmt.Errorf("DATASET_FORMAT must be one of: auto, csv, duckdb")
	}
	return nil
}

var validBackends = map[string]bool{
	"auto":   true,
	"dense":  true,
	"sparse": true,
}

// validateRecommend validates recommender settings
func (c *Config) validateRecommend() error {
	r := &c.Recommend
	if !validBackends[strings.ToLower(r.Backend)] {
		return fmt.Errorf("RECOMMEND_BACKEND must be one of: auto, dense, sparse")
	}
	if r.SparseDensityThreshold < 0 || r.SparseDensityThreshold > 1 {
		return fmt.Errorf("RECOMMEND_SPARSE_THRESHOLD must be between 0 and 1")
	}
	if r.LockTimeout <= 0 {
		return fmt.Errorf("RECOMMEND_LOCK_TIMEOUT must be positive")
	}
	if r.DefaultTopN < 1 {
		return fmt.Errorf("RECOMMEND_DEFAULT_TOP_N must be at least 1")
	}
	if r.MaxTopN < r.DefaultTopN {
		return fmt.Errorf("RECOMMEND_MAX_TOP_N (%d) must be >= RECOMMEND_DEFAULT_TOP_N (%d)", r.MaxTopN, r.DefaultTopN)
	}
	if r.ResponseCacheSize < 0 {
		return fmt.Errorf("RECOMMEND_RESPONSE_CACHE_SIZE must not be negative")
	}
	if r.ResponseCacheSize > 0 && r.ResponseCacheTTL <= 0 {
		return fmt.Errorf("RECOMMEND_RESPONSE_CACHE_TTL must be positive when the response cache is enabled")
	}
	return validateFeatures(r.Features)
}

var (
	validFeatureKinds = map[string]bool{"numeric": true, "categorical": true}
	validFeatureTiers = map[string]bool{"high": true, "medium": true, "low": true}
	reservedColumns   = map[string]bool{"deputy_id": true, "name": true}
)

// validateFeatures checks a recommend.features schema override
func validateFeatures(features []FeatureConfig) error {
	seen := make(map[string]bool, len(features))
	for i, f := range features {
		name := strings.TrimSpace(f.Name)
		switch {
		case name == "":
			return fmt.Errorf("recommend.features[%d]: name is required", i)
		case reservedColumns[name]:
			return fmt.Errorf("recommend.features[%d]: %q is a reserved column", i, name)
		case seen[name]:
			return fmt.Errorf("recommend.features[%d]: duplicate feature %q", i, name)
		case !validFeatureKinds[strings.ToLower(strings.TrimSpace(f.Kind))]:
			return fmt.Errorf("recommend.features[%d] (%s): kind must be numeric or categorical", i, name)
		case !validFeatureTiers[strings.ToLower(strings.TrimSpace(f.Tier))]:
			return fmt.Errorf("recommend.features[%d] (%s): tier must be high, medium or low", i, name)
		}
		seen[name] = true
	}
	return nil
}

var validEnrichFeatures = map[string]bool{
	"ideology":        true,
	"agenda_category": true,
}

// validateEnrich validates enrichment settings (only if enabled)
func (c *Config) validateEnrich() error {
	e := &c.Enrich
	if !e.Enabled {
		return nil
	}
	if e.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required when ENRICH_ENABLED=true")
	}
	if e.BaseURL != "" {
		if err := validateHTTPURL(e.BaseURL, "OPENAI_BASE_URL"); err != nil {
			return err
		}
	}
	if len(e.Features) == 0 {
		return fmt.Errorf("ENRICH_FEATURES must name at least one feature when ENRICH_ENABLED=true")
	}
	for _, f := range e.Features {
		if !validEnrichFeatures[f] {
			return fmt.Errorf("ENRICH_FEATURES contains unsupported feature %q (supported: ideology, agenda_category)", f)
		}
	}
	if e.RequestsPerSecond <= 0 {
		return fmt.Errorf("ENRICH_RPS must be positive")
	}
	if e.Burst < 1 {
		return fmt.Errorf("ENRICH_BURST must be at least 1")
	}
	if e.RefreshInterval < 0 {
		return fmt.Errorf("ENRICH_REFRESH_INTERVAL must not be negative")
	}
	return nil
}

// validateHTTPURL validates that a URL uses http or https and has a host
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	return nil
}

// Rate limit bounds
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// validateSecurity validates security configuration
func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// HasWildcardCORS reports whether CORS allows any origin.
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
