// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package config

import (
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Dataset   DatasetConfig   `koanf:"dataset"`
	Recommend RecommendConfig `koanf:"recommend"`
	Enrich    EnrichConfig    `koanf:"enrich"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DatasetConfig describes the deputy dataset to load at startup.
type DatasetConfig struct {
	// Path is the CSV or Parquet file with one row per deputy. Required.
	Path string `koanf:"path"`

	// Format is auto, csv or duckdb. Auto picks duckdb for .parquet files.
	Format string `koanf:"format"`

	// TextColumn holds the free-text proposition list sent to the
	// enrichment provider.
	TextColumn string `koanf:"text_column"`

	// DeriveCost computes cost_per_proposition from total_expenses and
	// proposition_count when the dataset lacks it.
	DeriveCost bool `koanf:"derive_cost"`
}

// RecommendConfig holds recommender and query settings
type RecommendConfig struct {
	// CachePath is the model artifact directory. Empty disables caching.
	CachePath string `koanf:"cache_path"`

	// Backend is auto, dense or sparse.
	Backend                string        `koanf:"backend"`
	SparseDensityThreshold float64       `koanf:"sparse_density_threshold"`
	LockTimeout            time.Duration `koanf:"lock_timeout"`

	DefaultTopN int `koanf:"default_top_n"`
	MaxTopN     int `koanf:"max_top_n"`

	// ExplainFields lists the columns compared in explanations, each as
	// "column" or "column=Label". Empty keeps the built-in list.
	ExplainFields []string `koanf:"explain_fields"`

	// ResponseCacheSize is the number of query responses kept in the LRU
	// cache. Zero disables it.
	ResponseCacheSize int           `koanf:"response_cache_size"`
	ResponseCacheTTL  time.Duration `koanf:"response_cache_ttl"`

	// Features replaces the built-in feature schema when non-empty.
	// It can only be set from the YAML file.
	Features []FeatureConfig `koanf:"features"`
}

// FeatureConfig declares one schema feature: a dataset column, its kind
// (numeric or categorical) and its importance tier (high, medium or low).
type FeatureConfig struct {
	Name string `koanf:"name"`
	Kind string `koanf:"kind"`
	Tier string `koanf:"tier"`
}

// ExplainFieldSpec is one parsed entry of RecommendConfig.ExplainFields.
type ExplainFieldSpec struct {
	Name  string
	Label string
}

// ParsedExplainFields splits ExplainFields into names and labels. An entry
// without a label uses the column name as its label.
func (r *RecommendConfig) ParsedExplainFields() []ExplainFieldSpec {
	out := make([]ExplainFieldSpec, 0, len(r.ExplainFields))
	for _, raw := range r.ExplainFields {
		name, label, found := strings.Cut(raw, "=")
		name = strings.TrimSpace(name)
		label = strings.TrimSpace(label)
		if name == "" {
			continue
		}
		if !found || label == "" {
			label = name
		}
		out = append(out, ExplainFieldSpec{Name: name, Label: label})
	}
	return out
}

// EnrichConfig holds the LLM label enrichment settings.
// Enrichment fills missing categorical values before the model is built.
type EnrichConfig struct {
	Enabled bool `koanf:"enabled"`

	// OpenAI-compatible chat completions endpoint
	APIKey     string        `koanf:"api_key"`
	BaseURL    string        `koanf:"base_url"`
	Model      string        `koanf:"model"`
	Timeout    time.Duration `koanf:"timeout"`
	MaxRetries int           `koanf:"max_retries"`

	// Client-side throttle
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`

	// Circuit breaker
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`

	MaxInputChars int `koanf:"max_input_chars"`

	// LabelStorePath is the BadgerDB directory for persisted labels.
	// Empty keeps labels in memory for the life of the process.
	LabelStorePath string `koanf:"label_store_path"`

	// Features are the categorical columns to enrich.
	Features []string `koanf:"features"`

	// RefreshInterval re-runs enrichment in the background. Zero disables it.
	RefreshInterval time.Duration `koanf:"refresh_interval"`
}

// SecurityConfig holds CORS and rate limit settings
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// Load reads configuration from:
//  1. Built-in defaults
//  2. Config file (config.yaml if exists, or path specified in CONFIG_PATH env var)
//  3. Environment variables
//
// See LoadWithKoanf() for the underlying implementation.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
