// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are the paths searched for a configuration file.
// The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/deputyrec/config.yaml",
	"/etc/deputyrec/config.yml",
}

// ConfigPathEnvVar overrides the configuration file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults. Every field that
// environment variables or the config file may override appears here so
// koanf knows the full key space.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            3860,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Dataset: DatasetConfig{
			Path:       "",
			Format:     "auto",
			TextColumn: "propositions_list",
			DeriveCost: true,
		},
		Recommend: RecommendConfig{
			CachePath:              "/data/model",
			Backend:                "auto",
			SparseDensityThreshold: 0.3,
			LockTimeout:            30 * time.Second,
			DefaultTopN:            5,
			MaxTopN:                100,
			ExplainFields:          []string{},
			ResponseCacheSize:      1000,
			ResponseCacheTTL:       5 * time.Minute,
		},
		Enrich: EnrichConfig{
			Enabled:           false, // opt-in, needs an API key
			Model:             "gpt-4o-mini",
			Timeout:           30 * time.Second,
			MaxRetries:        2,
			RequestsPerSecond: 2,
			Burst:             1,
			BreakerFailures:   5,
			BreakerTimeout:    2 * time.Minute,
			MaxInputChars:     12000,
			LabelStorePath:    "/data/labels",
			Features:          []string{"ideology", "agenda_category"},
			RefreshInterval:   0,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// Precedence is ENV > File > Defaults.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// DATASET_PATH -> dataset.path
	// OPENAI_API_KEY -> enrich.api_key
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first config file found, or "" if none.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
	"recommend.explain_fields",
	"enrich.features",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while YAML lists arrive already split.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}

		trimmed := make([]string, 0)
		for _, p := range strings.Split(strVal, ",") {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps flat environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	// Dataset
	"dataset_path":        "dataset.path",
	"dataset_format":      "dataset.format",
	"dataset_text_column": "dataset.text_column",
	"dataset_derive_cost": "dataset.derive_cost",

	// Recommender
	"recommend_cache_path":          "recommend.cache_path",
	"recommend_backend":             "recommend.backend",
	"recommend_sparse_threshold":    "recommend.sparse_density_threshold",
	"recommend_lock_timeout":        "recommend.lock_timeout",
	"recommend_default_top_n":       "recommend.default_top_n",
	"recommend_max_top_n":           "recommend.max_top_n",
	"recommend_explain_fields":      "recommend.explain_fields",
	"recommend_response_cache_size": "recommend.response_cache_size",
	"recommend_response_cache_ttl":  "recommend.response_cache_ttl",

	// Enrichment
	"enrich_enabled":          "enrich.enabled",
	"openai_api_key":          "enrich.api_key",
	"openai_base_url":         "enrich.base_url",
	"openai_model":            "enrich.model",
	"enrich_timeout":          "enrich.timeout",
	"enrich_max_retries":      "enrich.max_retries",
	"enrich_rps":              "enrich.requests_per_second",
	"enrich_burst":            "enrich.burst",
	"enrich_breaker_failures": "enrich.breaker_failures",
	"enrich_breaker_timeout":  "enrich.breaker_timeout",
	"enrich_max_input_chars":  "enrich.max_input_chars",
	"enrich_label_store_path": "enrich.label_store_path",
	"enrich_features":         "enrich.features",
	"enrich_refresh_interval": "enrich.refresh_interval",

	// Security
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables return "" and are skipped, so unrelated environment
// variables never leak into the configuration.
//
// Examples:
//   - DATASET_PATH -> dataset.path
//   - OPENAI_API_KEY -> enrich.api_key
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
