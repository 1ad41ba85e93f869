// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package recommend

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/tomtom215/deputyrec/internal/recommend/feature"
	"github.com/tomtom215/deputyrec/internal/recommend/matrix"
)

// Config contains all configuration for the recommender.
type Config struct {
	// CachePath is the directory holding the cached model artifacts.
	// Empty disables the cache.
	CachePath string `json:"cache_path"`

	// Backend selects the feature matrix representation.
	Backend matrix.Backend `json:"backend"`

	// SparseDensityThreshold is the non-zero density below which the auto
	// backend uses the sparse representation.
	SparseDensityThreshold float64 `json:"sparse_density_threshold"`

	// LockTimeout bounds how long construction waits for the cache write lock.
	LockTimeout time.Duration `json:"lock_timeout"`

	// DefaultTopN is used when a query does not specify top_n.
	DefaultTopN int `json:"default_top_n"`

	// MaxTopN is the largest accepted top_n.
	MaxTopN int `json:"max_top_n"`

	// ExplainFields are compared in every result explanation.
	ExplainFields []ExplainField `json:"explain_fields"`

	// Schema is the feature schema. Nil means feature.DefaultSchema().
	Schema *feature.Schema `json:"-"`
}

// DefaultConfig returns the default recommender configuration.
func DefaultConfig() *Config {
	return &Config{
		Backend:                matrix.BackendAuto,
		SparseDensityThreshold: matrix.DefaultDensityThreshold,
		LockTimeout:            30 * time.Second,
		DefaultTopN:            5,
		MaxTopN:                100,
		ExplainFields:          slices.Clone(DefaultExplainFields),
		Schema:                 feature.DefaultSchema(),
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if _, err := matrix.ParseBackend(string(c.Backend)); err != nil {
		return err
	}
	if c.SparseDensityThreshold < 0 || c.SparseDensityThreshold > 1 {
		return fmt.Errorf("sparse_density_threshold must be in [0, 1], got %f", c.SparseDensityThreshold)
	}
	if c.LockTimeout <= 0 {
		return fmt.Errorf("lock_timeout must be positive, got %v", c.LockTimeout)
	}
	if c.DefaultTopN < 1 {
		return fmt.Errorf("default_top_n must be positive, got %d", c.DefaultTopN)
	}
	if c.MaxTopN < c.DefaultTopN {
		return fmt.Errorf("max_top_n must be >= default_top_n, got %d < %d", c.MaxTopN, c.DefaultTopN)
	}
	for _, f := range c.ExplainFields {
		if f.Name == "" || f.Label == "" {
			return errors.New("explain fields require a name and a label")
		}
	}
	return nil
}

// schema returns the configured schema or the default one.
func (c *Config) schema() *feature.Schema {
	if c.Schema != nil {
		return c.Schema
	}
	return feature.DefaultSchema()
}

// Clone returns a copy of the configuration. The schema is immutable and shared.
func (c *Config) Clone() *Config {
	out := *c
	out.ExplainFields = slices.Clone(c.ExplainFields)
	return &out
}
