// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/deputyrec/internal/api"
	"github.com/tomtom215/deputyrec/internal/config"
	"github.com/tomtom215/deputyrec/internal/dataset"
	"github.com/tomtom215/deputyrec/internal/enrich"
	"github.com/tomtom215/deputyrec/internal/models"
	"github.com/tomtom215/deputyrec/internal/recommend"
	"github.com/tomtom215/deputyrec/internal/recommend/feature"
	"github.com/tomtom215/deputyrec/internal/recommend/matrix"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv(config.ConfigPathEnvVar, "")
	t.Setenv("DATASET_PATH", "deputies.csv")

	cfg, err := config.LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	return cfg
}

func TestBuildRecommendConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Recommend.Backend = "sparse"
	cfg.Recommend.DefaultTopN = 7
	cfg.Recommend.MaxTopN = 20
	cfg.Recommend.LockTimeout = 5 * time.Second
	cfg.Recommend.ExplainFields = []string{"ideology=Ideologia", "party"}

	schema := feature.DefaultSchema()
	rc, err := buildRecommendConfig(cfg, schema)
	if err != nil {
		t.Fatalf("buildRecommendConfig() error = %v", err)
	}

	if rc.Backend != matrix.BackendSparse {
		t.Errorf("Backend = %q, want sparse", rc.Backend)
	}
	if rc.DefaultTopN != 7 || rc.MaxTopN != 20 {
		t.Errorf("top_n = %d/%d, want 7/20", rc.DefaultTopN, rc.MaxTopN)
	}
	if rc.LockTimeout != 5*time.Second {
		t.Errorf("LockTimeout = %v, want 5s", rc.LockTimeout)
	}
	if rc.CachePath != cfg.Recommend.CachePath {
		t.Errorf("CachePath = %q, want %q", rc.CachePath, cfg.Recommend.CachePath)
	}
	if rc.Schema != schema {
		t.Error("Schema not passed through")
	}
	want := []recommend.ExplainField{{Name: "ideology", Label: "Ideologia"}, {Name: "party", Label: "party"}}
	if !slices.Equal(rc.ExplainFields, want) {
		t.Errorf("ExplainFields = %v, want %v", rc.ExplainFields, want)
	}
}

func TestBuildRecommendConfig_DefaultExplainFields(t *testing.T) {
	cfg := testConfig(t)

	rc, err := buildRecommendConfig(cfg, feature.DefaultSchema())
	if err != nil {
		t.Fatalf("buildRecommendConfig() error = %v", err)
	}
	if !slices.Equal(rc.ExplainFields, recommend.DefaultExplainFields) {
		t.Errorf("ExplainFields = %v, want defaults", rc.ExplainFields)
	}
}

func TestDatasetColumns(t *testing.T) {
	schema := feature.DefaultSchema()

	tests := []struct {
		name       string
		deriveCost bool
		enrich     bool
		wantTotal  bool
		wantText   bool
	}{
		{"plain", false, false, false, false},
		{"derive cost", true, false, true, false},
		{"enrichment", false, true, false, true},
		{"both", true, true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Dataset.DeriveCost = tt.deriveCost
			cfg.Enrich.Enabled = tt.enrich

			cols := datasetColumns(schema, cfg)
			if got := slices.Contains(cols.Numeric, dataset.TotalExpensesColumn); got != tt.wantTotal {
				t.Errorf("numeric has %s = %v, want %v", dataset.TotalExpensesColumn, got, tt.wantTotal)
			}
			if got := slices.Contains(cols.String, cfg.Dataset.TextColumn); got != tt.wantText {
				t.Errorf("string has %s = %v, want %v", cfg.Dataset.TextColumn, got, tt.wantText)
			}
			if len(schema.NumericFeatures()) != 10 {
				t.Error("datasetColumns() modified the schema")
			}
		})
	}
}

func TestInitEnrichment_Disabled(t *testing.T) {
	cfg := testConfig(t)

	e, err := initEnrichment(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("initEnrichment() error = %v", err)
	}
	if e.enabled() {
		t.Error("enabled() = true with ENRICH_ENABLED=false")
	}
	e.Close()
}

func TestInitEnrichment_Enabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Enrich.Enabled = true
	cfg.Enrich.APIKey = "sk-test"
	cfg.Enrich.LabelStorePath = t.TempDir()

	e, err := initEnrichment(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("initEnrichment() error = %v", err)
	}
	defer e.Close()

	if !e.enabled() {
		t.Fatal("enabled() = false")
	}
	var features []string
	for _, target := range e.targets {
		features = append(features, target.Feature)
	}
	if !slices.Equal(features, cfg.Enrich.Features) {
		t.Errorf("targets = %v, want %v", features, cfg.Enrich.Features)
	}
}

func TestOpenAIConfig(t *testing.T) {
	oc := openAIConfig(config.EnrichConfig{
		APIKey:            "sk-test",
		BaseURL:           "http://localhost:11434/v1/",
		Timeout:           time.Second,
		RequestsPerSecond: 5,
		Burst:             2,
		BreakerFailures:   3,
		MaxInputChars:     100,
	})

	if oc.Model == "" {
		t.Error("Model empty, want default model")
	}
	if oc.BaseURL != "http://localhost:11434/v1/" || oc.RequestsPerSecond != 5 || oc.Burst != 2 {
		t.Errorf("openAIConfig() = %+v", oc)
	}
}

func TestBuildSchema(t *testing.T) {
	t.Run("empty keeps defaults", func(t *testing.T) {
		schema, err := buildSchema(nil)
		if err != nil {
			t.Fatalf("buildSchema(nil) error = %v", err)
		}
		want := feature.DefaultSchema()
		if !slices.Equal(schema.NumericFeatures(), want.NumericFeatures()) ||
			!slices.Equal(schema.CategoricalFeatures(), want.CategoricalFeatures()) {
			t.Errorf("buildSchema(nil) = %v/%v, want default schema", schema.NumericFeatures(), schema.CategoricalFeatures())
		}
	})

	t.Run("override", func(t *testing.T) {
		schema, err := buildSchema([]config.FeatureConfig{
			{Name: "party", Kind: "categorical", Tier: "low"},
			{Name: " attendance_rate ", Kind: "Numeric", Tier: "HIGH"},
			{Name: "ideology", Kind: "categorical", Tier: "high"},
		})
		if err != nil {
			t.Fatalf("buildSchema() error = %v", err)
		}
		if got := schema.NumericFeatures(); !slices.Equal(got, []string{"attendance_rate"}) {
			t.Errorf("NumericFeatures() = %v, want [attendance_rate]", got)
		}
		if got := schema.CategoricalFeatures(); !slices.Equal(got, []string{"ideology", "party"}) {
			t.Errorf("CategoricalFeatures() = %v, want [ideology party]", got)
		}
		if got := schema.Lookup("attendance_rate"); got != feature.TierHigh {
			t.Errorf("Lookup(attendance_rate) = %v, want high", got)
		}
		if _, ok := schema.Descriptor("proposition_count"); ok {
			t.Error("override kept a default feature")
		}
	})

	tests := []struct {
		name     string
		features []config.FeatureConfig
	}{
		{"bad kind", []config.FeatureConfig{{Name: "party", Kind: "ordinal", Tier: "low"}}},
		{"bad tier", []config.FeatureConfig{{Name: "party", Kind: "categorical", Tier: "top"}}},
		{"duplicate", []config.FeatureConfig{
			{Name: "party", Kind: "categorical", Tier: "low"},
			{Name: "party", Kind: "categorical", Tier: "high"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := buildSchema(tt.features); err == nil {
				t.Error("buildSchema() expected error, got nil")
			}
		})
	}
}

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deputies.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write dataset: %v", err)
	}
	return path
}

func TestModelLoader_FeatureOverride(t *testing.T) {
	cfg := testConfig(t)
	cfg.Dataset.Path = writeDataset(t, "deputy_id,name,attendance_rate,party\n"+
		"1,Ana,0.9,X\n2,Bruno,0.85,X\n3,Carla,0.2,Y\n")
	cfg.Dataset.Format = "csv"
	cfg.Dataset.DeriveCost = false
	cfg.Recommend.CachePath = ""
	cfg.Recommend.Features = []config.FeatureConfig{
		{Name: "attendance_rate", Kind: "numeric", Tier: "high"},
		{Name: "party", Kind: "categorical", Tier: "low"},
	}

	handler := api.NewHandler(api.HandlerConfig{}, zerolog.Nop())
	loader := &modelLoader{cfg: cfg, handler: handler, logger: zerolog.Nop()}
	if err := loader.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	rec := httptest.NewRecorder()
	handler.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("HealthReady() status = %d, want 200", rec.Code)
	}
	var resp struct {
		Data models.ReadinessStatus `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode readiness: %v", err)
	}
	if resp.Data.Deputies != 3 {
		t.Errorf("Deputies = %d, want 3", resp.Data.Deputies)
	}
	// attendance_rate plus one indicator per party.
	if resp.Data.FeatureColumns != 3 {
		t.Errorf("FeatureColumns = %d, want 3", resp.Data.FeatureColumns)
	}
}

func TestModelLoader_MissingIDColumn(t *testing.T) {
	cfg := testConfig(t)
	cfg.Dataset.Path = writeDataset(t, "name,attendance_rate\nAna,0.9\n")
	cfg.Dataset.Format = "csv"
	cfg.Recommend.CachePath = ""

	loader := &modelLoader{cfg: cfg, handler: api.NewHandler(api.HandlerConfig{}, zerolog.Nop()), logger: zerolog.Nop()}
	err := loader.Load(context.Background())
	if !errors.Is(err, recommend.ErrDataIntegrity) {
		t.Fatalf("Load() error = %v, want ErrDataIntegrity", err)
	}
	var die *recommend.DataIntegrityError
	if !errors.As(err, &die) || die.Column != dataset.IDColumn {
		t.Errorf("Load() error = %v, want DataIntegrityError for %s", err, dataset.IDColumn)
	}
}

func TestEnrichComponents_TargetsFor(t *testing.T) {
	e := &enrichComponents{targets: []enrich.Target{
		{Feature: "ideology", Provider: enrich.StaticProvider{}},
		{Feature: "agenda_category", Provider: enrich.StaticProvider{}},
	}}

	schema, err := buildSchema([]config.FeatureConfig{
		{Name: "ideology", Kind: "categorical", Tier: "high"},
		{Name: "agenda_category", Kind: "numeric", Tier: "medium"},
	})
	if err != nil {
		t.Fatalf("buildSchema() error = %v", err)
	}

	var got []string
	for _, target := range e.targetsFor(schema, zerolog.Nop()) {
		got = append(got, target.Feature)
	}
	if !slices.Equal(got, []string{"ideology"}) {
		t.Errorf("targetsFor() = %v, want [ideology]", got)
	}

	var disabled *enrichComponents
	if targets := disabled.targetsFor(feature.DefaultSchema(), zerolog.Nop()); len(targets) != 0 {
		t.Errorf("targetsFor() on disabled enrichment = %v, want none", targets)
	}
}
