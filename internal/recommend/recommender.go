// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package recommend

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/deputyrec/internal/dataset"
	"github.com/tomtom215/deputyrec/internal/metrics"
	"github.com/tomtom215/deputyrec/internal/recommend/feature"
	"github.com/tomtom215/deputyrec/internal/recommend/matrix"
	"github.com/tomtom215/deputyrec/internal/recommend/storage"
)

// Recommender answers "which deputies are most similar to this one" queries.
//
// A Recommender is built once by New and is immutable afterwards, so it is
// safe for concurrent use without locking.
type Recommender struct {
	cfg    *Config
	logger zerolog.Logger

	schema     *feature.Schema
	table      *dataset.Table
	processed  *ProcessedMatrix
	similarity *mat.SymDense
	explainer  *Explainer

	// first row for each id and name
	idIndex   map[int64]int
	nameIndex map[string]int

	status Status
}

// New cleans raw, then loads the similarity model from the configured cache
// or builds it (and writes the cache). raw is not modified.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(ctx context.Context, cfg *Config, raw *dataset.Table, logger zerolog.Logger) (*Recommender, error) {
	start := time.Now()
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if raw.Len() == 0 {
		return nil, &DataIntegrityError{Column: dataset.IDColumn, Reason: "dataset has no rows"}
	}

	r := &Recommender{
		cfg:    cfg.Clone(),
		logger: logger.With().Str("component", "recommend").Logger(),
		schema: cfg.schema(),
	}

	cleaned, err := Clean(raw, r.schema)
	if err != nil {
		return nil, err
	}
	r.table = cleaned

	prep := NewPreprocessor(r.schema, cfg.Backend, cfg.SparseDensityThreshold)
	if err := prep.Fit(cleaned); err != nil {
		return nil, fmt.Errorf("fit preprocessor: %w", err)
	}
	checksum := cleaned.Checksum()

	source := "build"
	if cfg.CachePath == "" {
		if err := r.build(prep); err != nil {
			return nil, err
		}
	} else {
		fromCache, err := r.loadOrBuild(ctx, prep, checksum)
		if err != nil {
			return nil, err
		}
		if fromCache {
			source = "cache"
		}
	}

	r.indexRows()
	r.explainer = NewExplainer(cleaned, cfg.ExplainFields)

	rows, cols := r.processed.Matrix.Dims()
	r.status = Status{
		Rows:            rows,
		Columns:         cols,
		Backend:         string(r.processed.Matrix.State().Backend),
		FromCache:       source == "cache",
		DatasetChecksum: checksum,
		BuildDurationMS: time.Since(start).Milliseconds(),
	}
	metrics.RecordModelReady(source, time.Since(start), rows, cols)

	r.logger.Info().
		Int("rows", rows).
		Int("columns", cols).
		Str("backend", r.status.Backend).
		Str("source", source).
		Int64("duration_ms", r.status.BuildDurationMS).
		Msg("similarity model ready")

	return r, nil
}

// build runs the full pipeline: transform, weight once, cosine similarity.
func (r *Recommender) build(prep *Preprocessor) error {
	pm, sim, err := buildModel(prep, r.table)
	if err != nil {
		return err
	}
	r.processed = pm
	r.similarity = sim
	return nil
}

// buildModel is the only place tier weights are applied.
func buildModel(prep *Preprocessor, cleaned *dataset.Table) (*ProcessedMatrix, *mat.SymDense, error) {
	pm, err := prep.Transform(cleaned)
	if err != nil {
		return nil, nil, fmt.Errorf("transform dataset: %w", err)
	}
	if err := applyTierWeights(pm); err != nil {
		return nil, nil, fmt.Errorf("apply tier weights: %w", err)
	}
	return pm, pm.Matrix.CosineSimilarityAll(), nil
}

// loadOrBuild reads both artifacts when present and consistent; otherwise it
// builds the model under the cache lock and writes both artifacts.
func (r *Recommender) loadOrBuild(ctx context.Context, prep *Preprocessor, checksum string) (bool, error) {
	store, err := storage.NewStore(r.cfg.CachePath)
	if err != nil {
		return false, fmt.Errorf("open model cache: %w", err)
	}

	corrupt := false
	err = r.loadCached(ctx, store, prep, checksum)
	switch {
	case err == nil:
		metrics.RecordModelCacheEvent(metrics.CacheEventHit)
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		metrics.RecordModelCacheEvent(metrics.CacheEventMiss)
		r.logger.Info().Str("path", store.Dir()).Msg("no cached model, building")
	case errors.Is(err, ErrCacheCorruption):
		corrupt = true
		metrics.RecordModelCacheEvent(metrics.CacheEventCorrupt)
		r.logger.Warn().Err(err).Str("path", store.Dir()).Msg("cached model unusable, rebuilding")
	default:
		return false, fmt.Errorf("load cached model: %w", err)
	}

	lockCtx, cancel := context.WithTimeout(ctx, r.cfg.LockTimeout)
	defer cancel()
	unlock, err := store.Lock(lockCtx)
	if err != nil {
		metrics.RecordModelCacheEvent(metrics.CacheEventError)
		r.logger.Warn().Err(err).Msg("cache lock unavailable, building without writing the cache")
		return false, r.build(prep)
	}
	defer unlock()

	// Another process may have written the cache while we waited for the lock.
	if !corrupt {
		if err := r.loadCached(ctx, store, prep, checksum); err == nil {
			metrics.RecordModelCacheEvent(metrics.CacheEventHit)
			return true, nil
		}
	}

	buildStart := time.Now()
	if err := r.build(prep); err != nil {
		return false, err
	}

	if err := r.saveCached(ctx, store, checksum, time.Since(buildStart)); err != nil {
		metrics.RecordModelCacheEvent(metrics.CacheEventError)
		r.logger.Warn().Err(err).Str("path", store.Dir()).Msg("failed to write model cache")
		return false, nil
	}
	metrics.RecordModelCacheEvent(metrics.CacheEventWrite)
	return false, nil
}

// loadCached returns an error wrapping os.ErrNotExist when either artifact
// is absent, and a *CacheCorruptionError when an artifact cannot be used.
func (r *Recommender) loadCached(ctx context.Context, store *storage.Store, prep *Preprocessor, checksum string) error {
	if !store.Exists(storage.ArtifactData) || !store.Exists(storage.ArtifactSimilarity) {
		return fmt.Errorf("model artifacts: %w", os.ErrNotExist)
	}
	n := r.table.Len()

	var data storage.ProcessedState
	meta, err := store.Load(ctx, storage.ArtifactData, &data)
	if err != nil {
		return cacheErr(storage.ArtifactData, err)
	}
	m, err := matrix.FromState(data.Matrix)
	if err != nil {
		return &CacheCorruptionError{Artifact: storage.ArtifactData, Err: err}
	}
	if rows, _ := m.Dims(); rows != n {
		return &CacheCorruptionError{
			Artifact: storage.ArtifactData,
			Err:      fmt.Errorf("cached model has %d rows, dataset has %d", rows, n),
		}
	}
	if !slices.Equal(data.Columns, prep.Columns()) {
		return &CacheCorruptionError{
			Artifact: storage.ArtifactData,
			Err:      errors.New("cached feature columns do not match the dataset"),
		}
	}

	var simState storage.SimilarityState
	if _, err := store.Load(ctx, storage.ArtifactSimilarity, &simState); err != nil {
		return cacheErr(storage.ArtifactSimilarity, err)
	}
	if simState.N != n {
		return &CacheCorruptionError{
			Artifact: storage.ArtifactSimilarity,
			Err:      fmt.Errorf("cached similarity is %dx%d, dataset has %d rows", simState.N, simState.N, n),
		}
	}
	sim, err := matrix.UnpackSymmetric(simState.N, simState.Upper)
	if err != nil {
		return &CacheCorruptionError{Artifact: storage.ArtifactSimilarity, Err: err}
	}

	if meta.DatasetChecksum != checksum {
		r.logger.Warn().
			Str("cached_checksum", meta.DatasetChecksum).
			Str("dataset_checksum", checksum).
			Msg("cached model was built from a different dataset; delete the cache directory to rebuild")
	}

	r.processed = &ProcessedMatrix{Matrix: m, Columns: data.Columns}
	r.similarity = sim
	return nil
}

func cacheErr(artifact string, err error) error {
	if errors.Is(err, storage.ErrCorrupt) {
		return &CacheCorruptionError{Artifact: artifact, Err: err}
	}
	return err
}

// saveCached writes both artifacts. Each write is atomic on its own.
func (r *Recommender) saveCached(ctx context.Context, store *storage.Store, checksum string, took time.Duration) error {
	rows, cols := r.processed.Matrix.Dims()
	meta := storage.ArtifactMetadata{
		Rows:            rows,
		Cols:            cols,
		DatasetChecksum: checksum,
		BuildDurationMS: took.Milliseconds(),
	}

	data := storage.ProcessedState{Matrix: r.processed.Matrix.State(), Columns: r.processed.Columns}
	if err := store.Save(ctx, storage.ArtifactData, data, meta); err != nil {
		return err
	}

	n, upper := matrix.PackSymmetric(r.similarity)
	return store.Save(ctx, storage.ArtifactSimilarity, storage.SimilarityState{N: n, Upper: upper}, meta)
}

func (r *Recommender) indexRows() {
	n := r.table.Len()
	r.idIndex = make(map[int64]int, n)
	r.nameIndex = make(map[string]int, n)
	for i := 0; i < n; i++ {
		if _, ok := r.idIndex[r.table.ID(i)]; !ok {
			r.idIndex[r.table.ID(i)] = i
		}
		if _, ok := r.nameIndex[r.table.Name(i)]; !ok {
			r.nameIndex[r.table.Name(i)] = i
		}
	}
}

// RecommendByID returns up to topN deputies most similar to the deputy with
// the given id, by descending similarity. Ties keep dataset order. Rows
// sharing the query id are never returned, and each id appears once.
func (r *Recommender) RecommendByID(id int64, topN int) (*Response, error) {
	start := time.Now()
	resp, err := r.recommendByID(id, topN)
	metrics.RecordRecommendation("id", outcome(err), time.Since(start))
	return resp, err
}

func (r *Recommender) recommendByID(id int64, topN int) (*Response, error) {
	row, ok := r.idIndex[id]
	if !ok {
		return nil, &NotFoundError{ID: &id}
	}
	topN = max(topN, 0)

	n := r.table.Len()
	candidates := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if r.table.ID(i) != id {
			candidates = append(candidates, i)
		}
	}
	slices.SortStableFunc(candidates, func(a, b int) int {
		return cmp.Compare(r.similarity.At(row, b), r.similarity.At(row, a))
	})

	results := make([]SimilarDeputy, 0, min(topN, len(candidates)))
	seen := make(map[int64]struct{}, topN)
	for _, i := range candidates {
		if len(results) >= topN {
			break
		}
		candID := r.table.ID(i)
		if _, dup := seen[candID]; dup {
			continue
		}
		seen[candID] = struct{}{}

		keySimilarities, equalFields := r.explainer.Explain(row, i)
		results = append(results, SimilarDeputy{
			DeputyID:          candID,
			Name:              r.table.Name(i),
			SimilarityScore:   round(r.similarity.At(row, i), 4),
			KeySimilarities:   keySimilarities,
			MostSimilarFields: equalFields,
		})
	}

	return &Response{InputDeputyID: &id, SimilarDeputies: results}, nil
}

// RecommendByName resolves name to the first deputy with that exact name and
// delegates to RecommendByID.
func (r *Recommender) RecommendByName(name string, topN int) (*Response, error) {
	start := time.Now()
	resp, err := r.recommendByName(name, topN)
	metrics.RecordRecommendation("name", outcome(err), time.Since(start))
	return resp, err
}

func (r *Recommender) recommendByName(name string, topN int) (*Response, error) {
	row, ok := r.nameIndex[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	resp, err := r.recommendByID(r.table.ID(row), topN)
	if err != nil {
		return nil, err
	}
	resp.InputDeputyID = nil
	resp.InputDeputy = name
	return resp, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

// Profile compares the deputy's cleaned numeric features with the dataset
// mean and median.
func (r *Recommender) Profile(id int64) (*Profile, error) {
	row, ok := r.idIndex[id]
	if !ok {
		return nil, &NotFoundError{ID: &id}
	}

	p := &Profile{DeputyID: id, Name: r.table.Name(row)}
	for _, name := range r.schema.NumericFeatures() {
		col, _ := r.table.Numeric(name)
		detail := FeatureDetail{
			Feature: name,
			Tier:    r.schema.Lookup(name).String(),
			Value:   col[row],
			Mean:    mean(col),
			Median:  median(col),
		}
		if detail.Mean != 0 {
			detail.PercentDiff = round((detail.Value-detail.Mean)/detail.Mean*100, 2)
		}
		p.Features = append(p.Features, detail)
	}
	return p, nil
}

// Len returns the number of deputies in the model.
func (r *Recommender) Len() int {
	return r.table.Len()
}

// Status reports how the model was obtained.
func (r *Recommender) Status() Status {
	return r.status
}

// DefaultTopN returns the configured default result count.
func (r *Recommender) DefaultTopN() int {
	return r.cfg.DefaultTopN
}

// MaxTopN returns the configured maximum result count.
func (r *Recommender) MaxTopN() int {
	return r.cfg.MaxTopN
}

// Similarity returns the similarity between the first rows with ids a and b.
func (r *Recommender) Similarity(a, b int64) (float64, bool) {
	i, okA := r.idIndex[a]
	j, okB := r.idIndex[b]
	if !okA || !okB {
		return 0, false
	}
	return r.similarity.At(i, j), true
}
