// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/tomtom215/deputyrec/internal/recommend/feature"
	"github.com/tomtom215/deputyrec/internal/recommend/matrix"
)

// Artifact names.
const (
	ArtifactData       = "data"
	ArtifactSimilarity = "similarity"
)

// FormatVersion is bumped whenever the artifact layout changes.
const FormatVersion = 1

const (
	artifactExt = ".gob.gz"
	lockFile    = ".lock"
)

// ErrCorrupt is wrapped by every Load error caused by unreadable or
// inconsistent artifact contents. A missing artifact is reported with
// os.ErrNotExist instead.
var ErrCorrupt = errors.New("corrupt artifact")

// ArtifactMetadata describes a stored artifact.
type ArtifactMetadata struct {
	// Name is the artifact name (data or similarity).
	Name string `json:"name"`

	// FormatVersion is the layout version the artifact was written with.
	FormatVersion int `json:"format_version"`

	// SavedAt is when the artifact was written.
	SavedAt time.Time `json:"saved_at"`

	// Rows is the number of entities the model was built from.
	Rows int `json:"rows"`

	// Cols is the number of preprocessed feature columns.
	Cols int `json:"cols"`

	// DatasetChecksum identifies the cleaned dataset the model was built from.
	// It is informational only.
	DatasetChecksum string `json:"dataset_checksum"`

	// Checksum is the SHA-256 checksum of the uncompressed payload.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed payload size.
	SizeBytes int64 `json:"size_bytes"`

	// BuildDurationMS is how long the model took to build.
	BuildDurationMS int64 `json:"build_duration_ms"`
}

// ProcessedState is the serializable preprocessed feature matrix with its
// column provenance.
type ProcessedState struct {
	Matrix  matrix.State
	Columns []feature.Column
}

// SimilarityState is the packed upper triangle of the similarity matrix.
type SimilarityState struct {
	N     int
	Upper []float64
}

// storedFile is the on-disk format for artifact files.
type storedFile struct {
	Metadata       ArtifactMetadata
	CompressedData []byte
}

// Store reads and writes model artifacts under a base directory.
type Store struct {
	baseDir string
	lock    *flock.Flock
}

// NewStore creates a store rooted at baseDir, creating it if needed.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for model storage
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &Store{
		baseDir: baseDir,
		lock:    flock.New(filepath.Join(baseDir, lockFile)),
	}, nil
}

// Dir returns the base directory.
func (s *Store) Dir() string {
	return s.baseDir
}

// Lock acquires the exclusive cross-process write lock, retrying until ctx
// is done. The returned function releases it.
func (s *Store) Lock(ctx context.Context) (func(), error) {
	locked, err := s.lock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("acquire cache lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("acquire cache lock: %s is held by another process", s.lock.Path())
	}
	return func() { _ = s.lock.Unlock() }, nil //nolint:errcheck // unlock failure leaves the lock to the OS on exit
}

// Exists reports whether the named artifact is present.
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(s.artifactPath(name))
	return err == nil
}

// Save serializes data and atomically replaces the named artifact.
// The payload is written to a temporary file in the same directory and
// renamed into place, so readers never observe a partial file.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *Store) Save(ctx context.Context, name string, data any, meta ArtifactMetadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(data); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	rawData := buf.Bytes()

	hash := sha256.Sum256(rawData)
	meta.Checksum = hex.EncodeToString(hash[:])

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(rawData); err != nil {
		return fmt.Errorf("compress %s: %w", name, err)
	}
	if err := gzw.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}

	meta.Name = name
	meta.FormatVersion = FormatVersion
	meta.SizeBytes = int64(compressed.Len())
	meta.SavedAt = time.Now().UTC()

	tmp, err := os.CreateTemp(s.baseDir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() //nolint:errcheck // no-op after a successful rename

	sf := storedFile{Metadata: meta, CompressedData: compressed.Bytes()}
	if err := gob.NewEncoder(tmp).Encode(sf); err != nil {
		_ = tmp.Close() //nolint:errcheck // write error takes precedence
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close() //nolint:errcheck // sync error takes precedence
		return fmt.Errorf("sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, s.artifactPath(name)); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

// Load reads the named artifact into target and returns its metadata.
func (s *Store) Load(ctx context.Context, name string, target any) (*ArtifactMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.artifactPath(name))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrCorrupt, name, err)
	}
	if sf.Metadata.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("%w: %s has format version %d, want %d", ErrCorrupt, name, sf.Metadata.FormatVersion, FormatVersion)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("%w: decompress %s: %v", ErrCorrupt, name, err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	rawData, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("%w: read decompressed %s: %v", ErrCorrupt, name, err)
	}

	hash := sha256.Sum256(rawData)
	if checksum := hex.EncodeToString(hash[:]); checksum != sf.Metadata.Checksum {
		return nil, fmt.Errorf("%w: checksum mismatch: expected %s, got %s", ErrCorrupt, sf.Metadata.Checksum, checksum)
	}

	if err := gob.NewDecoder(bytes.NewReader(rawData)).Decode(target); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrCorrupt, name, err)
	}
	return &sf.Metadata, nil
}

// Remove deletes the named artifact. Removing a missing artifact is not an error.
func (s *Store) Remove(name string) error {
	if err := os.Remove(s.artifactPath(name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}

func (s *Store) artifactPath(name string) string {
	return filepath.Join(s.baseDir, name+artifactExt)
}

// Register gob types for serialization.
//
//nolint:gochecknoinits // gob.Register must be called in init for type registration
func init() {
	gob.Register(feature.NumericColumn{})
	gob.Register(feature.CategoricalColumn{})
}
