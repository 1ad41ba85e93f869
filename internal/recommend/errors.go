// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package recommend

import (
	"errors"
	"fmt"

	"github.com/tomtom215/deputyrec/internal/dataset"
)

// Sentinel errors for errors.Is matching.
var (
	// ErrDataIntegrity means the dataset cannot be used to build a model.
	ErrDataIntegrity = errors.New("data integrity error")

	// ErrNotFound means the queried deputy does not exist.
	ErrNotFound = errors.New("deputy not found")

	// ErrCacheCorruption means a cached artifact could not be used.
	ErrCacheCorruption = errors.New("cache corruption")
)

// DataIntegrityError reports a missing or unusable dataset column.
type DataIntegrityError struct {
	Column string
	Reason string
	Err    error
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("data integrity: column %q: %s", e.Column, e.Reason)
}

// Is makes errors.Is(err, ErrDataIntegrity) match.
func (e *DataIntegrityError) Is(target error) bool {
	return target == ErrDataIntegrity
}

// Unwrap returns the underlying cause, if any.
func (e *DataIntegrityError) Unwrap() error {
	return e.Err
}

// AsDataIntegrity converts a dataset load failure caused by a missing id or
// name column into a *DataIntegrityError. Other errors are returned unchanged.
func AsDataIntegrity(err error) error {
	var missing *dataset.MissingColumnError
	if !errors.As(err, &missing) {
		return err
	}
	reason := "missing from dataset"
	if missing.Reason != "" {
		reason = missing.Reason
	}
	return &DataIntegrityError{Column: missing.Column, Reason: reason, Err: err}
}

// NotFoundError reports an unknown deputy id or name.
// Exactly one of ID and Name is set.
type NotFoundError struct {
	ID   *int64
	Name string
}

func (e *NotFoundError) Error() string {
	if e.ID != nil {
		return fmt.Sprintf("deputy with id %d not found", *e.ID)
	}
	return fmt.Sprintf("deputy with name %q not found", e.Name)
}

// Is makes errors.Is(err, ErrNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// CacheCorruptionError reports an unusable cached artifact.
type CacheCorruptionError struct {
	Artifact string
	Err      error
}

func (e *CacheCorruptionError) Error() string {
	return fmt.Sprintf("cache artifact %s is unusable: %v", e.Artifact, e.Err)
}

// Unwrap returns the underlying cause.
func (e *CacheCorruptionError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrCacheCorruption) match.
func (e *CacheCorruptionError) Is(target error) bool {
	return target == ErrCacheCorruption
}
