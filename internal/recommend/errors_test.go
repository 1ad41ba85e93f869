// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package recommend

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/tomtom215/deputyrec/internal/dataset"
)

func TestErrors_Is(t *testing.T) {
	id := int64(7)
	tests := []struct {
		name    string
		err     error
		target  error
		wantMsg string
	}{
		{
			name:    "data integrity",
			err:     &DataIntegrityError{Column: "ideology", Reason: "missing from dataset"},
			target:  ErrDataIntegrity,
			wantMsg: `data integrity: column "ideology": missing from dataset`,
		},
		{
			name:    "not found by id",
			err:     &NotFoundError{ID: &id},
			target:  ErrNotFound,
			wantMsg: "deputy with id 7 not found",
		},
		{
			name:    "not found by name",
			err:     &NotFoundError{Name: "Fulano"},
			target:  ErrNotFound,
			wantMsg: `deputy with name "Fulano" not found`,
		},
		{
			name:    "cache corruption",
			err:     &CacheCorruptionError{Artifact: "similarity", Err: io.ErrUnexpectedEOF},
			target:  ErrCacheCorruption,
			wantMsg: "cache artifact similarity is unusable: unexpected EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("query: %w", tt.err)
			if !errors.Is(wrapped, tt.target) {
				t.Errorf("errors.Is(%v, %v) = false, want true", wrapped, tt.target)
			}
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestCacheCorruptionError_Unwrap(t *testing.T) {
	err := &CacheCorruptionError{Artifact: "data", Err: io.ErrUnexpectedEOF}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("errors.Is(err, io.ErrUnexpectedEOF) = false, want true")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("errors.Is(err, ErrNotFound) = true, want false")
	}
}

func TestAsDataIntegrity(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantIntegrity bool
		wantColumn    string
		wantReason    string
	}{
		{
			name:          "missing id column",
			err:           fmt.Errorf("load deputies.csv: %w", &dataset.MissingColumnError{Column: dataset.IDColumn}),
			wantIntegrity: true,
			wantColumn:    dataset.IDColumn,
			wantReason:    "missing from dataset",
		},
		{
			name:          "empty id value",
			err:           fmt.Errorf("row 3: %w", &dataset.MissingColumnError{Column: dataset.IDColumn, Reason: "empty value"}),
			wantIntegrity: true,
			wantColumn:    dataset.IDColumn,
			wantReason:    "empty value",
		},
		{
			name: "unrelated error",
			err:  io.ErrUnexpectedEOF,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AsDataIntegrity(tt.err)
			if errors.Is(got, ErrDataIntegrity) != tt.wantIntegrity {
				t.Fatalf("errors.Is(%v, ErrDataIntegrity) = %v, want %v", got, !tt.wantIntegrity, tt.wantIntegrity)
			}
			if !tt.wantIntegrity {
				if got != tt.err {
					t.Errorf("AsDataIntegrity() = %v, want the input unchanged", got)
				}
				return
			}

			var die *DataIntegrityError
			if !errors.As(got, &die) {
				t.Fatalf("AsDataIntegrity() = %T, want *DataIntegrityError", got)
			}
			if die.Column != tt.wantColumn || die.Reason != tt.wantReason {
				t.Errorf("DataIntegrityError = {%q, %q}, want {%q, %q}", die.Column, die.Reason, tt.wantColumn, tt.wantReason)
			}
			if !errors.Is(got, dataset.ErrMissingColumn) {
				t.Error("errors.Is(err, dataset.ErrMissingColumn) = false, want the cause kept")
			}
		})
	}
}
