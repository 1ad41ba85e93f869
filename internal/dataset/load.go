// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Supported dataset formats.
const (
	FormatAuto   = "auto"
	FormatCSV    = "csv"
	FormatDuckDB = "duckdb"
)

// ResolveFormat maps "auto" (or empty) to a concrete loader based on the
// file extension. Parquet files need DuckDB; everything else is CSV.
func ResolveFormat(format, path string) (string, error) {
	switch strings.ToLower(format) {
	case "", FormatAuto:
		if strings.EqualFold(filepath.Ext(path), ".parquet") {
			return FormatDuckDB, nil
		}
		return FormatCSV, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatDuckDB:
		return FormatDuckDB, nil
	default:
		return "", fmt.Errorf("unsupported dataset format %q (expected auto, csv or duckdb)", format)
	}
}

// Load reads the dataset at path with the loader selected by format.
func Load(ctx context.Context, path, format string, cols Columns) (*Table, error) {
	resolved, err := ResolveFormat(format, path)
	if err != nil {
		return nil, err
	}
	if resolved == FormatDuckDB {
		return LoadDuckDB(ctx, path, cols)
	}
	return LoadCSVFile(path, cols)
}
