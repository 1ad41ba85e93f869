// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ErrMissingColumn is returned when a required column is absent from the source.
var ErrMissingColumn = errors.New("missing required column")

// MissingColumnError names the required column that is absent. Reason is set
// when the column exists but a row has no value in it.
type MissingColumnError struct {
	Column string
	Reason string
}

func (e *MissingColumnError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%v: %s (%s)", ErrMissingColumn, e.Column, e.Reason)
	}
	return fmt.Sprintf("%v: %s", ErrMissingColumn, e.Column)
}

// Is makes errors.Is(err, ErrMissingColumn) match.
func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

// LoadCSVFile reads a CSV file with a header row.
func LoadCSVFile(path string, cols Columns) (*Table, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // read-only file

	t, err := LoadCSV(f, cols)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return t, nil
}

// LoadCSV reads CSV records from r. The first record is the header.
//
// The id and name columns are required. Declared numeric columns that fail
// to parse are treated as missing. Declared columns absent from the header
// are skipped; schema validation happens later, in the cleaner.
func LoadCSV(r io.Reader, cols Columns) (*Table, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	idIdx, ok := index[IDColumn]
	if !ok {
		return nil, &MissingColumnError{Column: IDColumn}
	}
	nameIdx, ok := index[NameColumn]
	if !ok {
		return nil, &MissingColumnError{Column: NameColumn}
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}

	ids := make([]int64, len(records))
	names := make([]string, len(records))
	for row, rec := range records {
		id, err := parseID(field(rec, idIdx))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row+2, err)
		}
		ids[row] = id
		names[row] = field(rec, nameIdx)
	}

	t, err := NewTable(ids, names)
	if err != nil {
		return nil, err
	}

	for _, name := range cols.Numeric {
		col, ok := index[name]
		if !ok {
			continue
		}
		values := make([]float64, len(records))
		for row, rec := range records {
			values[row] = parseFloat(field(rec, col))
		}
		if err := t.SetNumeric(name, values); err != nil {
			return nil, err
		}
	}

	for _, name := range cols.String {
		col, ok := index[name]
		if !ok {
			continue
		}
		values := make([]string, len(records))
		for row, rec := range records {
			values[row] = field(rec, col)
		}
		if err := t.SetString(name, values); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// parseID accepts integer ids, including integral floats such as "42.0"
// written by dataframe exports.
func parseID(s string) (int64, error) {
	if s == "" {
		return 0, &MissingColumnError{Column: IDColumn, Reason: "empty value"}
	}
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid %s %q", IDColumn, s)
	}
	return int64(f), nil
}

// parseFloat returns NaN for empty or unparsable cells. Infinity is kept so
// the cleaner can treat it explicitly.
func parseFloat(s string) float64 {
	switch strings.ToLower(s) {
	case "", "nan", "na", "null", "none":
		return math.NaN()
	case "inf", "+inf", "infinity":
		return math.Inf(1)
	case "-inf", "-infinity":
		return math.Inf(-1)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}
