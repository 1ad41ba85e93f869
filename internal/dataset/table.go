// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

// Package dataset holds the tabular deputy dataset and the loaders that
// produce it from CSV or DuckDB-readable files (CSV, Parquet).
//
// A Table is columnar: every row carries an integer id and a display name,
// plus any number of numeric and string columns. Missing numeric values are
// stored as NaN and missing string values as the empty string.
package dataset

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"slices"
	"strconv"
)

// Well-known column names.
const (
	IDColumn   = "deputy_id"
	NameColumn = "name"
)

// Columns declares which dataset columns a loader reads and how.
// Columns in the source that are not declared here are ignored.
type Columns struct {
	// Numeric columns are parsed as float64.
	Numeric []string

	// String columns are kept as text (categorical features, free text).
	String []string
}

// Table is an in-memory, columnar deputy dataset.
type Table struct {
	ids     []int64
	names   []string
	numeric map[string][]float64
	strings map[string][]string
	order   []string
}

// NewTable creates a table with the given ids and names.
// Both slices must have the same length.
func NewTable(ids []int64, names []string) (*Table, error) {
	if len(ids) != len(names) {
		return nil, fmt.Errorf("ids and names length mismatch: %d != %d", len(ids), len(names))
	}
	return &Table{
		ids:     slices.Clone(ids),
		names:   slices.Clone(names),
		numeric: make(map[string][]float64),
		strings: make(map[string][]string),
	}, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.ids)
}

// ID returns the deputy id of row i.
func (t *Table) ID(i int) int64 {
	return t.ids[i]
}

// Name returns the display name of row i.
func (t *Table) Name(i int) string {
	return t.names[i]
}

// IDs returns a copy of the id column.
func (t *Table) IDs() []int64 {
	return slices.Clone(t.ids)
}

// ColumnNames returns the feature columns in insertion order.
func (t *Table) ColumnNames() []string {
	return slices.Clone(t.order)
}

// HasColumn reports whether a numeric or string column exists.
func (t *Table) HasColumn(name string) bool {
	_, num := t.numeric[name]
	_, str := t.strings[name]
	return num || str
}

// Numeric returns the numeric column with the given name.
// The returned slice is shared with the table and must not be modified.
func (t *Table) Numeric(name string) ([]float64, bool) {
	col, ok := t.numeric[name]
	return col, ok
}

// String returns the string column with the given name.
// The returned slice is shared with the table and must not be modified.
func (t *Table) String(name string) ([]string, bool) {
	col, ok := t.strings[name]
	return col, ok
}

// SetNumeric adds or replaces a numeric column.
func (t *Table) SetNumeric(name string, values []float64) error {
	if len(values) != t.Len() {
		return fmt.Errorf("column %s has %d values, table has %d rows", name, len(values), t.Len())
	}
	if _, ok := t.strings[name]; ok {
		return fmt.Errorf("column %s already exists as a string column", name)
	}
	if _, ok := t.numeric[name]; !ok {
		t.order = append(t.order, name)
	}
	t.numeric[name] = values
	return nil
}

// SetString adds or replaces a string column.
func (t *Table) SetString(name string, values []string) error {
	if len(values) != t.Len() {
		return fmt.Errorf("column %s has %d values, table has %d rows", name, len(values), t.Len())
	}
	if _, ok := t.numeric[name]; ok {
		return fmt.Errorf("column %s already exists as a numeric column", name)
	}
	if _, ok := t.strings[name]; !ok {
		t.order = append(t.order, name)
	}
	t.strings[name] = values
	return nil
}

// Value returns the value of column name at row i as a Value.
func (t *Table) Value(name string, i int) (Value, bool) {
	if col, ok := t.numeric[name]; ok {
		return Value{Numeric: true, Num: col[i]}, true
	}
	if col, ok := t.strings[name]; ok {
		return Value{Str: col[i]}, true
	}
	return Value{}, false
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{
		ids:     slices.Clone(t.ids),
		names:   slices.Clone(t.names),
		numeric: make(map[string][]float64, len(t.numeric)),
		strings: make(map[string][]string, len(t.strings)),
		order:   slices.Clone(t.order),
	}
	for name, col := range t.numeric {
		out.numeric[name] = slices.Clone(col)
	}
	for name, col := range t.strings {
		out.strings[name] = slices.Clone(col)
	}
	return out
}

// Checksum returns a SHA-256 digest of the table contents.
// Columns are hashed in sorted name order so insertion order does not matter.
func (t *Table) Checksum() string {
	h := sha256.New()
	var buf [8]byte
	for i, id := range t.ids {
		binary.LittleEndian.PutUint64(buf[:], uint64(id))
		h.Write(buf[:])
		h.Write([]byte(t.names[i]))
		h.Write([]byte{0})
	}

	for _, name := range slices.Sorted(slices.Values(t.order)) {
		h.Write([]byte(name))
		h.Write([]byte{0})
		if col, ok := t.numeric[name]; ok {
			for _, v := range col {
				binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
				h.Write(buf[:])
			}
			continue
		}
		for _, v := range t.strings[name] {
			h.Write([]byte(v))
			h.Write([]byte{0})
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Value is a single cell.
type Value struct {
	Numeric bool
	Num     float64
	Str     string
}

// Equal reports whether two cells hold the same value.
func (v Value) Equal(o Value) bool {
	if v.Numeric != o.Numeric {
		return false
	}
	if v.Numeric {
		return v.Num == o.Num
	}
	return v.Str == o.Str
}

// String formats the cell for display.
func (v Value) String() string {
	if v.Numeric {
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	}
	return v.Str
}

// IsMissing reports whether a numeric value is missing.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}
