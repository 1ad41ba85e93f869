// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	// DuckDB driver - reads Parquet and CSV files through table functions
	_ "github.com/duckdb/duckdb-go/v2"
)

// LoadDuckDB reads a Parquet or CSV file through an in-memory DuckDB
// connection. Parquet is detected by the .parquet extension; anything else is
// read with read_csv_auto.
func LoadDuckDB(ctx context.Context, path string, cols Columns) (*Table, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	defer func() { _ = db.Close() }() //nolint:errcheck // in-memory database

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+tableFunction(path)) //nolint:gosec // path is quoted by tableFunction
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", path, err)
	}
	defer func() { _ = rows.Close() }() //nolint:errcheck // rows drained below

	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
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

	var (
		ids     []int64
		names   []string
		numeric = make(map[string][]float64, len(cols.Numeric))
		text    = make(map[string][]string, len(cols.String))
	)

	raw := make([]any, len(header))
	dest := make([]any, len(header))
	for i := range raw {
		dest[i] = &raw[i]
	}

	row := 0
	for rows.Next() {
		row++
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", row, err)
		}

		id, err := toID(raw[idIdx])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		ids = append(ids, id)
		names = append(names, toString(raw[nameIdx]))

		for _, name := range cols.Numeric {
			if col, ok := index[name]; ok {
				numeric[name] = append(numeric[name], toFloat(raw[col]))
			}
		}
		for _, name := range cols.String {
			if col, ok := index[name]; ok {
				text[name] = append(text[name], toString(raw[col]))
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	t, err := NewTable(ids, names)
	if err != nil {
		return nil, err
	}
	for _, name := range cols.Numeric {
		if _, ok := index[name]; !ok {
			continue
		}
		values := numeric[name]
		if values == nil {
			values = []float64{}
		}
		if err := t.SetNumeric(name, values); err != nil {
			return nil, err
		}
	}
	for _, name := range cols.String {
		if _, ok := index[name]; !ok {
			continue
		}
		values := text[name]
		if values == nil {
			values = []string{}
		}
		if err := t.SetString(name, values); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func tableFunction(path string) string {
	quoted := "'" + strings.ReplaceAll(path, "'", "''") + "'"
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		return "read_parquet(" + quoted + ")"
	}
	return "read_csv_auto(" + quoted + ")"
}

func toID(v any) (int64, error) {
	switch x := v.(type) {
	case nil:
		return 0, &MissingColumnError{Column: IDColumn, Reason: "empty value"}
	case int64:
		return x, nil
	case int32:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case uint64:
		return int64(x), nil //nolint:gosec // deputy ids fit in int64
	case uint32:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case float64, float32:
		f := toFloat(x)
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return 0, fmt.Errorf("invalid %s %v", IDColumn, v)
		}
		return int64(f), nil
	default:
		return parseID(toString(v))
	}
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case nil:
		return math.NaN()
	case float64:
		return x
	case float32:
		return float64(x)
	case int64:
		return float64(x)
	case int32:
		return float64(x)
	case int16:
		return float64(x)
	case int8:
		return float64(x)
	case uint64:
		return float64(x)
	case uint32:
		return float64(x)
	case uint16:
		return float64(x)
	case uint8:
		return float64(x)
	case bool:
		if x {
			return 1
		}
		return 0
	case interface{ Float64() float64 }: // duckdb.Decimal
		return x.Float64()
	case string:
		return parseFloat(strings.TrimSpace(x))
	case []byte:
		return parseFloat(strings.TrimSpace(string(x)))
	default:
		return math.NaN()
	}
}

func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case []byte:
		return strings.TrimSpace(string(x))
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
