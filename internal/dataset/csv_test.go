// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package dataset

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var testColumns = Columns{
	Numeric: []string{"attendance_rate", "proposition_count"},
	String:  []string{"party", "ideology"},
}

func TestLoadCSV(t *testing.T) {
	input := strings.Join([]string{
		"deputy_id,name,attendance_rate,proposition_count,party,ideology,ignored",
		"1,Alice,0.9,10,PT,progressive,x",
		"2,Bob,,NaN,PL,,y",
		"3.0,Carol,inf,abc,PSD,centrist,z",
	}, "\n")

	table, err := LoadCSV(strings.NewReader(input), testColumns)
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}

	if table.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", table.Len())
	}
	if got := table.ID(2); got != 3 {
		t.Errorf("ID(2) = %d, want 3", got)
	}
	if got := table.Name(1); got != "Bob" {
		t.Errorf("Name(1) = %q, want %q", got, "Bob")
	}
	if table.HasColumn("ignored") {
		t.Error("undeclared column should not be loaded")
	}

	attendance, ok := table.Numeric("attendance_rate")
	if !ok {
		t.Fatal("attendance_rate column missing")
	}
	if attendance[0] != 0.9 {
		t.Errorf("attendance[0] = %v, want 0.9", attendance[0])
	}
	if !IsMissing(attendance[1]) {
		t.Errorf("attendance[1] = %v, want missing", attendance[1])
	}
	if !math.IsInf(attendance[2], 1) {
		t.Errorf("attendance[2] = %v, want +Inf", attendance[2])
	}

	counts, _ := table.Numeric("proposition_count")
	if !IsMissing(counts[1]) || !IsMissing(counts[2]) {
		t.Errorf("proposition_count = %v, want missing values at rows 1 and 2", counts)
	}

	ideology, ok := table.String("ideology")
	if !ok {
		t.Fatal("ideology column missing")
	}
	if ideology[1] != "" {
		t.Errorf("ideology[1] = %q, want empty", ideology[1])
	}
}

func TestLoadCSV_MissingDeclaredColumnIsSkipped(t *testing.T) {
	input := "deputy_id,name,party\n1,Alice,PT\n"

	table, err := LoadCSV(strings.NewReader(input), testColumns)
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	if table.HasColumn("attendance_rate") {
		t.Error("absent column should not be created")
	}
	if !table.HasColumn("party") {
		t.Error("party column should be loaded")
	}
}

func TestLoadCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty input", input: ""},
		{name: "no id column", input: "name,party\nAlice,PT\n"},
		{name: "no name column", input: "deputy_id,party\n1,PT\n"},
		{name: "empty id", input: "deputy_id,name\n,Alice\n"},
		{name: "non-numeric id", input: "deputy_id,name\nabc,Alice\n"},
		{name: "fractional id", input: "deputy_id,name\n1.5,Alice\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadCSV(strings.NewReader(tt.input), testColumns); err == nil {
				t.Error("LoadCSV() expected error, got nil")
			}
		})
	}
}

func TestLoadCSV_MissingIDColumnError(t *testing.T) {
	_, err := LoadCSV(strings.NewReader("name\nAlice\n"), Columns{})
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("LoadCSV() error = %v, want ErrMissingColumn", err)
	}
	var missing *MissingColumnError
	if !errors.As(err, &missing) || missing.Column != IDColumn {
		t.Errorf("LoadCSV() error = %v, want *MissingColumnError for %s", err, IDColumn)
	}
}

func TestLoadCSV_DuplicateIDsKept(t *testing.T) {
	input := "deputy_id,name\n7,Alice\n7,Alice again\n"

	table, err := LoadCSV(strings.NewReader(input), Columns{})
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	if table.Len() != 2 {
		t.Errorf("Len() = %d, want 2", table.Len())
	}
}

func TestLoadCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deputies.csv")
	if err := os.WriteFile(path, []byte("\ufeffdeputy_id,name,party\n1,Alice,PT\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	table, err := LoadCSVFile(path, testColumns)
	if err != nil {
		t.Fatalf("LoadCSVFile() error = %v", err)
	}
	if table.Len() != 1 || table.ID(0) != 1 {
		t.Errorf("unexpected table: len=%d", table.Len())
	}

	if _, err := LoadCSVFile(filepath.Join(t.TempDir(), "missing.csv"), testColumns); err == nil {
		t.Error("LoadCSVFile() expected error for missing file")
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		format  string
		path    string
		want    string
		wantErr bool
	}{
		{format: "auto", path: "gold/deputies.parquet", want: FormatDuckDB},
		{format: "", path: "deputies.PARQUET", want: FormatDuckDB},
		{format: "auto", path: "deputies.csv", want: FormatCSV},
		{format: "csv", path: "deputies.parquet", want: FormatCSV},
		{format: "DuckDB", path: "deputies.csv", want: FormatDuckDB},
		{format: "xlsx", path: "deputies.xlsx", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format+"_"+tt.path, func(t *testing.T) {
			got, err := ResolveFormat(tt.format, tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveFormat() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolveFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}
