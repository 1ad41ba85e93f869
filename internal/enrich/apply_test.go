// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package enrich

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/deputyrec/internal/dataset"
)

func testTable(t *testing.T, ideology []string) *dataset.Table {
	t.Helper()
	tbl, err := dataset.NewTable([]int64{1, 2, 3, 3}, []string{"A", "B", "C", "C"})
	if err != nil {
		t.Fatal(err)
	}
	if ideology != nil {
		if err := tbl.SetString("ideology", ideology); err != nil {
			t.Fatal(err)
		}
	}
	if err := tbl.SetString(DefaultTextColumn, []string{"pl a", "pl b", "pl c", "pl c"}); err != nil {
		t.Fatal(err)
	}
	return tbl
}

// countingProvider records every entity it is asked about.
type countingProvider struct {
	mu     sync.Mutex
	seen   []Entity
	labels map[int64]string
	errs   map[int64]error
}

func (p *countingProvider) Classify(_ context.Context, e Entity) (string, bool, error) {
	p.mu.Lock()
	p.seen = append(p.seen, e)
	p.mu.Unlock()
	if err := p.errs[e.ID]; err != nil {
		return "", false, err
	}
	label, ok := p.labels[e.ID]
	return label, ok, nil
}

func TestApply(t *testing.T) {
	tests := []struct {
		name      string
		ideology  []string
		labels    map[int64]string
		errs      map[int64]error
		want      []string
		wantStats ApplyStats
		wantCalls int
	}{
		{
			name:      "fills only missing values",
			ideology:  []string{"centrist", "", "", ""},
			labels:    map[int64]string{1: "conservative", 2: "progressive", 3: "moderate_conservative"},
			want:      []string{"centrist", "progressive", "moderate_conservative", "moderate_conservative"},
			wantStats: ApplyStats{Feature: "ideology", Missing: 3, Labeled: 3},
			wantCalls: 2,
		},
		{
			name:      "adds a missing column",
			ideology:  nil,
			labels:    map[int64]string{1: "centrist"},
			want:      []string{"centrist", "", "", ""},
			wantStats: ApplyStats{Feature: "ideology", Missing: 4, Labeled: 1, Unlabeled: 3},
			wantCalls: 3,
		},
		{
			name:      "provider errors are skipped",
			ideology:  []string{"", "", "centrist", "centrist"},
			labels:    map[int64]string{2: "progressive"},
			errs:      map[int64]error{1: errors.New("rate limited")},
			want:      []string{"", "progressive", "centrist", "centrist"},
			wantStats: ApplyStats{Feature: "ideology", Missing: 2, Labeled: 1, Failed: 1},
			wantCalls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := testTable(t, tt.ideology)
			p := &countingProvider{labels: tt.labels, errs: tt.errs}

			stats, err := Apply(context.Background(), tbl, "ideology", DefaultTextColumn, p, zerolog.Nop())
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if stats != tt.wantStats {
				t.Errorf("Apply() stats = %+v, want %+v", stats, tt.wantStats)
			}
			got, _ := tbl.String("ideology")
			if !slices.Equal(got, tt.want) {
				t.Errorf("ideology = %v, want %v", got, tt.want)
			}
			if len(p.seen) != tt.wantCalls {
				t.Errorf("provider calls = %d, want %d", len(p.seen), tt.wantCalls)
			}
		})
	}
}

func TestApply_PassesEntityText(t *testing.T) {
	tbl := testTable(t, []string{"", "x", "x", "x"})
	p := &countingProvider{}

	if _, err := Apply(context.Background(), tbl, "ideology", DefaultTextColumn, p, zerolog.Nop()); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	want := Entity{ID: 1, Name: "A", Text: "pl a"}
	if len(p.seen) != 1 || p.seen[0] != want {
		t.Errorf("provider saw %+v, want [%+v]", p.seen, want)
	}
}

func TestApply_NumericColumnRejected(t *testing.T) {
	tbl := testTable(t, nil)
	if err := tbl.SetNumeric("ideology", []float64{1, 2, 3, 4}); err != nil {
		t.Fatal(err)
	}
	if _, err := Apply(context.Background(), tbl, "ideology", DefaultTextColumn, StaticProvider{}, zerolog.Nop()); err == nil {
		t.Error("Apply() on numeric column error = nil, want error")
	}
}

func TestApply_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := ProviderFunc(func(ctx context.Context, _ Entity) (string, bool, error) {
		cancel()
		return "", false, ctx.Err()
	})

	_, err := Apply(ctx, testTable(t, []string{"", "", "", ""}), "ideology", DefaultTextColumn, p, zerolog.Nop())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Apply() error = %v, want context.Canceled", err)
	}
}

func TestCachingProvider(t *testing.T) {
	store := newTestStore(t)
	upstream := &countingProvider{labels: map[int64]string{1: "centrist"}}
	p := NewCachingProvider(store, upstream, "ideology", "openai", zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		label, ok, err := p.Classify(ctx, Entity{ID: 1})
		if err != nil || !ok || label != "centrist" {
			t.Fatalf("Classify() = %q, %v, %v, want centrist", label, ok, err)
		}
	}
	if len(upstream.seen) != 1 {
		t.Errorf("upstream calls = %d, want 1", len(upstream.seen))
	}

	stored, ok, _ := store.Get(ctx, "ideology", 1)
	if !ok || stored.Source != "openai" {
		t.Errorf("stored label = %+v, want source openai", stored)
	}

	// Unlabeled answers are not cached.
	for i := 0; i < 2; i++ {
		if _, ok, _ := p.Classify(ctx, Entity{ID: 2}); ok {
			t.Error("Classify(2) ok = true, want false")
		}
	}
	if len(upstream.seen) != 3 {
		t.Errorf("upstream calls = %d, want 3", len(upstream.seen))
	}
}

func TestStaticProvider(t *testing.T) {
	p := StaticProvider{1: "social", 2: ""}
	tests := []struct {
		id     int64
		want   string
		wantOK bool
	}{
		{1, "social", true},
		{2, "", false},
		{3, "", false},
	}
	for _, tt := range tests {
		got, ok, err := p.Classify(context.Background(), Entity{ID: tt.id})
		if err != nil || got != tt.want || ok != tt.wantOK {
			t.Errorf("Classify(%d) = %q, %v, %v, want %q, %v", tt.id, got, ok, err, tt.want, tt.wantOK)
		}
	}
}

func TestRefresher(t *testing.T) {
	tbl := testTable(t, []string{"", "", "centrist", "centrist"})
	store := newTestStore(t)
	upstream := StaticProvider{1: "progressive", 2: "conservative"}

	r := NewRefresher(tbl, []Target{
		{Feature: "ideology", Provider: NewCachingProvider(store, upstream, "ideology", "static", zerolog.Nop())},
		{Feature: "agenda_category", Provider: StaticProvider{3: "social"}},
	}, "", zerolog.Nop())

	if err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	orig, _ := tbl.String("ideology")
	if orig[0] != "" {
		t.Error("Refresh() modified the source table")
	}
	all, err := store.All(context.Background(), "ideology")
	if err != nil || len(all) != 2 {
		t.Errorf("store labels = %v, %v, want 2", all, err)
	}

	stats := r.LastStats()
	if len(stats) != 2 || stats[0].Labeled != 2 || stats[1].Labeled != 2 {
		t.Errorf("LastStats() = %+v", stats)
	}
}
