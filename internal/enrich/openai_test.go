// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package enrich

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
)

// fakeChatServer answers every chat completion with content, or with a 500
// when status is set. It records the last request body.
type fakeChatServer struct {
	content string
	status  int
	calls   atomic.Int32
	last    atomic.Value // map[string]any
}

func (f *fakeChatServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)
	if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
		http.NotFound(w, r)
		return
	}

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
		f.last.Store(body)
	}

	if f.status != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream failure","type":"server_error"}}`)) //nolint:errcheck // test server
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = fmt.Fprintf(w, `{
		"id": "chatcmpl-test",
		"object": "chat.completion",
		"created": 1700000000,
		"model": "gpt-4o-mini",
		"choices": [{
			"index": 0,
			"finish_reason": "stop",
			"message": {"role": "assistant", "content": %q}
		}]
	}`, f.content) //nolint:errcheck // test server
}

func newTestOpenAI(t *testing.T, srv *httptest.Server, failures uint32) *OpenAIProvider {
	t.Helper()
	cfg := DefaultOpenAIConfig()
	cfg.APIKey = "test-key"
	cfg.BaseURL = srv.URL + "/v1/"
	cfg.MaxRetries = 0
	cfg.RequestsPerSecond = 1000
	cfg.Burst = 100
	cfg.BreakerFailures = failures
	cfg.BreakerTimeout = time.Hour

	p, err := NewOpenAIProvider(cfg, IdeologyLabels, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewOpenAIProvider() error = %v", err)
	}
	return p
}

var testEntity = Entity{ID: 204554, Name: "Fulano", Text: "PL 1234/2023 dispõe sobre energia solar"}

func TestOpenAIProvider_Classify(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantLabel string
		wantOK    bool
	}{
		{"exact label", "centrist", "centrist", true},
		{"normalized label", " Moderate Progressive.\n", "moderate_progressive", true},
		{"outside label set", "libertarian", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeChatServer{content: tt.content}
			srv := httptest.NewServer(fake)
			defer srv.Close()

			p := newTestOpenAI(t, srv, 5)
			label, ok, err := p.Classify(context.Background(), testEntity)
			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}
			if label != tt.wantLabel || ok != tt.wantOK {
				t.Errorf("Classify() = %q, %v, want %q, %v", label, ok, tt.wantLabel, tt.wantOK)
			}

			body, _ := fake.last.Load().(map[string]any)
			if body["model"] != "gpt-4o-mini" {
				t.Errorf("request model = %v, want gpt-4o-mini", body["model"])
			}
			if body["temperature"] != float64(0) {
				t.Errorf("request temperature = %v, want 0", body["temperature"])
			}
		})
	}
}

func TestOpenAIProvider_EmptyTextSkipsRequest(t *testing.T) {
	fake := &fakeChatServer{content: "centrist"}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	p := newTestOpenAI(t, srv, 5)
	_, ok, err := p.Classify(context.Background(), Entity{ID: 1, Name: "Sem Texto", Text: "  "})
	if err != nil || ok {
		t.Errorf("Classify() = _, %v, %v, want no label and no error", ok, err)
	}
	if got := fake.calls.Load(); got != 0 {
		t.Errorf("server calls = %d, want 0", got)
	}
}

func TestOpenAIProvider_CircuitBreakerOpens(t *testing.T) {
	fake := &fakeChatServer{status: http.StatusInternalServerError}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	p := newTestOpenAI(t, srv, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, _, err := p.Classify(ctx, testEntity); err == nil {
			t.Fatalf("call %d: Classify() error = nil, want upstream error", i)
		}
	}

	_, _, err := p.Classify(ctx, testEntity)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("Classify() error = %v, want ErrOpenState", err)
	}
	if got := fake.calls.Load(); got != 2 {
		t.Errorf("server calls = %d, want 2", got)
	}
}

func TestNewOpenAIProvider_Validation(t *testing.T) {
	if _, err := NewOpenAIProvider(OpenAIConfig{}, IdeologyLabels, zerolog.Nop()); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("NewOpenAIProvider() error = %v, want ErrNoAPIKey", err)
	}
	if _, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k"}, LabelSet{Feature: "x"}, zerolog.Nop()); err == nil {
		t.Error("NewOpenAIProvider() with empty label set error = nil, want error")
	}
}

func TestSystemPrompt(t *testing.T) {
	prompt := systemPrompt(AgendaLabels)
	for _, l := range AgendaLabels.Labels {
		if !strings.Contains(prompt, "- "+l+"\n") {
			t.Errorf("prompt missing label %q", l)
		}
	}
}
