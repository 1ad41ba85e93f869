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
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/deputyrec/internal/metrics"
)

// OpenAIConfig configures the chat completion classifier.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string

	// Timeout bounds a single completion request.
	Timeout time.Duration

	// MaxRetries is passed to the client; 0 disables client retries.
	MaxRetries int

	// RequestsPerSecond and Burst throttle outgoing requests.
	RequestsPerSecond float64
	Burst             int

	// BreakerFailures is the number of consecutive failures that opens the
	// circuit; BreakerTimeout is how long it stays open.
	BreakerFailures uint32
	BreakerTimeout  time.Duration

	// MaxInputChars truncates the entity text sent to the model.
	MaxInputChars int
}

// DefaultOpenAIConfig returns the defaults used by the server.
func DefaultOpenAIConfig() OpenAIConfig {
	return OpenAIConfig{
		Model:             string(openai.ChatModelGPT4oMini),
		Timeout:           30 * time.Second,
		MaxRetries:        2,
		RequestsPerSecond: 2,
		Burst:             1,
		BreakerFailures:   5,
		BreakerTimeout:    2 * time.Minute,
		MaxInputChars:     12000,
	}
}

// OpenAIProvider classifies deputies into a closed label set with a chat
// completion model. Calls are rate limited and guarded by a circuit breaker.
type OpenAIProvider struct {
	client  openai.Client
	cfg     OpenAIConfig
	labels  LabelSet
	prompt  string
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[string]
	logger  zerolog.Logger
}

// NewOpenAIProvider creates a classifier for one label set.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewOpenAIProvider(cfg OpenAIConfig, labels LabelSet, logger zerolog.Logger) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if len(labels.Labels) == 0 {
		return nil, fmt.Errorf("label set for %q is empty", labels.Feature)
	}
	def := DefaultOpenAIConfig()
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = def.RequestsPerSecond
	}
	if cfg.Burst < 1 {
		cfg.Burst = def.Burst
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = def.BreakerFailures
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = def.BreakerTimeout
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}

	p := &OpenAIProvider{
		client:  openai.NewClient(opts...),
		cfg:     cfg,
		labels:  labels,
		prompt:  systemPrompt(labels),
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:  logger.With().Str("component", "enrich").Str("feature", labels.Feature).Logger(),
	}

	name := "openai-" + labels.Feature
	metrics.SetCircuitBreakerState(name, metrics.BreakerClosed)
	p.cb = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			p.logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state transition")
			metrics.SetCircuitBreakerState(name, breakerState(to))
		},
	})

	return p, nil
}

// Classify asks the model for one label. Entities without text are not sent.
func (p *OpenAIProvider) Classify(ctx context.Context, e Entity) (string, bool, error) {
	if strings.TrimSpace(e.Text) == "" {
		return "", false, nil
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return "", false, fmt.Errorf("wait for rate limiter: %w", err)
	}

	start := time.Now()
	answer, err := p.cb.Execute(func() (string, error) {
		return p.complete(ctx, e)
	})
	if err != nil {
		metrics.RecordEnrichmentCall(p.labels.Feature, "openai", "error", time.Since(start))
		return "", false, fmt.Errorf("classify deputy %d: %w", e.ID, err)
	}

	label, ok := p.labels.Normalize(answer)
	if !ok {
		metrics.RecordEnrichmentCall(p.labels.Feature, "openai", "no_label", time.Since(start))
		p.logger.Debug().Int64("deputy_id", e.ID).Str("answer", answer).Msg("answer outside label set")
		return "", false, nil
	}
	metrics.RecordEnrichmentCall(p.labels.Feature, "openai", "labeled", time.Since(start))
	return label, true, nil
}

func (p *OpenAIProvider) complete(ctx context.Context, e Entity) (string, error) {
	text := e.Text
	if p.cfg.MaxInputChars > 0 && len(text) > p.cfg.MaxInputChars {
		text = strings.ToValidUTF8(text[:p.cfg.MaxInputChars], "")
	}

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(p.cfg.Model),
		Temperature: openai.Float(0),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(p.prompt),
			openai.UserMessage("Deputy: " + e.Name + "\n\nPropositions:\n" + text),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func systemPrompt(labels LabelSet) string {
	var b strings.Builder
	b.WriteString("You classify Brazilian federal deputies from the list of legislative propositions they authored. ")
	fmt.Fprintf(&b, "Determine %s.\n", labels.Description)
	b.WriteString("Answer with exactly one of the following values and nothing else:\n")
	for _, l := range labels.Labels {
		b.WriteString("- ")
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}

func breakerState(s gobreaker.State) int {
	switch s {
	case gobreaker.StateHalfOpen:
		return metrics.BreakerHalfOpen
	case gobreaker.StateOpen:
		return metrics.BreakerOpen
	default:
		return metrics.BreakerClosed
	}
}
