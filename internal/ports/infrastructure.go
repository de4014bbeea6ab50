package ports

import (
	"context"
	"time"

	"github.com/jessewalberg/aita/internal/domain"
)

// LLMClient defines the interface for issuing chat completions against a
// model-routing gateway. Implementations handle provider-specific details
// such as authentication, request formatting, and response parsing.
type LLMClient interface {
	// Complete sends a completion request and returns the generated text.
	// The options map carries request parameters without tying the
	// interface to one provider. Recognized keys:
	//   - "model": string, overrides the client's default model
	//   - "system": string, system prompt
	//   - "temperature": float64
	//   - "max_tokens": int
	Complete(ctx context.Context, prompt string, options map[string]any) (string, error)

	// EstimateTokens approximates the token count of a text for cost
	// tracking before a request is made.
	EstimateTokens(text string) (int, error)

	// GetModel returns the default model identifier for this client.
	GetModel() string
}

// RateDecision is the outcome of an atomic rate-limit check.
type RateDecision struct {
	// Allowed is false when the identifier exhausted its quota and the
	// request must be rejected.
	Allowed bool
	// Remaining is the number of requests left in the current window,
	// -1 when the limit was bypassed.
	Remaining int
}

// RateLimiter gates pipeline runs per identifier. The check and the
// increment must be atomic with respect to concurrent calls for the same
// identifier: two requests racing for the last slot must not both be
// allowed.
type RateLimiter interface {
	// CheckAndIncrement records one use for the identifier and reports
	// whether the request may proceed. When bypass is true the denial is
	// skipped but usage is still recorded.
	CheckAndIncrement(ctx context.Context, identifier string, mode domain.Mode, bypass bool) (RateDecision, error)
}

// VerdictStore persists final verdict records. Records are written once
// and never mutated by the core.
type VerdictStore interface {
	// InsertVerdict writes a new record and returns its generated ID.
	InsertVerdict(ctx context.Context, record domain.VerdictRecord) (string, error)

	// GetByShareID looks up a record by its unguessable share token.
	GetByShareID(ctx context.Context, shareID string) (domain.VerdictRecord, error)

	// ListByUser returns a user's records, newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.VerdictRecord, error)

	// ListRecentPublic returns public records, newest first.
	ListRecentPublic(ctx context.Context, limit int) ([]domain.VerdictRecord, error)
}

// ModelStatsStore maintains the per-model verdict distribution rows.
type ModelStatsStore interface {
	// RecordVerdict upserts the row for modelID: a fresh row on the
	// model's first verdict, otherwise an increment of the matching
	// counter with the leniency score recomputed.
	RecordVerdict(ctx context.Context, modelID, modelName string, verdict domain.VerdictCode) error

	// Leaderboard returns stats rows ordered by descending leniency.
	Leaderboard(ctx context.Context, limit int) ([]domain.ModelStats, error)
}

// MetricsCollector defines the interface for operational metrics.
// Implementations integrate with observability platforms such as
// Prometheus.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric.
	RecordGauge(metric string, value float64, labels map[string]string)
}
