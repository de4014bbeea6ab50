package llm

import (
	"fmt"
	"net/url"
	"sync"
	"time"
)

// Parameter bounds shared across providers.
const (
	// DefaultMaxTokens is used when a request does not set max_tokens.
	DefaultMaxTokens = 1024
	// MaxTemperature accommodates providers that accept up to 2.0.
	MaxTemperature = 2.0
	// MinTimeout and MaxTimeout bound client-level request timeouts.
	MinTimeout = 1 * time.Second
	MaxTimeout = 10 * time.Minute
)

// BaseProvider carries the thread-safe default-model state shared by all
// provider implementations.
type BaseProvider struct {
	mu    sync.RWMutex
	model string
}

// GetModel returns the provider's default model. Safe for concurrent use.
func (b *BaseProvider) GetModel() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.model
}

// SetModel updates the provider's default model. Safe for concurrent use.
func (b *BaseProvider) SetModel(model string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.model = model
}

// RequestOptions is the normalized set of per-request parameters parsed
// from the generic options map.
type RequestOptions struct {
	// Model is the model identifier for this request.
	Model string
	// System is the system prompt, empty when not set.
	System string
	// MaxTokens bounds the generated output length.
	MaxTokens int
	// Temperature controls sampling randomness; nil means provider
	// default.
	Temperature *float64
}

// ParseRequestOptions extracts known request parameters from an options
// map, falling back to defaults for missing or invalid entries.
func ParseRequestOptions(opts map[string]any, defaultModel string) RequestOptions {
	options := RequestOptions{
		Model:     optString(opts, "model", defaultModel),
		System:    optString(opts, "system", ""),
		MaxTokens: optInt(opts, "max_tokens", DefaultMaxTokens),
	}

	if raw, ok := opts["temperature"]; ok {
		if temp, ok := raw.(float64); ok && temp >= 0 && temp <= MaxTemperature {
			options.Temperature = &temp
		}
	}

	return options
}

func optString(opts map[string]any, key, defaultVal string) string {
	if val, ok := opts[key].(string); ok && val != "" {
		return val
	}
	return defaultVal
}

func optInt(opts map[string]any, key string, defaultVal int) int {
	if val, ok := opts[key].(int); ok && val > 0 {
		return val
	}
	return defaultVal
}

// ValidateBaseURL checks that an endpoint override is an absolute http
// or https URL. An empty string is valid and selects the provider
// default.
func ValidateBaseURL(baseURL string) (string, error) {
	if baseURL == "" {
		return "", nil
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("URL scheme must be http or https, got: %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("URL must include a host")
	}

	return parsed.String(), nil
}

// ValidateTimeout clamps a timeout into the supported range. Zero or
// negative means no client-level timeout.
func ValidateTimeout(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return 0
	}
	if timeout < MinTimeout {
		return MinTimeout
	}
	if timeout > MaxTimeout {
		return MaxTimeout
	}
	return timeout
}

// ClampFloat64 restricts val to [min, max].
func ClampFloat64(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// TokenCounter estimates token counts when the provider does not report
// usage. The ratio is a rough approximation for English text.
type TokenCounter struct {
	// CharactersPerToken is the assumed average characters per token.
	CharactersPerToken float64
}

// NewTokenCounter returns a counter using the common 4-characters-per-
// token approximation.
func NewTokenCounter() *TokenCounter {
	return &TokenCounter{CharactersPerToken: 4.0}
}

// EstimateTokens approximates the token count of a text.
func (tc *TokenCounter) EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return int(float64(len(text)) / tc.CharactersPerToken)
}

// GetTokenCount prefers the provider-reported count, estimating only
// when the report is missing.
func (tc *TokenCounter) GetTokenCount(actualCount int, text string) int {
	if actualCount > 0 {
		return actualCount
	}
	return tc.EstimateTokens(text)
}
