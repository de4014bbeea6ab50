// Package llm provides the chat-completion client used to reach judge
// models through a routing gateway, with middleware for timeouts,
// retries, request pacing, and tracing.
//
// Providers implement the minimal CoreLLM interface and register
// themselves through init functions, so the client can be pointed at the
// OpenRouter gateway or directly at a provider without changing callers:
//
//	client, err := llm.NewClient("openrouter", llm.ClientConfig{
//	    APIKey: os.Getenv("OPENROUTER_API_KEY"),
//	    Model:  "anthropic/claude-3.5-haiku",
//	    Middleware: []llm.Middleware{
//	        llm.TimeoutMiddleware(30 * time.Second),
//	        llm.RetryMiddleware(2, 500*time.Millisecond, 5*time.Second),
//	    },
//	})
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/jessewalberg/aita/internal/ports"
)

// CoreLLM is the minimal surface a provider must implement. Middleware
// wraps any conforming implementation.
type CoreLLM interface {
	// DoRequest sends a prompt and returns the response text plus input
	// and output token counts. The opts map carries request parameters
	// such as model, system prompt, temperature, and max tokens.
	DoRequest(ctx context.Context, prompt string, opts map[string]any) (response string, tokensIn, tokensOut int, err error)

	// GetModel returns the default model for this provider instance.
	GetModel() string

	// SetModel changes the default model for subsequent requests.
	SetModel(model string)
}

// Middleware wraps a CoreLLM to add cross-cutting behavior. Middleware
// composes; the first entry in ClientConfig.Middleware is outermost.
type Middleware func(CoreLLM) CoreLLM

// ClientConfig holds the settings needed to construct a client.
type ClientConfig struct {
	// APIKey authenticates requests to the provider or gateway.
	APIKey string

	// Model is the default model identifier. Individual requests may
	// override it through the "model" option.
	Model string

	// BaseURL overrides the provider's default endpoint. The openrouter
	// provider defaults to the OpenRouter gateway when empty.
	BaseURL string

	// Timeout bounds individual requests at the HTTP layer. Zero means
	// no client-level timeout.
	Timeout time.Duration

	// Middleware is applied in order, first entry outermost.
	Middleware []Middleware
}

// Client wraps a provider with the middleware chain and implements
// ports.LLMClient.
type Client struct {
	core    CoreLLM
	counter *TokenCounter
}

var _ ports.LLMClient = (*Client)(nil)

// NewClient builds a client for the named provider type. Known types are
// registered by provider init functions: "openrouter", "anthropic", and
// "google".
func NewClient(providerType string, config ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}
	if config.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	factory, ok := providerFactories[providerType]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", providerType)
	}

	core, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	// Apply middleware in reverse so the first configured entry wraps
	// everything else.
	for i := len(config.Middleware) - 1; i >= 0; i-- {
		core = config.Middleware[i](core)
	}

	return &Client{core: core, counter: NewTokenCounter()}, nil
}

// Complete sends a prompt and returns the response text, discarding
// token usage.
func (c *Client) Complete(ctx context.Context, prompt string, options map[string]any) (string, error) {
	response, _, _, err := c.core.DoRequest(ctx, prompt, options)
	return response, err
}

// CompleteWithUsage sends a prompt and returns the response together
// with input and output token counts.
func (c *Client) CompleteWithUsage(ctx context.Context, prompt string, options map[string]any) (string, int, int, error) {
	return c.core.DoRequest(ctx, prompt, options)
}

// EstimateTokens approximates the token count of a text.
func (c *Client) EstimateTokens(text string) (int, error) {
	return c.counter.EstimateTokens(text), nil
}

// GetModel returns the default model of the underlying provider.
func (c *Client) GetModel() string { return c.core.GetModel() }

// ProviderFactory constructs a CoreLLM from configuration.
type ProviderFactory func(ClientConfig) (CoreLLM, error)

var providerFactories = map[string]ProviderFactory{}

// RegisterProviderFactory registers a provider under a type name.
// Providers call this from init.
func RegisterProviderFactory(providerType string, factory ProviderFactory) {
	providerFactories[providerType] = factory
}
