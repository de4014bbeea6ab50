// Package testutils provides deterministic test doubles shared across
// package tests.
package testutils

import (
	"context"
	"strings"
	"sync"

	"github.com/jessewalberg/aita/internal/ports"
)

// MockLLMClient implements ports.LLMClient with deterministic canned
// responses so panel and pipeline behavior can be tested without
// network access. Responses are selected by model id and prompt
// substring; failures are injected per model. Safe for concurrent use,
// matching the fan-out it is used under.
type MockLLMClient struct {
	mu        sync.Mutex
	model     string
	responses []MockResponse
	errors    map[string]error
	calls     []MockCall
}

// MockResponse is a canned response rule. Empty Model or Pattern acts
// as a wildcard; rules are checked in the order they were added.
type MockResponse struct {
	// Model matches options["model"] exactly when non-empty.
	Model string
	// Pattern matches a prompt substring when non-empty.
	Pattern string
	// Response is the raw text returned for matching requests.
	Response string
}

// MockCall records one Complete invocation for assertions.
type MockCall struct {
	Model   string
	Prompt  string
	Options map[string]any
}

var _ ports.LLMClient = (*MockLLMClient)(nil)

// NewMockLLMClient creates a mock with a valid default judge response
// so tests only configure the cases they care about.
func NewMockLLMClient(model string) *MockLLMClient {
	return &MockLLMClient{
		model:  model,
		errors: make(map[string]error),
		responses: []MockResponse{
			{Response: `{"verdict": "NTA", "confidence": 75, "summary": "Default mock ruling.", "reasoning": "Mock reasoning.", "keyPoints": ["Mock point"]}`},
		},
	}
}

// AddResponse registers a response rule ahead of existing ones, so the
// most recently added rule wins on overlap.
func (m *MockLLMClient) AddResponse(response MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append([]MockResponse{response}, m.responses...)
}

// FailModel makes every request routed to the given model id return err.
func (m *MockLLMClient) FailModel(modelID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[modelID] = err
}

// Calls returns a copy of all recorded invocations.
func (m *MockLLMClient) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall(nil), m.calls...)
}

// Complete returns the first matching canned response.
func (m *MockLLMClient) Complete(ctx context.Context, prompt string, options map[string]any) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	model, _ := options["model"].(string)
	if model == "" {
		model = m.model
	}
	m.calls = append(m.calls, MockCall{Model: model, Prompt: prompt, Options: options})

	if err, ok := m.errors[model]; ok {
		return "", err
	}

	for _, r := range m.responses {
		if r.Model != "" && r.Model != model {
			continue
		}
		if r.Pattern != "" && !strings.Contains(prompt, r.Pattern) {
			continue
		}
		return r.Response, nil
	}
	return "", nil
}

// EstimateTokens approximates tokens at four characters each.
func (m *MockLLMClient) EstimateTokens(text string) (int, error) {
	return len(text) / 4, nil
}

// GetModel returns the configured default model identifier.
func (m *MockLLMClient) GetModel() string { return m.model }
