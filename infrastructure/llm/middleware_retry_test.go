package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyCoreLLM fails a fixed number of times before succeeding.
type flakyCoreLLM struct {
	BaseProvider
	failures int
	err      error
	calls    int
}

func (f *flakyCoreLLM) DoRequest(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", 0, 0, f.err
	}
	return "recovered", 1, 1, nil
}

func TestRetryMiddleware(t *testing.T) {
	retryableErr := NewProviderError("test", ErrorTypeRateLimit, 429, "slow down", nil)
	permanentErr := NewProviderError("test", ErrorTypeAuthentication, 401, "bad key", nil)

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   bool
	}{
		{
			name:      "succeeds first try",
			failures:  0,
			wantCalls: 1,
		},
		{
			name:      "recovers after retryable failures",
			failures:  2,
			err:       retryableErr,
			wantCalls: 3,
		},
		{
			name:      "exhausts retries",
			failures:  5,
			err:       retryableErr,
			wantCalls: 3,
			wantErr:   true,
		},
		{
			name:      "permanent error stops immediately",
			failures:  5,
			err:       permanentErr,
			wantCalls: 1,
			wantErr:   true,
		},
		{
			name:      "unclassified error is retried",
			failures:  1,
			err:       errors.New("connection reset"),
			wantCalls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core := &flakyCoreLLM{failures: tt.failures, err: tt.err}
			wrapped := RetryMiddleware(2, time.Millisecond, 10*time.Millisecond)(core)

			response, _, _, err := wrapped.DoRequest(context.Background(), "prompt", nil)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "recovered", response)
			}
			assert.Equal(t, tt.wantCalls, core.calls)
		})
	}
}

func TestRetryMiddleware_ContextCanceled(t *testing.T) {
	core := &flakyCoreLLM{
		failures: 10,
		err:      NewProviderError("test", ErrorTypeServerError, 503, "unavailable", nil),
	}
	wrapped := RetryMiddleware(5, 50*time.Millisecond, time.Second)(core)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, _, err := wrapped.DoRequest(ctx, "prompt", nil)
	require.Error(t, err)
	assert.Equal(t, 1, core.calls, "canceled context must stop the retry loop")
}

func TestTimeoutMiddleware(t *testing.T) {
	core := &slowCoreLLM{delay: 50 * time.Millisecond}
	wrapped := TimeoutMiddleware(5 * time.Millisecond)(core)

	_, _, _, err := wrapped.DoRequest(context.Background(), "prompt", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	fast := TimeoutMiddleware(time.Second)(&slowCoreLLM{})
	response, _, _, err := fast.DoRequest(context.Background(), "prompt", nil)
	require.NoError(t, err)
	assert.Equal(t, "done", response)
}

// slowCoreLLM blocks until its delay elapses or the context expires.
type slowCoreLLM struct {
	BaseProvider
	delay time.Duration
}

func (s *slowCoreLLM) DoRequest(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	select {
	case <-time.After(s.delay):
		return "done", 1, 1, nil
	case <-ctx.Done():
		return "", 0, 0, ctx.Err()
	}
}
