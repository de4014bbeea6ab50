package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequestOptions(t *testing.T) {
	temp := 0.7

	tests := []struct {
		name string
		opts map[string]any
		want RequestOptions
	}{
		{
			name: "nil options use defaults",
			opts: nil,
			want: RequestOptions{Model: "default-model", MaxTokens: DefaultMaxTokens},
		},
		{
			name: "all options set",
			opts: map[string]any{
				"model":       "other-model",
				"system":      "be brief",
				"max_tokens":  1500,
				"temperature": 0.7,
			},
			want: RequestOptions{
				Model:       "other-model",
				System:      "be brief",
				MaxTokens:   1500,
				Temperature: &temp,
			},
		},
		{
			name: "out-of-range temperature ignored",
			opts: map[string]any{"temperature": 3.5},
			want: RequestOptions{Model: "default-model", MaxTokens: DefaultMaxTokens},
		},
		{
			name: "wrong types fall back to defaults",
			opts: map[string]any{"model": 42, "max_tokens": "many"},
			want: RequestOptions{Model: "default-model", MaxTokens: DefaultMaxTokens},
		},
		{
			name: "non-positive max_tokens falls back",
			opts: map[string]any{"max_tokens": 0},
			want: RequestOptions{Model: "default-model", MaxTokens: DefaultMaxTokens},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRequestOptions(tt.opts, "default-model")
			if tt.want.Temperature != nil {
				require.NotNil(t, got.Temperature)
				assert.InDelta(t, *tt.want.Temperature, *got.Temperature, 1e-9)
				got.Temperature = nil
				tt.want.Temperature = nil
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateBaseURL(t *testing.T) {
	url, err := ValidateBaseURL("")
	require.NoError(t, err)
	assert.Empty(t, url)

	url, err = ValidateBaseURL("https://openrouter.ai/api/v1")
	require.NoError(t, err)
	assert.Equal(t, "https://openrouter.ai/api/v1", url)

	_, err = ValidateBaseURL("ftp://example.com")
	assert.ErrorContains(t, err, "scheme")

	_, err = ValidateBaseURL("https://")
	assert.ErrorContains(t, err, "host")
}

func TestValidateTimeout(t *testing.T) {
	assert.Equal(t, time.Duration(0), ValidateTimeout(0))
	assert.Equal(t, time.Duration(0), ValidateTimeout(-time.Second))
	assert.Equal(t, MinTimeout, ValidateTimeout(time.Millisecond))
	assert.Equal(t, MaxTimeout, ValidateTimeout(time.Hour))
	assert.Equal(t, 30*time.Second, ValidateTimeout(30*time.Second))
}

func TestTokenCounter(t *testing.T) {
	tc := NewTokenCounter()

	assert.Equal(t, 0, tc.EstimateTokens(""))
	assert.Equal(t, 3, tc.EstimateTokens("twelve chars"))
	assert.Equal(t, 100, tc.GetTokenCount(100, "anything"))
	assert.Equal(t, 3, tc.GetTokenCount(0, "twelve chars"))
}
