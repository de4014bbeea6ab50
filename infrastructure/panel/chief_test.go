package panel

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jessewalberg/aita/internal/domain"
	"github.com/jessewalberg/aita/internal/testutils"
)

func panelResults(codes ...domain.VerdictCode) []domain.PanelJudgeResult {
	results := make([]domain.PanelJudgeResult, len(codes))
	for i, code := range codes {
		results[i] = domain.PanelJudgeResult{
			JudgeVerdict: domain.JudgeVerdict{
				Verdict:    code,
				Confidence: 70,
				Summary:    fmt.Sprintf("summary %d", i),
				Reasoning:  fmt.Sprintf("reasoning %d", i),
				KeyPoints:  []string{"point"},
			},
			ModelID:   Judges[i].ID,
			ModelName: Judges[i].Name,
			Success:   true,
		}
	}
	return results
}

func TestSynthesizer_ParsedRulingWins(t *testing.T) {
	mock := testutils.NewMockLLMClient("mock")
	mock.AddResponse(testutils.MockResponse{
		Model: ChiefJudge.ID,
		Response: `{"verdict": "ESH", "confidence": 82, "summary": "Everyone escalated.",
			"reasoning": "Both sides crossed lines.", "keyPoints": ["Mutual escalation"],
			"synthesis": "Weighed all four opinions.", "dissent": "One judge ruled NTA.",
			"panelSplit": "3-1"}`,
	})

	result := NewSynthesizer(mock, nil).Synthesize(
		context.Background(), testSituation,
		panelResults(domain.VerdictESH, domain.VerdictESH, domain.VerdictESH, domain.VerdictNTA))

	assert.Equal(t, domain.VerdictESH, result.Verdict)
	assert.Equal(t, 82, result.Confidence)
	assert.Equal(t, "Weighed all four opinions.", result.Synthesis)
	assert.Equal(t, "3-1", result.PanelSplit)
}

func TestSynthesizer_TransportErrorFallsBack(t *testing.T) {
	mock := testutils.NewMockLLMClient("mock")
	mock.FailModel(ChiefJudge.ID, errors.New("gateway timeout"))

	panel := panelResults(domain.VerdictYTA, domain.VerdictYTA, domain.VerdictYTA, domain.VerdictNTA)
	result := NewSynthesizer(mock, nil).Synthesize(context.Background(), testSituation, panel)

	assert.Equal(t, domain.FallbackConsensus(panel), result)
}

func TestSynthesizer_ParseFailureFallsBack(t *testing.T) {
	mock := testutils.NewMockLLMClient("mock")
	mock.AddResponse(testutils.MockResponse{Model: ChiefJudge.ID, Response: "The panel has spoken."})

	panel := panelResults(domain.VerdictNTA, domain.VerdictNTA, domain.VerdictNTA, domain.VerdictNTA)
	result := NewSynthesizer(mock, nil).Synthesize(context.Background(), testSituation, panel)

	assert.Equal(t, domain.FallbackConsensus(panel), result)
}

// Transport errors and parse failures must yield byte-identical
// fallbacks for the same panel.
func TestSynthesizer_FallbackPathsAgree(t *testing.T) {
	panel := panelResults(domain.VerdictYTA, domain.VerdictNTA, domain.VerdictESH, domain.VerdictNAH)

	errored := testutils.NewMockLLMClient("mock")
	errored.FailModel(ChiefJudge.ID, errors.New("boom"))
	fromError := NewSynthesizer(errored, nil).Synthesize(context.Background(), testSituation, panel)

	garbled := testutils.NewMockLLMClient("mock")
	garbled.AddResponse(testutils.MockResponse{Model: ChiefJudge.ID, Response: "{not json"})
	fromParse := NewSynthesizer(garbled, nil).Synthesize(context.Background(), testSituation, panel)

	assert.Equal(t, fromError, fromParse)
}

func TestSynthesizer_RequestShape(t *testing.T) {
	mock := testutils.NewMockLLMClient("mock")
	panel := panelResults(domain.VerdictNTA, domain.VerdictYTA, domain.VerdictNTA, domain.VerdictNTA)

	NewSynthesizer(mock, nil).Synthesize(context.Background(), testSituation, panel)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	call := calls[0]

	assert.Equal(t, ChiefJudge.ID, call.Model)
	assert.Equal(t, ChiefMaxTokens, call.Options["max_tokens"])
	assert.Equal(t, ChiefJudgeSystem, call.Options["system"])
	for _, judge := range Judges {
		assert.Contains(t, call.Prompt, "## Judge "+judge.Name)
	}
	assert.Contains(t, call.Prompt, "## THE SITUATION")
	assert.Contains(t, call.Prompt, "Deliver your final ruling.")
}
