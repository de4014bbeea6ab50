package panel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jessewalberg/aita/internal/domain"
)

const validJudgeJSON = `{
	"verdict": "NTA",
	"confidence": 78,
	"summary": "You set a reasonable boundary.",
	"reasoning": "The other party escalated first.",
	"keyPoints": ["Boundary was communicated", "Escalation was one-sided"]
}`

func TestParseJudgeResponse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *domain.JudgeVerdict
	}{
		{
			name: "plain JSON",
			raw:  validJudgeJSON,
			want: &domain.JudgeVerdict{
				Verdict:    domain.VerdictNTA,
				Confidence: 78,
				Summary:    "You set a reasonable boundary.",
				Reasoning:  "The other party escalated first.",
				KeyPoints:  []string{"Boundary was communicated", "Escalation was one-sided"},
			},
		},
		{
			name: "json fenced block",
			raw:  "```json\n" + validJudgeJSON + "\n```",
			want: &domain.JudgeVerdict{
				Verdict:    domain.VerdictNTA,
				Confidence: 78,
				Summary:    "You set a reasonable boundary.",
				Reasoning:  "The other party escalated first.",
				KeyPoints:  []string{"Boundary was communicated", "Escalation was one-sided"},
			},
		},
		{
			name: "bare fenced block with surrounding whitespace",
			raw:  "\n  ```\n" + validJudgeJSON + "\n```  \n",
			want: &domain.JudgeVerdict{
				Verdict:    domain.VerdictNTA,
				Confidence: 78,
				Summary:    "You set a reasonable boundary.",
				Reasoning:  "The other party escalated first.",
				KeyPoints:  []string{"Boundary was communicated", "Escalation was one-sided"},
			},
		},
		{
			name: "empty input",
			raw:  "",
			want: nil,
		},
		{
			name: "not JSON",
			raw:  "I think NTA, confidence about 80%.",
			want: nil,
		},
		{
			name: "unknown verdict code",
			raw:  `{"verdict": "NTAA", "confidence": 78, "summary": "s", "reasoning": "r", "keyPoints": ["k"]}`,
			want: nil,
		},
		{
			name: "lowercase verdict is rejected",
			raw:  `{"verdict": "nta", "confidence": 78, "summary": "s", "reasoning": "r", "keyPoints": ["k"]}`,
			want: nil,
		},
		{
			name: "confidence below range",
			raw:  `{"verdict": "NTA", "confidence": 49, "summary": "s", "reasoning": "r", "keyPoints": ["k"]}`,
			want: nil,
		},
		{
			name: "confidence above range",
			raw:  `{"verdict": "NTA", "confidence": 96, "summary": "s", "reasoning": "r", "keyPoints": ["k"]}`,
			want: nil,
		},
		{
			name: "confidence as string",
			raw:  `{"verdict": "NTA", "confidence": "78", "summary": "s", "reasoning": "r", "keyPoints": ["k"]}`,
			want: nil,
		},
		{
			name: "missing keyPoints",
			raw:  `{"verdict": "NTA", "confidence": 78, "summary": "s", "reasoning": "r"}`,
			want: nil,
		},
		{
			name: "keyPoints with non-string element",
			raw:  `{"verdict": "NTA", "confidence": 78, "summary": "s", "reasoning": "r", "keyPoints": ["k", 2]}`,
			want: nil,
		},
		{
			name: "boundary confidence values accepted",
			raw:  `{"verdict": "INFO", "confidence": 50, "summary": "s", "reasoning": "r", "keyPoints": []}`,
			want: &domain.JudgeVerdict{
				Verdict:    domain.VerdictINFO,
				Confidence: 50,
				Summary:    "s",
				Reasoning:  "r",
				KeyPoints:  []string{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseJudgeResponse(tt.raw)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseChiefJudgeResponse(t *testing.T) {
	raw := `{
		"verdict": "YTA",
		"confidence": 81,
		"summary": "The panel rules 3-1 against you.",
		"reasoning": "Three judges found the same pattern.",
		"keyPoints": ["Pattern of dismissiveness"],
		"synthesis": "The majority's argument held together.",
		"dissent": "One judge found the reaction proportionate.",
		"panelSplit": "3-1"
	}`

	got := ParseChiefJudgeResponse(raw)
	require.NotNil(t, got)
	assert.Equal(t, domain.VerdictYTA, got.Verdict)
	assert.Equal(t, 81, got.Confidence)
	assert.Equal(t, "The majority's argument held together.", got.Synthesis)
	assert.Equal(t, "One judge found the reaction proportionate.", got.Dissent)
	assert.Equal(t, "3-1", got.PanelSplit)
}

func TestParseChiefJudgeResponse_Invalid(t *testing.T) {
	assert.Nil(t, ParseChiefJudgeResponse(""))
	assert.Nil(t, ParseChiefJudgeResponse("not json"))
	assert.Nil(t, ParseChiefJudgeResponse(
		`{"verdict": "MAYBE", "confidence": 80, "summary": "s", "reasoning": "r", "keyPoints": [], "panelSplit": "3-1"}`))
	assert.Nil(t, ParseChiefJudgeResponse(
		`{"verdict": "YTA", "confidence": 99, "summary": "s", "reasoning": "r", "keyPoints": [], "panelSplit": "3-1"}`))
}

func TestFallbackJudgeVerdict(t *testing.T) {
	fallback := FallbackJudgeVerdict()
	assert.Equal(t, domain.VerdictINFO, fallback.Verdict)
	assert.Equal(t, 50, fallback.Confidence)
	assert.Equal(t, "Unable to analyze at this time.", fallback.Summary)
	assert.Equal(t, []string{"Try rephrasing your situation"}, fallback.KeyPoints)
}
