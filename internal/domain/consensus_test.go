package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// panelOf builds a panel from parallel verdict and confidence slices.
func panelOf(t *testing.T, verdicts []VerdictCode, confidences []int) []PanelJudgeResult {
	t.Helper()
	require.Equal(t, len(verdicts), len(confidences))

	panel := make([]PanelJudgeResult, len(verdicts))
	for i := range verdicts {
		panel[i] = PanelJudgeResult{
			JudgeVerdict: JudgeVerdict{
				Verdict:    verdicts[i],
				Confidence: confidences[i],
				Summary:    "summary",
				Reasoning:  "reasoning",
				KeyPoints:  []string{"point"},
			},
			ModelID:   "model",
			ModelName: "Judge",
			Success:   true,
		}
	}
	return panel
}

func TestFallbackConsensus_FourJudges(t *testing.T) {
	tests := []struct {
		name            string
		verdicts        []VerdictCode
		confidences     []int
		wantVerdict     VerdictCode
		wantConfidence  int
		wantSplit       string
		wantDissent     bool
		wantDissentText string
	}{
		{
			name:           "unanimous panel",
			verdicts:       []VerdictCode{VerdictNTA, VerdictNTA, VerdictNTA, VerdictNTA},
			confidences:    []int{80, 70, 90, 85},
			wantVerdict:    VerdictNTA,
			wantConfidence: 70,
			wantSplit:      "4-0",
			wantDissent:    false,
		},
		{
			name:           "three to one majority",
			verdicts:       []VerdictCode{VerdictYTA, VerdictYTA, VerdictYTA, VerdictNTA},
			confidences:    []int{75, 80, 70, 90},
			wantVerdict:    VerdictYTA,
			wantConfidence: 65,
			wantSplit:      "3-1",
			wantDissent:    true,
		},
		{
			name:           "two votes beat two singles",
			verdicts:       []VerdictCode{VerdictESH, VerdictESH, VerdictYTA, VerdictNTA},
			confidences:    []int{70, 70, 90, 90},
			wantVerdict:    VerdictESH,
			wantConfidence: 60,
			wantSplit:      "2-2",
			wantDissent:    true,
		},
		{
			name:           "tie broken by higher average confidence",
			verdicts:       []VerdictCode{VerdictNTA, VerdictNTA, VerdictYTA, VerdictYTA},
			confidences:    []int{90, 80, 60, 70},
			wantVerdict:    VerdictNTA,
			wantConfidence: 55,
			wantSplit:      "2-2 (tie broken)",
			wantDissent:    true,
		},
		{
			name:           "tie with lower average loses",
			verdicts:       []VerdictCode{VerdictNTA, VerdictNTA, VerdictYTA, VerdictYTA},
			confidences:    []int{55, 60, 85, 90},
			wantVerdict:    VerdictYTA,
			wantConfidence: 55,
			wantSplit:      "2-2 (tie broken)",
			wantDissent:    true,
		},
		{
			name:           "exact confidence tie favors lexically smaller code",
			verdicts:       []VerdictCode{VerdictNTA, VerdictNTA, VerdictYTA, VerdictYTA},
			confidences:    []int{80, 70, 60, 90},
			wantVerdict:    VerdictNTA,
			wantConfidence: 55,
			wantSplit:      "2-2 (tie broken)",
			wantDissent:    true,
		},
		{
			name:           "four way split forces INFO",
			verdicts:       []VerdictCode{VerdictNTA, VerdictNAH, VerdictYTA, VerdictESH},
			confidences:    []int{95, 95, 95, 95},
			wantVerdict:    VerdictINFO,
			wantConfidence: 50,
			wantSplit:      "split",
			wantDissent:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FallbackConsensus(panelOf(t, tt.verdicts, tt.confidences))

			assert.Equal(t, tt.wantVerdict, result.Verdict)
			assert.Equal(t, tt.wantConfidence, result.Confidence)
			assert.Equal(t, tt.wantSplit, result.PanelSplit)
			if tt.wantDissent {
				assert.NotEmpty(t, result.Dissent)
			} else {
				assert.Empty(t, result.Dissent)
			}
			assert.NotEmpty(t, result.Summary)
			assert.NotEmpty(t, result.Reasoning)
			assert.NotEmpty(t, result.KeyPoints)
			assert.NotEmpty(t, result.Synthesis)
		})
	}
}

func TestFallbackConsensus_ThreeJudges(t *testing.T) {
	tests := []struct {
		name           string
		verdicts       []VerdictCode
		confidences    []int
		wantVerdict    VerdictCode
		wantConfidence int
		wantSplit      string
	}{
		{
			name:           "unanimous three judge panel",
			verdicts:       []VerdictCode{VerdictNAH, VerdictNAH, VerdictNAH},
			confidences:    []int{60, 70, 80},
			wantVerdict:    VerdictNAH,
			wantConfidence: 70,
			wantSplit:      "3-0",
		},
		{
			name:           "two one majority",
			verdicts:       []VerdictCode{VerdictYTA, VerdictYTA, VerdictNTA},
			confidences:    []int{60, 60, 95},
			wantVerdict:    VerdictYTA,
			wantConfidence: 60,
			wantSplit:      "2-1",
		},
		{
			name:           "three way split forces INFO",
			verdicts:       []VerdictCode{VerdictYTA, VerdictNTA, VerdictESH},
			confidences:    []int{80, 80, 80},
			wantVerdict:    VerdictINFO,
			wantConfidence: 50,
			wantSplit:      "split",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FallbackConsensus(panelOf(t, tt.verdicts, tt.confidences))

			assert.Equal(t, tt.wantVerdict, result.Verdict)
			assert.Equal(t, tt.wantConfidence, result.Confidence)
			assert.Equal(t, tt.wantSplit, result.PanelSplit)
		})
	}
}

func TestFallbackConsensus_EmptyPanel(t *testing.T) {
	result := FallbackConsensus(nil)

	assert.Equal(t, VerdictINFO, result.Verdict)
	assert.Equal(t, 50, result.Confidence)
	assert.Equal(t, "split", result.PanelSplit)
	assert.Empty(t, result.Dissent)
}

// The fallback must be deterministic across invocations and independent
// of panel ordering.
func TestFallbackConsensus_Deterministic(t *testing.T) {
	verdicts := []VerdictCode{VerdictNTA, VerdictYTA, VerdictNTA, VerdictYTA}
	confidences := []int{75, 75, 75, 75}

	first := FallbackConsensus(panelOf(t, verdicts, confidences))
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, FallbackConsensus(panelOf(t, verdicts, confidences)))
	}

	// Reversed panel order must not change the ruling.
	reversed := FallbackConsensus(panelOf(t,
		[]VerdictCode{VerdictYTA, VerdictNTA, VerdictYTA, VerdictNTA},
		[]int{75, 75, 75, 75},
	))
	assert.Equal(t, first, reversed)
}
