package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeVerdictCode(t *testing.T) {
	for _, code := range AllVerdictCodes {
		assert.Equal(t, code, NormalizeVerdictCode(string(code)))
	}

	tests := []struct {
		name  string
		input string
	}{
		{"empty string", ""},
		{"lowercase code", "nta"},
		{"near miss", "NTA."},
		{"unknown code", "MAYBE"},
		{"whitespace", " NTA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, VerdictINFO, NormalizeVerdictCode(tt.input))
		})
	}
}

func TestVerdictCode_IsValid(t *testing.T) {
	for _, code := range AllVerdictCodes {
		assert.True(t, code.IsValid())
	}
	assert.False(t, VerdictCode("").IsValid())
	assert.False(t, VerdictCode("YTA ").IsValid())
}

func TestModelStats_Leniency(t *testing.T) {
	tests := []struct {
		name  string
		stats ModelStats
		want  int
	}{
		{"empty row is neutral", ModelStats{}, 50},
		{
			name:  "all lenient",
			stats: ModelStats{NTACount: 3, NAHCount: 1},
			want:  100,
		},
		{
			name:  "all harsh",
			stats: ModelStats{YTACount: 4},
			want:  0,
		},
		{
			name:  "esh and info are neutral",
			stats: ModelStats{ESHCount: 2, INFOCount: 2},
			want:  50,
		},
		{
			name:  "mixed counts",
			stats: ModelStats{YTACount: 1, NTACount: 3},
			want:  75,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.stats.Leniency())
		})
	}
}

func TestModelStats_AddVerdict(t *testing.T) {
	stats := ModelStats{ModelID: "m", YTACount: 1, NTACount: 2, TotalVerdicts: 3}

	updated := stats.AddVerdict(VerdictNTA)

	assert.Equal(t, 3, updated.NTACount)
	assert.Equal(t, 1, updated.YTACount)
	assert.Equal(t, 4, updated.TotalVerdicts)
	// lenient=3, harsh=1, total=4 -> round(50 + 50*(3-1)/4) = 75
	assert.Equal(t, 75, updated.LeniencyScore)

	// The receiver is untouched.
	assert.Equal(t, 2, stats.NTACount)
}

func TestModelStats_AddVerdict_UnknownCountsAsINFO(t *testing.T) {
	updated := ModelStats{}.AddVerdict(VerdictCode("NOPE"))

	assert.Equal(t, 1, updated.INFOCount)
	assert.Equal(t, 1, updated.TotalVerdicts)
	assert.Equal(t, 50, updated.LeniencyScore)
}
