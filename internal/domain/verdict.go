package domain

import (
	"math"
	"time"
)

// VerdictCode is the closed set of rulings a judge can render.
// Codes follow the r/AmItheAsshole convention. There is no ordering
// between codes; they compare by equality only.
type VerdictCode string

const (
	// VerdictYTA means the person asking is primarily at fault.
	VerdictYTA VerdictCode = "YTA"
	// VerdictNTA means the other party is at fault.
	VerdictNTA VerdictCode = "NTA"
	// VerdictESH means everyone involved shares blame.
	VerdictESH VerdictCode = "ESH"
	// VerdictNAH means no one is truly in the wrong.
	VerdictNAH VerdictCode = "NAH"
	// VerdictINFO means critical context is missing.
	VerdictINFO VerdictCode = "INFO"
)

// Confidence bounds enforced on every parsed judge response.
const (
	MinConfidence = 50
	MaxConfidence = 95
)

// AllVerdictCodes lists every valid code in display order.
var AllVerdictCodes = []VerdictCode{
	VerdictYTA, VerdictNTA, VerdictESH, VerdictNAH, VerdictINFO,
}

// IsValid reports whether the code is one of the five known verdicts.
func (c VerdictCode) IsValid() bool {
	switch c {
	case VerdictYTA, VerdictNTA, VerdictESH, VerdictNAH, VerdictINFO:
		return true
	default:
		return false
	}
}

// NormalizeVerdictCode maps an arbitrary string to a VerdictCode.
// Any string that is not one of the five codes collapses to INFO,
// the canonical "we don't know" value. No fuzzy matching is applied;
// a near-miss from a model is treated as an invalid generation.
func NormalizeVerdictCode(s string) VerdictCode {
	code := VerdictCode(s)
	if code.IsValid() {
		return code
	}
	return VerdictINFO
}

// JudgeVerdict is a single judge's structured opinion on a situation.
// It is also the shape of the chief judge's final ruling fields.
type JudgeVerdict struct {
	// Verdict is the ruling rendered by the judge.
	Verdict VerdictCode `json:"verdict" validate:"required,oneof=YTA NTA ESH NAH INFO"`

	// Confidence is the judge's self-reported certainty, 50-95 inclusive.
	// Values outside the range fail validation at parse time.
	Confidence int `json:"confidence" validate:"required,min=50,max=95"`

	// Summary is a one-sentence take from the judge's perspective.
	Summary string `json:"summary"`

	// Reasoning carries the judge's full argument.
	Reasoning string `json:"reasoning"`

	// KeyPoints are the judge's main arguments, in the order given.
	KeyPoints []string `json:"keyPoints"`
}

// PanelJudgeResult is a JudgeVerdict annotated with the identity of the
// model that produced it and whether the call actually succeeded.
// When Success is false the embedded verdict is the fixed fallback.
type PanelJudgeResult struct {
	JudgeVerdict

	// ModelID is the opaque routing identifier for the backing model.
	ModelID string `json:"modelId"`

	// ModelName is the display name, used as the join key against the
	// static judge roster.
	ModelName string `json:"modelName"`

	// Success is true iff the model call completed and its output parsed
	// validly against the schema.
	Success bool `json:"success"`
}

// ChiefJudgeResult is the chief judge's synthesis over the panel.
type ChiefJudgeResult struct {
	JudgeVerdict

	// Synthesis explains how the panel opinions were weighed.
	Synthesis string `json:"synthesis"`

	// Dissent summarizes minority reasoning; empty when unanimous.
	Dissent string `json:"dissent"`

	// PanelSplit is a human-readable split descriptor such as "3-1",
	// "2-2 (tie broken)", or "split".
	PanelSplit string `json:"panelSplit"`
}

// Mode distinguishes a single-judge ruling from a full panel run.
type Mode string

const (
	ModeSingle Mode = "single"
	ModePanel  Mode = "panel"
)

// VerdictRecord is the persisted outcome of one pipeline run.
// It is created once at the end of a successful run and never mutated.
// Exactly one of UserID and VisitorID is set.
type VerdictRecord struct {
	ID        string `json:"id"`
	Situation string `json:"situation"`
	Mode      Mode   `json:"mode"`

	// PanelVerdicts holds each judge's result, trimmed to display fields.
	// Nil in single mode.
	PanelVerdicts []PanelJudgeResult `json:"panelVerdicts,omitempty"`

	Synthesis  string `json:"synthesis,omitempty"`
	Dissent    string `json:"dissent,omitempty"`
	PanelSplit string `json:"panelSplit,omitempty"`

	// Final ruling, flattened from the ChiefJudgeResult.
	Verdict    VerdictCode `json:"verdict"`
	Confidence int         `json:"confidence"`
	Summary    string      `json:"summary"`
	Reasoning  string      `json:"reasoning"`
	KeyPoints  []string    `json:"keyPoints"`

	// ShareID is an unguessable token used in public links.
	ShareID   string `json:"shareId"`
	IsPublic  bool   `json:"isPublic"`
	IsPro     bool   `json:"isPro"`
	UserID    string `json:"userId,omitempty"`
	VisitorID string `json:"visitorId,omitempty"`

	LatencyMs int64     `json:"latencyMs"`
	CreatedAt time.Time `json:"createdAt"`
}

// ModelStats tracks the running verdict distribution for one model.
// Rows are created on a model's first verdict and patched thereafter.
type ModelStats struct {
	ModelID       string    `json:"modelId"`
	ModelName     string    `json:"modelName"`
	TotalVerdicts int       `json:"totalVerdicts"`
	YTACount      int       `json:"ytaCount"`
	NTACount      int       `json:"ntaCount"`
	ESHCount      int       `json:"eshCount"`
	NAHCount      int       `json:"nahCount"`
	INFOCount     int       `json:"infoCount"`
	LeniencyScore int       `json:"leniencyScore"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// AddVerdict returns a copy of the stats with the given verdict counted
// and the leniency score recomputed.
func (s ModelStats) AddVerdict(code VerdictCode) ModelStats {
	switch NormalizeVerdictCode(string(code)) {
	case VerdictYTA:
		s.YTACount++
	case VerdictNTA:
		s.NTACount++
	case VerdictESH:
		s.ESHCount++
	case VerdictNAH:
		s.NAHCount++
	case VerdictINFO:
		s.INFOCount++
	}
	s.TotalVerdicts++
	s.LeniencyScore = s.Leniency()
	return s
}

// Leniency derives the 0-100 leniency score from the current counts.
// NTA and NAH count as lenient, YTA as harsh; ESH and INFO are neutral.
// 50 is the neutral baseline, and an empty row scores 50.
func (s ModelStats) Leniency() int {
	total := s.YTACount + s.NTACount + s.ESHCount + s.NAHCount + s.INFOCount
	if total == 0 {
		return 50
	}
	lenient := s.NTACount + s.NAHCount
	harsh := s.YTACount
	ratio := float64(lenient-harsh) / float64(total)
	return int(math.Round(50 + ratio*50))
}
