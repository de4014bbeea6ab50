// Package panel implements the verdict panel: the judge roster, prompt
// construction, response parsing, concurrent panel orchestration, and
// chief-judge synthesis with a deterministic consensus fallback.
package panel

// Judge describes one panel member: the model that backs it and the
// persona it argues from.
type Judge struct {
	// ID is the OpenRouter model identifier.
	ID string
	// Name is the judge's display name and the join key for stats.
	Name string
	// Personality selects the behavioral guide in the system prompt.
	Personality string
	// Tagline is a short description shown alongside the verdict.
	Tagline string
}

// Judges is the static panel roster. Order is significant: panel
// results preserve roster positions regardless of completion order.
var Judges = []Judge{
	{
		ID:          "anthropic/claude-3.5-haiku",
		Name:        "Claude",
		Personality: "Empathetic",
		Tagline:     "Considers emotional context",
	},
	{
		ID:          "openai/gpt-4o-mini",
		Name:        "GPT",
		Personality: "Logical",
		Tagline:     "Focuses on facts and fairness",
	},
	{
		ID:          "google/gemini-2.0-flash-001",
		Name:        "Gemini",
		Personality: "Practical",
		Tagline:     "Seeks real-world solutions",
	},
	{
		ID:          "x-ai/grok-3-mini",
		Name:        "Grok",
		Personality: "Skeptical",
		Tagline:     "Questions motives and spots inconsistencies",
	},
}

// ChiefJudge is the stronger model that synthesizes the panel's
// verdicts into a final ruling.
var ChiefJudge = Judge{
	ID:   "anthropic/claude-3.5-sonnet",
	Name: "Chief Judge",
}

// SingleJudge is the model used for single-verdict mode.
var SingleJudge = Judges[0]

// Sampling parameters for judge and chief calls.
const (
	JudgeTemperature = 0.7
	JudgeMaxTokens   = 1000
	ChiefMaxTokens   = 1500
)
