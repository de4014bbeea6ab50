package panel

import (
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jessewalberg/aita/internal/domain"
)

var validate = validator.New()

// ParseJudgeResponse parses raw model output into a JudgeVerdict. It
// returns nil on any malformation: unparsable JSON, a verdict outside
// the five codes, or a confidence outside 50-95. There is no clamping
// or partial acceptance; a bad generation must not pass as good data.
func ParseJudgeResponse(raw string) *domain.JudgeVerdict {
	content := stripFences(raw)
	if content == "" {
		return nil
	}

	var verdict domain.JudgeVerdict
	if err := json.Unmarshal([]byte(content), &verdict); err != nil {
		return nil
	}
	if err := validate.Struct(&verdict); err != nil {
		return nil
	}
	if verdict.KeyPoints == nil {
		return nil
	}
	return &verdict
}

// ParseChiefJudgeResponse parses the chief judge's output. Same
// fail-closed semantics as ParseJudgeResponse; the synthesis fields are
// accepted as-is once the core verdict fields validate.
func ParseChiefJudgeResponse(raw string) *domain.ChiefJudgeResult {
	content := stripFences(raw)
	if content == "" {
		return nil
	}

	var result domain.ChiefJudgeResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil
	}
	if err := validate.Struct(&result.JudgeVerdict); err != nil {
		return nil
	}
	if result.KeyPoints == nil {
		return nil
	}
	return &result
}

// stripFences removes a surrounding markdown code fence, including an
// optional json language tag. Content without fences passes through
// trimmed.
func stripFences(raw string) string {
	content := strings.TrimSpace(raw)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	content = strings.TrimPrefix(content, "```")
	content = strings.TrimPrefix(content, "json")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}

// FallbackJudgeVerdict is the canonical "we don't know" value used
// whenever a judge call fails or its output does not parse.
func FallbackJudgeVerdict() domain.JudgeVerdict {
	return domain.JudgeVerdict{
		Verdict:    domain.VerdictINFO,
		Confidence: 50,
		Summary:    "Unable to analyze at this time.",
		Reasoning:  "Please try again.",
		KeyPoints:  []string{"Try rephrasing your situation"},
	}
}
