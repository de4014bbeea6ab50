package panel

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jessewalberg/aita/internal/ports"
)

// Situation length bounds, applied to the raw submission.
const (
	MinSituationLength = 50
	MaxSituationLength = 5000
)

// injectionPatterns match common prompt-injection phrasings. Matches
// are replaced, not rejected, so a legitimate situation that happens to
// contain one still gets judged.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(all\s+)?(previous|prior|above)\s+(instructions?|prompts?)`),
	regexp.MustCompile(`(?i)disregard\s+(all\s+)?(previous|prior|above)`),
	regexp.MustCompile(`(?i)forget\s+(all\s+)?(previous|prior|above)`),
	regexp.MustCompile(`(?i)override\s+(system|instructions?)`),
	regexp.MustCompile(`(?i)new\s+instructions?:`),
	regexp.MustCompile(`(?i)system\s*prompt:`),
	regexp.MustCompile(`(?i)\[system\]`),
	regexp.MustCompile(`(?i)\[assistant\]`),
	regexp.MustCompile(`(?i)you\s+are\s+now`),
	regexp.MustCompile(`(?i)act\s+as\s+if`),
	regexp.MustCompile(`(?i)pretend\s+(you\s+are|to\s+be)`),
	regexp.MustCompile(`(?i)roleplay\s+as`),
	regexp.MustCompile(`(?i)from\s+now\s+on`),
	regexp.MustCompile(`(?i)ignore\s+everything`),
	regexp.MustCompile(`(?i)do\s+not\s+follow`),
	regexp.MustCompile(`(?i)bypass\s+(safety|restrictions?|rules?)`),
	regexp.MustCompile(`(?i)jailbreak`),
	regexp.MustCompile(`(?i)\bdan\b.*\bmode\b`),
	regexp.MustCompile(`(?i)respond\s+only\s+with`),
	regexp.MustCompile(`(?i)output\s+only`),
}

const filteredMarker = "[filtered]"

// neutralizeInjections replaces injection phrasings with a marker.
func neutralizeInjections(text string) string {
	sanitized := text
	for _, pattern := range injectionPatterns {
		sanitized = pattern.ReplaceAllString(sanitized, filteredMarker)
	}
	return sanitized
}

// SanitizeUserInput neutralizes injection attempts and wraps the
// situation in delimiters so the model can tell instructions from user
// content.
func SanitizeUserInput(situation string) string {
	return fmt.Sprintf("<user_situation>\n%s\n</user_situation>", neutralizeInjections(situation))
}

// ValidateSituation checks submission length bounds. The minimum is
// measured on the trimmed text, the maximum on the raw text.
func ValidateSituation(situation string) error {
	if len(strings.TrimSpace(situation)) < MinSituationLength {
		return fmt.Errorf("%w: situation must be at least %d characters",
			ports.ErrInvalidSituation, MinSituationLength)
	}
	if len(situation) > MaxSituationLength {
		return fmt.Errorf("%w: situation must be under %d characters",
			ports.ErrInvalidSituation, MaxSituationLength)
	}
	return nil
}
