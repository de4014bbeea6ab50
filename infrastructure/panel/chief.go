package panel

import (
	"context"

	"go.uber.org/zap"

	"github.com/jessewalberg/aita/internal/domain"
	"github.com/jessewalberg/aita/internal/ports"
)

// Synthesizer issues the chief-judge call that turns panel results into
// a final ruling.
//
// When the call errors or its output does not parse, the deterministic
// consensus fallback produces the ruling instead. Both failure paths
// run the identical fallback; callers never learn which one fired.
type Synthesizer struct {
	client ports.LLMClient
	chief  Judge
	logger *zap.Logger
}

// NewSynthesizer builds a Synthesizer using the default chief judge.
func NewSynthesizer(client ports.LLMClient, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{client: client, chief: ChiefJudge, logger: logger}
}

// Synthesize produces the final ruling over the panel's results.
func (s *Synthesizer) Synthesize(ctx context.Context, situation string, results []domain.PanelJudgeResult) domain.ChiefJudgeResult {
	options := map[string]any{
		"model":       s.chief.ID,
		"system":      ChiefJudgeSystem,
		"temperature": JudgeTemperature,
		"max_tokens":  ChiefMaxTokens,
	}

	raw, err := s.client.Complete(ctx, BuildChiefJudgePrompt(situation, results), options)
	if err != nil {
		s.logger.Warn("chief judge call failed, using consensus fallback",
			zap.String("model", s.chief.ID),
			zap.Error(err))
		return domain.FallbackConsensus(results)
	}

	parsed := ParseChiefJudgeResponse(raw)
	if parsed == nil {
		s.logger.Warn("chief judge response did not parse, using consensus fallback",
			zap.String("model", s.chief.ID))
		return domain.FallbackConsensus(results)
	}

	return *parsed
}
