package panel

import (
	"context"

	"go.uber.org/zap"

	"github.com/jessewalberg/aita/internal/domain"
	"github.com/jessewalberg/aita/internal/ports"
)

// Invoker performs single judge calls against the LLM gateway.
//
// Failure isolation is its load-bearing contract: any transport error
// or parse failure is converted into the fallback verdict with
// Success=false. Invoke never returns an error, so one judge's outage
// can never abort the panel.
type Invoker struct {
	client ports.LLMClient
	logger *zap.Logger
}

// NewInvoker builds an Invoker. A nil logger disables logging.
func NewInvoker(client ports.LLMClient, logger *zap.Logger) *Invoker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Invoker{client: client, logger: logger}
}

// Invoke runs one judge over the situation and returns its result.
func (inv *Invoker) Invoke(ctx context.Context, judge Judge, situation string) domain.PanelJudgeResult {
	options := map[string]any{
		"model":       judge.ID,
		"system":      BuildJudgeSystemPrompt(judge.Name, judge.Personality),
		"temperature": JudgeTemperature,
		"max_tokens":  JudgeMaxTokens,
	}

	raw, err := inv.client.Complete(ctx, BuildJudgeUserPrompt(situation), options)
	if err != nil {
		inv.logger.Warn("judge call failed",
			zap.String("judge", judge.Name),
			zap.String("model", judge.ID),
			zap.Error(err))
		return fallbackResult(judge)
	}

	parsed := ParseJudgeResponse(raw)
	if parsed == nil {
		inv.logger.Warn("judge response did not parse",
			zap.String("judge", judge.Name),
			zap.String("model", judge.ID))
		return fallbackResult(judge)
	}

	return domain.PanelJudgeResult{
		JudgeVerdict: *parsed,
		ModelID:      judge.ID,
		ModelName:    judge.Name,
		Success:      true,
	}
}

func fallbackResult(judge Judge) domain.PanelJudgeResult {
	return domain.PanelJudgeResult{
		JudgeVerdict: FallbackJudgeVerdict(),
		ModelID:      judge.ID,
		ModelName:    judge.Name,
		Success:      false,
	}
}
