package application

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jessewalberg/aita/infrastructure/panel"
	"github.com/jessewalberg/aita/internal/domain"
	"github.com/jessewalberg/aita/internal/ports"
)

// Pipeline runs the full verdict flow: identifier and rate gating,
// panel orchestration, chief synthesis, persistence, and stats upkeep.
type Pipeline struct {
	orchestrator *panel.Orchestrator
	synthesizer  *panel.Synthesizer
	invoker      *panel.Invoker
	limiter      ports.RateLimiter
	verdicts     ports.VerdictStore
	stats        ports.ModelStatsStore
	metrics      ports.MetricsCollector
	logger       *zap.Logger
}

// PipelineDeps carries the collaborators a Pipeline needs.
type PipelineDeps struct {
	Orchestrator *panel.Orchestrator
	Synthesizer  *panel.Synthesizer
	Invoker      *panel.Invoker
	RateLimiter  ports.RateLimiter
	VerdictStore ports.VerdictStore
	StatsStore   ports.ModelStatsStore
	Metrics      ports.MetricsCollector
	Logger       *zap.Logger
}

// NewPipeline builds a Pipeline. Metrics may be nil; logging falls back
// to a no-op logger.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		orchestrator: deps.Orchestrator,
		synthesizer:  deps.Synthesizer,
		invoker:      deps.Invoker,
		limiter:      deps.RateLimiter,
		verdicts:     deps.VerdictStore,
		stats:        deps.StatsStore,
		metrics:      deps.Metrics,
		logger:       logger,
	}
}

// VerdictRequest is one submission to the pipeline. Exactly one of
// UserID and VisitorID must be set.
type VerdictRequest struct {
	// Situation is the raw, unsanitized submission text.
	Situation string
	// UserID identifies an authenticated account.
	UserID string
	// VisitorID identifies an anonymous browser session.
	VisitorID string
	// User carries permission inputs; nil for anonymous visitors.
	User *domain.User
	// IsPublic marks the resulting record as publicly listable.
	IsPublic bool
}

// PanelVerdictResult is what the caller gets back from a panel run.
type PanelVerdictResult struct {
	domain.ChiefJudgeResult

	ShareID       string                    `json:"shareId"`
	PanelVerdicts []domain.PanelJudgeResult `json:"panelVerdicts"`
	LatencyMs     int64                     `json:"latencyMs"`
}

// SingleVerdictResult is what the caller gets back from a single run.
type SingleVerdictResult struct {
	domain.JudgeVerdict

	ShareID   string `json:"shareId"`
	ModelName string `json:"modelName"`
	Success   bool   `json:"success"`
	LatencyMs int64  `json:"latencyMs"`
}

// GeneratePanelVerdict runs the whole panel flow for one situation.
// It fails fast on a missing identifier, an invalid situation, or an
// exhausted quota; judge and chief failures are absorbed into fallback
// values and never surface here. A failed record write does surface;
// stats failures are logged and skipped.
func (p *Pipeline) GeneratePanelVerdict(ctx context.Context, req VerdictRequest) (PanelVerdictResult, error) {
	start := time.Now()

	identifier, err := resolveIdentifier(req)
	if err != nil {
		return PanelVerdictResult{}, err
	}
	if err := panel.ValidateSituation(req.Situation); err != nil {
		return PanelVerdictResult{}, err
	}

	if err := p.gate(ctx, identifier, domain.ModePanel, req.User); err != nil {
		return PanelVerdictResult{}, err
	}

	results := p.orchestrator.Run(ctx, req.Situation)
	chief := p.synthesizer.Synthesize(ctx, req.Situation, results)

	shareID, err := NewShareID()
	if err != nil {
		return PanelVerdictResult{}, fmt.Errorf("generate share id: %w", err)
	}

	latency := time.Since(start).Milliseconds()
	record := domain.VerdictRecord{
		Situation:     req.Situation,
		Mode:          domain.ModePanel,
		PanelVerdicts: results,
		Synthesis:     chief.Synthesis,
		Dissent:       chief.Dissent,
		PanelSplit:    chief.PanelSplit,
		Verdict:       chief.Verdict,
		Confidence:    chief.Confidence,
		Summary:       chief.Summary,
		Reasoning:     chief.Reasoning,
		KeyPoints:     chief.KeyPoints,
		ShareID:       shareID,
		IsPublic:      req.IsPublic,
		IsPro:         domain.HasUnlimitedVerdicts(req.User),
		UserID:        req.UserID,
		VisitorID:     req.VisitorID,
		LatencyMs:     latency,
	}

	if _, err := p.verdicts.InsertVerdict(ctx, record); err != nil {
		p.count("verdict_requests_total", map[string]string{"mode": "panel", "status": "store_error"})
		return PanelVerdictResult{}, err
	}

	p.recordPanelStats(ctx, results)
	p.observe("pipeline", time.Since(start), domain.ModePanel)
	p.count("verdict_requests_total", map[string]string{"mode": "panel", "status": "ok"})

	return PanelVerdictResult{
		ChiefJudgeResult: chief,
		ShareID:          shareID,
		PanelVerdicts:    results,
		LatencyMs:        latency,
	}, nil
}

// GenerateSingleVerdict runs one judge and records its verdict as
// final. The same gates apply as in panel mode, under the single-mode
// quota.
func (p *Pipeline) GenerateSingleVerdict(ctx context.Context, req VerdictRequest) (SingleVerdictResult, error) {
	start := time.Now()

	identifier, err := resolveIdentifier(req)
	if err != nil {
		return SingleVerdictResult{}, err
	}
	if err := panel.ValidateSituation(req.Situation); err != nil {
		return SingleVerdictResult{}, err
	}

	if err := p.gate(ctx, identifier, domain.ModeSingle, req.User); err != nil {
		return SingleVerdictResult{}, err
	}

	result := p.invoker.Invoke(ctx, panel.SingleJudge, req.Situation)

	shareID, err := NewShareID()
	if err != nil {
		return SingleVerdictResult{}, fmt.Errorf("generate share id: %w", err)
	}

	latency := time.Since(start).Milliseconds()
	record := domain.VerdictRecord{
		Situation:  req.Situation,
		Mode:       domain.ModeSingle,
		Verdict:    result.Verdict,
		Confidence: result.Confidence,
		Summary:    result.Summary,
		Reasoning:  result.Reasoning,
		KeyPoints:  result.KeyPoints,
		ShareID:    shareID,
		IsPublic:   req.IsPublic,
		IsPro:      domain.HasUnlimitedVerdicts(req.User),
		UserID:     req.UserID,
		VisitorID:  req.VisitorID,
		LatencyMs:  latency,
	}

	if _, err := p.verdicts.InsertVerdict(ctx, record); err != nil {
		p.count("verdict_requests_total", map[string]string{"mode": "single", "status": "store_error"})
		return SingleVerdictResult{}, err
	}

	p.recordStats(ctx, result)
	p.observe("pipeline", time.Since(start), domain.ModeSingle)
	p.count("verdict_requests_total", map[string]string{"mode": "single", "status": "ok"})

	return SingleVerdictResult{
		JudgeVerdict: result.JudgeVerdict,
		ShareID:      shareID,
		ModelName:    result.ModelName,
		Success:      result.Success,
		LatencyMs:    latency,
	}, nil
}

// resolveIdentifier enforces the exactly-one precondition and returns
// the rate-limit key. User identifiers are namespaced so an account and
// a visitor with colliding raw IDs never share a quota row.
func resolveIdentifier(req VerdictRequest) (string, error) {
	switch {
	case req.UserID != "" && req.VisitorID != "":
		return "", ports.ErrMissingIdentifier
	case req.UserID != "":
		return "user:" + req.UserID, nil
	case req.VisitorID != "":
		return req.VisitorID, nil
	default:
		return "", ports.ErrMissingIdentifier
	}
}

func (p *Pipeline) gate(ctx context.Context, identifier string, mode domain.Mode, user *domain.User) error {
	decision, err := p.limiter.CheckAndIncrement(ctx, identifier, mode, domain.CanBypassRateLimit(user))
	if err != nil {
		return err
	}
	if !decision.Allowed {
		p.count("verdict_requests_total", map[string]string{"mode": string(mode), "status": "rate_limited"})
		return ports.ErrRateLimited
	}
	return nil
}

func (p *Pipeline) recordPanelStats(ctx context.Context, results []domain.PanelJudgeResult) {
	for _, result := range results {
		p.recordStats(ctx, result)
	}
}

// recordStats upserts one judge's running stats. Failures here must not
// fail the request: the verdict is already persisted, so the error is
// logged and the row skipped.
func (p *Pipeline) recordStats(ctx context.Context, result domain.PanelJudgeResult) {
	if err := p.stats.RecordVerdict(ctx, result.ModelID, result.ModelName, result.Verdict); err != nil {
		p.logger.Warn("model stats update skipped",
			zap.String("model", result.ModelID),
			zap.Error(err))
		return
	}
	p.count("judge_verdicts_total", map[string]string{
		"judge":   result.ModelName,
		"verdict": string(result.Verdict),
		"success": fmt.Sprintf("%t", result.Success),
	})
}

func (p *Pipeline) observe(operation string, d time.Duration, mode domain.Mode) {
	if p.metrics == nil {
		return
	}
	p.metrics.RecordLatency(operation, d, map[string]string{"mode": string(mode)})
}

func (p *Pipeline) count(metric string, labels map[string]string) {
	if p.metrics == nil {
		return
	}
	p.metrics.RecordCounter(metric, 1, labels)
}

// shareIDAlphabet matches the URL-safe alphabet commonly used for short
// share tokens.
const shareIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"

// ShareIDLength is the length of generated share tokens. 64^10 values
// make collisions and guessing impractical at this service's scale.
const ShareIDLength = 10

// NewShareID returns an unguessable share token from crypto/rand.
func NewShareID() (string, error) {
	buf := make([]byte, ShareIDLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	id := make([]byte, ShareIDLength)
	for i, b := range buf {
		id[i] = shareIDAlphabet[int(b)%len(shareIDAlphabet)]
	}
	return string(id), nil
}
