package panel

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jessewalberg/aita/internal/domain"
)

// Orchestrator fans the situation out to every judge on the roster and
// collects the results in roster order.
type Orchestrator struct {
	invoker *Invoker
	roster  []Judge
}

// NewOrchestrator builds an Orchestrator over the given roster. A nil
// or empty roster uses the default Judges.
func NewOrchestrator(invoker *Invoker, roster []Judge) *Orchestrator {
	if len(roster) == 0 {
		roster = Judges
	}
	return &Orchestrator{invoker: invoker, roster: roster}
}

// Roster returns the judges this orchestrator runs, in panel order.
func (o *Orchestrator) Roster() []Judge { return o.roster }

// Run invokes all judges concurrently and waits for every one to
// settle. Results are indexed by roster position, never by completion
// order, so downstream split formatting stays deterministic. Since the
// invoker converts failures into fallback results, Run itself cannot
// fail and every slot is populated.
func (o *Orchestrator) Run(ctx context.Context, situation string) []domain.PanelJudgeResult {
	results := make([]domain.PanelJudgeResult, len(o.roster))

	g, ctx := errgroup.WithContext(ctx)
	for i, judge := range o.roster {
		g.Go(func() error {
			results[i] = o.invoker.Invoke(ctx, judge, situation)
			return nil
		})
	}

	// Invocations never return errors; Wait is a pure join-all.
	_ = g.Wait()

	return results
}
