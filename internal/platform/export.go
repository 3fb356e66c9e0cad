package platform

import (
	"context"
	"fmt"

	"ontogen/internal/stats"
)

// SummarizeRuns condenses every stored run record, in id order.
func (p *Platform) SummarizeRuns(ctx context.Context) ([]stats.RunSummary, error) {
	if !p.Started() {
		return nil, fmt.Errorf("platform is not initialized")
	}
	ids, err := p.store.ListRuns(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]stats.RunSummary, 0, len(ids))
	for _, id := range ids {
		run, ok, err := p.store.GetRun(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		out = append(out, stats.SummarizeRun(run))
	}
	return out, nil
}

// Export writes every stored run's sample trace and summary row into
// dir as CSV and reports how many runs it wrote.
func (p *Platform) Export(ctx context.Context, dir string) (int, error) {
	if !p.Started() {
		return 0, fmt.Errorf("platform is not initialized")
	}
	if dir == "" {
		return 0, fmt.Errorf("export directory is required")
	}
	om, err := stats.NewOutputManager(dir)
	if err != nil {
		return 0, err
	}

	ids, err := p.store.ListRuns(ctx)
	if err != nil {
		om.Close()
		return 0, err
	}
	exported := 0
	for _, id := range ids {
		run, ok, err := p.store.GetRun(ctx, id)
		if err != nil {
			om.Close()
			return 0, err
		}
		if !ok {
			continue
		}
		if err := om.WriteRunSamples(run.ID, run.Samples); err != nil {
			om.Close()
			return 0, err
		}
		if err := om.WriteRun(run); err != nil {
			om.Close()
			return 0, err
		}
		exported++
	}
	if err := om.Close(); err != nil {
		return 0, err
	}
	p.log.Info("export complete", "dir", dir, "runs", exported)
	return exported, nil
}
