package platform

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"ontogen/internal/embryo"
	"ontogen/internal/genome"
	"ontogen/internal/io"
	"ontogen/internal/model"
	"ontogen/internal/stats"
	"ontogen/internal/storage"
)

// BatchResult carries a batch sweep's per-seed outcomes in seed order
// plus their aggregate.
type BatchResult struct {
	Results []stats.DevelopmentSummary
	Summary stats.BatchSummary
}

// Batch generates and develops the configured span of seeds with a
// worker pool, persisting every genome and topology. Artifact rows are
// written after the pool drains, on the calling goroutine.
func (p *Platform) Batch(ctx context.Context) (BatchResult, error) {
	if !p.Started() {
		return BatchResult{}, fmt.Errorf("platform is not initialized")
	}
	profile, err := io.ResolveProfile(p.cfg.Develop.Profile, p.geometry())
	if err != nil {
		return BatchResult{}, err
	}

	type job struct {
		idx  int
		seed uint64
	}
	type result struct {
		idx     int
		summary stats.DevelopmentSummary
		err     error
	}

	seeds := p.cfg.Batch.Seeds
	jobs := make(chan job)
	results := make(chan result, seeds)

	workerCount := p.cfg.Batch.Workers
	if workerCount <= 0 {
		workerCount = 1
	}
	if workerCount > seeds {
		workerCount = seeds
	}

	var wg sync.WaitGroup
	wg.Add(workerCount)
	for w := 0; w < workerCount; w++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				if err := ctx.Err(); err != nil {
					results <- result{idx: j.idx, err: err}
					continue
				}
				summary, err := p.developSeed(ctx, j.seed, profile)
				results <- result{idx: j.idx, summary: summary, err: err}
			}
		}()
	}

	for i := 0; i < seeds; i++ {
		jobs <- job{idx: i, seed: p.cfg.Batch.Seed + uint64(i)}
	}
	close(jobs)
	wg.Wait()
	close(results)

	collected := make([]stats.DevelopmentSummary, seeds)
	for res := range results {
		if res.err != nil {
			return BatchResult{}, res.err
		}
		collected[res.idx] = res.summary
	}

	for _, summary := range collected {
		if err := p.out.WriteBatchRow(summary); err != nil {
			p.log.Warn("batch export failed", "seed", summary.Seed, "error", err)
		}
	}
	batch := stats.SummarizeBatch(collected)
	if err := p.out.WriteBatchSummary(batch); err != nil {
		p.log.Warn("batch summary export failed", "error", err)
	}
	if dir := p.out.Dir(); dir != "" {
		if err := p.cfg.WriteYAML(filepath.Join(dir, "config.yaml")); err != nil {
			p.log.Warn("config export failed", "error", err)
		}
	}

	p.log.Info("batch complete",
		"seeds", batch.Seeds, "survived", batch.Survived,
		"workers", workerCount, "faults", batch.Faults)
	return BatchResult{Results: collected, Summary: batch}, nil
}

// developSeed is the per-worker unit: one genome generated, grown, and
// persisted with its topology. Telemetry stays local to the worker.
func (p *Platform) developSeed(ctx context.Context, seed uint64, profile embryo.Profile) (stats.DevelopmentSummary, error) {
	g := model.Genome{
		VersionedRecord: storage.CurrentVersion(),
		ID:              model.NewID(),
		Seed:            seed,
		Data:            genome.Generate(seed, p.cfg.Genome.Size),
		CreatedAt:       time.Now().UTC(),
	}
	if err := p.store.SaveGenome(ctx, g); err != nil {
		return stats.DevelopmentSummary{}, err
	}
	_, summary, err := p.grow(ctx, g, profile, nil)
	if err != nil {
		return stats.DevelopmentSummary{}, fmt.Errorf("seed %d: %w", seed, err)
	}
	return summary, nil
}
