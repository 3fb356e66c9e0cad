// Package platform orchestrates the development and run pipelines over
// a store: genomes in, topologies and run traces out.
package platform

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ontogen/internal/config"
	"ontogen/internal/embryo"
	"ontogen/internal/engine"
	"ontogen/internal/genome"
	"ontogen/internal/grid"
	"ontogen/internal/io"
	"ontogen/internal/model"
	"ontogen/internal/net2rec"
	"ontogen/internal/stats"
	"ontogen/internal/storage"
)

// Platform wires the configuration, the store, and the artifact writer
// into the develop, run, and batch lifecycles.
type Platform struct {
	cfg   *config.Config
	store storage.Store
	out   *stats.OutputManager
	log   *slog.Logger

	mu      sync.Mutex
	started bool
}

// New assembles a platform. A nil output manager disables artifact
// export.
func New(cfg *config.Config, store storage.Store, out *stats.OutputManager) (*Platform, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	return &Platform{
		cfg:   cfg,
		store: store,
		out:   out,
		log:   slog.With("component", "platform"),
	}, nil
}

// Init prepares the store. Calling it again is a no-op.
func (p *Platform) Init(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return nil
	}
	if err := p.store.Init(ctx); err != nil {
		return err
	}
	p.started = true
	return nil
}

// Started reports whether Init has succeeded.
func (p *Platform) Started() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}

// Close releases the store and flushes pending artifacts.
func (p *Platform) Close() error {
	p.mu.Lock()
	p.started = false
	p.mu.Unlock()

	err := storage.CloseIfSupported(p.store)
	if cerr := p.out.Close(); err == nil {
		err = cerr
	}
	return err
}

// CreateGenome generates, stamps, and persists a genome from the seed.
func (p *Platform) CreateGenome(ctx context.Context, seed uint64) (model.Genome, error) {
	if !p.Started() {
		return model.Genome{}, fmt.Errorf("platform is not initialized")
	}
	g := model.Genome{
		VersionedRecord: storage.CurrentVersion(),
		ID:              model.NewID(),
		Seed:            seed,
		Data:            genome.Generate(seed, p.cfg.Genome.Size),
		CreatedAt:       time.Now().UTC(),
	}
	if err := p.store.SaveGenome(ctx, g); err != nil {
		return model.Genome{}, err
	}
	p.log.Info("genome created", "genome", g.ID, "seed", seed, "bytes", len(g.Data))
	return g, nil
}

// DevelopResult carries a develop's persisted topology and its
// telemetry summary.
type DevelopResult struct {
	Topology model.Topology
	Summary  stats.DevelopmentSummary
}

// Develop grows a stored genome to the configured horizon and persists
// the resulting topology. Per-tick telemetry streams to the artifact
// writer when one is attached.
func (p *Platform) Develop(ctx context.Context, genomeID string) (DevelopResult, error) {
	if !p.Started() {
		return DevelopResult{}, fmt.Errorf("platform is not initialized")
	}
	g, ok, err := p.store.GetGenome(ctx, genomeID)
	if err != nil {
		return DevelopResult{}, err
	}
	if !ok {
		return DevelopResult{}, fmt.Errorf("genome not found: %s", genomeID)
	}

	profile, err := io.ResolveProfile(p.cfg.Develop.Profile, p.geometry())
	if err != nil {
		return DevelopResult{}, err
	}

	top, summary, err := p.grow(ctx, g, profile, func(t embryo.Telemetry) {
		if err := p.out.WriteDevelopmentPoint(g.Seed, t); err != nil {
			p.log.Warn("development export failed", "genome", g.ID, "tick", t.Tick, "error", err)
		}
	})
	if err != nil {
		return DevelopResult{}, err
	}

	p.log.Info("develop complete",
		"genome", g.ID, "topology", top.ID, "ticks", top.Ticks,
		"neurons", len(top.Neurons), "synapses", len(top.Synapses),
		"faults", top.Faults)
	return DevelopResult{Topology: top, Summary: summary}, nil
}

// Run replays the configured environment against a stored topology and
// persists the actuator trace. The run ends early when the environment
// exhausts.
func (p *Platform) Run(ctx context.Context, topologyID string) (model.Run, error) {
	if !p.Started() {
		return model.Run{}, fmt.Errorf("platform is not initialized")
	}
	top, ok, err := p.store.GetTopology(ctx, topologyID)
	if err != nil {
		return model.Run{}, err
	}
	if !ok {
		return model.Run{}, fmt.Errorf("topology not found: %s", topologyID)
	}

	geometry := io.Geometry(top.Rows, top.Columns)
	source, err := io.ResolveEnvironment(p.cfg.Run.Environment, geometry)
	if err != nil {
		return model.Run{}, err
	}
	codec, err := io.ResolveCodec(p.cfg.Run.Codec, geometry)
	if err != nil {
		return model.Run{}, err
	}

	g, net, err := net2rec.Rebuild(top)
	if err != nil {
		return model.Run{}, err
	}
	eng := engine.New(g, net, engine.Options{
		Interval:       uint16(p.cfg.Engine.Interval),
		Plastic:        p.cfg.Engine.Plastic,
		Check:          p.cfg.Engine.Check,
		InputCapacity:  p.cfg.Engine.InputCapacity,
		OutputCapacity: p.cfg.Engine.OutputCapacity,
		Codec:          codec,
	})

	run := model.Run{
		VersionedRecord: storage.CurrentVersion(),
		ID:              model.NewID(),
		TopologyID:      top.ID,
		Environment:     source.Name(),
		Codec:           codec.Name(),
		Plastic:         p.cfg.Engine.Plastic,
		StartedAt:       time.Now().UTC(),
	}
	for cycle := 0; cycle < p.cfg.Run.Cycles; cycle++ {
		select {
		case <-ctx.Done():
			return model.Run{}, ctx.Err()
		default:
		}
		frame, ok := source.Frame(cycle)
		if !ok {
			break
		}
		out, err := eng.HandleSensor(frame)
		if err != nil {
			return model.Run{}, fmt.Errorf("cycle %d: %w", cycle, err)
		}
		run.Samples = append(run.Samples, model.ActuatorSample{
			Cycle:  cycle,
			Motor0: out[0],
			Motor1: out[1],
		})
	}
	counters := eng.Counters()
	run.Cycles = counters.Cycles
	run.Dropped = counters.Dropped
	run.OutOfGrid = counters.OutOfGrid
	run.FinishedAt = time.Now().UTC()

	if err := p.store.SaveRun(ctx, run); err != nil {
		return model.Run{}, err
	}
	if err := p.out.WriteRunSamples(run.ID, run.Samples); err != nil {
		p.log.Warn("sample export failed", "run", run.ID, "error", err)
	}
	if err := p.out.WriteRun(run); err != nil {
		p.log.Warn("run export failed", "run", run.ID, "error", err)
	}

	p.log.Info("run complete",
		"run", run.ID, "topology", top.ID, "environment", run.Environment,
		"cycles", run.Cycles, "dropped", run.Dropped, "out_of_grid", run.OutOfGrid)
	return run, nil
}

// grow develops one genome through a session and persists the
// flattened topology.
func (p *Platform) grow(ctx context.Context, g model.Genome, profile embryo.Profile, observer embryo.Observer) (model.Topology, stats.DevelopmentSummary, error) {
	var points []embryo.Telemetry
	opts := p.sessionOptions(profile)
	opts.Observer = func(t embryo.Telemetry) {
		points = append(points, t)
		if observer != nil {
			observer(t)
		}
	}

	session, err := embryo.NewSession(g.Data, opts)
	if err != nil {
		return model.Topology{}, stats.DevelopmentSummary{}, err
	}
	if err := session.Develop(ctx); err != nil {
		return model.Topology{}, stats.DevelopmentSummary{}, err
	}

	top, err := net2rec.Flatten(session.Grid(), session.Network())
	if err != nil {
		return model.Topology{}, stats.DevelopmentSummary{}, err
	}
	summary := stats.SummarizeDevelopment(g.Seed, session.GeneCount(), points)

	top.VersionedRecord = storage.CurrentVersion()
	top.ID = model.NewID()
	top.GenomeID = g.ID
	top.Profile = profile.Name
	top.Ticks = session.Tick()
	top.Faults = summary.Faults
	top.CreatedAt = time.Now().UTC()
	if err := p.store.SaveTopology(ctx, top); err != nil {
		return model.Topology{}, stats.DevelopmentSummary{}, err
	}
	return top, summary, nil
}

func (p *Platform) geometry() string {
	return io.Geometry(p.cfg.Grid.Rows, p.cfg.Grid.Columns)
}

// sessionOptions maps the config onto a development session. The
// phenotypic factor count stays unset: the profile is authoritative and
// the session binds it.
func (p *Platform) sessionOptions(profile embryo.Profile) embryo.Options {
	gc := p.cfg.Grid
	return embryo.Options{
		Grid: grid.Config{
			Rows:                 gc.Rows,
			Columns:              gc.Columns,
			Regulating:           gc.Regulating,
			DefaultConcentration: gc.DefaultConcentration,
			Threshold:            gc.Threshold,
			DiffuseRatio:         gc.DiffuseRatio,
			DecayStep:            gc.DecayStep,
			DecayEnabled:         gc.DecayEnabled,
		},
		Profile: profile,
		Horizon: p.cfg.Develop.Horizon,
		Weight:  p.cfg.Develop.Weight,
		Delay:   p.cfg.Develop.Delay,
	}
}
