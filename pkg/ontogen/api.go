// Package ontogen embeds the development pipeline behind a small
// client: generate genomes, grow them into spiking topologies, and
// replay them against sensor environments. A Client drives one
// pipeline at a time and is not safe for concurrent use.
package ontogen

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ontogen/internal/config"
	"ontogen/internal/platform"
	"ontogen/internal/stats"
	"ontogen/internal/storage"
)

const (
	defaultDBPath     = "ontogen.db"
	defaultExportsDir = "exports"
)

type Options struct {
	ConfigPath string
	StoreKind  string
	DBPath     string
	OutputDir  string
}

type Client struct {
	cfg      *config.Config
	store    storage.Store
	platform *platform.Platform
}

type GenerateRequest struct {
	Seed uint64
	Size int
}

type GenomeRequest struct {
	GenomeID string
}

type GenomeSummary struct {
	GenomeID     string
	Seed         uint64
	Bytes        int
	CreatedAtUTC string
}

type DevelopRequest struct {
	GenomeID string
	Profile  string
	Horizon  int
}

type DevelopSummary struct {
	TopologyID  string
	GenomeID    string
	Profile     string
	Ticks       int
	Occupied    int
	Neurons     int
	Synapses    int
	Faults      int
	PeakNeurons int
	MeanNeurons float64
}

type RunRequest struct {
	TopologyID  string
	Latest      bool
	Environment string
	Codec       string
	Cycles      int
	Plastic     bool
	Check       bool
}

type RunSummary struct {
	RunID       string
	TopologyID  string
	Environment string
	Codec       string
	Cycles      uint64
	Dropped     uint64
	OutOfGrid   uint64
	Motor0Mean  float64
	Motor1Mean  float64
}

type BatchRequest struct {
	Seeds   int
	Seed    uint64
	Workers int
	Profile string
	Horizon int
	Size    int
}

type BatchItem struct {
	Seed     uint64
	Ticks    int
	Neurons  int
	Synapses int
	Faults   int
}

type BatchSummary struct {
	Seeds        int
	Survived     int
	SurvivalRate float64
	MeanNeurons  float64
	MeanSynapses float64
	Faults       int
	Items        []BatchItem
}

type RunsRequest struct {
	Limit int
}

type RunItem struct {
	RunID        string
	TopologyID   string
	StartedAtUTC string
	Environment  string
	Codec        string
	Plastic      bool
	Cycles       uint64
	Dropped      uint64
	Motor0Mean   float64
	Motor1Mean   float64
}

type TopologyRequest struct {
	TopologyID string
	Latest     bool
}

type TopologyItem struct {
	TopologyID   string
	GenomeID     string
	Profile      string
	CreatedAtUTC string
	Rows         int
	Columns      int
	Ticks        int
	Occupied     int
	Neurons      int
	Synapses     int
	Faults       int
}

type ExportRequest struct {
	OutDir string
}

type ExportSummary struct {
	Directory string
	Runs      int
}

func New(opts Options) (*Client, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.StoreKind != "" {
		cfg.Storage.Kind = opts.StoreKind
	}
	if opts.DBPath != "" {
		cfg.Storage.Path = opts.DBPath
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = defaultDBPath
	}
	if opts.OutputDir != "" {
		cfg.Output.Dir = opts.OutputDir
	}

	store, err := storage.NewStore(cfg.Storage.Kind, cfg.Storage.Path)
	if err != nil {
		return nil, err
	}

	return &Client{cfg: cfg, store: store}, nil
}

func (c *Client) Close() error {
	if c.platform != nil {
		return c.platform.Close()
	}
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	_, err := c.ensurePlatform(ctx)
	return err
}

func (c *Client) Generate(ctx context.Context, req GenerateRequest) (GenomeSummary, error) {
	if req.Size > 0 {
		c.cfg.Genome.Size = req.Size
	}
	p, err := c.ensurePlatform(ctx)
	if err != nil {
		return GenomeSummary{}, err
	}
	g, err := p.CreateGenome(ctx, req.Seed)
	if err != nil {
		return GenomeSummary{}, err
	}
	return GenomeSummary{
		GenomeID:     g.ID,
		Seed:         g.Seed,
		Bytes:        len(g.Data),
		CreatedAtUTC: g.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (c *Client) Genome(ctx context.Context, req GenomeRequest) (GenomeSummary, error) {
	if req.GenomeID == "" {
		return GenomeSummary{}, errors.New("genome id is required")
	}
	if _, err := c.ensurePlatform(ctx); err != nil {
		return GenomeSummary{}, err
	}
	g, ok, err := c.store.GetGenome(ctx, req.GenomeID)
	if err != nil {
		return GenomeSummary{}, err
	}
	if !ok {
		return GenomeSummary{}, fmt.Errorf("genome not found: %s", req.GenomeID)
	}
	return GenomeSummary{
		GenomeID:     g.ID,
		Seed:         g.Seed,
		Bytes:        len(g.Data),
		CreatedAtUTC: g.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (c *Client) Develop(ctx context.Context, req DevelopRequest) (DevelopSummary, error) {
	if req.GenomeID == "" {
		return DevelopSummary{}, errors.New("genome id is required")
	}
	if req.Profile != "" {
		c.cfg.Develop.Profile = req.Profile
	}
	if req.Horizon > 0 {
		c.cfg.Develop.Horizon = req.Horizon
	}
	p, err := c.ensurePlatform(ctx)
	if err != nil {
		return DevelopSummary{}, err
	}
	res, err := p.Develop(ctx, req.GenomeID)
	if err != nil {
		return DevelopSummary{}, err
	}
	top := res.Topology
	return DevelopSummary{
		TopologyID:  top.ID,
		GenomeID:    top.GenomeID,
		Profile:     top.Profile,
		Ticks:       top.Ticks,
		Occupied:    res.Summary.Occupied,
		Neurons:     len(top.Neurons),
		Synapses:    len(top.Synapses),
		Faults:      top.Faults,
		PeakNeurons: res.Summary.PeakNeurons,
		MeanNeurons: res.Summary.MeanNeurons,
	}, nil
}

func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	if req.TopologyID != "" && req.Latest {
		return RunSummary{}, errors.New("use either topology id or latest")
	}
	if req.TopologyID == "" && !req.Latest {
		return RunSummary{}, errors.New("run requires topology id or latest")
	}
	if req.Environment != "" {
		c.cfg.Run.Environment = req.Environment
	}
	if req.Codec != "" {
		c.cfg.Run.Codec = req.Codec
	}
	if req.Cycles > 0 {
		c.cfg.Run.Cycles = req.Cycles
	}
	if req.Plastic {
		c.cfg.Engine.Plastic = true
	}
	if req.Check {
		c.cfg.Engine.Check = true
	}

	p, err := c.ensurePlatform(ctx)
	if err != nil {
		return RunSummary{}, err
	}
	topologyID := req.TopologyID
	if req.Latest {
		id, err := c.latestTopology(ctx)
		if err != nil {
			return RunSummary{}, err
		}
		topologyID = id
	}
	run, err := p.Run(ctx, topologyID)
	if err != nil {
		return RunSummary{}, err
	}
	s := stats.SummarizeRun(run)
	return RunSummary{
		RunID:       run.ID,
		TopologyID:  run.TopologyID,
		Environment: run.Environment,
		Codec:       run.Codec,
		Cycles:      run.Cycles,
		Dropped:     run.Dropped,
		OutOfGrid:   run.OutOfGrid,
		Motor0Mean:  s.Motor0.Mean,
		Motor1Mean:  s.Motor1.Mean,
	}, nil
}

func (c *Client) Batch(ctx context.Context, req BatchRequest) (BatchSummary, error) {
	if req.Seeds > 0 {
		c.cfg.Batch.Seeds = req.Seeds
	}
	if req.Seed > 0 {
		c.cfg.Batch.Seed = req.Seed
	}
	if req.Workers > 0 {
		c.cfg.Batch.Workers = req.Workers
	}
	if req.Profile != "" {
		c.cfg.Develop.Profile = req.Profile
	}
	if req.Horizon > 0 {
		c.cfg.Develop.Horizon = req.Horizon
	}
	if req.Size > 0 {
		c.cfg.Genome.Size = req.Size
	}
	p, err := c.ensurePlatform(ctx)
	if err != nil {
		return BatchSummary{}, err
	}
	res, err := p.Batch(ctx)
	if err != nil {
		return BatchSummary{}, err
	}
	items := make([]BatchItem, 0, len(res.Results))
	for _, r := range res.Results {
		items = append(items, BatchItem{
			Seed:     r.Seed,
			Ticks:    r.Ticks,
			Neurons:  r.Neurons,
			Synapses: r.Synapses,
			Faults:   r.Faults,
		})
	}
	return BatchSummary{
		Seeds:        res.Summary.Seeds,
		Survived:     res.Summary.Survived,
		SurvivalRate: res.Summary.SurvivalRate,
		MeanNeurons:  res.Summary.Neurons.Mean,
		MeanSynapses: res.Summary.Synapses.Mean,
		Faults:       res.Summary.Faults,
		Items:        items,
	}, nil
}

func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]RunItem, error) {
	if req.Limit < 0 {
		return nil, errors.New("limit must be >= 0")
	}
	if _, err := c.ensurePlatform(ctx); err != nil {
		return nil, err
	}
	ids, err := c.store.ListRuns(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RunItem, 0, len(ids))
	for _, id := range ids {
		run, ok, err := c.store.GetRun(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		s := stats.SummarizeRun(run)
		out = append(out, RunItem{
			RunID:        run.ID,
			TopologyID:   run.TopologyID,
			StartedAtUTC: run.StartedAt.Format(time.RFC3339),
			Environment:  run.Environment,
			Codec:        run.Codec,
			Plastic:      run.Plastic,
			Cycles:       run.Cycles,
			Dropped:      run.Dropped,
			Motor0Mean:   s.Motor0.Mean,
			Motor1Mean:   s.Motor1.Mean,
		})
	}
	if req.Limit > 0 && len(out) > req.Limit {
		out = out[:req.Limit]
	}
	return out, nil
}

// Stats condenses every stored run into its motor statistics.
func (c *Client) Stats(ctx context.Context) ([]stats.RunSummary, error) {
	p, err := c.ensurePlatform(ctx)
	if err != nil {
		return nil, err
	}
	return p.SummarizeRuns(ctx)
}

func (c *Client) Topology(ctx context.Context, req TopologyRequest) (TopologyItem, error) {
	if req.TopologyID != "" && req.Latest {
		return TopologyItem{}, errors.New("use either topology id or latest")
	}
	if req.TopologyID == "" && !req.Latest {
		return TopologyItem{}, errors.New("topology requires topology id or latest")
	}
	if _, err := c.ensurePlatform(ctx); err != nil {
		return TopologyItem{}, err
	}
	topologyID := req.TopologyID
	if req.Latest {
		id, err := c.latestTopology(ctx)
		if err != nil {
			return TopologyItem{}, err
		}
		topologyID = id
	}
	top, ok, err := c.store.GetTopology(ctx, topologyID)
	if err != nil {
		return TopologyItem{}, err
	}
	if !ok {
		return TopologyItem{}, fmt.Errorf("topology not found: %s", topologyID)
	}
	occupied := 0
	for _, cell := range top.Snapshot {
		if cell != 0 {
			occupied++
		}
	}
	return TopologyItem{
		TopologyID:   top.ID,
		GenomeID:     top.GenomeID,
		Profile:      top.Profile,
		CreatedAtUTC: top.CreatedAt.Format(time.RFC3339),
		Rows:         top.Rows,
		Columns:      top.Columns,
		Ticks:        top.Ticks,
		Occupied:     occupied,
		Neurons:      len(top.Neurons),
		Synapses:     len(top.Synapses),
		Faults:       top.Faults,
	}, nil
}

func (c *Client) Export(ctx context.Context, req ExportRequest) (ExportSummary, error) {
	outDir := req.OutDir
	if outDir == "" {
		outDir = defaultExportsDir
	}
	p, err := c.ensurePlatform(ctx)
	if err != nil {
		return ExportSummary{}, err
	}
	runs, err := p.Export(ctx, outDir)
	if err != nil {
		return ExportSummary{}, err
	}
	return ExportSummary{Directory: outDir, Runs: runs}, nil
}

func (c *Client) ensurePlatform(ctx context.Context) (*platform.Platform, error) {
	if c.platform != nil {
		return c.platform, nil
	}
	out, err := stats.NewOutputManager(c.cfg.Output.Dir)
	if err != nil {
		return nil, err
	}
	p, err := platform.New(c.cfg, c.store, out)
	if err != nil {
		out.Close()
		return nil, err
	}
	if err := p.Init(ctx); err != nil {
		out.Close()
		return nil, err
	}
	c.platform = p
	return c.platform, nil
}

// latestTopology picks the most recently grown topology by creation
// time; listing order is by id, not age.
func (c *Client) latestTopology(ctx context.Context) (string, error) {
	ids, err := c.store.ListTopologies(ctx)
	if err != nil {
		return "", err
	}
	latest := ""
	var latestAt time.Time
	for _, id := range ids {
		top, ok, err := c.store.GetTopology(ctx, id)
		if err != nil {
			return "", err
		}
		if !ok {
			continue
		}
		if latest == "" || top.CreatedAt.After(latestAt) {
			latest = top.ID
			latestAt = top.CreatedAt
		}
	}
	if latest == "" {
		return "", errors.New("no topologies available")
	}
	return latest, nil
}
