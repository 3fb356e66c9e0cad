package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"ontogen/internal/config"
	"ontogen/internal/platform"
	"ontogen/internal/storage"
	ontoapi "ontogen/pkg/ontogen"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "config":
		return runConfig(ctx, args[1:])
	case "genome":
		return runGenome(ctx, args[1:])
	case "develop":
		return runDevelop(ctx, args[1:])
	case "run":
		return runRun(ctx, args[1:])
	case "batch":
		return runBatch(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "topology":
		return runTopology(ctx, args[1:])
	case "stats":
		return runStats(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional pipeline config YAML path")
	storeKind := fs.String("store", "", "store backend: memory|sqlite (empty uses config)")
	dbPath := fs.String("db-path", "", "sqlite database path (empty uses config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *storeKind != "" {
		cfg.Storage.Kind = *storeKind
	}
	if *dbPath != "" {
		cfg.Storage.Path = *dbPath
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "ontogen.db"
	}

	store, err := storage.NewStore(cfg.Storage.Kind, cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()

	p, err := platform.New(cfg, store, nil)
	if err != nil {
		return err
	}
	if err := p.Init(ctx); err != nil {
		return err
	}

	fmt.Printf("initialized store=%s\n", cfg.Storage.Kind)
	return nil
}

func runConfig(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional pipeline config YAML path to start from")
	outPath := fs.String("out", "ontogen.yaml", "destination path for the written config")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if err := cfg.WriteYAML(*outPath); err != nil {
		return err
	}

	fmt.Printf("config written path=%s\n", *outPath)
	return nil
}

func runGenome(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("genome", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional pipeline config YAML path")
	storeKind := fs.String("store", "", "store backend: memory|sqlite (empty uses config)")
	dbPath := fs.String("db-path", "", "sqlite database path (empty uses config)")
	genomeID := fs.String("id", "", "inspect a stored genome instead of generating one")
	seed := fs.Uint64("seed", 1, "genome seed")
	size := fs.Int("size", 0, "genome length in bytes (0 uses config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := ontoapi.New(ontoapi.Options{
		ConfigPath: *configPath,
		StoreKind:  *storeKind,
		DBPath:     *dbPath,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if *genomeID != "" {
		summary, err := client.Genome(ctx, ontoapi.GenomeRequest{GenomeID: *genomeID})
		if err != nil {
			return err
		}
		fmt.Printf("genome_id=%s seed=%d bytes=%d created=%s\n",
			summary.GenomeID, summary.Seed, summary.Bytes, summary.CreatedAtUTC)
		return nil
	}

	summary, err := client.Generate(ctx, ontoapi.GenerateRequest{Seed: *seed, Size: *size})
	if err != nil {
		return err
	}
	fmt.Printf("genome created genome_id=%s seed=%d bytes=%d\n", summary.GenomeID, summary.Seed, summary.Bytes)
	return nil
}

func runDevelop(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("develop", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional pipeline config YAML path")
	storeKind := fs.String("store", "", "store backend: memory|sqlite (empty uses config)")
	dbPath := fs.String("db-path", "", "sqlite database path (empty uses config)")
	outputDir := fs.String("output", "", "artifact directory (empty uses config)")
	genomeID := fs.String("genome", "", "genome id to develop")
	profile := fs.String("profile", "", "operator dispatch profile: standard|extended (empty uses config)")
	horizon := fs.Int("horizon", 0, "developmental tick horizon (0 uses config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := ontoapi.New(ontoapi.Options{
		ConfigPath: *configPath,
		StoreKind:  *storeKind,
		DBPath:     *dbPath,
		OutputDir:  *outputDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Develop(ctx, ontoapi.DevelopRequest{
		GenomeID: *genomeID,
		Profile:  *profile,
		Horizon:  *horizon,
	})
	if err != nil {
		return err
	}
	fmt.Printf("develop completed topology_id=%s genome_id=%s profile=%s ticks=%d occupied=%d neurons=%d synapses=%d faults=%d\n",
		summary.TopologyID, summary.GenomeID, summary.Profile, summary.Ticks,
		summary.Occupied, summary.Neurons, summary.Synapses, summary.Faults)
	return nil
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional pipeline config YAML path")
	storeKind := fs.String("store", "", "store backend: memory|sqlite (empty uses config)")
	dbPath := fs.String("db-path", "", "sqlite database path (empty uses config)")
	outputDir := fs.String("output", "", "artifact directory (empty uses config)")
	requestPath := fs.String("request", "", "optional run request JSON path")
	topologyID := fs.String("topology", "", "topology id to drive")
	latest := fs.Bool("latest", false, "drive the most recently grown topology")
	envName := fs.String("env", "", "sensor environment: steady|quiet|sweep (empty uses config)")
	codecName := fs.String("codec", "", "sensor codec: bucketed (empty uses config)")
	cycles := fs.Int("cycles", 0, "sensor cycles to replay (0 uses config)")
	plastic := fs.Bool("plastic", false, "enable spike-timing plasticity")
	check := fs.Bool("check", false, "enable event-order checks")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setFlags := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	req, err := loadOrDefaultRunRequest(*requestPath)
	if err != nil {
		return err
	}
	if *requestPath == "" {
		req = ontoapi.RunRequest{
			TopologyID:  *topologyID,
			Latest:      *latest,
			Environment: *envName,
			Codec:       *codecName,
			Cycles:      *cycles,
			Plastic:     *plastic,
			Check:       *check,
		}
	} else {
		err := overrideRunRequest(&req, setFlags, map[string]any{
			"topology": *topologyID,
			"latest":   *latest,
			"env":      *envName,
			"codec":    *codecName,
			"cycles":   *cycles,
			"plastic":  *plastic,
			"check":    *check,
		})
		if err != nil {
			return err
		}
	}

	client, err := ontoapi.New(ontoapi.Options{
		ConfigPath: *configPath,
		StoreKind:  *storeKind,
		DBPath:     *dbPath,
		OutputDir:  *outputDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Run(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("run completed run_id=%s topology_id=%s env=%s codec=%s cycles=%d dropped=%d out_of_grid=%d motor0=%.1f motor1=%.1f\n",
		summary.RunID, summary.TopologyID, summary.Environment, summary.Codec,
		summary.Cycles, summary.Dropped, summary.OutOfGrid, summary.Motor0Mean, summary.Motor1Mean)
	return nil
}

func runBatch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional pipeline config YAML path")
	storeKind := fs.String("store", "", "store backend: memory|sqlite (empty uses config)")
	dbPath := fs.String("db-path", "", "sqlite database path (empty uses config)")
	outputDir := fs.String("output", "", "artifact directory (empty uses config)")
	requestPath := fs.String("request", "", "optional batch request JSON path")
	seeds := fs.Int("seeds", 0, "seeds to develop (0 uses config)")
	seed := fs.Uint64("seed", 0, "base seed (0 uses config)")
	workers := fs.Int("workers", 0, "worker count (0 uses config)")
	profile := fs.String("profile", "", "operator dispatch profile: standard|extended (empty uses config)")
	horizon := fs.Int("horizon", 0, "developmental tick horizon (0 uses config)")
	size := fs.Int("size", 0, "genome length in bytes (0 uses config)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setFlags := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	req, err := loadOrDefaultBatchRequest(*requestPath)
	if err != nil {
		return err
	}
	if *requestPath == "" {
		req = ontoapi.BatchRequest{
			Seeds:   *seeds,
			Seed:    *seed,
			Workers: *workers,
			Profile: *profile,
			Horizon: *horizon,
			Size:    *size,
		}
	} else {
		err := overrideBatchRequest(&req, setFlags, map[string]any{
			"seeds":   *seeds,
			"seed":    *seed,
			"workers": *workers,
			"profile": *profile,
			"horizon": *horizon,
			"size":    *size,
		})
		if err != nil {
			return err
		}
	}

	client, err := ontoapi.New(ontoapi.Options{
		ConfigPath: *configPath,
		StoreKind:  *storeKind,
		DBPath:     *dbPath,
		OutputDir:  *outputDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Batch(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("batch completed seeds=%d survived=%d rate=%.2f mean_neurons=%.1f mean_synapses=%.1f faults=%d\n",
		summary.Seeds, summary.Survived, summary.SurvivalRate,
		summary.MeanNeurons, summary.MeanSynapses, summary.Faults)
	for _, item := range summary.Items {
		fmt.Printf("seed=%d ticks=%d neurons=%d synapses=%d faults=%d\n",
			item.Seed, item.Ticks, item.Neurons, item.Synapses, item.Faults)
	}
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional pipeline config YAML path")
	storeKind := fs.String("store", "", "store backend: memory|sqlite (empty uses config)")
	dbPath := fs.String("db-path", "", "sqlite database path (empty uses config)")
	limit := fs.Int("limit", 20, "max runs to list")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	client, err := ontoapi.New(ontoapi.Options{
		ConfigPath: *configPath,
		StoreKind:  *storeKind,
		DBPath:     *dbPath,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	items, err := client.Runs(ctx, ontoapi.RunsRequest{Limit: *limit})
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	if *jsonOut {
		type runsItem struct {
			RunID        string  `json:"run_id"`
			TopologyID   string  `json:"topology_id"`
			StartedAtUTC string  `json:"started_at_utc"`
			Environment  string  `json:"environment"`
			Codec        string  `json:"codec"`
			Plastic      bool    `json:"plastic"`
			Cycles       uint64  `json:"cycles"`
			Dropped      uint64  `json:"dropped"`
			Motor0Mean   float64 `json:"motor0_mean"`
			Motor1Mean   float64 `json:"motor1_mean"`
		}
		out := make([]runsItem, 0, len(items))
		for _, item := range items {
			out = append(out, runsItem{
				RunID:        item.RunID,
				TopologyID:   item.TopologyID,
				StartedAtUTC: item.StartedAtUTC,
				Environment:  item.Environment,
				Codec:        item.Codec,
				Plastic:      item.Plastic,
				Cycles:       item.Cycles,
				Dropped:      item.Dropped,
				Motor0Mean:   item.Motor0Mean,
				Motor1Mean:   item.Motor1Mean,
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for _, item := range items {
		fmt.Printf("run_id=%s topology_id=%s started=%s env=%s codec=%s cycles=%d dropped=%d motor0=%.1f motor1=%.1f\n",
			item.RunID, item.TopologyID, item.StartedAtUTC, item.Environment,
			item.Codec, item.Cycles, item.Dropped, item.Motor0Mean, item.Motor1Mean)
	}
	return nil
}

func runTopology(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("topology", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional pipeline config YAML path")
	storeKind := fs.String("store", "", "store backend: memory|sqlite (empty uses config)")
	dbPath := fs.String("db-path", "", "sqlite database path (empty uses config)")
	topologyID := fs.String("topology", "", "topology id to inspect")
	latest := fs.Bool("latest", false, "inspect the most recently grown topology")
	jsonOut := fs.Bool("json", false, "emit topology as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := ontoapi.New(ontoapi.Options{
		ConfigPath: *configPath,
		StoreKind:  *storeKind,
		DBPath:     *dbPath,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	item, err := client.Topology(ctx, ontoapi.TopologyRequest{TopologyID: *topologyID, Latest: *latest})
	if err != nil {
		return err
	}

	if *jsonOut {
		type topologyItem struct {
			TopologyID   string `json:"topology_id"`
			GenomeID     string `json:"genome_id"`
			Profile      string `json:"profile"`
			CreatedAtUTC string `json:"created_at_utc"`
			Rows         int    `json:"rows"`
			Columns      int    `json:"columns"`
			Ticks        int    `json:"ticks"`
			Occupied     int    `json:"occupied"`
			Neurons      int    `json:"neurons"`
			Synapses     int    `json:"synapses"`
			Faults       int    `json:"faults"`
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(topologyItem{
			TopologyID:   item.TopologyID,
			GenomeID:     item.GenomeID,
			Profile:      item.Profile,
			CreatedAtUTC: item.CreatedAtUTC,
			Rows:         item.Rows,
			Columns:      item.Columns,
			Ticks:        item.Ticks,
			Occupied:     item.Occupied,
			Neurons:      item.Neurons,
			Synapses:     item.Synapses,
			Faults:       item.Faults,
		})
	}

	fmt.Printf("topology_id=%s genome_id=%s profile=%s created=%s grid=%dx%d ticks=%d occupied=%d neurons=%d synapses=%d faults=%d\n",
		item.TopologyID, item.GenomeID, item.Profile, item.CreatedAtUTC,
		item.Rows, item.Columns, item.Ticks, item.Occupied, item.Neurons,
		item.Synapses, item.Faults)
	return nil
}

func runStats(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional pipeline config YAML path")
	storeKind := fs.String("store", "", "store backend: memory|sqlite (empty uses config)")
	dbPath := fs.String("db-path", "", "sqlite database path (empty uses config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := ontoapi.New(ontoapi.Options{
		ConfigPath: *configPath,
		StoreKind:  *storeKind,
		DBPath:     *dbPath,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summaries, err := client.Stats(ctx)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	for _, s := range summaries {
		fmt.Printf("run_id=%s %s\n", s.RunID, s.Describe())
	}
	return nil
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional pipeline config YAML path")
	storeKind := fs.String("store", "", "store backend: memory|sqlite (empty uses config)")
	dbPath := fs.String("db-path", "", "sqlite database path (empty uses config)")
	outDir := fs.String("out", "", "export directory (empty uses exports/)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := ontoapi.New(ontoapi.Options{
		ConfigPath: *configPath,
		StoreKind:  *storeKind,
		DBPath:     *dbPath,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Export(ctx, ontoapi.ExportRequest{OutDir: *outDir})
	if err != nil {
		return err
	}
	fmt.Printf("export completed dir=%s runs=%d\n", filepath.Clean(summary.Directory), summary.Runs)
	return nil
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: ontogenctl <init|config|genome|develop|run|batch|runs|topology|stats|export> [flags]", msg)
}
