package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"ontogen/internal/embryo"
	"ontogen/internal/model"
)

// DevelopmentRow is one per-tick growth record in development.csv.
type DevelopmentRow struct {
	Seed     uint64 `csv:"seed"`
	Tick     int    `csv:"tick"`
	Occupied int    `csv:"occupied"`
	Neurons  int    `csv:"neurons"`
	Synapses int    `csv:"synapses"`
	Faults   int    `csv:"faults"`
}

// SampleRow is one per-cycle actuator reading in samples.csv.
type SampleRow struct {
	RunID  string `csv:"run_id"`
	Cycle  int    `csv:"cycle"`
	Motor0 int16  `csv:"motor0"`
	Motor1 int16  `csv:"motor1"`
}

// RunRow is one closed-loop run summary in runs.csv.
type RunRow struct {
	RunID       string  `csv:"run_id"`
	TopologyID  string  `csv:"topology_id"`
	Environment string  `csv:"environment"`
	Cycles      uint64  `csv:"cycles"`
	Dropped     uint64  `csv:"dropped"`
	OutOfGrid   uint64  `csv:"out_of_grid"`
	Motor0Mean  float64 `csv:"motor0_mean"`
	Motor0Std   float64 `csv:"motor0_std"`
	Motor1Mean  float64 `csv:"motor1_mean"`
	Motor1Std   float64 `csv:"motor1_std"`
}

// BatchRow is one per-seed development outcome in batch.csv.
type BatchRow struct {
	Seed     uint64 `csv:"seed"`
	Genes    int    `csv:"genes"`
	Ticks    int    `csv:"ticks"`
	Occupied int    `csv:"occupied"`
	Neurons  int    `csv:"neurons"`
	Synapses int    `csv:"synapses"`
	Faults   int    `csv:"faults"`
}

// OutputManager handles structured experiment output with CSV logging.
type OutputManager struct {
	dir             string
	developmentFile *os.File
	samplesFile     *os.File
	runsFile        *os.File
	batchFile       *os.File

	// Track if headers have been written
	developmentHeaderWritten bool
	samplesHeaderWritten     bool
	runsHeaderWritten        bool
	batchHeaderWritten       bool
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	developmentPath := filepath.Join(dir, "development.csv")
	f, err := os.Create(developmentPath)
	if err != nil {
		return nil, fmt.Errorf("creating development.csv: %w", err)
	}
	om.developmentFile = f

	samplesPath := filepath.Join(dir, "samples.csv")
	f, err = os.Create(samplesPath)
	if err != nil {
		om.developmentFile.Close()
		return nil, fmt.Errorf("creating samples.csv: %w", err)
	}
	om.samplesFile = f

	runsPath := filepath.Join(dir, "runs.csv")
	f, err = os.Create(runsPath)
	if err != nil {
		om.developmentFile.Close()
		om.samplesFile.Close()
		return nil, fmt.Errorf("creating runs.csv: %w", err)
	}
	om.runsFile = f

	batchPath := filepath.Join(dir, "batch.csv")
	f, err = os.Create(batchPath)
	if err != nil {
		om.developmentFile.Close()
		om.samplesFile.Close()
		om.runsFile.Close()
		return nil, fmt.Errorf("creating batch.csv: %w", err)
	}
	om.batchFile = f

	return om, nil
}

// WriteDevelopmentPoint writes one growth tick to development.csv.
func (om *OutputManager) WriteDevelopmentPoint(seed uint64, p embryo.Telemetry) error {
	if om == nil {
		return nil
	}

	records := []DevelopmentRow{{
		Seed:     seed,
		Tick:     p.Tick,
		Occupied: p.Occupied,
		Neurons:  p.Neurons,
		Synapses: p.Synapses,
		Faults:   p.Faults,
	}}

	if !om.developmentHeaderWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, om.developmentFile); err != nil {
			return fmt.Errorf("writing development point: %w", err)
		}
		om.developmentHeaderWritten = true
	} else {
		// Subsequent writes skip headers
		if err := gocsv.MarshalWithoutHeaders(records, om.developmentFile); err != nil {
			return fmt.Errorf("writing development point: %w", err)
		}
	}

	return nil
}

// WriteRunSamples writes a run's actuator trace to samples.csv.
func (om *OutputManager) WriteRunSamples(runID string, samples []model.ActuatorSample) error {
	if om == nil || len(samples) == 0 {
		return nil
	}

	records := make([]SampleRow, len(samples))
	for i, sample := range samples {
		records[i] = SampleRow{
			RunID:  runID,
			Cycle:  sample.Cycle,
			Motor0: sample.Motor0,
			Motor1: sample.Motor1,
		}
	}

	if !om.samplesHeaderWritten {
		if err := gocsv.Marshal(records, om.samplesFile); err != nil {
			return fmt.Errorf("writing samples: %w", err)
		}
		om.samplesHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.samplesFile); err != nil {
			return fmt.Errorf("writing samples: %w", err)
		}
	}

	return nil
}

// WriteRun summarizes a run record and appends it to runs.csv.
func (om *OutputManager) WriteRun(run model.Run) error {
	if om == nil {
		return nil
	}

	summary := SummarizeRun(run)
	records := []RunRow{{
		RunID:       run.ID,
		TopologyID:  run.TopologyID,
		Environment: run.Environment,
		Cycles:      run.Cycles,
		Dropped:     run.Dropped,
		OutOfGrid:   run.OutOfGrid,
		Motor0Mean:  summary.Motor0.Mean,
		Motor0Std:   summary.Motor0.Std,
		Motor1Mean:  summary.Motor1.Mean,
		Motor1Std:   summary.Motor1.Std,
	}}

	if !om.runsHeaderWritten {
		if err := gocsv.Marshal(records, om.runsFile); err != nil {
			return fmt.Errorf("writing run: %w", err)
		}
		om.runsHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.runsFile); err != nil {
			return fmt.Errorf("writing run: %w", err)
		}
	}

	return nil
}

// WriteBatchRow appends one seed's development outcome to batch.csv.
func (om *OutputManager) WriteBatchRow(s DevelopmentSummary) error {
	if om == nil {
		return nil
	}

	records := []BatchRow{{
		Seed:     s.Seed,
		Genes:    s.Genes,
		Ticks:    s.Ticks,
		Occupied: s.Occupied,
		Neurons:  s.Neurons,
		Synapses: s.Synapses,
		Faults:   s.Faults,
	}}

	if !om.batchHeaderWritten {
		if err := gocsv.Marshal(records, om.batchFile); err != nil {
			return fmt.Errorf("writing batch row: %w", err)
		}
		om.batchHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.batchFile); err != nil {
			return fmt.Errorf("writing batch row: %w", err)
		}
	}

	return nil
}

// WriteBatchSummary saves the aggregate batch outcome as JSON.
func (om *OutputManager) WriteBatchSummary(s BatchSummary) error {
	if om == nil {
		return nil
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling batch summary: %w", err)
	}

	summaryPath := filepath.Join(om.dir, "batch_summary.json")
	if err := os.WriteFile(summaryPath, data, 0644); err != nil {
		return fmt.Errorf("writing batch_summary.json: %w", err)
	}

	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error

	if om.developmentFile != nil {
		if err := om.developmentFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if om.samplesFile != nil {
		if err := om.samplesFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if om.runsFile != nil {
		if err := om.runsFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if om.batchFile != nil {
		if err := om.batchFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
