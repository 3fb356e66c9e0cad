// Package stats condenses development and run telemetry into summary
// records and writes them out as CSV artifacts.
package stats

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/gonum/stat"

	"ontogen/internal/embryo"
	"ontogen/internal/model"
)

// SeriesSummary describes one numeric series.
type SeriesSummary struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

func summarizeSeries(values []float64) SeriesSummary {
	var s SeriesSummary
	if len(values) == 0 {
		return s
	}
	s.Mean = stat.Mean(values, nil)
	if len(values) > 1 {
		s.Std = stat.StdDev(values, nil)
	}
	s.Min = values[0]
	s.Max = values[0]
	for _, value := range values[1:] {
		if value < s.Min {
			s.Min = value
		}
		if value > s.Max {
			s.Max = value
		}
	}
	return s
}

// DevelopmentSummary condenses one development telemetry series.
type DevelopmentSummary struct {
	Seed        uint64  `json:"seed"`
	Genes       int     `json:"genes"`
	Ticks       int     `json:"ticks"`
	Occupied    int     `json:"occupied"`
	Neurons     int     `json:"neurons"`
	Synapses    int     `json:"synapses"`
	Faults      int     `json:"faults"`
	PeakNeurons int     `json:"peak_neurons"`
	MeanNeurons float64 `json:"mean_neurons"`
	StdNeurons  float64 `json:"std_neurons"`
}

// SummarizeDevelopment folds a per-tick telemetry series into its final
// state plus the neuron-count statistics over the whole run.
func SummarizeDevelopment(seed uint64, genes int, points []embryo.Telemetry) DevelopmentSummary {
	s := DevelopmentSummary{Seed: seed, Genes: genes}
	if len(points) == 0 {
		return s
	}
	last := points[len(points)-1]
	s.Ticks = last.Tick
	s.Occupied = last.Occupied
	s.Neurons = last.Neurons
	s.Synapses = last.Synapses
	s.Faults = last.Faults

	series := make([]float64, len(points))
	for i, p := range points {
		series[i] = float64(p.Neurons)
		if p.Neurons > s.PeakNeurons {
			s.PeakNeurons = p.Neurons
		}
	}
	s.MeanNeurons = stat.Mean(series, nil)
	if len(series) > 1 {
		s.StdNeurons = stat.StdDev(series, nil)
	}
	return s
}

// RunSummary condenses one closed-loop run record.
type RunSummary struct {
	RunID     string        `json:"run_id"`
	Cycles    uint64        `json:"cycles"`
	Dropped   uint64        `json:"dropped"`
	OutOfGrid uint64        `json:"out_of_grid"`
	Motor0    SeriesSummary `json:"motor0"`
	Motor1    SeriesSummary `json:"motor1"`
}

func SummarizeRun(run model.Run) RunSummary {
	s := RunSummary{
		RunID:     run.ID,
		Cycles:    run.Cycles,
		Dropped:   run.Dropped,
		OutOfGrid: run.OutOfGrid,
	}
	if len(run.Samples) == 0 {
		return s
	}
	motor0 := make([]float64, len(run.Samples))
	motor1 := make([]float64, len(run.Samples))
	for i, sample := range run.Samples {
		motor0[i] = float64(sample.Motor0)
		motor1[i] = float64(sample.Motor1)
	}
	s.Motor0 = summarizeSeries(motor0)
	s.Motor1 = summarizeSeries(motor1)
	return s
}

func (s RunSummary) Describe() string {
	return fmt.Sprintf("%s cycles, %s dropped, motor0 %.1f±%.1f, motor1 %.1f±%.1f",
		humanize.Comma(int64(s.Cycles)), humanize.Comma(int64(s.Dropped)),
		s.Motor0.Mean, s.Motor0.Std, s.Motor1.Mean, s.Motor1.Std)
}

// BatchSummary aggregates development outcomes across seeds. A seed
// counts as survived when its final network still holds the bootstrap
// pair or more.
type BatchSummary struct {
	Seeds        int           `json:"seeds"`
	Survived     int           `json:"survived"`
	SurvivalRate float64       `json:"survival_rate"`
	Neurons      SeriesSummary `json:"neurons"`
	Synapses     SeriesSummary `json:"synapses"`
	Faults       int           `json:"faults"`
}

func SummarizeBatch(results []DevelopmentSummary) BatchSummary {
	s := BatchSummary{Seeds: len(results)}
	if len(results) == 0 {
		return s
	}
	neurons := make([]float64, len(results))
	synapses := make([]float64, len(results))
	for i, r := range results {
		neurons[i] = float64(r.Neurons)
		synapses[i] = float64(r.Synapses)
		s.Faults += r.Faults
		if r.Neurons >= 2 {
			s.Survived++
		}
	}
	s.SurvivalRate = float64(s.Survived) / float64(s.Seeds)
	s.Neurons = summarizeSeries(neurons)
	s.Synapses = summarizeSeries(synapses)
	return s
}

func (s BatchSummary) Describe() string {
	return fmt.Sprintf("%s seeds, %s survived (%.0f%%), %.1f±%.1f neurons, %.1f±%.1f synapses",
		humanize.Comma(int64(s.Seeds)), humanize.Comma(int64(s.Survived)), s.SurvivalRate*100,
		s.Neurons.Mean, s.Neurons.Std, s.Synapses.Mean, s.Synapses.Std)
}
