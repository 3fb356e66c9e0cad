package stats

import (
	"strings"
	"testing"

	"ontogen/internal/embryo"
	"ontogen/internal/model"
)

func TestSummarizeSeries(t *testing.T) {
	s := summarizeSeries([]float64{2, 4, 6})
	if s.Mean != 4 || s.Std != 2 || s.Min != 2 || s.Max != 6 {
		t.Fatalf("unexpected summary: %+v", s)
	}

	single := summarizeSeries([]float64{5})
	if single.Mean != 5 || single.Std != 0 || single.Min != 5 || single.Max != 5 {
		t.Fatalf("unexpected single-value summary: %+v", single)
	}

	empty := summarizeSeries(nil)
	if empty != (SeriesSummary{}) {
		t.Fatalf("expected zero summary for empty series, got %+v", empty)
	}
}

func TestSummarizeDevelopment(t *testing.T) {
	points := []embryo.Telemetry{
		{Tick: 1, Occupied: 3, Neurons: 2, Synapses: 1},
		{Tick: 2, Occupied: 7, Neurons: 6, Synapses: 4, Faults: 1},
		{Tick: 3, Occupied: 6, Neurons: 4, Synapses: 5, Faults: 2},
	}

	s := SummarizeDevelopment(42, 16, points)
	if s.Seed != 42 || s.Genes != 16 {
		t.Fatalf("unexpected identity fields: %+v", s)
	}
	if s.Ticks != 3 || s.Occupied != 6 || s.Neurons != 4 || s.Synapses != 5 || s.Faults != 2 {
		t.Fatalf("final state not taken from last point: %+v", s)
	}
	if s.PeakNeurons != 6 {
		t.Fatalf("expected peak of 6 neurons, got %d", s.PeakNeurons)
	}
	if s.MeanNeurons != 4 || s.StdNeurons != 2 {
		t.Fatalf("unexpected neuron statistics: %+v", s)
	}

	zero := SummarizeDevelopment(9, 8, nil)
	if zero.Seed != 9 || zero.Ticks != 0 || zero.PeakNeurons != 0 {
		t.Fatalf("unexpected empty-series summary: %+v", zero)
	}
}

func TestSummarizeRun(t *testing.T) {
	run := model.Run{
		ID:        "r1",
		Cycles:    1000,
		Dropped:   2,
		OutOfGrid: 1,
		Samples: []model.ActuatorSample{
			{Cycle: 0, Motor0: 10, Motor1: -5},
			{Cycle: 1, Motor0: 20, Motor1: -5},
			{Cycle: 2, Motor0: 30, Motor1: -5},
		},
	}

	s := SummarizeRun(run)
	if s.RunID != "r1" || s.Cycles != 1000 || s.Dropped != 2 || s.OutOfGrid != 1 {
		t.Fatalf("unexpected counters: %+v", s)
	}
	if s.Motor0.Mean != 20 || s.Motor0.Std != 10 || s.Motor0.Min != 10 || s.Motor0.Max != 30 {
		t.Fatalf("unexpected motor0 summary: %+v", s.Motor0)
	}
	if s.Motor1.Mean != -5 || s.Motor1.Std != 0 || s.Motor1.Min != -5 || s.Motor1.Max != -5 {
		t.Fatalf("unexpected motor1 summary: %+v", s.Motor1)
	}

	desc := s.Describe()
	if !strings.Contains(desc, "1,000 cycles") {
		t.Fatalf("expected grouped cycle count in description, got %q", desc)
	}
	if !strings.Contains(desc, "motor0 20.0") {
		t.Fatalf("expected motor0 mean in description, got %q", desc)
	}

	empty := SummarizeRun(model.Run{ID: "r2"})
	if empty.Motor0 != (SeriesSummary{}) || empty.Motor1 != (SeriesSummary{}) {
		t.Fatalf("expected zero motor summaries without samples, got %+v", empty)
	}
}

func TestSummarizeBatch(t *testing.T) {
	results := []DevelopmentSummary{
		{Seed: 1, Neurons: 0, Synapses: 0, Faults: 1},
		{Seed: 2, Neurons: 2, Synapses: 3},
		{Seed: 3, Neurons: 4, Synapses: 3, Faults: 2},
	}

	s := SummarizeBatch(results)
	if s.Seeds != 3 || s.Survived != 2 {
		t.Fatalf("unexpected survival accounting: %+v", s)
	}
	if s.SurvivalRate < 0.66 || s.SurvivalRate > 0.67 {
		t.Fatalf("unexpected survival rate: %v", s.SurvivalRate)
	}
	if s.Neurons.Mean != 2 || s.Neurons.Std != 2 || s.Neurons.Max != 4 {
		t.Fatalf("unexpected neuron aggregate: %+v", s.Neurons)
	}
	if s.Synapses.Mean != 2 || s.Synapses.Min != 0 || s.Synapses.Max != 3 {
		t.Fatalf("unexpected synapse aggregate: %+v", s.Synapses)
	}
	if s.Faults != 3 {
		t.Fatalf("expected 3 faults in total, got %d", s.Faults)
	}

	desc := s.Describe()
	if !strings.Contains(desc, "3 seeds") || !strings.Contains(desc, "(67%)") {
		t.Fatalf("unexpected batch description: %q", desc)
	}

	empty := SummarizeBatch(nil)
	if empty.Seeds != 0 || empty.SurvivalRate != 0 {
		t.Fatalf("unexpected empty-batch summary: %+v", empty)
	}
}
