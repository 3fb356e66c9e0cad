// Package engine runs a developed network as a two-phase spiking
// machine behind address-event buffers: sensor frames encode into the
// input buffer, spikes propagate and integrate over the graph, and
// output-role firings decode into actuator values.
package engine

import (
	"errors"
	"fmt"

	"ontogen/internal/aer"
	"ontogen/internal/grid"
	"ontogen/internal/neural"
)

// Phase names the runtime's two alternating steps.
type Phase int

const (
	// PhaseIngest drains sensor events into spike histories and
	// propagates queued spikes along the synapses.
	PhaseIngest Phase = iota
	// PhaseIntegrate advances membranes, detects firings, and emits
	// output events.
	PhaseIntegrate
)

func (p Phase) String() string {
	switch p {
	case PhaseIngest:
		return "ingest"
	case PhaseIntegrate:
		return "integrate"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Codec translates between sensor frames, event buffers, and actuator
// values. The zero engine uses the bucketed codec from the aer package.
type Codec interface {
	Encode(buf *aer.Buffer, frame []byte, base, interval uint16) error
	Decode(buf *aer.Buffer) [2]int16
}

// Options configure an engine.
type Options struct {
	// Interval spaces the timestamps of consecutive spikes encoded
	// from one sensor channel.
	Interval uint16
	// Plastic switches propagation to the weight-adapting sweep.
	Plastic bool
	// Check validates grid and graph invariants after every handled
	// frame.
	Check bool
	// InputCapacity and OutputCapacity size the event buffers.
	InputCapacity  int
	OutputCapacity int
	// Codec overrides the frame translation.
	Codec Codec
}

// Counters are the engine's accumulated statistics.
type Counters struct {
	Cycles    uint64
	OutOfGrid uint64
	Dropped   uint64
}

// Engine drives one developed network. It is single-owner state: one
// goroutine steps it at a time, and the buffers are the only boundary.
type Engine struct {
	opts   Options
	grid   *grid.Grid
	net    *neural.Network
	input  *aer.Buffer
	output *aer.Buffer
	phase  Phase

	cycles    uint64
	outOfGrid uint64
	dropped   uint64
}

// New wraps a developed grid and network in a runtime.
func New(g *grid.Grid, net *neural.Network, opts Options) *Engine {
	if opts.Interval == 0 {
		opts.Interval = 1
	}
	if opts.Codec == nil {
		opts.Codec = aer.BucketCodec{}
	}
	return &Engine{
		opts:   opts,
		grid:   g,
		net:    net,
		input:  aer.NewBuffer(opts.InputCapacity),
		output: aer.NewBuffer(opts.OutputCapacity),
		phase:  PhaseIngest,
	}
}

// Input exposes the sensor-side buffer.
func (e *Engine) Input() *aer.Buffer {
	return e.input
}

// Output exposes the actuator-side buffer.
func (e *Engine) Output() *aer.Buffer {
	return e.output
}

// Phase returns the phase the next Step will run.
func (e *Engine) Phase() Phase {
	return e.phase
}

// Counters reports cycles completed and events dropped so far.
func (e *Engine) Counters() Counters {
	return Counters{Cycles: e.cycles, OutOfGrid: e.outOfGrid, Dropped: e.dropped}
}

// Step executes the pending phase and returns the phase that runs next.
func (e *Engine) Step() Phase {
	switch e.phase {
	case PhaseIngest:
		e.ingest()
		if e.opts.Plastic {
			e.net.PropagatePlastic()
		} else {
			e.net.Propagate()
		}
		e.phase = PhaseIntegrate
	case PhaseIntegrate:
		e.net.Integrate()
		e.net.DetectSpikes()
		e.emit()
		e.cycles++
		e.phase = PhaseIngest
	}
	return e.phase
}

// Cycle runs exactly one ingest+integrate pair.
func (e *Engine) Cycle() {
	for e.Step() != PhaseIngest {
	}
}

// ingest drains the input buffer into spike histories. Events outside
// the grid are counted and dropped; events on vacant cells are skipped.
func (e *Engine) ingest() {
	for {
		ev, ok := e.input.Pop()
		if !ok {
			return
		}
		c := e.grid.CellAt(int(ev.X), int(ev.Y))
		if c == nil {
			e.outOfGrid++
			continue
		}
		n := c.Neuron
		if n == nil {
			continue
		}
		n.History.Advance()
		n.History.Mark()
	}
}

// emit pushes one output event per output-role neuron that fired this
// cycle. A full buffer drops the event and counts the drop.
func (e *Engine) emit() {
	for n := e.net.Head; n != nil; n = n.Next {
		if n.Role() != neural.RoleOutput || !n.History.RaisedAt(1) {
			continue
		}
		if !e.output.Push(aer.Event{X: uint8(n.X), Y: uint8(n.Y)}) {
			e.dropped++
		}
	}
}

// HandleSensor encodes a sensor frame, runs one full cycle, and decodes
// the actuator pair. Input overflow is counted and the cycle proceeds
// with the spikes that fit; timestamps are frame-local, starting at
// zero.
func (e *Engine) HandleSensor(frame []byte) ([2]int16, error) {
	if err := e.opts.Codec.Encode(e.input, frame, 0, e.opts.Interval); err != nil {
		if !errors.Is(err, aer.ErrBufferFull) {
			return [2]int16{}, err
		}
		e.dropped++
	}
	e.Cycle()
	out := e.opts.Codec.Decode(e.output)
	if e.opts.Check {
		if err := e.net.Validate(); err != nil {
			return out, fmt.Errorf("engine: after cycle %d: %w", e.cycles, err)
		}
		if err := e.grid.Validate(); err != nil {
			return out, fmt.Errorf("engine: after cycle %d: %w", e.cycles, err)
		}
	}
	return out, nil
}
