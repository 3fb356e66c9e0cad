// Package embryo grows a spiking network on the diffusion grid. Genes
// regulate product concentrations, concentrations cross thresholds, and
// each crossing invokes a cellular operator that edits the neuron graph
// in place. A session owns one such development from genome to topology
// and can be reset for the next genome.
package embryo

import (
	"context"
	"fmt"

	"ontogen/internal/genome"
	"ontogen/internal/grid"
	"ontogen/internal/neural"
)

// Development defaults: the fixed horizon and the parameters of every
// synapse created during growth.
const (
	DefaultHorizon = 1000
	DefaultWeight  = 6.0
	DefaultDelay   = 1
)

// Telemetry is the per-tick development report handed to an observer.
// Faults counts graph corruption reports accumulated so far.
type Telemetry struct {
	Tick     int
	Occupied int
	Neurons  int
	Synapses int
	Faults   int
}

// Observer receives telemetry after every developmental tick.
type Observer func(Telemetry)

// Options configure a development session. Zero values fall back to the
// standard profile on the default grid with the default horizon and
// synapse parameters.
type Options struct {
	Grid     grid.Config
	Profile  Profile
	Horizon  int
	Weight   float64
	Delay    int
	Observer Observer
}

// Session develops one genome into a network topology.
type Session struct {
	opts   Options
	genes  []genome.Gene
	grid   *grid.Grid
	net    *neural.Network
	tick   int
	faults int
}

// NewSession transcribes the genome and builds the seeded grid.
func NewSession(raw []byte, opts Options) (*Session, error) {
	if opts.Profile.Ops == nil {
		opts.Profile = StandardProfile()
	}
	if (opts.Grid == grid.Config{}) {
		opts.Grid = grid.DefaultConfig()
	}
	if opts.Horizon <= 0 {
		opts.Horizon = DefaultHorizon
	}
	if opts.Weight == 0 {
		opts.Weight = DefaultWeight
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	// The dispatch table is authoritative for the phenotypic id space.
	opts.Grid.Phenotypic = opts.Profile.Phenotypic()

	s := &Session{opts: opts}
	if err := s.Reset(raw); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset rebuilds the grid and the two-neuron bootstrap for a fresh
// genome, keeping the session's configuration.
func (s *Session) Reset(raw []byte) error {
	g, err := grid.New(s.opts.Grid)
	if err != nil {
		return err
	}
	cfg := s.opts.Grid
	s.genes = genome.Transcribe(genome.ExtractGenes(raw), genome.Config{
		Rows:       cfg.Rows,
		Columns:    cfg.Columns,
		Phenotypic: cfg.Phenotypic,
		Regulating: cfg.Regulating,
	})
	s.grid = g
	s.net = &neural.Network{}
	s.tick = 0
	s.faults = 0
	return s.seed()
}

// seed places the bootstrap pair: an excitatory tonic input neuron at
// (1,1) wired by one synapse to an excitatory tonic output neuron at
// (3,3). The input cursor starts on its outgoing port, the output
// cursor on its incoming one.
func (s *Session) seed() error {
	in := s.grid.CellAt(1, 1)
	out := s.grid.CellAt(3, 3)
	if in == nil || out == nil {
		return fmt.Errorf("embryo: %dx%d grid cannot hold the bootstrap pair",
			s.opts.Grid.Rows, s.opts.Grid.Columns)
	}

	src := &neural.Neuron{Type: neural.RoleInput | neural.SignMask}
	src.InitMembrane()
	dst := &neural.Neuron{Type: neural.RoleOutput | neural.SignMask}
	dst.InitMembrane()

	s.net.Head = src
	src.Next = dst
	in.Place(src)
	out.Place(dst)

	neural.AddSynapse(src, dst, s.opts.Weight, s.opts.Delay)
	src.Current = src.PortsOut
	dst.Current = dst.PortsIn
	return nil
}

// Develop runs the session to its horizon, checking ctx between ticks.
func (s *Session) Develop(ctx context.Context) error {
	for s.tick < s.opts.Horizon {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		s.Step()
	}
	return nil
}

// Step advances development one tick: grid dynamics, then the operator
// scan.
func (s *Session) Step() {
	s.grid.Tick(s.genes)
	s.apply()
	s.tick++
	if s.opts.Observer != nil {
		s.opts.Observer(s.Telemetry())
	}
}

// apply walks the traversal ring once. For each occupied cell every
// phenotypic product at or above the trigger threshold invokes its
// operator, re-checking occupancy first since an earlier operator in
// the same scan may have vacated or moved the neuron. The walk itself
// never follows a moved neuron.
func (s *Session) apply() {
	cells := s.opts.Grid.Rows * s.opts.Grid.Columns
	threshold := s.opts.Grid.Threshold
	c := s.grid.Head()
	for i := 0; i < cells; i++ {
		if c.Neuron == nil {
			c = c.Next
			continue
		}
		for id := range s.opts.Profile.Ops {
			if c.Product(id).Concentration < threshold {
				continue
			}
			n := c.Neuron
			if n == nil {
				continue
			}
			if err := s.opts.Profile.Ops[id](s, c, n); err != nil {
				s.faults++
			}
		}
		c = c.Next
	}
}

// Telemetry reports the session's current counters.
func (s *Session) Telemetry() Telemetry {
	return Telemetry{
		Tick:     s.tick,
		Occupied: s.grid.Occupied(),
		Neurons:  s.net.Count(),
		Synapses: s.net.Synapses(),
		Faults:   s.faults,
	}
}

// Grid exposes the development substrate.
func (s *Session) Grid() *grid.Grid {
	return s.grid
}

// Network exposes the living neuron list.
func (s *Session) Network() *neural.Network {
	return s.net
}

// Tick returns the number of completed developmental ticks.
func (s *Session) Tick() int {
	return s.tick
}

// GeneCount returns the number of genes that survived transcription.
func (s *Session) GeneCount() int {
	return len(s.genes)
}
