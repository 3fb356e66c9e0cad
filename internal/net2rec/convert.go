// Package net2rec converts between live grid-and-network structures
// and the flat records the stores persist. Flatten and Rebuild are
// inverses for any well-formed pair, so a stored topology runs
// identically to the one that produced it.
package net2rec

import (
	"fmt"

	"ontogen/internal/grid"
	"ontogen/internal/model"
	"ontogen/internal/neural"
)

// Flatten captures a developed pair as a topology record. Neurons and
// synapses are emitted in network list order, which Rebuild preserves.
func Flatten(g *grid.Grid, net *neural.Network) (model.Topology, error) {
	if err := net.Validate(); err != nil {
		return model.Topology{}, fmt.Errorf("net2rec: flatten: %w", err)
	}
	if err := g.Validate(); err != nil {
		return model.Topology{}, fmt.Errorf("net2rec: flatten: %w", err)
	}

	cfg := g.Config()
	top := model.Topology{
		Rows:     cfg.Rows,
		Columns:  cfg.Columns,
		Snapshot: g.Snapshot(),
	}
	for n := net.Head; n != nil; n = n.Next {
		top.Neurons = append(top.Neurons, model.Neuron{X: n.X, Y: n.Y, Type: n.Type})
		for p := n.PortsOut; p != nil; p = p.Next {
			s := p.Synapse
			top.Synapses = append(top.Synapses, model.Synapse{
				FromX:  s.Pre.X,
				FromY:  s.Pre.Y,
				ToX:    s.Post.X,
				ToY:    s.Post.Y,
				Weight: s.Weight,
				Delay:  s.Delay,
			})
		}
	}
	return top, nil
}

// Rebuild reconstructs a runnable pair from a topology record.
// Membranes start at rest and synapse cursors at the outgoing head;
// neither is part of the persisted shape.
func Rebuild(top model.Topology) (*grid.Grid, *neural.Network, error) {
	cfg := grid.DefaultConfig()
	cfg.Rows = top.Rows
	cfg.Columns = top.Columns
	g, err := grid.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("net2rec: rebuild: %w", err)
	}

	net := &neural.Network{}
	var tail *neural.Neuron
	for _, rec := range top.Neurons {
		c := g.CellAt(rec.X, rec.Y)
		if c == nil {
			return nil, nil, fmt.Errorf("net2rec: neuron at (%d,%d) outside %dx%d grid", rec.X, rec.Y, top.Rows, top.Columns)
		}
		if c.Neuron != nil {
			return nil, nil, fmt.Errorf("net2rec: duplicate neuron at (%d,%d)", rec.X, rec.Y)
		}
		n := &neural.Neuron{Type: rec.Type}
		n.InitMembrane()
		c.Place(n)
		if tail == nil {
			net.Head = n
		} else {
			tail.Next = n
		}
		tail = n
	}

	// AddSynapse inserts at the port list head, so walking the records
	// in reverse restores the recorded order.
	for i := len(top.Synapses) - 1; i >= 0; i-- {
		rec := top.Synapses[i]
		pre, err := neuronAt(g, rec.FromX, rec.FromY)
		if err != nil {
			return nil, nil, err
		}
		post, err := neuronAt(g, rec.ToX, rec.ToY)
		if err != nil {
			return nil, nil, err
		}
		neural.AddSynapse(pre, post, rec.Weight, rec.Delay)
	}

	for n := net.Head; n != nil; n = n.Next {
		n.Current = n.PortsOut
		if n.Current == nil {
			n.Current = n.PortsIn
		}
	}

	if err := net.Validate(); err != nil {
		return nil, nil, fmt.Errorf("net2rec: rebuild: %w", err)
	}
	if err := g.Validate(); err != nil {
		return nil, nil, fmt.Errorf("net2rec: rebuild: %w", err)
	}
	return g, net, nil
}

func neuronAt(g *grid.Grid, x, y int) (*neural.Neuron, error) {
	c := g.CellAt(x, y)
	if c == nil || c.Neuron == nil {
		return nil, fmt.Errorf("net2rec: synapse endpoint (%d,%d) vacant", x, y)
	}
	return c.Neuron, nil
}
