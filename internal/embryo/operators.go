package embryo

import (
	"ontogen/internal/grid"
	"ontogen/internal/neural"
)

// Operator is one cellular edit applied to the neuron occupying a cell
// when the matching phenotypic product crosses the trigger threshold.
// Failed guards are quiet no-ops; an error reports graph corruption.
type Operator func(s *Session, c *grid.Cell, n *neural.Neuron) error

func changeType(_ *Session, _ *grid.Cell, n *neural.Neuron) error {
	n.CycleSubtype()
	return nil
}

func changeSign(_ *Session, _ *grid.Cell, n *neural.Neuron) error {
	n.ToggleSign()
	return nil
}

func changeTopology(_ *Session, _ *grid.Cell, n *neural.Neuron) error {
	n.CycleRole()
	return nil
}

func incrementWeight(_ *Session, _ *grid.Cell, n *neural.Neuron) error {
	p := n.Current
	if p == nil || p.Synapse == nil {
		return nil
	}
	p.Synapse.Weight++
	if p.Synapse.Weight > neural.WeightLimit {
		p.Synapse.Weight = neural.WeightLimit
	}
	return nil
}

func decrementWeight(_ *Session, _ *grid.Cell, n *neural.Neuron) error {
	p := n.Current
	if p == nil || p.Synapse == nil {
		return nil
	}
	p.Synapse.Weight--
	if p.Synapse.Weight < -neural.WeightLimit {
		p.Synapse.Weight = -neural.WeightLimit
	}
	return nil
}

// nextSynapse advances the cursor along its list, hopping to the head of
// the opposite list at the end and back to its own head when the
// opposite list is empty.
func nextSynapse(_ *Session, _ *grid.Cell, n *neural.Neuron) error {
	p := n.Current
	if p == nil {
		return nil
	}
	if p.Next != nil {
		n.Current = p.Next
		return nil
	}
	side, ok := n.Contains(p)
	if !ok {
		return nil
	}
	switch {
	case side == neural.SideIn && n.PortsOut != nil:
		n.Current = n.PortsOut
	case side == neural.SideIn:
		n.Current = n.PortsIn
	case n.PortsIn != nil:
		n.Current = n.PortsIn
	default:
		n.Current = n.PortsOut
	}
	return nil
}

// splitTarget picks the ring successor as the division target, refusing
// occupied cells and targets wrapped past the row end.
func splitTarget(c *grid.Cell) *grid.Cell {
	t := c.Next
	if t == nil || t.Neuron != nil || t.X == 0 {
		return nil
	}
	return t
}

// splitSparse divides the neuron eastward: the child takes over every
// outgoing synapse and the parent keeps a single fresh synapse onto the
// child.
func splitSparse(s *Session, c *grid.Cell, n *neural.Neuron) error {
	t := splitTarget(c)
	if t == nil {
		return nil
	}
	child := &neural.Neuron{Type: n.Type}
	child.InitMembrane()
	neural.MoveOutgoingSynapses(n, child)
	neural.AddSynapse(n, child, s.opts.Weight, s.opts.Delay)
	child.Current = child.PortsIn
	n.Current = n.PortsOut
	s.net.InsertAfter(n, child)
	t.Place(child)
	return nil
}

// splitFull divides the neuron into a twin wired in parallel to every
// partner, with no direct parent-child synapse.
func splitFull(s *Session, c *grid.Cell, n *neural.Neuron) error {
	t := splitTarget(c)
	if t == nil {
		return nil
	}
	child := neural.Duplicate(n)
	child.Current = child.PortsIn
	s.net.InsertAfter(n, child)
	t.Place(child)
	return nil
}

// splitIsolated seeds a disconnected copy of the neuron's type on the
// target cell.
func splitIsolated(s *Session, c *grid.Cell, n *neural.Neuron) error {
	t := splitTarget(c)
	if t == nil {
		return nil
	}
	child := &neural.Neuron{Type: n.Type}
	child.InitMembrane()
	s.net.InsertAfter(n, child)
	t.Place(child)
	return nil
}

func moveNeuron(s *Session, c *grid.Cell, n *neural.Neuron, dx, dy int) error {
	t := s.grid.CellAt(c.X+dx, c.Y+dy)
	if t == nil || t.Neuron != nil {
		return nil
	}
	c.Neuron = nil
	t.Place(n)
	return nil
}

func moveNorth(s *Session, c *grid.Cell, n *neural.Neuron) error {
	return moveNeuron(s, c, n, 0, -1)
}

func moveSouth(s *Session, c *grid.Cell, n *neural.Neuron) error {
	return moveNeuron(s, c, n, 0, 1)
}

func moveEast(s *Session, c *grid.Cell, n *neural.Neuron) error {
	return moveNeuron(s, c, n, 1, 0)
}

func moveWest(s *Session, c *grid.Cell, n *neural.Neuron) error {
	return moveNeuron(s, c, n, -1, 0)
}

// moveSynapse hands the current port to the neuron one cell over,
// keeping the far endpoint untouched. The cursor advances to the port
// that followed the moved one.
func moveSynapse(s *Session, c *grid.Cell, n *neural.Neuron, dx, dy int) error {
	p := n.Current
	if p == nil {
		return nil
	}
	t := s.grid.CellAt(c.X+dx, c.Y+dy)
	if t == nil || t.Neuron == nil {
		return nil
	}
	if next, moved := neural.MovePort(n, p, t.Neuron); moved {
		n.Current = next
	}
	return nil
}

func moveSynapseNorth(s *Session, c *grid.Cell, n *neural.Neuron) error {
	return moveSynapse(s, c, n, 0, -1)
}

func moveSynapseSouth(s *Session, c *grid.Cell, n *neural.Neuron) error {
	return moveSynapse(s, c, n, 0, 1)
}

func moveSynapseEast(s *Session, c *grid.Cell, n *neural.Neuron) error {
	return moveSynapse(s, c, n, 1, 0)
}

func moveSynapseWest(s *Session, c *grid.Cell, n *neural.Neuron) error {
	return moveSynapse(s, c, n, -1, 0)
}

func removeSynapse(_ *Session, _ *grid.Cell, n *neural.Neuron) error {
	p := n.Current
	if p == nil {
		return nil
	}
	return neural.RemoveSynapse(n, p)
}

func removeNeuron(s *Session, c *grid.Cell, n *neural.Neuron) error {
	err := s.net.RemoveNeuron(n)
	c.Neuron = nil
	return err
}
