package neural

import (
	"errors"
	"fmt"
)

var (
	// ErrNoOpposite reports a port whose synapse has no matching port on
	// the other endpoint, which only happens on a corrupted graph.
	ErrNoOpposite = errors.New("neural: no opposite port for synapse")

	// ErrPortNotOwned reports a port operation on a neuron whose lists do
	// not contain the port.
	ErrPortNotOwned = errors.New("neural: port not owned by neuron")

	// ErrListCycle reports a neuron list that loops instead of
	// terminating.
	ErrListCycle = errors.New("neural: neuron list cycle")
)

// Synapse connects two neurons with a weight and an integer delay in
// runtime steps. Exactly one outgoing port on Pre and one incoming port
// on Post reference it.
type Synapse struct {
	Pre    *Neuron
	Post   *Neuron
	Weight float64
	Delay  int
}

// Port is the indirection node of a neuron's synapse lists.
type Port struct {
	Synapse *Synapse
	Next    *Port
}

// Side names which of a neuron's two port lists a port lives in.
type Side uint8

const (
	SideIn Side = iota
	SideOut
)

// Network is the singly linked list of all living neurons.
type Network struct {
	Head *Neuron
}

// Count walks the neuron list. It assumes a well-formed list; Validate
// checks for cycles.
func (net *Network) Count() int {
	count := 0
	for n := net.Head; n != nil; n = n.Next {
		count++
	}
	return count
}

// Synapses counts the outgoing ports across the whole list, which on a
// well-formed graph equals the number of live synapses.
func (net *Network) Synapses() int {
	count := 0
	for n := net.Head; n != nil; n = n.Next {
		for p := n.PortsOut; p != nil; p = p.Next {
			count++
		}
	}
	return count
}

// InsertAfter links n into the list directly behind prev.
func (net *Network) InsertAfter(prev, n *Neuron) {
	n.Next = prev.Next
	prev.Next = n
}

// AddSynapse connects src to dst with a fresh synapse, prepending one
// port to src's outgoing list and one to dst's incoming list.
func AddSynapse(src, dst *Neuron, weight float64, delay int) *Synapse {
	s := &Synapse{Pre: src, Post: dst, Weight: weight, Delay: delay}
	src.PortsOut = &Port{Synapse: s, Next: src.PortsOut}
	dst.PortsIn = &Port{Synapse: s, Next: dst.PortsIn}
	return s
}

// MoveOutgoingSynapses transplants src's entire outgoing port list onto
// dst and rewrites every transplanted synapse's presynaptic endpoint.
// dst must not have outgoing ports of its own.
func MoveOutgoingSynapses(src, dst *Neuron) {
	dst.PortsOut = src.PortsOut
	src.PortsOut = nil
	for p := dst.PortsOut; p != nil; p = p.Next {
		p.Synapse.Pre = dst
	}
}

// CopyPortsIn mirrors src's incoming connectivity onto dst by creating a
// parallel synapse from each presynaptic partner, preserving weights and
// delays. dst must not have incoming ports yet.
func CopyPortsIn(src, dst *Neuron) {
	if dst.PortsIn != nil {
		return
	}
	for p := src.PortsIn; p != nil; p = p.Next {
		AddSynapse(p.Synapse.Pre, dst, p.Synapse.Weight, p.Synapse.Delay)
	}
}

// CopyPortsOut mirrors src's outgoing connectivity onto dst. dst must
// not have outgoing ports yet.
func CopyPortsOut(src, dst *Neuron) {
	if dst.PortsOut != nil {
		return
	}
	for p := src.PortsOut; p != nil; p = p.Next {
		AddSynapse(dst, p.Synapse.Post, p.Synapse.Weight, p.Synapse.Delay)
	}
}

// Duplicate creates a neuron with src's type byte, a freshly initialized
// membrane and empty history, connected in parallel to every partner src
// is connected to. The caller places it on the grid and into the list.
func Duplicate(src *Neuron) *Neuron {
	dup := &Neuron{Type: src.Type}
	dup.InitMembrane()
	CopyPortsOut(src, dup)
	CopyPortsIn(src, dup)
	return dup
}

// Contains locates p in n's port lists, reporting which side holds it.
func (n *Neuron) Contains(p *Port) (Side, bool) {
	for q := n.PortsIn; q != nil; q = q.Next {
		if q == p {
			return SideIn, true
		}
	}
	for q := n.PortsOut; q != nil; q = q.Next {
		if q == p {
			return SideOut, true
		}
	}
	return SideIn, false
}

// PreviousPort returns the predecessor of p in the given list, or nil
// when p is the head or absent.
func PreviousPort(head, p *Port) *Port {
	if head == nil || head == p {
		return nil
	}
	for q := head; q.Next != nil; q = q.Next {
		if q.Next == p {
			return q
		}
	}
	return nil
}

// unlink removes p from n's list on the given side and returns the port
// that followed it.
func (n *Neuron) unlink(p *Port, side Side) *Port {
	head := &n.PortsIn
	if side == SideOut {
		head = &n.PortsOut
	}
	if *head == p {
		*head = p.Next
		return p.Next
	}
	if prev := PreviousPort(*head, p); prev != nil {
		prev.Next = p.Next
	}
	return p.Next
}

// Opposite finds the port referencing p's synapse on the other endpoint
// neuron. Matching is by synapse identity, so parallel synapses between
// the same pair of neurons resolve to their own ports. A nil result
// means the graph is corrupted.
func Opposite(p *Port, side Side) *Port {
	if p.Synapse == nil {
		return nil
	}
	if side == SideIn {
		for q := p.Synapse.Pre.PortsOut; q != nil; q = q.Next {
			if q.Synapse == p.Synapse {
				return q
			}
		}
		return nil
	}
	for q := p.Synapse.Post.PortsIn; q != nil; q = q.Next {
		if q.Synapse == p.Synapse {
			return q
		}
	}
	return nil
}

// RemoveSynapse detaches p's synapse from both endpoints. Both neurons'
// cursors advance past their removed port. When the opposite port cannot
// be found the near side is still detached and the error reports the
// corruption.
func RemoveSynapse(owner *Neuron, p *Port) error {
	side, ok := owner.Contains(p)
	if !ok {
		return fmt.Errorf("remove synapse at [%d,%d]: %w", owner.X, owner.Y, ErrPortNotOwned)
	}
	follower := owner.unlink(p, side)
	if owner.Current == p {
		owner.Current = follower
	}

	opp := Opposite(p, side)
	if opp == nil {
		return fmt.Errorf("remove synapse at [%d,%d]: %w", owner.X, owner.Y, ErrNoOpposite)
	}
	other := p.Synapse.Pre
	oppSide := SideOut
	if side == SideOut {
		other = p.Synapse.Post
		oppSide = SideIn
	}
	oppFollower := other.unlink(opp, oppSide)
	if other.Current == opp {
		other.Current = oppFollower
	}
	p.Synapse = nil
	opp.Synapse = nil
	return nil
}

// MovePort detaches p from owner and attaches it to the same-side list
// of target, rewriting only the moved side's synapse endpoint. The move
// is refused when it would make the synapse self-referential or when
// owner does not hold p. It returns the port that followed p on owner.
func MovePort(owner *Neuron, p *Port, target *Neuron) (*Port, bool) {
	side, ok := owner.Contains(p)
	if !ok {
		return nil, false
	}
	if side == SideOut {
		if p.Synapse.Post == target {
			return nil, false
		}
	} else if p.Synapse.Pre == target {
		return nil, false
	}

	follower := owner.unlink(p, side)
	if side == SideOut {
		p.Next = target.PortsOut
		target.PortsOut = p
		p.Synapse.Pre = target
	} else {
		p.Next = target.PortsIn
		target.PortsIn = p
		p.Synapse.Post = target
	}
	return follower, true
}

// RemoveNeuron severs every incident synapse, then unlinks n from the
// neuron list. Removal is best-effort on a corrupted graph: all
// recoverable detachments still happen and the combined error reports
// what was inconsistent.
func (net *Network) RemoveNeuron(n *Neuron) error {
	var errs []error
	for p := n.PortsIn; p != nil; {
		next := p.Next
		if err := RemoveSynapse(n, p); err != nil {
			errs = append(errs, err)
		}
		p = next
	}
	for p := n.PortsOut; p != nil; {
		next := p.Next
		if err := RemoveSynapse(n, p); err != nil {
			errs = append(errs, err)
		}
		p = next
	}

	if net.Head == n {
		net.Head = n.Next
	} else {
		for prev := net.Head; prev != nil; prev = prev.Next {
			if prev.Next == n {
				prev.Next = n.Next
				break
			}
			if prev.Next == prev {
				errs = append(errs, fmt.Errorf("unlink neuron at [%d,%d]: %w", n.X, n.Y, ErrListCycle))
				break
			}
		}
	}
	n.Next = nil
	n.Current = nil
	return errors.Join(errs...)
}
