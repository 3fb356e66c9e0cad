package neural

import (
	"errors"
	"fmt"
)

var (
	// ErrPortWithoutSynapse reports a port left referencing no synapse.
	ErrPortWithoutSynapse = errors.New("neural: port without synapse")

	// ErrEndpointMismatch reports a synapse whose endpoint does not own
	// the port that references it.
	ErrEndpointMismatch = errors.New("neural: synapse endpoint mismatch")
)

// Validate checks the structural invariants of the network: the neuron
// list terminates, every port carries a synapse, every port's synapse
// names the port's owner as its endpoint, and every synapse is reachable
// from a matching port on the other endpoint. It reports the first
// violation with the offending neuron's coordinates.
func (net *Network) Validate() error {
	slow, fast := net.Head, net.Head
	for fast != nil && fast.Next != nil {
		slow = slow.Next
		fast = fast.Next.Next
		if slow == fast {
			return ErrListCycle
		}
	}

	for n := net.Head; n != nil; n = n.Next {
		for p := n.PortsIn; p != nil; p = p.Next {
			if p.Synapse == nil {
				return fmt.Errorf("in-port of neuron at [%d,%d]: %w", n.X, n.Y, ErrPortWithoutSynapse)
			}
			if p.Synapse.Post != n {
				return fmt.Errorf("in-port of neuron at [%d,%d]: %w", n.X, n.Y, ErrEndpointMismatch)
			}
			if Opposite(p, SideIn) == nil {
				return fmt.Errorf("in-port of neuron at [%d,%d]: %w", n.X, n.Y, ErrNoOpposite)
			}
		}
		for p := n.PortsOut; p != nil; p = p.Next {
			if p.Synapse == nil {
				return fmt.Errorf("out-port of neuron at [%d,%d]: %w", n.X, n.Y, ErrPortWithoutSynapse)
			}
			if p.Synapse.Pre != n {
				return fmt.Errorf("out-port of neuron at [%d,%d]: %w", n.X, n.Y, ErrEndpointMismatch)
			}
			if Opposite(p, SideOut) == nil {
				return fmt.Errorf("out-port of neuron at [%d,%d]: %w", n.X, n.Y, ErrNoOpposite)
			}
		}
	}
	return nil
}
