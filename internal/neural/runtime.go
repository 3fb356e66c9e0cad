package neural

// Propagate walks every synapse and, where the presynaptic history shows
// a spike exactly the synapse's delay ago, adds weight/3 to the
// postsynaptic neuron's accumulated current. All synapses are visited
// before any membrane update so simultaneous arrivals sum.
func (net *Network) Propagate() {
	for n := net.Head; n != nil; n = n.Next {
		for p := n.PortsOut; p != nil; p = p.Next {
			if n.History.RaisedAt(p.Synapse.Delay) {
				p.Synapse.Post.I += p.Synapse.Weight / 3.0
			}
		}
	}
}

// Integrate runs the membrane update on every non-input neuron with its
// accumulated current, then zeroes the current for the next step.
func (net *Network) Integrate() {
	for n := net.Head; n != nil; n = n.Next {
		if n.Role() != RoleInput {
			n.Update(n.I)
			n.I = 0
		}
	}
}

// DetectSpikes ages every neuron's history one step and records a spike
// for each membrane that crossed the firing threshold.
func (net *Network) DetectSpikes() {
	for n := net.Head; n != nil; n = n.Next {
		n.History.Advance()
		if n.Fire() {
			n.History.Mark()
		}
	}
}
