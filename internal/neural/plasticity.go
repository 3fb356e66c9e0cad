package neural

// Spike-timing-dependent plasticity tables, one entry per step of
// interspike distance within the history window. Both follow
// magnitude·e^(-t/20); depression is negative.
var (
	ltp = [16]float64{
		0.100000, 0.095123, 0.090484, 0.086071,
		0.081873, 0.077880, 0.074082, 0.070469,
		0.067032, 0.063763, 0.060653, 0.057695,
		0.054881, 0.052205, 0.049659, 0.047237,
	}
	ltd = [16]float64{
		-0.120000, -0.114148, -0.108580, -0.103285,
		-0.098248, -0.093456, -0.088898, -0.084563,
		-0.080438, -0.076515, -0.072784, -0.069234,
		-0.065857, -0.062645, -0.059590, -0.056684,
	}
)

// LTP returns the potentiation step for an interspike distance.
func LTP(distance int) float64 {
	return ltp[distance]
}

// LTD returns the depression step for an interspike distance.
func LTD(distance int) float64 {
	return ltd[distance]
}

// WeightLimit bounds synaptic weights in both directions, for plastic
// adaptation and for the weight-editing operators alike.
const WeightLimit = 10.0

func clampWeight(w float64) float64 {
	if w > WeightLimit {
		return WeightLimit
	}
	if w < -WeightLimit {
		return -WeightLimit
	}
	return w
}

// PropagatePlastic is Propagate with spike-timing-dependent weight
// adaptation folded into the same sweep. When a presynaptic spike
// arrives (history raised at the synapse delay), the weight first takes
// a depression step indexed by the age of the most recent postsynaptic
// spike, then the adapted weight propagates. When the postsynaptic
// neuron fired on the previous step, the weight takes a potentiation
// step indexed by the age of the most recent presynaptic spike as seen
// through the delay line. Empty histories contribute no learning step;
// weights clamp to [-10,10].
func (net *Network) PropagatePlastic() {
	for n := net.Head; n != nil; n = n.Next {
		for p := n.PortsOut; p != nil; p = p.Next {
			s := p.Synapse
			if n.History.RaisedAt(s.Delay) {
				if age := s.Post.History.Latest(); age < len(ltd) {
					s.Weight = clampWeight(s.Weight + ltd[age])
				}
				s.Post.I += s.Weight / 3.0
			}
			if s.Post.History.RaisedAt(1) {
				if age := (n.History >> uint(s.Delay)).Latest(); age < len(ltp) {
					s.Weight = clampWeight(s.Weight + ltp[age])
				}
			}
		}
	}
}
