// Package neural holds the living network: spiking neurons on grid
// coordinates, synapses with weights and delay lines, and the port lists
// that let development rewire the graph one synapse at a time. Membrane
// dynamics follow the Izhikevich model with per-subtype parameter sets.
package neural

// A neuron's type byte packs three fields: bit 0 carries the sign
// (set = excitatory), bits 1-2 the topological role, bits 3-7 the
// Izhikevich subtype.
const (
	SignMask byte = 0x01

	RoleMask   byte = 0x06
	RoleOutput byte = 0x02
	RoleHidden byte = 0x04
	RoleInput  byte = 0x06

	SubtypeMask byte = 0xF8
)

// Izhikevich subtypes, stored pre-shifted in the type byte.
const (
	TonicSpiking              byte = 0x00
	PhasicSpiking             byte = 0x08
	TonicBursting             byte = 0x10
	PhasicBursting            byte = 0x18
	MixedMode                 byte = 0x20
	SpikeFrequencyAdaptation  byte = 0x28
	Class1Excitable           byte = 0x30
	Class2Excitable           byte = 0x38
	SpikeLatency              byte = 0x40
	SubthresholdOscillations  byte = 0x48
	Resonator                 byte = 0x50
	Integrator                byte = 0x58
	ReboundSpike              byte = 0x60
	ReboundBurst              byte = 0x68
	ThresholdVariability      byte = 0x70
	Bistability               byte = 0x78
	DAP                       byte = 0x80
	Accommodation             byte = 0x88
	InhibitionInducedSpiking  byte = 0x90
	InhibitionInducedBursting byte = 0x98
)

// Neuron is a fully-composed network node: Izhikevich membrane state,
// spike history, grid coordinates, the network list link, and the two
// port lists. Current is the development-time cursor naming the synapse
// cellular operators act on; the runtime never touches it.
type Neuron struct {
	Type byte

	V, U       float64
	A, B, C, D float64
	I          float64

	History History

	X, Y int

	Next     *Neuron
	PortsIn  *Port
	PortsOut *Port
	Current  *Port
}

// Subtype returns the Izhikevich subtype field of the type byte.
func (n *Neuron) Subtype() byte {
	return n.Type & SubtypeMask
}

// Role returns the topological role field of the type byte.
func (n *Neuron) Role() byte {
	return n.Type & RoleMask
}

// Excitatory reports whether the sign bit marks this neuron excitatory.
func (n *Neuron) Excitatory() bool {
	return n.Type&SignMask != 0
}

// InitMembrane resets the membrane state for the neuron's subtype. Tonic
// spiking, phasic spiking and integrator neurons carry dedicated
// parameter sets; every other subtype uses the shared defaults, with the
// sign bit selecting the excitatory or inhibitory recovery parameters.
func (n *Neuron) InitMembrane() {
	switch n.Subtype() {
	case TonicSpiking:
		n.A, n.B, n.C, n.D = 0.02, 0.20, -65, 6
		n.V = -70
		n.U = n.V * n.B
	case PhasicSpiking:
		n.A, n.B, n.C, n.D = 0.02, 0.25, -65, 6
		n.V = -64
		n.U = n.V * n.B
	case Integrator:
		n.A, n.B, n.C, n.D = 0.02, -0.10, -55, 6
		n.V = -60
		n.U = n.V * n.B
	default:
		n.B, n.C = 0.25, -65
		n.V = -64
		n.U = n.V * 0.2
		if n.Excitatory() {
			n.A, n.D = 0.02, 6
		} else {
			n.A, n.D = 0.10, 2
		}
	}
}

// Update advances the membrane one simulation step with the given input
// current. Integrator neurons use four quarter-steps of their variant
// polynomial; all others use two half-steps of the standard one. The
// recovery variable updates once per step.
func (n *Neuron) Update(input float64) {
	if n.Subtype() == Integrator {
		for i := 0; i < 4; i++ {
			n.V += 0.25 * ((0.04*n.V+4.1)*n.V + 108 - n.U + input)
		}
	} else {
		for i := 0; i < 2; i++ {
			n.V += 0.5 * ((0.04*n.V+5)*n.V + 140 - n.U + input)
		}
	}
	n.U += n.A * (n.B*n.V - n.U)
}

// Fire applies the post-spike reset when the membrane crossed the firing
// threshold, reporting whether the neuron fired this step.
func (n *Neuron) Fire() bool {
	if n.V >= 30 {
		n.V = n.C
		n.U += n.D
		return true
	}
	return false
}

// CycleSubtype steps the subtype field to the next enumerated subtype.
func (n *Neuron) CycleSubtype() {
	next := byte((int(n.Subtype()) + 8) % int(InhibitionInducedBursting))
	n.Type = n.Type&^SubtypeMask | next
}

// ToggleSign flips the neuron between excitatory and inhibitory.
func (n *Neuron) ToggleSign() {
	n.Type ^= SignMask
}

// CycleRole steps the topological role: output to hidden, hidden and
// input to output.
func (n *Neuron) CycleRole() {
	next := (n.Role() + 2) % 6
	if next == 0 {
		next = RoleOutput
	}
	n.Type = n.Type&^RoleMask | next
}
