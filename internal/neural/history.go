package neural

import "math/bits"

// History is a rolling 16-slot spike record. Each runtime step shifts the
// window one slot; a spike in the current step is marked at slot 1, so
// testing slot d answers "did this neuron fire d steps ago". Synaptic
// delay lines read the history at their delay offset instead of queueing
// spikes per synapse.
type History uint16

// Advance shifts the window one step, aging every recorded spike.
func (h *History) Advance() {
	*h <<= 1
}

// Mark records a spike for the current step.
func (h *History) Mark() {
	*h |= 1 << 1
}

// RaisedAt reports whether a spike is recorded exactly d steps ago.
func (h History) RaisedAt(d int) bool {
	if d < 0 || d > 15 {
		return false
	}
	return h&(1<<d) != 0
}

// Latest returns the age of the most recent recorded spike, or a value
// past the window (16) when the history is empty.
func (h History) Latest() int {
	return bits.TrailingZeros16(uint16(h))
}
