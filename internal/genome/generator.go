package genome

// Generate produces a deterministic pseudo-random genome of n bytes from
// the given seed. The stream is a splitmix64 sequence emitted in
// little-endian order; the algorithm is pinned so corpora regenerate
// bit-for-bit from the seed alone, on any platform or toolchain.
func Generate(seed uint64, n int) []byte {
	out := make([]byte, 0, n)
	state := seed
	for len(out) < n {
		state += 0x9E3779B97F4A7C15
		z := state
		z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
		z = (z ^ (z >> 27)) * 0x94D049BB133111EB
		z ^= z >> 31
		for b := 0; b < 8 && len(out) < n; b++ {
			out = append(out, byte(z>>(8*b)))
		}
	}
	return out
}
