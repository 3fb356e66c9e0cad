package genome

// Config fixes the value ranges transcription maps raw codons into.
type Config struct {
	// Rows and Columns bound the gene target coordinates.
	Rows    int
	Columns int

	// Phenotypic and Regulating are the factor counts of the product id
	// space. Ids below Phenotypic trigger cellular operators; the rest
	// only regulate concentrations.
	Phenotypic int
	Regulating int
}

// Normalize maps a raw codon value onto bins buckets: ((v+1)*bins)/257.
// The +1/257 form spreads the 256 codon values evenly while keeping the
// result strictly below bins.
func Normalize(v, bins int) int {
	return ((v + 1) * bins) / 257
}

// Transcribe maps every gene's raw codon values into their operational
// ranges and drops self-referential genes, whose product_in equals
// product_out after normalization. The surviving genes keep their
// extraction order; the returned slice reuses the backing array.
func Transcribe(genes []Gene, cfg Config) []Gene {
	for i := range genes {
		g := &genes[i]
		g.DeviceToken /= 10
		g.ProductIn = Normalize(g.ProductIn, cfg.Regulating) + cfg.Phenotypic
		g.ProductOut = Normalize(g.ProductOut, cfg.Regulating+cfg.Phenotypic)
		g.LocX = Normalize(g.LocX, cfg.Columns)
		g.LocY = Normalize(g.LocY, cfg.Rows)
		g.ConcIncrement = Normalize(g.ConcIncrement, 11) + 10
		g.ConcLow = Normalize(g.ConcLow, 101)
		g.ConcHigh = Normalize(g.ConcHigh, 101)
	}
	kept := genes[:0]
	for _, g := range genes {
		if g.ProductIn != g.ProductOut {
			kept = append(kept, g)
		}
	}
	return kept
}
