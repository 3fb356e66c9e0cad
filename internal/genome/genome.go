// Package genome holds the raw byte genomes of developing controllers and
// turns them into transcribed gene records. A gene occupies eight
// consecutive codons (bytes) starting at a start codon, which is any byte
// divisible by ten. Extraction supports both whole-buffer scans and
// incremental feeding of genome fragments.
package genome

const (
	// GeneSize is the number of codons one gene occupies.
	GeneSize = 8

	// startCodonMod marks a gene start: any codon divisible by ten.
	startCodonMod = 10
)

// Gene is one extracted gene record. Field values are raw codon values
// until Transcribe maps them into their operational ranges.
type Gene struct {
	DeviceToken   int
	ProductIn     int
	ProductOut    int
	LocX          int
	LocY          int
	ConcIncrement int
	ConcLow       int
	ConcHigh      int
}

func geneAt(buf []byte) Gene {
	return Gene{
		DeviceToken:   int(buf[0]),
		ProductIn:     int(buf[1]),
		ProductOut:    int(buf[2]),
		LocX:          int(buf[3]),
		LocY:          int(buf[4]),
		ConcIncrement: int(buf[5]),
		ConcLow:       int(buf[6]),
		ConcHigh:      int(buf[7]),
	}
}

// ExtractGenes scans buf for start codons and lifts one gene per match.
// The scan advances a full gene width after a match, one codon otherwise,
// so gene boundaries never overlap. A trailing fragment shorter than a
// gene is ignored.
func ExtractGenes(buf []byte) []Gene {
	var genes []Gene
	i := 0
	for i+GeneSize <= len(buf) {
		if buf[i]%startCodonMod == 0 {
			genes = append(genes, geneAt(buf[i:]))
			i += GeneSize
		} else {
			i++
		}
	}
	return genes
}

// Extractor accumulates genes from genome fragments arriving in chunks.
// Up to GeneSize-1 unconsumed trailing bytes are carried between feeds, so
// feeding a buffer in arbitrary splits yields exactly the genes of a
// whole-buffer ExtractGenes call.
type Extractor struct {
	rem []byte
}

// Feed consumes the next fragment and returns the genes completed by it.
func (e *Extractor) Feed(chunk []byte) []Gene {
	buf := chunk
	if len(e.rem) > 0 {
		buf = append(e.rem, chunk...)
	}
	var genes []Gene
	i := 0
	for i+GeneSize <= len(buf) {
		if buf[i]%startCodonMod == 0 {
			genes = append(genes, geneAt(buf[i:]))
			i += GeneSize
		} else {
			i++
		}
	}
	e.rem = append([]byte(nil), buf[i:]...)
	return genes
}

// Remainder reports how many trailing bytes are carried to the next feed.
func (e *Extractor) Remainder() int {
	return len(e.rem)
}

// Reset drops any carried bytes so the extractor can start a new genome.
func (e *Extractor) Reset() {
	e.rem = nil
}
