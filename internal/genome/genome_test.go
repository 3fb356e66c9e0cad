package genome

import (
	"reflect"
	"testing"
)

// fixture returns a 100-byte buffer of non-start codons with start codons
// placed at the given offsets.
func fixture(markers ...int) []byte {
	buf := make([]byte, 100)
	for i := range buf {
		buf[i] = 1
	}
	for _, m := range markers {
		buf[m] = 10
	}
	return buf
}

func TestExtractGenesMarkerInsideGeneConsumed(t *testing.T) {
	genes := ExtractGenes(fixture(0, 7))
	if len(genes) != 1 {
		t.Fatalf("expected 1 gene, got %d", len(genes))
	}
}

func TestExtractGenesAdjacentGenes(t *testing.T) {
	genes := ExtractGenes(fixture(0, 8))
	if len(genes) != 2 {
		t.Fatalf("expected 2 genes, got %d", len(genes))
	}
}

func TestExtractGenesAllStartCodons(t *testing.T) {
	genes := ExtractGenes(make([]byte, 100))
	if len(genes) != 12 {
		t.Fatalf("expected 12 genes from an all-zero buffer, got %d", len(genes))
	}
}

func TestExtractGenesLastValidOffset(t *testing.T) {
	genes := ExtractGenes(fixture(92))
	if len(genes) != 1 {
		t.Fatalf("expected 1 gene for a start codon 8 bytes from the end, got %d", len(genes))
	}
}

func TestExtractGenesTruncatedTail(t *testing.T) {
	genes := ExtractGenes(fixture(93))
	if len(genes) != 0 {
		t.Fatalf("expected no genes for a start codon 7 bytes from the end, got %d", len(genes))
	}
}

func TestExtractGenesShortBuffer(t *testing.T) {
	if genes := ExtractGenes(make([]byte, 7)); len(genes) != 0 {
		t.Fatalf("expected no genes from a buffer shorter than one gene, got %d", len(genes))
	}
}

func TestExtractGenesDeterministic(t *testing.T) {
	buf := Generate(42, 500)
	first := ExtractGenes(buf)
	second := ExtractGenes(buf)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("expected identical genes from repeated extraction of the same buffer")
	}
}

func TestExtractGenesFieldOrder(t *testing.T) {
	buf := []byte{10, 2, 3, 4, 5, 6, 7, 8}
	genes := ExtractGenes(buf)
	if len(genes) != 1 {
		t.Fatalf("expected 1 gene, got %d", len(genes))
	}
	want := Gene{DeviceToken: 10, ProductIn: 2, ProductOut: 3, LocX: 4, LocY: 5, ConcIncrement: 6, ConcLow: 7, ConcHigh: 8}
	if genes[0] != want {
		t.Fatalf("expected %+v, got %+v", want, genes[0])
	}
}

func TestExtractorMatchesBatchForAnySplit(t *testing.T) {
	buf := Generate(7, 300)
	want := ExtractGenes(buf)
	for split := 0; split <= len(buf); split++ {
		var e Extractor
		genes := e.Feed(buf[:split])
		genes = append(genes, e.Feed(buf[split:])...)
		if !reflect.DeepEqual(genes, want) {
			t.Fatalf("split at %d: got %d genes, want %d", split, len(genes), len(want))
		}
		if e.Remainder() >= GeneSize {
			t.Fatalf("split at %d: remainder %d exceeds a gene", split, e.Remainder())
		}
	}
}

func TestExtractorByteWiseFeed(t *testing.T) {
	buf := fixture(0, 8, 92)
	want := ExtractGenes(buf)
	var e Extractor
	var genes []Gene
	for _, b := range buf {
		genes = append(genes, e.Feed([]byte{b})...)
	}
	if !reflect.DeepEqual(genes, want) {
		t.Fatalf("byte-wise feed got %d genes, want %d", len(genes), len(want))
	}
}

func TestExtractorReset(t *testing.T) {
	var e Extractor
	e.Feed([]byte{1, 2, 3})
	if e.Remainder() == 0 {
		t.Fatal("expected carried bytes before reset")
	}
	e.Reset()
	if e.Remainder() != 0 {
		t.Fatalf("expected empty remainder after reset, got %d", e.Remainder())
	}
}
