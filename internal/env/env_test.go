package env

import (
	"bytes"
	"testing"
)

func TestConstantReplaysForever(t *testing.T) {
	c, err := NewConstant("steady", []byte{5, 0, 40})
	if err != nil {
		t.Fatalf("new constant: %v", err)
	}
	for _, cycle := range []int{0, 1, 999} {
		f, ok := c.Frame(cycle)
		if !ok || !bytes.Equal(f, []byte{5, 0, 40}) {
			t.Fatalf("cycle %d: got %v ok=%v", cycle, f, ok)
		}
	}
	if _, err := NewConstant("bad", []byte{1, 2}); err == nil {
		t.Fatal("expected a short frame rejected")
	}
}

func TestTracePlaybackAndExhaustion(t *testing.T) {
	frames := [][]byte{{1, 0, 1}, {2, 0, 2}, {3, 0, 3}}
	tr, err := NewTrace("approach", frames, false)
	if err != nil {
		t.Fatalf("new trace: %v", err)
	}
	for i, want := range frames {
		f, ok := tr.Frame(i)
		if !ok || !bytes.Equal(f, want) {
			t.Fatalf("cycle %d: got %v ok=%v", i, f, ok)
		}
	}
	if _, ok := tr.Frame(3); ok {
		t.Fatal("expected the trace exhausted")
	}

	looped, err := NewTrace("orbit", frames, true)
	if err != nil {
		t.Fatalf("new trace: %v", err)
	}
	if f, ok := looped.Frame(4); !ok || !bytes.Equal(f, frames[1]) {
		t.Fatalf("expected the loop to wrap, got %v ok=%v", f, ok)
	}

	if _, err := NewTrace("empty", nil, false); err == nil {
		t.Fatal("expected an empty trace rejected")
	}
	if _, err := NewTrace("short", [][]byte{{1}}, false); err == nil {
		t.Fatal("expected a short frame rejected")
	}
}

func TestSweepSteps(t *testing.T) {
	s, err := NewSweep("ramp", 64, 2)
	if err != nil {
		t.Fatalf("new sweep: %v", err)
	}
	cases := []struct {
		cycle int
		level byte
	}{
		{0, 0}, {1, 0}, {2, 64}, {3, 64}, {4, 128}, {6, 192},
	}
	for _, c := range cases {
		f, ok := s.Frame(c.cycle)
		if !ok {
			t.Fatalf("cycle %d: unexpectedly exhausted", c.cycle)
		}
		if f[0] != c.level || f[1] != 0 || f[2] != c.level {
			t.Fatalf("cycle %d: expected level %d, got %v", c.cycle, c.level, f)
		}
	}
	// 8/2 steps of 64 pass 255.
	if _, ok := s.Frame(8); ok {
		t.Fatal("expected the sweep to end past the top of the range")
	}

	if _, err := NewSweep("bad", 0, 1); err == nil {
		t.Fatal("expected a non-positive step rejected")
	}
}
