package aer

import (
	"errors"
	"testing"
)

func TestSpikeCountBuckets(t *testing.T) {
	cases := []struct {
		v    byte
		want int
	}{
		{0, 10}, {4, 10}, {5, 9}, {9, 9}, {10, 8}, {14, 8},
		{15, 7}, {19, 7}, {20, 6}, {29, 6}, {30, 5}, {39, 5},
		{40, 4}, {49, 4}, {50, 3}, {59, 3}, {60, 2}, {69, 2},
		{70, 0}, {79, 0}, {80, 0}, {255, 0},
	}
	for _, c := range cases {
		if got := spikeCount(c.v); got != c.want {
			t.Fatalf("magnitude %d: expected %d spikes, got %d", c.v, c.want, got)
		}
	}
}

func TestEncodeSensors(t *testing.T) {
	b := NewBuffer(0)
	if err := EncodeSensors(b, []byte{45, 99, 12}, 100, 3); err != nil {
		t.Fatalf("encode: %v", err)
	}
	// Channel 0 at 45 buckets to 4 spikes, channel 2 at 12 to 8. The
	// middle channel never encodes.
	if b.Len() != 12 {
		t.Fatalf("expected 12 events, got %d", b.Len())
	}
	for j := 0; j < 4; j++ {
		e, _ := b.Pop()
		if e.X != 0 || e.Y != 0 || e.Timestamp != uint16(100+3*j) {
			t.Fatalf("channel 0 spike %d: got %+v", j, e)
		}
	}
	for j := 0; j < 8; j++ {
		e, _ := b.Pop()
		if e.X != 2 || e.Y != 0 || e.Timestamp != uint16(100+3*j) {
			t.Fatalf("channel 2 spike %d: got %+v", j, e)
		}
	}
}

func TestEncodeSensorsShortFrame(t *testing.T) {
	b := NewBuffer(0)
	if err := EncodeSensors(b, []byte{1, 2}, 0, 1); !errors.Is(err, ErrShortFrame) {
		t.Fatalf("expected ErrShortFrame, got %v", err)
	}
	if b.Len() != 0 {
		t.Fatalf("expected nothing queued, got %d", b.Len())
	}
}

func TestEncodeSensorsStopsWhenFull(t *testing.T) {
	b := NewBuffer(8)
	err := EncodeSensors(b, []byte{0, 0, 70}, 0, 1)
	if !errors.Is(err, ErrBufferFull) {
		t.Fatalf("expected ErrBufferFull, got %v", err)
	}
	// Channel 0 wanted 10 spikes; the seven that fit stay queued.
	if b.Len() != 7 {
		t.Fatalf("expected 7 queued events, got %d", b.Len())
	}
}

func TestDecodeActuators(t *testing.T) {
	b := NewBuffer(0)
	for i := 0; i < 3; i++ {
		b.Push(Event{X: 3, Y: 3})
	}
	b.Push(Event{X: 1, Y: 3})
	b.Push(Event{X: 4, Y: 3})
	b.Push(Event{X: 4, Y: 3})

	out := DecodeActuators(b)
	if out[1] != 50 {
		t.Fatalf("expected actuator 1 at 50, got %d", out[1])
	}
	if out[0] != 50 {
		t.Fatalf("expected actuator 0 at 50, got %d", out[0])
	}
	if b.Len() != 0 {
		t.Fatalf("expected the buffer drained, got %d", b.Len())
	}
}

func TestDecodeActuatorsAtRest(t *testing.T) {
	b := NewBuffer(0)
	out := DecodeActuators(b)
	if out[0] != 10 || out[1] != 10 {
		t.Fatalf("expected the resting actuation pair, got %+v", out)
	}
}

func TestDecodeActuatorsNegative(t *testing.T) {
	b := NewBuffer(0)
	for i := 0; i < 4; i++ {
		b.Push(Event{X: 1, Y: 3})
	}
	out := DecodeActuators(b)
	if out[1] != -70 {
		t.Fatalf("expected antagonist dominance at -70, got %d", out[1])
	}
	if out[0] != 10 {
		t.Fatalf("expected the resting value, got %d", out[0])
	}
}
