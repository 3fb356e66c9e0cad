package neural

import "testing"

func TestHistoryMarkAndAge(t *testing.T) {
	var h History
	if h.Latest() != 16 {
		t.Fatalf("expected empty history to report age past the window, got %d", h.Latest())
	}
	h.Advance()
	h.Mark()
	if !h.RaisedAt(1) {
		t.Fatal("expected a fresh spike at offset 1")
	}
	if h.Latest() != 1 {
		t.Fatalf("expected most recent spike age 1, got %d", h.Latest())
	}
	for i := 0; i < 3; i++ {
		h.Advance()
	}
	if h.RaisedAt(1) {
		t.Fatal("expected the spike to have aged past offset 1")
	}
	if !h.RaisedAt(4) {
		t.Fatal("expected the spike at offset 4 after three steps")
	}
	if h.Latest() != 4 {
		t.Fatalf("expected most recent spike age 4, got %d", h.Latest())
	}
}

func TestHistorySpikeFallsOffWindow(t *testing.T) {
	var h History
	h.Advance()
	h.Mark()
	for i := 0; i < 15; i++ {
		h.Advance()
	}
	if h != 0 {
		t.Fatalf("expected the spike to shift out of the 16-slot window, got %016b", uint16(h))
	}
}

func TestHistoryRaisedAtBounds(t *testing.T) {
	h := History(0xFFFF)
	if h.RaisedAt(-1) || h.RaisedAt(16) {
		t.Fatal("expected offsets outside the window to read as no spike")
	}
}
