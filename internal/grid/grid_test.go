package grid

import (
	"testing"

	"ontogen/internal/neural"
)

func TestNewBuildsRingAndNeighbors(t *testing.T) {
	g, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	c := g.Head()
	for i := 0; i < 25; i++ {
		c = c.Next
	}
	if c != g.Head() {
		t.Fatal("expected the traversal ring to close after rows*columns steps")
	}

	corner := g.CellAt(0, 0)
	if len(corner.Neighbors) != 2 {
		t.Fatalf("expected 2 neighbors at a corner, got %d", len(corner.Neighbors))
	}
	if corner.Neighbors[0] != g.CellAt(1, 0) || corner.Neighbors[1] != g.CellAt(0, 1) {
		t.Fatal("expected east then south neighbor at the origin corner")
	}

	center := g.CellAt(1, 1)
	if len(center.Neighbors) != 4 {
		t.Fatalf("expected 4 neighbors at the center, got %d", len(center.Neighbors))
	}
	order := []*Cell{g.CellAt(2, 1), g.CellAt(0, 1), g.CellAt(1, 0), g.CellAt(1, 2)}
	for i, want := range order {
		if center.Neighbors[i] != want {
			t.Fatalf("expected east, west, north, south neighbor order, mismatch at %d", i)
		}
	}

	edge := g.CellAt(4, 2)
	if len(edge.Neighbors) != 3 {
		t.Fatalf("expected 3 neighbors on a boundary edge, got %d", len(edge.Neighbors))
	}
}

func TestNewSeedsDefaultConcentrations(t *testing.T) {
	g, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	c := g.CellAt(3, 4)
	if len(c.Products) != 25 {
		t.Fatalf("expected 25 products per cell, got %d", len(c.Products))
	}
	for id, p := range c.Products {
		if p.ID != id || p.Concentration != 20 {
			t.Fatalf("product %d: expected id %d at concentration 20, got %+v", id, id, p)
		}
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	bad := []Config{
		{Rows: 0, Columns: 5, Phenotypic: 14, Regulating: 11, DiffuseRatio: 8},
		{Rows: 5, Columns: 5, Phenotypic: 0, Regulating: 11, DiffuseRatio: 8},
		{Rows: 5, Columns: 5, Phenotypic: 14, Regulating: 11, DiffuseRatio: 0},
	}
	for i, cfg := range bad {
		if _, err := New(cfg); err == nil {
			t.Fatalf("config %d: expected an error", i)
		}
	}
}

func TestCellAtBounds(t *testing.T) {
	g, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	if g.CellAt(-1, 0) != nil || g.CellAt(0, -1) != nil || g.CellAt(5, 0) != nil || g.CellAt(0, 5) != nil {
		t.Fatal("expected nil for out-of-grid coordinates")
	}
	if c := g.CellAt(4, 4); c == nil || c.X != 4 || c.Y != 4 {
		t.Fatal("expected the last cell at (4,4)")
	}
}

func TestSnapshotAndRender(t *testing.T) {
	g, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	n := &neural.Neuron{Type: 0x07}
	g.CellAt(1, 1).Place(n)

	snap := g.Snapshot()
	if len(snap) != 25 {
		t.Fatalf("expected a 25-byte snapshot, got %d", len(snap))
	}
	for i, b := range snap {
		want := byte(0)
		if i == 1*5+1 {
			want = 0x07
		}
		if b != want {
			t.Fatalf("snapshot[%d] = %#02x, want %#02x", i, b, want)
		}
	}
	if g.Occupied() != 1 {
		t.Fatalf("expected 1 occupied cell, got %d", g.Occupied())
	}

	rendered := g.Render()
	if rendered == "" || rendered[:2] != ".." {
		t.Fatalf("unexpected rendering start: %q", rendered)
	}
}

func TestPlaceKeepsBackreferences(t *testing.T) {
	g, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	n := &neural.Neuron{Type: 0x07}
	g.CellAt(2, 3).Place(n)
	if n.X != 2 || n.Y != 3 {
		t.Fatalf("expected neuron coordinates updated, got [%d,%d]", n.X, n.Y)
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	n.X = 0
	if err := g.Validate(); err == nil {
		t.Fatal("expected a stale coordinate to fail validation")
	}
}
