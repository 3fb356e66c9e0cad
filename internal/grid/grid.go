// Package grid implements the diffusion substrate development runs on: a
// bounded 2D mesh of cells, each carrying one concentration per gene
// product, linked to its in-grid neighbors and into a circular traversal
// ring. Concentrations move through a strict per-tick phase order so
// every phase reads only committed values from the previous one.
package grid

import (
	"fmt"
	"strings"

	"ontogen/internal/neural"
)

// Config fixes the grid geometry and the concentration dynamics.
type Config struct {
	Rows    int
	Columns int

	// Phenotypic and Regulating are the product id space: ids below
	// Phenotypic can trigger cellular operators, the rest only regulate.
	Phenotypic int
	Regulating int

	// DefaultConcentration seeds every product in every cell.
	DefaultConcentration int

	// Threshold is the concentration at which a phenotypic product
	// triggers its operator.
	Threshold int

	// DiffuseRatio divides a concentration into the per-neighbor amount
	// pushed each tick; concentrations at or below it do not diffuse.
	DiffuseRatio int

	// DecayStep drains every concentration per tick when DecayEnabled
	// is set. Decay is off by default.
	DecayStep    int
	DecayEnabled bool
}

// DefaultConfig returns the standard 5x5 development grid.
func DefaultConfig() Config {
	return Config{
		Rows:                 5,
		Columns:              5,
		Phenotypic:           14,
		Regulating:           11,
		DefaultConcentration: 20,
		Threshold:            75,
		DiffuseRatio:         8,
		DecayStep:            1,
	}
}

// Product is one gene product's concentration state in one cell. Pending
// collects the tick's diffusion effects before averaging commits them.
type Product struct {
	ID            int
	Concentration int
	Pending       int
}

// Cell is one grid location: its products, its in-bounds neighbors in
// east, west, north, south order, the circular traversal ring link, and
// at most one occupying neuron.
type Cell struct {
	X, Y      int
	Products  []Product
	Neighbors []*Cell
	Next      *Cell
	Neuron    *neural.Neuron
}

// Product returns the cell's product with the given id, or nil when the
// id lies outside the configured product space.
func (c *Cell) Product(id int) *Product {
	if id < 0 || id >= len(c.Products) {
		return nil
	}
	return &c.Products[id]
}

// Place occupies the cell with n and points n back at the cell.
func (c *Cell) Place(n *neural.Neuron) {
	c.Neuron = n
	n.X, n.Y = c.X, c.Y
}

// Grid is the development substrate.
type Grid struct {
	cfg   Config
	cells []Cell
}

// New builds a grid with every product of every cell at the default
// concentration, neighbor connections inside the boundary only, and the
// traversal ring closed over all cells in row-major order.
func New(cfg Config) (*Grid, error) {
	if cfg.Rows < 1 || cfg.Columns < 1 {
		return nil, fmt.Errorf("grid: invalid geometry %dx%d", cfg.Rows, cfg.Columns)
	}
	if cfg.Phenotypic < 1 || cfg.Regulating < 0 {
		return nil, fmt.Errorf("grid: invalid factor counts %d/%d", cfg.Phenotypic, cfg.Regulating)
	}
	if cfg.DiffuseRatio < 1 {
		return nil, fmt.Errorf("grid: diffuse ratio %d must be positive", cfg.DiffuseRatio)
	}

	g := &Grid{cfg: cfg, cells: make([]Cell, cfg.Rows*cfg.Columns)}
	products := cfg.Phenotypic + cfg.Regulating
	for i := range g.cells {
		c := &g.cells[i]
		c.X, c.Y = i%cfg.Columns, i/cfg.Columns
		c.Products = make([]Product, products)
		for id := range c.Products {
			c.Products[id] = Product{ID: id, Concentration: cfg.DefaultConcentration}
		}
		c.Next = &g.cells[(i+1)%len(g.cells)]
	}
	for i := range g.cells {
		c := &g.cells[i]
		if c.X+1 < cfg.Columns {
			c.Neighbors = append(c.Neighbors, &g.cells[i+1])
		}
		if c.X > 0 {
			c.Neighbors = append(c.Neighbors, &g.cells[i-1])
		}
		if c.Y > 0 {
			c.Neighbors = append(c.Neighbors, &g.cells[i-cfg.Columns])
		}
		if c.Y+1 < cfg.Rows {
			c.Neighbors = append(c.Neighbors, &g.cells[i+cfg.Columns])
		}
	}
	return g, nil
}

// Config returns the grid's configuration.
func (g *Grid) Config() Config {
	return g.cfg
}

// Head returns the first cell of the traversal ring.
func (g *Grid) Head() *Cell {
	return &g.cells[0]
}

// CellAt returns the cell at (x,y), or nil outside the grid.
func (g *Grid) CellAt(x, y int) *Cell {
	if x < 0 || x >= g.cfg.Columns || y < 0 || y >= g.cfg.Rows {
		return nil
	}
	return &g.cells[y*g.cfg.Columns+x]
}

// Occupied counts the cells holding a neuron.
func (g *Grid) Occupied() int {
	count := 0
	for i := range g.cells {
		if g.cells[i].Neuron != nil {
			count++
		}
	}
	return count
}

// Snapshot exports the topology as a rows*columns byte array in
// row-major order, each entry the occupying neuron's type byte or zero
// for a vacant cell.
func (g *Grid) Snapshot() []byte {
	out := make([]byte, len(g.cells))
	for i := range g.cells {
		if n := g.cells[i].Neuron; n != nil {
			out[i] = n.Type
		}
	}
	return out
}

// Render draws the occupancy as text, one row per line, type bytes in
// hex and vacant cells as dots.
func (g *Grid) Render() string {
	var b strings.Builder
	for y := 0; y < g.cfg.Rows; y++ {
		for x := 0; x < g.cfg.Columns; x++ {
			if x > 0 {
				b.WriteByte(' ')
			}
			if n := g.cells[y*g.cfg.Columns+x].Neuron; n != nil {
				fmt.Fprintf(&b, "%02x", n.Type)
			} else {
				b.WriteString("..")
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Validate checks the occupancy invariant: every occupied cell's neuron
// carries that cell's coordinates.
func (g *Grid) Validate() error {
	for i := range g.cells {
		c := &g.cells[i]
		if c.Neuron != nil && (c.Neuron.X != c.X || c.Neuron.Y != c.Y) {
			return fmt.Errorf("grid: cell [%d,%d] holds neuron at [%d,%d]", c.X, c.Y, c.Neuron.X, c.Neuron.Y)
		}
	}
	return nil
}
