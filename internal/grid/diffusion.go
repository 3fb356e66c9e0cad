package grid

import "ontogen/internal/genome"

func clamp(v int) int {
	if v > 100 {
		return 100
	}
	if v < 0 {
		return 0
	}
	return v
}

func (p *Product) change(amount int) {
	p.Concentration = clamp(p.Concentration + amount)
}

func (p *Product) changePending(amount int) {
	p.Pending = clamp(p.Pending + amount)
}

// Tick advances the concentration dynamics one step: gene regulation,
// optional decay, snapshot to pending, diffusion into pending, then the
// averaging commit. Genes apply in their extraction order against the
// running current values, so earlier genes are visible to later ones
// within the same tick.
func (g *Grid) Tick(genes []genome.Gene) {
	g.regulate(genes)
	g.decay()
	g.copyPending()
	g.diffuse()
	g.average()
}

// regulate applies one gene: read product_in's concentration at the
// gene's target cell and move product_out by the gene's increment when
// the reading falls in the gene's active band, or the opposite way when
// it falls in the deprivation band (0,10). An inverted band swaps the
// two directions. Genes naming products outside the configured id space
// are ignored.
func (g *Grid) regulate(genes []genome.Gene) {
	for i := range genes {
		gene := &genes[i]
		cell := g.CellAt(gene.LocX, gene.LocY)
		if cell == nil {
			continue
		}
		in := cell.Product(gene.ProductIn)
		out := cell.Product(gene.ProductOut)
		if in == nil || out == nil {
			continue
		}
		level := in.Concentration
		if gene.ConcLow < gene.ConcHigh {
			if level > gene.ConcLow && level < gene.ConcHigh {
				out.change(gene.ConcIncrement)
			} else if level > 0 && level < 10 {
				out.change(-gene.ConcIncrement)
			}
		} else {
			if level > gene.ConcHigh && level < gene.ConcLow {
				out.change(-gene.ConcIncrement)
			} else if level > 0 && level < 10 {
				out.change(gene.ConcIncrement)
			}
		}
	}
}

func (g *Grid) decay() {
	if !g.cfg.DecayEnabled {
		return
	}
	for i := range g.cells {
		for id := range g.cells[i].Products {
			g.cells[i].Products[id].change(-g.cfg.DecayStep)
		}
	}
}

func (g *Grid) copyPending() {
	for i := range g.cells {
		for id := range g.cells[i].Products {
			p := &g.cells[i].Products[id]
			p.Pending = p.Concentration
		}
	}
}

// diffuse pushes concentration/ratio units of every product above the
// ratio into each neighbor's pending value, then drains the nominal
// total from the source's current value. Pushes accumulate under the
// clamp; the source drain ignores neighbor clamping, so diffusion is an
// approximation rather than a conserved flow.
func (g *Grid) diffuse() {
	for i := range g.cells {
		c := &g.cells[i]
		for id := range c.Products {
			p := &c.Products[id]
			if p.Concentration <= g.cfg.DiffuseRatio {
				continue
			}
			amount := p.Concentration / g.cfg.DiffuseRatio
			total := 0
			for _, nb := range c.Neighbors {
				nb.Products[id].changePending(amount)
				total += amount
			}
			p.change(-total)
		}
	}
}

func (g *Grid) average() {
	for i := range g.cells {
		for id := range g.cells[i].Products {
			p := &g.cells[i].Products[id]
			p.Concentration = (p.Pending + p.Concentration) / 2
		}
	}
}
