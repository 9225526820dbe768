package game

import "encrypted-signatures/internal/config"

// Grid is one side's discrete deduction notes over every (category, attribute) pair.
//
// At most one attribute per category is confirmed, and a confirmed attribute
// always has every sibling eliminated.
type Grid struct {
	cfg   *config.GameConfig
	cells map[config.Category]map[config.Attribute]CellStatus
}

// NewGrid creates a grid with every cell unknown.
func NewGrid(cfg *config.GameConfig) *Grid {
	g := &Grid{cfg: cfg, cells: make(map[config.Category]map[config.Attribute]CellStatus)}
	for _, cat := range config.Categories {
		g.cells[cat] = make(map[config.Attribute]CellStatus)
		for _, attr := range cfg.Attributes(cat) {
			g.cells[cat][attr] = StatusUnknown
		}
	}
	return g
}

// Status returns the current status of a cell.
func (g *Grid) Status(cat config.Category, attr config.Attribute) CellStatus {
	return g.cells[cat][attr]
}

// Set records a status for one cell while keeping the confirmation invariant.
// Confirming eliminates every sibling. Marking a sibling of an already
// confirmed attribute as anything but eliminated is conflicting evidence, so
// the earlier confirmation is downgraded to likely.
func (g *Grid) Set(cat config.Category, attr config.Attribute, status CellStatus) {
	row := g.cells[cat]
	if _, ok := row[attr]; !ok {
		return
	}
	if status == StatusConfirmed {
		for other := range row {
			row[other] = StatusEliminated
		}
		row[attr] = StatusConfirmed
		return
	}
	if status != StatusEliminated {
		if confirmed, ok := g.Confirmed(cat); ok && confirmed != attr {
			row[confirmed] = StatusLikely
		}
	}
	row[attr] = status
}

// Confirmed returns the confirmed attribute of cat, if any.
func (g *Grid) Confirmed(cat config.Category) (config.Attribute, bool) {
	for _, attr := range g.cfg.Attributes(cat) {
		if g.cells[cat][attr] == StatusConfirmed {
			return attr, true
		}
	}
	return "", false
}

// Row returns the statuses of cat in catalog order.
func (g *Grid) Row(cat config.Category) []CellStatus {
	attrs := g.cfg.Attributes(cat)
	row := make([]CellStatus, len(attrs))
	for i, attr := range attrs {
		row[i] = g.cells[cat][attr]
	}
	return row
}

// Clone returns an independent copy.
func (g *Grid) Clone() *Grid {
	cp := &Grid{cfg: g.cfg, cells: make(map[config.Category]map[config.Attribute]CellStatus, len(g.cells))}
	for cat, row := range g.cells {
		cp.cells[cat] = make(map[config.Attribute]CellStatus, len(row))
		for attr, st := range row {
			cp.cells[cat][attr] = st
		}
	}
	return cp
}
