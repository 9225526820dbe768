package ai

import (
	"math"
	"math/rand"

	"encrypted-signatures/internal/config"
)

const epsilon = 1e-9

// Belief is the reasoner's numeric model of the hidden profile: per category, a
// probability for every attribute. Every update leaves each category summing
// to 1, except a category zeroed by contradictory evidence, which stays at 0
// until it is re-seeded.
type Belief struct {
	cfg   *config.GameConfig
	probs map[config.Category]map[config.Attribute]float64
}

// NewBelief creates a belief with every attribute at initial.
func NewBelief(cfg *config.GameConfig, initial float64) *Belief {
	b := &Belief{cfg: cfg, probs: make(map[config.Category]map[config.Attribute]float64)}
	for _, cat := range config.Categories {
		b.probs[cat] = make(map[config.Attribute]float64)
		for _, attr := range cfg.Attributes(cat) {
			b.probs[cat][attr] = initial
		}
	}
	return b
}

// Prob returns the probability of attr in cat.
func (b *Belief) Prob(cat config.Category, attr config.Attribute) float64 {
	return b.probs[cat][attr]
}

// Sum returns the total mass of cat.
func (b *Belief) Sum(cat config.Category) float64 {
	total := 0.0
	for _, p := range b.probs[cat] {
		total += p
	}
	return total
}

// Degenerate reports whether cat has lost all of its mass.
func (b *Belief) Degenerate(cat config.Category) bool {
	return b.Sum(cat) < epsilon
}

// Collapsed returns the attribute cat is certain of, if any.
func (b *Belief) Collapsed(cat config.Category) (config.Attribute, bool) {
	for _, attr := range b.cfg.Attributes(cat) {
		if b.probs[cat][attr] >= 1-epsilon {
			return attr, true
		}
	}
	return "", false
}

// Argmax returns the most probable attribute of cat, earliest in catalog order
// on ties, and false when the category is degenerate.
func (b *Belief) Argmax(cat config.Category) (config.Attribute, bool) {
	if b.Degenerate(cat) {
		return "", false
	}
	var best config.Attribute
	bestP := -1.0
	for _, attr := range b.cfg.Attributes(cat) {
		if p := b.probs[cat][attr]; p > bestP {
			best, bestP = attr, p
		}
	}
	return best, true
}

// Collapse puts all of cat's mass on attr.
func (b *Belief) Collapse(cat config.Category, attr config.Attribute) {
	for a := range b.probs[cat] {
		b.probs[cat][a] = 0
	}
	b.probs[cat][attr] = 1
}

// Eliminate zeroes attr and spreads cat uniformly over its other nonzero attributes.
func (b *Belief) Eliminate(cat config.Category, attr config.Attribute) {
	b.probs[cat][attr] = 0
	b.Flatten(cat)
}

// Flatten spreads cat uniformly over its currently nonzero attributes.
func (b *Belief) Flatten(cat config.Category) {
	var live []config.Attribute
	for _, a := range b.cfg.Attributes(cat) {
		if b.probs[cat][a] > 0 {
			live = append(live, a)
		}
	}
	if len(live) == 0 {
		return
	}
	for a := range b.probs[cat] {
		b.probs[cat][a] = 0
	}
	for _, a := range live {
		b.probs[cat][a] = 1 / float64(len(live))
	}
}

// Zero removes all of cat's mass.
func (b *Belief) Zero(cat config.Category) {
	for a := range b.probs[cat] {
		b.probs[cat][a] = 0
	}
}

// Reseed spreads cat uniformly over attrs, or over all attributes when attrs is empty.
func (b *Belief) Reseed(cat config.Category, attrs []config.Attribute) {
	if len(attrs) == 0 {
		attrs = b.cfg.Attributes(cat)
	}
	b.Zero(cat)
	for _, a := range attrs {
		b.probs[cat][a] = 1 / float64(len(attrs))
	}
}

// Restrict zeroes every attribute outside keep and renormalizes. If no mass
// survives, keep is re-seeded uniformly.
func (b *Belief) Restrict(cat config.Category, keep []config.Attribute) {
	allowed := make(map[config.Attribute]bool, len(keep))
	for _, a := range keep {
		allowed[a] = true
	}
	for a := range b.probs[cat] {
		if !allowed[a] {
			b.probs[cat][a] = 0
		}
	}
	if b.Degenerate(cat) {
		b.Reseed(cat, keep)
		return
	}
	b.normalize(cat)
}

// Weigh multiplies each attribute of cat by its likelihood and renormalizes.
// Evidence that would wipe out the whole category is ignored.
func (b *Belief) Weigh(cat config.Category, likelihood map[config.Attribute]float64) {
	total := 0.0
	for a, p := range b.probs[cat] {
		total += p * likelihood[a]
	}
	if total < epsilon {
		return
	}
	for a, p := range b.probs[cat] {
		b.probs[cat][a] = p * likelihood[a] / total
	}
}

// Perturb nudges every nonzero attribute of cat by independent noise in
// [-noise, +noise], clamps to [0,1] and renormalizes.
func (b *Belief) Perturb(cat config.Category, r *rand.Rand, noise float64) {
	for _, a := range b.cfg.Attributes(cat) {
		p := b.probs[cat][a]
		if p <= 0 {
			continue
		}
		p += (r.Float64()*2 - 1) * noise
		b.probs[cat][a] = math.Max(0, math.Min(1, p))
	}
	b.normalize(cat)
}

func (b *Belief) normalize(cat config.Category) {
	total := b.Sum(cat)
	if total < epsilon {
		return
	}
	for a, p := range b.probs[cat] {
		b.probs[cat][a] = p / total
	}
}

// Row returns cat's probabilities in catalog order.
func (b *Belief) Row(cat config.Category) []float64 {
	attrs := b.cfg.Attributes(cat)
	row := make([]float64, len(attrs))
	for i, a := range attrs {
		row[i] = b.probs[cat][a]
	}
	return row
}

// Clone returns an independent copy.
func (b *Belief) Clone() *Belief {
	cp := &Belief{cfg: b.cfg, probs: make(map[config.Category]map[config.Attribute]float64, len(b.probs))}
	for cat, row := range b.probs {
		cp.probs[cat] = make(map[config.Attribute]float64, len(row))
		for a, p := range row {
			cp.probs[cat][a] = p
		}
	}
	return cp
}
