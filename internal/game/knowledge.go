package game

import (
	"math/rand"

	"encrypted-signatures/internal/config"
)

// Fact is a certain piece of starting knowledge.
type Fact struct {
	Category   config.Category
	Attribute  config.Attribute
	Confidence int
}

// Hint narrows one category to a short list that always holds the truth.
type Hint struct {
	Category   config.Category
	Candidates []config.Attribute
}

// Briefing is one side's starting knowledge.
type Briefing struct {
	Side  Side
	Facts []Fact
	Hint  *Hint
}

// DistributeKnowledge hands each side its certain facts and, where the
// difficulty allows it, the investigator a partial hint.
//
// Categories are shuffled once; the investigator takes the head of the order
// and the opponent takes from the tail, so the two sets only overlap when the
// fact count forces it.
func DistributeKnowledge(cfg *config.GameConfig, r *rand.Rand, p Profile, d config.Difficulty) [2]Briefing {
	rules := cfg.ForDifficulty(d)
	n := rules.CertainFacts
	if n > len(config.Categories) {
		n = len(config.Categories)
	}

	order := append([]config.Category(nil), config.Categories...)
	r.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	fact := func(cat config.Category) Fact {
		return Fact{Category: cat, Attribute: p.Attribute(cat), Confidence: cfg.Rules.CertainKnowledge}
	}

	var briefings [2]Briefing
	briefings[Investigator].Side = Investigator
	briefings[Opponent].Side = Opponent

	covered := make(map[config.Category]bool)
	for _, cat := range order[:n] {
		briefings[Investigator].Facts = append(briefings[Investigator].Facts, fact(cat))
		covered[cat] = true
	}
	for i := 0; i < n; i++ {
		cat := order[len(order)-1-i]
		briefings[Opponent].Facts = append(briefings[Opponent].Facts, fact(cat))
	}

	if rules.PartialHint {
		var uncovered []config.Category
		for _, cat := range order {
			if !covered[cat] {
				uncovered = append(uncovered, cat)
			}
		}
		if len(uncovered) > 0 {
			cat := uncovered[r.Intn(len(uncovered))]
			briefings[Investigator].Hint = partialHint(cfg, r, p, cat)
		}
	}
	return briefings
}

func partialHint(cfg *config.GameConfig, r *rand.Rand, p Profile, cat config.Category) *Hint {
	lo, hi := cfg.Rules.PartialHintMinAttrs, cfg.Rules.PartialHintMaxAttrs
	size := lo + r.Intn(hi-lo+1)

	truth := p.Attribute(cat)
	var decoys []config.Attribute
	for _, a := range cfg.Attributes(cat) {
		if a != truth {
			decoys = append(decoys, a)
		}
	}
	r.Shuffle(len(decoys), func(i, j int) { decoys[i], decoys[j] = decoys[j], decoys[i] })

	candidates := append([]config.Attribute{truth}, decoys[:size-1]...)
	r.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
	return &Hint{Category: cat, Candidates: candidates}
}

// seed writes a briefing into its owner's grid.
func (b Briefing) seed(g *Grid) {
	for _, f := range b.Facts {
		g.Set(f.Category, f.Attribute, StatusConfirmed)
	}
	if b.Hint != nil {
		for _, a := range b.Hint.Candidates {
			g.Set(b.Hint.Category, a, StatusUncertain)
		}
	}
}
