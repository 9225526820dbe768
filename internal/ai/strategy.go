package ai

import (
	"fmt"
	"math"
	"sort"

	"encrypted-signatures/internal/config"
	"encrypted-signatures/internal/game"
)

// Decision is the reasoner's next move. With neither an action nor an
// accusation set, the reasoner ends its turn.
type Decision struct {
	Action     *game.Action
	Accusation game.Accusation
	Strategy   string

	// novelty is remembered once the action has been performed.
	novelty string
}

// EndsTurn reports whether the decision is to pass.
func (d Decision) EndsTurn() bool {
	return d.Action == nil && d.Accusation == nil
}

func (d Decision) String() string {
	switch {
	case d.Accusation != nil:
		return fmt.Sprintf("%s: accuse", d.Strategy)
	case d.Action != nil:
		return fmt.Sprintf("%s: %s", d.Strategy, *d.Action)
	default:
		return "end turn"
	}
}

// candidate is an attribute whose probability is strictly between 0 and 1.
type candidate struct {
	Category  config.Category
	Attribute config.Attribute
	Distance  float64
}

// plan is what every strategy sees: the points left and the uncertain
// candidates ordered by closeness to 0.5, catalog order breaking ties.
type plan struct {
	points    int
	uncertain []candidate
	grid      *game.Grid
}

func (p plan) focus() candidate { return p.uncertain[0] }

// partner returns the closest-to-0.5 candidate outside the focus category.
func (p plan) partner() (candidate, bool) {
	focus := p.focus()
	for _, c := range p.uncertain[1:] {
		if c.Category != focus.Category {
			return c, true
		}
	}
	return candidate{}, false
}

// ActionStrategy defines the interface for one link of the reasoner's decision chain.
type ActionStrategy interface {
	BuildAction(ai *Reasoner, p plan) (Decision, bool)
}

// --- Strategy Implementations ---

// 1. AccuseStrategy fires once every category has collapsed.
type AccuseStrategy struct{}

func (s *AccuseStrategy) BuildAction(ai *Reasoner, p plan) (Decision, bool) {
	if len(p.uncertain) > 0 {
		return Decision{}, false
	}
	acc := make(game.Accusation, len(config.Categories))
	for _, cat := range config.Categories {
		if attr, ok := ai.belief.Argmax(cat); ok {
			acc[cat] = attr
			continue
		}
		// Only Decide gets here: a scheduled step re-seeds zeroed categories first.
		acc[cat] = ai.chooser.Choose(ai.openAttributes(cat, p.grid))
	}
	ai.log.Infof("Strategy: ACCUSE. Every category has collapsed: %v", acc)
	return Decision{Accusation: acc, Strategy: "accuse"}, true
}

// 2. CrossReferenceStrategy pairs the focus with the most uncertain other category.
type CrossReferenceStrategy struct{}

func (s *CrossReferenceStrategy) BuildAction(ai *Reasoner, p plan) (Decision, bool) {
	if p.points < game.ActionCost(ai.cfg, game.ActionCrossReference) {
		return Decision{}, false
	}
	second, ok := p.partner()
	if !ok {
		return Decision{}, false
	}
	first := p.focus()
	key := pairKey(first.Category, second.Category)
	if ai.recent.Contains(key) {
		return Decision{}, false
	}
	a := game.CrossReference(first.Category, second.Category)
	ai.log.Debugf("Strategy: CROSS-REFERENCE %s with %s.", first.Category, second.Category)
	return Decision{Action: &a, Strategy: "crossReference", novelty: key}, true
}

// 3. ScanStrategy sweeps the focus category.
type ScanStrategy struct{}

func (s *ScanStrategy) BuildAction(ai *Reasoner, p plan) (Decision, bool) {
	if p.points < game.ActionCost(ai.cfg, game.ActionScan) {
		return Decision{}, false
	}
	focus := p.focus()
	key := "scan:" + focus.Category.String()
	if ai.recent.Contains(key) {
		return Decision{}, false
	}
	a := game.Scan(focus.Category)
	ai.log.Debugf("Strategy: SCAN %s.", focus.Category)
	return Decision{Action: &a, Strategy: "scan", novelty: key}, true
}

// 4. VerifyStrategy tests the single most uncertain attribute.
type VerifyStrategy struct{}

func (s *VerifyStrategy) BuildAction(ai *Reasoner, p plan) (Decision, bool) {
	if p.points < game.ActionCost(ai.cfg, game.ActionVerify) {
		return Decision{}, false
	}
	focus := p.focus()
	a := game.Verify(focus.Category, focus.Attribute)
	ai.log.Debugf("Strategy: VERIFY %s=%s (p=%.2f).", focus.Category, focus.Attribute, ai.belief.Prob(focus.Category, focus.Attribute))
	return Decision{Action: &a, Strategy: "verify"}, true
}

// --- Strategy Helpers ---

// uncertainCandidates lists every attribute strictly between 0 and 1, closest
// to 0.5 first.
func (ai *Reasoner) uncertainCandidates() []candidate {
	var out []candidate
	for _, cat := range config.Categories {
		for _, attr := range ai.cfg.Attributes(cat) {
			p := ai.belief.Prob(cat, attr)
			if p > epsilon && p < 1-epsilon {
				out = append(out, candidate{Category: cat, Attribute: attr, Distance: math.Abs(p - 0.5)})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out
}

// openAttributes returns the attributes of cat that grid has not eliminated,
// or every attribute when grid is nil or has eliminated them all.
func (ai *Reasoner) openAttributes(cat config.Category, grid *game.Grid) []config.Attribute {
	all := ai.cfg.Attributes(cat)
	if grid == nil {
		return all
	}
	var open []config.Attribute
	for _, attr := range all {
		if grid.Status(cat, attr) != game.StatusEliminated {
			open = append(open, attr)
		}
	}
	if len(open) == 0 {
		return all
	}
	return open
}

func pairKey(a, b config.Category) string {
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("xref:%s/%s", a, b)
}

// --- Utility Types and Functions ---

// StringDeque remembers the last maxSize strings pushed.
type StringDeque struct {
	elements []string
	maxSize  int
}

func NewStringDeque(maxSize int) *StringDeque {
	return &StringDeque{maxSize: maxSize}
}
func (d *StringDeque) Push(s string) {
	if d.maxSize <= 0 {
		return
	}
	d.elements = append(d.elements, s)
	if len(d.elements) > d.maxSize {
		d.elements = d.elements[1:]
	}
}
func (d *StringDeque) Contains(s string) bool {
	for _, e := range d.elements {
		if e == s {
			return true
		}
	}
	return false
}
func (d *StringDeque) Clear() {
	d.elements = nil
}
