package ai

import (
	"math/rand"

	"encrypted-signatures/internal/config"
	"encrypted-signatures/internal/events"
	"encrypted-signatures/internal/game"
	"encrypted-signatures/internal/schedule"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Table is the narrow command/query surface a reasoner drives. The reasoner
// never touches engine state except through it.
type Table interface {
	PerformAction(side game.Side, a game.Action) (game.ActionResult, error)
	EndTurn(side game.Side) error
	MakeAccusation(side game.Side, acc game.Accusation) (game.Verdict, error)
	UseBluffToken(side game.Side) error
	UseTargetedBluff(side game.Side, cat config.Category) error
	Snapshot(viewer game.Side) (game.Snapshot, error)
}

// Reasoner plays one seat. It keeps a numeric belief over the hidden profile,
// decides its next move through a chain of strategies and paces its calls
// into the table with the scheduler.
type Reasoner struct {
	side       game.Side
	cfg        *config.GameConfig
	table      Table
	sched      schedule.Scheduler
	log        logrus.FieldLogger
	rand       *rand.Rand
	chooser    Chooser
	strategies []ActionStrategy

	gameID     uuid.UUID
	difficulty config.Difficulty
	rules      config.DifficultyRules
	belief     *Belief
	recent     *StringDeque
}

// NewReasoner is the constructor for an AI seat. It injects dependencies.
func NewReasoner(side game.Side, cfg *config.GameConfig, table Table, sched schedule.Scheduler, logger logrus.FieldLogger, r *rand.Rand, chooser Chooser) *Reasoner {
	ai := &Reasoner{
		side:    side,
		cfg:     cfg,
		table:   table,
		sched:   sched,
		log:     logger.WithField("side", side),
		rand:    r,
		chooser: chooser,
		belief:  NewBelief(cfg, cfg.Rules.InitialBeliefPerAttr),
		recent:  NewStringDeque(cfg.Rules.NoveltyMemory),
	}

	ai.strategies = []ActionStrategy{
		&AccuseStrategy{},
		&CrossReferenceStrategy{},
		&ScanStrategy{},
		&VerifyStrategy{},
	}
	return ai
}

// --- Public Getters for CLI ---
func (ai *Reasoner) Name() string    { return "AI " + ai.side.String() }
func (ai *Reasoner) Side() game.Side { return ai.side }
func (ai *Reasoner) IsHuman() bool   { return false }
func (ai *Reasoner) Belief() *Belief { return ai.belief.Clone() }

// Setup resets the reasoner for a new game and conditions its belief on the
// seat's certain facts.
func (ai *Reasoner) Setup(gameID uuid.UUID, d config.Difficulty, briefing game.Briefing) {
	ai.gameID = gameID
	ai.difficulty = d
	ai.rules = ai.cfg.ForDifficulty(d)
	ai.belief = NewBelief(ai.cfg, ai.cfg.Rules.InitialBeliefPerAttr)
	ai.recent.Clear()
	for _, f := range briefing.Facts {
		ai.belief.Collapse(f.Category, f.Attribute)
	}
	if h := briefing.Hint; h != nil {
		ai.belief.Restrict(h.Category, h.Candidates)
	}
	ai.log.Debugf("Belief model initialized from %d certain fact(s).", len(briefing.Facts))
}

func (ai *Reasoner) HandleEvent(e events.Event) {
	switch event := e.(type) {
	case game.GameReadyEvent:
		ai.Setup(event.GameID, event.Settings.Difficulty, event.Briefings[ai.side])
	case game.TurnStartEvent:
		if event.GameID != ai.gameID {
			return
		}
		if event.Side == ai.side {
			ai.sched.After(ai.rules.ThinkingDelay, ai.step)
		} else {
			ai.considerBluff(event)
		}
	case game.CriticalIntelEvent:
		if event.GameID == ai.gameID {
			ai.belief.Restrict(event.Category, event.Candidates)
			ai.log.Infof("Folded critical intel: %s is one of %v.", event.Category, event.Candidates)
		}
	case game.GameOverEvent:
		if event.GameID == ai.gameID {
			ai.log.Debugf("Game over: %s.", event.Result)
		}
	}
}

// considerBluff may spend a token to intercept the other side's next verify.
func (ai *Reasoner) considerBluff(event game.TurnStartEvent) {
	if event.TurnNumber <= ai.cfg.Rules.BluffMinTurn {
		return
	}
	snap, err := ai.table.Snapshot(ai.side)
	if err != nil || snap.BluffTokens[ai.side] == 0 {
		return
	}
	if ai.rand.Float64() >= ai.rules.AIBluffChance {
		return
	}
	ai.sched.After(0, func() {
		if err := ai.table.UseBluffToken(ai.side); err != nil {
			ai.log.WithError(err).Debug("Bluff not armed")
			return
		}
		ai.log.Infof("Armed a bluff for turn %d.", event.TurnNumber)
	})
}

// step is one think-then-act cycle. It repeats until the reasoner passes,
// accuses or the turn is otherwise over.
func (ai *Reasoner) step() {
	snap, err := ai.table.Snapshot(ai.side)
	if err != nil || snap.Over() || snap.Current != ai.side || snap.GameID != ai.gameID {
		return
	}
	ai.recover(snap.Grid())
	d := ai.decide(snap.ActionPoints[ai.side], snap.Grid())
	ai.log.Debugf("Decided: %s", d)

	switch {
	case d.Accusation != nil:
		ai.sched.After(ai.rules.ActingDelay, func() {
			if _, err := ai.table.MakeAccusation(ai.side, d.Accusation); err != nil {
				ai.log.WithError(err).Warn("Accusation rejected")
				ai.endTurn()
			}
		})
	case d.Action != nil:
		ai.sched.After(ai.rules.ActingDelay, func() {
			res, err := ai.table.PerformAction(ai.side, *d.Action)
			if err != nil {
				ai.log.WithError(err).Warn("Action rejected")
				ai.endTurn()
				return
			}
			ai.remember(d)
			ai.Update(res)
			ai.sched.After(ai.rules.ThinkingDelay, ai.step)
		})
	default:
		ai.endTurn()
	}
}

func (ai *Reasoner) endTurn() {
	if err := ai.table.EndTurn(ai.side); err != nil {
		ai.log.WithError(err).Debug("End turn rejected")
	}
}

// Decide picks the next move for the given action points. It neither
// re-seeds zeroed categories nor remembers the choice; a scheduled step does
// both around the engine call.
func (ai *Reasoner) Decide(points int) Decision {
	return ai.decide(points, nil)
}

// remember records a performed decision so the novelty memory, when
// configured, skips it for a while.
func (ai *Reasoner) remember(d Decision) {
	if d.novelty != "" {
		ai.recent.Push(d.novelty)
	}
}

func (ai *Reasoner) decide(points int, grid *game.Grid) Decision {
	p := plan{points: points, uncertain: ai.uncertainCandidates(), grid: grid}
	for _, s := range ai.strategies {
		if d, ok := s.BuildAction(ai, p); ok {
			return d
		}
	}
	return Decision{}
}

// recover re-seeds every category zeroed by contradictory evidence over the
// attributes the seat's own grid has not eliminated.
func (ai *Reasoner) recover(grid *game.Grid) {
	for _, cat := range config.Categories {
		if ai.belief.Degenerate(cat) {
			open := ai.openAttributes(cat, grid)
			ai.log.Debugf("Category %s lost all belief; re-seeding over %v.", cat, open)
			ai.belief.Reseed(cat, open)
		}
	}
}

// Update folds one of the seat's own action reports into the belief.
func (ai *Reasoner) Update(res game.ActionResult) {
	switch {
	case res.Verify != nil:
		v := res.Verify
		if v.Correct {
			ai.belief.Collapse(v.Category, v.Attribute)
		} else {
			ai.belief.Eliminate(v.Category, v.Attribute)
		}
	case res.Scan != nil:
		s := res.Scan
		if _, done := ai.belief.Collapsed(s.Category); done {
			return
		}
		if s.Matches == 0 {
			ai.belief.Zero(s.Category)
			return
		}
		ai.belief.Flatten(s.Category)
	case res.CrossReference != nil:
		ai.updateFromCrossReference(res.CrossReference)
	case res.Deep != nil:
		if res.Deep.Revealed {
			ai.belief.Collapse(res.Deep.Category, res.Deep.Attribute)
		}
	}
}

// updateFromCrossReference applies the correlation table's likelihood of the
// reported strength (when the difficulty allows it), then the noise step.
func (ai *Reasoner) updateFromCrossReference(x *game.CrossReferenceReport) {
	strong := x.Strength == game.StrengthStrong
	if ai.rules.AIUsesCorrelations {
		prior := ai.belief.Clone()
		ai.belief.Weigh(x.First, ai.linkLikelihood(prior, x.First, x.Second, strong))
		ai.belief.Weigh(x.Second, ai.linkLikelihood(prior, x.Second, x.First, strong))
	}
	for _, cat := range []config.Category{x.First, x.Second} {
		if _, done := ai.belief.Collapsed(cat); done {
			continue
		}
		ai.belief.Perturb(cat, ai.rand, ai.cfg.Rules.CrossReferenceNoise)
	}
}

// linkLikelihood is, for each attribute of cat, the prior mass of other's
// attributes whose link with it matches the observed strength.
func (ai *Reasoner) linkLikelihood(prior *Belief, cat, other config.Category, strong bool) map[config.Attribute]float64 {
	out := make(map[config.Attribute]float64)
	for _, a := range ai.cfg.Attributes(cat) {
		for _, b := range ai.cfg.Attributes(other) {
			if ai.cfg.Linked(ai.difficulty, a, b) == strong {
				out[a] += prior.Prob(other, b)
			}
		}
	}
	return out
}
