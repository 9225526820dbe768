package game

import (
	"fmt"

	"encrypted-signatures/internal/config"

	"github.com/sirupsen/logrus"
)

// ActionCost returns the action-point price of kind.
func ActionCost(cfg *config.GameConfig, kind ActionKind) int {
	costs := cfg.Rules.ActionCosts
	switch kind {
	case ActionVerify:
		return costs.Verify
	case ActionScan:
		return costs.Scan
	case ActionCrossReference:
		return costs.CrossReference
	default:
		return costs.DeepInvestigation
	}
}

// PerformAction spends action points on one intelligence operation for the
// side holding the turn. On error nothing has changed.
func (e *Engine) PerformAction(side Side, a Action) (ActionResult, error) {
	if err := e.checkTurn(side); err != nil {
		return ActionResult{}, err
	}
	if err := e.validateAction(a); err != nil {
		return ActionResult{}, err
	}
	st := e.st
	cost := ActionCost(e.Config, a.Kind)
	if st.points[side] < cost {
		return ActionResult{}, failf(CodeInsufficientPoints, "%s costs %d action points, %d remaining", a.Kind, cost, st.points[side])
	}

	st.points[side] -= cost
	res := ActionResult{Side: side, Action: a, Cost: cost}
	entry := LogEntry{Turn: st.turn, Kind: a.Kind.String()}

	switch a.Kind {
	case ActionVerify:
		res.Verify, entry.Bluffed = e.resolveVerify(side, a.Category, a.Attribute)
		res.Message = verifyMessage(res.Verify)
		entry.Deceived = side
	case ActionScan:
		res.Scan = e.resolveScan(side, a.Category)
		res.Message = fmt.Sprintf("Scan results: %d/1 correct attributes identified in %s.", res.Scan.Matches, a.Category)
		if res.Scan.Clue != "" {
			res.Message += " " + res.Scan.Clue
		}
	case ActionCrossReference:
		res.CrossReference = e.resolveCrossReference(a.Category, a.Second)
		res.Message = res.CrossReference.Description
	case ActionDeepInvestigation:
		res.Deep = e.resolveDeep(side, a.Category)
		res.Message = res.Deep.Description
	}

	actor := side
	entry.Actor = &actor
	entry.Message = publicMessage(side, a)
	entry.Detail = res.Message
	e.log.WithFields(logrus.Fields{
		"game":    st.id,
		"side":    side,
		"action":  a,
		"bluffed": entry.Bluffed,
		"points":  st.points[side],
	}).Debug("Action resolved")
	e.appendLog(entry)
	e.EventManager.Publish(ActionResolvedEvent{GameID: st.id, Result: res})
	return res, nil
}

// publicMessage names what side did without saying what it learned.
func publicMessage(side Side, a Action) string {
	switch a.Kind {
	case ActionVerify:
		return fmt.Sprintf("%s verified %s in %s.", side, a.Attribute, a.Category)
	case ActionScan:
		return fmt.Sprintf("%s scanned %s.", side, a.Category)
	case ActionCrossReference:
		return fmt.Sprintf("%s cross-referenced %s with %s.", side, a.Category, a.Second)
	default:
		return fmt.Sprintf("%s ran a deep investigation into %s.", side, a.Category)
	}
}

func (e *Engine) validateAction(a Action) error {
	if !a.Category.Valid() {
		return failf(CodeInvalidSelection, "unknown category %d", a.Category)
	}
	switch a.Kind {
	case ActionVerify:
		if !e.Config.Owns(a.Category, a.Attribute) {
			return failf(CodeInvalidSelection, "%q is not a %s attribute", a.Attribute, a.Category)
		}
	case ActionCrossReference:
		if !a.Second.Valid() || a.Second == a.Category {
			return failf(CodeInvalidSelection, "cross-reference needs two different categories")
		}
	case ActionScan, ActionDeepInvestigation:
	default:
		return failf(CodeInvalidSelection, "unknown action %d", a.Kind)
	}
	return nil
}

// specialist reports whether side benefits from the game's specialization in cat.
// Only the investigator carries a specialization.
func (e *Engine) specialist(side Side, cat config.Category) bool {
	return side == Investigator && e.Config.Covers(e.st.settings.Specialization, cat)
}

// resolveVerify grades one attribute. An armed bluff of the other side that
// covers cat inverts the reported correctness and is consumed.
func (e *Engine) resolveVerify(side Side, cat config.Category, attr config.Attribute) (*VerifyReport, bool) {
	st := e.st
	rules := e.Config.Rules

	correct := st.profile.Attribute(cat) == attr
	bluffer := side.Other()
	bluffed := st.bluffs[bluffer].intercepts(cat)
	if bluffed {
		correct = !correct
		st.bluffs[bluffer] = pendingBluff{}
	}

	var confidence int
	if correct {
		confidence = rules.CorrectMin + e.rand.Intn(rules.CorrectMax-rules.CorrectMin+1)
		if e.specialist(side, cat) {
			confidence += rules.SpecialistBonus
		}
		if confidence > rules.MaxConfidence {
			confidence = rules.MaxConfidence
		}
	} else {
		confidence = e.rand.Intn(rules.IncorrectMax)
	}

	status := e.statusFor(confidence)
	st.grids[side].Set(cat, attr, status)
	return &VerifyReport{Category: cat, Attribute: attr, Correct: correct, Confidence: confidence, Status: status}, bluffed
}

func (e *Engine) statusFor(confidence int) CellStatus {
	rules := e.Config.Rules
	switch {
	case confidence >= rules.ConfirmedAt:
		return StatusConfirmed
	case confidence >= rules.LikelyAt:
		return StatusLikely
	case confidence > rules.UncertainAbove:
		return StatusUncertain
	default:
		return StatusEliminated
	}
}

func verifyMessage(r *VerifyReport) string {
	if r.Correct {
		return fmt.Sprintf("Verified: %s is part of the agent's profile (%d%% confidence).", r.Attribute, r.Confidence)
	}
	return fmt.Sprintf("Verified: %s is not part of the agent's profile (%d%% confidence).", r.Attribute, r.Confidence)
}

func (e *Engine) resolveScan(side Side, cat config.Category) *ScanReport {
	st := e.st
	truth := st.profile.Attribute(cat)
	grid := st.grids[side]

	matches := 0
	for _, attr := range e.Config.Attributes(cat) {
		s := grid.Status(cat, attr)
		if (s == StatusConfirmed || s == StatusLikely) && attr == truth {
			matches++
		}
	}

	report := &ScanReport{Category: cat, Matches: matches}
	if e.specialist(side, cat) {
		if assoc := e.Config.Associates(st.settings.Difficulty, truth); len(assoc) > 0 {
			report.Clue = fmt.Sprintf("Specialist insight: this %s is often seen alongside %s.", cat, assoc[e.rand.Intn(len(assoc))])
		}
	}
	return report
}

func (e *Engine) resolveCrossReference(first, second config.Category) *CrossReferenceReport {
	st := e.st
	a, b := st.profile.Attribute(first), st.profile.Attribute(second)

	report := &CrossReferenceReport{First: first, Second: second, Strength: StrengthWeak}
	if e.Config.Linked(st.settings.Difficulty, a, b) {
		report.Strength = StrengthStrong
		report.Description = fmt.Sprintf("Cross-reference complete: strong correlation between the agent's %s and %s.", first, second)
	} else {
		report.Description = fmt.Sprintf("Cross-reference complete: only a weak link between the agent's %s and %s.", first, second)
	}
	return report
}

// resolveDeep runs the deep-investigation trial. A failed trial still costs
// its action points.
func (e *Engine) resolveDeep(side Side, cat config.Category) *DeepReport {
	st := e.st
	rules := e.Config.Rules
	specialist := e.specialist(side, cat)

	chance := rules.DeepSuccessChance
	if specialist {
		chance += rules.DeepSpecialistBonus
		if chance > rules.DeepSuccessCap {
			chance = rules.DeepSuccessCap
		}
	}

	report := &DeepReport{Category: cat}
	if e.rand.Float64() >= chance {
		report.Description = fmt.Sprintf("Deep investigation into %s failed: the trail went cold.", cat)
		return report
	}
	report.Success = true

	truth := st.profile.Attribute(cat)
	if assoc := e.Config.Associates(st.settings.Difficulty, truth); len(assoc) > 0 {
		report.Description = fmt.Sprintf("Deep investigation: sources tie the agent's %s to %s.", cat, assoc[e.rand.Intn(len(assoc))])
	} else {
		report.Description = fmt.Sprintf("Deep investigation: sources describe the agent's %s but name no associates.", cat)
	}

	if specialist && e.rand.Float64() < rules.SpecialistRevealChance {
		report.Revealed = true
		report.Attribute = truth
		report.Description += fmt.Sprintf(" Breakthrough: the agent's %s is %s.", cat, truth)
		st.grids[side].Set(cat, truth, StatusConfirmed)
	}
	return report
}
