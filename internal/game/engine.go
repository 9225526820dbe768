package game

import (
	"fmt"
	"math"
	"math/rand"

	"encrypted-signatures/internal/config"
	"encrypted-signatures/internal/events"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Engine owns the state of one game at a time and resolves every command
// issued against it. It is not safe for concurrent use; callers serialise access.
type Engine struct {
	Config       *config.GameConfig
	EventManager *events.Manager
	log          logrus.FieldLogger
	rand         *rand.Rand

	st *state
}

// state is everything created by InitializeGame. It is replaced wholesale by
// the next InitializeGame, never reset field by field.
type state struct {
	id                uuid.UUID
	settings          config.Settings
	rules             config.DifficultyRules
	profile           Profile
	grids             [2]*Grid
	briefings         [2]Briefing
	phase             Phase
	current           Side
	turn              int
	maxTurns          int
	criticalIntelTurn int
	points            [2]int
	tokens            [2]int
	bluffs            [2]pendingBluff
	bluffsSpent       [2]int
	result            Result
	accuracy          float64
	accuser           *Side
	log               []LogEntry
}

// pendingBluff is an armed interception owned by one side. A nil target
// intercepts any verify; otherwise only verifies in that category.
type pendingBluff struct {
	armed  bool
	target *config.Category
}

func (b pendingBluff) intercepts(cat config.Category) bool {
	return b.armed && (b.target == nil || *b.target == cat)
}

// NewEngine creates an engine with no game in progress.
func NewEngine(cfg *config.GameConfig, manager *events.Manager, logger logrus.FieldLogger, r *rand.Rand) *Engine {
	if manager == nil {
		manager = events.NewManager()
	}
	return &Engine{
		Config:       cfg,
		EventManager: manager,
		log:          logger,
		rand:         r,
	}
}

// InitializeGame generates a new profile, distributes starting knowledge and
// starts the investigator's first turn. Any previous game is discarded.
func (e *Engine) InitializeGame(settings config.Settings) (uuid.UUID, error) {
	rules, ok := e.Config.Difficulties[settings.Difficulty]
	if !ok {
		return uuid.Nil, failf(CodeInvalidSelection, "unknown difficulty %d", settings.Difficulty)
	}
	if settings.Specialization < config.SpecializationNone || settings.Specialization > config.SpecializationNetworkAnalyst {
		return uuid.Nil, failf(CodeInvalidSelection, "unknown specialization %d", settings.Specialization)
	}

	profile := GenerateProfile(e.Config, e.rand, settings.Difficulty)
	briefings := DistributeKnowledge(e.Config, e.rand, profile, settings.Difficulty)

	st := &state{
		id:                uuid.New(),
		settings:          settings,
		rules:             rules,
		profile:           profile,
		briefings:         briefings,
		phase:             PhaseInvestigatorTurn,
		current:           Investigator,
		turn:              1,
		maxTurns:          rules.MaxTurns,
		criticalIntelTurn: int(math.Floor(float64(rules.MaxTurns) / e.Config.Rules.CriticalIntelDivisor)),
	}
	for _, side := range Sides {
		st.grids[side] = NewGrid(e.Config)
		briefings[side].seed(st.grids[side])
		st.points[side] = e.Config.Rules.ActionAllowance
		st.tokens[side] = e.Config.Rules.BluffTokens
	}
	e.st = st

	e.log.WithFields(logrus.Fields{
		"game":           st.id,
		"difficulty":     settings.Difficulty,
		"specialization": settings.Specialization,
		"mode":           settings.Mode,
	}).Info("Game initialized")
	e.log.Debugf("Ground truth: %s", profile)

	e.appendLog(LogEntry{Turn: 0, Kind: "setup", Message: "Game initialized. Your mission: identify the double agent."})
	e.EventManager.Publish(GameReadyEvent{GameID: st.id, Settings: settings, Briefings: briefings})
	e.EventManager.Publish(TurnStartEvent{GameID: st.id, TurnNumber: st.turn, Side: Investigator, TimeRemaining: e.timeRemaining()})
	return st.id, nil
}

// GameID returns the identifier of the current game, or uuid.Nil.
func (e *Engine) GameID() uuid.UUID {
	if e.st == nil {
		return uuid.Nil
	}
	return e.st.id
}

// EndTurn hands control to the other side. The flip back to the investigator
// closes a round: the turn counter advances and time pressure is applied.
func (e *Engine) EndTurn(side Side) error {
	if err := e.checkTurn(side); err != nil {
		return err
	}
	st := e.st

	// Armed bluffs never survive a turn boundary.
	st.bluffs = [2]pendingBluff{}

	next := side.Other()
	e.appendLog(LogEntry{Turn: st.turn, Kind: "endTurn", Message: fmt.Sprintf("Turn ended. %s's turn begins.", next)})

	if next == Investigator {
		st.turn++
		remaining := e.timeRemaining()
		if remaining <= 0 {
			e.log.WithField("game", st.id).Debug("Turn budget exhausted")
			e.appendLog(LogEntry{
				Turn:    st.turn,
				Kind:    "escape",
				Message: fmt.Sprintf("Time is up. The double agent has escaped. The profile was %s.", st.profile),
				Urgent:  true,
			})
			e.finish(ResultEscape, nil, 0)
			return nil
		}
		if st.turn == st.criticalIntelTurn {
			e.discloseCriticalIntel()
		}
		if remaining <= e.Config.Rules.UrgencyWindow {
			e.appendLog(LogEntry{
				Turn:    st.turn,
				Kind:    "urgency",
				Message: fmt.Sprintf("Only %d turn(s) remain before the agent goes dark.", remaining),
				Urgent:  true,
			})
		}
	}

	st.current = next
	st.phase = phaseFor(next)
	st.points[next] = e.Config.Rules.ActionAllowance
	e.log.WithFields(logrus.Fields{"game": st.id, "turn": st.turn, "side": next}).Debug("Turn started")
	e.EventManager.Publish(TurnStartEvent{GameID: st.id, TurnNumber: st.turn, Side: next, TimeRemaining: e.timeRemaining()})
	return nil
}

// discloseCriticalIntel narrows one random category to its true attribute and
// one decoy.
func (e *Engine) discloseCriticalIntel() {
	st := e.st
	cat := config.Categories[e.rand.Intn(len(config.Categories))]
	truth := st.profile.Attribute(cat)

	var decoys []config.Attribute
	for _, a := range e.Config.Attributes(cat) {
		if a != truth {
			decoys = append(decoys, a)
		}
	}
	candidates := []config.Attribute{truth, decoys[e.rand.Intn(len(decoys))]}
	e.rand.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

	e.appendLog(LogEntry{
		Turn:         st.turn,
		Kind:         "criticalIntel",
		Message:      fmt.Sprintf("CRITICAL INTEL: the agent's %s is either %s or %s.", cat, candidates[0], candidates[1]),
		CriticalInfo: true,
	})
	e.EventManager.Publish(CriticalIntelEvent{GameID: st.id, TurnNumber: st.turn, Category: cat, Candidates: candidates})
}

// MakeAccusation ends the game with a full-profile guess. Either side may
// accuse at any time; the result is always reported from the investigator's
// perspective.
func (e *Engine) MakeAccusation(side Side, acc Accusation) (Verdict, error) {
	if err := e.checkLive(); err != nil {
		return Verdict{}, err
	}
	if side != Investigator && side != Opponent {
		return Verdict{}, failf(CodeInvalidSelection, "unknown side %d", side)
	}
	for _, cat := range config.Categories {
		attr, ok := acc[cat]
		if !ok {
			return Verdict{}, failf(CodeIncompleteAccusation, "accusation is missing %s", cat)
		}
		if !e.Config.Owns(cat, attr) {
			return Verdict{}, failf(CodeInvalidSelection, "%q is not a %s attribute", attr, cat)
		}
	}
	if len(acc) != len(config.Categories) {
		return Verdict{}, ErrIncompleteAccusation
	}

	st := e.st
	matches := 0
	for _, cat := range config.Categories {
		if acc[cat] == st.profile.Attribute(cat) {
			matches++
		}
	}
	accuracy := float64(matches) / float64(len(config.Categories))
	result := Grade(accuracy)
	if side == Opponent {
		result = result.Invert()
	}

	msg := fmt.Sprintf("%s accuses: %d of %d categories correct (%s).", side, matches, len(config.Categories), result)
	if accuracy < 1 {
		msg += fmt.Sprintf(" The true profile was %s.", st.profile)
	}
	actor := side
	e.appendLog(LogEntry{Turn: st.turn, Actor: &actor, Kind: "accusation", Message: msg})
	e.finish(result, &actor, accuracy)

	return Verdict{Result: result, Accuracy: accuracy, Message: msg}, nil
}

// Grade maps accuracy onto an outcome from the accuser's perspective.
func Grade(accuracy float64) Result {
	switch {
	case accuracy >= 1:
		return ResultWin
	case accuracy >= 0.75:
		return ResultPartial
	case accuracy >= 0.5:
		return ResultClose
	default:
		return ResultLoss
	}
}

// MarkCell annotates a side's own grid. It is free and allowed on either
// side's turn until the game ends.
func (e *Engine) MarkCell(side Side, cat config.Category, attr config.Attribute, status CellStatus) error {
	if err := e.checkLive(); err != nil {
		return err
	}
	if side != Investigator && side != Opponent {
		return failf(CodeInvalidSelection, "unknown side %d", side)
	}
	if !cat.Valid() || !e.Config.Owns(cat, attr) {
		return failf(CodeInvalidSelection, "%q is not a %s attribute", attr, cat)
	}
	if status < StatusUnknown || status > StatusEliminated {
		return failf(CodeInvalidSelection, "unknown status %d", status)
	}
	st := e.st
	st.grids[side].Set(cat, attr, status)
	actor := side
	e.appendLog(LogEntry{
		Turn:    st.turn,
		Actor:   &actor,
		Kind:    "updateGrid",
		Message: fmt.Sprintf("%s updated their grid.", side),
		Detail:  fmt.Sprintf("Marked %s as %s in category %s.", attr, status, cat),
	})
	return nil
}

func (e *Engine) finish(result Result, accuser *Side, accuracy float64) {
	st := e.st
	st.phase = PhaseGameOver
	st.result = result
	st.accuser = accuser
	st.accuracy = accuracy
	st.bluffs = [2]pendingBluff{}
	e.log.WithFields(logrus.Fields{"game": st.id, "result": result, "turn": st.turn}).Info("Game over")
	e.EventManager.Publish(GameOverEvent{GameID: st.id, Result: result, Accuser: accuser, Accuracy: accuracy, Profile: st.profile})
}

func (e *Engine) appendLog(entry LogEntry) {
	e.st.log = append(e.st.log, entry)
	e.EventManager.Publish(LogEvent{GameID: e.st.id, Entry: entry})
}

func (e *Engine) timeRemaining() int {
	return e.st.maxTurns - e.st.turn + 1
}

func (e *Engine) checkLive() error {
	if e.st == nil {
		return ErrNotInitialized
	}
	if e.st.phase == PhaseGameOver {
		return ErrGameOver
	}
	return nil
}

func (e *Engine) checkTurn(side Side) error {
	if err := e.checkLive(); err != nil {
		return err
	}
	if side != Investigator && side != Opponent {
		return failf(CodeInvalidSelection, "unknown side %d", side)
	}
	if e.st.current != side {
		return failf(CodeWrongTurn, "it is the %s's turn", e.st.current)
	}
	return nil
}

func phaseFor(s Side) Phase {
	if s == Investigator {
		return PhaseInvestigatorTurn
	}
	return PhaseOpponentTurn
}
