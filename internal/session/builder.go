package session

import (
	"math/rand"

	"encrypted-signatures/internal/ai"
	"encrypted-signatures/internal/config"
	"encrypted-signatures/internal/events"
	"encrypted-signatures/internal/game"
	"encrypted-signatures/internal/player"
	"encrypted-signatures/internal/schedule"

	"github.com/sirupsen/logrus"
)

// Builder provides a step-by-step API for constructing a Session.
type Builder struct {
	cfg           *config.GameConfig
	eventManager  *events.Manager
	log           logrus.FieldLogger
	rand          *rand.Rand
	sched         schedule.Scheduler
	settings      config.Settings
	aiSeats       map[game.Side]bool
	names         [2]string
	deterministic bool
}

// NewBuilder creates a new Builder with its required dependencies.
func NewBuilder(cfg *config.GameConfig, logger logrus.FieldLogger, rand *rand.Rand) *Builder {
	return &Builder{
		cfg:          cfg,
		log:          logger,
		rand:         rand,
		eventManager: events.NewManager(),
		sched:        schedule.NewTimer(),
		settings:     config.Settings{Mode: config.ModeVsAI, Difficulty: config.DifficultyMedium},
		names:        [2]string{"Investigator", "Opponent"},
	}
}

// EventManager is a public getter for the unexported field.
func (b *Builder) EventManager() *events.Manager {
	return b.eventManager
}

func (b *Builder) WithSettings(s config.Settings) *Builder {
	b.settings = s
	return b
}

// WithScheduler replaces the wall-clock timer, e.g. with a schedule.Manual.
func (b *Builder) WithScheduler(s schedule.Scheduler) *Builder {
	b.sched = s
	return b
}

// WithAISeats seats reasoners on the given sides, overriding the mode's default.
func (b *Builder) WithAISeats(sides ...game.Side) *Builder {
	b.aiSeats = make(map[game.Side]bool)
	for _, s := range sides {
		b.aiSeats[s] = true
	}
	return b
}

func (b *Builder) WithPlayerNames(investigator, opponent string) *Builder {
	b.names = [2]string{investigator, opponent}
	return b
}

// WithDeterministicAI makes reasoners break ties by catalog order instead of at random.
func (b *Builder) WithDeterministicAI() *Builder {
	b.deterministic = true
	return b
}

// Build constructs the Session after all options have been configured. No
// game is started until NewGame is called.
func (b *Builder) Build() (*Session, error) {
	if _, ok := b.cfg.Difficulties[b.settings.Difficulty]; !ok {
		return nil, game.ErrInvalidSelection
	}

	// 1. Decide who sits where
	seats := b.aiSeats
	if seats == nil {
		seats = map[game.Side]bool{game.Opponent: b.settings.Mode == config.ModeVsAI}
	}

	// 2. Create the Session and its engine
	s := &Session{
		cfg:      b.cfg,
		events:   b.eventManager,
		log:      b.log,
		tasks:    schedule.NewGroup(b.sched),
		settings: b.settings,
	}
	engineRand := rand.New(rand.NewSource(b.rand.Int63()))
	s.engine = game.NewEngine(b.cfg, b.eventManager, b.log, engineRand)

	// 3. Create players, inject dependencies, and subscribe them to events
	for _, side := range game.Sides {
		var p player.Player
		if seats[side] {
			// Inject logger and a new random source for each AI
			aiRand := rand.New(rand.NewSource(b.rand.Int63()))
			var chooser ai.Chooser = ai.NewRandomChooser(aiRand)
			if b.deterministic {
				chooser = &ai.DeterministicChooser{}
			}
			r := ai.NewReasoner(side, b.cfg.DeepCopy(), s.engine, guarded{s}, b.log, aiRand, chooser)
			s.reasoners[side] = r
			p = r
		} else {
			p = player.NewHumanPlayer(b.names[side], side)
		}
		s.seats[side] = p
		b.eventManager.Subscribe(p)
	}

	b.log.WithFields(logrus.Fields{
		"mode":         b.settings.Mode,
		"investigator": s.seats[game.Investigator].Name(),
		"opponent":     s.seats[game.Opponent].Name(),
	}).Debug("Session built")
	return s, nil
}
