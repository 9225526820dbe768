package session

import (
	"sync"
	"time"

	"encrypted-signatures/internal/ai"
	"encrypted-signatures/internal/config"
	"encrypted-signatures/internal/events"
	"encrypted-signatures/internal/game"
	"encrypted-signatures/internal/player"
	"encrypted-signatures/internal/schedule"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Session owns one engine and the seats around it. Every command and every
// deferred reasoner callback runs under the same lock, so the engine only
// ever sees one caller at a time.
//
// Listeners subscribed to the session's event manager are called with the
// lock held and must not call back into the session.
type Session struct {
	mu sync.Mutex

	cfg       *config.GameConfig
	engine    *game.Engine
	events    *events.Manager
	log       logrus.FieldLogger
	tasks     *schedule.Group
	settings  config.Settings
	seats     [2]player.Player
	reasoners [2]*ai.Reasoner
}

// NewGame discards any game in progress, cancels its outstanding deferred
// work and starts a new one with the session's current settings.
func (s *Session) NewGame() (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := s.tasks.CancelAll(); n > 0 {
		s.log.Debugf("Cancelled %d deferred task(s) of the previous game", n)
	}
	return s.engine.InitializeGame(s.settings)
}

// Reconfigure changes difficulty and specialization for the next NewGame.
// The seating, and therefore the mode, is fixed at build time.
func (s *Session) Reconfigure(d config.Difficulty, sp config.Specialization) error {
	if _, ok := s.cfg.Difficulties[d]; !ok {
		return game.ErrInvalidSelection
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Difficulty = d
	s.settings.Specialization = sp
	return nil
}

func (s *Session) Settings() config.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

func (s *Session) EventManager() *events.Manager { return s.events }

// Seat returns whoever occupies side.
func (s *Session) Seat(side game.Side) player.Player { return s.seats[side] }

// Belief returns a copy of the belief of the reasoner on side, if there is one.
func (s *Session) Belief(side game.Side) (*ai.Belief, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.reasoners[side]
	if r == nil {
		return nil, false
	}
	return r.Belief(), true
}

func (s *Session) GameID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.GameID()
}

func (s *Session) PerformAction(side game.Side, a game.Action) (game.ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.PerformAction(side, a)
}

func (s *Session) EndTurn(side game.Side) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.EndTurn(side)
}

// EndTurnAndBluff ends side's turn and, in the same critical section, arms a
// bluff for side against the turn that just started. A nil target intercepts
// any verify. When the bluff cannot be armed the turn is still over.
func (s *Session) EndTurnAndBluff(side game.Side, target *config.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engine.EndTurn(side); err != nil {
		return err
	}
	if target == nil {
		return s.engine.UseBluffToken(side)
	}
	return s.engine.UseTargetedBluff(side, *target)
}

func (s *Session) MakeAccusation(side game.Side, acc game.Accusation) (game.Verdict, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.MakeAccusation(side, acc)
}

func (s *Session) UseBluffToken(side game.Side) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.UseBluffToken(side)
}

func (s *Session) UseTargetedBluff(side game.Side, cat config.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.UseTargetedBluff(side, cat)
}

func (s *Session) MarkCell(side game.Side, cat config.Category, attr config.Attribute, status game.CellStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.MarkCell(side, cat, attr, status)
}

func (s *Session) Snapshot(viewer game.Side) (game.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Snapshot(viewer)
}

// Pending returns the number of deferred tasks still waiting to run.
func (s *Session) Pending() int { return s.tasks.Pending() }

// Close cancels all outstanding deferred work.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks.CancelAll()
}

// checkGame fails with ErrStaleGame once id is no longer the game in play.
// Callers hold the lock.
func (s *Session) checkGame(id uuid.UUID) error {
	if s.engine.GameID() != id {
		return game.ErrStaleGame
	}
	return nil
}

// guarded is the scheduler handed to reasoners. It is only called with the
// session lock held; the callbacks it schedules take the lock themselves and
// are dropped if the game they were scheduled for has since been replaced.
type guarded struct{ s *Session }

func (g guarded) After(d time.Duration, fn func()) schedule.Task {
	id := g.s.engine.GameID()
	return g.s.tasks.After(d, func() {
		g.s.mu.Lock()
		defer g.s.mu.Unlock()
		if err := g.s.checkGame(id); err != nil {
			g.s.log.WithField("game", id).WithError(err).Debug("Dropped deferred task")
			return
		}
		fn()
	})
}
