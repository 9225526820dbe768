package player

import (
	"context"

	"encrypted-signatures/internal/events"
	"encrypted-signatures/internal/game"
)

// HumanPlayer represents a seat controlled by a person at the terminal. Its
// moves come from the CLI; the seat itself only tells the CLI when to wake up.
type HumanPlayer struct {
	name string
	side game.Side
	wake chan struct{}
}

func NewHumanPlayer(name string, side game.Side) *HumanPlayer {
	return &HumanPlayer{name: name, side: side, wake: make(chan struct{}, 1)}
}

func (h *HumanPlayer) Name() string    { return h.name }
func (h *HumanPlayer) Side() game.Side { return h.side }
func (h *HumanPlayer) IsHuman() bool   { return true }

func (h *HumanPlayer) HandleEvent(e events.Event) {
	switch event := e.(type) {
	case game.TurnStartEvent:
		if event.Side == h.side {
			h.signal()
		}
	case game.GameOverEvent:
		h.signal()
	}
}

// signal never blocks; one pending wake-up is enough.
func (h *HumanPlayer) signal() {
	select {
	case h.wake <- struct{}{}:
	default:
	}
}

// Wait blocks until this seat's turn starts or the game ends.
func (h *HumanPlayer) Wait(ctx context.Context) error {
	select {
	case <-h.wake:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
