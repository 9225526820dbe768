package player

import (
	"encrypted-signatures/internal/events"
	"encrypted-signatures/internal/game"
)

// Player is the interface that every seat occupant (human or AI) must implement.
// It also implements events.Listener to react to game events.
type Player interface {
	events.Listener // Embed the Listener interface

	Name() string
	Side() game.Side
	IsHuman() bool
}
