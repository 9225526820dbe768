package game

import (
	"encrypted-signatures/internal/config"

	"github.com/google/uuid"
)

// --- Event Types published by the Engine ---

// GameReadyEvent is published once a game is initialized, before the first turn starts.
type GameReadyEvent struct {
	GameID    uuid.UUID
	Settings  config.Settings
	Briefings [2]Briefing
}

// TurnStartEvent announces that a side now holds the turn with a fresh allowance.
type TurnStartEvent struct {
	GameID        uuid.UUID
	TurnNumber    int
	Side          Side
	TimeRemaining int
}

// ActionResolvedEvent carries the result payload of a successful action.
type ActionResolvedEvent struct {
	GameID uuid.UUID
	Result ActionResult
}

// BluffArmedEvent is published when a side spends a bluff token.
type BluffArmedEvent struct {
	GameID uuid.UUID
	Side   Side
}

// CriticalIntelEvent discloses one category narrowed to its true attribute and a decoy.
type CriticalIntelEvent struct {
	GameID     uuid.UUID
	TurnNumber int
	Category   config.Category
	Candidates []config.Attribute
}

// LogEvent mirrors every entry appended to the game log.
type LogEvent struct {
	GameID uuid.UUID
	Entry  LogEntry
}

// GameOverEvent is published on the transition into the terminal phase.
type GameOverEvent struct {
	GameID   uuid.UUID
	Result   Result
	Accuser  *Side
	Accuracy float64
	Profile  Profile
}
