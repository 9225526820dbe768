package game

import (
	"encrypted-signatures/internal/config"

	"github.com/google/uuid"
)

// Snapshot is a read-only copy of the game as one side may see it. Until the
// game is over the profile is withheld, and so are the other side's grid,
// private report details, secret entries and bluff counts.
type Snapshot struct {
	GameID            uuid.UUID
	Viewer            Side
	Settings          config.Settings
	Phase             Phase
	Current           Side
	Turn              int
	MaxTurns          int
	TimeRemaining     int
	CriticalIntelTurn int
	ActionPoints      [2]int
	BluffTokens       [2]int
	BluffsSpent       [2]int
	BluffArmed        bool
	Grids             [2]*Grid
	Briefing          Briefing
	Log               []LogEntry
	Result            Result
	Accuser           *Side
	Accuracy          float64
	Profile           *Profile
}

// Over reports whether the game has ended.
func (s Snapshot) Over() bool {
	return s.Phase == PhaseGameOver
}

// Knows reports whether the viewer may see side's grid and bluff counts.
func (s Snapshot) Knows(side Side) bool {
	return side == s.Viewer || s.Over()
}

// Grid returns the viewer's own grid.
func (s Snapshot) Grid() *Grid {
	return s.Grids[s.Viewer]
}

// Snapshot captures the current game for viewer.
func (e *Engine) Snapshot(viewer Side) (Snapshot, error) {
	if e.st == nil {
		return Snapshot{}, ErrNotInitialized
	}
	if viewer != Investigator && viewer != Opponent {
		return Snapshot{}, failf(CodeInvalidSelection, "unknown side %d", viewer)
	}
	st := e.st
	over := st.phase == PhaseGameOver

	snap := Snapshot{
		GameID:            st.id,
		Viewer:            viewer,
		Settings:          st.settings,
		Phase:             st.phase,
		Current:           st.current,
		Turn:              st.turn,
		MaxTurns:          st.maxTurns,
		TimeRemaining:     e.timeRemaining(),
		CriticalIntelTurn: st.criticalIntelTurn,
		ActionPoints:      st.points,
		BluffTokens:       st.tokens,
		BluffsSpent:       st.bluffsSpent,
		BluffArmed:        st.bluffs[viewer].armed,
		Briefing:          cloneBriefing(st.briefings[viewer]),
		Result:            st.result,
		Accuracy:          st.accuracy,
		Log:               make([]LogEntry, 0, len(st.log)),
	}
	for _, side := range Sides {
		if side != viewer && !over {
			snap.BluffTokens[side] = 0
			snap.BluffsSpent[side] = 0
			continue
		}
		snap.Grids[side] = st.grids[side].Clone()
	}
	if st.accuser != nil {
		accuser := *st.accuser
		snap.Accuser = &accuser
	}
	for _, entry := range st.log {
		if !over && entry.Actor != nil && *entry.Actor != viewer {
			public, ok := entry.Public()
			if !ok {
				continue
			}
			entry = public
		}
		if !over && entry.Bluffed && entry.Deceived == viewer {
			entry.Bluffed = false
		}
		snap.Log = append(snap.Log, entry)
	}
	if over {
		profile := st.profile
		snap.Profile = &profile
	}
	return snap, nil
}

func cloneBriefing(b Briefing) Briefing {
	cp := Briefing{Side: b.Side, Facts: append([]Fact(nil), b.Facts...)}
	if b.Hint != nil {
		cp.Hint = &Hint{Category: b.Hint.Category, Candidates: append([]config.Attribute(nil), b.Hint.Candidates...)}
	}
	return cp
}
