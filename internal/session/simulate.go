package session

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"encrypted-signatures/internal/config"
	"encrypted-signatures/internal/game"
	"encrypted-signatures/internal/schedule"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Summary describes one headless game.
type Summary struct {
	GameID      uuid.UUID
	Result      game.Result
	Accuser     *game.Side
	Accuracy    float64
	Turns       int
	BluffsSpent [2]int
	Elapsed     time.Duration
	Truncated   bool
}

// RunHeadless plays one game to completion on the manual clock the session
// was built with. The game is abandoned once it passes the configured turn cap.
func (s *Session) RunHeadless(clock *schedule.Manual) (Summary, error) {
	id, err := s.NewGame()
	if err != nil {
		return Summary{}, fmt.Errorf("start game: %w", err)
	}
	limit := s.cfg.Rules.SimulationTurnSafetyCap
	for {
		snap, err := s.Snapshot(game.Investigator)
		if err != nil {
			return Summary{}, err
		}
		if snap.Over() {
			return summarize(snap, clock), nil
		}
		if snap.Turn > limit {
			s.Close()
			sum := summarize(snap, clock)
			sum.Truncated = true
			// A live game hides the opponent's spending from the investigator.
			if opp, err := s.Snapshot(game.Opponent); err == nil {
				sum.BluffsSpent[game.Opponent] = opp.BluffsSpent[game.Opponent]
			}
			return sum, nil
		}
		if !clock.Step() {
			return Summary{}, fmt.Errorf("game %s stalled on turn %d with %s to move", id, snap.Turn, snap.Current)
		}
	}
}

func summarize(snap game.Snapshot, clock *schedule.Manual) Summary {
	return Summary{
		GameID:      snap.GameID,
		Result:      snap.Result,
		Accuser:     snap.Accuser,
		Accuracy:    snap.Accuracy,
		Turns:       snap.Turn,
		BluffsSpent: snap.BluffsSpent,
		Elapsed:     clock.Now(),
	}
}

// Simulate plays n games between two reasoners. Each game gets a fresh
// session and clock; randomness is drawn from r.
func Simulate(ctx context.Context, cfg *config.GameConfig, logger logrus.FieldLogger, r *rand.Rand, settings config.Settings, n int) ([]Summary, error) {
	out := make([]Summary, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		clock := schedule.NewManual()
		s, err := NewBuilder(cfg, logger, r).
			WithSettings(settings).
			WithScheduler(clock).
			WithAISeats(game.Investigator, game.Opponent).
			Build()
		if err != nil {
			return out, fmt.Errorf("build simulation %d: %w", i+1, err)
		}
		sum, err := s.RunHeadless(clock)
		if err != nil {
			return out, fmt.Errorf("simulation %d: %w", i+1, err)
		}
		logger.WithFields(logrus.Fields{"game": sum.GameID, "result": sum.Result, "turns": sum.Turns}).Debug("Simulation finished")
		out = append(out, sum)
	}
	return out, nil
}

// Stats aggregates simulation summaries.
type Stats struct {
	Games        int
	ByResult     map[game.Result]int
	ByAccuser    map[game.Side]int
	Truncated    int
	MeanTurns    float64
	MeanBluffs   [2]float64
	MeanAccuracy float64
}

func Tally(sums []Summary) Stats {
	st := Stats{
		Games:     len(sums),
		ByResult:  make(map[game.Result]int),
		ByAccuser: make(map[game.Side]int),
	}
	if len(sums) == 0 {
		return st
	}
	var turns, accuracy float64
	var bluffs [2]float64
	accusations := 0
	for _, s := range sums {
		if s.Truncated {
			st.Truncated++
			continue
		}
		st.ByResult[s.Result]++
		if s.Accuser != nil {
			st.ByAccuser[*s.Accuser]++
			accuracy += s.Accuracy
			accusations++
		}
		turns += float64(s.Turns)
		for _, side := range game.Sides {
			bluffs[side] += float64(s.BluffsSpent[side])
		}
	}
	finished := float64(st.Games - st.Truncated)
	if finished > 0 {
		st.MeanTurns = turns / finished
		for _, side := range game.Sides {
			st.MeanBluffs[side] = bluffs[side] / finished
		}
	}
	if accusations > 0 {
		st.MeanAccuracy = accuracy / float64(accusations)
	}
	return st
}
