package session

import (
	"context"
	"io"
	"math/rand"
	"testing"

	"encrypted-signatures/internal/config"
	"encrypted-signatures/internal/game"
	"encrypted-signatures/internal/schedule"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testConfig(t *testing.T) *config.GameConfig {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	return cfg
}

// newTestSession builds a session on a manual clock for the given mode.
func newTestSession(t *testing.T, mode config.GameMode) (*Session, *schedule.Manual) {
	t.Helper()
	clock := schedule.NewManual()
	s, err := NewBuilder(testConfig(t), testLogger(), rand.New(rand.NewSource(42))).
		WithSettings(config.Settings{Mode: mode, Difficulty: config.DifficultyMedium}).
		WithScheduler(clock).
		Build()
	require.NoError(t, err)
	return s, clock
}

func TestBuilderSeats(t *testing.T) {
	t.Run("vsAI seats a reasoner opposite the human", func(t *testing.T) {
		s, _ := newTestSession(t, config.ModeVsAI)

		assert.True(t, s.Seat(game.Investigator).IsHuman())
		assert.False(t, s.Seat(game.Opponent).IsHuman())
		_, ok := s.Belief(game.Opponent)
		assert.True(t, ok)
		_, ok = s.Belief(game.Investigator)
		assert.False(t, ok)
	})

	t.Run("multiplayer seats two humans", func(t *testing.T) {
		s, _ := newTestSession(t, config.ModeMultiplayer)

		for _, side := range game.Sides {
			assert.True(t, s.Seat(side).IsHuman())
			assert.Equal(t, side, s.Seat(side).Side())
		}
	})

	t.Run("explicit AI seats override the mode", func(t *testing.T) {
		s, err := NewBuilder(testConfig(t), testLogger(), rand.New(rand.NewSource(1))).
			WithSettings(config.Settings{Mode: config.ModeMultiplayer}).
			WithAISeats(game.Investigator, game.Opponent).
			Build()
		require.NoError(t, err)

		for _, side := range game.Sides {
			assert.False(t, s.Seat(side).IsHuman())
		}
	})

	t.Run("unknown difficulty is rejected", func(t *testing.T) {
		_, err := NewBuilder(testConfig(t), testLogger(), rand.New(rand.NewSource(1))).
			WithSettings(config.Settings{Difficulty: config.Difficulty(99)}).
			Build()
		assert.ErrorIs(t, err, game.ErrInvalidSelection)
	})
}

func TestCommandsBeforeNewGame(t *testing.T) {
	s, _ := newTestSession(t, config.ModeMultiplayer)

	_, err := s.Snapshot(game.Investigator)
	assert.ErrorIs(t, err, game.ErrNotInitialized)
	assert.ErrorIs(t, s.EndTurn(game.Investigator), game.ErrNotInitialized)
}

func TestOpponentReasonerPlaysItsTurn(t *testing.T) {
	// GIVEN a vsAI game on a manual clock
	s, clock := newTestSession(t, config.ModeVsAI)
	_, err := s.NewGame()
	require.NoError(t, err)
	assert.Zero(t, s.Pending(), "nothing runs while the human investigator thinks")

	// WHEN the investigator ends the first turn and the clock runs dry
	require.NoError(t, s.EndTurn(game.Investigator))
	assert.Positive(t, s.Pending())
	clock.Drain(0)

	// THEN the opponent has acted and handed control back
	snap, err := s.Snapshot(game.Investigator)
	require.NoError(t, err)
	require.False(t, snap.Over())
	assert.Equal(t, game.Investigator, snap.Current)
	assert.Equal(t, 2, snap.Turn)

	acted := false
	for _, entry := range snap.Log {
		if entry.Actor != nil && *entry.Actor == game.Opponent {
			acted = true
		}
	}
	assert.True(t, acted, "the opponent's action should be in the log")
	assert.GreaterOrEqual(t, clock.Now(), testConfig(t).ForDifficulty(config.DifficultyMedium).ThinkingDelay)
}

func TestNewGameCancelsDeferredWork(t *testing.T) {
	// GIVEN the opponent reasoner has a step pending
	s, clock := newTestSession(t, config.ModeVsAI)
	first, err := s.NewGame()
	require.NoError(t, err)
	require.NoError(t, s.EndTurn(game.Investigator))
	require.Positive(t, s.Pending())

	// WHEN a new game replaces it
	second, err := s.NewGame()
	require.NoError(t, err)

	// THEN the pending work is gone and cannot touch the new game
	assert.NotEqual(t, first, second)
	assert.Zero(t, s.Pending())
	clock.Drain(0)

	snap, err := s.Snapshot(game.Investigator)
	require.NoError(t, err)
	assert.Equal(t, second, snap.GameID)
	assert.Equal(t, game.Investigator, snap.Current)
	assert.Equal(t, 1, snap.Turn)
	assert.Len(t, snap.Log, 1)
}

func TestGuardDropsCallbacksOfReplacedGame(t *testing.T) {
	s, clock := newTestSession(t, config.ModeMultiplayer)
	old, err := s.NewGame()
	require.NoError(t, err)

	ran := false
	s.mu.Lock()
	guarded{s}.After(0, func() { ran = true })
	// Replace the game behind the group's back so only the id guard remains.
	_, err = s.engine.InitializeGame(s.settings)
	s.mu.Unlock()
	require.NoError(t, err)

	clock.Drain(0)
	assert.False(t, ran)

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.ErrorIs(t, s.checkGame(old), game.ErrStaleGame)
	assert.NoError(t, s.checkGame(s.engine.GameID()))
}

func TestEndTurnAndBluff(t *testing.T) {
	t.Run("arms a bluff against the turn that starts", func(t *testing.T) {
		// GIVEN a hot-seat game
		s, _ := newTestSession(t, config.ModeMultiplayer)
		_, err := s.NewGame()
		require.NoError(t, err)

		// WHEN the investigator ends the turn with a bluff
		require.NoError(t, s.EndTurnAndBluff(game.Investigator, nil))

		// THEN a token is spent and the opponent's next verify is intercepted
		snap, err := s.Snapshot(game.Investigator)
		require.NoError(t, err)
		assert.True(t, snap.BluffArmed)
		assert.Equal(t, 1, snap.BluffTokens[game.Investigator])
		assert.Equal(t, game.Opponent, snap.Current)

		_, err = s.PerformAction(game.Opponent, game.Verify(config.CategoryAppearance, "Tall"))
		require.NoError(t, err)
		snap, err = s.Snapshot(game.Investigator)
		require.NoError(t, err)
		last := snap.Log[len(snap.Log)-1]
		assert.True(t, last.Bluffed)
		assert.False(t, snap.BluffArmed)
	})

	t.Run("targeted bluff", func(t *testing.T) {
		s, _ := newTestSession(t, config.ModeMultiplayer)
		_, err := s.NewGame()
		require.NoError(t, err)

		cat := config.CategoryHabits
		require.NoError(t, s.EndTurnAndBluff(game.Investigator, &cat))

		_, err = s.PerformAction(game.Opponent, game.Verify(config.CategoryAppearance, "Tall"))
		require.NoError(t, err)
		snap, err := s.Snapshot(game.Investigator)
		require.NoError(t, err)
		assert.False(t, snap.Log[len(snap.Log)-1].Bluffed, "a verify outside the target passes through")
		assert.True(t, snap.BluffArmed)
	})

	t.Run("wrong turn arms nothing", func(t *testing.T) {
		s, _ := newTestSession(t, config.ModeMultiplayer)
		_, err := s.NewGame()
		require.NoError(t, err)

		err = s.EndTurnAndBluff(game.Opponent, nil)
		assert.ErrorIs(t, err, game.ErrWrongTurn)

		snap, err := s.Snapshot(game.Opponent)
		require.NoError(t, err)
		assert.False(t, snap.BluffArmed)
		assert.Equal(t, 2, snap.BluffTokens[game.Opponent])
	})
}

func TestReconfigure(t *testing.T) {
	s, _ := newTestSession(t, config.ModeMultiplayer)

	require.NoError(t, s.Reconfigure(config.DifficultyMasterSpy, config.SpecializationNetworkAnalyst))
	_, err := s.NewGame()
	require.NoError(t, err)

	snap, err := s.Snapshot(game.Investigator)
	require.NoError(t, err)
	assert.Equal(t, config.DifficultyMasterSpy, snap.Settings.Difficulty)
	assert.Equal(t, config.SpecializationNetworkAnalyst, snap.Settings.Specialization)
	assert.Equal(t, config.ModeMultiplayer, snap.Settings.Mode)
	assert.Equal(t, 8, snap.MaxTurns)

	assert.ErrorIs(t, s.Reconfigure(config.Difficulty(99), config.SpecializationNone), game.ErrInvalidSelection)
}

func TestSimulate(t *testing.T) {
	// GIVEN two reasoners at every difficulty
	for _, d := range config.Difficulties {
		t.Run(d.String(), func(t *testing.T) {
			cfg := testConfig(t)

			// WHEN a handful of games are played headless
			sums, err := Simulate(context.Background(), cfg, testLogger(), rand.New(rand.NewSource(7)), config.Settings{Difficulty: d}, 5)

			// THEN every game reaches an outcome within the turn budget
			require.NoError(t, err)
			require.Len(t, sums, 5)
			maxTurns := cfg.ForDifficulty(d).MaxTurns
			for _, s := range sums {
				assert.False(t, s.Truncated)
				assert.NotEqual(t, game.ResultNone, s.Result)
				assert.LessOrEqual(t, s.Turns, maxTurns+1)
				if s.Result == game.ResultEscape {
					assert.Nil(t, s.Accuser)
				}
				for _, side := range game.Sides {
					assert.LessOrEqual(t, s.BluffsSpent[side], cfg.Rules.BluffTokens)
				}
			}

			stats := Tally(sums)
			total := 0
			for _, n := range stats.ByResult {
				total += n
			}
			assert.Equal(t, 5, total)
		})
	}
}

func TestSimulateStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sums, err := Simulate(ctx, testConfig(t), testLogger(), rand.New(rand.NewSource(1)), config.Settings{}, 3)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sums)
}

func TestTally(t *testing.T) {
	inv, opp := game.Investigator, game.Opponent
	sums := []Summary{
		{Result: game.ResultWin, Accuser: &inv, Accuracy: 1, Turns: 4, BluffsSpent: [2]int{0, 1}},
		{Result: game.ResultLoss, Accuser: &opp, Accuracy: 0.5, Turns: 6, BluffsSpent: [2]int{2, 1}},
		{Result: game.ResultEscape, Turns: 11},
		{Truncated: true, Turns: 99},
	}

	st := Tally(sums)

	assert.Equal(t, 4, st.Games)
	assert.Equal(t, 1, st.Truncated)
	assert.Equal(t, map[game.Result]int{game.ResultWin: 1, game.ResultLoss: 1, game.ResultEscape: 1}, st.ByResult)
	assert.Equal(t, map[game.Side]int{inv: 1, opp: 1}, st.ByAccuser)
	assert.InDelta(t, 7.0, st.MeanTurns, 1e-9)
	assert.InDelta(t, 2.0/3.0, st.MeanBluffs[inv], 1e-9)
	assert.InDelta(t, 2.0/3.0, st.MeanBluffs[opp], 1e-9)
	assert.InDelta(t, 0.75, st.MeanAccuracy, 1e-9)

	assert.Zero(t, Tally(nil).Games)
}
