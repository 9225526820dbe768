package game

import (
	"testing"

	"encrypted-signatures/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBluffInterception(t *testing.T) {
	t.Run("a pre-committed bluff inverts a true verify", func(t *testing.T) {
		// GIVEN an opponent holding one token that pre-commits an interception
		e, rec := newTestEngine(t, config.DifficultyMedium, config.SpecializationNone)
		forceProfile(e, exampleProfile)
		e.st.tokens[Opponent] = 1
		require.NoError(t, e.UseBluffToken(Opponent))

		// WHEN the investigator verifies the true appearance
		res, err := e.PerformAction(Investigator, Verify(config.CategoryAppearance, "Tall"))
		require.NoError(t, err)

		// THEN the report says it is false and the cell is eliminated
		assert.False(t, res.Verify.Correct)
		assert.Equal(t, StatusEliminated, res.Verify.Status)
		inv, _ := e.Snapshot(Investigator)
		assert.Equal(t, StatusEliminated, inv.Grid().Status(config.CategoryAppearance, "Tall"))
		snap, _ := e.Snapshot(Opponent)
		assert.Equal(t, 0, snap.BluffTokens[Opponent], "exactly one token is spent")
		assert.False(t, snap.BluffArmed, "the interception is consumed")

		var armed int
		for _, ev := range rec.events {
			if b, ok := ev.(BluffArmedEvent); ok && b.Side == Opponent {
				armed++
			}
		}
		assert.Equal(t, 1, armed)

		t.Run("the profile itself is untouched", func(t *testing.T) {
			assert.Equal(t, config.Attribute("Tall"), e.st.profile.Attribute(config.CategoryAppearance))
		})

		t.Run("the next verify is not intercepted", func(t *testing.T) {
			res, err := e.PerformAction(Investigator, Verify(config.CategoryAppearance, "Tall"))
			require.NoError(t, err)
			assert.True(t, res.Verify.Correct)
		})
	})

	t.Run("without a bluff the same verify follows the confidence bands", func(t *testing.T) {
		e, _ := newTestEngine(t, config.DifficultyMedium, config.SpecializationNone)
		forceProfile(e, exampleProfile)
		e.st.tokens[Opponent] = 1

		res, err := e.PerformAction(Investigator, Verify(config.CategoryAppearance, "Tall"))
		require.NoError(t, err)
		assert.True(t, res.Verify.Correct)
		assert.Equal(t, e.statusFor(res.Verify.Confidence), res.Verify.Status)
		assert.NotEqual(t, StatusEliminated, res.Verify.Status)

		snap, _ := e.Snapshot(Opponent)
		assert.Equal(t, 1, snap.BluffTokens[Opponent])
	})

	t.Run("a bluff can turn a false verify into a confirmation", func(t *testing.T) {
		e, _ := newTestEngine(t, config.DifficultyMedium, config.SpecializationNone)
		forceProfile(e, exampleProfile)
		require.NoError(t, e.UseBluffToken(Opponent))

		res, err := e.PerformAction(Investigator, Verify(config.CategoryHabits, "Chess Player"))
		require.NoError(t, err)
		assert.True(t, res.Verify.Correct)
		assert.Contains(t, []CellStatus{StatusConfirmed, StatusLikely}, res.Verify.Status)
	})
}

func TestTargetedBluff(t *testing.T) {
	// GIVEN an opponent bluff pinned to habits
	e, _ := newTestEngine(t, config.DifficultyMedium, config.SpecializationNone)
	forceProfile(e, exampleProfile)
	require.NoError(t, e.UseTargetedBluff(Opponent, config.CategoryHabits))

	// WHEN the investigator verifies another category
	res, err := e.PerformAction(Investigator, Verify(config.CategoryAppearance, "Tall"))
	require.NoError(t, err)

	// THEN the bluff does not fire and stays armed
	assert.True(t, res.Verify.Correct)
	snap, _ := e.Snapshot(Opponent)
	assert.True(t, snap.BluffArmed)

	t.Run("it fires on the targeted category", func(t *testing.T) {
		res, err := e.PerformAction(Investigator, Verify(config.CategoryHabits, "Early Riser"))
		require.NoError(t, err)
		assert.False(t, res.Verify.Correct)
	})

	t.Run("an unfired bluff lapses at the turn boundary", func(t *testing.T) {
		e, _ := newTestEngine(t, config.DifficultyMedium, config.SpecializationNone)
		forceProfile(e, exampleProfile)
		require.NoError(t, e.UseTargetedBluff(Opponent, config.CategoryContacts))
		require.NoError(t, e.EndTurn(Investigator))
		require.NoError(t, e.EndTurn(Opponent))

		snap, _ := e.Snapshot(Opponent)
		assert.False(t, snap.BluffArmed)
		assert.Equal(t, 1, snap.BluffTokens[Opponent], "the token stays spent")

		res, err := e.PerformAction(Investigator, Verify(config.CategoryContacts, "Diplomat"))
		require.NoError(t, err)
		assert.True(t, res.Verify.Correct)
	})
}

func TestBluffRules(t *testing.T) {
	e, _ := newTestEngine(t, config.DifficultyMedium, config.SpecializationNone)

	t.Run("the acting side cannot bluff", func(t *testing.T) {
		assert.ErrorIs(t, e.UseBluffToken(Investigator), ErrWrongTurn)
	})

	t.Run("only one interception may be armed", func(t *testing.T) {
		require.NoError(t, e.UseBluffToken(Opponent))
		assert.ErrorIs(t, e.UseTargetedBluff(Opponent, config.CategoryHabits), ErrBluffAlreadyArmed)
		snap, _ := e.Snapshot(Opponent)
		assert.Equal(t, 1, snap.BluffTokens[Opponent])
	})

	t.Run("targeting an unknown category is refused", func(t *testing.T) {
		assert.ErrorIs(t, e.UseTargetedBluff(Opponent, config.Category(-1)), ErrInvalidSelection)
	})

	t.Run("tokens never go below zero", func(t *testing.T) {
		require.NoError(t, e.EndTurn(Investigator))
		require.NoError(t, e.EndTurn(Opponent))
		require.NoError(t, e.UseBluffToken(Opponent))
		require.NoError(t, e.EndTurn(Investigator))
		require.NoError(t, e.EndTurn(Opponent))

		assert.ErrorIs(t, e.UseBluffToken(Opponent), ErrNoBluffTokens)
		snap, _ := e.Snapshot(Opponent)
		assert.Equal(t, 0, snap.BluffTokens[Opponent])
		assert.Equal(t, 2, snap.BluffsSpent[Opponent])
	})

	t.Run("the investigator bluffs during the opponent's turn", func(t *testing.T) {
		require.NoError(t, e.EndTurn(Investigator))
		require.NoError(t, e.UseBluffToken(Investigator))
		snap, _ := e.Snapshot(Investigator)
		assert.Equal(t, 1, snap.BluffTokens[Investigator])
	})
}

func TestBluffMarkVisibility(t *testing.T) {
	// GIVEN a bluffed verify against the investigator
	e, _ := newTestEngine(t, config.DifficultyMedium, config.SpecializationNone)
	forceProfile(e, exampleProfile)
	require.NoError(t, e.UseBluffToken(Opponent))
	_, err := e.PerformAction(Investigator, Verify(config.CategoryAppearance, "Tall"))
	require.NoError(t, err)

	bluffedIn := func(s Snapshot) bool {
		for _, entry := range s.Log {
			if entry.Bluffed {
				return true
			}
		}
		return false
	}

	// THEN the deceived side cannot see the mark while the game is live
	inv, _ := e.Snapshot(Investigator)
	opp, _ := e.Snapshot(Opponent)
	assert.False(t, bluffedIn(inv))
	assert.True(t, bluffedIn(opp))

	// AND it is revealed once the game is over
	acc := Accusation{}
	for cat, attr := range exampleProfile {
		acc[cat] = attr
	}
	_, err = e.MakeAccusation(Investigator, acc)
	require.NoError(t, err)
	inv, _ = e.Snapshot(Investigator)
	assert.True(t, bluffedIn(inv))
}

func TestArmedBluffIsConcealedFromTheDeceivedSide(t *testing.T) {
	// GIVEN an opponent that arms a bluff during the investigator's turn
	e, _ := newTestEngine(t, config.DifficultyMedium, config.SpecializationNone)
	forceProfile(e, exampleProfile)
	require.NoError(t, e.UseBluffToken(Opponent))

	bluffEntries := func(s Snapshot) int {
		n := 0
		for _, entry := range s.Log {
			if entry.Kind == "bluff" {
				n++
			}
		}
		return n
	}

	// THEN the investigator sees neither the entry nor the token change
	inv, _ := e.Snapshot(Investigator)
	assert.Zero(t, bluffEntries(inv))
	assert.False(t, inv.Knows(Opponent))
	assert.Zero(t, inv.BluffTokens[Opponent])
	assert.Zero(t, inv.BluffsSpent[Opponent])

	// AND the opponent sees its own bluff
	opp, _ := e.Snapshot(Opponent)
	assert.Equal(t, 1, bluffEntries(opp))
	assert.Equal(t, 1, opp.BluffTokens[Opponent])
	assert.Equal(t, 1, opp.BluffsSpent[Opponent])

	t.Run("nothing leaks once the bluff resolves", func(t *testing.T) {
		_, err := e.PerformAction(Investigator, Verify(config.CategoryAppearance, "Tall"))
		require.NoError(t, err)
		require.NoError(t, e.EndTurn(Investigator))

		inv, _ := e.Snapshot(Investigator)
		assert.Zero(t, bluffEntries(inv))
		assert.Zero(t, inv.BluffsSpent[Opponent])
	})

	t.Run("the debrief shows it", func(t *testing.T) {
		acc := Accusation{}
		for cat, attr := range exampleProfile {
			acc[cat] = attr
		}
		_, err := e.MakeAccusation(Opponent, acc)
		require.NoError(t, err)

		inv, _ := e.Snapshot(Investigator)
		assert.Equal(t, 1, bluffEntries(inv))
		assert.Equal(t, 1, inv.BluffsSpent[Opponent])
		assert.Equal(t, 1, inv.BluffTokens[Opponent])
	})
}
