package game

import (
	"io"
	"math/rand"
	"testing"

	"encrypted-signatures/internal/config"
	"encrypted-signatures/internal/events"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// recorder captures every published event in order.
type recorder struct {
	events []events.Event
}

func (r *recorder) HandleEvent(e events.Event) { r.events = append(r.events, e) }

func (r *recorder) turnStarts() []TurnStartEvent {
	var out []TurnStartEvent
	for _, e := range r.events {
		if ts, ok := e.(TurnStartEvent); ok {
			out = append(out, ts)
		}
	}
	return out
}

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

// newTestEngine starts a seeded game at difficulty d and records its events.
func newTestEngine(t *testing.T, d config.Difficulty, sp config.Specialization) (*Engine, *recorder) {
	t.Helper()
	rec := &recorder{}
	manager := events.NewManager()
	manager.Subscribe(rec)

	e := NewEngine(testConfig(t), manager, testLogger(), rand.New(rand.NewSource(1)))
	_, err := e.InitializeGame(config.Settings{Mode: config.ModeVsAI, Difficulty: d, Specialization: sp})
	require.NoError(t, err)
	return e, rec
}

// forceProfile replaces the hidden profile and wipes both grids so a test can
// reason about exact outcomes.
func forceProfile(e *Engine, m map[config.Category]config.Attribute) {
	e.st.profile = NewProfile(m)
	for _, side := range Sides {
		e.st.grids[side] = NewGrid(e.Config)
	}
}

var exampleProfile = map[config.Category]config.Attribute{
	config.CategoryAppearance: "Tall",
	config.CategoryHabits:     "Early Riser",
	config.CategoryContacts:   "Diplomat",
	config.CategoryLocations:  "Paris",
}

// checkGridInvariant asserts the confirmation invariant on every category.
func checkGridInvariant(t *testing.T, cfg *config.GameConfig, g *Grid) {
	t.Helper()
	for _, cat := range config.Categories {
		confirmed := 0
		var which config.Attribute
		for _, attr := range cfg.Attributes(cat) {
			if g.Status(cat, attr) == StatusConfirmed {
				confirmed++
				which = attr
			}
		}
		require.LessOrEqual(t, confirmed, 1, "category %s has %d confirmed attributes", cat, confirmed)
		if confirmed == 1 {
			for _, attr := range cfg.Attributes(cat) {
				if attr != which {
					require.Equal(t, StatusEliminated, g.Status(cat, attr), "sibling %s of confirmed %s", attr, which)
				}
			}
		}
	}
}
