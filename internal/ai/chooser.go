package ai

import (
	"math/rand"
	"sort"

	"encrypted-signatures/internal/config"
)

// Chooser defines an interface for selecting a single attribute from a list of options.
// This allows us to swap out random and deterministic selection strategies.
type Chooser interface {
	Choose(options []config.Attribute) config.Attribute
}

// --- Implementations ---

// RandomChooser implements the Chooser interface by picking an element randomly.
type RandomChooser struct {
	rand *rand.Rand
}

// NewRandomChooser creates a new random chooser.
func NewRandomChooser(rand *rand.Rand) *RandomChooser {
	return &RandomChooser{rand: rand}
}

func (r *RandomChooser) Choose(options []config.Attribute) config.Attribute {
	if len(options) == 0 {
		return ""
	}
	return options[r.rand.Intn(len(options))]
}

// DeterministicChooser implements the Chooser interface by always picking the first
// attribute alphabetically. This is used for predictable testing.
type DeterministicChooser struct{}

func (d *DeterministicChooser) Choose(options []config.Attribute) config.Attribute {
	if len(options) == 0 {
		return ""
	}
	sorted := append([]config.Attribute(nil), options...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted[0]
}
