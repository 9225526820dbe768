package game

import (
	"math/rand"

	"encrypted-signatures/internal/config"
)

// GenerateProfile produces the hidden ground truth for one game.
//
// The location is drawn uniformly and anchors the rest: for every other
// category the difficulty's correlation chance decides whether the attribute
// is drawn from the location's linked cluster or from the full candidate list.
func GenerateProfile(cfg *config.GameConfig, r *rand.Rand, d config.Difficulty) Profile {
	chance := cfg.ForDifficulty(d).CorrelationChance

	locations := cfg.Attributes(config.CategoryLocations)
	anchor := locations[r.Intn(len(locations))]

	picked := map[config.Category]config.Attribute{config.CategoryLocations: anchor}
	for _, cat := range config.Categories {
		if cat == config.CategoryLocations {
			continue
		}
		// Draw once per category so the stream is identical whether or not
		// the cluster is empty.
		correlated := r.Float64() < chance
		linked := cfg.LinkedInCategory(d, anchor, cat)
		if correlated && len(linked) > 0 {
			picked[cat] = linked[r.Intn(len(linked))]
			continue
		}
		candidates := cfg.Attributes(cat)
		picked[cat] = candidates[r.Intn(len(candidates))]
	}
	return NewProfile(picked)
}
