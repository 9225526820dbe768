package config

import "strings"

// Category is one of the four fixed classification axes of an agent profile.
type Category int

const (
	CategoryAppearance Category = iota
	CategoryHabits
	CategoryContacts
	CategoryLocations
)

// Categories lists every category in display order.
var Categories = []Category{CategoryAppearance, CategoryHabits, CategoryContacts, CategoryLocations}

func (c Category) String() string {
	switch c {
	case CategoryAppearance:
		return "appearance"
	case CategoryHabits:
		return "habits"
	case CategoryContacts:
		return "contacts"
	case CategoryLocations:
		return "locations"
	default:
		return "unknown"
	}
}

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	return c >= CategoryAppearance && c <= CategoryLocations
}

// ParseCategory resolves a category by name, ignoring case.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if strings.EqualFold(c.String(), strings.TrimSpace(s)) {
			return c, true
		}
	}
	return 0, false
}

// Attribute is one concrete value within a Category.
type Attribute string

// Difficulty scales generation bias, starting knowledge, time pressure and AI behaviour.
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyMedium
	DifficultyHard
	DifficultyMasterSpy
)

// Difficulties lists every difficulty from easiest to hardest.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyMasterSpy}

func (d Difficulty) String() string {
	return []string{"easy", "medium", "hard", "masterSpy"}[d]
}

// ParseDifficulty resolves a difficulty by name, ignoring case.
func ParseDifficulty(s string) (Difficulty, bool) {
	for _, d := range Difficulties {
		if strings.EqualFold(d.String(), strings.TrimSpace(s)) {
			return d, true
		}
	}
	return 0, false
}

// Specialization is a static per-game modifier that biases outcomes for some categories.
type Specialization int

const (
	SpecializationNone Specialization = iota
	SpecializationFieldAgent
	SpecializationProfiler
	SpecializationNetworkAnalyst
)

// Specializations lists every specialization, including none.
var Specializations = []Specialization{
	SpecializationNone,
	SpecializationFieldAgent,
	SpecializationProfiler,
	SpecializationNetworkAnalyst,
}

func (s Specialization) String() string {
	return []string{"none", "fieldAgent", "profiler", "networkAnalyst"}[s]
}

// ParseSpecialization resolves a specialization by name, ignoring case.
func ParseSpecialization(s string) (Specialization, bool) {
	for _, sp := range Specializations {
		if strings.EqualFold(sp.String(), strings.TrimSpace(s)) {
			return sp, true
		}
	}
	return 0, false
}

// GameMode selects who sits in the opponent seat.
type GameMode int

const (
	ModeVsAI GameMode = iota
	ModeMultiplayer
)

func (m GameMode) String() string {
	return []string{"vsAI", "multiplayer"}[m]
}

// ParseGameMode resolves a game mode by name, ignoring case.
func ParseGameMode(s string) (GameMode, bool) {
	for _, m := range []GameMode{ModeVsAI, ModeMultiplayer} {
		if strings.EqualFold(m.String(), strings.TrimSpace(s)) {
			return m, true
		}
	}
	return 0, false
}
