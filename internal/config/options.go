package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Options holds the runtime knobs of the binary, read from the environment.
type Options struct {
	ConfigPath      string `env:"SIGNATURES_CONFIG"`
	LogLevel        string `env:"SIGNATURES_LOG_LEVEL" envDefault:"info"`
	Seed            int64  `env:"SIGNATURES_SEED"`
	Difficulty      string `env:"SIGNATURES_DIFFICULTY" envDefault:"medium"`
	Specialization  string `env:"SIGNATURES_SPECIALIZATION" envDefault:"none"`
	Mode            string `env:"SIGNATURES_MODE" envDefault:"vsAI"`
	SimulationGames int    `env:"SIGNATURES_SIM_GAMES" envDefault:"100"`
}

// LoadOptions parses Options from environment variables.
func LoadOptions() (Options, error) {
	var opts Options
	if err := env.Parse(&opts); err != nil {
		return Options{}, fmt.Errorf("parse env: %w", err)
	}
	return opts, nil
}

// Settings resolves the string options into typed game settings.
func (o Options) Settings() (Settings, error) {
	d, ok := ParseDifficulty(o.Difficulty)
	if !ok {
		return Settings{}, fmt.Errorf("unknown difficulty %q", o.Difficulty)
	}
	sp, ok := ParseSpecialization(o.Specialization)
	if !ok {
		return Settings{}, fmt.Errorf("unknown specialization %q", o.Specialization)
	}
	m, ok := ParseGameMode(o.Mode)
	if !ok {
		return Settings{}, fmt.Errorf("unknown game mode %q", o.Mode)
	}
	return Settings{Mode: m, Difficulty: d, Specialization: sp}, nil
}

// Settings is the configuration record supplied by the presentation layer
// before a game is initialized.
type Settings struct {
	Mode           GameMode
	Difficulty     Difficulty
	Specialization Specialization
}
