package main

import (
	crand "crypto/rand"
	"encoding/binary"
	"flag"
	"math/rand"
	"os"

	"encrypted-signatures/internal/cli"
	"encrypted-signatures/internal/config"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// 1. Read options from the environment; a .env file is optional
	_ = godotenv.Load()
	opts, err := config.LoadOptions()
	if err != nil {
		logrus.Fatalf("Failed to read options: %v", err)
	}

	// 2. Parse command-line flags, which override the environment
	flag.StringVar(&opts.LogLevel, "loglevel", opts.LogLevel, "Set logging level (debug, info, warn, error)")
	flag.StringVar(&opts.ConfigPath, "config", opts.ConfigPath, "Path to a YAML rules file (default: built-in rules)")
	flag.Int64Var(&opts.Seed, "seed", opts.Seed, "Random seed (0 picks one)")
	flag.StringVar(&opts.Difficulty, "difficulty", opts.Difficulty, "easy, medium, hard or masterSpy")
	flag.StringVar(&opts.Specialization, "specialization", opts.Specialization, "none, fieldAgent, profiler or networkAnalyst")
	flag.StringVar(&opts.Mode, "mode", opts.Mode, "vsAI or multiplayer")
	flag.IntVar(&opts.SimulationGames, "games", opts.SimulationGames, "Number of games for 'simulate'")
	flag.Parse()

	// 3. Set up top-level dependencies (Logger)
	log := logrus.New()
	level, err := logrus.ParseLevel(opts.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, ForceColors: true})

	// 4. Load game configuration
	var gameConfig *config.GameConfig
	if opts.ConfigPath != "" {
		gameConfig, err = config.Load(opts.ConfigPath)
	} else {
		gameConfig, err = config.Default()
	}
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	settings, err := opts.Settings()
	if err != nil {
		log.Fatalf("Invalid settings: %v", err)
	}

	// 5. Create the CLI, injecting the logger
	ui := cli.NewCLI(log)

	// 6. Run the application
	seed := opts.Seed
	if seed == 0 {
		seed = randomSeed()
	}
	log.Debugf("Seed: %d", seed)
	if err := ui.Run(flag.Args(), gameConfig, settings, opts.SimulationGames, rand.New(rand.NewSource(seed))); err != nil {
		log.Errorf("Application exited with error: %v", err)
		os.Exit(1)
	}
}

func randomSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 1
	}
	return int64(binary.LittleEndian.Uint64(b[:]) &^ (1 << 63))
}
