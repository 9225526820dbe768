package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"encrypted-signatures/internal/ai"
	"encrypted-signatures/internal/config"
	"encrypted-signatures/internal/game"
	"encrypted-signatures/internal/player"
	"encrypted-signatures/internal/session"

	"github.com/google/uuid"
	"github.com/peterh/liner"
	"github.com/sirupsen/logrus"
)

// errQuit ends the command loop without an error.
var errQuit = errors.New("quit")

// CLI manages all command-line interactions.
type CLI struct {
	log  *logrus.Logger
	line *liner.State
	cfg  *config.GameConfig

	sess      *session.Session
	debriefed uuid.UUID
}

// NewCLI creates a new command-line interface manager.
func NewCLI(log *logrus.Logger) *CLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	return &CLI{
		log:  log,
		line: line,
	}
}

// Run is the main entry point for the CLI application.
func (c *CLI) Run(args []string, cfg *config.GameConfig, settings config.Settings, simGames int, rand *rand.Rand) error {
	defer c.line.Close()
	c.cfg = cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := "play"
	if len(args) > 0 {
		cmd = args[0]
	}
	switch cmd {
	case "play":
		return c.runGame(ctx, settings, rand)
	case "simulate", "sim":
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 {
				c.printUsage()
				return fmt.Errorf("invalid game count '%s'", args[1])
			}
			simGames = n
		}
		return c.runSimulationMode(ctx, settings, simGames, rand)
	case "help":
		c.printUsage()
		return nil
	default:
		c.printUsage()
		return fmt.Errorf("unknown command '%s'", cmd)
	}
}

func (c *CLI) runSimulationMode(ctx context.Context, settings config.Settings, n int, rand *rand.Rand) error {
	C.Header.Printf("--- Running %d Fast Simulation(s) ---\n", n)
	sums, err := session.Simulate(ctx, c.cfg, c.log, rand, settings, n)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("simulation failed: %w", err)
	}
	if len(sums) < n {
		C.Warn.Printf("Interrupted after %d game(s).\n", len(sums))
	}
	RenderStats(settings, session.Tally(sums))
	return nil
}

func (c *CLI) runGame(ctx context.Context, settings config.Settings, rand *rand.Rand) error {
	builder := session.NewBuilder(c.cfg, c.log, rand).WithSettings(settings)
	seats := game.Sides
	if settings.Mode == config.ModeVsAI {
		builder.WithPlayerNames("You", "AI Opponent")
		seats = []game.Side{game.Investigator}
	}
	builder.EventManager().Subscribe(NewGameRenderer(os.Stdout, seats...))

	sess, err := builder.Build()
	if err != nil {
		return fmt.Errorf("failed to build game: %w", err)
	}
	defer sess.Close()
	c.sess = sess

	if _, err := sess.NewGame(); err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}
	c.printGameHelp()
	c.showOpeningBriefing()

	for {
		snap, err := sess.Snapshot(game.Investigator)
		if err != nil {
			return err
		}
		if snap.Over() {
			c.debrief(snap)
		}

		side := snap.Current
		if !snap.Over() && !sess.Seat(side).IsHuman() {
			if err := c.waitForHuman(ctx); err != nil {
				C.Info.Println("\nGoodbye!")
				return nil
			}
			continue
		}

		prompt := fmt.Sprintf("(%s) ", sess.Seat(side).Name())
		if snap.Over() {
			prompt = "(game over) "
		}
		input, err := c.line.Prompt(prompt)
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				C.Info.Println("\nGoodbye!")
				return nil
			}
			return fmt.Errorf("error reading line: %w", err)
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		c.line.AppendHistory(input)

		if err := c.dispatch(side, strings.Fields(input)); err != nil {
			if errors.Is(err, errQuit) {
				C.Info.Println("Exiting.")
				return nil
			}
			C.Warn.Println(err)
		}
	}
}

// waitForHuman blocks until a human seat is to move again or the game ends.
func (c *CLI) waitForHuman(ctx context.Context) error {
	for _, side := range game.Sides {
		if h, ok := c.sess.Seat(side).(*player.HumanPlayer); ok {
			return h.Wait(ctx)
		}
	}
	return errors.New("no human seat")
}

func (c *CLI) dispatch(side game.Side, parts []string) error {
	cmd, args := strings.ToLower(parts[0]), parts[1:]
	switch cmd {
	case "verify", "v", "scan", "s", "xref", "x", "deep", "d":
		a, err := parseAction(c.cfg, cmd, args)
		if err != nil {
			return err
		}
		res, err := c.sess.PerformAction(side, a)
		if err != nil {
			return err
		}
		c.log.Debugf("%s spent %d point(s) on %s", side, res.Cost, a)
		return nil
	case "mark", "m":
		m, err := parseMark(c.cfg, args)
		if err != nil {
			return err
		}
		return c.sess.MarkCell(side, m.Category, m.Attribute, m.Status)
	case "accuse", "a":
		return c.handleAccuse(side)
	case "end", "e":
		return c.handleEnd(side, args)
	case "bluff", "b":
		return c.handleBluff(side, args)
	case "grid", "g":
		snap, err := c.sess.Snapshot(side)
		if err != nil {
			return err
		}
		RenderGrid(c.cfg, side, snap.Grid())
	case "log", "l":
		n := 10
		if len(args) > 0 {
			if v, err := strconv.Atoi(args[0]); err == nil {
				n = v
			}
		}
		snap, err := c.sess.Snapshot(side)
		if err != nil {
			return err
		}
		RenderLog(snap, n, snap.Over())
	case "status", "st":
		snap, err := c.sess.Snapshot(side)
		if err != nil {
			return err
		}
		RenderStatus(snap)
	case "briefing", "br":
		c.showBriefing(side)
	case "new", "n":
		return c.handleNew(args)
	case "help", "h":
		c.printGameHelp()
	case "quit", "q":
		return errQuit
	default:
		return fmt.Errorf("unknown command '%s'. Type 'help' for a list of commands", cmd)
	}
	return nil
}

func (c *CLI) handleAccuse(side game.Side) error {
	acc := c.promptForAccusation()
	if !c.confirm("Accusing ends the game. Proceed?") {
		return nil
	}
	_, err := c.sess.MakeAccusation(side, acc)
	return err
}

// handleEnd ends the turn; "end bluff [category]" also arms a bluff against
// the turn that starts.
func (c *CLI) handleEnd(side game.Side, args []string) error {
	if len(args) > 0 && strings.EqualFold(args[0], "bluff") {
		target, err := parseBluffTarget(args[1:])
		if err != nil {
			return err
		}
		return c.sess.EndTurnAndBluff(side, target)
	}
	return c.sess.EndTurn(side)
}

// handleBluff arms a bluff for the waiting side, which must be a human seat.
func (c *CLI) handleBluff(side game.Side, args []string) error {
	waiting := side.Other()
	if !c.sess.Seat(waiting).IsHuman() {
		return errors.New("the waiting seat is not yours; use 'end bluff [category]' to bluff the next turn")
	}
	target, err := parseBluffTarget(args)
	if err != nil {
		return err
	}
	if target == nil {
		return c.sess.UseBluffToken(waiting)
	}
	return c.sess.UseTargetedBluff(waiting, *target)
}

func (c *CLI) handleNew(args []string) error {
	settings := c.sess.Settings()
	d, sp := settings.Difficulty, settings.Specialization
	if len(args) > 0 {
		v, ok := config.ParseDifficulty(args[0])
		if !ok {
			return fmt.Errorf("unknown difficulty '%s'", args[0])
		}
		d = v
	}
	if len(args) > 1 {
		v, ok := config.ParseSpecialization(args[1])
		if !ok {
			return fmt.Errorf("unknown specialization '%s'", args[1])
		}
		sp = v
	}
	if err := c.sess.Reconfigure(d, sp); err != nil {
		return err
	}
	if _, err := c.sess.NewGame(); err != nil {
		return err
	}
	c.showOpeningBriefing()
	return nil
}

// showOpeningBriefing shows the first human seat its starting knowledge. In
// hot-seat play the opponent asks for theirs with 'briefing' on their turn.
func (c *CLI) showOpeningBriefing() {
	for _, side := range game.Sides {
		if c.sess.Seat(side).IsHuman() {
			c.showBriefing(side)
			return
		}
	}
}

func (c *CLI) showBriefing(side game.Side) {
	snap, err := c.sess.Snapshot(side)
	if err != nil {
		C.Warn.Println(err)
		return
	}
	RenderBriefing(snap.Briefing)
}

// debrief prints the end-of-game review once per game.
func (c *CLI) debrief(snap game.Snapshot) {
	if c.debriefed == snap.GameID {
		return
	}
	c.debriefed = snap.GameID
	beliefs := make(map[game.Side]*ai.Belief)
	for _, side := range game.Sides {
		if b, ok := c.sess.Belief(side); ok {
			beliefs[side] = b
		}
	}
	RenderDebrief(c.cfg, snap, beliefs)
	C.Info.Println("Type 'new [difficulty] [specialization]' to play again or 'quit' to exit.")
}
