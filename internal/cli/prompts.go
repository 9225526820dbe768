package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"encrypted-signatures/internal/config"
	"encrypted-signatures/internal/game"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

// C holds pre-configured color objects for printing to the console.
var C = struct {
	Yes, No, Maybe, Info, Warn, Header, Prompt, Debug, Urgent, Intel *color.Color
}{
	Yes:    color.New(color.FgGreen),
	No:     color.New(color.FgRed),
	Maybe:  color.New(color.FgYellow),
	Info:   color.New(color.FgCyan),
	Warn:   color.New(color.FgHiYellow),
	Header: color.New(color.FgWhite, color.Bold),
	Prompt: color.New(color.FgHiWhite),
	Debug:  color.New(color.FgMagenta),
	Urgent: color.New(color.FgHiRed, color.Bold),
	Intel:  color.New(color.FgHiMagenta, color.Bold),
}

// SideColors maps each seat to the color its name is printed in.
var SideColors = map[game.Side]*color.Color{
	game.Investigator: color.New(color.FgBlue, color.Bold),
	game.Opponent:     color.New(color.FgRed, color.Bold),
}

// ColorizeSide returns a seat name as a colored string.
func ColorizeSide(s game.Side) string {
	if c, ok := SideColors[s]; ok {
		return c.Sprint(s.String())
	}
	return s.String()
}

// --- Prompting and Usage ---

func (c *CLI) printUsage() {
	C.Header.Println("\n--- Encrypted Signatures ---")
	fmt.Println("Usage:")
	fmt.Println("  signatures [flags] play")
	fmt.Println("    Play a game in the configured mode (vsAI or multiplayer hot-seat).")
	fmt.Println("  signatures [flags] simulate [games]")
	fmt.Println("    Pit two AI reasoners against each other and tabulate the results.")
	fmt.Println("\nFlags:")
	fmt.Println("  -difficulty easy|medium|hard|masterSpy")
	fmt.Println("  -specialization none|fieldAgent|profiler|networkAnalyst")
	fmt.Println("  -mode vsAI|multiplayer")
	fmt.Println("  -seed N            Fix the random seed (0 picks one).")
	fmt.Println("  -config path       Load game rules from a YAML file.")
	fmt.Println("  -loglevel debug    Enable detailed AI logic tracing.")
}

func (c *CLI) printGameHelp() {
	C.Header.Println("\n--- Commands ---")

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Command", "Alias", "Cost", "Description"})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"verify <category> <attribute>", "v", c.cost(game.ActionVerify), "Test one attribute against the profile."},
		{"scan <category>", "s", c.cost(game.ActionScan), "Count confirmed or likely attributes that are correct."},
		{"xref <category> <category>", "x", c.cost(game.ActionCrossReference), "Measure the correlation between two categories."},
		{"deep <category>", "d", c.cost(game.ActionDeepInvestigation), "Look for an associate of the agent."},
		{"mark <category> <status> <attribute>", "m", 0, "Annotate your own grid."},
		{"accuse", "a", 0, "Name the full profile. Ends the game."},
		{"end [bluff [category]]", "e", 0, "End your turn, optionally arming a bluff against the next one."},
		{"bluff [category]", "b", 0, "Arm a bluff for the waiting side (hot-seat)."},
		{"grid", "g", 0, "Display your deduction grid."},
		{"log [n]", "l", 0, "Show the last n log entries."},
		{"status", "st", 0, "Show turn, points, tokens and time remaining."},
		{"briefing", "br", 0, "Show your starting knowledge."},
		{"new [difficulty] [specialization]", "n", 0, "Start a new game."},
		{"help", "h", 0, "Show this help message."},
		{"quit", "q", 0, "Exit."},
	})
	t.SetStyle(table.StyleLight)
	t.Render()
}

func (c *CLI) cost(k game.ActionKind) int {
	return game.ActionCost(c.cfg, k)
}

func (c *CLI) promptForString(prompt string) string {
	for {
		C.Prompt.Print(prompt)
		input, err := c.line.Prompt("")
		if err != nil {
			C.Info.Println("\nGoodbye!")
			os.Exit(0)
		}
		trimmed := strings.TrimSpace(input)
		if trimmed != "" {
			c.line.AppendHistory(trimmed)
			return trimmed
		}
	}
}

func (c *CLI) promptForSelection(prompt string, options []config.Attribute) config.Attribute {
	for {
		C.Header.Println("\n" + prompt)
		for i, opt := range options {
			fmt.Printf(" %2d: %s\n", i+1, opt)
		}
		input := c.promptForString("Enter number or name: ")
		if num, err := strconv.Atoi(input); err == nil && num >= 1 && num <= len(options) {
			return options[num-1]
		}
		for _, opt := range options {
			if strings.EqualFold(string(opt), input) {
				return opt
			}
		}
		C.Warn.Println("Invalid selection.")
	}
}

// promptForAccusation asks for one attribute per category.
func (c *CLI) promptForAccusation() game.Accusation {
	acc := make(game.Accusation, len(config.Categories))
	for _, cat := range config.Categories {
		acc[cat] = c.promptForSelection(fmt.Sprintf("Agent's %s?", cat), c.cfg.Attributes(cat))
	}
	return acc
}

func (c *CLI) confirm(prompt string) bool {
	answer := strings.ToLower(c.promptForString(prompt + " [y/N]: "))
	return answer == "y" || answer == "yes"
}
