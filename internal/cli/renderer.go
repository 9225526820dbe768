package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"encrypted-signatures/internal/ai"
	"encrypted-signatures/internal/config"
	"encrypted-signatures/internal/events"
	"encrypted-signatures/internal/game"
	"encrypted-signatures/internal/session"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// GameRenderer implements the events.Listener interface to print the game as
// it happens. It runs inside the session lock and only writes. Private report
// details are only printed for the seats sitting at this terminal.
type GameRenderer struct {
	out    io.Writer
	reveal [2]bool
}

func NewGameRenderer(out io.Writer, seats ...game.Side) *GameRenderer {
	r := &GameRenderer{out: out}
	for _, side := range seats {
		r.reveal[side] = true
	}
	return r
}

// HandleEvent is the central dispatcher for rendering events.
func (r *GameRenderer) HandleEvent(e events.Event) {
	switch event := e.(type) {
	case game.GameReadyEvent:
		C.Header.Fprintf(r.out, "\n--- New case: %s difficulty, %s specialization ---\n", event.Settings.Difficulty, event.Settings.Specialization)
	case game.TurnStartEvent:
		C.Header.Fprintf(r.out, "\n--- Turn %d: %s (%d turn(s) remaining) ---\n", event.TurnNumber, ColorizeSide(event.Side), event.TimeRemaining)
	case game.LogEvent:
		entry := event.Entry
		if entry.Actor != nil && !r.reveal[*entry.Actor] {
			public, ok := entry.Public()
			if !ok {
				return
			}
			entry = public
		}
		// Live entries never reveal a bluff; the debrief does.
		fmt.Fprintln(r.out, formatEntry(entry, false))
	case game.GameOverEvent:
		r.renderGameResult(event)
	}
}

func (r *GameRenderer) renderGameResult(event game.GameOverEvent) {
	C.Header.Fprintln(r.out, "\n--- GAME OVER ---")
	switch event.Result {
	case game.ResultWin:
		C.Yes.Fprintf(r.out, "Investigator WINS: the double agent is identified (%.0f%% accuracy).\n", event.Accuracy*100)
	case game.ResultPartial, game.ResultClose:
		C.Maybe.Fprintf(r.out, "%s result for the investigator (%.0f%% accuracy).\n", strings.ToUpper(event.Result.String()), event.Accuracy*100)
	case game.ResultEscape:
		C.Urgent.Fprintln(r.out, "The double agent has ESCAPED.")
	default:
		C.No.Fprintf(r.out, "Investigator LOSES (%.0f%% accuracy).\n", event.Accuracy*100)
	}
	C.Info.Fprintf(r.out, "The profile was: %s\n", event.Profile)
}

// formatEntry renders one log line. The bluff mark is only shown when asked
// for and present in the entry.
func formatEntry(entry game.LogEntry, showBluff bool) string {
	actor := "Control"
	if entry.Actor != nil {
		actor = ColorizeSide(*entry.Actor)
	}
	msg := entry.Text()
	if showBluff && entry.Bluffed {
		msg += " " + C.Debug.Sprint("(Bluffed)")
	}
	line := fmt.Sprintf("[T%02d] %s: %s", entry.Turn, actor, msg)
	switch {
	case entry.CriticalInfo:
		return C.Intel.Sprint(line)
	case entry.Urgent:
		return C.Urgent.Sprint(line)
	default:
		return line
	}
}

func statusToSymbol(status game.CellStatus) string {
	switch status {
	case game.StatusConfirmed:
		return C.Yes.Sprint("✔")
	case game.StatusLikely:
		return C.Yes.Sprint("~")
	case game.StatusUncertain:
		return C.Maybe.Sprint("?")
	case game.StatusEliminated:
		return C.No.Sprint("✖")
	default:
		return " "
	}
}

// gridTable lays a deduction grid out one category per row group.
func gridTable(cfg *config.GameConfig, title string, grid *game.Grid) table.Writer {
	t := table.NewWriter()
	t.SetTitle(title)
	t.AppendHeader(table.Row{"#", "Category", "Attribute", "Status"})
	for i, cat := range config.Categories {
		if i > 0 {
			t.AppendSeparator()
		}
		for j, attr := range cfg.Attributes(cat) {
			status := grid.Status(cat, attr)
			t.AppendRow(table.Row{j + 1, cat.String(), string(attr), statusToSymbol(status) + " " + status.String()})
		}
	}
	t.SetStyle(table.StyleRounded)
	t.Style().Title.Align = text.AlignCenter
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, AutoMerge: true},
	})
	return t
}

// beliefTable shows a reasoner's probability for every attribute.
func beliefTable(cfg *config.GameConfig, title string, b *ai.Belief) table.Writer {
	t := table.NewWriter()
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Category", "Attribute", "P"})
	for i, cat := range config.Categories {
		if i > 0 {
			t.AppendSeparator()
		}
		for _, attr := range cfg.Attributes(cat) {
			t.AppendRow(table.Row{cat.String(), string(attr), fmt.Sprintf("%.2f", b.Prob(cat, attr))})
		}
	}
	t.SetStyle(table.StyleRounded)
	t.Style().Title.Align = text.AlignCenter
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
		{Number: 3, Align: text.AlignRight},
	})
	return t
}

// statsTable summarises a batch of simulated games.
func statsTable(settings config.Settings, st session.Stats) table.Writer {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("%d simulated games (%s, %s)", st.Games, settings.Difficulty, settings.Specialization))
	t.AppendHeader(table.Row{"Outcome", "Games", "Share"})
	share := func(n int) string {
		if st.Games == 0 {
			return "-"
		}
		return fmt.Sprintf("%.1f%%", 100*float64(n)/float64(st.Games))
	}
	for _, r := range []game.Result{game.ResultWin, game.ResultPartial, game.ResultClose, game.ResultLoss, game.ResultEscape} {
		t.AppendRow(table.Row{r.String(), st.ByResult[r], share(st.ByResult[r])})
	}
	if st.Truncated > 0 {
		t.AppendRow(table.Row{"truncated", st.Truncated, share(st.Truncated)})
	}
	t.AppendSeparator()
	t.AppendRow(table.Row{"accused by investigator", st.ByAccuser[game.Investigator], share(st.ByAccuser[game.Investigator])})
	t.AppendRow(table.Row{"accused by opponent", st.ByAccuser[game.Opponent], share(st.ByAccuser[game.Opponent])})
	t.AppendFooter(table.Row{"mean turns", fmt.Sprintf("%.2f", st.MeanTurns), ""})
	t.AppendFooter(table.Row{"mean accuracy", fmt.Sprintf("%.2f", st.MeanAccuracy), ""})
	t.AppendFooter(table.Row{"mean bluffs (inv/opp)", fmt.Sprintf("%.2f / %.2f", st.MeanBluffs[game.Investigator], st.MeanBluffs[game.Opponent]), ""})
	t.SetStyle(table.StyleRounded)
	t.Style().Title.Align = text.AlignCenter
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	return t
}

// RenderGrid prints a side's deduction grid.
func RenderGrid(cfg *config.GameConfig, side game.Side, grid *game.Grid) {
	t := gridTable(cfg, fmt.Sprintf("%s's Deduction Grid", side), grid)
	t.SetOutputMirror(os.Stdout)
	t.Render()
}

// RenderLog prints the last n entries of a snapshot's log (all when n <= 0).
func RenderLog(snap game.Snapshot, n int, showBluffs bool) {
	entries := snap.Log
	if n > 0 && n < len(entries) {
		entries = entries[len(entries)-n:]
	}
	for _, entry := range entries {
		fmt.Println(formatEntry(entry, showBluffs))
	}
}

// RenderStatus prints the turn, clock and resources of both sides.
func RenderStatus(snap game.Snapshot) {
	C.Header.Printf("\nTurn %d of %d, %s to move (%s)\n", snap.Turn, snap.MaxTurns, ColorizeSide(snap.Current), snap.Phase)
	if snap.TimeRemaining <= 3 {
		C.Urgent.Printf("Time remaining: %d turn(s)\n", snap.TimeRemaining)
	} else {
		C.Info.Printf("Time remaining: %d turn(s); critical intel on turn %d\n", snap.TimeRemaining, snap.CriticalIntelTurn)
	}
	for _, side := range game.Sides {
		tokens := "?"
		if snap.Knows(side) {
			tokens = fmt.Sprint(snap.BluffTokens[side])
		}
		fmt.Printf("  %-22s action points %d, bluff tokens %s\n", ColorizeSide(side), snap.ActionPoints[side], tokens)
	}
	if snap.BluffArmed {
		C.Debug.Println("  Your bluff is armed.")
	}
}

// RenderBriefing prints a side's starting knowledge.
func RenderBriefing(b game.Briefing) {
	C.Header.Printf("\n--- %s briefing ---\n", b.Side)
	for _, f := range b.Facts {
		C.Yes.Printf("  %s: %s (%d%% certain)\n", f.Category, f.Attribute, f.Confidence)
	}
	if b.Hint != nil {
		var names []string
		for _, a := range b.Hint.Candidates {
			names = append(names, string(a))
		}
		C.Maybe.Printf("  %s: one of %s\n", b.Hint.Category, strings.Join(names, ", "))
	}
}

// RenderDebrief prints the end-of-game review: every bluffed report, and the
// final belief of any AI seat.
func RenderDebrief(cfg *config.GameConfig, snap game.Snapshot, beliefs map[game.Side]*ai.Belief) {
	C.Header.Println("\n--- Debrief ---")
	bluffed := 0
	for _, entry := range snap.Log {
		if entry.Bluffed {
			fmt.Println(formatEntry(entry, true))
			bluffed++
		}
	}
	if bluffed == 0 {
		C.Info.Println("No report was bluffed.")
	}
	for _, side := range game.Sides {
		fmt.Printf("%s spent %d bluff token(s).\n", ColorizeSide(side), snap.BluffsSpent[side])
	}
	for _, side := range game.Sides {
		if b, ok := beliefs[side]; ok {
			t := beliefTable(cfg, fmt.Sprintf("AI %s's final belief", side), b)
			t.SetOutputMirror(os.Stdout)
			t.Render()
		}
	}
}

// RenderStats prints simulation statistics.
func RenderStats(settings config.Settings, st session.Stats) {
	t := statsTable(settings, st)
	t.SetOutputMirror(os.Stdout)
	t.Render()
}
