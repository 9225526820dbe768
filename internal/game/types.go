package game

import (
	"fmt"
	"strings"

	"encrypted-signatures/internal/config"
)

// Side identifies one of the two seats at the table.
type Side int

const (
	Investigator Side = iota
	Opponent
)

// Sides lists both seats in turn order.
var Sides = []Side{Investigator, Opponent}

func (s Side) String() string {
	return []string{"Investigator", "Opponent"}[s]
}

// Other returns the opposing seat.
func (s Side) Other() Side {
	if s == Investigator {
		return Opponent
	}
	return Investigator
}

// ActionKind is one of the intelligence-gathering operations.
type ActionKind int

const (
	ActionVerify ActionKind = iota
	ActionScan
	ActionCrossReference
	ActionDeepInvestigation
)

func (k ActionKind) String() string {
	return []string{"verify", "scan", "crossReference", "deepInvestigation"}[k]
}

// ParseActionKind resolves an action kind by name, ignoring case.
func ParseActionKind(s string) (ActionKind, bool) {
	for _, k := range []ActionKind{ActionVerify, ActionScan, ActionCrossReference, ActionDeepInvestigation} {
		if strings.EqualFold(k.String(), s) {
			return k, true
		}
	}
	return 0, false
}

// Action is a fully specified operation request. Fields not used by Kind are ignored.
type Action struct {
	Kind      ActionKind
	Category  config.Category
	Attribute config.Attribute
	Second    config.Category
}

func Verify(cat config.Category, attr config.Attribute) Action {
	return Action{Kind: ActionVerify, Category: cat, Attribute: attr}
}

func Scan(cat config.Category) Action {
	return Action{Kind: ActionScan, Category: cat}
}

func CrossReference(first, second config.Category) Action {
	return Action{Kind: ActionCrossReference, Category: first, Second: second}
}

func DeepInvestigation(cat config.Category) Action {
	return Action{Kind: ActionDeepInvestigation, Category: cat}
}

func (a Action) String() string {
	switch a.Kind {
	case ActionVerify:
		return fmt.Sprintf("verify %s=%s", a.Category, a.Attribute)
	case ActionCrossReference:
		return fmt.Sprintf("crossReference %s/%s", a.Category, a.Second)
	default:
		return fmt.Sprintf("%s %s", a.Kind, a.Category)
	}
}

// CellStatus is a side's discrete belief about one (category, attribute) pair.
type CellStatus int

const (
	StatusUnknown CellStatus = iota
	StatusConfirmed
	StatusLikely
	StatusUncertain
	StatusEliminated
)

func (s CellStatus) String() string {
	return []string{"unknown", "confirmed", "likely", "uncertain", "eliminated"}[s]
}

// ParseCellStatus resolves a status by name, ignoring case.
func ParseCellStatus(s string) (CellStatus, bool) {
	for _, st := range []CellStatus{StatusUnknown, StatusConfirmed, StatusLikely, StatusUncertain, StatusEliminated} {
		if strings.EqualFold(st.String(), s) {
			return st, true
		}
	}
	return 0, false
}

// Result is the terminal outcome of a game, always from the investigator's perspective.
type Result int

const (
	ResultNone Result = iota
	ResultWin
	ResultPartial
	ResultClose
	ResultLoss
	ResultEscape
)

func (r Result) String() string {
	return []string{"none", "win", "partial", "close", "loss", "escape"}[r]
}

// Invert maps an outcome onto the other side's perspective.
func (r Result) Invert() Result {
	switch r {
	case ResultWin:
		return ResultLoss
	case ResultLoss:
		return ResultWin
	case ResultPartial:
		return ResultClose
	case ResultClose:
		return ResultPartial
	default:
		return r
	}
}

// Phase is the state of the turn machine.
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseInvestigatorTurn
	PhaseOpponentTurn
	PhaseGameOver
)

func (p Phase) String() string {
	return []string{"setup", "investigatorTurn", "opponentTurn", "gameOver"}[p]
}

// Profile is the hidden ground truth: exactly one attribute per category.
type Profile struct {
	attrs [4]config.Attribute
}

// NewProfile builds a profile from a complete category mapping.
func NewProfile(m map[config.Category]config.Attribute) Profile {
	var p Profile
	for cat, attr := range m {
		if cat.Valid() {
			p.attrs[cat] = attr
		}
	}
	return p
}

// Attribute returns the true attribute of cat.
func (p Profile) Attribute(cat config.Category) config.Attribute {
	return p.attrs[cat]
}

// Map returns a copy of the profile as a mapping.
func (p Profile) Map() map[config.Category]config.Attribute {
	m := make(map[config.Category]config.Attribute, len(p.attrs))
	for _, cat := range config.Categories {
		m[cat] = p.attrs[cat]
	}
	return m
}

func (p Profile) String() string {
	parts := make([]string, 0, len(config.Categories))
	for _, cat := range config.Categories {
		parts = append(parts, fmt.Sprintf("%s: %s", cat, p.attrs[cat]))
	}
	return strings.Join(parts, ", ")
}

// Accusation is a terminal full-profile guess.
type Accusation map[config.Category]config.Attribute

// LogEntry is one append-only line of the game log. Message is public;
// Detail carries the actor's private result and Secret hides the whole entry
// from the other side. Both are lifted once the game is over.
type LogEntry struct {
	Turn         int
	Actor        *Side
	Kind         string
	Message      string
	Detail       string
	Secret       bool
	Urgent       bool
	CriticalInfo bool

	// Bluffed marks a report corrupted by a bluff token; Deceived is the side
	// that received it. Snapshots hide the mark from Deceived until game over.
	Bluffed  bool
	Deceived Side
}

// Public returns the entry as the side that did not act may see it during
// play. ok is false when the entry must not be shown at all.
func (l LogEntry) Public() (entry LogEntry, ok bool) {
	if l.Actor == nil {
		return l, true
	}
	if l.Secret {
		return LogEntry{}, false
	}
	l.Detail = ""
	return l, true
}

// Text joins the public message and, when present, the private detail.
func (l LogEntry) Text() string {
	if l.Detail == "" {
		return l.Message
	}
	return l.Message + " " + l.Detail
}
