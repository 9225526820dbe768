package game

import "encrypted-signatures/internal/config"

// Strength is the qualitative result of a cross-reference.
type Strength int

const (
	StrengthWeak Strength = iota
	StrengthStrong
)

func (s Strength) String() string {
	return []string{"weak", "strong"}[s]
}

// ActionResult is the payload returned (and published) for a successful action.
// Exactly one of the report pointers is set, matching Action.Kind.
type ActionResult struct {
	Side    Side
	Action  Action
	Cost    int
	Message string

	Verify         *VerifyReport
	Scan           *ScanReport
	CrossReference *CrossReferenceReport
	Deep           *DeepReport
}

// VerifyReport is what the acting side learns from a verify. Correct is the
// reported correctness, which a bluff may have inverted.
type VerifyReport struct {
	Category   config.Category
	Attribute  config.Attribute
	Correct    bool
	Confidence int
	Status     CellStatus
}

// ScanReport counts the acting side's confirmed/likely cells that match the truth.
type ScanReport struct {
	Category config.Category
	Matches  int
	Clue     string
}

// CrossReferenceReport grades how strongly the two categories' true attributes correlate.
type CrossReferenceReport struct {
	First       config.Category
	Second      config.Category
	Strength    Strength
	Description string
}

// DeepReport is the outcome of a deep investigation.
type DeepReport struct {
	Category    config.Category
	Success     bool
	Description string
	Revealed    bool
	Attribute   config.Attribute
}

// Verdict is the result payload of an accusation.
type Verdict struct {
	Result   Result
	Accuracy float64
	Message  string
}
