package game

import "fmt"

// Code is a machine-readable command failure code.
type Code string

const (
	CodeNotInitialized       Code = "NOT_INITIALIZED"
	CodeGameOver             Code = "GAME_OVER"
	CodeWrongTurn            Code = "WRONG_TURN"
	CodeInsufficientPoints   Code = "INSUFFICIENT_ACTION_POINTS"
	CodeInvalidSelection     Code = "INVALID_SELECTION"
	CodeIncompleteAccusation Code = "INCOMPLETE_ACCUSATION"
	CodeNoBluffTokens        Code = "NO_BLUFF_TOKENS"
	CodeBluffAlreadyArmed    Code = "BLUFF_ALREADY_ARMED"
	CodeStaleGame            Code = "STALE_GAME"
)

// Error is a recoverable, caller-facing command failure. Commands that return
// one have not mutated any state.
type Error struct {
	Code    Code
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// Sentinels for errors.Is comparisons.
var (
	ErrNotInitialized       = &Error{Code: CodeNotInitialized, Message: "no game in progress"}
	ErrGameOver             = &Error{Code: CodeGameOver, Message: "the game is over"}
	ErrWrongTurn            = &Error{Code: CodeWrongTurn, Message: "not your turn"}
	ErrInsufficientPoints   = &Error{Code: CodeInsufficientPoints, Message: "not enough action points"}
	ErrInvalidSelection     = &Error{Code: CodeInvalidSelection, Message: "invalid selection"}
	ErrIncompleteAccusation = &Error{Code: CodeIncompleteAccusation, Message: "an accusation needs one attribute for each category"}
	ErrNoBluffTokens        = &Error{Code: CodeNoBluffTokens, Message: "no bluff tokens remaining"}
	ErrBluffAlreadyArmed    = &Error{Code: CodeBluffAlreadyArmed, Message: "a bluff is already armed"}
	ErrStaleGame            = &Error{Code: CodeStaleGame, Message: "the game this request belongs to has been replaced"}
)

func failf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}
