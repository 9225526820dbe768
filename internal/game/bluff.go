package game

import (
	"encrypted-signatures/internal/config"

	"github.com/sirupsen/logrus"
)

// UseBluffToken arms an untargeted interception: the next verify the other
// side runs this turn reports inverted correctness.
func (e *Engine) UseBluffToken(side Side) error {
	return e.armBluff(side, nil)
}

// UseTargetedBluff arms an interception that only fires on a verify in cat.
func (e *Engine) UseTargetedBluff(side Side, cat config.Category) error {
	if !cat.Valid() {
		return failf(CodeInvalidSelection, "unknown category %d", cat)
	}
	return e.armBluff(side, &cat)
}

// armBluff spends one token. Tokens are only spendable by the side that is
// not acting, and at most one interception per side may be armed at a time.
func (e *Engine) armBluff(side Side, target *config.Category) error {
	if err := e.checkLive(); err != nil {
		return err
	}
	if side != Investigator && side != Opponent {
		return failf(CodeInvalidSelection, "unknown side %d", side)
	}
	st := e.st
	if st.current == side {
		return failf(CodeWrongTurn, "a bluff can only be armed during the %s's turn", side.Other())
	}
	if st.tokens[side] <= 0 {
		return ErrNoBluffTokens
	}
	if st.bluffs[side].armed {
		return ErrBluffAlreadyArmed
	}

	st.tokens[side]--
	st.bluffsSpent[side]++
	st.bluffs[side] = pendingBluff{armed: true, target: target}

	fields := logrus.Fields{"game": st.id, "side": side, "tokens": st.tokens[side]}
	if target != nil {
		fields["target"] = *target
	}
	e.log.WithFields(fields).Debug("Bluff armed")

	actor := side
	e.appendLog(LogEntry{
		Turn:    st.turn,
		Actor:   &actor,
		Kind:    "bluff",
		Message: side.String() + " used a counter-intelligence token to bluff.",
		Secret:  true,
	})
	e.EventManager.Publish(BluffArmedEvent{GameID: st.id, Side: side})
	return nil
}
