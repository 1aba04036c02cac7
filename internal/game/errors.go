package game

import (
	"errors"
	"fmt"
)

// Invalid-action causes. All are wrapped in InvalidActionError, checked
// with errors.Is. A rejected action leaves the state untouched and
// emits no events.
var (
	ErrWrongPhase     = errors.New("action not legal in current phase")
	ErrNotAuthorized  = errors.New("actor is not allowed to act now")
	ErrUnknownPlayer  = errors.New("unknown player")
	ErrGameOver       = errors.New("game is over")
	ErrNoSuchItem     = errors.New("item not found")
	ErrSlotOccupied   = errors.New("destination slot is occupied")
	ErrIncompatible   = errors.New("item cannot go in that container")
	ErrNoCapacity     = errors.New("no remaining capacity")
	ErrNoPendingOffer = errors.New("no pending duel offer")
	ErrNoPendingTile  = errors.New("no pending tile to resolve")
	ErrNoBranchChoice = errors.New("no branch choice is pending")
	ErrBadBranch      = errors.New("branch choice does not match a forward edge")
	ErrNoCombat       = errors.New("no active combat")
	ErrCombatDue      = errors.New("combat must be started first")
	ErrTargetDefeated = errors.New("target is already defeated")
	ErrNotCoLocated   = errors.New("players do not share a tile")
	ErrMustRest       = errors.New("player is flagged to rest")
	ErrSelfTarget     = errors.New("cannot target yourself")
)

// ErrInvariant marks an internal-bug class of failure: the action is
// aborted and the draft state discarded rather than risking silent
// corruption.
var ErrInvariant = errors.New("engine invariant violated")

// InvalidActionError reports a rejected action. The reason is surfaced
// only to the offending actor; the rest of the table sees nothing.
type InvalidActionError struct {
	Action ActionType
	Actor  string
	Err    error
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("invalid %s by %s: %v", e.Action, e.Actor, e.Err)
}

func (e *InvalidActionError) Unwrap() error { return e.Err }

func invalid(a Action, err error) error {
	return &InvalidActionError{Action: a.Type, Actor: a.Actor, Err: err}
}
