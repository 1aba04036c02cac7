// Package event defines the engine's domain events: immutable facts
// describing what an applied action changed and why. Events are
// append-only per game; one or more are emitted for every applied
// action.
package event

import (
	"time"

	"github.com/google/uuid"
)

// Type enumerates all observable domain events.
type Type string

const (
	GameStarted            Type = "GameStarted"
	TurnStarted            Type = "TurnStarted"
	PhaseChanged           Type = "PhaseChanged"
	DiceRolled             Type = "DiceRolled"
	Moved                  Type = "Moved"
	TileEntered            Type = "TileEntered"
	EnemySpawned           Type = "EnemySpawned"
	CombatStarted          Type = "CombatStarted"
	CombatRoundResolved    Type = "CombatRoundResolved"
	FightEnded             Type = "FightEnded"
	DuelOffered            Type = "DuelOffered"
	DuelAccepted           Type = "DuelAccepted"
	DuelDeclined           Type = "DuelDeclined"
	DuelCancelled          Type = "DuelCancelled"
	DuelStarted            Type = "DuelStarted"
	DuelEnded              Type = "DuelEnded"
	RetreatExecuted        Type = "RetreatExecuted"
	TreasureDrawn          Type = "TreasureDrawn"
	ChanceCardResolved     Type = "ChanceCardResolved"
	ItemGained             Type = "ItemGained"
	ItemEquipped           Type = "ItemEquipped"
	ItemUnequipped         Type = "ItemUnequipped"
	ItemUsed               Type = "ItemUsed"
	ItemDropped            Type = "ItemDropped"
	CapacityEnforced       Type = "CapacityEnforced"
	DeckShuffled           Type = "DeckShuffled"
	FinalTieBreakerStarted Type = "FinalTieBreakerStarted"
	FinalTieBreakerEnded   Type = "FinalTieBreakerEnded"
	GameEnded              Type = "GameEnded"
)

// Event is one immutable domain fact.
type Event struct {
	ID      string         `json:"id"`
	TS      time.Time      `json:"ts"`
	Type    Type           `json:"type"`
	Actor   string         `json:"actor,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Recorder accumulates the events of one engine transition. A fresh
// recorder is created per applied action; its events are returned to
// the caller only if the action succeeds.
type Recorder struct {
	now    time.Time
	events []Event
}

// NewRecorder returns a recorder stamping events with the given time.
func NewRecorder(now time.Time) *Recorder {
	return &Recorder{now: now}
}

// Emit appends one event.
func (r *Recorder) Emit(t Type, actor string, payload map[string]any) {
	r.events = append(r.events, Event{
		ID:      uuid.NewString(),
		TS:      r.now,
		Type:    t,
		Actor:   actor,
		Payload: payload,
	})
}

// Events returns everything emitted so far, in order.
func (r *Recorder) Events() []Event {
	return r.events
}

// OfType returns the recorded events matching the given type.
func (r *Recorder) OfType(t Type) []Event {
	var out []Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
