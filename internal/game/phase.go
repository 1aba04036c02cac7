package game

import (
	"dreadhall/internal/event"
	"dreadhall/internal/rng"
)

// authRule says who may submit an action in a given phase.
type authRule int

const (
	authActive      authRule = iota // active seat only
	authCoLocated                   // any player sharing the active player's tile
	authOfferTarget                 // the challenged player of the pending offer
	authDuelist                     // a participant of the active duel
	authAny
)

// legality is the whole phase machine as data: phase to legal action
// types to who may submit them. An action type absent from a phase's
// row is illegal in that phase, full stop.
var legality = map[Phase]map[ActionType]authRule{
	PhaseSetup: {
		ActionStartGame: authAny,
	},
	PhaseManage: {
		ActionRollMovement:   authActive,
		ActionChooseSleep:    authActive,
		ActionEndTurn:        authActive,
		ActionEquipItem:      authActive,
		ActionUnequipItem:    authActive,
		ActionSwapEquipment:  authActive,
		ActionDropItem:       authActive,
		ActionUseItem:        authActive,
		ActionConsumePotion:  authActive,
		ActionPlayHeldEffect: authActive,
		ActionOfferDuel:      authCoLocated,
		ActionPickUpDropped:  authCoLocated,
	},
	PhasePreDuel: {
		ActionAcceptDuel:  authOfferTarget,
		ActionDeclineDuel: authOfferTarget,
	},
	PhaseBranchChoice: {
		ActionChooseBranch: authActive,
	},
	PhaseResolveTile: {
		ActionResolvePendingTile: authActive,
		ActionStartCombat:        authActive,
		ActionUseItem:            authActive,
		ActionConsumePotion:      authActive,
		ActionPlayHeldEffect:     authActive,
	},
	PhaseCombat: {
		ActionRollCombat:    authActive,
		ActionRetreat:       authActive,
		ActionUseItem:       authActive,
		ActionConsumePotion: authActive,
	},
	PhaseDuel: {
		ActionRollCombat: authDuelist,
		ActionRetreat:    authDuelist,
	},
	PhaseEndTurn: {
		ActionEndTurn: authActive,
	},
}

// authorize checks the phase/actor gate for an action. Legality first,
// identity second, so an unknown actor submitting an out-of-phase
// action reads as a phase error.
func (gs *GameState) authorize(a Action) error {
	if gs.Phase == PhaseGameOver {
		return ErrGameOver
	}
	row, ok := legality[gs.Phase]
	if !ok {
		return ErrWrongPhase
	}
	rule, ok := row[a.Type]
	if !ok {
		return ErrWrongPhase
	}
	actor := gs.Players[a.Actor]
	if actor == nil && a.Type != ActionStartGame {
		return ErrUnknownPlayer
	}
	switch rule {
	case authAny:
		return nil
	case authActive:
		if actor.ID != gs.Active().ID {
			return ErrNotAuthorized
		}
	case authCoLocated:
		if actor.ID != gs.Active().ID && actor.Position != gs.Active().Position {
			return ErrNotAuthorized
		}
	case authOfferTarget:
		if gs.Offer == nil {
			return ErrNoPendingOffer
		}
		if actor.ID != gs.Offer.To {
			return ErrNotAuthorized
		}
	case authDuelist:
		d, ok := gs.Combat.(*Duel)
		if !ok {
			return ErrNoCombat
		}
		if actor.ID != d.A && actor.ID != d.B {
			return ErrNotAuthorized
		}
	}
	return nil
}

// stepPhase drains automatic transitions: phases where the machine
// acts on its own until a player decision is next. Safe to call after
// every handler.
func (gs *GameState) stepPhase(rec *event.Recorder) {
	for {
		switch gs.Phase {
		case PhaseTurnStart:
			gs.beginTurn(rec)
			gs.Phase = PhaseManage
		case PhasePostCombat:
			gs.Phase = PhaseCapacity
		case PhaseCapacity:
			p := gs.Active()
			gs.enforceCapacity(rec, p)
			gs.colocatedPickup(rec, p.Position)
			gs.Phase = PhaseEndTurn
		default:
			return
		}
		rec.Emit(event.PhaseChanged, "", map[string]any{"phase": gs.Phase.String()})
	}
}

// beginTurn resets the incoming active player's per-turn state.
func (gs *GameState) beginTurn(rec *event.Recorder) {
	p := gs.Active()
	p.History = nil
	p.Buffs = nil
	rec.Emit(event.TurnStarted, p.ID, map[string]any{"turn": gs.Turn, "seat": gs.ActiveSeat})
}

// startGame shuffles every deck pile and opens turn one. Shuffling
// here rather than at construction puts the permutations in the RNG
// audit log.
func (gs *GameState) startGame(rec *event.Recorder, a Action) error {
	for tier := 1; tier <= 3; tier++ {
		for _, fam := range []DeckFamily{DeckTreasure, DeckChance, DeckEnemy} {
			gs.Decks[DeckKey{fam, tier}].Shuffle(gs.RNG)
			rec.Emit(event.DeckShuffled, a.Actor, map[string]any{"deck": fam.String(), "tier": tier})
		}
	}
	gs.Turn = 1
	gs.ActiveSeat = 0
	gs.Phase = PhaseTurnStart
	rec.Emit(event.GameStarted, a.Actor, map[string]any{"game": gs.GameID, "seats": gs.Seats})
	return nil
}

// rollMovement rolls the movement die and walks forward. The walk
// pauses at an unchosen branch; the branch decision is always an
// explicit follow-up action, never a default.
func (gs *GameState) rollMovement(rec *event.Recorder, a Action) error {
	p := gs.Active()
	if p.Rest {
		return ErrMustRest
	}
	r := gs.RNG.Roll(rng.D6, p.ID, a.RequestID)
	rec.Emit(event.DiceRolled, p.ID, map[string]any{"die": rng.D6.String(), "value": r.Value, "purpose": "movement"})
	return gs.advance(rec, p, r.Value, nil)
}

// chooseBranch resumes a branch-paused walk with the player's picked
// forward edge.
func (gs *GameState) chooseBranch(rec *event.Recorder, a Action) error {
	p := gs.Active()
	if gs.PendingSteps <= 0 {
		return ErrNoBranchChoice
	}
	if a.From != p.Position {
		return ErrBadBranch
	}
	if !edgeExists(gs.Board.Node(p.Position), a.To) {
		return ErrBadBranch
	}
	steps := gs.PendingSteps
	gs.PendingSteps = 0
	return gs.advance(rec, p, steps, map[int]int{a.From: a.To})
}

// advance applies a forward walk result to the player and routes the
// phase machine by how the walk stopped.
func (gs *GameState) advance(rec *event.Recorder, p *PlayerState, steps int, choices map[int]int) error {
	res := ComputeSteps(gs.Board, p.Position, steps, choices, p.History)
	p.Position = res.StoppedOn
	p.History = res.HistoryAfter
	if len(res.Path) > 0 {
		rec.Emit(event.Moved, p.ID, map[string]any{"path": res.Path, "to": res.StoppedOn})
	}
	switch res.Reason {
	case StopBranch:
		gs.PendingSteps = res.Remaining
		gs.Phase = PhaseBranchChoice
	default:
		gs.PendingTile = true
		gs.Phase = PhaseResolveTile
		rec.Emit(event.TileEntered, p.ID, map[string]any{
			"tile": p.Position, "type": gs.Board.Node(p.Position).Type.String(),
		})
	}
	return nil
}

// chooseSleep spends the turn resting: full heal, rest flag cleared,
// straight to end of turn.
func (gs *GameState) chooseSleep(rec *event.Recorder, a Action) error {
	p := gs.Active()
	p.Heal(p.MaxHP)
	p.Rest = false
	gs.Phase = PhaseEndTurn
	rec.Emit(event.PhaseChanged, p.ID, map[string]any{"phase": gs.Phase.String(), "reason": "sleep"})
	return nil
}

// endTurn closes the active player's turn. Final-tile occupancy is
// checked here; otherwise the seat pointer advances and the next turn
// opens.
func (gs *GameState) endTurn(rec *event.Recorder, a Action) error {
	if gs.CombatDue || gs.Combat != nil {
		return ErrCombatDue
	}
	gs.PendingTile = false
	gs.PendingSteps = 0
	next := gs.nextSeat(gs.ActiveSeat)
	if next == 0 {
		// A round is complete; players who reached the goal this round
		// arrived "simultaneously" for tie-break purposes.
		if gs.maybeStartEndgame(rec) {
			return nil
		}
		gs.Turn++
	}
	gs.ActiveSeat = next
	gs.Phase = PhaseTurnStart
	return nil
}
