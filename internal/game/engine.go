package game

import (
	"errors"
	"fmt"

	"dreadhall/internal/catalog"
	"dreadhall/internal/event"
)

// handlers maps every action type to its handler. Dispatch is one
// lookup; the phase machine has already gated legality and identity
// before a handler runs.
var handlers = map[ActionType]func(gs *GameState, rec *event.Recorder, a Action) error{
	ActionStartGame:          (*GameState).startGame,
	ActionRollMovement:       (*GameState).rollMovement,
	ActionChooseSleep:        (*GameState).chooseSleep,
	ActionChooseBranch:       (*GameState).chooseBranch,
	ActionResolvePendingTile: (*GameState).resolvePendingTile,
	ActionRetreat:            (*GameState).retreat,
	ActionEndTurn:            (*GameState).endTurn,
	ActionOfferDuel:          (*GameState).offerDuel,
	ActionAcceptDuel:         (*GameState).acceptDuel,
	ActionDeclineDuel:        (*GameState).declineDuel,
	ActionUseItem:            useItemHandler,
	ActionEquipItem: func(gs *GameState, rec *event.Recorder, a Action) error {
		return gs.equip(rec, gs.Players[a.Actor], a.ItemID)
	},
	ActionUnequipItem: func(gs *GameState, rec *event.Recorder, a Action) error {
		return gs.unequip(rec, gs.Players[a.Actor], a.ItemID)
	},
	ActionSwapEquipment: func(gs *GameState, rec *event.Recorder, a Action) error {
		return gs.swapEquipment(rec, gs.Players[a.Actor], a.Moves)
	},
	ActionDropItem: func(gs *GameState, rec *event.Recorder, a Action) error {
		return gs.drop(rec, gs.Players[a.Actor], a.ItemID)
	},
	ActionPickUpDropped: func(gs *GameState, rec *event.Recorder, a Action) error {
		return gs.pickUpDropped(rec, gs.Players[a.Actor], a.ItemIDs)
	},
	ActionConsumePotion: func(gs *GameState, rec *event.Recorder, a Action) error {
		return gs.useDrinkable(rec, gs.Players[a.Actor], a.ItemID)
	},
	ActionPlayHeldEffect: func(gs *GameState, rec *event.Recorder, a Action) error {
		return gs.playHeldEffect(rec, gs.Players[a.Actor], a.ItemID)
	},
	ActionStartCombat: (*GameState).startFight,
	ActionRollCombat:  rollCombatHandler,
}

// useItemHandler routes a generic use by the item's category.
func useItemHandler(gs *GameState, rec *event.Recorder, a Action) error {
	p := gs.Players[a.Actor]
	_, it, ok := findItem(p, a.ItemID)
	if !ok {
		return ErrNoSuchItem
	}
	def, err := gs.Catalog.Item(it.DefID)
	if err != nil {
		return err
	}
	switch def.Category {
	case catalog.CategoryDrinkable:
		return gs.useDrinkable(rec, p, a.ItemID)
	case catalog.CategorySmall:
		return gs.playHeldEffect(rec, p, a.ItemID)
	default:
		return fmt.Errorf("%w: %s has no use effect", ErrIncompatible, def.Name)
	}
}

// rollCombatHandler resolves one round of whichever combat is active.
func rollCombatHandler(gs *GameState, rec *event.Recorder, a Action) error {
	switch gs.Combat.(type) {
	case *Fight:
		return gs.resolveFightRound(rec, a)
	case *Duel:
		return gs.resolveDuelRound(rec, a)
	default:
		return ErrNoCombat
	}
}

// ApplyAction is the engine's single entry point. The input state is
// never mutated: a rejected action returns it unchanged with no
// events, an accepted one returns a new state with its version bumped
// by exactly one and the events describing what happened.
func ApplyAction(gs *GameState, a Action, ctx Context) (*GameState, []event.Event, error) {
	if err := gs.authorize(a); err != nil {
		return gs, nil, invalid(a, err)
	}
	h, ok := handlers[a.Type]
	if !ok {
		return gs, nil, invalid(a, ErrWrongPhase)
	}
	draft := gs.Clone()
	rec := event.NewRecorder(ctx.Now)
	if err := h(draft, rec, a); err != nil {
		if errors.Is(err, ErrInvariant) {
			return gs, nil, err
		}
		return gs, nil, invalid(a, err)
	}
	draft.stepPhase(rec)
	draft.Version++
	return draft, rec.Events(), nil
}

// StepPhase drains any automatic transitions without a player action.
// Returns the input state untouched when nothing was due.
func StepPhase(gs *GameState, ctx Context) (*GameState, []event.Event, error) {
	draft := gs.Clone()
	rec := event.NewRecorder(ctx.Now)
	draft.stepPhase(rec)
	if len(rec.Events()) == 0 {
		return gs, nil, nil
	}
	draft.Version++
	return draft, rec.Events(), nil
}

// --- Public projection ---

// PublicPlayer is what the table sees of a player: equipment is open
// information, the hidden containers show as counts only.
type PublicPlayer struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Seat      int           `json:"seat"`
	Class     catalog.Class `json:"class"`
	Position  int           `json:"position"`
	HP        int           `json:"hp"`
	MaxHP     int           `json:"maxHp"`
	Wearable  string        `json:"wearable,omitempty"` // item def id
	Holdable  []string      `json:"holdable,omitempty"`
	Bandolier int           `json:"bandolier"` // count only
	Backpack  int           `json:"backpack"`  // count only
	Rest      bool          `json:"rest"`
}

// PublicEnemy narrows an enemy to identity, tier and current HP; the
// combat bonus columns stay hidden.
type PublicEnemy struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Tier int    `json:"tier"`
	HP   int    `json:"hp"`
}

// PublicTile shows floor drops and the narrowed enemies.
type PublicTile struct {
	Dropped []string      `json:"dropped,omitempty"` // item def ids, drop order
	Enemies []PublicEnemy `json:"enemies,omitempty"`
}

// PublicDeck hides pile order, exposing counts only.
type PublicDeck struct {
	Draw    int `json:"draw"`
	Discard int `json:"discard"`
}

// PublicCombat identifies the combat without its internals.
type PublicCombat struct {
	Kind         string   `json:"kind"`
	Participants []string `json:"participants"`
	Round        int      `json:"round"`
}

// PublicView is the spectator-safe projection of a game.
type PublicView struct {
	GameID     string             `json:"gameId"`
	Phase      string             `json:"phase"`
	Turn       int                `json:"turn"`
	ActiveSeat int                `json:"activeSeat"`
	Seats      []string           `json:"seats"`
	Players    []PublicPlayer     `json:"players"`
	Tiles      map[int]PublicTile `json:"tiles,omitempty"`
	Decks      map[string]PublicDeck `json:"decks"`
	Combat     *PublicCombat      `json:"combat,omitempty"`
	Offer      *DuelOffer         `json:"offer,omitempty"`
	Version    uint64             `json:"version"`
	Winner     string             `json:"winner,omitempty"`
}

// ToPublicView projects the aggregate for spectators and the table at
// large: hidden container contents, deck order, and full enemy stat
// lines are all withheld.
func ToPublicView(gs *GameState) PublicView {
	v := PublicView{
		GameID:     gs.GameID,
		Phase:      gs.Phase.String(),
		Turn:       gs.Turn,
		ActiveSeat: gs.ActiveSeat,
		Seats:      append([]string(nil), gs.Seats...),
		Decks:      make(map[string]PublicDeck, len(gs.Decks)),
		Version:    gs.Version,
		Winner:     gs.Winner,
	}
	for _, id := range gs.Seats {
		p := gs.Players[id]
		pp := PublicPlayer{
			ID: p.ID, Name: p.Name, Seat: p.Seat, Class: p.Class,
			Position: p.Position, HP: p.HP, MaxHP: p.MaxHP,
			Bandolier: len(p.Bandolier), Backpack: len(p.Backpack),
			Rest: p.Rest,
		}
		if p.Wearable != nil {
			pp.Wearable = p.Wearable.DefID
		}
		for _, h := range p.Holdable {
			if h != nil {
				pp.Holdable = append(pp.Holdable, h.DefID)
			}
		}
		v.Players = append(v.Players, pp)
	}
	for id, t := range gs.Tiles {
		if len(t.Dropped) == 0 && len(t.Enemies) == 0 {
			continue
		}
		pt := PublicTile{}
		for _, it := range t.Dropped {
			pt.Dropped = append(pt.Dropped, it.DefID)
		}
		for _, e := range t.Enemies {
			pe := PublicEnemy{ID: e.ID, HP: e.HP}
			if def, err := gs.Catalog.Enemy(e.DefID); err == nil {
				pe.Name = def.Name
				pe.Tier = def.Tier
			}
			pt.Enemies = append(pt.Enemies, pe)
		}
		if v.Tiles == nil {
			v.Tiles = make(map[int]PublicTile)
		}
		v.Tiles[id] = pt
	}
	for k, d := range gs.Decks {
		name := fmt.Sprintf("%s-%d", k.Family, k.Tier)
		v.Decks[name] = PublicDeck{Draw: len(d.Draw), Discard: len(d.Discard)}
	}
	switch c := gs.Combat.(type) {
	case *Fight:
		v.Combat = &PublicCombat{Kind: c.combatKind(), Participants: []string{c.PlayerID}, Round: c.Round}
	case *Duel:
		v.Combat = &PublicCombat{Kind: c.combatKind(), Participants: []string{c.A, c.B}, Round: c.Round}
	}
	if gs.Offer != nil {
		o := *gs.Offer
		v.Offer = &o
	}
	return v
}
