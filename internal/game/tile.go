package game

import (
	"github.com/google/uuid"

	"dreadhall/internal/board"
	"dreadhall/internal/catalog"
	"dreadhall/internal/event"
)

// tileHandlers dispatches tile resolution by node type. Adding a tile
// type means adding a row here, not a branch in the engine.
var tileHandlers = map[board.NodeType]func(gs *GameState, rec *event.Recorder, p *PlayerState) error{
	board.NodeStart:     resolveInert,
	board.NodeEmpty:     resolveInert,
	board.NodeFinal:     resolveInert,
	board.NodeEnemy:     resolveEnemyTile,
	board.NodeTreasure:  resolveTreasureTile,
	board.NodeChance:    resolveChanceTile,
	board.NodeSanctuary: resolveSanctuaryTile,
}

// resolvePendingTile applies the current tile's entry effect. Called
// once per entered stop; inert tiles resolve to nothing.
func (gs *GameState) resolvePendingTile(rec *event.Recorder, a Action) error {
	if !gs.PendingTile {
		return ErrNoPendingTile
	}
	p := gs.Active()
	handler, ok := tileHandlers[gs.Board.Node(p.Position).Type]
	if !ok {
		return ErrInvariant
	}
	gs.PendingTile = false
	if err := handler(gs, rec, p); err != nil {
		return err
	}
	if !gs.CombatDue {
		gs.Phase = PhaseCapacity
	}
	return nil
}

func resolveInert(gs *GameState, rec *event.Recorder, p *PlayerState) error {
	return nil
}

// resolveEnemyTile rolls the tier's composition die, draws that many
// enemy cards, and spawns them on the tile. Combat does not start by
// itself; the player must open it (or stand and face it next action).
// Enemies already alive on the tile from an earlier retreat join the
// pending fight instead of spawning doubles.
func resolveEnemyTile(gs *GameState, rec *event.Recorder, p *PlayerState) error {
	tile := gs.Tile(p.Position)
	tier := gs.Board.Node(p.Position).Tier
	if tile.LiveEnemies() {
		gs.CombatDue = true
		return nil
	}
	die, roll, count := rollEnemyComposition(gs.RNG, tier, p.ID)
	rec.Emit(event.DiceRolled, p.ID, map[string]any{"die": die.String(), "value": roll, "purpose": "enemy composition"})
	deck := gs.Decks[DeckKey{DeckEnemy, tier}]
	cards, reshuffled := deck.DrawCards(gs.RNG, count)
	if reshuffled {
		rec.Emit(event.DeckShuffled, p.ID, map[string]any{"deck": "enemy", "tier": tier})
	}
	for _, id := range cards {
		def, err := gs.Catalog.Enemy(id)
		if err != nil {
			return err
		}
		e := &EnemyInstance{ID: uuid.NewString(), DefID: def.ID, HP: def.HP}
		tile.Enemies = append(tile.Enemies, e)
		rec.Emit(event.EnemySpawned, p.ID, map[string]any{"enemy": e.ID, "def": def.ID, "tile": p.Position})
		deck.DiscardCards(id)
	}
	if len(cards) > 0 {
		gs.CombatDue = true
	}
	return nil
}

// resolveTreasureTile draws one treasure card of the tile's tier and
// stows the item; the capacity phase deals with overflow.
func resolveTreasureTile(gs *GameState, rec *event.Recorder, p *PlayerState) error {
	tier := gs.Board.Node(p.Position).Tier
	deck := gs.Decks[DeckKey{DeckTreasure, tier}]
	cards, reshuffled := deck.DrawCards(gs.RNG, 1)
	if reshuffled {
		rec.Emit(event.DeckShuffled, p.ID, map[string]any{"deck": "treasure", "tier": tier})
	}
	if len(cards) == 0 {
		return nil // both piles exhausted: the tile simply yields nothing
	}
	def, err := gs.Catalog.Item(cards[0])
	if err != nil {
		return err
	}
	it := ItemInstance{ID: uuid.NewString(), DefID: def.ID}
	stow(p, def, it)
	rec.Emit(event.TreasureDrawn, p.ID, map[string]any{"def": def.ID, "tier": tier})
	rec.Emit(event.ItemGained, p.ID, map[string]any{"item": it.ID, "def": def.ID, "source": "treasure"})
	return nil
}

// resolveChanceTile draws one chance card and applies it immediately.
// The card is discarded either way.
func resolveChanceTile(gs *GameState, rec *event.Recorder, p *PlayerState) error {
	tier := gs.Board.Node(p.Position).Tier
	deck := gs.Decks[DeckKey{DeckChance, tier}]
	cards, reshuffled := deck.DrawCards(gs.RNG, 1)
	if reshuffled {
		rec.Emit(event.DeckShuffled, p.ID, map[string]any{"deck": "chance", "tier": tier})
	}
	if len(cards) == 0 {
		return nil
	}
	def, err := gs.Catalog.ChanceCard(cards[0])
	if err != nil {
		return err
	}
	switch def.Effect {
	case catalog.ChanceHeal:
		p.Heal(def.Amount)
	case catalog.ChanceDamage:
		p.ApplyDamage(def.Amount)
	case catalog.ChanceStepBack:
		pos, _, history := StepsBack(gs.Board, p.Position, def.Amount, p.History)
		p.Position = pos
		p.History = history
	case catalog.ChanceGainItem:
		if item, err := gs.Catalog.Item(def.ItemID); err == nil {
			it := ItemInstance{ID: uuid.NewString(), DefID: item.ID}
			stow(p, item, it)
			rec.Emit(event.ItemGained, p.ID, map[string]any{"item": it.ID, "def": item.ID, "source": "chance"})
		}
	case catalog.ChanceLoseItem:
		gs.loseNewestItem(rec, p)
	}
	deck.DiscardCards(def.ID)
	rec.Emit(event.ChanceCardResolved, p.ID, map[string]any{"card": def.ID, "effect": def.Effect.String()})
	return nil
}

// loseNewestItem discards the most recently stowed carried item, trying
// the backpack before the bandolier. Equipped items are safe.
func (gs *GameState) loseNewestItem(rec *event.Recorder, p *PlayerState) {
	var it ItemInstance
	switch {
	case len(p.Backpack) > 0:
		it = p.Backpack[len(p.Backpack)-1]
		p.Backpack = p.Backpack[:len(p.Backpack)-1]
	case len(p.Bandolier) > 0:
		it = p.Bandolier[len(p.Bandolier)-1]
		p.Bandolier = p.Bandolier[:len(p.Bandolier)-1]
	default:
		return
	}
	if def, err := gs.Catalog.Item(it.DefID); err == nil {
		gs.Decks[DeckKey{DeckTreasure, def.Tier}].DiscardCards(def.ID)
	}
	rec.Emit(event.ItemDropped, p.ID, map[string]any{"item": it.ID, "def": it.DefID, "reason": "chance"})
}

func resolveSanctuaryTile(gs *GameState, rec *event.Recorder, p *PlayerState) error {
	p.Heal(1)
	return nil
}
