package game

import (
	"fmt"

	"dreadhall/internal/catalog"
	"dreadhall/internal/event"
)

// itemLocation addresses one item on a player.
type itemLocation struct {
	Container catalog.Container
	Index     int
}

// findItem locates an item anywhere on the player.
func findItem(p *PlayerState, itemID string) (itemLocation, ItemInstance, bool) {
	if p.Wearable != nil && p.Wearable.ID == itemID {
		return itemLocation{catalog.ContainerWearSlot, 0}, *p.Wearable, true
	}
	for i, h := range p.Holdable {
		if h != nil && h.ID == itemID {
			return itemLocation{catalog.ContainerHoldSlot, i}, *h, true
		}
	}
	for i, it := range p.Bandolier {
		if it.ID == itemID {
			return itemLocation{catalog.ContainerBandolier, i}, it, true
		}
	}
	for i, it := range p.Backpack {
		if it.ID == itemID {
			return itemLocation{catalog.ContainerBackpack, i}, it, true
		}
	}
	return itemLocation{}, ItemInstance{}, false
}

// removeAt takes the item out of its location.
func removeAt(p *PlayerState, loc itemLocation) ItemInstance {
	switch loc.Container {
	case catalog.ContainerWearSlot:
		it := *p.Wearable
		p.Wearable = nil
		return it
	case catalog.ContainerHoldSlot:
		it := *p.Holdable[loc.Index]
		p.Holdable[loc.Index] = nil
		return it
	case catalog.ContainerBandolier:
		it := p.Bandolier[loc.Index]
		p.Bandolier = append(p.Bandolier[:loc.Index], p.Bandolier[loc.Index+1:]...)
		return it
	default:
		it := p.Backpack[loc.Index]
		p.Backpack = append(p.Backpack[:loc.Index], p.Backpack[loc.Index+1:]...)
		return it
	}
}

// insertAt places an item into a destination container. Slot is only
// consulted for hold slots; -1 means first free. Capacity and category
// compatibility are both enforced here.
func (gs *GameState) insertAt(p *PlayerState, it ItemInstance, dst catalog.Container, slot int) error {
	def, err := gs.Catalog.Item(it.DefID)
	if err != nil {
		return err
	}
	if !catalog.Allowed(def.Category, dst) {
		return fmt.Errorf("%w: %s in %s", ErrIncompatible, def.Category, dst)
	}
	bandolierCap, backpackCap := gs.capacities(p)
	switch dst {
	case catalog.ContainerWearSlot:
		if p.Wearable != nil {
			return ErrSlotOccupied
		}
		p.Wearable = &it
	case catalog.ContainerHoldSlot:
		if slot < 0 {
			slot = freeHoldSlot(p)
			if slot < 0 {
				return ErrSlotOccupied
			}
		}
		if slot >= HoldableSlots || p.Holdable[slot] != nil {
			return ErrSlotOccupied
		}
		p.Holdable[slot] = &it
	case catalog.ContainerBandolier:
		if len(p.Bandolier) >= bandolierCap {
			return ErrNoCapacity
		}
		p.Bandolier = append(p.Bandolier, it)
	default:
		if len(p.Backpack) >= backpackCap {
			return ErrNoCapacity
		}
		p.Backpack = append(p.Backpack, it)
	}
	return nil
}

func freeHoldSlot(p *PlayerState) int {
	for i, h := range p.Holdable {
		if h == nil {
			return i
		}
	}
	return -1
}

// stow places a newly gained item in its natural container: drinkables
// in the bandolier, everything else in the backpack. Capacity is NOT
// checked; the capacity phase enforces it afterwards.
func stow(p *PlayerState, def catalog.ItemDef, it ItemInstance) {
	if def.Category == catalog.CategoryDrinkable {
		p.Bandolier = append(p.Bandolier, it)
		return
	}
	p.Backpack = append(p.Backpack, it)
}

// equip moves an item from a carry container into the matching
// equipment slot.
func (gs *GameState) equip(rec *event.Recorder, p *PlayerState, itemID string) error {
	loc, it, ok := findItem(p, itemID)
	if !ok {
		return ErrNoSuchItem
	}
	if loc.Container == catalog.ContainerWearSlot || loc.Container == catalog.ContainerHoldSlot {
		return fmt.Errorf("%w: already equipped", ErrSlotOccupied)
	}
	def, err := gs.Catalog.Item(it.DefID)
	if err != nil {
		return err
	}
	// Check the destination before touching the source container, so a
	// failed equip leaves the item where it was.
	var dst catalog.Container
	switch def.Category {
	case catalog.CategoryWearable:
		dst = catalog.ContainerWearSlot
		if p.Wearable != nil {
			return ErrSlotOccupied
		}
	case catalog.CategoryHoldable:
		dst = catalog.ContainerHoldSlot
		if freeHoldSlot(p) < 0 {
			return ErrSlotOccupied
		}
	default:
		return fmt.Errorf("%w: %s is not equippable", ErrIncompatible, def.Category)
	}
	removeAt(p, loc)
	if err := gs.insertAt(p, it, dst, -1); err != nil {
		return err
	}
	rec.Emit(event.ItemEquipped, p.ID, map[string]any{"item": it.ID, "def": it.DefID})
	return nil
}

// unequip moves an equipped item back into the backpack.
func (gs *GameState) unequip(rec *event.Recorder, p *PlayerState, itemID string) error {
	loc, it, ok := findItem(p, itemID)
	if !ok {
		return ErrNoSuchItem
	}
	if loc.Container != catalog.ContainerWearSlot && loc.Container != catalog.ContainerHoldSlot {
		return fmt.Errorf("%w: not equipped", ErrNoSuchItem)
	}
	_, backpackCap := gs.capacities(p)
	if len(p.Backpack) >= backpackCap {
		return ErrNoCapacity
	}
	removeAt(p, loc)
	p.Backpack = append(p.Backpack, it)
	rec.Emit(event.ItemUnequipped, p.ID, map[string]any{"item": it.ID, "def": it.DefID})
	return nil
}

// swapEquipment applies a batch of moves atomically in two phases:
// every source is removed into temporary holding first, then each item
// is re-inserted at its destination. A slot-for-slot exchange therefore
// never transiently violates capacity, and any incompatible or occupied
// destination fails the whole batch before the facade publishes the
// draft.
func (gs *GameState) swapEquipment(rec *event.Recorder, p *PlayerState, moves []SwapMove) error {
	type held struct {
		item ItemInstance
		move SwapMove
	}
	holding := make([]held, 0, len(moves))
	for _, m := range moves {
		loc, it, ok := findItem(p, m.ItemID)
		if !ok {
			return fmt.Errorf("%w: %s", ErrNoSuchItem, m.ItemID)
		}
		removeAt(p, loc)
		holding = append(holding, held{item: it, move: m})
	}
	for _, h := range holding {
		slot := h.move.Slot
		if h.move.To != catalog.ContainerHoldSlot {
			slot = -1
		}
		if err := gs.insertAt(p, h.item, h.move.To, slot); err != nil {
			return err
		}
		rec.Emit(event.ItemEquipped, p.ID, map[string]any{
			"item": h.item.ID, "def": h.item.DefID, "to": h.move.To.String(),
		})
	}
	return nil
}

// drop moves an item from the player to the current tile's floor.
func (gs *GameState) drop(rec *event.Recorder, p *PlayerState, itemID string) error {
	loc, it, ok := findItem(p, itemID)
	if !ok {
		return ErrNoSuchItem
	}
	removeAt(p, loc)
	tile := gs.Tile(p.Position)
	tile.Dropped = append(tile.Dropped, it)
	rec.Emit(event.ItemDropped, p.ID, map[string]any{"item": it.ID, "def": it.DefID, "tile": p.Position})
	return nil
}

// enforceCapacity pops most-recently-added items (LIFO) from any
// over-cap container onto the player's tile until both hidden
// containers are at or under cap. One capacity-violation event is
// emitted per enforcement pass, plus one drop event per item shed.
func (gs *GameState) enforceCapacity(rec *event.Recorder, p *PlayerState) {
	bandolierCap, backpackCap := gs.capacities(p)
	tile := gs.Tile(p.Position)
	var shed []string
	for len(p.Bandolier) > bandolierCap {
		it := p.Bandolier[len(p.Bandolier)-1]
		p.Bandolier = p.Bandolier[:len(p.Bandolier)-1]
		tile.Dropped = append(tile.Dropped, it)
		shed = append(shed, it.ID)
		rec.Emit(event.ItemDropped, p.ID, map[string]any{"item": it.ID, "def": it.DefID, "tile": p.Position})
	}
	for len(p.Backpack) > backpackCap {
		it := p.Backpack[len(p.Backpack)-1]
		p.Backpack = p.Backpack[:len(p.Backpack)-1]
		tile.Dropped = append(tile.Dropped, it)
		shed = append(shed, it.ID)
		rec.Emit(event.ItemDropped, p.ID, map[string]any{"item": it.ID, "def": it.DefID, "tile": p.Position})
	}
	if len(shed) > 0 {
		rec.Emit(event.CapacityEnforced, p.ID, map[string]any{"dropped": shed, "tile": p.Position})
	}
}

// colocatedPickup offers a tile's dropped items to the other players
// standing on it, in seat order starting after the active seat. Each
// claims greedily, most recently dropped first, as far as remaining
// capacity allows. Whatever nobody claims goes to the matching tier's
// treasure discard pile.
func (gs *GameState) colocatedPickup(rec *event.Recorder, tileID int) {
	tile := gs.Tile(tileID)
	if len(tile.Dropped) == 0 {
		return
	}
	active := gs.Active()
	for seat := gs.nextSeat(gs.ActiveSeat); seat != gs.ActiveSeat; seat = gs.nextSeat(seat) {
		p := gs.Players[gs.Seats[seat]]
		if p.Position != tileID || p.ID == active.ID {
			continue
		}
		for i := len(tile.Dropped) - 1; i >= 0; i-- {
			it := tile.Dropped[i]
			def, err := gs.Catalog.Item(it.DefID)
			if err != nil {
				continue
			}
			var dst catalog.Container
			if def.Category == catalog.CategoryDrinkable {
				dst = catalog.ContainerBandolier
			} else {
				dst = catalog.ContainerBackpack
			}
			if err := gs.insertAt(p, it, dst, -1); err != nil {
				continue
			}
			tile.Dropped = append(tile.Dropped[:i], tile.Dropped[i+1:]...)
			rec.Emit(event.ItemGained, p.ID, map[string]any{"item": it.ID, "def": it.DefID, "source": "pickup"})
		}
	}
	for _, it := range tile.Dropped {
		def, err := gs.Catalog.Item(it.DefID)
		if err != nil {
			continue
		}
		gs.Decks[DeckKey{DeckTreasure, def.Tier}].DiscardCards(it.DefID)
	}
	tile.Dropped = nil
}

// pickUpDropped claims specific dropped items for a co-located player.
func (gs *GameState) pickUpDropped(rec *event.Recorder, p *PlayerState, ids []string) error {
	tile := gs.Tile(p.Position)
	for _, id := range ids {
		idx := -1
		for i, it := range tile.Dropped {
			if it.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrNoSuchItem, id)
		}
		it := tile.Dropped[idx]
		def, err := gs.Catalog.Item(it.DefID)
		if err != nil {
			return err
		}
		var dst catalog.Container
		if def.Category == catalog.CategoryDrinkable {
			dst = catalog.ContainerBandolier
		} else {
			dst = catalog.ContainerBackpack
		}
		if err := gs.insertAt(p, it, dst, -1); err != nil {
			return err
		}
		tile.Dropped = append(tile.Dropped[:idx], tile.Dropped[idx+1:]...)
		rec.Emit(event.ItemGained, p.ID, map[string]any{"item": it.ID, "def": it.DefID, "source": "pickup"})
	}
	return nil
}

// useDrinkable consumes a drinkable into an instantaneous stat change
// or a this-turn transient buff, then discards the card.
func (gs *GameState) useDrinkable(rec *event.Recorder, p *PlayerState, itemID string) error {
	loc, it, ok := findItem(p, itemID)
	if !ok {
		return ErrNoSuchItem
	}
	def, err := gs.Catalog.Item(it.DefID)
	if err != nil {
		return err
	}
	if def.Category != catalog.CategoryDrinkable {
		return fmt.Errorf("%w: %s is not drinkable", ErrIncompatible, def.Name)
	}
	switch def.Effect {
	case catalog.EffectHeal:
		p.Heal(def.Amount)
	case catalog.EffectAttackBuff:
		p.Buffs = append(p.Buffs, Buff{Source: def.ID, Attack: def.Amount})
	case catalog.EffectDefenseBuff:
		p.Buffs = append(p.Buffs, Buff{Source: def.ID, Defense: def.Amount})
	}
	removeAt(p, loc)
	gs.Decks[DeckKey{DeckTreasure, def.Tier}].DiscardCards(def.ID)
	rec.Emit(event.ItemUsed, p.ID, map[string]any{"item": it.ID, "def": def.ID, "effect": def.Effect.String()})
	return nil
}

// playHeldEffect activates a conditional small item. The item stays in
// inventory until its condition holds; the grave lamp, for instance,
// only fires on a contested tile after the holder advanced this turn.
func (gs *GameState) playHeldEffect(rec *event.Recorder, p *PlayerState, itemID string) error {
	loc, it, ok := findItem(p, itemID)
	if !ok {
		return ErrNoSuchItem
	}
	def, err := gs.Catalog.Item(it.DefID)
	if err != nil {
		return err
	}
	if def.Category != catalog.CategorySmall {
		return fmt.Errorf("%w: %s is not a held-effect item", ErrIncompatible, def.Name)
	}
	switch def.Effect {
	case catalog.EffectStepBack:
		if !gs.applyLampIfEligible(p) {
			return fmt.Errorf("%w: condition not met", ErrIncompatible)
		}
		removeAt(p, loc)
		gs.Decks[DeckKey{DeckTreasure, def.Tier}].DiscardCards(def.ID)
		rec.Emit(event.ItemUsed, p.ID, map[string]any{"item": it.ID, "def": def.ID, "effect": def.Effect.String()})
		rec.Emit(event.Moved, p.ID, map[string]any{"to": p.Position, "reason": "step back"})
	default:
		return fmt.Errorf("%w: %s activates on its own", ErrIncompatible, def.Name)
	}
	return nil
}

// shieldCharm returns the location of a carried damage-prevention item,
// if any.
func (gs *GameState) shieldCharm(p *PlayerState) (itemLocation, ItemInstance, bool) {
	for i, it := range p.Backpack {
		def, err := gs.Catalog.Item(it.DefID)
		if err == nil && def.Effect == catalog.EffectPreventDamage {
			return itemLocation{catalog.ContainerBackpack, i}, it, true
		}
	}
	return itemLocation{}, ItemInstance{}, false
}
