package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dreadhall/internal/board"
	"dreadhall/internal/catalog"
	"dreadhall/internal/event"
)

func inventoryGame(t *testing.T, classes ...catalog.Class) *GameState {
	if len(classes) == 0 {
		classes = []catalog.Class{classPlain, classPlain}
	}
	return newTestGame(t, "inv", lineBoard(t, board.NodeStart, board.NodeEmpty, board.NodeFinal), classes...)
}

func TestEquipMovesToMatchingSlot(t *testing.T) {
	gs := inventoryGame(t)
	p := gs.Players["p1"]
	p.Backpack = []ItemInstance{{ID: "i1", DefID: "sword"}}

	rec := newRec()
	require.NoError(t, gs.equip(rec, p, "i1"))
	assert.Empty(t, p.Backpack)
	require.NotNil(t, p.Holdable[0])
	assert.Equal(t, "i1", p.Holdable[0].ID)
	assert.Equal(t, 1, countType(rec.Events(), event.ItemEquipped))
}

func TestEquipRespectsSlotLimits(t *testing.T) {
	gs := inventoryGame(t)
	p := gs.Players["p1"]
	p.Holdable[0] = &ItemInstance{ID: "h1", DefID: "sword"}
	p.Holdable[1] = &ItemInstance{ID: "h2", DefID: "sword"}
	p.Backpack = []ItemInstance{{ID: "i3", DefID: "sword"}}

	err := gs.equip(newRec(), p, "i3")
	assert.ErrorIs(t, err, ErrSlotOccupied, "both hold slots full")
	assert.Len(t, p.Backpack, 1, "failed equip leaves the item where it was")
}

func TestEquipRejectsDrinkable(t *testing.T) {
	gs := inventoryGame(t)
	p := gs.Players["p1"]
	p.Bandolier = []ItemInstance{{ID: "d1", DefID: "potion"}}

	err := gs.equip(newRec(), p, "d1")
	assert.ErrorIs(t, err, ErrIncompatible)
}

func TestUnequipNeedsBackpackRoom(t *testing.T) {
	gs := inventoryGame(t)
	p := gs.Players["p1"]
	p.Wearable = &ItemInstance{ID: "w1", DefID: "armor"}
	p.Backpack = []ItemInstance{{ID: "i1", DefID: "sword"}} // cap 1, already full

	err := gs.unequip(newRec(), p, "w1")
	assert.ErrorIs(t, err, ErrNoCapacity)
	require.NotNil(t, p.Wearable, "item stays equipped on failure")

	p.Backpack = nil
	require.NoError(t, gs.unequip(newRec(), p, "w1"))
	assert.Nil(t, p.Wearable)
	assert.Len(t, p.Backpack, 1)
}

func TestSwapEquipmentIsAtomicTwoPhase(t *testing.T) {
	gs := inventoryGame(t)
	p := gs.Players["p1"]
	p.Wearable = &ItemInstance{ID: "w1", DefID: "armor"}
	p.Backpack = []ItemInstance{{ID: "w2", DefID: "armor"}} // backpack at cap

	// Direct exchange: neither leg fits without the two-phase removal.
	moves := []SwapMove{
		{ItemID: "w1", To: catalog.ContainerBackpack},
		{ItemID: "w2", To: catalog.ContainerWearSlot},
	}
	require.NoError(t, gs.swapEquipment(newRec(), p, moves))
	assert.Equal(t, "w2", p.Wearable.ID)
	require.Len(t, p.Backpack, 1)
	assert.Equal(t, "w1", p.Backpack[0].ID)
}

func TestSwapEquipmentFailsWholeBatch(t *testing.T) {
	gs := inventoryGame(t)
	p := gs.Players["p1"]
	p.Backpack = []ItemInstance{{ID: "i1", DefID: "potion"}}

	err := gs.swapEquipment(newRec(), p, []SwapMove{{ItemID: "i1", To: catalog.ContainerWearSlot}})
	assert.ErrorIs(t, err, ErrIncompatible)
}

func TestEnforceCapacityScenario(t *testing.T) {
	// A bandolier-cap-1 player holding two drinkables ends with one,
	// and one item recorded dropped on their tile.
	gs := inventoryGame(t)
	p := gs.Players["p1"]
	p.Bandolier = []ItemInstance{{ID: "d1", DefID: "potion"}, {ID: "d2", DefID: "potion"}}

	rec := newRec()
	gs.enforceCapacity(rec, p)

	assert.Len(t, p.Bandolier, 1)
	assert.Equal(t, "d1", p.Bandolier[0].ID, "most recently added goes first")
	require.Len(t, gs.Tile(p.Position).Dropped, 1)
	assert.Equal(t, "d2", gs.Tile(p.Position).Dropped[0].ID)
	assert.Equal(t, 1, countType(rec.Events(), event.ItemDropped))
	assert.Equal(t, 1, countType(rec.Events(), event.CapacityEnforced))
}

func TestEnforceCapacityNoViolation(t *testing.T) {
	gs := inventoryGame(t)
	p := gs.Players["p1"]
	p.Bandolier = []ItemInstance{{ID: "d1", DefID: "potion"}}

	rec := newRec()
	gs.enforceCapacity(rec, p)
	assert.Empty(t, rec.Events(), "no enforcement pass, no events")
}

func TestColocatedPickupSeatOrderGreedy(t *testing.T) {
	gs := newTestGame(t, "pickup", lineBoard(t, board.NodeStart, board.NodeEmpty, board.NodeFinal),
		classPlain, classPlain, classPlain)
	for _, p := range gs.Players {
		p.Position = 1
	}
	tile := gs.Tile(1)
	tile.Dropped = []ItemInstance{
		{ID: "x1", DefID: "sword"},
		{ID: "x2", DefID: "sword"},
		{ID: "x3", DefID: "sword"},
	}

	rec := newRec()
	gs.colocatedPickup(rec, 1)

	// Seats after the active player (p1): p2 claims newest first, then p3.
	assert.Len(t, gs.Players["p2"].Backpack, 1)
	assert.Equal(t, "x3", gs.Players["p2"].Backpack[0].ID)
	assert.Len(t, gs.Players["p3"].Backpack, 1)
	assert.Equal(t, "x2", gs.Players["p3"].Backpack[0].ID)
	assert.Empty(t, gs.Players["p1"].Backpack, "the active player does not claim")

	assert.Empty(t, tile.Dropped)
	deck := gs.Decks[DeckKey{DeckTreasure, 1}]
	assert.Equal(t, []string{"sword"}, deck.Discard, "the unclaimed item goes to the tier discard")
}

func TestUseDrinkableHealsAndDiscards(t *testing.T) {
	gs := inventoryGame(t)
	p := gs.Players["p1"]
	p.HP = 2
	p.Bandolier = []ItemInstance{{ID: "d1", DefID: "potion"}}

	rec := newRec()
	require.NoError(t, gs.useDrinkable(rec, p, "d1"))
	assert.Equal(t, 4, p.HP)
	assert.Empty(t, p.Bandolier)
	assert.Equal(t, []string{"potion"}, gs.Decks[DeckKey{DeckTreasure, 1}].Discard)
}

func TestUseDrinkableBuffIsTransient(t *testing.T) {
	gs := inventoryGame(t)
	p := gs.Players["p1"]
	p.Bandolier = []ItemInstance{{ID: "d1", DefID: "tonic"}}

	require.NoError(t, gs.useDrinkable(newRec(), p, "d1"))
	atk, def := p.BuffBonus()
	assert.Equal(t, 1, atk)
	assert.Zero(t, def)

	gs.ActiveSeat = 0
	gs.beginTurn(newRec())
	atk, _ = gs.Players["p1"].BuffBonus()
	assert.Zero(t, atk, "buffs clear at the owner's next turn start")
}

func TestPlayHeldEffectLampNeedsCondition(t *testing.T) {
	gs := inventoryGame(t)
	p := gs.Players["p1"]
	p.Position = 1
	p.Backpack = []ItemInstance{{ID: "l1", DefID: "lamp"}}

	err := gs.playHeldEffect(newRec(), p, "l1")
	assert.ErrorIs(t, err, ErrIncompatible, "no move this turn, lamp stays put")
	assert.Len(t, p.Backpack, 1)

	p.History = []int{0}
	gs.Tile(1).Enemies = []*EnemyInstance{{ID: "e1", DefID: "goblin", HP: 1}}
	require.NoError(t, gs.playHeldEffect(newRec(), p, "l1"))
	assert.Equal(t, 0, p.Position)
	assert.Empty(t, p.Backpack, "the lamp is consumed on use")
}
