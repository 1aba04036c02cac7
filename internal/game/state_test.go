package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dreadhall/internal/catalog"
	"dreadhall/internal/rng"
)

func TestNewGameStateSeatsSortedByPlayerID(t *testing.T) {
	g := forkBoard(t)
	gs := NewGameState("seats", g, testCatalog(), rng.New("s"), []Seed{
		{PlayerID: "zed", Name: "Zed", Class: classPlain},
		{PlayerID: "amy", Name: "Amy", Class: classPlain},
	})
	assert.Equal(t, []string{"amy", "zed"}, gs.Seats)
	assert.Equal(t, 0, gs.Players["amy"].Seat)
	assert.Equal(t, StartingHP, gs.Players["amy"].HP)
	assert.Equal(t, 0, gs.Players["amy"].Position)
	assert.Equal(t, PhaseSetup, gs.Phase)
}

func TestCloneIsDeep(t *testing.T) {
	gs := newTestGame(t, "clone", forkBoard(t), classPlain, classPlain)
	p := gs.Players["p1"]
	p.Backpack = []ItemInstance{{ID: "i1", DefID: "sword"}}
	p.Wearable = &ItemInstance{ID: "w1", DefID: "armor"}
	gs.Tile(1).Enemies = []*EnemyInstance{{ID: "e1", DefID: "goblin", HP: 1}}
	gs.Offer = &DuelOffer{From: "p1", To: "p2"}
	gs.Combat = &Fight{TileID: 1, PlayerID: "p1", Enemies: []string{"e1"}}

	cp := gs.Clone()
	cp.Players["p1"].HP = 1
	cp.Players["p1"].Backpack[0].ID = "changed"
	cp.Tile(1).Enemies[0].HP = 0
	cp.Offer.To = "p1"
	cp.Combat.(*Fight).Enemies[0] = "other"

	assert.Equal(t, StartingHP, gs.Players["p1"].HP)
	assert.Equal(t, "i1", gs.Players["p1"].Backpack[0].ID)
	assert.Equal(t, 1, gs.Tile(1).Enemies[0].HP)
	assert.Equal(t, "p2", gs.Offer.To)
	assert.Equal(t, "e1", gs.Combat.(*Fight).Enemies[0])

	assert.Same(t, gs.Board, cp.Board, "static data is shared, not copied")
	assert.Same(t, gs.Catalog, cp.Catalog)
}

func TestCloneRNGContinuesIdentically(t *testing.T) {
	gs := newTestGame(t, "clone-rng", forkBoard(t), classPlain, classPlain)
	gs.RNG.Roll(rng.D6, "", "")
	cp := gs.Clone()

	a := gs.RNG.Roll(rng.D20, "", "").Value
	b := cp.RNG.Roll(rng.D20, "", "").Value
	assert.Equal(t, a, b, "clone resumes the identical draw stream")
}

func TestHPClamping(t *testing.T) {
	p := &PlayerState{HP: 2, MaxHP: 5}
	p.ApplyDamage(10)
	assert.Equal(t, 0, p.HP)
	p.Heal(99)
	assert.Equal(t, 5, p.HP)
}

func TestEquipAndBuffBonuses(t *testing.T) {
	cat := testCatalog()
	p := &PlayerState{
		Wearable: &ItemInstance{ID: "w", DefID: "armor"},
		Buffs:    []Buff{{Source: "tonic", Attack: 1}},
	}
	p.Holdable[0] = &ItemInstance{ID: "h", DefID: "sword"}

	atk, def := p.EquipBonus(cat)
	assert.Equal(t, 10, atk)
	assert.Equal(t, 10, def)
	atk, def = p.BuffBonus()
	assert.Equal(t, 1, atk)
	assert.Zero(t, def)
}

func TestCapacitiesAreClassModified(t *testing.T) {
	gs := newTestGame(t, "caps", forkBoard(t),
		catalog.ClassAlchemist, catalog.ClassScavenger, classPlain)

	band, pack := gs.capacities(gs.Players["p1"])
	assert.Equal(t, 2, band, "alchemist carries an extra drinkable")
	assert.Equal(t, 1, pack)

	band, pack = gs.capacities(gs.Players["p2"])
	assert.Equal(t, 1, band)
	assert.Equal(t, 2, pack, "scavenger carries an extra backpack item")

	band, pack = gs.capacities(gs.Players["p3"])
	assert.Equal(t, 1, band)
	assert.Equal(t, 1, pack)
}

func TestPlayersAtAndCoLocated(t *testing.T) {
	gs := newTestGame(t, "loc", forkBoard(t), classPlain, classPlain, classPlain)
	gs.Players["p1"].Position = 2
	gs.Players["p3"].Position = 2

	at := gs.PlayersAt(2)
	require.Len(t, at, 2)
	assert.Equal(t, "p1", at[0].ID, "seat order")
	assert.Equal(t, "p3", at[1].ID)
	assert.True(t, gs.CoLocated("p1", "p3"))
	assert.False(t, gs.CoLocated("p1", "p2"))
	assert.False(t, gs.CoLocated("p1", "ghost"))
}
