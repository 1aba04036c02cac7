package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dreadhall/internal/board"
	"dreadhall/internal/catalog"
	"dreadhall/internal/event"
	"dreadhall/internal/rng"
)

// classPlain is an unregistered class: no passives, base caps 1/1.
const classPlain = catalog.Class("plain")

// testCatalog is a small content set with oversized bonuses so combat
// outcomes are forced regardless of die faces.
func testCatalog() *catalog.Catalog {
	items := []catalog.ItemDef{
		{ID: "sword", Name: "Sword", Category: catalog.CategoryHoldable, Tier: 1, AttackBonus: 10, LootWeight: 1},
		{ID: "armor", Name: "Armor", Category: catalog.CategoryWearable, Tier: 1, DefenseBonus: 10, LootWeight: 1},
		{ID: "potion", Name: "Potion", Category: catalog.CategoryDrinkable, Tier: 1, Effect: catalog.EffectHeal, Amount: 2, LootWeight: 1},
		{ID: "tonic", Name: "Tonic", Category: catalog.CategoryDrinkable, Tier: 1, Effect: catalog.EffectAttackBuff, Amount: 1, LootWeight: 1},
		{ID: "lamp", Name: "Lamp", Category: catalog.CategorySmall, Tier: 1, Effect: catalog.EffectStepBack, LootWeight: 1},
		{ID: "charm", Name: "Charm", Category: catalog.CategorySmall, Tier: 1, Effect: catalog.EffectPreventDamage, LootWeight: 1},
	}
	c := &catalog.Catalog{
		Items:   make(map[string]catalog.ItemDef, len(items)),
		Enemies: map[string]catalog.EnemyDef{
			"goblin": {ID: "goblin", Name: "Goblin", Tier: 1, HP: 1},
		},
		Chance: map[string]catalog.ChanceDef{
			"blessing": {ID: "blessing", Name: "Blessing", Tier: 1, Effect: catalog.ChanceHeal, Amount: 1},
		},
		Classes: map[catalog.Class]catalog.ClassDef{
			catalog.ClassKnight:    {ID: catalog.ClassKnight, Name: "Knight", BandolierCap: 1, BackpackCap: 1, FightAttackBonus: 1},
			catalog.ClassDuelist:   {ID: catalog.ClassDuelist, Name: "Duelist", BandolierCap: 1, BackpackCap: 1, DuelDefenseBonus: 1, DefenseReroll: true},
			catalog.ClassScavenger: {ID: catalog.ClassScavenger, Name: "Scavenger", BandolierCap: 1, BackpackCap: 2, BonusLootRoll: true},
			catalog.ClassAlchemist: {ID: catalog.ClassAlchemist, Name: "Alchemist", BandolierCap: 2, BackpackCap: 1},
		},
		TreasureDecks: map[int][]string{1: {"potion", "potion", "sword", "armor"}},
		ChanceDecks:   map[int][]string{1: {"blessing"}},
		EnemyDecks:    map[int][]string{1: {"goblin", "goblin", "goblin", "goblin"}},
	}
	for _, it := range items {
		c.Items[it.ID] = it
	}
	return c
}

// lineBoard builds a straight corridor with the given tile types; the
// last node is the terminal.
func lineBoard(t *testing.T, types ...board.NodeType) *board.Graph {
	t.Helper()
	nodes := make([]board.Node, len(types))
	for i, tp := range types {
		nodes[i] = board.Node{ID: i, Type: tp, Tier: 1}
		if i < len(types)-1 {
			nodes[i].Next = []int{i + 1}
		}
	}
	g, err := board.New("line", nodes)
	require.NoError(t, err)
	return g
}

// forkBoard: 0 -> 1 -> {2 | 3} -> 4(final).
func forkBoard(t *testing.T) *board.Graph {
	t.Helper()
	g, err := board.New("fork", []board.Node{
		{ID: 0, Type: board.NodeStart, Next: []int{1}},
		{ID: 1, Type: board.NodeEmpty, Tier: 1, Next: []int{2, 3}},
		{ID: 2, Type: board.NodeEmpty, Tier: 1, Next: []int{4}},
		{ID: 3, Type: board.NodeEmpty, Tier: 1, Next: []int{4}},
		{ID: 4, Type: board.NodeFinal},
	})
	require.NoError(t, err)
	return g
}

// newTestGame seeds a game with players p1, p2, ... in the given
// classes, on the given board, with the test catalog.
func newTestGame(t *testing.T, seed string, g *board.Graph, classes ...catalog.Class) *GameState {
	t.Helper()
	var seeds []Seed
	for i, cl := range classes {
		id := "p" + string(rune('1'+i))
		seeds = append(seeds, Seed{PlayerID: id, Name: id, Class: cl})
	}
	return NewGameState("test", g, testCatalog(), rng.New(seed), seeds)
}

func testCtx() Context {
	return Context{Now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
}

// applyOK applies an action and fails the test on rejection.
func applyOK(t *testing.T, gs *GameState, a Action) (*GameState, []event.Event) {
	t.Helper()
	next, events, err := ApplyAction(gs, a, testCtx())
	require.NoError(t, err, "action %s by %s", a.Type, a.Actor)
	return next, events
}

// newRec returns a recorder for tests driving internals directly.
func newRec() *event.Recorder {
	return event.NewRecorder(testCtx().Now)
}

// countType counts events of one type.
func countType(events []event.Event, tp event.Type) int {
	n := 0
	for _, e := range events {
		if e.Type == tp {
			n++
		}
	}
	return n
}
