package game

import (
	"sort"

	"dreadhall/internal/board"
	"dreadhall/internal/catalog"
	"dreadhall/internal/rng"
)

// Equipment slot capacities. These are game rules, not class data:
// every class wears at most one wearable and holds at most two
// holdables.
const (
	WearableSlots = 1
	HoldableSlots = 2
)

// RetreatHops is the fixed backward distance of a combat retreat.
const RetreatHops = 6

// StartingHP is every player's initial and maximum HP.
const StartingHP = 5

// PlayerState is the full per-player state. Created at game start,
// mutated throughout, never destroyed. HP stays clamped to [0, MaxHP].
type PlayerState struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Seat     int           `json:"seat"`
	Class    catalog.Class `json:"class"`
	Position int           `json:"position"`
	HP       int           `json:"hp"`
	MaxHP    int           `json:"maxHp"`

	Wearable *ItemInstance                `json:"wearable,omitempty"`
	Holdable [HoldableSlots]*ItemInstance `json:"holdable"`

	// Hidden containers. Capacity is class-modified; see capacities.
	Bandolier []ItemInstance `json:"bandolier"`
	Backpack  []ItemInstance `json:"backpack"`

	// Per-turn transient state, reset on turn start.
	Buffs   []Buff `json:"buffs,omitempty"`
	History []int  `json:"history,omitempty"` // tiles departed this turn, oldest first

	Rest bool `json:"rest"` // must sleep: set by fight defeat and duel end
}

// clone returns a deep copy.
func (p *PlayerState) clone() *PlayerState {
	cp := *p
	if p.Wearable != nil {
		w := *p.Wearable
		cp.Wearable = &w
	}
	for i, h := range p.Holdable {
		if h != nil {
			hh := *h
			cp.Holdable[i] = &hh
		}
	}
	cp.Bandolier = append([]ItemInstance(nil), p.Bandolier...)
	cp.Backpack = append([]ItemInstance(nil), p.Backpack...)
	cp.Buffs = append([]Buff(nil), p.Buffs...)
	cp.History = append([]int(nil), p.History...)
	return &cp
}

// ApplyDamage reduces HP, clamped at zero.
func (p *PlayerState) ApplyDamage(n int) {
	p.HP -= n
	if p.HP < 0 {
		p.HP = 0
	}
}

// Heal raises HP, capped at MaxHP.
func (p *PlayerState) Heal(n int) {
	p.HP += n
	if p.HP > p.MaxHP {
		p.HP = p.MaxHP
	}
}

// EquipBonus sums attack and defense bonuses across all equipped items.
func (p *PlayerState) EquipBonus(cat *catalog.Catalog) (attack, defense int) {
	add := func(it *ItemInstance) {
		if it == nil {
			return
		}
		if d, err := cat.Item(it.DefID); err == nil {
			attack += d.AttackBonus
			defense += d.DefenseBonus
		}
	}
	add(p.Wearable)
	for _, h := range p.Holdable {
		add(h)
	}
	return attack, defense
}

// BuffBonus sums this-turn transient modifiers.
func (p *PlayerState) BuffBonus() (attack, defense int) {
	for _, b := range p.Buffs {
		attack += b.Attack
		defense += b.Defense
	}
	return attack, defense
}

// TileState is the per-tile runtime state: items dropped on the floor
// (most recent last) and any live enemies.
type TileState struct {
	Dropped []ItemInstance   `json:"dropped,omitempty"`
	Enemies []*EnemyInstance `json:"enemies,omitempty"`
}

func (t *TileState) clone() *TileState {
	cp := &TileState{}
	cp.Dropped = append([]ItemInstance(nil), t.Dropped...)
	for _, e := range t.Enemies {
		ee := *e
		cp.Enemies = append(cp.Enemies, &ee)
	}
	return cp
}

// LiveEnemies reports whether any enemy on the tile is still standing.
func (t *TileState) LiveEnemies() bool {
	for _, e := range t.Enemies {
		if e.HP > 0 {
			return true
		}
	}
	return false
}

// DuelOffer is a pending player-vs-player challenge.
type DuelOffer struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// GameState is the aggregate root. The engine owns it exclusively
// during a transition; externally it is a value copied in and out.
type GameState struct {
	GameID     string                  `json:"gameId"`
	Phase      Phase                   `json:"phase"`
	Turn       int                     `json:"turn"`
	ActiveSeat int                     `json:"activeSeat"`
	Seats      []string                `json:"seats"` // player ids in seat order
	Players    map[string]*PlayerState `json:"players"`

	Board   *board.Graph     `json:"-"` // static, shared between copies
	Catalog *catalog.Catalog `json:"-"` // static, shared between copies

	Decks map[DeckKey]*DeckState `json:"-"`
	Tiles map[int]*TileState     `json:"-"`

	Combat  CombatState `json:"-"` // nil when no combat is active
	Bracket *Bracket    `json:"-"` // nil until final-tile tie break

	RNG *rng.RNG `json:"-"`

	// Pending sub-states between actions.
	Offer        *DuelOffer `json:"-"`
	PendingSteps int        `json:"-"` // movement steps left at a branch stop
	PendingTile  bool       `json:"-"` // current tile effect not yet resolved
	CombatDue    bool       `json:"-"` // enemies spawned, startCombat required

	Version uint64 `json:"version"`
	Winner  string `json:"winner,omitempty"`
}

// Clone deep-copies everything mutable. Board and catalog are
// immutable and shared; the RNG clones to the same stream position.
func (gs *GameState) Clone() *GameState {
	cp := *gs
	cp.Seats = append([]string(nil), gs.Seats...)
	cp.Players = make(map[string]*PlayerState, len(gs.Players))
	for id, p := range gs.Players {
		cp.Players[id] = p.clone()
	}
	cp.Decks = make(map[DeckKey]*DeckState, len(gs.Decks))
	for k, d := range gs.Decks {
		cp.Decks[k] = d.clone()
	}
	cp.Tiles = make(map[int]*TileState, len(gs.Tiles))
	for id, t := range gs.Tiles {
		cp.Tiles[id] = t.clone()
	}
	if gs.Combat != nil {
		cp.Combat = gs.Combat.cloneCombat()
	}
	if gs.Bracket != nil {
		cp.Bracket = gs.Bracket.clone()
	}
	if gs.Offer != nil {
		o := *gs.Offer
		cp.Offer = &o
	}
	if gs.RNG != nil {
		cp.RNG = gs.RNG.Clone()
	}
	return &cp
}

// Active returns the active-seat player.
func (gs *GameState) Active() *PlayerState {
	return gs.Players[gs.Seats[gs.ActiveSeat]]
}

// Player returns the player with the given id, or nil.
func (gs *GameState) Player(id string) *PlayerState {
	return gs.Players[id]
}

// Tile returns the runtime state of a tile, creating it on first use.
func (gs *GameState) Tile(id int) *TileState {
	t, ok := gs.Tiles[id]
	if !ok {
		t = &TileState{}
		gs.Tiles[id] = t
	}
	return t
}

// PlayersAt returns the players on a tile in seat order.
func (gs *GameState) PlayersAt(tile int) []*PlayerState {
	var out []*PlayerState
	for _, id := range gs.Seats {
		if p := gs.Players[id]; p.Position == tile {
			out = append(out, p)
		}
	}
	return out
}

// CoLocated reports whether two players share a tile.
func (gs *GameState) CoLocated(a, b string) bool {
	pa, pb := gs.Players[a], gs.Players[b]
	return pa != nil && pb != nil && pa.Position == pb.Position
}

// nextSeat returns the seat after s, wrapping around.
func (gs *GameState) nextSeat(s int) int {
	return (s + 1) % len(gs.Seats)
}

// capacities returns the class-modified bandolier and backpack caps.
func (gs *GameState) capacities(p *PlayerState) (bandolier, backpack int) {
	def := gs.classDef(p)
	return def.BandolierCap, def.BackpackCap
}

// classDef returns the player's class definition, with the base caps
// if the class is unknown.
func (gs *GameState) classDef(p *PlayerState) catalog.ClassDef {
	def, err := gs.Catalog.ClassOf(p.Class)
	if err != nil {
		return catalog.ClassDef{BandolierCap: 1, BackpackCap: 1}
	}
	return def
}

// Seed describes one player joining a new game.
type Seed struct {
	PlayerID string
	Name     string
	Class    catalog.Class
}

// NewGameState assembles a fresh pre-start aggregate. Decks are
// composed from the catalog but not yet shuffled; the startGame action
// shuffles them so the shuffles land in the audit log.
func NewGameState(gameID string, b *board.Graph, cat *catalog.Catalog, r *rng.RNG, seeds []Seed) *GameState {
	gs := &GameState{
		GameID:  gameID,
		Phase:   PhaseSetup,
		Board:   b,
		Catalog: cat,
		Players: make(map[string]*PlayerState, len(seeds)),
		Decks:   make(map[DeckKey]*DeckState),
		Tiles:   make(map[int]*TileState),
		RNG:     r,
	}
	ordered := append([]Seed(nil), seeds...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].PlayerID < ordered[j].PlayerID })
	for seat, s := range ordered {
		gs.Seats = append(gs.Seats, s.PlayerID)
		gs.Players[s.PlayerID] = &PlayerState{
			ID:       s.PlayerID,
			Name:     s.Name,
			Seat:     seat,
			Class:    s.Class,
			Position: board.StartID,
			HP:       StartingHP,
			MaxHP:    StartingHP,
		}
	}
	for tier := 1; tier <= 3; tier++ {
		gs.Decks[DeckKey{DeckTreasure, tier}] = NewDeck(cat.TreasureDecks[tier])
		gs.Decks[DeckKey{DeckChance, tier}] = NewDeck(cat.ChanceDecks[tier])
		gs.Decks[DeckKey{DeckEnemy, tier}] = NewDeck(cat.EnemyDecks[tier])
	}
	return gs
}
