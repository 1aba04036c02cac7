package game

import (
	"time"

	"dreadhall/internal/catalog"
)

// --- Enums ---

type Phase int

const (
	PhaseSetup Phase = iota
	PhaseTurnStart
	PhaseManage
	PhasePreDuel
	PhaseBranchChoice
	PhaseResolveTile
	PhaseCombat
	PhaseDuel
	PhasePostCombat
	PhaseCapacity
	PhaseEndTurn
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "Setup"
	case PhaseTurnStart:
		return "Turn Start"
	case PhaseManage:
		return "Manage"
	case PhasePreDuel:
		return "Pre-Duel"
	case PhaseBranchChoice:
		return "Branch Choice"
	case PhaseResolveTile:
		return "Resolve Tile"
	case PhaseCombat:
		return "Combat"
	case PhaseDuel:
		return "Duel"
	case PhasePostCombat:
		return "Post-Combat"
	case PhaseCapacity:
		return "Capacity"
	case PhaseEndTurn:
		return "End Turn"
	case PhaseGameOver:
		return "Game Over"
	default:
		return "Unknown"
	}
}

// --- Action types ---

type ActionType int

const (
	ActionStartGame ActionType = iota
	ActionRollMovement
	ActionChooseSleep
	ActionChooseBranch
	ActionResolvePendingTile
	ActionRetreat
	ActionEndTurn
	ActionOfferDuel
	ActionAcceptDuel
	ActionDeclineDuel
	ActionUseItem
	ActionEquipItem
	ActionUnequipItem
	ActionSwapEquipment
	ActionDropItem
	ActionPickUpDropped
	ActionConsumePotion
	ActionPlayHeldEffect
	ActionStartCombat
	ActionRollCombat
)

func (a ActionType) String() string {
	switch a {
	case ActionStartGame:
		return "startGame"
	case ActionRollMovement:
		return "rollMovement"
	case ActionChooseSleep:
		return "chooseSleep"
	case ActionChooseBranch:
		return "chooseBranch"
	case ActionResolvePendingTile:
		return "resolvePendingTile"
	case ActionRetreat:
		return "retreat"
	case ActionEndTurn:
		return "endTurn"
	case ActionOfferDuel:
		return "offerDuel"
	case ActionAcceptDuel:
		return "acceptDuel"
	case ActionDeclineDuel:
		return "declineDuel"
	case ActionUseItem:
		return "useItem"
	case ActionEquipItem:
		return "equipItem"
	case ActionUnequipItem:
		return "unequipItem"
	case ActionSwapEquipment:
		return "swapEquipment"
	case ActionDropItem:
		return "dropItem"
	case ActionPickUpDropped:
		return "pickUpDropped"
	case ActionConsumePotion:
		return "consumePotion"
	case ActionPlayHeldEffect:
		return "playHeldEffect"
	case ActionStartCombat:
		return "startCombat"
	case ActionRollCombat:
		return "rollCombat"
	default:
		return "unknown"
	}
}

// SwapMove relocates one item to a destination container as part of an
// atomic swapEquipment batch.
type SwapMove struct {
	ItemID string
	To     catalog.Container
	Slot   int // hold-slot index when To is the hold slot
}

// Action is one player submission. Every action carries the acting
// player's id; RequestID correlates the action with its RNG audit
// entries.
type Action struct {
	Type      ActionType
	Actor     string
	RequestID string

	// Parameters, by action type.
	ItemID   string     // useItem, equipItem, unequipItem, dropItem, consumePotion, playHeldEffect
	ItemIDs  []string   // pickUpDropped
	TargetID string     // offerDuel (player), rollCombat (enemy instance)
	From, To int        // chooseBranch
	EnemyIDs []string   // startCombat
	Moves    []SwapMove // swapEquipment
}

// Context carries per-call ambient data into a transition. The engine
// itself never reads a clock; event timestamps come from here.
type Context struct {
	Now time.Time
}

// --- Runtime instances ---

// ItemInstance is one concrete item in play.
type ItemInstance struct {
	ID    string `json:"id"`
	DefID string `json:"defId"`
}

// EnemyInstance is one concrete enemy with mutable HP.
type EnemyInstance struct {
	ID    string `json:"id"`
	DefID string `json:"defId"`
	HP    int    `json:"hp"`
}

// Buff is a this-turn transient combat modifier from a consumed item.
type Buff struct {
	Source  string `json:"source"` // item def id
	Attack  int    `json:"attack"`
	Defense int    `json:"defense"`
}

// --- Decks ---

type DeckFamily int

const (
	DeckTreasure DeckFamily = iota
	DeckChance
	DeckEnemy
)

func (f DeckFamily) String() string {
	switch f {
	case DeckTreasure:
		return "treasure"
	case DeckChance:
		return "chance"
	case DeckEnemy:
		return "enemy"
	default:
		return "unknown"
	}
}

// DeckKey addresses one of the nine deck piles (family x tier).
type DeckKey struct {
	Family DeckFamily
	Tier   int
}
