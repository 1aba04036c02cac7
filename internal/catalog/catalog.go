// Package catalog holds the static content definitions the engine
// consumes: items, enemies, chance cards, player classes, and per-tier
// deck compositions. Balance lives here as data; the engine never
// branches on concrete ids.
package catalog

import (
	"fmt"
)

// ItemCategory is the closed set of item kinds.
type ItemCategory int

const (
	CategoryWearable ItemCategory = iota
	CategoryHoldable
	CategoryDrinkable
	CategorySmall
)

func (c ItemCategory) String() string {
	switch c {
	case CategoryWearable:
		return "wearable"
	case CategoryHoldable:
		return "holdable"
	case CategoryDrinkable:
		return "drinkable"
	case CategorySmall:
		return "small"
	default:
		return "unknown"
	}
}

// Container is the closed set of places an item can live on a player.
type Container int

const (
	ContainerWearSlot Container = iota
	ContainerHoldSlot
	ContainerBandolier
	ContainerBackpack
)

func (c Container) String() string {
	switch c {
	case ContainerWearSlot:
		return "wear slot"
	case ContainerHoldSlot:
		return "hold slot"
	case ContainerBandolier:
		return "bandolier"
	case ContainerBackpack:
		return "backpack"
	default:
		return "unknown"
	}
}

// compatibility declares which containers accept which category.
// "Can X go in Y" is one lookup, never a code branch.
var compatibility = map[ItemCategory][]Container{
	CategoryWearable:  {ContainerWearSlot, ContainerBackpack},
	CategoryHoldable:  {ContainerHoldSlot, ContainerBackpack},
	CategoryDrinkable: {ContainerBandolier},
	CategorySmall:     {ContainerBackpack},
}

// Allowed reports whether items of the category may occupy the container.
func Allowed(cat ItemCategory, c Container) bool {
	for _, ok := range compatibility[cat] {
		if ok == c {
			return true
		}
	}
	return false
}

// ItemEffect is the closed set of use-effects an item can carry.
type ItemEffect int

const (
	EffectNone          ItemEffect = iota
	EffectHeal                     // instantaneous HP gain
	EffectAttackBuff               // this-turn attack bonus
	EffectDefenseBuff              // this-turn defense bonus
	EffectStepBack                 // step back one tile along own history
	EffectPreventDamage            // cancel 1 incoming damage once per combat round
)

func (e ItemEffect) String() string {
	switch e {
	case EffectHeal:
		return "heal"
	case EffectAttackBuff:
		return "attack buff"
	case EffectDefenseBuff:
		return "defense buff"
	case EffectStepBack:
		return "step back"
	case EffectPreventDamage:
		return "prevent damage"
	default:
		return "none"
	}
}

// ItemDef is the static definition of an item.
type ItemDef struct {
	ID           string
	Name         string
	Category     ItemCategory
	Tier         int
	AttackBonus  int // while equipped
	DefenseBonus int // while equipped
	Effect       ItemEffect
	Amount       int // effect magnitude, where applicable
	LootWeight   int // relative weight in tier-weighted loot rolls
}

// EnemyDef is the static definition of an enemy.
type EnemyDef struct {
	ID           string
	Name         string
	Tier         int
	HP           int
	AttackBonus  int
	DefenseBonus int
}

// ChanceEffect is the closed set of chance-card outcomes.
type ChanceEffect int

const (
	ChanceHeal ChanceEffect = iota
	ChanceDamage
	ChanceStepBack
	ChanceGainItem
	ChanceLoseItem
)

func (e ChanceEffect) String() string {
	switch e {
	case ChanceHeal:
		return "heal"
	case ChanceDamage:
		return "damage"
	case ChanceStepBack:
		return "step back"
	case ChanceGainItem:
		return "gain item"
	case ChanceLoseItem:
		return "lose item"
	default:
		return "unknown"
	}
}

// ChanceDef is the static definition of a chance card.
type ChanceDef struct {
	ID     string
	Name   string
	Tier   int
	Effect ChanceEffect
	Amount int
	ItemID string // for gain-item cards
}

// Class identifies a player class.
type Class string

const (
	ClassKnight    Class = "knight"
	ClassDuelist   Class = "duelist"
	ClassScavenger Class = "scavenger"
	ClassAlchemist Class = "alchemist"
)

// ClassDef carries a class's passive modifiers. Every passive is data
// here; combat and inventory read these fields instead of switching on
// class names.
type ClassDef struct {
	ID               Class
	Name             string
	BandolierCap     int
	BackpackCap      int
	FightAttackBonus int  // applies to attack totals in Fights only
	DuelDefenseBonus int  // applies to defense totals in Duels only
	DefenseReroll    bool // may reroll own defense die once per duel
	BonusLootRoll    bool // one extra loot roll on fight victory
}

// Catalog bundles every definition table plus per-tier deck compositions.
type Catalog struct {
	Items   map[string]ItemDef
	Enemies map[string]EnemyDef
	Chance  map[string]ChanceDef
	Classes map[Class]ClassDef

	// Deck compositions: ordered card-id lists per tier (1-3), shuffled
	// into draw piles at game start.
	TreasureDecks map[int][]string
	ChanceDecks   map[int][]string
	EnemyDecks    map[int][]string
}

// Item looks up an item definition by id.
func (c *Catalog) Item(id string) (ItemDef, error) {
	d, ok := c.Items[id]
	if !ok {
		return ItemDef{}, fmt.Errorf("catalog: unknown item %q", id)
	}
	return d, nil
}

// Enemy looks up an enemy definition by id.
func (c *Catalog) Enemy(id string) (EnemyDef, error) {
	d, ok := c.Enemies[id]
	if !ok {
		return EnemyDef{}, fmt.Errorf("catalog: unknown enemy %q", id)
	}
	return d, nil
}

// ChanceCard looks up a chance card definition by id.
func (c *Catalog) ChanceCard(id string) (ChanceDef, error) {
	d, ok := c.Chance[id]
	if !ok {
		return ChanceDef{}, fmt.Errorf("catalog: unknown chance card %q", id)
	}
	return d, nil
}

// ClassOf looks up a class definition.
func (c *Catalog) ClassOf(id Class) (ClassDef, error) {
	d, ok := c.Classes[id]
	if !ok {
		return ClassDef{}, fmt.Errorf("catalog: unknown class %q", id)
	}
	return d, nil
}

// TierItems returns the loot candidates of a tier in stable id order,
// following the tier's treasure deck composition (deduplicated).
func (c *Catalog) TierItems(tier int) []ItemDef {
	seen := make(map[string]bool)
	var out []ItemDef
	for _, id := range c.TreasureDecks[tier] {
		if seen[id] {
			continue
		}
		seen[id] = true
		if d, ok := c.Items[id]; ok {
			out = append(out, d)
		}
	}
	return out
}
