package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the top-level YAML structure of a content file. Any section
// present overlays the built-in catalog; absent sections keep the
// defaults.
type File struct {
	Items   []ItemEntry   `yaml:"items"`
	Enemies []EnemyEntry  `yaml:"enemies"`
	Chance  []ChanceEntry `yaml:"chance"`
	Decks   *DeckSection  `yaml:"decks"`
}

// ItemEntry is one item definition in a content file.
type ItemEntry struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Category     string `yaml:"category"`
	Tier         int    `yaml:"tier"`
	AttackBonus  int    `yaml:"attack"`
	DefenseBonus int    `yaml:"defense"`
	Effect       string `yaml:"effect"`
	Amount       int    `yaml:"amount"`
	LootWeight   int    `yaml:"weight"`
}

// EnemyEntry is one enemy definition in a content file.
type EnemyEntry struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Tier         int    `yaml:"tier"`
	HP           int    `yaml:"hp"`
	AttackBonus  int    `yaml:"attack"`
	DefenseBonus int    `yaml:"defense"`
}

// ChanceEntry is one chance card definition in a content file.
type ChanceEntry struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Tier   int    `yaml:"tier"`
	Effect string `yaml:"effect"`
	Amount int    `yaml:"amount"`
	Item   string `yaml:"item"`
}

// DeckSection lists per-tier deck compositions as card-id lists.
type DeckSection struct {
	Treasure map[int][]string `yaml:"treasure"`
	Chance   map[int][]string `yaml:"chance"`
	Enemy    map[int][]string `yaml:"enemy"`
}

var categories = map[string]ItemCategory{
	"wearable":  CategoryWearable,
	"holdable":  CategoryHoldable,
	"drinkable": CategoryDrinkable,
	"small":     CategorySmall,
}

var itemEffects = map[string]ItemEffect{
	"":               EffectNone,
	"heal":           EffectHeal,
	"attack-buff":    EffectAttackBuff,
	"defense-buff":   EffectDefenseBuff,
	"step-back":      EffectStepBack,
	"prevent-damage": EffectPreventDamage,
}

var chanceEffects = map[string]ChanceEffect{
	"heal":      ChanceHeal,
	"damage":    ChanceDamage,
	"step-back": ChanceStepBack,
	"gain-item": ChanceGainItem,
	"lose-item": ChanceLoseItem,
}

// Load reads a YAML content file and overlays it on the built-in
// catalog.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog YAML: %w", err)
	}

	c := Builtin()
	for _, e := range f.Items {
		cat, ok := categories[e.Category]
		if !ok {
			return nil, fmt.Errorf("item %q: unknown category %q", e.ID, e.Category)
		}
		eff, ok := itemEffects[e.Effect]
		if !ok {
			return nil, fmt.Errorf("item %q: unknown effect %q", e.ID, e.Effect)
		}
		c.Items[e.ID] = ItemDef{
			ID: e.ID, Name: e.Name, Category: cat, Tier: e.Tier,
			AttackBonus: e.AttackBonus, DefenseBonus: e.DefenseBonus,
			Effect: eff, Amount: e.Amount, LootWeight: e.LootWeight,
		}
	}
	for _, e := range f.Enemies {
		c.Enemies[e.ID] = EnemyDef{
			ID: e.ID, Name: e.Name, Tier: e.Tier, HP: e.HP,
			AttackBonus: e.AttackBonus, DefenseBonus: e.DefenseBonus,
		}
	}
	for _, e := range f.Chance {
		eff, ok := chanceEffects[e.Effect]
		if !ok {
			return nil, fmt.Errorf("chance card %q: unknown effect %q", e.ID, e.Effect)
		}
		c.Chance[e.ID] = ChanceDef{
			ID: e.ID, Name: e.Name, Tier: e.Tier,
			Effect: eff, Amount: e.Amount, ItemID: e.Item,
		}
	}
	if f.Decks != nil {
		if f.Decks.Treasure != nil {
			c.TreasureDecks = f.Decks.Treasure
		}
		if f.Decks.Chance != nil {
			c.ChanceDecks = f.Decks.Chance
		}
		if f.Decks.Enemy != nil {
			c.EnemyDecks = f.Decks.Enemy
		}
	}

	// Deck compositions must only reference known cards.
	var bad []string
	for tier, ids := range c.TreasureDecks {
		for _, id := range ids {
			if _, ok := c.Items[id]; !ok {
				bad = append(bad, fmt.Sprintf("treasure tier %d: unknown item %q", tier, id))
			}
		}
	}
	for tier, ids := range c.ChanceDecks {
		for _, id := range ids {
			if _, ok := c.Chance[id]; !ok {
				bad = append(bad, fmt.Sprintf("chance tier %d: unknown card %q", tier, id))
			}
		}
	}
	for tier, ids := range c.EnemyDecks {
		for _, id := range ids {
			if _, ok := c.Enemies[id]; !ok {
				bad = append(bad, fmt.Sprintf("enemy tier %d: unknown enemy %q", tier, id))
			}
		}
	}
	if len(bad) > 0 {
		return nil, fmt.Errorf("catalog deck composition: %v", bad)
	}

	return c, nil
}
