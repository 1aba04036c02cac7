package catalog

// Builtin returns the default content set. Item bonuses, enemy stats,
// and deck compositions are balance constants, kept here as data so a
// tuning pass never touches engine code.
func Builtin() *Catalog {
	c := &Catalog{
		Items:   make(map[string]ItemDef),
		Enemies: make(map[string]EnemyDef),
		Chance:  make(map[string]ChanceDef),
		Classes: make(map[Class]ClassDef),
	}

	items := []ItemDef{
		{ID: "rusty-sword", Name: "Rusty Sword", Category: CategoryHoldable, Tier: 1, AttackBonus: 1, LootWeight: 4},
		{ID: "buckler", Name: "Buckler", Category: CategoryHoldable, Tier: 1, DefenseBonus: 1, LootWeight: 4},
		{ID: "leather-jerkin", Name: "Leather Jerkin", Category: CategoryWearable, Tier: 1, DefenseBonus: 1, LootWeight: 3},
		{ID: "small-potion", Name: "Small Potion", Category: CategoryDrinkable, Tier: 1, Effect: EffectHeal, Amount: 1, LootWeight: 5},
		{ID: "war-axe", Name: "War Axe", Category: CategoryHoldable, Tier: 2, AttackBonus: 2, LootWeight: 3},
		{ID: "tower-shield", Name: "Tower Shield", Category: CategoryHoldable, Tier: 2, DefenseBonus: 2, LootWeight: 3},
		{ID: "chain-hauberk", Name: "Chain Hauberk", Category: CategoryWearable, Tier: 2, DefenseBonus: 2, LootWeight: 2},
		{ID: "strength-draught", Name: "Strength Draught", Category: CategoryDrinkable, Tier: 2, Effect: EffectAttackBuff, Amount: 1, LootWeight: 3},
		{ID: "stone-draught", Name: "Stone Draught", Category: CategoryDrinkable, Tier: 2, Effect: EffectDefenseBuff, Amount: 1, LootWeight: 3},
		{ID: "grave-lamp", Name: "Grave Lamp", Category: CategorySmall, Tier: 2, Effect: EffectStepBack, LootWeight: 2},
		{ID: "shield-charm", Name: "Shield Charm", Category: CategorySmall, Tier: 2, Effect: EffectPreventDamage, LootWeight: 2},
		{ID: "runed-blade", Name: "Runed Blade", Category: CategoryHoldable, Tier: 3, AttackBonus: 3, LootWeight: 2},
		{ID: "dread-plate", Name: "Dread Plate", Category: CategoryWearable, Tier: 3, DefenseBonus: 3, LootWeight: 1},
		{ID: "great-potion", Name: "Great Potion", Category: CategoryDrinkable, Tier: 3, Effect: EffectHeal, Amount: 2, LootWeight: 3},
	}
	for _, it := range items {
		c.Items[it.ID] = it
	}

	enemies := []EnemyDef{
		{ID: "goblin", Name: "Goblin", Tier: 1, HP: 1, AttackBonus: 0, DefenseBonus: 0},
		{ID: "giant-rat", Name: "Giant Rat", Tier: 1, HP: 1, AttackBonus: 0, DefenseBonus: 1},
		{ID: "skeleton", Name: "Skeleton", Tier: 2, HP: 2, AttackBonus: 1, DefenseBonus: 0},
		{ID: "cave-spider", Name: "Cave Spider", Tier: 2, HP: 2, AttackBonus: 0, DefenseBonus: 1},
		{ID: "dread-warden", Name: "Dread Warden", Tier: 3, HP: 3, AttackBonus: 1, DefenseBonus: 1},
		{ID: "pit-horror", Name: "Pit Horror", Tier: 3, HP: 3, AttackBonus: 2, DefenseBonus: 0},
	}
	for _, e := range enemies {
		c.Enemies[e.ID] = e
	}

	chance := []ChanceDef{
		{ID: "second-wind", Name: "Second Wind", Tier: 1, Effect: ChanceHeal, Amount: 1},
		{ID: "loose-flagstone", Name: "Loose Flagstone", Tier: 1, Effect: ChanceDamage, Amount: 1},
		{ID: "cold-draft", Name: "Cold Draft", Tier: 1, Effect: ChanceStepBack, Amount: 1},
		{ID: "hidden-cache", Name: "Hidden Cache", Tier: 2, Effect: ChanceGainItem, ItemID: "small-potion"},
		{ID: "grasping-hands", Name: "Grasping Hands", Tier: 2, Effect: ChanceLoseItem},
		{ID: "fell-miasma", Name: "Fell Miasma", Tier: 2, Effect: ChanceDamage, Amount: 1},
		{ID: "wardens-dole", Name: "Warden's Dole", Tier: 3, Effect: ChanceGainItem, ItemID: "great-potion"},
		{ID: "throne-whispers", Name: "Throne Whispers", Tier: 3, Effect: ChanceDamage, Amount: 2},
	}
	for _, ch := range chance {
		c.Chance[ch.ID] = ch
	}

	c.Classes = map[Class]ClassDef{
		ClassKnight: {
			ID: ClassKnight, Name: "Knight",
			BandolierCap: 1, BackpackCap: 1,
			FightAttackBonus: 1,
		},
		ClassDuelist: {
			ID: ClassDuelist, Name: "Duelist",
			BandolierCap: 1, BackpackCap: 1,
			DuelDefenseBonus: 1, DefenseReroll: true,
		},
		ClassScavenger: {
			ID: ClassScavenger, Name: "Scavenger",
			BandolierCap: 1, BackpackCap: 2,
			BonusLootRoll: true,
		},
		ClassAlchemist: {
			ID: ClassAlchemist, Name: "Alchemist",
			BandolierCap: 2, BackpackCap: 1,
		},
	}

	c.TreasureDecks = map[int][]string{
		1: {"rusty-sword", "rusty-sword", "buckler", "buckler", "leather-jerkin", "small-potion", "small-potion", "small-potion"},
		2: {"war-axe", "war-axe", "tower-shield", "chain-hauberk", "strength-draught", "stone-draught", "grave-lamp", "shield-charm"},
		3: {"runed-blade", "runed-blade", "dread-plate", "great-potion", "great-potion"},
	}
	c.ChanceDecks = map[int][]string{
		1: {"second-wind", "second-wind", "loose-flagstone", "loose-flagstone", "cold-draft"},
		2: {"hidden-cache", "grasping-hands", "fell-miasma", "fell-miasma"},
		3: {"wardens-dole", "throne-whispers", "throne-whispers"},
	}
	c.EnemyDecks = map[int][]string{
		1: {"goblin", "goblin", "goblin", "giant-rat", "giant-rat"},
		2: {"skeleton", "skeleton", "cave-spider", "cave-spider"},
		3: {"dread-warden", "dread-warden", "pit-horror", "pit-horror"},
	}

	return c
}
