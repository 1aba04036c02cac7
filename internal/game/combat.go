package game

import (
	"fmt"

	"github.com/google/uuid"

	"dreadhall/internal/event"
	"dreadhall/internal/rng"
)

// CombatState is a sealed sum type: a combat in progress is either a
// Fight against tile enemies or a Duel between two players, never
// both and never something else. Switches over it list both variants
// explicitly.
type CombatState interface {
	combatKind() string
	cloneCombat() CombatState
}

// Fight is player-versus-enemies combat on a tile.
type Fight struct {
	TileID   int      `json:"tileId"`
	PlayerID string   `json:"playerId"`
	Enemies  []string `json:"enemies"` // enemy instance ids, spawn order
	Round    int      `json:"round"`
}

func (f *Fight) combatKind() string { return "fight" }

func (f *Fight) cloneCombat() CombatState {
	cp := *f
	cp.Enemies = append([]string(nil), f.Enemies...)
	return &cp
}

// Duel is player-versus-player combat. A is always the challenger.
type Duel struct {
	A          string          `json:"a"`
	B          string          `json:"b"`
	Round      int             `json:"round"`
	RerollUsed map[string]bool `json:"rerollUsed"` // defense reroll spent, by player id
}

func (d *Duel) combatKind() string { return "duel" }

func (d *Duel) cloneCombat() CombatState {
	cp := *d
	cp.RerollUsed = make(map[string]bool, len(d.RerollUsed))
	for k, v := range d.RerollUsed {
		cp.RerollUsed[k] = v
	}
	return &cp
}

// startFight opens combat against spawned enemies on the active
// player's tile. The ids are enemy instances; all must be alive.
func (gs *GameState) startFight(rec *event.Recorder, a Action) error {
	if !gs.CombatDue {
		return ErrNoCombat
	}
	p := gs.Active()
	tile := gs.Tile(p.Position)
	var ids []string
	if len(a.EnemyIDs) > 0 {
		ids = a.EnemyIDs
	} else {
		for _, e := range tile.Enemies {
			if e.HP > 0 {
				ids = append(ids, e.ID)
			}
		}
	}
	if len(ids) == 0 {
		return ErrNoCombat
	}
	for _, id := range ids {
		e := tile.enemy(id)
		if e == nil {
			return fmt.Errorf("%w: enemy %s", ErrNoSuchItem, id)
		}
		if e.HP <= 0 {
			return ErrTargetDefeated
		}
	}
	gs.CombatDue = false
	gs.Combat = &Fight{TileID: p.Position, PlayerID: p.ID, Enemies: ids}
	gs.Phase = PhaseCombat
	rec.Emit(event.CombatStarted, p.ID, map[string]any{"tile": p.Position, "enemies": ids})
	return nil
}

// enemy finds a tile's enemy instance by id.
func (t *TileState) enemy(id string) *EnemyInstance {
	for _, e := range t.Enemies {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// fightAttackTotal is the player's attack total in a Fight: d6 plus
// equipment, transient buffs, and the fight-only class bonus.
func (gs *GameState) fightAttackTotal(p *PlayerState, reqID string) (total, roll int) {
	r := gs.RNG.Roll(rng.D6, p.ID, reqID)
	ea, _ := p.EquipBonus(gs.Catalog)
	ba, _ := p.BuffBonus()
	return r.Value + ea + ba + gs.classDef(p).FightAttackBonus, r.Value
}

// duelAttackTotal is the player's attack total in a Duel: no class
// attack bonus applies.
func (gs *GameState) duelAttackTotal(p *PlayerState, reqID string) (total, roll int) {
	r := gs.RNG.Roll(rng.D6, p.ID, reqID)
	ea, _ := p.EquipBonus(gs.Catalog)
	ba, _ := p.BuffBonus()
	return r.Value + ea + ba, r.Value
}

// defenseTotal is the player's defense total. inDuel adds the
// duel-only class bonus.
func (gs *GameState) defenseTotal(p *PlayerState, inDuel bool, reqID string) (total, roll int) {
	r := gs.RNG.Roll(rng.D6, p.ID, reqID)
	total = r.Value + gs.defenseStatic(p, inDuel)
	return total, r.Value
}

// defenseStatic is the non-die part of a player's defense total.
func (gs *GameState) defenseStatic(p *PlayerState, inDuel bool) int {
	_, ed := p.EquipBonus(gs.Catalog)
	_, bd := p.BuffBonus()
	total := ed + bd
	if inDuel {
		total += gs.classDef(p).DuelDefenseBonus
	}
	return total
}

// absorbDamage applies n damage to the player, letting a carried
// damage-prevention charm cancel one point before it is consumed.
func (gs *GameState) absorbDamage(rec *event.Recorder, p *PlayerState, n int) {
	if n <= 0 {
		return
	}
	if loc, it, ok := gs.shieldCharm(p); ok {
		n--
		removeAt(p, loc)
		if def, err := gs.Catalog.Item(it.DefID); err == nil {
			gs.Decks[DeckKey{DeckTreasure, def.Tier}].DiscardCards(def.ID)
			rec.Emit(event.ItemUsed, p.ID, map[string]any{"item": it.ID, "def": def.ID, "effect": def.Effect.String()})
		}
	}
	p.ApplyDamage(n)
}

// resolveFightRound runs one exchange: the player strikes the chosen
// enemy, then every still-living enemy in the fight strikes back.
// Strictly greater attack deals exactly one damage; ties favor the
// defender.
func (gs *GameState) resolveFightRound(rec *event.Recorder, a Action) error {
	f, ok := gs.Combat.(*Fight)
	if !ok {
		return ErrNoCombat
	}
	p := gs.Players[f.PlayerID]
	tile := gs.Tile(f.TileID)
	target := tile.enemy(a.TargetID)
	if target == nil || !f.includes(a.TargetID) {
		return fmt.Errorf("%w: enemy %s", ErrNoSuchItem, a.TargetID)
	}
	if target.HP <= 0 {
		return ErrTargetDefeated
	}
	f.Round++

	tdef, err := gs.Catalog.Enemy(target.DefID)
	if err != nil {
		return err
	}
	atk, atkRoll := gs.fightAttackTotal(p, a.RequestID)
	edr := gs.RNG.Roll(rng.D6, target.ID, a.RequestID)
	edef := edr.Value + tdef.DefenseBonus
	hit := atk > edef
	if hit {
		target.HP--
	}

	// Counterattacks from every living combatant, spawn order. The
	// player rolls a single defense die for the whole round; every
	// enemy attack is compared against that one total.
	var attacks []int
	for _, id := range f.Enemies {
		e := tile.enemy(id)
		if e == nil || e.HP <= 0 {
			continue
		}
		def, err := gs.Catalog.Enemy(e.DefID)
		if err != nil {
			continue
		}
		ear := gs.RNG.Roll(rng.D6, e.ID, a.RequestID)
		attacks = append(attacks, ear.Value+def.AttackBonus)
	}
	var taken int
	if len(attacks) > 0 {
		pdef, _ := gs.defenseTotal(p, false, a.RequestID)
		for _, eatk := range attacks {
			if eatk > pdef {
				taken++
			}
		}
	}
	gs.absorbDamage(rec, p, taken)

	rec.Emit(event.CombatRoundResolved, p.ID, map[string]any{
		"round": f.Round, "target": target.ID,
		"attack": atk, "attackRoll": atkRoll, "enemyDefense": edef,
		"hit": hit, "damageTaken": taken, "hp": p.HP, "targetHp": target.HP,
	})

	switch {
	case p.HP == 0:
		gs.endFightDefeat(rec, p)
	case !tile.LiveEnemies():
		gs.endFightVictory(rec, p, f)
	}
	return nil
}

func (f *Fight) includes(id string) bool {
	for _, e := range f.Enemies {
		if e == id {
			return true
		}
	}
	return false
}

// endFightVictory clears the tile, rolls tier-weighted loot once per
// defeated enemy (plus one more roll for the scavenger passive), and
// leaves combat.
func (gs *GameState) endFightVictory(rec *event.Recorder, p *PlayerState, f *Fight) {
	tier := gs.Board.Node(f.TileID).Tier
	tile := gs.Tile(f.TileID)
	defeated := 0
	for _, id := range f.Enemies {
		if e := tile.enemy(id); e != nil && e.HP <= 0 {
			defeated++
		}
	}
	rec.Emit(event.FightEnded, p.ID, map[string]any{"outcome": "victory", "tile": f.TileID, "defeated": defeated})
	for i := 0; i < defeated; i++ {
		gs.rollLoot(rec, p, tier)
	}
	if gs.classDef(p).BonusLootRoll {
		gs.rollLoot(rec, p, tier)
	}
	gs.Tile(f.TileID).Enemies = nil
	gs.Combat = nil
	gs.Phase = PhasePostCombat
}

// endFightDefeat pushes the loser back the fixed retreat distance,
// restores a single hit point, and flags a mandatory rest turn. The
// surviving enemies keep their wounds and stay on the tile.
func (gs *GameState) endFightDefeat(rec *event.Recorder, p *PlayerState) {
	rec.Emit(event.FightEnded, p.ID, map[string]any{"outcome": "defeat", "tile": p.Position})
	gs.pushBack(rec, p, RetreatHops)
	p.HP = 1
	p.Rest = true
	gs.Combat = nil
	gs.Phase = PhasePostCombat
}

// retreatFromFight is the voluntary exit: same pushback as defeat but
// no rest flag and no HP reset. Enemies keep their wounds.
func (gs *GameState) retreatFromFight(rec *event.Recorder) error {
	f, ok := gs.Combat.(*Fight)
	if !ok {
		return ErrNoCombat
	}
	p := gs.Players[f.PlayerID]
	rec.Emit(event.FightEnded, p.ID, map[string]any{"outcome": "retreat", "tile": f.TileID})
	gs.pushBack(rec, p, RetreatHops)
	gs.Combat = nil
	gs.Phase = PhasePostCombat
	return nil
}

// pushBack moves a player backward along their own history first, then
// reverse adjacency.
func (gs *GameState) pushBack(rec *event.Recorder, p *PlayerState, hops int) {
	pos, done, history := StepsBack(gs.Board, p.Position, hops, p.History)
	p.Position = pos
	p.History = history
	rec.Emit(event.RetreatExecuted, p.ID, map[string]any{"to": pos, "hops": done})
}

// rollLoot makes one tier-weighted pick from the tile tier's loot
// table and stows the item. An empty table degrades to no loot.
func (gs *GameState) rollLoot(rec *event.Recorder, p *PlayerState, tier int) {
	defs := gs.Catalog.TierItems(tier)
	if len(defs) == 0 {
		return
	}
	weights := make([]int, len(defs))
	for i, d := range defs {
		w := d.LootWeight
		if w <= 0 {
			w = 1
		}
		weights[i] = w
	}
	idx, err := gs.RNG.WeightedPick(weights, p.ID, "")
	if err != nil {
		return
	}
	def := defs[idx]
	it := ItemInstance{ID: uuid.NewString(), DefID: def.ID}
	stow(p, def, it)
	rec.Emit(event.ItemGained, p.ID, map[string]any{"item": it.ID, "def": def.ID, "source": "loot"})
}

// offerDuel records a pending challenge to a co-located player.
func (gs *GameState) offerDuel(rec *event.Recorder, a Action) error {
	if gs.Offer != nil {
		return fmt.Errorf("%w: offer already pending", ErrNotAuthorized)
	}
	from := gs.Players[a.Actor]
	to := gs.Players[a.TargetID]
	if to == nil {
		return ErrUnknownPlayer
	}
	if a.TargetID == a.Actor {
		return ErrSelfTarget
	}
	if !gs.CoLocated(a.Actor, a.TargetID) {
		return ErrNotCoLocated
	}
	gs.Offer = &DuelOffer{From: from.ID, To: to.ID}
	gs.Phase = PhasePreDuel
	rec.Emit(event.DuelOffered, from.ID, map[string]any{"to": to.ID})
	return nil
}

// acceptDuel converts the pending offer into an active duel.
func (gs *GameState) acceptDuel(rec *event.Recorder, a Action) error {
	if gs.Offer == nil {
		return ErrNoPendingOffer
	}
	if a.Actor != gs.Offer.To {
		return ErrNotAuthorized
	}
	d := &Duel{A: gs.Offer.From, B: gs.Offer.To, RerollUsed: make(map[string]bool)}
	gs.Offer = nil
	gs.Combat = d
	gs.Phase = PhaseDuel
	rec.Emit(event.DuelAccepted, a.Actor, map[string]any{"challenger": d.A})
	rec.Emit(event.DuelStarted, d.A, map[string]any{"a": d.A, "b": d.B})
	return nil
}

// declineDuel dismisses the pending offer; the table returns to the
// management phase with no other effect.
func (gs *GameState) declineDuel(rec *event.Recorder, a Action) error {
	if gs.Offer == nil {
		return ErrNoPendingOffer
	}
	if a.Actor != gs.Offer.To {
		return ErrNotAuthorized
	}
	rec.Emit(event.DuelDeclined, a.Actor, map[string]any{"challenger": gs.Offer.From})
	gs.Offer = nil
	gs.Phase = PhaseManage
	return nil
}

// resolveDuelRound runs one simultaneous exchange. Both sides roll
// attack and defense; a side with the duelist reroll passive rerolls
// its defense die once per duel, and only when the first roll would
// have let a hit through. Double knockout is a draw.
func (gs *GameState) resolveDuelRound(rec *event.Recorder, a Action) error {
	d, ok := gs.Combat.(*Duel)
	if !ok {
		return ErrNoCombat
	}
	pa, pb := gs.Players[d.A], gs.Players[d.B]
	d.Round++

	atkA, _ := gs.duelAttackTotal(pa, a.RequestID)
	atkB, _ := gs.duelAttackTotal(pb, a.RequestID)
	defA := gs.duelDefense(d, pa, atkB, a.RequestID)
	defB := gs.duelDefense(d, pb, atkA, a.RequestID)

	if atkA > defB {
		gs.absorbDamage(rec, pb, 1)
	}
	if atkB > defA {
		gs.absorbDamage(rec, pa, 1)
	}
	rec.Emit(event.CombatRoundResolved, pa.ID, map[string]any{
		"round":   d.Round,
		"attackA": atkA, "defenseA": defA, "hpA": pa.HP,
		"attackB": atkB, "defenseB": defB, "hpB": pb.HP,
	})

	if pa.HP > 0 && pb.HP > 0 {
		return nil
	}
	gs.endDuel(rec, d, pa, pb)
	return nil
}

// duelDefense rolls a player's defense total, spending the class
// reroll when it would turn an incoming hit into a miss chance.
func (gs *GameState) duelDefense(d *Duel, p *PlayerState, oppAttack int, reqID string) int {
	total, _ := gs.defenseTotal(p, true, reqID)
	if total < oppAttack && gs.classDef(p).DefenseReroll && !d.RerollUsed[p.ID] {
		d.RerollUsed[p.ID] = true
		total, _ = gs.defenseTotal(p, true, reqID)
	}
	return total
}

// endDuel applies the outcome: the loser is pushed back, a draw treats
// both as losers, and both participants are flagged to rest, winner
// included. Inside a final-tile tie break the bracket consumes the
// result instead.
func (gs *GameState) endDuel(rec *event.Recorder, d *Duel, pa, pb *PlayerState) {
	outcome := "draw"
	switch {
	case pa.HP > 0 && pb.HP == 0:
		outcome = pa.ID
	case pb.HP > 0 && pa.HP == 0:
		outcome = pb.ID
	}
	rec.Emit(event.DuelEnded, pa.ID, map[string]any{"a": pa.ID, "b": pb.ID, "winner": outcome})
	gs.Combat = nil

	if gs.Bracket != nil {
		gs.bracketDuelEnded(rec, d, outcome)
		return
	}
	knockOut := func(p *PlayerState) {
		gs.pushBack(rec, p, RetreatHops)
		p.HP = 1
	}
	if pa.HP == 0 {
		knockOut(pa)
	}
	if pb.HP == 0 {
		knockOut(pb)
	}
	pa.Rest = true
	pb.Rest = true
	// Duels resolve before movement; the active player's turn resumes.
	gs.Phase = PhaseManage
}

// retreat routes a voluntary combat exit to the active combat kind.
func (gs *GameState) retreat(rec *event.Recorder, a Action) error {
	switch c := gs.Combat.(type) {
	case *Fight:
		return gs.retreatFromFight(rec)
	case *Duel:
		return gs.retreatFromDuel(rec, c, a.Actor)
	default:
		return ErrNoCombat
	}
}

// retreatFromDuel ends the duel with no winner and pushes the retreater
// back; nobody rests. A retreating active player forfeits the rest of
// the turn; a retreating opponent hands play back to the active player.
// Conceding a tie-break match eliminates the retreater instead.
func (gs *GameState) retreatFromDuel(rec *event.Recorder, d *Duel, actor string) error {
	p := gs.Players[actor]
	other := d.A
	if actor == d.A {
		other = d.B
	}
	gs.Combat = nil
	if gs.Bracket != nil {
		rec.Emit(event.DuelEnded, actor, map[string]any{"a": d.A, "b": d.B, "winner": other, "reason": "retreat"})
		gs.bracketDuelEnded(rec, d, other)
		return nil
	}
	rec.Emit(event.DuelEnded, actor, map[string]any{"a": d.A, "b": d.B, "winner": "", "reason": "retreat"})
	gs.pushBack(rec, p, RetreatHops)
	if p.ID == gs.Active().ID {
		gs.Phase = PhasePostCombat
		return nil
	}
	gs.Phase = PhaseManage
	return nil
}
