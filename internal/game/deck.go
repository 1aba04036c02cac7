package game

import (
	"dreadhall/internal/rng"
)

// DeckState is one card pile pair: an ordered draw pile (top is index
// 0) and an ordered discard pile (appended in discard order).
type DeckState struct {
	Draw    []string `json:"draw"`
	Discard []string `json:"discard"`
}

// NewDeck builds an unshuffled deck from a composition list.
func NewDeck(cards []string) *DeckState {
	return &DeckState{Draw: append([]string(nil), cards...)}
}

func (d *DeckState) clone() *DeckState {
	return &DeckState{
		Draw:    append([]string(nil), d.Draw...),
		Discard: append([]string(nil), d.Discard...),
	}
}

// Shuffle randomizes the draw pile in place via the audited RNG.
func (d *DeckState) Shuffle(r *rng.RNG) {
	d.Draw = rng.Shuffle(r, d.Draw)
}

// DrawCards pulls up to n cards from the top of the draw pile. When the
// draw pile runs out mid-draw, the entire discard pile is shuffled into
// a fresh draw pile and drawing continues. If both piles are exhausted
// the result is simply shorter than requested; that is degraded
// continuation, not an error. Reports whether a reshuffle happened.
func (d *DeckState) DrawCards(r *rng.RNG, n int) (drawn []string, reshuffled bool) {
	for len(drawn) < n {
		if len(d.Draw) == 0 {
			if len(d.Discard) == 0 {
				break
			}
			d.Draw = rng.Shuffle(r, d.Discard)
			d.Discard = nil
			reshuffled = true
		}
		drawn = append(drawn, d.Draw[0])
		d.Draw = d.Draw[1:]
	}
	return drawn, reshuffled
}

// DiscardCards appends cards to the discard pile, preserving order.
func (d *DeckState) DiscardCards(cards ...string) {
	d.Discard = append(d.Discard, cards...)
}

// enemyCount is the per-tier enemy composition table, keyed by a single
// die roll. Design constants, not a formula.
var enemyCount = map[int]struct {
	Die rng.Die
	N   func(roll int) int
}{
	1: {rng.D4, func(roll int) int {
		if roll == 1 {
			return 1
		}
		return 2
	}},
	2: {rng.D6, func(roll int) int {
		if roll <= 2 {
			return 1
		}
		return 2
	}},
	3: {rng.D6, func(roll int) int {
		if roll <= 3 {
			return 2
		}
		return 3
	}},
}

// rollEnemyComposition rolls the tier's composition die and returns how
// many enemies spawn. Unknown tiers fall back to a single enemy.
func rollEnemyComposition(r *rng.RNG, tier int, actor string) (die rng.Die, roll, count int) {
	entry, ok := enemyCount[tier]
	if !ok {
		return rng.D4, 0, 1
	}
	rolled := r.Roll(entry.Die, actor, "")
	return entry.Die, rolled.Value, entry.N(rolled.Value)
}
