package game

import (
	"dreadhall/internal/event"
)

// Bracket is the final-tile tie breaker: a single-elimination duel
// ladder over every player standing on the final tile, in seat order.
// The winner of each match stays on the ladder and faces the next
// contender; the sole survivor wins the game.
type Bracket struct {
	Queue   []string `json:"queue"` // remaining contenders, current match is Queue[0] vs Queue[1]
	Matches int      `json:"matches"`
}

func (b *Bracket) clone() *Bracket {
	cp := *b
	cp.Queue = append([]string(nil), b.Queue...)
	return &cp
}

// maybeStartEndgame checks final-tile occupancy at end of turn. One
// occupant wins outright; two or more start the bracket. Reports
// whether the game left normal turn flow.
func (gs *GameState) maybeStartEndgame(rec *event.Recorder) bool {
	occupants := gs.PlayersAt(gs.Board.FinalID())
	switch len(occupants) {
	case 0:
		return false
	case 1:
		gs.declareWinner(rec, occupants[0].ID)
		return true
	}
	var ids []string
	for _, p := range occupants {
		ids = append(ids, p.ID)
	}
	gs.Bracket = &Bracket{Queue: ids}
	rec.Emit(event.FinalTieBreakerStarted, "", map[string]any{"contenders": ids})
	gs.startBracketMatch(rec)
	return true
}

// startBracketMatch opens a duel between the front two contenders.
func (gs *GameState) startBracketMatch(rec *event.Recorder) {
	a, b := gs.Bracket.Queue[0], gs.Bracket.Queue[1]
	gs.Bracket.Matches++
	gs.Combat = &Duel{A: a, B: b, RerollUsed: make(map[string]bool)}
	gs.Phase = PhaseDuel
	rec.Emit(event.DuelStarted, a, map[string]any{"a": a, "b": b, "match": gs.Bracket.Matches})
}

// bracketDuelEnded consumes a duel result inside the bracket. A draw
// replays the same match with both sides' HP reset instead of
// eliminating anyone.
func (gs *GameState) bracketDuelEnded(rec *event.Recorder, d *Duel, outcome string) {
	pa, pb := gs.Players[d.A], gs.Players[d.B]
	if outcome == "draw" {
		pa.HP = pa.MaxHP
		pb.HP = pb.MaxHP
		gs.startBracketMatch(rec)
		return
	}
	winner := outcome
	rest := gs.Bracket.Queue[2:]
	gs.Bracket.Queue = append([]string{winner}, rest...)
	if len(gs.Bracket.Queue) == 1 {
		rec.Emit(event.FinalTieBreakerEnded, winner, map[string]any{"winner": winner, "matches": gs.Bracket.Matches})
		gs.declareWinner(rec, winner)
		return
	}
	gs.startBracketMatch(rec)
}

// declareWinner ends the game.
func (gs *GameState) declareWinner(rec *event.Recorder, id string) {
	gs.Winner = id
	gs.Phase = PhaseGameOver
	rec.Emit(event.GameEnded, id, map[string]any{"winner": id, "turn": gs.Turn})
}
