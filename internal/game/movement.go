package game

import (
	"dreadhall/internal/board"
)

// StopReason says why a forward walk ended.
type StopReason int

const (
	StopComplete StopReason = iota // all steps spent
	StopFinal                      // reached the final tile, remaining steps forfeit
	StopBranch                     // reached a branch with no choice supplied
)

func (r StopReason) String() string {
	switch r {
	case StopComplete:
		return "complete"
	case StopFinal:
		return "final"
	case StopBranch:
		return "branch"
	default:
		return "unknown"
	}
}

// MoveResult is the outcome of a forward walk. Movement never mutates
// the graph or any shared state; it is a pure function of its inputs.
type MoveResult struct {
	Path         []int // tiles entered, in hop order
	StoppedOn    int
	Remaining    int // steps left unspent on a branch stop
	Reason       StopReason
	HistoryAfter []int
}

// ComputeSteps walks n tiles forward from start. At a multi-neighbor
// node the caller must supply an explicit choice in choices (branch
// node id to chosen neighbor); without one the walk stops on the branch
// node and reports the unspent steps, so the decision always comes from
// the player, never from a hidden default. Reaching the final tile
// stops the walk immediately even with steps remaining. Each completed
// hop appends the departed tile to the returned history.
func ComputeSteps(g *board.Graph, start, n int, choices map[int]int, history []int) MoveResult {
	res := MoveResult{
		StoppedOn:    start,
		HistoryAfter: append([]int(nil), history...),
	}
	cur := start
	for step := 0; step < n; step++ {
		if cur == g.FinalID() {
			res.Reason = StopFinal
			return res
		}
		node := g.Node(cur)
		var next int
		switch {
		case len(node.Next) == 1:
			next = node.Next[0]
		default:
			to, ok := choices[cur]
			if !ok || !edgeExists(node, to) {
				res.Remaining = n - step
				res.Reason = StopBranch
				return res
			}
			next = to
		}
		res.HistoryAfter = append(res.HistoryAfter, cur)
		cur = next
		res.Path = append(res.Path, cur)
		res.StoppedOn = cur
	}
	if cur == g.FinalID() {
		res.Reason = StopFinal
	}
	return res
}

// StepsBack walks up to n tiles backward from pos. The live forward
// history is popped first (undoing the walker's own path); once it is
// exhausted the walk falls back to reverse adjacency, taking the lowest
// predecessor id so backward traversal stays deterministic. Used by the
// fixed six-hop retreat and by single-hop step-back effects.
func StepsBack(g *board.Graph, pos, n int, history []int) (newPos, hops int, historyAfter []int) {
	historyAfter = append([]int(nil), history...)
	cur := pos
	for hops < n {
		if len(historyAfter) > 0 {
			cur = historyAfter[len(historyAfter)-1]
			historyAfter = historyAfter[:len(historyAfter)-1]
			hops++
			continue
		}
		prev := g.Prev(cur)
		if len(prev) == 0 {
			break
		}
		cur = prev[0]
		hops++
	}
	return cur, hops, historyAfter
}

func edgeExists(n *board.Node, to int) bool {
	for _, id := range n.Next {
		if id == to {
			return true
		}
	}
	return false
}

// lampEligible reports whether the grave lamp may fire: the resting
// tile is occupied by another player or holds live enemies, and the
// holder has advanced at least one tile this turn.
func (gs *GameState) lampEligible(p *PlayerState) bool {
	if len(p.History) == 0 {
		return false
	}
	if gs.Tile(p.Position).LiveEnemies() {
		return true
	}
	for _, other := range gs.PlayersAt(p.Position) {
		if other.ID != p.ID {
			return true
		}
	}
	return false
}

// applyLampIfEligible steps the player back one history entry when the
// lamp condition holds. Returns whether the step happened.
func (gs *GameState) applyLampIfEligible(p *PlayerState) bool {
	if !gs.lampEligible(p) {
		return false
	}
	pos, hops, history := StepsBack(gs.Board, p.Position, 1, p.History)
	if hops == 0 {
		return false
	}
	p.Position = pos
	p.History = history
	return true
}
