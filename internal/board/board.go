// Package board holds the static dungeon layout: a validated directed
// acyclic graph of tiles with derived reverse adjacency for backward
// movement.
package board

import (
	"fmt"
	"sort"
	"strings"
)

// NodeType enumerates the tile kinds.
type NodeType int

const (
	NodeStart NodeType = iota
	NodeEmpty
	NodeEnemy
	NodeTreasure
	NodeChance
	NodeSanctuary
	NodeFinal
)

func (t NodeType) String() string {
	switch t {
	case NodeStart:
		return "start"
	case NodeEmpty:
		return "empty"
	case NodeEnemy:
		return "enemy"
	case NodeTreasure:
		return "treasure"
	case NodeChance:
		return "chance"
	case NodeSanctuary:
		return "sanctuary"
	case NodeFinal:
		return "final"
	default:
		return "unknown"
	}
}

// StartID is the fixed id of the start node.
const StartID = 0

// Node is one tile of the board.
type Node struct {
	ID   int
	Name string
	Type NodeType
	Tier int   // difficulty bucket for enemy/treasure/chance tiles (1-3)
	Next []int // forward neighbors
}

// Graph is an immutable board once built. Prev holds the derived
// reverse adjacency with predecessors sorted ascending, so backward
// traversal is deterministic.
type Graph struct {
	Name    string
	nodes   map[int]*Node
	prev    map[int][]int
	finalID int
}

// StructuralError reports every validation violation found in a board
// definition, not just the first.
type StructuralError struct {
	Violations []string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("invalid board: %s", strings.Join(e.Violations, "; "))
}

// New builds and validates a graph from a node list.
func New(name string, nodes []Node) (*Graph, error) {
	g := &Graph{
		Name:    name,
		nodes:   make(map[int]*Node, len(nodes)),
		prev:    make(map[int][]int),
		finalID: -1,
	}
	var violations []string
	for i := range nodes {
		n := nodes[i]
		if n.ID < 0 {
			violations = append(violations, fmt.Sprintf("node %d: negative id", n.ID))
			continue
		}
		if _, dup := g.nodes[n.ID]; dup {
			violations = append(violations, fmt.Sprintf("node %d: duplicate id", n.ID))
			continue
		}
		g.nodes[n.ID] = &n
	}

	if _, ok := g.nodes[StartID]; !ok {
		violations = append(violations, fmt.Sprintf("no start node with id %d", StartID))
	}

	terminals := 0
	for _, n := range sortedNodes(g.nodes) {
		seen := make(map[int]bool)
		for _, to := range n.Next {
			if to == n.ID {
				violations = append(violations, fmt.Sprintf("node %d: self-loop", n.ID))
				continue
			}
			if _, ok := g.nodes[to]; !ok {
				violations = append(violations, fmt.Sprintf("node %d: edge to unknown node %d", n.ID, to))
				continue
			}
			if seen[to] {
				violations = append(violations, fmt.Sprintf("node %d: duplicate edge to %d", n.ID, to))
				continue
			}
			seen[to] = true
			g.prev[to] = append(g.prev[to], n.ID)
		}
		if len(n.Next) == 0 {
			terminals++
			g.finalID = n.ID
		}
	}
	if terminals != 1 {
		violations = append(violations, fmt.Sprintf("want exactly one terminal node, found %d", terminals))
	}

	if cycle := g.hasCycle(); cycle {
		violations = append(violations, "graph contains a cycle")
	}

	if _, ok := g.nodes[StartID]; ok && !g.hasCycle() {
		reachable := g.reachableFrom(StartID)
		for _, n := range sortedNodes(g.nodes) {
			if !reachable[n.ID] {
				violations = append(violations, fmt.Sprintf("node %d: unreachable from start", n.ID))
			}
		}
	}

	if len(violations) > 0 {
		return nil, &StructuralError{Violations: violations}
	}

	for id := range g.prev {
		sort.Ints(g.prev[id])
	}
	return g, nil
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id int) *Node { return g.nodes[id] }

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// FinalID returns the id of the terminal node.
func (g *Graph) FinalID() int { return g.finalID }

// Prev returns the predecessors of id, sorted ascending.
func (g *Graph) Prev(id int) []int { return g.prev[id] }

// IsBranch reports whether the node has more than one forward neighbor.
func (g *Graph) IsBranch(id int) bool {
	n := g.nodes[id]
	return n != nil && len(n.Next) > 1
}

// Nodes returns all nodes in ascending id order.
func (g *Graph) Nodes() []*Node { return sortedNodes(g.nodes) }

func (g *Graph) hasCycle() bool {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[int]int, len(g.nodes))
	var visit func(id int) bool
	visit = func(id int) bool {
		color[id] = gray
		for _, to := range g.nodes[id].Next {
			if _, ok := g.nodes[to]; !ok {
				continue
			}
			switch color[to] {
			case gray:
				return true
			case white:
				if visit(to) {
					return true
				}
			}
		}
		color[id] = black
		return false
	}
	for _, n := range sortedNodes(g.nodes) {
		if color[n.ID] == white && visit(n.ID) {
			return true
		}
	}
	return false
}

// reachableFrom is a plain BFS from the given node.
func (g *Graph) reachableFrom(id int) map[int]bool {
	visited := map[int]bool{id: true}
	queue := []int{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, to := range g.nodes[cur].Next {
			if _, ok := g.nodes[to]; !ok {
				continue
			}
			if !visited[to] {
				visited[to] = true
				queue = append(queue, to)
			}
		}
	}
	return visited
}

func sortedNodes(m map[int]*Node) []*Node {
	out := make([]*Node, 0, len(m))
	for _, n := range m {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
