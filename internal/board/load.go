package board

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the top-level YAML structure of a board layout.
type File struct {
	Name  string      `yaml:"name"`
	Nodes []NodeEntry `yaml:"nodes"`
}

// NodeEntry is one tile in a board layout file.
type NodeEntry struct {
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	Tier int    `yaml:"tier"`
	Next []int  `yaml:"next"`
}

var nodeTypes = map[string]NodeType{
	"start":     NodeStart,
	"empty":     NodeEmpty,
	"enemy":     NodeEnemy,
	"treasure":  NodeTreasure,
	"chance":    NodeChance,
	"sanctuary": NodeSanctuary,
	"final":     NodeFinal,
}

// Load parses a YAML board layout and returns a validated graph.
func Load(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse board YAML: %w", err)
	}
	return FromFile(f)
}

// FromFile builds a graph from an already-parsed layout.
func FromFile(f File) (*Graph, error) {
	var violations []string
	nodes := make([]Node, 0, len(f.Nodes))
	for _, e := range f.Nodes {
		t, ok := nodeTypes[e.Type]
		if !ok {
			violations = append(violations, fmt.Sprintf("node %d: unknown type %q", e.ID, e.Type))
			continue
		}
		nodes = append(nodes, Node{ID: e.ID, Name: e.Name, Type: t, Tier: e.Tier, Next: e.Next})
	}
	if len(violations) > 0 {
		return nil, &StructuralError{Violations: violations}
	}
	return New(f.Name, nodes)
}

// Default returns the built-in board: a 24-tile crawl with one early
// fork that rejoins before the final gate. Tiers rise with depth.
func Default() *Graph {
	g, err := New("The Dreadhall", []Node{
		{ID: 0, Name: "Gatehouse", Type: NodeStart, Next: []int{1}},
		{ID: 1, Name: "Outer Corridor", Type: NodeEmpty, Next: []int{2}},
		{ID: 2, Name: "Rat Warren", Type: NodeEnemy, Tier: 1, Next: []int{3}},
		{ID: 3, Name: "Collapsed Arch", Type: NodeChance, Tier: 1, Next: []int{4, 10}},
		{ID: 4, Name: "Flooded Stair", Type: NodeEmpty, Next: []int{5}},
		{ID: 5, Name: "Bone Niche", Type: NodeTreasure, Tier: 1, Next: []int{6}},
		{ID: 6, Name: "Guard Post", Type: NodeEnemy, Tier: 1, Next: []int{7}},
		{ID: 7, Name: "Quiet Shrine", Type: NodeSanctuary, Next: []int{8}},
		{ID: 8, Name: "Torch Gallery", Type: NodeChance, Tier: 2, Next: []int{9}},
		{ID: 9, Name: "Broken Bridge", Type: NodeEmpty, Next: []int{15}},
		{ID: 10, Name: "Sunken Vault", Type: NodeTreasure, Tier: 2, Next: []int{11}},
		{ID: 11, Name: "Spider Run", Type: NodeEnemy, Tier: 2, Next: []int{12}},
		{ID: 12, Name: "Mushroom Cellar", Type: NodeChance, Tier: 2, Next: []int{13}},
		{ID: 13, Name: "Cold Chapel", Type: NodeSanctuary, Next: []int{14}},
		{ID: 14, Name: "Drowned Hoard", Type: NodeTreasure, Tier: 2, Next: []int{15}},
		{ID: 15, Name: "Iron Door", Type: NodeEmpty, Next: []int{16}},
		{ID: 16, Name: "Warden's Hall", Type: NodeEnemy, Tier: 2, Next: []int{17}},
		{ID: 17, Name: "Gilded Crypt", Type: NodeTreasure, Tier: 3, Next: []int{18}},
		{ID: 18, Name: "Whispering Cell", Type: NodeChance, Tier: 3, Next: []int{19}},
		{ID: 19, Name: "Last Shrine", Type: NodeSanctuary, Next: []int{20}},
		{ID: 20, Name: "Pit of Chains", Type: NodeEnemy, Tier: 3, Next: []int{21}},
		{ID: 21, Name: "Serpent Stair", Type: NodeEmpty, Next: []int{22}},
		{ID: 22, Name: "Throne Antechamber", Type: NodeEnemy, Tier: 3, Next: []int{23}},
		{ID: 23, Name: "The Dread Throne", Type: NodeFinal},
	})
	if err != nil {
		// Unreachable: the built-in board is validated by tests.
		panic(err)
	}
	return g
}
