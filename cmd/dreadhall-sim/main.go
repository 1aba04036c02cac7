// Command dreadhall-sim plays a full game against itself with a naive
// policy and prints the event stream. Useful for eyeballing balance
// and for reproducing a game from a seed.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"dreadhall/internal/board"
	"dreadhall/internal/catalog"
	"dreadhall/internal/event"
	"dreadhall/internal/game"
	"dreadhall/internal/rng"
)

func main() {
	seed := flag.String("seed", "", "RNG seed; empty means non-deterministic")
	players := flag.Int("players", 2, "number of players (2-4)")
	boardFile := flag.String("board", "", "board YAML file; empty uses the built-in board")
	catalogFile := flag.String("catalog", "", "catalog YAML overlay; empty uses the built-in catalog")
	maxTurns := flag.Int("max-turns", 200, "abort after this many turns")
	verbose := flag.Bool("v", false, "log every event")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	if err := run(logger, *seed, *players, *boardFile, *catalogFile, *maxTurns, *verbose); err != nil {
		logger.Fatal().Err(err).Msg("simulation failed")
	}
}

func run(logger zerolog.Logger, seed string, players int, boardFile, catalogFile string, maxTurns int, verbose bool) error {
	if players < 2 || players > 4 {
		return fmt.Errorf("players must be 2-4, got %d", players)
	}

	g, err := loadBoard(boardFile)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(catalogFile)
	if err != nil {
		return err
	}

	var r *rng.RNG
	if seed == "" {
		r = rng.NewRandom()
	} else {
		r = rng.New(seed)
	}

	classes := []catalog.Class{catalog.ClassKnight, catalog.ClassDuelist, catalog.ClassScavenger, catalog.ClassAlchemist}
	var seeds []game.Seed
	for i := 0; i < players; i++ {
		id := fmt.Sprintf("p%d", i+1)
		seeds = append(seeds, game.Seed{PlayerID: id, Name: id, Class: classes[i%len(classes)]})
	}

	gs := game.NewGameState("sim", g, cat, r, seeds)
	ctx := game.Context{Now: time.Now()}

	apply := func(a game.Action) bool {
		next, events, err := game.ApplyAction(gs, a, ctx)
		if err != nil {
			logger.Warn().Err(err).Str("action", a.Type.String()).Msg("rejected")
			return false
		}
		gs = next
		if verbose {
			for _, e := range events {
				logger.Info().Msg(event.Format(e))
			}
		}
		return true
	}

	if !apply(game.Action{Type: game.ActionStartGame, Actor: seeds[0].PlayerID}) {
		return fmt.Errorf("could not start game")
	}

	for gs.Phase != game.PhaseGameOver {
		if gs.Turn > maxTurns {
			logger.Warn().Int("turns", maxTurns).Msg("turn limit hit, aborting")
			break
		}
		a, ok := nextAction(gs)
		if !ok {
			return fmt.Errorf("policy stuck in phase %s", gs.Phase)
		}
		if !apply(a) {
			return fmt.Errorf("policy produced illegal action %s in phase %s", a.Type, gs.Phase)
		}
	}

	view := game.ToPublicView(gs)
	logger.Info().Str("winner", view.Winner).Int("turns", view.Turn).
		Uint64("version", view.Version).Msg("game over")
	return nil
}

// nextAction is the naive autoplay policy: always move, always fight
// everything on the tile, retreat only at 1 HP, accept every duel,
// take the lowest branch.
func nextAction(gs *game.GameState) (game.Action, bool) {
	active := gs.Active()
	switch gs.Phase {
	case game.PhaseManage:
		if active.Rest {
			return game.Action{Type: game.ActionChooseSleep, Actor: active.ID}, true
		}
		return game.Action{Type: game.ActionRollMovement, Actor: active.ID}, true
	case game.PhaseBranchChoice:
		node := gs.Board.Node(active.Position)
		return game.Action{
			Type: game.ActionChooseBranch, Actor: active.ID,
			From: active.Position, To: node.Next[0],
		}, true
	case game.PhaseResolveTile:
		if gs.CombatDue {
			return game.Action{Type: game.ActionStartCombat, Actor: active.ID}, true
		}
		return game.Action{Type: game.ActionResolvePendingTile, Actor: active.ID}, true
	case game.PhaseCombat:
		if active.HP <= 1 {
			return game.Action{Type: game.ActionRetreat, Actor: active.ID}, true
		}
		for _, e := range gs.Tile(active.Position).Enemies {
			if e.HP > 0 {
				return game.Action{Type: game.ActionRollCombat, Actor: active.ID, TargetID: e.ID}, true
			}
		}
		return game.Action{}, false
	case game.PhaseDuel:
		// The active seat need not be in the match (tie-break ladder),
		// so submit as a participant.
		if d, ok := gs.Combat.(*game.Duel); ok {
			return game.Action{Type: game.ActionRollCombat, Actor: d.A}, true
		}
		return game.Action{}, false
	case game.PhasePreDuel:
		if gs.Offer != nil {
			return game.Action{Type: game.ActionAcceptDuel, Actor: gs.Offer.To}, true
		}
		return game.Action{}, false
	case game.PhaseEndTurn:
		return game.Action{Type: game.ActionEndTurn, Actor: active.ID}, true
	default:
		return game.Action{}, false
	}
}

func loadBoard(path string) (*board.Graph, error) {
	if path == "" {
		return board.Default(), nil
	}
	return board.Load(path)
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Builtin(), nil
	}
	return catalog.Load(path)
}
