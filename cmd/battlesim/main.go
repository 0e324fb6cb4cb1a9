// Package main provides the battle simulator binary: it loads the move
// catalogue and effect scripts, builds two demo teams, and runs one battle
// to completion, printing the narration to stdout.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/mwald/pokebattle/internal/config"
	"github.com/mwald/pokebattle/internal/game/agent"
	"github.com/mwald/pokebattle/internal/game/battle"
	"github.com/mwald/pokebattle/internal/game/moves"
	"github.com/mwald/pokebattle/internal/game/pokedex"
	"github.com/mwald/pokebattle/internal/game/rng"
	"github.com/mwald/pokebattle/internal/game/script"
	"github.com/mwald/pokebattle/internal/observability"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	seed := flag.Int64("seed", 0, "random seed; overrides battle.seed when non-zero")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	if *seed != 0 {
		cfg.Battle.Seed = *seed
	}
	var src rng.Source
	if cfg.Battle.Seed != 0 {
		src = rng.NewSeededSource(cfg.Battle.Seed)
		logger.Info("using seeded random source", zap.Int64("seed", cfg.Battle.Seed))
	} else {
		src = rng.NewCryptoSource()
	}

	// Load the move catalogue.
	loadStart := time.Now()
	catalogue, err := pokedex.LoadDirectory(cfg.Data.MovesDir)
	if err != nil {
		logger.Fatal("loading move catalogue", zap.Error(err))
	}
	logger.Info("move catalogue loaded",
		zap.Int("moves", catalogue.Len()),
		zap.Duration("elapsed", time.Since(loadStart)),
	)

	// Load move-effect scripts.
	runner := script.NewRunner(logger)
	defer runner.Close()
	if cfg.Data.ScriptsDir != "" {
		if info, statErr := os.Stat(cfg.Data.ScriptsDir); statErr == nil && info.IsDir() {
			if err := runner.LoadDirectory(cfg.Data.ScriptsDir, cfg.Data.ScriptInstructionLimit); err != nil {
				logger.Fatal("loading move scripts", zap.Error(err))
			}
			logger.Info("move scripts loaded", zap.String("dir", cfg.Data.ScriptsDir))
		}
	}

	team1, err := demoTeamRed(catalogue, runner)
	if err != nil {
		logger.Fatal("building first team", zap.Error(err))
	}
	team2, err := demoTeamBlue(catalogue, runner)
	if err != nil {
		logger.Fatal("building second team", zap.Error(err))
	}

	t1, err := battle.NewTrainer("Red", agent.Greedy{}, team1)
	if err != nil {
		logger.Fatal("creating trainer", zap.Error(err))
	}
	t2, err := battle.NewTrainer("Blue", agent.Greedy{}, team2)
	if err != nil {
		logger.Fatal("creating trainer", zap.Error(err))
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	b, err := battle.New(t1, t2, battle.Options{
		Source:      src,
		Logger:      logger,
		Catalogue:   catalogue,
		Inverse:     cfg.Battle.Inverse,
		SwapTimeout: cfg.Battle.SwapTimeout,
		TurnLimit:   cfg.Battle.TurnLimit,
		Narrate: func(lines []string) {
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			out.Flush()
		},
	})
	if err != nil {
		logger.Fatal("creating battle", zap.Error(err))
	}

	logger.Info("simulator initialized", zap.Duration("startup", time.Since(start)))

	winner, err := b.Run(ctx)
	if err != nil {
		logger.Fatal("battle error", zap.Error(err))
	}
	if winner != nil {
		logger.Info("battle finished",
			zap.String("winner", winner.Name),
			zap.Int("turns", b.Turn),
		)
	} else {
		logger.Info("battle drawn", zap.Int("turns", b.Turn))
	}
}

// pickMoves resolves catalogue entries into Move implementations.
func pickMoves(cat *pokedex.Catalogue, runner *script.Runner, names ...string) ([]battle.Move, error) {
	out := make([]battle.Move, 0, len(names))
	for _, name := range names {
		data, ok := cat.Get(name)
		if !ok {
			return nil, fmt.Errorf("move %q not in catalogue", name)
		}
		m, err := moves.New(data, runner)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func demoTeamRed(cat *pokedex.Catalogue, runner *script.Runner) ([]*battle.Pokemon, error) {
	zardMoves, err := pickMoves(cat, runner, "flamethrower", "air-slash", "dragon-claw", "quick-attack")
	if err != nil {
		return nil, err
	}
	zard := battle.NewPokemon("Charizard", "charizard", 50, 153,
		battle.Stats{Attack: 104, Defense: 98, SpAttack: 129, SpDefense: 105, Speed: 120},
		[]pokedex.Type{pokedex.Fire, pokedex.Flying}, "", battle.ItemMegaStoneY, zardMoves)
	zard.MegaEligible = true
	zard.MegaY = &battle.MegaForm{
		Ability: battle.AbilityDrought,
		Types:   []pokedex.Type{pokedex.Fire, pokedex.Flying},
	}

	chuMoves, err := pickMoves(cat, runner, "thunderbolt", "iron-tail", "quick-attack", "metronome")
	if err != nil {
		return nil, err
	}
	chu := battle.NewPokemon("Pikachu", "pikachu", 50, 110,
		battle.Stats{Attack: 75, Defense: 60, SpAttack: 70, SpDefense: 70, Speed: 110},
		[]pokedex.Type{pokedex.Electric}, "", battle.ItemQuickClaw, chuMoves)

	return []*battle.Pokemon{zard, chu}, nil
}

func demoTeamBlue(cat *pokedex.Catalogue, runner *script.Runner) ([]*battle.Pokemon, error) {
	toiseMoves, err := pickMoves(cat, runner, "surf", "ice-beam", "gyro-ball", "tackle")
	if err != nil {
		return nil, err
	}
	toise := battle.NewPokemon("Blastoise", "blastoise", 50, 154,
		battle.Stats{Attack: 103, Defense: 120, SpAttack: 105, SpDefense: 125, Speed: 98},
		[]pokedex.Type{pokedex.Water}, "", battle.ItemLeftovers, toiseMoves)

	saurMoves, err := pickMoves(cat, runner, "energy-ball", "sludge-bomb", "earthquake", "tackle")
	if err != nil {
		return nil, err
	}
	saur := battle.NewPokemon("Venusaur", "venusaur", 50, 155,
		battle.Stats{Attack: 102, Defense: 103, SpAttack: 120, SpDefense: 120, Speed: 100},
		[]pokedex.Type{pokedex.Grass, pokedex.Poison}, "", "", saurMoves)

	return []*battle.Pokemon{toise, saur}, nil
}
