// ashrun is a real-time decision agent for a zombie-survival grid game: each
// turn it reads the observed world from stdin, searches for a strategy
// within a wall-clock budget, and writes the chosen move to stdout.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"time"

	"ashrun/config"
	"ashrun/diagnostics"
	"ashrun/evaluation"
	"ashrun/formatter"
	"ashrun/model"
	"ashrun/parser"
	"ashrun/rollout"
	"ashrun/search"
	"ashrun/simulator"
	"ashrun/verifier"
)

var (
	configPath        *string
	diagnosticsForced *bool
	diagnosticsAddr   *string
)

// TODO: per 12-factor rules these could be taken from env too; flags are
// enough for a single-process CLI driver.
func init() {
	configPath = flag.String("config", "", "path to an optional YAML tuning file")
	diagnosticsForced = flag.Bool("diagnostics", false, "force-enable the live diagnostics feed regardless of config")
	diagnosticsAddr = flag.String("addr", "", "override the diagnostics server address")
	flag.Parse()
}

func runApp() (err error) {
	logger := log.New(os.Stderr, "", log.LstdFlags)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if *diagnosticsForced {
		cfg.Diagnostics.Enabled = true
	}
	if *diagnosticsAddr != "" {
		cfg.Diagnostics.Addr = *diagnosticsAddr
	}

	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	var diag *diagnostics.Server
	if cfg.Diagnostics.Enabled {
		diag = diagnostics.NewServer(cfg.Diagnostics.Addr, logger)
		go func() {
			if err := diag.Serve(); err != nil {
				logger.Printf("diagnostics server stopped: %v", err)
			}
		}()
	}

	v := verifier.New(logger)
	scanner := parser.NewScanner(os.Stdin)

	var previousStrategies []model.Strategy
	for tick := 0; ; tick++ {
		world, err := parser.ReadWorld(scanner, tick)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			logger.Fatalf("reading turn %d: %v", tick, err)
		}

		v.LogDivergence(world)

		scoreSheet := evaluation.NewScoreSheet(cfg.ScoreSheetSize, rng)
		deadline := time.Now().Add(cfg.SearchBudget)

		start := time.Now()
		pool := search.Choose(world, scoreSheet, previousStrategies, rng, deadline)
		elapsed := time.Since(start)

		action := rollout.StrategyToAction(pool.Best.Strategy, world)
		fmt.Println(formatter.FormatAction(action))
		logger.Printf("tick %d: %s (score %.3f)", tick, formatter.FormatStrategy(pool.Best.Strategy), pool.Best.Score)

		predicted := world.Clone()
		simulator.Next(&predicted, action)
		v.SetPrediction(predicted)

		if diag != nil {
			turnMillis := float64(elapsed.Microseconds()) / 1000.0
			diag.RecordTurnMillis(turnMillis)
			diag.Publish(diagnostics.NewSnapshot(tick, turnMillis, pool))
		}

		previousStrategies = pool.Strategies()
	}
}

func main() {
	if err := runApp(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
