// Command fastfeud-selfplay plays the engine against itself and records
// the results.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/hailam/fastfeud/internal/board"
	"github.com/hailam/fastfeud/internal/config"
	"github.com/hailam/fastfeud/internal/engine"
	"github.com/hailam/fastfeud/internal/selfplay"
	"github.com/hailam/fastfeud/internal/storage"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load("fastfeud-selfplay", args)
	if err != nil {
		return err
	}
	cfg.InitLogging(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store *storage.Storage
	if cfg.DB != "" {
		store, err = storage.Open(cfg.DB)
	} else {
		store, err = storage.NewStorage()
	}
	if err != nil {
		return err
	}
	defer store.Close()

	r := &selfplay.Runner{
		Games:    cfg.Games,
		Parallel: cfg.Parallel,
		MaxTurns: cfg.MaxTurns,
		Engine:   engine.NewEngine(append(cfg.EngineOptions(), engine.WithCache(store))...),
		Store:    store,
	}
	log.Info().Msgf("playing %d games at depth %d", cfg.Games, r.Engine.Limits().Depth)

	summary, err := r.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Println(summary)
	conditions := make([]string, 0, len(summary.ByCondition))
	for cond, n := range summary.ByCondition {
		conditions = append(conditions, fmt.Sprintf("  %-12s %d", cond, n))
	}
	sort.Strings(conditions)
	for _, line := range conditions {
		fmt.Println(line)
	}

	stats, err := store.LoadStats()
	if err != nil {
		return err
	}
	fmt.Printf("all time: %d games, black %.1f%%, white %.1f%%, average %.1f turns\n",
		stats.GamesPlayed, stats.WinRate(board.Black), stats.WinRate(board.White), stats.AverageTurns())
	return nil
}
