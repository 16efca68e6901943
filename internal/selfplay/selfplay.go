// Package selfplay plays the engine against itself and tallies the results.
package selfplay

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/fastfeud/internal/board"
	"github.com/hailam/fastfeud/internal/engine"
	"github.com/hailam/fastfeud/internal/storage"
)

// Recorder persists finished games. *storage.Storage implements it.
type Recorder interface {
	RecordGame(result storage.GameResult) error
}

// Runner plays Games games from the default layout, at most Parallel at a
// time. A game still running after MaxTurns quarter turns is a tie.
type Runner struct {
	Games    int
	Parallel int
	Depth    int // overrides the engine's depth when positive
	MaxTurns int // 0 = no cap
	Engine   *engine.Engine
	Store    Recorder

	mu sync.Mutex // serialises Store writes
}

// Summary tallies a run. Results are in game order; games that never
// finished because the run was cancelled are left out.
type Summary struct {
	Results     []storage.GameResult
	BlackWins   int
	WhiteWins   int
	Ties        int
	ByCondition map[board.WinCondition]int
	TotalTurns  int
	Elapsed     time.Duration
}

// Games returns the number of games tallied.
func (s Summary) Games() int {
	return len(s.Results)
}

func (s Summary) String() string {
	return fmt.Sprintf("games %d: black %d, white %d, ties %d, turns %d, %v",
		s.Games(), s.BlackWins, s.WhiteWins, s.Ties, s.TotalTurns, s.Elapsed.Round(time.Millisecond))
}

// Run plays every game. On cancellation it returns the games completed so
// far together with the context error.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	eng := r.Engine
	if eng == nil {
		eng = engine.NewEngine()
	}
	limits := eng.Limits()
	if r.Depth > 0 {
		limits.Depth = r.Depth
	}

	log.Debug().Msgf("starting %d games, %d at a time, depth %d", r.Games, r.Parallel, limits.Depth)
	start := time.Now()

	results := make([]*storage.GameResult, r.Games)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.Parallel, 1))
	for i := 0; i < r.Games; i++ {
		g.Go(func() error {
			res, err := r.play(gctx, eng, limits)
			if err != nil {
				return err
			}
			results[i] = &res
			log.Debug().Msgf("game %d: %v by %v after %d turns", i, res.Winner, res.Condition, res.Turns)
			return r.record(res)
		})
	}
	err := g.Wait()

	s := tally(lo.FilterMap(results, func(res *storage.GameResult, _ int) (storage.GameResult, bool) {
		if res == nil {
			return storage.GameResult{}, false
		}
		return *res, true
	}))
	s.Elapsed = time.Since(start)
	log.Debug().Msgf("self-play finished: %v", s)
	return s, err
}

func (r *Runner) play(ctx context.Context, eng *engine.Engine, limits engine.SearchLimits) (storage.GameResult, error) {
	b := board.NewDefault()
	for !b.GameOver() && (r.MaxTurns <= 0 || b.TurnCount < r.MaxTurns) {
		if err := ctx.Err(); err != nil {
			return storage.GameResult{}, err
		}
		res, err := eng.SuggestWithLimits(ctx, b, limits)
		if err != nil {
			return storage.GameResult{}, err
		}
		b.Apply(res.Move)
	}
	winner, cond := b.Winner()
	return storage.GameResult{Winner: winner, Condition: cond, Turns: b.TurnCount}, nil
}

func (r *Runner) record(res storage.GameResult) error {
	if r.Store == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.Store.RecordGame(res); err != nil {
		return fmt.Errorf("record game: %w", err)
	}
	return nil
}

func tally(results []storage.GameResult) Summary {
	s := Summary{Results: results}
	s.BlackWins = lo.CountBy(results, func(res storage.GameResult) bool {
		return res.Winner == board.Black
	})
	s.WhiteWins = lo.CountBy(results, func(res storage.GameResult) bool {
		return res.Winner == board.White
	})
	s.Ties = len(results) - s.BlackWins - s.WhiteWins
	s.ByCondition = lo.CountValuesBy(results, func(res storage.GameResult) board.WinCondition {
		return res.Condition
	})
	s.TotalTurns = lo.SumBy(results, func(res storage.GameResult) int {
		return res.Turns
	})
	return s
}
