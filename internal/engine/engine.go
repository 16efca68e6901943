// Package engine chooses moves with iterative deepening alpha-beta search.
package engine

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hailam/fastfeud/internal/board"
)

// SearchInfo describes one completed iterative deepening pass.
type SearchInfo struct {
	Depth int
	Value float64
	Nodes uint64
	Time  time.Duration
	Index int
	Move  board.Move
}

// SearchLimits specifies constraints on the search.
type SearchLimits struct {
	Depth    int           // base depth before the empty tile extension
	MoveTime time.Duration // checked between passes only (0 = no limit)
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

// DefaultDepth is the base search depth used when none is given.
const DefaultDepth = 6

// DifficultySettings maps difficulty to search limits.
var DifficultySettings = map[Difficulty]SearchLimits{
	Easy:   {Depth: 2},
	Medium: {Depth: 4},
	Hard:   {Depth: DefaultDepth},
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "custom"
	}
}

// ParseDifficulty converts a difficulty name.
func ParseDifficulty(s string) (Difficulty, bool) {
	for d := Easy; d <= Hard; d++ {
		if d.String() == s {
			return d, true
		}
	}
	return Hard, false
}

// Result is a suggested move.
type Result struct {
	Index  int // position in board.GenerateMoves()
	Move   board.Move
	Value  float64 // from the side to play's point of view
	Depth  int     // deepest completed pass
	Nodes  uint64
	Time   time.Duration
	Cached bool
}

// Engine is the Fast Feud AI. It holds configuration only and is safe for
// concurrent use; every call searches its own private tree.
type Engine struct {
	limits SearchLimits
	cache  Cache

	// Callbacks
	OnInfo func(SearchInfo)
}

// Option configures an Engine.
type Option func(*Engine)

// WithDepth sets the base search depth.
func WithDepth(depth int) Option {
	return func(e *Engine) {
		e.limits.Depth = depth
	}
}

// WithDifficulty sets the base depth from a difficulty level.
func WithDifficulty(d Difficulty) Option {
	return func(e *Engine) {
		if l, ok := DifficultySettings[d]; ok {
			e.limits.Depth = l.Depth
		}
	}
}

// WithMoveTime bounds the search. A pass that has started always finishes.
func WithMoveTime(d time.Duration) Option {
	return func(e *Engine) {
		e.limits.MoveTime = d
	}
}

// WithCache reuses earlier suggestions for identical positions.
func WithCache(c Cache) Option {
	return func(e *Engine) {
		e.cache = c
	}
}

// WithInfo reports every completed pass to fn.
func WithInfo(fn func(SearchInfo)) Option {
	return func(e *Engine) {
		e.OnInfo = fn
	}
}

// NewEngine creates an engine searching to DefaultDepth unless configured
// otherwise.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{limits: SearchLimits{Depth: DefaultDepth}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Limits returns the configured search limits.
func (e *Engine) Limits() SearchLimits {
	return e.limits
}

// Suggest finds a move for the side to play using the configured limits.
func (e *Engine) Suggest(ctx context.Context, b *board.Board) (Result, error) {
	return e.SuggestWithLimits(ctx, b, e.limits)
}

// SuggestWithLimits finds a move for the side to play. The board is not
// modified. Cancelling ctx stops the search before the next pass.
func (e *Engine) SuggestWithLimits(ctx context.Context, b *board.Board, limits SearchLimits) (Result, error) {
	if b.GameOver() {
		return Result{Index: -1}, board.ErrGameOver
	}
	moves := b.GenerateMoves()
	maxDepth := max(limits.Depth+b.EmptyTiles(), 1)

	var key board.Hash
	cacheable := false
	if e.cache != nil {
		if h, err := b.Hash(); err == nil {
			key, cacheable = h, true
			if c, ok := e.cache.Lookup(key, limits.Depth); ok && usable(c, maxDepth, len(moves)) {
				log.Debug().Msgf("cache hit %v depth %d: move %d", key, limits.Depth, c.Index)
				return Result{Index: c.Index, Move: moves[c.Index], Value: c.Value, Depth: c.Depth, Cached: true}, nil
			}
		}
	}

	tm := NewTimeManager(ctx, limits.MoveTime)
	s := NewSearcher(b.ToPlay)
	root := newNode(b.Clone(), -1)

	completed := -1
	var value float64
	for depth := 0; depth <= maxDepth; depth++ {
		if depth > 1 && (ctx.Err() != nil || tm.ShouldStop()) {
			log.Debug().Msgf("stopping before depth %d after %v", depth, tm.Elapsed())
			break
		}
		start := time.Now()
		value = s.search(root, depth)
		tm.PassDone(start)
		completed = depth

		best := root.best()
		info := SearchInfo{Depth: depth, Value: value, Nodes: s.Nodes(), Time: tm.Elapsed(), Index: -1}
		if best != nil {
			info.Index = best.moveIndex
			info.Move = moves[best.moveIndex]
		}
		log.Debug().Msgf("depth %d value %.3f nodes %d time %v move %v", depth, value, info.Nodes, info.Time, info.Move)
		if e.OnInfo != nil {
			e.OnInfo(info)
		}

		if math.IsInf(value, 0) {
			break
		}
	}

	best := root.best()
	res := Result{
		Index: best.moveIndex,
		Move:  moves[best.moveIndex],
		Value: best.value,
		Depth: completed,
		Nodes: s.Nodes(),
		Time:  tm.Elapsed(),
	}
	// Searches stopped early by the clock or ctx are not cached.
	if cacheable && (completed == maxDepth || math.IsInf(value, 0)) {
		e.cache.Store(key, limits.Depth, Cached{Index: res.Index, Value: res.Value, Depth: res.Depth})
	}
	return res, nil
}

// usable reports whether a cached suggestion answers a search to maxDepth:
// either it went at least as deep or it found a forced result.
func usable(c Cached, maxDepth, moves int) bool {
	if c.Index < 0 || c.Index >= moves {
		return false
	}
	return c.Depth >= maxDepth || math.IsInf(c.Value, 0)
}

// SuggestMove returns the index into b.GenerateMoves() of the best move
// found searching to depth, extended by one ply per empty tile. It returns
// -1 when the game is already over.
func SuggestMove(b *board.Board, depth int) int {
	res, err := NewEngine(WithDepth(depth)).Suggest(context.Background(), b)
	if err != nil {
		return -1
	}
	return res.Index
}
