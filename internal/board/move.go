package board

import (
	"fmt"
	"slices"
	"strings"
)

// Move is either a Swap or an Action.
type Move interface {
	fmt.Stringer
	isMove()
}

// Swap exchanges the pieces on two adjacent tiles. A is always the lower tile.
type Swap struct {
	A, B Tile
}

// NewSwap creates a swap with its tiles in canonical order.
func NewSwap(x, y Tile) Swap {
	if y < x {
		x, y = y, x
	}
	return Swap{A: x, B: y}
}

func (Swap) isMove() {}

func (s Swap) String() string {
	return s.A.String() + " " + s.B.String()
}

// MaxTargets is the largest number of targets a single action can have.
const MaxTargets = 4

// Action is a piece acting on up to four targets. Targets are kept in
// ascending order and unused slots are zero so that actions compare with ==.
type Action struct {
	From Tile
	N    uint8
	To   [MaxTargets]Tile
}

// Skip passes the action half of a turn.
var Skip = Action{From: NoTile}

// NewAction creates an action with its targets sorted.
func NewAction(from Tile, targets ...Tile) Action {
	if len(targets) > MaxTargets {
		contract("action with %d targets", len(targets))
	}
	a := Action{From: from, N: uint8(len(targets))}
	copy(a.To[:], targets)
	slices.Sort(a.To[:a.N])
	return a
}

func (Action) isMove() {}

// IsSkip returns true for the skip action.
func (a Action) IsSkip() bool {
	return a.From == NoTile
}

// Targets returns the targets of the action.
func (a Action) Targets() []Tile {
	return a.To[:a.N]
}

func (a Action) String() string {
	if a.IsSkip() {
		return "skip"
	}
	parts := []string{a.From.String()}
	for _, t := range a.Targets() {
		parts = append(parts, t.String())
	}
	return strings.Join(parts, " ")
}

// Normalize returns m in the canonical form used by the move generators.
func Normalize(m Move) Move {
	switch mv := m.(type) {
	case Swap:
		return NewSwap(mv.A, mv.B)
	case Action:
		if mv.IsSkip() {
			return Skip
		}
		return NewAction(mv.From, mv.Targets()...)
	}
	return m
}

// ParseMove parses a move for the given phase. A swap is two tiles
// ("A1 B1"). An action is the acting tile followed by its targets
// ("B2 B3 C3"), or "skip".
func ParseMove(phase Phase, s string) (Move, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty move")
	}
	if phase == ActionPhase && len(fields) == 1 && strings.EqualFold(fields[0], "skip") {
		return Skip, nil
	}
	tiles := make([]Tile, 0, len(fields))
	for _, f := range fields {
		t, err := ParseTile(f)
		if err != nil {
			return nil, err
		}
		tiles = append(tiles, t)
	}
	if phase == SwapPhase {
		if len(tiles) != 2 || tiles[0] == tiles[1] {
			return nil, fmt.Errorf("a swap needs two distinct tiles, got %q", s)
		}
		return NewSwap(tiles[0], tiles[1]), nil
	}
	if len(tiles) < 2 || len(tiles) > MaxTargets+1 {
		return nil, fmt.Errorf("an action needs a tile and 1-%d targets, got %q", MaxTargets, s)
	}
	return NewAction(tiles[0], tiles[1:]...), nil
}
