package engine

import (
	"math"

	"github.com/hailam/fastfeud/internal/board"
)

// pieceWeight scales the positional score of each kind.
var pieceWeight = [board.NumKinds]float64{
	board.King:   1.0,
	board.Medic:  0.9,
	board.Wizard: 0.6,
	board.Archer: 0.7,
	board.Knight: 0.7,
	board.Shield: 0.65,
}

const (
	activeBonus    = 1.5
	neighbourBonus = 0.5
)

// Evaluate scores a position from Black's point of view. A won game is
// +Inf for Black and -Inf for White. A tie by mutual isolation is 0.
func Evaluate(b *board.Board) float64 {
	winner, cond := b.Winner()
	switch {
	case winner == board.Black:
		return math.Inf(1)
	case winner == board.White:
		return math.Inf(-1)
	case cond != board.NoWinner:
		return 0
	}

	var score float64
	for t, s := range b.TileInfo() {
		if s.HP <= 0 {
			continue
		}
		hp := float64(s.HP)
		if s.Active {
			hp *= activeBonus
		}
		points := hp + neighbourBonus*float64(b.FriendlyNeighbours(board.Tile(t)))
		if s.Team == board.Black {
			score += pieceWeight[s.Kind] * points
		} else {
			score -= pieceWeight[s.Kind] * points
		}
	}
	return score
}

// evaluateFor orients Evaluate so that larger is better for team.
func evaluateFor(b *board.Board, team board.Team) float64 {
	v := Evaluate(b)
	if team == board.White {
		return -v
	}
	return v
}
