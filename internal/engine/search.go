package engine

import (
	"math"

	"github.com/hailam/fastfeud/internal/board"
)

// Searcher runs alpha-beta over one search tree. It is not safe for
// concurrent use; create one per search.
type Searcher struct {
	maximizing board.Team
	nodes      uint64
}

// NewSearcher creates a searcher maximizing for team.
func NewSearcher(team board.Team) *Searcher {
	return &Searcher{maximizing: team}
}

// Nodes returns the number of nodes visited so far.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// alphabeta stores the value of n on the node and returns it. Children are
// reordered using the values left by the previous, shallower pass.
func (s *Searcher) alphabeta(n *node, depth int, alpha, beta float64) float64 {
	s.nodes++
	if depth <= 0 || n.board.GameOver() {
		n.value = evaluateFor(n.board, s.maximizing)
		return n.value
	}

	n.expand()
	if len(n.children) == 0 {
		n.value = evaluateFor(n.board, s.maximizing)
		return n.value
	}

	maximizing := n.board.ToPlay == s.maximizing
	n.sortChildren(maximizing)

	if maximizing {
		value := math.Inf(-1)
		for _, c := range n.children {
			value = max(value, s.alphabeta(c, depth-1, alpha, beta))
			alpha = max(alpha, value)
			if alpha >= beta {
				break
			}
		}
		n.value = value
	} else {
		value := math.Inf(1)
		for _, c := range n.children {
			value = min(value, s.alphabeta(c, depth-1, alpha, beta))
			beta = min(beta, value)
			if beta <= alpha {
				break
			}
		}
		n.value = value
	}
	return n.value
}

// search runs one full-window pass to depth over the tree rooted at root.
func (s *Searcher) search(root *node, depth int) float64 {
	return s.alphabeta(root, depth, math.Inf(-1), math.Inf(1))
}
