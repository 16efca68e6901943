package engine

import (
	"slices"

	"github.com/hailam/fastfeud/internal/board"
)

// node is a search tree node. Children are owned by their parent and the
// whole tree is dropped once a move has been chosen.
type node struct {
	board     *board.Board
	moveIndex int // index of the move that produced this node, -1 at the root
	value     float64
	children  []*node
	expanded  bool
}

func newNode(b *board.Board, moveIndex int) *node {
	return &node{board: b, moveIndex: moveIndex}
}

// expand generates the children once. Calling it again does nothing.
func (n *node) expand() {
	if n.expanded {
		return
	}
	n.expanded = true
	moves := n.board.GenerateMoves()
	n.children = make([]*node, len(moves))
	for i, m := range moves {
		child := n.board.Clone()
		child.Apply(m)
		n.children[i] = newNode(child, i)
	}
}

// sortChildren orders children by their last value, best first for the
// side that picks at this node.
func (n *node) sortChildren(descending bool) {
	slices.SortStableFunc(n.children, func(a, b *node) int {
		switch {
		case a.value == b.value:
			return 0
		case (a.value > b.value) == descending:
			return -1
		default:
			return 1
		}
	})
}

// best returns the first child holding the largest value.
func (n *node) best() *node {
	var best *node
	for _, c := range n.children {
		if best == nil || c.value > best.value {
			best = c
		}
	}
	return best
}
