package board

import (
	"sync"

	"gonum.org/v1/gonum/stat/combin"
)

// maxSubset is the largest set size with precomputed subsets.
const maxSubset = 4

// Tables holds precomputed masks shared by every Board. A Tables value is
// never modified after NewTables returns and is safe for concurrent reads.
type Tables struct {
	neighbours [NumTiles]Bitboard
	// archer[t][s] is the attack mask of an archer on t with an enemy
	// shield on s. Index NoTile means no shield.
	archer  [NumTiles][NumTiles + 1]Bitboard
	subsets [maxSubset + 1][maxSubset + 1][][]int
}

var defaultTables = sync.OnceValue(NewTables)

// DefaultTables returns the process-wide tables, built on first use.
func DefaultTables() *Tables {
	return defaultTables()
}

// NewTables computes all lookup tables.
func NewTables() *Tables {
	t := &Tables{}
	for sq := A1; sq < NoTile; sq++ {
		t.neighbours[sq] = neighbourMask(sq)
		for s := A1; s <= NoTile; s++ {
			t.archer[sq][s] = archerMask(sq, s)
		}
	}
	for n := 1; n <= maxSubset; n++ {
		for k := 1; k <= n; k++ {
			t.subsets[n][k] = combin.Combinations(n, k)
		}
	}
	return t
}

// Neighbours returns the orthogonal neighbours of a tile.
func (t *Tables) Neighbours(sq Tile) Bitboard {
	mustTile(sq)
	return t.neighbours[sq]
}

// ArcherAttacks returns the tiles an archer on sq can reach when an enemy
// shield stands on shield. Pass NoTile for no shield.
func (t *Tables) ArcherAttacks(sq, shield Tile) Bitboard {
	mustTile(sq)
	if shield > NoTile {
		contract("shield tile %d out of range", shield)
	}
	return t.archer[sq][shield]
}

// Subsets returns every k-element subset of {0..n-1} in lexicographic order,
// or nil when k > n. The result must not be modified.
func (t *Tables) Subsets(n, k int) [][]int {
	if n < 1 || n > maxSubset || k < 1 || k > maxSubset {
		contract("subset table (%d, %d) out of range", n, k)
	}
	return t.subsets[n][k]
}

func neighbourMask(sq Tile) Bitboard {
	var bb Bitboard
	col, row := sq.Col(), sq.Row()
	if col > 0 {
		bb = bb.Set(sq - 1)
	}
	if col < 3 {
		bb = bb.Set(sq + 1)
	}
	if row > 0 {
		bb = bb.Set(sq - 4)
	}
	if row < 3 {
		bb = bb.Set(sq + 4)
	}
	return bb
}

// archerMask casts the four axis rays from sq. A ray stops after the
// shield tile.
func archerMask(sq, shield Tile) Bitboard {
	var bb Bitboard
	dirs := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	for _, d := range dirs {
		col, row := sq.Col()+d[0], sq.Row()+d[1]
		for col >= 0 && col < 4 && row >= 0 && row < 4 {
			tile := NewTile(col, row)
			bb = bb.Set(tile)
			if tile == shield {
				break
			}
			col += d[0]
			row += d[1]
		}
	}
	return bb
}
