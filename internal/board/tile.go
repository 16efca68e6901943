// Package board implements the Fast Feud board using 16-bit bitboards.
package board

import (
	"fmt"
	"strings"
)

// Tile is a square on the 4x4 board (0-15).
// Row = index/4, column = index%4. A1=0, D1=3, A4=12, D4=15.
type Tile uint8

const (
	A1 Tile = iota
	B1
	C1
	D1
	A2
	B2
	C2
	D2
	A3
	B3
	C3
	D3
	A4
	B4
	C4
	D4
	NoTile Tile = 16
)

// NumTiles is the number of tiles on the board.
const NumTiles = 16

// Row returns the row of the tile (0-3).
func (t Tile) Row() int {
	return int(t) >> 2
}

// Col returns the column of the tile (0-3).
func (t Tile) Col() int {
	return int(t) & 3
}

// IsValid returns true if the tile is on the board.
func (t Tile) IsValid() bool {
	return t < NoTile
}

// String returns the tile name (e.g. "B3").
func (t Tile) String() string {
	if t >= NoTile {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'A'+t.Col(), '1'+t.Row())
}

// NewTile creates a tile from column and row (0-indexed).
func NewTile(col, row int) Tile {
	return Tile(row*4 + col)
}

// ParseTile parses a tile name such as "a1" or "D4".
func ParseTile(s string) (Tile, error) {
	if len(s) != 2 {
		return NoTile, fmt.Errorf("invalid tile: %q", s)
	}
	col := int(strings.ToUpper(s[:1])[0] - 'A')
	row := int(s[1] - '1')
	if col < 0 || col > 3 || row < 0 || row > 3 {
		return NoTile, fmt.Errorf("invalid tile: %q", s)
	}
	return NewTile(col, row), nil
}

func mustTile(t Tile) {
	if t >= NoTile {
		contract("tile %d out of range", t)
	}
}
