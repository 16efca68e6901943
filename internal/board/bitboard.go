package board

import (
	"math/bits"
	"strings"
)

// Bitboard holds one bit per tile. Bit 0 = A1, bit 15 = D4.
type Bitboard uint16

const (
	NoTiles  Bitboard = 0
	AllTiles Bitboard = 0xFFFF
)

// TileBB returns a bitboard with only the given tile set.
func TileBB(t Tile) Bitboard {
	return 1 << t
}

// Set sets the bit for the given tile.
func (b Bitboard) Set(t Tile) Bitboard {
	return b | (1 << t)
}

// Clear clears the bit for the given tile.
func (b Bitboard) Clear(t Tile) Bitboard {
	return b &^ (1 << t)
}

// IsSet returns true if the bit for the given tile is set.
func (b Bitboard) IsSet(t Tile) bool {
	return b&(1<<t) != 0
}

// PopCount returns the number of set bits.
func (b Bitboard) PopCount() int {
	return bits.OnesCount16(uint16(b))
}

// LSB returns the lowest set tile, or NoTile if empty.
func (b Bitboard) LSB() Tile {
	if b == 0 {
		return NoTile
	}
	return Tile(bits.TrailingZeros16(uint16(b)))
}

// PopLSB removes and returns the lowest set tile.
func (b *Bitboard) PopLSB() Tile {
	t := b.LSB()
	*b &= *b - 1
	return t
}

// Tiles returns the set tiles in ascending order.
func (b Bitboard) Tiles() []Tile {
	out := make([]Tile, 0, b.PopCount())
	for b != 0 {
		out = append(out, b.PopLSB())
	}
	return out
}

// String renders the bitboard as a grid, row 4 at the top.
func (b Bitboard) String() string {
	var sb strings.Builder
	for row := 3; row >= 0; row-- {
		sb.WriteByte(byte('1' + row))
		sb.WriteByte(' ')
		for col := 0; col < 4; col++ {
			if b.IsSet(NewTile(col, row)) {
				sb.WriteString("1 ")
			} else {
				sb.WriteString(". ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  A B C D\n")
	return sb.String()
}
