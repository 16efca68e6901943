package board

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
)

// Hash is a lossless 192-bit encoding of a board.
//
//	bytes 0-15   one per tile: high nibble 0 for empty, else 1+team*6+kind;
//	             low nibble (hp-1)<<2 | (maxHP-1)
//	byte  16     phase
//	byte  17     team to play
//	bytes 18-19  Black and White passes
//	bytes 20-23  turn count, big endian
//
// The layout is not stable across versions.
type Hash [24]byte

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// ParseHash decodes the hex form produced by Hash.String.
func ParseHash(s string) (Hash, error) {
	var h Hash
	data, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("%w: %v", ErrBadHash, err)
	}
	if len(data) != len(h) {
		return h, fmt.Errorf("%w: got %d bytes, want %d", ErrBadHash, len(data), len(h))
	}
	copy(h[:], data)
	return h, nil
}

// Hash encodes the board. It fails if a value does not fit the encoding.
func (b *Board) Hash() (Hash, error) {
	var h Hash
	for t, s := range b.tiles {
		if s.Kind == Empty {
			continue
		}
		if s.HP < 1 || s.MaxHP > 4 || s.HP > s.MaxHP {
			return h, fmt.Errorf("%w: %v on %v has hp %d/%d", ErrUnencodable, s.Kind, Tile(t), s.HP, s.MaxHP)
		}
		id := 1 + byte(s.Team)*NumKinds + byte(s.Kind)
		h[t] = id<<4 | byte(s.HP-1)<<2 | byte(s.MaxHP-1)
	}
	if b.TurnCount < 0 || uint64(b.TurnCount) > math.MaxUint32 {
		return h, fmt.Errorf("%w: turn count %d", ErrUnencodable, b.TurnCount)
	}
	for i, p := range b.passes {
		if p < 0 || p > math.MaxUint8 {
			return h, fmt.Errorf("%w: %v passes %d", ErrUnencodable, Team(i), p)
		}
		h[18+i] = byte(p)
	}
	h[16] = byte(b.Phase)
	h[17] = byte(b.ToPlay)
	binary.BigEndian.PutUint32(h[20:], uint32(b.TurnCount))
	return h, nil
}

// LoadHash replaces the board with the state encoded in h. On error the
// board is left untouched.
func (b *Board) LoadHash(h Hash) error {
	staged := NewBoard(b.tables)
	for t := A1; t < NoTile; t++ {
		v := h[t]
		id := v >> 4
		if id == 0 {
			if v != 0 {
				return fmt.Errorf("%w: empty tile %v carries 0x%02x", ErrBadHash, t, v)
			}
			continue
		}
		id--
		if id >= 2*NumKinds {
			return fmt.Errorf("%w: tile %v identity %d", ErrBadHash, t, id+1)
		}
		hp := int(v>>2&3) + 1
		maxHP := int(v&3) + 1
		if hp > maxHP {
			return fmt.Errorf("%w: tile %v hp %d above max %d", ErrBadHash, t, hp, maxHP)
		}
		staged.Place(Kind(id%NumKinds), Team(id/NumKinds), hp, maxHP, t)
	}
	if h[16] > byte(ActionPhase) {
		return fmt.Errorf("%w: phase %d", ErrBadHash, h[16])
	}
	if h[17] > byte(White) {
		return fmt.Errorf("%w: team %d", ErrBadHash, h[17])
	}
	staged.Phase = Phase(h[16])
	staged.ToPlay = Team(h[17])
	staged.passes[Black] = int(h[18])
	staged.passes[White] = int(h[19])
	staged.TurnCount = int(binary.BigEndian.Uint32(h[20:]))
	staged.UpdateAllActivity()
	*b = *staged
	return nil
}
