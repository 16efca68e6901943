package board

import (
	"fmt"
	"strings"
)

// Phase is the half of a turn being played.
type Phase uint8

const (
	SwapPhase Phase = iota
	ActionPhase
)

func (p Phase) String() string {
	if p == ActionPhase {
		return "action"
	}
	return "swap"
}

// Board is a complete game state.
type Board struct {
	tables *Tables

	// Occupancy bitboards: [Team][Kind]
	pieces   [2][NumKinds]Bitboard
	occupied [2]Bitboard
	active   [2]Bitboard
	damaged  Bitboard

	tiles  [NumTiles]Stats
	passes [2]int

	// Game state
	Phase     Phase
	ToPlay    Team
	TurnCount int
}

// NewBoard creates an empty board in the swap phase with Black to play.
func NewBoard(t *Tables) *Board {
	if t == nil {
		t = DefaultTables()
	}
	b := &Board{tables: t, ToPlay: Black}
	for i := range b.tiles {
		b.tiles[i] = emptyStats
	}
	return b
}

// New creates an empty board using the default tables.
func New() *Board {
	return NewBoard(nil)
}

// NewDefault creates the standard starting position.
func NewDefault() *Board {
	b, err := ParseLayout(DefaultLayout)
	if err != nil {
		panic(err)
	}
	return b
}

// Clone returns an independent copy sharing the same tables.
func (b *Board) Clone() *Board {
	nb := *b
	return &nb
}

// Tables returns the lookup tables used by the board.
func (b *Board) Tables() *Tables {
	return b.tables
}

// At returns the stats of the piece on t.
func (b *Board) At(t Tile) Stats {
	mustTile(t)
	return b.tiles[t]
}

// TileInfo returns a copy of every tile's stats.
func (b *Board) TileInfo() [NumTiles]Stats {
	return b.tiles
}

// Pieces returns the occupancy of one kind for a team.
func (b *Board) Pieces(team Team, kind Kind) Bitboard {
	if team >= NoTeam || kind >= Empty {
		return NoTiles
	}
	return b.pieces[team][kind]
}

// Occupied returns every tile held by team.
func (b *Board) Occupied(team Team) Bitboard {
	if team >= NoTeam {
		return NoTiles
	}
	return b.occupied[team]
}

// Active returns the active pieces of team.
func (b *Board) Active(team Team) Bitboard {
	if team >= NoTeam {
		return NoTiles
	}
	return b.active[team]
}

// Damaged returns every piece below its maximum hit points.
func (b *Board) Damaged() Bitboard {
	return b.damaged
}

// Passes returns the number of consecutive skips by team.
func (b *Board) Passes(team Team) int {
	if team >= NoTeam {
		return 0
	}
	return b.passes[team]
}

// EmptyTiles returns the number of unoccupied tiles.
func (b *Board) EmptyTiles() int {
	return NumTiles - (b.occupied[Black] | b.occupied[White]).PopCount()
}

// FriendlyNeighbours counts the orthogonal neighbours of t held by the
// same team as the piece on t.
func (b *Board) FriendlyNeighbours(t Tile) int {
	mustTile(t)
	s := b.tiles[t]
	if s.Kind == Empty {
		return 0
	}
	return (b.tables.neighbours[t] & b.occupied[s.Team]).PopCount()
}

// Place puts a piece on t, replacing whatever was there. A piece with
// hp <= 0 leaves the tile empty. Activity is not updated; call
// UpdateActivity or UpdateAllActivity after a batch of placements.
func (b *Board) Place(kind Kind, team Team, hp, maxHP int, t Tile) {
	mustTile(t)
	if kind > Empty || team > NoTeam {
		contract("invalid piece %d/%d", kind, team)
	}
	b.clearTile(t)
	if hp <= 0 || kind == Empty || team == NoTeam {
		b.updateOccupied()
		return
	}
	b.tiles[t] = Stats{Kind: kind, Team: team, HP: hp, MaxHP: maxHP}
	b.pieces[team][kind] = b.pieces[team][kind].Set(t)
	if hp < maxHP {
		b.damaged = b.damaged.Set(t)
	}
	b.updateOccupied()
}

// clearTile removes every bit of the occupant of t. Aggregate occupancy
// is left to the caller.
func (b *Board) clearTile(t Tile) {
	old := b.tiles[t]
	if old.Kind != Empty {
		b.pieces[old.Team][old.Kind] = b.pieces[old.Team][old.Kind].Clear(t)
	}
	b.active[Black] = b.active[Black].Clear(t)
	b.active[White] = b.active[White].Clear(t)
	b.damaged = b.damaged.Clear(t)
	b.tiles[t] = emptyStats
}

func (b *Board) updateOccupied() {
	for team := Black; team <= White; team++ {
		var occ Bitboard
		for k := King; k < Empty; k++ {
			occ |= b.pieces[team][k]
		}
		b.occupied[team] = occ
	}
}

// UpdateActivity recomputes whether the piece on t has an ally beside it.
func (b *Board) UpdateActivity(t Tile) {
	mustTile(t)
	b.active[Black] = b.active[Black].Clear(t)
	b.active[White] = b.active[White].Clear(t)
	s := &b.tiles[t]
	s.Active = false
	if s.Kind == Empty {
		return
	}
	if b.tables.neighbours[t]&b.occupied[s.Team] != 0 {
		s.Active = true
		b.active[s.Team] = b.active[s.Team].Set(t)
	}
}

// UpdateAllActivity recomputes activity for every tile.
func (b *Board) UpdateAllActivity() {
	for t := A1; t < NoTile; t++ {
		b.UpdateActivity(t)
	}
}

func (b *Board) updateActivityMask(mask Bitboard) {
	for mask != 0 {
		b.UpdateActivity(mask.PopLSB())
	}
}

// swap exchanges the pieces on two tiles and refreshes activity around them.
func (b *Board) swap(x, y Tile) {
	mustTile(x)
	mustTile(y)
	sx, sy := b.tiles[x], b.tiles[y]
	if sx.Kind != sy.Kind || sx.Team != sy.Team {
		if sx.Kind != Empty {
			b.pieces[sx.Team][sx.Kind] = b.pieces[sx.Team][sx.Kind].Clear(x).Set(y)
		}
		if sy.Kind != Empty {
			b.pieces[sy.Team][sy.Kind] = b.pieces[sy.Team][sy.Kind].Clear(y).Set(x)
		}
		b.updateOccupied()
	}
	dx, dy := b.damaged.IsSet(x), b.damaged.IsSet(y)
	b.damaged = b.damaged.Clear(x).Clear(y)
	if dx {
		b.damaged = b.damaged.Set(y)
	}
	if dy {
		b.damaged = b.damaged.Set(x)
	}
	b.tiles[x], b.tiles[y] = sy, sx
	b.updateActivityMask(TileBB(x) | TileBB(y) | b.tables.neighbours[x] | b.tables.neighbours[y])
}

// ApplySwap plays the swap half of a turn. The board must be in the swap
// phase.
func (b *Board) ApplySwap(s Swap) {
	if b.Phase != SwapPhase {
		contract("swap %v applied in %v phase", s, b.Phase)
	}
	b.swap(s.A, s.B)
	b.Phase = ActionPhase
	b.TurnCount++
}

// ApplyAction plays the action half of a turn and passes control to the
// opponent. The board must be in the action phase.
func (b *Board) ApplyAction(a Action) {
	if b.Phase != ActionPhase {
		contract("action %v applied in %v phase", a, b.Phase)
	}
	team := b.ToPlay
	if a.IsSkip() {
		b.passes[team]++
	} else {
		mustTile(a.From)
		actor := b.tiles[a.From]
		if actor.Team != team {
			contract("%v on %v does not belong to %v", actor.Kind, a.From, team)
		}
		switch actor.Kind {
		case King, Archer, Knight:
			var refresh Bitboard
			for _, t := range a.Targets() {
				refresh |= b.damage(t)
			}
			b.updateActivityMask(refresh)
		case Medic:
			for _, t := range a.Targets() {
				b.heal(t)
			}
		case Wizard:
			if a.N != 1 {
				contract("wizard needs exactly one target, got %d", a.N)
			}
			b.swap(a.From, a.To[0])
		default:
			contract("%v on %v cannot act", actor.Kind, a.From)
		}
		b.passes[team] = 0
	}
	b.Phase = SwapPhase
	b.TurnCount++
	b.ToPlay = team.Other()
}

// damage removes one hit point from the piece on t. It returns the allied
// neighbours whose activity must be recomputed when the piece dies.
func (b *Board) damage(t Tile) Bitboard {
	mustTile(t)
	s := &b.tiles[t]
	if s.Kind == Empty {
		return NoTiles
	}
	s.HP--
	if s.HP > 0 {
		b.damaged = b.damaged.Set(t)
		return NoTiles
	}
	team := s.Team
	b.clearTile(t)
	b.updateOccupied()
	return b.tables.neighbours[t] & b.occupied[team]
}

// heal adds one hit point to the piece on t, never above its maximum.
func (b *Board) heal(t Tile) {
	mustTile(t)
	s := &b.tiles[t]
	if s.Kind == Empty {
		return
	}
	if s.HP < s.MaxHP {
		s.HP++
	}
	if s.HP >= s.MaxHP {
		b.damaged = b.damaged.Clear(t)
	} else {
		b.damaged = b.damaged.Set(t)
	}
}

// Apply plays m without checking legality beyond the phase contract.
func (b *Board) Apply(m Move) {
	switch mv := m.(type) {
	case Swap:
		b.ApplySwap(mv)
	case Action:
		b.ApplyAction(mv)
	default:
		contract("unknown move %T", m)
	}
}

// Play applies m if it matches one of the generated moves for the current
// phase. Targets and swap tiles may be given in any order.
func (b *Board) Play(m Move) error {
	if b.GameOver() {
		return ErrGameOver
	}
	m = Normalize(m)
	for _, legal := range b.GenerateMoves() {
		if legal == m {
			b.Apply(legal)
			return nil
		}
	}
	return fmt.Errorf("%w: %v in %v phase", ErrIllegalMove, m, b.Phase)
}

// String renders the board, row 4 at the top.
func (b *Board) String() string {
	var sb strings.Builder
	for row := 3; row >= 0; row-- {
		fmt.Fprintf(&sb, "%d ", row+1)
		for col := 0; col < 4; col++ {
			s := b.tiles[NewTile(col, row)]
			cell := s.String()
			if s.Active {
				cell += "*"
			}
			fmt.Fprintf(&sb, " %-4s", cell)
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("   A    B    C    D\n")
	fmt.Fprintf(&sb, "%v to play, %v phase, turn %d, passes %d/%d\n",
		b.ToPlay, b.Phase, b.TurnCount, b.passes[Black], b.passes[White])
	return sb.String()
}
