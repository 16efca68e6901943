package board

// GenerateMoves returns the legal moves for the current phase. The engine
// reports moves by their index in this list.
func (b *Board) GenerateMoves() []Move {
	if b.Phase == SwapPhase {
		swaps := b.GenerateSwaps()
		moves := make([]Move, len(swaps))
		for i, s := range swaps {
			moves[i] = s
		}
		return moves
	}
	actions := b.GenerateActions()
	moves := make([]Move, len(actions))
	for i, a := range actions {
		moves[i] = a
	}
	return moves
}

// GenerateSwaps returns every swap available to the side to play. Each
// active piece may swap with any neighbouring piece except an enemy shield.
func (b *Board) GenerateSwaps() []Swap {
	us := b.ToPlay
	partners := (b.occupied[Black] | b.occupied[White]) &^ b.pieces[us.Other()][Shield]

	var seen [NumTiles]Bitboard
	var swaps []Swap
	candidates := b.active[us]
	for candidates != 0 {
		from := candidates.PopLSB()
		targets := b.tables.neighbours[from] & partners
		for targets != 0 {
			s := NewSwap(from, targets.PopLSB())
			if seen[s.A].IsSet(s.B) {
				continue
			}
			seen[s.A] = seen[s.A].Set(s.B)
			swaps = append(swaps, s)
		}
	}
	return swaps
}

// GenerateActions returns every action available to the side to play.
// The last entry is always Skip.
func (b *Board) GenerateActions() []Action {
	us := b.ToPlay
	them := us.Other()
	enemies := b.occupied[them]

	var actions []Action
	candidates := b.active[us] &^ b.pieces[us][Shield]
	for candidates != 0 {
		from := candidates.PopLSB()
		nbrs := b.tables.neighbours[from]
		switch b.tiles[from].Kind {
		case King:
			actions = appendSingles(actions, from, nbrs&enemies)
		case Medic:
			actions = b.appendSubsets(actions, from, nbrs&b.occupied[us]&b.damaged, 4)
		case Wizard:
			actions = appendSingles(actions, from, b.occupied[us]&^b.pieces[us][Wizard])
		case Archer:
			actions = appendSingles(actions, from, b.archerReach(from)&enemies)
		case Knight:
			actions = b.appendSubsets(actions, from, nbrs&enemies, 2)
		}
	}
	return append(actions, Skip)
}

// archerReach intersects the rays blocked by every enemy shield.
func (b *Board) archerReach(from Tile) Bitboard {
	shields := b.pieces[b.ToPlay.Other()][Shield]
	if shields == 0 {
		return b.tables.archer[from][NoTile]
	}
	reach := AllTiles
	for shields != 0 {
		reach &= b.tables.archer[from][shields.PopLSB()]
	}
	return reach
}

func appendSingles(actions []Action, from Tile, targets Bitboard) []Action {
	for targets != 0 {
		actions = append(actions, NewAction(from, targets.PopLSB()))
	}
	return actions
}

// appendSubsets adds one action per subset of targets with 1..limit members.
func (b *Board) appendSubsets(actions []Action, from Tile, targets Bitboard, limit int) []Action {
	tiles := targets.Tiles()
	n := len(tiles)
	if n == 0 {
		return actions
	}
	for k := 1; k <= min(limit, n); k++ {
		for _, subset := range b.tables.Subsets(n, k) {
			a := Action{From: from, N: uint8(k)}
			for i, idx := range subset {
				a.To[i] = tiles[idx]
			}
			actions = append(actions, a)
		}
	}
	return actions
}
