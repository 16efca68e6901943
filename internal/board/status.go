package board

// WinCondition is the reason a game ended.
type WinCondition uint8

const (
	NoWinner WinCondition = iota
	Isolated
	KingDead
	Surrendered
)

func (w WinCondition) String() string {
	switch w {
	case Isolated:
		return "isolated"
	case KingDead:
		return "king dead"
	case Surrendered:
		return "surrendered"
	default:
		return "none"
	}
}

// maxPasses is the number of consecutive skips a team may make before it
// is considered to have surrendered.
const maxPasses = 2

// Isolated returns true if no piece of team has an ally beside it.
func (b *Board) Isolated(team Team) bool {
	return b.Active(team) == 0
}

// KingDead returns true if team has no king.
func (b *Board) KingDead(team Team) bool {
	return b.Pieces(team, King) == 0
}

// Surrendered returns true if team has skipped too many times in a row.
func (b *Board) Surrendered(team Team) bool {
	return b.Passes(team) > maxPasses
}

// GameOver returns true if either team has met a losing condition.
func (b *Board) GameOver() bool {
	for _, team := range []Team{Black, White} {
		if b.Isolated(team) || b.KingDead(team) || b.Surrendered(team) {
			return true
		}
	}
	return false
}

// Winner reports the winning team and why. Surrender is checked before
// king death, king death before isolation, Black before White. A tie by
// mutual isolation returns (NoTeam, Isolated).
func (b *Board) Winner() (Team, WinCondition) {
	switch {
	case b.Surrendered(Black):
		return White, Surrendered
	case b.KingDead(Black):
		return White, KingDead
	case b.Surrendered(White):
		return Black, Surrendered
	case b.KingDead(White):
		return Black, KingDead
	}
	bi, wi := b.Isolated(Black), b.Isolated(White)
	switch {
	case bi && wi:
		return NoTeam, Isolated
	case bi:
		return White, Isolated
	case wi:
		return Black, Isolated
	}
	return NoTeam, NoWinner
}
