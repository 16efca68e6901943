package board

// Team is the owner of a piece or the side to play.
type Team uint8

const (
	Black Team = iota
	White
	NoTeam
)

// Other returns the opposing team. NoTeam has no opponent.
func (t Team) Other() Team {
	switch t {
	case Black:
		return White
	case White:
		return Black
	default:
		return NoTeam
	}
}

func (t Team) String() string {
	switch t {
	case Black:
		return "Black"
	case White:
		return "White"
	default:
		return "None"
	}
}

// Char returns the layout letter for the team.
func (t Team) Char() byte {
	switch t {
	case Black:
		return 'b'
	case White:
		return 'w'
	default:
		return '.'
	}
}

// Kind is a piece kind.
type Kind uint8

const (
	King Kind = iota
	Medic
	Wizard
	Archer
	Knight
	Shield
	Empty
)

// NumKinds is the number of real piece kinds (Empty excluded).
const NumKinds = 6

func (k Kind) String() string {
	switch k {
	case King:
		return "King"
	case Medic:
		return "Medic"
	case Wizard:
		return "Wizard"
	case Archer:
		return "Archer"
	case Knight:
		return "Knight"
	case Shield:
		return "Shield"
	default:
		return "Empty"
	}
}

// Char returns the layout letter for the kind.
func (k Kind) Char() byte {
	chars := []byte{'k', 'm', 'w', 'a', 'n', 's', '.'}
	if k > Empty {
		return '.'
	}
	return chars[k]
}

// KindFromChar converts a layout letter to a Kind.
func KindFromChar(c byte) Kind {
	switch c {
	case 'k':
		return King
	case 'm':
		return Medic
	case 'w':
		return Wizard
	case 'a':
		return Archer
	case 'n':
		return Knight
	case 's':
		return Shield
	default:
		return Empty
	}
}

// MaxHP returns the fixed maximum hit points of the kind.
func (k Kind) MaxHP() int {
	switch k {
	case King, Shield:
		return 4
	case Empty:
		return 0
	default:
		return 3
	}
}

// Stats describes the occupant of a single tile.
type Stats struct {
	Kind   Kind
	Team   Team
	HP     int
	MaxHP  int
	Active bool
}

// IsEmpty returns true if no piece occupies the tile.
func (s Stats) IsEmpty() bool {
	return s.Kind == Empty
}

// Damaged returns true if the piece is below its maximum hit points.
func (s Stats) Damaged() bool {
	return s.HP > 0 && s.HP < s.MaxHP
}

func (s Stats) String() string {
	if s.Kind == Empty {
		return "."
	}
	return string([]byte{s.Team.Char(), s.Kind.Char(), byte('0' + s.HP%10)})
}

var emptyStats = Stats{Kind: Empty, Team: NoTeam}
