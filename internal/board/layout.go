package board

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// DefaultLayout is the standard starting position.
const DefaultLayout = `sb0;0;0;
ba3;bk4;bm3;ba3;
bn3;bs4;bw3;bn3;
wn3;ws4;ww3;wn3;
wa3;wk4;wm3;wa3;
`

// layoutFields is the header, two pass counts and one field per tile.
const layoutFields = 3 + NumTiles

// ParseLayout parses a layout string into a new board using the default
// tables.
func ParseLayout(s string) (*Board, error) {
	b := New()
	if err := b.LoadLayout(s); err != nil {
		return nil, err
	}
	return b, nil
}

// ReadLayout reads a layout from r.
func ReadLayout(r io.Reader) (*Board, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	return ParseLayout(string(data))
}

// LoadFile replaces the board with the layout stored at path. On any
// error the board is left untouched.
func (b *Board) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return b.LoadLayout(string(data))
}

// LoadLayout replaces the board with the parsed layout. On any error the
// board is left untouched.
func (b *Board) LoadLayout(s string) error {
	staged := NewBoard(b.tables)
	if err := staged.parseLayout(s); err != nil {
		return err
	}
	*b = *staged
	return nil
}

func (b *Board) parseLayout(s string) error {
	parts := strings.Split(s, ";")
	if rest := strings.TrimSpace(parts[len(parts)-1]); rest != "" {
		return fmt.Errorf("%w: unterminated field %q", ErrBadLayout, rest)
	}
	fields := parts[:len(parts)-1]
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	if len(fields) < 1 {
		return fmt.Errorf("%w: missing header", ErrBadLayout)
	}
	if err := b.parseHeader(fields[0]); err != nil {
		return err
	}
	if len(fields) < 3 {
		return fmt.Errorf("%w: missing pass counts", ErrBadLayout)
	}
	for i, team := range []Team{Black, White} {
		n, err := strconv.Atoi(fields[1+i])
		// maxPasses+1 is a surrendered team
		if err != nil || n < 0 || n > maxPasses+1 {
			return fmt.Errorf("%w: %v passes %q not in 0..%d", ErrBadLayout, team, fields[1+i], maxPasses+1)
		}
		b.passes[team] = n
	}
	if len(fields) != layoutFields {
		return fmt.Errorf("%w: got %d tiles, want %d", ErrBadLayout, len(fields)-3, NumTiles)
	}
	for i, code := range fields[3:] {
		if err := b.parseTile(Tile(i), code); err != nil {
			return err
		}
	}
	b.UpdateAllActivity()
	return nil
}

func (b *Board) parseHeader(h string) error {
	if len(h) < 3 {
		return fmt.Errorf("%w: header %q", ErrBadLayout, h)
	}
	switch h[0] {
	case 's':
		b.Phase = SwapPhase
	case 'a':
		b.Phase = ActionPhase
	default:
		return fmt.Errorf("%w: unknown phase %q", ErrBadLayout, h[:1])
	}
	switch h[1] {
	case 'b':
		b.ToPlay = Black
	case 'w':
		b.ToPlay = White
	default:
		return fmt.Errorf("%w: unknown team %q", ErrBadLayout, h[1:2])
	}
	n, err := strconv.Atoi(h[2:])
	if err != nil || n < 0 || h[2] == '+' || h[2] == '-' {
		return fmt.Errorf("%w: turn count %q", ErrBadLayout, h[2:])
	}
	b.TurnCount = n
	return nil
}

func (b *Board) parseTile(t Tile, code string) error {
	if code == "." {
		return nil
	}
	if len(code) != 3 {
		return fmt.Errorf("%w: tile %v code %q", ErrBadLayout, t, code)
	}
	var team Team
	switch code[0] {
	case 'b':
		team = Black
	case 'w':
		team = White
	default:
		return fmt.Errorf("%w: tile %v team %q", ErrBadLayout, t, code[:1])
	}
	kind := KindFromChar(code[1])
	if kind == Empty {
		return fmt.Errorf("%w: tile %v piece %q", ErrBadLayout, t, code[1:2])
	}
	if code[2] < '0' || code[2] > '9' {
		return fmt.Errorf("%w: tile %v hp %q", ErrBadLayout, t, code[2:])
	}
	hp := int(code[2] - '0')
	if hp <= 0 || hp > kind.MaxHP() {
		return fmt.Errorf("%w: tile %v %v hp %d not in 1..%d", ErrBadLayout, t, kind, hp, kind.MaxHP())
	}
	b.Place(kind, team, hp, kind.MaxHP(), t)
	return nil
}

// Layout writes the board in the layout format, one row per line.
// Maximum hit points are implied by the piece kinds.
func (b *Board) Layout() string {
	var sb strings.Builder
	phase := byte('s')
	if b.Phase == ActionPhase {
		phase = 'a'
	}
	fmt.Fprintf(&sb, "%c%c%d;%d;%d;\n", phase, b.ToPlay.Char(), b.TurnCount, b.passes[Black], b.passes[White])
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			sb.WriteString(b.tiles[NewTile(col, row)].String())
			sb.WriteByte(';')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
