package protocol

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/fastfeud/internal/board"
	"github.com/hailam/fastfeud/internal/engine"
	"github.com/hailam/fastfeud/internal/storage"
)

const mateLayout = "ab0;0;0;bk4;bn3;wk1;wn3;.;.;.;.;.;.;.;.;.;.;.;.;"

func newTestProtocol(t *testing.T, withStore bool) (*Protocol, *bytes.Buffer) {
	t.Helper()
	var store *storage.Storage
	if withStore {
		s, err := storage.OpenInMemory()
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		store = s
	}
	out := &bytes.Buffer{}
	return New(engine.NewEngine(engine.WithDepth(1)), store, out), out
}

func run(p *Protocol, out *bytes.Buffer, line string) string {
	out.Reset()
	p.Handle(line)
	return out.String()
}

func TestShowAndMoves(t *testing.T) {
	p, out := newTestProtocol(t, false)

	assert.Contains(t, run(p, out, "d"), "Black to play, swap phase, turn 0")

	lines := strings.Split(strings.TrimSpace(run(p, out, "moves")), "\n")
	assert.Len(t, lines, 13)
	assert.Equal(t, "0: A1 B1", lines[0])
}

func TestRules(t *testing.T) {
	p, out := newTestProtocol(t, false)

	got := run(p, out, "rules")
	assert.Contains(t, got, "4x4 board")
	assert.Contains(t, got, "skip three times")
	assert.Contains(t, run(p, out, "help"), "rules")
	assert.Equal(t, board.NewDefault().Layout(), p.Board().Layout())
}

func TestPlayAndSkip(t *testing.T) {
	p, out := newTestProtocol(t, false)

	assert.Equal(t, "played A1 B1\n", run(p, out, "play b1 a1"))
	assert.Equal(t, board.ActionPhase, p.Board().Phase)

	assert.Equal(t, "played skip\n", run(p, out, "skip"))
	assert.Equal(t, board.White, p.Board().ToPlay)
	assert.Equal(t, 1, p.Board().Passes(board.Black))

	assert.Equal(t, "played A2 A3\n", run(p, out, "play 0"))
}

func TestIllegalInputLeavesGameUnchanged(t *testing.T) {
	p, out := newTestProtocol(t, false)
	before := p.Board().Layout()

	assert.Contains(t, run(p, out, "play A1 C1"), "error: board: illegal move")
	assert.Contains(t, run(p, out, "play Z9 A1"), "error: invalid tile")
	assert.Contains(t, run(p, out, "play 99"), "out of range")
	assert.Contains(t, run(p, out, "skip"), "error: board: illegal move")
	assert.Contains(t, run(p, out, "frobnicate"), "unknown command")
	assert.Contains(t, run(p, out, `play "A1`), "error:")
	assert.Equal(t, before, p.Board().Layout())
}

func TestLoadQuotedPath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "saved games")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "mate.txt")
	require.NoError(t, os.WriteFile(path, []byte(mateLayout), 0o644))

	p, out := newTestProtocol(t, false)
	got := run(p, out, `load "`+path+`"`)
	assert.NotContains(t, got, "error")
	assert.Equal(t, board.ActionPhase, p.Board().Phase)

	assert.Contains(t, run(p, out, "load "+filepath.Join(dir, "missing.txt")), "error:")
}

func TestGoReportsBestMove(t *testing.T) {
	p, out := newTestProtocol(t, false)
	require.NoError(t, p.Board().LoadLayout(mateLayout))

	got := run(p, out, "go depth 2 movetime 1000")
	assert.Contains(t, got, "info depth 1 value win")
	assert.Contains(t, got, "bestmove 0 B1 C1")

	assert.Contains(t, run(p, out, "go depth"), "missing value")
	assert.Contains(t, run(p, out, "go nodes 5"), "unknown option")
}

func TestAutoFinishesAndRecordsGame(t *testing.T) {
	p, out := newTestProtocol(t, true)
	require.NoError(t, p.Board().LoadLayout(mateLayout))

	got := run(p, out, "auto 3")
	assert.Contains(t, got, "played B1 C1")
	assert.Contains(t, got, "game over: Black wins (king dead)")
	assert.Equal(t, "Black wins (king dead)\n", run(p, out, "winner"))

	assert.Contains(t, run(p, out, "stats"), "games 1 black 1 white 0 ties 0")
	assert.Contains(t, run(p, out, "go"), "error: board: game is over")
}

func TestHashCommands(t *testing.T) {
	p, out := newTestProtocol(t, false)
	run(p, out, "play A1 B1")
	h := strings.TrimSpace(run(p, out, "hash"))
	require.Len(t, h, 48)

	run(p, out, "new")
	require.Equal(t, board.SwapPhase, p.Board().Phase)
	assert.NotContains(t, run(p, out, "unhash "+h), "error")
	assert.Equal(t, board.ActionPhase, p.Board().Phase)
	assert.Equal(t, board.King, p.Board().At(board.A1).Kind)

	assert.Contains(t, run(p, out, "unhash beef"), "error: board: malformed hash")
}

func TestSaveRestore(t *testing.T) {
	p, out := newTestProtocol(t, true)
	run(p, out, "play A1 B1")
	layout := p.Board().Layout()

	assert.Equal(t, "saved first\n", run(p, out, "save first"))
	run(p, out, "new")
	assert.NotContains(t, run(p, out, "restore first"), "error")
	assert.Equal(t, layout, p.Board().Layout())
	assert.Contains(t, run(p, out, "games"), "first\t")

	assert.Contains(t, run(p, out, "restore second"), "not found")
	assert.Empty(t, run(p, out, "delete first"))
	assert.Empty(t, run(p, out, "games"))

	noStore, out2 := newTestProtocol(t, false)
	assert.Contains(t, run(noStore, out2, "save x"), "storage is not available")
}

func TestDifficultyAndHelp(t *testing.T) {
	p, out := newTestProtocol(t, false)
	assert.Equal(t, "difficulty medium (depth 4)\n", run(p, out, "difficulty medium"))
	assert.Contains(t, run(p, out, "difficulty silly"), "unknown difficulty")

	help := run(p, out, "help")
	for _, name := range Commands() {
		assert.Contains(t, help, name)
	}
}

func TestRunStopsAtQuit(t *testing.T) {
	p, out := newTestProtocol(t, false)
	err := p.Run(strings.NewReader("play A1 B1\nquit\nskip\n"))
	require.NoError(t, err)
	assert.Equal(t, "played A1 B1\n", out.String())
	assert.Equal(t, board.ActionPhase, p.Board().Phase)
}
