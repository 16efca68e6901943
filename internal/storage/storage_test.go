package storage

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/fastfeud/internal/board"
	"github.com/hailam/fastfeud/internal/engine"
)

func openTest(t *testing.T) *Storage {
	t.Helper()
	s, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndLoadGame(t *testing.T) {
	s := openTest(t)

	b := board.NewDefault()
	b.ApplySwap(board.NewSwap(board.A2, board.A3))
	require.NoError(t, s.SaveGame("opening", b))

	loaded, err := s.LoadGame("opening")
	require.NoError(t, err)
	assert.Equal(t, b.Layout(), loaded.Layout())
	assert.Equal(t, b.TileInfo(), loaded.TileInfo())

	_, err = s.LoadGame("missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.Error(t, s.SaveGame("", b))
}

func TestListAndDeleteGames(t *testing.T) {
	s := openTest(t)
	for _, name := range []string{"beta", "alpha", "gamma"} {
		require.NoError(t, s.SaveGame(name, board.NewDefault()))
	}

	games, err := s.ListGames()
	require.NoError(t, err)
	require.Len(t, games, 3)
	assert.Equal(t, "alpha", games[0].Name)
	assert.Equal(t, "gamma", games[2].Name)
	assert.False(t, games[0].SavedAt.IsZero())

	require.NoError(t, s.DeleteGame("beta"))
	games, err = s.ListGames()
	require.NoError(t, err)
	assert.Len(t, games, 2)
}

func TestRecordGame(t *testing.T) {
	s := openTest(t)

	stats, err := s.LoadStats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.GamesPlayed)
	assert.Equal(t, 0.0, stats.WinRate(board.Black))

	results := []GameResult{
		{Winner: board.Black, Condition: board.KingDead, Turns: 20},
		{Winner: board.White, Condition: board.Surrendered, Turns: 30},
		{Winner: board.Black, Condition: board.Isolated, Turns: 10},
		{Winner: board.NoTeam, Condition: board.Isolated, Turns: 40},
	}
	for _, r := range results {
		require.NoError(t, s.RecordGame(r))
	}

	stats, err = s.LoadStats()
	require.NoError(t, err)
	assert.Equal(t, 4, stats.GamesPlayed)
	assert.Equal(t, 2, stats.BlackWins)
	assert.Equal(t, 1, stats.WhiteWins)
	assert.Equal(t, 1, stats.Ties)
	assert.Equal(t, 2, stats.ByCondition["isolated"])
	assert.Equal(t, 1, stats.ByCondition["king dead"])
	assert.Equal(t, 50.0, stats.WinRate(board.Black))
	assert.Equal(t, 25.0, stats.AverageTurns())
}

func TestSuggestionCache(t *testing.T) {
	s := openTest(t)
	h, err := board.NewDefault().Hash()
	require.NoError(t, err)

	_, ok := s.Lookup(h, 3)
	assert.False(t, ok)

	s.Store(h, 3, engine.Cached{Index: 4, Value: math.Inf(1), Depth: 2})
	got, ok := s.Lookup(h, 3)
	require.True(t, ok)
	assert.Equal(t, 4, got.Index)
	assert.True(t, math.IsInf(got.Value, 1))
	assert.Equal(t, 2, got.Depth)

	_, ok = s.Lookup(h, 4)
	assert.False(t, ok, "depth is part of the key")
}

func TestEngineUsesStorageCache(t *testing.T) {
	s := openTest(t)
	e := engine.NewEngine(engine.WithDepth(1), engine.WithCache(s))
	b := board.NewDefault()

	first, err := e.Suggest(context.Background(), b)
	require.NoError(t, err)
	require.False(t, first.Cached)

	second, err := e.Suggest(context.Background(), b)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Index, second.Index)
	assert.Equal(t, first.Move, second.Move)
}

func TestTimedSuggestionIsNotPersisted(t *testing.T) {
	s := openTest(t)
	b := board.NewDefault()
	h, err := b.Hash()
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), -time.Second)
	defer cancel()
	res, err := engine.NewEngine(engine.WithDepth(3), engine.WithCache(s)).Suggest(ctx, b)
	require.NoError(t, err)
	require.Less(t, res.Depth, 3)

	_, ok := s.Lookup(h, 3)
	assert.False(t, ok, "truncated search was stored")
}

func TestOpenPersistsAcrossRestarts(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.SaveGame("kept", board.NewDefault()))
	h, _ := board.NewDefault().Hash()
	s.Store(h, 2, engine.Cached{Index: 1, Value: 0.5, Depth: 2})
	require.NoError(t, s.ClearSuggestions())
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()
	_, err = s.LoadGame("kept")
	require.NoError(t, err)
	_, ok := s.Lookup(h, 2)
	assert.False(t, ok)
}

func TestDataPaths(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("XDG layout only")
	}
	base := t.TempDir()
	t.Setenv(HomeEnv, "")
	t.Setenv("XDG_DATA_HOME", base)

	dbDir, err := GetDatabaseDir()
	if err != nil {
		t.Fatalf("GetDatabaseDir failed: %v", err)
	}
	assert.Equal(t, filepath.Join(base, "fastfeud", "db"), dbDir)
	info, err := os.Stat(dbDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	t.Logf("Database directory: %s", dbDir)
}

func TestHomeOverridesDataPaths(t *testing.T) {
	home := filepath.Join(t.TempDir(), "ff")
	t.Setenv(HomeEnv, home)

	dir, err := GetDataDir()
	require.NoError(t, err)
	assert.Equal(t, home, dir)

	dbDir, err := GetDatabaseDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "db"), dbDir)

	history, err := GetHistoryFile()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "history"), history)
}
