package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/fastfeud/internal/engine"
)

func TestDefaults(t *testing.T) {
	c, err := Load("test", nil)
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultDepth, c.Depth)
	assert.Equal(t, zerolog.InfoLevel, c.LogLevel)
	assert.Equal(t, time.Duration(0), c.MoveTime)
	assert.Equal(t, 10, c.Games)
	assert.Equal(t, 4, c.Parallel)
	assert.Equal(t, 400, c.MaxTurns)
	assert.Empty(t, c.DB)
}

func TestFlags(t *testing.T) {
	c, err := Load("test", []string{"--depth", "3", "--movetime", "250ms", "--log-level", "debug", "--db", "/tmp/x"})
	require.NoError(t, err)
	assert.Equal(t, 3, c.Depth)
	assert.Equal(t, 250*time.Millisecond, c.MoveTime)
	assert.Equal(t, zerolog.DebugLevel, c.LogLevel)
	assert.Equal(t, "/tmp/x", c.DB)
}

func TestEnvironment(t *testing.T) {
	t.Setenv("FASTFEUD_DEPTH", "5")
	t.Setenv("FASTFEUD_MAX_TURNS", "20")

	c, err := Load("test", nil)
	require.NoError(t, err)
	assert.Equal(t, 5, c.Depth)
	assert.Equal(t, 20, c.MaxTurns)

	// flags win over the environment
	c, err = Load("test", []string{"--depth", "1"})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Depth)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fastfeud.yaml")
	require.NoError(t, os.WriteFile(path, []byte("depth: 2\ndifficulty: medium\ngames: 3\n"), 0o644))

	c, err := Load("test", []string{"--config", path})
	require.NoError(t, err)
	assert.Equal(t, 2, c.Depth)
	assert.Equal(t, "medium", c.Difficulty)
	assert.Equal(t, 3, c.Games)

	_, err = Load("test", []string{"--config", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestInvalidValues(t *testing.T) {
	_, err := Load("test", []string{"--difficulty", "brutal"})
	assert.Error(t, err)

	_, err = Load("test", []string{"--log-level", "loud"})
	assert.Error(t, err)

	_, err = Load("test", []string{"--depth=-1"})
	assert.Error(t, err)

	_, err = Load("test", []string{"--no-such-flag"})
	assert.Error(t, err)
}

func TestEngineOptions(t *testing.T) {
	c, err := Load("test", []string{"--depth", "3", "--movetime", "1s"})
	require.NoError(t, err)
	e := engine.NewEngine(c.EngineOptions()...)
	assert.Equal(t, engine.SearchLimits{Depth: 3, MoveTime: time.Second}, e.Limits())

	c, err = Load("test", []string{"--depth", "3", "--difficulty", "easy"})
	require.NoError(t, err)
	e = engine.NewEngine(c.EngineOptions()...)
	assert.Equal(t, 2, e.Limits().Depth)
}

func TestNewLogger(t *testing.T) {
	var sb strings.Builder
	logger := NewLogger(&sb, zerolog.WarnLevel)
	logger.Info().Msg("hidden")
	logger.Warn().Str("tile", "B2").Msg("shown")

	out := sb.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "| WARN  |")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "tile:")
}
