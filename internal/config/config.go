// Package config loads settings from defaults, an optional config file,
// FASTFEUD_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hailam/fastfeud/internal/engine"
)

const envPrefix = "FASTFEUD"

// Keys
const (
	KeyConfig     = "config"
	KeyDepth      = "depth"
	KeyDifficulty = "difficulty"
	KeyMoveTime   = "movetime"
	KeyDB         = "db"
	KeyPosition   = "position"
	KeyLogLevel   = "log-level"
	KeyGames      = "games"
	KeyParallel   = "parallel"
	KeyMaxTurns   = "max-turns"
	KeyCPUProfile = "cpuprofile"
)

// Config is the resolved configuration of one process.
type Config struct {
	Depth      int
	Difficulty string
	MoveTime   time.Duration
	DB         string // empty means the default data directory
	Position   string // layout file loaded at startup
	LogLevel   zerolog.Level
	Games      int
	Parallel   int
	MaxTurns   int
	CPUProfile string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyDepth, engine.DefaultDepth)
	v.SetDefault(KeyDifficulty, "")
	v.SetDefault(KeyMoveTime, time.Duration(0))
	v.SetDefault(KeyDB, "")
	v.SetDefault(KeyPosition, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyGames, 10)
	v.SetDefault(KeyParallel, 4)
	v.SetDefault(KeyMaxTurns, 400)
	v.SetDefault(KeyCPUProfile, "")
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String(KeyConfig, "", "config file (yaml, json or toml)")
	fs.Int(KeyDepth, engine.DefaultDepth, "base search depth, extended by one ply per empty tile")
	fs.String(KeyDifficulty, "", "easy, medium or hard; overrides depth")
	fs.Duration(KeyMoveTime, 0, "stop deepening once this much time has passed (0 = no limit)")
	fs.String(KeyDB, "", "database directory")
	fs.String(KeyPosition, "", "layout file to start from")
	fs.String(KeyLogLevel, "info", "trace, debug, info, warn or error")
	fs.Int(KeyGames, 10, "self-play games")
	fs.Int(KeyParallel, 4, "self-play games run at once")
	fs.Int(KeyMaxTurns, 400, "quarter turns before a self-play game is declared a tie")
	fs.String(KeyCPUProfile, "", "write cpu profile to file")
	return fs
}

// Load resolves the configuration for the program name from args.
func Load(name string, args []string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs := newFlagSet(name)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	if file := v.GetString(KeyConfig); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	level, err := zerolog.ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	c := &Config{
		Depth:      v.GetInt(KeyDepth),
		Difficulty: v.GetString(KeyDifficulty),
		MoveTime:   v.GetDuration(KeyMoveTime),
		DB:         v.GetString(KeyDB),
		Position:   v.GetString(KeyPosition),
		LogLevel:   level,
		Games:      v.GetInt(KeyGames),
		Parallel:   v.GetInt(KeyParallel),
		MaxTurns:   v.GetInt(KeyMaxTurns),
		CPUProfile: v.GetString(KeyCPUProfile),
	}
	if c.Difficulty != "" {
		if _, ok := engine.ParseDifficulty(c.Difficulty); !ok {
			return nil, fmt.Errorf("unknown difficulty %q", c.Difficulty)
		}
	}
	if c.Depth < 0 {
		return nil, errors.New("depth must not be negative")
	}
	if c.Parallel < 1 {
		c.Parallel = 1
	}
	return c, nil
}

// EngineOptions translates the search settings into engine options.
func (c *Config) EngineOptions() []engine.Option {
	opts := []engine.Option{engine.WithDepth(c.Depth)}
	if d, ok := engine.ParseDifficulty(c.Difficulty); ok && c.Difficulty != "" {
		opts = append(opts, engine.WithDifficulty(d))
	}
	if c.MoveTime > 0 {
		opts = append(opts, engine.WithMoveTime(c.MoveTime))
	}
	return opts
}
