// Command fastfeud is an interactive shell for playing Fast Feud against
// the engine. With stdin redirected it reads protocol commands line by
// line.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/pprof"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"

	"github.com/hailam/fastfeud/internal/config"
	"github.com/hailam/fastfeud/internal/engine"
	"github.com/hailam/fastfeud/internal/protocol"
	"github.com/hailam/fastfeud/internal/storage"
)

const memoryCacheSize = 1 << 16

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load("fastfeud", args)
	if err != nil {
		return err
	}
	cfg.InitLogging(os.Stderr)

	if cfg.CPUProfile != "" {
		f, err := os.Create(cfg.CPUProfile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
		log.Info().Msgf("CPU profiling enabled, writing to %s", cfg.CPUProfile)
	}

	store, err := openStorage(cfg.DB)
	opts := cfg.EngineOptions()
	if err != nil {
		log.Warn().Err(err).Msg("running without a database")
		opts = append(opts, engine.WithCache(engine.NewMemoryCache(memoryCacheSize)))
	} else {
		defer store.Close()
		opts = append(opts, engine.WithCache(store))
	}
	eng := engine.NewEngine(opts...)

	if !readline.DefaultIsTerminal() {
		p := protocol.New(eng, store, os.Stdout)
		if err := loadPosition(p, cfg.Position); err != nil {
			return err
		}
		return p.Run(os.Stdin)
	}
	return shell(eng, store, cfg.Position)
}

func openStorage(dir string) (*storage.Storage, error) {
	if dir == "" {
		return storage.NewStorage()
	}
	return storage.Open(dir)
}

func loadPosition(p *protocol.Protocol, path string) error {
	if path == "" {
		return nil
	}
	if err := p.Board().LoadFile(path); err != nil {
		return err
	}
	log.Info().Msgf("loaded %s", path)
	return nil
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func shell(eng *engine.Engine, store *storage.Storage, position string) error {
	history, err := storage.GetHistoryFile()
	if err != nil {
		history = filepath.Join(os.TempDir(), "fastfeud.history")
	}

	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32mfastfeud>\033[0m ",
		HistoryFile:     history,
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return err
	}
	defer l.Close()

	p := protocol.New(eng, store, l.Stdout())
	if err := loadPosition(p, position); err != nil {
		return err
	}
	fmt.Fprint(l.Stdout(), p.Board())

	for {
		line, err := l.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				break
			}
			continue
		} else if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return err
		}
		if p.Handle(line) {
			break
		}
	}
	log.Debug().Msgf("exiting readline loop")
	return nil
}
