package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog/log"

	"github.com/hailam/fastfeud/internal/board"
	"github.com/hailam/fastfeud/internal/engine"
)

// Storage keys
const (
	keyStats      = "stats"
	prefixGame    = "game/"
	prefixSuggest = "suggest/"
)

// ErrNotFound is returned when a saved game does not exist.
var ErrNotFound = errors.New("storage: not found")

// SavedGame is a named board snapshot.
type SavedGame struct {
	Name    string    `json:"name"`
	Hash    string    `json:"hash"`
	SavedAt time.Time `json:"saved_at"`
}

// GameStats stores aggregate results of finished games
type GameStats struct {
	GamesPlayed int            `json:"games_played"`
	BlackWins   int            `json:"black_wins"`
	WhiteWins   int            `json:"white_wins"`
	Ties        int            `json:"ties"`
	ByCondition map[string]int `json:"by_condition"`
	TotalTurns  int            `json:"total_turns"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{ByCondition: make(map[string]int)}
}

// WinRate returns the share of games won by team as a percentage (0-100)
func (s *GameStats) WinRate(team board.Team) float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	var wins int
	switch team {
	case board.Black:
		wins = s.BlackWins
	case board.White:
		wins = s.WhiteWins
	default:
		wins = s.Ties
	}
	return float64(wins) / float64(s.GamesPlayed) * 100
}

// AverageTurns returns the mean game length in quarter turns
func (s *GameStats) AverageTurns() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.TotalTurns) / float64(s.GamesPlayed)
}

// GameResult represents the result of a completed game
type GameResult struct {
	Winner    board.Team
	Condition board.WinCondition
	Turns     int
}

// suggestion is the stored form of engine.Cached. Values may be infinite,
// which JSON numbers cannot carry.
type suggestion struct {
	Index int    `json:"index"`
	Value string `json:"value"`
	Depth int    `json:"depth"`
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

var _ engine.Cache = (*Storage)(nil)

// NewStorage opens the database in the default data directory
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens or creates a database in dir
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = badgerLogger{}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", dir, err)
	}
	return &Storage{db: db}, nil
}

// OpenInMemory opens a database that is never written to disk
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = badgerLogger{}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory database: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Storage) putJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// getJSON decodes the value at key into v. It reports false if the key
// does not exist.
func (s *Storage) getJSON(key string, v any) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	return found, err
}

// SaveGame stores the board under name, replacing any earlier save
func (s *Storage) SaveGame(name string, b *board.Board) error {
	if name == "" {
		return fmt.Errorf("save game: empty name")
	}
	h, err := b.Hash()
	if err != nil {
		return fmt.Errorf("save game %q: %w", name, err)
	}
	return s.putJSON(prefixGame+name, SavedGame{Name: name, Hash: h.String(), SavedAt: time.Now()})
}

// LoadGame restores the board saved under name
func (s *Storage) LoadGame(name string) (*board.Board, error) {
	var g SavedGame
	found, err := s.getJSON(prefixGame+name, &g)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("game %q: %w", name, ErrNotFound)
	}
	h, err := board.ParseHash(g.Hash)
	if err != nil {
		return nil, fmt.Errorf("game %q: %w", name, err)
	}
	b := board.New()
	if err := b.LoadHash(h); err != nil {
		return nil, fmt.Errorf("game %q: %w", name, err)
	}
	return b, nil
}

// DeleteGame removes a saved game
func (s *Storage) DeleteGame(name string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(prefixGame + name))
	})
}

// ListGames returns every saved game ordered by name
func (s *Storage) ListGames() ([]SavedGame, error) {
	var games []SavedGame
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixGame)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var g SavedGame
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &g)
			}); err != nil {
				return err
			}
			games = append(games, g)
		}
		return nil
	})
	return games, err
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	return s.putJSON(keyStats, stats)
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	if _, err := s.getJSON(keyStats, stats); err != nil {
		return nil, err
	}
	if stats.ByCondition == nil {
		stats.ByCondition = make(map[string]int)
	}
	return stats, nil
}

// RecordGame records a completed game and updates statistics
func (s *Storage) RecordGame(result GameResult) error {
	return s.db.Update(func(txn *badger.Txn) error {
		stats := NewGameStats()
		item, err := txn.Get([]byte(keyStats))
		switch {
		case err == badger.ErrKeyNotFound:
		case err != nil:
			return err
		default:
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, stats)
			}); err != nil {
				return err
			}
			if stats.ByCondition == nil {
				stats.ByCondition = make(map[string]int)
			}
		}

		stats.GamesPlayed++
		stats.TotalTurns += result.Turns
		switch result.Winner {
		case board.Black:
			stats.BlackWins++
		case board.White:
			stats.WhiteWins++
		default:
			stats.Ties++
		}
		stats.ByCondition[result.Condition.String()]++

		data, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		return txn.Set([]byte(keyStats), data)
	})
}

func suggestKey(h board.Hash, depth int) string {
	return prefixSuggest + h.String() + "/" + strconv.Itoa(depth)
}

// Lookup returns a stored suggestion. Read errors count as a miss.
func (s *Storage) Lookup(h board.Hash, depth int) (engine.Cached, bool) {
	var sg suggestion
	found, err := s.getJSON(suggestKey(h, depth), &sg)
	if err != nil {
		log.Warn().Err(err).Msg("suggestion lookup failed")
		return engine.Cached{}, false
	}
	if !found {
		return engine.Cached{}, false
	}
	v, err := strconv.ParseFloat(sg.Value, 64)
	if err != nil {
		log.Warn().Err(err).Str("value", sg.Value).Msg("corrupt suggestion")
		return engine.Cached{}, false
	}
	return engine.Cached{Index: sg.Index, Value: v, Depth: sg.Depth}, true
}

// Store saves a suggestion. Write errors are logged and dropped.
func (s *Storage) Store(h board.Hash, depth int, c engine.Cached) {
	sg := suggestion{Index: c.Index, Value: strconv.FormatFloat(c.Value, 'g', -1, 64), Depth: c.Depth}
	if err := s.putJSON(suggestKey(h, depth), sg); err != nil {
		log.Warn().Err(err).Msg("suggestion store failed")
	}
}

// ClearSuggestions removes every cached suggestion
func (s *Storage) ClearSuggestions() error {
	return s.db.DropPrefix([]byte(prefixSuggest))
}
