// Package storage persists saved games, cached suggestions and game
// statistics in BadgerDB.
package storage

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog/log"
)

const appName = "fastfeud"

// HomeEnv overrides every data location when set.
const HomeEnv = "FASTFEUD_HOME"

// userDataRoot is the per-user directory applications keep data in:
// ~/Library/Application Support on macOS, %APPDATA% on Windows and
// $XDG_DATA_HOME (default ~/.local/share) elsewhere.
func userDataRoot() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support"), nil
	case "windows":
		if dir := os.Getenv("APPDATA"); dir != "" {
			return dir, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "AppData", "Roaming"), nil
	default:
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return dir, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share"), nil
	}
}

// dataPath joins elem onto the data directory and creates the result.
func dataPath(elem ...string) (string, error) {
	root := os.Getenv(HomeEnv)
	if root == "" {
		base, err := userDataRoot()
		if err != nil {
			return "", err
		}
		root = filepath.Join(base, appName)
	}
	dir := filepath.Join(append([]string{root}, elem...)...)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// GetDataDir returns the directory holding the database and shell history,
// $FASTFEUD_HOME if set.
func GetDataDir() (string, error) {
	return dataPath()
}

// GetDatabaseDir returns the BadgerDB directory opened by NewStorage.
func GetDatabaseDir() (string, error) {
	dir, err := dataPath("db")
	if err != nil {
		return "", err
	}
	log.Debug().Str("dir", dir).Msg("database directory")
	return dir, nil
}

// GetHistoryFile returns the readline history file of the fastfeud shell.
func GetHistoryFile() (string, error) {
	dir, err := dataPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history"), nil
}
