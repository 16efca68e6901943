// Package protocol implements the line-based command protocol used by the
// interactive shell and by scripts driving the engine over a pipe.
package protocol

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/hailam/fastfeud/internal/board"
	"github.com/hailam/fastfeud/internal/engine"
	"github.com/hailam/fastfeud/internal/storage"
)

// Protocol holds one game and answers commands about it.
type Protocol struct {
	engine *engine.Engine
	store  *storage.Storage
	board  *board.Board
	limits engine.SearchLimits
	out    io.Writer
}

// New creates a protocol handler on the default layout. store may be nil,
// in which case the persistence commands report an error.
func New(eng *engine.Engine, store *storage.Storage, out io.Writer) *Protocol {
	return &Protocol{
		engine: eng,
		store:  store,
		board:  board.NewDefault(),
		limits: eng.Limits(),
		out:    out,
	}
}

// Board returns the current game.
func (p *Protocol) Board() *board.Board {
	return p.board
}

// SetBoard replaces the current game.
func (p *Protocol) SetBoard(b *board.Board) {
	p.board = b
}

// Run reads commands from r until EOF or quit.
func (p *Protocol) Run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if p.Handle(scanner.Text()) {
			return nil
		}
	}
	return scanner.Err()
}

type handler func(p *Protocol, args []string) error

var commands map[string]handler

var helpText = map[string]string{
	"help":       "list commands",
	"rules":      "summarise the rules",
	"new":        "start from the default layout",
	"load":       "load <file>: read a layout file",
	"layout":     "print the layout text",
	"hash":       "print the compact encoding",
	"unhash":     "unhash <hex>: restore a compact encoding",
	"d":          "show the board",
	"moves":      "list legal moves with their indices",
	"play":       "play <tiles...>: swap two tiles, or act with a tile on targets",
	"skip":       "skip the action",
	"go":         "go [depth N] [movetime MS]: suggest a move",
	"auto":       "auto [N]: let the engine play N moves (default 1)",
	"winner":     "show the winner",
	"difficulty": "difficulty easy|medium|hard",
	"save":       "save <name>: store the game",
	"restore":    "restore <name>: load a stored game",
	"delete":     "delete <name>: remove a stored game",
	"games":      "list stored games",
	"stats":      "show game statistics",
	"clearcache": "forget cached suggestions",
	"quit":       "exit",
}

func init() {
	commands = map[string]handler{
		"help":       (*Protocol).handleHelp,
		"rules":      (*Protocol).handleRules,
		"new":        (*Protocol).handleNew,
		"load":       (*Protocol).handleLoad,
		"layout":     (*Protocol).handleLayout,
		"hash":       (*Protocol).handleHash,
		"unhash":     (*Protocol).handleUnhash,
		"d":          (*Protocol).handleShow,
		"moves":      (*Protocol).handleMoves,
		"play":       (*Protocol).handlePlay,
		"skip":       (*Protocol).handleSkip,
		"go":         (*Protocol).handleGo,
		"auto":       (*Protocol).handleAuto,
		"winner":     (*Protocol).handleWinner,
		"difficulty": (*Protocol).handleDifficulty,
		"save":       (*Protocol).handleSave,
		"restore":    (*Protocol).handleRestore,
		"delete":     (*Protocol).handleDelete,
		"games":      (*Protocol).handleGames,
		"stats":      (*Protocol).handleStats,
		"clearcache": (*Protocol).handleClearCache,
	}
}

// Commands returns the command names in sorted order.
func Commands() []string {
	names := make([]string, 0, len(helpText))
	for name := range helpText {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Handle runs one command line. It returns true when the session should end.
// Errors are written to the output and never change the game.
func (p *Protocol) Handle(line string) bool {
	fields, err := shellquote.Split(strings.TrimSpace(line))
	if err != nil {
		p.printf("error: %v\n", err)
		return false
	}
	if len(fields) == 0 {
		return false
	}

	cmd, args := strings.ToLower(fields[0]), fields[1:]
	log.Debug().Str("cmd", cmd).Strs("args", args).Msg("command")
	if cmd == "quit" || cmd == "exit" {
		return true
	}
	h, ok := commands[cmd]
	if !ok {
		p.printf("error: unknown command %q (try help)\n", cmd)
		return false
	}
	if err := h(p, args); err != nil {
		p.printf("error: %v\n", err)
	}
	return false
}

func (p *Protocol) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

func (p *Protocol) handleHelp(args []string) error {
	for _, name := range Commands() {
		p.printf("  %-10s %s\n", name, helpText[name])
	}
	return nil
}

const rulesText = `Fast Feud is played on a 4x4 board. Black moves first.
Each turn has two halves:
  swap    exchange an active piece with an adjacent piece, friend or foe,
          but never with an enemy shield
  action  act with one active piece, or skip
A piece is active while an ally stands orthogonally next to it.
  king    1 damage to an adjacent enemy
  knight  1 damage to up to two adjacent enemies
  archer  1 damage to an enemy on the same row or column; shields block
  medic   heal up to four adjacent damaged allies by 1
  wizard  swap places with any ally
  shield  cannot act and cannot be swapped by the enemy
Kings and shields have 4 hit points, the others 3.
You lose when your king dies, when none of your pieces is active, or when
you skip three times in a row. Both teams isolated at once is a tie.
`

func (p *Protocol) handleRules(args []string) error {
	p.printf("%s", rulesText)
	return nil
}

func (p *Protocol) handleNew(args []string) error {
	p.board = board.NewDefault()
	p.printf("%v", p.board)
	return nil
}

func (p *Protocol) handleLoad(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: load <file>")
	}
	if err := p.board.LoadFile(args[0]); err != nil {
		return err
	}
	p.printf("%v", p.board)
	return nil
}

func (p *Protocol) handleLayout(args []string) error {
	p.printf("%s", p.board.Layout())
	return nil
}

func (p *Protocol) handleHash(args []string) error {
	h, err := p.board.Hash()
	if err != nil {
		return err
	}
	p.printf("%v\n", h)
	return nil
}

func (p *Protocol) handleUnhash(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: unhash <hex>")
	}
	h, err := board.ParseHash(args[0])
	if err != nil {
		return err
	}
	if err := p.board.LoadHash(h); err != nil {
		return err
	}
	p.printf("%v", p.board)
	return nil
}

func (p *Protocol) handleShow(args []string) error {
	p.printf("%v", p.board)
	return nil
}

func (p *Protocol) handleMoves(args []string) error {
	for i, m := range p.board.GenerateMoves() {
		p.printf("%d: %v\n", i, m)
	}
	return nil
}

func (p *Protocol) handlePlay(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: play <tiles...>")
	}
	// A lone index plays that entry of the move list.
	if len(args) == 1 {
		if idx, err := strconv.Atoi(args[0]); err == nil {
			moves := p.board.GenerateMoves()
			if idx < 0 || idx >= len(moves) {
				return fmt.Errorf("move index %d out of range [0, %d)", idx, len(moves))
			}
			return p.play(moves[idx])
		}
	}
	m, err := board.ParseMove(p.board.Phase, strings.Join(args, " "))
	if err != nil {
		return err
	}
	return p.play(m)
}

func (p *Protocol) handleSkip(args []string) error {
	return p.play(board.Skip)
}

func (p *Protocol) play(m board.Move) error {
	if err := p.board.Play(m); err != nil {
		return err
	}
	p.printf("played %v\n", m)
	p.reportGameOver()
	return nil
}

func (p *Protocol) reportGameOver() {
	if !p.board.GameOver() {
		return
	}
	winner, cond := p.board.Winner()
	p.printf("game over: %s\n", describeWinner(winner, cond))
	if p.store != nil {
		if err := p.store.RecordGame(storage.GameResult{Winner: winner, Condition: cond, Turns: p.board.TurnCount}); err != nil {
			log.Warn().Err(err).Msg("record game")
		}
	}
}

func describeWinner(winner board.Team, cond board.WinCondition) string {
	switch {
	case cond == board.NoWinner:
		return "no winner yet"
	case winner == board.NoTeam:
		return fmt.Sprintf("tie (%v)", cond)
	default:
		return fmt.Sprintf("%v wins (%v)", winner, cond)
	}
}

// parseGoOptions reads "depth N" and "movetime MS" pairs.
func (p *Protocol) parseGoOptions(args []string) (engine.SearchLimits, error) {
	limits := p.limits
	for i := 0; i < len(args); i++ {
		if i+1 >= len(args) {
			return limits, fmt.Errorf("missing value for %q", args[i])
		}
		n, err := strconv.Atoi(args[i+1])
		if err != nil || n < 0 {
			return limits, fmt.Errorf("invalid value %q for %q", args[i+1], args[i])
		}
		switch args[i] {
		case "depth":
			limits.Depth = n
		case "movetime":
			limits.MoveTime = time.Duration(n) * time.Millisecond
		default:
			return limits, fmt.Errorf("unknown option %q", args[i])
		}
		i++
	}
	return limits, nil
}

func (p *Protocol) suggest(limits engine.SearchLimits) (engine.Result, error) {
	return p.engine.SuggestWithLimits(context.Background(), p.board, limits)
}

func (p *Protocol) handleGo(args []string) error {
	limits, err := p.parseGoOptions(args)
	if err != nil {
		return err
	}
	res, err := p.suggest(limits)
	if err != nil {
		return err
	}
	p.printf("info depth %d value %s nodes %d time %d cached %v\n",
		res.Depth, formatValue(res.Value), res.Nodes, res.Time.Milliseconds(), res.Cached)
	p.printf("bestmove %d %v\n", res.Index, res.Move)
	return nil
}

func (p *Protocol) handleAuto(args []string) error {
	n := 1
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 1 {
			return fmt.Errorf("invalid move count %q", args[0])
		}
		n = v
	}
	for i := 0; i < n && !p.board.GameOver(); i++ {
		res, err := p.suggest(p.limits)
		if err != nil {
			return err
		}
		if err := p.play(res.Move); err != nil {
			return err
		}
	}
	return nil
}

func (p *Protocol) handleWinner(args []string) error {
	winner, cond := p.board.Winner()
	p.printf("%s\n", describeWinner(winner, cond))
	return nil
}

func (p *Protocol) handleDifficulty(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: difficulty easy|medium|hard")
	}
	d, ok := engine.ParseDifficulty(args[0])
	if !ok {
		return fmt.Errorf("unknown difficulty %q", args[0])
	}
	p.limits.Depth = engine.DifficultySettings[d].Depth
	p.printf("difficulty %v (depth %d)\n", d, p.limits.Depth)
	return nil
}

var errNoStorage = errors.New("storage is not available")

func (p *Protocol) handleSave(args []string) error {
	if p.store == nil {
		return errNoStorage
	}
	if len(args) != 1 {
		return errors.New("usage: save <name>")
	}
	if err := p.store.SaveGame(args[0], p.board); err != nil {
		return err
	}
	p.printf("saved %s\n", args[0])
	return nil
}

func (p *Protocol) handleRestore(args []string) error {
	if p.store == nil {
		return errNoStorage
	}
	if len(args) != 1 {
		return errors.New("usage: restore <name>")
	}
	b, err := p.store.LoadGame(args[0])
	if err != nil {
		return err
	}
	p.board = b
	p.printf("%v", p.board)
	return nil
}

func (p *Protocol) handleDelete(args []string) error {
	if p.store == nil {
		return errNoStorage
	}
	if len(args) != 1 {
		return errors.New("usage: delete <name>")
	}
	return p.store.DeleteGame(args[0])
}

func (p *Protocol) handleGames(args []string) error {
	if p.store == nil {
		return errNoStorage
	}
	games, err := p.store.ListGames()
	if err != nil {
		return err
	}
	for _, g := range games {
		p.printf("%s\t%s\n", g.Name, g.SavedAt.Format(time.RFC3339))
	}
	return nil
}

func (p *Protocol) handleStats(args []string) error {
	if p.store == nil {
		return errNoStorage
	}
	stats, err := p.store.LoadStats()
	if err != nil {
		return err
	}
	p.printf("games %d black %d white %d ties %d avg turns %.1f\n",
		stats.GamesPlayed, stats.BlackWins, stats.WhiteWins, stats.Ties, stats.AverageTurns())
	conds := make([]string, 0, len(stats.ByCondition))
	for c := range stats.ByCondition {
		conds = append(conds, c)
	}
	sort.Strings(conds)
	for _, c := range conds {
		p.printf("  %s: %d\n", c, stats.ByCondition[c])
	}
	return nil
}

func (p *Protocol) handleClearCache(args []string) error {
	if p.store == nil {
		return errNoStorage
	}
	return p.store.ClearSuggestions()
}

func formatValue(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "win"
	case math.IsInf(v, -1):
		return "loss"
	default:
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
}
