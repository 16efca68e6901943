package board

import (
	"errors"
	"fmt"
)

var (
	// ErrContract marks a programming error. It is only ever raised through panic.
	ErrContract    = errors.New("board: contract violation")
	ErrBadLayout   = errors.New("board: malformed layout")
	ErrBadHash     = errors.New("board: malformed hash")
	ErrUnencodable = errors.New("board: state cannot be encoded")
	ErrIllegalMove = errors.New("board: illegal move")
	ErrGameOver    = errors.New("board: game is over")
)

func contract(format string, args ...any) {
	panic(fmt.Errorf("%w: %s", ErrContract, fmt.Sprintf(format, args...)))
}
