package game

import "github.com/pkg/errors"

const (
	Rows  = 3
	Cols  = 3
	Cells = Rows * Cols
)

// ErrIllegalMove is returned by callers that prefer an error value over the
// boolean result of ApplyMove.
var ErrIllegalMove = errors.New("illegal move")

// Cell is the content of one square of the grid.
type Cell uint8

const (
	Empty Cell = iota
	Player1
	Player2
)

// Opponent returns the other player's marker. Empty has no opponent.
func (c Cell) Opponent() Cell {
	switch c {
	case Player1:
		return Player2
	case Player2:
		return Player1
	}
	return Empty
}

func (c Cell) String() string {
	switch c {
	case Player1:
		return "X"
	case Player2:
		return "O"
	}
	return " "
}

// Result is the outcome of a position.
type Result int

const (
	InProgress Result = iota
	Draw
	Player1Wins
	Player2Wins
)

// Terminal reports whether no more moves may be made.
func (r Result) Terminal() bool { return r != InProgress }

// Winner returns the marker that won, or Empty for draws and unfinished games.
func (r Result) Winner() Cell {
	switch r {
	case Player1Wins:
		return Player1
	case Player2Wins:
		return Player2
	}
	return Empty
}

func (r Result) String() string {
	switch r {
	case InProgress:
		return "in progress"
	case Draw:
		return "draw"
	case Player1Wins:
		return "X wins"
	case Player2Wins:
		return "O wins"
	}
	return "UNKNOWN RESULT"
}

// WinFor returns the result in which the given marker has won.
func WinFor(c Cell) Result {
	switch c {
	case Player1:
		return Player1Wins
	case Player2:
		return Player2Wins
	}
	return InProgress
}

// Index flattens a row and column into a cell index.
func Index(row, col int) int { return row*Cols + col }

// Coords splits a cell index into its row and column.
func Coords(index int) (row, col int) { return index / Cols, index % Cols }
