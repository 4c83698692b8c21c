package game

import (
	"math/bits"
	"strings"
)

const fullMask uint16 = 1<<Cells - 1

// rows, columns and diagonals as bit patterns over the cell indices
var winningLines = [8]uint16{
	0b000000111, 0b000111000, 0b111000000,
	0b001001001, 0b010010010, 0b100100100,
	0b100010001, 0b001010100,
}

// Board is a 3x3 grid held as one occupancy bitboard per player.
// The zero value is an empty board.
type Board struct {
	bitboards [2]uint16
}

// New returns an empty board.
func New() *Board { return &Board{} }

func inBounds(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Cols
}

// Get returns the content of a cell. Coordinates are not checked.
func (b *Board) Get(row, col int) Cell {
	return b.at(Index(row, col))
}

func (b *Board) at(index int) Cell {
	bit := uint16(1) << index
	switch {
	case b.bitboards[0]&bit != 0:
		return Player1
	case b.bitboards[1]&bit != 0:
		return Player2
	}
	return Empty
}

// Set overwrites a cell. Callers validate coordinates and occupancy.
func (b *Board) Set(row, col int, value Cell) {
	b.put(Index(row, col), value)
}

func (b *Board) put(index int, value Cell) {
	bit := uint16(1) << index
	b.bitboards[0] &^= bit
	b.bitboards[1] &^= bit
	switch value {
	case Player1:
		b.bitboards[0] |= bit
	case Player2:
		b.bitboards[1] |= bit
	}
}

// IsLegalMove reports whether the coordinates are on the grid and the cell is empty.
func (b *Board) IsLegalMove(row, col int) bool {
	return inBounds(row, col) && b.Get(row, col) == Empty
}

// LegalMoves returns the empty cell indices in increasing order.
func (b *Board) LegalMoves() []int {
	free := uint(fullMask &^ (b.bitboards[0] | b.bitboards[1]))
	moves := make([]int, 0, bits.OnesCount(free))
	for free != 0 {
		moves = append(moves, bits.TrailingZeros(free))
		free &= free - 1
	}
	return moves
}

// ApplyMove places the marker at index if the move is legal. An illegal
// move leaves the board untouched and returns false.
func (b *Board) ApplyMove(player Cell, index int) bool {
	if player != Player1 && player != Player2 {
		return false
	}
	if index < 0 || index >= Cells {
		return false
	}
	row, col := Coords(index)
	if !b.IsLegalMove(row, col) {
		return false
	}
	b.put(index, player)
	return true
}

// Full reports whether every cell is occupied.
func (b *Board) Full() bool {
	return b.bitboards[0]|b.bitboards[1] == fullMask
}

// Result scans the eight lines for a winner, then checks for a draw.
func (b *Board) Result() Result {
	for _, line := range winningLines {
		if b.bitboards[0]&line == line {
			return Player1Wins
		}
		if b.bitboards[1]&line == line {
			return Player2Wins
		}
	}
	if b.Full() {
		return Draw
	}
	return InProgress
}

// Clone returns an independent copy.
func (b *Board) Clone() *Board {
	c := *b
	return &c
}

// String renders the grid with row and column headers.
func (b *Board) String() string { return b.Format(Cell.String) }

// Format renders like String with every cell drawn by mark.
func (b *Board) Format(mark func(Cell) string) string {
	var sb strings.Builder
	sb.WriteString("   0   1   2\n")
	for r := 0; r < Rows; r++ {
		cells := make([]string, Cols)
		for c := 0; c < Cols; c++ {
			cells[c] = mark(b.Get(r, c))
		}
		sb.WriteByte(byte('0' + r))
		sb.WriteString("  ")
		sb.WriteString(strings.Join(cells, " | "))
		sb.WriteByte('\n')
		if r < Rows-1 {
			sb.WriteString("  " + strings.Repeat("-", 11) + "\n")
		}
	}
	return sb.String()
}
