package game

import "github.com/pkg/errors"

// NumStates is the number of base-3 identifiers, 3^9.
const NumStates = 19683

var pow3 = [Cells]uint16{1, 3, 9, 27, 81, 243, 729, 2187, 6561}

// ID packs the board into its base-3 identifier: cell i contributes
// value*3^i, with Empty=0, Player1=1, Player2=2.
func (b *Board) ID() uint16 {
	var id uint16
	for i := 0; i < Cells; i++ {
		id += uint16(b.at(i)) * pow3[i]
	}
	return id
}

// FromID unpacks a base-3 identifier. Any identifier below NumStates is
// accepted, including positions no game can reach.
func FromID(id uint16) (*Board, error) {
	if id >= NumStates {
		return nil, errors.Errorf("state identifier %d out of range", id)
	}
	b := New()
	for i := 0; i < Cells; i++ {
		b.put(i, Cell(id%3))
		id /= 3
	}
	return b, nil
}

// Digit returns the content of cell index in a packed identifier.
func Digit(id uint16, index int) Cell {
	return Cell(id / pow3[index] % 3)
}
