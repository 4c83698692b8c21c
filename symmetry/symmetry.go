// Package symmetry maps board positions and moves onto a canonical
// representative under the eight symmetries of the square.
package symmetry

import (
	"fmt"

	"github.com/symtoe/game"
)

// Transform identifies one element of the dihedral group of order 8.
type Transform int

const (
	Identity Transform = iota
	Rotate90
	Rotate180
	Rotate270
	ReflectVertical
	ReflectHorizontal
	ReflectMainDiagonal
	ReflectAntiDiagonal

	NumTransforms = 8
)

func (t Transform) String() string {
	switch t {
	case Identity:
		return "identity"
	case Rotate90:
		return "rotate 90"
	case Rotate180:
		return "rotate 180"
	case Rotate270:
		return "rotate 270"
	case ReflectVertical:
		return "reflect vertical"
	case ReflectHorizontal:
		return "reflect horizontal"
	case ReflectMainDiagonal:
		return "reflect main diagonal"
	case ReflectAntiDiagonal:
		return "reflect anti-diagonal"
	}
	return "UNKNOWN TRANSFORM"
}

func mapCoords(t Transform, r, c int) (int, int) {
	const n = game.Rows - 1
	switch t {
	case Rotate90:
		return c, n - r
	case Rotate180:
		return n - r, n - c
	case Rotate270:
		return n - c, r
	case ReflectVertical:
		return r, n - c
	case ReflectHorizontal:
		return n - r, c
	case ReflectMainDiagonal:
		return c, r
	case ReflectAntiDiagonal:
		return n - c, n - r
	}
	return r, c
}

// permutations[t][i] is the image of cell index i under transform t.
var permutations [NumTransforms][game.Cells]int

var pow3 [game.Cells]uint16

func init() {
	pow3[0] = 1
	for i := 1; i < game.Cells; i++ {
		pow3[i] = pow3[i-1] * 3
	}
	for t := Transform(0); t < NumTransforms; t++ {
		for i := 0; i < game.Cells; i++ {
			r, c := game.Coords(i)
			permutations[t][i] = game.Index(mapCoords(t, r, c))
		}
	}
}

// TransformIndex returns the image of a cell index under t.
func TransformIndex(index int, t Transform) int {
	return permutations[t][index]
}

// TransformState moves every occupied cell of a packed state to its image under t.
func TransformState(state uint16, t Transform) uint16 {
	var out uint16
	for i := 0; i < game.Cells; i++ {
		if v := game.Digit(state, i); v != game.Empty {
			out += uint16(v) * pow3[permutations[t][i]]
		}
	}
	return out
}

// Key is the canonical state-action pair used to index the value table.
type Key struct {
	State  uint16
	Action uint8
}

// Less orders keys by state, then action.
func (k Key) Less(other Key) bool {
	if k.State != other.State {
		return k.State < other.State
	}
	return k.Action < other.Action
}

func (k Key) String() string {
	return fmt.Sprintf("(%d, %d)", k.State, k.Action)
}

// Canonicalize returns the smallest (state, action) image over all eight
// transforms. Pairs related by a symmetry share the result.
func Canonicalize(state uint16, action int) Key {
	best := Key{State: state, Action: uint8(action)}
	for t := Rotate90; t < NumTransforms; t++ {
		k := Key{
			State:  TransformState(state, t),
			Action: uint8(TransformIndex(action, t)),
		}
		if k.Less(best) {
			best = k
		}
	}
	return best
}

// CanonicalizeBoard is Canonicalize on the board's packed identifier.
func CanonicalizeBoard(b *game.Board, action int) Key {
	return Canonicalize(b.ID(), action)
}
