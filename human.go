package symtoe

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/symtoe/game"
)

// Human is a Player that reads "row col" lines, asking again until the
// input names an empty cell.
type Human struct {
	name   string
	marker game.Cell
	in     *bufio.Scanner
	out    io.Writer
}

func NewHuman(name string, marker game.Cell, in io.Reader, out io.Writer) *Human {
	return &Human{
		name:   name,
		marker: marker,
		in:     bufio.NewScanner(in),
		out:    out,
	}
}

func (h *Human) Name() string { return h.name }

func (h *Human) Mark() game.Cell { return h.marker }

// ChooseMove blocks until a legal move is read. It fails only when the input is exhausted.
func (h *Human) ChooseMove(b *game.Board) (int, error) {
	for {
		fmt.Fprintf(h.out, "%s, enter row and column (0-2): ", h.name)
		if !h.in.Scan() {
			if err := h.in.Err(); err != nil {
				return -1, errors.WithStack(err)
			}
			return -1, errors.WithStack(io.EOF)
		}

		var row, col int
		var extra string
		if n, _ := fmt.Sscan(h.in.Text(), &row, &col, &extra); n != 2 {
			fmt.Fprintln(h.out, "expected two numbers")
			continue
		}
		if !b.IsLegalMove(row, col) {
			fmt.Fprintln(h.out, "that cell is not available")
			continue
		}
		return game.Index(row, col), nil
	}
}
