package report

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/awalterschulze/gographviz"
	"github.com/pkg/errors"

	"github.com/symtoe"
	"github.com/symtoe/game"
	"github.com/symtoe/symmetry"
	"github.com/symtoe/table"
)

// GreedyLineDOT plays the greedy line of t from the empty board and returns
// it as a DOT digraph: one node per position, one edge per move labelled with
// the entry that chose it.
func GreedyLineDOT(t table.Reader) (string, error) {
	if t == nil {
		return "", errors.New("no table")
	}
	g := gographviz.NewGraph()
	if err := g.SetName("greedy"); err != nil {
		return "", errors.WithStack(err)
	}
	if err := g.SetDir(true); err != nil {
		return "", errors.WithStack(err)
	}

	// ties break deterministically, so the source is never drawn from
	r := rand.New(rand.NewSource(1))
	b := game.New()
	player := game.Player1
	prev := nodeName(b)
	if err := g.AddNode("greedy", prev, boardAttrs(b, game.InProgress)); err != nil {
		return "", errors.WithStack(err)
	}
	for {
		move, key, err := symtoe.SelectMove(b, symtoe.GreedyPolicy, t, r)
		if err != nil {
			return "", err
		}
		b.ApplyMove(player, move)
		result := b.Result()

		name := nodeName(b)
		if err = g.AddNode("greedy", name, boardAttrs(b, result)); err != nil {
			return "", errors.WithStack(err)
		}
		if err = g.AddEdge(prev, name, true, edgeAttrs(t, key, player, move)); err != nil {
			return "", errors.WithStack(err)
		}
		if result.Terminal() {
			return g.String(), nil
		}
		prev, player = name, player.Opponent()
	}
}

func nodeName(b *game.Board) string {
	return fmt.Sprintf("s%d", b.ID())
}

func boardAttrs(b *game.Board, result game.Result) map[string]string {
	var sb strings.Builder
	for row := 0; row < game.Rows; row++ {
		for col := 0; col < game.Cols; col++ {
			if c := b.Get(row, col); c == game.Empty {
				sb.WriteByte('.')
			} else {
				sb.WriteString(c.String())
			}
		}
		sb.WriteByte('\n')
	}
	attrs := map[string]string{
		"shape":    "box",
		"fontname": "monospace",
	}
	if result.Terminal() {
		sb.WriteString(result.String())
		attrs["style"] = "bold"
	}
	attrs["label"] = strconv.Quote(sb.String())
	return attrs
}

func edgeAttrs(t table.Reader, key symmetry.Key, player game.Cell, move int) map[string]string {
	row, col := game.Coords(move)
	e, _ := t.Lookup(key)
	label := fmt.Sprintf("%v (%d,%d) avg %.2f n %d", player, row, col, e.Average(), e.Count)
	return map[string]string{"label": strconv.Quote(label)}
}
