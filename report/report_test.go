package report_test

import (
	"bytes"
	"testing"

	"github.com/awalterschulze/gographviz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symtoe"
	"github.com/symtoe/game"
	"github.com/symtoe/report"
	"github.com/symtoe/table"
)

func TestOutcomeChart(t *testing.T) {
	var random, greedy symtoe.Stats
	random.Regime, greedy.Regime = symtoe.RegimeRandom, symtoe.RegimeEpsilonGreedy
	random.Record(game.Player1Wins, 7)
	random.Record(game.Draw, 9)
	greedy.Record(game.Draw, 9)

	var buf bytes.Buffer
	require.NoError(t, report.OutcomeChart(&buf, random, greedy))
	html := buf.String()
	assert.Contains(t, html, "<html")
	assert.Contains(t, html, "Outcomes per regime")
	assert.Contains(t, html, "epsilon-greedy")

	assert.Error(t, report.OutcomeChart(&buf))
}

func TestGreedyLineDOT(t *testing.T) {
	conf := symtoe.DefaultConfig()
	conf.RandomGames, conf.GreedyGames, conf.Seed = 2000, 500, 3
	res, err := symtoe.Train(nil, conf)
	require.NoError(t, err)

	dot, err := report.GreedyLineDOT(res.Table)
	require.NoError(t, err)

	g, err := gographviz.Read([]byte(dot))
	require.NoError(t, err)

	assert.True(t, g.Directed)
	assert.True(t, g.IsNode("s0"), "line starts at the empty board")
	// a game lasts 5 to 9 plies, and the line has one more position than moves
	assert.GreaterOrEqual(t, len(g.Nodes.Nodes), 6)
	assert.LessOrEqual(t, len(g.Nodes.Nodes), 10)
	assert.Len(t, g.Edges.Edges, len(g.Nodes.Nodes)-1)
}

func TestGreedyLineDOTEmptyTable(t *testing.T) {
	dot, err := report.GreedyLineDOT(table.New())
	require.NoError(t, err)

	g, err := gographviz.Read([]byte(dot))
	require.NoError(t, err)
	// every tie breaks on the smallest cell: X ends it on the 2-4-6 diagonal
	assert.Len(t, g.Nodes.Nodes, 8)
	assert.Contains(t, dot, "X wins")
	assert.Contains(t, dot, "X (2,0)")

	_, err = report.GreedyLineDOT(nil)
	assert.Error(t, err)
}
