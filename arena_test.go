package symtoe_test

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symtoe"
	"github.com/symtoe/game"
	"github.com/symtoe/table"
)

func TestPlayGameRewardConservation(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	var draws, decisive int
	for i := 0; i < 300; i++ {
		tbl := table.New()
		arena := symtoe.NewArena(tbl, r)
		var stats symtoe.Stats

		result, err := arena.PlayGame(symtoe.ExplorePolicy, true, &stats)
		require.NoError(t, err)
		require.True(t, result.Terminal())

		first, second := arena.Agents()
		plies := len(first.Moves()) + len(second.Moves())
		assert.Equal(t, stats.TotalPlies(), plies)
		assert.Equal(t, (plies+1)/2, len(first.Moves()), "X moves first")
		assert.Equal(t, int64(plies), tbl.Totals().Count)

		want := map[game.Cell]int64{game.Player1: 0, game.Player2: 0}
		if w := result.Winner(); w != game.Empty {
			want[w], want[w.Opponent()] = 1, -1
			decisive++
		} else {
			draws++
		}
		// keys of one game never repeat: each ply has a distinct piece count
		for _, agent := range []*symtoe.Agent{first, second} {
			for _, k := range agent.Moves() {
				e, ok := tbl.Lookup(k)
				require.True(t, ok)
				assert.Equal(t, table.Entry{Sum: want[agent.Marker], Count: 1}, e)
			}
		}
	}
	assert.Positive(t, draws)
	assert.Positive(t, decisive)
}

func TestPlayGameWithoutLearning(t *testing.T) {
	tbl := table.New()
	arena := symtoe.NewArena(tbl, rand.New(rand.NewSource(1)))
	var stats symtoe.Stats
	for i := 0; i < 20; i++ {
		_, err := arena.PlayGame(symtoe.ExplorePolicy, false, &stats)
		require.NoError(t, err)
	}
	assert.Equal(t, 0, tbl.Len())
	assert.Equal(t, 20, stats.Games)
	assert.Equal(t, 20, stats.Decisive+stats.Draws)
	assert.Equal(t, stats.Decisive, stats.Player1Wins+stats.Player2Wins)
	assert.Equal(t, 20, arena.GameNumber())

	first, second := arena.Agents()
	assert.Equal(t, first.Wins, second.Loss)
	assert.Equal(t, first.Draw, second.Draw)
	assert.Equal(t, stats.Player1Wins, first.Wins)
}

func TestPlayGameAccumulatesAcrossGames(t *testing.T) {
	tbl := table.New()
	arena := symtoe.NewArena(tbl, rand.New(rand.NewSource(5)))
	var stats symtoe.Stats
	for i := 0; i < 100; i++ {
		_, err := arena.PlayGame(symtoe.ExplorePolicy, true, &stats)
		require.NoError(t, err)
	}
	total := tbl.Totals()
	assert.Equal(t, int64(stats.TotalPlies()), total.Count)
	assert.Less(t, tbl.Len(), stats.TotalPlies(), "symmetric openings share keys")
	assert.NoError(t, tbl.Validate())
}

func TestNewArenaWithoutTable(t *testing.T) {
	arena := symtoe.NewArena(nil, rand.New(rand.NewSource(4)))
	result, err := arena.PlayGame(symtoe.ExplorePolicy, true, nil)
	require.NoError(t, err)
	assert.True(t, result.Terminal())
}

func TestPlayMatch(t *testing.T) {
	tbl := table.New()
	r := rand.New(rand.NewSource(9))

	x := symtoe.NewAgent("CPU", game.Player1, r)
	x.Table = tbl
	var out strings.Builder
	// occupied and off-board cells are re-prompted
	o := symtoe.NewHuman("Human", game.Player2, strings.NewReader("0 0\n4 4\n1 1\n2 2\n0 2\n2 0\n1 0\n0 1\n"), &out)

	var moves []int
	result, err := symtoe.PlayMatch(x, o, func(b *game.Board, p symtoe.Player, move int) {
		moves = append(moves, move)
		row, col := game.Coords(move)
		assert.Equal(t, p.Mark(), b.Get(row, col))
		// observers get a copy
		b.Set(row, col, game.Empty)
	})
	require.NoError(t, err)
	assert.True(t, result.Terminal())
	assert.Equal(t, []int{0, 4, 1, 8, 2}, moves, "empty table ties break on the smallest cell")
	assert.Equal(t, game.Player1Wins, result)
	assert.Equal(t, 0, tbl.Len(), "matches do not learn")
	assert.Contains(t, out.String(), "not available")
}

func TestPlayMatchRejectsMarkers(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	a := symtoe.NewAgent("a", game.Player2, r)
	b := symtoe.NewAgent("b", game.Player1, r)
	_, err := symtoe.PlayMatch(a, b, nil)
	assert.Error(t, err)
}
