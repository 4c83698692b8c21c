package symtoe_test

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symtoe"
	"github.com/symtoe/game"
	"github.com/symtoe/symmetry"
	"github.com/symtoe/table"
)

func tableWith(t *testing.T, entries map[symmetry.Key]table.Entry) *table.Table {
	t.Helper()
	tbl, err := table.FromEntries(entries)
	require.NoError(t, err)
	return tbl
}

func TestSelectMoveDeterministicTieBreak(t *testing.T) {
	b := game.New()
	tbl := tableWith(t, map[symmetry.Key]table.Entry{
		symmetry.Canonicalize(b.ID(), 0): {Sum: 1, Count: 2},
		symmetry.Canonicalize(b.ID(), 4): {Sum: 1, Count: 2},
	})

	for seed := int64(1); seed <= 50; seed++ {
		move, key, err := symtoe.SelectMove(b, symtoe.GreedyPolicy, tbl, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		assert.Equal(t, 0, move)
		assert.Equal(t, symmetry.Canonicalize(b.ID(), 0), key)
	}
}

func TestSelectMovePrefersMoreSamples(t *testing.T) {
	b := game.New()
	tbl := tableWith(t, map[symmetry.Key]table.Entry{
		symmetry.Canonicalize(b.ID(), 0): {Sum: 1, Count: 2},
		symmetry.Canonicalize(b.ID(), 4): {Sum: 2, Count: 4},
	})

	for _, p := range []symtoe.Policy{symtoe.GreedyPolicy, symtoe.EpsilonGreedyPolicy(0)} {
		move, _, err := symtoe.SelectMove(b, p, tbl, rand.New(rand.NewSource(7)))
		require.NoError(t, err)
		assert.Equal(t, 4, move)
	}
}

func TestSelectMoveComparesExactAverages(t *testing.T) {
	b := game.New()
	// both averages round to the same float32
	tbl := tableWith(t, map[symmetry.Key]table.Entry{
		symmetry.Canonicalize(b.ID(), 0): {Sum: 5000, Count: 9999},
		symmetry.Canonicalize(b.ID(), 4): {Sum: 5001, Count: 10001},
	})

	for _, p := range []symtoe.Policy{symtoe.GreedyPolicy, symtoe.EpsilonGreedyPolicy(0)} {
		move, _, err := symtoe.SelectMove(b, p, tbl, rand.New(rand.NewSource(7)))
		require.NoError(t, err)
		assert.Equal(t, 0, move)
	}
}

func TestSelectMoveRandomTieBreak(t *testing.T) {
	b := game.New()
	tbl := tableWith(t, map[symmetry.Key]table.Entry{
		symmetry.Canonicalize(b.ID(), 0): {Sum: 1, Count: 2},
		symmetry.Canonicalize(b.ID(), 4): {Sum: 1, Count: 2},
	})

	r := rand.New(rand.NewSource(3))
	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		move, _, err := symtoe.SelectMove(b, symtoe.EpsilonGreedyPolicy(0), tbl, r)
		require.NoError(t, err)
		// every corner shares the corner key
		require.Contains(t, []int{0, 2, 4, 6, 8}, move)
		seen[move] = true
	}
	assert.Len(t, seen, 5)
}

func TestSelectMoveExploitsBestAverage(t *testing.T) {
	b := game.New()
	b.ApplyMove(game.Player1, 0)
	b.ApplyMove(game.Player2, 4)
	tbl := tableWith(t, map[symmetry.Key]table.Entry{
		symmetry.Canonicalize(b.ID(), 8): {Sum: 3, Count: 4},
		symmetry.Canonicalize(b.ID(), 1): {Sum: -5, Count: 5},
	})

	move, _, err := symtoe.SelectMove(b, symtoe.GreedyPolicy, tbl, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, 8, move)

	// with the best move gone the unseen moves (average 0) beat the losing one
	tbl = tableWith(t, map[symmetry.Key]table.Entry{
		symmetry.Canonicalize(b.ID(), 1): {Sum: -5, Count: 5},
	})
	move, _, err = symtoe.SelectMove(b, symtoe.GreedyPolicy, tbl, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.NotEqual(t, 1, move)
	assert.NotEqual(t, 3, move, "cell 3 mirrors cell 1")
	assert.Equal(t, 2, move)
}

func TestSelectMoveExplores(t *testing.T) {
	b := game.New()
	tbl := tableWith(t, map[symmetry.Key]table.Entry{
		symmetry.Canonicalize(b.ID(), 4): {Sum: 10, Count: 10},
	})

	tests := []struct {
		name   string
		policy symtoe.Policy
		reader table.Reader
	}{
		{name: "table not ready", policy: symtoe.ExplorePolicy, reader: tbl},
		{name: "rate one", policy: symtoe.EpsilonGreedyPolicy(1), reader: tbl},
		{name: "no table", policy: symtoe.GreedyPolicy, reader: nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := rand.New(rand.NewSource(11))
			seen := map[int]bool{}
			for i := 0; i < 200; i++ {
				move, key, err := symtoe.SelectMove(b, tc.policy, tc.reader, r)
				require.NoError(t, err)
				assert.Equal(t, symmetry.Canonicalize(b.ID(), move), key)
				seen[move] = true
			}
			assert.Len(t, seen, game.Cells)
		})
	}
}

func TestSelectMoveNoLegalMoves(t *testing.T) {
	b := game.New()
	for i, c := range []game.Cell{1, 2, 1, 1, 2, 2, 2, 1, 1} {
		b.Set(i/3, i%3, c)
	}
	_, _, err := symtoe.SelectMove(b, symtoe.GreedyPolicy, table.New(), rand.New(rand.NewSource(1)))
	assert.True(t, errors.Is(err, symtoe.ErrNoLegalMoves))
}
