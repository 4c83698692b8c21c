package symtoe_test

import (
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symtoe"
	"github.com/symtoe/game"
	"github.com/symtoe/symmetry"
	"github.com/symtoe/table"
)

func trainConfig(workers int) symtoe.Config {
	conf := symtoe.DefaultConfig()
	conf.RandomGames = 500
	conf.GreedyGames = 500
	conf.EvalGames = 10
	conf.Workers = workers
	conf.Seed = 1337
	return conf
}

func TestTrain(t *testing.T) {
	for _, workers := range []int{1, 4} {
		report, err := symtoe.Train(nil, trainConfig(workers))
		require.NoError(t, err)
		require.Len(t, report.Regimes, 3)

		random, greedy, eval := report.Regimes[0], report.Regimes[1], report.Regimes[2]
		assert.Equal(t, symtoe.RegimeRandom, random.Regime)
		assert.Equal(t, 500, random.Games)
		assert.Equal(t, 500, greedy.Games)
		assert.Equal(t, 10, eval.Games)

		total := report.Table.Totals()
		assert.Equal(t, int64(random.TotalPlies()+greedy.TotalPlies()), total.Count, "workers=%d", workers)
		assert.Positive(t, report.Table.Len())
		assert.Less(t, int64(report.Table.Len()), total.Count)
		assert.NoError(t, report.Table.Validate())
	}
}

func TestTrainSkipsEvaluation(t *testing.T) {
	conf := trainConfig(1)
	conf.EvalGames = 0
	report, err := symtoe.Train(nil, conf)
	require.NoError(t, err)
	assert.Len(t, report.Regimes, 2)
}

func TestTrainIsReproducible(t *testing.T) {
	for _, workers := range []int{1, 3} {
		a, err := symtoe.Train(nil, trainConfig(workers))
		require.NoError(t, err)
		b, err := symtoe.Train(nil, trainConfig(workers))
		require.NoError(t, err)
		assert.Equal(t, a.Table.Entries(), b.Table.Entries())
	}
}

func TestEvaluationDoesNotLearn(t *testing.T) {
	tr, err := symtoe.New(nil, trainConfig(1))
	require.NoError(t, err)
	_, err = tr.RunRegime(symtoe.RegimeRandom, 300)
	require.NoError(t, err)
	before := tr.Table().Entries()

	s, err := tr.RunRegime(symtoe.RegimeEvaluation, 25)
	require.NoError(t, err)
	assert.Equal(t, before, tr.Table().Entries())

	// greedy play on a frozen table repeats the same game
	assert.Equal(t, 25, s.Games)
	assert.Contains(t, []int{s.Draws, s.Player1Wins, s.Player2Wins}, 25)
	assert.Zero(t, s.StdDevPlies())
}

func TestTrainContinuesExistingTable(t *testing.T) {
	k := symmetry.Canonicalize(game.New().ID(), 4)
	tbl, err := table.FromEntries(map[symmetry.Key]table.Entry{k: {Sum: 7, Count: 9}})
	require.NoError(t, err)

	conf := trainConfig(2)
	conf.GreedyGames, conf.EvalGames = 0, 0
	report, err := symtoe.Train(tbl, conf)
	require.NoError(t, err)
	assert.Same(t, tbl, report.Table)

	e, ok := tbl.Lookup(k)
	require.True(t, ok)
	assert.GreaterOrEqual(t, e.Count, int64(9))
	assert.Equal(t, int64(report.Regimes[0].TotalPlies()+9), tbl.Totals().Count)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, symtoe.DefaultConfig().Validate())

	bad := symtoe.Config{RandomGames: -1, Epsilon: 1.5, Workers: 0}
	err := bad.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, symtoe.ErrInvalidConfig))

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 3)

	_, err = symtoe.New(nil, bad)
	assert.True(t, errors.Is(err, symtoe.ErrInvalidConfig))
}

func TestRunRegimeRejectsNegativeGames(t *testing.T) {
	tr, err := symtoe.New(nil, symtoe.DefaultConfig())
	require.NoError(t, err)
	_, err = tr.RunRegime(symtoe.RegimeRandom, -1)
	assert.True(t, errors.Is(err, symtoe.ErrInvalidConfig))
}

func TestStats(t *testing.T) {
	var s symtoe.Stats
	assert.Zero(t, s.MeanPlies())
	assert.Zero(t, s.StdDevPlies())

	s.Record(game.Player1Wins, 5)
	s.Record(game.Draw, 9)
	s.Record(game.Player2Wins, 6)
	s.Record(game.Draw, 8)
	assert.Equal(t, 4, s.Games)
	assert.Equal(t, 2, s.Decisive)
	assert.Equal(t, 2, s.Draws)
	assert.Equal(t, 28, s.TotalPlies())
	assert.InDelta(t, 7.0, s.MeanPlies(), 1e-9)

	var o symtoe.Stats
	o.Record(game.Player1Wins, 7)
	s.Merge(o)
	assert.Equal(t, 5, s.Games)
	assert.Equal(t, 2, s.Player1Wins)
	assert.Equal(t, 35, s.TotalPlies())
}

func TestRegime(t *testing.T) {
	assert.Equal(t, symtoe.ExplorePolicy, symtoe.RegimeRandom.Policy(0.3))
	assert.Equal(t, symtoe.EpsilonGreedyPolicy(0.3), symtoe.RegimeEpsilonGreedy.Policy(0.3))
	assert.Equal(t, symtoe.GreedyPolicy, symtoe.RegimeEvaluation.Policy(0.3))
	assert.True(t, symtoe.RegimeRandom.Learns())
	assert.True(t, symtoe.RegimeEpsilonGreedy.Learns())
	assert.False(t, symtoe.RegimeEvaluation.Learns())
	assert.Equal(t, "epsilon-greedy", symtoe.RegimeEpsilonGreedy.String())
}
