// Package symtoe learns tic-tac-toe by self-play, averaging terminal
// rewards per symmetry-reduced state-action key.
package symtoe

import (
	"math/rand"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/symtoe/table"
)

// Trainer runs the training regimes against one table. The table carries
// over between regimes and between calls.
type Trainer struct {
	conf   Config
	table  *table.Table
	r      *rand.Rand
	arena  *Arena
	logger zerolog.Logger
}

// Report is the outcome of a training run.
type Report struct {
	Table   *table.Table
	Regimes []Stats
	Elapsed time.Duration
}

// New creates a trainer over t; a nil t starts from an empty table.
func New(t *table.Table, conf Config) (*Trainer, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	if t == nil {
		t = table.New()
	}
	seed := conf.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := rand.New(rand.NewSource(seed))
	return &Trainer{
		conf:   conf,
		table:  t,
		r:      r,
		arena:  NewArena(t, r),
		logger: zerolog.Nop(),
	}, nil
}

// SetLogger replaces the default no-op logger.
func (tr *Trainer) SetLogger(l zerolog.Logger) {
	tr.logger = l
	tr.arena.SetLogger(l)
}

// Table returns the table being trained.
func (tr *Trainer) Table() *table.Table { return tr.table }

// Train plays the random regime, the epsilon-greedy regime and, when
// EvalGames is positive, the evaluation regime.
func (tr *Trainer) Train() (Report, error) {
	type step struct {
		regime Regime
		games  int
	}
	start := time.Now()
	plan := []step{
		{RegimeRandom, tr.conf.RandomGames},
		{RegimeEpsilonGreedy, tr.conf.GreedyGames},
	}
	if tr.conf.EvalGames > 0 {
		plan = append(plan, step{RegimeEvaluation, tr.conf.EvalGames})
	}

	report := Report{Table: tr.table}
	for _, step := range plan {
		s, err := tr.RunRegime(step.regime, step.games)
		if err != nil {
			return report, errors.WithMessagef(err, "%v regime", step.regime)
		}
		report.Regimes = append(report.Regimes, s)
	}
	report.Elapsed = time.Since(start)
	return report, nil
}

// Train is New followed by Trainer.Train.
func Train(t *table.Table, conf Config) (Report, error) {
	tr, err := New(t, conf)
	if err != nil {
		return Report{}, err
	}
	return tr.Train()
}

// RunRegime plays games under one regime and returns their outcome counts.
func (tr *Trainer) RunRegime(regime Regime, games int) (Stats, error) {
	if games < 0 {
		return Stats{}, errors.Wrapf(ErrInvalidConfig, "negative game count %d", games)
	}
	start := time.Now()
	p := regime.Policy(tr.conf.Epsilon)
	learn := regime.Learns()

	var (
		s   Stats
		err error
	)
	if tr.conf.Workers > 1 && games > 1 {
		s, err = tr.runParallel(regime, p, learn, games)
	} else {
		s = Stats{Regime: regime}
		tr.arena.resetStats()
		for i := 0; i < games; i++ {
			if _, err = tr.arena.PlayGame(p, learn, &s); err != nil {
				break
			}
		}
	}
	if err != nil {
		return s, err
	}

	tr.logger.Info().
		Stringer("regime", regime).
		Int("games", s.Games).
		Int("decisive", s.Decisive).
		Int("draws", s.Draws).
		Float64("mean_plies", s.MeanPlies()).
		Int("keys", tr.table.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("regime finished")
	return s, nil
}

// runParallel splits games across workers. Each worker reads the table
// frozen at the start of the batch plus its own accumulations, and the
// accumulations are merged by summing sums and counts.
func (tr *Trainer) runParallel(regime Regime, p Policy, learn bool, games int) (Stats, error) {
	workers := min(tr.conf.Workers, games)
	per, rest := games/workers, games%workers

	deltas := make([]*table.Table, workers)
	results := make([]Stats, workers)
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs error
	)
	for i := 0; i < workers; i++ {
		n := per
		if i < rest {
			n++
		}
		deltas[i] = table.New()
		arena := newArena(table.Overlay{Base: tr.table, Delta: deltas[i]}, deltas[i], rand.New(rand.NewSource(tr.r.Int63())))
		arena.SetLogger(tr.logger.With().Int("worker", i).Logger())

		wg.Add(1)
		go func(i, n int, arena *Arena) {
			defer wg.Done()
			s := Stats{Regime: regime}
			for g := 0; g < n; g++ {
				if _, err := arena.PlayGame(p, learn, &s); err != nil {
					mu.Lock()
					errs = multierror.Append(errs, errors.WithMessagef(err, "worker %d", i))
					mu.Unlock()
					return
				}
			}
			results[i] = s
		}(i, n, arena)
	}
	wg.Wait()
	if errs != nil {
		return Stats{Regime: regime}, errs
	}

	total := Stats{Regime: regime}
	for i := range deltas {
		tr.table.Merge(deltas[i])
		total.Merge(results[i])
	}
	return total, nil
}
