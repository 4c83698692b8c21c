package symtoe

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/symtoe/game"
	"github.com/symtoe/table"
)

// Arena plays self-play games between two agents sharing one table.
// The agent holding Player1 always moves first.
type Arena struct {
	r             *rand.Rand
	first, second *Agent

	// lookups go through reader; learning writes into sink
	reader table.Reader
	sink   *table.Table

	logger     zerolog.Logger
	gameNumber int
}

// NewArena makes an arena whose agents read and learn into t. A nil t
// starts from an empty table.
func NewArena(t *table.Table, r *rand.Rand) *Arena {
	if t == nil {
		t = table.New()
	}
	return newArena(t, t, r)
}

func newArena(reader table.Reader, sink *table.Table, r *rand.Rand) *Arena {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Arena{
		r:      r,
		first:  NewAgent("CPU 1", game.Player1, r),
		second: NewAgent("CPU 2", game.Player2, r),
		reader: reader,
		sink:   sink,
		logger: zerolog.Nop(),
	}
}

// SetLogger replaces the default no-op logger.
func (a *Arena) SetLogger(l zerolog.Logger) { a.logger = l }

// Agents returns the first and second mover.
func (a *Arena) Agents() (*Agent, *Agent) { return a.first, a.second }

// GameNumber is the number of games played by this arena.
func (a *Arena) GameNumber() int { return a.gameNumber }

// PlayGame plays one game to completion with both agents on policy p.
// With learn set, every recorded key of each agent is credited with that
// agent's terminal reward: +1 for the winner, -1 for the loser, 0 on a draw.
// The outcome is counted into stats when stats is not nil.
func (a *Arena) PlayGame(p Policy, learn bool, stats *Stats) (game.Result, error) {
	b := game.New()
	for _, agent := range []*Agent{a.first, a.second} {
		agent.Reset()
		agent.Policy = p
		agent.Table = a.reader
	}
	a.gameNumber++

	current, other := a.first, a.second
	plies := 0
	for {
		move, err := current.ChooseMove(b)
		if err != nil {
			return game.InProgress, errors.WithMessagef(err, "game %d, ply %d", a.gameNumber, plies+1)
		}
		if !b.ApplyMove(current.Marker, move) {
			return game.InProgress, errors.Wrapf(game.ErrIllegalMove, "%s chose cell %d", current.Name(), move)
		}
		plies++

		result := b.Result()
		if !result.Terminal() {
			current, other = other, current
			continue
		}

		firstReward := a.first.score(result)
		secondReward := a.second.score(result)
		if learn {
			for _, k := range a.first.Moves() {
				a.sink.Record(k, firstReward)
			}
			for _, k := range a.second.Moves() {
				a.sink.Record(k, secondReward)
			}
		}
		if stats != nil {
			stats.Record(result, plies)
		}

		a.logger.Debug().
			Int("game", a.gameNumber).
			Int("plies", plies).
			Stringer("result", result).
			Bool("learn", learn).
			Msg("game over")
		return result, nil
	}
}

func (a *Arena) resetStats() {
	a.first.resetStats()
	a.second.resetStats()
}

// MoveObserver is called after every move of PlayMatch with a copy of the board.
type MoveObserver func(b *game.Board, p Player, move int)

// PlayMatch plays x against o until the game ends. x must hold Player1 and
// o Player2. Nothing is learned.
func PlayMatch(x, o Player, observe MoveObserver) (game.Result, error) {
	if x.Mark() != game.Player1 || o.Mark() != game.Player2 {
		return game.InProgress, errors.Errorf("players must hold X and O, got %v and %v", x.Mark(), o.Mark())
	}
	if agent, ok := x.(*Agent); ok {
		agent.Reset()
	}
	if agent, ok := o.(*Agent); ok {
		agent.Reset()
	}

	b := game.New()
	current, other := x, o
	for {
		move, err := current.ChooseMove(b)
		if err != nil {
			return game.InProgress, err
		}
		if !b.ApplyMove(current.Mark(), move) {
			return game.InProgress, errors.Wrapf(game.ErrIllegalMove, "%s chose cell %d", current.Name(), move)
		}
		if observe != nil {
			observe(b.Clone(), current, move)
		}
		if result := b.Result(); result.Terminal() {
			return result, nil
		}
		current, other = other, current
	}
}
