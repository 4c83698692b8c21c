package symtoe

import (
	"math"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/symtoe/game"
)

var (
	// ErrNoLegalMoves is returned when a move is requested on a board with no empty cell.
	ErrNoLegalMoves = errors.New("no legal moves")
	// ErrInvalidConfig marks a Config that fails Validate.
	ErrInvalidConfig = errors.New("invalid config")
)

// Config for a training run.
type Config struct {
	// games per regime; EvalGames may be 0 to skip evaluation
	RandomGames int `json:"random_games" yaml:"random_games"`
	GreedyGames int `json:"greedy_games" yaml:"greedy_games"`
	EvalGames   int `json:"eval_games" yaml:"eval_games"`

	// Epsilon is the exploration rate of the epsilon-greedy regime.
	Epsilon float64 `json:"epsilon" yaml:"epsilon"`

	// Workers > 1 plays each regime's games on that many goroutines.
	Workers int `json:"workers" yaml:"workers"`

	// Seed for the random source. 0 seeds from the clock.
	Seed int64 `json:"seed" yaml:"seed"`
}

func DefaultConfig() Config {
	return Config{
		Epsilon: 0.1,
		Workers: 1,
	}
}

// Validate reports every field out of range.
func (c Config) Validate() error {
	var errs error
	if c.RandomGames < 0 || c.GreedyGames < 0 || c.EvalGames < 0 {
		errs = multierror.Append(errs, errors.Wrap(ErrInvalidConfig, "game counts must not be negative"))
	}
	if math.IsNaN(c.Epsilon) || c.Epsilon < 0 || c.Epsilon > 1 {
		errs = multierror.Append(errs, errors.Wrapf(ErrInvalidConfig, "epsilon %v outside [0, 1]", c.Epsilon))
	}
	if c.Workers < 1 {
		errs = multierror.Append(errs, errors.Wrapf(ErrInvalidConfig, "workers must be at least 1, got %d", c.Workers))
	}
	return errs
}

// Player is anything that can pick a cell index for its marker.
type Player interface {
	Name() string
	Mark() game.Cell
	// ChooseMove returns the index of an empty cell on b.
	ChooseMove(b *game.Board) (int, error)
}

// Regime is a phase of training with a fixed exploration policy.
type Regime int

const (
	// RegimeRandom plays uniformly random moves to bootstrap the table.
	RegimeRandom Regime = iota + 1
	// RegimeEpsilonGreedy exploits the table, exploring at Config.Epsilon.
	RegimeEpsilonGreedy
	// RegimeEvaluation plays greedily with deterministic ties and does not learn.
	RegimeEvaluation
)

func (r Regime) String() string {
	switch r {
	case RegimeRandom:
		return "random"
	case RegimeEpsilonGreedy:
		return "epsilon-greedy"
	case RegimeEvaluation:
		return "evaluation"
	}
	return "UNKNOWN REGIME"
}

// MarshalText reports the regime by name.
func (r Regime) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// Policy returns the move selection policy of the regime.
func (r Regime) Policy(epsilon float64) Policy {
	switch r {
	case RegimeEpsilonGreedy:
		return EpsilonGreedyPolicy(epsilon)
	case RegimeEvaluation:
		return GreedyPolicy
	}
	return ExplorePolicy
}

// Learns reports whether games in this regime update the table.
func (r Regime) Learns() bool { return r != RegimeEvaluation }

// Stats counts outcomes of the games of one regime.
type Stats struct {
	Regime      Regime `json:"regime"`
	Games       int    `json:"games"`
	Decisive    int    `json:"decisive"`
	Draws       int    `json:"draws"`
	Player1Wins int    `json:"player1_wins"`
	Player2Wins int    `json:"player2_wins"`

	plies []float64
}

// Record counts one finished game.
func (s *Stats) Record(result game.Result, plies int) {
	s.Games++
	switch result {
	case game.Draw:
		s.Draws++
	case game.Player1Wins:
		s.Decisive++
		s.Player1Wins++
	case game.Player2Wins:
		s.Decisive++
		s.Player2Wins++
	}
	s.plies = append(s.plies, float64(plies))
}

// Merge adds the counts of o.
func (s *Stats) Merge(o Stats) {
	s.Games += o.Games
	s.Decisive += o.Decisive
	s.Draws += o.Draws
	s.Player1Wins += o.Player1Wins
	s.Player2Wins += o.Player2Wins
	s.plies = append(s.plies, o.plies...)
}

// TotalPlies is the number of moves played across all games.
func (s Stats) TotalPlies() int {
	var n float64
	for _, p := range s.plies {
		n += p
	}
	return int(n)
}

// MeanPlies is the average game length, 0 without games.
func (s Stats) MeanPlies() float64 {
	if len(s.plies) == 0 {
		return 0
	}
	return stat.Mean(s.plies, nil)
}

// StdDevPlies is the sample standard deviation of game length, 0 for fewer than two games.
func (s Stats) StdDevPlies() float64 {
	if len(s.plies) < 2 {
		return 0
	}
	return stat.StdDev(s.plies, nil)
}
