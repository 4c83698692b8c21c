package symtoe

import (
	"cmp"
	"math/rand"

	"github.com/symtoe/game"
	"github.com/symtoe/symmetry"
	"github.com/symtoe/table"
)

// Policy decides how a move is picked among the legal ones.
type Policy struct {
	// Rate is the probability of playing a uniformly random move.
	Rate float64
	// Ready is false while the table is being bootstrapped; every move is
	// then random regardless of Rate.
	Ready bool
	// Deterministic breaks the last ties on the smallest cell index instead
	// of at random. Only honoured when Rate is 0.
	Deterministic bool
}

var (
	// ExplorePolicy always plays at random; it bootstraps an empty table.
	ExplorePolicy = Policy{Rate: 1}
	// GreedyPolicy always exploits and breaks ties on the smallest cell.
	GreedyPolicy = Policy{Ready: true, Deterministic: true}
)

// EpsilonGreedyPolicy exploits the table, playing at random with probability
// rate and breaking ties at random.
func EpsilonGreedyPolicy(rate float64) Policy {
	return Policy{Rate: rate, Ready: true}
}

// SelectMove picks a move on b and returns it with its canonical key.
//
// Exploitation maximises the average reward of the move's key, then its
// visit count. Unseen keys score 0 with count 0.
func SelectMove(b *game.Board, p Policy, t table.Reader, r *rand.Rand) (int, symmetry.Key, error) {
	moves := b.LegalMoves()
	if len(moves) == 0 {
		return -1, symmetry.Key{}, ErrNoLegalMoves
	}
	state := b.ID()

	if !p.Ready || t == nil || (p.Rate > 0 && r.Float64() < p.Rate) {
		move := moves[r.Intn(len(moves))]
		return move, symmetry.Canonicalize(state, move), nil
	}

	keys := make(map[int]symmetry.Key, len(moves))
	candidates := make([]int, 0, len(moves))
	var best table.Entry
	for _, m := range moves {
		k := symmetry.Canonicalize(state, m)
		keys[m] = k
		e, _ := t.Lookup(k)
		c := e.CompareAverage(best)
		if c == 0 {
			c = cmp.Compare(e.Count, best.Count)
		}
		switch {
		case len(candidates) == 0, c > 0:
			best = e
			candidates = append(candidates[:0], m)
		case c == 0:
			candidates = append(candidates, m)
		}
	}

	// legal moves come in increasing order, so candidates do as well
	move := candidates[0]
	if !(p.Deterministic && p.Rate == 0) && len(candidates) > 1 {
		move = candidates[r.Intn(len(candidates))]
	}
	return move, keys[move], nil
}
