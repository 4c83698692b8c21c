package symtoe

import (
	"math/rand"

	"github.com/symtoe/game"
	"github.com/symtoe/symmetry"
	"github.com/symtoe/table"
)

// An Agent is a table-driven player. It records the canonical key of every
// move it makes so the game's outcome can be credited to them.
type Agent struct {
	Marker game.Cell
	Policy Policy
	Table  table.Reader

	// Statistics
	Wins int
	Loss int
	Draw int

	name  string
	r     *rand.Rand
	moves []symmetry.Key
}

// NewAgent creates an agent playing greedily until given another Policy.
func NewAgent(name string, marker game.Cell, r *rand.Rand) *Agent {
	return &Agent{
		Marker: marker,
		Policy: GreedyPolicy,
		name:   name,
		r:      r,
		moves:  make([]symmetry.Key, 0, (game.Cells+1)/2),
	}
}

func (a *Agent) Name() string { return a.name }

func (a *Agent) Mark() game.Cell { return a.Marker }

// ChooseMove selects a move with the agent's policy and table and appends its key to the history.
func (a *Agent) ChooseMove(b *game.Board) (int, error) {
	move, key, err := SelectMove(b, a.Policy, a.Table, a.r)
	if err != nil {
		return -1, err
	}
	a.moves = append(a.moves, key)
	return move, nil
}

// Moves returns the keys recorded since the last Reset.
func (a *Agent) Moves() []symmetry.Key { return a.moves }

// Reset clears the move history for a new game.
func (a *Agent) Reset() { a.moves = a.moves[:0] }

func (a *Agent) resetStats() {
	a.Wins = 0
	a.Loss = 0
	a.Draw = 0
}

func (a *Agent) score(result game.Result) int {
	switch result.Winner() {
	case game.Empty:
		a.Draw++
		return 0
	case a.Marker:
		a.Wins++
		return 1
	}
	a.Loss++
	return -1
}
