package bot

import (
	"math/rand"

	"arcade/internal/domain"
	"arcade/internal/domain/tictactoe"
)

// RuleTicTacToeBrain plays tic-tac-toe with the win/block/random rule: take a
// winning cell if one exists, otherwise block the opponent's winning cell,
// otherwise pick an empty cell at random. No deeper lookahead.
type RuleTicTacToeBrain struct {
	rng *rand.Rand
}

// NewRuleTicTacToeBrain builds the rule-based brain.
func NewRuleTicTacToeBrain(rng *rand.Rand) *RuleTicTacToeBrain {
	return &RuleTicTacToeBrain{rng: rng}
}

// ChooseCell returns the cell to mark for the given symbol.
func (b *RuleTicTacToeBrain) ChooseCell(state *tictactoe.State, symbol domain.Symbol) (int, bool) {
	open := tictactoe.EmptyCells(state.Board)
	if len(open) == 0 {
		return 0, false
	}

	// Win first.
	if idx, ok := completingCell(state.Board, open, symbol); ok {
		return idx, true
	}
	// Block second.
	if idx, ok := completingCell(state.Board, open, symbol.Opponent()); ok {
		return idx, true
	}
	return open[b.rng.Intn(len(open))], true
}

// completingCell finds an open cell that completes three in a row for the
// symbol.
func completingCell(board [tictactoe.Cells]tictactoe.Cell, open []int, symbol domain.Symbol) (int, bool) {
	for _, idx := range open {
		probe := board
		probe[idx] = tictactoe.Cell(symbol)
		if tictactoe.CalculateWinner(probe) == string(symbol) {
			return idx, true
		}
	}
	return 0, false
}
