package bot

import (
	"arcade/internal/domain"
	"arcade/internal/domain/ludo"
	"arcade/internal/domain/tictactoe"
)

// LudoBrain chooses among a player's legal ludo moves for a rolled value.
// The second return is false when no legal move exists.
type LudoBrain interface {
	ChooseMove(state *ludo.State, color domain.Color, roll int) (ludo.Move, bool)
}

// TicTacToeBrain chooses an empty cell for the given symbol. The second
// return is false when the board is full.
type TicTacToeBrain interface {
	ChooseCell(state *tictactoe.State, symbol domain.Symbol) (int, bool)
}
