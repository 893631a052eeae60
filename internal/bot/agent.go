package bot

import (
	"arcade/internal/domain"
	"arcade/internal/domain/ludo"
	"arcade/internal/domain/tictactoe"
)

// Agent represents an autonomous player occupying one AI seat. It carries a
// brain per game kind; the factory wires both so a single agent can serve
// any match the arcade runs.
type Agent struct {
	ID        string
	Name      string
	Ludo      LudoBrain
	TicTacToe TicTacToeBrain
}

// PlayLudo asks the agent for its token move given a pending roll.
func (a *Agent) PlayLudo(state *ludo.State, roll int) (ludo.Move, bool) {
	p, ok := state.Players[a.ID]
	if !ok {
		return ludo.Move{}, false
	}
	return a.Ludo.ChooseMove(state, p.Color, roll)
}

// PlayTicTacToe asks the agent for its cell choice.
func (a *Agent) PlayTicTacToe(state *tictactoe.State) (int, bool) {
	sym, ok := state.Players[a.ID]
	if !ok {
		return 0, false
	}
	return a.TicTacToe.ChooseCell(state, sym)
}

// Symbol returns the agent's tic-tac-toe symbol in the given state.
func (a *Agent) Symbol(state *tictactoe.State) (domain.Symbol, bool) {
	sym, ok := state.Players[a.ID]
	return sym, ok
}
