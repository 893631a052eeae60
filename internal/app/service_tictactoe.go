package app

import (
	"errors"

	"arcade/internal/bot"
	"arcade/internal/domain"
	"arcade/internal/domain/match"
	"arcade/internal/domain/tictactoe"
)

// PlaceMark places the acting participant's symbol on the board.
func (s *Service) PlaceMark(st *match.State, actorID string, index int) ([]Event, error) {
	if st.Kind != domain.GameTicTacToe {
		return nil, ErrWrongGameKind
	}

	res, err := tictactoe.ApplyMove(st.TicTacToe, actorID, index)
	if err != nil {
		return nil, errors.Join(ErrIllegalMove, err)
	}
	st.Version++

	events := []Event{{
		Kind: EventMarkPlaced,
		Payload: MarkPlacedPayload{
			Actor:    actorID,
			Index:    res.Index,
			Symbol:   res.Symbol,
			NextTurn: res.NextTurn,
		},
	}}
	if res.Winner != "" {
		events = append(events, Event{
			Kind:    EventGameEnded,
			Payload: GameEndedPayload{Winner: res.Winner},
		})
	}
	return events, nil
}

// PlayTicTacToeBotTurn places the AI's mark through the same path a human
// move takes.
func (s *Service) PlayTicTacToeBotTurn(st *match.State, agent *bot.Agent) ([]Event, error) {
	if st.Kind != domain.GameTicTacToe {
		return nil, ErrWrongGameKind
	}

	index, ok := agent.PlayTicTacToe(st.TicTacToe)
	if !ok {
		return nil, errors.Join(ErrIllegalMove, tictactoe.ErrMatchFinished)
	}
	return s.PlaceMark(st, agent.ID, index)
}
