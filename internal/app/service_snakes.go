package app

import (
	"errors"

	"arcade/internal/domain"
	"arcade/internal/domain/match"
	"arcade/internal/domain/snakes"
)

// RollSnakesDice resolves a roll for the acting participant: movement,
// snake/ladder teleport, overshoot no-op, exact-100 win. The turn does not
// rotate here; callers invoke AdvanceSnakesTurn after the display delay.
func (s *Service) RollSnakesDice(st *match.State, actorID string) ([]Event, error) {
	if st.Kind != domain.GameSnakes {
		return nil, ErrWrongGameKind
	}
	p, ok := st.Snakes.Players[actorID]
	if !ok {
		return nil, ErrUnknownParticipant
	}

	roll := s.RollDie()
	res, err := snakes.ResolveRoll(st.Snakes, p.Color, roll)
	if err != nil {
		return nil, errors.Join(ErrIllegalMove, err)
	}
	st.Version++

	events := []Event{
		{Kind: EventDiceRolled, Payload: DiceRolledPayload{Actor: actorID, Roll: roll}},
		pawnMovedEvent(actorID, res),
	}
	if res.Winner != "" {
		events = append(events, Event{
			Kind:    EventGameEnded,
			Payload: GameEndedPayload{Winner: string(res.Winner)},
		})
	}
	return events, nil
}

// AdvanceSnakesTurn clears the shown roll and rotates to the next active
// color. Separate from the roll so the roll result stays visible for the
// configured delay.
func (s *Service) AdvanceSnakesTurn(st *match.State) ([]Event, error) {
	if st.Kind != domain.GameSnakes {
		return nil, ErrWrongGameKind
	}

	next, err := snakes.AdvanceTurn(st.Snakes)
	if err != nil {
		return nil, errors.Join(ErrIllegalMove, err)
	}
	st.Version++

	return []Event{{Kind: EventTurnChanged, Payload: TurnChangedPayload{NextTurn: next}}}, nil
}
