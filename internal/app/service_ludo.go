package app

import (
	"errors"

	"arcade/internal/bot"
	"arcade/internal/domain"
	"arcade/internal/domain/ludo"
	"arcade/internal/domain/match"
)

// RollLudoDice rolls for the acting participant. A roll with no legal move
// is discarded and rotates the turn immediately; otherwise the value stays
// pending until MoveLudoToken resolves it.
func (s *Service) RollLudoDice(st *match.State, actorID string) ([]Event, error) {
	if st.Kind != domain.GameLudo {
		return nil, ErrWrongGameKind
	}
	p, ok := st.Ludo.Players[actorID]
	if !ok {
		return nil, ErrUnknownParticipant
	}

	roll := s.RollDie()
	outcome, err := ludo.ApplyRoll(st.Ludo, p.Color, roll)
	if err != nil {
		return nil, errors.Join(ErrIllegalMove, err)
	}
	st.Version++

	events := []Event{{Kind: EventDiceRolled, Payload: DiceRolledPayload{Actor: actorID, Roll: roll}}}
	if outcome.Discarded {
		events = append(events, Event{
			Kind:    EventRollDiscarded,
			Payload: RollDiscardedPayload{Actor: actorID, Roll: roll, NextTurn: outcome.NextTurn},
		})
	}
	return events, nil
}

// MoveLudoToken resolves the pending roll by moving one token.
func (s *Service) MoveLudoToken(st *match.State, actorID string, tokenIndex int) ([]Event, error) {
	if st.Kind != domain.GameLudo {
		return nil, ErrWrongGameKind
	}

	res, err := ludo.ApplyMove(st.Ludo, actorID, tokenIndex)
	if err != nil {
		return nil, errors.Join(ErrIllegalMove, err)
	}
	st.Version++

	events := []Event{{
		Kind: EventTokenMoved,
		Payload: TokenMovedPayload{
			Actor:       actorID,
			TokenIndex:  res.TokenIndex,
			NewPosition: res.NewPosition,
			RepeatTurn:  res.RepeatTurn,
			NextTurn:    res.NextTurn,
		},
	}}
	if res.Captured != nil {
		events = append(events, Event{
			Kind:    EventTokenCaptured,
			Payload: TokenCapturedPayload{By: actorID, Victim: *res.Captured},
		})
	}
	if res.Winner != "" {
		events = append(events, Event{
			Kind:    EventGameEnded,
			Payload: GameEndedPayload{Winner: string(res.Winner)},
		})
	} else if !res.RepeatTurn {
		events = append(events, Event{
			Kind:    EventTurnChanged,
			Payload: TurnChangedPayload{NextTurn: res.NextTurn},
		})
	}
	return events, nil
}

// PlayLudoBotTurn runs one complete AI turn through the same engine path a
// human move takes: roll, then move the brain's chosen token. When the roll
// is discarded the turn has already rotated and no move happens.
func (s *Service) PlayLudoBotTurn(st *match.State, agent *bot.Agent) ([]Event, error) {
	if st.Kind != domain.GameLudo {
		return nil, ErrWrongGameKind
	}

	events, err := s.RollLudoDice(st, agent.ID)
	if err != nil {
		return nil, err
	}
	roll := st.Ludo.DiceValue
	if roll == 0 {
		// Roll was discarded; nothing to move.
		return events, nil
	}

	move, ok := agent.PlayLudo(st.Ludo, roll)
	if !ok {
		return events, errors.Join(ErrIllegalMove, ludo.ErrTokenBlocked)
	}
	moveEvents, err := s.MoveLudoToken(st, agent.ID, move.TokenIndex)
	if err != nil {
		return events, err
	}
	return append(events, moveEvents...), nil
}
