package ludo

import (
	"errors"

	"arcade/internal/domain"
)

var (
	ErrMatchFinished = errors.New("match already has a winner")
	ErrNotYourTurn   = errors.New("actor does not own the current turn")
	ErrRollPending   = errors.New("a roll is already pending")
	ErrNoPendingRoll = errors.New("no roll is pending")
	ErrInvalidRoll   = errors.New("roll must be between 1 and 6")
	ErrUnknownPlayer = errors.New("participant not in match")
	ErrUnknownToken  = errors.New("token index out of range")
	ErrTokenBlocked  = errors.New("token cannot move with this roll")
)

// Move is a legal candidate transition for one token.
type Move struct {
	TokenIndex  int
	NewPosition int
}

// Capture identifies an opposing token knocked back to base.
type Capture struct {
	ParticipantID string `json:"participantId"`
	TokenIndex    int    `json:"tokenIndex"`
}

// RollOutcome reports what a dice roll did to the state.
type RollOutcome struct {
	Roll int
	// Discarded is true when the roller had no legal move: the dice value
	// was dropped and the turn rotated without a move.
	Discarded bool
	NextTurn  domain.Color
}

// MoveResult reports the effect of resolving a token move.
type MoveResult struct {
	TokenIndex  int
	NewPosition int
	Captured    *Capture
	// Finished is true when the moved token reached the end of the track.
	Finished bool
	// RepeatTurn is true when the roller keeps the turn (rolled a 6 or
	// captured).
	RepeatTurn bool
	Winner     domain.Color
	NextTurn   domain.Color
}

// LegalMoves derives the candidate moves for a player given a roll.
// A base token may only leave on a 6; an active token may advance when it
// does not overshoot the end of the track.
func LegalMoves(p *Player, roll int) []Move {
	var moves []Move
	for i, t := range p.Tokens {
		switch t.Status {
		case StatusBase:
			if roll == 6 {
				moves = append(moves, Move{TokenIndex: i, NewPosition: 0})
			}
		case StatusActive:
			if t.Position+roll <= TrackEnd {
				moves = append(moves, Move{TokenIndex: i, NewPosition: t.Position + roll})
			}
		}
	}
	return moves
}

// HasLegalMove reports whether any token can use the roll.
func HasLegalMove(p *Player, roll int) bool {
	return len(LegalMoves(p, roll)) > 0
}

// FindCapture returns the single opposing active token occupying the given
// ring cell, if the cell is capturable. Safe cells and stacked own-color
// cells never yield a capture; home-stretch tokens have no ring cell.
func FindCapture(players map[string]*Player, mover domain.Color, globalIndex int) (Capture, bool) {
	if globalIndex < 0 || IsSafeCell(globalIndex) {
		return Capture{}, false
	}
	for id, p := range players {
		if p.Color == mover {
			continue
		}
		for i, t := range p.Tokens {
			if t.Status != StatusActive {
				continue
			}
			if GlobalIndex(p.Color, t.Position) == globalIndex {
				return Capture{ParticipantID: id, TokenIndex: i}, true
			}
		}
	}
	return Capture{}, false
}

// ApplyRoll records a dice roll for the current turn. If the roller has no
// legal move for the value, the roll is discarded and the turn rotates
// immediately; otherwise the value stays pending until a token move resolves
// it. The state is not mutated on error.
func ApplyRoll(s *State, actor domain.Color, roll int) (RollOutcome, error) {
	if s.Winner != "" {
		return RollOutcome{}, ErrMatchFinished
	}
	if actor != s.CurrentTurn {
		return RollOutcome{}, ErrNotYourTurn
	}
	if s.DiceValue != 0 {
		return RollOutcome{}, ErrRollPending
	}
	if roll < 1 || roll > 6 {
		return RollOutcome{}, ErrInvalidRoll
	}

	_, p := s.PlayerByColor(actor)
	if p == nil {
		return RollOutcome{}, ErrUnknownPlayer
	}

	if !HasLegalMove(p, roll) {
		s.DiceValue = 0
		s.CurrentTurn = domain.NextTurn(actor, s.ActiveColors())
		return RollOutcome{Roll: roll, Discarded: true, NextTurn: s.CurrentTurn}, nil
	}

	s.DiceValue = roll
	return RollOutcome{Roll: roll, NextTurn: s.CurrentTurn}, nil
}

// ApplyMove resolves the pending roll by moving one of the acting
// participant's tokens. Captures reset the victim to base and grant a repeat
// turn, as does rolling a 6. The state is not mutated on error.
func ApplyMove(s *State, participantID string, tokenIndex int) (MoveResult, error) {
	if s.Winner != "" {
		return MoveResult{}, ErrMatchFinished
	}
	p, ok := s.Players[participantID]
	if !ok {
		return MoveResult{}, ErrUnknownPlayer
	}
	if p.Color != s.CurrentTurn {
		return MoveResult{}, ErrNotYourTurn
	}
	roll := s.DiceValue
	if roll == 0 {
		return MoveResult{}, ErrNoPendingRoll
	}
	if tokenIndex < 0 || tokenIndex >= len(p.Tokens) {
		return MoveResult{}, ErrUnknownToken
	}

	t := p.Tokens[tokenIndex]
	res := MoveResult{TokenIndex: tokenIndex}

	switch t.Status {
	case StatusBase:
		if roll != 6 {
			return MoveResult{}, ErrTokenBlocked
		}
		t.Status = StatusActive
		t.Position = 0
	case StatusActive:
		if t.Position+roll > TrackEnd {
			return MoveResult{}, ErrTokenBlocked
		}
		t.Position += roll
		if t.Position == TrackEnd {
			t.Status = StatusHome
			res.Finished = true
		} else if c, ok := FindCapture(s.Players, p.Color, GlobalIndex(p.Color, t.Position)); ok {
			victim := s.Players[c.ParticipantID]
			victim.Tokens[c.TokenIndex].Status = StatusBase
			victim.Tokens[c.TokenIndex].Position = -1
			res.Captured = &c
		}
	default:
		return MoveResult{}, ErrTokenBlocked
	}

	p.Tokens[tokenIndex] = t
	res.NewPosition = t.Position
	s.DiceValue = 0

	if allHome(p) {
		s.Winner = p.Color
		res.Winner = p.Color
		res.NextTurn = s.CurrentTurn
		return res, nil
	}

	if roll == 6 || res.Captured != nil {
		res.RepeatTurn = true
	} else {
		s.CurrentTurn = domain.NextTurn(p.Color, s.ActiveColors())
	}
	res.NextTurn = s.CurrentTurn
	return res, nil
}

func allHome(p *Player) bool {
	for _, t := range p.Tokens {
		if t.Status != StatusHome {
			return false
		}
	}
	return true
}
