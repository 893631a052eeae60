// Package match defines the versioned, game-tagged document replicated to
// every participant of a running match.
package match

import (
	"encoding/json"
	"errors"
	"fmt"

	"arcade/internal/domain"
	"arcade/internal/domain/ludo"
	"arcade/internal/domain/snakes"
	"arcade/internal/domain/tictactoe"
)

var (
	ErrUnknownKind = errors.New("unknown game kind")
	ErrEmptyState  = errors.New("match document has no game payload")
)

// State is the tagged union stored per match id. Exactly one of the game
// payloads is set, selected by Kind. Version increases by one on every
// accepted transition and backs the conditional-write check in the store.
// AuthorityParticipantID names the single participant responsible for
// computing AI turns.
type State struct {
	Kind                   domain.GameKind  `json:"gameKind"`
	Version                int64            `json:"version"`
	AuthorityParticipantID string           `json:"authorityParticipantId,omitempty"`
	Ludo                   *ludo.State      `json:"ludo,omitempty"`
	Snakes                 *snakes.State    `json:"snakes,omitempty"`
	TicTacToe              *tictactoe.State `json:"tictactoe,omitempty"`
}

// Validate checks the union invariant: Kind is known and selects a non-nil
// payload.
func (s *State) Validate() error {
	if !s.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, s.Kind)
	}
	switch s.Kind {
	case domain.GameLudo:
		if s.Ludo == nil {
			return ErrEmptyState
		}
	case domain.GameSnakes:
		if s.Snakes == nil {
			return ErrEmptyState
		}
	case domain.GameTicTacToe:
		if s.TicTacToe == nil {
			return ErrEmptyState
		}
	}
	return nil
}

// Clone deep-copies the document.
func (s *State) Clone() *State {
	out := &State{
		Kind:                   s.Kind,
		Version:                s.Version,
		AuthorityParticipantID: s.AuthorityParticipantID,
	}
	if s.Ludo != nil {
		out.Ludo = s.Ludo.Clone()
	}
	if s.Snakes != nil {
		out.Snakes = s.Snakes.Clone()
	}
	if s.TicTacToe != nil {
		out.TicTacToe = s.TicTacToe.Clone()
	}
	return out
}

// Repair delegates to the embedded game's document repair. The caller
// decides whether a repaired document is written back.
func (s *State) Repair() bool {
	switch s.Kind {
	case domain.GameLudo:
		return ludo.Repair(s.Ludo)
	case domain.GameSnakes:
		return snakes.Repair(s.Snakes)
	case domain.GameTicTacToe:
		return tictactoe.Repair(s.TicTacToe)
	}
	return false
}

// Winner reports the terminal outcome of the embedded game, or "" while the
// game is still running. For tic-tac-toe a draw reports "DRAW".
func (s *State) Winner() string {
	switch s.Kind {
	case domain.GameLudo:
		return string(s.Ludo.Winner)
	case domain.GameSnakes:
		return string(s.Snakes.Winner)
	case domain.GameTicTacToe:
		return s.TicTacToe.Winner
	}
	return ""
}

// CurrentTurnParticipant resolves which participant acts next, or "" when
// the game is finished or the turn holder has no seat.
func (s *State) CurrentTurnParticipant() string {
	if s.Winner() != "" {
		return ""
	}
	switch s.Kind {
	case domain.GameLudo:
		for id, p := range s.Ludo.Players {
			if p.Color == s.Ludo.CurrentTurn {
				return id
			}
		}
	case domain.GameSnakes:
		for id, p := range s.Snakes.Players {
			if p.Color == s.Snakes.CurrentTurn {
				return id
			}
		}
	case domain.GameTicTacToe:
		for id, sym := range s.TicTacToe.Players {
			if sym == s.TicTacToe.CurrentTurn {
				return id
			}
		}
	}
	return ""
}

// Encode marshals the document for the store.
func Encode(s *State) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(s)
}

// Decode unmarshals a stored document and checks the union invariant.
func Decode(data []byte) (*State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode match state: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
