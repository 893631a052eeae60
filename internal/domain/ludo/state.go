package ludo

import "arcade/internal/domain"

// TokenStatus is the lifecycle stage of a single token.
type TokenStatus string

const (
	// StatusBase means the token has not been released yet (position -1).
	StatusBase TokenStatus = "base"
	// StatusActive means the token is on the ring or home stretch (0..55).
	StatusActive TokenStatus = "active"
	// StatusHome means the token finished the track (position 56).
	StatusHome TokenStatus = "home"
)

// Token is a single playing piece.
type Token struct {
	ID       int         `json:"id"`
	Position int         `json:"position"`
	Status   TokenStatus `json:"status"`
}

// Player holds a participant's color and tokens.
type Player struct {
	Color  domain.Color `json:"color"`
	Tokens []Token      `json:"tokens"`
}

// State is the full ludo match document. It replaces itself wholesale on
// every transition.
type State struct {
	Players     map[string]*Player `json:"players"`
	CurrentTurn domain.Color       `json:"currentTurn"`
	// DiceValue is the pending roll for the current turn; 0 means no roll
	// is pending.
	DiceValue int `json:"diceValue,omitempty"`
	// Winner is set once a player finishes all four tokens; the state is
	// terminal afterwards.
	Winner domain.Color `json:"winner,omitempty"`
}

// NewPlayer returns a player of the given color with all tokens in base.
func NewPlayer(color domain.Color) *Player {
	p := &Player{Color: color, Tokens: make([]Token, TokensPerPlayer)}
	for i := range p.Tokens {
		p.Tokens[i] = Token{ID: i, Position: -1, Status: StatusBase}
	}
	return p
}

// Clone deep-copies the state.
func (s *State) Clone() *State {
	out := &State{
		Players:     make(map[string]*Player, len(s.Players)),
		CurrentTurn: s.CurrentTurn,
		DiceValue:   s.DiceValue,
		Winner:      s.Winner,
	}
	for id, p := range s.Players {
		cp := &Player{Color: p.Color, Tokens: append([]Token(nil), p.Tokens...)}
		out.Players[id] = cp
	}
	return out
}

// ActiveColors lists the colors present among players, in fixed turn order.
func (s *State) ActiveColors() []domain.Color {
	var out []domain.Color
	for _, c := range domain.TurnOrder {
		for _, p := range s.Players {
			if p.Color == c {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// Repair normalizes a document loaded from the store whose token data or
// turn holder has drifted out of shape. Token slices of the wrong length are
// rebuilt in base, positions outside the track return to base, and a turn
// holder that matches no player falls back to the first active color.
// Reports whether anything changed.
func Repair(s *State) bool {
	changed := false
	for _, p := range s.Players {
		if len(p.Tokens) != TokensPerPlayer {
			p.Tokens = NewPlayer(p.Color).Tokens
			changed = true
			continue
		}
		for i := range p.Tokens {
			tok := &p.Tokens[i]
			if tok.ID != i {
				tok.ID = i
				changed = true
			}
			ok := false
			switch tok.Status {
			case StatusBase:
				ok = tok.Position == -1
			case StatusActive:
				ok = tok.Position >= 0 && tok.Position < TrackEnd
			case StatusHome:
				ok = tok.Position == TrackEnd
			}
			if !ok {
				*tok = Token{ID: i, Position: -1, Status: StatusBase}
				changed = true
			}
		}
	}
	if _, p := s.PlayerByColor(s.CurrentTurn); p == nil {
		if active := s.ActiveColors(); len(active) > 0 {
			s.CurrentTurn = active[0]
			s.DiceValue = 0
			changed = true
		}
	}
	return changed
}

// PlayerByColor returns the participant id and player owning a color.
func (s *State) PlayerByColor(color domain.Color) (string, *Player) {
	for id, p := range s.Players {
		if p.Color == color {
			return id, p
		}
	}
	return "", nil
}
