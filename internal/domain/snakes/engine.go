package snakes

import (
	"errors"

	"arcade/internal/domain"
)

// FinalCell is the winning cell; a roll past it is a no-op turn.
const FinalCell = 100

var (
	ErrMatchFinished = errors.New("match already has a winner")
	ErrNotYourTurn   = errors.New("actor does not own the current turn")
	ErrRollPending   = errors.New("a roll is already pending")
	ErrNoPendingRoll = errors.New("no roll is pending")
	ErrInvalidRoll   = errors.New("roll must be between 1 and 6")
	ErrUnknownPlayer = errors.New("participant not in match")
)

// Player is one pawn on the 1..100 track. IntermediatePosition records the
// cell landed on before a snake or ladder applied, for client animation
// pacing only; it carries no rule meaning.
type Player struct {
	Color                domain.Color `json:"color"`
	Position             int          `json:"position"`
	IntermediatePosition *int         `json:"intermediatePosition,omitempty"`
}

// State is the full snakes & ladders match document.
type State struct {
	Players     map[string]*Player `json:"players"`
	CurrentTurn domain.Color       `json:"currentTurn"`
	DiceValue   int                `json:"diceValue,omitempty"`
	Winner      domain.Color       `json:"winner,omitempty"`
	Board       BoardConfig        `json:"boardConfig"`
}

// RollResult reports the effect of resolving one roll.
type RollResult struct {
	Roll int
	// Overshoot is true when position+roll passed 100: the pawn stays put
	// and the turn still rotates (after the caller's display delay).
	Overshoot bool
	From      int
	// Landed is the cell reached before snakes/ladders applied.
	Landed int
	// Final is the cell after snakes/ladders applied.
	Final     int
	HitSnake  bool
	HitLadder bool
	Winner    domain.Color
}

// Clone deep-copies the state. The board maps are shared; they are immutable
// for the lifetime of a match.
func (s *State) Clone() *State {
	out := &State{
		Players:     make(map[string]*Player, len(s.Players)),
		CurrentTurn: s.CurrentTurn,
		DiceValue:   s.DiceValue,
		Winner:      s.Winner,
		Board:       s.Board,
	}
	for id, p := range s.Players {
		cp := *p
		if p.IntermediatePosition != nil {
			v := *p.IntermediatePosition
			cp.IntermediatePosition = &v
		}
		out.Players[id] = &cp
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

// PlayerByColor returns the participant id and player owning a color.
func (s *State) PlayerByColor(color domain.Color) (string, *Player) {
	for id, p := range s.Players {
		if p.Color == color {
			return id, p
		}
	}
	return "", nil
}

// Repair normalizes a document loaded from the store: out-of-range pawn
// positions return to the start, an empty board gets the static layout, and
// a turn holder that matches no player falls back to the first active color.
// Reports whether anything changed.
func Repair(s *State) bool {
	changed := false
	for _, p := range s.Players {
		if p.Position < 0 || p.Position > FinalCell {
			p.Position = 0
			p.IntermediatePosition = nil
			changed = true
		}
	}
	if s.Board.Snakes == nil || s.Board.Ladders == nil {
		s.Board = StaticBoard()
		changed = true
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

// ResolveRoll applies a roll for the current turn: the pawn advances unless
// it would pass 100, snakes and ladders teleport it, and landing exactly on
// 100 wins. The dice value stays visible in the state; AdvanceTurn clears it
// and rotates the turn. The state is not mutated on error.
func ResolveRoll(s *State, actor domain.Color, roll int) (RollResult, error) {
	if s.Winner != "" {
		return RollResult{}, ErrMatchFinished
	}
	if actor != s.CurrentTurn {
		return RollResult{}, ErrNotYourTurn
	}
	if s.DiceValue != 0 {
		return RollResult{}, ErrRollPending
	}
	if roll < 1 || roll > 6 {
		return RollResult{}, ErrInvalidRoll
	}
	_, p := s.PlayerByColor(actor)
	if p == nil {
		return RollResult{}, ErrUnknownPlayer
	}

	res := RollResult{Roll: roll, From: p.Position}
	s.DiceValue = roll

	if p.Position+roll > FinalCell {
		res.Overshoot = true
		res.Final = p.Position
		return res, nil
	}

	landed := p.Position + roll
	final := landed
	p.IntermediatePosition = nil

	if j, ok := s.Board.Snakes[landed]; ok {
		v := landed
		p.IntermediatePosition = &v
		final = j.End
		res.HitSnake = true
	} else if j, ok := s.Board.Ladders[landed]; ok {
		v := landed
		p.IntermediatePosition = &v
		final = j.End
		res.HitLadder = true
	}

	p.Position = final
	res.Landed = landed
	res.Final = final

	if final == FinalCell {
		s.Winner = actor
		res.Winner = actor
	}
	return res, nil
}

// AdvanceTurn clears the shown dice value and rotates to the next active
// color. It is a separate transition from ResolveRoll so callers can insert
// the cosmetic display delay between the two. No-op error cases: nothing to
// advance, or the match is already decided.
func AdvanceTurn(s *State) (domain.Color, error) {
	if s.Winner != "" {
		return "", ErrMatchFinished
	}
	if s.DiceValue == 0 {
		return "", ErrNoPendingRoll
	}
	s.DiceValue = 0
	s.CurrentTurn = domain.NextTurn(s.CurrentTurn, s.ActiveColors())
	return s.CurrentTurn, nil
}
