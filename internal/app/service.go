package app

import (
	"fmt"
	"math/rand"
	"time"

	"arcade/internal/domain"
	"arcade/internal/domain/ludo"
	"arcade/internal/domain/match"
	"arcade/internal/domain/snakes"
	"arcade/internal/domain/tictactoe"
	"arcade/internal/ports"
)

// MinPlayersToStartGame is the minimum number of participants (human or AI)
// a match needs.
const MinPlayersToStartGame = 2

// Service contains the arcade use-cases operating on match documents.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with the provided rng or a time-seeded
// default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

// RollDie produces a uniform 1..6 roll.
func (s *Service) RollDie() int {
	return s.rng.Intn(6) + 1
}

// SetupMatch builds the initial match document from the lobby's seat
// assignments: real participants take seats in ascending order with chosen
// colors honored before automatic assignment, and remaining color slots are
// filled by AI participants up to aiCount. The first seat's color (or X)
// opens the game, and the first seat's participant is the AI authority.
func (s *Service) SetupMatch(kind domain.GameKind, seats []ports.SeatAssignment, aiCount int) (*match.State, []Event, error) {
	if !kind.Valid() {
		return nil, nil, fmt.Errorf("%w: %q", ErrWrongGameKind, kind)
	}
	if len(seats) == 0 {
		return nil, nil, ErrTooFewPlayers
	}

	st := &match.State{Kind: kind, Version: 1, AuthorityParticipantID: seats[0].ParticipantID}

	var firstTurn string
	switch kind {
	case domain.GameLudo:
		cs, first, err := s.assignColors(seats, aiCount)
		if err != nil {
			return nil, nil, err
		}
		st.Ludo = &ludo.State{
			Players:     make(map[string]*ludo.Player, len(cs.order)),
			CurrentTurn: domain.Color(first),
		}
		for id, c := range cs.colors {
			st.Ludo.Players[id] = ludo.NewPlayer(c)
		}
		firstTurn = first
	case domain.GameSnakes:
		cs, first, err := s.assignColors(seats, aiCount)
		if err != nil {
			return nil, nil, err
		}
		st.Snakes = &snakes.State{
			Players:     make(map[string]*snakes.Player, len(cs.order)),
			CurrentTurn: domain.Color(first),
			Board:       snakes.StaticBoard(),
		}
		for id, c := range cs.colors {
			st.Snakes.Players[id] = &snakes.Player{Color: c}
		}
		firstTurn = first
	case domain.GameTicTacToe:
		ttt, first, err := setupTicTacToe(seats, aiCount)
		if err != nil {
			return nil, nil, err
		}
		st.TicTacToe = ttt
		firstTurn = first
	}

	events := []Event{{
		Kind: EventMatchSetup,
		Payload: MatchSetupPayload{
			Kind:      kind,
			FirstTurn: firstTurn,
			Authority: st.AuthorityParticipantID,
		},
	}}
	return st, events, nil
}

// colorState is the intermediate result of color assignment.
type colorState struct {
	colors map[string]domain.Color // participant id -> color
	order  []string                // participant ids in seat order, AI last
}

// assignColors resolves the color per participant: chosen colors first, then
// the remaining fixed-order colors to unassigned humans in seat order, then
// AI seats take what is left.
func (s *Service) assignColors(seats []ports.SeatAssignment, aiCount int) (*colorState, string, error) {
	available := append([]domain.Color(nil), domain.TurnOrder[:]...)
	cs := &colorState{colors: make(map[string]domain.Color)}

	take := func(c domain.Color) {
		for i, v := range available {
			if v == c {
				available = append(available[:i], available[i+1:]...)
				return
			}
		}
	}

	for _, seat := range seats {
		if seat.ChosenColor != "" && containsColor(available, seat.ChosenColor) {
			cs.colors[seat.ParticipantID] = seat.ChosenColor
			take(seat.ChosenColor)
		}
	}
	for _, seat := range seats {
		if _, ok := cs.colors[seat.ParticipantID]; ok {
			cs.order = append(cs.order, seat.ParticipantID)
			continue
		}
		if len(available) == 0 {
			return nil, "", ErrTooManyPlayers
		}
		cs.colors[seat.ParticipantID] = available[0]
		available = available[1:]
		cs.order = append(cs.order, seat.ParticipantID)
	}

	for i := 0; i < aiCount && len(available) > 0; i++ {
		id := domain.AIParticipantID(i)
		cs.colors[id] = available[0]
		available = available[1:]
		cs.order = append(cs.order, id)
	}

	if len(cs.order) < MinPlayersToStartGame {
		return nil, "", ErrTooFewPlayers
	}
	return cs, string(cs.colors[seats[0].ParticipantID]), nil
}

func containsColor(colors []domain.Color, c domain.Color) bool {
	for _, v := range colors {
		if v == c {
			return true
		}
	}
	return false
}

// setupTicTacToe maps the first seat to X and the second seat (or the first
// AI) to O.
func setupTicTacToe(seats []ports.SeatAssignment, aiCount int) (*tictactoe.State, string, error) {
	st := &tictactoe.State{
		CurrentTurn: domain.SymbolX,
		Players:     make(map[string]domain.Symbol, 2),
	}

	st.Players[seats[0].ParticipantID] = domain.SymbolX
	switch {
	case len(seats) >= 2:
		st.Players[seats[1].ParticipantID] = domain.SymbolO
	case aiCount > 0:
		st.Players[domain.AIParticipantID(0)] = domain.SymbolO
	default:
		return nil, "", ErrTooFewPlayers
	}
	return st, string(domain.SymbolX), nil
}
