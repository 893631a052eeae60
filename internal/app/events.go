package app

import (
	"arcade/internal/domain"
	"arcade/internal/domain/ludo"
	"arcade/internal/domain/snakes"
)

// EventKind identifies emitted match events for dispatch to clients.
type EventKind string

const (
	EventMatchSetup    EventKind = "match_setup"
	EventDiceRolled    EventKind = "dice_rolled"
	EventRollDiscarded EventKind = "roll_discarded"
	EventTokenMoved    EventKind = "token_moved"
	EventTokenCaptured EventKind = "token_captured"
	EventPawnMoved     EventKind = "pawn_moved"
	EventMarkPlaced    EventKind = "mark_placed"
	EventTurnChanged   EventKind = "turn_changed"
	EventGameEnded     EventKind = "game_ended"
)

// Event is a match event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // participant ids; empty means broadcast
}

type MatchSetupPayload struct {
	Kind      domain.GameKind `json:"gameKind"`
	FirstTurn string          `json:"firstTurn"`
	Authority string          `json:"authority"`
}

type DiceRolledPayload struct {
	Actor string `json:"actor"`
	Roll  int    `json:"roll"`
}

type RollDiscardedPayload struct {
	Actor    string       `json:"actor"`
	Roll     int          `json:"roll"`
	NextTurn domain.Color `json:"nextTurn"`
}

type TokenMovedPayload struct {
	Actor       string       `json:"actor"`
	TokenIndex  int          `json:"tokenIndex"`
	NewPosition int          `json:"newPosition"`
	RepeatTurn  bool         `json:"repeatTurn"`
	NextTurn    domain.Color `json:"nextTurn"`
}

type TokenCapturedPayload struct {
	By     string       `json:"by"`
	Victim ludo.Capture `json:"victim"`
}

type PawnMovedPayload struct {
	Actor     string `json:"actor"`
	Roll      int    `json:"roll"`
	Overshoot bool   `json:"overshoot"`
	Landed    int    `json:"landed"`
	Final     int    `json:"final"`
	HitSnake  bool   `json:"hitSnake"`
	HitLadder bool   `json:"hitLadder"`
}

type MarkPlacedPayload struct {
	Actor    string        `json:"actor"`
	Index    int           `json:"index"`
	Symbol   domain.Symbol `json:"symbol"`
	NextTurn domain.Symbol `json:"nextTurn"`
}

type TurnChangedPayload struct {
	NextTurn domain.Color `json:"nextTurn"`
}

type GameEndedPayload struct {
	// Winner is the winning color or symbol, or tictactoe.VerdictDraw.
	Winner string `json:"winner"`
}

// pawnMovedEvent builds the payload for a resolved snakes roll.
func pawnMovedEvent(actor string, res snakes.RollResult) Event {
	return Event{
		Kind: EventPawnMoved,
		Payload: PawnMovedPayload{
			Actor:     actor,
			Roll:      res.Roll,
			Overshoot: res.Overshoot,
			Landed:    res.Landed,
			Final:     res.Final,
			HitSnake:  res.HitSnake,
			HitLadder: res.HitLadder,
		},
	}
}
