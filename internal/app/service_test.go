package app

import (
	"errors"
	"math/rand"
	"testing"

	"arcade/internal/bot"
	"arcade/internal/domain"
	"arcade/internal/domain/ludo"
	"arcade/internal/domain/snakes"
	"arcade/internal/domain/tictactoe"
	"arcade/internal/ports"
)

func testService() *Service {
	return NewService(rand.New(rand.NewSource(42)))
}

func seat(id string, n int) ports.SeatAssignment {
	return ports.SeatAssignment{ParticipantID: id, Seat: n}
}

func TestSetupMatchLudo(t *testing.T) {
	svc := testService()

	doc, events, err := svc.SetupMatch(domain.GameLudo, []ports.SeatAssignment{
		seat("user-1", 0), seat("user-2", 1),
	}, 1)
	if err != nil {
		t.Fatalf("SetupMatch failed: %v", err)
	}

	if doc.Kind != domain.GameLudo || doc.Ludo == nil {
		t.Fatalf("wrong document shape: %+v", doc)
	}
	if doc.Version != 1 {
		t.Fatalf("fresh document should start at version 1, got %d", doc.Version)
	}
	if doc.AuthorityParticipantID != "user-1" {
		t.Fatalf("first seat should hold AI authority, got %q", doc.AuthorityParticipantID)
	}
	if len(doc.Ludo.Players) != 3 {
		t.Fatalf("expected 2 humans + 1 AI, got %d players", len(doc.Ludo.Players))
	}

	// Automatic colors follow turn order by seat, AI takes the remainder.
	if doc.Ludo.Players["user-1"].Color != domain.ColorRed {
		t.Fatalf("seat 0 should get red, got %s", doc.Ludo.Players["user-1"].Color)
	}
	if doc.Ludo.Players["user-2"].Color != domain.ColorGreen {
		t.Fatalf("seat 1 should get green, got %s", doc.Ludo.Players["user-2"].Color)
	}
	if doc.Ludo.Players["ai-0"].Color != domain.ColorYellow {
		t.Fatalf("AI should get yellow, got %s", doc.Ludo.Players["ai-0"].Color)
	}
	if doc.Ludo.CurrentTurn != domain.ColorRed {
		t.Fatalf("seat 0's color opens the game, got %s", doc.Ludo.CurrentTurn)
	}

	if len(events) != 1 || events[0].Kind != EventMatchSetup {
		t.Fatalf("expected a single setup event, got %+v", events)
	}
}

func TestSetupMatchHonorsChosenColors(t *testing.T) {
	svc := testService()

	doc, _, err := svc.SetupMatch(domain.GameLudo, []ports.SeatAssignment{
		{ParticipantID: "user-1", Seat: 0},
		{ParticipantID: "user-2", Seat: 1, ChosenColor: domain.ColorRed},
	}, 0)
	if err != nil {
		t.Fatalf("SetupMatch failed: %v", err)
	}

	if doc.Ludo.Players["user-2"].Color != domain.ColorRed {
		t.Fatalf("chosen color should be honored, got %s", doc.Ludo.Players["user-2"].Color)
	}
	if doc.Ludo.Players["user-1"].Color != domain.ColorGreen {
		t.Fatalf("seat 0 should take the next free color, got %s", doc.Ludo.Players["user-1"].Color)
	}
	if doc.Ludo.CurrentTurn != domain.ColorGreen {
		t.Fatalf("first turn belongs to seat 0's color, got %s", doc.Ludo.CurrentTurn)
	}
}

func TestSetupMatchRejectsSolo(t *testing.T) {
	svc := testService()

	if _, _, err := svc.SetupMatch(domain.GameLudo, []ports.SeatAssignment{seat("user-1", 0)}, 0); !errors.Is(err, ErrTooFewPlayers) {
		t.Fatalf("one human and no AI should not start, got %v", err)
	}
	if _, _, err := svc.SetupMatch(domain.GameLudo, nil, 2); !errors.Is(err, ErrTooFewPlayers) {
		t.Fatalf("no seats should not start, got %v", err)
	}
}

func TestSetupMatchTicTacToe(t *testing.T) {
	svc := testService()

	doc, _, err := svc.SetupMatch(domain.GameTicTacToe, []ports.SeatAssignment{seat("user-1", 0)}, 1)
	if err != nil {
		t.Fatalf("SetupMatch failed: %v", err)
	}
	if doc.TicTacToe.Players["user-1"] != domain.SymbolX {
		t.Fatalf("seat 0 plays X")
	}
	if doc.TicTacToe.Players["ai-0"] != domain.SymbolO {
		t.Fatalf("AI fills the O seat")
	}
	if doc.TicTacToe.CurrentTurn != domain.SymbolX {
		t.Fatalf("X opens")
	}
}

func TestRollLudoDiceFlow(t *testing.T) {
	svc := testService()
	doc, _, err := svc.SetupMatch(domain.GameLudo, []ports.SeatAssignment{
		seat("user-1", 0), seat("user-2", 1),
	}, 0)
	if err != nil {
		t.Fatalf("SetupMatch failed: %v", err)
	}
	baseVersion := doc.Version

	events, err := svc.RollLudoDice(doc, "user-1")
	if err != nil {
		t.Fatalf("RollLudoDice failed: %v", err)
	}
	if doc.Version != baseVersion+1 {
		t.Fatalf("accepted transition must bump the version, got %d", doc.Version)
	}
	if events[0].Kind != EventDiceRolled {
		t.Fatalf("first event should be the roll, got %s", events[0].Kind)
	}
	roll := events[0].Payload.(DiceRolledPayload).Roll
	if roll < 1 || roll > 6 {
		t.Fatalf("roll out of range: %d", roll)
	}

	// With every token in base the engine either keeps a 6 pending or
	// discards the roll and rotates.
	if roll == 6 {
		if doc.Ludo.DiceValue != 6 {
			t.Fatalf("a 6 should stay pending")
		}
	} else {
		if len(events) != 2 || events[1].Kind != EventRollDiscarded {
			t.Fatalf("expected a discard event, got %+v", events)
		}
		if doc.Ludo.CurrentTurn == domain.ColorRed {
			t.Fatalf("discarded roll should rotate the turn")
		}
	}

	if _, err := svc.RollLudoDice(doc, "stranger"); !errors.Is(err, ErrUnknownParticipant) {
		t.Fatalf("unknown actor should fail, got %v", err)
	}
}

func TestMoveLudoTokenRejectionIsTyped(t *testing.T) {
	svc := testService()
	doc, _, _ := svc.SetupMatch(domain.GameLudo, []ports.SeatAssignment{
		seat("user-1", 0), seat("user-2", 1),
	}, 0)

	_, err := svc.MoveLudoToken(doc, "user-1", 0)
	if !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("rejection should carry ErrIllegalMove, got %v", err)
	}
	if !errors.Is(err, ludo.ErrNoPendingRoll) {
		t.Fatalf("rejection should carry the engine sentinel, got %v", err)
	}
	if doc.Version != 1 {
		t.Fatalf("rejected move must not bump the version")
	}
}

func TestMoveLudoTokenEmitsTurnEvents(t *testing.T) {
	svc := testService()
	doc, _, _ := svc.SetupMatch(domain.GameLudo, []ports.SeatAssignment{
		seat("user-1", 0), seat("user-2", 1),
	}, 0)

	// Arrange a plain three-step move with no capture.
	doc.Ludo.Players["user-1"].Tokens[0] = ludo.Token{ID: 0, Position: 1, Status: ludo.StatusActive}
	doc.Ludo.DiceValue = 3

	events, err := svc.MoveLudoToken(doc, "user-1", 0)
	if err != nil {
		t.Fatalf("MoveLudoToken failed: %v", err)
	}
	if events[0].Kind != EventTokenMoved {
		t.Fatalf("expected token move event, got %s", events[0].Kind)
	}
	last := events[len(events)-1]
	if last.Kind != EventTurnChanged {
		t.Fatalf("plain move should end with a turn change, got %s", last.Kind)
	}
	if last.Payload.(TurnChangedPayload).NextTurn != domain.ColorGreen {
		t.Fatalf("turn should pass to green")
	}
}

func TestSnakesRollAndAdvance(t *testing.T) {
	svc := testService()
	doc, _, err := svc.SetupMatch(domain.GameSnakes, []ports.SeatAssignment{
		seat("user-1", 0), seat("user-2", 1),
	}, 0)
	if err != nil {
		t.Fatalf("SetupMatch failed: %v", err)
	}

	events, err := svc.RollSnakesDice(doc, "user-1")
	if err != nil {
		t.Fatalf("RollSnakesDice failed: %v", err)
	}
	if events[0].Kind != EventDiceRolled || events[1].Kind != EventPawnMoved {
		t.Fatalf("expected roll + pawn events, got %+v", events)
	}
	if doc.Snakes.CurrentTurn != domain.ColorRed {
		t.Fatalf("roll must not rotate the turn")
	}

	advEvents, err := svc.AdvanceSnakesTurn(doc)
	if err != nil {
		t.Fatalf("AdvanceSnakesTurn failed: %v", err)
	}
	if advEvents[0].Kind != EventTurnChanged {
		t.Fatalf("expected turn change, got %s", advEvents[0].Kind)
	}
	if doc.Snakes.CurrentTurn != domain.ColorGreen {
		t.Fatalf("turn should pass to green, got %s", doc.Snakes.CurrentTurn)
	}

	if _, err := svc.AdvanceSnakesTurn(doc); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("double advance should fail, got %v", err)
	}
}

func TestPlaceMarkWinEmitsGameEnded(t *testing.T) {
	svc := testService()
	doc, _, _ := svc.SetupMatch(domain.GameTicTacToe, []ports.SeatAssignment{
		seat("user-1", 0), seat("user-2", 1),
	}, 0)

	doc.TicTacToe.Board = [tictactoe.Cells]tictactoe.Cell{"X", "X", "", "O", "O", "", "", "", ""}

	events, err := svc.PlaceMark(doc, "user-1", 2)
	if err != nil {
		t.Fatalf("PlaceMark failed: %v", err)
	}
	if len(events) != 2 || events[1].Kind != EventGameEnded {
		t.Fatalf("winning mark should end the game, got %+v", events)
	}
	if events[1].Payload.(GameEndedPayload).Winner != "X" {
		t.Fatalf("X should win")
	}
}

func TestWrongGameKindIsRejected(t *testing.T) {
	svc := testService()
	doc, _, _ := svc.SetupMatch(domain.GameTicTacToe, []ports.SeatAssignment{
		seat("user-1", 0), seat("user-2", 1),
	}, 0)

	if _, err := svc.RollLudoDice(doc, "user-1"); !errors.Is(err, ErrWrongGameKind) {
		t.Fatalf("ludo roll on a tictactoe document should fail, got %v", err)
	}
	if _, err := svc.RollSnakesDice(doc, "user-1"); !errors.Is(err, ErrWrongGameKind) {
		t.Fatalf("snakes roll on a tictactoe document should fail, got %v", err)
	}
}

func TestPlayLudoBotTurn(t *testing.T) {
	svc := testService()
	doc, _, err := svc.SetupMatch(domain.GameLudo, []ports.SeatAssignment{seat("user-1", 0)}, 1)
	if err != nil {
		t.Fatalf("SetupMatch failed: %v", err)
	}

	// Give the AI the turn and a token that always has a legal move.
	doc.Ludo.CurrentTurn = doc.Ludo.Players["ai-0"].Color
	doc.Ludo.Players["ai-0"].Tokens[0] = ludo.Token{ID: 0, Position: 5, Status: ludo.StatusActive}

	agent := newTestAgent(t, "ai-0")
	events, err := svc.PlayLudoBotTurn(doc, agent)
	if err != nil {
		t.Fatalf("PlayLudoBotTurn failed: %v", err)
	}
	if events[0].Kind != EventDiceRolled {
		t.Fatalf("bot turn starts with a roll")
	}
	if doc.Ludo.DiceValue != 0 {
		t.Fatalf("bot turn must resolve or discard its roll")
	}
}

func TestPlayTicTacToeBotTurn(t *testing.T) {
	svc := testService()
	doc, _, _ := svc.SetupMatch(domain.GameTicTacToe, []ports.SeatAssignment{seat("user-1", 0)}, 1)
	doc.TicTacToe.CurrentTurn = domain.SymbolO

	agent := newTestAgent(t, "ai-0")
	events, err := svc.PlayTicTacToeBotTurn(doc, agent)
	if err != nil {
		t.Fatalf("PlayTicTacToeBotTurn failed: %v", err)
	}
	if events[0].Kind != EventMarkPlaced {
		t.Fatalf("expected a mark, got %s", events[0].Kind)
	}
	if doc.TicTacToe.CurrentTurn != domain.SymbolX {
		t.Fatalf("turn should pass back to X")
	}
}

func TestSnakesSetupEmbedsBoard(t *testing.T) {
	svc := testService()
	doc, _, _ := svc.SetupMatch(domain.GameSnakes, []ports.SeatAssignment{
		seat("user-1", 0), seat("user-2", 1),
	}, 0)

	if len(doc.Snakes.Board.Snakes) == 0 || len(doc.Snakes.Board.Ladders) == 0 {
		t.Fatalf("document must embed the board config")
	}
	if doc.Snakes.Board.Snakes[99].End != snakes.StaticBoard().Snakes[99].End {
		t.Fatalf("board should be the static layout")
	}
}

func newTestAgent(t *testing.T, id string) *bot.Agent {
	t.Helper()
	agent, err := bot.NewAgent(id, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("agent setup failed: %v", err)
	}
	return agent
}
