package snakes

import (
	"errors"
	"testing"

	"arcade/internal/domain"
)

func twoPlayerState() *State {
	return &State{
		Players: map[string]*Player{
			"user-red":  {Color: domain.ColorRed, Position: 0},
			"user-blue": {Color: domain.ColorBlue, Position: 0},
		},
		CurrentTurn: domain.ColorRed,
		Board:       StaticBoard(),
	}
}

func TestResolveRollPlainMove(t *testing.T) {
	s := twoPlayerState()

	res, err := ResolveRoll(s, domain.ColorRed, 3)
	if err != nil {
		t.Fatalf("ResolveRoll failed: %v", err)
	}
	if res.From != 0 || res.Landed != 3 || res.Final != 3 {
		t.Fatalf("unexpected movement: %+v", res)
	}
	if res.HitSnake || res.HitLadder {
		t.Fatalf("cell 3 has no jump")
	}
	if s.Players["user-red"].Position != 3 {
		t.Fatalf("pawn should be at 3, got %d", s.Players["user-red"].Position)
	}
	if s.DiceValue != 3 {
		t.Fatalf("dice value should stay visible until the turn advances")
	}
	if s.CurrentTurn != domain.ColorRed {
		t.Fatalf("ResolveRoll must not rotate the turn")
	}
}

func TestResolveRollLadder(t *testing.T) {
	s := twoPlayerState()

	res, err := ResolveRoll(s, domain.ColorRed, 4)
	if err != nil {
		t.Fatalf("ResolveRoll failed: %v", err)
	}
	if !res.HitLadder {
		t.Fatalf("cell 4 holds a ladder foot")
	}
	if res.Landed != 4 || res.Final != 16 {
		t.Fatalf("ladder should lift 4 -> 16, got %+v", res)
	}

	p := s.Players["user-red"]
	if p.Position != 16 {
		t.Fatalf("pawn should be at 16, got %d", p.Position)
	}
	if p.IntermediatePosition == nil || *p.IntermediatePosition != 4 {
		t.Fatalf("intermediate position should record the landing cell")
	}
}

func TestResolveRollSnake(t *testing.T) {
	s := twoPlayerState()
	s.Players["user-red"].Position = 93

	res, err := ResolveRoll(s, domain.ColorRed, 6)
	if err != nil {
		t.Fatalf("ResolveRoll failed: %v", err)
	}
	if !res.HitSnake {
		t.Fatalf("cell 99 holds a snake head")
	}
	if res.Landed != 99 || res.Final != 82 {
		t.Fatalf("snake should drop 99 -> 82, got %+v", res)
	}
	if s.Players["user-red"].Position != 82 {
		t.Fatalf("pawn should be at 82, got %d", s.Players["user-red"].Position)
	}
	if res.Winner != "" {
		t.Fatalf("no winner on a snake drop")
	}
}

func TestResolveRollOvershoot(t *testing.T) {
	s := twoPlayerState()
	s.Players["user-red"].Position = 95

	res, err := ResolveRoll(s, domain.ColorRed, 6)
	if err != nil {
		t.Fatalf("ResolveRoll failed: %v", err)
	}
	if !res.Overshoot {
		t.Fatalf("95+6 passes 100 and must overshoot")
	}
	if s.Players["user-red"].Position != 95 {
		t.Fatalf("overshoot must not move the pawn")
	}
	if s.DiceValue != 6 {
		t.Fatalf("overshoot still shows the rolled value")
	}

	// The turn still rotates after the display delay.
	next, err := AdvanceTurn(s)
	if err != nil {
		t.Fatalf("AdvanceTurn failed: %v", err)
	}
	if next != domain.ColorBlue {
		t.Fatalf("turn should pass to blue, got %s", next)
	}
}

func TestResolveRollExactWin(t *testing.T) {
	s := twoPlayerState()
	s.Players["user-red"].Position = 94

	res, err := ResolveRoll(s, domain.ColorRed, 6)
	if err != nil {
		t.Fatalf("ResolveRoll failed: %v", err)
	}
	if res.Winner != domain.ColorRed || s.Winner != domain.ColorRed {
		t.Fatalf("landing exactly on 100 wins, got %+v", res)
	}

	if _, err := AdvanceTurn(s); !errors.Is(err, ErrMatchFinished) {
		t.Fatalf("finished match must not advance, got %v", err)
	}
	if _, err := ResolveRoll(s, domain.ColorBlue, 1); !errors.Is(err, ErrMatchFinished) {
		t.Fatalf("finished match must reject rolls, got %v", err)
	}
}

func TestResolveRollValidation(t *testing.T) {
	s := twoPlayerState()

	if _, err := ResolveRoll(s, domain.ColorBlue, 3); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}
	if _, err := ResolveRoll(s, domain.ColorRed, 0); !errors.Is(err, ErrInvalidRoll) {
		t.Fatalf("expected ErrInvalidRoll, got %v", err)
	}

	if _, err := ResolveRoll(s, domain.ColorRed, 2); err != nil {
		t.Fatalf("ResolveRoll failed: %v", err)
	}
	if _, err := ResolveRoll(s, domain.ColorRed, 2); !errors.Is(err, ErrRollPending) {
		t.Fatalf("second roll before advance should fail, got %v", err)
	}
}

func TestAdvanceTurnRequiresPendingRoll(t *testing.T) {
	s := twoPlayerState()
	if _, err := AdvanceTurn(s); !errors.Is(err, ErrNoPendingRoll) {
		t.Fatalf("advance without a roll should fail, got %v", err)
	}
}

func TestAdvanceTurnClearsDice(t *testing.T) {
	s := twoPlayerState()
	if _, err := ResolveRoll(s, domain.ColorRed, 1); err != nil {
		t.Fatalf("ResolveRoll failed: %v", err)
	}

	next, err := AdvanceTurn(s)
	if err != nil {
		t.Fatalf("AdvanceTurn failed: %v", err)
	}
	if next != domain.ColorBlue || s.CurrentTurn != domain.ColorBlue {
		t.Fatalf("turn should pass to blue, got %s", s.CurrentTurn)
	}
	if s.DiceValue != 0 {
		t.Fatalf("advance should clear the dice value")
	}
}

func TestStaticBoardHasNoJumpToFinalCell(t *testing.T) {
	board := StaticBoard()
	for from, j := range board.Snakes {
		if j.End >= from {
			t.Errorf("snake at %d must move the pawn backward, got %d", from, j.End)
		}
		if j.End == FinalCell {
			t.Errorf("no jump may land on the final cell")
		}
	}
	for from, j := range board.Ladders {
		if j.End <= from {
			t.Errorf("ladder at %d must move the pawn forward, got %d", from, j.End)
		}
		if j.End == FinalCell {
			t.Errorf("no jump may land on the final cell")
		}
	}
}

func TestRepair(t *testing.T) {
	s := twoPlayerState()
	s.Players["user-red"].Position = 140
	s.Board = BoardConfig{}
	s.CurrentTurn = domain.ColorYellow
	s.DiceValue = 2

	if !Repair(s) {
		t.Fatalf("damaged state should report a repair")
	}
	if s.Players["user-red"].Position != 0 {
		t.Fatalf("out-of-range pawn should return to start, got %d", s.Players["user-red"].Position)
	}
	if len(s.Board.Snakes) == 0 || len(s.Board.Ladders) == 0 {
		t.Fatalf("empty board should rebuild to the static layout")
	}
	if s.CurrentTurn != domain.ColorRed || s.DiceValue != 0 {
		t.Fatalf("invalid turn holder should fall back to the first active color")
	}
	if Repair(s) {
		t.Fatalf("repaired state should be stable")
	}
}
