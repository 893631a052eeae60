package ludo

import (
	"errors"
	"testing"

	"arcade/internal/domain"
)

func twoPlayerState() *State {
	return &State{
		Players: map[string]*Player{
			"user-red":  NewPlayer(domain.ColorRed),
			"user-blue": NewPlayer(domain.ColorBlue),
		},
		CurrentTurn: domain.ColorRed,
	}
}

func TestLegalMoves(t *testing.T) {
	p := NewPlayer(domain.ColorRed)

	if moves := LegalMoves(p, 3); len(moves) != 0 {
		t.Fatalf("all tokens in base should have no moves without a 6, got %v", moves)
	}

	moves := LegalMoves(p, 6)
	if len(moves) != TokensPerPlayer {
		t.Fatalf("a 6 should release any base token, got %d moves", len(moves))
	}
	for _, m := range moves {
		if m.NewPosition != 0 {
			t.Fatalf("base exit should land on position 0, got %d", m.NewPosition)
		}
	}

	p.Tokens[0] = Token{ID: 0, Position: 53, Status: StatusActive}
	if moves := LegalMoves(p, 4); len(moves) != 1 || moves[0].NewPosition != 53+4 {
		t.Fatalf("active token should advance within the track, got %v", moves)
	}
	// Token 0 would overshoot the track end on a 6, but the roll still
	// releases the remaining base tokens.
	moves = LegalMoves(p, 6)
	if len(moves) != TokensPerPlayer-1 {
		t.Fatalf("expected %d moves on a 6, got %d", TokensPerPlayer-1, len(moves))
	}
	for _, m := range moves {
		if m.TokenIndex == 0 {
			t.Fatalf("token at 53 must not move on a 6")
		}
	}
}

func TestApplyRollValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*State)
		actor   domain.Color
		roll    int
		wantErr error
	}{
		{"NotYourTurn", func(s *State) {}, domain.ColorBlue, 3, ErrNotYourTurn},
		{"RollOutOfRange", func(s *State) {}, domain.ColorRed, 7, ErrInvalidRoll},
		{"RollAlreadyPending", func(s *State) {
			s.Players["user-red"].Tokens[0] = Token{ID: 0, Position: 5, Status: StatusActive}
			s.DiceValue = 4
		}, domain.ColorRed, 3, ErrRollPending},
		{"MatchFinished", func(s *State) { s.Winner = domain.ColorBlue }, domain.ColorRed, 3, ErrMatchFinished},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			s := twoPlayerState()
			test.mutate(s)
			before := s.Clone()

			_, err := ApplyRoll(s, test.actor, test.roll)
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("ApplyRoll error = %v, want %v", err, test.wantErr)
			}
			if s.CurrentTurn != before.CurrentTurn || s.DiceValue != before.DiceValue {
				t.Fatalf("state mutated on rejected roll")
			}
		})
	}
}

func TestApplyRollDiscardsWhenNoLegalMove(t *testing.T) {
	s := twoPlayerState()

	outcome, err := ApplyRoll(s, domain.ColorRed, 3)
	if err != nil {
		t.Fatalf("ApplyRoll failed: %v", err)
	}
	if !outcome.Discarded {
		t.Fatalf("roll of 3 with all tokens in base should be discarded")
	}
	if outcome.NextTurn != domain.ColorBlue {
		t.Fatalf("discarded roll should rotate turn to blue, got %s", outcome.NextTurn)
	}
	if s.DiceValue != 0 {
		t.Fatalf("discarded roll must not stay pending")
	}
	if s.CurrentTurn != domain.ColorBlue {
		t.Fatalf("turn should have rotated, got %s", s.CurrentTurn)
	}
}

func TestApplyRollStaysPendingWithLegalMove(t *testing.T) {
	s := twoPlayerState()

	outcome, err := ApplyRoll(s, domain.ColorRed, 6)
	if err != nil {
		t.Fatalf("ApplyRoll failed: %v", err)
	}
	if outcome.Discarded {
		t.Fatalf("a 6 always has a legal move from base")
	}
	if s.DiceValue != 6 {
		t.Fatalf("roll should stay pending, got %d", s.DiceValue)
	}
	if s.CurrentTurn != domain.ColorRed {
		t.Fatalf("turn must not rotate while the roll is pending")
	}
}

func TestApplyMoveBaseExit(t *testing.T) {
	s := twoPlayerState()
	s.DiceValue = 6

	res, err := ApplyMove(s, "user-red", 0)
	if err != nil {
		t.Fatalf("ApplyMove failed: %v", err)
	}
	if res.NewPosition != 0 {
		t.Fatalf("base exit should land on 0, got %d", res.NewPosition)
	}
	if !res.RepeatTurn {
		t.Fatalf("a 6 grants a repeat turn")
	}
	tok := s.Players["user-red"].Tokens[0]
	if tok.Status != StatusActive || tok.Position != 0 {
		t.Fatalf("token not activated: %+v", tok)
	}
	if s.DiceValue != 0 {
		t.Fatalf("pending roll should be consumed")
	}
	if s.CurrentTurn != domain.ColorRed {
		t.Fatalf("repeat turn should keep red, got %s", s.CurrentTurn)
	}
}

func TestApplyMoveCapture(t *testing.T) {
	s := twoPlayerState()
	s.CurrentTurn = domain.ColorBlue
	// Blue at relative 30 rolls 6 and lands on ring cell (26+36)%52 = 10,
	// where red's token sits at relative 10.
	s.Players["user-blue"].Tokens[1] = Token{ID: 1, Position: 30, Status: StatusActive}
	s.Players["user-red"].Tokens[2] = Token{ID: 2, Position: 10, Status: StatusActive}
	s.DiceValue = 6

	res, err := ApplyMove(s, "user-blue", 1)
	if err != nil {
		t.Fatalf("ApplyMove failed: %v", err)
	}
	if res.Captured == nil {
		t.Fatalf("expected a capture")
	}
	if res.Captured.ParticipantID != "user-red" || res.Captured.TokenIndex != 2 {
		t.Fatalf("wrong capture target: %+v", res.Captured)
	}
	if !res.RepeatTurn {
		t.Fatalf("a capture grants a repeat turn")
	}

	victim := s.Players["user-red"].Tokens[2]
	if victim.Status != StatusBase || victim.Position != -1 {
		t.Fatalf("captured token should reset to base, got %+v", victim)
	}
}

func TestApplyMoveNoCaptureOnSafeCell(t *testing.T) {
	s := twoPlayerState()
	s.CurrentTurn = domain.ColorBlue
	// Blue lands on ring cell (26+34)%52 = 8, a safe square occupied by red.
	s.Players["user-blue"].Tokens[0] = Token{ID: 0, Position: 31, Status: StatusActive}
	s.Players["user-red"].Tokens[0] = Token{ID: 0, Position: 8, Status: StatusActive}
	s.DiceValue = 3

	res, err := ApplyMove(s, "user-blue", 0)
	if err != nil {
		t.Fatalf("ApplyMove failed: %v", err)
	}
	if res.Captured != nil {
		t.Fatalf("safe cell must not yield a capture")
	}
	if s.Players["user-red"].Tokens[0].Status != StatusActive {
		t.Fatalf("red token should stay on the board")
	}
	if s.CurrentTurn != domain.ColorRed {
		t.Fatalf("plain move should rotate the turn, got %s", s.CurrentTurn)
	}
}

func TestApplyMoveOvershootBlocked(t *testing.T) {
	s := twoPlayerState()
	s.Players["user-red"].Tokens[0] = Token{ID: 0, Position: 53, Status: StatusActive}
	s.DiceValue = 5

	_, err := ApplyMove(s, "user-red", 0)
	if !errors.Is(err, ErrTokenBlocked) {
		t.Fatalf("overshooting the track end should be blocked, got %v", err)
	}
	if s.Players["user-red"].Tokens[0].Position != 53 {
		t.Fatalf("token must not move on a rejected overshoot")
	}
	if s.DiceValue != 5 {
		t.Fatalf("pending roll must survive a rejected move")
	}
}

func TestApplyMoveWin(t *testing.T) {
	s := twoPlayerState()
	red := s.Players["user-red"]
	for i := 0; i < 3; i++ {
		red.Tokens[i] = Token{ID: i, Position: TrackEnd, Status: StatusHome}
	}
	red.Tokens[3] = Token{ID: 3, Position: 50, Status: StatusActive}
	s.DiceValue = 6

	res, err := ApplyMove(s, "user-red", 3)
	if err != nil {
		t.Fatalf("ApplyMove failed: %v", err)
	}
	if !res.Finished {
		t.Fatalf("token reaching %d should finish", TrackEnd)
	}
	if res.Winner != domain.ColorRed || s.Winner != domain.ColorRed {
		t.Fatalf("red should win, got %s", s.Winner)
	}

	if _, err := ApplyRoll(s, domain.ColorRed, 3); !errors.Is(err, ErrMatchFinished) {
		t.Fatalf("finished match must reject rolls, got %v", err)
	}
}

func TestApplyMoveNoPendingRoll(t *testing.T) {
	s := twoPlayerState()
	if _, err := ApplyMove(s, "user-red", 0); !errors.Is(err, ErrNoPendingRoll) {
		t.Fatalf("move without a roll should fail, got %v", err)
	}
}

func TestFindCaptureIgnoresHomeStretch(t *testing.T) {
	players := map[string]*Player{
		"user-red":  NewPlayer(domain.ColorRed),
		"user-blue": NewPlayer(domain.ColorBlue),
	}
	// Red on its home stretch occupies no shared ring cell.
	players["user-red"].Tokens[0] = Token{ID: 0, Position: 52, Status: StatusActive}

	if _, ok := FindCapture(players, domain.ColorBlue, GlobalIndex(domain.ColorRed, 52)); ok {
		t.Fatalf("home-stretch tokens cannot be captured")
	}
}

func TestRepair(t *testing.T) {
	s := twoPlayerState()
	s.Players["user-red"].Tokens = s.Players["user-red"].Tokens[:2]
	s.Players["user-blue"].Tokens[1] = Token{ID: 9, Position: 200, Status: StatusActive}
	s.CurrentTurn = domain.ColorGreen
	s.DiceValue = 4

	if !Repair(s) {
		t.Fatalf("damaged state should report a repair")
	}
	if len(s.Players["user-red"].Tokens) != TokensPerPlayer {
		t.Fatalf("short token slice should rebuild")
	}
	tok := s.Players["user-blue"].Tokens[1]
	if tok.ID != 1 || tok.Position != -1 || tok.Status != StatusBase {
		t.Fatalf("out-of-range token should return to base, got %+v", tok)
	}
	if s.CurrentTurn != domain.ColorRed || s.DiceValue != 0 {
		t.Fatalf("invalid turn holder should fall back to the first active color")
	}
	if Repair(s) {
		t.Fatalf("repaired state should be stable")
	}
}
