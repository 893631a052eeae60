package tictactoe

import (
	"bytes"
	"errors"

	"arcade/internal/domain"
)

const Cells = 9

// VerdictDraw is returned by CalculateWinner when all cells are filled with
// no winning line.
const VerdictDraw = "DRAW"

var (
	ErrMatchFinished = errors.New("match already decided")
	ErrNotYourTurn   = errors.New("actor does not own the current turn")
	ErrCellOccupied  = errors.New("cell already marked")
	ErrUnknownCell   = errors.New("cell index out of range")
	ErrUnknownPlayer = errors.New("participant not in match")
)

// Cell is one board square: empty, X, or O. The empty cell marshals as JSON
// null to keep the document shape of the board array.
type Cell string

func (c Cell) MarshalJSON() ([]byte, error) {
	if c == "" {
		return []byte("null"), nil
	}
	return []byte(`"` + string(c) + `"`), nil
}

func (c *Cell) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	*c = Cell(bytes.Trim(data, `"`))
	return nil
}

// State is the full tic-tac-toe match document. The first joiner plays X,
// the second seat (human or AI) plays O.
type State struct {
	Board       [Cells]Cell              `json:"board"`
	CurrentTurn domain.Symbol            `json:"currentTurn"`
	Players     map[string]domain.Symbol `json:"players"`
	// Winner is "X", "O", or "DRAW"; empty while the game is running.
	Winner string `json:"winner,omitempty"`
}

// Repair normalizes a document loaded from the store: cells holding
// anything but X or O clear, and an invalid turn holder falls back to X.
// Reports whether anything changed.
func Repair(s *State) bool {
	changed := false
	for i, c := range s.Board {
		if c != "" && c != Cell(domain.SymbolX) && c != Cell(domain.SymbolO) {
			s.Board[i] = ""
			changed = true
		}
	}
	if s.CurrentTurn != domain.SymbolX && s.CurrentTurn != domain.SymbolO {
		s.CurrentTurn = domain.SymbolX
		changed = true
	}
	return changed
}

// MoveResult reports the effect of placing a mark.
type MoveResult struct {
	Index    int
	Symbol   domain.Symbol
	Winner   string
	NextTurn domain.Symbol
}

// winLines is the 8 monochrome lines that decide the game.
var winLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Clone deep-copies the state.
func (s *State) Clone() *State {
	out := &State{
		Board:       s.Board,
		CurrentTurn: s.CurrentTurn,
		Winner:      s.Winner,
		Players:     make(map[string]domain.Symbol, len(s.Players)),
	}
	for id, sym := range s.Players {
		out.Players[id] = sym
	}
	return out
}

// CalculateWinner returns "X" or "O" when a line is complete, "DRAW" when
// the board is full with no line, and "" while the game is still open.
func CalculateWinner(board [Cells]Cell) string {
	for _, line := range winLines {
		a, b, c := board[line[0]], board[line[1]], board[line[2]]
		if a != "" && a == b && a == c {
			return string(a)
		}
	}
	for _, cell := range board {
		if cell == "" {
			return ""
		}
	}
	return VerdictDraw
}

// EmptyCells lists the indexes still open for a mark.
func EmptyCells(board [Cells]Cell) []int {
	var out []int
	for i, c := range board {
		if c == "" {
			out = append(out, i)
		}
	}
	return out
}

// ApplyMove places the acting participant's mark, checks the outcome, and
// alternates the turn. The state is not mutated on error.
func ApplyMove(s *State, participantID string, index int) (MoveResult, error) {
	if s.Winner != "" {
		return MoveResult{}, ErrMatchFinished
	}
	sym, ok := s.Players[participantID]
	if !ok {
		return MoveResult{}, ErrUnknownPlayer
	}
	if sym != s.CurrentTurn {
		return MoveResult{}, ErrNotYourTurn
	}
	if index < 0 || index >= Cells {
		return MoveResult{}, ErrUnknownCell
	}
	if s.Board[index] != "" {
		return MoveResult{}, ErrCellOccupied
	}

	s.Board[index] = Cell(sym)
	s.Winner = CalculateWinner(s.Board)
	s.CurrentTurn = sym.Opponent()

	return MoveResult{
		Index:    index,
		Symbol:   sym,
		Winner:   s.Winner,
		NextTurn: s.CurrentTurn,
	}, nil
}
