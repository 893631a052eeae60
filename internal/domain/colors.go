package domain

// Color identifies a player seat color shared by the board games.
type Color string

const (
	ColorRed    Color = "red"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorBlue   Color = "blue"
)

// TurnOrder is the fixed rotation order for the four-color games.
// Rotation always walks this sequence; colors without a player are skipped.
var TurnOrder = [4]Color{ColorRed, ColorGreen, ColorYellow, ColorBlue}

// NextTurn returns the color whose move follows current, advancing circularly
// through TurnOrder and skipping colors not present in active. The walk is
// bounded by one full cycle: if no other active color exists, current is
// returned unchanged. Callers must never pass an empty active set once a
// match exists; with zero active colors the function also returns current.
func NextTurn(current Color, active []Color) Color {
	idx := 0
	for i, c := range TurnOrder {
		if c == current {
			idx = i
			break
		}
	}

	next := (idx + 1) % len(TurnOrder)
	for !containsColor(active, TurnOrder[next]) {
		next = (next + 1) % len(TurnOrder)
		if next == idx {
			break
		}
	}
	return TurnOrder[next]
}

func containsColor(colors []Color, c Color) bool {
	for _, v := range colors {
		if v == c {
			return true
		}
	}
	return false
}

// Symbol identifies a tic-tac-toe seat.
type Symbol string

const (
	SymbolX Symbol = "X"
	SymbolO Symbol = "O"
)

// Opponent returns the other tic-tac-toe symbol.
func (s Symbol) Opponent() Symbol {
	if s == SymbolX {
		return SymbolO
	}
	return SymbolX
}
