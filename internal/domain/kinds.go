package domain

// GameKind discriminates the per-game variants of a match document.
type GameKind string

const (
	GameLudo      GameKind = "ludo"
	GameSnakes    GameKind = "snakes"
	GameTicTacToe GameKind = "tictactoe"
)

// Valid reports whether the kind is one of the supported games.
func (k GameKind) Valid() bool {
	switch k {
	case GameLudo, GameSnakes, GameTicTacToe:
		return true
	}
	return false
}
