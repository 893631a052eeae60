package snakes

// Jump is one snake or ladder endpoint mapping. AssetID selects the sprite
// used by clients; the rules only care about End.
type Jump struct {
	End     int `json:"end"`
	AssetID int `json:"assetId"`
}

// BoardConfig holds the snake-head and ladder-foot mappings, keyed by the
// cell a player lands on. Stored inside the match document so all clients
// agree on the layout.
type BoardConfig struct {
	Snakes  map[int]Jump `json:"snakes"`
	Ladders map[int]Jump `json:"ladders"`
}

// StaticBoard returns the standard board layout. No snake or ladder maps to
// cell 100, so the exact-100 win can only happen by direct movement.
func StaticBoard() BoardConfig {
	return BoardConfig{
		Snakes: map[int]Jump{
			99: {End: 82},
			88: {End: 71},
			76: {End: 43},
			69: {End: 49},
			68: {End: 51},
			63: {End: 38},
			33: {End: 14},
			22: {End: 18},
			10: {End: 6},
		},
		Ladders: map[int]Jump{
			4:  {End: 16},
			17: {End: 37},
			21: {End: 60},
			26: {End: 35},
			32: {End: 48},
			56: {End: 74},
			62: {End: 80},
			86: {End: 94},
		},
	}
}
