package ludo

import "arcade/internal/domain"

// Board geometry. The outer loop is a 52-cell ring; each color enters at its
// own start offset and walks 51 ring cells before turning into a private
// 6-cell home stretch toward the center of the 15x15 grid.
const (
	RingCells        = 52
	HomeStretchStart = 51 // first relative position off the shared ring
	TrackEnd         = 56 // relative position of the finished token
	TokensPerPlayer  = 4
)

// StartOffsets maps each color to its entry cell on the shared ring.
// Ring order is red -> green -> blue -> yellow (clockwise arms).
var StartOffsets = map[domain.Color]int{
	domain.ColorRed:    0,
	domain.ColorGreen:  13,
	domain.ColorBlue:   26,
	domain.ColorYellow: 39,
}

// globalPathCoords maps ring index 0..51 to [row, col] on the 15x15 grid,
// starting from red's start square and moving clockwise.
var globalPathCoords = [RingCells][2]int{
	// Red arm (left) -> top
	{6, 1}, {6, 2}, {6, 3}, {6, 4}, {6, 5}, {5, 6},
	// Green arm (top) -> right
	{4, 6}, {3, 6}, {2, 6}, {1, 6}, {0, 6}, {0, 7}, {0, 8},
	{1, 8}, {2, 8}, {3, 8}, {4, 8}, {5, 8}, {6, 9},
	// Blue arm (right) -> bottom
	{6, 10}, {6, 11}, {6, 12}, {6, 13}, {6, 14}, {7, 14}, {8, 14},
	{8, 13}, {8, 12}, {8, 11}, {8, 10}, {8, 9}, {9, 8},
	// Yellow arm (bottom) -> left
	{10, 8}, {11, 8}, {12, 8}, {13, 8}, {14, 8}, {14, 7}, {14, 6},
	{13, 6}, {12, 6}, {11, 6}, {10, 6}, {9, 6}, {8, 5},
	// Back to red arm
	{8, 4}, {8, 3}, {8, 2}, {8, 1}, {8, 0}, {7, 0}, {6, 0},
}

// homePathCoords maps each color's home-stretch index 0..5 to grid cells.
var homePathCoords = map[domain.Color][6][2]int{
	domain.ColorRed:    {{7, 1}, {7, 2}, {7, 3}, {7, 4}, {7, 5}, {7, 6}},
	domain.ColorGreen:  {{1, 7}, {2, 7}, {3, 7}, {4, 7}, {5, 7}, {6, 7}},
	domain.ColorBlue:   {{7, 13}, {7, 12}, {7, 11}, {7, 10}, {7, 9}, {7, 8}},
	domain.ColorYellow: {{13, 7}, {12, 7}, {11, 7}, {10, 7}, {9, 7}, {8, 7}},
}

// baseCoords holds the four base slots per color for tokens not yet released.
var baseCoords = map[domain.Color][TokensPerPlayer][2]int{
	domain.ColorRed:    {{1, 1}, {1, 4}, {4, 1}, {4, 4}},
	domain.ColorGreen:  {{1, 10}, {1, 13}, {4, 10}, {4, 13}},
	domain.ColorBlue:   {{10, 10}, {10, 13}, {13, 10}, {13, 13}},
	domain.ColorYellow: {{10, 1}, {10, 4}, {13, 1}, {13, 4}},
}

// safeCells are ring indexes where tokens cannot be captured: the four start
// squares plus the four star squares on each arm.
var safeCells = map[int]bool{
	0: true, 8: true, 13: true, 21: true,
	26: true, 34: true, 39: true, 47: true,
}

// IsSafeCell reports whether the ring index is a capture-free square.
func IsSafeCell(globalIndex int) bool {
	return safeCells[globalIndex]
}

// GlobalIndex converts a color-relative track position to its ring index.
// Returns -1 for positions on the private home stretch or off the board;
// such tokens occupy no shared cell and cannot capture or be captured.
func GlobalIndex(color domain.Color, position int) int {
	if position < 0 || position >= HomeStretchStart {
		return -1
	}
	return (StartOffsets[color] + position) % RingCells
}

// GridCoordinates resolves a token to [row, col] on the 15x15 board grid.
// Base and home placements depend on the token id so same-color tokens
// occupy distinct slots.
func GridCoordinates(color domain.Color, t Token) [2]int {
	switch t.Status {
	case StatusBase:
		return baseCoords[color][t.ID%TokensPerPlayer]
	case StatusHome:
		// Finished tokens gather in the center square.
		return [2]int{7, 7}
	}

	if g := GlobalIndex(color, t.Position); g >= 0 {
		return globalPathCoords[g]
	}
	return homePathCoords[color][t.Position-HomeStretchStart]
}
