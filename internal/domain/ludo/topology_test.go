package ludo

import (
	"testing"

	"arcade/internal/domain"
)

func TestGlobalIndex(t *testing.T) {
	tests := []struct {
		name     string
		color    domain.Color
		position int
		want     int
	}{
		{"RedStart", domain.ColorRed, 0, 0},
		{"GreenStart", domain.ColorGreen, 0, 13},
		{"BlueStart", domain.ColorBlue, 0, 26},
		{"YellowStart", domain.ColorYellow, 0, 39},
		{"WrapsPastRingEnd", domain.ColorYellow, 20, 7},
		{"BlueMidRing", domain.ColorBlue, 36, 10},
		{"LastRingCell", domain.ColorRed, 50, 50},
		{"HomeStretchHasNoRingCell", domain.ColorRed, 51, -1},
		{"FinishedHasNoRingCell", domain.ColorGreen, 56, -1},
		{"BaseHasNoRingCell", domain.ColorRed, -1, -1},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			if got := GlobalIndex(test.color, test.position); got != test.want {
				t.Fatalf("GlobalIndex(%s, %d) = %d, want %d", test.color, test.position, got, test.want)
			}
		})
	}
}

func TestSafeCells(t *testing.T) {
	safe := []int{0, 8, 13, 21, 26, 34, 39, 47}
	for _, idx := range safe {
		if !IsSafeCell(idx) {
			t.Errorf("cell %d should be safe", idx)
		}
	}
	for _, idx := range []int{1, 10, 25, 50, -1} {
		if IsSafeCell(idx) {
			t.Errorf("cell %d should not be safe", idx)
		}
	}
}

func TestStartOffsetsAlignWithSafeCells(t *testing.T) {
	// Every start square must be capture-free.
	for color, offset := range StartOffsets {
		if !IsSafeCell(offset) {
			t.Errorf("start cell %d of %s should be safe", offset, color)
		}
	}
}

func TestGridCoordinates(t *testing.T) {
	tests := []struct {
		name  string
		color domain.Color
		token Token
		want  [2]int
	}{
		{"RedRingStart", domain.ColorRed, Token{ID: 0, Position: 0, Status: StatusActive}, [2]int{6, 1}},
		{"GreenRingStart", domain.ColorGreen, Token{ID: 0, Position: 0, Status: StatusActive}, [2]int{1, 8}},
		{"RedFirstHomeCell", domain.ColorRed, Token{ID: 0, Position: 51, Status: StatusActive}, [2]int{7, 1}},
		{"RedBaseSlot", domain.ColorRed, Token{ID: 2, Position: -1, Status: StatusBase}, [2]int{4, 1}},
		{"FinishedGathersInCenter", domain.ColorBlue, Token{ID: 1, Position: 56, Status: StatusHome}, [2]int{7, 7}},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			if got := GridCoordinates(test.color, test.token); got != test.want {
				t.Fatalf("GridCoordinates = %v, want %v", got, test.want)
			}
		})
	}
}
