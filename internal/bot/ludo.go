package bot

import (
	"math/rand"
	"sort"

	"arcade/internal/domain"
	"arcade/internal/domain/ludo"
)

// threatRange is the dice reach within which an opposing token can capture.
const threatRange = 6

// HeuristicLudoBrain scores every legal move with a weighted heuristic and
// plays the best candidate. No lookahead.
type HeuristicLudoBrain struct {
	Weights LudoWeights
	rng     *rand.Rand
}

// NewHeuristicLudoBrain builds a brain with the given weights and rng.
func NewHeuristicLudoBrain(weights LudoWeights, rng *rand.Rand) *HeuristicLudoBrain {
	return &HeuristicLudoBrain{Weights: weights, rng: rng}
}

// ScoredMove pairs a candidate with its heuristic score.
type ScoredMove struct {
	Move  ludo.Move
	Score float64
}

// ChooseMove scores the legal moves for the rolled value and returns the
// highest-scoring one.
func (b *HeuristicLudoBrain) ChooseMove(state *ludo.State, color domain.Color, roll int) (ludo.Move, bool) {
	scored := b.ScoreMoves(state, color, roll)
	if len(scored) == 0 {
		return ludo.Move{}, false
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	return scored[0].Move, true
}

// ScoreMoves evaluates every legal move for the rolled value.
func (b *HeuristicLudoBrain) ScoreMoves(state *ludo.State, color domain.Color, roll int) []ScoredMove {
	_, player := state.PlayerByColor(color)
	if player == nil {
		return nil
	}

	moves := ludo.LegalMoves(player, roll)
	scored := make([]ScoredMove, 0, len(moves))
	for _, m := range moves {
		scored = append(scored, ScoredMove{
			Move:  m,
			Score: b.scoreMove(state, player, m, roll),
		})
	}
	return scored
}

func (b *HeuristicLudoBrain) scoreMove(state *ludo.State, player *ludo.Player, m ludo.Move, roll int) float64 {
	w := b.Weights
	token := player.Tokens[m.TokenIndex]
	newGlobal := ludo.GlobalIndex(player.Color, m.NewPosition)
	progress := float64(m.NewPosition) / float64(ludo.TrackEnd)

	var score float64

	if _, ok := ludo.FindCapture(state.Players, player.Color, newGlobal); ok {
		score += w.Capture
	}
	if m.NewPosition == ludo.TrackEnd {
		score += w.Finish
	}
	if token.Status == ludo.StatusBase && roll == 6 {
		score += w.ExitBase
	}
	if ludo.IsSafeCell(newGlobal) {
		score += w.SafeCell
	}

	// Forward progress: boosted inside the last ten cells, otherwise
	// proportional to the position reached.
	if dist := ludo.TrackEnd - m.NewPosition; dist <= 10 {
		score += w.HomeStretchBase + float64(10-dist)*w.HomeStretchStep
	} else {
		score += float64(m.NewPosition)
	}

	if token.Status == ludo.StatusActive {
		wasInDanger := positionInDanger(state.Players, player.Color, token.Position)
		willBeInDanger := positionInDanger(state.Players, player.Color, m.NewPosition)
		if wasInDanger && !willBeInDanger {
			// Rescuing an advanced token matters more than a fresh one.
			score += w.EscapeBase + progress*w.EscapeScale
		}
		if willBeInDanger {
			score -= w.DangerBase + progress*w.DangerScale
		}
	}

	if !positionInDanger(state.Players, player.Color, m.NewPosition) &&
		huntsOpponent(state.Players, player.Color, newGlobal) {
		score += w.Hunting
	}

	for _, t := range player.Tokens {
		if t.Status == ludo.StatusActive && t.Position == m.NewPosition && t.ID != token.ID {
			if ludo.IsSafeCell(newGlobal) {
				score += w.StackSafe
			} else {
				// Two tokens on an unsafe cell double the capture loss.
				score -= w.StackUnsafe
			}
			break
		}
	}

	score += b.rng.Float64() * w.JitterMax
	return score
}

// positionInDanger reports whether an opposing active token sits within
// dice reach behind the given relative position on the shared ring.
func positionInDanger(players map[string]*ludo.Player, myColor domain.Color, position int) bool {
	myGlobal := ludo.GlobalIndex(myColor, position)
	if myGlobal < 0 || ludo.IsSafeCell(myGlobal) {
		return false
	}
	for _, p := range players {
		if p.Color == myColor {
			continue
		}
		for _, t := range p.Tokens {
			if t.Status != ludo.StatusActive {
				continue
			}
			oppGlobal := ludo.GlobalIndex(p.Color, t.Position)
			if oppGlobal < 0 {
				continue
			}
			dist := (myGlobal - oppGlobal + ludo.RingCells) % ludo.RingCells
			if dist >= 1 && dist <= threatRange {
				return true
			}
		}
	}
	return false
}

// huntsOpponent reports whether the ring cell sits within dice reach behind
// any opposing active token.
func huntsOpponent(players map[string]*ludo.Player, myColor domain.Color, myGlobal int) bool {
	if myGlobal < 0 {
		return false
	}
	for _, p := range players {
		if p.Color == myColor {
			continue
		}
		for _, t := range p.Tokens {
			if t.Status != ludo.StatusActive {
				continue
			}
			oppGlobal := ludo.GlobalIndex(p.Color, t.Position)
			if oppGlobal < 0 {
				continue
			}
			dist := (oppGlobal - myGlobal + ludo.RingCells) % ludo.RingCells
			if dist >= 1 && dist <= threatRange {
				return true
			}
		}
	}
	return false
}
