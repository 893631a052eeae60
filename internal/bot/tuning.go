package bot

// LudoWeights is the declarative scoring table for ludo move candidates.
// Keeping the weights as data makes them tunable and testable against
// fixture boards without touching the scorer.
type LudoWeights struct {
	// Finish rewards a token reaching the end of the track.
	Finish float64
	// Capture rewards knocking an opposing token back to base.
	Capture float64
	// ExitBase rewards releasing a base token with a 6.
	ExitBase float64
	// SafeCell rewards landing on a capture-free square.
	SafeCell float64
	// HomeStretchBase and HomeStretchStep reward progress inside the last
	// ten cells: base + step per cell closer to the end.
	HomeStretchBase float64
	HomeStretchStep float64
	// EscapeBase/EscapeScale reward moving a threatened token out of
	// capture range; the scale part grows with how far the token has
	// advanced.
	EscapeBase  float64
	EscapeScale float64
	// DangerBase/DangerScale penalize landing within capture range of an
	// opponent, scaled the same way.
	DangerBase  float64
	DangerScale float64
	// Hunting rewards landing within striking distance behind an opponent.
	Hunting float64
	// StackSafe/StackUnsafe adjust for stacking on an own-color cell.
	StackSafe   float64
	StackUnsafe float64
	// JitterMax is the upper bound of the random tie-break added to every
	// candidate.
	JitterMax float64
}

// DefaultLudoWeights is the production tuning.
var DefaultLudoWeights = LudoWeights{
	Finish:          500,
	Capture:         400,
	ExitBase:        150,
	SafeCell:        60,
	HomeStretchBase: 50,
	HomeStretchStep: 5,
	EscapeBase:      200,
	EscapeScale:     200,
	DangerBase:      100,
	DangerScale:     300,
	Hunting:         40,
	StackSafe:       30,
	StackUnsafe:     50,
	JitterMax:       10,
}
