package app

import "errors"

// The three error kinds a caller must distinguish: a rejected transition
// (no write happened), a conditional write lost to a concurrent writer, and
// a failed store round trip.
var (
	ErrIllegalMove        = errors.New("illegal move")
	ErrConflict           = errors.New("match state write conflict")
	ErrStoreUnavailable   = errors.New("match state store unavailable")
	ErrTooFewPlayers      = errors.New("not enough players to start")
	ErrTooManyPlayers     = errors.New("too many players for this game")
	ErrWrongGameKind      = errors.New("operation does not match game kind")
	ErrUnknownParticipant = errors.New("participant not found")
)
