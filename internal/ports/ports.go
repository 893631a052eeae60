package ports

import (
	"context"
	"errors"

	"arcade/internal/domain"
	"arcade/internal/domain/match"
)

var (
	// ErrNotFound is returned when no document exists for the match id.
	ErrNotFound = errors.New("match state not found")
	// ErrVersionMismatch is returned when a conditional write lost against
	// a concurrent writer.
	ErrVersionMismatch = errors.New("match state version mismatch")
)

// StatePort is the remote document store plus change feed that replicates
// match state to all participants.
type StatePort interface {
	// ReadMatchState returns the current document and its store version.
	ReadMatchState(ctx context.Context, matchID string) (*match.State, string, error)

	// WriteMatchState replaces the stored document. baseVersion "" creates
	// or overwrites unconditionally; a concrete version makes the write
	// conditional and ErrVersionMismatch is returned on conflict. The new
	// store version is returned on success.
	WriteMatchState(ctx context.Context, matchID string, state *match.State, baseVersion string) (string, error)

	// SubscribeMatchState delivers subsequent writes' resulting documents,
	// including the subscriber's own writes. Delivery is asynchronous in
	// store commit order; a slow subscriber may observe intermediate
	// documents coalesced into the newest one. The returned function
	// cancels the subscription.
	SubscribeMatchState(ctx context.Context, matchID string, onUpdate func(*match.State)) (func(), error)
}

// SeatAssignment is one occupied lobby seat, in ascending seat order.
type SeatAssignment struct {
	ParticipantID string
	Seat          int
	// ChosenColor is the color picked in the lobby, or "" for automatic
	// assignment.
	ChosenColor domain.Color
}

// RoomPort exposes the lobby data needed once at game start.
type RoomPort interface {
	FetchSeatAssignments(ctx context.Context, roomID string) ([]SeatAssignment, error)
	FetchAIPlayerCount(ctx context.Context, roomID string) (int, error)
}

// AccountPort resolves participant display names for roster broadcasts.
type AccountPort interface {
	DisplayName(ctx context.Context, userID string) (string, error)
}
