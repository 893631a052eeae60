package nakama

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"arcade/internal/domain"
	"arcade/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// roomDocument is the stored lobby shape for a room.
type roomDocument struct {
	Seats []struct {
		ParticipantID string `json:"participantId"`
		Seat          int    `json:"seat"`
		ChosenColor   string `json:"chosenColor,omitempty"`
	} `json:"seats"`
	AIPlayerCount int `json:"aiPlayerCount"`
}

// NakamaRoomAdapter implements ports.RoomPort from the rooms storage
// collection.
type NakamaRoomAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaRoomAdapter creates a new room adapter.
func NewNakamaRoomAdapter(nk runtime.NakamaModule) *NakamaRoomAdapter {
	return &NakamaRoomAdapter{nk: nk}
}

func (a *NakamaRoomAdapter) readRoom(ctx context.Context, roomID string) (*roomDocument, error) {
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{{
		Collection: StorageCollectionRooms,
		Key:        roomID,
	}})
	if err != nil {
		return nil, fmt.Errorf("failed to read room %s: %w", roomID, err)
	}
	if len(objects) == 0 {
		return nil, ports.ErrNotFound
	}

	var doc roomDocument
	if err := json.Unmarshal([]byte(objects[0].Value), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode room %s: %w", roomID, err)
	}
	return &doc, nil
}

// FetchSeatAssignments returns the occupied seats in ascending seat order.
func (a *NakamaRoomAdapter) FetchSeatAssignments(ctx context.Context, roomID string) ([]ports.SeatAssignment, error) {
	doc, err := a.readRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	seats := make([]ports.SeatAssignment, 0, len(doc.Seats))
	for _, s := range doc.Seats {
		if s.ParticipantID == "" {
			continue
		}
		seats = append(seats, ports.SeatAssignment{
			ParticipantID: s.ParticipantID,
			Seat:          s.Seat,
			ChosenColor:   domain.Color(s.ChosenColor),
		})
	}
	sort.Slice(seats, func(i, j int) bool { return seats[i].Seat < seats[j].Seat })
	return seats, nil
}

func (a *NakamaRoomAdapter) FetchAIPlayerCount(ctx context.Context, roomID string) (int, error) {
	doc, err := a.readRoom(ctx, roomID)
	if err != nil {
		return 0, err
	}
	return doc.AIPlayerCount, nil
}

var _ ports.RoomPort = (*NakamaRoomAdapter)(nil)
