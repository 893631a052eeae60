package nakama

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"arcade/internal/domain/match"
	"arcade/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// NakamaStateAdapter implements ports.StatePort on Nakama's storage engine.
// Writes are conditional on the storage object version, and a local
// subscriber registry fans each committed write out to in-process
// listeners.
type NakamaStateAdapter struct {
	nk runtime.NakamaModule

	mu      sync.Mutex
	subs    map[string]map[int]*stateSubscriber
	nextSub int
}

// stateSubscriber delivers updates on its own goroutine so a subscriber
// that is also a writer never blocks the adapter. Documents replace
// wholesale, so a slow subscriber coalesces to the newest value.
type stateSubscriber struct {
	ch   chan *match.State
	done chan struct{}
}

// NewNakamaStateAdapter creates a new state adapter.
func NewNakamaStateAdapter(nk runtime.NakamaModule) *NakamaStateAdapter {
	return &NakamaStateAdapter{
		nk:   nk,
		subs: make(map[string]map[int]*stateSubscriber),
	}
}

func (a *NakamaStateAdapter) ReadMatchState(ctx context.Context, matchID string) (*match.State, string, error) {
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{{
		Collection: StorageCollectionMatchState,
		Key:        matchID,
	}})
	if err != nil {
		return nil, "", fmt.Errorf("failed to read match state: %w", err)
	}
	if len(objects) == 0 {
		return nil, "", ports.ErrNotFound
	}

	st, err := match.Decode([]byte(objects[0].Value))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode match state: %w", err)
	}
	return st, objects[0].Version, nil
}

func (a *NakamaStateAdapter) WriteMatchState(ctx context.Context, matchID string, state *match.State, baseVersion string) (string, error) {
	value, err := match.Encode(state)
	if err != nil {
		return "", fmt.Errorf("failed to encode match state: %w", err)
	}

	acks, err := a.nk.StorageWrite(ctx, []*runtime.StorageWrite{{
		Collection:      StorageCollectionMatchState,
		Key:             matchID,
		Value:           string(value),
		Version:         baseVersion,
		PermissionRead:  2,
		PermissionWrite: 0,
	}})
	if err != nil {
		if baseVersion != "" && isVersionConflict(err) {
			return "", errors.Join(ports.ErrVersionMismatch, err)
		}
		return "", fmt.Errorf("failed to write match state: %w", err)
	}
	if len(acks) == 0 {
		return "", fmt.Errorf("match state write was not acknowledged")
	}

	a.notify(matchID, state)
	return acks[0].Version, nil
}

func (a *NakamaStateAdapter) SubscribeMatchState(ctx context.Context, matchID string, onUpdate func(*match.State)) (func(), error) {
	sub := &stateSubscriber{
		ch:   make(chan *match.State, 16),
		done: make(chan struct{}),
	}
	go func() {
		for {
			select {
			case st := <-sub.ch:
				onUpdate(st)
			case <-sub.done:
				return
			}
		}
	}()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.subs[matchID] == nil {
		a.subs[matchID] = make(map[int]*stateSubscriber)
	}
	id := a.nextSub
	a.nextSub++
	a.subs[matchID][id] = sub

	var once sync.Once
	return func() {
		once.Do(func() {
			a.mu.Lock()
			delete(a.subs[matchID], id)
			a.mu.Unlock()
			close(sub.done)
		})
	}, nil
}

// DeleteMatchState removes the document after a match terminates.
func (a *NakamaStateAdapter) DeleteMatchState(ctx context.Context, matchID string) error {
	return a.nk.StorageDelete(ctx, []*runtime.StorageDelete{{
		Collection: StorageCollectionMatchState,
		Key:        matchID,
	}})
}

func (a *NakamaStateAdapter) notify(matchID string, state *match.State) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, sub := range a.subs[matchID] {
		clone := state.Clone()
		select {
		case sub.ch <- clone:
		default:
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- clone:
			default:
			}
		}
	}
}

// isVersionConflict reports whether a storage write failed its version
// check. Nakama surfaces the rejection in the error message rather than a
// sentinel.
func isVersionConflict(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "version") || strings.Contains(msg, "rejected")
}

var _ ports.StatePort = (*NakamaStateAdapter)(nil)
