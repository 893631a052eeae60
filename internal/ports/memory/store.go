// Package memory holds in-process port implementations used by local
// sessions and tests.
package memory

import (
	"context"
	"strconv"
	"sync"

	"arcade/internal/domain/match"
	"arcade/internal/ports"
)

type record struct {
	state   *match.State
	version int64
}

// subscriber delivers updates on its own goroutine so a subscriber that is
// also a writer never blocks the store. The channel preserves commit order.
type subscriber struct {
	ch   chan *match.State
	done chan struct{}
}

// StateStore is an in-memory ports.StatePort with conditional writes and an
// ordered asynchronous change feed.
type StateStore struct {
	mu      sync.Mutex
	records map[string]*record
	subs    map[string]map[int]*subscriber
	nextSub int
}

func NewStateStore() *StateStore {
	return &StateStore{
		records: make(map[string]*record),
		subs:    make(map[string]map[int]*subscriber),
	}
}

func (s *StateStore) ReadMatchState(ctx context.Context, matchID string) (*match.State, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[matchID]
	if !ok {
		return nil, "", ports.ErrNotFound
	}
	return rec.state.Clone(), strconv.FormatInt(rec.version, 10), nil
}

func (s *StateStore) WriteMatchState(ctx context.Context, matchID string, state *match.State, baseVersion string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[matchID]
	if baseVersion != "" {
		if !ok || strconv.FormatInt(rec.version, 10) != baseVersion {
			return "", ports.ErrVersionMismatch
		}
	}
	if rec == nil {
		rec = &record{}
		s.records[matchID] = rec
	}
	rec.state = state.Clone()
	rec.version++

	// Documents replace wholesale, so a slow subscriber may coalesce to
	// the newest value instead of blocking the writer.
	for _, sub := range s.subs[matchID] {
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
	return strconv.FormatInt(rec.version, 10), nil
}

func (s *StateStore) SubscribeMatchState(ctx context.Context, matchID string, onUpdate func(*match.State)) (func(), error) {
	sub := &subscriber{
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

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subs[matchID] == nil {
		s.subs[matchID] = make(map[int]*subscriber)
	}
	id := s.nextSub
	s.nextSub++
	s.subs[matchID][id] = sub

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs[matchID], id)
			s.mu.Unlock()
			close(sub.done)
		})
	}, nil
}

// Delete removes a match document, for cleanup after a match ends.
func (s *StateStore) Delete(matchID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, matchID)
}
