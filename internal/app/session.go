package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"arcade/internal/config"
	"arcade/internal/domain/match"
	"arcade/internal/ports"
)

// RetryPolicy bounds the session's store retries: exponential backoff from
// BaseBackoff doubling up to MaxBackoff, at most MaxAttempts tries.
type RetryPolicy struct {
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
	MaxAttempts int
}

// DefaultRetryPolicy is the production policy.
var DefaultRetryPolicy = RetryPolicy{
	BaseBackoff: 250 * time.Millisecond,
	MaxBackoff:  5 * time.Second,
	MaxAttempts: 8,
}

// RetryPolicyFromConfig builds a policy from the loaded game config,
// falling back to DefaultRetryPolicy for unset fields.
func RetryPolicyFromConfig(cfg *config.GameConfig) RetryPolicy {
	p := DefaultRetryPolicy
	if cfg == nil {
		return p
	}
	if cfg.SyncBaseBackoffMillis > 0 {
		p.BaseBackoff = time.Duration(cfg.SyncBaseBackoffMillis) * time.Millisecond
	}
	if cfg.SyncMaxBackoffMillis > 0 {
		p.MaxBackoff = time.Duration(cfg.SyncMaxBackoffMillis) * time.Millisecond
	}
	if cfg.SyncMaxAttempts > 0 {
		p.MaxAttempts = cfg.SyncMaxAttempts
	}
	return p
}

// Session is one client's view of a match document: it applies transitions
// optimistically, pushes the full document with a conditional write, and
// replaces its local copy wholesale when the change feed echoes an update.
type Session struct {
	store   ports.StatePort
	matchID string
	retry   RetryPolicy
	// rollbackOnFailure restores the pre-transition snapshot when the
	// write cannot be completed. When false the optimistic local state is
	// left in place, matching the store only after the next echo.
	rollbackOnFailure bool

	mu           sync.Mutex
	state        *match.State
	storeVersion string
	cancel       func()
}

// NewSession builds a session against the given store. Call Start before
// Apply.
func NewSession(store ports.StatePort, matchID string, retry RetryPolicy, rollbackOnFailure bool) *Session {
	return &Session{
		store:             store,
		matchID:           matchID,
		retry:             retry,
		rollbackOnFailure: rollbackOnFailure,
	}
}

// Start loads the current document and subscribes to updates, retrying the
// subscription with the session's backoff policy.
func (s *Session) Start(ctx context.Context) error {
	st, version, err := s.store.ReadMatchState(ctx, s.matchID)
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	st.Repair()

	s.mu.Lock()
	s.state = st
	s.storeVersion = version
	s.mu.Unlock()

	backoff := s.retry.BaseBackoff
	for attempt := 1; ; attempt++ {
		cancel, err := s.store.SubscribeMatchState(ctx, s.matchID, s.onUpdate)
		if err == nil {
			s.mu.Lock()
			s.cancel = cancel
			s.mu.Unlock()
			return nil
		}
		if attempt >= s.retry.MaxAttempts {
			return errors.Join(ErrStoreUnavailable, err)
		}
		if serr := sleepCtx(ctx, backoff); serr != nil {
			return serr
		}
		if backoff *= 2; backoff > s.retry.MaxBackoff {
			backoff = s.retry.MaxBackoff
		}
	}
}

// Close cancels the update subscription.
func (s *Session) Close() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// State returns a copy of the current local document.
func (s *Session) State() *match.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return nil
	}
	return s.state.Clone()
}

// onUpdate replaces the local document wholesale. Documents older than the
// local version are ignored so a delayed echo cannot regress state the
// store has already moved past.
func (s *Session) onUpdate(st *match.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != nil && st.Version < s.state.Version {
		return
	}
	s.state = st
}

// Apply runs a transition against the local document, then pushes the
// resulting document with a conditional write. On a version conflict the
// fresh document is fetched and the transition is re-applied against it,
// bounded by the retry policy. A transition error rejects the move with no
// write; a store failure returns ErrStoreUnavailable and, when the session
// is configured to roll back, restores the pre-transition snapshot.
func (s *Session) Apply(ctx context.Context, transition func(*match.State) ([]Event, error)) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.Clone()
	events, err := transition(s.state)
	if err != nil {
		s.state = snapshot
		return nil, err
	}

	backoff := s.retry.BaseBackoff
	for attempt := 1; ; attempt++ {
		version, werr := s.store.WriteMatchState(ctx, s.matchID, s.state, s.storeVersion)
		if werr == nil {
			s.storeVersion = version
			return events, nil
		}

		if !errors.Is(werr, ports.ErrVersionMismatch) {
			if s.rollbackOnFailure {
				s.state = snapshot
			}
			return nil, errors.Join(ErrStoreUnavailable, werr)
		}

		if attempt >= s.retry.MaxAttempts {
			if s.rollbackOnFailure {
				s.state = snapshot
			}
			return nil, errors.Join(ErrConflict, werr)
		}

		// Lost to a concurrent writer: re-apply against the fresh document.
		fresh, version, rerr := s.store.ReadMatchState(ctx, s.matchID)
		if rerr != nil {
			if s.rollbackOnFailure {
				s.state = snapshot
			}
			return nil, errors.Join(ErrStoreUnavailable, rerr)
		}
		snapshot = fresh.Clone()
		events, err = transition(fresh)
		if err != nil {
			s.state = snapshot
			s.storeVersion = version
			return nil, err
		}
		s.state = fresh
		s.storeVersion = version

		if serr := sleepCtx(ctx, backoff); serr != nil {
			return nil, serr
		}
		if backoff *= 2; backoff > s.retry.MaxBackoff {
			backoff = s.retry.MaxBackoff
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
