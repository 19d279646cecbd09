// Package optimistic holds client state that is changed tentatively before a remote
// authority confirms it. Every mutation on a Store runs alone: it snapshots the state,
// publishes the optimistic version, waits for confirmation and then commits the confirmed
// state or restores the snapshot.
package optimistic

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"

	commonErrors "github.com/Alturino/storefront/internal/common/errors"
)

type Outcome string

const (
	OutcomeCommitted  Outcome = "committed"
	OutcomeRolledBack Outcome = "rolled_back"
	OutcomeStale      Outcome = "stale"
	OutcomeRejected   Outcome = "rejected"
)

// Mutation describes one tentative change of S confirmed by a call returning R.
type Mutation[S, R any] struct {
	// Check inspects the state once the mutation holds the store. An error aborts the
	// mutation before anything changes. Check must not call back into the store.
	Check func(S) error
	// Optimistic derives the state shown while Confirm is in flight. Nil leaves the state
	// as it is apart from Pending.
	Optimistic func(S) S
	// Confirm performs the authoritative call.
	Confirm func(context.Context) (R, error)
	// Commit derives the confirmed state from the state at confirmation time.
	Commit func(S, R) S
}

// Store owns a value of S. Clone must return a copy sharing no mutable memory with its
// argument; Pending marks or clears the in-flight flag of a state.
type Store[S any] struct {
	clone       func(S) S
	pending     func(S, bool) S
	inflight    *semaphore.Weighted
	subscribers map[int]func(S)
	state       S
	mu          sync.RWMutex
	version     uint64
	nextSubID   int
}

func NewStore[S any](initial S, clone func(S) S, pending func(S, bool) S) *Store[S] {
	return &Store[S]{
		clone:       clone,
		pending:     pending,
		inflight:    semaphore.NewWeighted(1),
		subscribers: map[int]func(S){},
		state:       initial,
	}
}

// State returns a copy of the current state.
func (s *Store[S]) State() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clone(s.state)
}

func (s *Store[S]) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Invalidate moves the store to a new version so that confirmations started under the old
// one are discarded when they arrive.
func (s *Store[S]) Invalidate() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version++
	return s.version
}

// Subscribe registers fn to receive every published state. The returned func removes it.
func (s *Store[S]) Subscribe(fn func(S)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// Lock waits for exclusive use of the store. Callers that replace the state wholesale,
// such as a reload, hold it for the duration of their remote call.
func (s *Store[S]) Lock(c context.Context) error {
	if err := s.inflight.Acquire(c, 1); err != nil {
		return fmt.Errorf("failed acquiring store with error=%w", err)
	}
	return nil
}

func (s *Store[S]) Unlock() {
	s.inflight.Release(1)
}

// Replace sets the state when version is still current and reports whether it did.
func (s *Store[S]) Replace(version uint64, state S) bool {
	s.mu.Lock()
	if s.version != version {
		s.mu.Unlock()
		return false
	}
	s.state = state
	published, subscribers := s.publishLocked()
	s.mu.Unlock()
	notify(subscribers, published)
	return true
}

// Update applies fn to the current state when version is still current.
func (s *Store[S]) Update(version uint64, fn func(S) S) bool {
	s.mu.Lock()
	if s.version != version {
		s.mu.Unlock()
		return false
	}
	s.state = fn(s.clone(s.state))
	published, subscribers := s.publishLocked()
	s.mu.Unlock()
	notify(subscribers, published)
	return true
}

func (s *Store[S]) publishLocked() (S, []func(S)) {
	subscribers := make([]func(S), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	return s.clone(s.state), subscribers
}

func notify[S any](subscribers []func(S), state S) {
	for _, fn := range subscribers {
		fn(state)
	}
}

// Apply runs m against s. On a failed confirmation the state is restored to the exact
// snapshot taken before the optimistic change. A confirmation arriving after Invalidate
// is dropped and reported with ErrStaleResponse.
func Apply[S, R any](c context.Context, s *Store[S], m Mutation[S, R]) (R, Outcome, error) {
	return apply(c, s, nil, m)
}

// ApplyAt runs m like Apply, but only if s is still at version when m gets its turn. A
// mutation prepared before an Invalidate is reported with ErrStaleResponse and never
// reaches Confirm.
func ApplyAt[S, R any](c context.Context, s *Store[S], version uint64, m Mutation[S, R]) (R, Outcome, error) {
	return apply(c, s, &version, m)
}

func apply[S, R any](c context.Context, s *Store[S], expected *uint64, m Mutation[S, R]) (R, Outcome, error) {
	var zero R
	if err := s.Lock(c); err != nil {
		return zero, OutcomeRolledBack, err
	}
	defer s.Unlock()

	s.mu.Lock()
	version := s.version
	if expected != nil && *expected != version {
		s.mu.Unlock()
		return zero, OutcomeStale, commonErrors.ErrStaleResponse
	}
	if m.Check != nil {
		if err := m.Check(s.clone(s.state)); err != nil {
			s.mu.Unlock()
			return zero, OutcomeRejected, err
		}
	}
	snapshot := s.clone(s.state)
	tentative := s.clone(s.state)
	if m.Optimistic != nil {
		tentative = m.Optimistic(tentative)
	}
	s.state = s.pending(tentative, true)
	published, subscribers := s.publishLocked()
	s.mu.Unlock()
	notify(subscribers, published)

	result, err := m.Confirm(c)

	s.mu.Lock()
	if s.version != version {
		s.state = s.pending(s.state, false)
		published, subscribers = s.publishLocked()
		s.mu.Unlock()
		notify(subscribers, published)
		if err != nil {
			return result, OutcomeStale, fmt.Errorf("%w: %w", commonErrors.ErrStaleResponse, err)
		}
		return result, OutcomeStale, commonErrors.ErrStaleResponse
	}
	outcome := OutcomeCommitted
	if err != nil {
		s.state = snapshot
		outcome = OutcomeRolledBack
	} else {
		s.state = s.pending(m.Commit(s.clone(s.state), result), false)
	}
	published, subscribers = s.publishLocked()
	s.mu.Unlock()
	notify(subscribers, published)

	return result, outcome, err
}
