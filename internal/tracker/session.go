package tracker

import (
	"sync"

	"github.com/jmhart/pulse/internal/models"
)

// PatchState tags the lifecycle of an optimistic local change.
type PatchState int

const (
	// PatchNone means no mutation has been applied through the session yet.
	PatchNone PatchState = iota
	// PatchPending means the local view reflects a change the service has
	// not confirmed.
	PatchPending
	// PatchConfirmed means the last change was replaced with
	// server-confirmed state.
	PatchConfirmed
	// PatchRolledBack means the last change failed and the local view was
	// restored from last-known-good state.
	PatchRolledBack
)

// Session is a per-user client cache of the single server-confirmed active
// entry. Mutations apply an optimistic local patch first; on success the
// patch is replaced with the service's response and the cache refreshed, on
// failure the patch is discarded and the last-known-good state remains.
//
// UI collaborators hold one Session instead of independently maintained
// copies of "the current timer".
type Session struct {
	svc    *Service
	userID string

	mu      sync.Mutex
	active  *models.TimeEntry // last server-confirmed active entry
	pending *models.TimeEntry // optimistic overlay, nil unless mid-mutation
	state   PatchState
}

// NewSession creates a session and primes it from the service.
func NewSession(svc *Service, userID string) (*Session, error) {
	s := &Session{svc: svc, userID: userID}
	if err := s.Refresh(); err != nil {
		return nil, err
	}
	return s, nil
}

// Refresh re-reads the active entry from the service.
func (s *Session) Refresh() error {
	active, err := s.svc.ActiveEntry(s.userID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.active = active
	s.pending = nil
	s.mu.Unlock()
	return nil
}

// Active returns the session's view of the running entry: the pending
// optimistic entry while a mutation is in flight, otherwise the last
// server-confirmed one. Nil means no timer is running.
func (s *Session) Active() *models.TimeEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil {
		return s.pending
	}
	return s.active
}

// State reports the outcome of the most recent mutation.
func (s *Session) State() PatchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start starts tracking a task through the session.
func (s *Session) Start(taskID int64) (*models.TimeEntry, error) {
	s.mu.Lock()
	s.pending = &models.TimeEntry{TaskID: taskID, UserID: s.userID, Start: s.svc.now()}
	s.state = PatchPending
	s.mu.Unlock()

	entry, err := s.svc.StartTracking(s.userID, taskID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
	if err != nil {
		s.state = PatchRolledBack
		return nil, err
	}
	s.active = entry
	s.state = PatchConfirmed
	return entry, nil
}

// Stop stops the session's running entry.
func (s *Session) Stop(entryID int64) (*models.TimeEntry, error) {
	s.mu.Lock()
	s.pending = nil // optimistic view: timer gone
	s.state = PatchPending
	prior := s.active
	s.active = nil
	s.mu.Unlock()

	entry, err := s.svc.StopTracking(s.userID, entryID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		// Restore last-known-good state; the caller should Refresh if the
		// error suggests the cache is stale.
		s.active = prior
		s.state = PatchRolledBack
		return nil, err
	}
	s.active = nil
	s.state = PatchConfirmed
	return entry, nil
}
