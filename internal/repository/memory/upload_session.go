// Package memory holds process-local stores.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Samamatip/dh-workflow/internal/domain/upload"
)

type entry struct {
	mu      sync.Mutex
	session *upload.Session
}

type uploadSessionStoreImpl struct {
	mu       sync.RWMutex
	sessions map[string]*entry
}

// NewUploadSessionStore returns a SessionStore that keeps wizard sessions in memory.
// Sessions do not survive a restart.
func NewUploadSessionStore() upload.SessionStore {
	return &uploadSessionStoreImpl{sessions: make(map[string]*entry)}
}

func (s *uploadSessionStoreImpl) Create(ctx context.Context, session *upload.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = &entry{session: session.Clone()}
	return nil
}

func (s *uploadSessionStoreImpl) lookup(id string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, upload.ErrSessionNotFound
	}
	return e, nil
}

func (s *uploadSessionStoreImpl) Get(ctx context.Context, id string) (*upload.Session, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return nil, upload.ErrSessionNotFound
	}
	return e.session.Clone(), nil
}

// Update applies fn to a working copy and stores it even when fn returns an error:
// wizard transitions record failures on the session and report them at the same time.
func (s *uploadSessionStoreImpl) Update(ctx context.Context, id string, fn func(*upload.Session) error) (*upload.Session, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return nil, upload.ErrSessionNotFound
	}

	working := e.session.Clone()
	fnErr := fn(working)
	e.session = working
	return working.Clone(), fnErr
}

func (s *uploadSessionStoreImpl) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	e, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return upload.ErrSessionNotFound
	}

	// Invalidate for callers already holding the entry.
	e.mu.Lock()
	e.session = nil
	e.mu.Unlock()
	return nil
}

func (s *uploadSessionStoreImpl) DeleteIdleSince(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.sessions {
		if !e.mu.TryLock() {
			// In use right now, so not idle.
			continue
		}
		if e.session == nil || e.session.UpdatedAt.Before(cutoff) {
			e.session = nil
			delete(s.sessions, id)
			removed++
		}
		e.mu.Unlock()
	}
	return removed, nil
}
