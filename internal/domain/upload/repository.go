package upload

import (
	"context"
	"time"
)

// SessionStore keeps wizard sessions between requests.
type SessionStore interface {
	Create(ctx context.Context, s *Session) error
	// Get returns a copy of the session.
	Get(ctx context.Context, id string) (*Session, error)
	// Update runs fn against the stored session while holding it exclusively.
	Update(ctx context.Context, id string, fn func(s *Session) error) (*Session, error)
	Delete(ctx context.Context, id string) error
	// DeleteIdleSince removes sessions last touched before cutoff and returns how many were removed.
	DeleteIdleSince(ctx context.Context, cutoff time.Time) (int, error)
}
