// Package session keeps uploaded datasets available between HTTP requests.
//
// A Session binds an uploaded, validated dataset to a random ID until it
// expires. The HTTP API creates one per upload and resolves every
// dataset-scoped request through the Store.
//
// Two backends exist:
//   - MemoryStore: process-local, the default
//   - FileStore: JSON snapshots on disk, so uploads survive restarts
//
// # Usage
//
//	store := session.NewMemoryStore()
//	sess := session.New("relations.xlsx", ds, 2*time.Hour)
//	_ = store.Set(ctx, sess)
//
//	sess, err := store.Get(ctx, id)
//	if errors.Is(err, session.ErrNotFound) {
//	    // unknown or expired
//	}
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/prgraph/pkg/dataset"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("dataset not found")

// DefaultTTL is the default session duration.
const DefaultTTL = 2 * time.Hour

// Session is an uploaded dataset and its lifetime.
type Session struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Dataset   *dataset.Dataset `json:"-"`
	CreatedAt time.Time        `json:"created_at"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// New creates a session with a fresh random ID.
func New(name string, ds *dataset.Dataset, ttl time.Duration) *Session {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Name:      name,
		Dataset:   ds,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// ValidID reports whether id has the shape of a session ID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a live session. Unknown and expired sessions both yield
	// ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, s *Session) error

	// Delete removes a session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions and returns them.
	Cleanup(ctx context.Context) ([]*Session, error)

	// Close releases resources.
	Close() error
}
