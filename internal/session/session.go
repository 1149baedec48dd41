// Package session defines the per-user scratch storage that journeys and
// single-use form messages live in. Entries are addressed by session, a
// namespace and a name, and carry a version so writers can detect that
// somebody else wrote in between.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNoSession means the request carries no session id to scope entries to.
var ErrNoSession = errors.New("no session in context")

// Key addresses one entry inside one user's session.
type Key struct {
	SessionID string
	Namespace string
	Name      string
}

func (k Key) String() string {
	return "session:" + k.SessionID + ":" + k.Namespace + ":" + k.Name
}

// Record is a stored entry. Version starts at 1 and grows by one on every write.
type Record struct {
	Data    []byte
	Version int64
}

// Store is implemented by every session backend (memory, redis, postgres).
//
// Errors are sentinel-wrapped: sentinel.ErrNotFound for missing or expired
// entries, sentinel.ErrConflict for Create on an existing entry and for
// Update with a stale version.
type Store interface {
	Get(ctx context.Context, key Key) (Record, error)
	// Create writes a new entry and fails if one already exists.
	Create(ctx context.Context, key Key, data []byte, ttl time.Duration) (Record, error)
	// Replace writes unconditionally.
	Replace(ctx context.Context, key Key, data []byte, ttl time.Duration) (Record, error)
	// Update writes only if the stored version equals expected.
	Update(ctx context.Context, key Key, expected int64, data []byte, ttl time.Duration) (Record, error)
	// Take reads and removes an entry in one step.
	Take(ctx context.Context, key Key) (Record, error)
	// Delete is idempotent.
	Delete(ctx context.Context, key Key) error
}
