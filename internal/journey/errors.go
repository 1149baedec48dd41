package journey

import (
	"errors"

	"contacts/internal/session"
)

var (
	// ErrNotFound means the journey was never started, was completed or
	// cancelled, or has been evicted. Callers apply the kind's MissingPolicy.
	ErrNotFound = errors.New("journey not found")
	// ErrExists is returned by a non-overwriting Create on an existing id.
	ErrExists = errors.New("journey already exists")
	// ErrStale is returned by Save when another request wrote the journey
	// after it was loaded.
	ErrStale = errors.New("journey was changed by another request")
	// ErrNoSession means the request carries no session to scope journeys to.
	ErrNoSession = session.ErrNoSession
	// ErrWrongKind means a payload does not belong to the journey's kind.
	ErrWrongKind = errors.New("payload does not match journey kind")
)
