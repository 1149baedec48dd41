package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Session backends and the contacts
// API client return these (wrapped) so journey code can decide how to recover
// without knowing which backend produced them:
//   - ErrNotFound: entry or remote record does not exist
//   - ErrConflict: entry already exists, or its version moved on
//   - ErrExpired: entry existed but aged out
//   - ErrForbidden: the remote service refused the caller
//   - ErrUnavailable: backend or remote service temporarily unavailable
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrExpired     = errors.New("expired")
	ErrForbidden   = errors.New("forbidden")
	ErrUnavailable = errors.New("unavailable")
)
