package testutil

import (
	"context"
	"net/http"
	"time"

	"contacts/pkg/requestcontext"
)

// WithSession puts a session, a signed-in user and a fixed request time on
// the request context. This is the state the session and request-time
// middleware leave behind for handlers.
func WithSession(req *http.Request, sessionID, username string, now time.Time) *http.Request {
	ctx := requestcontext.WithSessionID(req.Context(), sessionID)
	if username != "" {
		ctx = requestcontext.WithUsername(ctx, username)
	}
	if !now.IsZero() {
		ctx = requestcontext.WithTime(ctx, now)
	}
	return req.WithContext(ctx)
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
