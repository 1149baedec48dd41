package middleware

import (
	"log/slog"
	"net/http"

	"contacts/pkg/requestcontext"
)

// SessionValidator checks a session cookie value.
type SessionValidator interface {
	ValidateToken(tokenString string) (*SessionClaims, error)
}

// SessionClaims is what the rest of the request needs from a valid session.
type SessionClaims struct {
	SessionID string
	Username  string
}

// Session reads the signed session cookie and puts the session id and the
// signed-in username on the request context. Requests without a valid
// cookie continue without a session; handlers that need one refuse them.
func Session(validator SessionValidator, cookieName string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			claims, err := validator.ValidateToken(cookie.Value)
			if err != nil {
				logger.WarnContext(ctx, "ignoring invalid session cookie",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				next.ServeHTTP(w, r)
				return
			}

			ctx = requestcontext.WithSessionID(ctx, claims.SessionID)
			ctx = requestcontext.WithUsername(ctx, claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
