// internal/auth/auth.go
//
// Package auth carries the signed-in user through a request.  Middleware
// decodes the session cookie and stores the user ID in the context;
// anonymous requests pass through untouched and acl.RequirePermission
// decides what they may reach.
package auth

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// SessionReader is satisfied by *session.Codec.
type SessionReader interface {
	Read(r *http.Request) (int64, bool)
}

type ctxKey struct{}

// WithUser returns ctx carrying userID.  Non-positive IDs are ignored.
func WithUser(ctx context.Context, userID int64) context.Context {
	if userID <= 0 {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserID returns the signed-in user, or (0, false) for anonymous requests.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ctxKey{}).(int64)
	return id, ok
}

// Middleware attaches the session user, if any.
func Middleware(s SessionReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if uid, ok := s.Read(r); ok {
				if ce := zap.L().Check(zap.DebugLevel, "session user"); ce != nil {
					ce.Write(zap.Int64("user_id", uid))
				}
				r = r.WithContext(WithUser(r.Context(), uid))
			}
			next.ServeHTTP(w, r)
		})
	}
}
