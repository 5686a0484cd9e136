package httpx

import (
	"context"

	domainauth "github.com/nestlink/nestlink-api/internal/domain/auth"
)

// sessionKey is the context key for the authenticated session. Unexported so
// only this package's middleware and helpers can place or read the value.
type sessionKey struct{}

// SetSessionInContext returns a child context carrying session. A nil session
// leaves ctx untouched.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetUserSessionFromContext returns the session placed in ctx by the gate or
// the auth middleware, and whether one is present.
func GetUserSessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(*domainauth.Session)
	if !ok || session == nil {
		return nil, false
	}
	return session, true
}

// GetSessionFromContext is the nil-on-absent variant of GetUserSessionFromContext.
func GetSessionFromContext(ctx context.Context) *domainauth.Session {
	s, _ := GetUserSessionFromContext(ctx)
	return s
}

// IsGuestUser reports whether the request is unauthenticated or carries a
// session whose identity no role group claimed.
func IsGuestUser(ctx context.Context) bool {
	s, ok := GetUserSessionFromContext(ctx)
	return !ok || s.IsGuest()
}
