package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"time"

	domainauth "github.com/nestlink/nestlink-api/internal/domain/auth"
	"github.com/nestlink/nestlink-api/internal/domain/model"
)

// AuthProvider initiates and completes an authentication flow against an IdP.
// The callback redirect URI is part of provider construction, not per-flow
// input; the IdP requires it to match the registered value exactly.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// RoleMapper maps provider groups to application roles.
type RoleMapper interface {
	Map(groups []string) domainauth.Role
}

// TransferTokenRepository persists one-time session handoff tokens.
//
// Consume must be a single atomic check-and-set on the consumed flag: under
// concurrent consumption of the same value, exactly one caller receives the
// token and every other caller receives ErrTransferTokenConsumed. A
// read-then-write implementation is incorrect.
type TransferTokenRepository interface {
	Create(ctx context.Context, req *model.CreateTransferTokenRequest) (*model.TransferToken, error)

	// Consume atomically marks the token with the given value consumed and
	// returns it. Unknown values yield data.ErrTransferTokenNotFound;
	// already-consumed values yield data.ErrTransferTokenConsumed. Expiry is
	// not checked here; callers compare ExpiresAt against their own clock.
	Consume(ctx context.Context, value string) (*model.TransferToken, error)

	// DeleteStale removes tokens that expired or were consumed before the
	// cutoff, up to batchSize rows, returning the number deleted.
	DeleteStale(ctx context.Context, cutoff time.Time, batchSize int) (int64, error)
}
