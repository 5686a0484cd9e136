package model

import (
	"errors"
	"strings"
	"time"

	domainauth "github.com/nestlink/nestlink-api/internal/domain/auth"
)

// TransferToken is a one-time grant that hands an authenticated web session
// off to the mobile app. The value is an opaque high-entropy string delivered
// via a custom-scheme deep link; the row carries a snapshot of the issuing
// session's principal so an equivalent session can be minted at exchange time
// without contacting the IdP.
type TransferToken struct {
	ID         string          `json:"id"          db:"id"`
	Value      string          `json:"value"       db:"value"`
	UserID     string          `json:"user_id"     db:"user_id"`
	Role       domainauth.Role `json:"role"        db:"role"`
	Email      string          `json:"email"       db:"email"`
	FirstName  string          `json:"first_name"  db:"first_name"`
	LastName   string          `json:"last_name"   db:"last_name"`
	IssuedAt   time.Time       `json:"issued_at"   db:"issued_at"`
	ExpiresAt  time.Time       `json:"expires_at"  db:"expires_at"`
	Consumed   bool            `json:"consumed"    db:"consumed"`
	ConsumedAt *time.Time      `json:"consumed_at" db:"consumed_at"`
}

// CreateTransferTokenRequest carries the fields needed to persist a new token.
type CreateTransferTokenRequest struct {
	Value     string
	UserID    string
	Role      domainauth.Role
	Email     string
	FirstName string
	LastName  string
	ExpiresAt time.Time
}

// Validate checks required fields on a create request.
func (r *CreateTransferTokenRequest) Validate() error {
	if strings.TrimSpace(r.Value) == "" {
		return errors.New("token value is required")
	}
	if strings.TrimSpace(r.UserID) == "" {
		return errors.New("user id is required")
	}
	if r.ExpiresAt.IsZero() {
		return errors.New("expiry is required")
	}
	return nil
}

// ExpiredAt reports whether the token is past its expiry at the given instant.
// Expiry is enforced by live timestamp comparison, never by background sweeps.
func (t *TransferToken) ExpiredAt(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// Session builds the session to mint on exchange: same principal as the
// issuing session, fresh ID and expiry supplied by the caller.
func (t *TransferToken) Session(id string, expiresAt time.Time) domainauth.Session {
	return domainauth.Session{
		ID:        id,
		UserID:    t.UserID,
		FirstName: t.FirstName,
		LastName:  t.LastName,
		Email:     t.Email,
		Role:      t.Role,
		ExpiresAt: expiresAt,
	}
}
