package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/nestlink/nestlink-api/config"
	"github.com/nestlink/nestlink-api/internal/data"
	domainauth "github.com/nestlink/nestlink-api/internal/domain/auth"
	"github.com/nestlink/nestlink-api/internal/domain/model"
	apperrors "github.com/nestlink/nestlink-api/internal/errors"
	"github.com/nestlink/nestlink-api/internal/ports"
)

// tokenValueBytes is the entropy of a transfer token value. 32 bytes = 256
// bits, comfortably above the 128-bit floor for unguessable credentials.
const tokenValueBytes = 32

// HandoffServiceOptions groups dependencies for HandoffService.
type HandoffServiceOptions struct {
	Tokens   ports.TransferTokenRepository // Required: token persistence
	Sessions ports.SessionStore            // Required: session persistence
	Config   config.HandoffConfig          // Required: TTLs and deep link shape
	Logger   *slog.Logger                  // Optional: structured logger
	Now      func() time.Time              // Optional: clock override for tests
}

// HandoffService implements the cross-application session handoff: issuing
// short-lived single-use transfer tokens bound to an authenticated web
// session, and exchanging them for an equivalent mobile session.
type HandoffService struct {
	tokens   ports.TransferTokenRepository
	sessions ports.SessionStore
	config   config.HandoffConfig
	logger   *slog.Logger
	now      func() time.Time
}

// NewHandoffService constructs a new HandoffService.
func NewHandoffService(opts HandoffServiceOptions) (*HandoffService, error) {
	if opts.Tokens == nil {
		return nil, errors.New("TransferTokenRepository is required")
	}
	if opts.Sessions == nil {
		return nil, errors.New("SessionStore is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &HandoffService{
		tokens:   opts.Tokens,
		sessions: opts.Sessions,
		config:   opts.Config,
		logger:   logger.With("component", "handoff_service"),
		now:      now,
	}, nil
}

// IssueResult contains the issued token and the deep link the web client
// hands to the mobile app.
type IssueResult struct {
	Token       *model.TransferToken
	RedirectURL string
}

// Issue mints a transfer token for the caller's own identity.
//
// The session must come from the request's own credentials, never from a
// client-supplied field. requestedUserID exists so the endpoint contract is
// explicit about who the token is for; it must equal the session's user id.
func (s *HandoffService) Issue(
	ctx context.Context,
	session *domainauth.Session,
	requestedUserID string,
) (*IssueResult, error) {
	if session == nil {
		return nil, apperrors.Unauthorized("authentication required")
	}
	if requestedUserID == "" {
		return nil, apperrors.ValidationField("user_id", "user id is required")
	}
	if requestedUserID != session.UserID {
		// Strict authorization check, not a convenience lookup: tokens are
		// only ever minted for the caller's own identity.
		return nil, apperrors.Forbidden("cannot issue a transfer token for another user")
	}

	value, err := generateTokenValue()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "generate token value")
	}

	token, err := s.tokens.Create(ctx, &model.CreateTransferTokenRequest{
		Value:     value,
		UserID:    session.UserID,
		Role:      session.Role,
		Email:     session.Email,
		FirstName: session.FirstName,
		LastName:  session.LastName,
		ExpiresAt: s.now().Add(s.config.TokenTTL),
	})
	if err != nil {
		return nil, fmt.Errorf("create transfer token: %w", err)
	}

	s.logger.InfoContext(ctx, "transfer token issued",
		"user_id", session.UserID,
		"token_id", token.ID,
		"expires_at", token.ExpiresAt,
	)

	return &IssueResult{
		Token:       token,
		RedirectURL: s.deepLink(token.Value),
	}, nil
}

// ExchangeResult contains the session minted for the mobile client.
type ExchangeResult struct {
	Session domainauth.Session
}

// Exchange validates a presented token value and mints the mobile session.
//
// The consume step is a single atomic check-and-set in the repository, so a
// concurrent second exchange of the same value observes consumed=true and
// fails; at most one exchange per token ever succeeds. All failure kinds
// return an AppError whose code is for the server log only; the HTTP layer
// answers every one of them with the same generic 401.
func (s *HandoffService) Exchange(ctx context.Context, tokenValue string) (*ExchangeResult, error) {
	if tokenValue == "" {
		return nil, apperrors.InvalidToken("token value is required")
	}

	token, err := s.tokens.Consume(ctx, tokenValue)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrTransferTokenNotFound), errors.Is(err, data.ErrTokenValueRequired):
			return nil, apperrors.Wrap(err, apperrors.ErrCodeInvalidToken, "unknown transfer token")
		case errors.Is(err, data.ErrTransferTokenConsumed):
			return nil, apperrors.Wrap(err, apperrors.ErrCodeTokenUsed, "transfer token already exchanged")
		default:
			return nil, fmt.Errorf("consume transfer token: %w", err)
		}
	}

	now := s.now()
	if token.ExpiredAt(now) {
		// The token is consumed at this point, which is fine: it was dead
		// either way, and a replay now reports it as used.
		return nil, apperrors.TokenExpired("transfer token expired")
	}

	session := token.Session(generateSessionID(), now.Add(s.config.SessionTTL))
	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save handoff session: %w", saveErr)
	}

	s.logger.InfoContext(ctx, "transfer token exchanged",
		"user_id", token.UserID,
		"token_id", token.ID,
		"session_expires_at", session.ExpiresAt,
	)

	return &ExchangeResult{Session: session}, nil
}

// deepLink builds the custom-scheme URL the mobile app intercepts, e.g.
// nestlink://auth?token=<value>.
func (s *HandoffService) deepLink(tokenValue string) string {
	u := url.URL{
		Scheme: s.config.DeepLinkScheme,
		Host:   s.config.DeepLinkHost,
	}
	q := url.Values{}
	q.Set("token", tokenValue)
	u.RawQuery = q.Encode()
	return u.String()
}

// generateTokenValue creates a cryptographically random URL-safe token value.
func generateTokenValue() (string, error) {
	b := make([]byte, tokenValueBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
