package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	domainauth "github.com/nestlink/nestlink-api/internal/domain/auth"
	apperrors "github.com/nestlink/nestlink-api/internal/errors"
	"github.com/nestlink/nestlink-api/internal/service"
)

// HandoffServiceInterface defines the interface for handoff service operations.
type HandoffServiceInterface interface {
	Issue(ctx context.Context, session *domainauth.Session, requestedUserID string) (*service.IssueResult, error)
	Exchange(ctx context.Context, tokenValue string) (*service.ExchangeResult, error)
}

// HandoffHandlers provides HTTP handlers for session handoff operations.
type HandoffHandlers struct {
	Svc    HandoffServiceInterface
	Logger *slog.Logger
}

func (h *HandoffHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// issueTokenRequest is the body of POST /api/handoff/tokens.
type issueTokenRequest struct {
	UserID string `json:"user_id"`
}

// Issue handles HTTP requests to mint a transfer token for the caller.
// POST /api/handoff/tokens.
func (h *HandoffHandlers) Issue(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())

	var req issueTokenRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "validation_failed",
			Err:     errors.New("user_id is required"),
		})
		return
	}

	result, err := h.Svc.Issue(r.Context(), session, req.UserID)
	if err != nil {
		switch {
		case apperrors.IsUnauthorized(err):
			WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "authentication_required", Err: err})
		case apperrors.IsForbidden(err):
			WriteError(w, ErrorParams{Code: http.StatusForbidden, ErrCode: "user_mismatch", Err: err})
		case apperrors.IsValidation(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "issue_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{
		"token":        result.Token.Value,
		"redirect_url": result.RedirectURL,
		"expires_at":   result.Token.ExpiresAt,
	})
}

// exchangeRequest is the body of POST /api/handoff/exchange.
type exchangeRequest struct {
	Token string `json:"token"`
}

// errAuthenticationFailed is the one error every failed exchange reports.
var errAuthenticationFailed = errors.New("authentication failed")

// Exchange handles HTTP requests to redeem a transfer token for a session.
// POST /api/handoff/exchange.
//
// The endpoint is unauthenticated and the token value is attacker-controlled.
// Every failure kind answers with the same 401 body so responses leak nothing
// about whether a guessed value exists, was used, or expired; the precise
// kind goes to the server log only.
func (h *HandoffHandlers) Exchange(w http.ResponseWriter, r *http.Request) {
	var req exchangeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.Svc.Exchange(r.Context(), req.Token)
	if err != nil {
		if apperrors.IsTokenFailure(err) {
			h.logger().WarnContext(r.Context(), "transfer token exchange rejected",
				"kind", string(apperrors.GetCode(err)),
				"error", err,
			)
			h.writeExchangeRejected(w)
			return
		}
		h.logger().ErrorContext(r.Context(), "transfer token exchange failed", "error", err)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "exchange_failed", Err: errAuthenticationFailed})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"session_id": result.Session.ID,
		"user": map[string]any{
			"id":         result.Session.UserID,
			"first_name": result.Session.FirstName,
			"last_name":  result.Session.LastName,
			"email":      result.Session.Email,
			"role":       result.Session.Role,
		},
		"expires_at": result.Session.ExpiresAt,
	})
}

// writeExchangeRejected writes the single generic rejection body used for
// every token failure kind.
func (h *HandoffHandlers) writeExchangeRejected(w http.ResponseWriter) {
	WriteError(w, ErrorParams{
		Code:    http.StatusUnauthorized,
		ErrCode: "authentication_failed",
		Err:     errAuthenticationFailed,
	})
}
