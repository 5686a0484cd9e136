package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/nestlink/nestlink-api/internal/domain/auth"
	"github.com/nestlink/nestlink-api/internal/domain/model"
	apperrors "github.com/nestlink/nestlink-api/internal/errors"
	"github.com/nestlink/nestlink-api/internal/service"
)

// fakeHandoffService implements HandoffServiceInterface with func fields.
type fakeHandoffService struct {
	IssueFunc    func(ctx context.Context, session *domainauth.Session, userID string) (*service.IssueResult, error)
	ExchangeFunc func(ctx context.Context, tokenValue string) (*service.ExchangeResult, error)
}

func (f *fakeHandoffService) Issue(ctx context.Context, session *domainauth.Session, userID string) (*service.IssueResult, error) {
	return f.IssueFunc(ctx, session, userID)
}

func (f *fakeHandoffService) Exchange(ctx context.Context, tokenValue string) (*service.ExchangeResult, error) {
	return f.ExchangeFunc(ctx, tokenValue)
}

func issueRequest(t *testing.T, body string, session *domainauth.Session) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/handoff/tokens", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if session != nil {
		req = req.WithContext(SetSessionInContext(req.Context(), session))
	}
	return req
}

func TestHandoffHandlers_Issue_Success(t *testing.T) {
	expiresAt := time.Now().Add(5 * time.Minute).Truncate(time.Second)
	svc := &fakeHandoffService{
		IssueFunc: func(_ context.Context, session *domainauth.Session, userID string) (*service.IssueResult, error) {
			require.NotNil(t, session)
			assert.Equal(t, "user-1", userID)
			return &service.IssueResult{
				Token: &model.TransferToken{
					Value:     "tok-abc",
					UserID:    userID,
					ExpiresAt: expiresAt,
				},
				RedirectURL: "nestlink://auth?token=tok-abc",
			}, nil
		},
	}
	h := &HandoffHandlers{Svc: svc}

	session := &domainauth.Session{ID: "sess-1", UserID: "user-1", Role: domainauth.RoleTenant}
	rec := httptest.NewRecorder()
	h.Issue(rec, issueRequest(t, `{"user_id":"user-1"}`, session))

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Token       string    `json:"token"`
		RedirectURL string    `json:"redirect_url"`
		ExpiresAt   time.Time `json:"expires_at"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "tok-abc", resp.Token)
	assert.Equal(t, "nestlink://auth?token=tok-abc", resp.RedirectURL)
	assert.True(t, resp.ExpiresAt.Equal(expiresAt))
}

func TestHandoffHandlers_Issue_MissingUserID(t *testing.T) {
	h := &HandoffHandlers{Svc: &fakeHandoffService{}}

	rec := httptest.NewRecorder()
	h.Issue(rec, issueRequest(t, `{}`, nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_failed")
}

func TestHandoffHandlers_Issue_InvalidJSON(t *testing.T) {
	h := &HandoffHandlers{Svc: &fakeHandoffService{}}

	rec := httptest.NewRecorder()
	h.Issue(rec, issueRequest(t, `{not json`, nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_json")
}

func TestHandoffHandlers_Issue_ErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"no session", apperrors.Unauthorized("authentication required"), http.StatusUnauthorized, "authentication_required"},
		{"other user", apperrors.Forbidden("cannot issue a transfer token for another user"), http.StatusForbidden, "user_mismatch"},
		{"bad input", apperrors.ValidationField("user_id", "user id is required"), http.StatusBadRequest, "validation_failed"},
		{"internal", errors.New("db down"), http.StatusInternalServerError, "issue_failed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeHandoffService{
				IssueFunc: func(context.Context, *domainauth.Session, string) (*service.IssueResult, error) {
					return nil, tc.err
				},
			}
			h := &HandoffHandlers{Svc: svc}

			rec := httptest.NewRecorder()
			h.Issue(rec, issueRequest(t, `{"user_id":"user-1"}`, nil))

			assert.Equal(t, tc.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.wantBody)
		})
	}
}

func exchangeRequestWith(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/handoff/exchange", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHandoffHandlers_Exchange_Success(t *testing.T) {
	expiresAt := time.Now().Add(168 * time.Hour).Truncate(time.Second)
	svc := &fakeHandoffService{
		ExchangeFunc: func(_ context.Context, tokenValue string) (*service.ExchangeResult, error) {
			assert.Equal(t, "tok-abc", tokenValue)
			return &service.ExchangeResult{
				Session: domainauth.Session{
					ID:        "mobile-sess-1",
					UserID:    "user-1",
					FirstName: "Ada",
					LastName:  "Tenant",
					Email:     "ada@example.com",
					Role:      domainauth.RoleTenant,
					ExpiresAt: expiresAt,
				},
			}, nil
		},
	}
	h := &HandoffHandlers{Svc: svc}

	rec := httptest.NewRecorder()
	h.Exchange(rec, exchangeRequestWith(`{"token":"tok-abc"}`))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		SessionID string `json:"session_id"`
		User      struct {
			ID        string `json:"id"`
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
			Email     string `json:"email"`
			Role      string `json:"role"`
		} `json:"user"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "mobile-sess-1", resp.SessionID)
	assert.Equal(t, "user-1", resp.User.ID)
	assert.Equal(t, "tenant", resp.User.Role)
	assert.True(t, resp.ExpiresAt.Equal(expiresAt))
}

func TestHandoffHandlers_Exchange_AllTokenFailuresAnswerIdentically(t *testing.T) {
	failures := []error{
		apperrors.InvalidToken("unknown transfer token"),
		apperrors.TokenUsed("transfer token already exchanged"),
		apperrors.TokenExpired("transfer token expired"),
		apperrors.Wrap(errors.New("row not found"), apperrors.ErrCodeInvalidToken, "unknown transfer token"),
	}

	var bodies []string
	for _, failure := range failures {
		svc := &fakeHandoffService{
			ExchangeFunc: func(context.Context, string) (*service.ExchangeResult, error) {
				return nil, failure
			},
		}
		h := &HandoffHandlers{Svc: svc}

		rec := httptest.NewRecorder()
		h.Exchange(rec, exchangeRequestWith(`{"token":"guess"}`))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		bodies = append(bodies, rec.Body.String())
	}

	// Byte-identical responses so the endpoint is not a token-guessing oracle
	for i := 1; i < len(bodies); i++ {
		assert.Equal(t, bodies[0], bodies[i])
	}
	assert.Contains(t, bodies[0], "authentication_failed")
	for _, body := range bodies {
		assert.NotContains(t, body, "expired")
		assert.NotContains(t, body, "used")
		assert.NotContains(t, body, "unknown")
	}
}

func TestHandoffHandlers_Exchange_InternalErrorHidesDetail(t *testing.T) {
	svc := &fakeHandoffService{
		ExchangeFunc: func(context.Context, string) (*service.ExchangeResult, error) {
			return nil, errors.New("redis: connection refused")
		},
	}
	h := &HandoffHandlers{Svc: svc}

	rec := httptest.NewRecorder()
	h.Exchange(rec, exchangeRequestWith(`{"token":"tok-abc"}`))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "exchange_failed")
	assert.NotContains(t, rec.Body.String(), "redis")
}

func TestHandoffHandlers_Exchange_InvalidJSON(t *testing.T) {
	h := &HandoffHandlers{Svc: &fakeHandoffService{}}

	rec := httptest.NewRecorder()
	h.Exchange(rec, exchangeRequestWith(`not json`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_json")
}
