package httpx

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/nestlink/nestlink-api/internal/domain/auth"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_NoSession(t *testing.T) {
	h := RequireAuth(newFakeAuthService())(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/handoff/tokens", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "authentication_required")
}

func TestRequireAuth_ValidSession(t *testing.T) {
	session := tenantSession()
	authSvc := newFakeAuthService(session)

	var got *domainauth.Session
	h := RequireAuth(authSvc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetSessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := withSessionCookie(httptest.NewRequest(http.MethodGet, "/api/handoff/tokens", nil), session.ID)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, session.UserID, got.UserID)
}

func TestRequireRole_Mismatch(t *testing.T) {
	session := tenantSession()
	h := RequireRole(newFakeAuthService(session), domainauth.RoleLandlord)(okHandler())

	req := withSessionCookie(httptest.NewRequest(http.MethodGet, "/landlord/reports", nil), session.ID)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient_permissions")
}

func TestRequireRole_SuperAdminSatisfiesAnyRole(t *testing.T) {
	session := &domainauth.Session{
		ID:        "sess-admin",
		UserID:    "user-admin",
		Role:      domainauth.RoleSuperAdmin,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	h := RequireRole(newFakeAuthService(session), domainauth.RoleLandlord)(okHandler())

	req := withSessionCookie(httptest.NewRequest(http.MethodGet, "/landlord/reports", nil), session.ID)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHasRequiredRole(t *testing.T) {
	cases := []struct {
		user     domainauth.Role
		required domainauth.Role
		want     bool
	}{
		{domainauth.RoleTenant, domainauth.RoleTenant, true},
		{domainauth.RoleTenant, domainauth.RoleLandlord, false},
		{domainauth.RoleLandlord, domainauth.RoleTenant, false},
		{domainauth.RoleSuperAdmin, domainauth.RoleTenant, true},
		{domainauth.RoleSuperAdmin, domainauth.RoleSuperAdmin, true},
		{domainauth.RoleGuest, domainauth.RoleGuest, false},
		{domainauth.Role("unknown"), domainauth.Role("unknown"), false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, hasRequiredRole(tc.user, tc.required),
			"user=%s required=%s", tc.user, tc.required)
	}
}

func TestOptionalAuth_AnonymousPassesWithoutSession(t *testing.T) {
	var got *domainauth.Session
	h := OptionalAuth(newFakeAuthService())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetSessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/status", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, got)
}

func TestOptionalAuth_ValidSessionInContext(t *testing.T) {
	session := tenantSession()

	var got *domainauth.Session
	h := OptionalAuth(newFakeAuthService(session))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetSessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := withSessionCookie(httptest.NewRequest(http.MethodGet, "/auth/status", nil), session.ID)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, session.UserID, got.UserID)
}

func TestRecover_PanicReturns500(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := Recover(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLogging_CapturesStatus(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}
