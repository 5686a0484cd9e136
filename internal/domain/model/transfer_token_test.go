package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/nestlink/nestlink-api/internal/domain/auth"
)

func TestCreateTransferTokenRequest_Validate(t *testing.T) {
	valid := CreateTransferTokenRequest{
		Value:     "tok-abc",
		UserID:    "user-1",
		ExpiresAt: time.Now().Add(time.Minute),
	}

	assert.NoError(t, valid.Validate())

	cases := []struct {
		name   string
		mutate func(r *CreateTransferTokenRequest)
		want   string
	}{
		{"empty value", func(r *CreateTransferTokenRequest) { r.Value = "" }, "token value is required"},
		{"whitespace value", func(r *CreateTransferTokenRequest) { r.Value = "  " }, "token value is required"},
		{"empty user", func(r *CreateTransferTokenRequest) { r.UserID = "" }, "user id is required"},
		{"zero expiry", func(r *CreateTransferTokenRequest) { r.ExpiresAt = time.Time{} }, "expiry is required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)
			err := req.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestTransferToken_ExpiredAt(t *testing.T) {
	expiry := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	token := TransferToken{ExpiresAt: expiry}

	assert.False(t, token.ExpiredAt(expiry.Add(-time.Second)))
	assert.True(t, token.ExpiredAt(expiry), "a token is dead exactly at its expiry instant")
	assert.True(t, token.ExpiredAt(expiry.Add(time.Second)))
}

func TestTransferToken_Session(t *testing.T) {
	token := TransferToken{
		ID:        "id-1",
		Value:     "tok-abc",
		UserID:    "user-1",
		Role:      domainauth.RoleTenant,
		Email:     "ada@example.com",
		FirstName: "Ada",
		LastName:  "Tenant",
		ExpiresAt: time.Now(),
	}

	expiresAt := time.Now().Add(168 * time.Hour)
	session := token.Session("mobile-sess-1", expiresAt)

	assert.Equal(t, "mobile-sess-1", session.ID)
	assert.Equal(t, token.UserID, session.UserID)
	assert.Equal(t, token.Role, session.Role)
	assert.Equal(t, token.Email, session.Email)
	assert.Equal(t, token.FirstName, session.FirstName)
	assert.Equal(t, token.LastName, session.LastName)
	assert.True(t, session.ExpiresAt.Equal(expiresAt), "session expiry comes from the caller, not the token")
}
