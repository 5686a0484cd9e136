package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/nestlink/nestlink-api/internal/domain/auth"
	"github.com/nestlink/nestlink-api/internal/testutil"
)

func testSession(id string) domainauth.Session {
	return domainauth.Session{
		ID:        id,
		UserID:    "user-123",
		FirstName: "Ada",
		LastName:  "Landlord",
		Email:     "ada@example.com",
		Role:      domainauth.RoleLandlord,
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}
}

func TestSessionStore_SaveAndGet(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	session := testSession("test-session-1")
	require.NoError(t, store.Save(ctx, session))

	retrieved, err := store.Get(ctx, "test-session-1")
	require.NoError(t, err)
	assert.Equal(t, session.ID, retrieved.ID)
	assert.Equal(t, session.UserID, retrieved.UserID)
	assert.Equal(t, session.Email, retrieved.Email)
	assert.Equal(t, session.Role, retrieved.Role)
	assert.WithinDuration(t, session.ExpiresAt, retrieved.ExpiresAt, time.Second)
}

func TestSessionStore_GetNonExistent(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)

	_, err := store.Get(context.Background(), "non-existent")
	assert.Equal(t, ErrNotFound, err)
}

func TestSessionStore_Save_EmptyID(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)

	err := store.Save(context.Background(), domainauth.Session{ExpiresAt: time.Now().Add(time.Hour)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session ID cannot be empty")
}

func TestSessionStore_Save_AlreadyExpired(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)

	session := testSession("expired-session")
	session.ExpiresAt = time.Now().Add(-time.Minute)

	err := store.Save(context.Background(), session)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestSessionStore_Delete(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSession("delete-me")))
	require.NoError(t, store.Delete(ctx, "delete-me"))

	_, err := store.Get(ctx, "delete-me")
	assert.Equal(t, ErrNotFound, err)

	// Deleting a missing or empty ID is a noop
	assert.NoError(t, store.Delete(ctx, "delete-me"))
	assert.NoError(t, store.Delete(ctx, ""))
}

func TestSessionStore_PrefixIsolation(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	ctx := context.Background()

	webStore := NewSessionStoreWithPrefix(client, "session:")
	otherStore := NewSessionStoreWithPrefix(client, "other:")

	require.NoError(t, webStore.Save(ctx, testSession("shared-id")))

	_, err := otherStore.Get(ctx, "shared-id")
	assert.Equal(t, ErrNotFound, err, "stores with different prefixes do not see each other's keys")
}

func TestSessionStore_TTLFollowsExpiry(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	session := testSession("ttl-session")
	session.ExpiresAt = time.Now().Add(10 * time.Minute)
	require.NoError(t, store.Save(ctx, session))

	ttl := client.TTL(ctx, "session:ttl-session").Val()
	assert.Greater(t, ttl, 9*time.Minute)
	assert.LessOrEqual(t, ttl, 10*time.Minute)
}
