package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nestlink/nestlink-api/internal/data"
	domainauth "github.com/nestlink/nestlink-api/internal/domain/auth"
	"github.com/nestlink/nestlink-api/internal/domain/model"
	"github.com/nestlink/nestlink-api/internal/ports"
)

func TestMockAuthProvider_Begin_Defaults(t *testing.T) {
	provider := NewMockAuthProvider()
	ctx := context.Background()

	authURL, state, nonce, err := provider.Begin(ctx)

	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/auth", authURL)
	assert.Equal(t, "state-1", state)
	assert.Equal(t, "nonce-1", nonce)

	// Second call should increment counters
	_, state2, nonce2, err2 := provider.Begin(ctx)
	require.NoError(t, err2)
	assert.Equal(t, "state-2", state2)
	assert.Equal(t, "nonce-2", nonce2)
}

func TestMockAuthProvider_Begin_CustomFunc(t *testing.T) {
	provider := &MockAuthProvider{
		BeginFunc: func(_ context.Context) (string, string, string, error) {
			return "custom-url", "custom-state", "custom-nonce", nil
		},
	}

	authURL, state, nonce, err := provider.Begin(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "custom-url", authURL)
	assert.Equal(t, "custom-state", state)
	assert.Equal(t, "custom-nonce", nonce)
}

func TestMockAuthProvider_Exchange_Defaults(t *testing.T) {
	provider := NewMockAuthProvider()

	identity, err := provider.Exchange(context.Background(), ports.ExchangeInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "mock-user-1", identity.UserID)
	assert.Equal(t, "mock.user@example.com", identity.Email)
	assert.Equal(t, []string{"landlords"}, identity.Groups)
	assert.True(t, identity.ExpiresAt.After(time.Now()))
}

func TestMemorySessionStore_RoundTrip(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	session := domainauth.Session{
		ID:        "sess-1",
		UserID:    "user-1",
		Role:      domainauth.RoleTenant,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, store.Save(ctx, session))
	assert.Equal(t, 1, store.Len())

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, session, got)

	require.NoError(t, store.Delete(ctx, "sess-1"))
	_, err = store.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemorySessionStore_SaveRequiresID(t *testing.T) {
	store := NewMemorySessionStore()
	err := store.Save(context.Background(), domainauth.Session{})
	require.Error(t, err)
}

func TestStaticRoleMapper(t *testing.T) {
	m := StaticRoleMapper{LandlordGroup: "landlords", TenantGroup: "tenants"}

	assert.Equal(t, domainauth.RoleLandlord, m.Map([]string{"landlords"}))
	assert.Equal(t, domainauth.RoleTenant, m.Map([]string{"tenants"}))
	assert.Equal(t, domainauth.RoleLandlord, m.Map([]string{"tenants", "landlords"}))
	assert.Equal(t, domainauth.RoleGuest, m.Map([]string{"other"}))
	assert.Equal(t, domainauth.RoleGuest, m.Map(nil))
}

func memoryTokenRequest(value string) *model.CreateTransferTokenRequest {
	return &model.CreateTransferTokenRequest{
		Value:     value,
		UserID:    "user-1",
		Role:      domainauth.RoleTenant,
		ExpiresAt: time.Now().Add(time.Minute),
	}
}

func TestMemoryTransferTokenRepo_ConsumeContract(t *testing.T) {
	repo := NewMemoryTransferTokenRepo()
	ctx := context.Background()

	_, err := repo.Consume(ctx, "")
	assert.ErrorIs(t, err, data.ErrTokenValueRequired)

	_, err = repo.Consume(ctx, "unknown")
	assert.ErrorIs(t, err, data.ErrTransferTokenNotFound)

	created, err := repo.Create(ctx, memoryTokenRequest("tok-1"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	consumed, err := repo.Consume(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, consumed.Consumed)
	require.NotNil(t, consumed.ConsumedAt)

	_, err = repo.Consume(ctx, "tok-1")
	assert.ErrorIs(t, err, data.ErrTransferTokenConsumed)
}

func TestMemoryTransferTokenRepo_ConsumeIsExactlyOnce(t *testing.T) {
	repo := NewMemoryTransferTokenRepo()
	ctx := context.Background()

	_, err := repo.Create(ctx, memoryTokenRequest("tok-race"))
	require.NoError(t, err)

	const attempts = 32
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, consumeErr := repo.Consume(ctx, "tok-race"); consumeErr == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
}

func TestMemoryTransferTokenRepo_DeleteStale(t *testing.T) {
	repo := NewMemoryTransferTokenRepo()
	ctx := context.Background()
	now := time.Now()

	expired := memoryTokenRequest("tok-expired")
	expired.ExpiresAt = now.Add(-48 * time.Hour)
	_, err := repo.Create(ctx, expired)
	require.NoError(t, err)

	live := memoryTokenRequest("tok-live")
	live.ExpiresAt = now.Add(time.Hour)
	_, err = repo.Create(ctx, live)
	require.NoError(t, err)

	deleted, err := repo.DeleteStale(ctx, now.Add(-24*time.Hour), 100)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Equal(t, 1, repo.Len())

	_, ok := repo.Get("tok-live")
	assert.True(t, ok)
}
