package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/nestlink/nestlink-api/internal/domain/auth"
	"github.com/nestlink/nestlink-api/internal/domain/model"
	"github.com/nestlink/nestlink-api/internal/testutil"
)

func setupTokenRepo(t *testing.T) (*TransferTokenRepo, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	return NewTransferTokenRepo(db), db
}

func tokenRequest(value string) *model.CreateTransferTokenRequest {
	return &model.CreateTransferTokenRequest{
		Value:     value,
		UserID:    "user-42",
		Role:      domainauth.RoleLandlord,
		Email:     "ada@example.com",
		FirstName: "Ada",
		LastName:  "Landlord",
		ExpiresAt: time.Now().Add(5 * time.Minute),
	}
}

func TestTransferTokenRepo_CreateAndConsume(t *testing.T) {
	repo, _ := setupTokenRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, tokenRequest("tok-create-1"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "tok-create-1", created.Value)
	assert.Equal(t, "user-42", created.UserID)
	assert.Equal(t, domainauth.RoleLandlord, created.Role)
	assert.False(t, created.Consumed)
	assert.Nil(t, created.ConsumedAt)
	assert.False(t, created.IssuedAt.IsZero())

	consumed, err := repo.Consume(ctx, "tok-create-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, consumed.ID)
	assert.True(t, consumed.Consumed)
	require.NotNil(t, consumed.ConsumedAt)
}

func TestTransferTokenRepo_Create_Validation(t *testing.T) {
	repo, _ := setupTokenRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, nil)
	require.Error(t, err)

	_, err = repo.Create(ctx, &model.CreateTransferTokenRequest{UserID: "user-42"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token value is required")
}

func TestTransferTokenRepo_Create_DuplicateValue(t *testing.T) {
	repo, _ := setupTokenRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, tokenRequest("tok-dup-1"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, tokenRequest("tok-dup-1"))
	require.Error(t, err, "token values are unique")
}

func TestTransferTokenRepo_Consume_Unknown(t *testing.T) {
	repo, _ := setupTokenRepo(t)

	_, err := repo.Consume(context.Background(), "tok-never-issued")
	assert.ErrorIs(t, err, ErrTransferTokenNotFound)
}

func TestTransferTokenRepo_Consume_EmptyValue(t *testing.T) {
	repo, _ := setupTokenRepo(t)

	_, err := repo.Consume(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrTokenValueRequired)
}

func TestTransferTokenRepo_Consume_Twice(t *testing.T) {
	repo, _ := setupTokenRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, tokenRequest("tok-twice-1"))
	require.NoError(t, err)

	_, err = repo.Consume(ctx, "tok-twice-1")
	require.NoError(t, err)

	_, err = repo.Consume(ctx, "tok-twice-1")
	assert.ErrorIs(t, err, ErrTransferTokenConsumed)
}

func TestTransferTokenRepo_Consume_ExpiredTokenStillConsumes(t *testing.T) {
	repo, _ := setupTokenRepo(t)
	ctx := context.Background()

	req := tokenRequest("tok-expired-1")
	req.ExpiresAt = time.Now().Add(-time.Minute)
	_, err := repo.Create(ctx, req)
	require.NoError(t, err)

	// Expiry is the caller's concern; the repo hands the row over
	consumed, err := repo.Consume(ctx, "tok-expired-1")
	require.NoError(t, err)
	assert.True(t, consumed.ExpiredAt(time.Now()))
}

func TestTransferTokenRepo_Consume_Concurrent(t *testing.T) {
	repo, _ := setupTokenRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, tokenRequest("tok-race-1"))
	require.NoError(t, err)

	const attempts = 8
	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		successes    int
		consumedErrs int
	)

	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, consumeErr := repo.Consume(ctx, "tok-race-1")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case consumeErr == nil:
				successes++
			case errors.Is(consumeErr, ErrTransferTokenConsumed):
				consumedErrs++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes, "the UPDATE ... WHERE NOT consumed guard admits exactly one winner")
	assert.Equal(t, attempts-1, consumedErrs)
}

func TestTransferTokenRepo_DeleteStale(t *testing.T) {
	fixed := testFixedTime()
	tp := NewFixedTimeProvider(fixed)

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	repo := NewTransferTokenRepoWithTimeProvider(db, tp)
	ctx := context.Background()

	// An old expired token, an old consumed token, and a live one
	oldExpired := tokenRequest("tok-stale-expired")
	oldExpired.ExpiresAt = fixed.Add(-48 * time.Hour)
	_, err := repo.Create(ctx, oldExpired)
	require.NoError(t, err)

	oldConsumed := tokenRequest("tok-stale-consumed")
	oldConsumed.ExpiresAt = fixed.Add(time.Hour)
	_, err = repo.Create(ctx, oldConsumed)
	require.NoError(t, err)
	tp.SetTime(fixed.Add(-48 * time.Hour))
	_, err = repo.Consume(ctx, "tok-stale-consumed")
	require.NoError(t, err)
	tp.SetTime(fixed)

	live := tokenRequest("tok-live")
	live.ExpiresAt = fixed.Add(time.Hour)
	_, err = repo.Create(ctx, live)
	require.NoError(t, err)

	deleted, err := repo.DeleteStale(ctx, fixed.Add(-24*time.Hour), 100)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	// The live token survives
	_, err = repo.Consume(ctx, "tok-live")
	assert.NoError(t, err)
}

func TestTransferTokenRepo_DeleteStale_Batching(t *testing.T) {
	repo, _ := setupTokenRepo(t)
	ctx := context.Background()

	for i := range 5 {
		req := tokenRequest(fmt.Sprintf("tok-batch-%d", i))
		req.ExpiresAt = time.Now().Add(-48 * time.Hour)
		_, err := repo.Create(ctx, req)
		require.NoError(t, err)
	}

	cutoff := time.Now().Add(-24 * time.Hour)

	deleted, err := repo.DeleteStale(ctx, cutoff, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted, "deletion honors the batch size")

	var total int64
	for {
		n, err := repo.DeleteStale(ctx, cutoff, 2)
		require.NoError(t, err)
		total += n
		if n == 0 {
			break
		}
	}
	assert.Equal(t, int64(3), total)
}

func testFixedTime() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}
