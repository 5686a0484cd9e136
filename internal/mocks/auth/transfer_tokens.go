package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nestlink/nestlink-api/internal/data"
	"github.com/nestlink/nestlink-api/internal/domain/model"
	"github.com/nestlink/nestlink-api/internal/ports"
)

var _ ports.TransferTokenRepository = (*MemoryTransferTokenRepo)(nil)

// MemoryTransferTokenRepo is an in-memory transfer token repository for unit
// tests. Consume holds a single lock across the check and the flag flip, so
// it honors the same exactly-once contract as the SQL implementation and can
// back concurrency tests.
type MemoryTransferTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*model.TransferToken
	now    func() time.Time
}

// NewMemoryTransferTokenRepo creates an empty in-memory token repository.
func NewMemoryTransferTokenRepo() *MemoryTransferTokenRepo {
	return &MemoryTransferTokenRepo{
		tokens: make(map[string]*model.TransferToken),
		now:    time.Now,
	}
}

// SetClock overrides the repository clock for expiry-sensitive tests.
func (r *MemoryTransferTokenRepo) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

func (r *MemoryTransferTokenRepo) Create(_ context.Context, req *model.CreateTransferTokenRequest) (*model.TransferToken, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	token := &model.TransferToken{
		ID:        uuid.New().String(),
		Value:     req.Value,
		UserID:    req.UserID,
		Role:      req.Role,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IssuedAt:  r.now(),
		ExpiresAt: req.ExpiresAt,
	}
	r.tokens[token.Value] = token

	copied := *token
	return &copied, nil
}

func (r *MemoryTransferTokenRepo) Consume(_ context.Context, value string) (*model.TransferToken, error) {
	if value == "" {
		return nil, data.ErrTokenValueRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	token, ok := r.tokens[value]
	if !ok {
		return nil, data.ErrTransferTokenNotFound
	}
	if token.Consumed {
		return nil, data.ErrTransferTokenConsumed
	}

	consumedAt := r.now()
	token.Consumed = true
	token.ConsumedAt = &consumedAt

	copied := *token
	return &copied, nil
}

func (r *MemoryTransferTokenRepo) DeleteStale(_ context.Context, cutoff time.Time, batchSize int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for value, token := range r.tokens {
		if deleted >= int64(batchSize) {
			break
		}
		stale := token.ExpiresAt.Before(cutoff) ||
			(token.ConsumedAt != nil && token.ConsumedAt.Before(cutoff))
		if stale {
			delete(r.tokens, value)
			deleted++
		}
	}
	return deleted, nil
}

// Get returns the stored token by value, for test assertions.
func (r *MemoryTransferTokenRepo) Get(value string) (model.TransferToken, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[value]
	if !ok {
		return model.TransferToken{}, false
	}
	return *token, true
}

// Len reports the number of stored tokens.
func (r *MemoryTransferTokenRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}
