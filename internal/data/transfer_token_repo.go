package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/nestlink/nestlink-api/internal/data/pgxutil"
	"github.com/nestlink/nestlink-api/internal/domain/model"
)

// TransferTokenRepo provides database operations for session handoff tokens.
type TransferTokenRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewTransferTokenRepo creates a new TransferTokenRepo with real time provider.
func NewTransferTokenRepo(db *sql.DB) *TransferTokenRepo {
	return &TransferTokenRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewTransferTokenRepoWithTimeProvider creates a new TransferTokenRepo with a
// custom time provider (useful for tests).
func NewTransferTokenRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *TransferTokenRepo {
	return &TransferTokenRepo{DB: db, timeProvider: tp}
}

const transferTokenColumns = `id, value, user_id, role, email, first_name, last_name, issued_at, expires_at, consumed, consumed_at`

// Create inserts a new transfer token with consumed=false.
func (r *TransferTokenRepo) Create(
	ctx context.Context,
	req *model.CreateTransferTokenRequest,
) (*model.TransferToken, error) {
	if req == nil {
		return nil, errors.New("create transfer token request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	issuedAt := r.timeProvider.Now().UTC()
	var out model.TransferToken
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO transfer_tokens (
				value, user_id, role, email, first_name, last_name, issued_at, expires_at, consumed
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, FALSE
			) RETURNING `+transferTokenColumns,
			strings.TrimSpace(req.Value),
			req.UserID,
			req.Role,
			req.Email,
			req.FirstName,
			req.LastName,
			issuedAt,
			req.ExpiresAt.UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.TransferToken])
		return err
	}); err != nil {
		return nil, fmt.Errorf("create transfer token: %w", err)
	}
	return &out, nil
}

// Consume atomically marks the token with the given value consumed and returns
// it. The check-and-set is a single UPDATE guarded by NOT consumed, so under
// concurrent exchange of the same value exactly one caller gets the row back;
// the rest see ErrTransferTokenConsumed. Expiry is deliberately not part of
// the predicate; the caller compares ExpiresAt against its own clock.
func (r *TransferTokenRepo) Consume(ctx context.Context, value string) (*model.TransferToken, error) {
	if strings.TrimSpace(value) == "" {
		return nil, ErrTokenValueRequired
	}

	consumedAt := r.timeProvider.Now().UTC()
	var out model.TransferToken
	// The check-and-set and the miss diagnosis run in one transaction so the
	// diagnosis reads the state the UPDATE actually saw.
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Fn: func(tx pgx.Tx) error {
			rows, err := tx.Query(ctx, `
				UPDATE transfer_tokens
				SET consumed = TRUE, consumed_at = $2
				WHERE value = $1 AND consumed = FALSE
				RETURNING `+transferTokenColumns,
				value,
				consumedAt,
			)
			if err != nil {
				return err
			}
			row, collectErr := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.TransferToken])
			rows.Close()
			if collectErr == nil {
				out = row
				return nil
			}
			if !errors.Is(collectErr, pgx.ErrNoRows) {
				return collectErr
			}

			// The UPDATE matched nothing: either the value is unknown or the
			// token is already consumed. Distinguish for the server log; the
			// HTTP layer collapses both into the same client-facing failure.
			var exists bool
			if scanErr := tx.QueryRow(ctx,
				`SELECT EXISTS(SELECT 1 FROM transfer_tokens WHERE value = $1)`, value,
			).Scan(&exists); scanErr != nil {
				return fmt.Errorf("check transfer token: %w", scanErr)
			}
			if exists {
				return ErrTransferTokenConsumed
			}
			return ErrTransferTokenNotFound
		},
	})
	if err != nil {
		if errors.Is(err, ErrTransferTokenConsumed) || errors.Is(err, ErrTransferTokenNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("consume transfer token: %w", err)
	}
	return &out, nil
}

// DeleteStale removes tokens that expired or were consumed before the cutoff,
// up to batchSize rows. Batching keeps locks and I/O bounded on large tables.
func (r *TransferTokenRepo) DeleteStale(
	ctx context.Context,
	cutoff time.Time,
	batchSize int,
) (int64, error) {
	if batchSize <= 0 {
		batchSize = 1000
	}

	var deleted int64
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, `
			DELETE FROM transfer_tokens
			WHERE id IN (
				SELECT id FROM transfer_tokens
				WHERE expires_at < $1 OR (consumed AND consumed_at < $1)
				LIMIT $2
			)`,
			cutoff.UTC(),
			batchSize,
		)
		if err != nil {
			return err
		}
		deleted = tag.RowsAffected()
		return nil
	}); err != nil {
		return 0, fmt.Errorf("delete stale transfer tokens: %w", err)
	}
	return deleted, nil
}
