package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eventspace/internal/app/middleware"
)

type IdempotencyStore struct {
	pool *pgxpool.Pool
}

func NewIdempotencyStore(pool *pgxpool.Pool) *IdempotencyStore {
	return &IdempotencyStore{pool: pool}
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) (middleware.IdempotencyRecord, bool, error) {
	const op = "postgres.IdempotencyStore.Get"
	var (
		rec     = middleware.IdempotencyRecord{Key: key}
		expires *time.Time
	)
	err := s.pool.QueryRow(ctx, `
		SELECT payload, occurred_at, expires_at FROM idempotency_keys
		WHERE key = $1 AND (expires_at IS NULL OR expires_at > now())`, key,
	).Scan(&rec.Payload, &rec.OccurredAt, &expires)
	if errors.Is(err, pgx.ErrNoRows) {
		return middleware.IdempotencyRecord{}, false, nil
	}
	if err != nil {
		return middleware.IdempotencyRecord{}, false, fmt.Errorf("%s:%w", op, err)
	}
	if expires != nil {
		rec.ExpiresAt = expires.UTC()
	}
	rec.OccurredAt = rec.OccurredAt.UTC()
	return rec, true, nil
}

func (s *IdempotencyStore) Save(ctx context.Context, rec middleware.IdempotencyRecord) error {
	const op = "postgres.IdempotencyStore.Save"
	var expires *time.Time
	if !rec.ExpiresAt.IsZero() {
		t := rec.ExpiresAt.UTC()
		expires = &t
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO idempotency_keys (key, payload, occurred_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE SET
			payload = EXCLUDED.payload,
			occurred_at = EXCLUDED.occurred_at,
			expires_at = EXCLUDED.expires_at`,
		rec.Key, rec.Payload, rec.OccurredAt.UTC(), expires)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}
	return nil
}

var _ middleware.IdempotencyStore = (*IdempotencyStore)(nil)
