package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	appoutbox "eventspace/internal/app/outbox"
)

const claimTimeout = 30 * time.Second

// OutboxStore writes event records inside the running transaction and hands
// them to the worker with FOR UPDATE SKIP LOCKED, so several workers can
// drain the table concurrently.
type OutboxStore struct {
	pool   *pgxpool.Pool
	notify chan struct{}
}

func NewOutboxStore(pool *pgxpool.Pool) *OutboxStore {
	return &OutboxStore{pool: pool, notify: make(chan struct{}, 1)}
}

func (s *OutboxStore) Add(ctx context.Context, record appoutbox.EventRecord) error {
	const op = "postgres.OutboxStore.Add"
	headers, err := json.Marshal(record.Headers)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}
	_, err = conn(ctx, s.pool).Exec(ctx, `
		INSERT INTO outbox_events (id, name, payload, occurred_at, aggregate, headers)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		record.ID, record.Name, record.Payload, record.OccurredAt.UTC(), record.Aggregate, headers)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}
	return nil
}

// Flush wakes the local worker; the rows are already durable.
func (s *OutboxStore) Flush(context.Context) error {
	select {
	case s.notify <- struct{}{}:
	default:
	}
	return nil
}

func (s *OutboxStore) Notify() <-chan struct{} {
	return s.notify
}

func (s *OutboxStore) Claim(ctx context.Context, workerID string) (*appoutbox.Pending, error) {
	const op = "postgres.OutboxStore.Claim"
	var (
		p       appoutbox.Pending
		headers []byte
	)
	err := s.pool.QueryRow(ctx, `
		UPDATE outbox_events SET state = 'CLAIMED', claimed_by = $1, claimed_at = now()
		WHERE id = (
			SELECT id FROM outbox_events
			WHERE (state IN ('NEW', 'FAILED') AND next_attempt_at <= now())
			   OR (state = 'CLAIMED' AND claimed_at <= now() - make_interval(secs => $2))
			ORDER BY created_at
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, name, payload, occurred_at, aggregate, headers, attempts`,
		workerID, claimTimeout.Seconds(),
	).Scan(&p.ID, &p.Name, &p.Payload, &p.OccurredAt, &p.Aggregate, &headers, &p.Attempts)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}
	p.Headers = map[string]string{}
	if len(headers) > 0 {
		if err := json.Unmarshal(headers, &p.Headers); err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
	}
	p.OccurredAt = p.OccurredAt.UTC()
	return &p, nil
}

func (s *OutboxStore) MarkSent(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `UPDATE outbox_events SET state = 'SENT', sent_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres.OutboxStore.MarkSent:%w", err)
	}
	return nil
}

func (s *OutboxStore) MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE outbox_events
		SET state = 'FAILED', attempts = attempts + 1, next_attempt_at = $2, last_error = $3
		WHERE id = $1`, id, next.UTC(), errMsg)
	if err != nil {
		return fmt.Errorf("postgres.OutboxStore.MarkFailed:%w", err)
	}
	return nil
}

var _ appoutbox.Outbox = (*OutboxStore)(nil)
