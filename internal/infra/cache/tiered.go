package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Store is the byte-oriented contract every backend here satisfies.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Tiered reads through a local L1 into a shared L2 and writes both. An
// unreachable L2 leaves the L1 serving alone.
type Tiered struct {
	l1     *Local
	l2     Store
	logger *slog.Logger
}

func NewTiered(l1 *Local, l2 Store, logger *slog.Logger) *Tiered {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tiered{l1: l1, l2: l2, logger: logger}
}

func (t *Tiered) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if v, ok, _ := t.l1.Get(ctx, key); ok {
		return v, true, nil
	}
	if t.l2 == nil {
		return nil, false, nil
	}
	v, ok, err := t.l2.Get(ctx, key)
	if err != nil {
		t.logger.Warn("shared cache read failed", "key", key, "err", err)
		return nil, false, nil
	}
	if ok {
		_ = t.l1.Set(ctx, key, v, 0)
	}
	return v, ok, nil
}

func (t *Tiered) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_ = t.l1.Set(ctx, key, value, ttl)
	if t.l2 == nil {
		return nil
	}
	if err := t.l2.Set(ctx, key, value, ttl); err != nil {
		t.logger.Warn("shared cache write failed", "key", key, "err", err)
	}
	return nil
}

// Delete reports L2 failures, since a stale shared key outlives the local one.
func (t *Tiered) Delete(ctx context.Context, keys ...string) error {
	err := t.l1.Delete(ctx, keys...)
	if t.l2 != nil {
		err = errors.Join(err, t.l2.Delete(ctx, keys...))
	}
	return err
}

// Local exposes the L1 so peers' invalidations can reach it.
func (t *Tiered) Local() *Local {
	return t.l1
}
