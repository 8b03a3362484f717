package cache

import (
	"context"
	"time"

	"github.com/karlseguin/ccache/v3"
)

// DefaultLocalTTL bounds entries written without an expiry, so instances
// that miss an invalidation still converge.
const DefaultLocalTTL = 5 * time.Minute

// Local is an in-process LRU store.
type Local struct {
	lru    *ccache.Cache[[]byte]
	maxTTL time.Duration
}

func NewLocal(maxSize int64, maxTTL time.Duration) *Local {
	if maxSize <= 0 {
		maxSize = 1000
	}
	if maxTTL <= 0 {
		maxTTL = DefaultLocalTTL
	}
	return &Local{
		lru:    ccache.New(ccache.Configure[[]byte]().MaxSize(maxSize)),
		maxTTL: maxTTL,
	}
}

func (l *Local) Get(_ context.Context, key string) ([]byte, bool, error) {
	item := l.lru.Get(key)
	if item == nil || item.Expired() {
		return nil, false, nil
	}
	return append([]byte(nil), item.Value()...), true, nil
}

func (l *Local) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	l.lru.Set(key, append([]byte(nil), value...), l.clamp(ttl))
	return nil
}

func (l *Local) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		l.lru.Delete(k)
	}
	return nil
}

func (l *Local) Close() {
	l.lru.Stop()
}

func (l *Local) clamp(ttl time.Duration) time.Duration {
	if ttl <= 0 || ttl > l.maxTTL {
		return l.maxTTL
	}
	return ttl
}
