package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

const maxMemcachedKey = 250

// Memcached is a shared store backed by gomemcache. Keys memcached would
// reject are hashed.
type Memcached struct {
	client *memcache.Client
}

func NewMemcached(addrs ...string) *Memcached {
	client := memcache.New(addrs...)
	client.Timeout = time.Second
	return &Memcached{client: client}
}

func (m *Memcached) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	item, err := m.client.Get(memcachedKey(key))
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return item.Value, true, nil
}

func (m *Memcached) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.client.Set(&memcache.Item{
		Key:        memcachedKey(key),
		Value:      value,
		Expiration: memcachedExpiration(ttl),
	})
}

func (m *Memcached) Delete(ctx context.Context, keys ...string) error {
	var errs []error
	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.client.Delete(memcachedKey(k)); err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Memcached) Ping() error {
	return m.client.Ping()
}

// memcachedExpiration converts ttl to whole seconds; memcached treats 0 as
// no expiry, so sub-second ttls round up.
func memcachedExpiration(ttl time.Duration) int32 {
	if ttl <= 0 {
		return 0
	}
	secs := int64((ttl + time.Second - 1) / time.Second)
	// Values past 30 days are read as unix timestamps.
	if secs > 30*24*3600 {
		secs = 30 * 24 * 3600
	}
	return int32(secs)
}

func memcachedKey(key string) string {
	if len(key) <= maxMemcachedKey && legalMemcachedKey(key) {
		return key
	}
	sum := sha256.Sum256([]byte(key))
	return "h:" + hex.EncodeToString(sum[:])
}

func legalMemcachedKey(key string) bool {
	for i := 0; i < len(key); i++ {
		if key[i] <= ' ' || key[i] == 0x7f {
			return false
		}
	}
	return true
}
