package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{ err error }

func (f failingStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, f.err }
func (f failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return f.err
}
func (f failingStore) Delete(context.Context, ...string) error { return f.err }

func TestLocalRoundTrip(t *testing.T) {
	ctx := context.Background()
	l := NewLocal(10, time.Minute)
	defer l.Close()

	_, ok, err := l.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, l.Set(ctx, "k", []byte("v"), 0))
	v, ok, err := l.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v", string(v))

	require.NoError(t, l.Delete(ctx, "k", "missing"))
	_, ok, _ = l.Get(ctx, "k")
	assert.False(t, ok)
}

func TestLocalCopiesValues(t *testing.T) {
	ctx := context.Background()
	l := NewLocal(10, time.Minute)
	defer l.Close()

	buf := []byte("abc")
	require.NoError(t, l.Set(ctx, "k", buf, time.Minute))
	buf[0] = 'x'
	v, _, _ := l.Get(ctx, "k")
	assert.Equal(t, "abc", string(v))
}

func TestLocalClampsTTL(t *testing.T) {
	l := NewLocal(10, time.Minute)
	defer l.Close()
	assert.Equal(t, time.Minute, l.clamp(0))
	assert.Equal(t, time.Minute, l.clamp(time.Hour))
	assert.Equal(t, time.Second, l.clamp(time.Second))
}

func TestTieredReadsThroughToShared(t *testing.T) {
	ctx := context.Background()
	l1 := NewLocal(10, time.Minute)
	l2 := NewLocal(10, time.Minute)
	defer l1.Close()
	defer l2.Close()
	require.NoError(t, l2.Set(ctx, "k", []byte("shared"), time.Minute))

	tiered := NewTiered(l1, l2, nil)
	v, ok, err := tiered.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "shared", string(v))

	v, ok, _ = l1.Get(ctx, "k")
	require.True(t, ok, "l1 populated on l2 hit")
	assert.Equal(t, "shared", string(v))
}

func TestTieredWritesAndDeletesBothLevels(t *testing.T) {
	ctx := context.Background()
	l1 := NewLocal(10, time.Minute)
	l2 := NewLocal(10, time.Minute)
	defer l1.Close()
	defer l2.Close()
	tiered := NewTiered(l1, l2, nil)

	require.NoError(t, tiered.Set(ctx, "k", []byte("v"), time.Minute))
	_, ok, _ := l2.Get(ctx, "k")
	assert.True(t, ok)

	require.NoError(t, tiered.Delete(ctx, "k"))
	_, ok, _ = l1.Get(ctx, "k")
	assert.False(t, ok)
	_, ok, _ = l2.Get(ctx, "k")
	assert.False(t, ok)
}

func TestTieredSurvivesSharedOutage(t *testing.T) {
	ctx := context.Background()
	l1 := NewLocal(10, time.Minute)
	defer l1.Close()
	boom := errors.New("down")
	tiered := NewTiered(l1, failingStore{err: boom}, nil)

	require.NoError(t, tiered.Set(ctx, "k", []byte("v"), time.Minute))
	v, ok, err := tiered.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v", string(v))

	_, ok, err = tiered.Get(ctx, "other")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, tiered.Delete(ctx, "k"), boom)
}

func TestMemcachedKeys(t *testing.T) {
	assert.Equal(t, "catalog:gen", memcachedKey("catalog:gen"))

	spaced := memcachedKey("catalog:1:venues.catalog:q=casa grande")
	assert.True(t, strings.HasPrefix(spaced, "h:"))
	assert.Equal(t, spaced, memcachedKey("catalog:1:venues.catalog:q=casa grande"))

	long := memcachedKey(strings.Repeat("a", 300))
	assert.LessOrEqual(t, len(long), maxMemcachedKey)
}

func TestMemcachedExpiration(t *testing.T) {
	assert.Equal(t, int32(0), memcachedExpiration(0))
	assert.Equal(t, int32(1), memcachedExpiration(200*time.Millisecond))
	assert.Equal(t, int32(60), memcachedExpiration(time.Minute))
	assert.Equal(t, int32(30*24*3600), memcachedExpiration(90*24*time.Hour))
}

func TestInvalidatorDropsLocalKeys(t *testing.T) {
	ctx := context.Background()
	l := NewLocal(10, time.Minute)
	defer l.Close()
	require.NoError(t, l.Set(ctx, "catalog:gen", []byte("g1"), 0))
	require.NoError(t, l.Set(ctx, "unrelated", []byte("x"), 0))

	inv := NewInvalidator(l, nil, "catalog:gen")
	err := inv.Handle(ctx, &sarama.ConsumerMessage{
		Topic:   "venue.events.v1",
		Headers: []*sarama.RecordHeader{{Key: []byte("ce-type"), Value: []byte("venue.updated")}},
	})
	require.NoError(t, err)

	_, ok, _ := l.Get(ctx, "catalog:gen")
	assert.False(t, ok)
	_, ok, _ = l.Get(ctx, "unrelated")
	assert.True(t, ok)
}
