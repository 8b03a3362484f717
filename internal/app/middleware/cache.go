package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"reflect"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"eventspace/internal/app/commands"
	"eventspace/internal/app/queries"
)

// CatalogGenerationKey holds the current catalog generation. Cached catalog
// entries embed it in their keys, so replacing it invalidates all of them.
const CatalogGenerationKey = "catalog:gen"

// CacheStore is a byte-oriented cache. Get reports a miss with ok=false.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CacheableQuery results are cached under CacheKey within the current
// catalog generation.
type CacheableQuery interface {
	queries.Query
	CacheKey() string
	ResultPrototype() any
}

// CatalogMutation marks commands whose success changes catalog results.
type CatalogMutation interface {
	commands.Command
	MutatesCatalog()
}

// Cache serves CacheableQuery results from store. Concurrent misses for the
// same key share one handler call. Store failures degrade to uncached reads.
func Cache(store CacheStore, ttl time.Duration, logger *slog.Logger) QueryMiddleware {
	if store == nil {
		panic("middleware: cache store required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	var group singleflight.Group
	return func(next queries.Bus) queries.Bus {
		nextFn := wrapQuery(next)
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			cq, ok := q.(CacheableQuery)
			if !ok {
				return nextFn(ctx, q)
			}
			gen, err := generation(ctx, store)
			if err != nil {
				logger.Warn("cache generation unavailable", "query", q.Key(), "err", err)
				return nextFn(ctx, q)
			}
			key := "catalog:" + gen + ":" + q.Key() + ":" + cq.CacheKey()

			if raw, hit, err := store.Get(ctx, key); err != nil {
				logger.Warn("cache read failed", "key", key, "err", err)
			} else if hit {
				if res, err := decodeCached(raw, cq.ResultPrototype()); err == nil {
					return res, nil
				}
				logger.Warn("cache entry undecodable", "key", key)
			}

			res, err, _ := group.Do(key, func() (any, error) {
				res, err := nextFn(ctx, q)
				if err != nil {
					return nil, err
				}
				if raw, err := json.Marshal(res); err == nil {
					if err := store.Set(ctx, key, raw, ttl); err != nil {
						logger.Warn("cache write failed", "key", key, "err", err)
					}
				}
				return res, nil
			})
			return res, err
		})
	}
}

// InvalidateCache rotates the catalog generation after a successful
// CatalogMutation.
func InvalidateCache(store CacheStore, logger *slog.Logger) CommandMiddleware {
	if store == nil {
		panic("middleware: cache store required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			res, err := nextFn(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if _, ok := cmd.(CatalogMutation); ok {
				if err := store.Delete(ctx, CatalogGenerationKey); err != nil {
					logger.Warn("cache invalidation failed", "command", cmd.Key(), "err", err)
				}
			}
			return res, nil
		})
	}
}

func generation(ctx context.Context, store CacheStore) (string, error) {
	raw, ok, err := store.Get(ctx, CatalogGenerationKey)
	if err != nil {
		return "", err
	}
	if ok && len(raw) > 0 {
		return string(raw), nil
	}
	gen := uuid.NewString()
	if err := store.Set(ctx, CatalogGenerationKey, []byte(gen), 0); err != nil {
		return "", err
	}
	return gen, nil
}

// decodeCached unmarshals into the prototype and returns the pointed-to value.
func decodeCached(raw []byte, proto any) (any, error) {
	if err := json.Unmarshal(raw, proto); err != nil {
		return nil, err
	}
	rv := reflect.ValueOf(proto)
	if rv.Kind() == reflect.Ptr && !rv.IsNil() {
		return rv.Elem().Interface(), nil
	}
	return proto, nil
}
