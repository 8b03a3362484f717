package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"eventspace/internal/app/middleware"
	appoutbox "eventspace/internal/app/outbox"
	"eventspace/internal/app/uow"
	"eventspace/internal/infra/cache"
	"eventspace/internal/infra/config"
	mongodb "eventspace/internal/infra/db/mongo"
	"eventspace/internal/infra/db/postgres"
	"eventspace/internal/infra/fixtures"
	"eventspace/internal/infra/obs"
	infraoutbox "eventspace/internal/infra/outbox"
	"eventspace/internal/infra/storage/memory"
	"eventspace/internal/infra/storage/s3"
)

// outboxStore is written by handlers and drained by the worker.
type outboxStore interface {
	appoutbox.Outbox
	infraoutbox.Store
}

type storage struct {
	factory     uow.UoWFactory
	outbox      outboxStore
	idempotency middleware.IdempotencyStore
	checks      map[string]obs.Check
	closers     []func()
}

func (s storage) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func openStorage(ctx context.Context, cfg config.Config, logger *slog.Logger) (storage, error) {
	switch cfg.StorageDriver {
	case config.DriverMongo:
		client, err := mongodb.New(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return storage{}, fmt.Errorf("mongo: %w", err)
		}
		closeClient := func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Close(shutdownCtx)
		}
		if err := client.EnsureIndexes(ctx); err != nil {
			closeClient()
			return storage{}, fmt.Errorf("mongo indexes: %w", err)
		}
		box, err := infraoutbox.NewMongoStore(ctx, client.DB)
		if err != nil {
			closeClient()
			return storage{}, fmt.Errorf("mongo outbox: %w", err)
		}
		idem, err := mongodb.NewIdempotencyStore(ctx, client.DB)
		if err != nil {
			closeClient()
			return storage{}, fmt.Errorf("mongo idempotency: %w", err)
		}
		logger.Info("storage ready", "driver", cfg.StorageDriver, "database", cfg.MongoDB)
		return storage{
			factory:     mongodb.NewFactory(client.DB),
			outbox:      box,
			idempotency: idem,
			checks:      map[string]obs.Check{"mongo": client.Ping},
			closers:     []func(){closeClient},
		}, nil

	case config.DriverPostgres:
		pool, err := postgres.New(ctx, postgres.Config{DSN: cfg.PostgresDSN})
		if err != nil {
			return storage{}, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return storage{}, err
		}
		logger.Info("storage ready", "driver", cfg.StorageDriver)
		return storage{
			factory:     postgres.NewFactory(pool),
			outbox:      postgres.NewOutboxStore(pool),
			idempotency: postgres.NewIdempotencyStore(pool),
			checks:      map[string]obs.Check{"postgres": pool.Ping},
			closers:     []func(){pool.Close},
		}, nil

	default:
		logger.Info("storage ready", "driver", config.DriverMemory)
		return storage{
			factory:     memory.NewFactory(),
			outbox:      memory.NewOutbox(),
			idempotency: memory.NewIdempotencyStore(),
			checks:      map[string]obs.Check{},
		}, nil
	}
}

func loadFixtures(ctx context.Context, cfg config.Fixtures, factory uow.UoWFactory, logger *slog.Logger) error {
	var src fixtures.Source = fixtures.FileSource{Path: cfg.Path}
	if cfg.FromS3() {
		client, err := s3.NewClient(s3.Config{
			Endpoint:  cfg.S3Endpoint,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			UseSSL:    cfg.S3UseSSL,
		}, logger)
		if err != nil {
			return err
		}
		src = fixtures.ObjectSource{Objects: client, Key: cfg.S3Key}
	} else if cfg.Path == "" {
		return nil
	}
	return fixtures.Load(ctx, src, factory, time.Now(), logger)
}

type caches struct {
	store   middleware.CacheStore
	local   *cache.Local
	checks  map[string]obs.Check
	closers []func()
}

func (c caches) close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// invalidator clears this instance's L1 when a peer changes the catalog.
func (c caches) invalidator(logger *slog.Logger) *cache.Invalidator {
	return cache.NewInvalidator(c.local, logger, middleware.CatalogGenerationKey)
}

func openCache(ctx context.Context, cfg config.Config, logger *slog.Logger) (caches, error) {
	local := cache.NewLocal(cfg.CacheLocalSize, cache.DefaultLocalTTL)
	out := caches{store: local, local: local, checks: map[string]obs.Check{}, closers: []func(){local.Close}}
	cacheLogger := logger.With("component", "cache")

	switch {
	case cfg.RedisAddr != "":
		rdb, err := cache.NewRedisClient(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			out.close()
			return caches{}, err
		}
		out.store = cache.NewTiered(local, cache.NewRedis(rdb), cacheLogger)
		out.checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		out.closers = append(out.closers, func() { _ = rdb.Close() })
		logger.Info("catalog cache ready", "l2", "redis", "addr", cfg.RedisAddr)
	case cfg.MemcachedAddr != "":
		mc := cache.NewMemcached(cfg.MemcachedAddr)
		out.store = cache.NewTiered(local, mc, cacheLogger)
		out.checks["memcached"] = func(context.Context) error { return mc.Ping() }
		logger.Info("catalog cache ready", "l2", "memcached", "addr", cfg.MemcachedAddr)
	default:
		logger.Info("catalog cache ready", "l2", "none")
	}
	return out, nil
}
