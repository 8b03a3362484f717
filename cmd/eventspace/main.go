package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"eventspace/internal/app/handlers/support"
	"eventspace/internal/app/registry"
	"eventspace/internal/infra/broker/kafka"
	"eventspace/internal/infra/config"
	ginserver "eventspace/internal/infra/http/gin"
	"eventspace/internal/infra/obs"
	infraoutbox "eventspace/internal/infra/outbox"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	logger := obs.NewLogger(cfg.Env)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("eventspace stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("eventspace stopped")
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.close()

	if err := loadFixtures(ctx, cfg.Fixtures, store.factory, logger); err != nil {
		logger.Warn("venue fixtures load failed", "error", err)
	}

	caches, err := openCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer caches.close()

	checks := map[string]obs.Check{}
	for name, check := range store.checks {
		checks[name] = check
	}
	for name, check := range caches.checks {
		checks[name] = check
	}

	buses := registry.Build(registry.Deps{
		UoWFactory:       store.factory,
		Outbox:           store.outbox,
		Clock:            support.Clock(time.Now),
		Logger:           logger,
		RecommendedLimit: cfg.RecommendedLimit,
	}, registry.Pipeline{
		Idempotency:    store.idempotency,
		IdempotencyTTL: cfg.IdempotencyTTL,
		Cache:          caches.store,
		CacheTTL:       cfg.CacheTTL,
	})

	server := ginserver.NewServer(cfg.HTTPAddr, cfg.Env,
		obs.Middleware{Logger: logger},
		obs.HealthHandlers{Checks: checks, Timeout: 2 * time.Second},
		ginserver.NewHandlers(buses.Commands, buses.Queries, logger),
	)

	worker := &infraoutbox.Worker{
		Store:       store.outbox,
		Interval:    cfg.OutboxPollInterval,
		TopicPrefix: cfg.KafkaTopicPrefix,
		Source:      "app://eventspace",
		Backoff:     cfg.RetryBackoff,
		Logger:      logger.With("component", "outbox"),
	}

	g, gctx := errgroup.WithContext(ctx)

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, "eventspace")
		if err != nil {
			return err
		}
		defer producer.Close()
		worker.Producer = producer

		// Every instance needs every invalidation, so each joins its own group.
		groupID := cfg.KafkaGroupID + "-" + uuid.NewString()
		invalidator := caches.invalidator(logger)
		consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, groupID, true, invalidator, logger.With("component", "cache-invalidation"))
		if err != nil {
			return err
		}
		defer consumer.Close()
		topics := []string{worker.TopicFor("venue.created"), worker.TopicFor("review.submitted")}
		g.Go(func() error {
			if err := consumer.Run(gctx, topics); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	} else {
		logger.Info("no kafka brokers configured, events are logged only")
		worker.Producer = infraoutbox.LogProducer{Logger: logger}
	}

	g.Go(func() error {
		if err := worker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
		return nil
	})

	return g.Wait()
}
