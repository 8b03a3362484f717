package middleware

import (
	"context"
	"log/slog"

	"eventspace/internal/app/commands"
	"eventspace/internal/app/outbox"
)

// OutboxFlush nudges the outbox once a command has succeeded. It sits
// outside Transaction so the flush observes committed records. A failed
// flush is logged; the records stay queued for the next poll.
func OutboxFlush(box outbox.Outbox, logger *slog.Logger) CommandMiddleware {
	if box == nil {
		panic("middleware: outbox required")
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
			if err := box.Flush(ctx); err != nil {
				logger.Warn("outbox flush failed", "command", cmd.Key(), "err", err)
			}
			return res, nil
		})
	}
}
