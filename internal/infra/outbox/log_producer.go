package outbox

import (
	"context"
	"log/slog"
)

// LogProducer stands in for a broker when none is configured. Events are
// logged and acknowledged.
type LogProducer struct {
	Logger *slog.Logger
}

func (p LogProducer) Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("event published", "topic", topic, "key", key, "type", headers["ce-type"], "bytes", len(payload))
	return nil
}
