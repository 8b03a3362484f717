package cache

import (
	"context"
	"log/slog"

	"github.com/IBM/sarama"
)

// Invalidator drops local keys whenever a catalog event arrives from the
// broker. Peers publish the events; each instance clears its own L1.
type Invalidator struct {
	local  *Local
	keys   []string
	logger *slog.Logger
}

func NewInvalidator(local *Local, logger *slog.Logger, keys ...string) *Invalidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Invalidator{local: local, keys: keys, logger: logger}
}

func (i *Invalidator) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	i.logger.Debug("catalog cache invalidated", "topic", msg.Topic, "type", header(msg, "ce-type"))
	return i.local.Delete(ctx, i.keys...)
}

func header(msg *sarama.ConsumerMessage, key string) string {
	for _, h := range msg.Headers {
		if h != nil && string(h.Key) == key {
			return string(h.Value)
		}
	}
	return ""
}
