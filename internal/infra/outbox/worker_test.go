package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appoutbox "eventspace/internal/app/outbox"
	"eventspace/internal/infra/storage/memory"
)

type published struct {
	topic   string
	key     string
	payload []byte
	headers map[string]string
}

type fakeProducer struct {
	mu   sync.Mutex
	fail error
	sent []published
}

func (p *fakeProducer) Publish(ctx context.Context, topic, key string, payload []byte, headers map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	p.sent = append(p.sent, published{topic: topic, key: key, payload: payload, headers: headers})
	return nil
}

func addEvent(t *testing.T, box *memory.Outbox, id, name string) {
	t.Helper()
	require.NoError(t, box.Add(context.Background(), appoutbox.EventRecord{
		ID:         id,
		Name:       name,
		Payload:    []byte(`{"VenueID":"v1"}`),
		OccurredAt: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		Aggregate:  "v1",
		Headers:    map[string]string{},
	}))
}

func TestWorkerDrainPublishesCloudEvents(t *testing.T) {
	box := memory.NewOutbox()
	addEvent(t, box, "e1", "venue.created")
	addEvent(t, box, "e2", "booking.requested")
	producer := &fakeProducer{}
	w := &Worker{Store: box, Producer: producer, TopicPrefix: "dev.", Source: "app://test"}

	require.NoError(t, w.Drain(context.Background()))

	require.Len(t, producer.sent, 2)
	assert.Equal(t, "dev.venue.events.v1", producer.sent[0].topic)
	assert.Equal(t, "dev.booking.events.v1", producer.sent[1].topic)
	assert.Equal(t, "v1", producer.sent[0].key)
	assert.Equal(t, "application/cloudevents+json", producer.sent[0].headers["content-type"])

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(producer.sent[0].payload, &envelope))
	assert.Equal(t, "venue.created.v1", envelope["type"])
	assert.Equal(t, "e1", envelope["id"])
	assert.Equal(t, "app://test", envelope["source"])
	assert.Equal(t, map[string]any{"VenueID": "v1"}, envelope["data"])
	assert.Equal(t, 0, box.Pending())
}

func TestWorkerMarksFailuresForRetry(t *testing.T) {
	box := memory.NewOutbox()
	addEvent(t, box, "e1", "venue.created")
	producer := &fakeProducer{fail: errors.New("broker unavailable")}
	w := &Worker{Store: box, Producer: producer, Backoff: []time.Duration{time.Hour}}

	require.NoError(t, w.Drain(context.Background()))
	assert.Equal(t, 1, box.Pending())

	rec, err := box.Claim(context.Background(), "other")
	require.NoError(t, err)
	assert.Nil(t, rec, "record waits for its backoff")
}

func TestWorkerRunRequiresDependencies(t *testing.T) {
	err := (&Worker{}).Run(context.Background())
	require.ErrorIs(t, err, ErrWorkerNotConfigured)
}

func TestWorkerRunWakesOnFlush(t *testing.T) {
	box := memory.NewOutbox()
	producer := &fakeProducer{}
	w := &Worker{Store: box, Producer: producer, Interval: time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	addEvent(t, box, "e1", "review.submitted")
	require.NoError(t, box.Flush(ctx))

	require.Eventually(t, func() bool {
		producer.mu.Lock()
		defer producer.mu.Unlock()
		return len(producer.sent) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestTopicFor(t *testing.T) {
	w := &Worker{}
	assert.Equal(t, "venue.events.v1", w.TopicFor("venue.status_changed"))
	assert.Equal(t, "plain.events.v1", w.TopicFor("plain"))
}
