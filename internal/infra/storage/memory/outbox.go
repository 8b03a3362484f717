package memory

import (
	"context"
	"sync"
	"time"

	appoutbox "eventspace/internal/app/outbox"
)

type outboxState int

const (
	outboxNew outboxState = iota
	outboxClaimed
	outboxSent
	outboxFailed
)

type outboxEntry struct {
	record   appoutbox.EventRecord
	state    outboxState
	attempts int
	next     time.Time
	lastErr  string
}

// Outbox queues event records in memory for the outbox worker. Sent records
// are dropped; Flush wakes a waiting worker.
type Outbox struct {
	mu      sync.Mutex
	entries []*outboxEntry
	notify  chan struct{}
}

func NewOutbox() *Outbox {
	return &Outbox{notify: make(chan struct{}, 1)}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.entries = append(o.entries, &outboxEntry{record: record, next: time.Now()})
	return nil
}

func (o *Outbox) Flush(ctx context.Context) error {
	select {
	case o.notify <- struct{}{}:
	default:
	}
	return nil
}

// Notify fires after Flush.
func (o *Outbox) Notify() <-chan struct{} {
	return o.notify
}

// Claim hands out the oldest record due for delivery.
func (o *Outbox) Claim(ctx context.Context, workerID string) (*appoutbox.Pending, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := time.Now()
	for _, e := range o.entries {
		if (e.state == outboxNew || e.state == outboxFailed) && !e.next.After(now) {
			e.state = outboxClaimed
			return &appoutbox.Pending{EventRecord: e.record, Attempts: e.attempts}, nil
		}
	}
	return nil, nil
}

func (o *Outbox) MarkSent(ctx context.Context, id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	kept := o.entries[:0]
	for _, e := range o.entries {
		if e.record.ID == id {
			e.state = outboxSent
			continue
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(o.entries); i++ {
		o.entries[i] = nil
	}
	o.entries = kept
	return nil
}

func (o *Outbox) MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, e := range o.entries {
		if e.record.ID == id {
			e.state = outboxFailed
			e.attempts++
			e.next = next
			e.lastErr = errMsg
		}
	}
	return nil
}

// Pending counts records not yet sent.
func (o *Outbox) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.entries)
}

var _ appoutbox.Outbox = (*Outbox)(nil)
