package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appoutbox "eventspace/internal/app/outbox"
)

func TestOutboxClaimLifecycle(t *testing.T) {
	ctx := context.Background()
	box := NewOutbox()
	require.NoError(t, box.Add(ctx, appoutbox.EventRecord{ID: "e1", Name: "venue.created"}))
	require.NoError(t, box.Add(ctx, appoutbox.EventRecord{ID: "e2", Name: "booking.requested"}))

	first, err := box.Claim(ctx, "w")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "e1", first.ID)

	second, err := box.Claim(ctx, "w")
	require.NoError(t, err)
	assert.Equal(t, "e2", second.ID)

	none, err := box.Claim(ctx, "w")
	require.NoError(t, err)
	assert.Nil(t, none)

	require.NoError(t, box.MarkSent(ctx, "e1"))
	require.NoError(t, box.MarkFailed(ctx, "e2", time.Now().Add(-time.Second), "broker down"))
	assert.Equal(t, 1, box.Pending())

	retry, err := box.Claim(ctx, "w")
	require.NoError(t, err)
	require.NotNil(t, retry)
	assert.Equal(t, 1, retry.Attempts)
}

func TestOutboxFlushNotifies(t *testing.T) {
	box := NewOutbox()
	require.NoError(t, box.Flush(context.Background()))
	require.NoError(t, box.Flush(context.Background()))
	select {
	case <-box.Notify():
	default:
		t.Fatal("expected a pending notification")
	}
}
