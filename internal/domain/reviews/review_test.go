package reviews

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateReturnsPreviousRating(t *testing.T) {
	now := time.Date(2026, time.April, 2, 9, 0, 0, 0, time.UTC)
	review, err := Submit(SubmitParams{ID: "r1", BookingID: "b1", AuthorID: "c1", VenueID: "v1", Rating: 5, Text: "Great", CreatedAt: now})
	require.NoError(t, err)
	review.ClearEvents()

	previous, err := review.Update(3, "  Good, parking was tight ", now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 5, previous)
	assert.Equal(t, 3, review.Rating)
	assert.Equal(t, "Good, parking was tight", review.Text)
	require.Len(t, review.PendingEvents(), 1)
	assert.Equal(t, "review.updated", review.PendingEvents()[0].EventName())

	_, err = review.Update(0, "", now)
	require.ErrorIs(t, err, ErrInvalidRating)
	assert.Equal(t, 3, review.Rating)
}
