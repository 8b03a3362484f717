package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbooking "eventspace/internal/domain/booking"
	domainreviews "eventspace/internal/domain/reviews"
	domainvenues "eventspace/internal/domain/venues"
)

func newVenue(t *testing.T, id, provider string) *domainvenues.Venue {
	t.Helper()
	v, err := domainvenues.NewVenue(domainvenues.CreateParams{
		ID:         domainvenues.VenueID(id),
		ProviderID: domainvenues.ProviderID(provider),
		Details: domainvenues.Details{
			Name:     "Venue " + id,
			Category: domainvenues.CategoryTerraza,
			Price:    10000,
			Capacity: 50,
		},
		Status: domainvenues.StatusActive,
		Now:    time.Now(),
	})
	require.NoError(t, err)
	return v
}

func TestVenueRepositoryKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewVenueRepository()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, repo.Save(ctx, newVenue(t, id, "p")))
	}
	updated := newVenue(t, "a", "p")
	updated.Name = "renamed"
	require.NoError(t, repo.Save(ctx, updated))

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, domainvenues.VenueID("c"), all[0].ID)
	assert.Equal(t, "renamed", all[1].Name)
	assert.Equal(t, domainvenues.VenueID("b"), all[2].ID)
}

func TestVenueRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewVenueRepository()
	require.NoError(t, repo.Save(ctx, newVenue(t, "a", "p")))

	got, err := repo.ByID(ctx, "a")
	require.NoError(t, err)
	got.Name = "mutated"

	again, err := repo.ByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Venue a", again.Name)
}

func TestVenueRepositoryRecordViewIsAtomic(t *testing.T) {
	ctx := context.Background()
	repo := NewVenueRepository()
	require.NoError(t, repo.Save(ctx, newVenue(t, "a", "p")))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.RecordView(ctx, "a")
		}()
	}
	wg.Wait()

	v, err := repo.ByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 50, v.Views)

	_, err = repo.RecordView(ctx, "missing")
	require.ErrorIs(t, err, domainvenues.ErrVenueNotFound)
}

func TestVenueRepositorySaveKeepsViews(t *testing.T) {
	ctx := context.Background()
	repo := NewVenueRepository()
	require.NoError(t, repo.Save(ctx, newVenue(t, "a", "p")))

	stale, err := repo.ByID(ctx, "a")
	require.NoError(t, err)
	_, err = repo.RecordView(ctx, "a")
	require.NoError(t, err)
	_, err = repo.RecordView(ctx, "a")
	require.NoError(t, err)

	stale.Name = "renamed"
	require.NoError(t, repo.Save(ctx, stale))

	got, err := repo.ByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
	assert.Equal(t, 2, got.Views)
}

func TestVenueRepositoryByProvider(t *testing.T) {
	ctx := context.Background()
	repo := NewVenueRepository()
	require.NoError(t, repo.Save(ctx, newVenue(t, "a", "p1")))
	require.NoError(t, repo.Save(ctx, newVenue(t, "b", "p2")))
	require.NoError(t, repo.Save(ctx, newVenue(t, "c", "p1")))

	items, err := repo.ByProvider(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, domainvenues.VenueID("a"), items[0].ID)
	assert.Equal(t, domainvenues.VenueID("c"), items[1].ID)
}

func TestBookingRepositoryRejectsDoubleBooking(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()
	day := time.Date(2027, time.March, 3, 0, 0, 0, 0, time.UTC)

	first := &domainbooking.Booking{ID: "b1", VenueID: "v", ClientID: "c1", Date: day, Status: domainbooking.StatusPending}
	require.NoError(t, repo.Save(ctx, first))
	assert.Equal(t, int64(1), first.Version)

	second := &domainbooking.Booking{ID: "b2", VenueID: "v", ClientID: "c2", Date: day, Status: domainbooking.StatusPending}
	require.ErrorIs(t, repo.Save(ctx, second), domainbooking.ErrDateUnavailable)

	first.Status = domainbooking.StatusCancelled
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))

	other := &domainbooking.Booking{ID: "b3", VenueID: "w", ClientID: "c2", Date: day, Status: domainbooking.StatusPending}
	require.NoError(t, repo.Save(ctx, other))
}

func TestBookingRepositoryListByVenueBetween(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()
	for i, d := range []int{1, 15, 30} {
		require.NoError(t, repo.Save(ctx, &domainbooking.Booking{
			ID:      domainbooking.BookingID(string(rune('a' + i))),
			VenueID: "v",
			Date:    time.Date(2027, time.April, d, 0, 0, 0, 0, time.UTC),
			Status:  domainbooking.StatusConfirmed,
		}))
	}
	require.NoError(t, repo.Save(ctx, &domainbooking.Booking{
		ID: "may", VenueID: "v", Date: time.Date(2027, time.May, 1, 0, 0, 0, 0, time.UTC), Status: domainbooking.StatusConfirmed,
	}))

	from := time.Date(2027, time.April, 1, 0, 0, 0, 0, time.UTC)
	got, err := repo.ListByVenueBetween(ctx, "v", from, from.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Len(t, got, 3)

	all, err := repo.ListByVenue(ctx, "v")
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestReviewsRepositoryPaging(t *testing.T) {
	ctx := context.Background()
	repo := NewReviewsRepository()
	for i := 1; i <= 5; i++ {
		require.NoError(t, repo.Save(ctx, &domainreviews.Review{
			ID:        domainreviews.ReviewID(string(rune('0' + i))),
			BookingID: domainbooking.BookingID(string(rune('0' + i))),
			AuthorID:  "u",
			VenueID:   "v",
			Rating:    i,
		}))
	}

	page, err := repo.ListByVenue(ctx, "v", 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, 4, page[0].Rating)
	assert.Equal(t, 3, page[1].Rating)

	_, err = repo.ByBooking(ctx, "9", "u")
	require.ErrorIs(t, err, domainreviews.ErrNotFound)
	found, err := repo.ByBooking(ctx, "2", "u")
	require.NoError(t, err)
	assert.Equal(t, 2, found.Rating)
}

func TestFavoritesToggle(t *testing.T) {
	ctx := context.Background()
	repo := NewFavoritesRepository()

	added, err := repo.Toggle(ctx, "u", "a")
	require.NoError(t, err)
	assert.True(t, added)
	_, _ = repo.Toggle(ctx, "u", "b")

	added, err = repo.Toggle(ctx, "u", "a")
	require.NoError(t, err)
	assert.False(t, added)

	ids, err := repo.ListByUser(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, []domainvenues.VenueID{"b"}, ids)
}
