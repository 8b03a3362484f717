package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appoutbox "eventspace/internal/app/outbox"
	"eventspace/internal/app/uow"
	domainbooking "eventspace/internal/domain/booking"
	domainreviews "eventspace/internal/domain/reviews"
	domainvenues "eventspace/internal/domain/venues"
)

// openTestPool connects to EVENTSPACE_TEST_POSTGRES_DSN or skips.
func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("EVENTSPACE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("EVENTSPACE_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	pool, err := New(ctx, Config{DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, Migrate(ctx, pool))
	return pool
}

func newTestVenue(t *testing.T, now time.Time) *domainvenues.Venue {
	t.Helper()
	v, err := domainvenues.NewVenue(domainvenues.CreateParams{
		ID:         domainvenues.VenueID("pg-" + uuid.NewString()),
		ProviderID: "provider-1",
		Details: domainvenues.Details{
			Name:           "Terraza Reforma",
			Zone:           "Reforma",
			Category:       domainvenues.CategoryTerraza,
			Price:          40000,
			Capacity:       80,
			PaymentMethods: []domainvenues.PaymentMethod{domainvenues.PaymentCash},
			Services:       []domainvenues.Service{{ID: "dj", Name: "DJ", Price: 3000, IsOptional: true}},
		},
		Status: domainvenues.StatusActive,
		Now:    now,
	})
	require.NoError(t, err)
	return v
}

func TestVenueRepositoryRoundTripAndViews(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()
	repo := NewVenueRepository(pool)
	v := newTestVenue(t, time.Now())

	require.NoError(t, repo.Save(ctx, v))
	got, err := repo.ByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.Name, got.Name)
	assert.Equal(t, v.Services, got.Services)
	assert.Equal(t, v.PaymentMethods, got.PaymentMethods)

	viewed, err := repo.RecordView(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, viewed.Views)

	// Saving a stale copy keeps the counter.
	require.NoError(t, repo.Save(ctx, v))
	got, err = repo.ByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Views)

	_, err = repo.ByID(ctx, "missing")
	assert.ErrorIs(t, err, domainvenues.ErrVenueNotFound)
}

func TestBookingRepositoryRejectsSecondActiveBooking(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()
	now := time.Now().UTC()
	v := newTestVenue(t, now)
	require.NoError(t, NewVenueRepository(pool).Save(ctx, v))
	repo := NewBookingRepository(pool)

	day := now.AddDate(0, 1, 0)
	book := func() *domainbooking.Booking {
		b, err := domainbooking.NewBooking(domainbooking.CreateParams{
			ID:            domainbooking.BookingID(uuid.NewString()),
			Venue:         v,
			ClientID:      "client-1",
			Date:          day,
			GuestCount:    40,
			PaymentMethod: domainvenues.PaymentCash,
			Total:         38500,
			Now:           now,
		})
		require.NoError(t, err)
		return b
	}

	first := book()
	require.NoError(t, repo.Save(ctx, first))
	assert.Equal(t, int64(1), first.Version)
	assert.ErrorIs(t, repo.Save(ctx, book()), domainbooking.ErrDateUnavailable)

	stale := *first
	require.NoError(t, first.Cancel("client changed plans", now))
	require.NoError(t, repo.Save(ctx, first))
	assert.ErrorIs(t, repo.Save(ctx, &stale), ErrConcurrentUpdate)

	// The day frees up once cancelled.
	require.NoError(t, repo.Save(ctx, book()))
}

func TestFactoryCommitAndRollback(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()
	factory := NewFactory(pool)
	v := newTestVenue(t, time.Now())

	unit, err := factory.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	txCtx := uow.Bind(ctx, unit)
	require.NoError(t, unit.Venues().Save(txCtx, v))
	require.NoError(t, unit.Rollback(txCtx))
	_, err = factory.VenuesRepo.ByID(ctx, v.ID)
	assert.ErrorIs(t, err, domainvenues.ErrVenueNotFound)

	unit, err = factory.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	txCtx = uow.Bind(ctx, unit)
	require.NoError(t, unit.Venues().Save(txCtx, v))
	added, err := unit.Favorites().Toggle(txCtx, "client-1", v.ID)
	require.NoError(t, err)
	assert.True(t, added)
	require.NoError(t, unit.Commit(txCtx))
	require.NoError(t, unit.Rollback(txCtx))

	ids, err := factory.FavoritesRepo.ListByUser(ctx, "client-1")
	require.NoError(t, err)
	assert.Contains(t, ids, v.ID)
}

func TestReviewsRepositoryRejectsDuplicates(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()
	now := time.Now().UTC()
	v := newTestVenue(t, now)
	require.NoError(t, NewVenueRepository(pool).Save(ctx, v))
	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID: domainbooking.BookingID(uuid.NewString()), Venue: v, ClientID: "client-1",
		Date: now, GuestCount: 10, PaymentMethod: domainvenues.PaymentCash, Now: now,
	})
	require.NoError(t, err)
	require.NoError(t, NewBookingRepository(pool).Save(ctx, b))

	repo := NewReviewsRepository(pool)
	review := func() *domainreviews.Review {
		r, err := domainreviews.Submit(domainreviews.SubmitParams{
			ID: domainreviews.ReviewID(uuid.NewString()), BookingID: b.ID, AuthorID: "client-1",
			VenueID: v.ID, Rating: 5, Text: "great", CreatedAt: now,
		})
		require.NoError(t, err)
		return r
	}
	first := review()
	require.NoError(t, repo.Save(ctx, first))
	assert.ErrorIs(t, repo.Save(ctx, review()), domainreviews.ErrDuplicate)

	_, err = first.Update(3, "ok", now)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	list, err := repo.ListByVenue(ctx, v.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 3, list[0].Rating)
	assert.Equal(t, "ok", list[0].Text)
}

func TestOutboxStoreClaimsOnce(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()
	store := NewOutboxStore(pool)
	id := uuid.NewString()
	require.NoError(t, store.Add(ctx, appoutbox.EventRecord{
		ID: id, Name: "venue.created", Payload: []byte(`{}`), OccurredAt: time.Now(),
		Aggregate: "v1", Headers: map[string]string{"traceparent": "00-abc"},
	}))

	var claimed *appoutbox.Pending
	for {
		p, err := store.Claim(ctx, "worker-a")
		require.NoError(t, err)
		require.NotNil(t, p)
		if p.ID == id {
			claimed = p
			break
		}
		require.NoError(t, store.MarkSent(ctx, p.ID))
	}
	assert.Equal(t, "00-abc", claimed.Headers["traceparent"])
	require.NoError(t, store.MarkFailed(ctx, id, time.Now().Add(time.Hour), "broker down"))

	p, err := store.Claim(ctx, "worker-b")
	require.NoError(t, err)
	if p != nil {
		assert.NotEqual(t, id, p.ID)
	}
}
