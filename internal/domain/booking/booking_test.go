package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventspace/internal/domain/venues"
)

var now = time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)

func venue(t *testing.T, status venues.Status) *venues.Venue {
	t.Helper()
	v, err := venues.NewVenue(venues.CreateParams{
		ID:         "v1",
		ProviderID: "prov",
		Details: venues.Details{
			Name:           "Hacienda San Gabriel",
			Category:       venues.CategoryHacienda,
			Price:          60000,
			Capacity:       200,
			PaymentMethods: []venues.PaymentMethod{venues.PaymentTransfer},
			Services:       []venues.Service{{ID: "dj", Price: 3000, IsOptional: true}},
		},
		Status: status,
		Now:    now,
	})
	require.NoError(t, err)
	return v
}

func params(t *testing.T) CreateParams {
	return CreateParams{
		ID:                 "b1",
		Venue:              venue(t, venues.StatusActive),
		ClientID:           "client-1",
		Date:               now.AddDate(0, 1, 0),
		GuestCount:         120,
		SelectedServiceIDs: []string{"dj", "dj"},
		PaymentMethod:      venues.PaymentTransfer,
		Total:              61800,
		Now:                now,
	}
}

func TestNewBooking(t *testing.T) {
	b, err := NewBooking(params(t))
	require.NoError(t, err)
	assert.Equal(t, StatusPending, b.Status)
	assert.Equal(t, venues.ProviderID("prov"), b.ProviderID)
	assert.Equal(t, []string{"dj"}, b.SelectedServiceIDs)
	assert.Equal(t, 0, b.Date.Hour())
	require.Len(t, b.PendingEvents(), 1)
	assert.Equal(t, "booking.requested", b.PendingEvents()[0].EventName())
}

func TestNewBookingRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CreateParams)
		want   error
	}{
		{"pending venue", func(p *CreateParams) { p.Venue = venue(t, venues.StatusPending) }, venues.ErrNotBookable},
		{"banned venue", func(p *CreateParams) { p.Venue = venue(t, venues.StatusBanned) }, venues.ErrNotBookable},
		{"no client", func(p *CreateParams) { p.ClientID = " " }, ErrClientRequired},
		{"zero guests", func(p *CreateParams) { p.GuestCount = 0 }, ErrGuestCount},
		{"over capacity", func(p *CreateParams) { p.GuestCount = 201 }, ErrGuestCount},
		{"cash not accepted", func(p *CreateParams) { p.PaymentMethod = venues.PaymentCash }, ErrPaymentMethod},
		{"unknown service", func(p *CreateParams) { p.SelectedServiceIDs = []string{"fireworks"} }, ErrUnknownService},
		{"yesterday", func(p *CreateParams) { p.Date = now.AddDate(0, 0, -1) }, ErrDateInPast},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := params(t)
			tc.mutate(&p)
			_, err := NewBooking(p)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestNewBookingAcceptsToday(t *testing.T) {
	p := params(t)
	p.Date = now.Add(time.Hour)
	_, err := NewBooking(p)
	require.NoError(t, err)
}

func TestLifecycle(t *testing.T) {
	b, err := NewBooking(params(t))
	require.NoError(t, err)

	require.ErrorIs(t, b.Complete(now), ErrInvalidState)
	require.NoError(t, b.Confirm(now))
	require.ErrorIs(t, b.Confirm(now), ErrInvalidState)
	assert.False(t, b.Finished(now))
	assert.True(t, b.Finished(b.Date.AddDate(0, 0, 1)))
	require.NoError(t, b.Complete(now))
	assert.True(t, b.Finished(now))
	require.ErrorIs(t, b.Cancel("late", now), ErrInvalidState)
}

func TestDateTaken(t *testing.T) {
	d := time.Date(2026, time.December, 12, 0, 0, 0, 0, time.UTC)
	set := []*Booking{
		{Date: d, Status: StatusCancelled},
		{Date: d.AddDate(0, 0, 1), Status: StatusConfirmed},
	}
	assert.False(t, DateTaken(set, d.Add(18*time.Hour)))
	assert.True(t, DateTaken(set, d.AddDate(0, 0, 1).Add(3*time.Hour)))

	set = append(set, &Booking{Date: d, Status: StatusPending})
	assert.True(t, DateTaken(set, d))
}
