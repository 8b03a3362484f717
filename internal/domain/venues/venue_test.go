package venues

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVenueValidation(t *testing.T) {
	cases := map[string]func(*CreateParams){
		"capacity": func(p *CreateParams) { p.Capacity = 0 },
		"price":    func(p *CreateParams) { p.Price = -1 },
		"rating":   func(p *CreateParams) { p.Rating = 5.5 },
		"category": func(p *CreateParams) { p.Category = "CASTILLO" },
		"name":     func(p *CreateParams) { p.Name = "  " },
		"services": func(p *CreateParams) {
			p.Services = []Service{{ID: "dj", Price: 10}, {ID: "dj", Price: 20}}
		},
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			params := CreateParams{
				ID:         "v1",
				ProviderID: "p1",
				Details:    Details{Name: "Salón", Category: CategoryHotel, Price: 100, Capacity: 10},
			}
			mutate(&params)
			_, err := NewVenue(params)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, field, verr.Field)
		})
	}
}

func TestNewVenueDefaults(t *testing.T) {
	v, err := NewVenue(CreateParams{
		ID:         "v1",
		ProviderID: "p1",
		Details:    Details{Name: " Salón ", Category: CategoryHotel, Price: 100, Capacity: 10},
		Now:        time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, v.Status)
	assert.Equal(t, "Salón", v.Name)
	assert.NotNil(t, v.Services)
	assert.Empty(t, v.Services)
	require.Len(t, v.PendingEvents(), 1)
	assert.Equal(t, "venue.created", v.PendingEvents()[0].EventName())
}

func TestTransitions(t *testing.T) {
	now := time.Now()
	v := testVenue(t, "v", StatusPending, 0)

	require.ErrorIs(t, v.Transition(ActionFeature, now), ErrInvalidTransition)
	require.NoError(t, v.Transition(ActionApprove, now))
	assert.Equal(t, StatusActive, v.Status)
	require.NoError(t, v.Transition(ActionFeature, now))
	assert.Equal(t, StatusFeatured, v.Status)
	require.NoError(t, v.Transition(ActionBan, now))
	assert.Equal(t, StatusBanned, v.Status)
	require.ErrorIs(t, v.Transition(ActionBan, now), ErrInvalidTransition)
	require.NoError(t, v.Transition(ActionReinstate, now))
	assert.Equal(t, StatusActive, v.Status)
}

func TestApplyReviewRunningAverage(t *testing.T) {
	v := testVenue(t, "v", StatusActive, 4, func(p *CreateParams) { p.ReviewCount = 2 })
	require.NoError(t, v.ApplyReview(5, time.Now()))
	assert.Equal(t, 3, v.ReviewCount)
	assert.InDelta(t, 13.0/3.0, v.Rating, 1e-9)
	require.Error(t, v.ApplyReview(6, time.Now()))
}

func TestReviseReviewKeepsCount(t *testing.T) {
	v := testVenue(t, "v", StatusActive, 4, func(p *CreateParams) { p.ReviewCount = 2 })
	require.NoError(t, v.ReviseReview(4, 2, time.Now()))
	assert.Equal(t, 2, v.ReviewCount)
	assert.InDelta(t, 3.0, v.Rating, 1e-9)
	require.Error(t, v.ReviseReview(2, 0, time.Now()))

	fresh := testVenue(t, "w", StatusActive, 0)
	require.Error(t, fresh.ReviseReview(3, 4, time.Now()))
}

func TestFavoritesNeverNegative(t *testing.T) {
	v := testVenue(t, "v", StatusActive, 0)
	v.RemoveFavorite("u1", time.Now())
	assert.Equal(t, 0, v.Favorites)
	v.AddFavorite("u1", time.Now())
	assert.Equal(t, 1, v.Favorites)
}

func TestCloneIsDeep(t *testing.T) {
	v := testVenue(t, "v", StatusActive, 0, func(p *CreateParams) {
		p.Images = []string{"a.jpg"}
	})
	cp := v.Clone()
	cp.Images[0] = "b.jpg"
	assert.Equal(t, "a.jpg", v.CoverImage())
	assert.Empty(t, cp.PendingEvents())
}
