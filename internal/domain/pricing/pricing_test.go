package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventspace/internal/domain/venues"
)

func hall(t *testing.T, price float64, capacity int, services ...venues.Service) *venues.Venue {
	t.Helper()
	v, err := venues.NewVenue(venues.CreateParams{
		ID:         "hall",
		ProviderID: "prov",
		Details: venues.Details{
			Name:     "Salón Imperial",
			Category: venues.CategorySalonEventos,
			Price:    price,
			Capacity: capacity,
			Services: services,
		},
		Status: venues.StatusActive,
		Now:    time.Now(),
	})
	require.NoError(t, err)
	return v
}

func TestComputeTotalScenario(t *testing.T) {
	v := hall(t, 85000, 350)
	var e Engine

	assert.Equal(t, 85000.0, e.ComputeTotal(v, 350, nil))
	assert.Equal(t, 83500.0, e.ComputeTotal(v, 175, nil))
	assert.InDelta(t, 82008.57, e.ComputeTotal(v, 1, nil), 0.01)
}

func TestComputeTotalBoundaries(t *testing.T) {
	var e Engine
	for _, tc := range []struct {
		price    float64
		capacity int
	}{
		{price: 85000, capacity: 350},
		{price: 12345.67, capacity: 3},
		{price: 500, capacity: 1},
	} {
		v := hall(t, tc.price, tc.capacity)
		assert.Equal(t, tc.price, e.ComputeTotal(v, tc.capacity, nil))
		want := tc.price - MaxDiscount*(1-1/float64(tc.capacity))
		assert.InDelta(t, want, e.ComputeTotal(v, 1, nil), 1e-9)
	}
}

func TestComputeTotalServicesAreAdditive(t *testing.T) {
	v := hall(t, 40000, 100,
		venues.Service{ID: "dj", Name: "DJ", Price: 3500, IsOptional: true},
		venues.Service{ID: "catering", Name: "Banquete", Price: 12000, IsOptional: true},
		venues.Service{ID: "valet", Name: "Valet", Price: 1800, IsOptional: true},
	)
	var e Engine

	base := e.ComputeTotal(v, 60, []string{"dj"})
	with := e.ComputeTotal(v, 60, []string{"dj", "catering"})
	assert.InDelta(t, base+12000, with, 1e-9)

	all := e.ComputeTotal(v, 60, []string{"dj", "catering", "valet"})
	assert.InDelta(t, e.ComputeTotal(v, 60, nil)+3500+12000+1800, all, 1e-9)
}

func TestComputeTotalIgnoresUnknownAndDuplicateServices(t *testing.T) {
	v := hall(t, 40000, 100, venues.Service{ID: "dj", Price: 3500, IsOptional: true})
	var e Engine

	plain := e.ComputeTotal(v, 100, nil)
	assert.Equal(t, plain, e.ComputeTotal(v, 100, []string{"fireworks"}))
	assert.Equal(t, plain+3500, e.ComputeTotal(v, 100, []string{"dj", "dj"}))
}

func TestComputeTotalZeroCapacityChargesFullPrice(t *testing.T) {
	v := hall(t, 40000, 100, venues.Service{ID: "dj", Price: 3500})
	v.Capacity = 0
	var e Engine

	assert.Equal(t, 40000.0, e.ComputeTotal(v, 50, nil))
	assert.Equal(t, 43500.0, e.ComputeTotal(v, 50, []string{"dj"}))
}

func TestQuoteBreakdown(t *testing.T) {
	v := hall(t, 85000, 350, venues.Service{ID: "dj", Name: "DJ", Price: 3500, IsOptional: true})
	q := Engine{}.Quote(v, 175, []string{"dj"})

	assert.Equal(t, venues.VenueID("hall"), q.VenueID)
	assert.InDelta(t, 0.5, q.OccupancyRate, 1e-12)
	assert.InDelta(t, 1500, q.Discount, 1e-9)
	assert.InDelta(t, 83500, q.RentalPrice, 1e-9)
	assert.Equal(t, []ServiceLine{{ID: "dj", Name: "DJ", Price: 3500}}, q.Services)
	assert.InDelta(t, 87000, q.Total, 1e-9)
}

func TestClampGuests(t *testing.T) {
	assert.Equal(t, 1, ClampGuests(0, 10))
	assert.Equal(t, 1, ClampGuests(-5, 10))
	assert.Equal(t, 10, ClampGuests(50, 10))
	assert.Equal(t, 7, ClampGuests(7, 10))
	assert.Equal(t, 50, ClampGuests(50, 0))
}
