package pricing

import (
	"eventspace/internal/domain/venues"
)

// MaxDiscount is the most the rental price drops when the venue would be
// nearly empty. The discount shrinks linearly as occupancy approaches 1.
const MaxDiscount = 3000.0

// ServiceLine is one selected optional service in a quote.
type ServiceLine struct {
	ID    string
	Name  string
	Price float64
}

// Quote is the priced breakdown of a prospective booking.
type Quote struct {
	VenueID       venues.VenueID
	GuestCount    int
	OccupancyRate float64
	BasePrice     float64
	Discount      float64
	RentalPrice   float64
	Services      []ServiceLine
	ServicesTotal float64
	Total         float64
}

// Engine computes booking totals. The zero value is ready to use.
type Engine struct{}

// ComputeTotal prices a booking of venue for guestCount guests plus the
// selected services. Callers clamp guestCount to [1, capacity] first.
func (e Engine) ComputeTotal(venue *venues.Venue, guestCount int, selectedServiceIDs []string) float64 {
	return e.Quote(venue, guestCount, selectedServiceIDs).Total
}

// Quote returns the full breakdown behind ComputeTotal. A venue without a
// positive capacity is charged its full price.
func (Engine) Quote(venue *venues.Venue, guestCount int, selectedServiceIDs []string) Quote {
	if venue == nil {
		return Quote{GuestCount: guestCount}
	}
	q := Quote{
		VenueID:    venue.ID,
		GuestCount: guestCount,
		BasePrice:  venue.Price,
	}
	if venue.Capacity > 0 {
		q.OccupancyRate = float64(guestCount) / float64(venue.Capacity)
		q.Discount = MaxDiscount * (1 - q.OccupancyRate)
	}
	q.RentalPrice = venue.Price - q.Discount

	selected := make(map[string]struct{}, len(selectedServiceIDs))
	for _, id := range selectedServiceIDs {
		selected[id] = struct{}{}
	}
	for _, s := range venue.Services {
		if _, ok := selected[s.ID]; !ok {
			continue
		}
		q.Services = append(q.Services, ServiceLine{ID: s.ID, Name: s.Name, Price: s.Price})
		q.ServicesTotal += s.Price
	}
	q.Total = q.RentalPrice + q.ServicesTotal
	return q
}

// ClampGuests bounds a guest count to what the venue can hold.
func ClampGuests(guests, capacity int) int {
	if guests < 1 {
		guests = 1
	}
	if capacity > 0 && guests > capacity {
		guests = capacity
	}
	return guests
}
