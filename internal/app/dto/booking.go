package dto

import (
	"time"

	domainbooking "eventspace/internal/domain/booking"
	"eventspace/internal/domain/shared/calendar"
	domainvenues "eventspace/internal/domain/venues"
)

// BookingVenueSnapshot is the slice of the venue shown next to a booking.
type BookingVenueSnapshot struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Zone       string `json:"zone"`
	CoverImage string `json:"coverImage"`
}

type Booking struct {
	ID                 string               `json:"id"`
	Venue              BookingVenueSnapshot `json:"venue"`
	ClientID           string               `json:"clientId"`
	Date               string               `json:"date"`
	GuestCount         int                  `json:"guestCount"`
	SelectedServiceIDs []string             `json:"selectedServiceIds"`
	PaymentMethod      string               `json:"paymentMethod"`
	Total              float64              `json:"total"`
	Status             string               `json:"status"`
	CreatedAt          time.Time            `json:"createdAt"`
	UpdatedAt          time.Time            `json:"updatedAt"`
	CanReview          bool                 `json:"canReview"`
}

type BookingCollection struct {
	Items []Booking `json:"items"`
}

func MapBooking(b *domainbooking.Booking, venue *domainvenues.Venue, canReview bool) Booking {
	snapshot := BookingVenueSnapshot{ID: string(b.VenueID)}
	if venue != nil {
		snapshot.Name = venue.Name
		snapshot.Zone = venue.Zone
		snapshot.CoverImage = venue.CoverImage()
	}
	return Booking{
		ID:                 string(b.ID),
		Venue:              snapshot,
		ClientID:           b.ClientID,
		Date:               calendar.Format(b.Date),
		GuestCount:         b.GuestCount,
		SelectedServiceIDs: nonNil(b.SelectedServiceIDs),
		PaymentMethod:      string(b.PaymentMethod),
		Total:              b.Total,
		Status:             string(b.Status),
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
		CanReview:          canReview,
	}
}
