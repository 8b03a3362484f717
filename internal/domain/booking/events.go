package booking

import (
	"time"

	"eventspace/internal/domain/venues"
)

type BookingRequested struct {
	BookingID  BookingID
	VenueID    venues.VenueID
	ClientID   string
	Date       time.Time
	GuestCount int
	Total      float64
	At         time.Time
}

func (e BookingRequested) EventName() string     { return "booking.requested" }
func (e BookingRequested) AggregateID() string   { return string(e.BookingID) }
func (e BookingRequested) OccurredAt() time.Time { return e.At }

type BookingStatusChanged struct {
	BookingID BookingID
	VenueID   venues.VenueID
	From      Status
	To        Status
	Reason    string
	At        time.Time
}

func (e BookingStatusChanged) EventName() string     { return "booking.status_changed" }
func (e BookingStatusChanged) AggregateID() string   { return string(e.BookingID) }
func (e BookingStatusChanged) OccurredAt() time.Time { return e.At }
