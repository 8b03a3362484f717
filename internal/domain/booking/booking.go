package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"eventspace/internal/domain/shared/calendar"
	"eventspace/internal/domain/shared/events"
	"eventspace/internal/domain/venues"
)

var (
	ErrBookingNotFound = errors.New("booking: not found")
	ErrInvalidState    = errors.New("booking: invalid state transition")
	ErrDateUnavailable = errors.New("booking: date is not available")
	ErrDateInPast      = errors.New("booking: date is in the past")
	ErrQuoteMismatch   = errors.New("booking: quoted total does not match current price")
	ErrGuestCount      = errors.New("booking: guest count must be between 1 and venue capacity")
	ErrPaymentMethod   = errors.New("booking: payment method not accepted by venue")
	ErrClientRequired  = errors.New("booking: client id required")
	ErrUnknownService  = errors.New("booking: selected service is not offered by venue")
	ErrNotParticipant  = errors.New("booking: caller is not a participant of this booking")
)

type BookingID string

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

type Booking struct {
	ID                 BookingID
	VenueID            venues.VenueID
	ProviderID         venues.ProviderID
	ClientID           string
	Date               time.Time
	GuestCount         int
	SelectedServiceIDs []string
	PaymentMethod      venues.PaymentMethod
	Total              float64
	Status             Status
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Version            int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, booking *Booking) error
	ListByClient(ctx context.Context, clientID string) ([]*Booking, error)
	ListByVenue(ctx context.Context, venueID venues.VenueID) ([]*Booking, error)
	// ListByVenueBetween returns bookings dated in [from, to).
	ListByVenueBetween(ctx context.Context, venueID venues.VenueID, from, to time.Time) ([]*Booking, error)
}

type CreateParams struct {
	ID                 BookingID
	Venue              *venues.Venue
	ClientID           string
	Date               time.Time
	GuestCount         int
	SelectedServiceIDs []string
	PaymentMethod      venues.PaymentMethod
	Total              float64
	Now                time.Time
}

// NewBooking validates a request against the venue it targets. Date
// availability is checked by the caller, which owns the booking set.
func NewBooking(params CreateParams) (*Booking, error) {
	v := params.Venue
	if v == nil {
		return nil, venues.ErrVenueNotFound
	}
	if !v.Bookable() {
		return nil, venues.ErrNotBookable
	}
	if strings.TrimSpace(params.ClientID) == "" {
		return nil, ErrClientRequired
	}
	if params.GuestCount < 1 || params.GuestCount > v.Capacity {
		return nil, ErrGuestCount
	}
	if !v.AcceptsPayment(params.PaymentMethod) {
		return nil, ErrPaymentMethod
	}
	services := make([]string, 0, len(params.SelectedServiceIDs))
	seen := make(map[string]struct{}, len(params.SelectedServiceIDs))
	for _, id := range params.SelectedServiceIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		if _, ok := v.Service(id); !ok {
			return nil, ErrUnknownService
		}
		seen[id] = struct{}{}
		services = append(services, id)
	}
	day := calendar.Truncate(params.Date)
	if day.IsZero() {
		return nil, calendar.ErrInvalidDay
	}
	if day.Before(calendar.Truncate(params.Now)) {
		return nil, ErrDateInPast
	}
	now := params.Now.UTC()
	b := &Booking{
		ID:                 params.ID,
		VenueID:            v.ID,
		ProviderID:         v.ProviderID,
		ClientID:           params.ClientID,
		Date:               day,
		GuestCount:         params.GuestCount,
		SelectedServiceIDs: services,
		PaymentMethod:      params.PaymentMethod,
		Total:              params.Total,
		Status:             StatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	b.Record(BookingRequested{BookingID: b.ID, VenueID: b.VenueID, ClientID: b.ClientID, Date: b.Date, GuestCount: b.GuestCount, Total: b.Total, At: now})
	return b, nil
}

// Occupies reports whether the booking blocks the given day.
func (b *Booking) Occupies(day time.Time) bool {
	return b.Status != StatusCancelled && calendar.SameDay(b.Date, day)
}

func (b *Booking) Confirm(now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidState
	}
	return b.moveTo(StatusConfirmed, "", now)
}

func (b *Booking) Cancel(reason string, now time.Time) error {
	if b.Status != StatusPending && b.Status != StatusConfirmed {
		return ErrInvalidState
	}
	return b.moveTo(StatusCancelled, reason, now)
}

func (b *Booking) Complete(now time.Time) error {
	if b.Status != StatusConfirmed {
		return ErrInvalidState
	}
	return b.moveTo(StatusCompleted, "", now)
}

// Finished reports whether the event took place.
func (b *Booking) Finished(now time.Time) bool {
	if b.Status == StatusCompleted {
		return true
	}
	return b.Status == StatusConfirmed && b.Date.Before(calendar.Truncate(now))
}

func (b *Booking) moveTo(to Status, reason string, now time.Time) error {
	from := b.Status
	b.Status = to
	b.UpdatedAt = now.UTC()
	b.Record(BookingStatusChanged{BookingID: b.ID, VenueID: b.VenueID, From: from, To: to, Reason: reason, At: b.UpdatedAt})
	return nil
}

// DateTaken reports whether any booking in the set occupies day.
func DateTaken(bookings []*Booking, day time.Time) bool {
	for _, b := range bookings {
		if b != nil && b.Occupies(day) {
			return true
		}
	}
	return false
}
