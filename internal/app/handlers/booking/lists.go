package booking

import (
	"context"
	"errors"
	"sort"
	"strings"

	"eventspace/internal/app/dto"
	"eventspace/internal/app/handlers/support"
	"eventspace/internal/app/middleware"
	"eventspace/internal/app/queries"
	"eventspace/internal/app/uow"
	domainbooking "eventspace/internal/domain/booking"
	domainreviews "eventspace/internal/domain/reviews"
	domainvenues "eventspace/internal/domain/venues"
)

const (
	ClientBookingsKey = "bookings.client"
	VenueBookingsKey  = "bookings.venue"

	allStatuses = "ALL"
)

// ClientBookingsQuery lists the caller's bookings, newest event date first.
type ClientBookingsQuery struct {
	Actor middleware.Actor
}

func (q ClientBookingsQuery) Key() string              { return ClientBookingsKey }
func (q ClientBookingsQuery) Caller() middleware.Actor { return q.Actor }

type ClientBookingsHandler struct {
	UoWFactory uow.UoWFactory
	Clock      support.Clock
}

func (h *ClientBookingsHandler) Handle(ctx context.Context, q ClientBookingsQuery) (dto.BookingCollection, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	defer cleanup()

	bookings, err := unit.Bookings().ListByClient(ctx, q.Actor.ID)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	sortByDateDesc(bookings)

	now := h.Clock.Now()
	venueCache := map[domainvenues.VenueID]*domainvenues.Venue{}
	items := make([]dto.Booking, 0, len(bookings))
	for _, b := range bookings {
		venue, err := lookupVenue(ctx, unit, venueCache, b.VenueID)
		if err != nil {
			return dto.BookingCollection{}, err
		}
		canReview := false
		if b.Finished(now) {
			_, err := unit.Reviews().ByBooking(ctx, b.ID, q.Actor.ID)
			switch {
			case errors.Is(err, domainreviews.ErrNotFound):
				canReview = true
			case err != nil:
				return dto.BookingCollection{}, err
			}
		}
		items = append(items, dto.MapBooking(b, venue, canReview))
	}
	return dto.BookingCollection{Items: items}, nil
}

// VenueBookingsQuery lists bookings of one venue for its provider. Status
// filters by booking status; empty or ALL returns every booking.
type VenueBookingsQuery struct {
	Actor   middleware.Actor
	VenueID string
	Status  string
}

func (q VenueBookingsQuery) Key() string              { return VenueBookingsKey }
func (q VenueBookingsQuery) Caller() middleware.Actor { return q.Actor }

type VenueBookingsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *VenueBookingsHandler) Handle(ctx context.Context, q VenueBookingsQuery) (dto.BookingCollection, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	defer cleanup()

	venue, err := unit.Venues().ByID(ctx, domainvenues.VenueID(q.VenueID))
	if err != nil {
		return dto.BookingCollection{}, err
	}
	if string(venue.ProviderID) != q.Actor.ID && !q.Actor.IsAdmin() {
		return dto.BookingCollection{}, middleware.ErrForbidden
	}
	bookings, err := unit.Bookings().ListByVenue(ctx, venue.ID)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	sortByDateDesc(bookings)

	filter := strings.ToUpper(strings.TrimSpace(q.Status))
	items := make([]dto.Booking, 0, len(bookings))
	for _, b := range bookings {
		if filter != "" && filter != allStatuses && string(b.Status) != filter {
			continue
		}
		items = append(items, dto.MapBooking(b, venue, false))
	}
	return dto.BookingCollection{Items: items}, nil
}

func sortByDateDesc(items []*domainbooking.Booking) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date)
	})
}

func lookupVenue(ctx context.Context, unit uow.UnitOfWork, cache map[domainvenues.VenueID]*domainvenues.Venue, id domainvenues.VenueID) (*domainvenues.Venue, error) {
	if v, ok := cache[id]; ok {
		return v, nil
	}
	v, err := unit.Venues().ByID(ctx, id)
	if errors.Is(err, domainvenues.ErrVenueNotFound) {
		v, err = nil, nil
	}
	if err != nil {
		return nil, err
	}
	cache[id] = v
	return v, nil
}

var (
	_ queries.Handler[ClientBookingsQuery, dto.BookingCollection] = (*ClientBookingsHandler)(nil)
	_ queries.Handler[VenueBookingsQuery, dto.BookingCollection]  = (*VenueBookingsHandler)(nil)
)
