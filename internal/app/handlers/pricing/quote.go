package pricing

import (
	"context"

	"eventspace/internal/app/dto"
	"eventspace/internal/app/handlers/support"
	"eventspace/internal/app/queries"
	"eventspace/internal/app/uow"
	domainpricing "eventspace/internal/domain/pricing"
	domainvenues "eventspace/internal/domain/venues"
)

const QuoteKey = "pricing.quote"

// QuoteQuery prices a prospective booking. GuestCount is clamped to the
// venue capacity before pricing.
type QuoteQuery struct {
	VenueID            string
	GuestCount         int
	SelectedServiceIDs []string
}

func (q QuoteQuery) Key() string { return QuoteKey }

type QuoteHandler struct {
	UoWFactory uow.UoWFactory
	Engine     domainpricing.Engine
}

func (h *QuoteHandler) Handle(ctx context.Context, q QuoteQuery) (dto.Quote, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Quote{}, err
	}
	defer cleanup()

	venue, err := unit.Venues().ByID(ctx, domainvenues.VenueID(q.VenueID))
	if err != nil {
		return dto.Quote{}, err
	}
	guests := domainpricing.ClampGuests(q.GuestCount, venue.Capacity)
	return dto.MapQuote(h.Engine.Quote(venue, guests, q.SelectedServiceIDs)), nil
}

var _ queries.Handler[QuoteQuery, dto.Quote] = (*QuoteHandler)(nil)
