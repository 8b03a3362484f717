package venues

import (
	"context"

	"eventspace/internal/app/dto"
	"eventspace/internal/app/handlers/support"
	"eventspace/internal/app/middleware"
	"eventspace/internal/app/queries"
	"eventspace/internal/app/uow"
	domainvenues "eventspace/internal/domain/venues"
)

const ProviderVenuesKey = "venues.provider"

// ProviderVenuesQuery lists every venue owned by the caller, whatever its status.
type ProviderVenuesQuery struct {
	Actor middleware.Actor
}

func (q ProviderVenuesQuery) Key() string              { return ProviderVenuesKey }
func (q ProviderVenuesQuery) Caller() middleware.Actor { return q.Actor }

type ProviderVenuesHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ProviderVenuesHandler) Handle(ctx context.Context, q ProviderVenuesQuery) ([]dto.Venue, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	items, err := unit.Venues().ByProvider(ctx, domainvenues.ProviderID(q.Actor.ID))
	if err != nil {
		return nil, err
	}
	return dto.MapVenues(items), nil
}

var _ queries.Handler[ProviderVenuesQuery, []dto.Venue] = (*ProviderVenuesHandler)(nil)
