package venues

import (
	"context"
	"strings"

	"eventspace/internal/app/dto"
	"eventspace/internal/app/handlers/support"
	"eventspace/internal/app/queries"
	"eventspace/internal/app/uow"
	domainvenues "eventspace/internal/domain/venues"
)

const DetailKey = "venues.detail"

// DetailQuery loads one venue and counts the view.
type DetailQuery struct {
	VenueID string
}

func (q DetailQuery) Key() string { return DetailKey }

func (q DetailQuery) Validate() error {
	if strings.TrimSpace(q.VenueID) == "" {
		return domainvenues.Invalid("id", "is required")
	}
	return nil
}

type DetailHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *DetailHandler) Handle(ctx context.Context, q DetailQuery) (dto.Venue, error) {
	scope, err := support.Begin(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return dto.Venue{}, err
	}
	defer scope.End()

	venue, err := scope.Unit.Venues().RecordView(scope.Ctx, domainvenues.VenueID(q.VenueID))
	if err != nil {
		return dto.Venue{}, err
	}
	if err := scope.Commit(); err != nil {
		return dto.Venue{}, err
	}
	return dto.MapVenue(venue), nil
}

var _ queries.Handler[DetailQuery, dto.Venue] = (*DetailHandler)(nil)
