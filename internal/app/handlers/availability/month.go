package availability

import (
	"context"

	"eventspace/internal/app/dto"
	"eventspace/internal/app/handlers/support"
	"eventspace/internal/app/queries"
	"eventspace/internal/app/uow"
	domainavailability "eventspace/internal/domain/availability"
	domainvenues "eventspace/internal/domain/venues"
)

const MonthKey = "availability.month"

// MonthQuery asks for a venue calendar. Month is zero-based.
type MonthQuery struct {
	VenueID string
	Month   int
	Year    int
}

func (q MonthQuery) Key() string { return MonthKey }

func (q MonthQuery) Validate() error {
	return domainavailability.MonthQuery{Month: q.Month, Year: q.Year}.Validate()
}

type MonthHandler struct {
	UoWFactory uow.UoWFactory
	Clock      support.Clock
}

func (h *MonthHandler) Handle(ctx context.Context, q MonthQuery) ([]dto.DateAvailability, error) {
	mq := domainavailability.MonthQuery{Month: q.Month, Year: q.Year}
	if err := mq.Validate(); err != nil {
		return nil, err
	}
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	venueID := domainvenues.VenueID(q.VenueID)
	if _, err := unit.Venues().ByID(ctx, venueID); err != nil {
		return nil, err
	}
	from, to := mq.Bounds()
	bookings, err := unit.Bookings().ListByVenueBetween(ctx, venueID, from, to)
	if err != nil {
		return nil, err
	}
	return dto.MapMonth(domainavailability.Month(mq, bookings, h.Clock.Now())), nil
}

var _ queries.Handler[MonthQuery, []dto.DateAvailability] = (*MonthHandler)(nil)
