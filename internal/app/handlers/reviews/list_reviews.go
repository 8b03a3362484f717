package reviews

import (
	"context"

	"eventspace/internal/app/dto"
	"eventspace/internal/app/handlers/support"
	"eventspace/internal/app/queries"
	"eventspace/internal/app/uow"
	domainvenues "eventspace/internal/domain/venues"
)

const ListVenueReviewsKey = "reviews.venue"

const (
	defaultReviewsLimit = 20
	maxReviewsLimit     = 100
)

// ListVenueReviewsQuery pages through a venue's reviews, newest first.
type ListVenueReviewsQuery struct {
	VenueID string
	Limit   int
	Offset  int
}

func (q ListVenueReviewsQuery) Key() string { return ListVenueReviewsKey }

type ListVenueReviewsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListVenueReviewsHandler) Handle(ctx context.Context, q ListVenueReviewsQuery) (dto.ReviewCollection, error) {
	limit := normalizeLimit(q.Limit)
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ReviewCollection{}, err
	}
	defer cleanup()

	venue, err := unit.Venues().ByID(ctx, domainvenues.VenueID(q.VenueID))
	if err != nil {
		return dto.ReviewCollection{}, err
	}
	items, err := unit.Reviews().ListByVenue(ctx, venue.ID, limit, offset)
	if err != nil {
		return dto.ReviewCollection{}, err
	}
	return dto.ReviewCollection{Items: dto.MapReviews(items), Total: venue.ReviewCount}, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultReviewsLimit
	}
	if limit > maxReviewsLimit {
		return maxReviewsLimit
	}
	return limit
}

var _ queries.Handler[ListVenueReviewsQuery, dto.ReviewCollection] = (*ListVenueReviewsHandler)(nil)
