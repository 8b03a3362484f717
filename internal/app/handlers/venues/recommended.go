package venues

import (
	"context"
	"strconv"

	"eventspace/internal/app/dto"
	"eventspace/internal/app/handlers/support"
	"eventspace/internal/app/queries"
	"eventspace/internal/app/uow"
	domainvenues "eventspace/internal/domain/venues"
)

const RecommendedKey = "venues.recommended"

// MaxRecommended bounds the limit a caller may ask for.
const MaxRecommended = 50

type RecommendedQuery struct {
	Limit int
}

func (q RecommendedQuery) Key() string          { return RecommendedKey }
func (q RecommendedQuery) CacheKey() string     { return "limit=" + strconv.Itoa(q.Limit) }
func (q RecommendedQuery) ResultPrototype() any { return &[]dto.Venue{} }

func (q RecommendedQuery) Validate() error {
	if q.Limit < 0 || q.Limit > MaxRecommended {
		return domainvenues.Invalid("limit", "must be between 1 and "+strconv.Itoa(MaxRecommended))
	}
	return nil
}

type RecommendedHandler struct {
	UoWFactory   uow.UoWFactory
	DefaultLimit int
}

func (h *RecommendedHandler) Handle(ctx context.Context, q RecommendedQuery) ([]dto.Venue, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	all, err := unit.Venues().All(ctx)
	if err != nil {
		return nil, err
	}
	limit := q.Limit
	if limit == 0 {
		limit = h.DefaultLimit
	}
	return dto.MapVenues(domainvenues.Recommended(all, limit)), nil
}

var _ queries.Handler[RecommendedQuery, []dto.Venue] = (*RecommendedHandler)(nil)
