package venues

import (
	"context"
	"errors"

	"eventspace/internal/app/dto"
	"eventspace/internal/app/handlers/support"
	"eventspace/internal/app/middleware"
	"eventspace/internal/app/queries"
	"eventspace/internal/app/uow"
	domainvenues "eventspace/internal/domain/venues"
)

const UserFavoritesKey = "favorites.user"

// UserFavoritesQuery lists the listed venues the caller marked as favorite.
type UserFavoritesQuery struct {
	Actor middleware.Actor
}

func (q UserFavoritesQuery) Key() string              { return UserFavoritesKey }
func (q UserFavoritesQuery) Caller() middleware.Actor { return q.Actor }

type UserFavoritesHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *UserFavoritesHandler) Handle(ctx context.Context, q UserFavoritesQuery) ([]dto.Venue, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	ids, err := unit.Favorites().ListByUser(ctx, q.Actor.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.Venue, 0, len(ids))
	for _, id := range ids {
		venue, err := unit.Venues().ByID(ctx, id)
		if errors.Is(err, domainvenues.ErrVenueNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if venue.Listed() {
			out = append(out, dto.MapVenue(venue))
		}
	}
	return out, nil
}

var _ queries.Handler[UserFavoritesQuery, []dto.Venue] = (*UserFavoritesHandler)(nil)
