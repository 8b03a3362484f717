package venues

import (
	"context"

	"eventspace/internal/app/commands"
	"eventspace/internal/app/handlers/support"
	"eventspace/internal/app/middleware"
	"eventspace/internal/app/outbox"
	"eventspace/internal/app/uow"
	domainvenues "eventspace/internal/domain/venues"
)

const ToggleFavoriteKey = "favorites.toggle"

type ToggleFavoriteCommand struct {
	Actor   middleware.Actor
	VenueID string
}

func (c ToggleFavoriteCommand) Key() string              { return ToggleFavoriteKey }
func (c ToggleFavoriteCommand) Caller() middleware.Actor { return c.Actor }
func (c ToggleFavoriteCommand) MutatesCatalog()          {}

type FavoriteResult struct {
	VenueID   string `json:"venueId"`
	Favorited bool   `json:"favorited"`
	Favorites int    `json:"favorites"`
}

type ToggleFavoriteHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Clock      support.Clock
}

func (h *ToggleFavoriteHandler) Handle(ctx context.Context, cmd ToggleFavoriteCommand) (FavoriteResult, error) {
	scope, err := support.Begin(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return FavoriteResult{}, err
	}
	defer scope.End()

	id := domainvenues.VenueID(cmd.VenueID)
	venue, err := scope.Unit.Venues().ByID(scope.Ctx, id)
	if err != nil {
		return FavoriteResult{}, err
	}
	if !venue.Listed() {
		return FavoriteResult{}, domainvenues.ErrVenueNotFound
	}
	added, err := scope.Unit.Favorites().Toggle(scope.Ctx, cmd.Actor.ID, id)
	if err != nil {
		return FavoriteResult{}, err
	}
	now := h.Clock.Now()
	if added {
		venue.AddFavorite(cmd.Actor.ID, now)
	} else {
		venue.RemoveFavorite(cmd.Actor.ID, now)
	}
	if err := scope.Unit.Venues().Save(scope.Ctx, venue); err != nil {
		return FavoriteResult{}, err
	}
	if err := outbox.RecordFrom(scope.Ctx, h.Outbox, h.Encoder, venue); err != nil {
		return FavoriteResult{}, err
	}
	if err := scope.Commit(); err != nil {
		return FavoriteResult{}, err
	}
	return FavoriteResult{VenueID: cmd.VenueID, Favorited: added, Favorites: venue.Favorites}, nil
}

var _ commands.Handler[ToggleFavoriteCommand, FavoriteResult] = (*ToggleFavoriteHandler)(nil)
