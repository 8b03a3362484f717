package venues

import (
	"context"
	"log/slog"

	"eventspace/internal/app/commands"
	"eventspace/internal/app/dto"
	"eventspace/internal/app/handlers/support"
	"eventspace/internal/app/middleware"
	"eventspace/internal/app/outbox"
	"eventspace/internal/app/uow"
	domainvenues "eventspace/internal/domain/venues"
)

const ChangeStatusKey = "venues.status"

// ChangeStatusCommand applies a moderation action to a venue.
type ChangeStatusCommand struct {
	Actor   middleware.Actor
	VenueID string
	Action  domainvenues.Action
}

func (c ChangeStatusCommand) Key() string              { return ChangeStatusKey }
func (c ChangeStatusCommand) Caller() middleware.Actor { return c.Actor }
func (c ChangeStatusCommand) RequiredRole() string     { return middleware.RoleAdmin }
func (c ChangeStatusCommand) MutatesCatalog()          {}

type ChangeStatusHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Clock      support.Clock
	Logger     *slog.Logger
}

func (h *ChangeStatusHandler) Handle(ctx context.Context, cmd ChangeStatusCommand) (dto.Venue, error) {
	scope, err := support.Begin(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return dto.Venue{}, err
	}
	defer scope.End()

	venue, err := scope.Unit.Venues().ByID(scope.Ctx, domainvenues.VenueID(cmd.VenueID))
	if err != nil {
		return dto.Venue{}, err
	}
	from := venue.Status
	if err := venue.Transition(cmd.Action, h.Clock.Now()); err != nil {
		return dto.Venue{}, err
	}
	if err := scope.Unit.Venues().Save(scope.Ctx, venue); err != nil {
		return dto.Venue{}, err
	}
	if err := outbox.RecordFrom(scope.Ctx, h.Outbox, h.Encoder, venue); err != nil {
		return dto.Venue{}, err
	}
	if err := scope.Commit(); err != nil {
		return dto.Venue{}, err
	}
	if h.Logger != nil {
		h.Logger.Info("venue status changed", "venue_id", venue.ID, "from", from, "to", venue.Status, "admin_id", cmd.Actor.ID)
	}
	return dto.MapVenue(venue), nil
}

var _ commands.Handler[ChangeStatusCommand, dto.Venue] = (*ChangeStatusHandler)(nil)
var _ middleware.RoleScoped = ChangeStatusCommand{}
