package venues

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"eventspace/internal/app/commands"
	"eventspace/internal/app/dto"
	"eventspace/internal/app/handlers/support"
	"eventspace/internal/app/middleware"
	"eventspace/internal/app/outbox"
	"eventspace/internal/app/uow"
	domainvenues "eventspace/internal/domain/venues"
)

const (
	CreateVenueKey = "venues.create"
	UpdateVenueKey = "venues.update"
)

// CreateVenueCommand lists a new venue owned by the caller. It starts PENDING
// until an admin approves it.
type CreateVenueCommand struct {
	Actor   middleware.Actor
	Details domainvenues.Details
}

func (c CreateVenueCommand) Key() string              { return CreateVenueKey }
func (c CreateVenueCommand) Caller() middleware.Actor { return c.Actor }
func (c CreateVenueCommand) MutatesCatalog()          {}

type CreateVenueHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Clock      support.Clock
	Logger     *slog.Logger
}

func (h *CreateVenueHandler) Handle(ctx context.Context, cmd CreateVenueCommand) (dto.Venue, error) {
	scope, err := support.Begin(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return dto.Venue{}, err
	}
	defer scope.End()

	venue, err := domainvenues.NewVenue(domainvenues.CreateParams{
		ID:         domainvenues.VenueID(uuid.NewString()),
		ProviderID: domainvenues.ProviderID(cmd.Actor.ID),
		Details:    cmd.Details,
		Now:        h.Clock.Now(),
	})
	if err != nil {
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
		h.Logger.Info("venue created", "venue_id", venue.ID, "provider_id", venue.ProviderID)
	}
	return dto.MapVenue(venue), nil
}

// UpdateVenueCommand replaces the editable details of a venue. Only its
// provider or an admin may do so.
type UpdateVenueCommand struct {
	Actor   middleware.Actor
	VenueID string
	Details domainvenues.Details
}

func (c UpdateVenueCommand) Key() string              { return UpdateVenueKey }
func (c UpdateVenueCommand) Caller() middleware.Actor { return c.Actor }
func (c UpdateVenueCommand) MutatesCatalog()          {}

type UpdateVenueHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Clock      support.Clock
}

func (h *UpdateVenueHandler) Handle(ctx context.Context, cmd UpdateVenueCommand) (dto.Venue, error) {
	scope, err := support.Begin(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return dto.Venue{}, err
	}
	defer scope.End()

	venue, err := scope.Unit.Venues().ByID(scope.Ctx, domainvenues.VenueID(cmd.VenueID))
	if err != nil {
		return dto.Venue{}, err
	}
	if string(venue.ProviderID) != cmd.Actor.ID && !cmd.Actor.IsAdmin() {
		return dto.Venue{}, middleware.ErrForbidden
	}
	if err := venue.UpdateDetails(cmd.Details, h.Clock.Now()); err != nil {
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
	return dto.MapVenue(venue), nil
}

var (
	_ commands.Handler[CreateVenueCommand, dto.Venue] = (*CreateVenueHandler)(nil)
	_ commands.Handler[UpdateVenueCommand, dto.Venue] = (*UpdateVenueHandler)(nil)
	_ middleware.CatalogMutation                      = CreateVenueCommand{}
)
