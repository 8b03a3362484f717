package booking

import (
	"context"
	"log/slog"

	"eventspace/internal/app/commands"
	"eventspace/internal/app/dto"
	"eventspace/internal/app/handlers/support"
	"eventspace/internal/app/middleware"
	"eventspace/internal/app/outbox"
	"eventspace/internal/app/uow"
	domainbooking "eventspace/internal/domain/booking"
	domainvenues "eventspace/internal/domain/venues"
)

type Transition string

const (
	TransitionConfirm  Transition = "confirm"
	TransitionCancel   Transition = "cancel"
	TransitionComplete Transition = "complete"
)

// Bus keys, one per transition.
const (
	ConfirmBookingKey  = "booking.confirm"
	CancelBookingKey   = "booking.cancel"
	CompleteBookingKey = "booking.complete"
)

// TransitionCommand moves a booking through its lifecycle. The venue's
// provider confirms and completes; either party may cancel.
type TransitionCommand struct {
	Actor     middleware.Actor
	BookingID string
	Action    Transition
	Reason    string
}

func (c TransitionCommand) Key() string              { return "booking." + string(c.Action) }
func (c TransitionCommand) Caller() middleware.Actor { return c.Actor }

type TransitionHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Clock      support.Clock
	Logger     *slog.Logger
}

func (h *TransitionHandler) Handle(ctx context.Context, cmd TransitionCommand) (dto.Booking, error) {
	scope, err := support.Begin(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return dto.Booking{}, err
	}
	defer scope.End()

	booking, err := scope.Unit.Bookings().ByID(scope.Ctx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return dto.Booking{}, err
	}
	isProvider := string(booking.ProviderID) == cmd.Actor.ID || cmd.Actor.IsAdmin()
	isClient := booking.ClientID == cmd.Actor.ID

	now := h.Clock.Now()
	switch cmd.Action {
	case TransitionConfirm:
		if !isProvider {
			return dto.Booking{}, middleware.ErrForbidden
		}
		err = booking.Confirm(now)
	case TransitionComplete:
		if !isProvider {
			return dto.Booking{}, middleware.ErrForbidden
		}
		err = booking.Complete(now)
	case TransitionCancel:
		if !isProvider && !isClient {
			return dto.Booking{}, middleware.ErrForbidden
		}
		err = booking.Cancel(cmd.Reason, now)
	default:
		return dto.Booking{}, domainvenues.Invalid("action", "is unknown")
	}
	if err != nil {
		return dto.Booking{}, err
	}
	if err := scope.Unit.Bookings().Save(scope.Ctx, booking); err != nil {
		return dto.Booking{}, err
	}
	if err := outbox.RecordFrom(scope.Ctx, h.Outbox, h.Encoder, booking); err != nil {
		return dto.Booking{}, err
	}
	venue, err := scope.Unit.Venues().ByID(scope.Ctx, booking.VenueID)
	if err != nil {
		venue = nil
	}
	if err := scope.Commit(); err != nil {
		return dto.Booking{}, err
	}
	if h.Logger != nil {
		h.Logger.Info("booking transitioned", "booking_id", booking.ID, "action", cmd.Action, "status", booking.Status, "actor_id", cmd.Actor.ID)
	}
	return dto.MapBooking(booking, venue, false), nil
}

var _ commands.Handler[TransitionCommand, dto.Booking] = (*TransitionHandler)(nil)
