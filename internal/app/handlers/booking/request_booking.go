package booking

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"eventspace/internal/app/commands"
	"eventspace/internal/app/dto"
	"eventspace/internal/app/handlers/support"
	"eventspace/internal/app/middleware"
	"eventspace/internal/app/outbox"
	"eventspace/internal/app/uow"
	domainbooking "eventspace/internal/domain/booking"
	domainpricing "eventspace/internal/domain/pricing"
	"eventspace/internal/domain/shared/calendar"
	domainvenues "eventspace/internal/domain/venues"
)

const RequestBookingKey = "booking.request"

// QuoteTolerance is how far a client-quoted total may drift from the
// server-side price before the request is refused.
const QuoteTolerance = 0.01

type RequestBookingCommand struct {
	Actor              middleware.Actor
	VenueID            string
	Date               time.Time
	GuestCount         int
	SelectedServiceIDs []string
	PaymentMethod      string
	QuotedTotal        *float64
	IdempotencyKeyV    string
}

func (c RequestBookingCommand) Key() string              { return RequestBookingKey }
func (c RequestBookingCommand) Caller() middleware.Actor { return c.Actor }
func (c RequestBookingCommand) IdempotencyKey() string   { return c.IdempotencyKeyV }
func (c RequestBookingCommand) ResultPrototype() any     { return &dto.Booking{} }

type RequestBookingHandler struct {
	UoWFactory uow.UoWFactory
	Engine     domainpricing.Engine
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Clock      support.Clock
	Logger     *slog.Logger
}

func (h *RequestBookingHandler) Handle(ctx context.Context, cmd RequestBookingCommand) (*dto.Booking, error) {
	scope, err := support.Begin(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer scope.End()

	venue, err := scope.Unit.Venues().ByID(scope.Ctx, domainvenues.VenueID(cmd.VenueID))
	if err != nil {
		return nil, err
	}
	now := h.Clock.Now()
	total := h.Engine.ComputeTotal(venue, cmd.GuestCount, cmd.SelectedServiceIDs)

	booking, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:                 domainbooking.BookingID(uuid.NewString()),
		Venue:              venue,
		ClientID:           cmd.Actor.ID,
		Date:               cmd.Date,
		GuestCount:         cmd.GuestCount,
		SelectedServiceIDs: cmd.SelectedServiceIDs,
		PaymentMethod:      domainvenues.PaymentMethod(cmd.PaymentMethod),
		Total:              total,
		Now:                now,
	})
	if err != nil {
		return nil, err
	}
	if cmd.QuotedTotal != nil && math.Abs(*cmd.QuotedTotal-total) > QuoteTolerance {
		return nil, domainbooking.ErrQuoteMismatch
	}

	day := booking.Date
	sameDay, err := scope.Unit.Bookings().ListByVenueBetween(scope.Ctx, venue.ID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	if domainbooking.DateTaken(sameDay, day) {
		return nil, domainbooking.ErrDateUnavailable
	}

	if err := scope.Unit.Bookings().Save(scope.Ctx, booking); err != nil {
		return nil, err
	}
	if err := outbox.RecordFrom(scope.Ctx, h.Outbox, h.Encoder, booking); err != nil {
		return nil, err
	}
	if err := scope.Commit(); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("booking requested", "booking_id", booking.ID, "venue_id", venue.ID, "date", calendar.Format(day), "total", total)
	}
	result := dto.MapBooking(booking, venue, false)
	return &result, nil
}

var _ commands.Handler[RequestBookingCommand, *dto.Booking] = (*RequestBookingHandler)(nil)
var _ middleware.IdempotentCommand = RequestBookingCommand{}
