package reviews

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
	domainreviews "eventspace/internal/domain/reviews"
)

const UpdateReviewKey = "reviews.update"

// UpdateReviewCommand edits the caller's review of a booking. The venue
// rating is adjusted without changing its review count.
type UpdateReviewCommand struct {
	Actor     middleware.Actor
	BookingID string
	Rating    int
	Text      string
}

func (c UpdateReviewCommand) Key() string              { return UpdateReviewKey }
func (c UpdateReviewCommand) Caller() middleware.Actor { return c.Actor }
func (c UpdateReviewCommand) MutatesCatalog()          {}

func (c UpdateReviewCommand) Validate() error {
	if c.Rating < 1 || c.Rating > 5 {
		return domainreviews.ErrInvalidRating
	}
	return nil
}

type UpdateReviewHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Clock      support.Clock
	Logger     *slog.Logger
}

func (h *UpdateReviewHandler) Handle(ctx context.Context, cmd UpdateReviewCommand) (dto.Review, error) {
	scope, err := support.Begin(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return dto.Review{}, err
	}
	defer scope.End()
	unit, ctx := scope.Unit, scope.Ctx

	now := h.Clock.Now()
	booking, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return dto.Review{}, err
	}
	if booking.ClientID != cmd.Actor.ID {
		return dto.Review{}, domainbooking.ErrNotParticipant
	}
	review, err := unit.Reviews().ByBooking(ctx, booking.ID, cmd.Actor.ID)
	if err != nil {
		return dto.Review{}, err
	}
	previous, err := review.Update(cmd.Rating, cmd.Text, now)
	if err != nil {
		return dto.Review{}, err
	}
	venue, err := unit.Venues().ByID(ctx, review.VenueID)
	if err != nil {
		return dto.Review{}, err
	}
	if err := venue.ReviseReview(previous, review.Rating, now); err != nil {
		return dto.Review{}, err
	}
	if err := unit.Reviews().Save(ctx, review); err != nil {
		return dto.Review{}, err
	}
	if err := unit.Venues().Save(ctx, venue); err != nil {
		return dto.Review{}, err
	}
	if err := outbox.RecordFrom(ctx, h.Outbox, h.Encoder, review, venue); err != nil {
		return dto.Review{}, err
	}
	if err := scope.Commit(); err != nil {
		return dto.Review{}, err
	}

	if h.Logger != nil {
		h.Logger.Info("review updated", "review_id", review.ID, "venue_id", venue.ID, "author_id", cmd.Actor.ID, "rating", review.Rating)
	}
	return dto.MapReview(review), nil
}

var _ commands.Handler[UpdateReviewCommand, dto.Review] = (*UpdateReviewHandler)(nil)
