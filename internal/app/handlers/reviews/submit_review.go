package reviews

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"eventspace/internal/app/commands"
	"eventspace/internal/app/dto"
	"eventspace/internal/app/handlers/support"
	"eventspace/internal/app/middleware"
	"eventspace/internal/app/outbox"
	"eventspace/internal/app/uow"
	domainbooking "eventspace/internal/domain/booking"
	domainreviews "eventspace/internal/domain/reviews"
)

const SubmitReviewKey = "reviews.submit"

var (
	ErrEventNotFinished = errors.New("reviews: event has not taken place yet")
	ErrDuplicateReview  = domainreviews.ErrDuplicate
)

// SubmitReviewCommand rates a venue after the booked event took place.
type SubmitReviewCommand struct {
	Actor     middleware.Actor
	BookingID string
	Rating    int
	Text      string
}

func (c SubmitReviewCommand) Key() string              { return SubmitReviewKey }
func (c SubmitReviewCommand) Caller() middleware.Actor { return c.Actor }
func (c SubmitReviewCommand) MutatesCatalog()          {}

func (c SubmitReviewCommand) Validate() error {
	if c.Rating < 1 || c.Rating > 5 {
		return domainreviews.ErrInvalidRating
	}
	return nil
}

type SubmitReviewHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Clock      support.Clock
	Logger     *slog.Logger
}

func (h *SubmitReviewHandler) Handle(ctx context.Context, cmd SubmitReviewCommand) (dto.Review, error) {
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
	if !booking.Finished(now) {
		return dto.Review{}, ErrEventNotFinished
	}
	if existing, err := unit.Reviews().ByBooking(ctx, booking.ID, cmd.Actor.ID); err == nil && existing != nil {
		return dto.Review{}, ErrDuplicateReview
	} else if err != nil && !errors.Is(err, domainreviews.ErrNotFound) {
		return dto.Review{}, err
	}

	review, err := domainreviews.Submit(domainreviews.SubmitParams{
		ID:        domainreviews.ReviewID(uuid.NewString()),
		BookingID: booking.ID,
		AuthorID:  cmd.Actor.ID,
		VenueID:   booking.VenueID,
		Rating:    cmd.Rating,
		Text:      cmd.Text,
		CreatedAt: now,
	})
	if err != nil {
		return dto.Review{}, err
	}
	venue, err := unit.Venues().ByID(ctx, booking.VenueID)
	if err != nil {
		return dto.Review{}, err
	}
	if err := venue.ApplyReview(review.Rating, now); err != nil {
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
		h.Logger.Info("review submitted", "booking_id", booking.ID, "venue_id", venue.ID, "author_id", cmd.Actor.ID, "rating", cmd.Rating)
	}
	return dto.MapReview(review), nil
}

var _ commands.Handler[SubmitReviewCommand, dto.Review] = (*SubmitReviewHandler)(nil)
