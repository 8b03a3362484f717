package reviews

import (
	"context"
	"errors"
	"strings"
	"time"

	"eventspace/internal/domain/booking"
	"eventspace/internal/domain/shared/events"
	"eventspace/internal/domain/venues"
)

var (
	ErrInvalidRating = errors.New("reviews: rating must be between 1 and 5")
	ErrNotFound      = errors.New("reviews: not found")
	ErrDuplicate     = errors.New("reviews: review already exists for booking")
)

type ReviewID string

type Review struct {
	ID        ReviewID
	BookingID booking.BookingID
	AuthorID  string
	VenueID   venues.VenueID
	Rating    int
	Text      string
	CreatedAt time.Time
	events.EventRecorder
}

type Repository interface {
	ByBooking(ctx context.Context, bookingID booking.BookingID, authorID string) (*Review, error)
	ListByVenue(ctx context.Context, venueID venues.VenueID, limit, offset int) ([]*Review, error)
	Save(ctx context.Context, review *Review) error
}

type SubmitParams struct {
	ID        ReviewID
	BookingID booking.BookingID
	AuthorID  string
	VenueID   venues.VenueID
	Rating    int
	Text      string
	CreatedAt time.Time
}

func Submit(params SubmitParams) (*Review, error) {
	if params.Rating < 1 || params.Rating > 5 {
		return nil, ErrInvalidRating
	}
	review := &Review{
		ID:        params.ID,
		BookingID: params.BookingID,
		AuthorID:  params.AuthorID,
		VenueID:   params.VenueID,
		Rating:    params.Rating,
		Text:      strings.TrimSpace(params.Text),
		CreatedAt: params.CreatedAt.UTC(),
	}
	review.Record(ReviewSubmitted{ReviewID: review.ID, BookingID: review.BookingID, VenueID: review.VenueID, Rating: review.Rating, At: review.CreatedAt})
	return review, nil
}

// Update replaces rating and text and returns the previous rating.
func (r *Review) Update(rating int, text string, now time.Time) (int, error) {
	if rating < 1 || rating > 5 {
		return 0, ErrInvalidRating
	}
	previous := r.Rating
	r.Rating = rating
	r.Text = strings.TrimSpace(text)
	r.Record(ReviewUpdated{ReviewID: r.ID, BookingID: r.BookingID, VenueID: r.VenueID, Previous: previous, Rating: rating, At: now.UTC()})
	return previous, nil
}
