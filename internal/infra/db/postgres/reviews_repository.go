package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainbooking "eventspace/internal/domain/booking"
	domainreviews "eventspace/internal/domain/reviews"
	domainvenues "eventspace/internal/domain/venues"
)

const reviewColumns = `id, booking_id, author_id, venue_id, rating, text, created_at`

type ReviewsRepository struct {
	pool *pgxpool.Pool
}

func NewReviewsRepository(pool *pgxpool.Pool) *ReviewsRepository {
	return &ReviewsRepository{pool: pool}
}

func (r *ReviewsRepository) ByBooking(ctx context.Context, bookingID domainbooking.BookingID, authorID string) (*domainreviews.Review, error) {
	const op = "postgres.ReviewsRepository.ByBooking"
	row := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE booking_id = $1 AND author_id = $2`, string(bookingID), authorID)
	rev, err := scanReview(row)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err, domainreviews.ErrNotFound))
	}
	return rev, nil
}

func (r *ReviewsRepository) ListByVenue(ctx context.Context, venueID domainvenues.VenueID, limit, offset int) ([]*domainreviews.Review, error) {
	const op = "postgres.ReviewsRepository.ListByVenue"
	var lim any
	if limit > 0 {
		lim = limit
	}
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE venue_id = $1
		ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`, string(venueID), lim, max(offset, 0))
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err, nil))
	}
	defer rows.Close()
	out := make([]*domainreviews.Review, 0)
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
		out = append(out, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err, nil))
	}
	return out, nil
}

func (r *ReviewsRepository) Save(ctx context.Context, review *domainreviews.Review) error {
	const op = "postgres.ReviewsRepository.Save"
	_, err := conn(ctx, r.pool).Exec(ctx,
		`INSERT INTO reviews (`+reviewColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET rating = EXCLUDED.rating, text = EXCLUDED.text`,
		string(review.ID), string(review.BookingID), review.AuthorID, string(review.VenueID),
		review.Rating, review.Text, review.CreatedAt.UTC(),
	)
	if _, dup := uniqueViolation(err); dup {
		return domainreviews.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err, nil))
	}
	return nil
}

func scanReview(row pgx.Row) (*domainreviews.Review, error) {
	var (
		rev                domainreviews.Review
		id, booking, venue string
		createdAt          time.Time
	)
	if err := row.Scan(&id, &booking, &rev.AuthorID, &venue, &rev.Rating, &rev.Text, &createdAt); err != nil {
		return nil, err
	}
	rev.ID = domainreviews.ReviewID(id)
	rev.BookingID = domainbooking.BookingID(booking)
	rev.VenueID = domainvenues.VenueID(venue)
	rev.CreatedAt = createdAt.UTC()
	return &rev, nil
}
