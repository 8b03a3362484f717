package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "eventspace/internal/domain/booking"
	domainreviews "eventspace/internal/domain/reviews"
	domainvenues "eventspace/internal/domain/venues"
)

type ReviewsRepository struct {
	col *mongo.Collection
}

func NewReviewsRepository(db *mongo.Database) *ReviewsRepository {
	return &ReviewsRepository{col: db.Collection(reviewsCollection)}
}

func (r *ReviewsRepository) ByBooking(ctx context.Context, bookingID domainbooking.BookingID, authorID string) (*domainreviews.Review, error) {
	var doc reviewDocument
	err := r.col.FindOne(ctx, bson.M{"booking_id": string(bookingID), "author_id": authorID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domainreviews.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toAggregate(), nil
}

// ListByVenue pages reviews newest first.
func (r *ReviewsRepository) ListByVenue(ctx context.Context, venueID domainvenues.VenueID, limit, offset int) ([]*domainreviews.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if offset > 0 {
		opts.SetSkip(int64(offset))
	}
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := r.col.Find(ctx, bson.M{"venue_id": string(venueID)}, opts)
	if err != nil {
		return nil, err
	}
	var docs []reviewDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domainreviews.Review, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toAggregate())
	}
	return out, nil
}

func (r *ReviewsRepository) Save(ctx context.Context, review *domainreviews.Review) error {
	doc := reviewDocument{
		ID:        string(review.ID),
		BookingID: string(review.BookingID),
		AuthorID:  review.AuthorID,
		VenueID:   string(review.VenueID),
		Rating:    review.Rating,
		Text:      review.Text,
		CreatedAt: review.CreatedAt.UTC(),
	}
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		return domainreviews.ErrDuplicate
	}
	return err
}

type reviewDocument struct {
	ID        string    `bson:"_id"`
	BookingID string    `bson:"booking_id"`
	AuthorID  string    `bson:"author_id"`
	VenueID   string    `bson:"venue_id"`
	Rating    int       `bson:"rating"`
	Text      string    `bson:"text"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d reviewDocument) toAggregate() *domainreviews.Review {
	return &domainreviews.Review{
		ID:        domainreviews.ReviewID(d.ID),
		BookingID: domainbooking.BookingID(d.BookingID),
		AuthorID:  d.AuthorID,
		VenueID:   domainvenues.VenueID(d.VenueID),
		Rating:    d.Rating,
		Text:      d.Text,
		CreatedAt: d.CreatedAt.UTC(),
	}
}
