package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "eventspace/internal/domain/booking"
	domainvenues "eventspace/internal/domain/venues"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection(bookingsCollection)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrBookingNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

// Save upserts guarded by the aggregate version. The partial unique index on
// (venue_id, day) rejects a second active booking for the same day.
func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	update := bson.M{"$set": doc}
	res, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if duplicateOn(err, bookingDayIndex) {
				return domainbooking.ErrDateUnavailable
			}
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) ListByClient(ctx context.Context, clientID string) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"client_id": clientID})
}

func (r *BookingRepository) ListByVenue(ctx context.Context, venueID domainvenues.VenueID) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"venue_id": string(venueID)})
}

func (r *BookingRepository) ListByVenueBetween(ctx context.Context, venueID domainvenues.VenueID, from, to time.Time) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{
		"venue_id": string(venueID),
		"day":      bson.M{"$gte": from.UTC().UnixMilli(), "$lt": to.UTC().UnixMilli()},
	})
}

func (r *BookingRepository) find(ctx context.Context, filter bson.M) ([]*domainbooking.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []bookingDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domainbooking.Booking, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toAggregate())
	}
	return out, nil
}

type bookingDocument struct {
	ID            string   `bson:"_id"`
	VenueID       string   `bson:"venue_id"`
	ProviderID    string   `bson:"provider_id"`
	ClientID      string   `bson:"client_id"`
	Day           int64    `bson:"day"`
	Active        bool     `bson:"active"`
	GuestCount    int      `bson:"guest_count"`
	Services      []string `bson:"services"`
	PaymentMethod string   `bson:"payment_method"`
	Total         float64  `bson:"total"`
	Status        string   `bson:"status"`
	CreatedAt     int64    `bson:"created_at"`
	UpdatedAt     int64    `bson:"updated_at"`
	Version       int64    `bson:"version"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:            string(b.ID),
		VenueID:       string(b.VenueID),
		ProviderID:    string(b.ProviderID),
		ClientID:      b.ClientID,
		Day:           b.Date.UTC().UnixMilli(),
		Active:        b.Status != domainbooking.StatusCancelled,
		GuestCount:    b.GuestCount,
		Services:      append([]string{}, b.SelectedServiceIDs...),
		PaymentMethod: string(b.PaymentMethod),
		Total:         b.Total,
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt.UnixMilli(),
		UpdatedAt:     b.UpdatedAt.UnixMilli(),
		Version:       b.Version,
	}
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	return &domainbooking.Booking{
		ID:                 domainbooking.BookingID(d.ID),
		VenueID:            domainvenues.VenueID(d.VenueID),
		ProviderID:         domainvenues.ProviderID(d.ProviderID),
		ClientID:           d.ClientID,
		Date:               timestampToTime(d.Day),
		GuestCount:         d.GuestCount,
		SelectedServiceIDs: append([]string{}, d.Services...),
		PaymentMethod:      domainvenues.PaymentMethod(d.PaymentMethod),
		Total:              d.Total,
		Status:             domainbooking.Status(d.Status),
		CreatedAt:          timestampToTime(d.CreatedAt),
		UpdatedAt:          timestampToTime(d.UpdatedAt),
		Version:            d.Version,
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// duplicateOn reports whether a duplicate key error was raised by the named
// index.
func duplicateOn(err error, index string) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.HasErrorCode(11000) && strings.Contains(e.Message, index) {
				return true
			}
		}
	}
	return strings.Contains(err.Error(), index)
}
