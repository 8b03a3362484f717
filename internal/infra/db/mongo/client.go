package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	venuesCollection      = "venues"
	bookingsCollection    = "bookings"
	reviewsCollection     = "reviews"
	favoritesCollection   = "favorites"
	idempotencyCollection = "app_idempotency"

	bookingDayIndex = "uniq_active_booking_day"
)

type Client struct {
	DB *mongo.Database
}

// New connects and pings within a bounded window.
func New(ctx context.Context, uri, database string) (*Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	opts := options.Client().ApplyURI(uri).SetRetryWrites(true)
	m, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := m.Ping(ctx, nil); err != nil {
		_ = m.Disconnect(context.Background())
		return nil, err
	}
	return &Client{DB: m.Database(database)}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.DB.Client().Ping(ctx, nil)
}

func (c *Client) Close(ctx context.Context) error {
	return c.DB.Client().Disconnect(ctx)
}

// EnsureIndexes creates the indexes the repositories rely on. A booking day
// may hold one non-cancelled booking per venue.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	specs := map[string][]mongo.IndexModel{
		venuesCollection: {
			{Keys: bson.D{{Key: "provider_id", Value: 1}}},
			{Keys: bson.D{{Key: "seq", Value: 1}}},
		},
		bookingsCollection: {
			{Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "day", Value: -1}}},
			{
				Keys: bson.D{{Key: "venue_id", Value: 1}, {Key: "day", Value: 1}},
				Options: options.Index().
					SetName(bookingDayIndex).
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"active": true}),
			},
		},
		reviewsCollection: {
			{Keys: bson.D{{Key: "booking_id", Value: 1}, {Key: "author_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "venue_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		favoritesCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}}},
		},
	}
	var errs []error
	for name, models := range specs {
		if _, err := c.DB.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
