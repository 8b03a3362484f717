package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainvenues "eventspace/internal/domain/venues"
)

type FavoritesRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewFavoritesRepository(db *mongo.Database) *FavoritesRepository {
	return &FavoritesRepository{col: db.Collection(favoritesCollection), now: time.Now}
}

// Toggle removes the mark when present and inserts it otherwise.
func (r *FavoritesRepository) Toggle(ctx context.Context, userID string, venueID domainvenues.VenueID) (bool, error) {
	id := favoriteID(userID, venueID)
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	if res.DeletedCount > 0 {
		return false, nil
	}
	_, err = r.col.InsertOne(ctx, favoriteDocument{
		ID:        id,
		UserID:    userID,
		VenueID:   string(venueID),
		CreatedAt: r.now().UTC(),
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *FavoritesRepository) ListByUser(ctx context.Context, userID string) ([]domainvenues.VenueID, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	var docs []favoriteDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domainvenues.VenueID, 0, len(docs))
	for _, d := range docs {
		out = append(out, domainvenues.VenueID(d.VenueID))
	}
	return out, nil
}

type favoriteDocument struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	VenueID   string    `bson:"venue_id"`
	CreatedAt time.Time `bson:"created_at"`
}

func favoriteID(userID string, venueID domainvenues.VenueID) string {
	return userID + "|" + string(venueID)
}
