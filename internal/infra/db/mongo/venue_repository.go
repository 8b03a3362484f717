package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainvenues "eventspace/internal/domain/venues"
)

// VenueRepository stores venues with an insertion sequence so listings keep
// their original order. Save never overwrites the view counter, which only
// RecordView moves.
type VenueRepository struct {
	col *mongo.Collection
	seq func() int64
}

func NewVenueRepository(db *mongo.Database) *VenueRepository {
	return &VenueRepository{
		col: db.Collection(venuesCollection),
		seq: func() int64 { return time.Now().UnixNano() },
	}
}

func (r *VenueRepository) ByID(ctx context.Context, id domainvenues.VenueID) (*domainvenues.Venue, error) {
	var doc venueDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainvenues.ErrVenueNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *VenueRepository) All(ctx context.Context) ([]*domainvenues.Venue, error) {
	return r.find(ctx, bson.M{})
}

func (r *VenueRepository) ByProvider(ctx context.Context, provider domainvenues.ProviderID) ([]*domainvenues.Venue, error) {
	return r.find(ctx, bson.M{"provider_id": string(provider)})
}

func (r *VenueRepository) find(ctx context.Context, filter bson.M) ([]*domainvenues.Venue, error) {
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []venueDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domainvenues.Venue, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toAggregate())
	}
	return out, nil
}

func (r *VenueRepository) Save(ctx context.Context, v *domainvenues.Venue) error {
	doc := newVenueDocument(v)
	set, err := toBSONMap(doc)
	if err != nil {
		return err
	}
	delete(set, "_id")
	delete(set, "seq")
	delete(set, "views")
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"seq": r.seq(), "views": v.Views},
	}
	_, err = r.col.UpdateByID(ctx, doc.ID, update, options.Update().SetUpsert(true))
	return err
}

// RecordView increments the counter atomically.
func (r *VenueRepository) RecordView(ctx context.Context, id domainvenues.VenueID) (*domainvenues.Venue, error) {
	var doc venueDocument
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": string(id)},
		bson.M{"$inc": bson.M{"views": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domainvenues.ErrVenueNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toAggregate(), nil
}

type serviceDocument struct {
	ID          string  `bson:"id"`
	Name        string  `bson:"name"`
	Description string  `bson:"description,omitempty"`
	Price       float64 `bson:"price"`
	IsOptional  bool    `bson:"is_optional"`
}

type venueDocument struct {
	ID             string            `bson:"_id"`
	Seq            int64             `bson:"seq"`
	ProviderID     string            `bson:"provider_id"`
	Name           string            `bson:"name"`
	Description    string            `bson:"description"`
	Address        string            `bson:"address"`
	Zone           string            `bson:"zone"`
	Category       string            `bson:"category"`
	Price          float64           `bson:"price"`
	Capacity       int               `bson:"capacity"`
	Images         []string          `bson:"images"`
	PaymentMethods []string          `bson:"payment_methods"`
	Amenities      []string          `bson:"amenities"`
	Services       []serviceDocument `bson:"services"`
	Views          int               `bson:"views"`
	Favorites      int               `bson:"favorites"`
	Rating         float64           `bson:"rating"`
	ReviewCount    int               `bson:"review_count"`
	Status         string            `bson:"status"`
	CreatedAt      time.Time         `bson:"created_at"`
	UpdatedAt      time.Time         `bson:"updated_at"`
}

func newVenueDocument(v *domainvenues.Venue) venueDocument {
	methods := make([]string, 0, len(v.PaymentMethods))
	for _, m := range v.PaymentMethods {
		methods = append(methods, string(m))
	}
	services := make([]serviceDocument, 0, len(v.Services))
	for _, s := range v.Services {
		services = append(services, serviceDocument(s))
	}
	return venueDocument{
		ID:             string(v.ID),
		ProviderID:     string(v.ProviderID),
		Name:           v.Name,
		Description:    v.Description,
		Address:        v.Address,
		Zone:           v.Zone,
		Category:       string(v.Category),
		Price:          v.Price,
		Capacity:       v.Capacity,
		Images:         append([]string{}, v.Images...),
		PaymentMethods: methods,
		Amenities:      append([]string{}, v.Amenities...),
		Services:       services,
		Views:          v.Views,
		Favorites:      v.Favorites,
		Rating:         v.Rating,
		ReviewCount:    v.ReviewCount,
		Status:         string(v.Status),
		CreatedAt:      v.CreatedAt.UTC(),
		UpdatedAt:      v.UpdatedAt.UTC(),
	}
}

func (d venueDocument) toAggregate() *domainvenues.Venue {
	methods := make([]domainvenues.PaymentMethod, 0, len(d.PaymentMethods))
	for _, m := range d.PaymentMethods {
		methods = append(methods, domainvenues.PaymentMethod(m))
	}
	services := make([]domainvenues.Service, 0, len(d.Services))
	for _, s := range d.Services {
		services = append(services, domainvenues.Service(s))
	}
	return &domainvenues.Venue{
		ID:             domainvenues.VenueID(d.ID),
		ProviderID:     domainvenues.ProviderID(d.ProviderID),
		Name:           d.Name,
		Description:    d.Description,
		Address:        d.Address,
		Zone:           d.Zone,
		Category:       domainvenues.Category(d.Category),
		Price:          d.Price,
		Capacity:       d.Capacity,
		Images:         append([]string{}, d.Images...),
		PaymentMethods: methods,
		Amenities:      append([]string{}, d.Amenities...),
		Services:       services,
		Views:          d.Views,
		Favorites:      d.Favorites,
		Rating:         d.Rating,
		ReviewCount:    d.ReviewCount,
		Status:         domainvenues.Status(d.Status),
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}
}

func toBSONMap(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}
