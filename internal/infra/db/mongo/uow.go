package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"eventspace/internal/app/uow"
	domainbooking "eventspace/internal/domain/booking"
	domainfavorites "eventspace/internal/domain/favorites"
	domainreviews "eventspace/internal/domain/reviews"
	domainvenues "eventspace/internal/domain/venues"
)

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Factory wires Mongo session transactions into the generic UnitOfWork
// interface. Transactions need a replica set deployment.
type Factory struct {
	DB *mongo.Database

	VenuesRepo    domainvenues.Repository
	BookingsRepo  domainbooking.Repository
	ReviewsRepo   domainreviews.Repository
	FavoritesRepo domainfavorites.Repository
}

func NewFactory(db *mongo.Database) Factory {
	return Factory{
		DB:            db,
		VenuesRepo:    NewVenueRepository(db),
		BookingsRepo:  NewBookingRepository(db),
		ReviewsRepo:   NewReviewsRepository(db),
		FavoritesRepo: NewFavoritesRepository(db),
	}
}

// Begin starts a MongoDB session and transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())
	if opts.ReadOnly {
		txnOpts = txnOpts.SetReadConcern(readconcern.Majority())
	}
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{
		session:   session,
		venues:    f.VenuesRepo,
		bookings:  f.BookingsRepo,
		reviews:   f.ReviewsRepo,
		favorites: f.FavoritesRepo,
	}, nil
}

type Unit struct {
	session mongo.Session

	venues    domainvenues.Repository
	bookings  domainbooking.Repository
	reviews   domainreviews.Repository
	favorites domainfavorites.Repository
}

func (u *Unit) Venues() domainvenues.Repository {
	return u.venues
}

func (u *Unit) Bookings() domainbooking.Repository {
	return u.bookings
}

func (u *Unit) Reviews() domainreviews.Repository {
	return u.reviews
}

func (u *Unit) Favorites() domainfavorites.Repository {
	return u.favorites
}

func (u *Unit) Commit(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext puts the session into ctx so repository calls join the
// transaction.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}

var _ uow.UoWFactory = Factory{}
