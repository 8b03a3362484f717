package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eventspace/internal/app/uow"
	domainbooking "eventspace/internal/domain/booking"
	domainfavorites "eventspace/internal/domain/favorites"
	domainreviews "eventspace/internal/domain/reviews"
	domainvenues "eventspace/internal/domain/venues"
)

var ErrUnitOfWorkNotConfigured = errors.New("postgres: unit of work factory missing pool")

// Factory opens one serializable transaction per unit. Repositories find the
// transaction through the context installed by InjectContext.
type Factory struct {
	Pool *pgxpool.Pool

	VenuesRepo    domainvenues.Repository
	BookingsRepo  domainbooking.Repository
	ReviewsRepo   domainreviews.Repository
	FavoritesRepo domainfavorites.Repository
}

func NewFactory(pool *pgxpool.Pool) Factory {
	return Factory{
		Pool:          pool,
		VenuesRepo:    NewVenueRepository(pool),
		BookingsRepo:  NewBookingRepository(pool),
		ReviewsRepo:   NewReviewsRepository(pool),
		FavoritesRepo: NewFavoritesRepository(pool),
	}
}

func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.Pool == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	txOpts := pgx.TxOptions{IsoLevel: pgx.Serializable, AccessMode: pgx.ReadWrite}
	if opts.ReadOnly {
		txOpts = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	}
	tx, err := f.Pool.BeginTx(ctx, txOpts)
	if err != nil {
		return nil, translateDBErr(err, nil)
	}
	return &Unit{
		tx:        tx,
		venues:    f.VenuesRepo,
		bookings:  f.BookingsRepo,
		reviews:   f.ReviewsRepo,
		favorites: f.FavoritesRepo,
	}, nil
}

type Unit struct {
	tx pgx.Tx

	venues    domainvenues.Repository
	bookings  domainbooking.Repository
	reviews   domainreviews.Repository
	favorites domainfavorites.Repository
}

func (u *Unit) Venues() domainvenues.Repository       { return u.venues }
func (u *Unit) Bookings() domainbooking.Repository    { return u.bookings }
func (u *Unit) Reviews() domainreviews.Repository     { return u.reviews }
func (u *Unit) Favorites() domainfavorites.Repository { return u.favorites }

func (u *Unit) Commit(ctx context.Context) error {
	return translateDBErr(u.tx.Commit(ctx), nil)
}

// Rollback is a no-op after Commit.
func (u *Unit) Rollback(ctx context.Context) error {
	if err := u.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}

func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return withTx(ctx, u.tx)
}

var _ uow.UoWFactory = Factory{}
