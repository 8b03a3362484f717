package memory

import (
	"context"
	"errors"
	"sync"

	"eventspace/internal/app/uow"
	domainbooking "eventspace/internal/domain/booking"
	domainfavorites "eventspace/internal/domain/favorites"
	domainreviews "eventspace/internal/domain/reviews"
	domainvenues "eventspace/internal/domain/venues"
)

var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Factory wires in-memory repositories into a unit-of-work boundary.
// Writable units are serialized; read-only units run concurrently. Rollback
// does not undo writes, so handlers save only after every check passed.
type Factory struct {
	VenuesRepo    domainvenues.Repository
	BookingsRepo  domainbooking.Repository
	ReviewsRepo   domainreviews.Repository
	FavoritesRepo domainfavorites.Repository

	writer *sync.Mutex
}

// NewFactory builds a factory over fresh repositories.
func NewFactory() Factory {
	return Factory{
		VenuesRepo:    NewVenueRepository(),
		BookingsRepo:  NewBookingRepository(),
		ReviewsRepo:   NewReviewsRepository(),
		FavoritesRepo: NewFavoritesRepository(),
		writer:        &sync.Mutex{},
	}
}

func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.VenuesRepo == nil || f.BookingsRepo == nil || f.ReviewsRepo == nil || f.FavoritesRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	unit := &Unit{
		venues:    f.VenuesRepo,
		bookings:  f.BookingsRepo,
		reviews:   f.ReviewsRepo,
		favorites: f.FavoritesRepo,
	}
	if !opts.ReadOnly && f.writer != nil {
		if err := lockContext(ctx, f.writer); err != nil {
			return nil, err
		}
		unit.release = f.writer.Unlock
	}
	return unit, nil
}

// lockContext acquires mu unless ctx ends first.
func lockContext(ctx context.Context, mu *sync.Mutex) error {
	if mu.TryLock() {
		return nil
	}
	acquired := make(chan struct{})
	go func() {
		mu.Lock()
		close(acquired)
	}()
	select {
	case <-acquired:
		return nil
	case <-ctx.Done():
		go func() {
			<-acquired
			mu.Unlock()
		}()
		return ctx.Err()
	}
}

type Unit struct {
	venues    domainvenues.Repository
	bookings  domainbooking.Repository
	reviews   domainreviews.Repository
	favorites domainfavorites.Repository

	once    sync.Once
	release func()
}

func (u *Unit) Venues() domainvenues.Repository       { return u.venues }
func (u *Unit) Bookings() domainbooking.Repository    { return u.bookings }
func (u *Unit) Reviews() domainreviews.Repository     { return u.reviews }
func (u *Unit) Favorites() domainfavorites.Repository { return u.favorites }

func (u *Unit) Commit(ctx context.Context) error {
	u.done()
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	u.done()
	return nil
}

func (u *Unit) done() {
	u.once.Do(func() {
		if u.release != nil {
			u.release()
		}
	})
}
