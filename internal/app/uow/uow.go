package uow

import (
	"context"

	domainbooking "eventspace/internal/domain/booking"
	domainfavorites "eventspace/internal/domain/favorites"
	domainreviews "eventspace/internal/domain/reviews"
	domainvenues "eventspace/internal/domain/venues"
)

// UnitOfWork exposes the repositories bound to one transaction.
type UnitOfWork interface {
	Venues() domainvenues.Repository
	Bookings() domainbooking.Repository
	Reviews() domainreviews.Repository
	Favorites() domainfavorites.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
