package venues

import (
	"context"

	"eventspace/internal/app/dto"
	"eventspace/internal/app/handlers/support"
	"eventspace/internal/app/queries"
	"eventspace/internal/app/uow"
	domainvenues "eventspace/internal/domain/venues"
)

const CatalogKey = "venues.catalog"

// CatalogQuery lists public venues matching Filters.
type CatalogQuery struct {
	Filters domainvenues.SearchFilters
}

func (q CatalogQuery) Key() string          { return CatalogKey }
func (q CatalogQuery) Validate() error      { return q.Filters.Validate() }
func (q CatalogQuery) CacheKey() string     { return q.Filters.Fingerprint() }
func (q CatalogQuery) ResultPrototype() any { return &dto.VenuePage{} }

type CatalogHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *CatalogHandler) Handle(ctx context.Context, q CatalogQuery) (dto.VenuePage, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.VenuePage{}, err
	}
	defer cleanup()

	all, err := unit.Venues().All(ctx)
	if err != nil {
		return dto.VenuePage{}, err
	}
	return dto.MapVenuePage(domainvenues.List(all, q.Filters)), nil
}

var _ queries.Handler[CatalogQuery, dto.VenuePage] = (*CatalogHandler)(nil)
