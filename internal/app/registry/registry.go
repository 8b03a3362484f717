// Package registry binds every command and query handler to its bus key and
// assembles the middleware pipelines around them.
package registry

import (
	"log/slog"
	"time"

	"eventspace/internal/app/commands"
	availabilityapp "eventspace/internal/app/handlers/availability"
	bookingapp "eventspace/internal/app/handlers/booking"
	pricingapp "eventspace/internal/app/handlers/pricing"
	reviewsapp "eventspace/internal/app/handlers/reviews"
	"eventspace/internal/app/handlers/support"
	venuesapp "eventspace/internal/app/handlers/venues"
	"eventspace/internal/app/middleware"
	"eventspace/internal/app/outbox"
	"eventspace/internal/app/queries"
	"eventspace/internal/app/uow"
	domainpricing "eventspace/internal/domain/pricing"
)

// Deps are shared by every handler.
type Deps struct {
	UoWFactory       uow.UoWFactory
	Outbox           outbox.Outbox
	Encoder          outbox.EventEncoder
	Clock            support.Clock
	Logger           *slog.Logger
	RecommendedLimit int
}

// Pipeline configures the middleware around the buses. A nil Cache disables
// query caching.
type Pipeline struct {
	Idempotency    middleware.IdempotencyStore
	IdempotencyTTL time.Duration
	Cache          middleware.CacheStore
	CacheTTL       time.Duration
}

// Buses are the middleware-wrapped entry points handed to transports.
type Buses struct {
	Commands commands.Bus
	Queries  queries.Bus
}

func RegisterCommands(bus *commands.InMemoryBus, d Deps) {
	encoder := d.encoder()
	commands.RegisterHandler(bus, venuesapp.CreateVenueKey, &venuesapp.CreateVenueHandler{
		UoWFactory: d.UoWFactory, Outbox: d.Outbox, Encoder: encoder, Clock: d.Clock, Logger: d.Logger,
	})
	commands.RegisterHandler(bus, venuesapp.UpdateVenueKey, &venuesapp.UpdateVenueHandler{
		UoWFactory: d.UoWFactory, Outbox: d.Outbox, Encoder: encoder, Clock: d.Clock,
	})
	commands.RegisterHandler(bus, venuesapp.ChangeStatusKey, &venuesapp.ChangeStatusHandler{
		UoWFactory: d.UoWFactory, Outbox: d.Outbox, Encoder: encoder, Clock: d.Clock, Logger: d.Logger,
	})
	commands.RegisterHandler(bus, venuesapp.ToggleFavoriteKey, &venuesapp.ToggleFavoriteHandler{
		UoWFactory: d.UoWFactory, Outbox: d.Outbox, Encoder: encoder, Clock: d.Clock,
	})
	commands.RegisterHandler(bus, bookingapp.RequestBookingKey, &bookingapp.RequestBookingHandler{
		UoWFactory: d.UoWFactory, Engine: domainpricing.Engine{}, Outbox: d.Outbox, Encoder: encoder, Clock: d.Clock, Logger: d.Logger,
	})
	transitions := &bookingapp.TransitionHandler{
		UoWFactory: d.UoWFactory, Outbox: d.Outbox, Encoder: encoder, Clock: d.Clock, Logger: d.Logger,
	}
	for _, key := range []string{bookingapp.ConfirmBookingKey, bookingapp.CancelBookingKey, bookingapp.CompleteBookingKey} {
		commands.RegisterHandler(bus, key, transitions)
	}
	commands.RegisterHandler(bus, reviewsapp.SubmitReviewKey, &reviewsapp.SubmitReviewHandler{
		UoWFactory: d.UoWFactory, Outbox: d.Outbox, Encoder: encoder, Clock: d.Clock, Logger: d.Logger,
	})
	commands.RegisterHandler(bus, reviewsapp.UpdateReviewKey, &reviewsapp.UpdateReviewHandler{
		UoWFactory: d.UoWFactory, Outbox: d.Outbox, Encoder: encoder, Clock: d.Clock, Logger: d.Logger,
	})
}

func RegisterQueries(bus *queries.InMemoryBus, d Deps) {
	queries.RegisterHandler(bus, venuesapp.CatalogKey, &venuesapp.CatalogHandler{UoWFactory: d.UoWFactory})
	queries.RegisterHandler(bus, venuesapp.DetailKey, &venuesapp.DetailHandler{UoWFactory: d.UoWFactory})
	queries.RegisterHandler(bus, venuesapp.RecommendedKey, &venuesapp.RecommendedHandler{
		UoWFactory: d.UoWFactory, DefaultLimit: d.RecommendedLimit,
	})
	queries.RegisterHandler(bus, venuesapp.ProviderVenuesKey, &venuesapp.ProviderVenuesHandler{UoWFactory: d.UoWFactory})
	queries.RegisterHandler(bus, venuesapp.UserFavoritesKey, &venuesapp.UserFavoritesHandler{UoWFactory: d.UoWFactory})
	queries.RegisterHandler(bus, availabilityapp.MonthKey, &availabilityapp.MonthHandler{UoWFactory: d.UoWFactory, Clock: d.Clock})
	queries.RegisterHandler(bus, pricingapp.QuoteKey, &pricingapp.QuoteHandler{UoWFactory: d.UoWFactory, Engine: domainpricing.Engine{}})
	queries.RegisterHandler(bus, bookingapp.ClientBookingsKey, &bookingapp.ClientBookingsHandler{UoWFactory: d.UoWFactory, Clock: d.Clock})
	queries.RegisterHandler(bus, bookingapp.VenueBookingsKey, &bookingapp.VenueBookingsHandler{UoWFactory: d.UoWFactory})
	queries.RegisterHandler(bus, reviewsapp.ListVenueReviewsKey, &reviewsapp.ListVenueReviewsHandler{UoWFactory: d.UoWFactory})
}

// Build registers every handler and wraps the buses. The outbox flush sits
// outside the transaction so it sees committed records.
func Build(d Deps, p Pipeline) Buses {
	commandBus := commands.NewInMemoryBus()
	RegisterCommands(commandBus, d)
	queryBus := queries.NewInMemoryBus()
	RegisterQueries(queryBus, d)

	cmdMW := []middleware.CommandMiddleware{
		middleware.Authorization(middleware.ActorAuthorizer{}),
		middleware.Validation(middleware.SelfValidator{}),
	}
	if p.Idempotency != nil {
		cmdMW = append(cmdMW, middleware.Idempotency(p.Idempotency, middleware.JSONResultCodec{}, p.IdempotencyTTL))
	}
	if p.Cache != nil {
		cmdMW = append(cmdMW, middleware.InvalidateCache(p.Cache, d.Logger))
	}
	if d.Outbox != nil {
		cmdMW = append(cmdMW, middleware.OutboxFlush(d.Outbox, d.Logger))
	}
	cmdMW = append(cmdMW, middleware.Transaction(d.UoWFactory, nil))

	queryMW := []middleware.QueryMiddleware{
		middleware.QueryAuthorization(middleware.ActorAuthorizer{}),
		middleware.QueryValidation(middleware.SelfValidator{}),
	}
	if p.Cache != nil {
		queryMW = append(queryMW, middleware.Cache(p.Cache, p.CacheTTL, d.Logger))
	}

	return Buses{
		Commands: middleware.ChainCommands(commandBus, cmdMW...),
		Queries:  middleware.ChainQueries(queryBus, queryMW...),
	}
}

func (d Deps) encoder() outbox.EventEncoder {
	if d.Encoder != nil {
		return d.Encoder
	}
	return outbox.JSONEventEncoder{}
}
