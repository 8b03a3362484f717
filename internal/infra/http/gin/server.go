package ginserver

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"eventspace/internal/app/commands"
	"eventspace/internal/app/queries"
	"eventspace/internal/infra/obs"
)

type Handlers struct {
	Venues   VenueHandler
	Provider ProviderHandler
	Admin    AdminHandler
	Bookings BookingHandler
	Reviews  ReviewHandler
	Me       MeHandler
}

// NewHandlers binds every HTTP handler to the same pair of buses.
func NewHandlers(cmds commands.Bus, qs queries.Bus, logger *slog.Logger) Handlers {
	return Handlers{
		Venues:   VenueHandler{Commands: cmds, Queries: qs, Logger: logger},
		Provider: ProviderHandler{Commands: cmds, Queries: qs, Logger: logger},
		Admin:    AdminHandler{Commands: cmds, Logger: logger},
		Bookings: BookingHandler{Commands: cmds, Logger: logger},
		Reviews:  ReviewHandler{Commands: cmds, Queries: qs, Logger: logger},
		Me:       MeHandler{Queries: qs, Logger: logger},
	}
}

func NewServer(addr, env string, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           NewRouter(env, obsMW, health, h),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func NewRouter(env string, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *gin.Engine {
	mode := configureGinMode(env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(obsMW.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "If-None-Match",
			IdempotencyHeader, UserIDHeader, UserRoleHeader, obs.RequestIDHeader,
		},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"ETag",
			obs.RequestIDHeader,
			IdempotencyHeader,
		},
		MaxAge: 12 * time.Hour,
	}))
	router.Use(PrincipalMiddleware())

	registerSwaggerRoutes(router)

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")

	venues := api.Group("/venues")
	venues.GET("", h.Venues.Catalog)
	venues.GET("/recommended", h.Venues.Recommended)
	venues.GET("/:id", h.Venues.Detail)
	venues.GET("/:id/availability", h.Venues.Availability)
	venues.POST("/:id/quote", h.Venues.Quote)
	venues.POST("/:id/favorite", h.Venues.ToggleFavorite)
	venues.GET("/:id/reviews", h.Reviews.ListByVenue)

	provider := api.Group("/provider/venues")
	provider.GET("", h.Provider.List)
	provider.POST("", h.Provider.Create)
	provider.PUT("/:id", h.Provider.Update)
	provider.GET("/:id/bookings", h.Provider.Bookings)

	api.POST("/admin/venues/:id/status", h.Admin.ChangeStatus)

	bookings := api.Group("/bookings")
	bookings.POST("", h.Bookings.Create)
	bookings.POST("/:id/confirm", h.Bookings.Confirm)
	bookings.POST("/:id/cancel", h.Bookings.Cancel)
	bookings.POST("/:id/complete", h.Bookings.Complete)
	bookings.POST("/:id/review", h.Reviews.Submit)
	bookings.PUT("/:id/review", h.Reviews.Update)

	me := api.Group("/me")
	me.GET("/bookings", h.Me.Bookings)
	me.GET("/favorites", h.Me.Favorites)

	return router
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
