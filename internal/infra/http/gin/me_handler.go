package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"eventspace/internal/app/dto"
	bookingapp "eventspace/internal/app/handlers/booking"
	venuesapp "eventspace/internal/app/handlers/venues"
	"eventspace/internal/app/queries"
)

// MeHandler serves the caller's own collections.
type MeHandler struct {
	Queries queries.Bus
	Logger  *slog.Logger
}

func (h MeHandler) Bookings(c *gin.Context) {
	query := bookingapp.ClientBookingsQuery{Actor: currentActor(c)}
	result, err := queries.Ask[bookingapp.ClientBookingsQuery, dto.BookingCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h MeHandler) Favorites(c *gin.Context) {
	query := venuesapp.UserFavoritesQuery{Actor: currentActor(c)}
	result, err := queries.Ask[venuesapp.UserFavoritesQuery, []dto.Venue](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
