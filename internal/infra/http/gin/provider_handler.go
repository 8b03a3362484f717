package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"eventspace/internal/app/commands"
	"eventspace/internal/app/dto"
	bookingapp "eventspace/internal/app/handlers/booking"
	venuesapp "eventspace/internal/app/handlers/venues"
	"eventspace/internal/app/queries"
	domainvenues "eventspace/internal/domain/venues"
)

// ProviderHandler lets providers manage their own venues.
type ProviderHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type venueRequest struct {
	Name           string             `json:"name"`
	Description    string             `json:"description"`
	Address        string             `json:"address"`
	Zone           string             `json:"zone"`
	Category       string             `json:"category"`
	Price          float64            `json:"price"`
	Capacity       int                `json:"capacity"`
	Images         []string           `json:"images"`
	PaymentMethods []string           `json:"paymentMethods"`
	Amenities      []string           `json:"amenities"`
	Services       []dto.VenueService `json:"services"`
}

func (r venueRequest) details() domainvenues.Details {
	methods := make([]domainvenues.PaymentMethod, 0, len(r.PaymentMethods))
	for _, m := range r.PaymentMethods {
		methods = append(methods, domainvenues.PaymentMethod(m))
	}
	return domainvenues.Details{
		Name:           r.Name,
		Description:    r.Description,
		Address:        r.Address,
		Zone:           r.Zone,
		Category:       domainvenues.Category(r.Category),
		Price:          r.Price,
		Capacity:       r.Capacity,
		Images:         r.Images,
		PaymentMethods: methods,
		Amenities:      r.Amenities,
		Services:       dto.ServicesFromDTO(r.Services),
	}
}

func (h ProviderHandler) List(c *gin.Context) {
	query := venuesapp.ProviderVenuesQuery{Actor: currentActor(c)}
	result, err := queries.Ask[venuesapp.ProviderVenuesQuery, []dto.Venue](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ProviderHandler) Create(c *gin.Context) {
	var req venueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "", err.Error())
		return
	}
	cmd := venuesapp.CreateVenueCommand{Actor: currentActor(c), Details: req.details()}
	result, err := commands.Dispatch[venuesapp.CreateVenueCommand, dto.Venue](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h ProviderHandler) Update(c *gin.Context) {
	var req venueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "", err.Error())
		return
	}
	cmd := venuesapp.UpdateVenueCommand{Actor: currentActor(c), VenueID: c.Param("id"), Details: req.details()}
	result, err := commands.Dispatch[venuesapp.UpdateVenueCommand, dto.Venue](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ProviderHandler) Bookings(c *gin.Context) {
	query := bookingapp.VenueBookingsQuery{
		Actor:   currentActor(c),
		VenueID: c.Param("id"),
		Status:  c.Query("status"),
	}
	result, err := queries.Ask[bookingapp.VenueBookingsQuery, dto.BookingCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
