package ginserver

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	"eventspace/internal/app/commands"
	"eventspace/internal/app/dto"
	availabilityapp "eventspace/internal/app/handlers/availability"
	pricingapp "eventspace/internal/app/handlers/pricing"
	venuesapp "eventspace/internal/app/handlers/venues"
	"eventspace/internal/app/queries"
	domainvenues "eventspace/internal/domain/venues"
)

// VenueHandler serves the public catalog.
type VenueHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
	Now      func() time.Time
}

type quoteRequest struct {
	GuestCount         int      `json:"guestCount"`
	SelectedServiceIDs []string `json:"selectedServiceIds"`
}

func (h VenueHandler) Catalog(c *gin.Context) {
	filters, err := domainvenues.ParseFilters(domainvenues.RawFilters{
		Query:    c.Query("query"),
		Zone:     c.Query("zone"),
		Category: c.Query("category"),
		PriceMin: c.Query("priceMin"),
		PriceMax: c.Query("priceMax"),
		Capacity: c.Query("capacity"),
		Page:     c.Query("page"),
		PageSize: c.Query("pageSize"),
	})
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	page, err := queries.Ask[venuesapp.CatalogQuery, dto.VenuePage](c.Request.Context(), h.Queries, venuesapp.CatalogQuery{Filters: filters})
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	writeJSONWithETag(c, http.StatusOK, page)
}

func (h VenueHandler) Recommended(c *gin.Context) {
	limit, ok := optionalInt(c, "limit")
	if !ok {
		return
	}
	result, err := queries.Ask[venuesapp.RecommendedQuery, []dto.Venue](c.Request.Context(), h.Queries, venuesapp.RecommendedQuery{Limit: limit})
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	writeJSONWithETag(c, http.StatusOK, result)
}

func (h VenueHandler) Detail(c *gin.Context) {
	result, err := queries.Ask[venuesapp.DetailQuery, dto.Venue](c.Request.Context(), h.Queries, venuesapp.DetailQuery{VenueID: c.Param("id")})
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Availability defaults to the current month. Month is zero-based.
func (h VenueHandler) Availability(c *gin.Context) {
	now := h.now()
	month, ok := optionalInt(c, "month")
	if !ok {
		return
	}
	year, ok := optionalInt(c, "year")
	if !ok {
		return
	}
	if _, set := c.GetQuery("month"); !set {
		month = int(now.Month()) - 1
	}
	if _, set := c.GetQuery("year"); !set {
		year = now.Year()
	}
	query := availabilityapp.MonthQuery{VenueID: c.Param("id"), Month: month, Year: year}
	result, err := queries.Ask[availabilityapp.MonthQuery, []dto.DateAvailability](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h VenueHandler) Quote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "", err.Error())
		return
	}
	query := pricingapp.QuoteQuery{
		VenueID:            c.Param("id"),
		GuestCount:         req.GuestCount,
		SelectedServiceIDs: req.SelectedServiceIDs,
	}
	result, err := queries.Ask[pricingapp.QuoteQuery, dto.Quote](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h VenueHandler) ToggleFavorite(c *gin.Context) {
	cmd := venuesapp.ToggleFavoriteCommand{Actor: currentActor(c), VenueID: c.Param("id")}
	result, err := commands.Dispatch[venuesapp.ToggleFavoriteCommand, venuesapp.FavoriteResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h VenueHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

// optionalInt reads an integer query parameter; absent means zero. A
// malformed value aborts with 400.
func optionalInt(c *gin.Context, name string) (int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(c, name, name+" must be an integer")
		return 0, false
	}
	return v, true
}
